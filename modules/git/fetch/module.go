package fetch

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/registry"
)

//go:embed manifest.hcl
var manifest []byte

// GitFunc runs git with args in dir and returns its combined output.
type GitFunc func(ctx context.Context, dir string, args ...string) (string, error)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Git runs git commands. Nil means the git binary on PATH.
	Git GitFunc
}

// Input defines the options of a @git/fetch step.
type Input struct {
	Repository string  `cty:"repository"`
	Branch     *string `cty:"branch"`
}

func execGit(ctx context.Context, dir string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return strings.TrimSpace(out.String()), err
}

func (m *Module) git() GitFunc {
	if m.Git != nil {
		return m.Git
	}
	return execGit
}

// Validate rejects an empty repository URL or branch name.
func (m *Module) Validate(ctx context.Context, call *registry.Call) error {
	input := call.Input.(*Input)
	if strings.TrimSpace(input.Repository) == "" {
		return errors.New("repository must not be empty")
	}
	if input.Branch != nil && strings.TrimSpace(*input.Branch) == "" {
		return errors.New("branch must not be empty when set")
	}
	return nil
}

// Initiate makes sure the step directory is a git repository with the
// remote as origin, pulls it and optionally checks out a branch.
func (m *Module) Initiate(ctx context.Context, call *registry.Call) error {
	input := call.Input.(*Input)
	logger := ctxlog.FromContext(ctx)
	git := m.git()
	start := call.Phase

	end := start("checking git")
	_, err := git(ctx, call.Cwd, "version")
	end()
	if err != nil {
		return fmt.Errorf("git is not installed: %w", err)
	}

	if _, err := git(ctx, call.Cwd, "remote", "get-url", "origin"); err != nil {
		end := start("initializing repository")
		out, err := git(ctx, call.Cwd, "init")
		end()
		if err != nil {
			return fmt.Errorf("couldn't initialize git repository: %w: %s", err, out)
		}
		logger.Info("Initialized git repository.", "cwd", call.Cwd)
	}

	end = start("fetching repository")
	defer end()

	if out, err := git(ctx, call.Cwd, "remote", "add", "origin", input.Repository); err != nil {
		logger.Debug("Remote origin not added.", "output", out)
	}
	if out, err := git(ctx, call.Cwd, "fetch", "origin"); err != nil {
		return fmt.Errorf("couldn't fetch remote repository: %w: %s", err, out)
	}

	ref := "HEAD"
	if input.Branch != nil {
		ref = *input.Branch
		if out, err := git(ctx, call.Cwd, "checkout", ref); err != nil {
			return fmt.Errorf("branch %s not found: %w: %s", ref, err, out)
		}
	}
	if out, err := git(ctx, call.Cwd, "pull", "origin", ref); err != nil {
		return fmt.Errorf("couldn't fetch remote repository: %w: %s", err, out)
	}

	logger.Info("Successfully fetched remote repository.", "repository", input.Repository, "ref", ref)
	return nil
}

// Register registers the module with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Registration{
		Manifest: manifest,
		NewInput: func() any { return new(Input) },
		Module:   m,
	})
}
