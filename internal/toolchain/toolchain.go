package toolchain

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
)

// Command is one invocation of an external program.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the current one.
	Dir string
	// Env holds KEY=VALUE pairs added on top of the current environment.
	Env []string
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// RunFunc runs a command and returns its combined, trimmed output.
type RunFunc func(ctx context.Context, cmd Command) (string, error)

// Exec runs cmd as a child process.
func Exec(ctx context.Context, c Command) (string, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return strings.TrimRight(out.String(), "\n"), err
}

// Or returns run, or Exec when run is nil.
func Or(run RunFunc) RunFunc {
	if run != nil {
		return run
	}
	return Exec
}

// FindFiles walks root and returns the regular files whose name ends in one
// of exts, sorted. node_modules directories are skipped.
func FindFiles(root string, exts ...string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "node_modules" && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if slices.ContainsFunc(exts, func(ext string) bool { return strings.HasSuffix(d.Name(), ext) }) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// ParseEnv reads KEY=VALUE lines. Keys and values are trimmed, a value may
// itself contain '=' and blank lines are skipped.
func ParseEnv(data string) []string {
	var env []string
	for _, line := range strings.Split(data, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, _ := strings.Cut(line, "=")
		env = append(env, strings.TrimSpace(key)+"="+strings.TrimSpace(value))
	}
	return env
}
