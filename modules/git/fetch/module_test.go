package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/registry"
	"github.com/FishingHacks/redstart/internal/rsproj"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newCall(t *testing.T, cwd string, options rsproj.ConfigMap) *registry.Call {
	t.Helper()

	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.ValidateRegistry(testContext()))
	entry, _ := r.Lookup("@git/fetch")
	input, err := entry.DecodeOptions(options)
	require.NoError(t, err)

	return &registry.Call{Options: options, Input: input, Cwd: cwd}
}

// fakeGit records every command and fails the ones listed in fail.
type fakeGit struct {
	calls []string
	fail  map[string]bool
}

func (f *fakeGit) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := strings.Join(args, " ")
	f.calls = append(f.calls, cmd)
	if f.fail[cmd] {
		return "boom", errors.New("exit status 1")
	}
	return "", nil
}

func TestFetch_Commands(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		options   rsproj.ConfigMap
		fail      map[string]bool
		wantCalls []string
		wantErr   string
	}{
		{
			name:    "fresh directory",
			options: rsproj.ConfigMap{"repository": rsproj.Single(rsproj.Str("https://example.com/r.git"))},
			fail:    map[string]bool{"remote get-url origin": true},
			wantCalls: []string{
				"version",
				"remote get-url origin",
				"init",
				"remote add origin https://example.com/r.git",
				"fetch origin",
				"pull origin HEAD",
			},
		},
		{
			name: "existing repository with branch",
			options: rsproj.ConfigMap{
				"repository": rsproj.Single(rsproj.Str("https://example.com/r.git")),
				"branch":     rsproj.Single(rsproj.Str("dev")),
			},
			fail: map[string]bool{"remote add origin https://example.com/r.git": true},
			wantCalls: []string{
				"version",
				"remote get-url origin",
				"remote add origin https://example.com/r.git",
				"fetch origin",
				"checkout dev",
				"pull origin dev",
			},
		},
		{
			name:      "git missing",
			options:   rsproj.ConfigMap{"repository": rsproj.Single(rsproj.Str("x"))},
			fail:      map[string]bool{"version": true},
			wantCalls: []string{"version"},
			wantErr:   "git is not installed",
		},
		{
			name: "unknown branch",
			options: rsproj.ConfigMap{
				"repository": rsproj.Single(rsproj.Str("x")),
				"branch":     rsproj.Single(rsproj.Str("nope")),
			},
			fail:      map[string]bool{"checkout nope": true},
			wantCalls: []string{"version", "remote get-url origin", "remote add origin x", "fetch origin", "checkout nope"},
			wantErr:   "branch nope not found",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			git := &fakeGit{fail: tc.fail}
			m := &Module{Git: git.run}
			call := newCall(t, t.TempDir(), tc.options)
			var phases []string
			call.Start = func(name string) func() {
				phases = append(phases, name)
				return func() {}
			}

			// --- Act ---
			err := m.Initiate(testContext(), call)

			// --- Assert ---
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.wantCalls, git.calls)
			require.Equal(t, "checking git", phases[0])
		})
	}
}

func TestFetch_Validate(t *testing.T) {
	t.Parallel()

	call := newCall(t, t.TempDir(), rsproj.ConfigMap{
		"repository": rsproj.Single(rsproj.Str("x")),
		"branch":     rsproj.Single(rsproj.Str(" ")),
	})

	err := (&Module{}).Validate(testContext(), call)

	require.EqualError(t, err, "branch must not be empty when set")
}

func TestFetch_LocalRepository(t *testing.T) {
	t.Parallel()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not available")
	}

	// --- Arrange ---
	ctx := testContext()
	remote := t.TempDir()
	for _, args := range [][]string{
		{"init"},
		{"-c", "user.name=test", "-c", "user.email=test@example.com", "commit", "--allow-empty", "-m", "init"},
	} {
		out, err := execGit(ctx, remote, args...)
		require.NoError(t, err, out)
	}
	require.NoError(t, os.WriteFile(filepath.Join(remote, "README"), []byte("hi"), 0o600))
	for _, args := range [][]string{
		{"add", "README"},
		{"-c", "user.name=test", "-c", "user.email=test@example.com", "commit", "-m", "readme"},
	} {
		out, err := execGit(ctx, remote, args...)
		require.NoError(t, err, out)
	}

	dir := t.TempDir()
	call := newCall(t, dir, rsproj.ConfigMap{"repository": rsproj.Single(rsproj.Str(remote))})

	// --- Act ---
	err := (&Module{}).Initiate(ctx, call)

	// --- Assert ---
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "README"))
	require.NoError(t, err)
	require.Equal(t, "hi", string(data))
}
