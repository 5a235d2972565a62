package generic

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/registry"
	"github.com/FishingHacks/redstart/internal/rsproj"
	"github.com/stretchr/testify/require"
)

func newCall(t *testing.T, cwd string, options rsproj.ConfigMap) *registry.Call {
	t.Helper()

	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.ValidateRegistry(testContext(&bytes.Buffer{})))

	entry, _ := r.Lookup("@build/generic")
	input, err := entry.DecodeOptions(options)
	require.NoError(t, err)

	return &registry.Call{Options: options, Input: input, Cwd: cwd, Out: &bytes.Buffer{}}
}

func testContext(logs *bytes.Buffer) context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(logs, nil)))
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}
}

func TestGeneric_RunsInCwd(t *testing.T) {
	t.Parallel()
	requireShell(t)

	// --- Arrange ---
	dir := t.TempDir()
	call := newCall(t, dir, rsproj.ConfigMap{
		"command":   rsproj.Single(rsproj.Str("sh")),
		"arguments": rsproj.Array(rsproj.Str("-c"), rsproj.Str("echo built > out.txt && echo done")),
	})
	logs := &bytes.Buffer{}

	// --- Act ---
	err := (&Module{}).Initiate(testContext(logs), call)

	// --- Assert ---
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	require.Equal(t, "built\n", string(data))
	require.Contains(t, logs.String(), "output=done")
}

func TestGeneric_NonZeroExitFails(t *testing.T) {
	t.Parallel()
	requireShell(t)

	call := newCall(t, t.TempDir(), rsproj.ConfigMap{
		"command":   rsproj.Single(rsproj.Str("sh")),
		"arguments": rsproj.Array(rsproj.Str("-c"), rsproj.Str("exit 3")),
	})

	err := (&Module{}).Initiate(testContext(&bytes.Buffer{}), call)

	require.ErrorContains(t, err, "error during build: sh")
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 3, exitErr.ExitCode())
}

func TestGeneric_NumbersBecomeArguments(t *testing.T) {
	t.Parallel()

	call := newCall(t, t.TempDir(), rsproj.ConfigMap{
		"command":   rsproj.Single(rsproj.Str("gcc")),
		"arguments": rsproj.Array(rsproj.Str("-O"), rsproj.Num(2), rsproj.Bool(false)),
	})

	require.Equal(t, []string{"-O", "2", "false"}, call.Input.(*Input).Arguments)
}

func TestGeneric_Validate(t *testing.T) {
	t.Parallel()

	call := newCall(t, t.TempDir(), rsproj.ConfigMap{"command": rsproj.Single(rsproj.Str("  "))})

	err := (&Module{}).Validate(testContext(&bytes.Buffer{}), call)

	require.EqualError(t, err, "command must not be empty")
}
