package typescript

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/registry"
	"github.com/FishingHacks/redstart/internal/rsproj"
	"github.com/FishingHacks/redstart/internal/toolchain"
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
	entry, _ := r.Lookup("@build/typescript")
	input, err := entry.DecodeOptions(options)
	require.NoError(t, err)

	return &registry.Call{Options: options, Input: input, Cwd: cwd}
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o600))
	}
}

type fakeTsc struct {
	cmds []toolchain.Command
	fail bool
}

func (f *fakeTsc) run(ctx context.Context, cmd toolchain.Command) (string, error) {
	f.cmds = append(f.cmds, cmd)
	if f.fail && cmd.Args[0] != "-v" {
		return "src/a.ts(1,1): error TS1005", errors.New("exit status 2")
	}
	return "", nil
}

func TestBuildTypescript_SourceFiles(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cwd := t.TempDir()
	touch(t, cwd, "src/index.ts", "src/lib/util.ts", "src/types.d.ts", "src/node_modules/x/y.ts", "src/old.js")
	tsc := &fakeTsc{}
	call := newCall(t, cwd, rsproj.ConfigMap{
		"sourceDirectory": rsproj.Single(rsproj.Str("src")),
		"buildDirectory":  rsproj.Single(rsproj.Str("dist")),
		"allowJSFiles":    rsproj.Single(rsproj.Bool(true)),
	})

	// --- Act ---
	require.NoError(t, (&Module{}).Validate(testContext(), call))
	err := (&Module{Run: tsc.run}).Initiate(testContext(), call)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, tsc.cmds, 2)
	require.Equal(t, []string{"-v"}, tsc.cmds[0].Args)
	require.Equal(t, filepath.Join(cwd, "src"), tsc.cmds[1].Dir)
	require.Equal(t, []string{
		"--outDir", filepath.Join(cwd, "dist"),
		"--allowJs",
		"--pretty",
		filepath.Join(cwd, "src", "index.ts"),
		filepath.Join(cwd, "src", "lib", "util.ts"),
	}, tsc.cmds[1].Args)
	require.DirExists(t, filepath.Join(cwd, "dist"))
}

func TestBuildTypescript_ConfigFile(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()
	tsc := &fakeTsc{}
	call := newCall(t, cwd, rsproj.ConfigMap{"configFile": rsproj.Single(rsproj.Str("tsconfig.json"))})

	err := (&Module{Run: tsc.run}).Initiate(testContext(), call)

	require.NoError(t, err)
	require.Equal(t, []string{"-p", "tsconfig.json", "--outDir", cwd, "--pretty"}, tsc.cmds[1].Args)
}

func TestBuildTypescript_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		files   []string
		options rsproj.ConfigMap
		fail    bool
		wantErr string
	}{
		{
			name:    "missing source directory",
			options: rsproj.ConfigMap{"sourceDirectory": rsproj.Single(rsproj.Str("nope"))},
			wantErr: "doesn't exist",
		},
		{
			name:    "no typescript files",
			files:   []string{"a.d.ts"},
			options: rsproj.ConfigMap{},
			wantErr: "no typescript files found in",
		},
		{
			name:    "compiler error",
			files:   []string{"a.ts"},
			options: rsproj.ConfigMap{},
			fail:    true,
			wantErr: "error running the compiler: exit status 2",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cwd := t.TempDir()
			touch(t, cwd, tc.files...)
			call := newCall(t, cwd, tc.options)

			err := (&Module{Run: (&fakeTsc{fail: tc.fail}).run}).Initiate(testContext(), call)

			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestBuildTypescript_Validate(t *testing.T) {
	t.Parallel()

	call := newCall(t, t.TempDir(), rsproj.ConfigMap{"configFile": rsproj.Single(rsproj.Str(""))})

	require.EqualError(t, (&Module{}).Validate(testContext(), call), "configFile must not be empty when set")
}
