package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/FishingHacks/redstart/internal/app"
	"github.com/FishingHacks/redstart/internal/registry"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	// Dir is the temporary project directory.
	Dir       string
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, job string, modules ...registry.Registrar) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, job, modules...)
}

// RunIntegrationTestWithContext writes files into a temporary project
// directory, builds an app with the given modules (the core modules when
// none are given) and runs job from that directory.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, job string, modules ...registry.Registrar) *HarnessResult {
	t.Helper()

	// 1. Write all files. Relative paths like "sub/x.txt" create their
	//    directories inside the project directory.
	dir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	cfg := &app.Config{
		ProjectPath: dir,
		Job:         job,
		LogLevel:    "debug",
		LogFormat:   "text",
		ProfileDir:  dir,
	}

	out := &app.SafeBuffer{}
	logBuffer := &app.SafeBuffer{}

	// 2. Build the app. A registry that fails validation panics.
	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				if os.Getenv("REDSTART_TEST_LOGS") == "true" {
					t.Logf("--- HARNESS RECOVERED PANIC ---\n%q", fmt.Sprintf("%v", r))
				}
				panicErr = r
			}
		}()
		testApp = app.NewApp(out, logBuffer, cfg, modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			Dir:       dir,
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	// 3. Run the job.
	runErr := testApp.Run(ctx)

	if os.Getenv("REDSTART_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		Dir:       dir,
		Output:    out.String(),
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}
