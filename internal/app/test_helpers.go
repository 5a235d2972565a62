package app

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/FishingHacks/redstart/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteProject writes a project file named main.rsproj into a fresh
// temporary directory and returns the file's path.
func WriteProject(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "main.rsproj")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write project file: %v", err)
	}
	return path
}

// SetupAppTest creates a new app instance for system testing. It returns
// the app together with the buffers receiving module output and logs.
func SetupAppTest(t *testing.T, cfg *Config, modules ...registry.Registrar) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	out := &SafeBuffer{}
	logs := &SafeBuffer{}
	cfg.LogLevel = "debug"
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	testApp := NewApp(out, logs, cfg, modules...)

	t.Cleanup(func() {
		if os.Getenv("REDSTART_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return testApp, out, logs
}
