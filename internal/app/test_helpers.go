package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/mediagrid/internal/testutil"
)

// SetupAppTest writes graph files into a temporary directory and creates an
// App for them. Media capabilities run against a FakeBackend unless opts
// replace it. Debug logs are captured in the returned buffer and echoed to
// the test log when MEDIAGRID_TEST_LOGS=true.
func SetupAppTest(t *testing.T, files map[string]string, opts ...Option) (*App, *testutil.SafeBuffer) {
	t.Helper()

	graphDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(graphDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create graph dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write graph file: %v", err)
		}
	}

	cfg, err := NewConfig(Config{
		GraphPaths:  []string{graphDir},
		ScratchDir:  t.TempDir(),
		Workers:     4,
		LogFormat:   "text",
		LogLevel:    "debug",
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		Profile:     "balanced",
	})
	if err != nil {
		t.Fatalf("invalid test config: %v", err)
	}

	logBuffer := &testutil.SafeBuffer{}
	opts = append([]Option{WithBackend(testutil.NewFakeBackend())}, opts...)
	testApp := NewApp(logBuffer, cfg, opts...)

	t.Cleanup(func() {
		if os.Getenv("MEDIAGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}

// Config returns the configuration the App was created with.
func (a *App) Config() *Config {
	return a.config
}
