package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/energridgo/internal/app"
	"github.com/vk/energridgo/internal/engine"
	"github.com/vk/energridgo/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	Result    *engine.Result
}

// RunNetworkTest writes files into a temporary network directory, loads it
// and builds the model with a default background context.
func RunNetworkTest(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()
	return RunNetworkTestWithConfig(context.Background(), t, files, nil)
}

// RunNetworkTestWithConfig is RunNetworkTest with a caller context and an
// optional hook adjusting the app configuration before the run.
func RunNetworkTestWithConfig(ctx context.Context, t *testing.T, files map[string]string, configure func(*app.Config)) *HarnessResult {
	t.Helper()

	networkDir := filepath.Join(t.TempDir(), "network")
	for name, content := range files {
		path := filepath.Join(networkDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	appConfig := &app.Config{
		NetworkPath: networkDir,
		LogLevel:    "debug",
		LogFormat:   "text",
		WorkerCount: 4,
	}
	if configure != nil {
		configure(appConfig)
	}

	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				if os.Getenv("ENERGRIDGO_TEST_LOGS") == "true" {
					t.Logf("--- HARNESS RECOVERED PANIC ---\n%q", fmt.Sprintf("%v", r))
				}
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, hcl.NewLoader())
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("app creation panicked: %v", panicErr),
		}
	}

	res, err := testApp.Run(ctx, appConfig)
	if os.Getenv("ENERGRIDGO_TEST_LOGS") == "true" {
		t.Logf("--- LOG OUTPUT ---\n%s", logBuffer.String())
	}
	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       err,
		App:       testApp,
		Result:    res,
	}
}
