package log

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Environment: EnvironmentProduction, Level: "verbose"})
	require.ErrorContains(t, err, "error on setting log level")
}

func TestInit_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrpcd.log")

	require.NoError(t, Init(Config{
		Environment: EnvironmentProduction,
		Level:       "info",
		Outputs:     []string{path},
	}))
	t.Cleanup(func() { root.Store(nil) })

	Debugf("hidden %d", 1)
	Infof("listener resolved: %s", "127.0.0.1:17110")
	WithFields("module", "test").Warn("careful")
	Error("failed: ", errors.New("boom"))
	require.NoError(t, get().Sync())

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(out), "hidden")
	require.Contains(t, string(out), "listener resolved: 127.0.0.1:17110")
	require.Contains(t, string(out), `"module":"test"`)
	require.Contains(t, string(out), "failed: boom")
	require.Contains(t, string(out), "log_test.go")
}

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	root.Store(zap.New(core, zap.AddCaller()).Sugar().WithOptions(zap.AddCallerSkip(1)))
	t.Cleanup(func() { root.Store(nil) })

	return logs
}

func contextValue(entry observer.LoggedEntry, key string) (string, bool) {
	for _, f := range entry.Context {
		if f.Key == key && f.Type == zapcore.StringType {
			return f.String, true
		}
	}

	return "", false
}

func TestStackTraces(t *testing.T) {
	logs := observe(t)

	Error("resolve failed: ", errors.New("boom"))
	Errorf("resolve failed: %v", errors.New("bang"))
	Errorf("nothing wrong with %s", "this")
	Info("plain ", "message")
	WithFields("module", "listeners").Infof("wrpc %s listener disabled", "json")

	entries := logs.AllUntimed()
	require.Len(t, entries, 5)

	// Error appends the stack trace to the message
	require.Equal(t, zap.ErrorLevel, entries[0].Level)
	require.Contains(t, entries[0].Message, "resolve failed: boom\n")
	require.Contains(t, entries[0].Message, "log_test.go")
	require.Contains(t, entries[0].Caller.File, "log_test.go")

	// Errorf logs it as a field and keeps the message intact
	require.Equal(t, "resolve failed: bang", entries[1].Message)
	trace, ok := contextValue(entries[1], "stacktrace")
	require.True(t, ok)
	require.Contains(t, trace, "log_test.go")
	require.Contains(t, entries[1].Caller.File, "log_test.go")

	// no error argument, no stack trace
	require.Equal(t, "nothing wrong with this", entries[2].Message)
	_, ok = contextValue(entries[2], "stacktrace")
	require.False(t, ok)
	require.Equal(t, "plain message", entries[3].Message)
	require.Empty(t, entries[3].Context)

	// WithFields adds its fields and reports the real caller
	require.Equal(t, "wrpc json listener disabled", entries[4].Message)
	module, ok := contextValue(entries[4], "module")
	require.True(t, ok)
	require.Equal(t, "listeners", module)
	require.Contains(t, entries[4].Caller.File, "log_test.go")
}
