package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookkit/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, cfg config.LoggingConfig) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core), cfg)
	t.Cleanup(func() { Use(zap.NewNop(), config.LoggingConfig{}) })
	return logs
}

func TestGet_NamesLoggerByCategory(t *testing.T) {
	logs := observe(t, config.LoggingConfig{})

	Get(CategoryScan).Infow("scanned", "files", 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "scan", entries[0].LoggerName)
	assert.Equal(t, "scanned", entries[0].Message)
	assert.EqualValues(t, 3, entries[0].ContextMap()["files"])
}

func TestGet_DisabledCategoryIsSilent(t *testing.T) {
	logs := observe(t, config.LoggingConfig{Categories: map[string]bool{"compare": false}})

	Get(CategoryCompare).Info("hidden")
	Get(CategoryEbook).Info("shown")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ebook", entries[0].LoggerName)
}

func TestInitialize_RejectsBadLevel(t *testing.T) {
	err := Initialize(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestInitialize_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookkit.log")
	require.NoError(t, Initialize(config.LoggingConfig{Level: "debug", Format: "json", File: path}))
	t.Cleanup(func() { Use(zap.NewNop(), config.LoggingConfig{}) })

	Get(CategoryBoot).Debugw("boot complete", "version", "test")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "boot complete"), "log file should contain the entry: %s", data)
}
