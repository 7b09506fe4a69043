// Package logging provides config-driven categorized logging for bookkit.
// Every category is a named child of one process-wide zap logger.
// Logs go to stderr (and optionally a file); reports meant for the user are
// printed by the commands themselves and never pass through here.
package logging

import (
	"fmt"
	"sync"

	"bookkit/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config loading
	CategoryConfig  Category = "config"  // Config resolution
	CategoryEbook   Category = "ebook"   // Chapter assembly, build dir staging
	CategoryGitHub  Category = "github"  // Example repository maintenance
	CategoryScan    Category = "scan"    // Example discovery
	CategoryScript  Category = "script"  // Run script generation
	CategoryCompare Category = "compare" // Captured output comparison
	CategoryCLI     Category = "cli"     // Command dispatch
)

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	current config.LoggingConfig
)

// Initialize builds the process-wide logger from cfg.
// Should be called once at startup, before any Get.
func Initialize(cfg config.LoggingConfig) error {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.DisableStacktrace = true

	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zcfg.Level = level
	} else {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	zcfg.OutputPaths = []string{"stderr"}
	if cfg.File != "" {
		zcfg.OutputPaths = append(zcfg.OutputPaths, cfg.File)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	Use(logger, cfg)
	return nil
}

// Use installs an already built logger. Tests pass an observer-backed logger here.
func Use(logger *zap.Logger, cfg config.LoggingConfig) {
	mu.Lock()
	defer mu.Unlock()
	base = logger
	current = cfg
}

// Get returns a logger for the given category.
// Disabled categories get a no-op logger.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()

	if !current.IsCategoryEnabled(string(category)) {
		return zap.NewNop().Sugar()
	}
	return base.Named(string(category)).Sugar()
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}
