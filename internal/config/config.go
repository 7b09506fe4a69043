package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "bookkit.yaml"

// Config holds all bookkit configuration.
type Config struct {
	// Ebook assembly and build-directory staging
	Ebook EbookConfig `yaml:"ebook"`

	// Public example-code repository maintenance
	GitHub GitHubConfig `yaml:"github"`

	// Example validation (run script, output capture, comparison)
	Validation ValidateConfig `yaml:"validate"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
// Relative paths are resolved against the working directory of the process.
func DefaultConfig() *Config {
	return &Config{
		Ebook:      DefaultEbookConfig(),
		GitHub:     DefaultGitHubConfig(),
		Validation: DefaultValidateConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Defaults plus environment when there is no config file
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("BOOKKIT_EXAMPLES"); dir != "" {
		c.Validation.ExampleDir = dir
		c.GitHub.ExampleDir = dir
	}
	if dir := os.Getenv("BOOKKIT_GITHUB_DIR"); dir != "" {
		c.GitHub.CodeDir = dir
	}
	if dir := os.Getenv("BOOKKIT_BUILD_DIR"); dir != "" {
		c.Ebook.BuildDir = dir
	}
	if level := os.Getenv("BOOKKIT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate checks the configuration for values that would make every
// command fail in a confusing way.
func (c *Config) Validate() error {
	if c.Validation.MaxLineWidth <= 0 {
		return fmt.Errorf("validate.max_line_width must be positive, got %d", c.Validation.MaxLineWidth)
	}
	if c.Validation.Extension == "" {
		return fmt.Errorf("validate.extension is required")
	}
	if c.Validation.Launcher == "" {
		return fmt.Errorf("validate.launcher is required")
	}
	switch c.Validation.Dialect {
	case "", "sh", "powershell":
	default:
		return fmt.Errorf("validate.dialect %q is not one of sh, powershell", c.Validation.Dialect)
	}
	if c.Ebook.ChapterPattern == "" {
		return fmt.Errorf("ebook.chapter_pattern is required")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
