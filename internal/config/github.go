package config

import "path/filepath"

// GitHubConfig configures maintenance of the public example-code checkout.
type GitHubConfig struct {
	CodeDir        string   `yaml:"code_dir"`        // Local checkout of the public repository
	ExampleDir     string   `yaml:"example_dir"`     // Freshly extracted example tree
	Exclude        []string `yaml:"exclude"`         // Top-level names in CodeDir that survive a clean
	Extensions     []string `yaml:"extensions"`      // Files that receive the copyright header
	CopyrightLines []string `yaml:"copyright_lines"` // Header text, without comment markers
	ExtractCommand []string `yaml:"extract_command"` // Optional command that regenerates ExampleDir
}

// DefaultGitHubConfig returns the layout of the example-code repository.
func DefaultGitHubConfig() GitHubConfig {
	return GitHubConfig{
		CodeDir:    "on-java-examples",
		ExampleDir: "ExtractedExamples",
		Exclude: []string{
			"build.gradle",
			"gradlew",
			"gradlew.bat",
			"gradle",
			"appveyor.yml",
		},
		Extensions: []string{"java", "py", "cpp", "go"},
		CopyrightLines: []string{
			"(c)2016 MindView LLC: see Copyright.txt",
			"We make no guarantees that this code is fit for any purpose.",
			"Visit http://mindviewinc.com/Books/OnJava/ for more book information.",
		},
	}
}

func joinUnder(dir, name string) string {
	if filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
