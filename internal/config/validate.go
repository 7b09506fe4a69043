package config

// ExpectedExceptionMarker is appended to an error artifact by the run script
// when the example is flagged as throwing on purpose.
const ExpectedExceptionMarker = "___[ Exception is Expected ]___"

// ValidateConfig configures example scanning, the generated run script and
// output comparison.
type ValidateConfig struct {
	ExampleDir   string `yaml:"example_dir"`
	Extension    string `yaml:"extension"`      // Source extension of runnable examples, with dot
	MaxLineWidth int    `yaml:"max_line_width"` // Wrap width for output blocks and the width check

	// Run script
	Launcher  string   `yaml:"launcher"`   // Default program used to run an example
	RunScript string   `yaml:"run_script"` // Written into ExampleDir
	Dialect   string   `yaml:"dialect"`    // sh or powershell
	PreBuild  []string `yaml:"pre_build"`  // Command placed at the top of the run script

	// Flag handling and exclusions
	DiscardFlags []string `yaml:"discard_flags"` // Flag lines containing these are ignored
	NotRunnable  []string `yaml:"not_runnable"`  // Examples mentioning these are never run
	SkipDirs     []string `yaml:"skip_dirs"`     // Top-level directories never run
	ExcludeFiles []string `yaml:"exclude_files"` // Globs never compared against captured output

	// Reports, written into ExampleDir
	UntestedReport string `yaml:"untested_report"`
	ErrorsReport   string `yaml:"errors_report"`

	// Error chunks containing any of these are not shown as problems
	IgnoredErrors []string `yaml:"ignored_errors"`

	// Extensions covered by the width check and whitespace cleanup
	WidthExtensions []string `yaml:"width_extensions"`

	// Editor command used by the edit command, the file path is appended
	Editor []string `yaml:"editor"`
}

// DefaultValidateConfig returns the settings used for the Java examples.
func DefaultValidateConfig() ValidateConfig {
	return ValidateConfig{
		ExampleDir:   "ExtractedExamples",
		Extension:    ".java",
		MaxLineWidth: 60,
		Launcher:     "java",
		RunScript:    "runall.sh",
		Dialect:      "sh",
		PreBuild:     []string{"ant", "build"},
		DiscardFlags: []string{"{Requires:"},
		NotRunnable: []string{
			"ValidateByHand",
			"TimeOutDuringTesting",
			"WillNotCompile",
			"TimeOut",
			"RunFirst",
		},
		SkipDirs:       []string{"ui", "swt"},
		ExcludeFiles:   []string{"object/ShowProperties.java"},
		UntestedReport: "Untested.txt",
		ErrorsReport:   "errors.txt",
		IgnoredErrors: []string{
			`_[ logging\`,
			"LoggingException",
			ExpectedExceptionMarker,
		},
		WidthExtensions: []string{"java", "cpp", "py"},
		Editor:          []string{"ed"},
	}
}

// RunScriptPath returns the location of the generated run script.
func (v ValidateConfig) RunScriptPath() string {
	return joinUnder(v.ExampleDir, v.RunScript)
}

// UntestedReportPath returns the location of the excluded-examples audit report.
func (v ValidateConfig) UntestedReportPath() string {
	return joinUnder(v.ExampleDir, v.UntestedReport)
}

// ErrorsReportPath returns the location of the collected error output.
func (v ValidateConfig) ErrorsReportPath() string {
	return joinUnder(v.ExampleDir, v.ErrorsReport)
}
