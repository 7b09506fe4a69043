package config

// EbookConfig configures chapter assembly and build-directory staging.
type EbookConfig struct {
	SourceDir      string `yaml:"source_dir"`      // Directory holding the chapter Markdown files
	ChapterPattern string `yaml:"chapter_pattern"` // Glob selecting chapters, matched against base names
	BuildDir       string `yaml:"build_dir"`
	Target         string `yaml:"target"` // Assembled Markdown file, relative to BuildDir

	ImagesDir    string   `yaml:"images_dir"`
	FontsDir     string   `yaml:"fonts_dir"`
	Cover        string   `yaml:"cover"`
	CSS          string   `yaml:"css"`
	Metadata     string   `yaml:"metadata"`
	ResourcesDir string   `yaml:"resources_dir"`
	Resources    []string `yaml:"resources"` // File names copied from ResourcesDir
}

// DefaultEbookConfig returns the staging layout used by the book sources.
func DefaultEbookConfig() EbookConfig {
	return EbookConfig{
		SourceDir:      "Markdown",
		ChapterPattern: "[0-9][0-9]_*.md",
		BuildDir:       "ebook_build",
		Target:         "onjava-assembled.md",
		ImagesDir:      "images",
		FontsDir:       "fonts",
		Cover:          "resources/cover.jpg",
		CSS:            "resources/onjava.css",
		Metadata:       "resources/metadata.yaml",
		ResourcesDir:   "resources/ebook",
		Resources: []string{
			"chapter.png",
			"subhead.png",
			"level-2.png",
			"onjava.tex",
			"onjava.cls",
		},
	}
}

// TargetPath returns the assembled Markdown path inside the build directory.
func (e EbookConfig) TargetPath() string {
	return joinUnder(e.BuildDir, e.Target)
}
