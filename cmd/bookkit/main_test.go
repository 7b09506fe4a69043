package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"bookkit/internal/config"
	"bookkit/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// workspace writes a config whose directories all live under a temp dir.
func workspace(t *testing.T) (string, *config.Config) {
	t.Helper()
	root := t.TempDir()
	c := config.DefaultConfig()
	c.Validation.ExampleDir = filepath.Join(root, "examples")
	c.GitHub.ExampleDir = filepath.Join(root, "examples")
	c.GitHub.CodeDir = filepath.Join(root, "code")
	c.Ebook.SourceDir = filepath.Join(root, "Markdown")
	c.Ebook.BuildDir = filepath.Join(root, "build")
	c.Logging.Level = "error"

	path := filepath.Join(root, "bookkit.yaml")
	require.NoError(t, c.Save(path))
	return path, c
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	verbose, editWidth, watchChapters, forceInit = false, false, false, false
	colorMode = "off"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidate_CompareBeforeCapture(t *testing.T) {
	path, c := workspace(t)
	writeFile(t, filepath.Join(c.Validation.ExampleDir, "hello", "Hello.java"),
		"// hello/Hello.java\npublic class Hello {\n  public static void main(String[] args) {}\n}\n")

	_, err := execute(t, "--config", path, "validate", "compare")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrMissingPrerequisite)
	assert.Equal(t, 1, types.ExitCode(err))
}

func TestValidate_ScriptThenAttach(t *testing.T) {
	path, c := workspace(t)
	src := filepath.Join(c.Validation.ExampleDir, "hello", "Hello.java")
	writeFile(t, src, "// hello/Hello.java\npublic class Hello {\n  public static void main(String[] args) {}\n}\n")

	out, err := execute(t, "--config", path, "validate", "p")
	require.NoError(t, err)
	assert.Contains(t, out, "1 runnable, 0 untested")
	assert.FileExists(t, c.Validation.RunScriptPath())

	// Simulate the run script.
	writeFile(t, filepath.Join(c.Validation.ExampleDir, "hello", "Hello-output.txt"), "Hello\n")
	writeFile(t, filepath.Join(c.Validation.ExampleDir, "hello", "Hello-erroroutput.txt"), "")

	_, err = execute(t, "--config", path, "validate", "attach", src)
	require.NoError(t, err)
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Contains(t, string(data), "}\n/* Output:\nHello\n*/\n")

	out, err = execute(t, "--config", path, "validate", "compare")
	require.NoError(t, err)
	assert.Contains(t, out, "1 compared, 0 differ")

	// Attaching twice is refused.
	_, err = execute(t, "--config", path, "validate", "s", src)
	require.Error(t, err)
	assert.Equal(t, 2, types.ExitCode(err))
}

func TestGitHub_Recreate(t *testing.T) {
	path, c := workspace(t)
	writeFile(t, filepath.Join(c.GitHub.ExampleDir, "hello", "Hello.java"), "// hello/Hello.java\nclass Hello {}\n")
	writeFile(t, filepath.Join(c.GitHub.CodeDir, "stale", "Old.java"), "// stale\n")
	writeFile(t, filepath.Join(c.GitHub.CodeDir, "gradlew"), "#!/bin/sh\n")

	out, err := execute(t, "--config", path, "github", "r")
	require.NoError(t, err)
	assert.Contains(t, out, "removing:  stale")

	assert.NoDirExists(t, filepath.Join(c.GitHub.CodeDir, "stale"))
	assert.FileExists(t, filepath.Join(c.GitHub.CodeDir, "gradlew"))
	data, err := os.ReadFile(filepath.Join(c.GitHub.CodeDir, "hello", "Hello.java"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "// (c)2016 MindView LLC: see Copyright.txt")
}

func TestEbook_Combine(t *testing.T) {
	path, c := workspace(t)
	writeFile(t, filepath.Join(c.Ebook.SourceDir, "00_Preface.md"), "# Preface")
	writeFile(t, filepath.Join(c.Ebook.SourceDir, "01_Intro.md"), "# Intro")

	out, err := execute(t, "--config", path, "ebook", "combine")
	require.NoError(t, err)
	assert.Contains(t, out, "2 chapters -> ")

	data, err := os.ReadFile(c.Ebook.TargetPath())
	require.NoError(t, err)
	assert.Equal(t, "# Preface\n# Intro\n", string(data))
}

func TestEbook_PopulateMissingAssets(t *testing.T) {
	path, _ := workspace(t)
	_, err := execute(t, "--config", path, "ebook", "populate")
	assert.ErrorIs(t, err, types.ErrMissingPrerequisite)
}

func TestConfig_InitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookkit.yaml")

	out, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")
	assert.FileExists(t, path)

	_, err = execute(t, "--config", path, "config", "init")
	assert.ErrorIs(t, err, types.ErrUsage)

	_, err = execute(t, "--config", path, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestInvalidConfigIsUsageError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookkit.yaml")
	writeFile(t, path, "validate:\n  max_line_width: 0\n")

	_, err := execute(t, "--config", path, "config", "show")
	assert.ErrorIs(t, err, types.ErrUsage)
}
