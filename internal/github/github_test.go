package github

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookkit/internal/config"
	"bookkit/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var header = []string{
	"(c)2016 MindView LLC: see Copyright.txt",
	"We make no guarantees that this code is fit for any purpose.",
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func testConfig(t *testing.T) config.GitHubConfig {
	t.Helper()
	root := t.TempDir()
	cfg := config.DefaultGitHubConfig()
	cfg.CodeDir = filepath.Join(root, "code")
	cfg.ExampleDir = filepath.Join(root, "extracted")
	cfg.CopyrightLines = header
	require.NoError(t, os.MkdirAll(cfg.CodeDir, 0755))
	require.NoError(t, os.MkdirAll(cfg.ExampleDir, 0755))
	return cfg
}

// =============================================================================
// COPYRIGHT
// =============================================================================

func TestInsertCopyright(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "slash comment",
			lines: []string{"// hello/Hello.java", "class Hello {}"},
			want: []string{
				"// hello/Hello.java",
				"// (c)2016 MindView LLC: see Copyright.txt",
				"// We make no guarantees that this code is fit for any purpose.",
				"class Hello {}",
			},
		},
		{
			name:  "hash comment",
			lines: []string{"# tools/run.py", "print(1)"},
			want: []string{
				"# tools/run.py",
				"# (c)2016 MindView LLC: see Copyright.txt",
				"# We make no guarantees that this code is fit for any purpose.",
				"print(1)",
			},
		},
		{
			name:  "already stamped",
			lines: []string{"// a/A.java", "// (c)2016 MindView LLC: see Copyright.txt", "class A {}"},
			want:  []string{"// a/A.java", "// (c)2016 MindView LLC: see Copyright.txt", "class A {}"},
		},
		{
			name:  "single line",
			lines: []string{"// only"},
			want: []string{
				"// only",
				"// (c)2016 MindView LLC: see Copyright.txt",
				"// We make no guarantees that this code is fit for any purpose.",
			},
		},
		{
			name:  "empty",
			lines: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InsertCopyright(tt.lines, header)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("InsertCopyright mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddCopyright(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, filepath.Join(cfg.CodeDir, "hello", "Hello.java"), "// hello/Hello.java\nclass Hello {}\n")
	writeFile(t, filepath.Join(cfg.CodeDir, "tools", "run.py"), "# tools/run.py\nprint(1)\n")
	writeFile(t, filepath.Join(cfg.CodeDir, "done", "Done.java"), "// done/Done.java\n// see Copyright.txt\nclass Done {}\n")
	writeFile(t, filepath.Join(cfg.CodeDir, "raw", "Raw.java"), "class Raw {}\n")
	writeFile(t, filepath.Join(cfg.CodeDir, "notes.txt"), "// notes\n")

	var out bytes.Buffer
	n, err := AddCopyright(cfg, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t,
		"// hello/Hello.java\n// (c)2016 MindView LLC: see Copyright.txt\n// We make no guarantees that this code is fit for any purpose.\nclass Hello {}\n",
		readFile(t, filepath.Join(cfg.CodeDir, "hello", "Hello.java")))
	assert.True(t, strings.HasPrefix(readFile(t, filepath.Join(cfg.CodeDir, "tools", "run.py")), "# tools/run.py\n# (c)2016"))
	assert.Equal(t, "class Raw {}\n", readFile(t, filepath.Join(cfg.CodeDir, "raw", "Raw.java")))
	assert.Equal(t, "// notes\n", readFile(t, filepath.Join(cfg.CodeDir, "notes.txt")))

	// A second pass finds nothing to do.
	n, err = AddCopyright(cfg, &out)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// =============================================================================
// CLEAN / COPY
// =============================================================================

func TestCleanDir(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, filepath.Join(cfg.CodeDir, ".git", "HEAD"), "ref")
	writeFile(t, filepath.Join(cfg.CodeDir, "build.gradle"), "gradle")
	writeFile(t, filepath.Join(cfg.CodeDir, "gradle", "wrapper.jar"), "jar")
	writeFile(t, filepath.Join(cfg.CodeDir, "hello", "Hello.java"), "old")
	writeFile(t, filepath.Join(cfg.CodeDir, "README.md"), "old")

	var out bytes.Buffer
	removed, err := CleanDir(cfg, &out)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"hello", "README.md"}, removed)

	assert.DirExists(t, filepath.Join(cfg.CodeDir, ".git"))
	assert.FileExists(t, filepath.Join(cfg.CodeDir, "build.gradle"))
	assert.DirExists(t, filepath.Join(cfg.CodeDir, "gradle"))
	assert.NoDirExists(t, filepath.Join(cfg.CodeDir, "hello"))
	assert.Contains(t, out.String(), "removing:  hello")
}

func TestCleanDir_Missing(t *testing.T) {
	cfg := testConfig(t)
	cfg.CodeDir = filepath.Join(cfg.CodeDir, "absent")

	_, err := CleanDir(cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, types.ErrMissingPrerequisite)
}

func TestCopyExamples(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, filepath.Join(cfg.ExampleDir, "hello", "Hello.java"), "new")
	writeFile(t, filepath.Join(cfg.ExampleDir, "hello", "deep", "Deep.java"), "deep")
	writeFile(t, filepath.Join(cfg.ExampleDir, "README.md"), "readme")

	copied, err := CopyExamples(cfg, &bytes.Buffer{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"hello", "README.md"}, copied)
	assert.Equal(t, "deep", readFile(t, filepath.Join(cfg.CodeDir, "hello", "deep", "Deep.java")))
	assert.Equal(t, "readme", readFile(t, filepath.Join(cfg.CodeDir, "README.md")))
}

func TestRecreate(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, filepath.Join(cfg.CodeDir, ".gitignore"), "*.class")
	writeFile(t, filepath.Join(cfg.CodeDir, "stale", "Old.java"), "// stale/Old.java\n")
	writeFile(t, filepath.Join(cfg.ExampleDir, "hello", "Hello.java"), "// hello/Hello.java\nclass Hello {}\n")

	require.NoError(t, Recreate(context.Background(), cfg, &bytes.Buffer{}))

	assert.NoDirExists(t, filepath.Join(cfg.CodeDir, "stale"))
	assert.FileExists(t, filepath.Join(cfg.CodeDir, ".gitignore"))
	assert.Contains(t, readFile(t, filepath.Join(cfg.CodeDir, "hello", "Hello.java")), "Copyright.txt")
	// The extracted tree is left alone.
	assert.NotContains(t, readFile(t, filepath.Join(cfg.ExampleDir, "hello", "Hello.java")), "Copyright.txt")
}

func TestRecreate_ExtractFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.ExtractCommand = []string{filepath.Join(t.TempDir(), "no-such-extractor")}
	writeFile(t, filepath.Join(cfg.CodeDir, "keep", "K.java"), "k")

	err := Recreate(context.Background(), cfg, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract command")
	assert.DirExists(t, filepath.Join(cfg.CodeDir, "keep"))
}
