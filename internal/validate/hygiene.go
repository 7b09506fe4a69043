package validate

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"bookkit/internal/config"
	"bookkit/internal/examples"
	"bookkit/internal/output"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// SOURCE HYGIENE - main discovery, compile check, width, whitespace, editing
// =============================================================================

// MainDecl is one entry-point declaration found by FindMains.
type MainDecl struct {
	Path string
	Decl string
}

// FindMains lists every entry-point declaration in the example tree.
func FindMains(cfg config.ValidateConfig, w io.Writer) ([]MainDecl, error) {
	paths, err := sources(cfg)
	if err != nil {
		return nil, err
	}
	var found []MainDecl
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		matches := examples.MainSignature.FindAllString(string(data), -1)
		if len(matches) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\n", p)
		for _, m := range matches {
			found = append(found, MainDecl{Path: p, Decl: m})
			fmt.Fprintf(w, "    %s\n", m)
		}
	}
	return found, nil
}

// VerifyCompiled lists sources that have no class file of the same name,
// which after a full build means they failed to compile.
func VerifyCompiled(cfg config.ValidateConfig, w io.Writer) ([]string, error) {
	javas, err := examples.SourceFiles(cfg.ExampleDir, strings.TrimPrefix(cfg.Extension, "."))
	if err != nil {
		return nil, err
	}
	classes, err := examples.SourceFiles(cfg.ExampleDir, "class")
	if err != nil {
		return nil, err
	}

	compiled := make(map[string]bool, len(classes))
	for _, c := range classes {
		compiled[strings.TrimSuffix(c, ".class")] = true
	}
	var missing []string
	for _, j := range javas {
		stem := strings.TrimSuffix(j, cfg.Extension)
		if !compiled[stem] {
			missing = append(missing, stem)
		}
	}
	sort.Strings(missing)
	for _, m := range missing {
		fmt.Fprintln(w, m)
	}
	return missing, nil
}

// WidthProblem is a source line wider than the book allows.
type WidthProblem struct {
	Path  string
	Line  int // 1-based
	Width int
}

func (p WidthProblem) String() string {
	return fmt.Sprintf("%s:%d (%d)", p.Path, p.Line, p.Width)
}

// CheckWidth reports code lines wider than MaxLineWidth. Lines inside the
// output block are not checked.
func CheckWidth(cfg config.ValidateConfig, w io.Writer) ([]WidthProblem, error) {
	paths, err := hygieneFiles(cfg)
	if err != nil {
		return nil, err
	}
	var problems []WidthProblem
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		for n, line := range strings.Split(string(data), "\n") {
			if strings.Contains(line, output.OpenMarker) {
				break
			}
			line = strings.TrimRight(line, "\r")
			if width := runewidth.StringWidth(line); width > cfg.MaxLineWidth {
				problem := WidthProblem{Path: p, Line: n + 1, Width: width}
				problems = append(problems, problem)
				fmt.Fprintln(w, problem)
			}
		}
	}
	return problems, nil
}

// CleanFiles strips trailing whitespace from every line and blank lines
// from both ends of each file. It returns the files that changed.
func CleanFiles(cfg config.ValidateConfig, w io.Writer) ([]string, error) {
	paths, err := hygieneFiles(cfg)
	if err != nil {
		return nil, err
	}
	var changed []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		cleaned := cleanSource(data)
		if bytes.Equal(cleaned, data) {
			continue
		}
		if err := os.WriteFile(p, cleaned, info.Mode().Perm()); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", p, err)
		}
		changed = append(changed, p)
		fmt.Fprintln(w, p)
	}
	return changed, nil
}

func cleanSource(data []byte) []byte {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	code := strings.Trim(strings.Join(lines, "\n"), "\n")
	if code == "" {
		return []byte{}
	}
	return []byte(code + "\n")
}

// hygieneFiles lists the files covered by the width check and cleanup.
func hygieneFiles(cfg config.ValidateConfig) ([]string, error) {
	rels, err := examples.SourceFiles(cfg.ExampleDir, cfg.WidthExtensions...)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(rels))
	for _, rel := range rels {
		paths = append(paths, filepath.Join(cfg.ExampleDir, filepath.FromSlash(rel)))
	}
	return paths, nil
}

// runEditor starts the editor in the foreground.
var runEditor = func(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Edit opens target (a path, optionally suffixed with :line) in the
// configured editor.
func Edit(cfg config.ValidateConfig, target string) error {
	if len(cfg.Editor) == 0 {
		return fmt.Errorf("no editor configured")
	}
	argv := append(append([]string(nil), cfg.Editor...), target)
	if err := runEditor(argv); err != nil {
		return fmt.Errorf("editor failed on %s: %w", target, err)
	}
	return nil
}

// EditAll opens every example source in the editor, one after another.
func EditAll(cfg config.ValidateConfig) error {
	paths, err := sources(cfg)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := Edit(cfg, p); err != nil {
			return err
		}
	}
	return nil
}

// EditWidthProblems opens the first over-wide line of each file.
func EditWidthProblems(cfg config.ValidateConfig, problems []WidthProblem) error {
	seen := make(map[string]bool)
	for _, p := range problems {
		if seen[p.Path] {
			continue
		}
		seen[p.Path] = true
		if err := Edit(cfg, fmt.Sprintf("%s:%d", p.Path, p.Line)); err != nil {
			return err
		}
	}
	return nil
}
