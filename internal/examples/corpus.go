package examples

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"bookkit/internal/config"
	"bookkit/internal/flags"
	"bookkit/internal/logging"

	"github.com/bmatcuk/doublestar/v4"
)

// MainSignature matches the entry-point declaration of a Java program.
var MainSignature = regexp.MustCompile(`public\s+static\s+void\s+main`)

// execMarker makes a file runnable even without a main method.
const execMarker = "{" + flags.Exec + ":"

// Corpus is the result of one scan of the example tree.
type Corpus struct {
	Root     string
	All      []*Runnable // Every candidate found
	Runnable []*Runnable // Candidates that survive the exclusion lists
	Untested []*Runnable // All minus Runnable, for the audit report
}

// SourceFiles returns the slash-relative paths of every file under root
// with the given extensions (without dots), in walk order.
func SourceFiles(root string, exts ...string) ([]string, error) {
	if len(exts) == 0 {
		return nil, nil
	}
	pattern := "**/*." + exts[0]
	if len(exts) > 1 {
		pattern = "**/*.{" + strings.Join(exts, ",") + "}"
	}
	var files []string
	err := doublestar.GlobWalk(os.DirFS(root), pattern, func(path string, d fs.DirEntry) error {
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}

// Scan walks cfg.ExampleDir and builds the corpus. No file is modified.
func Scan(cfg config.ValidateConfig) (*Corpus, error) {
	log := logging.Get(logging.CategoryScan)
	root := cfg.ExampleDir

	files, err := SourceFiles(root, strings.TrimPrefix(cfg.Extension, "."))
	if err != nil {
		return nil, err
	}

	c := &Corpus{Root: root}
	for _, rel := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		body := string(data)
		if !MainSignature.MatchString(body) && !strings.Contains(body, execMarker) {
			continue
		}
		r, err := NewRunnable(root, path, body, cfg.DiscardFlags)
		if err != nil {
			return nil, err
		}
		c.All = append(c.All, r)
	}

	for _, r := range c.All {
		if reason := excluded(r, cfg); reason != "" {
			log.Debugw("excluded", "file", r.String(), "reason", reason)
			c.Untested = append(c.Untested, r)
			continue
		}
		c.Runnable = append(c.Runnable, r)
	}

	log.Infow("scan complete", "root", root, "candidates", len(c.All), "runnable", len(c.Runnable))
	return c, nil
}

// excluded returns why r must not be run, or "".
func excluded(r *Runnable, cfg config.ValidateConfig) string {
	for _, token := range cfg.NotRunnable {
		if r.Has(token) || strings.Contains(r.String(), token) {
			return token
		}
	}
	top := strings.SplitN(r.String(), "/", 2)[0]
	for _, dir := range cfg.SkipDirs {
		if top == dir {
			return "skipped directory " + dir
		}
	}
	return ""
}

// WriteUntested persists the excluded set, one relative path per line.
func (c *Corpus) WriteUntested(path string) error {
	names := make([]string, 0, len(c.Untested))
	for _, r := range c.Untested {
		names = append(names, r.String())
	}
	sort.Strings(names)

	var b strings.Builder
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write untested report: %w", err)
	}
	return nil
}

// FlagKeys returns every flag name used by the runnable set.
func (c *Corpus) FlagKeys() []string {
	seen := make(map[string]bool)
	for _, r := range c.Runnable {
		for _, k := range r.Flags.Keys() {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RunData lists "[dir] command" for every runnable example.
func (c *Corpus) RunData(launcher string) string {
	lines := make([]string, 0, len(c.Runnable))
	for _, r := range c.Runnable {
		lines = append(lines, fmt.Sprintf("[%s] %s", r.RunDir(), r.RunCommand(launcher)))
	}
	return strings.Join(lines, "\n")
}
