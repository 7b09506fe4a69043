// Package validate implements the example-validation commands: run script
// generation, captured-output discovery and comparison, error collection,
// output attachment and source hygiene checks.
//
// Every command works on one config.ValidateConfig and writes its report to
// an io.Writer. Nothing runs concurrently.
package validate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bookkit/internal/config"
	"bookkit/internal/examples"
	"bookkit/internal/logging"
	"bookkit/internal/output"
	"bookkit/internal/types"
)

// errorChunkSeparator splits entries of the errors report.
const errorChunkSeparator = "<-:->"

// RunScript scans the example tree and writes the run script.
func RunScript(cfg config.ValidateConfig, w io.Writer) error {
	c, err := examples.GenerateRunScript(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d runnable, %d untested, script written to %s\n",
		len(c.Runnable), len(c.Untested), cfg.RunScriptPath())
	return nil
}

// sources lists every example source file, rooted at the example dir.
func sources(cfg config.ValidateConfig) ([]string, error) {
	rels, err := examples.SourceFiles(cfg.ExampleDir, strings.TrimPrefix(cfg.Extension, "."))
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(rels))
	for _, rel := range rels {
		paths = append(paths, filepath.Join(cfg.ExampleDir, filepath.FromSlash(rel)))
	}
	return paths, nil
}

// Results builds a Result for every example with captured output.
func Results(cfg config.ValidateConfig) ([]*output.Result, error) {
	paths, err := sources(cfg)
	if err != nil {
		return nil, err
	}
	var results []*output.Result
	for _, p := range paths {
		r, err := output.Create(p, cfg)
		if err != nil {
			return nil, err
		}
		if r != nil {
			results = append(results, r)
		}
	}
	return results, nil
}

// capturedResults is Results, failing when no capture has happened yet.
func capturedResults(cfg config.ValidateConfig) ([]*output.Result, error) {
	results, err := Results(cfg)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, types.MissingPrerequisite("no captured output under %s, run %s first", cfg.ExampleDir, cfg.RunScript)
	}
	return results, nil
}

// DiscoverTags groups example files by the tags on their output blocks.
func DiscoverTags(cfg config.ValidateConfig, w io.Writer) (map[string][]string, error) {
	results, err := capturedResults(cfg)
	if err != nil {
		return nil, err
	}

	byTag := make(map[string][]string)
	for _, r := range results {
		if !r.Tags.Any() {
			continue
		}
		for _, tag := range r.Tags.Tags {
			byTag[tag] = append(byTag[tag], r.SourcePath)
		}
	}

	tags := make([]string, 0, len(byTag))
	for tag := range byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		fmt.Fprintf(w, "%s:\n", tag)
		for _, path := range byTag[tag] {
			fmt.Fprintf(w, "    %s\n", path)
		}
	}
	return byTag, nil
}

// FillInUnexcluded reports examples that produced output but have no
// output text. A tagged output block counts as filled in, even when empty.
func FillInUnexcluded(cfg config.ValidateConfig, w io.Writer) ([]*output.Result, error) {
	results, err := capturedResults(cfg)
	if err != nil {
		return nil, err
	}

	var missing []*output.Result
	for _, r := range results {
		if r.Tags.Any() {
			continue
		}
		if r.OldOutput != "" {
			continue
		}
		missing = append(missing, r)
	}
	for _, r := range missing {
		if err := r.Report(w); err != nil {
			return nil, err
		}
	}
	return missing, nil
}

// Compare reports every captured result against its embedded output.
// Matching results print as dots.
func Compare(cfg config.ValidateConfig, w io.Writer) error {
	results, err := capturedResults(cfg)
	if err != nil {
		return err
	}
	mismatched := 0
	for _, r := range results {
		if !r.Matches() {
			mismatched++
		}
		if err := r.Report(w); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "\n%d compared, %d differ\n", len(results), mismatched)
	return nil
}

// Attach appends captured output to each named example. The batch stops at
// the first file that cannot be attached.
func Attach(cfg config.ValidateConfig, w io.Writer, paths ...string) error {
	log := logging.Get(logging.CategoryCompare)
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return types.Usage("cannot find %s", p)
		}
		r, err := output.Create(p, cfg)
		if err != nil {
			return err
		}
		if r == nil {
			return types.Usage("no output or error files for %s", p)
		}
		text, err := r.AppendOutput()
		if err != nil {
			return err
		}
		log.Infow("attached", "file", p)
		fmt.Fprintln(w, text)
	}
	return nil
}
