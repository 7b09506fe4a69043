package validate

import (
	"fmt"
	"io"
	"os"
	"strings"

	"bookkit/internal/config"
	"bookkit/internal/logging"
	"bookkit/internal/report"
	"bookkit/internal/types"

	"github.com/dustin/go-humanize"
)

// FindExceptions collects every non-empty error artifact into the errors
// report, then shows the chunks that are not expected.
func FindExceptions(cfg config.ValidateConfig, w io.Writer) error {
	results, err := Results(cfg)
	if err != nil {
		return err
	}

	var b strings.Builder
	count := 0
	for _, r := range results {
		data, err := os.ReadFile(r.ErrorPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", r.ErrorPath, err)
		}
		if len(data) == 0 {
			continue
		}
		count++
		b.WriteString("\n")
		b.WriteString(report.Ruler(r.ErrorPath, '=', 80))
		b.Write(data)
		b.WriteString(errorChunkSeparator)
	}
	if count == 0 {
		return types.MissingPrerequisite("no error output under %s, run %s first", cfg.ExampleDir, cfg.RunScript)
	}

	path := cfg.ErrorsReportPath()
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write errors report: %w", err)
	}
	logging.Get(logging.CategoryCompare).Infow("errors report written",
		"path", path, "files", count, "size", humanize.Bytes(uint64(b.Len())))
	fmt.Fprintf(w, "%d error files collected into %s (%s)\n", count, path, humanize.Bytes(uint64(b.Len())))

	_, err = ShowProblemErrors(cfg, w)
	return err
}

// ShowProblemErrors prints the chunks of the errors report that contain none
// of the ignored markers, and returns them.
func ShowProblemErrors(cfg config.ValidateConfig, w io.Writer) ([]string, error) {
	data, err := os.ReadFile(cfg.ErrorsReportPath())
	if os.IsNotExist(err) {
		return nil, types.MissingPrerequisite("%s not found, run the exceptions command first", cfg.ErrorsReportPath())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read errors report: %w", err)
	}

	var problems []string
	for _, chunk := range strings.Split(string(data), errorChunkSeparator) {
		if strings.TrimSpace(chunk) == "" || containsAny(chunk, cfg.IgnoredErrors) {
			continue
		}
		problems = append(problems, chunk)
		fmt.Fprintln(w, chunk)
	}
	return problems, nil
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if t != "" && strings.Contains(s, t) {
			return true
		}
	}
	return false
}
