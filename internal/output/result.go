package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"bookkit/internal/config"
	"bookkit/internal/flags"
	"bookkit/internal/logging"
	"bookkit/internal/report"
	"bookkit/internal/types"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// oldOutput captures everything between the output opener line and the
// last block closer in the file.
var oldOutput = regexp.MustCompile(`(?s)/\* Output:.*?\n(.*)\n\*/`)

var checkByHand = "{" + flags.CheckOutputByHand + "}"

// Result ties one source file to its captured output.
type Result struct {
	SourcePath string
	OutputPath string
	ErrorPath  string

	Tags       *Tags
	OldOutput  string   // Output block already in the source
	NewOutput  []string // Captured output, wrapped
	Similarity float64  // 1.0 means no reported difference

	width int
}

// OutputPathFor returns the stdout capture artifact for a source file.
func OutputPathFor(source string) string {
	return captureSibling(source, "-output.txt")
}

// ErrorPathFor returns the stderr capture artifact for a source file.
func ErrorPathFor(source string) string {
	return captureSibling(source, "-erroroutput.txt")
}

func captureSibling(source, suffix string) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(source), stem+suffix)
}

// Create builds the Result for source. It returns nil without error when
// the file is excluded, has no capture artifact, asks to be checked by hand
// or produced no output at all.
func Create(source string, cfg config.ValidateConfig) (*Result, error) {
	if isExcluded(source, cfg) {
		return nil, nil
	}

	outPath := OutputPathFor(source)
	errPath := ErrorPathFor(source)

	outInfo, err := os.Stat(outPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", outPath, err)
	}

	body, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	text := strings.ReplaceAll(string(body), "\r\n", "\n")
	if strings.Contains(text, checkByHand) {
		return nil, nil
	}

	errInfo, err := os.Stat(errPath)
	if os.IsNotExist(err) {
		return nil, types.Invariant("%s exists without %s", outPath, errPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", errPath, err)
	}

	if outInfo.Size() == 0 && errInfo.Size() == 0 {
		return nil, nil
	}
	return newResult(source, outPath, errPath, text, cfg.MaxLineWidth)
}

func newResult(source, outPath, errPath, body string, width int) (*Result, error) {
	tags, err := ReadTags(source)
	if err != nil {
		return nil, err
	}
	stdout, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", outPath, err)
	}
	stderr, err := os.ReadFile(errPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", errPath, err)
	}

	r := &Result{
		SourcePath: source,
		OutputPath: outPath,
		ErrorPath:  errPath,
		Tags:       tags,
		OldOutput:  extractOldOutput(body),
		NewOutput:  Wrap(Compose(string(stdout), string(stderr)), width),
		width:      width,
	}
	r.Similarity = Similarity(r.OldLines(), r.NewOutput)

	logging.Get(logging.CategoryCompare).Debugw("compared",
		"file", source, "similarity", r.Similarity, "old_lines", len(r.OldLines()), "new_lines", len(r.NewOutput))
	return r, nil
}

func isExcluded(source string, cfg config.ValidateConfig) bool {
	rel := source
	if r, err := filepath.Rel(cfg.ExampleDir, source); err == nil && !strings.HasPrefix(r, "..") {
		rel = r
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range cfg.ExcludeFiles {
		if ok, _ := doublestar.Match("**/"+strings.TrimPrefix(pattern, "/"), rel); ok {
			return true
		}
	}
	return false
}

func extractOldOutput(body string) string {
	var blocks []string
	for _, m := range oldOutput.FindAllStringSubmatch(body, -1) {
		blocks = append(blocks, m[1])
	}
	return strings.TrimRight(strings.Join(blocks, "\n"), " \t\r\n")
}

// Similarity is the matching-blocks ratio between two line sequences,
// 2*M/T where M is the number of matched lines and T the total number of
// lines. It is 1.0 exactly when the sequences are equal.
func Similarity(a, b []string) float64 {
	return difflib.NewMatcherWithJunk(a, b, false, nil).Ratio()
}

// OldLines splits the embedded output into lines.
func (r *Result) OldLines() []string {
	if r.OldOutput == "" {
		return nil
	}
	return strings.Split(r.OldOutput, "\n")
}

// Matches reports whether there is no actionable difference.
func (r *Result) Matches() bool {
	return r.Similarity == 1.0
}

// Diff returns a unified diff from the embedded output to the new output.
func (r *Result) Diff() string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(r.OldOutput),
		B:        difflib.SplitLines(strings.Join(r.NewOutput, "\n")),
		FromFile: "embedded",
		ToFile:   "captured",
		Context:  2,
	})
	if err != nil {
		return ""
	}
	return diff
}

// Report writes the comparison for a human. A matching result prints a
// single dot so that long runs stay readable.
func (r *Result) Report(w io.Writer) error {
	if r.Matches() {
		_, err := io.WriteString(w, ".")
		return err
	}

	width := r.width
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(report.Heading(r.SourcePath, '=', width))
	if line, ok := r.openerLine(); ok {
		b.WriteString(line + "\n")
	} else {
		b.WriteString("no prior " + OpenMarker + "\n")
	}

	if r.OldOutput != "" {
		b.WriteString(report.Heading("Previous Output", '-', width))
		b.WriteString(r.OldOutput + "\n\n")
	} else {
		b.WriteString(report.Heading("No Previous Output", '-', width))
	}
	b.WriteString(report.Heading("New Output", '-', width))
	b.WriteString(strings.Join(r.NewOutput, "\n") + "\n\n")
	if r.OldOutput != "" {
		b.WriteString(r.Diff())
	}
	b.WriteString(report.Heading(fmt.Sprintf("Difference: %.3f", r.Similarity), '+', width))

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Result) openerLine() (string, bool) {
	body, err := os.ReadFile(r.SourcePath)
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(body), "\n") {
		if strings.Contains(line, OpenMarker) {
			return strings.TrimRight(line, "\r"), true
		}
	}
	return "", false
}

// AppendOutput embeds the new output at the end of the source file and
// returns the rewritten text. Nothing is written when there is no new
// output. A file that already has an output block is never touched.
func (r *Result) AppendOutput() (string, error) {
	if len(r.NewOutput) == 0 {
		return "", nil
	}
	if r.Tags.HasOutput {
		return "", types.Usage("%s already has Output!", r.SourcePath)
	}

	info, err := os.Stat(r.SourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", r.SourcePath, err)
	}
	body, err := os.ReadFile(r.SourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", r.SourcePath, err)
	}

	lines := strings.Split(strings.ReplaceAll(string(body), "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 || strings.TrimRight(lines[len(lines)-1], " \t") != "}" {
		return "", types.Invariant("%s does not end with a closing brace", r.SourcePath)
	}

	lines[len(lines)-1] = "}"
	lines = append(lines, OpenMarker)
	lines = append(lines, r.NewOutput...)
	lines = append(lines, CloseMarker)
	result := strings.Join(lines, "\n") + "\n"

	if err := os.WriteFile(r.SourcePath, []byte(result), info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", r.SourcePath, err)
	}

	tags, err := ReadTags(r.SourcePath)
	if err != nil {
		return "", err
	}
	r.Tags = tags
	r.OldOutput = extractOldOutput(result)
	r.Similarity = Similarity(r.OldLines(), r.NewOutput)

	logging.Get(logging.CategoryCompare).Infow("output appended", "file", r.SourcePath, "lines", len(r.NewOutput))
	return result, nil
}
