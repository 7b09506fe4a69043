package output

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// ErrorSeparator introduces captured standard error in the new output.
const ErrorSeparator = "___[ Error Output ]___"

// Wrap breaks text into display lines no wider than width. Existing line
// breaks are kept, long lines break at spaces and words longer than width
// are split. Surrounding blank lines are dropped; empty text gives no lines.
func Wrap(text string, width int) []string {
	text = strings.Trim(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	wrapped := wrap.String(wordwrap.String(text, width), width)

	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return lines
}

// Compose joins captured stdout and stderr the way they appear in an
// output block: trimmed stdout, then the error separator and trimmed stderr.
func Compose(stdout, stderr string) string {
	var b strings.Builder
	if out := strings.TrimSpace(stdout); out != "" {
		b.WriteString(out)
		b.WriteString("\n")
	}
	if errOut := strings.TrimSpace(stderr); errOut != "" {
		b.WriteString(ErrorSeparator)
		b.WriteString("\n")
		b.WriteString(errOut)
	}
	return b.String()
}
