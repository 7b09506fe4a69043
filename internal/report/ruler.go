// Package report renders the rulers and headings used in command output
// and in the generated error report.
package report

import (
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// DefaultWidth is the ruler width used when a caller passes zero.
const DefaultWidth = 60

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
)

// SetColorMode applies the --color setting. "auto" colours only terminals.
func SetColorMode(mode string, terminal bool) {
	switch mode {
	case "on", "always":
		color.NoColor = false
	case "off", "never":
		color.NoColor = true
	default:
		color.NoColor = !terminal
	}
}

// Ruler returns a line of fill characters with title centred in it,
// terminated by a newline. An empty title gives a plain rule.
func Ruler(title string, fill rune, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	if title == "" {
		return strings.Repeat(string(fill), width) + "\n"
	}
	label := " " + title + " "
	rest := width - runewidth.StringWidth(label)
	if rest < 2 {
		return string(fill) + label + string(fill) + "\n"
	}
	left := rest / 2
	right := rest - left
	return strings.Repeat(string(fill), left) + label + strings.Repeat(string(fill), right) + "\n"
}

// Heading returns a coloured Ruler for terminal output.
func Heading(title string, fill rune, width int) string {
	return headingColor.Sprint(Ruler(title, fill, width))
}

// Success colours a message for a passing check.
func Success(msg string) string {
	return successColor.Sprint(msg)
}

// Warning colours a message that needs attention.
func Warning(msg string) string {
	return warningColor.Sprint(msg)
}
