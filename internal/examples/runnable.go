// Package examples discovers runnable example programs and renders the
// script that runs them with their output captured.
package examples

import (
	"fmt"
	"path/filepath"
	"strings"

	"bookkit/internal/flags"
)

// Runnable describes one example file eligible for execution.
// It is built once per scan and never modified.
type Runnable struct {
	Path     string // Path as found by the scan, rooted at the example dir
	Name     string // Base name without extension
	Relative string // Path relative to the example dir
	Lines    []string
	Flags    *flags.Set
	Package  string // Dotted package, empty when absent or not trusted
	Main     string // Entry point class
}

// NewRunnable parses body, the contents of the file at path, which must lie under base.
func NewRunnable(base, path, body string, discard []string) (*Runnable, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return nil, fmt.Errorf("failed to relativize %s: %w", path, err)
	}

	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	lines := splitLines(body)
	r := &Runnable{
		Path:     path,
		Name:     name,
		Relative: rel,
		Lines:    lines,
		Flags:    flags.Parse(lines, discard),
		Package:  parsePackage(lines),
		Main:     name,
	}
	if main, ok := r.Flags.Value(flags.Main); ok && main != "" {
		r.Main = main
	}
	return r, nil
}

// parsePackage returns the declared package. The first line of every example
// is a comment naming its path, so a package whose directory form is missing
// from that line is a false positive (a package statement inside a string or
// comment) and is dropped.
func parsePackage(lines []string) string {
	pkg := ""
	for _, line := range lines {
		rest, ok := strings.CutPrefix(line, "package ")
		if !ok {
			continue
		}
		pkg = strings.TrimSuffix(strings.TrimSpace(rest), ";")
	}
	if pkg == "" || len(lines) == 0 {
		return ""
	}
	if !strings.Contains(lines[0], strings.ReplaceAll(pkg, ".", "/")) {
		return ""
	}
	return pkg
}

// Has reports whether the file carries the flag.
func (r *Runnable) Has(flag string) bool {
	return r.Flags.Has(flag)
}

// String returns the slash-separated relative path.
func (r *Runnable) String() string {
	return filepath.ToSlash(r.Relative)
}

// RunDir is the directory to change to before running the command.
func (r *Runnable) RunDir() string {
	return filepath.Dir(r.Path)
}

// PackagePrefix returns "pkg." or "".
func (r *Runnable) PackagePrefix() string {
	if r.Package == "" {
		return ""
	}
	return r.Package + "."
}

// JavaArguments renders VM arguments, the qualified entry point and the
// trailing program arguments.
func (r *Runnable) JavaArguments() string {
	return r.Flags.JVMArgs() + r.PackagePrefix() + r.Main + r.Flags.CmdArgs()
}

// RunCommand returns the full command line using launcher.
func (r *Runnable) RunCommand(launcher string) string {
	return launcher + " " + r.JavaArguments()
}

// OutputFile is the name of the stdout capture artifact.
func (r *Runnable) OutputFile() string {
	return r.Name + "-output.txt"
}

// ErrorFile is the name of the stderr capture artifact.
func (r *Runnable) ErrorFile() string {
	return r.Name + "-erroroutput.txt"
}

func splitLines(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.TrimSuffix(body, "\n")
	if body == "" {
		return nil
	}
	return strings.Split(body, "\n")
}
