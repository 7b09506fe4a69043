// Package flags parses the annotation lines at the top of an example file.
//
// An annotation is a line comment of the form
//
//	// {Name}
//	// {Name: value}
//
// Only the unbroken block of line comments that starts the file is read.
// Lines containing a discard token are ignored wherever they appear in that block.
package flags

import (
	"sort"
	"strings"
)

// Well-known flag names.
const (
	Exec              = "Exec"              // Replace the launcher with this command line
	JVMArgs           = "JVMArgs"           // Arguments placed before the entry point
	Args              = "Args"              // Arguments placed after the entry point
	ThrowsException   = "ThrowsException"   // The example is expected to fail
	CheckOutputByHand = "CheckOutputByHand" // Captured output is never compared
	Main              = "main"              // Entry point override
)

const commentMarker = "//"

// Set is the immutable result of parsing one file's flag block.
type Set struct {
	lines  []string
	values map[string]*string
}

// Parse extracts the flag set from the leading comment block of lines.
// Malformed annotations are skipped without error.
func Parse(lines []string, discard []string) *Set {
	s := &Set{values: make(map[string]*string)}

	for _, line := range lines {
		if !strings.HasPrefix(line, commentMarker) {
			break // Only the top block counts
		}
		if !strings.HasPrefix(line, commentMarker+" {") {
			continue
		}
		if containsAny(line, discard) {
			continue
		}
		open := strings.Index(line, "{")
		end := strings.LastIndex(line, "}")
		if end <= open {
			continue
		}
		s.lines = append(s.lines, line)

		inner := strings.TrimSpace(line[open+1 : end])
		if name, arg, ok := strings.Cut(inner, ":"); ok {
			value := strings.TrimSpace(arg)
			s.values[strings.TrimSpace(name)] = &value
		} else {
			s.values[inner] = nil
		}
	}
	return s
}

// Has reports whether the flag is present, with or without a value.
func (s *Set) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Value returns the flag argument. ok is false when the flag is absent or
// was written without a value.
func (s *Set) Value(name string) (string, bool) {
	v, present := s.values[name]
	if !present || v == nil {
		return "", false
	}
	return *v, true
}

// Len returns the number of flag lines retained.
func (s *Set) Len() int {
	return len(s.lines)
}

// Lines returns the retained raw flag lines in source order.
func (s *Set) Lines() []string {
	return append([]string(nil), s.lines...)
}

// Keys returns the flag names in sorted order.
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// JVMArgs returns the JVMArgs value followed by a space, or "".
func (s *Set) JVMArgs() string {
	if v, ok := s.Value(JVMArgs); ok {
		return v + " "
	}
	return ""
}

// CmdArgs returns a space followed by the Args value, or "".
func (s *Set) CmdArgs() string {
	if v, ok := s.Value(Args); ok {
		return " " + v
	}
	return ""
}

// String renders the set as name[: value] pairs in key order.
func (s *Set) String() string {
	parts := make([]string, 0, len(s.values))
	for _, k := range s.Keys() {
		if v, ok := s.Value(k); ok {
			parts = append(parts, k+": "+v)
		} else {
			parts = append(parts, k)
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if t != "" && strings.Contains(s, t) {
			return true
		}
	}
	return false
}
