package flags

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

var discard = []string{"{Requires:"}

func lines(s string) []string {
	return strings.Split(s, "\n")
}

func TestParse_LeadingBlockOnly(t *testing.T) {
	src := lines(`// concurrent/Example.java
// {JVMArgs: -Xss1m}
// {Args: foo bar}
// {ThrowsException}
public class Example {
// {Exec: not-a-flag}
}`)
	s := Parse(src, discard)

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Has(JVMArgs))
	assert.True(t, s.Has(ThrowsException))
	assert.False(t, s.Has(Exec), "flags after the leading block are ignored")
	assert.Equal(t, []string{Args, JVMArgs, ThrowsException}, s.Keys())
}

func TestParse_ValuePresence(t *testing.T) {
	s := Parse(lines("// {ThrowsException}\n// {Args: a b c}"), discard)

	v, ok := s.Value(ThrowsException)
	assert.False(t, ok)
	assert.Empty(t, v)

	v, ok = s.Value(Args)
	assert.True(t, ok)
	assert.Equal(t, "a b c", v)

	_, ok = s.Value("Missing")
	assert.False(t, ok)
}

func TestParse_DiscardList(t *testing.T) {
	s := Parse(lines("// {Requires: jdk9}\n// {main: Other}"), discard)
	assert.Equal(t, 1, s.Len())
	assert.False(t, s.Has("Requires"))
	assert.True(t, s.Has(Main))
}

func TestParse_MalformedLinesSkipped(t *testing.T) {
	s := Parse(lines("// {Unclosed\n// plain comment\n//{NoSpace}\n// {Good}"), discard)
	assert.Equal(t, []string{"Good"}, s.Keys())
	assert.Equal(t, 1, s.Len())
}

func TestParse_LastOccurrenceWins(t *testing.T) {
	s := Parse(lines("// {Args: first}\n// {Args: second}"), discard)
	v, _ := s.Value(Args)
	assert.Equal(t, "second", v)
	assert.Equal(t, 2, s.Len())
}

func TestParse_ValueKeepsLaterColons(t *testing.T) {
	s := Parse(lines("// {Exec: java -cp .:lib Main}"), discard)
	v, ok := s.Value(Exec)
	assert.True(t, ok)
	assert.Equal(t, "java -cp .:lib Main", v)
}

func TestParse_Deterministic(t *testing.T) {
	src := lines("// {A}\n// {B: 1}\n// {C: x y}\n// {A: again}")
	first := Parse(src, discard)
	second := Parse(src, discard)

	if diff := cmp.Diff(first.Keys(), second.Keys()); diff != "" {
		t.Errorf("keys differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Lines(), second.Lines()); diff != "" {
		t.Errorf("lines differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.String(), second.String())
}

func TestArgRenderers(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		jvmArgs string
		cmdArgs string
	}{
		{"both", "// {JVMArgs: -Xss1m}\n// {Args: foo bar}", "-Xss1m ", " foo bar"},
		{"absent", "// {ThrowsException}", "", ""},
		{"present without value", "// {JVMArgs}\n// {Args}", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Parse(lines(tt.src), discard)
			assert.Equal(t, tt.jvmArgs, s.JVMArgs())
			assert.Equal(t, tt.cmdArgs, s.CmdArgs())
		})
	}
}

func TestString(t *testing.T) {
	s := Parse(lines("// {B: 2}\n// {A}"), discard)
	assert.Equal(t, "{A, B: 2}", s.String())
}
