// Package output compares captured example output with the output block
// embedded at the end of each example, and appends missing blocks.
package output

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Output block markers.
const (
	OpenMarker  = "/* Output:"
	CloseMarker = "*/"
)

var tagFind = regexp.MustCompile(`\(.*?\)`)

// Tags describes the /* Output: lines of one source file.
//
// Tags such as (Sample), (First 10 Lines) or (90% Match) qualify how the
// embedded output relates to a real run.
type Tags struct {
	Path      string
	HasOutput bool
	Tags      []string
}

// ReadTags scans path for output block openers and their tags.
func ReadTags(path string) (*Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t := &Tags{Path: path}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, OpenMarker) {
			continue
		}
		t.HasOutput = true
		for _, tag := range tagFind.FindAllString(line, -1) {
			t.Tags = append(t.Tags, tag[1:len(tag)-1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}

// Any reports whether the file has an output block carrying at least one tag.
func (t *Tags) Any() bool {
	return t.HasOutput && len(t.Tags) > 0
}

// Contains reports whether any tag equals one of names.
func (t *Tags) Contains(names ...string) bool {
	for _, tag := range t.Tags {
		for _, n := range names {
			if tag == n {
				return true
			}
		}
	}
	return false
}

func (t *Tags) String() string {
	return fmt.Sprintf("%s\n%v\n", t.Path, t.Tags)
}
