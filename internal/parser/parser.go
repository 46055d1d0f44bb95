package parser

import (
	"errors"
	"regexp"
	"strings"

	"github.com/sokinpui/splitter/internal/model"
)

// ErrNoDelimitersFound is returned when the content has no delimiter line at all.
var ErrNoDelimitersFound = errors.New("no delimiter comments found in the content")

// delimiterRegex matches a line such as "// path/to/file.txt". The path is
// everything after the comment marker up to the line ending, without the
// surrounding blanks.
var delimiterRegex = regexp.MustCompile(`(?m)^//[ \t]*(\S.*?)[ \t]*\r?\n`)

// Delimiter is a single delimiter line found in the source text.
type Delimiter struct {
	// Offset is the byte offset of the start of the line.
	Offset int
	// Length is the byte length of the whole line, including its line ending.
	Length int
	// Text is the matched line.
	Text string
	// Path is the destination path named by the line.
	Path string
}

// End returns the offset right after the delimiter line, where its segment begins.
func (d Delimiter) End() int {
	return d.Offset + d.Length
}

// Delimiters finds all delimiter lines in content, in source order.
func Delimiters(content string) []Delimiter {
	matches := delimiterRegex.FindAllStringSubmatchIndex(content, -1)
	delims := make([]Delimiter, 0, len(matches))
	for _, m := range matches {
		delims = append(delims, Delimiter{
			Offset: m[0],
			Length: m[1] - m[0],
			Text:   content[m[0]:m[1]],
			Path:   content[m[2]:m[3]],
		})
	}
	return delims
}

// Candidates returns one segment per delimiter line, including segments whose
// content is empty.
func Candidates(content string) ([]model.Segment, error) {
	delims := Delimiters(content)
	if len(delims) == 0 {
		return nil, ErrNoDelimitersFound
	}

	segments := make([]model.Segment, len(delims))
	for i, d := range delims {
		end := len(content)
		if i < len(delims)-1 {
			end = delims[i+1].Offset
		}
		segments[i] = model.Segment{
			Path:    d.Path,
			Content: strings.TrimSpace(content[d.End():end]),
		}
	}
	return segments, nil
}

// Split parses content into the ordered list of files to write. Segments
// with no content are dropped.
func Split(content string) ([]model.Segment, error) {
	candidates, err := Candidates(content)
	if err != nil {
		return nil, err
	}

	segments := candidates[:0]
	for _, s := range candidates {
		if s.Content == "" {
			continue
		}
		segments = append(segments, s)
	}
	return segments, nil
}
