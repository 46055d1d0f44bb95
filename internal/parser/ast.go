package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Unfence returns the inside of a fenced code block when content consists of
// exactly one such block, e.g. "```go\npackage main\n```". Any other content is
// returned unchanged.
func Unfence(content string) string {
	source := []byte(content)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))
	if root.ChildCount() != 1 {
		return content
	}

	fencedCodeBlock, ok := root.FirstChild().(*ast.FencedCodeBlock)
	if !ok {
		return content
	}

	var body bytes.Buffer
	lines := fencedCodeBlock.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		body.Write(line.Value(source))
	}
	return strings.TrimRight(body.String(), "\r\n")
}
