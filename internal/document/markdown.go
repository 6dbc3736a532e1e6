package document

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser flattens Markdown with goldmark. Each leaf block (heading,
// paragraph, code block) becomes one paragraph; markup is dropped.
type MarkdownParser struct{}

func (MarkdownParser) Parse(data []byte) (string, error) {
	src, err := TextParser{}.Parse(data)
	if err != nil {
		return "", err
	}
	source := []byte(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var paragraphs []string
	collectBlocks(doc, source, &paragraphs)
	return joinParagraphs(paragraphs), nil
}

// collectBlocks appends the text of every leaf block under n in document
// order.
func collectBlocks(n ast.Node, src []byte, out *[]string) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() != ast.TypeBlock {
			continue
		}
		if first := c.FirstChild(); first != nil && first.Type() == ast.TypeBlock {
			collectBlocks(c, src, out)
			continue
		}
		switch c.(type) {
		case *ast.ThematicBreak, *ast.HTMLBlock:
			continue
		}
		*out = append(*out, blockText(c, src))
	}
}

// blockText returns the text of a leaf block: its inline content when it
// has any, its raw lines otherwise (code blocks).
func blockText(n ast.Node, src []byte) string {
	var b strings.Builder
	if n.HasChildren() {
		writeInline(&b, n, src)
		return b.String()
	}
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}

func writeInline(b *strings.Builder, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(node.Value)
		default:
			writeInline(b, c, src)
		}
	}
}
