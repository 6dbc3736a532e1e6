package document

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// HTMLParser extracts readable text from an HTML page. Block elements
// delimit paragraphs; scripts, styles and navigation chrome are skipped.
type HTMLParser struct{}

func (HTMLParser) Parse(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	root := findElement(doc, "body")
	if root == nil {
		root = doc
	}

	w := &htmlWalker{}
	w.walk(root)
	w.flush()
	return joinParagraphs(w.paragraphs), nil
}

type htmlWalker struct {
	paragraphs []string
	current    strings.Builder
}

func (w *htmlWalker) flush() {
	w.paragraphs = append(w.paragraphs, w.current.String())
	w.current.Reset()
}

func (w *htmlWalker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.current.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "nav", "footer", "header", "noscript", "template":
			return
		case "br":
			w.current.WriteByte('\n')
			return
		}
		if isHTMLBlock(n.Data) {
			w.flush()
			w.walkChildren(n)
			w.flush()
			return
		}
	}
	w.walkChildren(n)
}

func (w *htmlWalker) walkChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func isHTMLBlock(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "main", "aside",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"li", "blockquote", "pre", "tr", "td", "th", "dd", "dt", "figcaption":
		return true
	}
	return false
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
