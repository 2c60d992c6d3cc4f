package adapters

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/regulqa/internal/extract"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockElements carry requirement statements in standards HTML
var blockElements = map[atom.Atom]bool{
	atom.Li: true,
	atom.P:  true,
	atom.Dd: true,
}

// skipElements never contribute visible text
var skipElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
}

var hiddenStyle = regexp.MustCompile(`(?i)(display\s*:\s*none|visibility\s*:\s*hidden)`)

// HTMLAdapter extracts the text of list items, paragraphs and definitions
type HTMLAdapter struct{}

// NewHTMLAdapter creates the HTML adapter
func NewHTMLAdapter() *HTMLAdapter {
	return &HTMLAdapter{}
}

// Name returns the adapter name
func (a *HTMLAdapter) Name() string {
	return "html"
}

// CanHandle accepts html, htm and xhtml
func (a *HTMLAdapter) CanHandle(ext string) bool {
	switch ext {
	case "html", "htm", "xhtml":
		return true
	}
	return false
}

// Extract returns one block per li/p/dd element. A page without such
// elements yields its visible text as a single block.
func (a *HTMLAdapter) Extract(data []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(bytes.ToValidUTF8(data, nil)))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var blocks []string
	for _, n := range FindAll(doc, isBlock) {
		if t := extract.Normalize(ExtractText(n)); t != "" {
			blocks = append(blocks, t)
		}
	}

	if len(blocks) == 0 {
		if t := extract.Normalize(ExtractText(doc)); t != "" {
			blocks = append(blocks, t)
		}
	}

	return blocks, nil
}

func isBlock(n *html.Node) bool {
	return n.Type == html.ElementNode && blockElements[n.DataAtom]
}

func hidden(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if skipElements[n.DataAtom] {
		return true
	}
	if style := GetAttribute(n, "style"); style != "" && hiddenStyle.MatchString(style) {
		return true
	}
	_, isHidden := attribute(n, "hidden")
	return isHidden
}

// ExtractText returns the visible text below n, words separated by spaces
func ExtractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	if hidden(n) {
		return ""
	}

	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := ExtractText(c); t != "" {
			buf.WriteString(t)
			buf.WriteString(" ")
		}
	}
	return strings.TrimSpace(buf.String())
}

// GetAttribute gets an attribute value from a node
func GetAttribute(n *html.Node, key string) string {
	v, _ := attribute(n, key)
	return v
}

func attribute(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// FindAll finds all visible nodes matching a predicate in document order
func FindAll(n *html.Node, predicate func(*html.Node) bool) []*html.Node {
	var results []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if hidden(node) {
			return
		}
		if predicate(node) {
			results = append(results, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return results
}
