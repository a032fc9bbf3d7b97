// Package crawler provides a node-set view over parsed HTML documents with
// XPath filtering. Filtering expressions are relativized first so that each
// node in the set is queried as if it were the only child of the document
// root, regardless of where it sits in the real document.
package crawler

import (
	"io"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// Crawler holds an ordered set of HTML nodes. The zero value is an empty set.
type Crawler struct {
	nodes []*html.Node
}

// New builds a crawler over the given nodes.
func New(nodes ...*html.Node) *Crawler {
	return &Crawler{nodes: nodes}
}

// Parse reads an HTML document and returns a crawler positioned on its root.
func Parse(r io.Reader) (*Crawler, error) {
	doc, err := htmlquery.Parse(r)
	if err != nil {
		return nil, err
	}
	return New(doc), nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(content string) (*Crawler, error) {
	return Parse(strings.NewReader(content))
}

// Nodes returns the underlying node set. The slice must not be mutated.
func (c *Crawler) Nodes() []*html.Node {
	return c.nodes
}

// Len returns the number of nodes in the set.
func (c *Crawler) Len() int {
	return len(c.nodes)
}

// Eq returns a crawler holding the i-th node, or an empty crawler when i is
// out of range.
func (c *Crawler) Eq(i int) *Crawler {
	if i < 0 || i >= len(c.nodes) {
		return New()
	}
	return New(c.nodes[i])
}

// First returns a crawler holding the first node of the set.
func (c *Crawler) First() *Crawler {
	return c.Eq(0)
}

// Last returns a crawler holding the last node of the set.
func (c *Crawler) Last() *Crawler {
	return c.Eq(len(c.nodes) - 1)
}

// Each calls fn for every node in the set, wrapped in a single-node crawler.
func (c *Crawler) Each(fn func(int, *Crawler)) {
	for i, n := range c.nodes {
		fn(i, New(n))
	}
}

// FilterXPath evaluates an XPath expression against every node in the set and
// returns the matching nodes in discovery order. The expression is relativized
// first; an expression that cannot be relativized, or relativizes to nothing,
// yields an empty crawler. A syntactically broken relative expression is
// reported by the XPath engine.
func (c *Crawler) FilterXPath(expression string) (*Crawler, error) {
	relative, err := Relativize(expression)
	if err != nil || relative == "" {
		// definitely no matches, skip evaluation entirely
		return New(), nil
	}

	compiled, err := xpath.Compile(relative)
	if err != nil {
		return nil, err
	}

	var matched []*html.Node
	for _, node := range c.nodes {
		matched = append(matched, htmlquery.QuerySelectorAll(node, compiled)...)
	}
	return New(matched...), nil
}

// Text returns the concatenated text content of the first node in the set.
func (c *Crawler) Text() string {
	if len(c.nodes) == 0 {
		return ""
	}
	return htmlquery.InnerText(c.nodes[0])
}

// Attr returns the value of the named attribute on the first node in the set.
// The second return value reports whether the attribute exists.
func (c *Crawler) Attr(name string) (string, bool) {
	if len(c.nodes) == 0 {
		return "", false
	}
	if !htmlquery.ExistsAttr(c.nodes[0], name) {
		return "", false
	}
	return htmlquery.SelectAttr(c.nodes[0], name), true
}

// OuterHTML renders the first node in the set, including the node itself.
func (c *Crawler) OuterHTML() string {
	if len(c.nodes) == 0 {
		return ""
	}
	return htmlquery.OutputHTML(c.nodes[0], true)
}
