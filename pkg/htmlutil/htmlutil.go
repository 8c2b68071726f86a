package htmlutil

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// Normalize applies NFKD (compatibility decomposition) and trims surrounding
// whitespace, this turns non-breaking spaces into plain spaces.
func Normalize(text string) string {
	return strings.TrimSpace(norm.NFKD.String(text))
}

// Query describes an element search: a tag name, an optional id and a set of
// classes that must all be present on the element.
type Query struct {
	Tag     string
	ID      string
	Classes []string
}

// Tag creates a query that matches all elements with the given tag name.
func Tag(name string) Query {
	return Query{Tag: name}
}

func (q Query) WithClass(classes ...string) Query {
	q.Classes = append(append([]string{}, q.Classes...), classes...)
	return q
}

func (q Query) WithID(id string) Query {
	q.ID = id
	return q
}

func (q Query) selector() string {
	var sb strings.Builder
	sb.WriteString(q.Tag)
	if q.ID != "" {
		sb.WriteString("#")
		sb.WriteString(q.ID)
	}
	for _, c := range q.Classes {
		sb.WriteString(".")
		sb.WriteString(c)
	}
	if sb.Len() == 0 {
		return "*"
	}
	return sb.String()
}

func (q Query) String() string {
	return q.selector()
}

// Tree is the read-only search surface that extractors walk. Searches only
// consider descendants, never the receiver itself.
type Tree interface {
	// FindAll returns every match in document order.
	FindAll(q Query) []Node
	// FindFirst returns the first match in document order.
	FindFirst(q Query) (Node, bool)
	// Nth returns the n-th match, a negative n counts from the end (-1 is
	// the last match).
	Nth(q Query, n int) (Node, bool)
}

// Node is a single node of a parsed document, it may be an element or a
// text/comment node.
type Node interface {
	Tree

	// Tag returns the element name, or "#text" / "#comment" for non element nodes.
	Tag() string
	Attr(name string) (string, bool)
	IsElement() bool
	// Children returns every direct child, including text nodes.
	Children() []Node

	// RawText is the concatenated text content, untouched.
	RawText() string
	// Text is RawText with leading and trailing whitespace removed.
	Text() string
	// NormalizedText is RawText after Normalize.
	NormalizedText() string
}

type node struct {
	sel *goquery.Selection
}

func wrap(sel *goquery.Selection) []Node {
	out := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, node{sel: s})
	})
	return out
}

func (n node) FindAll(q Query) []Node {
	return wrap(n.sel.Find(q.selector()))
}

func (n node) FindFirst(q Query) (Node, bool) {
	found := n.sel.Find(q.selector()).First()
	if found.Length() == 0 {
		return nil, false
	}
	return node{sel: found}, true
}

func (n node) Nth(q Query, idx int) (Node, bool) {
	found := n.sel.Find(q.selector())
	if idx < 0 {
		idx += found.Length()
	}
	if idx < 0 || idx >= found.Length() {
		return nil, false
	}
	return node{sel: found.Eq(idx)}, true
}

func (n node) Tag() string {
	return goquery.NodeName(n.sel)
}

func (n node) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n node) IsElement() bool {
	return len(n.sel.Nodes) > 0 && n.sel.Nodes[0].Type == html.ElementNode
}

func (n node) Children() []Node {
	return wrap(n.sel.Contents())
}

func (n node) RawText() string {
	if len(n.sel.Nodes) == 0 {
		return ""
	}
	return GetText(n.sel.Nodes[0])
}

func (n node) Text() string {
	return strings.TrimSpace(n.RawText())
}

func (n node) NormalizedText() string {
	return Normalize(n.RawText())
}

// Document is a parsed page. It is read-only once built and is meant to
// live for the duration of a single extraction.
type Document struct {
	node
}

func Parse(markup string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{node: node{sel: doc.Selection}}, nil
}

// Anchor is the visible text and href of a link.
type Anchor struct {
	Name string
	Href string
}

// GetAnchor reads the text and the href of an anchor node, it fails if the
// node has no href.
func GetAnchor(n Node) (Anchor, error) {
	href, ok := n.Attr("href")
	if !ok {
		return Anchor{}, fmt.Errorf("<%s> has no href", n.Tag())
	}
	return Anchor{
		Name: n.Text(),
		Href: href,
	}, nil
}
