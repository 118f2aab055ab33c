// Package xml wraps xmlquery with a small document and node API for
// reading TEI editions and CTS catalog metadata.
//
// Queries use XPath expressions evaluated against element names as they
// appear in the source document. TEI files place their elements in a
// default namespace without prefixes, so "//TEI/text/body" matches
// directly; CTS inventory files use the "ti:" prefix, so queries there
// spell it out ("//ti:work"). No namespace binding table is needed for
// either case.
//
// Nodes expose ordered mixed content. A TEI speech element interleaves
// character data with milestone and label children, and the order of
// those pieces is the order of the text itself, so ChildNodes returns
// text and element nodes together in document order.
package xml

import (
	"bytes"
	"io"

	"github.com/antchfx/xmlquery"
)

// Document is a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node is a single node in a parsed document.
type Node struct {
	node *xmlquery.Node
}

// Kind classifies a node for mixed-content traversal.
type Kind int

const (
	// KindElement is a named element node.
	KindElement Kind = iota
	// KindText is character data, including CDATA sections.
	KindText
	// KindOther covers comments, processing instructions, and
	// declarations, none of which carry edition text.
	KindOther
)

// Attr is a single attribute of an element node.
type Attr struct {
	Name  string
	Value string
}

// Parse parses XML from a byte slice.
func Parse(data []byte) (*Document, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader parses XML from a reader. Editions stored compressed are
// read through their decompressor without an intermediate copy.
func ParseReader(r io.Reader) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// Root returns the document's root element, or nil if the document has
// no element children.
func (d *Document) Root() *Node {
	for n := d.root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return &Node{node: n}
		}
	}
	return nil
}

// XPath evaluates an XPath expression against the whole document and
// returns all matching nodes in document order.
func (d *Document) XPath(expr string) ([]*Node, error) {
	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, err
	}
	return wrapNodes(nodes), nil
}

// XPathFirst evaluates an XPath expression and returns the first match,
// or nil if nothing matches.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	node, err := xmlquery.Query(d.root, expr)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}
	return &Node{node: node}, nil
}

// XPath evaluates an XPath expression relative to this node.
func (n *Node) XPath(expr string) ([]*Node, error) {
	nodes, err := xmlquery.QueryAll(n.node, expr)
	if err != nil {
		return nil, err
	}
	return wrapNodes(nodes), nil
}

// XPathFirst evaluates an XPath expression relative to this node and
// returns the first match, or nil if nothing matches.
func (n *Node) XPathFirst(expr string) (*Node, error) {
	node, err := xmlquery.Query(n.node, expr)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}
	return &Node{node: node}, nil
}

// Kind reports what sort of node this is.
func (n *Node) Kind() Kind {
	switch n.node.Type {
	case xmlquery.ElementNode:
		return KindElement
	case xmlquery.TextNode, xmlquery.CharDataNode:
		return KindText
	default:
		return KindOther
	}
}

// Name returns the element's local name. The namespace prefix, if the
// document used one, is not included.
func (n *Node) Name() string {
	return n.node.Data
}

// Text returns the node's character data. For a text node this is the
// data itself; for an element it is the concatenated text of all
// descendants in document order.
func (n *Node) Text() string {
	return n.node.InnerText()
}

// Children returns the node's element children in document order,
// skipping interleaved text.
func (n *Node) Children() []*Node {
	var children []*Node
	for c := n.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			children = append(children, &Node{node: c})
		}
	}
	return children
}

// ChildNodes returns all element and text children in document order.
// Comments and processing instructions are omitted.
func (n *Node) ChildNodes() []*Node {
	var children []*Node
	for c := n.node.FirstChild; c != nil; c = c.NextSibling {
		child := &Node{node: c}
		if child.Kind() == KindOther {
			continue
		}
		children = append(children, child)
	}
	return children
}

// Attributes returns the element's attributes in document order.
func (n *Node) Attributes() []Attr {
	var attrs []Attr
	for _, a := range n.node.Attr {
		attrs = append(attrs, Attr{Name: a.Name.Local, Value: a.Value})
	}
	return attrs
}

// Attr returns the value of the named attribute, or the empty string if
// the element does not carry it. The name is matched against the local
// part only.
func (n *Node) Attr(name string) string {
	return n.node.SelectAttr(name)
}

func wrapNodes(nodes []*xmlquery.Node) []*Node {
	wrapped := make([]*Node, len(nodes))
	for i, node := range nodes {
		wrapped[i] = &Node{node: node}
	}
	return wrapped
}
