// Package xml provides well-formedness checks and XPath selection over XML
// corpora, backed by xmlquery.
//
// Security Notes:
//   - XXE (External Entity) attacks are mitigated by using Go's xml.Decoder
//     which doesn't fetch external entities, and Validate disables entity
//     expansion entirely.
//   - xmlquery parses with encoding/xml internally and inherits its security
//     properties.
package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Document represents a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node represents an XML element.
type Node struct {
	node *xmlquery.Node
}

// Expr is a compiled XPath expression that can be reused across documents.
type Expr struct {
	src  string
	expr *xpath.Expr
}

// ValidationResult contains the result of a well-formedness check.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError represents a single validation error.
type ValidationError struct {
	Line    int
	Column  int
	Message string
}

func (e ValidationError) String() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Parse parses XML data and returns a Document.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// Validate checks that data is well-formed XML. It stops at the first error.
func Validate(data []byte) ValidationResult {
	result := ValidationResult{Valid: true}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	// XXE Protection (CWE-611): no entity expansion at all.
	decoder.Entity = map[string]string{}

	sawElement := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, col := decoder.InputPos()
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Line:    line,
				Column:  col,
				Message: err.Error(),
			})
			return result
		}
		if _, ok := tok.(xml.StartElement); ok {
			sawElement = true
		}
	}

	if !sawElement {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{Line: 1, Message: "no root element"})
	}
	return result
}

// Compile compiles an XPath expression.
func Compile(expr string) (*Expr, error) {
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	return &Expr{src: expr, expr: e}, nil
}

// MustCompile is like Compile but panics on error. Use for package-level expressions.
func MustCompile(expr string) *Expr {
	e, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the source of the expression.
func (e *Expr) String() string {
	return e.src
}

// Root returns the root element of the document.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// Select returns the nodes matching e, evaluated from the document node.
func (d *Document) Select(e *Expr) []*Node {
	return wrap(xmlquery.QuerySelectorAll(d.root, e.expr))
}

// SelectFirst returns the first node matching e, or nil.
func (d *Document) SelectFirst(e *Expr) *Node {
	if n := xmlquery.QuerySelector(d.root, e.expr); n != nil {
		return &Node{node: n}
	}
	return nil
}

// Select returns the nodes matching e, evaluated relative to n.
func (n *Node) Select(e *Expr) []*Node {
	if n == nil || n.node == nil {
		return nil
	}
	return wrap(xmlquery.QuerySelectorAll(n.node, e.expr))
}

// Name returns the element's local name.
func (n *Node) Name() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns all text content of the node and its descendants.
func (n *Node) Text() string {
	if n == nil || n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// TextExcluding returns the text content of the node, leaving out any
// descendant element whose name matches one of skip (case-insensitive).
func (n *Node) TextExcluding(skip ...string) string {
	if n == nil || n.node == nil {
		return ""
	}
	var sb strings.Builder
	collectText(&sb, n.node, skip)
	return sb.String()
}

func collectText(sb *strings.Builder, n *xmlquery.Node, skip []string) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			sb.WriteString(child.Data)
		case xmlquery.ElementNode:
			if containsFold(skip, child.Data) {
				continue
			}
			collectText(sb, child, skip)
		}
	}
}

// Attr returns the value of the named attribute, matching the name
// case-insensitively. Missing attributes return "".
func (n *Node) Attr(name string) string {
	if n == nil || n.node == nil {
		return ""
	}
	for _, attr := range n.node.Attr {
		if strings.EqualFold(attr.Name.Local, name) {
			return attr.Value
		}
	}
	return ""
}

func wrap(nodes []*xmlquery.Node) []*Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = &Node{node: n}
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
