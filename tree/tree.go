// Package tree wraps an etree document used as an ISO 19139 template. It
// provides a namespace aware selector over the element tree and the value
// writer that marks absent values with gco:nilReason.
package tree

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// Declaration is written in front of every serialized document.
const Declaration = `version="1.0" encoding="UTF-8"`

// Tree is a mutable template document. A tree is owned by a single goroutine
// for the duration of one transformation.
type Tree struct {
	doc *etree.Document
}

// New wraps an existing etree document.
func New(doc *etree.Document) *Tree {
	return &Tree{doc: doc}
}

// Parse reads a template from r.
func Parse(r io.Reader) (*Tree, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "parse template")
	}
	if doc.Root() == nil {
		return nil, errors.New("parse template: no root element")
	}
	return &Tree{doc: doc}, nil
}

// ParseFile reads a template from a file.
func ParseFile(filename string) (*Tree, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", filename)
	}
	return t, nil
}

// ParseString reads a template from a string.
func ParseString(s string) (*Tree, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document element.
func (t *Tree) Root() *etree.Element {
	return t.doc.Root()
}

// Document returns the underlying etree document.
func (t *Tree) Document() *etree.Document {
	return t.doc
}

// Bytes serializes the tree as UTF-8 with an XML declaration and two space
// indentation. Any declaration carried over from the template is replaced.
func (t *Tree) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := t.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo serializes the tree to w, see Bytes.
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	for _, tok := range t.doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			t.doc.RemoveChild(pi)
			break
		}
	}
	pi := t.doc.CreateProcInst("xml", Declaration)
	t.doc.RemoveChild(pi)
	t.doc.InsertChildAt(0, pi)
	t.doc.Indent(2)
	return t.doc.WriteTo(w)
}

// Clone returns an independent deep copy of el that has no parent.
func Clone(el *etree.Element) *etree.Element {
	return el.Copy()
}

// Detach removes el from its parent and returns the parent and the child
// token index el occupied. Detaching a parentless element returns nil, -1.
func Detach(el *etree.Element) (*etree.Element, int) {
	parent := el.Parent()
	if parent == nil {
		return nil, -1
	}
	index := el.Index()
	parent.RemoveChildAt(index)
	return parent, index
}

// InsertAt inserts el as a child token of parent at index. An index past the
// end appends.
func InsertAt(parent *etree.Element, index int, el *etree.Element) {
	parent.InsertChildAt(index, el)
}

// IsDocument reports whether el is the synthetic element holding the
// document root, or nil.
func IsDocument(el *etree.Element) bool {
	return el == nil || (el.Tag == "" && el.Parent() == nil)
}

// TextOf returns the concatenated character data of el and its descendants.
func TextOf(el *etree.Element) string {
	var sb strings.Builder
	collectText(&sb, el)
	return sb.String()
}

func collectText(sb *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch v := tok.(type) {
		case *etree.CharData:
			sb.WriteString(v.Data)
		case *etree.Element:
			collectText(sb, v)
		}
	}
}
