package tree

import (
	"strings"

	"github.com/antchfx/xpath"
	"github.com/beevik/etree"
)

// navigator moves over element and attribute nodes of an etree tree. The
// root node sits above the topmost element, so detached subtrees evaluate
// like documents of their own. Text, comments and namespace declarations
// are not visited.
type navigator struct {
	sel  *Selector
	top  *etree.Element
	cur  *etree.Element // nil at the root node
	attr int            // index into cur.Attr, or -1
}

func (s *Selector) navigator(ctx, top *etree.Element) *navigator {
	return &navigator{sel: s, top: top, cur: ctx, attr: -1}
}

func (n *navigator) NodeType() xpath.NodeType {
	switch {
	case n.cur == nil:
		return xpath.RootNode
	case n.attr >= 0:
		return xpath.AttributeNode
	default:
		return xpath.ElementNode
	}
}

func (n *navigator) LocalName() string {
	switch {
	case n.cur == nil:
		return ""
	case n.attr >= 0:
		return n.cur.Attr[n.attr].Key
	default:
		return n.cur.Tag
	}
}

func (n *navigator) Prefix() string {
	switch {
	case n.cur == nil:
		return ""
	case n.attr >= 0:
		return n.cur.Attr[n.attr].Space
	default:
		return n.cur.Space
	}
}

// NamespaceURL is consulted by xpath for prefixed name tests.
func (n *navigator) NamespaceURL() string {
	switch {
	case n.cur == nil:
		return ""
	case n.attr >= 0:
		return n.sel.attrURI(n.cur, n.cur.Attr[n.attr])
	default:
		return n.sel.elementURI(n.cur)
	}
}

// Value returns the attribute value, or the whitespace trimmed text content
// of an element.
func (n *navigator) Value() string {
	switch {
	case n.cur == nil:
		if n.top == nil {
			return ""
		}
		return strings.TrimSpace(TextOf(n.top))
	case n.attr >= 0:
		return n.cur.Attr[n.attr].Value
	default:
		return strings.TrimSpace(TextOf(n.cur))
	}
}

func (n *navigator) Copy() xpath.NodeNavigator {
	c := *n
	return &c
}

func (n *navigator) MoveToRoot() {
	n.cur, n.attr = nil, -1
}

func (n *navigator) MoveToParent() bool {
	switch {
	case n.cur == nil:
		return false
	case n.attr >= 0:
		n.attr = -1
	case n.cur == n.top:
		n.cur = nil
	default:
		n.cur = n.cur.Parent()
	}
	return true
}

func (n *navigator) MoveToNextAttribute() bool {
	if n.cur == nil {
		return false
	}
	for i := n.attr + 1; i < len(n.cur.Attr); i++ {
		if isNamespaceDecl(n.cur.Attr[i]) {
			continue
		}
		n.attr = i
		return true
	}
	return false
}

func (n *navigator) MoveToChild() bool {
	if n.attr >= 0 {
		return false
	}
	if n.cur == nil {
		if n.top == nil {
			return false
		}
		n.cur = n.top
		return true
	}
	if c := nextElement(n.cur, 0); c != nil {
		n.cur = c
		return true
	}
	return false
}

func (n *navigator) MoveToFirst() bool {
	if n.cur == nil || n.attr >= 0 || n.cur == n.top {
		return false
	}
	c := nextElement(n.cur.Parent(), 0)
	if c == nil || c == n.cur {
		return false
	}
	n.cur = c
	return true
}

func (n *navigator) MoveToNext() bool {
	if n.cur == nil || n.attr >= 0 || n.cur == n.top {
		return false
	}
	if c := nextElement(n.cur.Parent(), n.cur.Index()+1); c != nil {
		n.cur = c
		return true
	}
	return false
}

func (n *navigator) MoveToPrevious() bool {
	if n.cur == nil || n.attr >= 0 || n.cur == n.top {
		return false
	}
	parent := n.cur.Parent()
	for i := n.cur.Index() - 1; i >= 0; i-- {
		if c, ok := parent.Child[i].(*etree.Element); ok {
			n.cur = c
			return true
		}
	}
	return false
}

func (n *navigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*navigator)
	if !ok || o.top != n.top {
		return false
	}
	n.cur, n.attr = o.cur, o.attr
	return true
}

// nextElement returns the first child element of parent at or after token
// index i.
func nextElement(parent *etree.Element, i int) *etree.Element {
	for ; i < len(parent.Child); i++ {
		if c, ok := parent.Child[i].(*etree.Element); ok {
			return c
		}
	}
	return nil
}

func isNamespaceDecl(a etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns")
}
