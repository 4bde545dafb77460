package tree

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/antchfx/xpath"
	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a path that must match selects nothing.
var ErrNotFound = errors.New("no element matches path")

// Namespaces maps prefixes used in paths to namespace URIs.
type Namespaces map[string]string

// ISONamespaces returns the prefix table for ISO 19139 and CSW documents.
func ISONamespaces() Namespaces {
	return Namespaces{
		"gmd":   "http://www.isotc211.org/2005/gmd",
		"gco":   "http://www.isotc211.org/2005/gco",
		"gml":   "http://www.opengis.net/gml",
		"xlink": "http://www.w3.org/1999/xlink",
		"csw":   "http://www.opengis.net/cat/csw/2.0.2",
		"ogc":   "http://www.opengis.net/ogc",
		"apiso": "http://www.opengis.net/cat/csw/apiso/1.0",
	}
}

// Selector evaluates paths against element trees. The namespace table is
// fixed at construction; a selector may be shared between goroutines.
type Selector struct {
	ns    Namespaces
	cache sync.Map // string -> *Path
}

// NewSelector returns a selector resolving prefixes through ns.
func NewSelector(ns Namespaces) *Selector {
	table := make(Namespaces, len(ns))
	for k, v := range ns {
		table[k] = v
	}
	return &Selector{ns: table}
}

// Namespaces returns a copy of the prefix table.
func (s *Selector) Namespaces() Namespaces {
	table := make(Namespaces, len(s.ns))
	for k, v := range s.ns {
		table[k] = v
	}
	return table
}

// Locate returns all elements matching path, relative to ctx unless path is
// absolute, in document order without duplicates.
func (s *Selector) Locate(ctx *etree.Element, path string) ([]*etree.Element, error) {
	p, err := s.Compile(path)
	if err != nil {
		return nil, err
	}
	return s.Eval(ctx, p), nil
}

// LocateFirst returns the first match of path or an error wrapping
// ErrNotFound.
func (s *Selector) LocateFirst(ctx *etree.Element, path string) (*etree.Element, error) {
	result, err := s.Locate(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "%s", path)
	}
	return result[0], nil
}

// LocateLast returns the last match of path or an error wrapping
// ErrNotFound.
func (s *Selector) LocateLast(ctx *etree.Element, path string) (*etree.Element, error) {
	result, err := s.Locate(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "%s", path)
	}
	return result[len(result)-1], nil
}

// Is reports whether el has the qualified name qname, e.g. "gmd:extent".
func (s *Selector) Is(el *etree.Element, qname string) bool {
	space, local, err := s.resolve(qname)
	if err != nil {
		return false
	}
	return el.Tag == local && s.elementURI(el) == space
}

// Compile parses a path, caching the result.
func (s *Selector) Compile(path string) (*Path, error) {
	if v, ok := s.cache.Load(path); ok {
		return v.(*Path), nil
	}
	src := strings.TrimSpace(path)
	if src == "" {
		return nil, &SyntaxError{Path: path, Err: errors.New("empty path")}
	}
	expr, err := xpath.CompileWithNS(src, s.ns)
	if err != nil {
		return nil, &SyntaxError{Path: path, Err: err}
	}
	p := &Path{src: src, expr: expr}
	s.cache.Store(path, p)
	return p, nil
}

// SyntaxError reports an unparsable path or an unknown prefix.
type SyntaxError struct {
	Path string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("path %q: %v", e.Path, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Path is a compiled XPath 1.0 expression. A path can be evaluated
// concurrently.
type Path struct {
	src  string
	expr *xpath.Expr
}

func (p *Path) String() string { return p.src }

// Eval evaluates a compiled path. Attribute and text results are dropped.
func (s *Selector) Eval(ctx *etree.Element, p *Path) []*etree.Element {
	top := topmost(ctx)
	if ctx != nil && IsDocument(ctx) {
		top, ctx = nextElement(ctx, 0), nil
	}
	var (
		iter   = p.expr.Select(s.navigator(ctx, top))
		seen   = make(map[*etree.Element]bool)
		result []*etree.Element
	)
	for iter.MoveNext() {
		n, ok := iter.Current().(*navigator)
		if !ok || n.cur == nil || n.attr >= 0 || seen[n.cur] {
			continue
		}
		seen[n.cur] = true
		result = append(result, n.cur)
	}
	return inDocumentOrder(top, result)
}

// elementURI resolves the namespace of el through in-scope declarations,
// falling back to the selector table for elements outside any document.
func (s *Selector) elementURI(el *etree.Element) string {
	if uri := el.NamespaceURI(); uri != "" {
		return uri
	}
	if el.Space == "" {
		return ""
	}
	return s.ns[el.Space]
}

func (s *Selector) attrURI(el *etree.Element, a etree.Attr) string {
	if a.Space == "" {
		return ""
	}
	if uri := lookupPrefix(el, a.Space); uri != "" {
		return uri
	}
	return s.ns[a.Space]
}

// lookupPrefix returns the URI bound to prefix by declarations on el or its
// ancestors.
func lookupPrefix(el *etree.Element, prefix string) string {
	for e := el; e != nil; e = e.Parent() {
		for _, d := range e.Attr {
			if d.Space == "xmlns" && d.Key == prefix {
				return d.Value
			}
		}
	}
	return ""
}

func (s *Selector) resolve(qname string) (space, local string, err error) {
	prefix, local, ok := strings.Cut(qname, ":")
	if !ok {
		return "", qname, nil
	}
	uri, ok := s.ns[prefix]
	if !ok {
		return "", "", fmt.Errorf("unknown prefix %q", prefix)
	}
	return uri, local, nil
}

func topmost(el *etree.Element) *etree.Element {
	if el == nil {
		return nil
	}
	for {
		p := el.Parent()
		if IsDocument(p) {
			return el
		}
		el = p
	}
}

func descendants(el *etree.Element) []*etree.Element {
	var out []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, c := range e.ChildElements() {
			out = append(out, c)
			walk(c)
		}
	}
	walk(el)
	return out
}

func inDocumentOrder(top *etree.Element, els []*etree.Element) []*etree.Element {
	if len(els) < 2 || top == nil {
		return els
	}
	order := make(map[*etree.Element]int)
	order[top] = 0
	for i, el := range descendants(top) {
		order[el] = i + 1
	}
	sort.SliceStable(els, func(i, j int) bool {
		return order[els[i]] < order[els[j]]
	})
	return els
}
