// Package project reconciles the single placeholder occurrence of a
// repeatable element in a template with a variable number of input values.
//
// A Slot is cut out of the template once: the placeholder is detached and
// its parent and index are remembered. Every Insert clones the placeholder,
// puts the clone back at the next free position and fills it. A slot that
// never receives a value is released, which removes wrapper elements that
// only existed to host the placeholder.
package project

import (
	"github.com/beevik/etree"
	"github.com/pkg/errors"

	"github.com/miku/isokit/tree"
)

// FillFunc writes values into a freshly inserted clone.
type FillFunc func(el *etree.Element) error

// Slot is a detached placeholder together with its original position.
type Slot struct {
	Path        string
	Placeholder *etree.Element
	Parent      *etree.Element
	Index       int
	inserted    int
	last        *etree.Element
	set         *Set
	ord         int // position of the placeholder among the template children
}

// Cut locates the placeholder at path and detaches it.
func Cut(sel *tree.Selector, root *etree.Element, path string) (*Slot, error) {
	el, err := sel.LocateFirst(root, path)
	if err != nil {
		return nil, err
	}
	return cut(el, path)
}

func cut(el *etree.Element, path string) (*Slot, error) {
	parent, index := tree.Detach(el)
	if parent == nil {
		return nil, errors.Errorf("placeholder %s has no parent", path)
	}
	return &Slot{
		Path:        path,
		Placeholder: el,
		Parent:      parent,
		Index:       index,
		ord:         index,
	}, nil
}

// Inserted returns the number of clones inserted so far.
func (s *Slot) Inserted() int { return s.inserted }

// Insert clones the placeholder, inserts the clone after any earlier
// insertions and then fills it. The clone is attached before filling, so
// writers can mark its parent. A nil fill keeps the template content.
func (s *Slot) Insert(fill FillFunc) error {
	clone := tree.Clone(s.Placeholder)
	tree.InsertAt(s.Parent, s.position(), clone)
	s.last = clone
	s.inserted++
	if s.set != nil {
		s.set.clones[clone] = s.ord
	}
	if fill == nil {
		return nil
	}
	return fill(clone)
}

// position returns the child index for the next clone.
func (s *Slot) position() int {
	if s.last != nil && s.last.Parent() == s.Parent {
		return s.last.Index() + 1
	}
	if s.set != nil {
		return s.set.position(s)
	}
	return s.Index
}

// Project inserts one clone per fill function, in order.
func (s *Slot) Project(fills ...FillFunc) error {
	for _, f := range fills {
		if err := s.Insert(f); err != nil {
			return err
		}
	}
	return nil
}

// Set tracks the slots cut from one document. The child order of a parent
// is recorded before its first placeholder is cut, and a first clone goes
// in front of the first remaining child, or clone of another slot, that
// came after the placeholder in that order. Every slot keeps its place
// regardless of the order fields are processed in.
type Set struct {
	sel    *tree.Selector
	root   *etree.Element
	slots  map[string]*Slot
	order  []*Slot
	origin map[*etree.Element]map[etree.Token]int
	clones map[*etree.Element]int
}

// NewSet returns an empty set for the document rooted at root.
func NewSet(sel *tree.Selector, root *etree.Element) *Set {
	return &Set{
		sel:    sel,
		root:   root,
		slots:  make(map[string]*Slot),
		origin: make(map[*etree.Element]map[etree.Token]int),
		clones: make(map[*etree.Element]int),
	}
}

// Cut returns the slot for path, cutting it on first use. Fields sharing a
// placeholder share the slot and append in the order they insert.
func (set *Set) Cut(path string) (*Slot, error) {
	if s, ok := set.slots[path]; ok {
		return s, nil
	}
	el, err := set.sel.LocateFirst(set.root, path)
	if err != nil {
		return nil, err
	}
	ord := set.ordinal(el)
	s, err := cut(el, path)
	if err != nil {
		return nil, err
	}
	s.set, s.ord = set, ord
	set.slots[path] = s
	set.order = append(set.order, s)
	return s, nil
}

// ordinal returns the template position of el among its siblings. Elements
// added after the order was recorded share the ordinal of the closest
// recorded sibling before them.
func (set *Set) ordinal(el *etree.Element) int {
	parent := el.Parent()
	if parent == nil {
		return -1
	}
	order, ok := set.origin[parent]
	if !ok {
		order = make(map[etree.Token]int, len(parent.Child))
		for i, tok := range parent.Child {
			order[tok] = i
		}
		set.origin[parent] = order
	}
	for i := el.Index(); i >= 0; i-- {
		if ord, ok := set.key(order, parent.Child[i]); ok {
			return ord
		}
	}
	return -1
}

func (set *Set) key(order map[etree.Token]int, tok etree.Token) (int, bool) {
	if ord, ok := order[tok]; ok {
		return ord, true
	}
	if el, ok := tok.(*etree.Element); ok {
		ord, ok := set.clones[el]
		return ord, ok
	}
	return 0, false
}

// position returns the index in front of the first child that sorts after
// the placeholder of s.
func (set *Set) position(s *Slot) int {
	order := set.origin[s.Parent]
	for i, tok := range s.Parent.Child {
		if ord, ok := set.key(order, tok); ok && ord > s.ord {
			return i
		}
	}
	return len(s.Parent.Child)
}

// Slots returns all slots in the order they were cut.
func (set *Set) Slots() []*Slot {
	return set.order
}

// PruneRule names the wrapper elements that may be removed together with an
// unused placeholder, and the scaffold children (e.g. a thesaurus citation)
// that do not keep a wrapper alive on their own.
type PruneRule struct {
	Wrappers []string
	Scaffold []string
}

// Release removes empty wrappers of a slot that received no values. Starting
// at the placeholder's parent it walks upward while the element is a wrapper
// and all of its remaining child elements are scaffold. It returns the
// removed wrappers, outermost last.
func (s *Slot) Release(sel *tree.Selector, rule PruneRule) []*etree.Element {
	if s.inserted > 0 {
		return nil
	}
	var removed []*etree.Element
	for q := s.Parent; !tree.IsDocument(q); {
		if !matchesAny(sel, q, rule.Wrappers) {
			break
		}
		for _, c := range q.ChildElements() {
			if !matchesAny(sel, c, rule.Scaffold) {
				return removed
			}
		}
		parent := q.Parent()
		if tree.IsDocument(parent) {
			break
		}
		parent.RemoveChild(q)
		removed = append(removed, q)
		q = parent
	}
	return removed
}

func matchesAny(sel *tree.Selector, el *etree.Element, names []string) bool {
	for _, name := range names {
		if sel.Is(el, name) {
			return true
		}
	}
	return false
}
