// Package cvrf provides a generic, read-only view of a CVRF XML document.
//
// The tree keeps document order, local element names and the source line of
// every start tag so that callers can report where malformed input lives.
package cvrf

import (
	"golang.org/x/xerrors"
)

var (
	ErrMissingAttribute = xerrors.New("missing attribute")
	ErrMissingElement   = xerrors.New("missing element")
)

// Element is a single XML element.
type Element struct {
	Name     string
	Line     int
	attrs    map[string]string
	text     string
	children []*Element
}

// Has reports whether e has at least one direct child named name.
func (e *Element) Has(name string) bool {
	_, ok := e.First(name)
	return ok
}

// First returns the first direct child named name.
func (e *Element) First(name string) (*Element, bool) {
	for _, c := range e.children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// All returns the direct children named name in document order.
func (e *Element) All(name string) []*Element {
	var elements []*Element
	for _, c := range e.children {
		if c.Name == name {
			elements = append(elements, c)
		}
	}
	return elements
}

// Children returns every direct child in document order.
func (e *Element) Children() []*Element {
	return e.children
}

// Attr looks up an attribute by local name.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// RequiredAttr is like Attr but fails with ErrMissingAttribute, annotated
// with the element position, when the attribute is absent.
func (e *Element) RequiredAttr(name string) (string, error) {
	v, ok := e.attrs[name]
	if !ok {
		return "", xerrors.Errorf("line %d: <%s> has no %s attribute: %w", e.Line, e.Name, name, ErrMissingAttribute)
	}
	return v, nil
}

// RequiredChild returns the first child named name or ErrMissingElement.
func (e *Element) RequiredChild(name string) (*Element, error) {
	c, ok := e.First(name)
	if !ok {
		return nil, xerrors.Errorf("line %d: <%s> has no <%s> child: %w", e.Line, e.Name, name, ErrMissingElement)
	}
	return c, nil
}

// Text returns the trimmed character data directly inside e.
func (e *Element) Text() string {
	return e.text
}

// Find follows a path of first children starting below e.
func (e *Element) Find(path ...string) (*Element, bool) {
	cur := e
	for _, name := range path {
		next, ok := cur.First(name)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
