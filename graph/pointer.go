package graph

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var (
	ErrReadOnly    = errors.New("location can not be modified")
	ErrUnsupported = errors.New("operation not supported by pointer")
)

// WholeCollection is the index of a pointer that denotes an entire
// collection-valued location rather than one of its elements.
const WholeCollection = -1

// Pointer identifies one location in a data graph. A pointer with an
// index other than WholeCollection denotes exactly one element of a
// collection-valued location; dereferencing an out-of-range index yields
// nil, never an error.
type Pointer interface {
	Parent() Pointer
	Name() QName
	Index() int

	// At returns a pointer to the same location with the given
	// collection index.
	At(index int) Pointer

	// Value dereferences the pointer. Container pointers are
	// transparent: their value is the contents of the container.
	Value() any

	// Node returns the immediate backing node, honoring the index.
	Node() any

	SetValue(any) error

	// Actual reports whether the location exists; speculative null
	// pointers report false.
	Actual() bool

	// Container reports whether the pointer is a transparent
	// value-holder wrapper.
	Container() bool

	Leaf() bool
	Len() int

	Children(test Test, reverse bool, startAfter Pointer) *Iter
	Attributes(name QName) *Iter
	Namespaces() *Iter

	Matches(test Test) bool

	// CompareChildren orders two pointers that share this pointer as
	// their parent.
	CompareChildren(a, b Pointer) int

	Equal(Pointer) bool
	String() string
}

type base struct {
	parent Pointer
	name   QName
	index  int
}

func makeBase(parent Pointer, name QName) base {
	return base{
		parent: parent,
		name:   name,
		index:  WholeCollection,
	}
}

func (b base) Parent() Pointer {
	return b.parent
}

func (b base) Name() QName {
	return b.name
}

func (b base) Index() int {
	return b.index
}

// Root walks the parent chain to the outermost pointer.
func Root(p Pointer) Pointer {
	for p.Parent() != nil {
		p = p.Parent()
	}
	return p
}

func depth(p Pointer) int {
	var n int
	for p.Parent() != nil {
		n++
		p = p.Parent()
	}
	return n
}

// Compare places two pointers into document order: container-declared
// order for object graphs, markup order for documents. The result is a
// total order stable across calls. Pointers from unrelated trees are
// ordered by their path strings so that sorting never fails.
func Compare(p1, p2 Pointer) int {
	if p1 == p2 || p1.Equal(p2) {
		return 0
	}
	var (
		d1 = depth(p1)
		d2 = depth(p2)
	)
	if d1 == d2 {
		var (
			a1 = p1.Parent()
			a2 = p2.Parent()
		)
		if a1 == nil || a2 == nil {
			return strings.Compare(p1.String(), p2.String())
		}
		if a1.Equal(a2) {
			return a1.CompareChildren(p1, p2)
		}
		return Compare(a1, a2)
	}
	// walk the deeper chain up to the common depth; an ancestor
	// precedes its descendants
	if d1 > d2 {
		a := ancestorAt(p1, d1-d2)
		if a.Equal(p2) {
			return 1
		}
		return Compare(a, p2)
	}
	a := ancestorAt(p2, d2-d1)
	if a.Equal(p1) {
		return -1
	}
	return Compare(p1, a)
}

func ancestorAt(p Pointer, up int) Pointer {
	for ; up > 0; up-- {
		p = p.Parent()
	}
	return p
}

// equalBase compares location coordinates: parent chain, name and index.
// An index of 0 and WholeCollection denote the same element when the
// location is not collection-valued.
func equalBase(a, b Pointer) bool {
	if a.Name() != b.Name() {
		return false
	}
	if normalizeIndex(a) != normalizeIndex(b) {
		return false
	}
	var (
		pa = a.Parent()
		pb = b.Parent()
	)
	if pa == nil || pb == nil {
		return pa == nil && pb == nil
	}
	return pa.Equal(pb)
}

func normalizeIndex(p Pointer) int {
	if p.Index() == 0 && p.Len() <= 1 {
		return WholeCollection
	}
	return p.Index()
}

// identity reports a comparable identity for a backing value: the
// address for reference kinds, the value itself when comparable.
func identity(value any) any {
	if value == nil {
		return nil
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return v.Pointer()
	}
	if v.Comparable() {
		return value
	}
	return reflect.TypeOf(value).String()
}

func pathOf(p Pointer) string {
	var parts []string
	for ; p != nil; p = p.Parent() {
		if p.Container() {
			continue
		}
		var str strings.Builder
		if name := p.Name(); !name.Zero() {
			if _, ok := p.(*attributePointer); ok {
				str.WriteString("@")
			}
			str.WriteString(name.QualifiedName())
		}
		if p.Index() != WholeCollection {
			str.WriteString("[")
			str.WriteString(strconv.Itoa(p.Index() + 1))
			str.WriteString("]")
		}
		if str.Len() > 0 {
			parts = append(parts, str.String())
		}
	}
	var str strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		str.WriteString("/")
		str.WriteString(parts[i])
	}
	if str.Len() == 0 {
		return "/"
	}
	return str.String()
}

func valueString(value any) string {
	return fmt.Sprintf("%v", value)
}
