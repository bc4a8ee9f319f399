package graph

import (
	"reflect"
	"sort"
)

// valuePointer is a standalone pointer over an arbitrary value: the root
// of a traversal, a variable value, or an expression constant.
type valuePointer struct {
	base
	value any
}

func newValuePointer(parent Pointer, name QName, value any) *valuePointer {
	return &valuePointer{
		base:  makeBase(parent, name),
		value: value,
	}
}

func (p *valuePointer) At(index int) Pointer {
	c := *p
	c.index = index
	return &c
}

func (p *valuePointer) Node() any {
	if p.index == WholeCollection {
		return deref(p.value)
	}
	node, ok := sequenceAt(deref(p.value), p.index)
	if !ok {
		return nil
	}
	return node
}

func (p *valuePointer) Value() any {
	return p.Node()
}

func (p *valuePointer) SetValue(value any) error {
	if p.index == WholeCollection {
		return ErrReadOnly
	}
	v := reflect.ValueOf(deref(p.value))
	if v.Kind() != reflect.Slice || p.index < 0 || p.index >= v.Len() {
		return ErrReadOnly
	}
	return assignElem(v, p.index, value)
}

func (p *valuePointer) Actual() bool {
	if p.index == WholeCollection {
		return true
	}
	_, ok := sequenceAt(deref(p.value), p.index)
	return ok
}

func (p *valuePointer) Container() bool {
	return false
}

func (p *valuePointer) Leaf() bool {
	return leafValue(p.Node())
}

func (p *valuePointer) Len() int {
	return sequenceLen(deref(p.value))
}

func (p *valuePointer) Children(test Test, reverse bool, startAfter Pointer) *Iter {
	return orient(childList(p, test), reverse, startAfter)
}

func (p *valuePointer) Attributes(name QName) *Iter {
	return newIter(attributeList(p, name))
}

func (p *valuePointer) Namespaces() *Iter {
	return emptyIter()
}

func (p *valuePointer) Matches(test Test) bool {
	return matchNamed(test, p.name)
}

func (p *valuePointer) CompareChildren(a, b Pointer) int {
	return compareChildren(p, a, b)
}

func (p *valuePointer) Equal(other Pointer) bool {
	o, ok := other.(*valuePointer)
	if !ok {
		return false
	}
	return identity(p.value) == identity(o.value) && equalBase(p, o)
}

func (p *valuePointer) String() string {
	return pathOf(p)
}

// matchNamed is the shared node test rule for object-graph pointers:
// name tests honor wildcards, the only matching type test is node().
func matchNamed(test Test, name QName) bool {
	switch test := test.(type) {
	case nil:
		return true
	case NameTest:
		return test.MatchesName(name, "")
	case TypeTest:
		return test.Kind == KindNode
	default:
		return false
	}
}

func leafValue(node any) bool {
	if node == nil {
		return true
	}
	if d, ok := node.(domNode); ok {
		return d.Leaf()
	}
	v := reflect.ValueOf(node)
	switch v.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		return false
	case reflect.Pointer:
		return v.IsNil() || v.Elem().Kind() != reflect.Struct
	}
	return true
}

// compareMembers ranks two child pointers of p by the declared order of
// their member names, then by element index.
func compareMembers(p Pointer, a, b Pointer) int {
	var (
		na = a.Name()
		nb = b.Name()
	)
	if na != nb {
		var (
			ra = memberRank(p.Node(), na.Name)
			rb = memberRank(p.Node(), nb.Name)
		)
		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
	}
	var (
		ia = a.Index()
		ib = b.Index()
	)
	switch {
	case ia < ib:
		return -1
	case ia > ib:
		return 1
	default:
		return 0
	}
}

func memberRank(node any, name string) int {
	if node == nil {
		return -1
	}
	v := reflect.ValueOf(node)
	switch v.Kind() {
	case reflect.Map:
		var keys []string
		for _, k := range v.MapKeys() {
			if s, ok := keyString(k); ok {
				keys = append(keys, s)
			}
		}
		sort.Strings(keys)
		for i, k := range keys {
			if k == name {
				return i
			}
		}
	case reflect.Pointer:
		if v.IsNil() {
			return -1
		}
		return memberRank(v.Elem().Interface(), name)
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).Name == name {
				return i
			}
		}
	}
	return -1
}

func assignElem(v reflect.Value, index int, value any) error {
	elem := v.Index(index)
	if !elem.CanSet() {
		return ErrReadOnly
	}
	return assign(elem, value)
}

func assign(dst reflect.Value, value any) error {
	if value == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(dst.Type()) {
		if v.Type().ConvertibleTo(dst.Type()) {
			v = v.Convert(dst.Type())
		} else {
			return ErrUnsupported
		}
	}
	dst.Set(v)
	return nil
}
