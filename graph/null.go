package graph

import (
	"fmt"
	"reflect"

	"github.com/midbel/opath/dom"
)

// nullPointer is a speculative pointer: a location that does not exist
// but whose creation path is known. Dereferencing yields nil silently;
// SetValue materializes the missing chain, creating intermediate maps
// and slices as needed.
type nullPointer struct {
	base
}

// NewNull returns a pointer to the missing member name of parent. When
// index is not WholeCollection the pointer denotes a missing collection
// element; a zero name with an index denotes an element of the parent's
// own collection value.
func NewNull(parent Pointer, name QName, index int) Pointer {
	p := nullPointer{
		base: makeBase(parent, name),
	}
	p.index = index
	return &p
}

func (p *nullPointer) At(index int) Pointer {
	c := *p
	c.index = index
	return &c
}

func (p *nullPointer) Node() any {
	return nil
}

func (p *nullPointer) Value() any {
	return nil
}

func (p *nullPointer) SetValue(value any) error {
	_, err := p.create(value)
	return err
}

func (p *nullPointer) Actual() bool {
	return false
}

func (p *nullPointer) Container() bool {
	return false
}

func (p *nullPointer) Leaf() bool {
	return true
}

func (p *nullPointer) Len() int {
	return 0
}

func (p *nullPointer) Children(Test, bool, Pointer) *Iter {
	return emptyIter()
}

func (p *nullPointer) Attributes(QName) *Iter {
	return emptyIter()
}

func (p *nullPointer) Namespaces() *Iter {
	return emptyIter()
}

func (p *nullPointer) Matches(test Test) bool {
	return matchNamed(test, p.name)
}

func (p *nullPointer) CompareChildren(a, b Pointer) int {
	return 0
}

func (p *nullPointer) Equal(other Pointer) bool {
	o, ok := other.(*nullPointer)
	if !ok {
		return false
	}
	return equalBase(p, o)
}

func (p *nullPointer) String() string {
	return pathOf(p)
}

// create stores value at this location, materializing missing ancestors
// first, and returns the stored value.
func (p *nullPointer) create(value any) (any, error) {
	if p.parent == nil {
		return nil, ErrReadOnly
	}
	if p.name.Zero() && p.index != WholeCollection {
		return value, p.createElement(value)
	}
	owner, err := materializeParent(p)
	if err != nil {
		return nil, err
	}
	if err := storeNamed(owner, p.name, p.index, value); err != nil {
		return nil, err
	}
	return value, nil
}

// createElement grows the parent's collection value so that the element
// at p.index exists, then assigns it through the parent.
func (p *nullPointer) createElement(value any) error {
	var current any
	if p.parent.Actual() {
		current = p.parent.Value()
	}
	grown, err := grow(current, p.index+1)
	if err != nil {
		return err
	}
	if err := assignElem(reflect.ValueOf(grown), p.index, value); err != nil {
		return err
	}
	if np, ok := p.parent.(*nullPointer); ok {
		_, err = np.create(grown)
		return err
	}
	return p.parent.SetValue(grown)
}

// materializeParent returns the concrete container node of p's parent,
// creating the intermediate structure when the parent is itself missing.
func materializeParent(p *nullPointer) (any, error) {
	parent := p.parent
	if parent.Actual() {
		if node := parent.Node(); node != nil {
			return node, nil
		}
		// the location exists but holds nothing; replace with a
		// fresh container
		c := map[string]any{}
		if err := parent.SetValue(c); err != nil {
			return nil, err
		}
		return c, nil
	}
	c := map[string]any{}
	if np, ok := parent.(*nullPointer); ok {
		return np.create(c)
	}
	if err := parent.SetValue(c); err != nil {
		return nil, err
	}
	return c, nil
}

func storeNamed(owner any, name QName, index int, value any) error {
	if el, ok := owner.(*dom.Element); ok {
		child := dom.NewElement(dom.ParseName(name.QualifiedName()))
		if value != nil {
			child.Append(dom.NewText(valueString(value)))
		}
		el.Append(child)
		return nil
	}
	v := reflect.ValueOf(owner)
	switch v.Kind() {
	case reflect.Map:
		key, ok := mapKey(v, name.Name)
		if !ok {
			return fmt.Errorf("%w: map key %s", ErrUnsupported, name)
		}
		if index == WholeCollection {
			return setMapIndex(v, key, value)
		}
		var current any
		if mv := v.MapIndex(key); mv.IsValid() {
			current = mv.Interface()
		}
		grown, err := grow(current, index+1)
		if err != nil {
			return err
		}
		if err := assignElem(reflect.ValueOf(grown), index, value); err != nil {
			return err
		}
		return setMapIndex(v, key, grown)
	case reflect.Pointer:
		if v.IsNil() || v.Elem().Kind() != reflect.Struct {
			return ErrUnsupported
		}
		field := v.Elem().FieldByName(name.Name)
		if !field.IsValid() || !field.CanSet() {
			return ErrReadOnly
		}
		if index == WholeCollection {
			return assign(field, value)
		}
		grown, err := grow(field.Interface(), index+1)
		if err != nil {
			return err
		}
		if err := assignElem(reflect.ValueOf(grown), index, value); err != nil {
			return err
		}
		return assign(field, grown)
	default:
		return fmt.Errorf("%w: can not create %s", ErrUnsupported, name)
	}
}
