package graph

import "reflect"

// propertyPointer denotes one exported field of a struct-valued parent.
// The field value may itself be a collection, in which case the index
// selects one element.
type propertyPointer struct {
	base
}

func newPropertyPointer(parent Pointer, name QName) *propertyPointer {
	return &propertyPointer{
		base: makeBase(parent, name),
	}
}

func (p *propertyPointer) At(index int) Pointer {
	c := *p
	c.index = index
	return &c
}

func (p *propertyPointer) raw() (any, bool) {
	owner, ok := ownerStruct(p.parent)
	if !ok {
		return nil, false
	}
	field := owner.FieldByName(p.name.Name)
	if !field.IsValid() {
		return nil, false
	}
	return field.Interface(), true
}

func (p *propertyPointer) Node() any {
	value, ok := p.raw()
	if !ok {
		return nil
	}
	node, ok := sequenceAt(deref(value), normalIndex(p.index))
	if !ok {
		return nil
	}
	return node
}

func (p *propertyPointer) Value() any {
	return p.Node()
}

func (p *propertyPointer) SetValue(value any) error {
	owner, ok := ownerStruct(p.parent)
	if !ok || !owner.CanSet() {
		return ErrReadOnly
	}
	field := owner.FieldByName(p.name.Name)
	if !field.IsValid() || !field.CanSet() {
		return ErrReadOnly
	}
	if p.index == WholeCollection {
		return assign(field, value)
	}
	if field.Kind() == reflect.Slice {
		if p.index >= field.Len() {
			grown, err := grow(field.Interface(), p.index+1)
			if err != nil {
				return err
			}
			if err := assign(field, grown); err != nil {
				return err
			}
		}
		return assignElem(field, p.index, value)
	}
	return ErrReadOnly
}

func (p *propertyPointer) Actual() bool {
	value, ok := p.raw()
	if !ok {
		return false
	}
	if p.index == WholeCollection {
		return true
	}
	_, ok = sequenceAt(deref(value), p.index)
	return ok
}

func (p *propertyPointer) Container() bool {
	return false
}

func (p *propertyPointer) Leaf() bool {
	return leafValue(p.Node())
}

func (p *propertyPointer) Len() int {
	value, ok := p.raw()
	if !ok {
		return 0
	}
	return sequenceLen(deref(value))
}

func (p *propertyPointer) Children(test Test, reverse bool, startAfter Pointer) *Iter {
	return orient(childList(p, test), reverse, startAfter)
}

func (p *propertyPointer) Attributes(name QName) *Iter {
	return newIter(attributeList(p, name))
}

func (p *propertyPointer) Namespaces() *Iter {
	return emptyIter()
}

func (p *propertyPointer) Matches(test Test) bool {
	return matchNamed(test, p.name)
}

func (p *propertyPointer) CompareChildren(a, b Pointer) int {
	return compareChildren(p, a, b)
}

func (p *propertyPointer) Equal(other Pointer) bool {
	o, ok := other.(*propertyPointer)
	if !ok {
		return false
	}
	return equalBase(p, o)
}

func (p *propertyPointer) String() string {
	return pathOf(p)
}

// entryPointer denotes one entry of a map-valued parent, selected by its
// string key.
type entryPointer struct {
	base
}

func newEntryPointer(parent Pointer, name QName) *entryPointer {
	return &entryPointer{
		base: makeBase(parent, name),
	}
}

func (p *entryPointer) At(index int) Pointer {
	c := *p
	c.index = index
	return &c
}

func (p *entryPointer) raw() (any, bool) {
	owner, ok := ownerMap(p.parent)
	if !ok {
		return nil, false
	}
	key, ok := mapKey(owner, p.name.Name)
	if !ok {
		return nil, false
	}
	value := owner.MapIndex(key)
	if !value.IsValid() {
		return nil, false
	}
	return value.Interface(), true
}

func (p *entryPointer) Node() any {
	value, ok := p.raw()
	if !ok {
		return nil
	}
	node, ok := sequenceAt(deref(value), normalIndex(p.index))
	if !ok {
		return nil
	}
	return node
}

func (p *entryPointer) Value() any {
	return p.Node()
}

func (p *entryPointer) SetValue(value any) error {
	owner, ok := ownerMap(p.parent)
	if !ok {
		return ErrReadOnly
	}
	key, ok := mapKey(owner, p.name.Name)
	if !ok {
		return ErrReadOnly
	}
	if p.index == WholeCollection {
		return setMapIndex(owner, key, value)
	}
	current, _ := p.raw()
	grown, err := grow(current, p.index+1)
	if err != nil {
		return err
	}
	v := reflect.ValueOf(grown)
	if err := assignElem(v, p.index, value); err != nil {
		return err
	}
	return setMapIndex(owner, key, grown)
}

func (p *entryPointer) Actual() bool {
	value, ok := p.raw()
	if !ok {
		return false
	}
	if p.index == WholeCollection {
		return true
	}
	_, ok = sequenceAt(deref(value), p.index)
	return ok
}

func (p *entryPointer) Container() bool {
	return false
}

func (p *entryPointer) Leaf() bool {
	return leafValue(p.Node())
}

func (p *entryPointer) Len() int {
	value, ok := p.raw()
	if !ok {
		return 0
	}
	return sequenceLen(deref(value))
}

func (p *entryPointer) Children(test Test, reverse bool, startAfter Pointer) *Iter {
	return orient(childList(p, test), reverse, startAfter)
}

func (p *entryPointer) Attributes(name QName) *Iter {
	return newIter(attributeList(p, name))
}

func (p *entryPointer) Namespaces() *Iter {
	return emptyIter()
}

func (p *entryPointer) Matches(test Test) bool {
	return matchNamed(test, p.name)
}

func (p *entryPointer) CompareChildren(a, b Pointer) int {
	return compareChildren(p, a, b)
}

func (p *entryPointer) Equal(other Pointer) bool {
	o, ok := other.(*entryPointer)
	if !ok {
		return false
	}
	return equalBase(p, o)
}

func (p *entryPointer) String() string {
	return pathOf(p)
}

func normalIndex(index int) int {
	if index == WholeCollection {
		return WholeCollection
	}
	return index
}

func ownerStruct(parent Pointer) (reflect.Value, bool) {
	var zero reflect.Value
	if parent == nil {
		return zero, false
	}
	node := parent.Node()
	if node == nil {
		return zero, false
	}
	v := reflect.ValueOf(node)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return zero, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return zero, false
	}
	return v, true
}

func ownerMap(parent Pointer) (reflect.Value, bool) {
	var zero reflect.Value
	if parent == nil {
		return zero, false
	}
	node := parent.Node()
	if node == nil {
		return zero, false
	}
	v := reflect.ValueOf(node)
	if v.Kind() != reflect.Map {
		return zero, false
	}
	return v, true
}

func mapKey(owner reflect.Value, name string) (reflect.Value, bool) {
	var (
		kt  = owner.Type().Key()
		key = reflect.ValueOf(name)
	)
	if key.Type().AssignableTo(kt) {
		return key, true
	}
	if kt.Kind() == reflect.Interface && kt.NumMethod() == 0 {
		return key, true
	}
	var zero reflect.Value
	return zero, false
}

func setMapIndex(owner, key reflect.Value, value any) error {
	var (
		et = owner.Type().Elem()
		v  reflect.Value
	)
	if value == nil {
		v = reflect.Zero(et)
	} else {
		v = reflect.ValueOf(value)
		if !v.Type().AssignableTo(et) {
			if !v.Type().ConvertibleTo(et) {
				return ErrUnsupported
			}
			v = v.Convert(et)
		}
	}
	owner.SetMapIndex(key, v)
	return nil
}

// grow pads a slice up to size, producing []any when the current value
// is absent or not a slice.
func grow(value any, size int) (any, error) {
	value = deref(value)
	if value == nil {
		return make([]any, size), nil
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Slice:
		if v.Len() >= size {
			return value, nil
		}
		padded := reflect.MakeSlice(v.Type(), size, size)
		reflect.Copy(padded, v)
		return padded.Interface(), nil
	default:
		padded := make([]any, size)
		padded[0] = value
		return padded, nil
	}
}
