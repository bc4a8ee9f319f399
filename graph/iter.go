package graph

import (
	"reflect"
	"slices"
	"sort"
)

// Iter is a restartable cursor over a sequence of pointers. Positions
// are 1-based; position 0 means before the first pointer. Seeking past
// the end reports false and leaves the cursor exhausted.
type Iter struct {
	list []Pointer
	pos  int
}

func newIter(list []Pointer) *Iter {
	return &Iter{
		list: list,
	}
}

func emptyIter() *Iter {
	return newIter(nil)
}

func (it *Iter) Position() int {
	return it.pos
}

func (it *Iter) SetPosition(pos int) bool {
	it.pos = pos
	return pos >= 1 && pos <= len(it.list)
}

func (it *Iter) Next() bool {
	return it.SetPosition(it.pos + 1)
}

func (it *Iter) Pointer() Pointer {
	if it.pos < 1 || it.pos > len(it.list) {
		return nil
	}
	return it.list[it.pos-1]
}

func (it *Iter) Len() int {
	return len(it.list)
}

// orient applies traversal direction and resume point to a forward
// document-order list. When startAfter is given, every pointer up to and
// including it is skipped.
func orient(list []Pointer, reverse bool, startAfter Pointer) *Iter {
	if reverse {
		list = slices.Clone(list)
		slices.Reverse(list)
	}
	if startAfter != nil {
		at := slices.IndexFunc(list, func(p Pointer) bool {
			return p.Equal(startAfter)
		})
		if at >= 0 {
			list = list[at+1:]
		}
	}
	return newIter(list)
}

// childList produces the child pointers of p in document order,
// filtered by test. A collection-valued pointer without an element index
// is transparent: children of every element are concatenated.
func childList(p Pointer, test Test) []Pointer {
	if p == nil || !p.Actual() {
		return nil
	}
	node := p.Node()
	if p.Index() == WholeCollection && isSequence(node) {
		var (
			out []Pointer
			n   = sequenceLen(node)
		)
		for i := 0; i < n; i++ {
			out = append(out, childListOf(p.At(i), test)...)
		}
		return out
	}
	return childListOf(p, test)
}

func childListOf(p Pointer, test Test) []Pointer {
	node := p.Node()
	if node == nil {
		return nil
	}
	if d, ok := node.(domNode); ok {
		return domChildList(p, d, test)
	}
	v := reflect.ValueOf(node)
	switch v.Kind() {
	case reflect.Map:
		return entryList(p, v, test)
	case reflect.Pointer:
		if v.IsNil() || v.Elem().Kind() != reflect.Struct {
			return nil
		}
		return propertyList(p, v.Elem(), test)
	case reflect.Struct:
		return propertyList(p, v, test)
	default:
		return nil
	}
}

// entryList lists the matching map entries, flattening collection
// values into per-element pointers. Keys are visited in sorted order so
// that document order is deterministic.
func entryList(p Pointer, owner reflect.Value, test Test) []Pointer {
	var keys []string
	for _, k := range owner.MapKeys() {
		name, ok := keyString(k)
		if !ok {
			continue
		}
		keys = append(keys, name)
	}
	sort.Strings(keys)

	var out []Pointer
	for _, k := range keys {
		name := LocalName(k)
		if !matchNamed(test, name) {
			continue
		}
		out = append(out, expandMember(newEntryPointer(p, name))...)
	}
	return out
}

func propertyList(p Pointer, owner reflect.Value, test Test) []Pointer {
	var out []Pointer
	for i := 0; i < owner.NumField(); i++ {
		field := owner.Type().Field(i)
		if !field.IsExported() {
			continue
		}
		name := LocalName(fieldName(field))
		if !matchNamed(test, name) {
			continue
		}
		out = append(out, expandMember(newPropertyPointer(p, name))...)
	}
	return out
}

// expandMember turns a collection-valued member pointer into one pointer
// per element; scalar members keep the WholeCollection index.
func expandMember(p Pointer) []Pointer {
	if !isSequence(p.Node()) {
		return []Pointer{p}
	}
	var (
		out []Pointer
		n   = p.Len()
	)
	for i := 0; i < n; i++ {
		out = append(out, p.At(i))
	}
	return out
}

// attributeList serves the attribute axis. Object-graph locations treat
// attributes as an alternate syntax for members; markup locations use
// real attributes.
func attributeList(p Pointer, name QName) []Pointer {
	if p == nil || !p.Actual() {
		return nil
	}
	if d, ok := p.Node().(domNode); ok {
		return domAttributeList(p, d, name)
	}
	test := NewNameTest(name)
	return childList(p, test)
}

func isSequence(value any) bool {
	if value == nil {
		return false
	}
	if _, ok := value.(domNode); ok {
		return false
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

func sequenceLen(value any) int {
	if !isSequence(value) {
		return 1
	}
	return reflect.ValueOf(value).Len()
}

func sequenceAt(value any, index int) (any, bool) {
	if index == WholeCollection {
		return value, true
	}
	if !isSequence(value) {
		if index == 0 {
			return value, true
		}
		return nil, false
	}
	v := reflect.ValueOf(value)
	if index < 0 || index >= v.Len() {
		return nil, false
	}
	return v.Index(index).Interface(), true
}

func keyString(key reflect.Value) (string, bool) {
	if key.Kind() == reflect.Interface {
		key = key.Elem()
	}
	if key.Kind() != reflect.String {
		return "", false
	}
	return key.String(), true
}

func fieldName(field reflect.StructField) string {
	return field.Name
}
