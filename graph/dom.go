package graph

import (
	"github.com/midbel/opath/dom"
)

type domNode = dom.Node

// compareChildren dispatches child ordering on the backing kind of the
// parent node: markup order for documents, member order otherwise.
func compareChildren(p Pointer, a, b Pointer) int {
	if _, ok := p.Node().(domNode); ok {
		return domCompareChildren(a, b)
	}
	return compareMembers(p, a, b)
}

// nodePointer wraps one node of a parsed document.
type nodePointer struct {
	base
	node dom.Node
}

func newNodePointer(parent Pointer, node dom.Node) *nodePointer {
	name := node.Name()
	p := nodePointer{
		base: makeBase(parent, QName{Space: name.Space, Name: name.Name}),
		node: node,
	}
	return &p
}

func (p *nodePointer) At(index int) Pointer {
	c := *p
	c.index = index
	return &c
}

func (p *nodePointer) Node() any {
	return p.node
}

func (p *nodePointer) Value() any {
	return p.node.Value()
}

func (p *nodePointer) SetValue(value any) error {
	switch node := p.node.(type) {
	case *dom.Element:
		node.Nodes = nil
		node.Append(dom.NewText(valueString(value)))
		return nil
	case *dom.Text:
		node.Content = valueString(value)
		return nil
	default:
		return ErrReadOnly
	}
}

func (p *nodePointer) Actual() bool {
	return true
}

func (p *nodePointer) Container() bool {
	return false
}

func (p *nodePointer) Leaf() bool {
	return p.node.Leaf()
}

func (p *nodePointer) Len() int {
	return 1
}

func (p *nodePointer) Children(test Test, reverse bool, startAfter Pointer) *Iter {
	return orient(domChildList(p, p.node, test), reverse, startAfter)
}

func (p *nodePointer) Attributes(name QName) *Iter {
	return newIter(domAttributeList(p, p.node, name))
}

func (p *nodePointer) Namespaces() *Iter {
	el, ok := p.node.(*dom.Element)
	if !ok {
		return emptyIter()
	}
	var (
		out  []Pointer
		seen = make(map[string]struct{})
	)
	for node := dom.Node(el); node != nil; node = node.Parent() {
		e, ok := node.(*dom.Element)
		if !ok {
			continue
		}
		for _, a := range e.Namespaces() {
			prefix := a.QName.Name
			if a.Space == "" {
				prefix = ""
			}
			if _, ok := seen[prefix]; ok {
				continue
			}
			seen[prefix] = struct{}{}
			out = append(out, newNamespacePointer(p, prefix, a.Content))
		}
	}
	return newIter(out)
}

func (p *nodePointer) Matches(test Test) bool {
	switch test := test.(type) {
	case nil:
		return true
	case NameTest:
		if p.node.Type() != dom.TypeElement {
			return false
		}
		name := p.node.Name()
		return test.MatchesName(QName{Space: name.Space, Name: name.Name}, name.Uri)
	case TypeTest:
		switch test.Kind {
		case KindNode:
			return true
		case KindText:
			return p.node.Type() == dom.TypeText
		case KindComment:
			return p.node.Type() == dom.TypeComment
		case KindInstruction:
			return p.node.Type() == dom.TypeInstruction
		}
	}
	return false
}

func (p *nodePointer) CompareChildren(a, b Pointer) int {
	return domCompareChildren(a, b)
}

func (p *nodePointer) Equal(other Pointer) bool {
	o, ok := other.(*nodePointer)
	if !ok {
		return false
	}
	return p.node == o.node
}

func (p *nodePointer) String() string {
	return pathOf(p)
}

// attributePointer denotes one attribute of an element.
type attributePointer struct {
	base
	owner *dom.Element
	attr  dom.QName
}

func newAttributePointer(parent Pointer, owner *dom.Element, attr dom.QName) *attributePointer {
	p := attributePointer{
		base:  makeBase(parent, QName{Space: attr.Space, Name: attr.Name}),
		owner: owner,
		attr:  attr,
	}
	return &p
}

func (p *attributePointer) At(index int) Pointer {
	c := *p
	c.index = index
	return &c
}

func (p *attributePointer) Node() any {
	value, _ := p.owner.Attribute(p.attr)
	return value
}

func (p *attributePointer) Value() any {
	return p.Node()
}

func (p *attributePointer) SetValue(value any) error {
	p.owner.SetAttribute(p.attr, valueString(value))
	return nil
}

func (p *attributePointer) Actual() bool {
	_, ok := p.owner.Attribute(p.attr)
	return ok
}

func (p *attributePointer) Container() bool {
	return false
}

func (p *attributePointer) Leaf() bool {
	return true
}

func (p *attributePointer) Len() int {
	return 1
}

func (p *attributePointer) Children(Test, bool, Pointer) *Iter {
	return emptyIter()
}

func (p *attributePointer) Attributes(QName) *Iter {
	return emptyIter()
}

func (p *attributePointer) Namespaces() *Iter {
	return emptyIter()
}

func (p *attributePointer) Matches(test Test) bool {
	switch test := test.(type) {
	case nil:
		return true
	case NameTest:
		return test.MatchesName(p.name, p.attr.Uri)
	case TypeTest:
		return test.Kind == KindNode
	default:
		return false
	}
}

func (p *attributePointer) CompareChildren(a, b Pointer) int {
	return 0
}

func (p *attributePointer) Equal(other Pointer) bool {
	o, ok := other.(*attributePointer)
	if !ok {
		return false
	}
	return p.owner == o.owner && p.attr == o.attr
}

func (p *attributePointer) String() string {
	return pathOf(p)
}

// namespacePointer denotes one in-scope namespace declaration.
type namespacePointer struct {
	base
	prefix string
	uri    string
}

func newNamespacePointer(parent Pointer, prefix, uri string) *namespacePointer {
	return &namespacePointer{
		base:   makeBase(parent, LocalName(prefix)),
		prefix: prefix,
		uri:    uri,
	}
}

func (p *namespacePointer) At(index int) Pointer {
	c := *p
	c.index = index
	return &c
}

func (p *namespacePointer) Node() any {
	return p.uri
}

func (p *namespacePointer) Value() any {
	return p.uri
}

func (p *namespacePointer) SetValue(any) error {
	return ErrReadOnly
}

func (p *namespacePointer) Actual() bool {
	return true
}

func (p *namespacePointer) Container() bool {
	return false
}

func (p *namespacePointer) Leaf() bool {
	return true
}

func (p *namespacePointer) Len() int {
	return 1
}

func (p *namespacePointer) Children(Test, bool, Pointer) *Iter {
	return emptyIter()
}

func (p *namespacePointer) Attributes(QName) *Iter {
	return emptyIter()
}

func (p *namespacePointer) Namespaces() *Iter {
	return emptyIter()
}

func (p *namespacePointer) Matches(test Test) bool {
	return matchNamed(test, p.name)
}

func (p *namespacePointer) CompareChildren(a, b Pointer) int {
	return 0
}

func (p *namespacePointer) Equal(other Pointer) bool {
	o, ok := other.(*namespacePointer)
	if !ok {
		return false
	}
	return p.prefix == o.prefix && p.uri == o.uri && equalBase(p, o)
}

func (p *namespacePointer) String() string {
	return pathOf(p)
}

func domChildList(p Pointer, node dom.Node, test Test) []Pointer {
	var nodes []dom.Node
	switch node := node.(type) {
	case *dom.Document:
		nodes = node.Nodes
	case *dom.Element:
		nodes = node.Nodes
	default:
		return nil
	}
	var out []Pointer
	for _, n := range nodes {
		child := newNodePointer(p, n)
		if test != nil && !child.Matches(test) {
			continue
		}
		out = append(out, child)
	}
	return out
}

func domAttributeList(p Pointer, node dom.Node, name QName) []Pointer {
	el, ok := node.(*dom.Element)
	if !ok {
		return nil
	}
	var test Test
	if !name.Zero() {
		test = NewNameTest(name)
	}
	var out []Pointer
	for _, a := range el.Attrs {
		if a.Space == "xmlns" || a.QName.Name == "xmlns" {
			continue
		}
		attr := newAttributePointer(p, el, a.QName)
		if test != nil && !attr.Matches(test) {
			continue
		}
		out = append(out, attr)
	}
	return out
}

// domCompareChildren orders markup children: attributes come before
// child nodes, then declaration order decides.
func domCompareChildren(a, b Pointer) int {
	var (
		ra, aa = domRank(a)
		rb, ab = domRank(b)
	)
	if aa != ab {
		if aa {
			return -1
		}
		return 1
	}
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}

func domRank(p Pointer) (int, bool) {
	switch p := p.(type) {
	case *attributePointer:
		for i := range p.owner.Attrs {
			if p.owner.Attrs[i].QName == p.attr {
				return i, true
			}
		}
		return 0, true
	case *nodePointer:
		return p.node.Position(), false
	default:
		return 0, false
	}
}
