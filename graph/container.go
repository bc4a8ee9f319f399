package graph

// Holder is a value container: a location whose pointer is transparent,
// so that asking for its value yields the contents rather than the
// holder itself. Document holders that parse on first access implement
// this interface.
type Holder interface {
	Contents() any
	SetContents(any) error
}

// deref unwraps nested holders.
func deref(value any) any {
	for {
		h, ok := value.(Holder)
		if !ok {
			return value
		}
		value = h.Contents()
	}
}

type containerPointer struct {
	base
	holder Holder
}

func newContainerPointer(parent Pointer, name QName, holder Holder) *containerPointer {
	return &containerPointer{
		base:   makeBase(parent, name),
		holder: holder,
	}
}

func (p *containerPointer) At(index int) Pointer {
	c := *p
	c.index = index
	return &c
}

func (p *containerPointer) Node() any {
	node := deref(p.holder.Contents())
	if p.index == WholeCollection {
		return node
	}
	node, ok := sequenceAt(node, p.index)
	if !ok {
		return nil
	}
	return node
}

func (p *containerPointer) Value() any {
	return p.Node()
}

func (p *containerPointer) SetValue(value any) error {
	return p.holder.SetContents(value)
}

func (p *containerPointer) Actual() bool {
	return true
}

func (p *containerPointer) Container() bool {
	return true
}

func (p *containerPointer) Leaf() bool {
	return leafValue(p.Node())
}

func (p *containerPointer) Len() int {
	return sequenceLen(deref(p.holder.Contents()))
}

func (p *containerPointer) Children(test Test, reverse bool, startAfter Pointer) *Iter {
	return orient(childList(p, test), reverse, startAfter)
}

func (p *containerPointer) Attributes(name QName) *Iter {
	return newIter(attributeList(p, name))
}

func (p *containerPointer) Namespaces() *Iter {
	return emptyIter()
}

func (p *containerPointer) Matches(test Test) bool {
	return matchNamed(test, p.name)
}

func (p *containerPointer) CompareChildren(a, b Pointer) int {
	return compareChildren(p, a, b)
}

func (p *containerPointer) Equal(other Pointer) bool {
	o, ok := other.(*containerPointer)
	if !ok {
		return false
	}
	return p.holder == o.holder && equalBase(p, o)
}

func (p *containerPointer) String() string {
	return pathOf(p)
}
