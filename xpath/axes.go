package xpath

import (
	"slices"

	"github.com/midbel/opath/graph"
)

// contextForStep wraps parent with the context implementing the axis of
// the given step.
func contextForStep(parent EvalContext, s Step) EvalContext {
	switch s.Axis {
	case AxisSelf:
		return newSelfContext(parent, s.Test)
	case AxisChild:
		return newChildContext(parent, s.Test, false, false)
	case AxisFollowingSibling:
		return newChildContext(parent, s.Test, true, false)
	case AxisPrecedingSibling:
		return newChildContext(parent, s.Test, true, true)
	case AxisParent:
		return newParentContext(parent, s.Test)
	case AxisAncestor:
		return newAncestorContext(parent, s.Test, false)
	case AxisAncestorOrSelf:
		return newAncestorContext(parent, s.Test, true)
	case AxisDescendant:
		return newDescendantContext(parent, s.Test, false)
	case AxisDescendantOrSelf:
		return newDescendantContext(parent, s.Test, true)
	case AxisFollowing:
		return newSurroundContext(parent, s.Test, false)
	case AxisPreceding:
		return newSurroundContext(parent, s.Test, true)
	case AxisAttribute:
		return newAttributeContext(parent, s.Test)
	case AxisNamespace:
		return newNamespaceContext(parent, s.Test)
	default:
		return newNodeSetContext(parent, nil)
	}
}

// realParent follows the parent link past transparent container
// pointers.
func realParent(p graph.Pointer) graph.Pointer {
	if p == nil {
		return nil
	}
	for p = p.Parent(); p != nil && p.Container(); p = p.Parent() {
	}
	return p
}

type selfContext struct {
	baseContext
	test graph.Test
	done bool
}

func newSelfContext(parent EvalContext, test graph.Test) EvalContext {
	ctx := selfContext{
		baseContext: makeContext(parent),
		test:        test,
	}
	return &ctx
}

func (c *selfContext) NextSet() bool {
	c.pos = 0
	c.done = false
	return advance(c.parent)
}

func (c *selfContext) Next() bool {
	if c.done {
		return false
	}
	c.done = true
	p := c.parent.Pointer()
	if p == nil || !p.Matches(c.test) {
		return false
	}
	c.pos++
	return true
}

func (c *selfContext) SetPosition(pos int) bool {
	return seek(c, pos)
}

func (c *selfContext) Pointer() graph.Pointer {
	return c.parent.Pointer()
}

type childContext struct {
	baseContext
	test graph.Test

	// sibling axes iterate the children of the parent of the context
	// node, resuming after the node itself
	startFromParent bool
	reverse         bool

	iter     *graph.Iter
	prepared bool
}

func newChildContext(parent EvalContext, test graph.Test, startFromParent, reverse bool) EvalContext {
	ctx := childContext{
		baseContext:     makeContext(parent),
		test:            test,
		startFromParent: startFromParent,
		reverse:         reverse,
	}
	return &ctx
}

func (c *childContext) NextSet() bool {
	c.pos = 0
	c.iter = nil
	c.prepared = false
	return advance(c.parent)
}

func (c *childContext) Next() bool {
	if !c.prepared {
		c.prepare()
	}
	if c.iter == nil || !c.iter.Next() {
		return false
	}
	c.pos++
	return true
}

func (c *childContext) SetPosition(pos int) bool {
	if !c.prepared {
		c.prepare()
	}
	if c.iter == nil {
		return false
	}
	if c.iter.SetPosition(pos) {
		c.pos = pos
		return true
	}
	return false
}

func (c *childContext) Pointer() graph.Pointer {
	if c.iter == nil {
		return nil
	}
	return c.iter.Pointer()
}

func (c *childContext) prepare() {
	c.prepared = true
	p := c.parent.Pointer()
	if p == nil {
		return
	}
	if c.startFromParent {
		owner := realParent(p)
		if owner == nil {
			return
		}
		c.iter = owner.Children(c.test, c.reverse, p)
		return
	}
	c.iter = p.Children(c.test, false, nil)
}

type parentContext struct {
	baseContext
	test graph.Test
	done bool
}

func newParentContext(parent EvalContext, test graph.Test) EvalContext {
	ctx := parentContext{
		baseContext: makeContext(parent),
		test:        test,
	}
	return &ctx
}

func (c *parentContext) NextSet() bool {
	c.pos = 0
	c.done = false
	return advance(c.parent)
}

func (c *parentContext) Next() bool {
	if c.done {
		return false
	}
	c.done = true
	p := realParent(c.parent.Pointer())
	if p == nil || !p.Matches(c.test) {
		return false
	}
	c.pos++
	return true
}

func (c *parentContext) SetPosition(pos int) bool {
	return seek(c, pos)
}

func (c *parentContext) Pointer() graph.Pointer {
	return realParent(c.parent.Pointer())
}

// ancestorContext reports ancestors nearest first.
type ancestorContext struct {
	baseContext
	test        graph.Test
	includeSelf bool
	current     graph.Pointer
	started     bool
}

func newAncestorContext(parent EvalContext, test graph.Test, includeSelf bool) EvalContext {
	ctx := ancestorContext{
		baseContext: makeContext(parent),
		test:        test,
		includeSelf: includeSelf,
	}
	return &ctx
}

func (c *ancestorContext) NextSet() bool {
	c.pos = 0
	c.started = false
	c.current = nil
	return advance(c.parent)
}

func (c *ancestorContext) Next() bool {
	if !c.started {
		c.started = true
		c.current = c.parent.Pointer()
		if !c.includeSelf {
			c.current = realParent(c.current)
		}
	} else {
		c.current = realParent(c.current)
	}
	for c.current != nil {
		if c.current.Matches(c.test) {
			c.pos++
			return true
		}
		c.current = realParent(c.current)
	}
	return false
}

func (c *ancestorContext) SetPosition(pos int) bool {
	return seek(c, pos)
}

func (c *ancestorContext) Ordered() bool {
	return false
}

func (c *ancestorContext) Pointer() graph.Pointer {
	return c.current
}

// descendantContext walks the subtree of the context node depth first,
// in document order. The backing graph is assumed to be acyclic.
type descendantContext struct {
	baseContext
	test        graph.Test
	includeSelf bool
	stack       []*graph.Iter
	current     graph.Pointer
	started     bool
}

func newDescendantContext(parent EvalContext, test graph.Test, includeSelf bool) EvalContext {
	ctx := descendantContext{
		baseContext: makeContext(parent),
		test:        test,
		includeSelf: includeSelf,
	}
	return &ctx
}

func (c *descendantContext) NextSet() bool {
	c.pos = 0
	c.stack = nil
	c.current = nil
	c.started = false
	return advance(c.parent)
}

func (c *descendantContext) Next() bool {
	if !c.started {
		c.started = true
		root := c.parent.Pointer()
		if root == nil {
			return false
		}
		c.stack = append(c.stack, root.Children(nil, false, nil))
		if c.includeSelf && root.Matches(c.test) {
			c.current = root
			c.pos++
			return true
		}
	}
	for len(c.stack) > 0 {
		it := c.stack[len(c.stack)-1]
		if !it.Next() {
			c.stack = c.stack[:len(c.stack)-1]
			continue
		}
		p := it.Pointer()
		c.stack = append(c.stack, p.Children(nil, false, nil))
		if p.Matches(c.test) {
			c.current = p
			c.pos++
			return true
		}
	}
	return false
}

func (c *descendantContext) SetPosition(pos int) bool {
	return seek(c, pos)
}

func (c *descendantContext) Pointer() graph.Pointer {
	return c.current
}

// surroundContext serves the preceding and following axes by filtering
// a document-order walk of the whole tree around the context node.
type surroundContext struct {
	baseContext
	test    graph.Test
	reverse bool
	list    []graph.Pointer
	ready   bool
}

func newSurroundContext(parent EvalContext, test graph.Test, reverse bool) EvalContext {
	ctx := surroundContext{
		baseContext: makeContext(parent),
		test:        test,
		reverse:     reverse,
	}
	return &ctx
}

func (c *surroundContext) NextSet() bool {
	c.pos = 0
	c.list = nil
	c.ready = false
	return advance(c.parent)
}

func (c *surroundContext) Next() bool {
	if !c.ready {
		c.prepare()
	}
	if c.pos >= len(c.list) {
		return false
	}
	c.pos++
	return true
}

func (c *surroundContext) SetPosition(pos int) bool {
	if !c.ready {
		c.prepare()
	}
	c.pos = pos
	return pos >= 1 && pos <= len(c.list)
}

func (c *surroundContext) Ordered() bool {
	return !c.reverse
}

func (c *surroundContext) Pointer() graph.Pointer {
	if c.pos < 1 || c.pos > len(c.list) {
		return nil
	}
	return c.list[c.pos-1]
}

func (c *surroundContext) prepare() {
	c.ready = true
	curr := c.parent.Pointer()
	if curr == nil {
		return
	}
	all := collectSubtree(graph.Root(curr), nil)
	for _, p := range all {
		if !p.Matches(c.test) {
			continue
		}
		order := graph.Compare(p, curr)
		if order == 0 {
			continue
		}
		if c.reverse {
			if order < 0 && !isAncestorOf(p, curr) {
				c.list = append(c.list, p)
			}
		} else {
			if order > 0 && !isAncestorOf(curr, p) {
				c.list = append(c.list, p)
			}
		}
	}
	if c.reverse {
		slices.Reverse(c.list)
	}
}

func collectSubtree(p graph.Pointer, list []graph.Pointer) []graph.Pointer {
	it := p.Children(nil, false, nil)
	for it.Next() {
		child := it.Pointer()
		list = append(list, child)
		list = collectSubtree(child, list)
	}
	return list
}

func isAncestorOf(p, of graph.Pointer) bool {
	for of = realParent(of); of != nil; of = realParent(of) {
		if of.Equal(p) {
			return true
		}
	}
	return false
}

type attributeContext struct {
	baseContext
	name     graph.QName
	iter     *graph.Iter
	prepared bool
}

func newAttributeContext(parent EvalContext, test graph.Test) EvalContext {
	ctx := attributeContext{
		baseContext: makeContext(parent),
		name:        attributeName(test),
	}
	return &ctx
}

// attributeName extracts the name the attribute axis looks up; a type
// test selects every attribute.
func attributeName(test graph.Test) graph.QName {
	if t, ok := test.(graph.NameTest); ok {
		return t.Name
	}
	return graph.QName{}
}

func (c *attributeContext) NextSet() bool {
	c.pos = 0
	c.iter = nil
	c.prepared = false
	return advance(c.parent)
}

func (c *attributeContext) Next() bool {
	if !c.prepared {
		c.prepared = true
		if p := c.parent.Pointer(); p != nil {
			c.iter = p.Attributes(c.name)
		}
	}
	if c.iter == nil || !c.iter.Next() {
		return false
	}
	c.pos++
	return true
}

func (c *attributeContext) SetPosition(pos int) bool {
	return seek(c, pos)
}

func (c *attributeContext) Pointer() graph.Pointer {
	if c.iter == nil {
		return nil
	}
	return c.iter.Pointer()
}

type namespaceContext struct {
	baseContext
	test     graph.Test
	iter     *graph.Iter
	prepared bool
}

func newNamespaceContext(parent EvalContext, test graph.Test) EvalContext {
	ctx := namespaceContext{
		baseContext: makeContext(parent),
		test:        test,
	}
	return &ctx
}

func (c *namespaceContext) NextSet() bool {
	c.pos = 0
	c.iter = nil
	c.prepared = false
	return advance(c.parent)
}

func (c *namespaceContext) Next() bool {
	if !c.prepared {
		c.prepared = true
		if p := c.parent.Pointer(); p != nil {
			c.iter = p.Namespaces()
		}
	}
	if c.iter == nil {
		return false
	}
	for c.iter.Next() {
		if c.iter.Pointer().Matches(c.test) {
			c.pos++
			return true
		}
	}
	return false
}

func (c *namespaceContext) SetPosition(pos int) bool {
	return seek(c, pos)
}

func (c *namespaceContext) Pointer() graph.Pointer {
	if c.iter == nil {
		return nil
	}
	return c.iter.Pointer()
}
