package xpath

import (
	"github.com/midbel/opath/graph"
)

// predicateContext filters its parent group with one predicate
// expression. The group is materialized so that position() and last()
// see the group the predicate applies to.
type predicateContext struct {
	baseContext
	predicate Expr
	list      []graph.Pointer
	err       error
}

func newPredicateContext(parent EvalContext, predicate Expr) EvalContext {
	ctx := predicateContext{
		baseContext: makeContext(parent),
		predicate:   predicate,
	}
	return &ctx
}

func (c *predicateContext) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.parent.Err()
}

func (c *predicateContext) NextSet() bool {
	c.pos = 0
	c.list = nil
	if c.err != nil {
		return false
	}
	if !c.parent.NextSet() {
		return false
	}
	var group []graph.Pointer
	for c.parent.Next() {
		group = append(group, c.parent.Pointer())
	}
	if err := c.parent.Err(); err != nil {
		c.err = err
		return false
	}
	for i, p := range group {
		keep, err := c.accept(group, i)
		if err != nil {
			c.err = err
			return false
		}
		if keep {
			c.list = append(c.list, p)
		}
	}
	return true
}

func (c *predicateContext) accept(group []graph.Pointer, at int) (bool, error) {
	ctx := newSetContext(c.parent, group, at+1)
	value, err := c.predicate.Eval(ctx)
	if err != nil {
		return false, err
	}
	// a numeric predicate selects by position
	if n, ok := asNumber(value); ok {
		return int(n) == at+1, nil
	}
	return toBool(value), nil
}

func (c *predicateContext) Next() bool {
	if c.pos >= len(c.list) {
		return false
	}
	c.pos++
	return true
}

func (c *predicateContext) SetPosition(pos int) bool {
	c.pos = pos
	return pos >= 1 && pos <= len(c.list)
}

func (c *predicateContext) Pointer() graph.Pointer {
	if c.pos < 1 || c.pos > len(c.list) {
		return nil
	}
	return c.list[c.pos-1]
}

// setContext positions predicate evaluation on one node of a
// materialized group.
type setContext struct {
	nodeSetContext
}

func newSetContext(parent EvalContext, list []graph.Pointer, pos int) *setContext {
	ctx := setContext{
		nodeSetContext: *newNodeSetContext(parent, list),
	}
	ctx.started = true
	ctx.pos = pos
	return &ctx
}

func (c *setContext) Last() int {
	return len(c.list)
}
