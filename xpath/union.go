package xpath

import (
	"sort"

	"github.com/midbel/opath/graph"
)

// unionContext merges the results of several chains. The merged list is
// built once: every operand is drained, duplicates are dropped keeping
// the first occurrence, and the survivors are sorted into document
// order. A single-operand union keeps the operand's own order, so that
// position() inside a re-scoped predicate counts along the axis
// direction.
type unionContext struct {
	baseContext
	contexts []EvalContext

	list     []graph.Pointer
	prepared bool
	started  bool
	err      error
}

func newUnionContext(parent EvalContext, contexts []EvalContext) *unionContext {
	ctx := unionContext{
		baseContext: makeContext(parent),
		contexts:    contexts,
	}
	return &ctx
}

func (c *unionContext) Ordered() bool {
	return len(c.contexts) <= 1
}

func (c *unionContext) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.parent.Err()
}

func (c *unionContext) NextSet() bool {
	if c.started {
		return false
	}
	c.started = true
	c.pos = 0
	c.prepare()
	return true
}

func (c *unionContext) Next() bool {
	if !c.started || c.pos >= len(c.list) {
		return false
	}
	c.pos++
	return true
}

func (c *unionContext) SetPosition(pos int) bool {
	if !c.started && !c.NextSet() {
		return false
	}
	c.pos = pos
	return pos >= 1 && pos <= len(c.list)
}

func (c *unionContext) Pointer() graph.Pointer {
	if c.pos < 1 || c.pos > len(c.list) {
		return nil
	}
	return c.list[c.pos-1]
}

func (c *unionContext) prepare() {
	if c.prepared {
		return
	}
	c.prepared = true
	for _, ctx := range c.contexts {
		list, err := drain(ctx)
		if err != nil {
			c.err = err
			return
		}
		for _, p := range list {
			if !containsPointer(c.list, p) {
				c.list = append(c.list, p)
			}
		}
	}
	if c.Ordered() {
		return
	}
	sort.SliceStable(c.list, func(i, j int) bool {
		return graph.Compare(c.list[i], c.list[j]) < 0
	})
}
