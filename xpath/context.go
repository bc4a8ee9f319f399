package xpath

import (
	"errors"

	"github.com/midbel/opath/graph"
)

var (
	ErrSyntax   = errors.New("syntax error")
	ErrType     = errors.New("unexpected type")
	ErrArgument = errors.New("invalid argument")
	ErrNotFound = errors.New("no value at location")
	ErrContext  = errors.New("value not available outside of predicate")
)

// EvalContext is a lazy cursor over the pointers selected by one link of
// an axis chain. Results come in two levels: NextSet advances to the
// next group of candidates, one group per node of the parent context,
// and Next advances within the group. Position is 1-based within the
// current group and resets on every new group.
type EvalContext interface {
	NextSet() bool
	Next() bool
	SetPosition(pos int) bool
	Position() int
	Pointer() graph.Pointer
	Root() *RootContext

	// Ordered reports whether pointers come in document order, which
	// lets positional shortcuts skip materializing the group.
	Ordered() bool

	// Err reports the first evaluation failure encountered while
	// iterating. Iteration stops at the failure.
	Err() error
}

type baseContext struct {
	parent EvalContext
	pos    int
}

func makeContext(parent EvalContext) baseContext {
	return baseContext{
		parent: parent,
	}
}

func (b *baseContext) Root() *RootContext {
	return b.parent.Root()
}

func (b *baseContext) Position() int {
	return b.pos
}

func (b *baseContext) Ordered() bool {
	return true
}

func (b *baseContext) Err() error {
	return b.parent.Err()
}

// advance moves the parent context to its next node, crossing group
// boundaries when the current group is exhausted.
func advance(ctx EvalContext) bool {
	if ctx == nil {
		return false
	}
	if ctx.Next() {
		return true
	}
	for ctx.NextSet() {
		if ctx.Next() {
			return true
		}
	}
	return false
}

// seek implements SetPosition for forward-only contexts.
func seek(ctx EvalContext, pos int) bool {
	for ctx.Position() < pos {
		if !ctx.Next() {
			return false
		}
	}
	return ctx.Position() == pos
}

// drain enumerates every pointer the chain produces, in order.
func drain(ctx EvalContext) ([]graph.Pointer, error) {
	var list []graph.Pointer
	for ctx.NextSet() {
		for ctx.Next() {
			list = append(list, ctx.Pointer())
		}
	}
	return list, ctx.Err()
}

func firstPointer(ctx EvalContext) (graph.Pointer, error) {
	for ctx.NextSet() {
		if ctx.Next() {
			return ctx.Pointer(), ctx.Err()
		}
	}
	return nil, ctx.Err()
}

// uniquePointer drains the chain and reports the distinct match count
// along with the first match.
func uniquePointer(ctx EvalContext) (graph.Pointer, int, error) {
	list, err := drain(ctx)
	if err != nil {
		return nil, 0, err
	}
	var distinct []graph.Pointer
	for _, p := range list {
		if !containsPointer(distinct, p) {
			distinct = append(distinct, p)
		}
	}
	if len(distinct) == 0 {
		return nil, 0, nil
	}
	return distinct[0], len(distinct), nil
}

func containsPointer(list []graph.Pointer, p graph.Pointer) bool {
	for _, other := range list {
		if other.Equal(p) {
			return true
		}
	}
	return false
}

// RootContext anchors an axis chain: it owns the root pointer of the
// evaluation and gives predicate expressions access to variables and
// functions.
type RootContext struct {
	env     *Context
	pointer graph.Pointer
}

func newRootContext(env *Context, pointer graph.Pointer) *RootContext {
	return &RootContext{
		env:     env,
		pointer: pointer,
	}
}

func (r *RootContext) Root() *RootContext {
	return r
}

func (r *RootContext) Pointer() graph.Pointer {
	return r.pointer
}

func (r *RootContext) Position() int {
	return 0
}

func (r *RootContext) SetPosition(int) bool {
	return false
}

func (r *RootContext) Next() bool {
	return false
}

func (r *RootContext) NextSet() bool {
	return false
}

func (r *RootContext) Ordered() bool {
	return true
}

func (r *RootContext) Err() error {
	return nil
}

// Absolute starts a fresh chain at the root pointer.
func (r *RootContext) Absolute() EvalContext {
	return newNodeSetContext(r, []graph.Pointer{r.pointer})
}

func (r *RootContext) Variable(name string) (graph.Pointer, error) {
	value, err := r.env.variables.Resolve(name)
	if err != nil {
		return nil, err
	}
	if p, ok := value.(graph.Pointer); ok {
		return p, nil
	}
	return graph.NewPointer(nil, graph.LocalName(name), value), nil
}

func (r *RootContext) Function(name string) (BuiltinFunc, error) {
	return r.env.builtins.Resolve(name)
}

// nodeSetContext serves a precomputed list of pointers as a single
// group. It anchors chains and wraps explicit node sets.
type nodeSetContext struct {
	baseContext
	list    []graph.Pointer
	started bool
}

func newNodeSetContext(parent EvalContext, list []graph.Pointer) *nodeSetContext {
	ctx := nodeSetContext{
		baseContext: makeContext(parent),
		list:        list,
	}
	return &ctx
}

func (c *nodeSetContext) NextSet() bool {
	if c.started {
		return false
	}
	c.started = true
	c.pos = 0
	return true
}

func (c *nodeSetContext) Next() bool {
	if !c.started || c.pos >= len(c.list) {
		return false
	}
	c.pos++
	return true
}

func (c *nodeSetContext) SetPosition(pos int) bool {
	if !c.started && !c.NextSet() {
		return false
	}
	c.pos = pos
	return pos >= 1 && pos <= len(c.list)
}

func (c *nodeSetContext) Pointer() graph.Pointer {
	if c.pos < 1 || c.pos > len(c.list) {
		return nil
	}
	return c.list[c.pos-1]
}

// newInitialContext freezes the current node of a context as the start
// of a nested chain, the way a relative path inside a predicate starts
// at the node under test.
func newInitialContext(ctx EvalContext) EvalContext {
	var list []graph.Pointer
	if p := ctx.Pointer(); p != nil {
		list = append(list, p)
	}
	return newNodeSetContext(ctx, list)
}

// asContext coerces an expression result into a context chain.
func asContext(parent EvalContext, value any) EvalContext {
	switch value := value.(type) {
	case EvalContext:
		return value
	case graph.Pointer:
		return newNodeSetContext(parent, []graph.Pointer{value})
	case []graph.Pointer:
		return newNodeSetContext(parent, value)
	case nil:
		return newNodeSetContext(parent, nil)
	default:
		p := graph.NewPointer(nil, graph.QName{}, value)
		return newNodeSetContext(parent, []graph.Pointer{p})
	}
}
