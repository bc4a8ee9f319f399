package xpath

import (
	"strings"

	"github.com/midbel/opath/graph"
)

// locationPath is a compiled sequence of steps, evaluated from the root
// pointer when absolute and from the context node otherwise.
type locationPath struct {
	absolute bool
	steps    []Step

	simple  bool
	checked bool
}

func (p *locationPath) Eval(ctx EvalContext) (any, error) {
	var start EvalContext
	if p.absolute {
		start = ctx.Root().Absolute()
	} else {
		start = newInitialContext(ctx)
	}
	return buildChain(start, p.steps, len(p.steps)), nil
}

func (p *locationPath) ContextDependent() bool {
	return !p.absolute
}

func (p *locationPath) String() string {
	var parts []string
	for _, s := range p.steps {
		parts = append(parts, s.String())
	}
	str := strings.Join(parts, "/")
	if p.absolute {
		return "/" + str
	}
	return str
}

// IsSimple reports whether every step can be served by the direct
// interpreter. The classification is computed once.
func (p *locationPath) IsSimple() bool {
	if !p.checked {
		p.checked = true
		p.simple = true
		for _, s := range p.steps {
			if !isSimpleStep(s) {
				p.simple = false
				break
			}
		}
	}
	return p.simple
}

// pointer resolves the path to a single location: the fast interpreter
// for simple paths, the chop-and-retry search otherwise. The result may
// be a speculative pointer for a location that does not exist yet; nil
// means absent.
func (p *locationPath) pointer(root *RootContext) (graph.Pointer, error) {
	if p.IsSimple() {
		return interpretSimple(root, root.Pointer(), p.steps)
	}
	return p.search(root)
}

// search probes the path at decreasing lengths. The full path takes its
// first match; when nothing matches, trailing steps are chopped until a
// prefix resolves, and the remainder becomes a speculative chain. A
// chopped prefix must resolve to a unique location, otherwise the
// anchor would be ambiguous and the search stops. Chopping only
// proceeds while the removed steps are simple so that the missing
// remainder can be described by a speculative chain.
func (p *locationPath) search(root *RootContext) (graph.Pointer, error) {
	ptr, err := firstPointer(buildChain(root.Absolute(), p.steps, len(p.steps)))
	if err != nil {
		return nil, err
	}
	if ptr != nil {
		return ptr, nil
	}
	for n := len(p.steps) - 1; n > 0; n-- {
		if !isSimpleStep(p.steps[n]) {
			return nil, nil
		}
		ptr, count, err := uniquePointer(buildChain(root.Absolute(), p.steps, n))
		if err != nil {
			return nil, err
		}
		if count > 1 {
			return nil, nil
		}
		if count == 1 {
			return nullChain(root, ptr, p.steps[n:]), nil
		}
	}
	return nil, nil
}

// buildChain folds the first n steps into nested axis contexts. Every
// predicate after the first on a step goes through a single-operand
// union so that position() restarts on the already filtered set.
func buildChain(start EvalContext, steps []Step, n int) EvalContext {
	ctx := start
	for i := 0; i < n; i++ {
		ctx = contextForStep(ctx, steps[i])
		for j, predicate := range steps[i].Predicates {
			if j != 0 {
				ctx = newUnionContext(ctx, []EvalContext{ctx})
			}
			ctx = newPredicateContext(ctx, predicate)
		}
	}
	return ctx
}

// nullChain manufactures the speculative pointer chain for steps that
// did not resolve, anchored at an existing pointer.
func nullChain(root *RootContext, p graph.Pointer, steps []Step) graph.Pointer {
	for _, s := range steps {
		if s.Axis == AxisSelf {
			continue
		}
		p = graph.NewNull(p, stepName(s), stepIndex(root, s))
	}
	return p
}

func stepName(s Step) graph.QName {
	if t, ok := s.Test.(graph.NameTest); ok {
		return t.Name
	}
	return graph.QName{}
}

// stepIndex extracts the positional predicate of a basic step as a
// zero-based index.
func stepIndex(root *RootContext, s Step) int {
	for _, p := range s.Predicates {
		if _, ok := p.(nameIs); ok {
			continue
		}
		if p.ContextDependent() {
			continue
		}
		value, err := p.Eval(root.Absolute())
		if err != nil {
			continue
		}
		if n, ok := asNumber(value); ok {
			return int(n) - 1
		}
	}
	return graph.WholeCollection
}

// expressionPath applies filter predicates and steps to the result of a
// primary expression, the way $var[2]/a/b navigates from a variable.
type expressionPath struct {
	expr       Expr
	predicates []Expr
	steps      []Step
}

func (p *expressionPath) Eval(ctx EvalContext) (any, error) {
	value, err := p.expr.Eval(ctx)
	if err != nil {
		return nil, err
	}
	chain := asContext(ctx, value)
	for j, predicate := range p.predicates {
		if j != 0 {
			chain = newUnionContext(chain, []EvalContext{chain})
		}
		chain = newPredicateContext(chain, predicate)
	}
	return buildChain(chain, p.steps, len(p.steps)), nil
}

func (p *expressionPath) ContextDependent() bool {
	if p.expr.ContextDependent() {
		return true
	}
	for _, e := range p.predicates {
		if e.ContextDependent() {
			return true
		}
	}
	for _, s := range p.steps {
		if s.ContextDependent() {
			return true
		}
	}
	return false
}

func (p *expressionPath) String() string {
	var str strings.Builder
	str.WriteString(p.expr.String())
	for _, e := range p.predicates {
		str.WriteString("[")
		str.WriteString(e.String())
		str.WriteString("]")
	}
	for _, s := range p.steps {
		str.WriteString("/")
		str.WriteString(s.String())
	}
	return str.String()
}

// pointer resolves the expression path to a single location. When the
// steps are simple they are interpreted directly from the primary
// result, which keeps speculative pointers available on variables.
func (p *expressionPath) pointer(root *RootContext) (graph.Pointer, error) {
	value, err := p.expr.Eval(root.Absolute())
	if err != nil {
		return nil, err
	}
	if len(p.predicates) == 0 && simpleSteps(p.steps) {
		start, err := firstPointer(asContext(root.Absolute(), value))
		if err != nil || start == nil {
			return nil, err
		}
		return interpretSimple(root, start, p.steps)
	}
	ctx, err := p.Eval(root.Absolute())
	if err != nil {
		return nil, err
	}
	return firstPointer(ctx.(EvalContext))
}

func simpleSteps(steps []Step) bool {
	for _, s := range steps {
		if !isSimpleStep(s) {
			return false
		}
	}
	return true
}
