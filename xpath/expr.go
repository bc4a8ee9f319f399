package xpath

import (
	"fmt"
	"math"
	"strings"

	"github.com/midbel/opath/graph"
)

// Expr is a compiled expression. Eval may produce a primitive value, a
// pointer or a whole context chain; ContextDependent reports whether
// the result can change with the node the expression is applied to.
type Expr interface {
	Eval(ctx EvalContext) (any, error)
	ContextDependent() bool
	String() string
}

type number struct {
	value float64
}

func (n number) Eval(EvalContext) (any, error) {
	return n.value, nil
}

func (n number) ContextDependent() bool {
	return false
}

func (n number) String() string {
	return formatNumber(n.value)
}

type literal struct {
	value string
}

func (i literal) Eval(EvalContext) (any, error) {
	return i.value, nil
}

func (i literal) ContextDependent() bool {
	return false
}

func (i literal) String() string {
	return fmt.Sprintf("%q", i.value)
}

// identifier is a $variable reference.
type identifier struct {
	ident string
}

func (i identifier) Eval(ctx EvalContext) (any, error) {
	return ctx.Root().Variable(i.ident)
}

func (i identifier) ContextDependent() bool {
	return false
}

func (i identifier) String() string {
	return "$" + i.ident
}

type call struct {
	ident string
	args  []Expr
}

func (c call) Eval(ctx EvalContext) (any, error) {
	fn, err := ctx.Root().Function(c.ident)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.ident, err)
	}
	value, err := fn(ctx, c.args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.ident, err)
	}
	return value, nil
}

func (c call) ContextDependent() bool {
	switch c.ident {
	case "position", "last":
		return true
	}
	if len(c.args) == 0 {
		// argument-less core functions default to the context node
		return true
	}
	for _, a := range c.args {
		if a.ContextDependent() {
			return true
		}
	}
	return false
}

func (c call) String() string {
	var args []string
	for _, a := range c.args {
		args = append(args, a.String())
	}
	return fmt.Sprintf("%s(%s)", c.ident, strings.Join(args, ", "))
}

type binary struct {
	left  Expr
	right Expr
	op    rune
}

func (b binary) Eval(ctx EvalContext) (any, error) {
	switch b.op {
	case opAnd, opOr:
		return b.logic(ctx)
	case opAdd, opSub, opMul, opDiv, opMod:
		return b.arithmetic(ctx)
	case opEq, opNe, opLt, opLe, opGt, opGe:
		return b.compare(ctx)
	default:
		return nil, fmt.Errorf("%w: unknown operator", ErrSyntax)
	}
}

func (b binary) logic(ctx EvalContext) (any, error) {
	left, err := b.left.Eval(ctx)
	if err != nil {
		return nil, err
	}
	ok := toBool(left)
	if b.op == opAnd && !ok {
		return false, nil
	}
	if b.op == opOr && ok {
		return true, nil
	}
	right, err := b.right.Eval(ctx)
	if err != nil {
		return nil, err
	}
	return toBool(right), nil
}

func (b binary) arithmetic(ctx EvalContext) (any, error) {
	left, err := b.left.Eval(ctx)
	if err != nil {
		return nil, err
	}
	right, err := b.right.Eval(ctx)
	if err != nil {
		return nil, err
	}
	var (
		x = toNumber(left)
		y = toNumber(right)
	)
	switch b.op {
	case opAdd:
		return x + y, nil
	case opSub:
		return x - y, nil
	case opMul:
		return x * y, nil
	case opDiv:
		return x / y, nil
	case opMod:
		return math.Mod(x, y), nil
	default:
		return nil, fmt.Errorf("%w: unknown operator", ErrSyntax)
	}
}

// compare applies the existential comparison rule: when an operand is a
// node set, the comparison holds if it holds for at least one of its
// nodes.
func (b binary) compare(ctx EvalContext) (any, error) {
	left, err := b.left.Eval(ctx)
	if err != nil {
		return nil, err
	}
	right, err := b.right.Eval(ctx)
	if err != nil {
		return nil, err
	}
	lvs, err := valuesOf(left)
	if err != nil {
		return nil, err
	}
	rvs, err := valuesOf(right)
	if err != nil {
		return nil, err
	}
	for _, x := range lvs {
		for _, y := range rvs {
			if comparePair(x, y, b.op) {
				return true, nil
			}
		}
	}
	return false, nil
}

func comparePair(x, y any, op rune) bool {
	switch op {
	case opEq:
		return equalPair(x, y)
	case opNe:
		return !equalPair(x, y)
	}
	var (
		a = toNumber(x)
		b = toNumber(y)
	)
	switch op {
	case opLt:
		return a < b
	case opLe:
		return a <= b
	case opGt:
		return a > b
	case opGe:
		return a >= b
	default:
		return false
	}
}

func equalPair(x, y any) bool {
	if _, ok := x.(bool); ok {
		return x.(bool) == toBool(y)
	}
	if _, ok := y.(bool); ok {
		return toBool(x) == y.(bool)
	}
	if isNumber(x) || isNumber(y) {
		return toNumber(x) == toNumber(y)
	}
	return toString(x) == toString(y)
}

func (b binary) ContextDependent() bool {
	return b.left.ContextDependent() || b.right.ContextDependent()
}

func (b binary) String() string {
	return fmt.Sprintf("%s %s %s", b.left, operatorName(b.op), b.right)
}

type negate struct {
	expr Expr
}

func (n negate) Eval(ctx EvalContext) (any, error) {
	value, err := n.expr.Eval(ctx)
	if err != nil {
		return nil, err
	}
	return -toNumber(value), nil
}

func (n negate) ContextDependent() bool {
	return n.expr.ContextDependent()
}

func (n negate) String() string {
	return "-" + n.expr.String()
}

// union evaluates its operands as node sets and merges them.
type union struct {
	all []Expr
}

func (u union) Eval(ctx EvalContext) (any, error) {
	var contexts []EvalContext
	for _, e := range u.all {
		value, err := e.Eval(ctx)
		if err != nil {
			return nil, err
		}
		contexts = append(contexts, asContext(ctx, value))
	}
	return newUnionContext(ctx, contexts), nil
}

func (u union) ContextDependent() bool {
	for _, e := range u.all {
		if e.ContextDependent() {
			return true
		}
	}
	return false
}

func (u union) String() string {
	var parts []string
	for _, e := range u.all {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, " | ")
}

// nameIs is the [@name = value] shortcut predicate: it matches nodes
// whose name attribute or name member equals the given string.
type nameIs struct {
	value Expr
}

func (n nameIs) Eval(ctx EvalContext) (any, error) {
	value, err := n.value.Eval(ctx)
	if err != nil {
		return nil, err
	}
	want := toString(value)
	p := ctx.Pointer()
	if p == nil {
		return false, nil
	}
	return matchesNameValue(p, want), nil
}

func matchesNameValue(p graph.Pointer, want string) bool {
	it := p.Attributes(graph.LocalName("name"))
	for it.Next() {
		if toString(it.Pointer().Value()) == want {
			return true
		}
	}
	return false
}

func (n nameIs) ContextDependent() bool {
	return true
}

func (n nameIs) String() string {
	return fmt.Sprintf("@name = %s", n.value)
}
