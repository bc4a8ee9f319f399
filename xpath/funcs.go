package xpath

import (
	"fmt"
	"math"
	"strings"

	"github.com/midbel/opath/environ"
	"github.com/midbel/opath/graph"
)

// BuiltinFunc is the contract of functions callable from expressions.
// Arguments come unevaluated so that a function controls how its
// operands are coerced.
type BuiltinFunc func(ctx EvalContext, args []Expr) (any, error)

// DefaultBuiltins returns the standard function library.
func DefaultBuiltins() environ.Environ[BuiltinFunc] {
	env := environ.Empty[BuiltinFunc]()
	env.Define("last", callLast)
	env.Define("position", callPosition)
	env.Define("count", callCount)
	env.Define("name", callName)
	env.Define("local-name", callLocalName)
	env.Define("string", callString)
	env.Define("concat", callConcat)
	env.Define("starts-with", callStartsWith)
	env.Define("contains", callContains)
	env.Define("substring-before", callSubstringBefore)
	env.Define("substring-after", callSubstringAfter)
	env.Define("substring", callSubstring)
	env.Define("string-length", callStringLength)
	env.Define("normalize-space", callNormalizeSpace)
	env.Define("translate", callTranslate)
	env.Define("boolean", callBoolean)
	env.Define("not", callNot)
	env.Define("true", callTrue)
	env.Define("false", callFalse)
	env.Define("number", callNumber)
	env.Define("sum", callSum)
	env.Define("floor", callFloor)
	env.Define("ceiling", callCeiling)
	env.Define("round", callRound)
	return env
}

func arity(args []Expr, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		return fmt.Errorf("%w: wrong number of arguments", ErrArgument)
	}
	return nil
}

func evalArg(ctx EvalContext, args []Expr, at int) (any, error) {
	return args[at].Eval(ctx)
}

// argOrContext evaluates the optional argument of the functions that
// default to the context node.
func argOrContext(ctx EvalContext, args []Expr) (any, error) {
	if len(args) == 0 {
		return ctx.Pointer(), nil
	}
	return evalArg(ctx, args, 0)
}

func stringArg(ctx EvalContext, args []Expr, at int) (string, error) {
	value, err := evalArg(ctx, args, at)
	if err != nil {
		return "", err
	}
	return toString(value), nil
}

func callLast(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 0, 0); err != nil {
		return nil, err
	}
	type lasting interface {
		Last() int
	}
	c, ok := ctx.(lasting)
	if !ok {
		return nil, ErrContext
	}
	return float64(c.Last()), nil
}

func callPosition(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 0, 0); err != nil {
		return nil, err
	}
	return float64(ctx.Position()), nil
}

func callCount(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	value, err := evalArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	set, ok := value.(EvalContext)
	if !ok {
		return nil, fmt.Errorf("%w: node set expected", ErrType)
	}
	list, err := drain(set)
	if err != nil {
		return nil, err
	}
	return float64(len(list)), nil
}

func namedPointer(ctx EvalContext, args []Expr) (graph.Pointer, error) {
	value, err := argOrContext(ctx, args)
	if err != nil {
		return nil, err
	}
	switch value := value.(type) {
	case graph.Pointer:
		return value, nil
	case EvalContext:
		return firstPointer(value)
	default:
		return nil, fmt.Errorf("%w: node set expected", ErrType)
	}
}

func callName(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 0, 1); err != nil {
		return nil, err
	}
	p, err := namedPointer(ctx, args)
	if err != nil || p == nil {
		return "", err
	}
	return p.Name().QualifiedName(), nil
}

func callLocalName(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 0, 1); err != nil {
		return nil, err
	}
	p, err := namedPointer(ctx, args)
	if err != nil || p == nil {
		return "", err
	}
	return p.Name().Name, nil
}

func callString(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 0, 1); err != nil {
		return nil, err
	}
	value, err := argOrContext(ctx, args)
	if err != nil {
		return nil, err
	}
	return toString(value), nil
}

func callConcat(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 2, -1); err != nil {
		return nil, err
	}
	var str strings.Builder
	for i := range args {
		part, err := stringArg(ctx, args, i)
		if err != nil {
			return nil, err
		}
		str.WriteString(part)
	}
	return str.String(), nil
}

func callStartsWith(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	str, err := stringArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	prefix, err := stringArg(ctx, args, 1)
	if err != nil {
		return nil, err
	}
	return strings.HasPrefix(str, prefix), nil
}

func callContains(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	str, err := stringArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	part, err := stringArg(ctx, args, 1)
	if err != nil {
		return nil, err
	}
	return strings.Contains(str, part), nil
}

func callSubstringBefore(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	str, err := stringArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	mark, err := stringArg(ctx, args, 1)
	if err != nil {
		return nil, err
	}
	before, _, _ := strings.Cut(str, mark)
	if before == str {
		return "", nil
	}
	return before, nil
}

func callSubstringAfter(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	str, err := stringArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	mark, err := stringArg(ctx, args, 1)
	if err != nil {
		return nil, err
	}
	_, after, found := strings.Cut(str, mark)
	if !found {
		return "", nil
	}
	return after, nil
}

// callSubstring uses the rounding rules of the path language: positions
// are 1-based and both boundaries are rounded before comparison.
func callSubstring(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 2, 3); err != nil {
		return nil, err
	}
	str, err := stringArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	value, err := evalArg(ctx, args, 1)
	if err != nil {
		return nil, err
	}
	var (
		runes = []rune(str)
		start = math.Floor(toNumber(value) + 0.5)
		end   = math.Inf(1)
	)
	if len(args) == 3 {
		value, err = evalArg(ctx, args, 2)
		if err != nil {
			return nil, err
		}
		end = start + math.Floor(toNumber(value)+0.5)
	}
	if math.IsNaN(start) || math.IsNaN(end) {
		return "", nil
	}
	var out strings.Builder
	for i, c := range runes {
		pos := float64(i + 1)
		if pos >= start && pos < end {
			out.WriteRune(c)
		}
	}
	return out.String(), nil
}

func callStringLength(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 0, 1); err != nil {
		return nil, err
	}
	value, err := argOrContext(ctx, args)
	if err != nil {
		return nil, err
	}
	return float64(len([]rune(toString(value)))), nil
}

func callNormalizeSpace(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 0, 1); err != nil {
		return nil, err
	}
	value, err := argOrContext(ctx, args)
	if err != nil {
		return nil, err
	}
	return strings.Join(strings.Fields(toString(value)), " "), nil
}

func callTranslate(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 3, 3); err != nil {
		return nil, err
	}
	str, err := stringArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	from, err := stringArg(ctx, args, 1)
	if err != nil {
		return nil, err
	}
	to, err := stringArg(ctx, args, 2)
	if err != nil {
		return nil, err
	}
	var (
		src = []rune(from)
		dst = []rune(to)
		out strings.Builder
	)
	for _, c := range str {
		at := -1
		for i, f := range src {
			if f == c {
				at = i
				break
			}
		}
		switch {
		case at < 0:
			out.WriteRune(c)
		case at < len(dst):
			out.WriteRune(dst[at])
		}
	}
	return out.String(), nil
}

func callBoolean(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	value, err := evalArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	return toBool(value), nil
}

func callNot(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	value, err := evalArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	return !toBool(value), nil
}

func callTrue(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 0, 0); err != nil {
		return nil, err
	}
	return true, nil
}

func callFalse(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 0, 0); err != nil {
		return nil, err
	}
	return false, nil
}

func callNumber(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 0, 1); err != nil {
		return nil, err
	}
	value, err := argOrContext(ctx, args)
	if err != nil {
		return nil, err
	}
	return toNumber(value), nil
}

func callSum(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	value, err := evalArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	list, err := valuesOf(value)
	if err != nil {
		return nil, err
	}
	var sum float64
	for _, v := range list {
		sum += toNumber(v)
	}
	return sum, nil
}

func callFloor(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	value, err := evalArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	return math.Floor(toNumber(value)), nil
}

func callCeiling(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	value, err := evalArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	return math.Ceil(toNumber(value)), nil
}

func callRound(ctx EvalContext, args []Expr) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	value, err := evalArg(ctx, args, 0)
	if err != nil {
		return nil, err
	}
	n := toNumber(value)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return n, nil
	}
	return math.Floor(n + 0.5), nil
}
