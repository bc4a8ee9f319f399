package xpath

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/midbel/opath/graph"
)

const (
	powLowest = iota
	powOr
	powAnd
	powEq
	powCmp
	powAdd
	powMul
	powUnion
	powPrefix
)

var bindings = map[rune]int{
	opOr:    powOr,
	opAnd:   powAnd,
	opEq:    powEq,
	opNe:    powEq,
	opLt:    powCmp,
	opLe:    powCmp,
	opGt:    powCmp,
	opGe:    powCmp,
	opAdd:   powAdd,
	opSub:   powAdd,
	opMul:   powMul,
	opDiv:   powMul,
	opMod:   powMul,
	opUnion: powUnion,
}

type Compiler struct {
	scan *Scanner
	curr Token
	peek Token

	// resolve maps a namespace prefix to its uri; nil leaves prefixes
	// unresolved and matched by prefix only
	resolve func(prefix string) string
}

func NewCompiler(r io.Reader) *Compiler {
	cp := Compiler{
		scan: Scan(r),
	}
	cp.next()
	cp.next()
	return &cp
}

func Compile(r io.Reader) (Expr, error) {
	cp := NewCompiler(r)
	return cp.Compile()
}

func CompileString(q string) (Expr, error) {
	return Compile(strings.NewReader(q))
}

func (c *Compiler) Compile() (Expr, error) {
	expr, err := c.compileExpr(powLowest)
	if err != nil {
		return nil, err
	}
	if !c.done() {
		return nil, c.unexpected("unparsed trailing input")
	}
	return expr, nil
}

func (c *Compiler) compileExpr(pow int) (Expr, error) {
	left, err := c.compilePrefix()
	if err != nil {
		return nil, err
	}
	for {
		op := c.infixOp()
		next, ok := bindings[op]
		if !ok || next <= pow {
			return left, nil
		}
		c.next()
		right, err := c.compileExpr(next)
		if err != nil {
			return nil, err
		}
		if op == opUnion {
			left = mergeUnion(left, right)
			continue
		}
		left = binary{
			left:  left,
			right: right,
			op:    op,
		}
	}
}

// infixOp reports the effective operator of the current token; the
// operator names are plain names everywhere but in operator position.
func (c *Compiler) infixOp() rune {
	if c.is(Name) {
		switch c.curr.Literal {
		case "and":
			return opAnd
		case "or":
			return opOr
		case "div":
			return opDiv
		case "mod":
			return opMod
		}
	}
	return c.curr.Type
}

func mergeUnion(left, right Expr) Expr {
	if u, ok := left.(union); ok {
		u.all = append(u.all, right)
		return u
	}
	return union{
		all: []Expr{left, right},
	}
}

func (c *Compiler) compilePrefix() (Expr, error) {
	switch c.curr.Type {
	case opSub:
		c.next()
		expr, err := c.compileExpr(powMul)
		if err != nil {
			return nil, err
		}
		return negate{expr: expr}, nil
	case currLevel, anyLevel:
		return c.compileAbsolutePath()
	case currNode, parentNode, attrNode, opMul:
		return c.compileRelativePath()
	case Name:
		if c.peek.Type == begGrp && !isKindName(c.curr.Literal) {
			return c.compileFilter()
		}
		return c.compileRelativePath()
	case variable, Literal, Digit, begGrp:
		return c.compileFilter()
	default:
		return nil, c.unexpected("expression expected")
	}
}

func (c *Compiler) compileAbsolutePath() (Expr, error) {
	path := locationPath{
		absolute: true,
	}
	if c.is(anyLevel) {
		path.steps = append(path.steps, descendantOrSelfStep())
	}
	c.next()
	if !c.startsStep() {
		if len(path.steps) == 0 {
			return &path, nil
		}
		return nil, c.unexpected("step expected after //")
	}
	steps, err := c.compileSteps()
	if err != nil {
		return nil, err
	}
	path.steps = append(path.steps, steps...)
	return &path, nil
}

func (c *Compiler) compileRelativePath() (Expr, error) {
	steps, err := c.compileSteps()
	if err != nil {
		return nil, err
	}
	path := locationPath{
		steps: steps,
	}
	return &path, nil
}

func (c *Compiler) compileSteps() ([]Step, error) {
	var steps []Step
	for {
		s, err := c.compileStep()
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
		if c.is(currLevel) {
			c.next()
			continue
		}
		if c.is(anyLevel) {
			c.next()
			steps = append(steps, descendantOrSelfStep())
			continue
		}
		return steps, nil
	}
}

func descendantOrSelfStep() Step {
	return Step{
		Axis: AxisDescendantOrSelf,
		Test: graph.NewTypeTest(graph.KindNode),
	}
}

func (c *Compiler) compileStep() (Step, error) {
	var s Step
	switch {
	case c.is(currNode):
		c.next()
		s.Axis = AxisSelf
		s.Test = graph.NewTypeTest(graph.KindNode)
		return s, nil
	case c.is(parentNode):
		c.next()
		s.Axis = AxisParent
		s.Test = graph.NewTypeTest(graph.KindNode)
		return s, nil
	case c.is(attrNode):
		c.next()
		s.Axis = AxisAttribute
	case c.is(Name) && c.peek.Type == opAxis:
		axis, ok := axisByName(c.curr.Literal)
		if !ok {
			return s, c.unexpected("unknown axis")
		}
		s.Axis = axis
		c.next()
		c.next()
	default:
		s.Axis = AxisChild
	}
	test, err := c.compileNodeTest()
	if err != nil {
		return s, err
	}
	s.Test = test
	predicates, err := c.compilePredicates()
	if err != nil {
		return s, err
	}
	s.Predicates = predicates
	return s, nil
}

func (c *Compiler) compileNodeTest() (graph.Test, error) {
	if c.is(opMul) {
		c.next()
		return graph.NewNameTest(graph.LocalName("*")), nil
	}
	if !c.is(Name) {
		return nil, c.unexpected("node test expected")
	}
	name := c.curr.Literal
	if isKindName(name) && c.peek.Type == begGrp {
		return c.compileKindTest()
	}
	c.next()
	if !c.is(Namespace) {
		return graph.NewNameTest(graph.LocalName(name)), nil
	}
	c.next()
	qn := graph.QName{
		Space: name,
	}
	switch {
	case c.is(Name):
		qn.Name = c.curr.Literal
	case c.is(opMul):
		qn.Name = "*"
	default:
		return nil, c.unexpected("name expected after namespace prefix")
	}
	c.next()
	var uri string
	if c.resolve != nil {
		uri = c.resolve(qn.Space)
	}
	return graph.NewNameTestNS(qn, uri), nil
}

func (c *Compiler) compileKindTest() (graph.Test, error) {
	var kind graph.NodeKind
	switch c.curr.Literal {
	case "node":
		kind = graph.KindNode
	case "text":
		kind = graph.KindText
	case "comment":
		kind = graph.KindComment
	case "processing-instruction":
		kind = graph.KindInstruction
	default:
		return nil, c.unexpected("unknown kind test")
	}
	c.next()
	c.next()
	// the optional target of processing-instruction() is accepted and
	// ignored
	if c.is(Literal) {
		c.next()
	}
	if !c.is(endGrp) {
		return nil, c.unexpected("missing ')' after kind test")
	}
	c.next()
	return graph.NewTypeTest(kind), nil
}

func (c *Compiler) compilePredicates() ([]Expr, error) {
	var predicates []Expr
	for c.is(begPred) {
		c.next()
		expr, err := c.compileExpr(powLowest)
		if err != nil {
			return nil, err
		}
		if !c.is(endPred) {
			return nil, c.unexpected("missing ']' after predicate")
		}
		c.next()
		predicates = append(predicates, asNameIs(expr))
	}
	return predicates, nil
}

// asNameIs rewrites [@name = value] predicates into the shortcut form
// the simple path classifier understands.
func asNameIs(e Expr) Expr {
	b, ok := e.(binary)
	if !ok || b.op != opEq {
		return e
	}
	if isNameAttrPath(b.left) {
		return nameIs{value: b.right}
	}
	if isNameAttrPath(b.right) {
		return nameIs{value: b.left}
	}
	return e
}

func isNameAttrPath(e Expr) bool {
	p, ok := e.(*locationPath)
	if !ok || p.absolute || len(p.steps) != 1 {
		return false
	}
	s := p.steps[0]
	if s.Axis != AxisAttribute || len(s.Predicates) != 0 {
		return false
	}
	t, ok := s.Test.(graph.NameTest)
	return ok && t.Name.Space == "" && t.Name.Name == "name"
}

// compileFilter parses a primary expression with optional predicates
// and trailing steps.
func (c *Compiler) compileFilter() (Expr, error) {
	expr, err := c.compilePrimary()
	if err != nil {
		return nil, err
	}
	var predicates []Expr
	for c.is(begPred) {
		c.next()
		p, err := c.compileExpr(powLowest)
		if err != nil {
			return nil, err
		}
		if !c.is(endPred) {
			return nil, c.unexpected("missing ']' after predicate")
		}
		c.next()
		predicates = append(predicates, asNameIs(p))
	}
	var steps []Step
	for c.is(currLevel) || c.is(anyLevel) {
		if c.is(anyLevel) {
			steps = append(steps, descendantOrSelfStep())
		}
		c.next()
		more, err := c.compileSteps()
		if err != nil {
			return nil, err
		}
		steps = append(steps, more...)
	}
	if len(predicates) == 0 && len(steps) == 0 {
		return expr, nil
	}
	path := expressionPath{
		expr:       expr,
		predicates: predicates,
		steps:      steps,
	}
	return &path, nil
}

func (c *Compiler) compilePrimary() (Expr, error) {
	switch {
	case c.is(variable):
		e := identifier{
			ident: c.curr.Literal,
		}
		c.next()
		return e, nil
	case c.is(Literal):
		e := literal{
			value: c.curr.Literal,
		}
		c.next()
		return e, nil
	case c.is(Digit):
		n, err := strconv.ParseFloat(c.curr.Literal, 64)
		if err != nil {
			return nil, c.unexpected("malformed number")
		}
		c.next()
		return number{value: n}, nil
	case c.is(begGrp):
		c.next()
		expr, err := c.compileExpr(powLowest)
		if err != nil {
			return nil, err
		}
		if !c.is(endGrp) {
			return nil, c.unexpected("missing ')'")
		}
		c.next()
		return expr, nil
	case c.is(Name):
		return c.compileCall()
	default:
		return nil, c.unexpected("expression expected")
	}
}

func (c *Compiler) compileCall() (Expr, error) {
	ident := c.curr.Literal
	c.next()
	if !c.is(begGrp) {
		return nil, c.unexpected("missing '(' after function name")
	}
	c.next()
	fn := call{
		ident: ident,
	}
	for !c.done() && !c.is(endGrp) {
		arg, err := c.compileExpr(powLowest)
		if err != nil {
			return nil, err
		}
		fn.args = append(fn.args, arg)
		switch {
		case c.is(opSeq):
			c.next()
			if c.is(endGrp) {
				return nil, c.unexpected("argument expected after ','")
			}
		case c.is(endGrp):
		default:
			return nil, c.unexpected("missing ')' after arguments")
		}
	}
	if !c.is(endGrp) {
		return nil, c.unexpected("missing ')' after arguments")
	}
	c.next()
	return fn, nil
}

func (c *Compiler) startsStep() bool {
	switch c.curr.Type {
	case Name, opMul, currNode, parentNode, attrNode:
		return true
	default:
		return false
	}
}

func isKindName(name string) bool {
	switch name {
	case "node", "text", "comment", "processing-instruction":
		return true
	default:
		return false
	}
}

func (c *Compiler) unexpected(cause string) error {
	return fmt.Errorf("%w: %s at %d:%d (near %q)", ErrSyntax, cause, c.curr.Line, c.curr.Column, c.curr.String())
}

func (c *Compiler) is(kind rune) bool {
	return c.curr.Type == kind
}

func (c *Compiler) done() bool {
	return c.is(EOF)
}

func (c *Compiler) next() {
	c.curr = c.peek
	c.peek = c.scan.Scan()
}
