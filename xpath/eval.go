package xpath

import (
	"fmt"
	"strings"

	"github.com/midbel/opath/environ"
	"github.com/midbel/opath/graph"
)

// Context evaluates queries against one object graph. It owns the
// variables, functions and namespace prefixes the queries can use. A
// Context is not safe for concurrent use.
type Context struct {
	root       graph.Pointer
	variables  environ.Environ[any]
	builtins   environ.Environ[BuiltinFunc]
	namespaces map[string]string
	compiled   map[string]*Query

	// Lenient makes lookups on missing locations return no value
	// instead of an error.
	Lenient bool
}

func New(root any) *Context {
	return &Context{
		root:       graph.NewRoot(root),
		variables:  environ.Empty[any](),
		builtins:   DefaultBuiltins(),
		namespaces: make(map[string]string),
		compiled:   make(map[string]*Query),
	}
}

func (c *Context) Root() graph.Pointer {
	return c.root
}

func (c *Context) DefineVariable(name string, value any) {
	c.variables.Define(name, value)
}

func (c *Context) RegisterFunc(name string, fn BuiltinFunc) {
	c.builtins.Define(name, fn)
}

func (c *Context) RegisterNamespace(prefix, uri string) {
	c.namespaces[prefix] = uri
}

// Query is a compiled expression, reusable across evaluations of the
// same Context.
type Query struct {
	expr Expr
	str  string
}

func (q *Query) String() string {
	return q.str
}

// Build compiles a standalone query. Queries built here carry no
// namespace table; use Context.Compile when prefixes must resolve.
func Build(path string) (*Query, error) {
	expr, err := CompileString(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	q := Query{
		expr: expr,
		str:  path,
	}
	return &q, nil
}

func (c *Context) Compile(path string) (*Query, error) {
	if q, ok := c.compiled[path]; ok {
		return q, nil
	}
	cp := NewCompiler(strings.NewReader(path))
	cp.resolve = func(prefix string) string {
		return c.namespaces[prefix]
	}
	expr, err := cp.Compile()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	q := Query{
		expr: expr,
		str:  path,
	}
	c.compiled[path] = &q
	return &q, nil
}

// current returns an evaluation context positioned on the root pointer.
func (c *Context) current() (*RootContext, EvalContext) {
	root := newRootContext(c, c.root)
	ctx := newSetContext(root, []graph.Pointer{c.root}, 1)
	return root, ctx
}

// Value evaluates the query and returns the value of its first result.
func (c *Context) Value(path string) (any, error) {
	q, err := c.Compile(path)
	if err != nil {
		return nil, err
	}
	return c.ValueOf(q)
}

func (c *Context) ValueOf(q *Query) (any, error) {
	_, ctx := c.current()
	value, err := q.expr.Eval(ctx)
	if err != nil {
		return nil, err
	}
	switch value := value.(type) {
	case EvalContext:
		p, err := firstPointer(value)
		if err != nil {
			return nil, err
		}
		if p == nil || !p.Actual() {
			return nil, c.missing(q)
		}
		return p.Value(), nil
	case graph.Pointer:
		if !value.Actual() {
			return nil, c.missing(q)
		}
		return value.Value(), nil
	default:
		return value, nil
	}
}

// Values evaluates the query and returns the value of every result.
func (c *Context) Values(path string) ([]any, error) {
	list, err := c.Selection(path)
	if err != nil {
		return nil, err
	}
	var out []any
	for _, p := range list {
		out = append(out, p.Value())
	}
	return out, nil
}

// Selection evaluates the query and returns every matching pointer.
func (c *Context) Selection(path string) ([]graph.Pointer, error) {
	q, err := c.Compile(path)
	if err != nil {
		return nil, err
	}
	return c.SelectionOf(q)
}

func (c *Context) SelectionOf(q *Query) ([]graph.Pointer, error) {
	_, ctx := c.current()
	value, err := q.expr.Eval(ctx)
	if err != nil {
		return nil, err
	}
	switch value := value.(type) {
	case EvalContext:
		return drain(value)
	case graph.Pointer:
		return []graph.Pointer{value}, nil
	default:
		p := graph.NewPointer(nil, graph.QName{}, value)
		return []graph.Pointer{p}, nil
	}
}

// Pointer resolves the query to a single location. The result may be a
// speculative pointer for a location that does not exist yet but can be
// created by SetValue.
func (c *Context) Pointer(path string) (graph.Pointer, error) {
	q, err := c.Compile(path)
	if err != nil {
		return nil, err
	}
	return c.PointerOf(q)
}

func (c *Context) PointerOf(q *Query) (graph.Pointer, error) {
	root, ctx := c.current()
	switch e := q.expr.(type) {
	case *locationPath:
		p, err := e.pointer(root)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, c.missing(q)
		}
		return p, nil
	case *expressionPath:
		p, err := e.pointer(root)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, c.missing(q)
		}
		return p, nil
	default:
		value, err := q.expr.Eval(ctx)
		if err != nil {
			return nil, err
		}
		switch value := value.(type) {
		case graph.Pointer:
			return value, nil
		case EvalContext:
			p, err := firstPointer(value)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, c.missing(q)
			}
			return p, nil
		default:
			return graph.NewPointer(nil, graph.QName{}, value), nil
		}
	}
}

// SetValue writes a value at the location the query denotes, creating
// missing intermediate structure when the location is speculative.
func (c *Context) SetValue(path string, value any) error {
	p, err := c.Pointer(path)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return p.SetValue(value)
}

// CreatePath materializes the location the query denotes and returns
// its pointer. Missing leaves are created as empty objects.
func (c *Context) CreatePath(path string) (graph.Pointer, error) {
	return c.CreatePathAndSetValue(path, map[string]any{})
}

func (c *Context) CreatePathAndSetValue(path string, value any) (graph.Pointer, error) {
	q, err := c.Compile(path)
	if err != nil {
		return nil, err
	}
	p, err := c.PointerOf(q)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err := p.SetValue(value); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c.PointerOf(q)
}

func (c *Context) missing(q *Query) error {
	if c.Lenient {
		return nil
	}
	return fmt.Errorf("%s: %w", q.str, ErrNotFound)
}
