package xpath

import (
	"errors"
	"testing"

	"github.com/midbel/opath/dom"
)

func sample() map[string]any {
	return map[string]any{
		"name": "ROOT",
		"x": map[string]any{
			"name": "X",
		},
		"items": []any{"one", "two", "three"},
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		Path string
		Want any
	}{
		{
			Path: "name",
			Want: "ROOT",
		},
		{
			Path: "/x/name",
			Want: "X",
		},
		{
			Path: "x/unexisting|name",
			Want: "ROOT",
		},
		{
			Path: "items[1]",
			Want: "one",
		},
		{
			Path: "items[3]",
			Want: "three",
		},
		{
			Path: "items[last()]",
			Want: "three",
		},
		{
			Path: "items[position() > 1]",
			Want: "two",
		},
		{
			Path: "items[. = 'two']",
			Want: "two",
		},
		{
			Path: "count(items)",
			Want: 3.0,
		},
		{
			Path: "concat(name, '-', x/name)",
			Want: "ROOT-X",
		},
		{
			Path: "string-length(name)",
			Want: 4.0,
		},
		{
			Path: "substring('12345', 2, 3)",
			Want: "234",
		},
		{
			Path: "1 + 2 * 3",
			Want: 7.0,
		},
		{
			Path: "10 mod 3",
			Want: 1.0,
		},
		{
			Path: "items[2] = 'two'",
			Want: true,
		},
		{
			Path: "not(items[2] = 'two')",
			Want: false,
		},
		{
			Path: "name = 'ROOT' and x/name = 'X'",
			Want: true,
		},
		{
			Path: "local-name(x)",
			Want: "x",
		},
	}
	ctx := New(sample())
	for _, test := range tests {
		got, err := ctx.Value(test.Path)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", test.Path, err)
			continue
		}
		if got != test.Want {
			t.Errorf("%s: got %v (%T), want %v (%T)", test.Path, got, got, test.Want, test.Want)
		}
	}
}

func TestValueMissing(t *testing.T) {
	ctx := New(sample())
	_, err := ctx.Value("unexisting")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unexisting: got %v, want ErrNotFound", err)
	}
	ctx.Lenient = true
	got, err := ctx.Value("unexisting")
	if err != nil || got != nil {
		t.Errorf("lenient lookup: got %v, %v, want nil, nil", got, err)
	}
}

func TestSelection(t *testing.T) {
	tests := []struct {
		Path string
		Want []any
	}{
		{
			Path: "items",
			Want: []any{"one", "two", "three"},
		},
		{
			Path: "items[position() > 1]",
			Want: []any{"two", "three"},
		},
		{
			Path: "name | name",
			Want: []any{"ROOT"},
		},
		{
			Path: "x/name | name",
			Want: []any{"ROOT", "X"},
		},
		{
			Path: "//name",
			Want: []any{"ROOT", "X"},
		},
		{
			Path: "x/../name",
			Want: []any{"ROOT"},
		},
	}
	ctx := New(sample())
	for _, test := range tests {
		list, err := ctx.Selection(test.Path)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", test.Path, err)
			continue
		}
		if len(list) != len(test.Want) {
			t.Errorf("%s: got %d results, want %d", test.Path, len(list), len(test.Want))
			continue
		}
		for i := range list {
			if i < len(test.Want) && test.Want[i] != nil && list[i].Value() != test.Want[i] {
				t.Errorf("%s: result %d: got %v, want %v", test.Path, i, list[i].Value(), test.Want[i])
			}
		}
	}
}

func TestSelectionOrderStable(t *testing.T) {
	ctx := New(sample())
	first, err := ctx.Selection("//name")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for i := 0; i < 8; i++ {
		next, err := ctx.Selection("//name")
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if len(next) != len(first) {
			t.Fatalf("run %d: got %d results, want %d", i, len(next), len(first))
		}
		for j := range next {
			if !next[j].Equal(first[j]) {
				t.Errorf("run %d: result %d differs", i, j)
			}
		}
	}
}

func TestPredicateChain(t *testing.T) {
	root := map[string]any{
		"item": []any{
			map[string]any{"kind": "a", "label": "first"},
			map[string]any{"kind": "b", "label": "second"},
			map[string]any{"kind": "b", "label": "third"},
		},
	}
	ctx := New(root)
	got, err := ctx.Value("item[kind = 'b'][2]/label")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got != "third" {
		t.Errorf("got %v, want third", got)
	}
	got, err = ctx.Value("item[2][kind = 'b']/label")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got != "second" {
		t.Errorf("got %v, want second", got)
	}
}

func TestPointerMissing(t *testing.T) {
	ctx := New(map[string]any{
		"a": map[string]any{"b": 1},
	})
	p, err := ctx.Pointer("a/b/c")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if p == nil {
		t.Fatal("expected a pointer for a creatable location")
	}
	if p.Actual() {
		t.Errorf("pointer should denote a missing location")
	}
}

func TestPointerAmbiguous(t *testing.T) {
	ctx := New(map[string]any{
		"a": map[string]any{"x": 1},
		"b": map[string]any{"x": 1},
	})
	_, err := ctx.Pointer("*/x/y")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ambiguous prefix: got %v, want ErrNotFound", err)
	}
}

func TestSetValue(t *testing.T) {
	root := map[string]any{
		"a": map[string]any{"b": 1},
	}
	ctx := New(root)
	if err := ctx.SetValue("a/b", 42); err != nil {
		t.Fatalf("set a/b: %s", err)
	}
	got, err := ctx.Value("a/b")
	if err != nil || got != 42 {
		t.Errorf("a/b: got %v, %v, want 42", got, err)
	}
}

func TestSetValueCreatesPath(t *testing.T) {
	root := map[string]any{
		"a": map[string]any{"b": 1},
	}
	ctx := New(root)
	if err := ctx.SetValue("a/c/d", "deep"); err != nil {
		t.Fatalf("set a/c/d: %s", err)
	}
	got, err := ctx.Value("a/c/d")
	if err != nil {
		t.Fatalf("read back a/c/d: %s", err)
	}
	if got != "deep" {
		t.Errorf("a/c/d: got %v, want deep", got)
	}
}

func TestCreatePathAndSetValue(t *testing.T) {
	ctx := New(map[string]any{})
	p, err := ctx.CreatePathAndSetValue("list[3]", "third")
	if err != nil {
		t.Fatalf("create list[3]: %s", err)
	}
	if !p.Actual() {
		t.Errorf("created pointer should be actual")
	}
	got, err := ctx.Value("list[3]")
	if err != nil || got != "third" {
		t.Errorf("list[3]: got %v, %v, want third", got, err)
	}
	if got, err := ctx.Value("count(list)"); err != nil || got != 3.0 {
		t.Errorf("count(list): got %v, %v, want 3", got, err)
	}
}

func TestVariables(t *testing.T) {
	ctx := New(sample())
	ctx.DefineVariable("v", 10)
	got, err := ctx.Value("$v + 5")
	if err != nil || got != 15.0 {
		t.Errorf("$v + 5: got %v, %v, want 15", got, err)
	}
	got, err = ctx.Value("$v")
	if err != nil || got != 10 {
		t.Errorf("$v: got %v, %v, want 10", got, err)
	}
	if _, err := ctx.Value("$unknown"); err == nil {
		t.Errorf("unknown variable should fail")
	}
}

func TestRegisterFunc(t *testing.T) {
	ctx := New(sample())
	ctx.RegisterFunc("double", func(ec EvalContext, args []Expr) (any, error) {
		value, err := args[0].Eval(ec)
		if err != nil {
			return nil, err
		}
		return toNumber(value) * 2, nil
	})
	got, err := ctx.Value("double(21)")
	if err != nil || got != 42.0 {
		t.Errorf("double(21): got %v, %v, want 42", got, err)
	}
}

func TestStructRoot(t *testing.T) {
	type Address struct {
		City string
	}
	type Person struct {
		Name    string
		Age     int
		Address *Address
	}
	p := Person{
		Name: "ada",
		Age:  36,
		Address: &Address{
			City: "london",
		},
	}
	ctx := New(&p)
	got, err := ctx.Value("Name")
	if err != nil || got != "ada" {
		t.Errorf("Name: got %v, %v, want ada", got, err)
	}
	got, err = ctx.Value("Address/City")
	if err != nil || got != "london" {
		t.Errorf("Address/City: got %v, %v, want london", got, err)
	}
	if err := ctx.SetValue("Address/City", "paris"); err != nil {
		t.Fatalf("set Address/City: %s", err)
	}
	if p.Address.City != "paris" {
		t.Errorf("struct not updated: %s", p.Address.City)
	}
}

const document = `<?xml version="1.0" encoding="UTF-8"?>
<root>
	<item id="first">element-1</item>
	<item id="second">element-2</item>
	<group>
		<item lang="en">sub-element-1</item>
		<item lang="fr">sub-element-2</item>
	</group>
</root>
`

func TestEvalDocument(t *testing.T) {
	tests := []struct {
		Path string
		Want []string
	}{
		{
			Path: "/root/item",
			Want: []string{"element-1", "element-2"},
		},
		{
			Path: "/root/item[1]",
			Want: []string{"element-1"},
		},
		{
			Path: "/root/item[last()]",
			Want: []string{"element-2"},
		},
		{
			Path: "//item",
			Want: []string{"element-1", "element-2", "sub-element-1", "sub-element-2"},
		},
		{
			Path: "//group/item[1]",
			Want: []string{"sub-element-1"},
		},
		{
			Path: "/root/item[1] | /root/item[2]",
			Want: []string{"element-1", "element-2"},
		},
		{
			Path: "//item[@lang = 'fr']",
			Want: []string{"sub-element-2"},
		},
		{
			Path: "/root/item/@id",
			Want: []string{"first", "second"},
		},
		{
			Path: "/root/group/preceding-sibling::item",
			Want: []string{"element-2", "element-1"},
		},
		{
			Path: "/root/group/preceding-sibling::item[position() > 0][position() = 1]",
			Want: []string{"element-2"},
		},
		{
			Path: "//item[@lang = 'en']/following-sibling::item",
			Want: []string{"sub-element-2"},
		},
	}
	doc, err := dom.ParseString(document)
	if err != nil {
		t.Fatalf("fail to parse document: %s", err)
	}
	ctx := New(doc)
	for _, test := range tests {
		list, err := ctx.Selection(test.Path)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", test.Path, err)
			continue
		}
		if len(list) != len(test.Want) {
			t.Errorf("%s: got %d results, want %d", test.Path, len(list), len(test.Want))
			continue
		}
		for i := range list {
			got := toString(list[i].Value())
			if got != test.Want[i] {
				t.Errorf("%s: result %d: got %s, want %s", test.Path, i, got, test.Want[i])
			}
		}
	}
}

func TestDocumentName(t *testing.T) {
	doc, err := dom.ParseString(document)
	if err != nil {
		t.Fatalf("fail to parse document: %s", err)
	}
	ctx := New(doc)
	got, err := ctx.Value("name(/root/group)")
	if err != nil || got != "group" {
		t.Errorf("name: got %v, %v, want group", got, err)
	}
}

func TestVariablePath(t *testing.T) {
	ctx := New(sample())
	ctx.DefineVariable("m", map[string]any{
		"a": map[string]any{
			"b": "deep",
		},
		"list": []any{"v1", "v2"},
	})
	got, err := ctx.Value("$m/a/b")
	if err != nil || got != "deep" {
		t.Errorf("$m/a/b: got %v, %v, want deep", got, err)
	}
	got, err = ctx.Value("$m/list[2]")
	if err != nil || got != "v2" {
		t.Errorf("$m/list[2]: got %v, %v, want v2", got, err)
	}
	got, err = ctx.Value("count($m/list)")
	if err != nil || got != 2.0 {
		t.Errorf("count($m/list): got %v, %v, want 2", got, err)
	}
}

func TestDocumentHolder(t *testing.T) {
	doc, err := dom.ParseString(document)
	if err != nil {
		t.Fatalf("fail to parse document: %s", err)
	}
	ctx := New(dom.HoldDocument(doc))
	got, err := ctx.Value("/root/item")
	if err != nil || toString(got) != "element-1" {
		t.Errorf("/root/item: got %v, %v, want element-1", got, err)
	}
	list, err := ctx.Selection("//item[@lang]")
	if err != nil {
		t.Fatalf("//item[@lang]: unexpected error: %s", err)
	}
	if len(list) != 2 {
		t.Errorf("//item[@lang]: got %d results, want 2", len(list))
	}
}

func TestPointerFirstMatch(t *testing.T) {
	ctx := New(map[string]any{
		"a": map[string]any{"x": 1},
		"b": map[string]any{"x": 2},
	})
	p, err := ctx.Pointer("*/x")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if p.Value() != 1 {
		t.Errorf("got %v, want the first match in document order", p.Value())
	}
}

func TestSimplePathEquivalence(t *testing.T) {
	ctx := New(sample())
	paths := []string{
		"name",
		"x",
		"x/name",
		"items[1]",
		"items[2]",
		"items[3]",
	}
	for _, path := range paths {
		p, err := ctx.Pointer(path)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", path, err)
			continue
		}
		list, err := ctx.Selection(path)
		if err != nil || len(list) == 0 {
			t.Errorf("%s: no selection (%v)", path, err)
			continue
		}
		if !p.Equal(list[0]) {
			t.Errorf("%s: resolved %s, selected %s", path, p, list[0])
		}
	}
}
