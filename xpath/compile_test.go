package xpath

import (
	"testing"
)

func TestCompile(t *testing.T) {
	tests := []string{
		"/root",
		"/root/item",
		"//item",
		"/root/item[1]",
		"/root/item[last()]",
		"/root/item[position() > 1]",
		"item[@name = 'fred']",
		"item[@name = 'fred'][2]",
		"@name",
		"../sibling",
		"./self",
		".",
		"..",
		"*",
		"*/x/y",
		"child::item",
		"descendant::item",
		"descendant-or-self::node()",
		"ancestor::item",
		"ancestor-or-self::node()",
		"parent::node()",
		"self::node()",
		"attribute::name",
		"namespace::*",
		"following::item",
		"preceding::item",
		"following-sibling::item",
		"preceding-sibling::item",
		"text()",
		"comment()",
		"processing-instruction()",
		"processing-instruction('target')",
		"a | b | c",
		"a/b | c/d",
		"1 + 2 * 3",
		"10 div 2 - 1",
		"10 mod 3",
		"-count(item)",
		"a = b",
		"a != b",
		"a < b and b <= c",
		"a > b or b >= c",
		"'literal'",
		"\"literal\"",
		"3.14",
		".5",
		"$var",
		"$var + 1",
		"concat('a', 'b', 'c')",
		"substring('12345', 2, 3)",
		"not(a = b)",
		"(a | b)[1]",
		"items[1]/name",
		"//group/item[@lang = 'en']/following-sibling::item",
		"ns:item",
		"ns:*",
	}
	for _, str := range tests {
		expr, err := CompileString(str)
		if err != nil {
			t.Errorf("%s: fail to compile expression: %s", str, err)
			continue
		}
		if expr == nil {
			t.Errorf("%s: nil expression", str)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []string{
		"",
		"/root/",
		"a +",
		"[1]",
		"a[",
		"a[1",
		"(a",
		"a = ",
		"$",
		"foo(",
		"!=",
	}
	for _, str := range tests {
		if _, err := CompileString(str); err == nil {
			t.Errorf("%s: compilation should fail", str)
		}
	}
}

func TestCompileSimplePath(t *testing.T) {
	tests := []struct {
		Expr   string
		Simple bool
	}{
		{
			Expr:   "a/b/c",
			Simple: true,
		},
		{
			Expr:   "/a/b",
			Simple: true,
		},
		{
			Expr:   "a/b[3]",
			Simple: true,
		},
		{
			Expr:   "a[@name = 'x']/b",
			Simple: true,
		},
		{
			Expr:   "@name",
			Simple: true,
		},
		{
			Expr:   "a/*/b",
			Simple: false,
		},
		{
			Expr:   "//a",
			Simple: false,
		},
		{
			Expr:   "a/../b",
			Simple: false,
		},
		{
			Expr:   "a[b = 'x']",
			Simple: false,
		},
		{
			Expr:   "a[position() > 1]",
			Simple: false,
		},
	}
	for _, test := range tests {
		expr, err := CompileString(test.Expr)
		if err != nil {
			t.Errorf("%s: fail to compile expression: %s", test.Expr, err)
			continue
		}
		path, ok := expr.(*locationPath)
		if !ok {
			t.Errorf("%s: expected a location path, got %T", test.Expr, expr)
			continue
		}
		if got := path.IsSimple(); got != test.Simple {
			t.Errorf("%s: simple is %t, want %t", test.Expr, got, test.Simple)
		}
	}
}

func TestCompileString(t *testing.T) {
	tests := []string{
		"/root/item",
		"a | b",
		"item[1]",
		"concat('a', 'b')",
	}
	for _, str := range tests {
		expr, err := CompileString(str)
		if err != nil {
			t.Errorf("%s: fail to compile expression: %s", str, err)
			continue
		}
		if expr.String() == "" {
			t.Errorf("%s: empty string form", str)
		}
	}
}
