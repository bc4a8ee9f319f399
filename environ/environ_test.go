package environ

import (
	"errors"
	"testing"
)

func TestDefineResolve(t *testing.T) {
	env := Empty[int]()
	env.Define("answer", 42)
	got, err := env.Resolve("answer")
	if err != nil || got != 42 {
		t.Errorf("answer: got %d, %v, want 42", got, err)
	}
	if _, err := env.Resolve("missing"); !errors.Is(err, ErrUndefined) {
		t.Errorf("missing: got %v, want ErrUndefined", err)
	}
	env.Define("answer", 43)
	got, _ = env.Resolve("answer")
	if got != 43 {
		t.Errorf("redefine: got %d, want 43", got)
	}
}

func TestEnclosed(t *testing.T) {
	parent := Empty[string]()
	parent.Define("shared", "parent")
	parent.Define("shadowed", "parent")

	child := Enclosed[string](parent)
	child.Define("shadowed", "child")
	child.Define("own", "child")

	tests := []struct {
		Name string
		Want string
	}{
		{Name: "shared", Want: "parent"},
		{Name: "shadowed", Want: "child"},
		{Name: "own", Want: "child"},
	}
	for _, test := range tests {
		got, err := child.Resolve(test.Name)
		if err != nil || got != test.Want {
			t.Errorf("%s: got %s, %v, want %s", test.Name, got, err, test.Want)
		}
	}
	if _, err := parent.Resolve("own"); !errors.Is(err, ErrUndefined) {
		t.Errorf("child binding should not leak into parent")
	}
}

func TestNames(t *testing.T) {
	env := Empty[int]()
	env.Define("b", 2)
	env.Define("a", 1)
	names := env.Names()
	if len(names) != 2 {
		t.Fatalf("got %d names, want 2", len(names))
	}
	if env.Len() != 2 {
		t.Errorf("got len %d, want 2", env.Len())
	}
}
