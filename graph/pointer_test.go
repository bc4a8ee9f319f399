package graph

import (
	"testing"

	"github.com/midbel/opath/dom"
)

func collect(it *Iter) []Pointer {
	var list []Pointer
	for it.Next() {
		list = append(list, it.Pointer())
	}
	return list
}

func TestChildrenOrder(t *testing.T) {
	root := NewRoot(map[string]any{
		"beta":  2,
		"alpha": 1,
		"gamma": 3,
	})
	list := collect(root.Children(nil, false, nil))
	if len(list) != 3 {
		t.Fatalf("got %d children, want 3", len(list))
	}
	want := []string{"alpha", "beta", "gamma"}
	for i, p := range list {
		if p.Name().Name != want[i] {
			t.Errorf("child %d: got %s, want %s", i, p.Name(), want[i])
		}
	}
}

func TestChildrenFlattenCollections(t *testing.T) {
	root := NewRoot(map[string]any{
		"items": []any{"one", "two", "three"},
	})
	list := collect(root.Children(NewNameTest(LocalName("items")), false, nil))
	if len(list) != 3 {
		t.Fatalf("got %d children, want 3", len(list))
	}
	want := []string{"one", "two", "three"}
	for i, p := range list {
		if p.Value() != want[i] {
			t.Errorf("element %d: got %v, want %s", i, p.Value(), want[i])
		}
		if p.Index() != i {
			t.Errorf("element %d: index is %d", i, p.Index())
		}
	}
}

func TestChildrenNameTest(t *testing.T) {
	root := NewRoot(map[string]any{
		"keep": 1,
		"skip": 2,
	})
	list := collect(root.Children(NewNameTest(LocalName("keep")), false, nil))
	if len(list) != 1 || list[0].Name().Name != "keep" {
		t.Fatalf("got %d children, want only keep", len(list))
	}
	list = collect(root.Children(NewNameTest(LocalName("*")), false, nil))
	if len(list) != 2 {
		t.Errorf("wildcard: got %d children, want 2", len(list))
	}
}

func TestCompareDocumentOrder(t *testing.T) {
	root := NewRoot(map[string]any{
		"a": map[string]any{"x": 1},
		"b": 2,
	})
	children := collect(root.Children(nil, false, nil))
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}
	a, b := children[0], children[1]
	if Compare(a, b) >= 0 {
		t.Errorf("a should come before b")
	}
	if Compare(b, a) <= 0 {
		t.Errorf("b should come after a")
	}
	if Compare(a, a) != 0 {
		t.Errorf("a should equal itself")
	}
	inner := collect(a.Children(nil, false, nil))
	if len(inner) != 1 {
		t.Fatalf("got %d grand children, want 1", len(inner))
	}
	// a descendant follows its ancestor and precedes the next sibling
	if Compare(a, inner[0]) >= 0 {
		t.Errorf("ancestor should come before descendant")
	}
	if Compare(inner[0], b) >= 0 {
		t.Errorf("descendant of a should come before b")
	}
}

func TestPointerEqual(t *testing.T) {
	value := map[string]any{
		"a": 1,
	}
	root := NewRoot(value)
	p1 := collect(root.Children(nil, false, nil))
	p2 := collect(root.Children(nil, false, nil))
	if len(p1) != 1 || len(p2) != 1 {
		t.Fatal("expected one child")
	}
	if !p1[0].Equal(p2[0]) {
		t.Errorf("pointers to the same entry should be equal")
	}
	other := NewRoot(map[string]any{"a": 1})
	p3 := collect(other.Children(nil, false, nil))
	if p1[0].Equal(p3[0]) {
		t.Errorf("pointers into distinct graphs should differ")
	}
}

func TestNullPointerCreate(t *testing.T) {
	value := map[string]any{}
	root := NewRoot(value)
	missing := NewNull(root, LocalName("a"), WholeCollection)
	deep := NewNull(missing, LocalName("b"), WholeCollection)
	if deep.Actual() {
		t.Fatal("speculative pointer should not be actual")
	}
	if err := deep.SetValue("stored"); err != nil {
		t.Fatalf("materialize: %s", err)
	}
	a, ok := value["a"].(map[string]any)
	if !ok {
		t.Fatalf("intermediate container not created: %v", value)
	}
	if a["b"] != "stored" {
		t.Errorf("got %v, want stored", a["b"])
	}
}

func TestNullPointerCreateElement(t *testing.T) {
	value := map[string]any{}
	root := NewRoot(value)
	missing := NewNull(root, LocalName("list"), 2)
	if err := missing.SetValue("third"); err != nil {
		t.Fatalf("materialize: %s", err)
	}
	list, ok := value["list"].([]any)
	if !ok || len(list) != 3 {
		t.Fatalf("list not grown: %v", value)
	}
	if list[2] != "third" {
		t.Errorf("got %v, want third", list[2])
	}
}

func TestStructProperties(t *testing.T) {
	type Item struct {
		Label string
		Count int
	}
	root := NewRoot(&Item{Label: "one", Count: 3})
	list := collect(root.Children(nil, false, nil))
	if len(list) != 2 {
		t.Fatalf("got %d fields, want 2", len(list))
	}
	if list[0].Name().Name != "Label" || list[0].Value() != "one" {
		t.Errorf("first field: got %s = %v", list[0].Name(), list[0].Value())
	}
	if err := list[1].SetValue(5); err != nil {
		t.Fatalf("set Count: %s", err)
	}
	if list[1].Value() != 5 {
		t.Errorf("Count: got %v, want 5", list[1].Value())
	}
}

func TestDocumentPointer(t *testing.T) {
	doc, err := dom.ParseString(`<root><a id="one">1</a><b>2</b></root>`)
	if err != nil {
		t.Fatalf("fail to parse document: %s", err)
	}
	p := NewRoot(doc)
	elements := collect(p.Children(nil, false, nil))
	if len(elements) != 1 {
		t.Fatalf("got %d children, want the root element", len(elements))
	}
	children := collect(elements[0].Children(nil, false, nil))
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}
	if children[0].Value() != "1" || children[1].Value() != "2" {
		t.Errorf("got %v, %v, want 1, 2", children[0].Value(), children[1].Value())
	}
	attrs := collect(children[0].Attributes(QName{}))
	if len(attrs) != 1 || attrs[0].Value() != "one" {
		t.Fatalf("got %d attributes, want id = one", len(attrs))
	}
	if Compare(attrs[0], children[1]) >= 0 {
		t.Errorf("attribute should precede following elements")
	}
}

type celsius struct {
	Degrees float64
}

type celsiusFactory struct{}

func (celsiusFactory) Order() int {
	return 10
}

func (celsiusFactory) Create(parent Pointer, name QName, value any) Pointer {
	c, ok := value.(celsius)
	if !ok {
		return nil
	}
	return NewPointer(parent, name, c.Degrees)
}

func TestFactoryRegistry(t *testing.T) {
	RegisterFactory(celsiusFactory{})
	root := NewRoot(celsius{Degrees: 21.5})
	if root.Value() != 21.5 {
		t.Errorf("got %v, want 21.5", root.Value())
	}
	plain := NewRoot("untouched")
	if plain.Value() != "untouched" {
		t.Errorf("got %v, want untouched", plain.Value())
	}
}

func TestMemberWholeCollection(t *testing.T) {
	root := NewRoot(map[string]any{
		"items": []any{"one", "two", "three"},
	})
	p := newEntryPointer(root, LocalName("items"))
	node, ok := p.Node().([]any)
	if !ok {
		t.Fatalf("got %T, want the whole slice", p.Node())
	}
	if len(node) != 3 {
		t.Errorf("got %d elements, want 3", len(node))
	}
	if !p.Actual() {
		t.Errorf("a member over a whole collection is actual")
	}
	if p.Len() != 3 {
		t.Errorf("got len %d, want 3", p.Len())
	}
	if got := p.At(1).Value(); got != "two" {
		t.Errorf("element 1: got %v, want two", got)
	}
}
