package dom

import (
	"strings"
	"testing"
)

const document = `<?xml version="1.0" encoding="UTF-8"?>
<catalog xmlns:bk="urn:books">
	<bk:book id="b1">
		<title>first</title>
	</bk:book>
	<book id="b2">
		<title>second</title>
	</book>
	<!-- trailing comment -->
</catalog>
`

func TestParse(t *testing.T) {
	doc, err := ParseString(document)
	if err != nil {
		t.Fatalf("fail to parse document: %s", err)
	}
	root := doc.Root()
	if root == nil {
		t.Fatal("document has no root element")
	}
	if root.Name().Name != "catalog" {
		t.Errorf("root: got %s, want catalog", root.Name())
	}
	var books []*Element
	for _, n := range root.Nodes {
		if el, ok := n.(*Element); ok && el.QName.Name == "book" {
			books = append(books, el)
		}
	}
	if len(books) != 2 {
		t.Fatalf("got %d book elements, want 2", len(books))
	}
	if books[0].QName.Uri != "urn:books" {
		t.Errorf("first book uri: got %q, want urn:books", books[0].QName.Uri)
	}
	if id, ok := books[0].Attribute(LocalName("id")); !ok || id != "b1" {
		t.Errorf("first book id: got %q, %t", id, ok)
	}
	if got := strings.TrimSpace(books[1].Value()); got != "second" {
		t.Errorf("second book value: got %q, want second", got)
	}
}

func TestParsePositions(t *testing.T) {
	doc, err := ParseString(`<root><a/><b/><c/></root>`)
	if err != nil {
		t.Fatalf("fail to parse document: %s", err)
	}
	root := doc.Root()
	if len(root.Nodes) != 3 {
		t.Fatalf("got %d children, want 3", len(root.Nodes))
	}
	for i, n := range root.Nodes {
		if n.Position() != i {
			t.Errorf("child %d: position is %d", i, n.Position())
		}
		if n.Parent() != Node(root) {
			t.Errorf("child %d: parent is not root", i)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []string{
		`<root>`,
		`<root></other>`,
		`plain text`,
	}
	for _, str := range tests {
		if _, err := ParseString(str); err == nil {
			t.Errorf("%s: parsing should fail", str)
		}
	}
}

func TestDocumentSingleRoot(t *testing.T) {
	doc := NewDocument()
	if err := doc.Append(NewElement(LocalName("first"))); err != nil {
		t.Fatalf("append root: %s", err)
	}
	if err := doc.Append(NewElement(LocalName("second"))); err == nil {
		t.Errorf("second root element should be rejected")
	}
}

func TestHolder(t *testing.T) {
	doc, err := ParseString(`<root><a>1</a></root>`)
	if err != nil {
		t.Fatalf("fail to parse document: %s", err)
	}
	h := HoldDocument(doc)
	got, err := h.Document()
	if err != nil || got != doc {
		t.Errorf("holder document: got %v, %v", got, err)
	}
	if h.Contents() == nil {
		t.Errorf("holder contents should not be nil")
	}
	if err := h.SetContents("not a document"); err == nil {
		t.Errorf("setting a non document should fail")
	}
}
