package graph

// NodeKind is the category matched by a type test.
type NodeKind int8

const (
	KindNode NodeKind = 1 << iota
	KindText
	KindComment
	KindInstruction
)

func (k NodeKind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindInstruction:
		return "processing-instruction"
	default:
		return "<>"
	}
}

// Test is a node test applied while walking an axis: either a name test
// (with optional wildcards) or a type test.
type Test interface {
	String() string
}

type NameTest struct {
	Name QName
	Uri  string
}

func NewNameTest(name QName) NameTest {
	return NameTest{
		Name: name,
	}
}

func NewNameTestNS(name QName, uri string) NameTest {
	return NameTest{
		Name: name,
		Uri:  uri,
	}
}

// Wildcard reports whether the local part matches any name.
func (t NameTest) Wildcard() bool {
	return t.Name.Name == "*"
}

// WildcardSpace reports whether the test matches names in any namespace.
func (t NameTest) WildcardSpace() bool {
	return t.Name.Space == "*"
}

// MatchesName applies the wildcard rules to a candidate name. The
// namespace is compared by uri when the test carries a resolved uri, by
// prefix when it only carries one; a plain test matches its local name
// in any namespace.
func (t NameTest) MatchesName(name QName, uri string) bool {
	if !t.WildcardSpace() {
		if t.Uri != "" {
			if t.Uri != uri {
				return false
			}
		} else if t.Name.Space != "" && t.Name.Space != name.Space {
			return false
		}
	}
	return t.Wildcard() || t.Name.Name == name.Name
}

func (t NameTest) String() string {
	return t.Name.QualifiedName()
}

type TypeTest struct {
	Kind NodeKind
}

func NewTypeTest(kind NodeKind) TypeTest {
	return TypeTest{
		Kind: kind,
	}
}

func (t TypeTest) String() string {
	return t.Kind.String() + "()"
}
