package xpath

import (
	"strings"

	"github.com/midbel/opath/graph"
)

type Axis int8

const (
	AxisSelf Axis = iota
	AxisChild
	AxisParent
	AxisAttribute
	AxisNamespace
	AxisAncestor
	AxisAncestorOrSelf
	AxisDescendant
	AxisDescendantOrSelf
	AxisFollowing
	AxisFollowingSibling
	AxisPreceding
	AxisPrecedingSibling
)

var axisNames = map[string]Axis{
	"self":               AxisSelf,
	"child":              AxisChild,
	"parent":             AxisParent,
	"attribute":          AxisAttribute,
	"namespace":          AxisNamespace,
	"ancestor":           AxisAncestor,
	"ancestor-or-self":   AxisAncestorOrSelf,
	"descendant":         AxisDescendant,
	"descendant-or-self": AxisDescendantOrSelf,
	"following":          AxisFollowing,
	"following-sibling":  AxisFollowingSibling,
	"preceding":          AxisPreceding,
	"preceding-sibling":  AxisPrecedingSibling,
}

func axisByName(name string) (Axis, bool) {
	a, ok := axisNames[name]
	return a, ok
}

func (a Axis) String() string {
	for name, other := range axisNames {
		if other == a {
			return name
		}
	}
	return "unknown"
}

// Step is one compiled unit of a path: an axis, a node test and the
// predicates attached to it.
type Step struct {
	Axis       Axis
	Test       graph.Test
	Predicates []Expr
}

func (s Step) ContextDependent() bool {
	for _, p := range s.Predicates {
		if p.ContextDependent() {
			return true
		}
	}
	return false
}

func (s Step) String() string {
	var str strings.Builder
	str.WriteString(s.Axis.String())
	str.WriteString("::")
	if s.Test != nil {
		str.WriteString(s.Test.String())
	} else {
		str.WriteString("node()")
	}
	for _, p := range s.Predicates {
		str.WriteString("[")
		str.WriteString(p.String())
		str.WriteString("]")
	}
	return str.String()
}

// isSimpleStep reports whether the step can be served by the direct
// interpreter: self::node(), or a non-wildcard child or attribute step,
// with basic predicates only.
func isSimpleStep(s Step) bool {
	switch s.Axis {
	case AxisSelf:
		test, ok := s.Test.(graph.TypeTest)
		if !ok || test.Kind != graph.KindNode {
			return false
		}
		return areBasicPredicates(s.Predicates)
	case AxisChild, AxisAttribute:
		test, ok := s.Test.(graph.NameTest)
		if !ok || test.Wildcard() || test.WildcardSpace() {
			return false
		}
		return areBasicPredicates(s.Predicates)
	default:
		return false
	}
}

// areBasicPredicates accepts name equality shortcuts with a constant
// name, other context-free expressions, and at most one positional
// index among the latter.
func areBasicPredicates(predicates []Expr) bool {
	firstIndex := true
	for _, p := range predicates {
		if t, ok := p.(nameIs); ok {
			if t.value.ContextDependent() {
				return false
			}
			continue
		}
		if p.ContextDependent() {
			return false
		}
		if !firstIndex {
			return false
		}
		firstIndex = false
	}
	return true
}
