package graph

import (
	"sort"
)

// Factory builds pointers for application value kinds the default model
// does not recognize. Create returns nil to decline.
type Factory interface {
	Order() int
	Create(parent Pointer, name QName, value any) Pointer
}

var factories []Factory

// RegisterFactory installs a custom pointer factory. Factories are
// consulted in ascending Order before the built-in kinds.
func RegisterFactory(f Factory) {
	factories = append(factories, f)
	sort.SliceStable(factories, func(i, j int) bool {
		return factories[i].Order() < factories[j].Order()
	})
}

// NewPointer wraps value into the pointer kind that fits it.
func NewPointer(parent Pointer, name QName, value any) Pointer {
	for _, f := range factories {
		if p := f.Create(parent, name, value); p != nil {
			return p
		}
	}
	switch value := value.(type) {
	case domNode:
		return newNodePointer(parent, value)
	case Holder:
		return newContainerPointer(parent, name, value)
	default:
		return newValuePointer(parent, name, value)
	}
}

// NewRoot wraps the root object of a graph.
func NewRoot(value any) Pointer {
	return NewPointer(nil, QName{}, value)
}
