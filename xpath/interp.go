package xpath

import (
	"github.com/midbel/opath/graph"
)

// interpretSimple walks simple steps directly from a pointer, without
// building an axis chain. The result is the first matching location in
// document order, or a speculative chain describing the missing
// remainder when the walk runs out of data.
func interpretSimple(root *RootContext, p graph.Pointer, steps []Step) (graph.Pointer, error) {
	return interpStep(root, p, steps, 0)
}

func interpStep(root *RootContext, p graph.Pointer, steps []Step, at int) (graph.Pointer, error) {
	if at == len(steps) {
		return p, nil
	}
	s := steps[at]
	if s.Axis == AxisSelf {
		q, err := applySelf(root, p, s)
		if err != nil {
			return nil, err
		}
		if q == nil {
			return nullChain(root, graph.NewNull(p, graph.QName{}, stepIndex(root, s)), steps[at+1:]), nil
		}
		return interpStep(root, q, steps, at+1)
	}
	candidates, err := stepCandidates(root, p, s)
	if err != nil {
		return nil, err
	}
	var best graph.Pointer
	for _, c := range candidates {
		r, err := interpStep(root, c, steps, at+1)
		if err != nil {
			return nil, err
		}
		if r == nil {
			continue
		}
		if r.Actual() {
			return r, nil
		}
		if best == nil || nullDepth(r) < nullDepth(best) {
			best = r
		}
	}
	if best != nil {
		return best, nil
	}
	np := graph.NewNull(p, stepName(s), stepIndex(root, s))
	return nullChain(root, np, steps[at+1:]), nil
}

// applySelf applies the basic predicates of a self step to the context
// pointer itself; an index predicate selects one collection element.
func applySelf(root *RootContext, p graph.Pointer, s Step) (graph.Pointer, error) {
	for _, predicate := range s.Predicates {
		if t, ok := predicate.(nameIs); ok {
			want, err := constantString(root, t.value)
			if err != nil {
				return nil, err
			}
			if !matchesNameValue(p, want) {
				return nil, nil
			}
			continue
		}
		value, err := predicate.Eval(root.Absolute())
		if err != nil {
			return nil, err
		}
		if n, ok := asNumber(value); ok {
			idx := int(n) - 1
			if idx < 0 || idx >= p.Len() {
				return nil, nil
			}
			p = p.At(idx)
			continue
		}
		if !toBool(value) {
			return nil, nil
		}
	}
	return p, nil
}

// stepCandidates resolves one child or attribute step against a
// pointer, applying name filters and the positional index.
func stepCandidates(root *RootContext, p graph.Pointer, s Step) ([]graph.Pointer, error) {
	var it *graph.Iter
	if s.Axis == AxisAttribute {
		it = p.Attributes(stepName(s))
	} else {
		it = p.Children(s.Test, false, nil)
	}
	var list []graph.Pointer
	for it.Next() {
		list = append(list, it.Pointer())
	}
	for _, predicate := range s.Predicates {
		if t, ok := predicate.(nameIs); ok {
			want, err := constantString(root, t.value)
			if err != nil {
				return nil, err
			}
			var kept []graph.Pointer
			for _, c := range list {
				if matchesNameValue(c, want) {
					kept = append(kept, c)
				}
			}
			list = kept
			continue
		}
		value, err := predicate.Eval(root.Absolute())
		if err != nil {
			return nil, err
		}
		if n, ok := asNumber(value); ok {
			idx := int(n) - 1
			if idx < 0 || idx >= len(list) {
				return nil, nil
			}
			list = list[idx : idx+1]
			continue
		}
		if !toBool(value) {
			return nil, nil
		}
	}
	return list, nil
}

func constantString(root *RootContext, e Expr) (string, error) {
	value, err := e.Eval(root.Absolute())
	if err != nil {
		return "", err
	}
	return toString(value), nil
}

// nullDepth counts the speculative levels at the end of a chain; a
// lower count means a longer existing prefix.
func nullDepth(p graph.Pointer) int {
	var n int
	for ; p != nil && !p.Actual(); p = p.Parent() {
		n++
	}
	return n
}
