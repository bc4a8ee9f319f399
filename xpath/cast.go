package xpath

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/midbel/opath/graph"
)

// scalar reduces an expression result to one plain value: contexts and
// pointers dereference to the value of their first node.
func scalar(value any) (any, error) {
	switch value := value.(type) {
	case EvalContext:
		p, err := firstPointer(value)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, nil
		}
		return p.Value(), nil
	case graph.Pointer:
		return value.Value(), nil
	default:
		return value, nil
	}
}

// valuesOf expands an expression result for existential comparison: one
// value per node for node sets, a singleton otherwise.
func valuesOf(value any) ([]any, error) {
	switch value := value.(type) {
	case EvalContext:
		list, err := drain(value)
		if err != nil {
			return nil, err
		}
		var out []any
		for _, p := range list {
			out = append(out, p.Value())
		}
		return out, nil
	case graph.Pointer:
		return []any{value.Value()}, nil
	case []graph.Pointer:
		var out []any
		for _, p := range value {
			out = append(out, p.Value())
		}
		return out, nil
	default:
		return []any{value}, nil
	}
}

func toBool(value any) bool {
	switch value := value.(type) {
	case nil:
		return false
	case bool:
		return value
	case float64:
		return value != 0 && !math.IsNaN(value)
	case int:
		return value != 0
	case int64:
		return value != 0
	case string:
		return value != ""
	case graph.Pointer:
		return value.Actual()
	case EvalContext:
		p, err := firstPointer(value)
		return err == nil && p != nil
	default:
		return true
	}
}

func toNumber(value any) float64 {
	switch value := value.(type) {
	case nil:
		return math.NaN()
	case bool:
		if value {
			return 1
		}
		return 0
	case float64:
		return value
	case float32:
		return float64(value)
	case int:
		return float64(value)
	case int8:
		return float64(value)
	case int16:
		return float64(value)
	case int32:
		return float64(value)
	case int64:
		return float64(value)
	case uint:
		return float64(value)
	case uint8:
		return float64(value)
	case uint16:
		return float64(value)
	case uint32:
		return float64(value)
	case uint64:
		return float64(value)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return math.NaN()
		}
		return n
	case graph.Pointer:
		return toNumber(value.Value())
	case EvalContext:
		v, err := scalar(value)
		if err != nil {
			return math.NaN()
		}
		return toNumber(v)
	default:
		return math.NaN()
	}
}

func toString(value any) string {
	switch value := value.(type) {
	case nil:
		return ""
	case bool:
		if value {
			return "true"
		}
		return "false"
	case string:
		return value
	case graph.Pointer:
		return toString(value.Value())
	case EvalContext:
		v, err := scalar(value)
		if err != nil {
			return ""
		}
		return toString(v)
	default:
		if isNumber(value) {
			return formatNumber(toNumber(value))
		}
		return fmt.Sprintf("%v", value)
	}
}

func isNumber(value any) bool {
	switch value.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// asNumber reports whether value is a plain numeric result, the shape a
// positional predicate takes.
func asNumber(value any) (float64, bool) {
	switch value := value.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	}
	return 0, false
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == math.Trunc(n) && math.Abs(n) < 1e15:
		return strconv.FormatFloat(n, 'f', 0, 64)
	default:
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
}
