package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is the result of evaluating an expression: an integer or a real.
type Value struct {
	IsReal bool
	Int    int64
	Real   float64
}

func IntValue(i int64) Value { return Value{Int: i} }

func RealValue(f float64) Value { return Value{IsReal: true, Real: f} }

// Float widens the value to a real.
func (v Value) Float() float64 {
	if v.IsReal {
		return v.Real
	}
	return float64(v.Int)
}

func (v Value) IsZero() bool {
	return v.Float() == 0
}

func (v Value) String() string {
	if !v.IsReal {
		return strconv.FormatInt(v.Int, 10)
	}
	s := strconv.FormatFloat(v.Real, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

// MarshalYAML emits the plain number so bindings read as a mapping of names
// to numbers.
func (v Value) MarshalYAML() (any, error) {
	if v.IsReal {
		return v.Real, nil
	}
	return v.Int, nil
}

// Bindings maps variable names to values for a single activation record.
type Bindings map[string]Value

// Names returns the bound names in sorted order.
func (b Bindings) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b Bindings) String() string {
	var sb strings.Builder
	for _, name := range b.Names() {
		fmt.Fprintf(&sb, "%s = %s\n", name, b[name])
	}
	return sb.String()
}
