package census

import (
	"fmt"
	"regexp"

	"github.com/samber/lo"
)

// Op is a logical operator to combine filters with.
type Op string

// Possible logical operators.
const (
	And Op = "and"
	Or  Op = "or"
)

// Filter narrows search results by matching a single field.
type Filter struct {
	Field string
	Match func(string) bool
}

// Match makes a filter that does a case-insensitive regex search over the
// given field.
func Match(field, expr string) (Filter, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return Filter{}, fmt.Errorf("compile %q: %w", expr, err)
	}
	return Filter{Field: field, Match: re.MatchString}, nil
}

// MatchFunc makes a filter with a custom match function.
func MatchFunc(field string, fn func(string) bool) Filter {
	return Filter{Field: field, Match: fn}
}

type filterable interface {
	filterField(name string) (value string, ok bool)
}

func matchesFilters(m filterable, op Op, filters []Filter) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}

	evals := make([]bool, 0, len(filters))
	for _, f := range filters {
		val, ok := m.filterField(f.Field)
		if !ok {
			return false, fmt.Errorf("field %q is not filterable on %T", f.Field, m)
		}
		evals = append(evals, f.Match(val))
	}

	if op == Or {
		return lo.Contains(evals, true), nil
	}
	return !lo.Contains(evals, false), nil
}
