// Package filter composes optional per-field filters into a conjunctive query
// predicate. A Spec can be rendered to SQL or evaluated in memory.
package filter

import "time"

// Filter constrains a single field. A nil pointer or an empty slice leaves the
// operator unset; a filter with every operator unset places no constraint.
type Filter[T comparable] struct {
	Equals    *T    `json:"equals,omitempty"`
	NotEquals *T    `json:"notEquals,omitempty"`
	In        []T   `json:"in,omitempty"`
	NotIn     []T   `json:"notIn,omitempty"`
	Specified *bool `json:"specified,omitempty"`
}

// RangeFilter adds ordering operators for numeric and temporal fields.
type RangeFilter[T comparable] struct {
	Filter[T]
	GreaterThan        *T `json:"greaterThan,omitempty"`
	GreaterThanOrEqual *T `json:"greaterThanOrEqual,omitempty"`
	LessThan           *T `json:"lessThan,omitempty"`
	LessThanOrEqual    *T `json:"lessThanOrEqual,omitempty"`
}

// StringFilter adds substring operators. Matching is case-sensitive.
type StringFilter struct {
	Filter[string]
	Contains       *string `json:"contains,omitempty"`
	DoesNotContain *string `json:"doesNotContain,omitempty"`
}

type (
	LongFilter    = RangeFilter[int64]
	IntegerFilter = RangeFilter[int]
	InstantFilter = RangeFilter[time.Time]
	BooleanFilter = Filter[bool]
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func (f *Filter[T]) IsSet() bool {
	return f != nil && (f.Equals != nil ||
		f.NotEquals != nil ||
		len(f.In) > 0 ||
		len(f.NotIn) > 0 ||
		f.Specified != nil)
}

func (f *Filter[T]) Copy() *Filter[T] {
	if f == nil {
		return nil
	}
	return &Filter[T]{
		Equals:    clonePtr(f.Equals),
		NotEquals: clonePtr(f.NotEquals),
		In:        cloneSlice(f.In),
		NotIn:     cloneSlice(f.NotIn),
		Specified: clonePtr(f.Specified),
	}
}

// Equal compares filters field by field. An unset filter equals nil.
func (f *Filter[T]) Equal(o *Filter[T]) bool {
	if !f.IsSet() || !o.IsSet() {
		return f.IsSet() == o.IsSet()
	}
	return ptrEqual(f.Equals, o.Equals) &&
		ptrEqual(f.NotEquals, o.NotEquals) &&
		sliceEqual(f.In, o.In) &&
		sliceEqual(f.NotIn, o.NotIn) &&
		ptrEqual(f.Specified, o.Specified)
}

func (f *Filter[T]) conditions(field string) []Condition {
	if !f.IsSet() {
		return nil
	}
	var out []Condition
	if f.Equals != nil {
		out = append(out, Eq(field, *f.Equals))
	}
	if f.NotEquals != nil {
		out = append(out, NotEq(field, *f.NotEquals))
	}
	if len(f.In) > 0 {
		out = append(out, In(field, f.In...))
	}
	if len(f.NotIn) > 0 {
		out = append(out, NotIn(field, f.NotIn...))
	}
	if f.Specified != nil {
		if *f.Specified {
			out = append(out, NotNull(field))
		} else {
			out = append(out, IsNull(field))
		}
	}
	return out
}

func (f *RangeFilter[T]) IsSet() bool {
	return f != nil && (f.Filter.IsSet() ||
		f.GreaterThan != nil ||
		f.GreaterThanOrEqual != nil ||
		f.LessThan != nil ||
		f.LessThanOrEqual != nil)
}

func (f *RangeFilter[T]) Copy() *RangeFilter[T] {
	if f == nil {
		return nil
	}
	return &RangeFilter[T]{
		Filter:             *f.Filter.Copy(),
		GreaterThan:        clonePtr(f.GreaterThan),
		GreaterThanOrEqual: clonePtr(f.GreaterThanOrEqual),
		LessThan:           clonePtr(f.LessThan),
		LessThanOrEqual:    clonePtr(f.LessThanOrEqual),
	}
}

func (f *RangeFilter[T]) Equal(o *RangeFilter[T]) bool {
	if !f.IsSet() || !o.IsSet() {
		return f.IsSet() == o.IsSet()
	}
	return f.Filter.Equal(&o.Filter) &&
		ptrEqual(f.GreaterThan, o.GreaterThan) &&
		ptrEqual(f.GreaterThanOrEqual, o.GreaterThanOrEqual) &&
		ptrEqual(f.LessThan, o.LessThan) &&
		ptrEqual(f.LessThanOrEqual, o.LessThanOrEqual)
}

func (f *RangeFilter[T]) conditions(field string) []Condition {
	if !f.IsSet() {
		return nil
	}
	out := f.Filter.conditions(field)
	if f.GreaterThan != nil {
		out = append(out, Gt(field, *f.GreaterThan))
	}
	if f.GreaterThanOrEqual != nil {
		out = append(out, Gte(field, *f.GreaterThanOrEqual))
	}
	if f.LessThan != nil {
		out = append(out, Lt(field, *f.LessThan))
	}
	if f.LessThanOrEqual != nil {
		out = append(out, Lte(field, *f.LessThanOrEqual))
	}
	return out
}

func (f *StringFilter) IsSet() bool {
	return f != nil && (f.Filter.IsSet() || f.Contains != nil || f.DoesNotContain != nil)
}

func (f *StringFilter) Copy() *StringFilter {
	if f == nil {
		return nil
	}
	return &StringFilter{
		Filter:         *f.Filter.Copy(),
		Contains:       clonePtr(f.Contains),
		DoesNotContain: clonePtr(f.DoesNotContain),
	}
}

func (f *StringFilter) Equal(o *StringFilter) bool {
	if !f.IsSet() || !o.IsSet() {
		return f.IsSet() == o.IsSet()
	}
	return f.Filter.Equal(&o.Filter) &&
		ptrEqual(f.Contains, o.Contains) &&
		ptrEqual(f.DoesNotContain, o.DoesNotContain)
}

func (f *StringFilter) conditions(field string) []Condition {
	if !f.IsSet() {
		return nil
	}
	out := f.Filter.conditions(field)
	if f.Contains != nil {
		out = append(out, Contains(field, *f.Contains))
	}
	if f.DoesNotContain != nil {
		out = append(out, DoesNotContain(field, *f.DoesNotContain))
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sliceEqual[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
