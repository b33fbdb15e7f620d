package filter

// Op is the operator of an atomic condition.
type Op int

const (
	OpEquals Op = iota + 1
	OpNotEquals
	OpIn
	OpNotIn
	OpSpecified
	OpUnspecified
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLessThan
	OpLessThanOrEqual
	OpContains
	OpDoesNotContain
)

var opNames = map[Op]string{
	OpEquals:             "equals",
	OpNotEquals:          "notEquals",
	OpIn:                 "in",
	OpNotIn:              "notIn",
	OpSpecified:          "specified",
	OpUnspecified:        "unspecified",
	OpGreaterThan:        "greaterThan",
	OpGreaterThanOrEqual: "greaterThanOrEqual",
	OpLessThan:           "lessThan",
	OpLessThanOrEqual:    "lessThanOrEqual",
	OpContains:           "contains",
	OpDoesNotContain:     "doesNotContain",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// Condition is one atomic predicate over a named field.
type Condition struct {
	Field  string
	Op     Op
	Values []any
}

// Spec is the conjunction of its conditions. The zero value matches every
// record. Distinct asks the storage layer to collapse rows multiplied by
// to-many joins; it never filters rows itself.
type Spec struct {
	Conditions []Condition
	Distinct   bool
}

// And returns a new Spec with conds appended. The receiver is not modified.
func (s Spec) And(conds ...Condition) Spec {
	out := Spec{
		Distinct:   s.Distinct,
		Conditions: make([]Condition, 0, len(s.Conditions)+len(conds)),
	}
	out.Conditions = append(out.Conditions, s.Conditions...)
	out.Conditions = append(out.Conditions, conds...)
	return out
}

// IsEmpty reports whether the spec places no constraint.
func (s Spec) IsEmpty() bool {
	return len(s.Conditions) == 0
}

// AddFilter appends the conditions of f for field. Unset filters add nothing.
func AddFilter[T comparable](s *Spec, field string, f *Filter[T]) {
	s.Conditions = append(s.Conditions, f.conditions(field)...)
}

func AddRange[T comparable](s *Spec, field string, f *RangeFilter[T]) {
	s.Conditions = append(s.Conditions, f.conditions(field)...)
}

func AddString(s *Spec, field string, f *StringFilter) {
	s.Conditions = append(s.Conditions, f.conditions(field)...)
}

func Eq(field string, v any) Condition {
	return Condition{Field: field, Op: OpEquals, Values: []any{v}}
}

func NotEq(field string, v any) Condition {
	return Condition{Field: field, Op: OpNotEquals, Values: []any{v}}
}

// In matches any of values. With no values the condition is ignored.
func In[T any](field string, values ...T) Condition {
	return Condition{Field: field, Op: OpIn, Values: toAny(values)}
}

func NotIn[T any](field string, values ...T) Condition {
	return Condition{Field: field, Op: OpNotIn, Values: toAny(values)}
}

func NotNull(field string) Condition {
	return Condition{Field: field, Op: OpSpecified}
}

func IsNull(field string) Condition {
	return Condition{Field: field, Op: OpUnspecified}
}

func Gt(field string, v any) Condition {
	return Condition{Field: field, Op: OpGreaterThan, Values: []any{v}}
}

func Gte(field string, v any) Condition {
	return Condition{Field: field, Op: OpGreaterThanOrEqual, Values: []any{v}}
}

func Lt(field string, v any) Condition {
	return Condition{Field: field, Op: OpLessThan, Values: []any{v}}
}

func Lte(field string, v any) Condition {
	return Condition{Field: field, Op: OpLessThanOrEqual, Values: []any{v}}
}

func Contains(field, sub string) Condition {
	return Condition{Field: field, Op: OpContains, Values: []any{sub}}
}

func DoesNotContain(field, sub string) Condition {
	return Condition{Field: field, Op: OpDoesNotContain, Values: []any{sub}}
}

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// ignored reports conditions that carry no constraint, such as an empty IN set.
func (c Condition) ignored() bool {
	return (c.Op == OpIn || c.Op == OpNotIn) && len(c.Values) == 0
}
