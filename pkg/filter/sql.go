package filter

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrUnknownField = errors.New("unknown filter field")
	ErrTypeMismatch = errors.New("filter value type mismatch")
)

// Column maps a filter field onto SQL.
type Column struct {
	// Expr is the qualified column expression, e.g. "r.date".
	Expr string
	// Join is the clause required to reach Expr through a relationship.
	Join string
	// Type is the Go type of values compared against the column.
	Type reflect.Type
}

type Columns map[string]Column

// TypeOf returns the reflect.Type of T for Column declarations.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// SQL is a compiled Spec: join clauses, a WHERE fragment and its arguments.
type SQL struct {
	Joins    []string
	Where    string
	Args     []any
	Distinct bool
	next     int
}

// Clause renders the joins and the WHERE keyword when there is a predicate.
func (q *SQL) Clause() string {
	var b strings.Builder
	for _, j := range q.Joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	if q.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(q.Where)
	}
	return b.String()
}

// NextArg is the next free placeholder number after the compiled args.
func (q *SQL) NextArg() int {
	return q.next
}

// Compile validates spec against cols and renders it with $n placeholders
// starting at argStart. Unknown fields and values whose type differs from the
// column type fail before any query is issued.
func Compile(spec Spec, cols Columns, argStart int) (*SQL, error) {
	q := &SQL{Distinct: spec.Distinct, next: argStart}
	joined := make(map[string]bool)
	parts := make([]string, 0, len(spec.Conditions))

	for _, c := range spec.Conditions {
		col, ok := cols[c.Field]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, c.Field)
		}
		if err := checkTypes(c, col.Type); err != nil {
			return nil, err
		}
		if c.ignored() {
			continue
		}
		if col.Join != "" && !joined[col.Join] {
			joined[col.Join] = true
			q.Joins = append(q.Joins, col.Join)
		}
		parts = append(parts, q.render(col.Expr, c))
	}

	q.Where = strings.Join(parts, " AND ")
	return q, nil
}

func (q *SQL) render(expr string, c Condition) string {
	switch c.Op {
	case OpEquals:
		return fmt.Sprintf("%s = %s", expr, q.arg(c.Values[0]))
	case OpNotEquals:
		return fmt.Sprintf("%s <> %s", expr, q.arg(c.Values[0]))
	case OpIn:
		return fmt.Sprintf("%s IN (%s)", expr, q.args(c.Values))
	case OpNotIn:
		return fmt.Sprintf("%s NOT IN (%s)", expr, q.args(c.Values))
	case OpSpecified:
		return expr + " IS NOT NULL"
	case OpUnspecified:
		return expr + " IS NULL"
	case OpGreaterThan:
		return fmt.Sprintf("%s > %s", expr, q.arg(c.Values[0]))
	case OpGreaterThanOrEqual:
		return fmt.Sprintf("%s >= %s", expr, q.arg(c.Values[0]))
	case OpLessThan:
		return fmt.Sprintf("%s < %s", expr, q.arg(c.Values[0]))
	case OpLessThanOrEqual:
		return fmt.Sprintf("%s <= %s", expr, q.arg(c.Values[0]))
	case OpContains:
		return fmt.Sprintf("%s LIKE %s ESCAPE '\\'", expr, q.arg(likePattern(c.Values[0])))
	case OpDoesNotContain:
		return fmt.Sprintf("%s NOT LIKE %s ESCAPE '\\'", expr, q.arg(likePattern(c.Values[0])))
	}
	return "TRUE"
}

func (q *SQL) arg(v any) string {
	q.Args = append(q.Args, v)
	placeholder := fmt.Sprintf("$%d", q.next)
	q.next++
	return placeholder
}

func (q *SQL) args(values []any) string {
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = q.arg(v)
	}
	return strings.Join(placeholders, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(v any) string {
	s, _ := v.(string)
	return "%" + likeEscaper.Replace(s) + "%"
}

func checkTypes(c Condition, want reflect.Type) error {
	if want == nil {
		return nil
	}
	for _, v := range c.Values {
		if got := reflect.TypeOf(v); got != want {
			return fmt.Errorf("%w: %s %s expects %s, got %v", ErrTypeMismatch, c.Field, c.Op, want, got)
		}
	}
	return nil
}
