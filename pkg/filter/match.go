package filter

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Accessor returns the value of field on one record; ok is false when the
// value is null. To-many fields return []any and a condition holds when any
// element satisfies it, the same rows a join would produce.
type Accessor func(field string) (value any, ok bool)

// Match evaluates spec against one record. Comparisons follow SQL semantics:
// a null value satisfies only the "specified=false" condition.
func Match(spec Spec, get Accessor) (bool, error) {
	for _, c := range spec.Conditions {
		ok, err := matchCondition(c, get)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchCondition(c Condition, get Accessor) (bool, error) {
	if c.ignored() {
		return true, nil
	}

	v, present := get(c.Field)
	many, isMany := v.([]any)
	if v == nil || (isMany && len(many) == 0) {
		present = false
	}

	switch c.Op {
	case OpSpecified:
		return present, nil
	case OpUnspecified:
		return !present, nil
	}
	if !present {
		return false, nil
	}

	if !isMany {
		return matchValue(c, v)
	}
	for _, e := range many {
		ok, err := matchValue(c, e)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func matchValue(c Condition, v any) (bool, error) {
	switch c.Op {
	case OpEquals, OpNotEquals:
		n, err := compare(c, v, c.Values[0])
		if err != nil {
			return false, err
		}
		return (n == 0) == (c.Op == OpEquals), nil
	case OpIn, OpNotIn:
		found := false
		for _, want := range c.Values {
			n, err := compare(c, v, want)
			if err != nil {
				return false, err
			}
			if n == 0 {
				found = true
				break
			}
		}
		return found == (c.Op == OpIn), nil
	case OpGreaterThan, OpGreaterThanOrEqual, OpLessThan, OpLessThanOrEqual:
		n, err := compare(c, v, c.Values[0])
		if err != nil {
			return false, err
		}
		switch c.Op {
		case OpGreaterThan:
			return n > 0, nil
		case OpGreaterThanOrEqual:
			return n >= 0, nil
		case OpLessThan:
			return n < 0, nil
		default:
			return n <= 0, nil
		}
	case OpContains, OpDoesNotContain:
		s, ok := v.(string)
		sub, subOK := c.Values[0].(string)
		if !ok || !subOK {
			return false, fmt.Errorf("%w: %s %s needs string values, got %T", ErrTypeMismatch, c.Field, c.Op, v)
		}
		return strings.Contains(s, sub) == (c.Op == OpContains), nil
	}
	return false, fmt.Errorf("unsupported operator %s", c.Op)
}

// Compare orders two values of the same Go type the way Match does.
func Compare(a, b any) (int, error) {
	return compare(Condition{Op: OpEquals}, a, b)
}

// compare orders a and b, which must share one Go type.
func compare(c Condition, a, b any) (int, error) {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return 0, fmt.Errorf("%w: %s %s compares %v with %v", ErrTypeMismatch, c.Field, c.Op, ta, tb)
	}

	switch x := a.(type) {
	case time.Time:
		return x.Compare(b.(time.Time)), nil
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0, nil
		case !x:
			return -1, nil
		default:
			return 1, nil
		}
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.String:
		return strings.Compare(va.String(), vb.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmpOrdered(va.Int(), vb.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmpOrdered(va.Uint(), vb.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return cmpOrdered(va.Float(), vb.Float()), nil
	}
	return 0, fmt.Errorf("%w: %s has unsupported type %v", ErrTypeMismatch, c.Field, ta)
}

func cmpOrdered[T int64 | uint64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
