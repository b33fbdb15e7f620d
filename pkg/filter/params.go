package filter

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidParam is returned for malformed filter query parameters.
var ErrInvalidParam = errors.New("invalid filter parameter")

// ParseFunc converts one query value into a filter operand.
type ParseFunc[T any] func(string) (T, error)

// ParseFilter reads <field>.equals, .notEquals, .in, .notIn and .specified.
// It returns nil when none of them is present.
func ParseFilter[T comparable](q url.Values, field string, parse ParseFunc[T]) (*Filter[T], error) {
	f := &Filter[T]{}
	if err := parseBase(q, field, parse, f); err != nil {
		return nil, err
	}
	if !f.IsSet() {
		return nil, nil
	}
	return f, nil
}

// ParseRange reads the ParseFilter operators plus the four ordering operators.
func ParseRange[T comparable](q url.Values, field string, parse ParseFunc[T]) (*RangeFilter[T], error) {
	f := &RangeFilter[T]{}
	if err := parseBase(q, field, parse, &f.Filter); err != nil {
		return nil, err
	}
	var err error
	if f.GreaterThan, err = single(q, field, "greaterThan", parse); err != nil {
		return nil, err
	}
	if f.GreaterThanOrEqual, err = single(q, field, "greaterThanOrEqual", parse); err != nil {
		return nil, err
	}
	if f.LessThan, err = single(q, field, "lessThan", parse); err != nil {
		return nil, err
	}
	if f.LessThanOrEqual, err = single(q, field, "lessThanOrEqual", parse); err != nil {
		return nil, err
	}
	if !f.IsSet() {
		return nil, nil
	}
	return f, nil
}

// ParseString reads the ParseFilter operators plus .contains and .doesNotContain.
func ParseString(q url.Values, field string) (*StringFilter, error) {
	f := &StringFilter{}
	if err := parseBase(q, field, String, &f.Filter); err != nil {
		return nil, err
	}
	var err error
	if f.Contains, err = single(q, field, "contains", String); err != nil {
		return nil, err
	}
	if f.DoesNotContain, err = single(q, field, "doesNotContain", String); err != nil {
		return nil, err
	}
	if !f.IsSet() {
		return nil, nil
	}
	return f, nil
}

func parseBase[T comparable](q url.Values, field string, parse ParseFunc[T], f *Filter[T]) error {
	var err error
	if f.Equals, err = single(q, field, "equals", parse); err != nil {
		return err
	}
	if f.NotEquals, err = single(q, field, "notEquals", parse); err != nil {
		return err
	}
	if f.In, err = list(q, field, "in", parse); err != nil {
		return err
	}
	if f.NotIn, err = list(q, field, "notIn", parse); err != nil {
		return err
	}
	if f.Specified, err = single(q, field, "specified", Bool); err != nil {
		return err
	}
	return nil
}

func single[T any](q url.Values, field, op string, parse ParseFunc[T]) (*T, error) {
	key := field + "." + op
	if !q.Has(key) {
		return nil, nil
	}
	v, err := parse(q.Get(key))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParam, key, err)
	}
	return &v, nil
}

// list accepts repeated keys as well as comma separated values.
func list[T any](q url.Values, field, op string, parse ParseFunc[T]) ([]T, error) {
	key := field + "." + op
	var out []T
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := parse(part)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParam, key, err)
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func String(s string) (string, error) {
	return s, nil
}

func Int64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func Int(s string) (int, error) {
	return strconv.Atoi(s)
}

func Bool(s string) (bool, error) {
	return strconv.ParseBool(s)
}

// Time parses RFC 3339 timestamps.
func Time(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// Enum accepts only the listed values.
func Enum[T ~string](allowed ...T) ParseFunc[T] {
	return func(s string) (T, error) {
		for _, a := range allowed {
			if string(a) == s {
				return a, nil
			}
		}
		return "", fmt.Errorf("unknown value %q", s)
	}
}
