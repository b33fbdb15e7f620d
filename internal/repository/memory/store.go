// Package memory holds map-backed repositories that evaluate filter specs with
// filter.Match. They back the service and handler tests and local runs
// without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/filter"
)

// field reads one filterable value from a row. It returns nil for null.
type field[T any] func(row *T) any

// store is a table of T keyed by a BIGSERIAL-style id.
type store[T any] struct {
	mu     sync.RWMutex
	rows   map[int64]*T
	seq    int64
	id     func(row *T) *int64
	clone  func(row *T) *T
	fields map[string]field[T]
}

func newStore[T any](id func(*T) *int64, clone func(*T) *T, fields map[string]field[T]) *store[T] {
	if clone == nil {
		clone = func(row *T) *T {
			c := *row
			return &c
		}
	}
	return &store[T]{
		rows:   make(map[int64]*T),
		id:     id,
		clone:  clone,
		fields: fields,
	}
}

func (s *store[T]) insert(ctx context.Context, row *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	*s.id(row) = s.seq
	s.rows[s.seq] = s.clone(row)
	return nil
}

func (s *store[T]) get(ctx context.Context, id int64) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.clone(row), nil
}

func (s *store[T]) replace(ctx context.Context, row *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := *s.id(row)
	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	s.rows[id] = s.clone(row)
	return nil
}

// modify applies fn to the stored row under the write lock.
func (s *store[T]) modify(ctx context.Context, id int64, fn func(row *T)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(row)
	return nil
}

func (s *store[T]) remove(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *store[T]) accessor(row *T) filter.Accessor {
	return func(name string) (any, bool) {
		v := s.fields[name](row)
		return v, v != nil
	}
}

func (s *store[T]) validate(spec filter.Spec) error {
	for _, c := range spec.Conditions {
		if _, ok := s.fields[c.Field]; !ok {
			return fmt.Errorf("%w: %s", filter.ErrUnknownField, c.Field)
		}
	}
	return nil
}

// match returns the rows satisfying spec, ordered by id. Each stored row
// appears at most once whatever the Distinct flag says.
func (s *store[T]) match(ctx context.Context, spec filter.Spec) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validate(spec); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*T, 0, len(s.rows))
	for _, row := range s.rows {
		ok, err := filter.Match(spec, s.accessor(row))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s.clone(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return *s.id(out[i]) < *s.id(out[j]) })
	return out, nil
}

func (s *store[T]) find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*T, error) {
	rows, err := s.match(ctx, spec)
	if err != nil {
		return nil, err
	}
	if err := s.sort(rows, page.Sort); err != nil {
		return nil, err
	}
	if !page.Paged() {
		return rows, nil
	}
	start := min(page.Offset(), len(rows))
	end := min(start+page.Size, len(rows))
	return rows[start:end], nil
}

func (s *store[T]) count(ctx context.Context, spec filter.Spec) (int64, error) {
	rows, err := s.match(ctx, spec)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// sort orders rows the way Postgres does: nulls last ascending and first
// descending, with the id as the final tie break.
func (s *store[T]) sort(rows []*T, orders []filter.Order) error {
	for _, o := range orders {
		if _, ok := s.fields[o.Field]; !ok {
			return fmt.Errorf("%w: cannot sort by %s", filter.ErrUnknownField, o.Field)
		}
	}

	var sortErr error
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			a, b := s.fields[o.Field](rows[i]), s.fields[o.Field](rows[j])
			n, err := compareNullable(a, b)
			if err != nil {
				sortErr = err
				return false
			}
			if n == 0 {
				continue
			}
			if o.Desc {
				return n > 0
			}
			return n < 0
		}
		return *s.id(rows[i]) < *s.id(rows[j])
	})
	return sortErr
}

func compareNullable(a, b any) (int, error) {
	switch {
	case a == nil && b == nil:
		return 0, nil
	case a == nil:
		return 1, nil
	case b == nil:
		return -1, nil
	}
	return filter.Compare(a, b)
}

func deref[V any](p *V) any {
	if p == nil {
		return nil
	}
	return *p
}
