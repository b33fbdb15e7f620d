package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/filter"
)

type BusinessRepository struct {
	rows *store[model.Business]
}

var _ repository.BusinessRepository = (*BusinessRepository)(nil)

func NewBusinessRepository() *BusinessRepository {
	return &BusinessRepository{rows: newStore(
		func(b *model.Business) *int64 { return &b.ID },
		nil,
		map[string]field[model.Business]{
			criteria.FieldID:   func(b *model.Business) any { return b.ID },
			criteria.FieldName: func(b *model.Business) any { return b.Name },
			criteria.FieldType: func(b *model.Business) any { return b.Type },
		},
	)}
}

func (r *BusinessRepository) Create(ctx context.Context, b *model.Business) error {
	stamp(&b.Base, true)
	return r.rows.insert(ctx, b)
}

func (r *BusinessRepository) Get(ctx context.Context, id int64) (*model.Business, error) {
	b, err := r.rows.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get business: %w", err)
	}
	return b, nil
}

func (r *BusinessRepository) Update(ctx context.Context, b *model.Business) error {
	stamp(&b.Base, false)
	if err := r.rows.replace(ctx, b); err != nil {
		return fmt.Errorf("failed to update business: %w", err)
	}
	return nil
}

func (r *BusinessRepository) Delete(ctx context.Context, id int64) error {
	if err := r.rows.remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete business: %w", err)
	}
	return nil
}

func (r *BusinessRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Business, error) {
	return r.rows.find(ctx, spec, page)
}

func (r *BusinessRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	return r.rows.count(ctx, spec)
}

type CustomerRepository struct {
	rows *store[model.Customer]
}

var _ repository.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{rows: newStore(
		func(c *model.Customer) *int64 { return &c.ID },
		nil,
		map[string]field[model.Customer]{
			criteria.FieldID:         func(c *model.Customer) any { return c.ID },
			criteria.FieldEmail:      func(c *model.Customer) any { return c.Email },
			criteria.FieldBusinessID: func(c *model.Customer) any { return deref(c.BusinessID) },
		},
	)}
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	stamp(&c.Base, true)
	return r.rows.insert(ctx, c)
}

func (r *CustomerRepository) Get(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := r.rows.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	all, err := r.rows.match(ctx, filter.Spec{})
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("failed to get customer by email: %w", repository.ErrNotFound)
}

func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	stamp(&c.Base, false)
	if err := r.rows.replace(ctx, c); err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	if err := r.rows.remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Customer, error) {
	return r.rows.find(ctx, spec, page)
}

func (r *CustomerRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	return r.rows.count(ctx, spec)
}

type OfferedServiceRepository struct {
	rows *store[model.OfferedService]
}

var _ repository.OfferedServiceRepository = (*OfferedServiceRepository)(nil)

func NewOfferedServiceRepository() *OfferedServiceRepository {
	return &OfferedServiceRepository{rows: newStore(
		func(s *model.OfferedService) *int64 { return &s.ID },
		nil,
		map[string]field[model.OfferedService]{
			criteria.FieldID:         func(s *model.OfferedService) any { return s.ID },
			criteria.FieldName:       func(s *model.OfferedService) any { return s.Name },
			criteria.FieldBusinessID: func(s *model.OfferedService) any { return deref(s.BusinessID) },
		},
	)}
}

func (r *OfferedServiceRepository) Create(ctx context.Context, s *model.OfferedService) error {
	stamp(&s.Base, true)
	return r.rows.insert(ctx, s)
}

func (r *OfferedServiceRepository) Get(ctx context.Context, id int64) (*model.OfferedService, error) {
	s, err := r.rows.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get offered service: %w", err)
	}
	return s, nil
}

func (r *OfferedServiceRepository) Update(ctx context.Context, s *model.OfferedService) error {
	stamp(&s.Base, false)
	if err := r.rows.replace(ctx, s); err != nil {
		return fmt.Errorf("failed to update offered service: %w", err)
	}
	return nil
}

func (r *OfferedServiceRepository) Delete(ctx context.Context, id int64) error {
	if err := r.rows.remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete offered service: %w", err)
	}
	return nil
}

func (r *OfferedServiceRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.OfferedService, error) {
	return r.rows.find(ctx, spec, page)
}

func (r *OfferedServiceRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	return r.rows.count(ctx, spec)
}

func stamp(b *model.Base, created bool) {
	now := time.Now().UTC()
	if created {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
