package memory

import (
	"context"
	"fmt"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/filter"
)

type PaymentRepository struct {
	rows *store[model.Payment]
}

var _ repository.PaymentRepository = (*PaymentRepository)(nil)

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{rows: newStore(
		func(p *model.Payment) *int64 { return &p.ID },
		nil,
		map[string]field[model.Payment]{
			criteria.FieldID:            func(p *model.Payment) any { return p.ID },
			criteria.FieldStatus:        func(p *model.Payment) any { return p.Status },
			criteria.FieldReservationID: func(p *model.Payment) any { return deref(p.ReservationID) },
			criteria.FieldCustomerID:    func(p *model.Payment) any { return deref(p.CustomerID) },
			criteria.FieldBusinessID:    func(p *model.Payment) any { return deref(p.BusinessID) },
		},
	)}
}

func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	stamp(&p.Base, true)
	return r.rows.insert(ctx, p)
}

func (r *PaymentRepository) Get(ctx context.Context, id int64) (*model.Payment, error) {
	p, err := r.rows.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *model.Payment) error {
	stamp(&p.Base, false)
	if err := r.rows.replace(ctx, p); err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	if err := r.rows.remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Payment, error) {
	return r.rows.find(ctx, spec, page)
}

func (r *PaymentRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	return r.rows.count(ctx, spec)
}
