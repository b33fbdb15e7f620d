package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/filter"
)

var payments = table{
	name:  "payments",
	alias: "p",
	columns: `p.id, p.amount, p.method, p.status, p.transaction_id, p.payment_date,
		p.reservation_id, p.customer_id, p.business_id, p.created_at, p.updated_at`,
	filters: filter.Columns{
		criteria.FieldID:            {Expr: "p.id", Type: filter.TypeOf[int64]()},
		criteria.FieldStatus:        {Expr: "p.status", Type: filter.TypeOf[model.PaymentStatus]()},
		criteria.FieldReservationID: {Expr: "p.reservation_id", Type: filter.TypeOf[int64]()},
		criteria.FieldCustomerID:    {Expr: "p.customer_id", Type: filter.TypeOf[int64]()},
		criteria.FieldBusinessID:    {Expr: "p.business_id", Type: filter.TypeOf[int64]()},
	},
}

type paymentRepository struct {
	BaseRepository
}

func NewPaymentRepository(db *sqlx.DB) repository.PaymentRepository {
	return &paymentRepository{NewBaseRepository(db)}
}

func (r *paymentRepository) Create(ctx context.Context, p *model.Payment) error {
	query := `
		INSERT INTO payments (
			amount, method, status, transaction_id, payment_date,
			reservation_id, customer_id, business_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	err := r.db.QueryRowxContext(ctx, query,
		p.Amount,
		p.Method,
		p.Status,
		p.TransactionID,
		p.PaymentDate,
		p.ReservationID,
		p.CustomerID,
		p.BusinessID,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id int64) (*model.Payment, error) {
	var p model.Payment
	if err := r.getByID(ctx, &p, payments, id); err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &p, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *model.Payment) error {
	query := `
		UPDATE payments
		SET amount = $1, method = $2, status = $3, transaction_id = $4, payment_date = $5,
			reservation_id = $6, customer_id = $7, business_id = $8, updated_at = $9
		WHERE id = $10
	`
	p.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		p.Amount,
		p.Method,
		p.Status,
		p.TransactionID,
		p.PaymentDate,
		p.ReservationID,
		p.CustomerID,
		p.BusinessID,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if err := expectRows(result); err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) Delete(ctx context.Context, id int64) error {
	if err := r.deleteByID(ctx, payments, id); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Payment, error) {
	var out []*model.Payment
	if err := r.find(ctx, &out, payments, spec, page); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return out, nil
}

func (r *paymentRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	n, err := r.count(ctx, payments, spec)
	if err != nil {
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return n, nil
}
