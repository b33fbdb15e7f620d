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

var reservations = table{
	name:  "reservations",
	alias: "r",
	columns: `r.id, r.date, r.status, r.notes, r.service_id, r.customer_id,
		r.business_id, r.user_id, r.user_login, r.created_at, r.updated_at`,
	filters: filter.Columns{
		criteria.FieldID:         {Expr: "r.id", Type: filter.TypeOf[int64]()},
		criteria.FieldDate:       {Expr: "r.date", Type: filter.TypeOf[time.Time]()},
		criteria.FieldStatus:     {Expr: "r.status", Type: filter.TypeOf[model.ReservationStatus]()},
		criteria.FieldCustomerID: {Expr: "r.customer_id", Type: filter.TypeOf[int64]()},
		criteria.FieldBusinessID: {Expr: "r.business_id", Type: filter.TypeOf[int64]()},
		criteria.FieldUserID:     {Expr: "r.user_id", Type: filter.TypeOf[int64]()},
		criteria.FieldServiceID:  {Expr: "r.service_id", Type: filter.TypeOf[int64]()},
		criteria.FieldNotes:      {Expr: "r.notes", Type: filter.TypeOf[string]()},
	},
}

type reservationRepository struct {
	BaseRepository
}

func NewReservationRepository(db *sqlx.DB) repository.ReservationRepository {
	return &reservationRepository{NewBaseRepository(db)}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	query := `
		INSERT INTO reservations (
			date, status, notes, service_id, customer_id,
			business_id, user_id, user_login, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	now := time.Now().UTC()
	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	err := r.db.QueryRowxContext(ctx, query,
		reservation.Date,
		reservation.Status,
		reservation.Notes,
		reservation.ServiceID,
		reservation.CustomerID,
		reservation.BusinessID,
		reservation.UserID,
		reservation.UserLogin,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	).Scan(&reservation.ID)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (r *reservationRepository) Get(ctx context.Context, id int64) (*model.Reservation, error) {
	var reservation model.Reservation
	if err := r.getByID(ctx, &reservation, reservations, id); err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return &reservation, nil
}

func (r *reservationRepository) Update(ctx context.Context, reservation *model.Reservation) error {
	query := `
		UPDATE reservations
		SET date = $1, status = $2, notes = $3, service_id = $4, customer_id = $5,
			business_id = $6, user_id = $7, user_login = $8, updated_at = $9
		WHERE id = $10
	`
	reservation.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		reservation.Date,
		reservation.Status,
		reservation.Notes,
		reservation.ServiceID,
		reservation.CustomerID,
		reservation.BusinessID,
		reservation.UserID,
		reservation.UserLogin,
		reservation.UpdatedAt,
		reservation.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	if err := expectRows(result); err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id int64) error {
	if err := r.deleteByID(ctx, reservations, id); err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	return nil
}

func (r *reservationRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Reservation, error) {
	var out []*model.Reservation
	if err := r.find(ctx, &out, reservations, spec, page); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return out, nil
}

func (r *reservationRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	n, err := r.count(ctx, reservations, spec)
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return n, nil
}

func (r *reservationRepository) CountByStatus(ctx context.Context, spec filter.Spec) (map[model.ReservationStatus]int64, error) {
	q, err := filter.Compile(spec, reservations.filters, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to count reservations by status: %w", err)
	}
	query := fmt.Sprintf("SELECT r.status, COUNT(*) AS total FROM %s%s GROUP BY r.status",
		reservations.from(), q.Clause())

	var rows []struct {
		Status model.ReservationStatus `db:"status"`
		Total  int64                   `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, q.Args...); err != nil {
		return nil, fmt.Errorf("failed to count reservations by status: %w", err)
	}

	counts := make(map[model.ReservationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *reservationRepository) FindFirst(ctx context.Context, spec filter.Spec, order filter.Order) (*model.Reservation, error) {
	found, err := r.Find(ctx, spec, filter.Page{Size: 1, Sort: []filter.Order{order}})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *reservationRepository) CountDistinct(ctx context.Context, spec filter.Spec, field string) (int64, error) {
	col, ok := reservations.filters[field]
	if !ok {
		return 0, fmt.Errorf("failed to count distinct reservations: %w: %s", filter.ErrUnknownField, field)
	}
	q, err := filter.Compile(spec, reservations.filters, 1)
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct reservations: %w", err)
	}
	query := fmt.Sprintf("SELECT COUNT(DISTINCT %s) FROM %s%s", col.Expr, reservations.from(), q.Clause())

	var n int64
	if err := r.db.GetContext(ctx, &n, query, q.Args...); err != nil {
		return 0, fmt.Errorf("failed to count distinct reservations: %w", err)
	}
	return n, nil
}
