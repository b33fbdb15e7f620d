package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/filter"
)

type ReservationRepository struct {
	rows *store[model.Reservation]
}

var _ repository.ReservationRepository = (*ReservationRepository)(nil)

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{rows: newStore(
		func(r *model.Reservation) *int64 { return &r.ID },
		nil,
		map[string]field[model.Reservation]{
			criteria.FieldID:         func(r *model.Reservation) any { return r.ID },
			criteria.FieldDate:       func(r *model.Reservation) any { return r.Date },
			criteria.FieldStatus:     func(r *model.Reservation) any { return r.Status },
			criteria.FieldCustomerID: func(r *model.Reservation) any { return deref(r.CustomerID) },
			criteria.FieldBusinessID: func(r *model.Reservation) any { return deref(r.BusinessID) },
			criteria.FieldUserID:     func(r *model.Reservation) any { return deref(r.UserID) },
			criteria.FieldServiceID:  func(r *model.Reservation) any { return deref(r.ServiceID) },
			criteria.FieldNotes:      func(r *model.Reservation) any { return deref(r.Notes) },
		},
	)}
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	now := time.Now().UTC()
	reservation.CreatedAt = now
	reservation.UpdatedAt = now
	return r.rows.insert(ctx, reservation)
}

func (r *ReservationRepository) Get(ctx context.Context, id int64) (*model.Reservation, error) {
	reservation, err := r.rows.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return reservation, nil
}

func (r *ReservationRepository) Update(ctx context.Context, reservation *model.Reservation) error {
	reservation.UpdatedAt = time.Now().UTC()
	if err := r.rows.replace(ctx, reservation); err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	if err := r.rows.remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Reservation, error) {
	return r.rows.find(ctx, spec, page)
}

func (r *ReservationRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	return r.rows.count(ctx, spec)
}

func (r *ReservationRepository) CountByStatus(ctx context.Context, spec filter.Spec) (map[model.ReservationStatus]int64, error) {
	rows, err := r.rows.match(ctx, spec)
	if err != nil {
		return nil, err
	}
	counts := make(map[model.ReservationStatus]int64)
	for _, row := range rows {
		counts[row.Status]++
	}
	return counts, nil
}

func (r *ReservationRepository) FindFirst(ctx context.Context, spec filter.Spec, order filter.Order) (*model.Reservation, error) {
	found, err := r.rows.find(ctx, spec, filter.Page{Size: 1, Sort: []filter.Order{order}})
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0], nil
}

func (r *ReservationRepository) CountDistinct(ctx context.Context, spec filter.Spec, name string) (int64, error) {
	get, ok := r.rows.fields[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", filter.ErrUnknownField, name)
	}
	rows, err := r.rows.match(ctx, spec)
	if err != nil {
		return 0, err
	}
	seen := make(map[any]struct{})
	for _, row := range rows {
		if v := get(row); v != nil {
			seen[v] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}
