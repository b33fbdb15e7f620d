package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/filter"
)

type AppointmentRepository struct {
	rows *store[model.Appointment]
}

var _ repository.AppointmentRepository = (*AppointmentRepository)(nil)

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{rows: newStore(
		func(a *model.Appointment) *int64 { return &a.ID },
		cloneAppointment,
		map[string]field[model.Appointment]{
			criteria.FieldID:               func(a *model.Appointment) any { return a.ID },
			criteria.FieldTitle:            func(a *model.Appointment) any { return a.Title },
			criteria.FieldAppointmentDate:  func(a *model.Appointment) any { return a.AppointmentDate },
			criteria.FieldDuration:         func(a *model.Appointment) any { return a.Duration },
			criteria.FieldStatus:           func(a *model.Appointment) any { return a.Status },
			criteria.FieldCreatedDate:      func(a *model.Appointment) any { return a.CreatedDate },
			criteria.FieldLastModifiedDate: func(a *model.Appointment) any { return a.LastModifiedDate },
			criteria.FieldCreatedByID:      func(a *model.Appointment) any { return deref(a.CreatedByID) },
			criteria.FieldTypeID:           func(a *model.Appointment) any { return deref(a.TypeID) },
			criteria.FieldParticipantsID: func(a *model.Appointment) any {
				ids := make([]any, len(a.ParticipantIDs))
				for i, id := range a.ParticipantIDs {
					ids[i] = id
				}
				return ids
			},
		},
	)}
}

func cloneAppointment(a *model.Appointment) *model.Appointment {
	c := *a
	c.ParticipantIDs = participants(a.ParticipantIDs)
	return &c
}

// participants mirrors the join table: sorted, without duplicates, never nil.
func participants(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []int64{}
	}
	return out
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	now := time.Now().UTC()
	appointment.CreatedDate = now
	appointment.LastModifiedDate = now
	return r.rows.insert(ctx, appointment)
}

func (r *AppointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	appointment, err := r.rows.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	appointment.LastModifiedDate = time.Now().UTC()
	if err := r.rows.replace(ctx, appointment); err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	if err := r.rows.remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Appointment, error) {
	return r.rows.find(ctx, spec, page)
}

func (r *AppointmentRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	return r.rows.count(ctx, spec)
}

type AppointmentTypeRepository struct {
	rows *store[model.AppointmentType]
}

var _ repository.AppointmentTypeRepository = (*AppointmentTypeRepository)(nil)

func NewAppointmentTypeRepository() *AppointmentTypeRepository {
	return &AppointmentTypeRepository{rows: newStore(
		func(t *model.AppointmentType) *int64 { return &t.ID },
		nil,
		map[string]field[model.AppointmentType]{
			criteria.FieldID:          func(t *model.AppointmentType) any { return t.ID },
			criteria.FieldName:        func(t *model.AppointmentType) any { return t.Name },
			criteria.FieldDescription: func(t *model.AppointmentType) any { return deref(t.Description) },
			criteria.FieldColor:       func(t *model.AppointmentType) any { return deref(t.Color) },
			criteria.FieldIsActive:    func(t *model.AppointmentType) any { return t.IsActive },
		},
	)}
}

func (r *AppointmentTypeRepository) Create(ctx context.Context, t *model.AppointmentType) error {
	return r.rows.insert(ctx, t)
}

func (r *AppointmentTypeRepository) Get(ctx context.Context, id int64) (*model.AppointmentType, error) {
	t, err := r.rows.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment type: %w", err)
	}
	return t, nil
}

func (r *AppointmentTypeRepository) Update(ctx context.Context, t *model.AppointmentType) error {
	if err := r.rows.replace(ctx, t); err != nil {
		return fmt.Errorf("failed to update appointment type: %w", err)
	}
	return nil
}

func (r *AppointmentTypeRepository) Delete(ctx context.Context, id int64) error {
	if err := r.rows.remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment type: %w", err)
	}
	return nil
}

func (r *AppointmentTypeRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.AppointmentType, error) {
	return r.rows.find(ctx, spec, page)
}

func (r *AppointmentTypeRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	return r.rows.count(ctx, spec)
}
