package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/filter"
)

var appointmentTypes = table{
	name:    "appointment_types",
	alias:   "t",
	columns: "t.id, t.name, t.description, t.color, t.is_active",
	filters: filter.Columns{
		criteria.FieldID:          {Expr: "t.id", Type: filter.TypeOf[int64]()},
		criteria.FieldName:        {Expr: "t.name", Type: filter.TypeOf[string]()},
		criteria.FieldDescription: {Expr: "t.description", Type: filter.TypeOf[string]()},
		criteria.FieldColor:       {Expr: "t.color", Type: filter.TypeOf[string]()},
		criteria.FieldIsActive:    {Expr: "t.is_active", Type: filter.TypeOf[bool]()},
	},
}

type appointmentTypeRepository struct {
	BaseRepository
}

func NewAppointmentTypeRepository(db *sqlx.DB) repository.AppointmentTypeRepository {
	return &appointmentTypeRepository{NewBaseRepository(db)}
}

func (r *appointmentTypeRepository) Create(ctx context.Context, t *model.AppointmentType) error {
	query := `
		INSERT INTO appointment_types (name, description, color, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := r.db.QueryRowxContext(ctx, query, t.Name, t.Description, t.Color, t.IsActive).Scan(&t.ID); err != nil {
		return fmt.Errorf("failed to create appointment type: %w", err)
	}
	return nil
}

func (r *appointmentTypeRepository) Get(ctx context.Context, id int64) (*model.AppointmentType, error) {
	var t model.AppointmentType
	if err := r.getByID(ctx, &t, appointmentTypes, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment type: %w", err)
	}
	return &t, nil
}

func (r *appointmentTypeRepository) Update(ctx context.Context, t *model.AppointmentType) error {
	query := `
		UPDATE appointment_types
		SET name = $1, description = $2, color = $3, is_active = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query, t.Name, t.Description, t.Color, t.IsActive, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update appointment type: %w", err)
	}
	if err := expectRows(result); err != nil {
		return fmt.Errorf("failed to update appointment type: %w", err)
	}
	return nil
}

func (r *appointmentTypeRepository) Delete(ctx context.Context, id int64) error {
	if err := r.deleteByID(ctx, appointmentTypes, id); err != nil {
		return fmt.Errorf("failed to delete appointment type: %w", err)
	}
	return nil
}

func (r *appointmentTypeRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.AppointmentType, error) {
	var out []*model.AppointmentType
	if err := r.find(ctx, &out, appointmentTypes, spec, page); err != nil {
		return nil, fmt.Errorf("failed to list appointment types: %w", err)
	}
	return out, nil
}

func (r *appointmentTypeRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	n, err := r.count(ctx, appointmentTypes, spec)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointment types: %w", err)
	}
	return n, nil
}
