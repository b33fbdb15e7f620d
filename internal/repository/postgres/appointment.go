package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/filter"
)

var appointments = table{
	name:  "appointments",
	alias: "a",
	columns: `a.id, a.title, a.description, a.appointment_date, a.duration, a.status,
		a.created_date, a.last_modified_date, a.created_by_id, a.type_id`,
	filters: filter.Columns{
		criteria.FieldID:               {Expr: "a.id", Type: filter.TypeOf[int64]()},
		criteria.FieldTitle:            {Expr: "a.title", Type: filter.TypeOf[string]()},
		criteria.FieldAppointmentDate:  {Expr: "a.appointment_date", Type: filter.TypeOf[time.Time]()},
		criteria.FieldDuration:         {Expr: "a.duration", Type: filter.TypeOf[int]()},
		criteria.FieldStatus:           {Expr: "a.status", Type: filter.TypeOf[model.AppointmentStatus]()},
		criteria.FieldCreatedDate:      {Expr: "a.created_date", Type: filter.TypeOf[time.Time]()},
		criteria.FieldLastModifiedDate: {Expr: "a.last_modified_date", Type: filter.TypeOf[time.Time]()},
		criteria.FieldCreatedByID:      {Expr: "a.created_by_id", Type: filter.TypeOf[int64]()},
		criteria.FieldTypeID:           {Expr: "a.type_id", Type: filter.TypeOf[int64]()},
		criteria.FieldParticipantsID: {
			Expr: "ap.user_id",
			Join: "LEFT JOIN appointment_participants ap ON ap.appointment_id = a.id",
			Type: filter.TypeOf[int64](),
		},
	},
}

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{NewBaseRepository(db)}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			title, description, appointment_date, duration, status,
			created_date, last_modified_date, created_by_id, type_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	now := time.Now().UTC()
	appointment.CreatedDate = now
	appointment.LastModifiedDate = now

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, query,
			appointment.Title,
			appointment.Description,
			appointment.AppointmentDate,
			appointment.Duration,
			appointment.Status,
			appointment.CreatedDate,
			appointment.LastModifiedDate,
			appointment.CreatedByID,
			appointment.TypeID,
		).Scan(&appointment.ID)
		if err != nil {
			return err
		}
		return insertParticipants(ctx, tx, appointment.ID, appointment.ParticipantIDs)
	})
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	var appointment model.Appointment
	if err := r.getByID(ctx, &appointment, appointments, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if err := r.attachParticipants(ctx, []*model.Appointment{&appointment}); err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET title = $1, description = $2, appointment_date = $3, duration = $4, status = $5,
			last_modified_date = $6, created_by_id = $7, type_id = $8
		WHERE id = $9
	`
	appointment.LastModifiedDate = time.Now().UTC()

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			appointment.Title,
			appointment.Description,
			appointment.AppointmentDate,
			appointment.Duration,
			appointment.Status,
			appointment.LastModifiedDate,
			appointment.CreatedByID,
			appointment.TypeID,
			appointment.ID,
		)
		if err != nil {
			return err
		}
		if err := expectRows(result); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM appointment_participants WHERE appointment_id = $1`, appointment.ID); err != nil {
			return err
		}
		return insertParticipants(ctx, tx, appointment.ID, appointment.ParticipantIDs)
	})
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

// Delete removes the appointment; participant rows cascade.
func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	if err := r.deleteByID(ctx, appointments, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Appointment, error) {
	var out []*model.Appointment
	if err := r.find(ctx, &out, appointments, spec, page); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	if err := r.attachParticipants(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *appointmentRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	n, err := r.count(ctx, appointments, spec)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return n, nil
}

// attachParticipants is the second fetch phase. It fills ParticipantIDs in
// place so the order of list is untouched.
func (r *appointmentRepository) attachParticipants(ctx context.Context, list []*model.Appointment) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int64, len(list))
	byID := make(map[int64]*model.Appointment, len(list))
	for i, a := range list {
		ids[i] = a.ID
		a.ParticipantIDs = []int64{}
		byID[a.ID] = a
	}

	var rows []struct {
		AppointmentID int64 `db:"appointment_id"`
		UserID        int64 `db:"user_id"`
	}
	query := `
		SELECT appointment_id, user_id
		FROM appointment_participants
		WHERE appointment_id = ANY($1)
		ORDER BY appointment_id, user_id
	`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to load appointment participants: %w", err)
	}
	for _, row := range rows {
		a := byID[row.AppointmentID]
		a.ParticipantIDs = append(a.ParticipantIDs, row.UserID)
	}
	return nil
}

func insertParticipants(ctx context.Context, tx *sqlx.Tx, appointmentID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO appointment_participants (appointment_id, user_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
	`
	_, err := tx.ExecContext(ctx, query, appointmentID, pq.Array(userIDs))
	return err
}
