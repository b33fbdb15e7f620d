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

var notifications = table{
	name:  "notifications",
	alias: "n",
	columns: `n.id, n.type, n.message, n.sent_date, n.is_read, n.recipient_email,
		n.recipient_phone, n.appointment_id, n.recipient_id, n.created_at`,
	filters: filter.Columns{
		criteria.FieldID:            {Expr: "n.id", Type: filter.TypeOf[int64]()},
		criteria.FieldType:          {Expr: "n.type", Type: filter.TypeOf[model.NotificationType]()},
		criteria.FieldSentDate:      {Expr: "n.sent_date", Type: filter.TypeOf[time.Time]()},
		criteria.FieldIsRead:        {Expr: "n.is_read", Type: filter.TypeOf[bool]()},
		criteria.FieldAppointmentID: {Expr: "n.appointment_id", Type: filter.TypeOf[int64]()},
		criteria.FieldRecipientID:   {Expr: "n.recipient_id", Type: filter.TypeOf[int64]()},
	},
}

type notificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{NewBaseRepository(db)}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (
			type, message, sent_date, is_read, recipient_email,
			recipient_phone, appointment_id, recipient_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	n.CreatedAt = time.Now().UTC()

	err := r.db.QueryRowxContext(ctx, query,
		n.Type,
		n.Message,
		n.SentDate,
		n.IsRead,
		n.RecipientEmail,
		n.RecipientPhone,
		n.AppointmentID,
		n.RecipientID,
		n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) Get(ctx context.Context, id int64) (*model.Notification, error) {
	var n model.Notification
	if err := r.getByID(ctx, &n, notifications, id); err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &n, nil
}

func (r *notificationRepository) Update(ctx context.Context, n *model.Notification) error {
	query := `
		UPDATE notifications
		SET type = $1, message = $2, sent_date = $3, is_read = $4, recipient_email = $5,
			recipient_phone = $6, appointment_id = $7, recipient_id = $8
		WHERE id = $9
	`
	result, err := r.db.ExecContext(ctx, query,
		n.Type,
		n.Message,
		n.SentDate,
		n.IsRead,
		n.RecipientEmail,
		n.RecipientPhone,
		n.AppointmentID,
		n.RecipientID,
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	if err := expectRows(result); err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id int64) error {
	if err := r.deleteByID(ctx, notifications, id); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Notification, error) {
	var out []*model.Notification
	if err := r.find(ctx, &out, notifications, spec, page); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return out, nil
}

func (r *notificationRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	n, err := r.count(ctx, notifications, spec)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n, nil
}

func (r *notificationRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET sent_date = $1 WHERE id = $2`, sentAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	if err := expectRows(result); err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return nil
}
