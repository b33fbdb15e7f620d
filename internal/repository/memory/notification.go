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

type NotificationRepository struct {
	rows *store[model.Notification]
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{rows: newStore(
		func(n *model.Notification) *int64 { return &n.ID },
		nil,
		map[string]field[model.Notification]{
			criteria.FieldID:            func(n *model.Notification) any { return n.ID },
			criteria.FieldType:          func(n *model.Notification) any { return n.Type },
			criteria.FieldSentDate:      func(n *model.Notification) any { return deref(n.SentDate) },
			criteria.FieldIsRead:        func(n *model.Notification) any { return n.IsRead },
			criteria.FieldAppointmentID: func(n *model.Notification) any { return deref(n.AppointmentID) },
			criteria.FieldRecipientID:   func(n *model.Notification) any { return deref(n.RecipientID) },
		},
	)}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	n.CreatedAt = time.Now().UTC()
	return r.rows.insert(ctx, n)
}

func (r *NotificationRepository) Get(ctx context.Context, id int64) (*model.Notification, error) {
	n, err := r.rows.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) Update(ctx context.Context, n *model.Notification) error {
	if err := r.rows.replace(ctx, n); err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id int64) error {
	if err := r.rows.remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Notification, error) {
	return r.rows.find(ctx, spec, page)
}

func (r *NotificationRepository) Count(ctx context.Context, spec filter.Spec) (int64, error) {
	return r.rows.count(ctx, spec)
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	err := r.rows.modify(ctx, id, func(n *model.Notification) {
		n.SentDate = &sentAt
	})
	if err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return nil
}
