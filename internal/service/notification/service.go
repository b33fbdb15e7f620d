package notification

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/email"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/filter"
	"github.com/afpthedev/smyapp/pkg/logger"
	"github.com/afpthedev/smyapp/pkg/metrics"
)

const reminderSubject = "Appointment reminder"

type Service struct {
	repo         repository.NotificationRepository
	appointments repository.AppointmentRepository
	users        repository.UserRepository
	mailer       email.Service
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

func NewService(
	repo repository.NotificationRepository,
	appointments repository.AppointmentRepository,
	users repository.UserRepository,
	mailer email.Service,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		users:        users,
		mailer:       mailer,
		metrics:      metrics,
		logger:       logger,
	}
}

func (s *Service) Create(ctx context.Context, req *model.NotificationRequest) (*model.Notification, error) {
	s.logger.Debug("request to save notification", "type", req.Type)

	n := &model.Notification{
		Type:           req.Type,
		Message:        req.Message,
		SentDate:       req.SentDate,
		IsRead:         *req.IsRead,
		RecipientEmail: req.RecipientEmail,
		RecipientPhone: req.RecipientPhone,
		AppointmentID:  req.AppointmentID,
		RecipientID:    req.RecipientID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	s.metrics.NotificationsCreated.Inc()
	return n, nil
}

func (s *Service) Update(ctx context.Context, id int64, req *model.NotificationRequest) (*model.Notification, error) {
	s.logger.Debug("request to update notification", "id", id)

	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	n.Type = req.Type
	n.Message = req.Message
	n.SentDate = req.SentDate
	n.IsRead = *req.IsRead
	n.RecipientEmail = req.RecipientEmail
	n.RecipientPhone = req.RecipientPhone
	n.AppointmentID = req.AppointmentID
	n.RecipientID = req.RecipientID

	if err := s.repo.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}
	return n, nil
}

func (s *Service) PartialUpdate(ctx context.Context, id int64, patch *model.NotificationPatch) (*model.Notification, error) {
	s.logger.Debug("request to partially update notification", "id", id)

	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Type != nil {
		n.Type = *patch.Type
	}
	if patch.Message != nil {
		n.Message = *patch.Message
	}
	if patch.SentDate != nil {
		n.SentDate = patch.SentDate
	}
	if patch.IsRead != nil {
		n.IsRead = *patch.IsRead
	}
	if patch.RecipientEmail != nil {
		n.RecipientEmail = patch.RecipientEmail
	}
	if patch.RecipientPhone != nil {
		n.RecipientPhone = patch.RecipientPhone
	}

	if err := s.repo.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}
	return n, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("request to delete notification", "id", id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, page filter.Page) ([]*model.Notification, int64, error) {
	rows, err := s.repo.Find(ctx, filter.Spec{}, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	total, err := s.repo.Count(ctx, filter.Spec{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return rows, total, nil
}

// ScheduleReminders queues an email reminder for every participant of a
// planned or confirmed appointment starting in [now, now+window). A
// participant gets at most one reminder per appointment.
func (s *Service) ScheduleReminders(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	spec := filter.Spec{}.And(
		filter.Gte(criteria.FieldAppointmentDate, now),
		filter.Lt(criteria.FieldAppointmentDate, now.Add(window)),
		filter.In(criteria.FieldStatus, model.AppointmentStatusPlanned, model.AppointmentStatusConfirmed),
	)
	appointments, err := s.appointments.Find(ctx, spec, filter.Page{
		Sort: []filter.Order{{Field: criteria.FieldAppointmentDate}},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to find appointments to remind: %w", err)
	}

	created := 0
	for _, apt := range appointments {
		for _, userID := range apt.ParticipantIDs {
			exists, err := s.repo.Count(ctx, filter.Spec{}.And(
				filter.Eq(criteria.FieldAppointmentID, apt.ID),
				filter.Eq(criteria.FieldRecipientID, userID),
			))
			if err != nil {
				return created, fmt.Errorf("failed to check reminders: %w", err)
			}
			if exists > 0 {
				continue
			}

			n := &model.Notification{
				Type:          model.NotificationTypeEmail,
				Message:       reminderMessage(apt),
				AppointmentID: &apt.ID,
				RecipientID:   &userID,
			}
			if u, err := s.users.Get(ctx, userID); err == nil && u.Email != "" {
				n.RecipientEmail = &u.Email
			}
			if err := s.repo.Create(ctx, n); err != nil {
				return created, fmt.Errorf("failed to create reminder: %w", err)
			}
			s.metrics.NotificationsCreated.Inc()
			created++
		}
	}

	if created > 0 {
		s.logger.Info("scheduled appointment reminders", "count", created)
	}
	return created, nil
}

// DispatchPending mails up to limit unsent email notifications and stamps
// their sent date. Rows without an address or whose delivery fails stay
// pending for the next run; the run pages past them so they never hold back
// later notifications.
func (s *Service) DispatchPending(ctx context.Context, limit int) (int, error) {
	base := filter.Spec{}.And(
		filter.Eq(criteria.FieldType, model.NotificationTypeEmail),
		filter.IsNull(criteria.FieldSentDate),
	)

	sent := 0
	var after int64
	for limit <= 0 || sent < limit {
		size := 0
		if limit > 0 {
			size = limit - sent
		}
		pending, err := s.repo.Find(ctx, base.And(filter.Gt(criteria.FieldID, after)), filter.Page{
			Size: size,
			Sort: []filter.Order{{Field: criteria.FieldID}},
		})
		if err != nil {
			return sent, fmt.Errorf("failed to find pending notifications: %w", err)
		}
		if len(pending) == 0 {
			break
		}

		for _, n := range pending {
			if err := ctx.Err(); err != nil {
				return sent, err
			}
			after = n.ID
			ok, err := s.dispatch(ctx, n)
			if err != nil {
				return sent, err
			}
			if ok {
				sent++
			}
		}
		if limit <= 0 {
			break
		}
	}
	return sent, nil
}

func (s *Service) dispatch(ctx context.Context, n *model.Notification) (bool, error) {
	to := s.address(ctx, n)
	if to == "" {
		s.logger.Warn("notification has no recipient address", "id", n.ID)
		s.metrics.NotificationsDispatched.WithLabelValues("skipped").Inc()
		return false, nil
	}
	if err := s.mailer.Send(ctx, to, reminderSubject, n.Message); err != nil {
		s.logger.Error(err, "failed to dispatch notification", "id", n.ID)
		s.metrics.NotificationsDispatched.WithLabelValues("failed").Inc()
		return false, nil
	}
	if err := s.repo.MarkSent(ctx, n.ID, time.Now().UTC()); err != nil {
		return false, fmt.Errorf("failed to mark notification sent: %w", err)
	}
	s.metrics.NotificationsDispatched.WithLabelValues("sent").Inc()
	return true, nil
}

func (s *Service) address(ctx context.Context, n *model.Notification) string {
	if n.RecipientEmail != nil && *n.RecipientEmail != "" {
		return *n.RecipientEmail
	}
	if n.RecipientID == nil {
		return ""
	}
	u, err := s.users.Get(ctx, *n.RecipientID)
	if err != nil {
		return ""
	}
	return u.Email
}

func reminderMessage(apt *model.Appointment) string {
	return fmt.Sprintf("Reminder: %q starts at %s (%d min)",
		apt.Title, apt.AppointmentDate.UTC().Format("2006-01-02 15:04 MST"), apt.Duration)
}

func notFound(err error) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound("notification", err)
	}
	return err
}
