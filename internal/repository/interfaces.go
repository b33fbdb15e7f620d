package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/pkg/filter"
)

// ErrNotFound is wrapped by every repository when a row does not exist.
var ErrNotFound = errors.New("record not found")

// All repository interfaces in one file
type (
	// ReservationRepository is the storage query interface of the reservation
	// policy engine. Every query takes a composed filter.Spec.
	ReservationRepository interface {
		Create(ctx context.Context, reservation *model.Reservation) error
		Get(ctx context.Context, id int64) (*model.Reservation, error)
		Update(ctx context.Context, reservation *model.Reservation) error
		Delete(ctx context.Context, id int64) error
		Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Reservation, error)
		Count(ctx context.Context, spec filter.Spec) (int64, error)
		// CountByStatus groups the matching rows by status. Statuses without
		// rows are absent from the result.
		CountByStatus(ctx context.Context, spec filter.Spec) (map[model.ReservationStatus]int64, error)
		// FindFirst returns the first match under order, or nil when nothing matches.
		FindFirst(ctx context.Context, spec filter.Spec, order filter.Order) (*model.Reservation, error)
		// CountDistinct counts distinct non-null values of field among the matches.
		CountDistinct(ctx context.Context, spec filter.Spec, field string) (int64, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id int64) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id int64) error
		// Find pages appointments and then loads their participants. The page
		// order is kept in the result.
		Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Appointment, error)
		Count(ctx context.Context, spec filter.Spec) (int64, error)
	}

	AppointmentTypeRepository interface {
		Create(ctx context.Context, appointmentType *model.AppointmentType) error
		Get(ctx context.Context, id int64) (*model.AppointmentType, error)
		Update(ctx context.Context, appointmentType *model.AppointmentType) error
		Delete(ctx context.Context, id int64) error
		Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.AppointmentType, error)
		Count(ctx context.Context, spec filter.Spec) (int64, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		Get(ctx context.Context, id int64) (*model.Notification, error)
		Update(ctx context.Context, notification *model.Notification) error
		Delete(ctx context.Context, id int64) error
		Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Notification, error)
		Count(ctx context.Context, spec filter.Spec) (int64, error)
		MarkSent(ctx context.Context, id int64, sentAt time.Time) error
	}

	BusinessRepository interface {
		Create(ctx context.Context, business *model.Business) error
		Get(ctx context.Context, id int64) (*model.Business, error)
		Update(ctx context.Context, business *model.Business) error
		Delete(ctx context.Context, id int64) error
		Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Business, error)
		Count(ctx context.Context, spec filter.Spec) (int64, error)
	}

	CustomerRepository interface {
		Create(ctx context.Context, customer *model.Customer) error
		Get(ctx context.Context, id int64) (*model.Customer, error)
		// GetByEmail matches the address ignoring case.
		GetByEmail(ctx context.Context, email string) (*model.Customer, error)
		Update(ctx context.Context, customer *model.Customer) error
		Delete(ctx context.Context, id int64) error
		Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Customer, error)
		Count(ctx context.Context, spec filter.Spec) (int64, error)
	}

	OfferedServiceRepository interface {
		Create(ctx context.Context, service *model.OfferedService) error
		Get(ctx context.Context, id int64) (*model.OfferedService, error)
		Update(ctx context.Context, service *model.OfferedService) error
		Delete(ctx context.Context, id int64) error
		Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.OfferedService, error)
		Count(ctx context.Context, spec filter.Spec) (int64, error)
	}

	PaymentRepository interface {
		Create(ctx context.Context, payment *model.Payment) error
		Get(ctx context.Context, id int64) (*model.Payment, error)
		Update(ctx context.Context, payment *model.Payment) error
		Delete(ctx context.Context, id int64) error
		Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Payment, error)
		Count(ctx context.Context, spec filter.Spec) (int64, error)
	}

	FinanceEntryRepository interface {
		Create(ctx context.Context, entry *model.FinanceEntry) error
		Get(ctx context.Context, id int64) (*model.FinanceEntry, error)
		Update(ctx context.Context, entry *model.FinanceEntry) error
		Delete(ctx context.Context, id int64) error
		Find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.FinanceEntry, error)
		Count(ctx context.Context, spec filter.Spec) (int64, error)
	}

	FinanceDocumentRepository interface {
		Create(ctx context.Context, doc *model.FinanceDocument) error
		// Get loads metadata only; GetWithData also loads the file bytes.
		Get(ctx context.Context, id int64) (*model.FinanceDocument, error)
		GetWithData(ctx context.Context, id int64) (*model.FinanceDocument, error)
		Delete(ctx context.Context, id int64) error
	}

	UserRepository interface {
		Get(ctx context.Context, id int64) (*model.User, error)
		GetByLogin(ctx context.Context, login string) (*model.User, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		// UpdateStatus records the outcome of one publish attempt and bumps
		// the retry count on failure.
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
