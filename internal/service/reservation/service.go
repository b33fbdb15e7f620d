package reservation

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/internal/service/event"
	"github.com/afpthedev/smyapp/pkg/auth"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/filter"
	"github.com/afpthedev/smyapp/pkg/logger"
	"github.com/afpthedev/smyapp/pkg/metrics"
)

// Service manages reservations under the ownership policy.
type Service struct {
	repo      repository.ReservationRepository
	customers repository.CustomerRepository
	users     repository.UserRepository
	events    event.Emitter
	summaries *SummaryCache
	metrics   *metrics.Metrics
	logger    *logger.Logger
	now       func() time.Time
}

func NewService(
	repo repository.ReservationRepository,
	customers repository.CustomerRepository,
	users repository.UserRepository,
	events event.Emitter,
	summaries *SummaryCache,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		customers: customers,
		users:     users,
		events:    events,
		summaries: summaries,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) Create(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
	s.logger.Debug("request to save reservation", "user_id", req.UserID)

	r := &model.Reservation{
		Date:       req.Date,
		Status:     req.Status,
		Notes:      req.Notes,
		ServiceID:  req.ServiceID,
		CustomerID: req.CustomerID,
		BusinessID: req.BusinessID,
	}
	if r.Status == "" {
		r.Status = model.ReservationStatusPending
	}
	if err := s.assignOwner(ctx, r, req.UserID, auth.ActorFromContext(ctx)); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	s.written(ctx, "create", event.ReservationCreated, r)
	return r, nil
}

// Update replaces every field of the reservation. The owner and the status
// change only when the request names them.
func (s *Service) Update(ctx context.Context, id int64, req *model.ReservationRequest) (*model.Reservation, error) {
	s.logger.Debug("request to update reservation", "id", id)

	r, err := s.accessible(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.UserID != nil {
		if err := s.assignOwner(ctx, r, req.UserID, auth.ActorFromContext(ctx)); err != nil {
			return nil, err
		}
	}

	r.Date = req.Date
	if req.Status != "" {
		r.Status = req.Status
	}
	r.Notes = req.Notes
	r.ServiceID = req.ServiceID
	r.CustomerID = req.CustomerID
	r.BusinessID = req.BusinessID

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}
	s.written(ctx, "update", event.ReservationUpdated, r)
	return r, nil
}

// PartialUpdate merges the fields present in patch. The status is taken as
// given; only Approve is guarded by the state machine.
func (s *Service) PartialUpdate(ctx context.Context, id int64, patch *model.ReservationPatch) (*model.Reservation, error) {
	s.logger.Debug("request to partially update reservation", "id", id)

	r, err := s.accessible(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.UserID != nil {
		if err := s.assignOwner(ctx, r, patch.UserID, auth.ActorFromContext(ctx)); err != nil {
			return nil, err
		}
	}

	if patch.Date != nil {
		r.Date = *patch.Date
	}
	if patch.Status != nil {
		r.Status = *patch.Status
	}
	if patch.Notes != nil {
		r.Notes = patch.Notes
	}
	if patch.ServiceID != nil {
		r.ServiceID = patch.ServiceID
	}
	if patch.CustomerID != nil {
		r.CustomerID = patch.CustomerID
	}
	if patch.BusinessID != nil {
		r.BusinessID = patch.BusinessID
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}
	s.written(ctx, "partial_update", event.ReservationUpdated, r)
	return r, nil
}

// Approve confirms a pending reservation. A blank note clears the notes; no
// note leaves them as they are.
func (s *Service) Approve(ctx context.Context, id int64, notes *string) (*model.Reservation, error) {
	s.logger.Debug("request to approve reservation", "id", id)

	r, err := s.accessible(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != model.ReservationStatusPending {
		return nil, errors.InvalidStateTransition("only pending reservations can be approved")
	}

	r.Status = model.ReservationStatusConfirmed
	if notes != nil {
		if strings.TrimSpace(*notes) == "" {
			r.Notes = nil
		} else {
			n := *notes
			r.Notes = &n
		}
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to approve reservation: %w", err)
	}
	s.metrics.ReservationApprovals.Inc()
	s.written(ctx, "approve", event.ReservationApproved, r)
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("request to delete reservation", "id", id)

	r, err := s.accessible(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	s.written(ctx, "delete", event.ReservationDeleted, r)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Reservation, error) {
	s.logger.Debug("request to get reservation", "id", id)
	return s.accessible(ctx, id)
}

// List pages every reservation. Callers restrict it to admins.
func (s *Service) List(ctx context.Context, page filter.Page) ([]*model.Reservation, int64, error) {
	return s.find(ctx, filter.Spec{}, page)
}

// ListForCurrentUser scopes the query to the actor's own reservations.
func (s *Service) ListForCurrentUser(ctx context.Context, c *criteria.ReservationFilterCriteria, page filter.Page) ([]*model.Reservation, int64, error) {
	actor := auth.ActorFromContext(ctx)
	if actor == nil || actor.ID == nil {
		return nil, 0, errors.Unauthenticated("current user could not be resolved")
	}
	s.logger.Debug("request to get reservations for current user", "user_id", *actor.ID)

	spec := filter.Spec{}.And(filter.Eq(criteria.FieldUserID, *actor.ID))
	return s.find(ctx, spec.And(c.Spec().Conditions...), page)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID int64, c *criteria.ReservationFilterCriteria, page filter.Page) ([]*model.Reservation, int64, error) {
	s.logger.Debug("request to get reservations for customer", "customer_id", customerID)

	filters := c.Copy()
	if filters == nil {
		filters = &criteria.ReservationFilterCriteria{}
	}
	filters.CustomerID = &customerID
	return s.find(ctx, filters.Spec(), page)
}

// Upcoming returns the next size pending or confirmed reservations.
func (s *Service) Upcoming(ctx context.Context, size int) ([]*model.Reservation, error) {
	page := filter.Page{
		Page: 0,
		Size: max(size, 1),
		Sort: []filter.Order{{Field: criteria.FieldDate}},
	}
	rows, err := s.repo.Find(ctx, s.upcomingSpec(filter.Spec{}), page)
	if err != nil {
		return nil, fmt.Errorf("failed to find upcoming reservations: %w", err)
	}
	return rows, nil
}

func (s *Service) upcomingSpec(base filter.Spec) filter.Spec {
	return base.And(
		filter.Gt(criteria.FieldDate, s.now()),
		filter.In(criteria.FieldStatus, model.UpcomingStatuses...),
	)
}

func (s *Service) find(ctx context.Context, spec filter.Spec, page filter.Page) ([]*model.Reservation, int64, error) {
	rows, err := s.repo.Find(ctx, spec, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reservations: %w", err)
	}
	total, err := s.repo.Count(ctx, spec)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return rows, total, nil
}

// accessible loads the reservation and applies the ownership check.
func (s *Service) accessible(ctx context.Context, id int64) (*model.Reservation, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("reservation", err)
		}
		return nil, err
	}
	if err := assertAccessible(r, auth.ActorFromContext(ctx)); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) assignOwner(ctx context.Context, r *model.Reservation, requested *int64, actor *auth.Actor) error {
	owner, err := resolveOwner(requested, actor)
	if err != nil {
		return err
	}
	r.UserID = owner
	r.UserLogin = nil

	user, err := s.users.Get(ctx, *owner)
	switch {
	case err == nil:
		login := user.Login
		r.UserLogin = &login
	case !stderrors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("failed to load reservation owner: %w", err)
	}
	return nil
}

// written evicts the summaries, counts the write and queues its event.
func (s *Service) written(ctx context.Context, operation, eventType string, r *model.Reservation) {
	s.summaries.EvictAll()
	s.metrics.ReservationWrites.WithLabelValues(operation).Inc()

	if err := s.events.Emit(ctx, eventType, r.ID, r); err != nil {
		s.logger.Error(err, "failed to queue reservation event", "id", r.ID, "event_type", eventType)
	}
}
