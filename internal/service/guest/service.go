// Package guest accepts reservations from the public booking form.
package guest

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/internal/service/event"
	"github.com/afpthedev/smyapp/internal/service/reservation"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/logger"
)

type Service struct {
	reservations repository.ReservationRepository
	customers    repository.CustomerRepository
	services     repository.OfferedServiceRepository
	businesses   repository.BusinessRepository
	events       event.Emitter
	summaries    *reservation.SummaryCache
	logger       *logger.Logger
}

func NewService(
	reservations repository.ReservationRepository,
	customers repository.CustomerRepository,
	services repository.OfferedServiceRepository,
	businesses repository.BusinessRepository,
	events event.Emitter,
	summaries *reservation.SummaryCache,
	logger *logger.Logger,
) *Service {
	return &Service{
		reservations: reservations,
		customers:    customers,
		services:     services,
		businesses:   businesses,
		events:       events,
		summaries:    summaries,
		logger:       logger,
	}
}

// Create stores a pending, unowned reservation for the guest. The customer is
// matched by email ignoring case and its contact details are refreshed.
func (s *Service) Create(ctx context.Context, req *model.GuestReservationRequest) (*model.Reservation, error) {
	s.logger.Debug("public reservation submission received", "email", req.Email)

	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}
	customer, err := s.upsertCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	r := &model.Reservation{
		Date:       req.ReservationDate,
		Status:     model.ReservationStatusPending,
		Notes:      req.Notes,
		ServiceID:  req.OfferedServiceID,
		CustomerID: &customer.ID,
		BusinessID: req.BusinessID,
	}
	if err := s.reservations.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	s.summaries.EvictAll()

	if err := s.events.Emit(ctx, event.ReservationCreated, r.ID, r); err != nil {
		s.logger.Error(err, "failed to queue reservation event", "id", r.ID)
	}
	s.logger.Info("reservation stored for guest", "id", r.ID, "customer_id", customer.ID)
	return r, nil
}

func (s *Service) checkReferences(ctx context.Context, req *model.GuestReservationRequest) error {
	fields := map[string]string{}
	if req.OfferedServiceID != nil {
		if _, err := s.services.Get(ctx, *req.OfferedServiceID); err != nil {
			if !stderrors.Is(err, repository.ErrNotFound) {
				return err
			}
			fields["offered_service_id"] = "unknown offered service"
		}
	}
	if req.BusinessID != nil {
		if _, err := s.businesses.Get(ctx, *req.BusinessID); err != nil {
			if !stderrors.Is(err, repository.ErrNotFound) {
				return err
			}
			fields["business_id"] = "unknown business"
		}
	}
	if len(fields) > 0 {
		return errors.NewValidation("invalid reservation request", fields)
	}
	return nil
}

func (s *Service) upsertCustomer(ctx context.Context, req *model.GuestReservationRequest) (*model.Customer, error) {
	customer, err := s.customers.GetByEmail(ctx, req.Email)
	exists := err == nil
	if err != nil && !stderrors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if !exists {
		customer = &model.Customer{}
	}

	phone := req.Phone
	customer.Email = strings.ToLower(req.Email)
	customer.FirstName = req.FirstName
	customer.LastName = req.LastName
	customer.Phone = &phone
	customer.Notes = req.Notes

	if exists {
		err = s.customers.Update(ctx, customer)
	} else {
		err = s.customers.Create(ctx, customer)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	return customer, nil
}
