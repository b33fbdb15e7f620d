package reservation

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/filter"
)

// CustomerSummary aggregates one customer's reservations. Results are cached
// until the next reservation write.
func (s *Service) CustomerSummary(ctx context.Context, customerID int64) (*model.CustomerReservationSummary, error) {
	if summary, ok := s.summaries.Get(customerID); ok {
		s.metrics.SummaryCacheHits.Inc()
		return summary, nil
	}
	s.metrics.SummaryCacheMisses.Inc()
	s.logger.Debug("request reservation summary for customer", "customer_id", customerID)

	generation := s.summaries.Generation()
	summary, err := s.computeSummary(ctx, customerID)
	if err != nil {
		return nil, err
	}
	s.summaries.Put(customerID, summary, generation)
	return summary, nil
}

func (s *Service) computeSummary(ctx context.Context, customerID int64) (*model.CustomerReservationSummary, error) {
	summary := &model.CustomerReservationSummary{CustomerID: customerID}

	customer, err := s.customers.Get(ctx, customerID)
	switch {
	case err == nil:
		summary.CustomerFullName = customer.FullName()
	case !stderrors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	now := s.now()
	byCustomer := filter.Spec{}.And(filter.Eq(criteria.FieldCustomerID, customerID))
	future := byCustomer.And(filter.Gt(criteria.FieldDate, now))

	if summary.TotalReservations, err = s.repo.Count(ctx, byCustomer); err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}
	if summary.UpcomingReservations, err = s.repo.Count(ctx, future); err != nil {
		return nil, fmt.Errorf("failed to count upcoming reservations: %w", err)
	}

	last, err := s.repo.FindFirst(ctx, byCustomer, filter.Order{Field: criteria.FieldDate, Desc: true})
	if err != nil {
		return nil, fmt.Errorf("failed to find last reservation: %w", err)
	}
	if last != nil {
		summary.LastReservationDate = &last.Date
	}
	next, err := s.repo.FindFirst(ctx, future, filter.Order{Field: criteria.FieldDate})
	if err != nil {
		return nil, fmt.Errorf("failed to find next reservation: %w", err)
	}
	if next != nil {
		summary.NextReservationDate = &next.Date
	}

	counts, err := s.repo.CountByStatus(ctx, byCustomer)
	if err != nil {
		return nil, fmt.Errorf("failed to count reservations by status: %w", err)
	}
	summary.PendingReservations = counts[model.ReservationStatusPending]
	summary.ConfirmedReservations = counts[model.ReservationStatusConfirmed]
	summary.CompletedReservations = counts[model.ReservationStatusCompleted]
	summary.CancelledReservations = counts[model.ReservationStatusCancelled]
	return summary, nil
}

// Report computes filtered aggregates. It is never cached.
func (s *Service) Report(ctx context.Context, c *criteria.ReservationFilterCriteria) (*model.ReservationReport, error) {
	if c == nil {
		c = &criteria.ReservationFilterCriteria{}
	}
	spec := c.Spec()
	report := &model.ReservationReport{
		RangeStart: c.StartDate,
		RangeEnd:   c.EndDate,
	}

	var err error
	if report.TotalReservations, err = s.repo.Count(ctx, spec); err != nil {
		return nil, fmt.Errorf("failed to count reservations: %w", err)
	}
	if report.UpcomingReservations, err = s.repo.Count(ctx, s.upcomingSpec(spec)); err != nil {
		return nil, fmt.Errorf("failed to count upcoming reservations: %w", err)
	}

	// Each distinct count drops its own dimension and the status filter.
	customers := c.WithoutCustomer()
	customers.Status = nil
	if report.DistinctCustomers, err = s.repo.CountDistinct(ctx, customers.Spec(), criteria.FieldCustomerID); err != nil {
		return nil, fmt.Errorf("failed to count distinct customers: %w", err)
	}
	businesses := c.WithoutBusiness()
	businesses.Status = nil
	if report.DistinctBusinesses, err = s.repo.CountDistinct(ctx, businesses.Spec(), criteria.FieldBusinessID); err != nil {
		return nil, fmt.Errorf("failed to count distinct businesses: %w", err)
	}

	if report.StatusCounts, err = s.repo.CountByStatus(ctx, spec); err != nil {
		return nil, fmt.Errorf("failed to count reservations by status: %w", err)
	}
	return report, nil
}
