package guest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository/memory"
	"github.com/afpthedev/smyapp/internal/service/event"
	"github.com/afpthedev/smyapp/internal/service/reservation"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/filter"
	"github.com/afpthedev/smyapp/pkg/logger"
)

type fixture struct {
	svc          *Service
	reservations *memory.ReservationRepository
	customers    *memory.CustomerRepository
	businesses   *memory.BusinessRepository
	outbox       *memory.OutboxRepository
	summaries    *reservation.SummaryCache
}

func newFixture() *fixture {
	f := &fixture{
		reservations: memory.NewReservationRepository(),
		customers:    memory.NewCustomerRepository(),
		businesses:   memory.NewBusinessRepository(),
		outbox:       memory.NewOutboxRepository(),
		summaries:    reservation.NewSummaryCache(time.Minute, time.Minute),
	}
	f.svc = NewService(f.reservations, f.customers, memory.NewOfferedServiceRepository(), f.businesses,
		event.NewService(f.outbox), f.summaries, logger.Nop())
	return f
}

func request(email string) *model.GuestReservationRequest {
	return &model.GuestReservationRequest{
		FirstName:       "Jane",
		LastName:        "Roe",
		Email:           email,
		Phone:           "+90 555 000 0000",
		ReservationDate: time.Date(2026, 7, 1, 19, 0, 0, 0, time.UTC),
		Notes:           filter.Ptr("table by the window"),
	}
}

func TestCreateGuestReservation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.businesses.Create(ctx, &model.Business{Name: "Kahve", Type: model.BusinessTypeCafe}))

	req := request("Jane.Roe@Example.com")
	req.BusinessID = filter.Ptr(int64(1))
	r, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, model.ReservationStatusPending, r.Status)
	assert.Nil(t, r.UserID)
	assert.Equal(t, int64(1), *r.BusinessID)

	customer, err := f.customers.Get(ctx, *r.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "jane.roe@example.com", customer.Email)
	assert.Equal(t, "+90 555 000 0000", *customer.Phone)

	events := f.outbox.Events()
	require.Len(t, events, 1)
	assert.Equal(t, event.ReservationCreated, events[0].EventType)
}

func TestCreateReusesCustomerByEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Create(ctx, request("jane@example.com"))
	require.NoError(t, err)

	again := request("JANE@example.com")
	again.FirstName = "Janet"
	again.Notes = nil
	second, err := f.svc.Create(ctx, again)
	require.NoError(t, err)

	assert.Equal(t, *first.CustomerID, *second.CustomerID)
	n, err := f.customers.Count(ctx, filter.Spec{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	customer, err := f.customers.Get(ctx, *first.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "Janet", customer.FirstName)
	assert.Nil(t, customer.Notes)
}

func TestCreateRejectsUnknownReferences(t *testing.T) {
	f := newFixture()
	req := request("jane@example.com")
	req.OfferedServiceID = filter.Ptr(int64(3))
	req.BusinessID = filter.Ptr(int64(4))

	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "offered_service_id")
	assert.Contains(t, appErr.Fields, "business_id")

	n, err := f.reservations.Count(context.Background(), filter.Spec{})
	require.NoError(t, err)
	assert.Zero(t, n)
	customers, err := f.customers.Count(context.Background(), filter.Spec{})
	require.NoError(t, err)
	assert.Zero(t, customers, "no customer is stored for a rejected request")
}

func TestCreateEvictsSummaries(t *testing.T) {
	f := newFixture()
	f.summaries.Put(1, &model.CustomerReservationSummary{CustomerID: 1}, f.summaries.Generation())

	_, err := f.svc.Create(context.Background(), request("jane@example.com"))
	require.NoError(t, err)

	_, ok := f.summaries.Get(1)
	assert.False(t, ok)
}
