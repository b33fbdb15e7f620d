package reservation

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository/memory"
	"github.com/afpthedev/smyapp/internal/service/event"
	"github.com/afpthedev/smyapp/pkg/auth"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/filter"
	"github.com/afpthedev/smyapp/pkg/logger"
	"github.com/afpthedev/smyapp/pkg/metrics"
)

const (
	aliceID int64 = 1
	bobID   int64 = 2
	adminID int64 = 99
)

type fixture struct {
	svc       *Service
	repo      *memory.ReservationRepository
	customers *memory.CustomerRepository
	outbox    *memory.OutboxRepository
	metrics   *metrics.Metrics
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:      memory.NewReservationRepository(),
		customers: memory.NewCustomerRepository(),
		outbox:    memory.NewOutboxRepository(),
		metrics:   metrics.New("test", prometheus.NewRegistry()),
		now:       time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	users := memory.NewUserRepository(
		&model.User{Base: model.Base{ID: aliceID}, Login: "alice"},
		&model.User{Base: model.Base{ID: bobID}, Login: "bob"},
		&model.User{Base: model.Base{ID: adminID}, Login: "admin"},
	)
	f.svc = NewService(f.repo, f.customers, users, event.NewService(f.outbox),
		NewSummaryCache(time.Minute, time.Minute), f.metrics, logger.Nop())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func as(id int64) context.Context {
	return auth.WithActor(context.Background(), &auth.Actor{ID: &id, Login: "user"})
}

func asAdmin() context.Context {
	id := adminID
	return auth.WithActor(context.Background(), &auth.Actor{ID: &id, Login: "admin", Authorities: []string{auth.AuthorityAdmin}})
}

func (f *fixture) seed(t *testing.T, r model.Reservation) *model.Reservation {
	t.Helper()
	require.NoError(t, f.repo.Create(context.Background(), &r))
	return &r
}

func TestCreateAssignsCurrentUser(t *testing.T) {
	f := newFixture(t)

	r, err := f.svc.Create(as(aliceID), &model.ReservationRequest{Date: f.now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, aliceID, *r.UserID)
	assert.Equal(t, "alice", *r.UserLogin)
	assert.Equal(t, model.ReservationStatusPending, r.Status)

	events := f.outbox.Events()
	require.Len(t, events, 1)
	assert.Equal(t, event.ReservationCreated, events[0].EventType)
	assert.Equal(t, r.ID, events[0].AggregateID)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ReservationWrites.WithLabelValues("create")))
}

func TestCreateOwnerResolution(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), &model.ReservationRequest{Date: f.now})
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))

	_, err = f.svc.Create(as(aliceID), &model.ReservationRequest{Date: f.now, UserID: filter.Ptr(bobID)})
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	r, err := f.svc.Create(as(aliceID), &model.ReservationRequest{Date: f.now, UserID: filter.Ptr(aliceID)})
	require.NoError(t, err)
	assert.Equal(t, aliceID, *r.UserID)

	r, err = f.svc.Create(asAdmin(), &model.ReservationRequest{Date: f.now, UserID: filter.Ptr(bobID), Status: model.ReservationStatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, bobID, *r.UserID)
	assert.Equal(t, "bob", *r.UserLogin)
	assert.Equal(t, model.ReservationStatusConfirmed, r.Status)
}

func TestUnknownOwnerHasNoLogin(t *testing.T) {
	f := newFixture(t)

	r, err := f.svc.Create(asAdmin(), &model.ReservationRequest{Date: f.now, UserID: filter.Ptr(int64(500))})
	require.NoError(t, err)
	assert.Equal(t, int64(500), *r.UserID)
	assert.Nil(t, r.UserLogin)
}

func TestNonOwnerIsDeniedRegardlessOfStatus(t *testing.T) {
	f := newFixture(t)

	for _, status := range model.ReservationStatuses {
		r := f.seed(t, model.Reservation{Status: status, UserID: filter.Ptr(aliceID)})

		_, err := f.svc.Approve(as(bobID), r.ID, nil)
		assert.True(t, errors.Is(err, errors.ErrForbidden), status)

		err = f.svc.Delete(as(bobID), r.ID)
		assert.True(t, errors.Is(err, errors.ErrForbidden), status)

		_, err = f.svc.Get(as(bobID), r.ID)
		assert.True(t, errors.Is(err, errors.ErrForbidden), status)
	}

	unowned := f.seed(t, model.Reservation{Status: model.ReservationStatusPending})
	_, err := f.svc.Get(as(aliceID), unowned.ID)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
	_, err = f.svc.Get(context.Background(), unowned.ID)
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	got, err := f.svc.Get(asAdmin(), unowned.ID)
	require.NoError(t, err)
	assert.Equal(t, unowned.ID, got.ID)
}

func TestMissingReservationIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(asAdmin(), 404)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	_, err = f.svc.Approve(as(aliceID), 404, nil)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.True(t, errors.Is(f.svc.Delete(asAdmin(), 404), errors.ErrNotFound))
	_, err = f.svc.Update(asAdmin(), 404, &model.ReservationRequest{})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestApproveOnlyFromPending(t *testing.T) {
	f := newFixture(t)

	for _, status := range []model.ReservationStatus{
		model.ReservationStatusConfirmed,
		model.ReservationStatusCompleted,
		model.ReservationStatusCancelled,
	} {
		r := f.seed(t, model.Reservation{Status: status, UserID: filter.Ptr(aliceID)})
		_, err := f.svc.Approve(as(aliceID), r.ID, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrConflict), status)
		appErr, _ := errors.As(err)
		assert.Equal(t, "only pending reservations can be approved", appErr.Message)
	}

	r := f.seed(t, model.Reservation{Status: model.ReservationStatusPending, UserID: filter.Ptr(aliceID)})
	approved, err := f.svc.Approve(as(aliceID), r.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusConfirmed, approved.Status)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ReservationApprovals))
}

func TestApproveNotes(t *testing.T) {
	f := newFixture(t)
	ctx := asAdmin()

	keep := f.seed(t, model.Reservation{Status: model.ReservationStatusPending, Notes: filter.Ptr("window seat")})
	got, err := f.svc.Approve(ctx, keep.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "window seat", *got.Notes)

	blank := f.seed(t, model.Reservation{Status: model.ReservationStatusPending, Notes: filter.Ptr("window seat")})
	got, err = f.svc.Approve(ctx, blank.ID, filter.Ptr("   "))
	require.NoError(t, err)
	assert.Nil(t, got.Notes)

	replace := f.seed(t, model.Reservation{Status: model.ReservationStatusPending})
	got, err = f.svc.Approve(ctx, replace.ID, filter.Ptr("bring ID"))
	require.NoError(t, err)
	assert.Equal(t, "bring ID", *got.Notes)

	stored, err := f.repo.Get(context.Background(), replace.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusConfirmed, stored.Status)
}

func TestGenericUpdateBypassesStateMachine(t *testing.T) {
	f := newFixture(t)
	r := f.seed(t, model.Reservation{Status: model.ReservationStatusCancelled, UserID: filter.Ptr(aliceID)})

	got, err := f.svc.Update(as(aliceID), r.ID, &model.ReservationRequest{Date: f.now, Status: model.ReservationStatusPending})
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusPending, got.Status)
	assert.Equal(t, aliceID, *got.UserID, "owner is kept when the request names none")

	done := model.ReservationStatusCompleted
	got, err = f.svc.PartialUpdate(as(aliceID), r.ID, &model.ReservationPatch{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusCompleted, got.Status)
	assert.Equal(t, f.now, got.Date, "absent fields keep their values")
}

func TestUpdateKeepsStatusWhenOmitted(t *testing.T) {
	f := newFixture(t)
	r := f.seed(t, model.Reservation{Status: model.ReservationStatusConfirmed, UserID: filter.Ptr(aliceID)})

	got, err := f.svc.Update(as(aliceID), r.ID, &model.ReservationRequest{Date: f.now.Add(48 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusConfirmed, got.Status)

	stored, err := f.svc.Get(as(aliceID), r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusConfirmed, stored.Status)
	assert.Equal(t, f.now.Add(48*time.Hour), stored.Date)
}

func TestUpdateCannotHandOverToAnotherUser(t *testing.T) {
	f := newFixture(t)
	r := f.seed(t, model.Reservation{Status: model.ReservationStatusPending, UserID: filter.Ptr(aliceID)})

	_, err := f.svc.PartialUpdate(as(aliceID), r.ID, &model.ReservationPatch{UserID: filter.Ptr(bobID)})
	assert.True(t, errors.Is(err, errors.ErrForbidden))

	got, err := f.svc.PartialUpdate(asAdmin(), r.ID, &model.ReservationPatch{UserID: filter.Ptr(bobID)})
	require.NoError(t, err)
	assert.Equal(t, bobID, *got.UserID)
	assert.Equal(t, "bob", *got.UserLogin)
}

func TestUpcomingIncludesPendingAndConfirmed(t *testing.T) {
	f := newFixture(t)
	ctx := as(aliceID)

	created, err := f.svc.Create(ctx, &model.ReservationRequest{
		Date:   f.now.Add(24 * time.Hour),
		Status: model.ReservationStatusPending,
	})
	require.NoError(t, err)
	f.seed(t, model.Reservation{Date: f.now.Add(2 * time.Hour), Status: model.ReservationStatusCancelled})
	f.seed(t, model.Reservation{Date: f.now.Add(-time.Hour), Status: model.ReservationStatusPending})
	sooner := f.seed(t, model.Reservation{Date: f.now.Add(time.Hour), Status: model.ReservationStatusConfirmed})

	upcoming, err := f.svc.Upcoming(asAdmin(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{sooner.ID, created.ID}, reservationIDs(upcoming))

	approved, err := f.svc.Approve(ctx, created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusConfirmed, approved.Status)

	upcoming, err = f.svc.Upcoming(asAdmin(), 5)
	require.NoError(t, err)
	assert.Contains(t, reservationIDs(upcoming), created.ID)

	one, err := f.svc.Upcoming(asAdmin(), 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{sooner.ID}, reservationIDs(one))
}

func TestListForCurrentUserIsScoped(t *testing.T) {
	f := newFixture(t)
	first, err := f.svc.Create(as(aliceID), &model.ReservationRequest{Date: f.now, BusinessID: filter.Ptr(int64(7))})
	require.NoError(t, err)
	_, err = f.svc.Create(as(aliceID), &model.ReservationRequest{Date: f.now, BusinessID: filter.Ptr(int64(8))})
	require.NoError(t, err)
	_, err = f.svc.Create(as(bobID), &model.ReservationRequest{Date: f.now, BusinessID: filter.Ptr(int64(7))})
	require.NoError(t, err)

	rows, total, err := f.svc.ListForCurrentUser(as(aliceID), &criteria.ReservationFilterCriteria{BusinessID: filter.Ptr(int64(7))}, filter.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []int64{first.ID}, reservationIDs(rows))

	all, total, err := f.svc.ListForCurrentUser(as(aliceID), nil, filter.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, r := range all {
		assert.Equal(t, aliceID, *r.UserID)
	}

	_, _, err = f.svc.ListForCurrentUser(context.Background(), nil, filter.Page{})
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))
}

func TestListByCustomerOverridesCustomer(t *testing.T) {
	f := newFixture(t)
	mine := f.seed(t, model.Reservation{CustomerID: filter.Ptr(int64(1)), Status: model.ReservationStatusPending})
	f.seed(t, model.Reservation{CustomerID: filter.Ptr(int64(2)), Status: model.ReservationStatusPending})
	f.seed(t, model.Reservation{CustomerID: filter.Ptr(int64(1)), Status: model.ReservationStatusCancelled})

	c := &criteria.ReservationFilterCriteria{CustomerID: filter.Ptr(int64(2)), Status: filter.Ptr(model.ReservationStatusPending)}
	rows, total, err := f.svc.ListByCustomer(asAdmin(), 1, c, filter.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []int64{mine.ID}, reservationIDs(rows))
	assert.Equal(t, int64(2), *c.CustomerID, "caller criteria is not modified")
}

func reservationIDs(rows []*model.Reservation) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestExportReportWorkbook(t *testing.T) {
	f := newFixture(t)
	f.seed(t, model.Reservation{Date: f.now, Status: model.ReservationStatusPending, BusinessID: filter.Ptr(int64(7)), Notes: filter.Ptr("late")})
	f.seed(t, model.Reservation{Date: f.now, Status: model.ReservationStatusPending, BusinessID: filter.Ptr(int64(8))})

	data, err := f.svc.ExportReport(asAdmin(), &criteria.ReservationFilterCriteria{BusinessID: filter.Ptr(int64(7))})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{summarySheet, reservationsSheet}, wb.GetSheetList())

	total, err := wb.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "1", total)

	rows, err := wb.GetRows(reservationsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "late", rows[1][7])
}
