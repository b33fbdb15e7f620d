package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afpthedev/smyapp/internal/criteria"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository"
	"github.com/afpthedev/smyapp/pkg/filter"
)

func TestReservationRepositoryQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewReservationRepository()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	seed := []model.Reservation{
		{Date: base, Status: model.ReservationStatusPending, CustomerID: filter.Ptr[int64](1), BusinessID: filter.Ptr[int64](7)},
		{Date: base.Add(48 * time.Hour), Status: model.ReservationStatusConfirmed, CustomerID: filter.Ptr[int64](2), BusinessID: filter.Ptr[int64](7)},
		{Date: base.Add(24 * time.Hour), Status: model.ReservationStatusPending, CustomerID: filter.Ptr[int64](1)},
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}
	assert.Equal(t, []int64{1, 2, 3}, []int64{seed[0].ID, seed[1].ID, seed[2].ID})

	byBusiness := filter.Spec{}.And(filter.Eq(criteria.FieldBusinessID, int64(7)))
	n, err := repo.Count(ctx, byBusiness)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	counts, err := repo.CountByStatus(ctx, filter.Spec{})
	require.NoError(t, err)
	assert.Equal(t, map[model.ReservationStatus]int64{
		model.ReservationStatusPending:   2,
		model.ReservationStatusConfirmed: 1,
	}, counts)

	distinct, err := repo.CountDistinct(ctx, filter.Spec{}, criteria.FieldBusinessID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), distinct, "null business ids are not counted")

	latest, err := repo.FindFirst(ctx, filter.Spec{}, filter.Order{Field: criteria.FieldDate, Desc: true})
	require.NoError(t, err)
	assert.Equal(t, seed[1].ID, latest.ID)

	none, err := repo.FindFirst(ctx, byBusiness.And(filter.Eq(criteria.FieldCustomerID, int64(9))), filter.Order{Field: criteria.FieldDate})
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestFindSortsNullsLastAndPages(t *testing.T) {
	ctx := context.Background()
	repo := NewReservationRepository()
	for _, business := range []*int64{nil, filter.Ptr[int64](5), filter.Ptr[int64](3)} {
		require.NoError(t, repo.Create(ctx, &model.Reservation{BusinessID: business}))
	}

	asc, err := repo.Find(ctx, filter.Spec{}, filter.Page{Sort: []filter.Order{{Field: criteria.FieldBusinessID}}})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, ids(asc))

	desc, err := repo.Find(ctx, filter.Spec{}, filter.Page{Sort: []filter.Order{{Field: criteria.FieldBusinessID, Desc: true}}})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(desc))

	second, err := repo.Find(ctx, filter.Spec{}, filter.Page{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(second))
}

func TestUnknownFieldFails(t *testing.T) {
	repo := NewReservationRepository()

	_, err := repo.Count(context.Background(), filter.Spec{}.And(filter.Eq("colour", "red")))
	assert.ErrorIs(t, err, filter.ErrUnknownField)

	_, err = repo.Find(context.Background(), filter.Spec{}, filter.Page{Sort: []filter.Order{{Field: "colour"}}})
	assert.ErrorIs(t, err, filter.ErrUnknownField)
}

func TestMissingRowsAreNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewReservationRepository()

	_, err := repo.Get(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &model.Reservation{Base: model.Base{ID: 42}}), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 42), repository.ErrNotFound)
}

func TestAppointmentParticipantsFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepository()

	a := &model.Appointment{Title: "Standup", ParticipantIDs: []int64{3, 1, 3}}
	b := &model.Appointment{Title: "Retro", ParticipantIDs: []int64{2}}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, got.ParticipantIDs)

	spec := filter.Spec{Distinct: true}.And(filter.In(criteria.FieldParticipantsID, int64(1), int64(3)))
	found, err := repo.Find(ctx, spec, filter.Page{})
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID}, appointmentIDs(found))

	got.ParticipantIDs[0] = 99
	again, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, again.ParticipantIDs, "returned rows are copies")
}

func TestCustomerGetByEmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository()
	require.NoError(t, repo.Create(ctx, &model.Customer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}))

	c, err := repo.GetByEmail(ctx, "ADA@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", c.FullName())

	_, err = repo.GetByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOutboxLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewOutboxRepository()

	first := &model.OutboxEvent{EventType: "reservation.created", Payload: []byte(`{}`)}
	second := &model.OutboxEvent{EventType: "reservation.deleted", Payload: []byte(`{}`)}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	pending, err := repo.GetPendingEvents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	msg := "redis down"
	require.NoError(t, repo.UpdateStatus(ctx, second.ID, model.OutboxStatusFailed, &msg))
	require.NoError(t, repo.UpdateStatus(ctx, first.ID, model.OutboxStatusProcessed, nil))

	events := repo.Events()
	require.Len(t, events, 2)
	assert.Equal(t, 1, events[1].RetryCount)
	assert.NotNil(t, events[0].ProcessedAt)

	n, err := repo.DeleteProcessedBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func ids(rows []*model.Reservation) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func appointmentIDs(rows []*model.Appointment) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}
