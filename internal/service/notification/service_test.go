package notification

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository/memory"
	"github.com/afpthedev/smyapp/pkg/errors"
	"github.com/afpthedev/smyapp/pkg/filter"
	"github.com/afpthedev/smyapp/pkg/logger"
	"github.com/afpthedev/smyapp/pkg/metrics"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	fail map[string]error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := m.fail[to]; err != nil {
		return err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type fixture struct {
	svc          *Service
	repo         *memory.NotificationRepository
	appointments *memory.AppointmentRepository
	mailer       *fakeMailer
	metrics      *metrics.Metrics
}

func newFixture() *fixture {
	f := &fixture{
		repo:         memory.NewNotificationRepository(),
		appointments: memory.NewAppointmentRepository(),
		mailer:       &fakeMailer{fail: map[string]error{}},
		metrics:      metrics.New("test", prometheus.NewRegistry()),
	}
	users := memory.NewUserRepository(
		&model.User{Base: model.Base{ID: 1}, Login: "alice", Email: "alice@example.com"},
		&model.User{Base: model.Base{ID: 2}, Login: "bob", Email: "bob@example.com"},
	)
	f.svc = NewService(f.repo, f.appointments, users, f.mailer, f.metrics, logger.Nop())
	return f
}

func (f *fixture) appointment(t *testing.T, at time.Time, status model.AppointmentStatus, participants ...int64) *model.Appointment {
	t.Helper()
	a := &model.Appointment{Title: "Checkup", AppointmentDate: at, Duration: 30, Status: status, ParticipantIDs: participants}
	require.NoError(t, f.appointments.Create(context.Background(), a))
	return a
}

func TestCRUD(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	n, err := f.svc.Create(ctx, &model.NotificationRequest{
		Type:    model.NotificationTypeSMS,
		Message: "hello",
		IsRead:  filter.Ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.ID)

	patched, err := f.svc.PartialUpdate(ctx, n.ID, &model.NotificationPatch{IsRead: filter.Ptr(true)})
	require.NoError(t, err)
	assert.True(t, patched.IsRead)
	assert.Equal(t, "hello", patched.Message)

	rows, total, err := f.svc.List(ctx, filter.Page{Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, rows, 1)

	require.NoError(t, f.svc.Delete(ctx, n.ID))
	_, err = f.svc.Get(ctx, n.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.True(t, errors.Is(f.svc.Delete(ctx, n.ID), errors.ErrNotFound))
}

func TestScheduleRemindersOncePerParticipant(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

	soon := f.appointment(t, now.Add(2*time.Hour), model.AppointmentStatusPlanned, 1, 2)
	f.appointment(t, now.Add(3*time.Hour), model.AppointmentStatusCancelled, 1)
	f.appointment(t, now.Add(48*time.Hour), model.AppointmentStatusConfirmed, 1)
	f.appointment(t, now.Add(-time.Hour), model.AppointmentStatusConfirmed, 2)

	n, err := f.svc.ScheduleReminders(ctx, now, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	again, err := f.svc.ScheduleReminders(ctx, now, 24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, again)

	rows, _, err := f.svc.List(ctx, filter.Page{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, model.NotificationTypeEmail, r.Type)
		assert.Equal(t, soon.ID, *r.AppointmentID)
		assert.Nil(t, r.SentDate)
		assert.Contains(t, r.Message, "Checkup")
	}
	assert.Equal(t, "alice@example.com", *rows[0].RecipientEmail)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.NotificationsCreated))
}

func TestDispatchPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	create := func(typ model.NotificationType, to *string, recipient *int64) *model.Notification {
		n := &model.Notification{Type: typ, Message: "msg", RecipientEmail: to, RecipientID: recipient}
		require.NoError(t, f.repo.Create(ctx, n))
		return n
	}
	direct := create(model.NotificationTypeEmail, filter.Ptr("carol@example.com"), nil)
	viaUser := create(model.NotificationTypeEmail, nil, filter.Ptr[int64](2))
	create(model.NotificationTypePush, filter.Ptr("push@example.com"), nil)
	create(model.NotificationTypeEmail, nil, nil)
	failing := create(model.NotificationTypeEmail, filter.Ptr("down@example.com"), nil)
	f.mailer.fail["down@example.com"] = stderrors.New("smtp down")

	sent, err := f.svc.DispatchPending(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	var to []string
	for _, m := range f.mailer.sent {
		to = append(to, m.to)
	}
	assert.Equal(t, []string{"carol@example.com", "bob@example.com"}, to)

	for _, id := range []int64{direct.ID, viaUser.ID} {
		n, err := f.svc.Get(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, n.SentDate)
	}
	stillPending, err := f.svc.Get(ctx, failing.ID)
	require.NoError(t, err)
	assert.Nil(t, stillPending.SentDate)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.NotificationsDispatched.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.NotificationsDispatched.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.NotificationsDispatched.WithLabelValues("skipped")))

	f.mailer.sent = nil
	again, err := f.svc.DispatchPending(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestDispatchPendingPagesPastUndeliverable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	stuck := &model.Notification{Type: model.NotificationTypeEmail, Message: "no address"}
	require.NoError(t, f.repo.Create(ctx, stuck))
	ready := &model.Notification{Type: model.NotificationTypeEmail, Message: "hello", RecipientEmail: filter.Ptr("x@example.com")}
	require.NoError(t, f.repo.Create(ctx, ready))

	sent, err := f.svc.DispatchPending(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "x@example.com", f.mailer.sent[0].to)

	n, err := f.svc.Get(ctx, ready.ID)
	require.NoError(t, err)
	assert.NotNil(t, n.SentDate)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.NotificationsDispatched.WithLabelValues("skipped")))
	n, err = f.svc.Get(ctx, stuck.ID)
	require.NoError(t, err)
	assert.Nil(t, n.SentDate)
}
