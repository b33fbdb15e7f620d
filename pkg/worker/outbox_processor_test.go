package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository/memory"
	"github.com/afpthedev/smyapp/pkg/logger"
	"github.com/afpthedev/smyapp/pkg/messaging"
	"github.com/afpthedev/smyapp/pkg/metrics"
)

type flakyBroker struct {
	failures  int
	published []messaging.Message
}

func (b *flakyBroker) Publish(_ context.Context, _ string, msg messaging.Message) error {
	if b.failures > 0 {
		b.failures--
		return errors.New("connection refused")
	}
	b.published = append(b.published, msg)
	return nil
}

func (b *flakyBroker) Subscribe(context.Context, string) (<-chan messaging.Message, error) {
	return nil, errors.New("not supported")
}

func (b *flakyBroker) Close() error { return nil }

func newProcessor(t *testing.T, repo *memory.OutboxRepository, broker messaging.Broker) (*OutboxProcessor, *metrics.Metrics) {
	t.Helper()
	m := metrics.New("test", prometheus.NewRegistry())
	p, err := NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		Channel:       "smyapp.events",
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 3,
	}, logger.Nop(), m)
	require.NoError(t, err)
	return p, m
}

func TestProcessBatchPublishesAndMarksProcessed(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOutboxRepository()
	require.NoError(t, repo.Create(ctx, &model.OutboxEvent{EventType: "reservation.created", AggregateID: 4, Payload: []byte(`{"id":4}`)}))

	broker := &flakyBroker{failures: 2}
	p, m := newProcessor(t, repo, broker)

	n, err := p.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, broker.published, 1)
	assert.Equal(t, "reservation.created", broker.published[0].Type)
	assert.Equal(t, int64(4), broker.published[0].AggregateID)
	assert.JSONEq(t, `{"id":4}`, string(broker.published[0].Payload))

	events := repo.Events()
	assert.Equal(t, model.OutboxStatusProcessed, events[0].Status)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.OutboxRetries.WithLabelValues("reservation.created")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OutboxEventsProcessed))
}

func TestProcessBatchMarksFailedAfterRetries(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOutboxRepository()
	require.NoError(t, repo.Create(ctx, &model.OutboxEvent{EventType: "reservation.deleted", Payload: []byte(`{}`)}))

	p, m := newProcessor(t, repo, &flakyBroker{failures: 5})

	n, err := p.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	events := repo.Events()
	assert.Equal(t, model.OutboxStatusFailed, events[0].Status)
	require.NotNil(t, events[0].ErrorMessage)
	assert.Equal(t, "connection refused", *events[0].ErrorMessage)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OutboxEventsFailed))

	n, err = p.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "failed events are not picked up again")
}

func TestNewOutboxProcessorValidatesConfig(t *testing.T) {
	_, err := NewOutboxProcessor(memory.NewOutboxRepository(), &flakyBroker{}, OutboxProcessorConfig{}, logger.Nop(), nil)
	assert.Error(t, err)
}

func TestCleanupRemovesOldProcessedEvents(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOutboxRepository()
	event := &model.OutboxEvent{EventType: "reservation.created", Payload: []byte(`{}`)}
	require.NoError(t, repo.Create(ctx, event))
	require.NoError(t, repo.UpdateStatus(ctx, event.ID, model.OutboxStatusProcessed, nil))

	w := NewOutboxCleanupWorker(repo, time.Hour, time.Minute, logger.Nop())
	assert.Zero(t, w.RunOnce(ctx, time.Now()))
	assert.Equal(t, int64(1), w.RunOnce(ctx, time.Now().Add(2*time.Hour)))
	assert.Empty(t, repo.Events())
}
