package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository/memory"
)

func TestEmitAppendsPendingEvent(t *testing.T) {
	repo := memory.NewOutboxRepository()
	svc := NewService(repo)

	require.NoError(t, svc.Emit(context.Background(), ReservationApproved, 12, map[string]any{"id": 12, "status": "CONFIRMED"}))

	events := repo.Events()
	require.Len(t, events, 1)
	assert.Equal(t, ReservationApproved, events[0].EventType)
	assert.Equal(t, int64(12), events[0].AggregateID)
	assert.Equal(t, model.OutboxStatusPending, events[0].Status)
	assert.JSONEq(t, `{"id":12,"status":"CONFIRMED"}`, string(events[0].Payload))
}

func TestEmitRejectsUnencodablePayload(t *testing.T) {
	svc := NewService(memory.NewOutboxRepository())
	assert.Error(t, svc.Emit(context.Background(), ReservationCreated, 1, make(chan int)))
}
