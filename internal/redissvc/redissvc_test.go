package redissvc

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/inventory-simulator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu       sync.Mutex
	channels []string
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message any) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels = append(f.channels, channel)
	f.payloads = append(f.payloads, message.([]byte))
	return redis.NewIntResult(1, f.err)
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func TestPublishMovement(t *testing.T) {
	fp := &fakePublisher{}
	svc := NewRedisService(fp, "inventory:movements")

	m := models.Movement{ID: 3, ProductID: 1, ProductName: "Laptop", Action: models.ActionSale, Delta: -1, StockAfter: 4}
	require.NoError(t, svc.PublishMovement(context.Background(), m))

	require.Equal(t, 1, fp.count())
	assert.Equal(t, "inventory:movements", fp.channels[0])

	var event MovementEvent
	require.NoError(t, json.Unmarshal(fp.payloads[0], &event))
	assert.Equal(t, EventTypeStockMovement, event.EventType)
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, m.ProductID, event.Movement.ProductID)
	assert.Equal(t, m.Action, event.Movement.Action)
}

func TestPublishMovement_Error(t *testing.T) {
	fp := &fakePublisher{err: errors.New("connection refused")}
	svc := NewRedisService(fp, "ch")
	err := svc.PublishMovement(context.Background(), models.Movement{ID: 1})
	assert.ErrorContains(t, err, "connection refused")
}

func TestRun_DrainsRecordedMovements(t *testing.T) {
	fp := &fakePublisher{}
	svc := NewRedisService(fp, "ch")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	for i := 1; i <= 3; i++ {
		svc.Record(models.Movement{ID: i})
	}
	assert.Eventually(t, func() bool { return fp.count() == 3 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
