// Package redissvc fans applied stock movements out over Redis Pub/Sub.
// Nothing is ever read back: subscribers are external dashboards and consumers.
package redissvc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/inventory-simulator/internal/logger"
	"github.com/rogerio-castellano/inventory-simulator/internal/models"
)

const (
	EventTypeStockMovement = "stock.movement"

	defaultBuffer  = 256
	publishTimeout = 2 * time.Second
)

// MovementEvent is the payload published for every movement.
type MovementEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Movement  models.Movement `json:"movement"`
	Timestamp time.Time       `json:"timestamp"`
}

// publisher is the slice of the redis client the service needs.
type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type RedisService struct {
	rdb     publisher
	channel string
	queue   chan models.Movement
}

func NewRedisService(rdb publisher, channel string) *RedisService {
	return &RedisService{
		rdb:     rdb,
		channel: channel,
		queue:   make(chan models.Movement, defaultBuffer),
	}
}

// Connect opens a client for addr and checks it answers.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Record queues m for publishing without blocking the caller. When the
// buffer is full the movement is dropped and a warning is logged.
func (s *RedisService) Record(m models.Movement) {
	select {
	case s.queue <- m:
	default:
		logger.Logger.Warn().
			Int("movement_id", m.ID).
			Str("channel", s.channel).
			Msg("redis publish queue full, dropping movement")
	}
}

// Run publishes queued movements until ctx is done.
func (s *RedisService) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-s.queue:
			if err := s.PublishMovement(ctx, m); err != nil {
				logger.Logger.Error().
					Err(err).
					Int("movement_id", m.ID).
					Msg("failed to publish movement")
			}
		}
	}
}

// PublishMovement publishes one movement event on the configured channel.
func (s *RedisService) PublishMovement(ctx context.Context, m models.Movement) error {
	event := MovementEvent{
		EventID:   uuid.NewString(),
		EventType: EventTypeStockMovement,
		Movement:  m,
		Timestamp: time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal movement event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.rdb.Publish(ctx, s.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", s.channel, err)
	}
	return nil
}
