package repo

import (
	"sync"

	"github.com/rogerio-castellano/inventory-simulator/internal/models"
)

// DefaultMaxMovements bounds the journal when no explicit size is configured.
const DefaultMaxMovements = 10000

// InMemoryMovementRepository keeps the most recent movements in a ring buffer.
// Once full, each new movement overwrites the oldest one.
type InMemoryMovementRepository struct {
	mu         sync.RWMutex
	movements  []models.Movement
	head       int // index of the oldest entry once the buffer is full
	maxEntries int
}

func NewInMemoryMovementRepository() *InMemoryMovementRepository {
	return NewBoundedMovementRepository(DefaultMaxMovements)
}

// NewBoundedMovementRepository keeps at most maxEntries movements. Non-positive
// sizes fall back to DefaultMaxMovements.
func NewBoundedMovementRepository(maxEntries int) *InMemoryMovementRepository {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxMovements
	}
	return &InMemoryMovementRepository{
		movements:  []models.Movement{},
		maxEntries: maxEntries,
	}
}

// Log appends a movement to the journal, evicting the oldest one when full.
func (r *InMemoryMovementRepository) Log(m models.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.movements) < r.maxEntries {
		r.movements = append(r.movements, m)
		return nil
	}
	r.movements[r.head] = m
	r.head = (r.head + 1) % r.maxEntries
	return nil
}

// Len reports how many movements are currently retained.
func (r *InMemoryMovementRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.movements)
}

// Record is Log shaped as a movement subscriber.
func (r *InMemoryMovementRepository) Record(m models.Movement) {
	_ = r.Log(m)
}

// GetByProductID returns the movements of a product, optionally filtered by date range and paginated
func (r *InMemoryMovementRepository) GetByProductID(productID int, mf MovementFilter) ([]models.Movement, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := []models.Movement{}
	n := len(r.movements)
	for i := range n {
		m := r.movements[(r.head+i)%n]
		if m.ProductID != productID {
			continue
		}
		if (mf.Since != nil && m.CreatedAt.Before(*mf.Since)) ||
			(mf.Until != nil && m.CreatedAt.After(*mf.Until)) {
			continue
		}
		filtered = append(filtered, m)
	}

	if mf.Offset != nil && *mf.Offset > len(filtered) {
		return []models.Movement{}, len(filtered), nil
	}

	start := 0
	if mf.Offset != nil {
		start = clamp(*mf.Offset, 0, len(filtered))
	}

	end := len(filtered)
	if mf.Limit != nil && *mf.Limit > 0 {
		end = clamp(start+*mf.Limit, start, len(filtered))
	}

	return filtered[start:end], len(filtered), nil
}

func (r *InMemoryMovementRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = []models.Movement{}
	r.head = 0
}
