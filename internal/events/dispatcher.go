// Package events fans applied stock movements out to their subscribers.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rogerio-castellano/inventory-simulator/internal/models"
)

// Subscriber receives every dispatched movement.
type Subscriber func(models.Movement)

// Dispatcher stamps movements with a monotonic ID and delivers them to
// subscribers in registration order, on the caller's goroutine.
type Dispatcher struct {
	seq atomic.Int64
	now func() time.Time

	mu   sync.RWMutex
	subs []Subscriber
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{now: time.Now}
}

// Subscribe registers fn for all future movements.
func (d *Dispatcher) Subscribe(fn Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs = append(d.subs, fn)
}

// Dispatch assigns the next ID, fills CreatedAt when unset, and returns the stamped movement.
func (d *Dispatcher) Dispatch(m models.Movement) models.Movement {
	m.ID = int(d.seq.Add(1))
	if m.CreatedAt.IsZero() {
		m.CreatedAt = d.now().UTC()
	}

	d.mu.RLock()
	subs := make([]Subscriber, len(d.subs))
	copy(subs, d.subs)
	d.mu.RUnlock()

	for _, fn := range subs {
		fn(m)
	}
	return m
}
