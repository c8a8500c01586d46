// Package sim drives the background process that randomly sells and restocks
// products at randomized intervals.
//
// The engine runs at most one scheduling goroutine. Every tick re-checks its
// cancellation token and arms the next delay inside the same critical section
// that Stop uses, so once Stop returns no further step is applied.
package sim

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rogerio-castellano/inventory-simulator/internal/logger"
	"github.com/rogerio-castellano/inventory-simulator/internal/models"
	"github.com/rogerio-castellano/inventory-simulator/internal/repo"
)

const (
	DefaultMinDelay = 500 * time.Millisecond
	DefaultMaxDelay = 2000 * time.Millisecond
)

// Rand is the source of the engine's random draws.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// Sink receives movements applied by a tick.
type Sink interface {
	Dispatch(m models.Movement) models.Movement
}

// Recorder observes the engine's lifecycle. TickCompleted fires for every tick,
// including skipped ones; applied movements reach the Sink instead.
type Recorder interface {
	RunningChanged(running bool)
	TickCompleted()
}

type nopRecorder struct{}

func (nopRecorder) RunningChanged(bool) {}
func (nopRecorder) TickCompleted()      {}

// Config bounds the delay between ticks: each delay is drawn from [MinDelay, MaxDelay).
type Config struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

func DefaultConfig() Config {
	return Config{MinDelay: DefaultMinDelay, MaxDelay: DefaultMaxDelay}
}

// State is the externally visible run state.
type State struct {
	Running   bool
	NextRunAt *time.Time
}

// Snapshot is State plus the products it was observed with.
type Snapshot struct {
	State
	Products []models.Product
}

type Option func(*Engine)

func WithRand(r Rand) Option { return func(e *Engine) { e.rnd = r } }

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func WithSink(s Sink) Option { return func(e *Engine) { e.sink = s } }

func WithRecorder(r Recorder) Option { return func(e *Engine) { e.rec = r } }

// Engine is the simulation scheduler. It starts stopped.
type Engine struct {
	products repo.ProductRepository
	cfg      Config
	now      func() time.Time
	sink     Sink
	rec      Recorder

	mu        sync.Mutex
	rnd       Rand
	running   bool
	nextRunAt *time.Time
	cancel    context.CancelFunc
	done      chan struct{}
}

func New(products repo.ProductRepository, cfg Config, opts ...Option) *Engine {
	if cfg.MinDelay <= 0 {
		cfg.MinDelay = DefaultMinDelay
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	e := &Engine{
		products: products,
		cfg:      cfg,
		now:      time.Now,
		rnd:      globalRand{},
		rec:      nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start moves the engine to running and arms the first tick. Calling it while
// running changes nothing: the pending tick and NextRunAt are kept.
func (e *Engine) Start() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		ctx, cancel := context.WithCancel(context.Background())
		e.running = true
		e.cancel = cancel
		e.done = make(chan struct{})
		delay := e.scheduleLocked()
		go e.loop(ctx, delay, e.done)

		e.rec.RunningChanged(true)
		logger.Logger.Info().
			Dur("first_delay", delay).
			Msg("simulation started")
	}
	return e.stateLocked()
}

// Stop cancels the pending tick and clears NextRunAt. It is safe to call when stopped.
func (e *Engine) Stop() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	wasRunning := e.running
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.running = false
	e.nextRunAt = nil

	if wasRunning {
		e.rec.RunningChanged(false)
		logger.Logger.Info().Msg("simulation stopped")
	}
	return e.stateLocked()
}

// Shutdown stops the engine and waits for its scheduling goroutine to exit.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()

	e.Stop()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State reports whether the engine runs and when the next tick is due.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Status returns the run state together with the current products.
func (e *Engine) Status() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	products, err := e.products.GetAll()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{State: e.stateLocked(), Products: products}, nil
}

// Tick runs one simulation step regardless of the run state.
func (e *Engine) Tick() (models.Movement, bool) {
	e.mu.Lock()
	m := e.stepLocked()
	e.mu.Unlock()

	if m == nil {
		return models.Movement{}, false
	}
	return e.publish(*m), true
}

func (e *Engine) loop(ctx context.Context, delay time.Duration, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		next, moved, ok := e.fire(ctx)
		if !ok {
			return
		}
		if moved != nil {
			e.publish(*moved)
		}
		timer.Reset(next)
	}
}

// fire runs one step and arms the next delay, unless Stop got there first.
func (e *Engine) fire(ctx context.Context) (time.Duration, *models.Movement, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ctx.Err() != nil {
		return 0, nil, false
	}
	m := e.stepLocked()
	return e.scheduleLocked(), m, true
}

// stepLocked picks one product and moves its stock by one within [0, MaxThreshold].
// An empty store or a blocked move is a silent no-op.
func (e *Engine) stepLocked() *models.Movement {
	defer e.rec.TickCompleted()

	p, ok := e.products.PickRandom(e.rnd)
	if !ok {
		return nil
	}
	action := models.ActionFromDraw(e.rnd.Float64())

	updated, delta, err := e.products.ApplyMovement(p.ID, action)
	if err != nil || delta == 0 {
		return nil
	}
	return &models.Movement{
		ProductID:   updated.ID,
		ProductName: updated.Name,
		Action:      action,
		Delta:       delta,
		StockAfter:  updated.Stock,
		Source:      models.SourceSimulation,
	}
}

func (e *Engine) publish(m models.Movement) models.Movement {
	if e.sink != nil {
		m = e.sink.Dispatch(m)
	}
	logger.Logger.Debug().
		Int("product_id", m.ProductID).
		Str("action", string(m.Action)).
		Int("stock", m.StockAfter).
		Msg("simulated movement")
	return m
}

func (e *Engine) scheduleLocked() time.Duration {
	delay := e.nextDelayLocked()
	at := e.now().Add(delay)
	e.nextRunAt = &at
	return delay
}

// nextDelayLocked draws MinDelay + floor(r * span) whole milliseconds.
func (e *Engine) nextDelayLocked() time.Duration {
	spanMs := (e.cfg.MaxDelay - e.cfg.MinDelay).Milliseconds()
	if spanMs <= 0 {
		return e.cfg.MinDelay
	}
	ms := int64(e.rnd.Float64() * float64(spanMs))
	return e.cfg.MinDelay + time.Duration(ms)*time.Millisecond
}

func (e *Engine) stateLocked() State {
	s := State{Running: e.running}
	if e.nextRunAt != nil {
		at := *e.nextRunAt
		s.NextRunAt = &at
	}
	return s
}
