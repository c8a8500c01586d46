package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/inventory-simulator/internal/auth"
	"github.com/rogerio-castellano/inventory-simulator/internal/events"
	handler "github.com/rogerio-castellano/inventory-simulator/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-simulator/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-simulator/internal/http/router"
	"github.com/rogerio-castellano/inventory-simulator/internal/repo"
	"github.com/rogerio-castellano/inventory-simulator/internal/sim"
)

const testSecret = "secret"

type testEnv struct {
	router    http.Handler
	products  *repo.InMemoryProductRepository
	movements *repo.InMemoryMovementRepository
	engine    *sim.Engine
	tokens    *auth.TokenManager
}

type envOption func(*router.Options)

func withAuth() envOption {
	return func(o *router.Options) { o.Tokens = auth.NewTokenManager(testSecret) }
}

func withLimiter(rps float64, burst int) envOption {
	return func(o *router.Options) { o.Limiter = rl.New(rps, burst) }
}

// newTestEnv wires a seeded store behind the real router. The engine's delays
// are long enough that no tick fires during a test unless the test calls Tick.
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	products := repo.NewSeededProductRepository()
	movements := repo.NewInMemoryMovementRepository()
	dispatcher := events.NewDispatcher()
	dispatcher.Subscribe(movements.Record)

	engine := sim.New(products, sim.Config{MinDelay: time.Hour, MaxDelay: 2 * time.Hour}, sim.WithSink(dispatcher))
	t.Cleanup(func() { _ = engine.Shutdown(context.Background()) })

	srv := handler.NewServer(handler.Deps{
		Products:  products,
		Movements: movements,
		Metrics:   repo.NewInMemoryMetricsRepository(products, movements),
		Engine:    engine,
		Sink:      dispatcher,
	})

	var ro router.Options
	for _, opt := range opts {
		opt(&ro)
	}

	return &testEnv{
		router:    router.NewRouter(srv, ro),
		products:  products,
		movements: movements,
		engine:    engine,
		tokens:    ro.Tokens,
	}
}

func (e *testEnv) do(method, path string, body any, headers ...http.Header) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(headers) > 0 {
		for k, v := range headers[0] {
			req.Header[k] = v
		}
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createProduct(p handler.ProductRequest) *httptest.ResponseRecorder {
	return e.do(http.MethodPost, "/api/products", p)
}

func (e *testEnv) updateProduct(id int, p handler.ProductRequest) *httptest.ResponseRecorder {
	return e.do(http.MethodPut, fmt.Sprintf("/api/products/%d", id), p)
}

func bearer(t *testing.T, tm *auth.TokenManager) http.Header {
	t.Helper()
	token, err := tm.GenerateToken("operator", time.Minute)
	if err != nil {
		t.Fatalf("error generating token: %v", err)
	}
	return http.Header{"Authorization": {"Bearer " + token}}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("error decoding response %q: %v", w.Body.String(), err)
	}
	return v
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }
