package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	handler "github.com/rogerio-castellano/inventory-simulator/internal/http/handlers"
	"github.com/rogerio-castellano/inventory-simulator/internal/logger"
)

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"ok":true}` {
		t.Errorf("expected {\"ok\":true}, got %s", got)
	}
}

func TestStartSimulationHandler(t *testing.T) {
	env := newTestEnv(t)
	before := time.Now()

	w := env.do(http.MethodPost, "/api/sim/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	resp := decode[handler.SimStartResponse](t, w)
	if !resp.Running {
		t.Fatal("expected running true")
	}
	if resp.NextRunAt == nil || *resp.NextRunAt < before.Add(time.Hour).UnixMilli() {
		t.Errorf("expected nextRunAt at least one hour ahead, got %v", resp.NextRunAt)
	}

	again := decode[handler.SimStartResponse](t, env.do(http.MethodPost, "/api/sim/start", nil))
	if again.NextRunAt == nil || *again.NextRunAt != *resp.NextRunAt {
		t.Errorf("a second start must keep the pending tick, got %v want %v", again.NextRunAt, *resp.NextRunAt)
	}
}

func TestStartSimulationHandler_EmptyStore(t *testing.T) {
	env := newTestEnv(t)
	env.products.Clear()

	resp := decode[handler.SimStartResponse](t, env.do(http.MethodPost, "/api/sim/start", nil))
	if !resp.Running {
		t.Error("expected running true on an empty store")
	}
}

func TestStopSimulationHandler_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	env.do(http.MethodPost, "/api/sim/start", nil)

	for i := range 2 {
		w := env.do(http.MethodPost, "/api/sim/stop", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("stop %d: expected 200 OK, got %d", i, w.Code)
		}
		if got := strings.TrimSpace(w.Body.String()); got != `{"running":false}` {
			t.Errorf("stop %d: expected {\"running\":false}, got %s", i, got)
		}
	}

	status := decode[handler.SimStatusResponse](t, env.do(http.MethodGet, "/api/sim/status", nil))
	if status.Running || status.NextRunAt != nil {
		t.Errorf("expected stopped with null nextRunAt, got %+v", status)
	}
}

func TestSimulationStatusHandler(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/sim/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if string(raw["nextRunAt"]) != "null" {
		t.Errorf("expected nextRunAt null while stopped, got %s", raw["nextRunAt"])
	}

	var status handler.SimStatusResponse
	_ = json.Unmarshal(w.Body.Bytes(), &status)
	if status.Running || len(status.Products) != 3 {
		t.Errorf("expected stopped with 3 products, got %+v", status)
	}
}

func TestSimulationStatusHandler_ReflectsTicks(t *testing.T) {
	env := newTestEnv(t)

	moved := 0
	for range 20 {
		if _, ok := env.engine.Tick(); ok {
			moved++
		}
	}

	status := decode[handler.SimStatusResponse](t, env.do(http.MethodGet, "/api/sim/status", nil))
	for _, p := range status.Products {
		if p.Stock < 0 || p.Stock > p.MaxThreshold {
			t.Errorf("%s out of bounds: %d/%d", p.Name, p.Stock, p.MaxThreshold)
		}
	}

	total := 0
	for id := 1; id <= 3; id++ {
		result := decode[handler.MovementsSearchResult](t, env.do(http.MethodGet, fmt.Sprintf("/api/products/%d/movements", id), nil))
		total += result.Meta.TotalCount
	}
	if total != moved {
		t.Errorf("expected %d journaled movements, got %d", moved, total)
	}
}

func TestSimulationControl_RequiresTokenWhenConfigured(t *testing.T) {
	env := newTestEnv(t, withAuth())

	for _, path := range []string{"/api/sim/start", "/api/sim/stop"} {
		if w := env.do(http.MethodPost, path, nil); w.Code != http.StatusUnauthorized {
			t.Errorf("%s without token: expected 401, got %d", path, w.Code)
		}
		bad := http.Header{"Authorization": {"Bearer not-a-jwt"}}
		if w := env.do(http.MethodPost, path, nil, bad); w.Code != http.StatusUnauthorized {
			t.Errorf("%s with bad token: expected 401, got %d", path, w.Code)
		}
	}
	if env.engine.State().Running {
		t.Fatal("rejected start must not run the engine")
	}

	w := env.do(http.MethodPost, "/api/sim/start", nil, bearer(t, env.tokens))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with a valid token, got %d", w.Code)
	}

	if w := env.do(http.MethodGet, "/api/sim/status", nil); w.Code != http.StatusOK {
		t.Errorf("status stays public, got %d", w.Code)
	}
}

func TestSimulationControl_LogsOperator(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.Logger
	logger.Logger = zerolog.New(&buf)
	t.Cleanup(func() { logger.Logger = prev })

	env := newTestEnv(t, withAuth())
	auth := bearer(t, env.tokens)

	env.do(http.MethodPost, "/api/sim/start", nil, auth)
	env.do(http.MethodPost, "/api/sim/stop", nil, auth)

	var started, stopped bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		switch entry["message"] {
		case "simulation start requested":
			started = entry["operator"] == "operator"
		case "simulation stop requested":
			stopped = entry["operator"] == "operator"
		}
	}
	if !started || !stopped {
		t.Errorf("expected start and stop logged with operator subject, got:\n%s", buf.String())
	}
}
