// Package metrics exposes simulation and HTTP counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rogerio-castellano/inventory-simulator/internal/models"
)

type Collector struct {
	simRunning      prometheus.Gauge
	simTicks        prometheus.Counter
	movements       *prometheus.CounterVec
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewCollector creates the collectors and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		simRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_sim_running",
			Help: "1 while the stock simulation is running",
		}),
		simTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_sim_ticks_run_total",
			Help: "Simulation ticks run, including skipped ones that changed no stock",
		}),
		movements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_stock_movements_total",
				Help: "Applied stock movements",
			},
			[]string{"action", "source"},
		),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_http_requests_total",
				Help: "HTTP requests by route, method and status",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inventory_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(c.simRunning, c.simTicks, c.movements, c.requestCounter, c.requestDuration)
	return c
}

func (c *Collector) RunningChanged(running bool) {
	if running {
		c.simRunning.Set(1)
		return
	}
	c.simRunning.Set(0)
}

// TickCompleted counts every tick the engine runs. Applied movements are
// counted separately by Record.
func (c *Collector) TickCompleted() {
	c.simTicks.Inc()
}

// Record counts an applied movement.
func (c *Collector) Record(m models.Movement) {
	c.movements.WithLabelValues(string(m.Action), m.Source).Inc()
}

// Middleware records request counts and latency keyed by the chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.requestCounter.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
