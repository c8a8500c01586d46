package handlers

import (
	"net/http"

	mw "github.com/rogerio-castellano/inventory-simulator/internal/http/middleware"
	"github.com/rogerio-castellano/inventory-simulator/internal/logger"
)

// StartSimulationHandler godoc
// @Summary Start the stock simulation
// @Description Idempotent. A running simulation keeps its pending tick.
// @Tags simulation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SimStartResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/sim/start [post]
func (s *Server) StartSimulationHandler(w http.ResponseWriter, r *http.Request) {
	st := s.engine.Start()
	logger.Logger.Info().
		Str("operator", mw.Subject(r)).
		Bool("running", st.Running).
		Msg("simulation start requested")
	_ = writeJSON(w, http.StatusOK, simStart(st))
}

// StopSimulationHandler godoc
// @Summary Stop the stock simulation
// @Tags simulation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SimStopResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/sim/stop [post]
func (s *Server) StopSimulationHandler(w http.ResponseWriter, r *http.Request) {
	st := s.engine.Stop()
	logger.Logger.Info().
		Str("operator", mw.Subject(r)).
		Msg("simulation stop requested")
	_ = writeJSON(w, http.StatusOK, SimStopResponse{Running: st.Running})
}

// SimulationStatusHandler godoc
// @Summary Simulation state and current products
// @Tags simulation
// @Produce json
// @Success 200 {object} SimStatusResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/sim/status [get]
func (s *Server) SimulationStatusHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := s.engine.Status()
	if err != nil {
		writeDomainError(w, err, "retrieve simulation status")
		return
	}
	_ = writeJSON(w, http.StatusOK, SimStatusResponse{
		Running:   snap.Running,
		NextRunAt: unixMillis(snap.NextRunAt),
		Products:  toProductResponses(snap.Products),
	})
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, HealthResponse{OK: true})
}
