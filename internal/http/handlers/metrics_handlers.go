package handlers

import (
	"net/http"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics over the store and movement journal
// @Tags metrics
// @Produce json
// @Success 200 {object} repo.Metrics
// @Failure 500 {object} ErrorResponse
// @Router /api/metrics/dashboard [get]
func (s *Server) GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := s.metricsRepo.GetDashboardMetrics()
	if err != nil {
		writeDomainError(w, err, "fetch metrics")
		return
	}
	_ = writeJSON(w, http.StatusOK, m)
}
