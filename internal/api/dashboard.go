package api

import (
	"net/http"

	"github.com/ecorecicle/ecorecicle-core/internal/metrics"
)

// handleDashboardMetrics returns aggregated counts derived from the
// current device record set.
func (s *Server) handleDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("dashboard metrics failed", "error", err)
		writeInternalError(w, "failed to compute metrics")
		return
	}

	writeJSON(w, http.StatusOK, metrics.Compute(records))
}
