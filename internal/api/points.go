package api

import (
	"net/http"

	"github.com/ecorecicle/ecorecicle-core/internal/collectionpoint"
)

// handleListCollectionPoints returns the catalog of drop-off points
// shown on the dashboard map.
func (s *Server) handleListCollectionPoints(w http.ResponseWriter, r *http.Request) {
	points := []collectionpoint.Point{}

	if s.points != nil {
		list, err := s.points.List(r.Context())
		if err != nil {
			s.logger.Error("list collection points failed", "error", err)
			writeInternalError(w, "failed to list collection points")
			return
		}
		points = list
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"points": points,
		"count":  len(points),
	})
}
