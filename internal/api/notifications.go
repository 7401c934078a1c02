package api

import "net/http"

// handleListNotifications returns the notification feed, newest first.
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	events := s.feed.List()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": events,
		"count":         len(events),
	})
}
