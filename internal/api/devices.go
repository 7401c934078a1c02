package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecorecicle/ecorecicle-core/internal/device"
	"github.com/ecorecicle/ecorecicle-core/internal/feed"
)

// registerDeviceRequest is the payload for POST /api/v1/devices.
type registerDeviceRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// handleListDevices returns all device records, optionally filtered
// by status and type query parameters.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("list devices failed", "error", err)
		writeInternalError(w, "failed to list devices")
		return
	}

	status := r.URL.Query().Get("status")
	deviceType := r.URL.Query().Get("type")

	if status != "" || deviceType != "" {
		filtered := make([]device.Record, 0, len(records))
		for _, rec := range records {
			if status != "" && string(rec.Status) != status {
				continue
			}
			if deviceType != "" && string(rec.Type) != deviceType {
				continue
			}
			filtered = append(filtered, rec)
		}
		records = filtered
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"devices": records,
		"count":   len(records),
	})
}

// handleRegisterDevice creates a new device record and posts a
// notification for it.
func (s *Server) handleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req registerDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	rec, err := s.store.Register(r.Context(), req.Name, device.DeviceType(req.Type))
	if err != nil {
		switch {
		case errors.Is(err, device.ErrInvalidName), errors.Is(err, device.ErrInvalidDeviceType):
			writeBadRequest(w, err.Error())
		default:
			s.logger.Error("register device failed", "error", err)
			writeInternalError(w, "failed to register device")
		}
		return
	}

	s.feed.Append(feed.RegistrationMessage(rec.Name), feed.CategoryRegister)

	writeJSON(w, http.StatusCreated, rec)
}

// handleGetDevice returns a single device record by ID.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("get device failed", "device_id", id, "error", err)
		writeInternalError(w, "failed to get device")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// handleCollectDevice marks a device as collected.
//
// Collecting an already-collected device succeeds without side
// effects, so the handler checks the current status first and only
// posts a notification when the status actually changes.
func (s *Server) handleCollectDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	before, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("collect device failed", "device_id", id, "error", err)
		writeInternalError(w, "failed to collect device")
		return
	}

	rec, err := s.store.Collect(r.Context(), id)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("collect device failed", "device_id", id, "error", err)
		writeInternalError(w, "failed to collect device")
		return
	}

	if before.Status == device.StatusRegistered {
		s.feed.Append(feed.CollectionMessage(rec.Name), feed.CategoryCollect)
	}

	writeJSON(w, http.StatusOK, rec)
}
