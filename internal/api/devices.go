package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/smarthome-core/internal/device"
	"github.com/nerrad567/smarthome-core/internal/infrastructure/mqtt"
)

// handleListDevices returns all devices, with optional query filters.
//
// Query parameters:
//   - type: filter by device type (light, door_lock, etc.)
//   - room: filter by room name
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	states, err := s.ctrl.Devices(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	typ := r.URL.Query().Get("type")
	room := r.URL.Query().Get("room")
	if typ != "" && !isDeviceType(typ) {
		writeBadRequest(w, "unknown device type: "+typ)
		return
	}

	devices := make([]device.State, 0, len(states))
	for _, st := range states {
		if typ != "" && string(st.Type) != typ {
			continue
		}
		if room != "" && !strings.EqualFold(st.Room, room) {
			continue
		}
		devices = append(devices, st)
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleGetDevice returns a single device by name or slug.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	st, err := s.findDevice(r, chi.URLParam(r, "name"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleDeviceStats returns device registry statistics.
func (s *Server) handleDeviceStats(w http.ResponseWriter, r *http.Request) {
	var stats device.Stats
	err := s.ctrl.Do(r.Context(), func(_ context.Context) error {
		stats = s.ctrl.Home().Registry().GetStats()
		return nil
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleDeviceCommand applies a command to a device and returns its new
// state. The body is either a JSON command object or a bare command word:
//
//	{"command": "brightness", "brightness": 40}
//	{"command": "unlock", "code": "1234"}
func (s *Server) handleDeviceCommand(w http.ResponseWriter, r *http.Request) {
	st, err := s.findDevice(r, chi.URLParam(r, "name"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "failed to read request body")
		return
	}
	cmd, err := device.ParseCommand(body)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	state, err := s.ctrl.Command(r.Context(), st.Name, cmd)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.logger.Info("device command applied via API",
		"device", st.Name,
		"command", cmd.Command,
		"request_id", requestID(r),
	)
	writeJSON(w, http.StatusOK, state)
}

// findDevice resolves a URL key to a device. The key may be the device name
// (case-insensitive) or its slug, e.g. "main-light".
func (s *Server) findDevice(r *http.Request, key string) (device.State, error) {
	states, err := s.ctrl.Devices(r.Context())
	if err != nil {
		return device.State{}, err
	}
	for _, st := range states {
		if strings.EqualFold(st.Name, key) || mqtt.DeviceSlug(st.Name) == key {
			return st, nil
		}
	}
	return device.State{}, fmt.Errorf("%w: %q", device.ErrDeviceNotFound, key)
}

func isDeviceType(s string) bool {
	for _, t := range device.AllDeviceTypes() {
		if string(t) == s {
			return true
		}
	}
	return false
}
