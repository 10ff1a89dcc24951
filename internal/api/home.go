package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/smarthome-core/internal/location"
)

// handleGetHome returns the whole-home summary.
func (s *Server) handleGetHome(w http.ResponseWriter, r *http.Request) {
	summary, err := s.ctrl.Summary(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleListRooms returns every room with its devices.
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	summary, err := s.ctrl.Summary(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": summary.Rooms, "count": len(summary.Rooms)})
}

// handleGetRoom returns one room by name.
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	summary, err := s.ctrl.Summary(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	for _, room := range summary.Rooms {
		if strings.EqualFold(room.Name, name) {
			writeJSON(w, http.StatusOK, room)
			return
		}
	}
	s.writeDomainError(w, fmt.Errorf("%w: %q", location.ErrRoomNotFound, name))
}

// handleGetEnergy returns current power draw and integrated energy use.
func (s *Server) handleGetEnergy(w http.ResponseWriter, r *http.Request) {
	sample, err := s.ctrl.Energy(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sample)
}

// handleArm arms the security system. Devices that could not be secured are
// reported as warnings; the home is still armed.
func (s *Server) handleArm(w http.ResponseWriter, r *http.Request) {
	s.setSecurity(w, r, true)
}

// handleDisarm disarms the security system.
func (s *Server) handleDisarm(w http.ResponseWriter, r *http.Request) {
	s.setSecurity(w, r, false)
}

func (s *Server) setSecurity(w http.ResponseWriter, r *http.Request, armed bool) {
	err := s.ctrl.SetSecurity(r.Context(), armed)
	if err != nil && isControllerUnavailable(err) {
		s.writeDomainError(w, err)
		return
	}

	resp := map[string]any{"security_armed": armed}
	if err != nil {
		resp["warnings"] = strings.Split(err.Error(), "\n")
	}
	writeJSON(w, http.StatusOK, resp)
}
