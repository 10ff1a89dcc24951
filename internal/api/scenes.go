package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/smarthome-core/internal/automation"
)

// SceneInfo is the API view of a scene.
type SceneInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Actions     string `json:"actions"`
}

// handleListScenes returns every scene.
func (s *Server) handleListScenes(w http.ResponseWriter, _ *http.Request) {
	set := s.ctrl.Scenes()
	scenes := make([]SceneInfo, 0, len(set.Names()))
	for _, name := range set.Names() {
		scene, err := set.Get(name)
		if err != nil {
			continue
		}
		scenes = append(scenes, SceneInfo{
			Name:        scene.Name,
			Description: scene.Description,
			Actions:     scene.Describe(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenes": scenes, "count": len(scenes)})
}

// handleActivateScene applies a scene and returns the recorded execution.
// A scene that fails part-way still returns its execution, with status 422.
func (s *Server) handleActivateScene(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	exec, err := s.ctrl.ActivateScene(r.Context(), name)
	if err != nil {
		if exec == nil {
			s.writeDomainError(w, err)
			return
		}
		s.logger.Warn("scene activation failed",
			"scene", name,
			"error", err,
			"request_id", requestID(r),
		)
		writeJSON(w, http.StatusUnprocessableEntity, exec)
		return
	}

	s.logger.Info("scene activated via API", "scene", name, "request_id", requestID(r))
	writeJSON(w, http.StatusOK, exec)
}

// handleSceneExecutions returns the activation history of one scene.
func (s *Server) handleSceneExecutions(w http.ResponseWriter, r *http.Request) {
	scene, err := s.ctrl.Scenes().Get(chi.URLParam(r, "name"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeExecutions(w, r, automation.SourceScene, scene.Name)
}
