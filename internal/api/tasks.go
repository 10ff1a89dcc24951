package api

import (
	"context"
	"net/http"

	"github.com/nerrad567/smarthome-core/internal/scheduler"
)

// handleListTasks returns scheduled tasks with their next run times.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	var tasks []scheduler.Task
	err := s.ctrl.Do(r.Context(), func(context.Context) error {
		tasks = s.ctrl.Scheduler().Tasks()
		return nil
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks, "count": len(tasks)})
}
