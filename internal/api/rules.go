package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/smarthome-core/internal/automation"
)

// defaultHistoryLimit applies when neither ?limit= nor a configured limit is set.
const defaultHistoryLimit = 50

// handleListRules returns every rule in evaluation order.
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.ctrl.Rules(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": rules, "count": len(rules)})
}

// handleGetRule returns one rule.
func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := s.ctrl.Rule(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (s *Server) handleEnableRule(w http.ResponseWriter, r *http.Request) {
	s.setRuleEnabled(w, r, true)
}

func (s *Server) handleDisableRule(w http.ResponseWriter, r *http.Request) {
	s.setRuleEnabled(w, r, false)
}

func (s *Server) setRuleEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	rule, err := s.ctrl.SetRuleEnabled(r.Context(), chi.URLParam(r, "name"), enabled)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// handleRuleExecutions returns the execution history of one rule.
func (s *Server) handleRuleExecutions(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rule, err := s.ctrl.Rule(r.Context(), name)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeExecutions(w, r, automation.SourceRule, rule.Name)
}

// handleRecentExecutions returns the most recent executions of every kind.
func (s *Server) handleRecentExecutions(w http.ResponseWriter, r *http.Request) {
	s.writeExecutions(w, r, "", "")
}

func (s *Server) writeExecutions(w http.ResponseWriter, r *http.Request, source automation.ExecutionSource, name string) {
	limit, ok := s.parseLimit(w, r)
	if !ok {
		return
	}
	execs, err := s.ctrl.Executions(r.Context(), source, name, limit)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"executions": execs, "count": len(execs)})
}

// parseLimit reads ?limit=, capped at the configured history limit. It
// writes a 400 and returns false on a bad value.
func (s *Server) parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	ceiling := s.historyLimit
	if ceiling <= 0 {
		ceiling = defaultHistoryLimit
	}
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return ceiling, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		writeBadRequest(w, "limit must be a positive integer")
		return 0, false
	}
	return min(limit, ceiling), true
}
