// internal/api/handlers.go
package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"carematch/internal/common/errors"
	"carematch/internal/common/validation"
	"carematch/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(s.checks))
	healthy := true
	for _, c := range s.checks {
		if err := c.Check(r.Context()); err != nil {
			healthy = false
			checks[c.Name] = err.Error()
			s.logger.Warn("readiness check failed", map[string]interface{}{
				"check": c.Name,
				"error": err,
			})
			continue
		}
		checks[c.Name] = "ok"
	}

	status, code := "ready", http.StatusOK
	if !healthy {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{"status": status, "checks": checks})
}

func (s *Server) evaluateElder(w http.ResponseWriter, r *http.Request) {
	topN, err := queryInt(r, "top_n", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	applicant, err := validation.DecodeApplicant(body)
	if err != nil {
		s.writeError(w, r, validation.AsStandardError(err))
		return
	}

	results, err := s.matcher.Match(r.Context(), applicant, topN, "http")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) listHomes(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	if limit == 0 {
		writeJSON(w, http.StatusOK, []models.ProviderProfile{})
		return
	}

	homes, err := s.registry.List(r.Context(), skip, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, homes)
}

func (s *Server) createHome(w http.ResponseWriter, r *http.Request) {
	report, ok := s.register(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, report.Home)
}

func (s *Server) evaluateHome(w http.ResponseWriter, r *http.Request) {
	report, ok := s.register(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

func (s *Server) getHome(w http.ResponseWriter, r *http.Request) {
	home, err := s.registry.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, home)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) (report models.CapabilityReport, ok bool) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return report, false
	}

	provider, err := validation.DecodeProvider(body)
	if err != nil {
		s.writeError(w, r, validation.AsStandardError(err))
		return report, false
	}

	report, err = s.registry.Register(r.Context(), provider, "http")
	if err != nil {
		s.writeError(w, r, err)
		return report, false
	}
	return report, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.NewParseError(fmt.Errorf("read body: %w", err))
	}
	if len(body) == 0 {
		return nil, errors.NewParseError(fmt.Errorf("request body is empty"))
	}
	return body, nil
}

// queryInt reads a non-negative integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		cause := fmt.Errorf("%s must be a non-negative integer, got %q", name, raw)
		return 0, errors.NewValidationFailedError(cause, []validation.FieldError{{
			Field:   name,
			Message: "must be a non-negative integer",
			Code:    "INVALID_QUERY",
		}})
	}
	return v, nil
}
