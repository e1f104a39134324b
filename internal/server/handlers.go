package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hangry-labs/siteselect/internal/scoring"
	"github.com/hangry-labs/siteselect/internal/store"
)

type compareRequest struct {
	Locations []scoring.Location `json:"locations"`
}

type expansionRequest struct {
	TargetBranches  int      `json:"target_branches"`
	FocusCategories []string `json:"focus_categories"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var loc scoring.Location
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		respondError(w, http.StatusBadRequest, eris.Wrap(err, "server: decode score request"))
		return
	}

	result, err := s.engine.ScoreLocation(r.Context(), loc)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.saveRun(r, store.KindScore, loc, result)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, eris.Wrap(err, "server: decode compare request"))
		return
	}
	if len(req.Locations) == 0 {
		respondError(w, http.StatusBadRequest, eris.New("server: locations is required"))
		return
	}

	results, err := s.engine.CompareLocations(r.Context(), req.Locations)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.saveRun(r, store.KindCompare, req, results)
	respondJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.analyzer.Analyze(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	s.saveRun(r, store.KindPortfolio, nil, analysis)
	respondJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleOptimalDistricts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	n := 3
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, eris.Errorf("server: invalid n %q", raw))
			return
		}
		n = parsed
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"category":  category,
		"districts": s.analyzer.OptimalDistricts(category, n),
	})
}

func (s *Server) handleExpansion(w http.ResponseWriter, r *http.Request) {
	var req expansionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, eris.Wrap(err, "server: decode expansion request"))
			return
		}
	}

	exp, err := s.builder.Expansion(r.Context(), req.TargetBranches, req.FocusCategories)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	s.saveRun(r, store.KindReport, req, exp)
	respondJSON(w, http.StatusOK, exp)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, eris.Errorf("server: invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "runID")

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			respondError(w, http.StatusNotFound, err)
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// saveRun records a completed operation. Failures are logged, never
// surfaced to the caller.
func (s *Server) saveRun(r *http.Request, kind string, request, result any) {
	run := &store.Run{ID: uuid.New().String(), Kind: kind}
	if request != nil {
		if data, err := json.Marshal(request); err == nil {
			run.Request = data
		}
	}
	if result != nil {
		if data, err := json.Marshal(result); err == nil {
			run.Result = data
		}
	}
	if err := s.store.SaveRun(r.Context(), run); err != nil {
		zap.L().Warn("server: save run failed",
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}
