package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/finops-claw-gang/pairdiff/internal/domain"
	"github.com/finops-claw-gang/pairdiff/internal/engine"
	"github.com/finops-claw-gang/pairdiff/internal/report"
	"github.com/finops-claw-gang/pairdiff/internal/temporal/workflows"
)

// maxRequestBytes caps comparison request bodies.
const maxRequestBytes = 1 << 20

// comparisonRequest is the body of both comparison routes.
type comparisonRequest struct {
	URLsA       []string `json:"urls_a"`
	URLsB       []string `json:"urls_b"`
	Limit       int      `json:"limit,omitempty"`
	BatchSize   int      `json:"batch_size,omitempty"`
	WriteReport bool     `json:"write_report,omitempty"`
}

type comparisonResponse struct {
	Counters domain.Counters `json:"counters"`
	Lines    []string        `json:"lines"`
	Report   string          `json:"report"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (comparisonRequest, bool) {
	var req comparisonRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return comparisonRequest{}, false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return comparisonRequest{}, false
	}
	if req.Limit == 0 {
		req.Limit = s.opts.DefaultLimit
	}
	if req.BatchSize == 0 {
		req.BatchSize = s.opts.DefaultBatchSize
	}
	return req, true
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	slog.Info("comparison requested",
		"pairs_a", len(req.URLsA),
		"pairs_b", len(req.URLsB),
		"limit", req.Limit,
		"batch_size", req.BatchSize,
		// Empty unless OIDC is enabled.
		"user", UserFromContext(r.Context()),
	)

	eng := engine.New(s.opts.Orchestrator, engine.Config{Limit: req.Limit, BatchSize: req.BatchSize})
	result, err := eng.Run(r.Context(), req.URLsA, req.URLsB)
	if err != nil {
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			writeError(w, http.StatusBadRequest, cfgErr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, comparisonResponse{
		Counters: result.Counters,
		Lines:    result.Lines,
		Report:   report.Format(result),
	})
}

func (s *Server) handleStartWorkflow(w http.ResponseWriter, r *http.Request) {
	if s.opts.Querier == nil {
		writeError(w, http.StatusServiceUnavailable, "durable comparisons not configured")
		return
	}
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	if err := domain.ValidateRunSettings(req.Limit, req.BatchSize); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.opts.Querier.StartComparison(r.Context(), workflows.ComparisonInput{
		URLsA:       req.URLsA,
		URLsB:       req.URLsB,
		Limit:       req.Limit,
		BatchSize:   req.BatchSize,
		WriteReport: req.WriteReport,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"workflow_id": id})
}

func (s *Server) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	if s.opts.Querier == nil {
		writeError(w, http.StatusServiceUnavailable, "durable comparisons not configured")
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "workflow id required")
		return
	}

	state, err := s.opts.Querier.GetComparison(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
