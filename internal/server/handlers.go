package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/leapstack-labs/minilang/internal/history"
	"github.com/leapstack-labs/minilang/pkg/analyzer"
	"github.com/leapstack-labs/minilang/pkg/typo"
)

type runRequest struct {
	Code string `json:"code"`
	// AutoCorrect defaults to true when omitted.
	AutoCorrect *bool `json:"auto_correct"`
}

type runResponse struct {
	*analyzer.Result
	Details   []string `json:"details"`
	RequestID string   `json:"request_id,omitempty"`

	// legacy names for original_input and corrected_text
	InputCode           string `json:"input_code"`
	SuggestedCorrection string `json:"suggested_correction"`
}

type addTypoRequest struct {
	Typo       string `json:"typo"`
	Correction string `json:"correction"`
}

type messageResponse struct {
	Status  analyzer.Status `json:"status"`
	Message string          `json:"message"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		res := &analyzer.Result{
			Status:           analyzer.StatusError,
			StructuralErrors: []string{},
			Corrections:      []typo.Correction{},
			ParserError:      fmt.Sprintf("invalid request body: %v", err),
		}
		s.writeJSON(w, decodeStatus(err), s.runResponse(r, res))
		return
	}

	autoCorrect := true
	if req.AutoCorrect != nil {
		autoCorrect = *req.AutoCorrect
	}

	res := s.analyzer.Analyze(r.Context(), req.Code, autoCorrect)
	if s.history != nil {
		if _, err := s.history.Record(r.Context(), history.SourceHTTP, res); err != nil {
			s.logger.Warn("failed to record analysis", "error", err)
		}
	}
	s.writeJSON(w, http.StatusOK, s.runResponse(r, res))
}

func (s *Server) runResponse(r *http.Request, res *analyzer.Result) runResponse {
	return runResponse{
		Result:              res,
		Details:             res.Details(),
		RequestID:           middleware.GetReqID(r.Context()),
		InputCode:           res.OriginalInput,
		SuggestedCorrection: res.CorrectedText,
	}
}

func (s *Server) handleAddTypo(w http.ResponseWriter, r *http.Request) {
	var req addTypoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, decodeStatus(err), messageResponse{Status: analyzer.StatusError, Message: "Invalid input."})
		return
	}

	if !s.analyzer.AddTypo(req.Typo, req.Correction) {
		s.writeJSON(w, http.StatusOK, messageResponse{Status: analyzer.StatusError, Message: "Invalid input."})
		return
	}

	s.logger.Info("typo added", "typo", req.Typo, "correction", req.Correction)
	s.writeJSON(w, http.StatusOK, messageResponse{
		Status:  analyzer.StatusSuccess,
		Message: fmt.Sprintf("Added typo '%s' with correction '%s'.", req.Typo, req.Correction),
	})
}

func (s *Server) handleTypos(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.analyzer.Dictionary().Entries())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

func decodeStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
