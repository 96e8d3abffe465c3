package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/TiagoFrencia/smartcommerce-b2b/internal/apperr"
)

type chatRequest struct {
	OrderIDs []int64 `json:"orderIds"`
	Message  string  `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type simulationRequest struct {
	ClientID               int64 `json:"clientId"`
	DiscountPercentage     int   `json:"discountPercentage"`
	ContractDurationMonths int   `json:"contractDurationMonths"`
}

type emailDraftRequest struct {
	ClientID       int64  `json:"clientId"`
	Recommendation string `json:"recommendation"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var orderIDs []int64
	if err := json.NewDecoder(r.Body).Decode(&orderIDs); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.ai.Analyze(r.Context(), orderIDs)
	if err != nil {
		s.writeTaskError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := s.ai.Chat(r.Context(), req.OrderIDs, req.Message)
	if err != nil {
		s.writeTaskError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.ai.Simulate(r.Context(), req.ClientID, req.DiscountPercentage, req.ContractDurationMonths)
	if err != nil {
		s.writeTaskError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDraftEmail(w http.ResponseWriter, r *http.Request) {
	var req emailDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft, err := s.ai.DraftEmail(r.Context(), req.ClientID, req.Recommendation)
	if err != nil {
		s.writeTaskError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	clientID, err := strconv.ParseInt(r.PathValue("clientId"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	history, err := s.ai.History(r.Context(), clientID)
	if err != nil {
		s.writeTaskError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	clientID, err := strconv.ParseInt(r.PathValue("clientId"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	summary, err := s.analytics.Summary(r.Context(), clientID)
	if err != nil {
		s.writeTaskError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

// writeTaskError maps the pipeline error taxonomy onto HTTP statuses.
func (s *Server) writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "not found")
	case apperr.IsValidation(err):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case apperr.IsTransport(err), apperr.IsMalformed(err):
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
