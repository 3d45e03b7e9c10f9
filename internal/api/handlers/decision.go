package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/Harshitk-cp/lifedash/internal/service"
)

type DecisionHandler struct {
	svc *service.VisionService
}

func NewDecisionHandler(svc *service.VisionService) *DecisionHandler {
	return &DecisionHandler{svc: svc}
}

type decisionListResponse struct {
	Decisions []domain.Decision `json:"decisions"`
	Count     int               `json:"count"`
}

func (h *DecisionHandler) List(w http.ResponseWriter, r *http.Request) {
	decisions, err := h.svc.ListDecisions(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to load decisions")
		return
	}
	writeJSON(w, http.StatusOK, decisionListResponse{Decisions: decisions, Count: len(decisions)})
}

func (h *DecisionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.DecisionInput
	if !decodeBody(w, r, &req) {
		return
	}

	d, err := h.svc.LogDecision(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "failed to log decision")
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *DecisionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearDecisions(r.Context()); err != nil {
		writeServiceError(w, err, "failed to clear decisions")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
