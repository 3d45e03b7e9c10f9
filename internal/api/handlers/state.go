package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/Harshitk-cp/lifedash/internal/service"
	"github.com/go-chi/chi/v5"
)

// StateHandler serves the derived layers, snapshots and admin actions.
type StateHandler struct {
	svc *service.VisionService
}

func NewStateHandler(svc *service.VisionService) *StateHandler {
	return &StateHandler{svc: svc}
}

type stateResponse struct {
	Layer string `json:"layer"`
	State any    `json:"state"`
}

type snapshotListResponse struct {
	Snapshots []domain.Snapshot `json:"snapshots"`
	Count     int               `json:"count"`
}

func (h *StateHandler) Layer(w http.ResponseWriter, r *http.Request) {
	layer := chi.URLParam(r, "layer")
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	v, err := h.svc.State(r.Context(), layer, force)
	if err != nil {
		writeServiceError(w, err, "failed to compute state")
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{Layer: layer, State: v})
}

func (h *StateHandler) RecordSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.ComputeAndRecord(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to record snapshot")
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (h *StateHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	history, err := h.svc.History(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to load snapshots")
		return
	}
	writeJSON(w, http.StatusOK, snapshotListResponse{Snapshots: history, Count: len(history)})
}

func (h *StateHandler) PreviewSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Preview(r.Context()))
}

// WeeklyInsights accepts an optional date=YYYY-MM-DD selecting the week.
func (h *StateHandler) WeeklyInsights(w http.ResponseWriter, r *http.Request) {
	now := h.svc.Now()
	ref := now
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, now.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		ref = day.Add(12 * time.Hour)
	}

	insights, err := h.svc.WeeklyInsights(r.Context(), ref)
	if err != nil {
		writeServiceError(w, err, "failed to compute insights")
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

func (h *StateHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		writeServiceError(w, err, "failed to reset records")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StateHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Seed(r.Context()); err != nil {
		writeServiceError(w, err, "failed to seed records")
		return
	}
	vs, err := h.svc.GetVision(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to load vision")
		return
	}
	writeJSON(w, http.StatusCreated, vs)
}
