package handlers

import (
	"net/http"
	"strconv"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/Harshitk-cp/lifedash/internal/records"
	"github.com/Harshitk-cp/lifedash/internal/service"
	"github.com/go-chi/chi/v5"
)

type MilestoneHandler struct {
	svc *service.VisionService
}

func NewMilestoneHandler(svc *service.VisionService) *MilestoneHandler {
	return &MilestoneHandler{svc: svc}
}

type milestoneListResponse struct {
	Milestones []domain.Milestone `json:"milestones"`
	Count      int                `json:"count"`
}

type commitmentResponse struct {
	MilestoneID string `json:"milestoneId"`
	Committed   bool   `json:"committed"`
}

func (h *MilestoneHandler) List(w http.ResponseWriter, r *http.Request) {
	includeArchived, _ := strconv.ParseBool(r.URL.Query().Get("archived"))

	milestones, err := h.svc.ListMilestones(r.Context(), includeArchived)
	if err != nil {
		writeServiceError(w, err, "failed to list milestones")
		return
	}
	writeJSON(w, http.StatusOK, milestoneListResponse{Milestones: milestones, Count: len(milestones)})
}

func (h *MilestoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.Milestone
	if !decodeBody(w, r, &req) {
		return
	}

	m, err := h.svc.CreateMilestone(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "failed to create milestone")
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *MilestoneHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.GetMilestone(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "failed to get milestone")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MilestoneHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch records.MilestonePatch
	if !decodeBody(w, r, &patch) {
		return
	}

	m, err := h.svc.UpdateMilestone(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeServiceError(w, err, "failed to update milestone")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MilestoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteMilestone(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "failed to delete milestone")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MilestoneHandler) Archive(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.ArchiveMilestone(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "failed to archive milestone")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MilestoneHandler) Restore(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.RestoreMilestone(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "failed to restore milestone")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// ToggleCommitment adds the milestone to this week's commitments, or removes
// it when it is already there.
func (h *MilestoneHandler) ToggleCommitment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	committed, err := h.svc.ToggleCommitment(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to toggle commitment")
		return
	}
	writeJSON(w, http.StatusOK, commitmentResponse{MilestoneID: id, Committed: committed})
}

func (h *MilestoneHandler) ClearCommitments(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearCommitments(r.Context()); err != nil {
		writeServiceError(w, err, "failed to clear commitments")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
