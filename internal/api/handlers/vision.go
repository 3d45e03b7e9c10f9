package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/Harshitk-cp/lifedash/internal/service"
	"github.com/go-chi/chi/v5"
)

type VisionHandler struct {
	svc *service.VisionService
}

func NewVisionHandler(svc *service.VisionService) *VisionHandler {
	return &VisionHandler{svc: svc}
}

type northStarRequest struct {
	NorthStar string `json:"northStar"`
}

type themesRequest struct {
	Themes []domain.Theme `json:"themes"`
}

type targetRequest struct {
	Value *float64 `json:"value"`
}

func (h *VisionHandler) Get(w http.ResponseWriter, r *http.Request) {
	vs, err := h.svc.GetVision(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to load vision")
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

func (h *VisionHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req domain.VisionState
	if !decodeBody(w, r, &req) {
		return
	}

	vs, err := h.svc.SaveVision(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "failed to save vision")
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

func (h *VisionHandler) SetNorthStar(w http.ResponseWriter, r *http.Request) {
	var req northStarRequest
	if !decodeBody(w, r, &req) {
		return
	}

	vs, err := h.svc.SetNorthStar(r.Context(), req.NorthStar)
	if err != nil {
		writeServiceError(w, err, "failed to set north star")
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

func (h *VisionHandler) SetThemes(w http.ResponseWriter, r *http.Request) {
	var req themesRequest
	if !decodeBody(w, r, &req) {
		return
	}

	vs, err := h.svc.SetThemes(r.Context(), req.Themes)
	if err != nil {
		writeServiceError(w, err, "failed to set themes")
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

func (h *VisionHandler) SetTarget(w http.ResponseWriter, r *http.Request) {
	var req targetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	vs, err := h.svc.SetTarget(r.Context(), chi.URLParam(r, "dimension"), *req.Value)
	if err != nil {
		writeServiceError(w, err, "failed to set target")
		return
	}
	writeJSON(w, http.StatusOK, vs)
}
