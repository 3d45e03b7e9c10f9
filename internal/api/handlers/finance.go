package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Harshitk-cp/lifedash/internal/domain"
	"github.com/Harshitk-cp/lifedash/internal/service"
	"github.com/go-chi/chi/v5"
)

type FinanceHandler struct {
	svc *service.VisionService
}

func NewFinanceHandler(svc *service.VisionService) *FinanceHandler {
	return &FinanceHandler{svc: svc}
}

func (h *FinanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.GetFinance(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to load finance snapshot")
		return
	}
	if f == nil {
		writeError(w, http.StatusNotFound, "no finance snapshot recorded")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FinanceHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req domain.FinanceSnapshot
	if !decodeBody(w, r, &req) {
		return
	}

	f, err := h.svc.SaveFinance(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "failed to save finance snapshot")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

type HabitHandler struct {
	svc *service.VisionService
}

func NewHabitHandler(svc *service.VisionService) *HabitHandler {
	return &HabitHandler{svc: svc}
}

type createHabitRequest struct {
	Name string `json:"name"`
}

type toggleHabitRequest struct {
	Day string `json:"day"`
}

type habitListResponse struct {
	Habits []domain.Habit `json:"habits"`
	Count  int            `json:"count"`
}

func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	habits, err := h.svc.ListHabits(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to list habits")
		return
	}
	writeJSON(w, http.StatusOK, habitListResponse{Habits: habits, Count: len(habits)})
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	habit, err := h.svc.CreateHabit(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err, "failed to create habit")
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

// Toggle flips a habit for the day given in the body, or today when the
// body is empty.
func (h *HabitHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleHabitRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	habit, err := h.svc.ToggleHabit(r.Context(), chi.URLParam(r, "id"), req.Day)
	if err != nil {
		writeServiceError(w, err, "failed to toggle habit")
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteHabit(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "failed to delete habit")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
