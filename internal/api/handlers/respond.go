package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/lifedash/internal/service"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

var badRequestErrors = []error{
	service.ErrMilestoneTitleEmpty,
	service.ErrInvalidMilestoneType,
	service.ErrInvalidMilestoneStatus,
	service.ErrInvalidCompletion,
	service.ErrInvalidDate,
	service.ErrInvalidTarget,
	service.ErrInvalidDimension,
	service.ErrInvalidOutcome,
	service.ErrInvalidEnergy,
	service.ErrHabitNameEmpty,
	service.ErrInvalidFinance,
}

var notFoundErrors = []error{
	service.ErrMilestoneNotFound,
	service.ErrHabitNotFound,
	service.ErrUnknownLayer,
}

// writeServiceError maps service errors onto status codes. Anything
// unrecognised becomes a 500 carrying msg rather than the raw error.
func writeServiceError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrMilestoneExists):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, service.ErrAlignmentUnavailable):
		writeError(w, http.StatusServiceUnavailable, service.ErrAlignmentUnavailable.Error())
		return
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
	}
	writeError(w, http.StatusInternalServerError, msg)
}
