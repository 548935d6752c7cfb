package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"
	"p9e.in/tms/pkg/tenderflow"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps domain errors to HTTP statuses: gate failures are
// 422 (the request was understood but the entity state forbids it),
// write conflicts are 409, missing rows are 404, anything else is 500.
func respondError(w http.ResponseWriter, err error) {
	var fieldsErr *narrativeError
	if errors.As(err, &fieldsErr) {
		respondValidation(w, fieldsErr.Fields())
		return
	}

	var gateErr *tenderflow.GateError
	if errors.As(err, &gateErr) {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  gateErr.Error(),
			"action": gateErr.Action,
			"reason": gateErr.Reason,
		})
		return
	}

	var conflictErr *tenderflow.ConflictError
	if errors.As(err, &conflictErr) {
		respondJSON(w, http.StatusConflict, map[string]interface{}{
			"error":    conflictErr.Error(),
			"entity":   conflictErr.Entity,
			"expected": conflictErr.Expected,
			"actual":   conflictErr.Actual,
		})
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondJSON(w, http.StatusNotFound, map[string]interface{}{"error": "not found"})
		return
	}

	respondJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
}

// respondValidation reports per-field problems with a 400.
func respondValidation(w http.ResponseWriter, fields interface{}) {
	respondJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "validation failed",
		"fields": fields,
	})
}
