package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"p9e.in/tms/pkg/tenderflow"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "gate failure is 422",
			err:      &tenderflow.GateError{Action: "submit-bid", Reason: "costing sheet not approved"},
			wantCode: 422,
		},
		{
			name:     "write conflict is 409",
			err:      &tenderflow.ConflictError{Entity: "tender status", Expected: "New", Actual: "Bid Submitted"},
			wantCode: 409,
		},
		{
			name:     "missing row is 404",
			err:      gorm.ErrRecordNotFound,
			wantCode: 404,
		},
		{
			name:     "field problems are 400",
			err:      &narrativeError{fields: []fieldProblem{{Field: "reasonForMissing", Message: "must be at least 10 characters"}}},
			wantCode: 400,
		},
		{
			name:     "anything else is 500",
			err:      errors.New("connection reset"),
			wantCode: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tt.err)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]interface{}
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body, "error")
		})
	}
}

func TestRespondErrorConflictBody(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, &tenderflow.ConflictError{
		Entity:   "costing sheet",
		Expected: "Approved",
		Actual:   "Rejected",
	})

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "costing sheet", body["entity"])
	assert.Equal(t, "Approved", body["expected"])
	assert.Equal(t, "Rejected", body["actual"])
}
