package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p9e.in/tms/middleware"
	"p9e.in/tms/models"
	"p9e.in/tms/pkg/instruments"
	"p9e.in/tms/pkg/tenderflow"
)

func bidRouter() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/tenders/{id}/bid-submission", middleware.JWTMiddleware(http.HandlerFunc(SubmitBid))).Methods("POST")
	r.Handle("/tenders/{id}/bid-submission", middleware.JWTMiddleware(http.HandlerFunc(UpdateBidSubmission))).Methods("PATCH")
	return r
}

func bidRequest(t *testing.T, method, path string, payload map[string]any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	token, err := middleware.GenerateToken(uuid.NewString(), models.RoleTeamExecutive, "tester", "9000000001", "north")
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestSubmitBidRequiresBothDocuments(t *testing.T) {
	openDashboardDB(t)
	router := bidRouter()
	path := "/tenders/" + uuid.NewString() + "/bid-submission"

	tests := []struct {
		name    string
		payload map[string]any
		field   string
	}{
		{"missing price screenshot", map[string]any{"proofOfSubmission": "docs/proof.pdf"}, "finalPriceSs"},
		{"missing proof", map[string]any{"finalPriceSs": "docs/price.png"}, "proofOfSubmission"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, bidRequest(t, http.MethodPost, path, tt.payload))
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var resp struct {
				Fields []instruments.FieldError `json:"fields"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Len(t, resp.Fields, 1)
			assert.Equal(t, tt.field, resp.Fields[0].Field)
		})
	}
}

func TestResubmittingBidIsGated(t *testing.T) {
	db := openDashboardDB(t)
	router := bidRouter()

	tenderID := seedTender(t, db, tenderflow.StatusBidSubmitted, "north")
	seedCosting(t, db, tenderID, tenderflow.CostingApproved)
	seedBid(t, db, tenderID, tenderflow.BidSubmitted)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, bidRequest(t, http.MethodPost, "/tenders/"+tenderID.String()+"/bid-submission", map[string]any{
		"proofOfSubmission": "docs/proof-v2.pdf",
		"finalPriceSs":      "docs/price-v2.png",
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "submit-bid")
}

func TestUpdateBidKeepsDocuments(t *testing.T) {
	db := openDashboardDB(t)
	router := bidRouter()

	tenderID := seedTender(t, db, tenderflow.StatusBidSubmitted, "north")
	require.NoError(t, db.Create(&bidRow{
		ID:                uuid.New(),
		TenderID:          tenderID,
		Status:            tenderflow.BidSubmitted,
		ProofOfSubmission: "docs/proof.pdf",
		FinalPriceSS:      "docs/price.png",
	}).Error)
	path := "/tenders/" + tenderID.String() + "/bid-submission"

	for _, field := range []string{"proofOfSubmission", "finalPriceSs"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, bidRequest(t, http.MethodPatch, path, map[string]any{field: ""}))
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

		var stored bidRow
		require.NoError(t, db.Where("tender_id = ?", tenderID).First(&stored).Error)
		assert.Equal(t, "docs/proof.pdf", stored.ProofOfSubmission)
		assert.Equal(t, "docs/price.png", stored.FinalPriceSS)
	}

	// A replacement value is fine.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, bidRequest(t, http.MethodPatch, path, map[string]any{"proofOfSubmission": "docs/proof-v2.pdf"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stored bidRow
	require.NoError(t, db.Where("tender_id = ?", tenderID).First(&stored).Error)
	assert.Equal(t, "docs/proof-v2.pdf", stored.ProofOfSubmission)
}

func TestUpdateBidRejectsPendingRecord(t *testing.T) {
	db := openDashboardDB(t)
	router := bidRouter()

	tenderID := seedTender(t, db, tenderflow.StatusPriceBidApproved, "north")
	seedBid(t, db, tenderID, tenderflow.BidSubmissionPending)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, bidRequest(t, http.MethodPatch, "/tenders/"+tenderID.String()+"/bid-submission", map[string]any{
		"finalBiddingPrice": 125000.0,
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
}
