package handlers

import (
	"encoding/json"
	"net/http"

	"p9e.in/tms/config"
	"p9e.in/tms/models"
)

type RecordResultRequest struct {
	Status    string   `json:"status"`
	L1Vendor  string   `json:"l1Vendor"`
	L1Price   *float64 `json:"l1Price"`
	OurRank   *int     `json:"ourRank"`
	ResultDoc string   `json:"resultDoc"`
	Remarks   string   `json:"remarks"`
}

// RecordTenderResult upserts the outcome of a submitted bid. Won, lost
// and disqualified results also move the tender to its terminal status.
func RecordTenderResult(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var req RecordResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID := currentUserID(r)
	if userID == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result, err := workflow().RecordResult(tenderID, RecordResultInput{
		Status:     req.Status,
		L1Vendor:   req.L1Vendor,
		L1Price:    req.L1Price,
		OurRank:    req.OurRank,
		ResultDoc:  req.ResultDoc,
		Remarks:    req.Remarks,
		UploadedBy: *userID,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetTenderResult returns the recorded outcome for a tender.
func GetTenderResult(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var result models.TenderResult
	if err := config.DB.Where("tender_id = ?", tenderID).First(&result).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
