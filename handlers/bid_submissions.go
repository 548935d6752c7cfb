package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lib/pq"

	"p9e.in/tms/config"
	"p9e.in/tms/models"
	"p9e.in/tms/pkg/tenderflow"
)

type SubmitBidRequest struct {
	SubmissionDatetime string   `json:"submissionDatetime"`
	SubmittedDocs      []string `json:"submittedDocs"`
	ProofOfSubmission  string   `json:"proofOfSubmission"`
	FinalPriceSS       string   `json:"finalPriceSs"`
	FinalBiddingPrice  *float64 `json:"finalBiddingPrice"`
}

// SubmitBid records the bid against an approved costing sheet.
func SubmitBid(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var req SubmitBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var fields []fieldProblem
	when := time.Now()
	if req.SubmissionDatetime != "" {
		parsed, err := parseDueDate(req.SubmissionDatetime)
		if err != nil {
			fields = append(fields, fieldProblem{Field: "submissionDatetime", Message: err.Error()})
		} else {
			when = parsed
		}
	}
	if req.ProofOfSubmission == "" {
		fields = append(fields, fieldProblem{Field: "proofOfSubmission", Message: "is required"})
	}
	if req.FinalPriceSS == "" {
		fields = append(fields, fieldProblem{Field: "finalPriceSs", Message: "is required"})
	}
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	userID := currentUserID(r)
	if userID == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bid, err := workflow().SubmitBid(tenderID, SubmitBidInput{
		SubmissionDatetime: when,
		SubmittedDocs:      req.SubmittedDocs,
		ProofOfSubmission:  req.ProofOfSubmission,
		FinalPriceSS:       req.FinalPriceSS,
		FinalBiddingPrice:  req.FinalBiddingPrice,
		SubmittedBy:        *userID,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bid)
}

type MarkMissedRequest struct {
	ReasonForMissing   string `json:"reasonForMissing"`
	PreventionMeasures string `json:"preventionMeasures"`
	ProcessImprovement string `json:"processImprovement"`
}

// MarkTenderMissed records that the bid never went out, with the
// post-mortem narratives.
func MarkTenderMissed(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var req MarkMissedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID := currentUserID(r)
	if userID == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bid, err := workflow().MarkMissed(tenderID, MarkMissedInput{
		ReasonForMissing:   req.ReasonForMissing,
		PreventionMeasures: req.PreventionMeasures,
		ProcessImprovement: req.ProcessImprovement,
		SubmittedBy:        *userID,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bid)
}

type UpdateBidRequest struct {
	SubmittedDocs     []string `json:"submittedDocs"`
	ProofOfSubmission *string  `json:"proofOfSubmission"`
	FinalPriceSS      *string  `json:"finalPriceSs"`
	FinalBiddingPrice *float64 `json:"finalBiddingPrice"`
}

// UpdateBidSubmission corrects the record of an already submitted bid
// (wrong screenshot, missing document). Pending and missed records are
// not editable this way.
func UpdateBidSubmission(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var req UpdateBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var bid models.BidSubmission
	if err := config.DB.Where("tender_id = ?", tenderID).First(&bid).Error; err != nil {
		respondError(w, err)
		return
	}
	if gateErr := tenderflow.CanEditBid(bid.Status); gateErr != nil {
		respondError(w, gateErr)
		return
	}

	// A submitted bid always keeps its proof and price screenshot;
	// corrections may replace them but never blank them.
	var fields []fieldProblem
	if req.ProofOfSubmission != nil && *req.ProofOfSubmission == "" {
		fields = append(fields, fieldProblem{Field: "proofOfSubmission", Message: "cannot be cleared"})
	}
	if req.FinalPriceSS != nil && *req.FinalPriceSS == "" {
		fields = append(fields, fieldProblem{Field: "finalPriceSs", Message: "cannot be cleared"})
	}
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	updates := map[string]interface{}{}
	if req.SubmittedDocs != nil {
		updates["submitted_docs"] = pq.StringArray(req.SubmittedDocs)
	}
	if req.ProofOfSubmission != nil {
		updates["proof_of_submission"] = *req.ProofOfSubmission
	}
	if req.FinalPriceSS != nil {
		updates["final_price_ss"] = *req.FinalPriceSS
	}
	if req.FinalBiddingPrice != nil {
		updates["final_bidding_price"] = *req.FinalBiddingPrice
	}
	if len(updates) > 0 {
		if err := config.DB.Model(&bid).Updates(updates).Error; err != nil {
			respondError(w, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, bid)
}

// GetBidSubmission returns the tender's bid record.
func GetBidSubmission(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var bid models.BidSubmission
	if err := config.DB.Where("tender_id = ?", tenderID).First(&bid).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bid)
}
