package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"p9e.in/tms/config"
	"p9e.in/tms/models"
	"p9e.in/tms/pkg/tenderflow"
)

type SaveCostingSheetRequest struct {
	SheetURL   string   `json:"sheetUrl"`
	FinalPrice *float64 `json:"finalPrice"`
}

// SaveCostingSheet creates or updates the draft. An approved sheet is
// frozen; a rejected one goes back to draft on edit.
func SaveCostingSheet(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var req SaveCostingSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.SheetURL) == "" {
		respondValidation(w, []fieldProblem{{Field: "sheetUrl", Message: "is required"}})
		return
	}

	var tender models.Tender
	if err := config.DB.First(&tender, "id = ? AND delete_status = 0", tenderID).Error; err != nil {
		respondError(w, err)
		return
	}

	var sheet models.CostingSheet
	err = config.DB.Where("tender_id = ?", tenderID).First(&sheet).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		respondError(w, err)
		return
	}
	if err == nil {
		switch sheet.Status {
		case tenderflow.CostingApproved:
			respondError(w, &tenderflow.GateError{
				Action: "edit-costing",
				Reason: "an approved costing sheet cannot be edited",
			})
			return
		case tenderflow.CostingSubmitted:
			respondError(w, &tenderflow.GateError{
				Action: "edit-costing",
				Reason: "a submitted costing sheet is awaiting review",
			})
			return
		}
	} else {
		sheet = models.CostingSheet{TenderID: tenderID}
	}

	sheet.SheetURL = req.SheetURL
	sheet.FinalPrice = req.FinalPrice
	sheet.Status = tenderflow.CostingDraft
	sheet.ReviewRemarks = ""
	if err := config.DB.Save(&sheet).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sheet)
}

// GetCostingSheet returns the tender's costing sheet.
func GetCostingSheet(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var sheet models.CostingSheet
	if err := config.DB.Where("tender_id = ?", tenderID).First(&sheet).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sheet)
}

// SubmitCostingSheet sends a draft (or reworked rejected) sheet for team
// lead review and moves the tender to Price Bid Ready.
func SubmitCostingSheet(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	userID := currentUserID(r)
	var sheet models.CostingSheet
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		tender, err := lockTender(tx, tenderID)
		if err != nil {
			return err
		}
		if err := tx.Where("tender_id = ?", tenderID).First(&sheet).Error; err != nil {
			return err
		}
		if sheet.Status != tenderflow.CostingDraft && sheet.Status != tenderflow.CostingRejected {
			return &tenderflow.GateError{
				Action: "submit-costing",
				Reason: "only a draft or rejected costing sheet can be submitted",
			}
		}

		now := models.JSONTime(time.Now())
		sheet.Status = tenderflow.CostingSubmitted
		sheet.SubmittedBy = userID
		sheet.SubmittedAt = &now
		if err := tx.Save(&sheet).Error; err != nil {
			return err
		}

		if tender.StatusID == tenderflow.StatusPriceBidReady {
			return nil
		}
		return workflow().recordStatusChange(tx, tender, tenderflow.StatusPriceBidReady, "Costing sheet submitted for approval", userID)
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sheet)
}

type ReviewCostingRequest struct {
	Remarks string `json:"remarks"`
}

// ApproveCostingSheet approves a submitted sheet. Team lead only.
func ApproveCostingSheet(w http.ResponseWriter, r *http.Request) {
	reviewCostingSheet(w, r, true)
}

// RejectCostingSheet sends a submitted sheet back with remarks.
func RejectCostingSheet(w http.ResponseWriter, r *http.Request) {
	reviewCostingSheet(w, r, false)
}

func reviewCostingSheet(w http.ResponseWriter, r *http.Request, approve bool) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var req ReviewCostingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !approve && strings.TrimSpace(req.Remarks) == "" {
		respondValidation(w, []fieldProblem{{Field: "remarks", Message: "are required on rejection"}})
		return
	}

	reviewer := currentUserID(r)
	if reviewer == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var sheet *models.CostingSheet
	if approve {
		sheet, err = workflow().ApproveCosting(tenderID, *reviewer, req.Remarks)
	} else {
		sheet, err = workflow().RejectCosting(tenderID, *reviewer, req.Remarks)
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sheet)
}
