package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"p9e.in/tms/config"
	"p9e.in/tms/models"
	"p9e.in/tms/pkg/tenderflow"
)

// UpsertInfoSheet creates or replaces the tender's info sheet. Saving
// moves the tender to Tender Info Filled and resets the team lead's
// review so the new content gets looked at again.
func UpsertInfoSheet(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var sheet models.TenderInfoSheet
	if err := json.NewDecoder(r.Body).Decode(&sheet); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var fields []fieldProblem
	switch strings.ToLower(sheet.TERecommendation) {
	case "go", "no-go":
		sheet.TERecommendation = strings.ToLower(sheet.TERecommendation)
	default:
		fields = append(fields, fieldProblem{Field: "teRecommendation", Message: `must be "go" or "no-go"`})
	}
	if sheet.TERecommendation == "no-go" && sheet.TERejectionReason == nil {
		fields = append(fields, fieldProblem{Field: "teRejectionReason", Message: "is required for a no-go recommendation"})
	}
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	userID := currentUserID(r)
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		tender, err := lockTender(tx, tenderID)
		if err != nil {
			return err
		}

		var existing models.TenderInfoSheet
		if err := tx.Where("tender_id = ?", tenderID).First(&existing).Error; err == nil {
			// Replace: child rows are rewritten wholesale.
			for _, child := range []interface{}{
				&models.TenderClient{}, &models.TenderTechnicalDocument{}, &models.TenderFinancialDocument{},
			} {
				if err := tx.Where("info_sheet_id = ?", existing.ID).Delete(child).Error; err != nil {
					return err
				}
			}
			sheet.ID = existing.ID
			sheet.CreatedAt = existing.CreatedAt
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		sheet.TenderID = tenderID
		for i := range sheet.Clients {
			sheet.Clients[i].InfoSheetID = sheet.ID
		}
		if err := tx.Save(&sheet).Error; err != nil {
			return err
		}

		if err := tx.Model(tender).Updates(map[string]interface{}{
			"tl_status":            tenderflow.TLPending,
			"tl_rejection_remarks": "",
		}).Error; err != nil {
			return err
		}

		if tender.StatusID == tenderflow.StatusInfoFilled {
			return nil
		}
		return workflow().recordStatusChange(tx, tender, tenderflow.StatusInfoFilled, "Tender info sheet filled", userID)
	})
	if err != nil {
		respondError(w, err)
		return
	}

	config.DB.Preload("Clients").Preload("TechnicalDocuments").Preload("FinancialDocuments").
		Where("tender_id = ?", tenderID).First(&sheet)
	respondJSON(w, http.StatusOK, sheet)
}

// GetInfoSheet returns the sheet with its client contacts and document
// checklists.
func GetInfoSheet(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var sheet models.TenderInfoSheet
	if err := config.DB.Preload("Clients").Preload("TechnicalDocuments").Preload("FinancialDocuments").
		Where("tender_id = ?", tenderID).First(&sheet).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sheet)
}

type ReviewInfoSheetRequest struct {
	Decision                   string   `json:"decision"` // approve | reject | incomplete
	Remarks                    string   `json:"remarks"`
	ApprovePqrSelection        []string `json:"approvePqrSelection"`
	ApproveFinanceDocSelection []string `json:"approveFinanceDocSelection"`
}

// ReviewInfoSheet is the team lead's verdict on a filled sheet. Approve
// moves the tender forward; reject and incomplete hand it back with
// remarks.
func ReviewInfoSheet(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var req ReviewInfoSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Decision != "approve" && strings.TrimSpace(req.Remarks) == "" {
		respondValidation(w, []fieldProblem{{Field: "remarks", Message: "are required when not approving"}})
		return
	}

	userID := currentUserID(r)
	var tender models.Tender
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		locked, err := lockTender(tx, tenderID)
		if err != nil {
			return err
		}
		tender = *locked

		var sheet models.TenderInfoSheet
		if err := tx.Where("tender_id = ?", tenderID).First(&sheet).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &tenderflow.GateError{
					Action: "review-info-sheet",
					Reason: "tender has no info sheet to review",
				}
			}
			return err
		}

		switch req.Decision {
		case "approve":
			updates := map[string]interface{}{
				"tl_status":            tenderflow.TLApproved,
				"tl_rejection_remarks": "",
			}
			if len(req.ApprovePqrSelection) > 0 {
				updates["approve_pqr_selection"] = pq.StringArray(req.ApprovePqrSelection)
			}
			if len(req.ApproveFinanceDocSelection) > 0 {
				updates["approve_finance_doc_selection"] = pq.StringArray(req.ApproveFinanceDocSelection)
			}
			if err := tx.Model(&tender).Updates(updates).Error; err != nil {
				return err
			}
			return workflow().recordStatusChange(tx, &tender, tenderflow.StatusInfoApproved, "Info sheet approved", userID)

		case "reject":
			if err := tx.Model(&tender).Updates(map[string]interface{}{
				"tl_status":            tenderflow.TLRejected,
				"tl_rejection_remarks": req.Remarks,
			}).Error; err != nil {
				return err
			}
			return workflow().recordStatusChange(tx, &tender, tenderflow.StatusDidNotBid, "Info sheet rejected: "+req.Remarks, userID)

		case "incomplete":
			if err := tx.Model(&tender).Updates(map[string]interface{}{
				"tl_status":            tenderflow.TLInfoIncomplete,
				"tl_rejection_remarks": req.Remarks,
			}).Error; err != nil {
				return err
			}
			return workflow().recordStatusChange(tx, &tender, tenderflow.StatusInfoIncomplete, "Info sheet incomplete: "+req.Remarks, userID)

		default:
			return &tenderflow.GateError{
				Action: "review-info-sheet",
				Reason: "decision must be approve, reject or incomplete",
			}
		}
	})
	if err != nil {
		respondError(w, err)
		return
	}

	config.DB.Preload("Status").First(&tender, "id = ?", tenderID)
	respondJSON(w, http.StatusOK, tender)
}
