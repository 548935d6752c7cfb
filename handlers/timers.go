package handlers

import (
	"net/http"
	"time"

	"p9e.in/tms/config"
	"p9e.in/tms/models"
	"p9e.in/tms/pkg/tenderflow"
	"p9e.in/tms/pkg/timer"
)

// StageTimer is one stage's countdown as served to dashboards.
type StageTimer struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Order int    `json:"order"`
	timer.State
}

// GetTenderTimers computes the per-stage countdowns for one tender.
// Timers are derived on every read from the tender's current rows, so
// there is no stored clock to drift.
func GetTenderTimers(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var tender models.Tender
	if err := config.DB.First(&tender, "id = ? AND delete_status = 0", tenderID).Error; err != nil {
		respondError(w, err)
		return
	}

	done := stageCompletion(&tender)
	// A tender parked in a terminal status stops every open clock.
	paused := config.StatusRegistry.IsTerminal(tender.StatusID)

	now := time.Now()
	timers := make([]StageTimer, 0, len(timer.Stages))
	for _, spec := range timer.Stages {
		predDone := spec.Predecessor == "" || done[spec.Predecessor]
		state := timer.Compute(timer.Input{
			DueDate:         time.Time(tender.DueDate),
			OffsetHours:     spec.OffsetHours,
			AllocatedHours:  spec.AllocatedHours,
			Now:             now,
			PredecessorDone: predDone,
			Completed:       done[spec.Key],
			Paused:          paused,
		})
		timers = append(timers, StageTimer{
			Key:   spec.Key,
			Name:  spec.Name,
			Order: spec.Order,
			State: state,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tenderId": tender.ID,
		"dueDate":  tender.DueDate,
		"timers":   timers,
	})
}

// stageCompletion derives which workflow stages are finished from the
// tender's related rows.
func stageCompletion(tender *models.Tender) map[string]bool {
	db := config.DB
	done := make(map[string]bool, len(timer.Stages))

	var sheet models.TenderInfoSheet
	hasSheet := db.Where("tender_id = ?", tender.ID).First(&sheet).Error == nil
	done["tender_info"] = hasSheet
	done["tender_approval"] = hasSheet && tender.TLStatus == tenderflow.TLApproved

	var rfqCount int64
	db.Model(&models.Rfq{}).Where("tender_id = ?", tender.ID).Count(&rfqCount)
	done["rfq_sent"] = rfqCount > 0

	var emdCount int64
	db.Model(&models.PaymentRequest{}).
		Where("tender_id = ? AND purpose = ?", tender.ID, "EMD").Count(&emdCount)
	done["emd_requested"] = emdCount > 0

	// Physical docs: not required counts as done; otherwise the tender
	// must have passed through the submitted status.
	if hasSheet && sheet.PhysicalDocsRequired == "no" {
		done["physical_docs"] = true
	} else {
		var submitted int64
		db.Model(&models.TenderStatusHistory{}).
			Where("tender_id = ? AND new_status = ?", tender.ID, tenderflow.StatusPhysicalDocsSubmitted).
			Count(&submitted)
		done["physical_docs"] = submitted > 0
	}

	var costing models.CostingSheet
	hasCosting := db.Where("tender_id = ?", tender.ID).First(&costing).Error == nil
	done["costing_sheet"] = hasCosting &&
		(costing.Status == tenderflow.CostingSubmitted || costing.Status == tenderflow.CostingApproved)
	done["costing_approval"] = hasCosting && costing.Status == tenderflow.CostingApproved

	var bid models.BidSubmission
	hasBid := db.Where("tender_id = ?", tender.ID).First(&bid).Error == nil
	done["bid_submission"] = hasBid && bid.Status == tenderflow.BidSubmitted

	var result models.TenderResult
	hasResult := db.Where("tender_id = ?", tender.ID).First(&result).Error == nil
	done["tender_result"] = hasResult && result.Status != tenderflow.ResultAwaited &&
		result.Status != tenderflow.ResultUnderEvaluation

	return done
}
