package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"p9e.in/tms/config"
	"p9e.in/tms/models"
	"p9e.in/tms/pkg/instruments"
	"p9e.in/tms/pkg/tenderflow"
)

type CreatePaymentRequestBody struct {
	Purpose        string         `json:"purpose"`
	AmountRequired float64        `json:"amountRequired"`
	DueDate        string         `json:"dueDate"`
	Remarks        string         `json:"remarks"`
	InstrumentType string         `json:"instrumentType"`
	Details        map[string]any `json:"details"`
}

// CreatePaymentRequest raises a payment ask (EMD, tender fee or
// processing fee) with its first instrument. Instrument details are
// checked against the per-type rule table before anything is written.
func CreatePaymentRequest(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var req CreatePaymentRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.AmountRequired <= 0 {
		respondValidation(w, []fieldProblem{{Field: "amountRequired", Message: "must be greater than zero"}})
		return
	}

	purpose := instruments.Purpose(req.Purpose)
	typ, ok := instruments.NormalizeMode(req.InstrumentType)
	if !ok {
		respondValidation(w, []fieldProblem{{Field: "instrumentType", Message: "unknown instrument type"}})
		return
	}

	fieldErrs, err := instruments.Validate(purpose, typ, req.Details)
	if err != nil {
		respondValidation(w, []fieldProblem{{Field: "purpose", Message: err.Error()}})
		return
	}
	if len(fieldErrs) > 0 {
		respondValidation(w, fieldErrs)
		return
	}

	initial, _ := instruments.InitialStatus(typ)
	detailsJSON, err := json.Marshal(req.Details)
	if err != nil {
		http.Error(w, "Invalid instrument details", http.StatusBadRequest)
		return
	}

	user := currentUserName(r)
	var request models.PaymentRequest
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		tender, err := lockTender(tx, tenderID)
		if err != nil {
			return err
		}

		request = models.PaymentRequest{
			TenderID:       tenderID,
			Purpose:        string(purpose),
			AmountRequired: req.AmountRequired,
			RequestedBy:    user,
			Status:         tenderflow.RequestPending,
			Remarks:        req.Remarks,
			Instruments: []models.PaymentInstrument{{
				InstrumentType: string(typ),
				Details:        datatypes.JSON(detailsJSON),
				Status:         initial,
				IsActive:       true,
			}},
		}
		if req.DueDate != "" {
			due, err := parseDueDate(req.DueDate)
			if err != nil {
				return &tenderflow.GateError{Action: "create-payment-request", Reason: "dueDate " + err.Error()}
			}
			when := models.JSONTime(due)
			request.DueDate = &when
		}
		if err := tx.Create(&request).Error; err != nil {
			return err
		}

		if purpose != instruments.PurposeEMD || tender.StatusID != tenderflow.StatusRFQSent {
			return nil
		}
		return workflow().recordStatusChange(tx, tender, tenderflow.StatusEMDRequested, "EMD requested", currentUserID(r))
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, request)
}

// GetPaymentRequests lists a tender's payment requests.
func GetPaymentRequests(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	query := config.DB.Preload("Instruments").Where("tender_id = ?", tenderID)
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.PaymentRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, requests)
}

// UpdatePaymentRequestStatus is the accounts-side verdict on a request.
func UpdatePaymentRequestStatus(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(mux.Vars(r)["requestId"])
	if err != nil {
		http.Error(w, "Invalid request id", http.StatusBadRequest)
		return
	}

	var req struct {
		Status  string `json:"status"`
		Remarks string `json:"remarks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	switch req.Status {
	case tenderflow.RequestPending, tenderflow.RequestSent, tenderflow.RequestApproved,
		tenderflow.RequestRejected, tenderflow.RequestReturned:
	default:
		respondValidation(w, []fieldProblem{{Field: "status", Message: "unknown request status"}})
		return
	}
	if (req.Status == tenderflow.RequestRejected || req.Status == tenderflow.RequestReturned) &&
		strings.TrimSpace(req.Remarks) == "" {
		respondValidation(w, []fieldProblem{{Field: "remarks", Message: "are required when rejecting or returning"}})
		return
	}

	var request models.PaymentRequest
	if err := config.DB.First(&request, "id = ?", requestID).Error; err != nil {
		respondError(w, err)
		return
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Remarks != "" {
		updates["remarks"] = req.Remarks
	}
	if err := config.DB.Model(&request).Updates(updates).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, request)
}

type UpdateInstrumentBody struct {
	InstrumentType string         `json:"instrumentType"`
	Details        map[string]any `json:"details"`
}

// UpdateInstrumentDetails replaces the instrument's detail payload.
// The instrument type is immutable; changing modes means raising a new
// request.
func UpdateInstrumentDetails(w http.ResponseWriter, r *http.Request) {
	instrumentID, err := uuid.Parse(mux.Vars(r)["instrumentId"])
	if err != nil {
		http.Error(w, "Invalid instrument id", http.StatusBadRequest)
		return
	}

	var req UpdateInstrumentBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var instrument models.PaymentInstrument
	if err := config.DB.First(&instrument, "id = ?", instrumentID).Error; err != nil {
		respondError(w, err)
		return
	}

	if req.InstrumentType != "" {
		requested, ok := instruments.NormalizeMode(req.InstrumentType)
		if !ok || string(requested) != instrument.InstrumentType {
			respondError(w, tenderflow.CanChangeInstrumentMode(true))
			return
		}
	}

	var request models.PaymentRequest
	if err := config.DB.First(&request, "id = ?", instrument.RequestID).Error; err != nil {
		respondError(w, err)
		return
	}

	typ := instruments.Type(instrument.InstrumentType)
	fieldErrs, err := instruments.Validate(instruments.Purpose(request.Purpose), typ, req.Details)
	if err != nil {
		respondValidation(w, []fieldProblem{{Field: "details", Message: err.Error()}})
		return
	}
	if len(fieldErrs) > 0 {
		respondValidation(w, fieldErrs)
		return
	}

	detailsJSON, err := json.Marshal(req.Details)
	if err != nil {
		http.Error(w, "Invalid instrument details", http.StatusBadRequest)
		return
	}
	if err := config.DB.Model(&instrument).Update("details", datatypes.JSON(detailsJSON)).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, instrument)
}

type AdvanceInstrumentBody struct {
	Status          string `json:"status"`
	UTR             string `json:"utr"`
	DocketNo        string `json:"docketNo"`
	CourierAddress  string `json:"courierAddress"`
	RejectionReason string `json:"rejectionReason"`
	Remarks         string `json:"remarks"`
}

// AdvanceInstrumentStatus moves an instrument along its per-type status
// chain. The target must be a valid status whose stage is reachable
// from the current one; terminal statuses are dead ends.
func AdvanceInstrumentStatus(w http.ResponseWriter, r *http.Request) {
	instrumentID, err := uuid.Parse(mux.Vars(r)["instrumentId"])
	if err != nil {
		http.Error(w, "Invalid instrument id", http.StatusBadRequest)
		return
	}

	var req AdvanceInstrumentBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var instrument models.PaymentInstrument
	if err := config.DB.First(&instrument, "id = ?", instrumentID).Error; err != nil {
		respondError(w, err)
		return
	}

	typ := instruments.Type(instrument.InstrumentType)
	if !instruments.ValidStatus(typ, req.Status) {
		respondValidation(w, []fieldProblem{{Field: "status", Message: "unknown status for " + instrument.InstrumentType}})
		return
	}
	if instruments.IsTerminalStatus(typ, instrument.Status) {
		respondError(w, &tenderflow.GateError{
			Action: "advance-instrument",
			Reason: instruments.StatusLabel(instrument.Status) + " is a terminal status",
		})
		return
	}

	currentStage := instruments.StageFromStatus(typ, instrument.Status)
	targetStage := instruments.StageFromStatus(typ, req.Status)
	if targetStage != currentStage && !stageReachable(instruments.NextStages(typ, instrument.Status), targetStage) {
		respondError(w, &tenderflow.GateError{
			Action: "advance-instrument",
			Reason: instruments.StatusLabel(req.Status) + " is not reachable from " + instruments.StatusLabel(instrument.Status),
		})
		return
	}
	if instruments.IsRejectedStatus(req.Status) && strings.TrimSpace(req.RejectionReason) == "" {
		respondValidation(w, []fieldProblem{{Field: "rejectionReason", Message: "is required for a rejection"}})
		return
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.UTR != "" {
		updates["utr"] = req.UTR
	}
	if req.DocketNo != "" {
		updates["docket_no"] = req.DocketNo
	}
	if req.CourierAddress != "" {
		updates["courier_address"] = req.CourierAddress
	}
	if req.RejectionReason != "" {
		updates["rejection_reason"] = req.RejectionReason
	}
	if req.Remarks != "" {
		updates["remarks"] = req.Remarks
	}
	if instruments.IsRejectedStatus(req.Status) {
		updates["is_active"] = false
	}
	if err := config.DB.Model(&instrument).Updates(updates).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, instrument)
}

func stageReachable(next []int, target int) bool {
	for _, stage := range next {
		if stage == target {
			return true
		}
	}
	return false
}
