package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"p9e.in/tms/config"
	"p9e.in/tms/models"
	"p9e.in/tms/pkg/tenderflow"
)

type CreateRfqRequest struct {
	DueDate         string `json:"dueDate"`
	DocList         string `json:"docList"`
	RequestedVendor string `json:"requestedVendor"`
	Items           []struct {
		Requirement string   `json:"requirement"`
		Unit        string   `json:"unit"`
		Qty         *float64 `json:"qty"`
	} `json:"items"`
}

// CreateRfq raises a quotation request for a tender and moves it to RFQ
// Sent. A tender can carry several RFQs for different vendors.
func CreateRfq(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var req CreateRfqRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var fields []fieldProblem
	if len(req.Items) == 0 {
		fields = append(fields, fieldProblem{Field: "items", Message: "at least one requirement is needed"})
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.Requirement) == "" {
			fields = append(fields, fieldProblem{Field: "items", Message: fmt.Sprintf("requirement text is missing on line %d", i+1)})
		}
	}
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	userID := currentUserID(r)
	var rfq models.Rfq
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		tender, err := lockTender(tx, tenderID)
		if err != nil {
			return err
		}

		rfq = models.Rfq{
			TenderID:        tenderID,
			DocList:         req.DocList,
			RequestedVendor: req.RequestedVendor,
		}
		if req.DueDate != "" {
			due, err := parseDueDate(req.DueDate)
			if err != nil {
				return &tenderflow.GateError{Action: "create-rfq", Reason: "dueDate " + err.Error()}
			}
			when := models.JSONTime(due)
			rfq.DueDate = &when
		}
		for _, item := range req.Items {
			rfq.Items = append(rfq.Items, models.RfqItem{
				Requirement: item.Requirement,
				Unit:        item.Unit,
				Qty:         item.Qty,
			})
		}
		if err := tx.Create(&rfq).Error; err != nil {
			return err
		}

		if tender.StatusID != tenderflow.StatusInfoApproved {
			return nil // later RFQs don't move the status back
		}
		return workflow().recordStatusChange(tx, tender, tenderflow.StatusRFQSent, "RFQ sent to "+req.RequestedVendor, userID)
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rfq)
}

// GetRfqs lists a tender's RFQs with items, documents and vendor
// responses.
func GetRfqs(w http.ResponseWriter, r *http.Request) {
	tenderID, err := tenderIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid tender id", http.StatusBadRequest)
		return
	}

	var rfqs []models.Rfq
	if err := config.DB.Preload("Items").Preload("Documents").
		Preload("Responses").Preload("Responses.Items").
		Where("tender_id = ?", tenderID).Order("created_at ASC").Find(&rfqs).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rfqs)
}

type AddRfqDocumentRequest struct {
	DocType  string          `json:"docType"`
	Path     string          `json:"path"`
	Metadata json.RawMessage `json:"metadata"`
}

// AddRfqDocument attaches an uploaded file reference to an RFQ. The
// path is the storage key in "{context}/{filename}" form.
func AddRfqDocument(w http.ResponseWriter, r *http.Request) {
	rfqID, err := uuid.Parse(mux.Vars(r)["rfqId"])
	if err != nil {
		http.Error(w, "Invalid rfq id", http.StatusBadRequest)
		return
	}

	var req AddRfqDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	var fields []fieldProblem
	if strings.TrimSpace(req.DocType) == "" {
		fields = append(fields, fieldProblem{Field: "docType", Message: "is required"})
	}
	if !strings.Contains(req.Path, "/") {
		fields = append(fields, fieldProblem{Field: "path", Message: "must be in context/filename form"})
	}
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	var rfq models.Rfq
	if err := config.DB.First(&rfq, "id = ?", rfqID).Error; err != nil {
		respondError(w, err)
		return
	}

	doc := models.RfqDocument{
		RfqID:   rfqID,
		DocType: req.DocType,
		Path:    req.Path,
	}
	if len(req.Metadata) > 0 {
		doc.Metadata = datatypes.JSON(req.Metadata)
	}
	if err := config.DB.Create(&doc).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, doc)
}

type AddRfqResponseRequest struct {
	VendorName      string   `json:"vendorName"`
	ReceiptDatetime string   `json:"receiptDatetime"`
	GSTPercentage   *float64 `json:"gstPercentage"`
	GSTType         string   `json:"gstType"`
	DeliveryTime    *int     `json:"deliveryTime"`
	FreightType     string   `json:"freightType"`
	Notes           string   `json:"notes"`
	Items           []struct {
		RfqItemID  string   `json:"rfqItemId"`
		UnitPrice  *float64 `json:"unitPrice"`
		TotalPrice *float64 `json:"totalPrice"`
	} `json:"items"`
}

// AddRfqResponse records a vendor quotation. Line items must reference
// the RFQ's own items; requirement text is copied onto each line so the
// quote stays self-contained.
func AddRfqResponse(w http.ResponseWriter, r *http.Request) {
	rfqID, err := uuid.Parse(mux.Vars(r)["rfqId"])
	if err != nil {
		http.Error(w, "Invalid rfq id", http.StatusBadRequest)
		return
	}

	var req AddRfqResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var fields []fieldProblem
	if strings.TrimSpace(req.VendorName) == "" {
		fields = append(fields, fieldProblem{Field: "vendorName", Message: "is required"})
	}
	receipt, err := parseDueDate(req.ReceiptDatetime)
	if err != nil {
		fields = append(fields, fieldProblem{Field: "receiptDatetime", Message: err.Error()})
	}
	if len(fields) > 0 {
		respondValidation(w, fields)
		return
	}

	var rfq models.Rfq
	if err := config.DB.Preload("Items").First(&rfq, "id = ?", rfqID).Error; err != nil {
		respondError(w, err)
		return
	}
	itemsByID := make(map[uuid.UUID]models.RfqItem, len(rfq.Items))
	for _, item := range rfq.Items {
		itemsByID[item.ID] = item
	}

	response := models.RfqResponse{
		RfqID:           rfqID,
		VendorName:      req.VendorName,
		ReceiptDatetime: models.JSONTime(receipt),
		GSTPercentage:   req.GSTPercentage,
		GSTType:         req.GSTType,
		DeliveryTime:    req.DeliveryTime,
		FreightType:     req.FreightType,
		Notes:           req.Notes,
	}
	for _, line := range req.Items {
		itemID, err := uuid.Parse(line.RfqItemID)
		if err != nil {
			respondValidation(w, []fieldProblem{{Field: "items", Message: "rfqItemId must be a UUID"}})
			return
		}
		item, ok := itemsByID[itemID]
		if !ok {
			respondValidation(w, []fieldProblem{{Field: "items", Message: "rfqItemId does not belong to this RFQ"}})
			return
		}
		response.Items = append(response.Items, models.RfqResponseItem{
			RfqItemID:   itemID,
			Requirement: item.Requirement,
			Unit:        item.Unit,
			Qty:         item.Qty,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.TotalPrice,
		})
	}

	if err := config.DB.Create(&response).Error; err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, response)
}
