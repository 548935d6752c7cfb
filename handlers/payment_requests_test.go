package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"p9e.in/tms/config"
	"p9e.in/tms/pkg/instruments"
)

type paymentRequestRow struct {
	ID             uuid.UUID `gorm:"type:text;primaryKey"`
	TenderID       uuid.UUID `gorm:"type:text"`
	Purpose        string
	AmountRequired float64
	Status         string
	Remarks        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (paymentRequestRow) TableName() string { return "payment_requests" }

type paymentInstrumentRow struct {
	ID              uuid.UUID `gorm:"type:text;primaryKey"`
	RequestID       uuid.UUID `gorm:"type:text"`
	InstrumentType  string
	Details         string
	Status          string
	UTR             string `gorm:"column:utr"`
	DocketNo        string
	CourierAddress  string
	RejectionReason string
	Remarks         string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (paymentInstrumentRow) TableName() string { return "payment_instruments" }

func openPaymentDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&paymentRequestRow{}, &paymentInstrumentRow{}))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })
	return db
}

func validDDDetails() map[string]any {
	return map[string]any{
		"ddAmount":    25000,
		"ddFavouring": "Chief Procurement Officer",
		"ddPayableAt": "New Delhi",
		"ddDeliverBy": "72",
		"ddPurpose":   "EMD for tender TN-1001",
	}
}

func seedDDInstrument(t *testing.T, db *gorm.DB) paymentInstrumentRow {
	t.Helper()

	request := paymentRequestRow{
		ID:             uuid.New(),
		TenderID:       uuid.New(),
		Purpose:        string(instruments.PurposeEMD),
		AmountRequired: 25000,
		Status:         "Pending",
	}
	require.NoError(t, db.Create(&request).Error)

	details, err := json.Marshal(validDDDetails())
	require.NoError(t, err)
	initial, ok := instruments.InitialStatus(instruments.TypeDD)
	require.True(t, ok)

	instrument := paymentInstrumentRow{
		ID:             uuid.New(),
		RequestID:      request.ID,
		InstrumentType: string(instruments.TypeDD),
		Details:        string(details),
		Status:         initial,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&instrument).Error)
	return instrument
}

func paymentRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/tenders/{id}/payment-requests", CreatePaymentRequest).Methods("POST")
	r.HandleFunc("/payment-instruments/{instrumentId}", UpdateInstrumentDetails).Methods("PATCH")
	r.HandleFunc("/payment-instruments/{instrumentId}/status", AdvanceInstrumentStatus).Methods("PATCH")
	return r
}

func patchJSON(t *testing.T, router *mux.Router, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreatePaymentRequestRejectsIncompleteDetails(t *testing.T) {
	openPaymentDB(t)

	details := validDDDetails()
	delete(details, "ddFavouring")

	body, _ := json.Marshal(CreatePaymentRequestBody{
		Purpose:        string(instruments.PurposeEMD),
		AmountRequired: 25000,
		InstrumentType: "DD",
		Details:        details,
	})
	req := httptest.NewRequest(http.MethodPost, "/tenders/"+uuid.NewString()+"/payment-requests", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	paymentRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var resp struct {
		Fields []instruments.FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "ddFavouring", resp.Fields[0].Field)
}

func TestCreatePaymentRequestRejectsDisallowedMode(t *testing.T) {
	openPaymentDB(t)

	// BG is not a tender fee vehicle.
	body, _ := json.Marshal(CreatePaymentRequestBody{
		Purpose:        string(instruments.PurposeTenderFee),
		AmountRequired: 5000,
		InstrumentType: "BG",
		Details:        map[string]any{},
	})
	req := httptest.NewRequest(http.MethodPost, "/tenders/"+uuid.NewString()+"/payment-requests", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	paymentRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var resp struct {
		Fields []instruments.FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Fields)
	assert.Equal(t, "mode", resp.Fields[0].Field)
}

func TestUpdateInstrumentTypeIsImmutable(t *testing.T) {
	db := openPaymentDB(t)
	instrument := seedDDInstrument(t, db)

	rec := patchJSON(t, paymentRouter(), "/payment-instruments/"+instrument.ID.String(), UpdateInstrumentBody{
		InstrumentType: "FDR",
		Details:        validDDDetails(),
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	// The stored type is untouched.
	var stored paymentInstrumentRow
	require.NoError(t, db.First(&stored, "id = ?", instrument.ID).Error)
	assert.Equal(t, string(instruments.TypeDD), stored.InstrumentType)
}

func TestUpdateInstrumentDetailsRevalidates(t *testing.T) {
	db := openPaymentDB(t)
	instrument := seedDDInstrument(t, db)
	router := paymentRouter()

	// Broken details are rejected and nothing is written.
	broken := validDDDetails()
	broken["ddAmount"] = -1
	rec := patchJSON(t, router, "/payment-instruments/"+instrument.ID.String(), UpdateInstrumentBody{Details: broken})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	// Valid details go through; restating the same type is fine.
	updated := validDDDetails()
	updated["ddAmount"] = 30000
	rec = patchJSON(t, router, "/payment-instruments/"+instrument.ID.String(), UpdateInstrumentBody{
		InstrumentType: "DD",
		Details:        updated,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stored paymentInstrumentRow
	require.NoError(t, db.First(&stored, "id = ?", instrument.ID).Error)
	var details map[string]any
	require.NoError(t, json.Unmarshal([]byte(stored.Details), &details))
	assert.Equal(t, float64(30000), details["ddAmount"])
}

func TestAdvanceInstrumentStatus(t *testing.T) {
	db := openPaymentDB(t)
	instrument := seedDDInstrument(t, db)
	router := paymentRouter()

	// Unknown status for the type.
	rec := patchJSON(t, router, "/payment-instruments/"+instrument.ID.String()+"/status",
		AdvanceInstrumentBody{Status: "FDR_REQUESTED"})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	// Rejection without a reason.
	rec = patchJSON(t, router, "/payment-instruments/"+instrument.ID.String()+"/status",
		AdvanceInstrumentBody{Status: instruments.DDAccountsFormRejected})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	// Rejection with a reason deactivates the instrument.
	rec = patchJSON(t, router, "/payment-instruments/"+instrument.ID.String()+"/status",
		AdvanceInstrumentBody{Status: instruments.DDAccountsFormRejected, RejectionReason: "Amount mismatch with tender notice"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stored paymentInstrumentRow
	require.NoError(t, db.First(&stored, "id = ?", instrument.ID).Error)
	assert.Equal(t, instruments.DDAccountsFormRejected, stored.Status)
	assert.False(t, stored.IsActive)

	// Terminal statuses are dead ends.
	rec = patchJSON(t, router, "/payment-instruments/"+instrument.ID.String()+"/status",
		AdvanceInstrumentBody{Status: instruments.DDRequested})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
}
