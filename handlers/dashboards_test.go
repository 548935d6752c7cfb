package handlers

import (
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
	"p9e.in/tms/models"
	"p9e.in/tms/pkg/tenderflow"
)

// sqlite-safe twins of the postgres tables: no gen_random_uuid()
// defaults, no array or jsonb columns. Only the columns the dashboard
// queries touch.
type tenderRow struct {
	ID                         uuid.UUID `gorm:"type:text;primaryKey"`
	TenderNo                   string
	TenderName                 string
	Organization               string
	Item                       string
	Team                       string
	TeamMemberID               *uuid.UUID `gorm:"type:text"`
	GSTValues                  *float64   `gorm:"column:gst_values"`
	TenderFees                 *float64
	EMD                        *float64 `gorm:"column:emd"`
	TenderFeeMode              string
	EMDMode                    string `gorm:"column:emd_mode"`
	StatusID                   uint
	TLStatus                   int    `gorm:"column:tl_status"`
	TLRejectionRemarks         string `gorm:"column:tl_rejection_remarks"`
	RfqTo                      string
	CourierAddress             string
	OemNotAllowed              bool
	ApprovePqrSelection        *string
	ApproveFinanceDocSelection *string
	DueDate                    time.Time
	DeleteStatus               int
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

func (tenderRow) TableName() string { return "tenders" }

type bidRow struct {
	ID                uuid.UUID `gorm:"type:text;primaryKey"`
	TenderID          uuid.UUID `gorm:"type:text"`
	Status            string
	ProofOfSubmission string
	FinalPriceSS      string `gorm:"column:final_price_ss"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (bidRow) TableName() string { return "bid_submissions" }

type costingRow struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey"`
	TenderID  uuid.UUID `gorm:"type:text"`
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (costingRow) TableName() string { return "costing_sheets" }

// openDashboardDB swaps config.DB for an in-memory sqlite database with
// the status registry seeded.
func openDashboardDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Status{}, &models.User{}, &tenderRow{}, &bidRow{}, &costingRow{}))

	for _, def := range tenderflow.DefaultStatuses() {
		require.NoError(t, db.Create(&models.Status{
			ID:       def.ID,
			Name:     def.Name,
			Stage:    string(def.Stage),
			Category: string(def.Category),
		}).Error)
	}

	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })
	return db
}

func seedTender(t *testing.T, db *gorm.DB, statusID uint, team string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&tenderRow{
		ID:         id,
		TenderNo:   "TN-" + id.String()[:8],
		TenderName: "tender " + id.String()[:8],
		Team:       team,
		StatusID:   statusID,
		DueDate:    time.Now().Add(7 * 24 * time.Hour),
	}).Error)
	return id
}

func dashboardRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/dashboards/{family}/counts", GetDashboardCounts).Methods("GET")
	r.HandleFunc("/dashboards/{family}/export", ExportDashboardTab).Methods("GET")
	r.HandleFunc("/dashboards/{family}/{tab}", GetDashboardTab).Methods("GET")
	return r
}

type countsResponse struct {
	Family string           `json:"family"`
	Total  int64            `json:"total"`
	Counts map[string]int64 `json:"counts"`
}

func getCounts(t *testing.T, router *mux.Router, path string) countsResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body countsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestTenderDashboardCountsPartition(t *testing.T) {
	db := openDashboardDB(t)

	seedTender(t, db, tenderflow.StatusNew, "north")
	seedTender(t, db, tenderflow.StatusRFQSent, "north")
	seedTender(t, db, tenderflow.StatusBidSubmitted, "south")
	seedTender(t, db, tenderflow.StatusMissed, "south")
	seedTender(t, db, tenderflow.StatusWon, "north")
	seedTender(t, db, tenderflow.StatusLost, "south")

	// Soft-deleted tenders are invisible to every tab.
	deleted := seedTender(t, db, tenderflow.StatusNew, "north")
	require.NoError(t, db.Model(&tenderRow{}).Where("id = ?", deleted).
		Update("delete_status", 1).Error)

	body := getCounts(t, dashboardRouter(), "/dashboards/tenders/counts")
	assert.Equal(t, int64(6), body.Total)

	var sum int64
	for _, n := range body.Counts {
		sum += n
	}
	assert.Equal(t, body.Total, sum, "tab counts must partition the family total")

	assert.Equal(t, int64(1), body.Counts["tender-won"])
	assert.Equal(t, int64(1), body.Counts["tender-lost"])
	assert.Equal(t, int64(1), body.Counts["tenders-bid"])
	assert.Equal(t, int64(1), body.Counts["did-not-bid"])
}

func TestTenderDashboardCountsTeamFilter(t *testing.T) {
	db := openDashboardDB(t)
	seedTender(t, db, tenderflow.StatusNew, "north")
	seedTender(t, db, tenderflow.StatusNew, "north")
	seedTender(t, db, tenderflow.StatusNew, "south")

	body := getCounts(t, dashboardRouter(), "/dashboards/tenders/counts?team=north")
	assert.Equal(t, int64(2), body.Total)
	assert.Equal(t, int64(2), body.Counts["under-preparation"])
}

func seedBid(t *testing.T, db *gorm.DB, tenderID uuid.UUID, status string) {
	t.Helper()
	require.NoError(t, db.Create(&bidRow{
		ID:       uuid.New(),
		TenderID: tenderID,
		Status:   status,
	}).Error)
}

func seedCosting(t *testing.T, db *gorm.DB, tenderID uuid.UUID, status string) {
	t.Helper()
	require.NoError(t, db.Create(&costingRow{
		ID:       uuid.New(),
		TenderID: tenderID,
		Status:   status,
	}).Error)
}

func TestBidSubmissionDashboardCountsPartition(t *testing.T) {
	db := openDashboardDB(t)

	// Approved costing, no bid row yet: the implicit pending record.
	seedCosting(t, db, seedTender(t, db, tenderflow.StatusPriceBidApproved, "north"), tenderflow.CostingApproved)

	// Approved costing with an explicit pending row.
	pendingRow := seedTender(t, db, tenderflow.StatusPriceBidApproved, "north")
	seedCosting(t, db, pendingRow, tenderflow.CostingApproved)
	seedBid(t, db, pendingRow, tenderflow.BidSubmissionPending)

	seedBid(t, db, seedTender(t, db, tenderflow.StatusBidSubmitted, "north"), tenderflow.BidSubmitted)
	seedBid(t, db, seedTender(t, db, tenderflow.StatusBidSubmitted, "south"), tenderflow.BidSubmitted)
	seedBid(t, db, seedTender(t, db, tenderflow.StatusMissed, "north"), tenderflow.TenderMissed)

	// Costing still in draft and no bid row: not in the family yet.
	seedCosting(t, db, seedTender(t, db, tenderflow.StatusPriceBidReady, "north"), tenderflow.CostingDraft)

	body := getCounts(t, dashboardRouter(), "/dashboards/bid-submissions/counts")
	assert.Equal(t, int64(5), body.Total)
	assert.Equal(t, int64(2), body.Counts["pending"])
	assert.Equal(t, int64(2), body.Counts["submitted"])
	assert.Equal(t, int64(1), body.Counts["missed"])

	var sum int64
	for _, n := range body.Counts {
		sum += n
	}
	assert.Equal(t, body.Total, sum, "tab counts must partition the family total")

	// The pending tab lists the same records its badge counted.
	req := httptest.NewRequest(http.MethodGet, "/dashboards/bid-submissions/pending", nil)
	rec := httptest.NewRecorder()
	dashboardRouter().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tab struct {
		Rows  []json.RawMessage `json:"rows"`
		Total int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tab))
	assert.Equal(t, int64(2), tab.Total)
	assert.Len(t, tab.Rows, 2)
}

func TestDashboardTabListing(t *testing.T) {
	db := openDashboardDB(t)
	for i := 0; i < 3; i++ {
		seedTender(t, db, tenderflow.StatusNew, "north")
	}
	seedTender(t, db, tenderflow.StatusWon, "north")

	req := httptest.NewRequest(http.MethodGet, "/dashboards/tenders/under-preparation?limit=2", nil)
	rec := httptest.NewRecorder()
	dashboardRouter().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Tab   string            `json:"tab"`
		Rows  []json.RawMessage `json:"rows"`
		Total int64             `json:"total"`
		Pages int64             `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "under-preparation", body.Tab)
	assert.Equal(t, int64(3), body.Total)
	assert.Len(t, body.Rows, 2)
	assert.Equal(t, int64(2), body.Pages)
}

func TestDashboardUnknownFamilyAndTab(t *testing.T) {
	openDashboardDB(t)
	router := dashboardRouter()

	req := httptest.NewRequest(http.MethodGet, "/dashboards/nonsense/counts", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/dashboards/tenders/nonsense", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardExport(t *testing.T) {
	db := openDashboardDB(t)
	router := dashboardRouter()

	seedTender(t, db, tenderflow.StatusWon, "north")
	seedTender(t, db, tenderflow.StatusNew, "north")

	req := httptest.NewRequest(http.MethodGet, "/dashboards/tenders/export?tab=tender-won", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "tenders_register_")
	assert.NotZero(t, rec.Body.Len())

	// Whole family without a tab filter.
	req = httptest.NewRequest(http.MethodGet, "/dashboards/tenders/export", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/dashboards/tenders/export?tab=nonsense", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/dashboards/rfqs/export", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
