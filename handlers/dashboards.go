package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"p9e.in/tms/config"
	"p9e.in/tms/models"
	"p9e.in/tms/pkg/tenderflow"
)

type dashboardTab struct {
	Key   string
	Scope func(*gorm.DB) *gorm.DB
}

// dashboardFamily groups the tabs of one dashboard. Tab scopes must
// partition the base scope: every base row lands in exactly one tab, so
// the tab counts always add up to the family total.
type dashboardFamily struct {
	Key      string
	Base     func(*gorm.DB) *gorm.DB
	Rows     func() interface{}
	Preloads []string
	Order    string
	Tabs     []dashboardTab
}

func scopeStatusCategory(category tenderflow.Category) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("statuses.category = ?", category)
	}
}

func scopeColumn(column string, values ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" IN ?", values)
	}
}

var dashboardFamilies = []dashboardFamily{
	{
		Key: "tenders",
		Base: func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Tender{}).
				Joins("JOIN statuses ON statuses.id = tenders.status_id").
				Where("tenders.delete_status = 0")
		},
		Rows:     func() interface{} { return &[]models.Tender{} },
		Preloads: []string{"Status", "TeamMember"},
		Order:    "tenders.due_date ASC",
		Tabs: []dashboardTab{
			{Key: "under-preparation", Scope: scopeStatusCategory(tenderflow.CategoryPrep)},
			{Key: "tenders-bid", Scope: scopeStatusCategory(tenderflow.CategoryBid)},
			{Key: "did-not-bid", Scope: scopeStatusCategory(tenderflow.CategoryDNB)},
			{Key: "tender-won", Scope: scopeStatusCategory(tenderflow.CategoryWon)},
			{Key: "tender-lost", Scope: scopeStatusCategory(tenderflow.CategoryLost)},
		},
	},
	{
		// A tender enters this family once its costing sheet is
		// approved, even before any bid row exists; the missing row
		// reads as "Submission Pending".
		Key: "bid-submissions",
		Base: func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Tender{}).
				Joins("LEFT JOIN bid_submissions ON bid_submissions.tender_id = tenders.id").
				Where("tenders.delete_status = 0").
				Where("bid_submissions.id IS NOT NULL OR EXISTS (SELECT 1 FROM costing_sheets WHERE costing_sheets.tender_id = tenders.id AND costing_sheets.status = ?)",
					tenderflow.CostingApproved)
		},
		Rows:     func() interface{} { return &[]models.Tender{} },
		Preloads: []string{"Status", "TeamMember"},
		Order:    "tenders.due_date ASC",
		Tabs: []dashboardTab{
			{Key: "pending", Scope: func(db *gorm.DB) *gorm.DB {
				return db.Where("bid_submissions.id IS NULL OR bid_submissions.status = ?", tenderflow.BidSubmissionPending)
			}},
			{Key: "submitted", Scope: scopeColumn("bid_submissions.status", tenderflow.BidSubmitted)},
			{Key: "missed", Scope: scopeColumn("bid_submissions.status", tenderflow.TenderMissed)},
		},
	},
	{
		Key: "costing-approvals",
		Base: func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.CostingSheet{}).
				Joins("JOIN tenders ON tenders.id = costing_sheets.tender_id").
				Where("tenders.delete_status = 0")
		},
		Rows:     func() interface{} { return &[]models.CostingSheet{} },
		Preloads: []string{"Tender", "Tender.Status"},
		Order:    "costing_sheets.updated_at DESC",
		Tabs: []dashboardTab{
			{Key: "draft", Scope: scopeColumn("costing_sheets.status", tenderflow.CostingDraft)},
			{Key: "submitted", Scope: scopeColumn("costing_sheets.status", tenderflow.CostingSubmitted)},
			{Key: "approved", Scope: scopeColumn("costing_sheets.status", tenderflow.CostingApproved)},
			{Key: "rejected", Scope: scopeColumn("costing_sheets.status", tenderflow.CostingRejected)},
		},
	},
	{
		Key: "payment-requests",
		Base: func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.PaymentRequest{}).
				Joins("JOIN tenders ON tenders.id = payment_requests.tender_id").
				Where("tenders.delete_status = 0")
		},
		Rows:     func() interface{} { return &[]models.PaymentRequest{} },
		Preloads: []string{"Tender", "Instruments"},
		Order:    "payment_requests.created_at DESC",
		Tabs: []dashboardTab{
			{Key: "pending", Scope: scopeColumn("payment_requests.status", tenderflow.RequestPending)},
			{Key: "sent", Scope: scopeColumn("payment_requests.status", tenderflow.RequestSent)},
			{Key: "approved", Scope: scopeColumn("payment_requests.status", tenderflow.RequestApproved)},
			{Key: "rejected", Scope: scopeColumn("payment_requests.status", tenderflow.RequestRejected)},
			{Key: "returned", Scope: scopeColumn("payment_requests.status", tenderflow.RequestReturned)},
		},
	},
	{
		Key: "rfqs",
		Base: func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Rfq{}).
				Joins("JOIN tenders ON tenders.id = rfqs.tender_id").
				Where("tenders.delete_status = 0")
		},
		Rows:     func() interface{} { return &[]models.Rfq{} },
		Preloads: []string{"Tender", "Items", "Responses"},
		Order:    "rfqs.created_at DESC",
		Tabs: []dashboardTab{
			{Key: "awaiting-response", Scope: func(db *gorm.DB) *gorm.DB {
				return db.Where("NOT EXISTS (SELECT 1 FROM rfq_responses WHERE rfq_responses.rfq_id = rfqs.id)")
			}},
			{Key: "responded", Scope: func(db *gorm.DB) *gorm.DB {
				return db.Where("EXISTS (SELECT 1 FROM rfq_responses WHERE rfq_responses.rfq_id = rfqs.id)")
			}},
		},
	},
	{
		Key: "results",
		Base: func(db *gorm.DB) *gorm.DB {
			return db.Model(&models.Tender{}).
				Joins("JOIN statuses ON statuses.id = tenders.status_id").
				Joins("JOIN bid_submissions ON bid_submissions.tender_id = tenders.id").
				Where("tenders.delete_status = 0 AND bid_submissions.status = ?", tenderflow.BidSubmitted)
		},
		Rows:     func() interface{} { return &[]models.Tender{} },
		Preloads: []string{"Status", "TeamMember"},
		Order:    "tenders.due_date ASC",
		Tabs: []dashboardTab{
			{Key: "result-awaited", Scope: func(db *gorm.DB) *gorm.DB {
				return db.Where(
					"NOT EXISTS (SELECT 1 FROM tender_results WHERE tender_results.tender_id = tenders.id AND tender_results.status IN ?)",
					[]string{tenderflow.ResultWon, tenderflow.ResultLost, tenderflow.ResultLostH1, tenderflow.ResultDisqualified},
				)
			}},
			{Key: "won", Scope: resultTab(tenderflow.ResultWon)},
			{Key: "lost", Scope: resultTab(tenderflow.ResultLost, tenderflow.ResultLostH1)},
			{Key: "disqualified", Scope: resultTab(tenderflow.ResultDisqualified)},
		},
	},
}

func resultTab(statuses ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"EXISTS (SELECT 1 FROM tender_results WHERE tender_results.tender_id = tenders.id AND tender_results.status IN ?)",
			statuses,
		)
	}
}

func findFamily(key string) *dashboardFamily {
	for i := range dashboardFamilies {
		if dashboardFamilies[i].Key == key {
			return &dashboardFamilies[i]
		}
	}
	return nil
}

// teamScoped narrows any family to one team; every base joins tenders
// (or is tenders itself), so the column is always present.
func teamScoped(db *gorm.DB, r *http.Request) *gorm.DB {
	if team := r.URL.Query().Get("team"); team != "" {
		db = db.Where("tenders.team = ?", team)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		like := "%" + search + "%"
		db = db.Where("tenders.tender_no ILIKE ? OR tenders.tender_name ILIKE ?", like, like)
	}
	return db
}

// dashboardSortColumns whitelists sort keys; all of them live on the
// tenders table, which every family base joins.
var dashboardSortColumns = map[string]string{
	"dueDate":    "tenders.due_date",
	"createdAt":  "tenders.created_at",
	"tenderNo":   "tenders.tender_no",
	"tenderName": "tenders.tender_name",
}

func dashboardOrder(r *http.Request, fallback string) string {
	column, ok := dashboardSortColumns[r.URL.Query().Get("sortBy")]
	if !ok {
		return fallback
	}
	if r.URL.Query().Get("sortDir") == "desc" {
		return column + " DESC"
	}
	return column + " ASC"
}

// GetDashboardCounts returns the per-tab counts for one dashboard
// family. Tabs partition the family, so the counts sum to total.
func GetDashboardCounts(w http.ResponseWriter, r *http.Request) {
	family := findFamily(mux.Vars(r)["family"])
	if family == nil {
		http.Error(w, "Unknown dashboard", http.StatusNotFound)
		return
	}

	var total int64
	if err := teamScoped(family.Base(config.DB), r).Count(&total).Error; err != nil {
		respondError(w, err)
		return
	}

	counts := make(map[string]int64, len(family.Tabs))
	for _, tab := range family.Tabs {
		var n int64
		if err := tab.Scope(teamScoped(family.Base(config.DB), r)).Count(&n).Error; err != nil {
			respondError(w, err)
			return
		}
		counts[tab.Key] = n
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"family": family.Key,
		"total":  total,
		"counts": counts,
	})
}

// GetDashboardTab lists one tab of a dashboard family, paginated. The
// same scope that produced the tab's count produces its rows.
func GetDashboardTab(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	family := findFamily(vars["family"])
	if family == nil {
		http.Error(w, "Unknown dashboard", http.StatusNotFound)
		return
	}
	var tab *dashboardTab
	for i := range family.Tabs {
		if family.Tabs[i].Key == vars["tab"] {
			tab = &family.Tabs[i]
			break
		}
	}
	if tab == nil {
		http.Error(w, "Unknown dashboard tab", http.StatusNotFound)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	scoped := tab.Scope(teamScoped(family.Base(config.DB), r))

	var total int64
	if err := scoped.Count(&total).Error; err != nil {
		respondError(w, err)
		return
	}

	query := scoped
	for _, preload := range family.Preloads {
		query = query.Preload(preload)
	}
	rows := family.Rows()
	if err := query.Order(dashboardOrder(r, family.Order)).Limit(limit).Offset(offset).Find(rows).Error; err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"family": family.Key,
		"tab":    tab.Key,
		"rows":   rows,
		"total":  total,
		"page":   page,
		"limit":  limit,
		"pages":  (total + int64(limit) - 1) / int64(limit),
	})
}
