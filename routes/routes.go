package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"p9e.in/tms/handlers"
	"p9e.in/tms/middleware"
	"p9e.in/tms/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/login", handlers.Login).Methods("POST")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/me", handlers.GetCurrentUser).Methods("GET")
	api.HandleFunc("/users", handlers.GetAllUsers).Methods("GET")
	api.HandleFunc("/files/upload", handlers.UploadFileHandler).Methods("POST")

	registerTenderRoutes(api)
	registerPaymentRoutes(api)
	registerDashboardRoutes(api)

	// =====================================================
	// Admin Routes
	// =====================================================
	api.Handle("/admin/register",
		middleware.RequireRole([]string{models.RoleAdmin}, http.HandlerFunc(handlers.Register)),
	).Methods("POST")

	return r
}

func registerTenderRoutes(api *mux.Router) {
	leadOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireRole([]string{models.RoleTeamLead}, h)
	}

	api.HandleFunc("/tenders", handlers.GetTenders).Methods("GET")
	api.HandleFunc("/tenders", handlers.CreateTender).Methods("POST")
	api.HandleFunc("/tenders/export", handlers.ExportTendersToExcel).Methods("GET")
	api.HandleFunc("/tenders/{id}", handlers.GetTender).Methods("GET")
	api.HandleFunc("/tenders/{id}", handlers.UpdateTender).Methods("PUT")
	api.Handle("/tenders/{id}", leadOnly(handlers.DeleteTender)).Methods("DELETE")
	api.Handle("/tenders/{id}/allocate", leadOnly(handlers.AllocateTender)).Methods("PATCH")
	api.HandleFunc("/tenders/{id}/status", handlers.ChangeTenderStatus).Methods("PATCH")
	api.HandleFunc("/tenders/{id}/history", handlers.GetTenderStatusHistory).Methods("GET")
	api.HandleFunc("/tenders/{id}/timers", handlers.GetTenderTimers).Methods("GET")

	api.HandleFunc("/tenders/{id}/info-sheet", handlers.GetInfoSheet).Methods("GET")
	api.HandleFunc("/tenders/{id}/info-sheet", handlers.UpsertInfoSheet).Methods("PUT")
	api.Handle("/tenders/{id}/info-sheet/review", leadOnly(handlers.ReviewInfoSheet)).Methods("POST")

	api.HandleFunc("/tenders/{id}/rfqs", handlers.GetRfqs).Methods("GET")
	api.HandleFunc("/tenders/{id}/rfqs", handlers.CreateRfq).Methods("POST")
	api.HandleFunc("/rfqs/{rfqId}/documents", handlers.AddRfqDocument).Methods("POST")
	api.HandleFunc("/rfqs/{rfqId}/responses", handlers.AddRfqResponse).Methods("POST")

	api.HandleFunc("/tenders/{id}/costing-sheet", handlers.GetCostingSheet).Methods("GET")
	api.HandleFunc("/tenders/{id}/costing-sheet", handlers.SaveCostingSheet).Methods("PUT")
	api.HandleFunc("/tenders/{id}/costing-sheet/submit", handlers.SubmitCostingSheet).Methods("POST")
	api.Handle("/tenders/{id}/costing-sheet/approve", leadOnly(handlers.ApproveCostingSheet)).Methods("POST")
	api.Handle("/tenders/{id}/costing-sheet/reject", leadOnly(handlers.RejectCostingSheet)).Methods("POST")

	api.HandleFunc("/tenders/{id}/bid-submission", handlers.GetBidSubmission).Methods("GET")
	api.HandleFunc("/tenders/{id}/bid-submission", handlers.SubmitBid).Methods("POST")
	api.HandleFunc("/tenders/{id}/bid-submission", handlers.UpdateBidSubmission).Methods("PATCH")
	api.HandleFunc("/tenders/{id}/bid-submission/missed", handlers.MarkTenderMissed).Methods("POST")

	api.HandleFunc("/tenders/{id}/result", handlers.GetTenderResult).Methods("GET")
	api.HandleFunc("/tenders/{id}/result", handlers.RecordTenderResult).Methods("PUT")
}

func registerPaymentRoutes(api *mux.Router) {
	accountsOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireRole([]string{models.RoleAccounts}, h)
	}

	api.HandleFunc("/tenders/{id}/payment-requests", handlers.GetPaymentRequests).Methods("GET")
	api.HandleFunc("/tenders/{id}/payment-requests", handlers.CreatePaymentRequest).Methods("POST")
	api.Handle("/payment-requests/{requestId}/status",
		accountsOnly(handlers.UpdatePaymentRequestStatus)).Methods("PATCH")
	api.HandleFunc("/payment-instruments/{instrumentId}", handlers.UpdateInstrumentDetails).Methods("PATCH")
	api.Handle("/payment-instruments/{instrumentId}/status",
		accountsOnly(handlers.AdvanceInstrumentStatus)).Methods("PATCH")
}

func registerDashboardRoutes(api *mux.Router) {
	api.HandleFunc("/dashboards/{family}/counts", handlers.GetDashboardCounts).Methods("GET")
	api.HandleFunc("/dashboards/{family}/export", handlers.ExportDashboardTab).Methods("GET")
	api.HandleFunc("/dashboards/{family}/{tab}", handlers.GetDashboardTab).Methods("GET")
}
