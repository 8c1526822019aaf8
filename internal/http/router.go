package http

import (
	"net/http"

	"condo-backend/internal/handlers"
	"condo-backend/internal/middleware"
	"condo-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Reconciliation *handlers.ReconciliationHandler
	Payments       *handlers.PaymentReportHandler
	Ledger         *handlers.LedgerHandler
	Notifications  *handlers.NotificationHandler
	Tickets        *handlers.TicketHandler
	Announcements  *handlers.AnnouncementHandler
	Directory      *handlers.DirectoryHandler
	Finance        *handlers.FinanceHandler
	Balances       *handlers.BalanceHandler
	Health         *handlers.HealthHandler
}

func NewRouter(h Handlers, authMiddleware *middleware.AuthMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Public API - balance lookup by national id
	r.HandleFunc("/api/public/balance", h.Balances.Lookup).Methods("GET")

	// Protected API routes - any role
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)
	api.HandleFunc("/notifications", h.Notifications.List).Methods("GET")
	api.HandleFunc("/notifications/unread-count", h.Notifications.UnreadCount).Methods("GET")
	api.HandleFunc("/notifications/read-all", h.Notifications.MarkAllRead).Methods("PUT")
	api.HandleFunc("/notifications/ws", h.Notifications.Stream).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", h.Notifications.MarkRead).Methods("PUT")
	api.HandleFunc("/notifications/{id}", h.Notifications.Delete).Methods("DELETE")

	api.HandleFunc("/condominium", h.Finance.Condominium).Methods("GET")
	api.HandleFunc("/exchange-rates/latest", h.Finance.LatestRate).Methods("GET")
	api.HandleFunc("/condominium/bank-accounts", h.Finance.BankAccounts).Methods("GET")
	api.HandleFunc("/announcements", h.Announcements.List).Methods("GET")

	api.HandleFunc("/payments", h.Payments.List).Methods("GET")
	api.HandleFunc("/payments/{id}", h.Payments.Get).Methods("GET")
	api.HandleFunc("/payments/{id}/receipt", h.Payments.Receipt).Methods("GET")
	api.HandleFunc("/tickets", h.Tickets.List).Methods("GET")
	api.HandleFunc("/properties/{id}/ledger", h.Ledger.PropertyLedger).Methods("GET")

	// Owner API routes
	ownerAPI := r.PathPrefix("/api/owner").Subrouter()
	ownerAPI.Use(authMiddleware.RequireRole(models.RoleOwner))
	ownerAPI.HandleFunc("/payments", h.Payments.Submit).Methods("POST")
	ownerAPI.HandleFunc("/ledger", h.Ledger.MyLedger).Methods("GET")
	ownerAPI.HandleFunc("/tickets", h.Tickets.Open).Methods("POST")

	// Admin API routes
	adminAPI := r.PathPrefix("/api/admin").Subrouter()
	adminAPI.Use(authMiddleware.RequireRole(models.RoleAdmin))

	// Reconciliation
	adminAPI.HandleFunc("/payments/{id}/approve", h.Reconciliation.Approve).Methods("POST")
	adminAPI.HandleFunc("/payments/{id}/reject", h.Reconciliation.Reject).Methods("POST")

	// Billing
	adminAPI.HandleFunc("/billing/cycles", h.Ledger.IssueCycle).Methods("POST")
	adminAPI.HandleFunc("/billing/mark-overdue", h.Ledger.MarkOverdue).Methods("POST")
	adminAPI.HandleFunc("/receivables", h.Balances.Receivables).Methods("GET")
	adminAPI.HandleFunc("/receivables/export", h.Balances.ExportReceivables).Methods("GET")

	// Directory
	adminAPI.HandleFunc("/properties", h.Directory.ListProperties).Methods("GET")
	adminAPI.HandleFunc("/properties", h.Directory.CreateProperty).Methods("POST")
	adminAPI.HandleFunc("/properties/{id}/owner", h.Directory.AssignOwner).Methods("PUT")
	adminAPI.HandleFunc("/properties/{id}", h.Directory.DeleteProperty).Methods("DELETE")
	adminAPI.HandleFunc("/owners", h.Directory.ListOwners).Methods("GET")
	adminAPI.HandleFunc("/owners", h.Directory.CreateOwner).Methods("POST")
	adminAPI.HandleFunc("/owners/{id}", h.Directory.DeleteOwner).Methods("DELETE")
	adminAPI.HandleFunc("/directory/import", h.Directory.Import).Methods("POST")

	// Finance
	adminAPI.HandleFunc("/condominium/params", h.Finance.UpdateParams).Methods("PUT")
	adminAPI.HandleFunc("/condominium/bank-accounts", h.Finance.UpdateBankAccounts).Methods("PUT")
	adminAPI.HandleFunc("/condominium/residence-letter", h.Finance.UploadResidenceLetter).Methods("PUT")
	adminAPI.HandleFunc("/exchange-rates", h.Finance.RateHistory).Methods("GET")
	adminAPI.HandleFunc("/exchange-rates", h.Finance.PublishRate).Methods("POST")

	// Communication
	adminAPI.HandleFunc("/condominium/notice-board", h.Announcements.UpdateNoticeBoard).Methods("PUT")
	adminAPI.HandleFunc("/announcements", h.Announcements.Publish).Methods("POST")
	adminAPI.HandleFunc("/announcements/{id}/pin", h.Announcements.SetPinned).Methods("PUT")
	adminAPI.HandleFunc("/announcements/{id}", h.Announcements.Delete).Methods("DELETE")
	adminAPI.HandleFunc("/tickets/{id}/respond", h.Tickets.Respond).Methods("PUT")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", h.Health.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", h.Health.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Wrap applies the outer middleware chain: panic recovery, then CORS.
func Wrap(router http.Handler, outer ...func(http.Handler) http.Handler) http.Handler {
	handler := router
	for i := len(outer) - 1; i >= 0; i-- {
		handler = outer[i](handler)
	}
	return handler
}
