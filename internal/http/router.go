package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parking-client/internal/handlers"
	"parking-client/internal/middleware"
	"parking-client/internal/models"
	"parking-client/internal/store"
)

type Handlers struct {
	Session   *handlers.SessionHandler
	Staff     *handlers.StaffHandler
	Vehicle   *handlers.VehicleHandler
	Price     *handlers.PriceHandler
	Dashboard *handlers.DashboardHandler
	Pass      *handlers.PassHandler
	Printer   *handlers.PrinterHandler
	Health    *handlers.HealthHandler
	Feed      http.Handler
}

func NewRouter(st *store.Store, h Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// screen wraps a handler with the capability its screen requires
	screen := func(capability string, fn http.HandlerFunc) http.Handler {
		return middleware.RequireCapability(st, capability)(fn)
	}

	// Public API routes - Session
	r.HandleFunc("/api/state", h.Session.State).Methods("GET")
	r.HandleFunc("/api/auth/login", h.Session.Login).Methods("POST")
	r.HandleFunc("/api/auth/signup", h.Session.Signup).Methods("POST")
	r.HandleFunc("/api/auth/restore", h.Session.Restore).Methods("POST")
	r.HandleFunc("/api/auth/logout", h.Session.Logout).Methods("POST")
	r.HandleFunc("/api/access/{capability}", h.Session.Access).Methods("GET")

	// State feed
	if h.Feed != nil {
		r.Handle("/ws", h.Feed)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireSession(st))

	// Home (check-in / check-out)
	api.Handle("/vehicles/checkin", screen(models.PermHome, h.Vehicle.CheckIn)).Methods("POST")
	api.Handle("/vehicles/checkout", screen(models.PermHome, h.Vehicle.CheckOut)).Methods("POST")
	api.Handle("/me/today", screen(models.PermHome, h.Vehicle.Today)).Methods("GET")

	// Vehicle lists
	api.Handle("/vehicles", screen(models.PermVehicles, h.Vehicle.List)).Methods("GET")
	api.Handle("/vehicles/events", screen(models.PermVehicles, h.Vehicle.Events)).Methods("GET")

	// Reports
	api.Handle("/reports/today", screen(models.PermTodayReport, h.Dashboard.Today)).Methods("GET")
	api.Handle("/reports/today.pdf", screen(models.PermTodayReport, h.Dashboard.TodayPDF)).Methods("GET")
	api.Handle("/reports/today.csv", screen(models.PermTodayReport, h.Dashboard.TodayCSV)).Methods("GET")
	api.Handle("/reports/today/archive", screen(models.PermTodayReport, h.Dashboard.Archive)).Methods("POST")
	api.Handle("/dashboard", screen(models.PermDashboard, h.Dashboard.Dashboard)).Methods("GET")

	// Monthly passes
	api.Handle("/passes", screen(models.PermMonthlyPass, h.Pass.List)).Methods("GET")
	api.Handle("/passes", screen(models.PermMonthlyPass, h.Pass.Create)).Methods("POST")
	api.Handle("/passes/{id}/extend", screen(models.PermMonthlyPass, h.Pass.Extend)).Methods("POST")

	// Prices
	api.Handle("/prices", screen(models.PermPriceDetails, h.Price.Get)).Methods("GET")
	api.Handle("/prices/daily", screen(models.PermPriceDetails, h.Price.UpdateDaily)).Methods("PUT")
	api.Handle("/prices/monthly", screen(models.PermPriceDetails, h.Price.UpdateMonthly)).Methods("PUT")

	// Staff management
	api.Handle("/staff", screen(models.PermViewStaff, h.Staff.List)).Methods("GET")
	api.Handle("/staff", screen(models.PermCreateStaff, h.Staff.Create)).Methods("POST")
	api.Handle("/staff/hub", screen(models.PermStaffSettings, h.Staff.Hub)).Methods("GET")
	api.Handle("/staff/{id}", screen(models.PermInStaff, h.Staff.Get)).Methods("GET")
	api.Handle("/staff/{id}", screen(models.PermEditDeleteStaff, h.Staff.Update)).Methods("PUT")
	api.Handle("/staff/{id}", screen(models.PermEditDeleteStaff, h.Staff.Delete)).Methods("DELETE")
	api.Handle("/staff/{id}/vehicles", screen(models.PermStaffVehicles, h.Vehicle.StaffList)).Methods("GET")
	api.Handle("/staff/{id}/revenue", screen(models.PermStaffRevenue, h.Staff.Revenue)).Methods("GET")
	api.Handle("/staff/{id}/permissions", screen(models.PermStaffPermissionPage, h.Staff.GetPermissions)).Methods("GET")
	api.Handle("/staff/{id}/permissions", screen(models.PermStaffPermissionPage, h.Staff.SetPermissions)).Methods("PUT")
	api.Handle("/permissions", screen(models.PermStaffPermissionPage, h.Session.Vocabulary)).Methods("GET")

	// Profile
	api.Handle("/profile", screen(models.PermAccountSettings, h.Session.Profile)).Methods("GET")
	api.Handle("/profile", screen(models.PermAccount, h.Session.UpdateProfile)).Methods("PUT")
	api.Handle("/admin/profile", screen(models.PermAdminUpdate, h.Session.UpdateProfile)).Methods("PUT")

	// Printer
	api.Handle("/printer", screen(models.PermPrinterSettings, h.Printer.Status)).Methods("GET")
	api.Handle("/printer/connect", screen(models.PermPrinterSettings, h.Printer.Connect)).Methods("POST")
	api.Handle("/printer/disconnect", screen(models.PermPrinterSettings, h.Printer.Disconnect)).Methods("POST")
	api.HandleFunc("/printer/print", h.Printer.Print).Methods("POST")

	// Health check endpoints
	r.HandleFunc("/health", h.Health.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", h.Health.DetailedHealth).Methods("GET")

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
