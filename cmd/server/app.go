package main

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/auth"
	"github.com/kwo0two/rentmanagerpro/internal/gate"
	"github.com/kwo0two/rentmanagerpro/internal/i18n"
	"github.com/kwo0two/rentmanagerpro/internal/models"
	"github.com/kwo0two/rentmanagerpro/internal/policy"
	"github.com/kwo0two/rentmanagerpro/internal/view"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	db        *gorm.DB
	routerCfg *policy.RouterConfig
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, routerCfg *policy.RouterConfig) *App {
	app := &App{
		mux:       http.NewServeMux(),
		db:        db,
		routerCfg: routerCfg,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := auth.Middleware(withPreferences(a.mux))
	handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes (no auth required)
	// ─────────────────────────────────────────────────────────────────────────
	ah := a.routerCfg.AuthHandler

	a.mux.HandleFunc("GET /", a.landingPage)
	a.mux.HandleFunc("GET /login", ah.Login)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("GET /signup", ah.Signup)
	a.mux.HandleFunc("POST /signup", ah.Signup)
	a.mux.HandleFunc("GET /logout", ah.Logout)
	a.mux.HandleFunc("POST /logout", ah.Logout)

	// ─────────────────────────────────────────────────────────────────────────
	// Authenticated routes
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.Handle("GET /dashboard", a.requireAuth(http.HandlerFunc(a.routerCfg.DashboardHandler.Dashboard)))

	// Buildings and units
	bh := a.routerCfg.BuildingHandler
	a.mux.Handle("GET /buildings", a.requireAuth(http.HandlerFunc(bh.List)))
	a.mux.Handle("GET /buildings/new", a.requireAuth(http.HandlerFunc(bh.New)))
	a.mux.Handle("POST /buildings", a.requireAuth(http.HandlerFunc(bh.Create)))
	a.mux.Handle("GET /buildings/{id}", a.requireAuth(a.requireOwnedBuilding(gate.ActionView, http.HandlerFunc(bh.View))))
	a.mux.Handle("GET /buildings/{id}/edit", a.requireAuth(a.requireOwnedBuilding(gate.ActionUpdate, http.HandlerFunc(bh.Edit))))
	a.mux.Handle("POST /buildings/{id}", a.requireAuth(a.requireOwnedBuilding(gate.ActionUpdate, http.HandlerFunc(bh.Update))))
	a.mux.Handle("POST /buildings/{id}/delete", a.requireAuth(a.requireOwnedBuilding(gate.ActionDelete, http.HandlerFunc(bh.Delete))))
	a.mux.Handle("POST /buildings/{id}/units", a.requireAuth(a.requireOwnedBuilding(gate.ActionUpdate, http.HandlerFunc(bh.AddUnit))))
	a.mux.Handle("POST /buildings/{id}/units/{unit_id}/delete", a.requireAuth(a.requireOwnedBuilding(gate.ActionUpdate, http.HandlerFunc(bh.RemoveUnit))))

	// Leases and renewals
	lh := a.routerCfg.LeaseHandler
	a.mux.Handle("GET /leases", a.requireAuth(http.HandlerFunc(lh.List)))
	a.mux.Handle("GET /leases/new", a.requireAuth(http.HandlerFunc(lh.New)))
	a.mux.Handle("POST /leases", a.requireAuth(http.HandlerFunc(lh.Create)))
	a.mux.Handle("GET /leases/{id}", a.requireAuth(a.requireOwnedLease(gate.ActionView, http.HandlerFunc(lh.View))))
	a.mux.Handle("GET /leases/{id}/edit", a.requireAuth(a.requireOwnedLease(gate.ActionUpdate, http.HandlerFunc(lh.Edit))))
	a.mux.Handle("POST /leases/{id}", a.requireAuth(a.requireOwnedLease(gate.ActionUpdate, http.HandlerFunc(lh.Update))))
	a.mux.Handle("POST /leases/{id}/delete", a.requireAuth(a.requireOwnedLease(gate.ActionDelete, http.HandlerFunc(lh.Delete))))
	a.mux.Handle("POST /leases/{id}/renewals", a.requireAuth(a.requireOwnedLease(gate.ActionUpdate, http.HandlerFunc(lh.AddRenewal))))
	a.mux.Handle("POST /leases/{id}/renewals/{renewal_id}/delete", a.requireAuth(a.requireOwnedLease(gate.ActionUpdate, http.HandlerFunc(lh.RemoveRenewal))))

	// Payments
	ph := a.routerCfg.PaymentHandler
	a.mux.Handle("POST /leases/{id}/payments", a.requireAuth(a.requireOwnedLease(gate.ActionUpdate, http.HandlerFunc(ph.Create))))
	a.mux.Handle("POST /leases/{id}/payments/bulk", a.requireAuth(a.requireOwnedLease(gate.ActionUpdate, http.HandlerFunc(ph.BulkCreate))))
	a.mux.Handle("POST /leases/{id}/payments/{payment_id}/delete", a.requireAuth(a.requireOwnedLease(gate.ActionUpdate, http.HandlerFunc(ph.Delete))))

	// Adjustments
	adjh := a.routerCfg.AdjustmentHandler
	a.mux.Handle("POST /leases/{id}/adjustments", a.requireAuth(a.requireOwnedLease(gate.ActionUpdate, http.HandlerFunc(adjh.Create))))
	a.mux.Handle("POST /leases/{id}/adjustments/{adjustment_id}/delete", a.requireAuth(a.requireOwnedLease(gate.ActionUpdate, http.HandlerFunc(adjh.Delete))))

	// Ledger. The service layer repeats the ownership check; the gate here
	// settles the 404-vs-403 answer before any ledger work happens.
	ledh := a.routerCfg.LedgerHandler
	a.mux.Handle("GET /leases/{id}/ledger", a.requireAuth(a.requireOwnedLease(gate.ActionView, http.HandlerFunc(ledh.View))))
	a.mux.Handle("GET /leases/{id}/ledger/export", a.requireAuth(a.requireOwnedLease(gate.ActionExport, http.HandlerFunc(ledh.ExportCSV))))

	// Backup
	bkh := a.routerCfg.BackupHandler
	a.mux.Handle("GET /backup/export", a.requireAuth(http.HandlerFunc(bkh.Export)))
	a.mux.Handle("POST /backup/restore", a.requireAuth(http.HandlerFunc(bkh.Restore)))

	// ─────────────────────────────────────────────────────────────────────────
	// Static files
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

// requireAuth wraps a handler to require authentication.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return auth.RequireAuth(next)
}

// requireOwnedLease loads the lease named by {id} and authorizes the given
// action through the gate before the handler runs. The 404-vs-403 split
// tells a legitimate user about typos without telling a stranger the lease
// exists.
func (a *App) requireOwnedLease(action gate.Action, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.UserIDFromContext(r.Context())
		var lease models.Lease
		if err := a.db.First(&lease, "id = ?", r.PathValue("id")).Error; err != nil {
			http.NotFound(w, r)
			return
		}
		if err := a.routerCfg.Gate.Authorize(r.Context(), userID, action, "lease", &lease); err != nil {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireOwnedBuilding is the building counterpart of requireOwnedLease.
func (a *App) requireOwnedBuilding(action gate.Action, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.UserIDFromContext(r.Context())
		var building models.Building
		if err := a.db.First(&building, "id = ?", r.PathValue("id")).Error; err != nil {
			http.NotFound(w, r)
			return
		}
		if err := a.routerCfg.Gate.Authorize(r.Context(), userID, action, "building", &building); err != nil {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withPreferences injects the language preference from cookie or query.
func withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); q != "" {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		ctx = i18n.WithLang(ctx, lang)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *App) landingPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	userID, loggedIn := auth.UserIDFromContext(r.Context())
	data := map[string]any{
		"IsLoggedIn": loggedIn,
		"UserID":     userID,
	}
	if err := view.Render(w, r, "index.html", data); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
	}
}
