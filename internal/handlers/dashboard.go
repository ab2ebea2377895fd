package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/audit"
	"github.com/kwo0two/rentmanagerpro/internal/auth"
	"github.com/kwo0two/rentmanagerpro/internal/httpx"
	"github.com/kwo0two/rentmanagerpro/internal/models"
	"github.com/kwo0two/rentmanagerpro/internal/services"
	"github.com/kwo0two/rentmanagerpro/internal/view"
)

type DashboardHandler struct {
	db    *gorm.DB
	stats *services.StatsService
	audit *audit.Recorder
}

func NewDashboardHandler(db *gorm.DB, rec *audit.Recorder) *DashboardHandler {
	return &DashboardHandler{db: db, stats: services.NewStatsService(db), audit: rec}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	today := queryToday(r)

	var user models.User
	h.db.First(&user, userID)

	stats, err := h.stats.Snapshot(userID, today)
	if err != nil {
		http.Error(w, "Failed to compute dashboard", http.StatusInternalServerError)
		return
	}

	var recentLeases []models.Lease
	h.db.Where("user_id = ?", userID).Preload("Building").
		Order("created_at DESC").Limit(5).Find(&recentLeases)

	var recentPayments []models.Payment
	h.db.Where("user_id = ?", userID).
		Order("payment_date DESC").Limit(5).Find(&recentPayments)

	activity, _ := h.audit.Recent(r.Context(), userID, 10)

	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"as_of": today.String(),
			"stats": stats,
		})
		return
	}
	view.Render(w, r, "dashboard.html", map[string]any{
		"User":           user,
		"Stats":          stats,
		"AsOf":           today,
		"RecentLeases":   recentLeases,
		"RecentPayments": recentPayments,
		"Activity":       activity,
	})
}
