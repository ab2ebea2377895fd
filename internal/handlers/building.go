package handlers

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/audit"
	"github.com/kwo0two/rentmanagerpro/internal/auth"
	"github.com/kwo0two/rentmanagerpro/internal/httpx"
	"github.com/kwo0two/rentmanagerpro/internal/models"
	"github.com/kwo0two/rentmanagerpro/internal/validation"
	"github.com/kwo0two/rentmanagerpro/internal/view"
)

type BuildingHandler struct {
	db    *gorm.DB
	audit *audit.Recorder
}

func NewBuildingHandler(db *gorm.DB, rec *audit.Recorder) *BuildingHandler {
	return &BuildingHandler{db: db, audit: rec}
}

func (h *BuildingHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	query := r.URL.Query().Get("q")
	db := h.db.Where("user_id = ?", userID).Preload("Units")
	if query != "" {
		db = db.Where("name LIKE ? OR address LIKE ?", "%"+query+"%", "%"+query+"%")
	}

	var buildings []models.Building
	db.Order("name").Find(&buildings)

	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"buildings": buildings})
		return
	}
	view.Render(w, r, "buildings/index.html", map[string]any{
		"Buildings": buildings,
		"Query":     query,
	})
}

func (h *BuildingHandler) New(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "buildings/new.html", nil)
}

func (h *BuildingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	building := models.Building{
		UserID:  userID,
		Name:    r.FormValue("name"),
		Address: r.FormValue("address"),
		Notes:   r.FormValue("notes"),
	}

	v := make(validation.Violations)
	validation.Required("name", building.Name, v)
	if !v.Empty() {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
			return
		}
		view.Render(w, r, "buildings/new.html", map[string]any{"Errors": v, "Building": building})
		return
	}

	if err := h.db.Create(&building).Error; err != nil {
		http.Error(w, "Failed to create building", http.StatusInternalServerError)
		return
	}
	h.audit.Record(r.Context(), userID, "building", building.ID, "create", building.Name)

	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, building)
		return
	}
	http.Redirect(w, r, "/buildings/"+strconv.Itoa(int(building.ID)), http.StatusSeeOther)
}

func (h *BuildingHandler) View(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	var building models.Building
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).Preload("Units").First(&building).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	var leases []models.Lease
	h.db.Where("building_id = ? AND user_id = ?", building.ID, userID).Order("lease_start_date DESC").Find(&leases)

	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"building": building, "leases": leases})
		return
	}
	view.Render(w, r, "buildings/view.html", map[string]any{
		"Building": building,
		"Leases":   leases,
	})
}

func (h *BuildingHandler) Edit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	var building models.Building
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).Preload("Units").First(&building).Error; err != nil {
		http.NotFound(w, r)
		return
	}
	view.Render(w, r, "buildings/edit.html", map[string]any{"Building": building})
}

func (h *BuildingHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	var building models.Building
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&building).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	building.Name = r.FormValue("name")
	building.Address = r.FormValue("address")
	building.Notes = r.FormValue("notes")

	v := make(validation.Violations)
	validation.Required("name", building.Name, v)
	if !v.Empty() {
		view.Render(w, r, "buildings/edit.html", map[string]any{"Errors": v, "Building": building})
		return
	}

	if err := h.db.Save(&building).Error; err != nil {
		http.Error(w, "Failed to update building", http.StatusInternalServerError)
		return
	}
	h.audit.Record(r.Context(), userID, "building", building.ID, "update", building.Name)
	http.Redirect(w, r, "/buildings/"+id, http.StatusSeeOther)
}

func (h *BuildingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	var building models.Building
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&building).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	// A building with leases cannot be removed; the ledgers hang off them.
	var leaseCount int64
	h.db.Model(&models.Lease{}).Where("building_id = ?", building.ID).Count(&leaseCount)
	if leaseCount > 0 {
		http.Error(w, "Building has leases", http.StatusConflict)
		return
	}

	if err := h.db.Delete(&building).Error; err != nil {
		http.Error(w, "Failed to delete building", http.StatusInternalServerError)
		return
	}
	h.audit.Record(r.Context(), userID, "building", building.ID, "delete", building.Name)
	http.Redirect(w, r, "/buildings", http.StatusSeeOther)
}

func (h *BuildingHandler) AddUnit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	var building models.Building
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&building).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	unit := models.Unit{
		BuildingID: building.ID,
		UserID:     userID,
		Number:     r.FormValue("number"),
		Floor:      r.FormValue("floor"),
		Notes:      r.FormValue("notes"),
	}

	v := make(validation.Violations)
	validation.Required("number", unit.Number, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
		return
	}

	if err := h.db.Create(&unit).Error; err != nil {
		http.Error(w, "Failed to add unit", http.StatusInternalServerError)
		return
	}
	h.audit.Record(r.Context(), userID, "unit", unit.ID, "create", unit.Number)
	http.Redirect(w, r, "/buildings/"+id, http.StatusSeeOther)
}

func (h *BuildingHandler) RemoveUnit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")
	unitID := r.PathValue("unit_id")

	var building models.Building
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&building).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.db.Where("id = ? AND building_id = ?", unitID, building.ID).Delete(&models.Unit{}).Error; err != nil {
		http.Error(w, "Failed to remove unit", http.StatusInternalServerError)
		return
	}
	h.audit.Record(r.Context(), userID, "unit", pathID(r, "unit_id"), "delete", "")
	http.Redirect(w, r, "/buildings/"+id, http.StatusSeeOther)
}
