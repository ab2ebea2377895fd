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

type LeaseHandler struct {
	db    *gorm.DB
	audit *audit.Recorder
}

func NewLeaseHandler(db *gorm.DB, rec *audit.Recorder) *LeaseHandler {
	return &LeaseHandler{db: db, audit: rec}
}

func (h *LeaseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	query := r.URL.Query().Get("q")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit := 20
	offset := (page - 1) * limit

	db := h.db.Where("user_id = ?", userID).Preload("Building").Preload("Units")
	if query != "" {
		db = db.Where("tenant_name LIKE ?", "%"+query+"%")
	}

	var leases []models.Lease
	var total int64
	db.Model(&models.Lease{}).Count(&total)
	db.Order("lease_start_date DESC").Limit(limit).Offset(offset).Find(&leases)

	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"leases": leases, "total": total})
		return
	}
	view.Render(w, r, "leases/index.html", map[string]any{
		"Leases": leases,
		"Query":  query,
		"Page":   page,
		"Total":  total,
		"Limit":  limit,
	})
}

func (h *LeaseHandler) New(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var buildings []models.Building
	h.db.Where("user_id = ?", userID).Preload("Units").Order("name").Find(&buildings)

	view.Render(w, r, "leases/new.html", map[string]any{"Buildings": buildings})
}

// leaseFromForm fills a lease from form values and validates it.
func (h *LeaseHandler) leaseFromForm(r *http.Request, lease *models.Lease) validation.Violations {
	lease.TenantName = r.FormValue("tenant_name")
	lease.TenantPhone = r.FormValue("tenant_phone")
	lease.TenantEmail = r.FormValue("tenant_email")
	lease.LeaseStartDate = formDate(r, "lease_start_date")
	lease.LeaseEndDate = formDate(r, "lease_end_date")
	lease.RentAmount = formInt64(r, "rent_amount")
	lease.VATTreatment = r.FormValue("vat_treatment")
	lease.PaymentMethod = r.FormValue("payment_method")
	lease.RentCalculationMethod = r.FormValue("rent_calculation_method")
	lease.RentFreePeriod = int(formInt64(r, "rent_free_period"))
	lease.RentFreeUnit = r.FormValue("rent_free_unit")
	if lease.VATTreatment == "" {
		lease.VATTreatment = "none"
	}
	if lease.RentCalculationMethod == "" {
		lease.RentCalculationMethod = "contract_date"
	}
	if lease.RentFreeUnit == "" {
		lease.RentFreeUnit = "days"
	}

	v := make(validation.Violations)
	validation.Required("tenant_name", lease.TenantName, v)
	validation.PositiveInt("rent_amount", lease.RentAmount, v)
	validation.NonNegativeInt("rent_free_period", int64(lease.RentFreePeriod), v)
	validation.OneOf("vat_treatment", lease.VATTreatment, []string{"none", "included", "excluded"}, v)
	validation.OneOf("rent_calculation_method", lease.RentCalculationMethod, []string{"contract_date", "end_of_month"}, v)
	validation.OneOf("rent_free_unit", lease.RentFreeUnit, []string{"days", "months"}, v)
	if lease.LeaseStartDate.IsZero() {
		v["lease_start_date"] = "invalid_date"
	}
	if lease.LeaseEndDate.IsZero() {
		v["lease_end_date"] = "invalid_date"
	}
	return v
}

// attachUnits replaces the lease's unit association with the units selected
// in the form, restricted to the lease's own building.
func (h *LeaseHandler) attachUnits(r *http.Request, lease *models.Lease) error {
	ids := r.Form["unit_ids"]
	if len(ids) == 0 {
		return nil
	}
	var units []models.Unit
	if err := h.db.Where("building_id = ? AND id IN ?", lease.BuildingID, ids).Find(&units).Error; err != nil {
		return err
	}
	return h.db.Model(lease).Association("Units").Replace(units)
}

func (h *LeaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	buildingID, _ := strconv.ParseUint(r.FormValue("building_id"), 10, 32)
	var building models.Building
	if err := h.db.Where("id = ? AND user_id = ?", buildingID, userID).First(&building).Error; err != nil {
		http.Error(w, "Building not found", http.StatusBadRequest)
		return
	}

	lease := models.Lease{UserID: userID, BuildingID: building.ID}
	v := h.leaseFromForm(r, &lease)
	if !v.Empty() {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
			return
		}
		h.New(w, r)
		return
	}

	if err := h.db.Create(&lease).Error; err != nil {
		http.Error(w, "Failed to create lease", http.StatusInternalServerError)
		return
	}
	if err := h.attachUnits(r, &lease); err != nil {
		http.Error(w, "Failed to attach units", http.StatusInternalServerError)
		return
	}
	h.audit.Record(r.Context(), userID, "lease", lease.ID, "create", lease.TenantName)

	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, lease)
		return
	}
	http.Redirect(w, r, "/leases/"+strconv.Itoa(int(lease.ID)), http.StatusSeeOther)
}

func (h *LeaseHandler) View(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	var lease models.Lease
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).
		Preload("Building").Preload("Units").Preload("Renewals").
		First(&lease).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, lease)
		return
	}
	view.Render(w, r, "leases/view.html", map[string]any{"Lease": lease})
}

func (h *LeaseHandler) Edit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	var lease models.Lease
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).
		Preload("Building").Preload("Units").Preload("Renewals").
		First(&lease).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	var buildings []models.Building
	h.db.Where("user_id = ?", userID).Preload("Units").Order("name").Find(&buildings)

	view.Render(w, r, "leases/edit.html", map[string]any{
		"Lease":     lease,
		"Buildings": buildings,
	})
}

func (h *LeaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	var lease models.Lease
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&lease).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	v := h.leaseFromForm(r, &lease)
	if !v.Empty() {
		if wantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
			return
		}
		h.Edit(w, r)
		return
	}

	if err := h.db.Save(&lease).Error; err != nil {
		http.Error(w, "Failed to update lease", http.StatusInternalServerError)
		return
	}
	if err := h.attachUnits(r, &lease); err != nil {
		http.Error(w, "Failed to attach units", http.StatusInternalServerError)
		return
	}
	h.audit.Record(r.Context(), userID, "lease", lease.ID, "update", lease.TenantName)
	http.Redirect(w, r, "/leases/"+id, http.StatusSeeOther)
}

func (h *LeaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	var lease models.Lease
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&lease).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	// Payments and adjustments go with the lease; orphaned records would
	// never appear in any ledger again.
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lease_id = ?", lease.ID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lease_id = ?", lease.ID).Delete(&models.RentAdjustment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lease_id = ?", lease.ID).Delete(&models.Renewal{}).Error; err != nil {
			return err
		}
		return tx.Delete(&lease).Error
	})
	if err != nil {
		http.Error(w, "Failed to delete lease", http.StatusInternalServerError)
		return
	}
	h.audit.Record(r.Context(), userID, "lease", lease.ID, "delete", lease.TenantName)
	http.Redirect(w, r, "/leases", http.StatusSeeOther)
}

func (h *LeaseHandler) AddRenewal(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	var lease models.Lease
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&lease).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	renewal := models.Renewal{
		LeaseID:       lease.ID,
		RenewalDate:   formDate(r, "renewal_date"),
		NewRentAmount: formInt64(r, "new_rent_amount"),
	}
	if end := formDate(r, "new_lease_end_date"); !end.IsZero() {
		renewal.NewLeaseEndDate = &end
	}

	v := make(validation.Violations)
	validation.PositiveInt("new_rent_amount", renewal.NewRentAmount, v)
	if renewal.RenewalDate.IsZero() {
		v["renewal_date"] = "invalid_date"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
		return
	}

	if err := h.db.Create(&renewal).Error; err != nil {
		http.Error(w, "Failed to add renewal", http.StatusInternalServerError)
		return
	}
	h.audit.Record(r.Context(), userID, "renewal", renewal.ID, "create", "")
	http.Redirect(w, r, "/leases/"+id, http.StatusSeeOther)
}

func (h *LeaseHandler) RemoveRenewal(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")
	renewalID := r.PathValue("renewal_id")

	var lease models.Lease
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&lease).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.db.Where("id = ? AND lease_id = ?", renewalID, lease.ID).Delete(&models.Renewal{}).Error; err != nil {
		http.Error(w, "Failed to remove renewal", http.StatusInternalServerError)
		return
	}
	h.audit.Record(r.Context(), userID, "renewal", pathID(r, "renewal_id"), "delete", "")
	http.Redirect(w, r, "/leases/"+id, http.StatusSeeOther)
}
