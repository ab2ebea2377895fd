package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/audit"
	"github.com/kwo0two/rentmanagerpro/internal/auth"
	"github.com/kwo0two/rentmanagerpro/internal/httpx"
	"github.com/kwo0two/rentmanagerpro/internal/ledger"
	"github.com/kwo0two/rentmanagerpro/internal/models"
	"github.com/kwo0two/rentmanagerpro/internal/validation"
)

type AdjustmentHandler struct {
	db    *gorm.DB
	audit *audit.Recorder
}

func NewAdjustmentHandler(db *gorm.DB, rec *audit.Recorder) *AdjustmentHandler {
	return &AdjustmentHandler{db: db, audit: rec}
}

// Create records a rent override for one month. The date is normalized to
// the first of its month; a second adjustment for the same month replaces
// the first.
func (h *AdjustmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	leaseID := pathID(r, "id")

	var lease models.Lease
	if err := h.db.Where("id = ? AND user_id = ?", leaseID, userID).First(&lease).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	date := formDate(r, "adjustment_date")
	amount := formInt64(r, "adjusted_rent_amount")

	v := make(validation.Violations)
	validation.NonNegativeInt("adjusted_rent_amount", amount, v)
	if date.IsZero() {
		v["adjustment_date"] = "invalid_date"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
		return
	}

	month := ledger.DateOf(date).FirstOfMonth().Time()

	adjustment := models.RentAdjustment{
		UserID:             userID,
		LeaseID:            lease.ID,
		AdjustmentDate:     month,
		AdjustedRentAmount: amount,
		Notes:              r.FormValue("notes"),
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var existing models.RentAdjustment
		err := tx.Where("lease_id = ? AND adjustment_date = ?", lease.ID, month).First(&existing).Error
		if err == nil {
			existing.AdjustedRentAmount = adjustment.AdjustedRentAmount
			existing.Notes = adjustment.Notes
			adjustment = existing
			return tx.Save(&existing).Error
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		return tx.Create(&adjustment).Error
	})
	if err != nil {
		http.Error(w, "Failed to record adjustment", http.StatusInternalServerError)
		return
	}
	h.audit.Record(r.Context(), userID, "adjustment", adjustment.ID, "create", adjustment.Notes)

	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, adjustment)
		return
	}
	http.Redirect(w, r, "/leases/"+r.PathValue("id")+"/ledger", http.StatusSeeOther)
}

func (h *AdjustmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	leaseID := r.PathValue("id")
	adjustmentID := r.PathValue("adjustment_id")

	var adjustment models.RentAdjustment
	if err := h.db.Where("id = ? AND lease_id = ? AND user_id = ?", adjustmentID, leaseID, userID).First(&adjustment).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.db.Delete(&adjustment).Error; err != nil {
		http.Error(w, "Failed to delete adjustment", http.StatusInternalServerError)
		return
	}
	h.audit.Record(r.Context(), userID, "adjustment", adjustment.ID, "delete", "")
	http.Redirect(w, r, "/leases/"+leaseID+"/ledger", http.StatusSeeOther)
}
