package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/audit"
	"github.com/kwo0two/rentmanagerpro/internal/auth"
	"github.com/kwo0two/rentmanagerpro/internal/httpx"
	"github.com/kwo0two/rentmanagerpro/internal/ledger"
	"github.com/kwo0two/rentmanagerpro/internal/models"
	"github.com/kwo0two/rentmanagerpro/internal/services"
	"github.com/kwo0two/rentmanagerpro/internal/validation"
)

type PaymentHandler struct {
	db       *gorm.DB
	payments *services.PaymentService
	audit    *audit.Recorder
}

func NewPaymentHandler(db *gorm.DB, rec *audit.Recorder) *PaymentHandler {
	return &PaymentHandler{db: db, payments: services.NewPaymentService(db), audit: rec}
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	leaseID := pathID(r, "id")

	var lease models.Lease
	if err := h.db.Where("id = ? AND user_id = ?", leaseID, userID).First(&lease).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	payment := models.Payment{
		UserID:        userID,
		LeaseID:       lease.ID,
		PaymentDate:   formDate(r, "payment_date"),
		PaymentAmount: formInt64(r, "payment_amount"),
		Memo:          r.FormValue("memo"),
	}

	v := make(validation.Violations)
	validation.PositiveInt("payment_amount", payment.PaymentAmount, v)
	if payment.PaymentDate.IsZero() {
		v["payment_date"] = "invalid_date"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
		return
	}

	if err := h.db.Create(&payment).Error; err != nil {
		http.Error(w, "Failed to record payment", http.StatusInternalServerError)
		return
	}
	h.audit.Record(r.Context(), userID, "payment", payment.ID, "create", "")

	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, payment)
		return
	}
	http.Redirect(w, r, "/leases/"+r.PathValue("id")+"/ledger", http.StatusSeeOther)
}

// BulkCreate records several payments at once. Two modes:
//   - dates: a comma- or newline-separated list of explicit dates
//   - schedule: day_of_month + from + to, expanded to one date per month
func (h *PaymentHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	leaseID := pathID(r, "id")

	amount := formInt64(r, "payment_amount")
	memo := r.FormValue("memo")

	v := make(validation.Violations)
	validation.PositiveInt("payment_amount", amount, v)

	var dates []ledger.Date
	if raw := r.FormValue("dates"); raw != "" {
		for _, field := range strings.FieldsFunc(raw, func(c rune) bool { return c == ',' || c == '\n' || c == '\r' }) {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			d, err := ledger.ParseDate(field)
			if err != nil {
				v["dates"] = "invalid_date"
				break
			}
			dates = append(dates, d)
		}
	} else {
		from, errFrom := ledger.ParseDate(r.FormValue("from"))
		to, errTo := ledger.ParseDate(r.FormValue("to"))
		day := int(formInt64(r, "day_of_month"))
		if errFrom != nil {
			v["from"] = "invalid_date"
		}
		if errTo != nil {
			v["to"] = "invalid_date"
		}
		if day < 1 || day > 31 {
			v["day_of_month"] = "invalid_value"
		}
		if v.Empty() {
			dates = services.MonthlyDates(from, to, day)
		}
	}
	if v.Empty() && len(dates) == 0 {
		v["dates"] = "required"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation failed", v)
		return
	}

	payments, err := h.payments.CreateBulk(userID, leaseID, dates, amount, memo)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrLeaseNotFound):
			http.NotFound(w, r)
		case errors.Is(err, ledger.ErrNotOwner):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			http.Error(w, "Failed to record payments", http.StatusInternalServerError)
		}
		return
	}
	h.audit.Record(r.Context(), userID, "payment", leaseID, "bulk_create", "")

	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, map[string]any{"created": len(payments), "payments": payments})
		return
	}
	http.Redirect(w, r, "/leases/"+r.PathValue("id")+"/ledger", http.StatusSeeOther)
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	leaseID := r.PathValue("id")
	paymentID := r.PathValue("payment_id")

	var payment models.Payment
	if err := h.db.Where("id = ? AND lease_id = ? AND user_id = ?", paymentID, leaseID, userID).First(&payment).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.db.Delete(&payment).Error; err != nil {
		http.Error(w, "Failed to delete payment", http.StatusInternalServerError)
		return
	}
	h.audit.Record(r.Context(), userID, "payment", payment.ID, "delete", "")
	http.Redirect(w, r, "/leases/"+leaseID+"/ledger", http.StatusSeeOther)
}
