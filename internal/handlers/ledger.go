package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/auth"
	"github.com/kwo0two/rentmanagerpro/internal/httpx"
	"github.com/kwo0two/rentmanagerpro/internal/ledger"
	"github.com/kwo0two/rentmanagerpro/internal/models"
	"github.com/kwo0two/rentmanagerpro/internal/services"
	"github.com/kwo0two/rentmanagerpro/internal/view"
)

type LedgerHandler struct {
	db     *gorm.DB
	ledger *services.LedgerService
}

func NewLedgerHandler(db *gorm.DB) *LedgerHandler {
	return &LedgerHandler{db: db, ledger: services.NewLedgerService(db)}
}

// ledgerRow is the JSON shape of one ledger line. Amount pointers stay
// pointers so empty cells serialize as null, not zero.
type ledgerRow struct {
	Date         string `json:"date"`
	Description  string `json:"description"`
	SupplyValue  *int64 `json:"supply_value"`
	VAT          *int64 `json:"vat"`
	Rent         *int64 `json:"rent"`
	Payment      *int64 `json:"payment"`
	Balance      int64  `json:"balance"`
	Notes        string `json:"notes,omitempty"`
	Adjusted     bool   `json:"adjusted,omitempty"`
	AdjustmentID uint   `json:"adjustment_id,omitempty"`
	IsDue        bool   `json:"is_due"`
}

func toLedgerRows(rows []ledger.Row) []ledgerRow {
	out := make([]ledgerRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ledgerRow{
			Date:         row.Date.String(),
			Description:  row.Description,
			SupplyValue:  row.SupplyValue,
			VAT:          row.VAT,
			Rent:         row.Rent,
			Payment:      row.Payment,
			Balance:      row.Balance,
			Notes:        row.Notes,
			Adjusted:     row.Adjusted,
			AdjustmentID: row.AdjustmentID,
			IsDue:        row.IsDue,
		})
	}
	return out
}

func (h *LedgerHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrLeaseNotFound):
		http.NotFound(w, r)
	case errors.Is(err, ledger.ErrNotOwner):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		var recErr *ledger.RecordError
		if errors.As(err, &recErr) {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "corrupt record", map[string]any{
				"kind":  recErr.Kind,
				"id":    recErr.ID,
				"field": recErr.Field,
			})
			return
		}
		http.Error(w, "Failed to build ledger", http.StatusInternalServerError)
	}
}

// View renders the lease's ledger as of today (or the "today" query
// parameter, for looking at past statements).
func (h *LedgerHandler) View(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	leaseID := pathID(r, "id")
	today := queryToday(r)

	result, err := h.ledger.BuildLedger(userID, leaseID, today)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var adjustments []models.RentAdjustment
	h.db.Where("lease_id = ?", leaseID).Order("adjustment_date").Find(&adjustments)

	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"lease_id":    result.Lease.ID,
			"tenant_name": result.Lease.TenantName,
			"as_of":       today.String(),
			"rows":        toLedgerRows(result.Rows),
			"outstanding": result.Outstanding,
		})
		return
	}
	view.Render(w, r, "leases/ledger.html", map[string]any{
		"Lease":       result.Lease,
		"Rows":        result.Rows,
		"Outstanding": result.Outstanding,
		"AsOf":        today,
		"Adjustments": adjustments,
	})
}

// ExportCSV downloads the ledger as a CSV statement. Column order mirrors
// the on-screen table.
func (h *LedgerHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	leaseID := pathID(r, "id")
	today := queryToday(r)

	result, err := h.ledger.BuildLedger(userID, leaseID, today)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"ledger-%d-%s.csv\"", result.Lease.ID, today.String()))
	// BOM so Excel opens the Korean text as UTF-8.
	w.Write([]byte{0xEF, 0xBB, 0xBF})

	cw := csv.NewWriter(w)
	cw.Write([]string{"날짜", "내용", "공급가액", "부가세", "임대료", "입금액", "잔액", "비고"})
	for _, row := range result.Rows {
		cw.Write([]string{
			row.Date.String(),
			row.Description,
			formatAmount(row.SupplyValue),
			formatAmount(row.VAT),
			formatAmount(row.Rent),
			formatAmount(row.Payment),
			strconv.FormatInt(row.Balance, 10),
			row.Notes,
		})
	}
	cw.Flush()
}

func formatAmount(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
