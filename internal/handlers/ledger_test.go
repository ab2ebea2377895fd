package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/audit"
	"github.com/kwo0two/rentmanagerpro/internal/auth"
	"github.com/kwo0two/rentmanagerpro/internal/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Building{}, &models.Unit{},
		&models.Lease{}, &models.Renewal{}, &models.Payment{},
		&models.RentAdjustment{}, &models.AuditLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedLease(t *testing.T, db *gorm.DB) (*models.User, *models.Lease) {
	t.Helper()
	user := models.User{Email: "owner@example.com", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	building := models.Building{UserID: user.ID, Name: "중앙빌딩"}
	if err := db.Create(&building).Error; err != nil {
		t.Fatalf("create building: %v", err)
	}
	lease := models.Lease{
		UserID:                user.ID,
		BuildingID:            building.ID,
		TenantName:            "홍길동",
		LeaseStartDate:        time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		LeaseEndDate:          time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		RentAmount:            1000000,
		VATTreatment:          "none",
		RentCalculationMethod: "contract_date",
	}
	if err := db.Create(&lease).Error; err != nil {
		t.Fatalf("create lease: %v", err)
	}
	return &user, &lease
}

// authed sets the user id in the request context and a JSON accept header.
func authed(req *http.Request, userID uint) *http.Request {
	req.Header.Set("Accept", "application/json")
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

func TestLedgerViewJSON(t *testing.T) {
	db := setupTestDB(t)
	user, lease := seedLease(t, db)
	db.Create(&models.Payment{
		UserID: user.ID, LeaseID: lease.ID,
		PaymentDate: time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), PaymentAmount: 1000000,
	})

	h := NewLedgerHandler(db)
	req := authed(httptest.NewRequest(http.MethodGet, "/leases/1/ledger?today=2023-03-15", nil), user.ID)
	req.SetPathValue("id", "1")
	rr := httptest.NewRecorder()
	h.View(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		AsOf        string `json:"as_of"`
		Outstanding int64  `json:"outstanding"`
		Rows        []struct {
			Date        string `json:"date"`
			Description string `json:"description"`
			Balance     int64  `json:"balance"`
			IsDue       bool   `json:"is_due"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// Jan full, Feb full, March prorated to the 15th, one payment.
	if len(resp.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(resp.Rows))
	}
	if resp.Rows[0].Description != "2023-01월분" {
		t.Errorf("unexpected first description %q", resp.Rows[0].Description)
	}
	// Jan due and Jan 31 payment share a date; the due sorts first.
	if !resp.Rows[0].IsDue || resp.Rows[1].IsDue {
		t.Errorf("expected due before payment on the same date")
	}
	wantOutstanding := int64(1000000 + 483871 - 1000000 + 1000000)
	if resp.Outstanding != wantOutstanding {
		t.Errorf("outstanding = %d, want %d", resp.Outstanding, wantOutstanding)
	}
}

func TestLedgerViewNotFound(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLease(t, db)

	h := NewLedgerHandler(db)
	req := authed(httptest.NewRequest(http.MethodGet, "/leases/999/ledger", nil), user.ID)
	req.SetPathValue("id", "999")
	rr := httptest.NewRecorder()
	h.View(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestLedgerViewForbiddenForStranger(t *testing.T) {
	db := setupTestDB(t)
	_, lease := seedLease(t, db)
	stranger := models.User{Email: "stranger@example.com", Password: "x"}
	db.Create(&stranger)

	h := NewLedgerHandler(db)
	req := authed(httptest.NewRequest(http.MethodGet, "/leases/1/ledger", nil), stranger.ID)
	req.SetPathValue("id", "1")
	rr := httptest.NewRecorder()
	h.View(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for lease %d, got %d", lease.ID, rr.Code)
	}
}

func TestLedgerExportCSV(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLease(t, db)

	h := NewLedgerHandler(db)
	req := authed(httptest.NewRequest(http.MethodGet, "/leases/1/ledger/export?today=2024-01-01", nil), user.ID)
	req.SetPathValue("id", "1")
	rr := httptest.NewRecorder()
	h.ExportCSV(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("unexpected content type %q", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "공급가액") {
		t.Errorf("missing CSV header, got %q", body[:min(len(body), 100)])
	}
	// 12 dues + header line
	lines := strings.Count(strings.TrimSpace(body), "\n") + 1
	if lines != 13 {
		t.Errorf("expected 13 CSV lines, got %d", lines)
	}
}

func TestPaymentCreateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	user, lease := seedLease(t, db)
	rec := audit.NewRecorder(db)

	h := NewPaymentHandler(db, rec)
	form := url.Values{
		"payment_date":   {"2023-02-05"},
		"payment_amount": {"1000000"},
		"memo":           {"2월 월세"},
	}
	req := authed(httptest.NewRequest(http.MethodPost, "/leases/1/payments", strings.NewReader(form.Encode())), user.ID)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", "1")
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var payment models.Payment
	if err := db.Where("lease_id = ?", lease.ID).First(&payment).Error; err != nil {
		t.Fatalf("payment not stored: %v", err)
	}
	if payment.PaymentAmount != 1000000 || payment.Memo != "2월 월세" {
		t.Errorf("stored payment mismatch: %+v", payment)
	}

	var logCount int64
	db.Model(&models.AuditLog{}).Where("entity_type = ? AND action = ?", "payment", "create").Count(&logCount)
	if logCount != 1 {
		t.Errorf("expected 1 audit entry, got %d", logCount)
	}
}

func TestPaymentCreateRejectsBadDate(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedLease(t, db)
	h := NewPaymentHandler(db, audit.NewRecorder(db))

	form := url.Values{
		"payment_date":   {"05/02/2023"},
		"payment_amount": {"1000000"},
	}
	req := authed(httptest.NewRequest(http.MethodPost, "/leases/1/payments", strings.NewReader(form.Encode())), user.ID)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", "1")
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var count int64
	db.Model(&models.Payment{}).Count(&count)
	if count != 0 {
		t.Errorf("bad payment was stored")
	}
}

func TestPaymentBulkCreateSchedule(t *testing.T) {
	db := setupTestDB(t)
	user, lease := seedLease(t, db)
	h := NewPaymentHandler(db, audit.NewRecorder(db))

	form := url.Values{
		"payment_amount": {"1000000"},
		"from":           {"2023-01-01"},
		"to":             {"2023-03-31"},
		"day_of_month":   {"31"},
	}
	req := authed(httptest.NewRequest(http.MethodPost, "/leases/1/payments/bulk", strings.NewReader(form.Encode())), user.ID)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", "1")
	rr := httptest.NewRecorder()
	h.BulkCreate(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var payments []models.Payment
	db.Where("lease_id = ?", lease.ID).Order("payment_date").Find(&payments)
	if len(payments) != 3 {
		t.Fatalf("expected 3 payments, got %d", len(payments))
	}
	// Day 31 clamps to Feb 28.
	if payments[1].PaymentDate.Day() != 28 {
		t.Errorf("February payment on day %d, want 28", payments[1].PaymentDate.Day())
	}
}

func TestAdjustmentCreateReplacesSameMonth(t *testing.T) {
	db := setupTestDB(t)
	user, lease := seedLease(t, db)
	h := NewAdjustmentHandler(db, audit.NewRecorder(db))

	post := func(date, amount, notes string) *httptest.ResponseRecorder {
		form := url.Values{
			"adjustment_date":      {date},
			"adjusted_rent_amount": {amount},
			"notes":                {notes},
		}
		req := authed(httptest.NewRequest(http.MethodPost, "/leases/1/adjustments", strings.NewReader(form.Encode())), user.ID)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.SetPathValue("id", "1")
		rr := httptest.NewRecorder()
		h.Create(rr, req)
		return rr
	}

	if rr := post("2023-03-15", "800000", "첫번째"); rr.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d", rr.Code)
	}
	if rr := post("2023-03-20", "500000", "두번째"); rr.Code != http.StatusCreated {
		t.Fatalf("second create: expected 201, got %d", rr.Code)
	}

	var adjustments []models.RentAdjustment
	db.Where("lease_id = ?", lease.ID).Find(&adjustments)
	if len(adjustments) != 1 {
		t.Fatalf("expected the same-month adjustment to be replaced, got %d rows", len(adjustments))
	}
	if adjustments[0].AdjustedRentAmount != 500000 || adjustments[0].Notes != "두번째" {
		t.Errorf("adjustment not replaced: %+v", adjustments[0])
	}
	if adjustments[0].AdjustmentDate.Day() != 1 {
		t.Errorf("adjustment date not normalized to first of month: %v", adjustments[0].AdjustmentDate)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
