package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/ledger"
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

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// createLease seeds a user, building and a 2023 full-year lease at
// 1,000,000/month with no VAT.
func createLease(t *testing.T, db *gorm.DB) *models.Lease {
	t.Helper()
	user := models.User{Email: "owner@example.com", Password: "x", Name: "Owner"}
	require.NoError(t, db.Create(&user).Error)
	building := models.Building{UserID: user.ID, Name: "중앙빌딩"}
	require.NoError(t, db.Create(&building).Error)
	lease := models.Lease{
		UserID:                user.ID,
		BuildingID:            building.ID,
		TenantName:            "홍길동",
		LeaseStartDate:        date(2023, 1, 1),
		LeaseEndDate:          date(2023, 12, 31),
		RentAmount:            1000000,
		VATTreatment:          "none",
		RentCalculationMethod: "contract_date",
	}
	require.NoError(t, db.Create(&lease).Error)
	return &lease
}

func TestBuildLedgerFullYear(t *testing.T) {
	db := setupTestDB(t)
	lease := createLease(t, db)
	svc := NewLedgerService(db)

	require.NoError(t, db.Create(&models.Payment{
		UserID: lease.UserID, LeaseID: lease.ID,
		PaymentDate: date(2023, 2, 5), PaymentAmount: 1000000,
	}).Error)

	result, err := svc.BuildLedger(lease.UserID, lease.ID, ledger.NewDate(2024, time.June, 1))
	require.NoError(t, err)

	// 12 dues + 1 payment
	assert.Len(t, result.Rows, 13)
	assert.Equal(t, int64(11000000), result.Outstanding)
}

func TestBuildLedgerLeaseNotFound(t *testing.T) {
	db := setupTestDB(t)
	lease := createLease(t, db)
	svc := NewLedgerService(db)

	_, err := svc.BuildLedger(lease.UserID, 9999, ledger.NewDate(2024, time.June, 1))
	assert.ErrorIs(t, err, ledger.ErrLeaseNotFound)
}

func TestBuildLedgerNotOwner(t *testing.T) {
	db := setupTestDB(t)
	lease := createLease(t, db)
	svc := NewLedgerService(db)

	_, err := svc.BuildLedger(lease.UserID+1, lease.ID, ledger.NewDate(2024, time.June, 1))
	assert.ErrorIs(t, err, ledger.ErrNotOwner)
}

func TestBuildLedgerAppliesRenewalAndAdjustment(t *testing.T) {
	db := setupTestDB(t)
	lease := createLease(t, db)
	svc := NewLedgerService(db)

	require.NoError(t, db.Create(&models.Renewal{
		LeaseID: lease.ID, RenewalDate: date(2023, 7, 1), NewRentAmount: 1200000,
	}).Error)
	require.NoError(t, db.Create(&models.RentAdjustment{
		UserID: lease.UserID, LeaseID: lease.ID,
		AdjustmentDate: date(2023, 3, 15), AdjustedRentAmount: 500000, Notes: "수리 보상",
	}).Error)

	result, err := svc.BuildLedger(lease.UserID, lease.ID, ledger.NewDate(2024, time.June, 1))
	require.NoError(t, err)
	require.Len(t, result.Rows, 12)

	// March row carries the adjustment regardless of its day-of-month.
	march := result.Rows[2]
	require.NotNil(t, march.Rent)
	assert.Equal(t, int64(500000), *march.Rent)
	assert.True(t, march.Adjusted)
	assert.Equal(t, "조정: 수리 보상", march.Notes)

	// July onward the renewal rent applies.
	july := result.Rows[6]
	require.NotNil(t, july.Rent)
	assert.Equal(t, int64(1200000), *july.Rent)
}

func TestStatsSnapshot(t *testing.T) {
	db := setupTestDB(t)
	lease := createLease(t, db)
	svc := NewStatsService(db)

	require.NoError(t, db.Create(&models.Payment{
		UserID: lease.UserID, LeaseID: lease.ID,
		PaymentDate: date(2023, 1, 31), PaymentAmount: 1000000,
	}).Error)

	stats, err := svc.Snapshot(lease.UserID, ledger.NewDate(2023, time.June, 15))
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.Buildings)
	assert.Equal(t, int64(1), stats.Leases)
	assert.Equal(t, int64(1), stats.ActiveLeases)
	assert.Equal(t, int64(1000000), stats.ExpectedMonthlyRent)
	// Jan-May billed in full, June prorated to the 15th (500,000),
	// one payment of 1,000,000 received.
	assert.Equal(t, int64(4500000), stats.TotalOutstanding)
}

func TestStatsSnapshotExpiredLease(t *testing.T) {
	db := setupTestDB(t)
	lease := createLease(t, db)
	svc := NewStatsService(db)

	stats, err := svc.Snapshot(lease.UserID, ledger.NewDate(2025, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.ActiveLeases)
	assert.Equal(t, int64(0), stats.ExpectedMonthlyRent)
	// Expired leases still carry their unpaid balance.
	assert.Equal(t, int64(12000000), stats.TotalOutstanding)
}

func TestCreateBulkExplicitDates(t *testing.T) {
	db := setupTestDB(t)
	lease := createLease(t, db)
	svc := NewPaymentService(db)

	dates := []ledger.Date{
		ledger.NewDate(2023, time.January, 31),
		ledger.NewDate(2023, time.February, 28),
	}
	payments, err := svc.CreateBulk(lease.UserID, lease.ID, dates, 1000000, "월세")
	require.NoError(t, err)
	require.Len(t, payments, 2)

	var count int64
	db.Model(&models.Payment{}).Where("lease_id = ?", lease.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestCreateBulkChecksOwnership(t *testing.T) {
	db := setupTestDB(t)
	lease := createLease(t, db)
	svc := NewPaymentService(db)

	_, err := svc.CreateBulk(lease.UserID+1, lease.ID,
		[]ledger.Date{ledger.NewDate(2023, time.January, 31)}, 1000000, "")
	assert.ErrorIs(t, err, ledger.ErrNotOwner)

	var count int64
	db.Model(&models.Payment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestMonthlyDates(t *testing.T) {
	dates := MonthlyDates(ledger.NewDate(2023, time.January, 1), ledger.NewDate(2023, time.April, 30), 31)
	require.Len(t, dates, 4)
	// Day 31 clamps to each month's length.
	assert.Equal(t, ledger.NewDate(2023, time.January, 31), dates[0])
	assert.Equal(t, ledger.NewDate(2023, time.February, 28), dates[1])
	assert.Equal(t, ledger.NewDate(2023, time.March, 31), dates[2])
	assert.Equal(t, ledger.NewDate(2023, time.April, 30), dates[3])
}

func TestMonthlyDatesTrimsRangeBoundaries(t *testing.T) {
	// Jan 5 falls before from and Mar 5 after to; only Feb 5 survives.
	dates := MonthlyDates(ledger.NewDate(2023, time.January, 10), ledger.NewDate(2023, time.March, 3), 5)
	require.Len(t, dates, 1)
	assert.Equal(t, ledger.NewDate(2023, time.February, 5), dates[0])
}

func TestMonthlyDatesEmpty(t *testing.T) {
	assert.Nil(t, MonthlyDates(ledger.NewDate(2023, time.March, 1), ledger.NewDate(2023, time.January, 1), 5))
	assert.Nil(t, MonthlyDates(ledger.NewDate(2023, time.January, 1), ledger.NewDate(2023, time.March, 1), 0))
}
