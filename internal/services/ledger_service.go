// Package services contains the application operations behind the handlers:
// ledger assembly, dashboard statistics and bulk payment planning.
package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/ledger"
	"github.com/kwo0two/rentmanagerpro/internal/models"
)

// LedgerService assembles a lease's full ledger from stored records.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// LedgerResult is a computed ledger together with the lease it belongs to.
type LedgerResult struct {
	Lease       *models.Lease
	Rows        []ledger.Row
	Outstanding int64
}

// FetchLease loads a lease with its renewals and enforces ownership.
// The lookup is split from the ownership check so a missing lease and a
// foreign lease produce different errors.
func (s *LedgerService) FetchLease(userID, leaseID uint) (*models.Lease, error) {
	var lease models.Lease
	err := s.db.Preload("Renewals").Preload("Building").Preload("Units").
		First(&lease, leaseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrLeaseNotFound
	}
	if err != nil {
		return nil, err
	}
	if lease.UserID != userID {
		return nil, ledger.ErrNotOwner
	}
	return &lease, nil
}

// BuildLedger computes the lease's ledger as of today: generate the monthly
// dues, merge in the payments and run the balance.
func (s *LedgerService) BuildLedger(userID, leaseID uint, today ledger.Date) (*LedgerResult, error) {
	lease, err := s.FetchLease(userID, leaseID)
	if err != nil {
		return nil, err
	}

	var adjustments []models.RentAdjustment
	if err := s.db.Where("lease_id = ?", leaseID).Order("adjustment_date").Find(&adjustments).Error; err != nil {
		return nil, err
	}
	var payments []models.Payment
	if err := s.db.Where("lease_id = ?", leaseID).Order("payment_date").Find(&payments).Error; err != nil {
		return nil, err
	}

	terms := lease.Terms()
	adjRecords := make([]ledger.Adjustment, 0, len(adjustments))
	for i := range adjustments {
		adjRecords = append(adjRecords, adjustments[i].Record())
	}
	payRecords := make([]ledger.PaymentRecord, 0, len(payments))
	for i := range payments {
		payRecords = append(payRecords, payments[i].Record())
	}

	dues, err := ledger.CalculateDues(terms, adjRecords, today)
	if err != nil {
		return nil, err
	}
	rows, err := ledger.BuildLedger(terms, dues, payRecords)
	if err != nil {
		return nil, err
	}
	return &LedgerResult{
		Lease:       lease,
		Rows:        rows,
		Outstanding: ledger.Outstanding(rows),
	}, nil
}
