package services

import (
	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/ledger"
	"github.com/kwo0two/rentmanagerpro/internal/models"
)

// StatsService computes the dashboard figures for one owner.
type StatsService struct {
	db     *gorm.DB
	ledger *LedgerService
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db, ledger: NewLedgerService(db)}
}

// Stats is a snapshot of an owner's portfolio as of a given date.
type Stats struct {
	Buildings    int64
	Leases       int64
	ActiveLeases int64
	// ExpectedMonthlyRent sums the currently applicable rent of every
	// active lease, renewals included.
	ExpectedMonthlyRent int64
	// TotalOutstanding sums the final ledger balance of every lease.
	// Credits (negative balances) offset arrears.
	TotalOutstanding int64
}

// Snapshot computes all dashboard figures for the user as of today.
func (s *StatsService) Snapshot(userID uint, today ledger.Date) (*Stats, error) {
	var stats Stats
	if err := s.db.Model(&models.Building{}).Where("user_id = ?", userID).Count(&stats.Buildings).Error; err != nil {
		return nil, err
	}

	var leases []models.Lease
	if err := s.db.Preload("Renewals").Where("user_id = ?", userID).Find(&leases).Error; err != nil {
		return nil, err
	}
	stats.Leases = int64(len(leases))

	for i := range leases {
		terms := leases[i].Terms()
		if !terms.StartDate.After(today) && !today.After(terms.EffectiveEndDate()) {
			stats.ActiveLeases++
			if rent, ok := ledger.RentAt(terms, today); ok {
				stats.ExpectedMonthlyRent += rent
			}
		}

		result, err := s.ledger.BuildLedger(userID, leases[i].ID, today)
		if err != nil {
			// A lease with corrupt payment data must not hide the whole
			// dashboard; skip its balance.
			if _, ok := err.(*ledger.RecordError); ok {
				continue
			}
			return nil, err
		}
		stats.TotalOutstanding += result.Outstanding
	}
	return &stats, nil
}
