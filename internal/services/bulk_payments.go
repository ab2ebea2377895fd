package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/ledger"
	"github.com/kwo0two/rentmanagerpro/internal/models"
)

// PaymentService records payments for a lease, one at a time or in bulk.
type PaymentService struct {
	db     *gorm.DB
	ledger *LedgerService
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db, ledger: NewLedgerService(db)}
}

var errEmptyPlan = errors.New("bulk payment plan produced no payments")

// CreateBulk records one payment per supplied date in a single transaction.
// Ownership of the lease is checked once up front.
func (p *PaymentService) CreateBulk(userID, leaseID uint, dates []ledger.Date, amount int64, memo string) ([]models.Payment, error) {
	if _, err := p.ledger.FetchLease(userID, leaseID); err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, errEmptyPlan
	}

	payments := make([]models.Payment, 0, len(dates))
	for _, d := range dates {
		payments = append(payments, models.Payment{
			UserID:        userID,
			LeaseID:       leaseID,
			PaymentDate:   d.Time(),
			PaymentAmount: amount,
			Memo:          memo,
		})
	}
	err := p.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&payments).Error
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// MonthlyDates expands a recurring schedule into concrete payment dates:
// one per calendar month from the month of from through the month of to,
// on dayOfMonth clamped to the month's length. Dates before from or after
// to are dropped, so a mid-month range boundary trims its own month.
func MonthlyDates(from, to ledger.Date, dayOfMonth int) []ledger.Date {
	if to.Before(from) || dayOfMonth < 1 {
		return nil
	}
	var out []ledger.Date
	cursor := from.FirstOfMonth()
	for !cursor.After(to) {
		day := dayOfMonth
		if dim := ledger.DaysInMonth(cursor.Year, cursor.Month); day > dim {
			day = dim
		}
		d := ledger.NewDate(cursor.Year, cursor.Month, day)
		if !d.Before(from) && !d.After(to) {
			out = append(out, d)
		}
		cursor = cursor.AddMonths(1)
	}
	return out
}
