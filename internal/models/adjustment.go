package models

import (
	"time"

	"github.com/kwo0two/rentmanagerpro/internal/ledger"
	"gorm.io/gorm"
)

// RentAdjustment overrides the rent due for one calendar month of a lease.
// AdjustmentDate is normalized to the first day of the target month on
// write; the engine matches adjustments by month identity, not by id.
type RentAdjustment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID  uint   `gorm:"index;not null" json:"user_id"`
	LeaseID uint   `gorm:"index;not null" json:"lease_id"`
	Lease   *Lease `gorm:"foreignKey:LeaseID" json:"-"`

	AdjustmentDate     time.Time `gorm:"type:date;not null" json:"adjustment_date"`
	AdjustedRentAmount int64     `gorm:"not null" json:"adjusted_rent_amount"`
	Notes              string    `gorm:"size:500" json:"notes,omitempty"`
}

// GetUserID implements the Ownable interface for authorization.
func (a *RentAdjustment) GetUserID() uint {
	return a.UserID
}

// Record maps the adjustment into the engine's input form.
func (a *RentAdjustment) Record() ledger.Adjustment {
	return ledger.Adjustment{
		ID:    a.ID,
		Month: ledger.DateOf(a.AdjustmentDate).FirstOfMonth(),
		Rent:  a.AdjustedRentAmount,
		Notes: a.Notes,
	}
}
