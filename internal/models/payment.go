package models

import (
	"time"

	"github.com/kwo0two/rentmanagerpro/internal/ledger"
	"gorm.io/gorm"
)

// Payment is a recorded receipt of money for a lease. Payments are not
// linked to a specific monthly due; the ledger merge nets them against the
// running balance.
type Payment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID  uint   `gorm:"index;not null" json:"user_id"`
	LeaseID uint   `gorm:"index;not null" json:"lease_id"`
	Lease   *Lease `gorm:"foreignKey:LeaseID" json:"-"`

	PaymentDate   time.Time `gorm:"type:date;not null" json:"payment_date"`
	PaymentAmount int64     `gorm:"not null" json:"payment_amount"`
	Memo          string    `gorm:"size:500" json:"memo,omitempty"`
}

// GetUserID implements the Ownable interface for authorization.
func (p *Payment) GetUserID() uint {
	return p.UserID
}

// Record maps the payment into the engine's input form.
func (p *Payment) Record() ledger.PaymentRecord {
	return ledger.PaymentRecord{
		ID:     p.ID,
		Date:   ledger.DateOf(p.PaymentDate),
		Amount: p.PaymentAmount,
	}
}
