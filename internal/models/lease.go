package models

import (
	"time"

	"github.com/kwo0two/rentmanagerpro/internal/ledger"
	"gorm.io/gorm"
)

// Lease is a tenancy contract: a tenant renting one or more units of a
// building for a period, at a monthly rent. Renewals amend the rent and/or
// end date; the billing engine reads the lease through Terms().
type Lease struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	BuildingID uint      `gorm:"index;not null" json:"building_id"`
	Building   *Building `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Units      []Unit    `gorm:"many2many:lease_units" json:"units,omitempty"`

	TenantName  string `gorm:"size:255;not null" json:"tenant_name"`
	TenantPhone string `gorm:"size:50" json:"tenant_phone,omitempty"`
	TenantEmail string `gorm:"size:255" json:"tenant_email,omitempty"`

	LeaseStartDate time.Time `gorm:"type:date;not null" json:"lease_start_date"`
	LeaseEndDate   time.Time `gorm:"type:date;not null" json:"lease_end_date"`

	// RentAmount is the base monthly rent in whole currency units (KRW).
	RentAmount    int64  `gorm:"not null" json:"rent_amount"`
	VATTreatment  string `gorm:"size:20;default:'none'" json:"vat_treatment"`
	PaymentMethod string `gorm:"size:100" json:"payment_method,omitempty"`

	// RentCalculationMethod is "contract_date" or "end_of_month".
	RentCalculationMethod string `gorm:"size:20;default:'contract_date'" json:"rent_calculation_method"`

	RentFreePeriod int    `gorm:"default:0" json:"rent_free_period"`
	RentFreeUnit   string `gorm:"size:10;default:'days'" json:"rent_free_unit,omitempty"`

	// Renewals keep insertion order; chronology is the engine's concern.
	Renewals []Renewal `gorm:"foreignKey:LeaseID" json:"renewals,omitempty"`
}

// GetUserID implements the Ownable interface for authorization.
func (l *Lease) GetUserID() uint {
	return l.UserID
}

// Terms maps the stored lease into the engine's calendar-date input.
func (l *Lease) Terms() ledger.LeaseTerms {
	terms := ledger.LeaseTerms{
		StartDate:    ledger.DateOf(l.LeaseStartDate),
		EndDate:      ledger.DateOf(l.LeaseEndDate),
		MonthlyRent:  l.RentAmount,
		VAT:          ledger.VATTreatment(l.VATTreatment),
		Basis:        ledger.RentBasis(l.RentCalculationMethod),
		RentFree:     l.RentFreePeriod,
		RentFreeUnit: ledger.RentFreeUnit(l.RentFreeUnit),
	}
	for _, r := range l.Renewals {
		terms.Renewals = append(terms.Renewals, r.Terms())
	}
	return terms
}

// Renewal amends a lease's rent and/or end date from its effective date.
type Renewal struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	LeaseID uint   `gorm:"index;not null" json:"lease_id"`
	Lease   *Lease `gorm:"foreignKey:LeaseID" json:"-"`

	RenewalDate     time.Time  `gorm:"type:date;not null" json:"renewal_date"`
	NewRentAmount   int64      `gorm:"not null" json:"new_rent_amount"`
	NewLeaseEndDate *time.Time `gorm:"type:date" json:"new_lease_end_date,omitempty"`
}

// Terms maps the renewal into the engine's input form.
func (r *Renewal) Terms() ledger.Renewal {
	out := ledger.Renewal{
		EffectiveDate: ledger.DateOf(r.RenewalDate),
		Rent:          r.NewRentAmount,
	}
	if r.NewLeaseEndDate != nil {
		out.EndDate = ledger.DateOf(*r.NewLeaseEndDate)
	}
	return out
}
