package ledger

// VATTreatment says how the quoted rent relates to value-added tax.
type VATTreatment string

const (
	VATNone     VATTreatment = "none"
	VATIncluded VATTreatment = "included"
	VATExcluded VATTreatment = "excluded"
)

// RentBasis selects how partial boundary months are billed.
type RentBasis string

const (
	BasisContractDate RentBasis = "contract_date"
	BasisEndOfMonth   RentBasis = "end_of_month"
)

// RentFreeUnit is the unit of the rent-free period length.
type RentFreeUnit string

const (
	RentFreeDays   RentFreeUnit = "days"
	RentFreeMonths RentFreeUnit = "months"
)

// LeaseTerms is the billing-relevant slice of a lease agreement. The engine
// never sees the stored record; callers map whatever they persist into this.
// Amounts are integer currency units (KRW has no minor unit).
type LeaseTerms struct {
	StartDate    Date
	EndDate      Date
	MonthlyRent  int64
	VAT          VATTreatment
	Basis        RentBasis
	RentFree     int // length of the initial rent-free period, 0 for none
	RentFreeUnit RentFreeUnit
	Renewals     []Renewal
}

// Renewal amends the rent and/or end date from its effective date onward.
type Renewal struct {
	EffectiveDate Date
	Rent          int64
	EndDate       Date
}

// Adjustment is a manual override of the rent due for one calendar month.
// Month is normalized to the first day of the target month; matching is by
// month identity, not record id.
type Adjustment struct {
	ID    uint
	Month Date
	Rent  int64
	Notes string
}

// PaymentRecord is a recorded receipt of money. Payments are not linked to
// a specific due; the ledger merge applies them against the running balance.
type PaymentRecord struct {
	ID     uint
	Date   Date
	Amount int64
}

// Due is one generated monthly billing event, dated the last day of its
// month.
type Due struct {
	Date         Date
	Amount       int64
	Description  string
	Notes        string
	Adjusted     bool
	AdjustmentID uint
}

// Row is one line of the rendered ledger: a due or a payment with the
// running balance after applying it. SupplyValue/VAT/Rent are set only on
// due rows (and SupplyValue/VAT only when the due is positive); Payment is
// set only on payment rows.
type Row struct {
	Date         Date
	Description  string
	SupplyValue  *int64
	VAT          *int64
	Rent         *int64
	Payment      *int64
	Balance      int64
	Notes        string
	Adjusted     bool
	IsDue        bool
	AdjustmentID uint
}

// EffectiveEndDate is the lease end date after renewals: the maximum of the
// base end date and every renewal's new end date.
func (l LeaseTerms) EffectiveEndDate() Date {
	end := l.EndDate
	for _, r := range l.Renewals {
		if !r.EndDate.IsZero() {
			end = maxDate(end, r.EndDate)
		}
	}
	return end
}
