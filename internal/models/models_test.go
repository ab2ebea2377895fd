package models

import (
	"testing"
	"time"

	"github.com/kwo0two/rentmanagerpro/internal/ledger"
)

func TestLease_GetUserID(t *testing.T) {
	lease := &Lease{UserID: 42}
	if got := lease.GetUserID(); got != 42 {
		t.Errorf("GetUserID() = %d, want 42", got)
	}
}

func TestLease_Terms(t *testing.T) {
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	lease := &Lease{
		LeaseStartDate:        time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		LeaseEndDate:          time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		RentAmount:            1_000_000,
		VATTreatment:          "included",
		RentCalculationMethod: "end_of_month",
		RentFreePeriod:        30,
		RentFreeUnit:          "days",
		Renewals: []Renewal{
			{RenewalDate: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), NewRentAmount: 1_200_000, NewLeaseEndDate: &end},
		},
	}

	terms := lease.Terms()
	if !terms.StartDate.Equal(ledger.NewDate(2023, time.January, 15)) {
		t.Errorf("StartDate = %v", terms.StartDate)
	}
	if terms.VAT != ledger.VATIncluded {
		t.Errorf("VAT = %v", terms.VAT)
	}
	if terms.Basis != ledger.BasisEndOfMonth {
		t.Errorf("Basis = %v", terms.Basis)
	}
	if terms.RentFree != 30 || terms.RentFreeUnit != ledger.RentFreeDays {
		t.Errorf("rent free = %d %v", terms.RentFree, terms.RentFreeUnit)
	}
	if len(terms.Renewals) != 1 {
		t.Fatalf("renewals = %d", len(terms.Renewals))
	}
	if terms.Renewals[0].Rent != 1_200_000 {
		t.Errorf("renewal rent = %d", terms.Renewals[0].Rent)
	}
	if !terms.Renewals[0].EndDate.Equal(ledger.NewDate(2024, time.June, 30)) {
		t.Errorf("renewal end = %v", terms.Renewals[0].EndDate)
	}
	if !terms.EffectiveEndDate().Equal(ledger.NewDate(2024, time.June, 30)) {
		t.Errorf("effective end = %v", terms.EffectiveEndDate())
	}
}

func TestRenewal_TermsWithoutEndDate(t *testing.T) {
	r := &Renewal{
		RenewalDate:   time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
		NewRentAmount: 900_000,
	}
	if got := r.Terms(); !got.EndDate.IsZero() {
		t.Errorf("EndDate = %v, want zero", got.EndDate)
	}
}

func TestRentAdjustment_RecordNormalizesToMonthStart(t *testing.T) {
	adj := &RentAdjustment{
		ID:                 5,
		AdjustmentDate:     time.Date(2023, 3, 17, 0, 0, 0, 0, time.UTC),
		AdjustedRentAmount: 800_000,
		Notes:              "수리비 공제",
	}
	rec := adj.Record()
	if !rec.Month.Equal(ledger.NewDate(2023, time.March, 1)) {
		t.Errorf("Month = %v, want 2023-03-01", rec.Month)
	}
	if rec.ID != 5 || rec.Rent != 800_000 {
		t.Errorf("record = %+v", rec)
	}
}

func TestPayment_Record(t *testing.T) {
	p := &Payment{
		ID:            3,
		PaymentDate:   time.Date(2023, 2, 10, 9, 30, 0, 0, time.Local),
		PaymentAmount: 1_500_000,
	}
	rec := p.Record()
	// clock and zone are discarded
	if !rec.Date.Equal(ledger.NewDate(2023, time.February, 10)) {
		t.Errorf("Date = %v", rec.Date)
	}
	if rec.Amount != 1_500_000 {
		t.Errorf("Amount = %d", rec.Amount)
	}
}
