package ledger

import "sort"

// RentAt resolves the rent in effect on a given date: the newRentAmount of
// the latest renewal whose effective date is on or before that date, or the
// lease's base rent when no renewal applies yet. The second result reports
// whether a renewal was applied.
//
// Renewals are sorted ascending and scanned from the most recent backward.
// A lease carries at most a handful of renewals, so the per-call sort is
// not a concern.
func RentAt(lease LeaseTerms, date Date) (int64, bool) {
	if len(lease.Renewals) == 0 {
		return lease.MonthlyRent, false
	}
	renewals := make([]Renewal, len(lease.Renewals))
	copy(renewals, lease.Renewals)
	sort.SliceStable(renewals, func(i, j int) bool {
		return renewals[i].EffectiveDate.Before(renewals[j].EffectiveDate)
	})
	for i := len(renewals) - 1; i >= 0; i-- {
		if !renewals[i].EffectiveDate.After(date) {
			return renewals[i].Rent, true
		}
	}
	return lease.MonthlyRent, false
}
