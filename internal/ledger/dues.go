package ledger

import (
	"fmt"
	"math"
)

// Output-contract strings. These are part of the ledger wire format the UI
// and exports rely on, not translatable UI copy.
const (
	noteRentFree         = "렌트프리"
	noteAdjustedPrefix   = "조정: "
	descDeposit          = "입금"
	dueDescriptionFormat = "%04d-%02d월분" // e.g. "2023-01월분"
	noteProrationFormat  = "일할계산 (%d일)"
)

// DueDescription returns the description of the due for the given month.
func DueDescription(d Date) string {
	return fmt.Sprintf(dueDescriptionFormat, d.Year, int(d.Month))
}

// CalculateDues generates the ordered monthly billing events of a lease,
// from the lease start month through the month of min(effective end date,
// today), inclusive. Adjustments override proration for their month; the
// rent-free window and partial boundary months prorate by day count.
//
// A lease whose effective end date precedes its start date generates no
// dues; that is a defined degenerate case, not an error. Payments are never
// consulted here.
func CalculateDues(lease LeaseTerms, adjustments []Adjustment, today Date) ([]Due, error) {
	for _, adj := range adjustments {
		if adj.Month.IsZero() {
			return nil, &RecordError{Kind: "adjustment", ID: adj.ID, Field: "adjustment_date"}
		}
	}

	end := lease.EffectiveEndDate()
	if end.Before(lease.StartDate) {
		return nil, nil
	}

	freeStart, freeEnd, hasFree := rentFreeWindow(lease)

	var dues []Due
	for cursor := lease.StartDate.FirstOfMonth(); ; cursor = cursor.AddMonths(1) {
		// A month strictly past the lease term or past today ends the
		// sequence; nothing accrues beyond either boundary.
		if cursor.After(end) || cursor.After(today) {
			break
		}

		baseRent, _ := RentAt(lease, cursor)
		monthLast := cursor.LastOfMonth()

		if adj, ok := adjustmentFor(adjustments, cursor); ok {
			// A manual adjustment is authoritative for its month; no
			// proration or rent-free logic applies on top of it.
			dues = append(dues, Due{
				Date:         monthLast,
				Amount:       roundHalf(float64(adj.Rent)),
				Description:  DueDescription(cursor),
				Notes:        noteAdjustedPrefix + adj.Notes,
				Adjusted:     true,
				AdjustmentID: adj.ID,
			})
			continue
		}

		daysInMonth := monthLast.Day
		overlapStart := maxDate(lease.StartDate, cursor)
		overlapEnd := minDate(minDate(end, today), monthLast)
		billable := inclusiveDays(overlapStart, overlapEnd)
		if hasFree {
			billable -= overlapDays(overlapStart, overlapEnd, freeStart, freeEnd)
			if billable < 0 {
				billable = 0
			}
		}

		due := Due{Date: monthLast, Description: DueDescription(cursor)}
		switch {
		case billable <= 0:
			due.Amount = 0
			due.Notes = noteRentFree
		case billable < daysInMonth:
			due.Amount = prorate(baseRent, daysInMonth, billable)
			due.Notes = fmt.Sprintf(noteProrationFormat, billable)
		case lease.Basis == BasisEndOfMonth && isRaggedBoundaryMonth(lease, end, cursor):
			// End-of-month billing still routes ragged first/last months
			// through the day-count formula; with a full month of billable
			// days it degenerates to the base rent.
			due.Amount = prorate(baseRent, daysInMonth, billable)
			due.Notes = fmt.Sprintf(noteProrationFormat, billable)
		default:
			due.Amount = baseRent
		}
		dues = append(dues, due)
	}
	return dues, nil
}

// rentFreeWindow returns the initial span during which no rent accrues.
// A period of N days covers the N days starting at the lease start date;
// N months covers N calendar months minus one day.
func rentFreeWindow(lease LeaseTerms) (start, end Date, ok bool) {
	if lease.RentFree <= 0 {
		return Date{}, Date{}, false
	}
	start = lease.StartDate
	switch lease.RentFreeUnit {
	case RentFreeMonths:
		end = start.AddMonths(lease.RentFree).AddDays(-1)
	default:
		end = start.AddDays(lease.RentFree - 1)
	}
	return start, end, true
}

// isRaggedBoundaryMonth reports whether the month at cursor is the first or
// last month of the lease and the corresponding lease boundary does not land
// exactly on a month edge.
func isRaggedBoundaryMonth(lease LeaseTerms, end, cursor Date) bool {
	if cursor.SameMonth(lease.StartDate) && lease.StartDate.Day != 1 {
		return true
	}
	if cursor.SameMonth(end) && end.Day != end.LastOfMonth().Day {
		return true
	}
	return false
}

func adjustmentFor(adjustments []Adjustment, month Date) (Adjustment, bool) {
	for _, adj := range adjustments {
		if adj.Month.SameMonth(month) {
			return adj, true
		}
	}
	return Adjustment{}, false
}

// inclusiveDays counts the days from a through b, both included.
func inclusiveDays(a, b Date) int {
	if b.Before(a) {
		return 0
	}
	return int(b.Time().Sub(a.Time()).Hours()/24) + 1
}

// overlapDays counts the days shared by [aStart,aEnd] and [bStart,bEnd].
func overlapDays(aStart, aEnd, bStart, bEnd Date) int {
	return inclusiveDays(maxDate(aStart, bStart), minDate(aEnd, bEnd))
}

// prorate bills rent by day-count ratio, rounded half-up per due. Rounding
// happens at each due, never on the running total.
func prorate(rent int64, daysInMonth, billable int) int64 {
	return roundHalf(float64(rent) / float64(daysInMonth) * float64(billable))
}

func roundHalf(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
