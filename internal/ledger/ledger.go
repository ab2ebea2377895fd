package ledger

import "sort"

// BuildLedger merges due events and payments into one chronological ledger
// with a running balance and a VAT breakdown on each due row. The balance
// starts at zero; dues add their VAT-inclusive rent, payments subtract
// their amount. A negative balance is a credit, displayed as such.
//
// On the same date a due sorts before a payment: the month's rent hits the
// balance before any money received that day reduces it.
func BuildLedger(lease LeaseTerms, dues []Due, payments []PaymentRecord) ([]Row, error) {
	rows := make([]Row, 0, len(dues)+len(payments))

	for _, due := range dues {
		supply, vat, rent := splitVAT(lease.VAT, due.Amount)
		rows = append(rows, Row{
			Date:         due.Date,
			Description:  due.Description,
			SupplyValue:  supply,
			VAT:          vat,
			Rent:         &rent,
			Notes:        due.Notes,
			Adjusted:     due.Adjusted,
			IsDue:        true,
			AdjustmentID: due.AdjustmentID,
		})
	}
	for _, p := range payments {
		if p.Date.IsZero() {
			return nil, &RecordError{Kind: "payment", ID: p.ID, Field: "payment_date"}
		}
		amount := p.Amount
		rows = append(rows, Row{
			Date:        p.Date,
			Description: descDeposit,
			Payment:     &amount,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].Date.Compare(rows[j].Date); c != 0 {
			return c < 0
		}
		return rows[i].IsDue && !rows[j].IsDue
	})

	var balance int64
	for i := range rows {
		if rows[i].IsDue {
			balance += *rows[i].Rent
		} else {
			balance -= *rows[i].Payment
		}
		rows[i].Balance = balance
	}
	return rows, nil
}

// splitVAT decomposes a positive due into supply value and VAT per the
// lease's treatment. The rent used for the balance is re-summed from the
// two parts so rounding can never leak into the running total.
func splitVAT(treatment VATTreatment, amount int64) (supply, vat *int64, rent int64) {
	if amount <= 0 {
		return nil, nil, amount
	}
	var s, v int64
	switch treatment {
	case VATIncluded:
		s = roundHalf(float64(amount) / 1.1)
		v = amount - s
	case VATExcluded:
		s = amount
		v = roundHalf(float64(amount) * 0.1)
	default:
		s = amount
		v = 0
	}
	return &s, &v, s + v
}

// Outstanding returns the final balance of a ledger, zero for an empty one.
func Outstanding(rows []Row) int64 {
	if len(rows) == 0 {
		return 0
	}
	return rows[len(rows)-1].Balance
}
