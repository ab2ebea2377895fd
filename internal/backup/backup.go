// Package backup exports an owner's complete data set to a JSON archive and
// restores it again. Dates travel as "YYYY-MM-DD" strings; a record whose
// date does not parse fails the restore rather than being silently skipped.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/ledger"
	"github.com/kwo0two/rentmanagerpro/internal/models"
)

const dateLayout = "2006-01-02"

// Archive is the on-disk backup format. Record IDs are archive-local; the
// restore assigns fresh database IDs and remaps references.
type Archive struct {
	ID          string           `json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	Buildings   []buildingRecord `json:"buildings"`
	Leases      []leaseRecord    `json:"leases"`
	Payments    []paymentRecord  `json:"payments"`
	Adjustments []adjRecord      `json:"adjustments"`
}

type buildingRecord struct {
	ID      uint         `json:"id"`
	Name    string       `json:"name"`
	Address string       `json:"address,omitempty"`
	Notes   string       `json:"notes,omitempty"`
	Units   []unitRecord `json:"units,omitempty"`
}

type unitRecord struct {
	ID     uint   `json:"id"`
	Number string `json:"number"`
	Floor  string `json:"floor,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

type leaseRecord struct {
	ID                    uint            `json:"id"`
	BuildingID            uint            `json:"building_id"`
	UnitIDs               []uint          `json:"unit_ids,omitempty"`
	TenantName            string          `json:"tenant_name"`
	TenantPhone           string          `json:"tenant_phone,omitempty"`
	TenantEmail           string          `json:"tenant_email,omitempty"`
	StartDate             string          `json:"lease_start_date"`
	EndDate               string          `json:"lease_end_date"`
	RentAmount            int64           `json:"rent_amount"`
	VATTreatment          string          `json:"vat_treatment"`
	PaymentMethod         string          `json:"payment_method,omitempty"`
	RentCalculationMethod string          `json:"rent_calculation_method"`
	RentFreePeriod        int             `json:"rent_free_period,omitempty"`
	RentFreeUnit          string          `json:"rent_free_unit,omitempty"`
	Renewals              []renewalRecord `json:"renewals,omitempty"`
}

type renewalRecord struct {
	ID              uint   `json:"id"`
	RenewalDate     string `json:"renewal_date"`
	NewRentAmount   int64  `json:"new_rent_amount"`
	NewLeaseEndDate string `json:"new_lease_end_date,omitempty"`
}

type paymentRecord struct {
	ID            uint   `json:"id"`
	LeaseID       uint   `json:"lease_id"`
	PaymentDate   string `json:"payment_date"`
	PaymentAmount int64  `json:"payment_amount"`
	Memo          string `json:"memo,omitempty"`
}

type adjRecord struct {
	ID                 uint   `json:"id"`
	LeaseID            uint   `json:"lease_id"`
	AdjustmentDate     string `json:"adjustment_date"`
	AdjustedRentAmount int64  `json:"adjusted_rent_amount"`
	Notes              string `json:"notes,omitempty"`
}

// Export writes the user's full data set as JSON to w.
func Export(db *gorm.DB, userID uint, w io.Writer) error {
	archive := Archive{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	var buildings []models.Building
	if err := db.Preload("Units").Where("user_id = ?", userID).Order("id").Find(&buildings).Error; err != nil {
		return err
	}
	for i := range buildings {
		b := buildingRecord{
			ID:      buildings[i].ID,
			Name:    buildings[i].Name,
			Address: buildings[i].Address,
			Notes:   buildings[i].Notes,
		}
		for _, u := range buildings[i].Units {
			b.Units = append(b.Units, unitRecord{ID: u.ID, Number: u.Number, Floor: u.Floor, Notes: u.Notes})
		}
		archive.Buildings = append(archive.Buildings, b)
	}

	var leases []models.Lease
	if err := db.Preload("Renewals").Preload("Units").Where("user_id = ?", userID).Order("id").Find(&leases).Error; err != nil {
		return err
	}
	for i := range leases {
		l := &leases[i]
		rec := leaseRecord{
			ID:                    l.ID,
			BuildingID:            l.BuildingID,
			TenantName:            l.TenantName,
			TenantPhone:           l.TenantPhone,
			TenantEmail:           l.TenantEmail,
			StartDate:             l.LeaseStartDate.Format(dateLayout),
			EndDate:               l.LeaseEndDate.Format(dateLayout),
			RentAmount:            l.RentAmount,
			VATTreatment:          l.VATTreatment,
			PaymentMethod:         l.PaymentMethod,
			RentCalculationMethod: l.RentCalculationMethod,
			RentFreePeriod:        l.RentFreePeriod,
			RentFreeUnit:          l.RentFreeUnit,
		}
		for _, u := range l.Units {
			rec.UnitIDs = append(rec.UnitIDs, u.ID)
		}
		for _, r := range l.Renewals {
			rr := renewalRecord{
				ID:            r.ID,
				RenewalDate:   r.RenewalDate.Format(dateLayout),
				NewRentAmount: r.NewRentAmount,
			}
			if r.NewLeaseEndDate != nil {
				rr.NewLeaseEndDate = r.NewLeaseEndDate.Format(dateLayout)
			}
			rec.Renewals = append(rec.Renewals, rr)
		}
		archive.Leases = append(archive.Leases, rec)
	}

	var payments []models.Payment
	if err := db.Where("user_id = ?", userID).Order("id").Find(&payments).Error; err != nil {
		return err
	}
	for _, p := range payments {
		archive.Payments = append(archive.Payments, paymentRecord{
			ID:            p.ID,
			LeaseID:       p.LeaseID,
			PaymentDate:   p.PaymentDate.Format(dateLayout),
			PaymentAmount: p.PaymentAmount,
			Memo:          p.Memo,
		})
	}

	var adjustments []models.RentAdjustment
	if err := db.Where("user_id = ?", userID).Order("id").Find(&adjustments).Error; err != nil {
		return err
	}
	for _, a := range adjustments {
		archive.Adjustments = append(archive.Adjustments, adjRecord{
			ID:                 a.ID,
			LeaseID:            a.LeaseID,
			AdjustmentDate:     a.AdjustmentDate.Format(dateLayout),
			AdjustedRentAmount: a.AdjustedRentAmount,
			Notes:              a.Notes,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(archive)
}

// parseDate parses an archive date or returns a RecordError identifying the
// offending record.
func parseDate(kind string, id uint, field, value string) (ledger.Date, error) {
	d, err := ledger.ParseDate(value)
	if err != nil {
		return ledger.Date{}, &ledger.RecordError{Kind: kind, ID: id, Field: field, Err: err}
	}
	return d, nil
}

// Restore reads an archive and inserts its records for the user in one
// transaction. Existing data is left in place; restored records get fresh
// IDs with lease and building references remapped.
func Restore(db *gorm.DB, userID uint, r io.Reader) (*Archive, error) {
	var archive Archive
	dec := json.NewDecoder(r)
	if err := dec.Decode(&archive); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		buildingIDs := make(map[uint]uint, len(archive.Buildings))
		unitIDs := make(map[uint]uint)
		for _, rec := range archive.Buildings {
			b := models.Building{UserID: userID, Name: rec.Name, Address: rec.Address, Notes: rec.Notes}
			if err := tx.Create(&b).Error; err != nil {
				return err
			}
			buildingIDs[rec.ID] = b.ID
			for _, ur := range rec.Units {
				u := models.Unit{BuildingID: b.ID, UserID: userID, Number: ur.Number, Floor: ur.Floor, Notes: ur.Notes}
				if err := tx.Create(&u).Error; err != nil {
					return err
				}
				unitIDs[ur.ID] = u.ID
			}
		}

		leaseIDs := make(map[uint]uint, len(archive.Leases))
		for _, rec := range archive.Leases {
			start, err := parseDate("lease", rec.ID, "lease_start_date", rec.StartDate)
			if err != nil {
				return err
			}
			end, err := parseDate("lease", rec.ID, "lease_end_date", rec.EndDate)
			if err != nil {
				return err
			}
			buildingID, ok := buildingIDs[rec.BuildingID]
			if !ok {
				return &ledger.RecordError{Kind: "lease", ID: rec.ID, Field: "building_id"}
			}
			l := models.Lease{
				UserID:                userID,
				BuildingID:            buildingID,
				TenantName:            rec.TenantName,
				TenantPhone:           rec.TenantPhone,
				TenantEmail:           rec.TenantEmail,
				LeaseStartDate:        start.Time(),
				LeaseEndDate:          end.Time(),
				RentAmount:            rec.RentAmount,
				VATTreatment:          rec.VATTreatment,
				PaymentMethod:         rec.PaymentMethod,
				RentCalculationMethod: rec.RentCalculationMethod,
				RentFreePeriod:        rec.RentFreePeriod,
				RentFreeUnit:          rec.RentFreeUnit,
			}
			for _, uid := range rec.UnitIDs {
				if mapped, ok := unitIDs[uid]; ok {
					l.Units = append(l.Units, models.Unit{ID: mapped})
				}
			}
			if err := tx.Create(&l).Error; err != nil {
				return err
			}
			leaseIDs[rec.ID] = l.ID

			for _, rr := range rec.Renewals {
				rd, err := parseDate("renewal", rr.ID, "renewal_date", rr.RenewalDate)
				if err != nil {
					return err
				}
				renewal := models.Renewal{LeaseID: l.ID, RenewalDate: rd.Time(), NewRentAmount: rr.NewRentAmount}
				if rr.NewLeaseEndDate != "" {
					ed, err := parseDate("renewal", rr.ID, "new_lease_end_date", rr.NewLeaseEndDate)
					if err != nil {
						return err
					}
					t := ed.Time()
					renewal.NewLeaseEndDate = &t
				}
				if err := tx.Create(&renewal).Error; err != nil {
					return err
				}
			}
		}

		for _, rec := range archive.Payments {
			d, err := parseDate("payment", rec.ID, "payment_date", rec.PaymentDate)
			if err != nil {
				return err
			}
			leaseID, ok := leaseIDs[rec.LeaseID]
			if !ok {
				return &ledger.RecordError{Kind: "payment", ID: rec.ID, Field: "lease_id"}
			}
			p := models.Payment{
				UserID:        userID,
				LeaseID:       leaseID,
				PaymentDate:   d.Time(),
				PaymentAmount: rec.PaymentAmount,
				Memo:          rec.Memo,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		}

		for _, rec := range archive.Adjustments {
			d, err := parseDate("adjustment", rec.ID, "adjustment_date", rec.AdjustmentDate)
			if err != nil {
				return err
			}
			leaseID, ok := leaseIDs[rec.LeaseID]
			if !ok {
				return &ledger.RecordError{Kind: "adjustment", ID: rec.ID, Field: "lease_id"}
			}
			a := models.RentAdjustment{
				UserID:             userID,
				LeaseID:            leaseID,
				AdjustmentDate:     d.FirstOfMonth().Time(),
				AdjustedRentAmount: rec.AdjustedRentAmount,
				Notes:              rec.Notes,
			}
			if err := tx.Create(&a).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &archive, nil
}
