package db

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/models"
)

// Seed creates a demo account with one building, one unit and a one-year
// lease. Safe to run repeatedly; existing records are left untouched.
func Seed(db *gorm.DB) error {
	var user models.User
	err := db.Where("email = ?", "demo@example.com").First(&user).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user = models.User{Email: "demo@example.com", Password: string(hash), Name: "데모 사용자"}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	building := models.Building{UserID: user.ID, Name: "중앙빌딩", Address: "서울시 중구 세종대로 110"}
	if err := db.Create(&building).Error; err != nil {
		return err
	}
	unit := models.Unit{BuildingID: building.ID, UserID: user.ID, Number: "101호", Floor: "1"}
	if err := db.Create(&unit).Error; err != nil {
		return err
	}

	start := time.Date(time.Now().Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	lease := models.Lease{
		UserID:                user.ID,
		BuildingID:            building.ID,
		TenantName:            "홍길동",
		LeaseStartDate:        start,
		LeaseEndDate:          start.AddDate(0, 12, -1),
		RentAmount:            1000000,
		VATTreatment:          "none",
		PaymentMethod:         "transfer",
		RentCalculationMethod: "contract_date",
		Units:                 []models.Unit{unit},
	}
	return db.Create(&lease).Error
}
