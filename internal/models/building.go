package models

import (
	"time"

	"gorm.io/gorm"
)

// Building is a property owned by a user, containing rentable units.
type Building struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	Name    string `gorm:"size:255;not null" json:"name"`
	Address string `gorm:"size:500" json:"address,omitempty"`
	Notes   string `gorm:"type:text" json:"notes,omitempty"`

	Units []Unit `gorm:"foreignKey:BuildingID" json:"units,omitempty"`
}

// GetUserID implements the Ownable interface for authorization.
func (b *Building) GetUserID() uint {
	return b.UserID
}

// Unit is a rentable space inside a building (a floor, a suite, a shop).
type Unit struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BuildingID uint      `gorm:"index;not null" json:"building_id"`
	Building   *Building `gorm:"foreignKey:BuildingID" json:"-"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`

	Number string `gorm:"size:50;not null" json:"number"`
	Floor  string `gorm:"size:50" json:"floor,omitempty"`
	Notes  string `gorm:"size:500" json:"notes,omitempty"`
}

// GetUserID implements the Ownable interface for authorization.
func (u *Unit) GetUserID() uint {
	return u.UserID
}
