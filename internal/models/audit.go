package models

import "time"

// AuditLog records who changed what, for the admin audit trail.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index" json:"user_id"`
	EntityType string    `gorm:"size:50" json:"entity_type"` // "lease", "payment", ...
	EntityID   uint      `json:"entity_id"`
	Action     string    `gorm:"size:20" json:"action"` // "create", "update", "delete"
	Detail     string    `gorm:"size:500" json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
