// Package audit records who changed what. Writes are best-effort: an audit
// failure is logged, never surfaced to the user mid-request.
package audit

import (
	"context"
	"log"

	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/models"
)

type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Record writes one audit entry.
func (r *Recorder) Record(ctx context.Context, userID uint, entityType string, entityID uint, action, detail string) {
	entry := models.AuditLog{
		UserID:     userID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Detail:     detail,
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Printf("audit: failed to record %s %s %d: %v", action, entityType, entityID, err)
	}
}

// Recent returns the user's latest audit entries, newest first.
func (r *Recorder) Recent(ctx context.Context, userID uint, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []models.AuditLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).
		Find(&entries).Error
	return entries, err
}
