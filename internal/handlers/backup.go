package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/audit"
	"github.com/kwo0two/rentmanagerpro/internal/auth"
	"github.com/kwo0two/rentmanagerpro/internal/backup"
	"github.com/kwo0two/rentmanagerpro/internal/httpx"
	"github.com/kwo0two/rentmanagerpro/internal/ledger"
)

type BackupHandler struct {
	db    *gorm.DB
	audit *audit.Recorder
}

func NewBackupHandler(db *gorm.DB, rec *audit.Recorder) *BackupHandler {
	return &BackupHandler{db: db, audit: rec}
}

// Export downloads the owner's complete data set as a JSON archive.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"rentmanager-backup-%s.json\"", time.Now().Format("20060102")))

	if err := backup.Export(h.db, userID, w); err != nil {
		http.Error(w, "Failed to export backup", http.StatusInternalServerError)
		return
	}
	h.audit.Record(r.Context(), userID, "backup", 0, "export", "")
}

// Restore imports an archive uploaded as the request body or as the
// "archive" multipart file field.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	body := r.Body
	if file, _, err := r.FormFile("archive"); err == nil {
		defer file.Close()
		body = file
	}

	archive, err := backup.Restore(h.db, userID, body)
	if err != nil {
		var recErr *ledger.RecordError
		if errors.As(err, &recErr) {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "corrupt record", map[string]any{
				"kind":  recErr.Kind,
				"id":    recErr.ID,
				"field": recErr.Field,
			})
			return
		}
		httpx.JSONError(w, http.StatusBadRequest, "restore failed", nil)
		return
	}
	h.audit.Record(r.Context(), userID, "backup", 0, "restore", archive.ID)

	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"archive_id": archive.ID,
			"buildings":  len(archive.Buildings),
			"leases":     len(archive.Leases),
		})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
