// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/daily-habits/backup"
	"github.com/danielhkuo/daily-habits/habits"
	"github.com/danielhkuo/daily-habits/middleware"
	"github.com/danielhkuo/daily-habits/models"
	"github.com/danielhkuo/daily-habits/notify"
)

type BackupHandler struct {
	store    *habits.Store
	notifier notify.Notifier
}

func NewBackupHandler(store *habits.Store, notifier notify.Notifier) *BackupHandler {
	return &BackupHandler{store: store, notifier: notifier}
}

// Export handles GET /export
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	filename, data, err := backup.Export(h.store.Snapshot(), h.store.Now())
	if err != nil {
		slog.Error("failed to export backup", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Import handles POST /import?confirm=true
// The body is the backup document. Nothing changes unless the document is
// valid and the import is confirmed.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, middleware.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Backup file too large")
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read backup file")
		return
	}

	doc, err := backup.Parse(data)
	if err != nil {
		slog.Warn("import rejected", "error", err)
		writeError(w, err, nil)
		return
	}

	confirm := confirmFrom(r)
	if err := h.store.Replace(r.Context(), doc, confirm); err != nil {
		writeError(w, err, confirm)
		return
	}

	h.notifier.Notify(notify.Info("Data imported."))
	middleware.JSONResponse(w, http.StatusOK, models.ImportResponse{
		Habits:  len(doc.Habits),
		Message: "Data imported",
	})
}
