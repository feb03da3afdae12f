// filepath: internal/api/handlers/history_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"streamstore/internal/logging"
	"streamstore/internal/services"

	"github.com/gorilla/mux"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 1000
)

// @Summary List recent uploads
// @Description Returns the upload history, newest first, including aborted and superseded sessions.
// @Tags History
// @Produce  json
// @Param   limit  query  int  false  "Maximum number of records (default 50, max 1000)"
// @Success 200 {array} models.UploadRecord
// @Failure 400 {object} ErrorResponse "Invalid limit"
// @Failure 500 {object} ErrorResponse "History unavailable"
// @Router /api/uploads [get]
func (h *Handlers) ListUploads(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxHistoryLimit {
			respondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter.")
			return
		}
		limit = n
	}

	records, err := h.History.ListUploads(limit)
	if err != nil {
		logging.Log.Errorf("ListUploads: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to read upload history.")
		return
	}
	respondWithJSON(w, http.StatusOK, records)
}

// @Summary Get one upload
// @Description Returns the history record of a single upload session.
// @Tags History
// @Produce  json
// @Param   label  path  string  true  "Session label"
// @Success 200 {object} models.UploadRecord
// @Failure 404 {object} ErrorResponse "Upload not found"
// @Router /api/uploads/{label} [get]
func (h *Handlers) GetUpload(w http.ResponseWriter, r *http.Request) {
	label := mux.Vars(r)["label"]
	rec, err := h.History.GetUpload(label)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Upload not found.")
			return
		}
		logging.Log.Errorf("GetUpload %s: %v", label, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to read upload history.")
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}
