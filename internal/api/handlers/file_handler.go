// filepath: internal/api/handlers/file_handler.go
package handlers

import (
	"errors"
	"net/http"
	"os"

	"streamstore/internal/logging"
	"streamstore/internal/services"
)

const noFileMessage = "No file uploaded yet"

// @Summary Usage hint
// @Tags File
// @Produce  plain
// @Success 200 {string} string "POST and GET on /file"
// @Router / [get]
func (h *Handlers) GetRoot(w http.ResponseWriter, r *http.Request) {
	respondWithText(w, http.StatusOK, "POST and GET on /file")
}

// @Summary Download the latest file
// @Description Returns the bytes of the most recently completed upload.
// @Tags File
// @Produce  octet-stream
// @Success 200 {file} binary
// @Failure 404 {string} string "No file uploaded yet"
// @Router /file [get]
func (h *Handlers) GetFile(w http.ResponseWriter, r *http.Request) {
	path, err := h.Uploads.LatestArtifact()
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithText(w, http.StatusNotFound, noFileMessage)
			return
		}
		logging.Log.Errorf("GetFile: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to resolve latest file.")
		return
	}

	// The registry may hand out a path that a concurrent upload deletes
	// right after; open first and treat a vanished file as not found.
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Log.Debugf("GetFile: %s was superseded before it could be opened", path)
			respondWithText(w, http.StatusNotFound, noFileMessage)
			return
		}
		logging.Log.Errorf("GetFile: failed to open %s: %v", path, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to read file.")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		logging.Log.Errorf("GetFile: failed to stat %s: %v", path, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to read file.")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeContent(w, r, "", info.ModTime(), f)
}

// @Summary Upload a file
// @Description Streams the raw request body to disk through a bounded buffer. The stored file replaces the previous one once the body has been fully written.
// @Tags File
// @Accept  octet-stream
// @Success 201 "Created"
// @Failure 400 {object} ErrorResponse "Upload stream aborted"
// @Failure 503 {object} ErrorResponse "Another upload is in progress and the request was cancelled"
// @Failure 500 {object} ErrorResponse "Storage failure"
// @Router /file [post]
func (h *Handlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	session, err := h.Uploads.Upload(r.Context(), r.Body)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBusy):
			respondWithError(w, http.StatusServiceUnavailable, "Upload slot unavailable.")
		case errors.Is(err, services.ErrStreamFault):
			respondWithError(w, http.StatusBadRequest, "Upload stream aborted.")
		default:
			logging.Log.Errorf("UploadFile: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to store upload.")
		}
		return
	}

	h.audit(r, "file.upload", session.Label, map[string]interface{}{
		"bytes":        session.Bytes,
		"chunks":       session.Chunks,
		"write_faults": session.WriteFaults,
		"superseded":   session.Superseded,
	})
	w.Header().Set("X-Upload-Label", session.Label)
	w.WriteHeader(http.StatusCreated)
}
