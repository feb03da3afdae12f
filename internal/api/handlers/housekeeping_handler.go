// filepath: internal/api/handlers/housekeeping_handler.go
package handlers

import (
	"net/http"

	"streamstore/internal/logging"
)

// @Summary Trigger housekeeping
// @Description Manually sweeps orphaned files from the scratch directory. The latest artifact and an upload in progress are never removed.
// @Tags Housekeeping
// @Produce  json
// @Success 200 {object} models.HousekeepingReport
// @Failure 500 {object} ErrorResponse "Housekeeping failed"
// @Router /api/housekeeping [post]
func (h *Handlers) TriggerHousekeeping(w http.ResponseWriter, r *http.Request) {
	report, err := h.Housekeeping.TriggerHousekeeping()
	if err != nil {
		logging.Log.Errorf("Manual housekeeping failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Housekeeping failed.")
		return
	}
	h.audit(r, "housekeeping.trigger", "scratch", map[string]interface{}{
		"files_removed":     report.FilesRemoved,
		"space_freed_bytes": report.SpaceFreedBytes,
	})
	respondWithJSON(w, http.StatusOK, report)
}
