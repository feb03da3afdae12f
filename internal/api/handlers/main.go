// filepath: internal/api/handlers/main.go
package handlers

import (
	"net/http"

	"streamstore/internal/config"
	"streamstore/internal/services"
)

// Handlers provides a struct to hold shared dependencies for API handlers.
type Handlers struct {
	Info         services.InfoService
	Uploads      services.UploadService
	History      services.HistoryService // optional
	Housekeeping services.HousekeepingService
	Auditor      services.Auditor // optional

	Cfg *config.Config
}

// NewHandlers creates a new instance of Handlers with its dependencies.
func NewHandlers(
	info services.InfoService,
	uploads services.UploadService,
	history services.HistoryService,
	housekeeping services.HousekeepingService,
	auditor services.Auditor,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		Info:         info,
		Uploads:      uploads,
		History:      history,
		Housekeeping: housekeeping,
		Auditor:      auditor,
		Cfg:          cfg,
	}
}

// audit records an event for the request if an auditor is configured.
func (h *Handlers) audit(r *http.Request, action, resource string, details map[string]interface{}) {
	if h.Auditor == nil {
		return
	}
	h.Auditor.Log(r.Context(), action, r.RemoteAddr, resource, details)
}
