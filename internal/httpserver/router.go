package httpserver

import (
	"net/http"

	"streamstore/internal/api/handlers"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter configures the main router. metrics is served at /metrics
// when non-nil; history routes are registered only when a history service
// is configured.
func SetupRouter(h *handlers.Handlers, metrics http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// File Endpoints
	r.HandleFunc("/", h.GetRoot).Methods("GET")
	r.HandleFunc("/file", h.GetFile).Methods("GET", "HEAD")
	r.HandleFunc("/file", h.UploadFile).Methods("POST")

	// Operational Endpoints
	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	if metrics != nil {
		r.Handle("/metrics", metrics).Methods("GET")
	}

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/info", h.GetInfo).Methods("GET")
	if h.History != nil {
		apiRouter.HandleFunc("/uploads", h.ListUploads).Methods("GET")
		apiRouter.HandleFunc("/uploads/{label}", h.GetUpload).Methods("GET")
	}
	if h.Housekeeping != nil {
		apiRouter.HandleFunc("/housekeeping", h.TriggerHousekeeping).Methods("POST")
	}

	return r
}
