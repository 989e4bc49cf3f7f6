package server

import (
	"encoding/json"
	"net/http"
	"time"

	"wavehub/config"
	"wavehub/logger"
	"wavehub/repository"
	"wavehub/storage"
)

// APIHandler carries the handler dependencies.
type APIHandler struct {
	profiles    *repository.ProfileRepository
	tracks      *repository.TrackRepository
	playlists   *repository.PlaylistRepository
	credentials *repository.CredentialRepository
	objects     storage.ObjectStore
	cfg         *config.Config
}

// NewAPIHandler creates the API handler.
func NewAPIHandler(
	profiles *repository.ProfileRepository,
	tracks *repository.TrackRepository,
	playlists *repository.PlaylistRepository,
	credentials *repository.CredentialRepository,
	objects storage.ObjectStore,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		profiles:    profiles,
		tracks:      tracks,
		playlists:   playlists,
		credentials: credentials,
		objects:     objects,
		cfg:         cfg,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

// writeError sends the uniform error envelope: a short machine-stable
// code plus a human-readable message.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

var endpointList = []string{
	"GET /health (service)",
	"POST /signup (service)",
	"POST /login (service)",
	"GET /profile/{userId} (service)",
	"PUT /profile (session)",
	"GET /users (service)",
	"POST /upload-track (session)",
	"GET /tracks/{userId} (service)",
	"GET /my-tracks (session)",
	"DELETE /track/{trackId} (session)",
	"POST /playlists (session)",
	"GET /playlists/{userId} (service)",
}

// HealthHandler reports liveness, the configured collaborators, and the
// route table.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"environment": map[string]interface{}{
			"name":            h.cfg.Environment,
			"redisConfigured": h.cfg.RedisHost != "",
			"minioConfigured": h.cfg.MinioEndpoint != "",
		},
		"endpoints": endpointList,
	})
}

// NotFoundHandler is the JSON catch-all for unhandled routes.
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":     "not_found",
		"message":   "Endpoint not found",
		"path":      r.URL.Path,
		"method":    r.Method,
		"endpoints": endpointList,
	})
}
