package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"wavehub/logger"
	"wavehub/model"

	"github.com/gorilla/mux"
)

// CreatePlaylistHandler creates a playlist from a name and an ordered
// list of track ids. The ids are stored as given; nothing checks them
// against the track store.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req struct {
		Name     string   `json:"name"`
		TrackIDs []string `json:"trackIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	// trackIds must be present as a list, even an empty one.
	if req.Name == "" || req.TrackIDs == nil {
		writeError(w, http.StatusBadRequest, "missing_fields", "Name and trackIds are required")
		return
	}

	playlist := &model.Playlist{
		Name:      req.Name,
		TrackIDs:  req.TrackIDs,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		IsPublic:  true,
	}
	if err := h.playlists.Append(r.Context(), playlist); err != nil {
		logger.Error("[Playlist] failed to create playlist", logger.String("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", fmt.Sprintf("Failed to create playlist: %v", err))
		return
	}

	logger.Info("[Playlist] playlist created",
		logger.String("userId", userID),
		logger.String("playlistId", playlist.ID),
		logger.Int("tracks", len(playlist.TrackIDs)))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"playlist": playlist,
	})
}

// ListUserPlaylistsHandler returns a user's public playlists.
func (h *APIHandler) ListUserPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID")
		return
	}

	playlists, err := h.playlists.ListPublic(r.Context(), userID)
	if err != nil {
		logger.Error("[Playlist] failed to list playlists", logger.String("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", fmt.Sprintf("Failed to fetch playlists: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"playlists": playlists})
}
