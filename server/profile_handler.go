package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"wavehub/logger"
	"wavehub/repository"

	"github.com/gorilla/mux"
)

// GetProfileHandler returns one profile with its trackCount computed
// from the track index at read time.
func (h *APIHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID")
		return
	}

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
			return
		}
		logger.Error("[Profile] failed to read profile", logger.String("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", fmt.Sprintf("Failed to fetch profile: %v", err))
		return
	}

	// A broken index degrades to zero rather than failing the profile.
	count, err := h.tracks.Count(r.Context(), userID)
	if err != nil {
		logger.Warn("[Profile] failed to count tracks", logger.String("userId", userID), logger.ErrorField(err))
		count = 0
	}
	profile.TrackCount = count

	writeJSON(w, http.StatusOK, map[string]interface{}{"profile": profile})
}

// UpdateProfileHandler updates the caller's own name and bio. Absent
// fields keep their stored values.
func (h *APIHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req struct {
		Name *string `json:"name"`
		Bio  *string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
			return
		}
		logger.Error("[Profile] failed to read profile", logger.String("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", fmt.Sprintf("Failed to fetch profile: %v", err))
		return
	}

	if req.Name != nil && *req.Name != "" {
		profile.Name = *req.Name
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	now := time.Now().UTC()
	profile.UpdatedAt = &now

	if err := h.profiles.Update(r.Context(), profile); err != nil {
		logger.Error("[Profile] failed to update profile", logger.String("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", fmt.Sprintf("Failed to update profile: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": profile,
	})
}

// ListUsersHandler returns every profile, trackCount computed per
// profile, sorted by trackCount descending. Profiles whose index cannot
// be read still appear with a count of zero.
func (h *APIHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.ListAll(r.Context())
	if err != nil {
		logger.Error("[Users] failed to list profiles", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", fmt.Sprintf("Failed to fetch users: %v", err))
		return
	}

	for _, p := range profiles {
		count, err := h.tracks.Count(r.Context(), p.ID)
		if err != nil {
			logger.Warn("[Users] failed to count tracks", logger.String("userId", p.ID), logger.ErrorField(err))
			count = 0
		}
		p.TrackCount = count
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].TrackCount > profiles[j].TrackCount
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{"users": profiles})
}
