package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"wavehub/logger"
	"wavehub/model"
	"wavehub/repository"
	"wavehub/storage"

	"github.com/gorilla/mux"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// storageKeyFor builds the stable internal key for an uploaded file:
// {userId}/{millis}_{sanitizedName}{ext}. The key is persisted with the
// track record; the URLs minted from it are not.
func storageKeyFor(userID, trackName, originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	safe := unsafeKeyChars.ReplaceAllString(trackName, "_")
	return fmt.Sprintf("%s/%d_%s%s", userID, time.Now().UnixMilli(), safe, ext)
}

// UploadTrackHandler stores an audio file and its metadata. Expected
// multipart form fields: file (the audio), name (display name). The
// response carries a signed URL on the long window; minting it is part
// of the request and its failure is fatal here, unlike in listings.
func (h *APIHandler) UploadTrackHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB max memory
		writeError(w, http.StatusBadRequest, "invalid_form", fmt.Sprintf("Failed to parse multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file", "File and name are required")
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing_name", "File and name are required")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "audio/") {
		writeError(w, http.StatusBadRequest, "invalid_type", "File must be an audio file")
		return
	}

	key := storageKeyFor(userID, name, header.Filename)

	if err := h.objects.Put(r.Context(), h.cfg.MinioAudioBucket, key, file, header.Size, contentType); err != nil {
		logger.Error("[Upload] failed to store object", logger.String("key", key), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", fmt.Sprintf("Failed to upload file: %v", err))
		return
	}

	url, err := h.objects.MintAccessURL(r.Context(), h.cfg.MinioAudioBucket, key, storage.UploadSignTTL)
	if err != nil {
		logger.Error("[Upload] failed to mint access URL", logger.String("key", key), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", "Failed to create signed URL")
		return
	}

	track := &model.Track{
		Name:       name,
		StorageKey: key,
		UserID:     userID,
		UploadedAt: time.Now().UTC(),
		Size:       header.Size,
		Type:       contentType,
		IsPublic:   true,
	}
	if err := h.tracks.Append(r.Context(), track); err != nil {
		logger.Error("[Upload] failed to append track", logger.String("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", fmt.Sprintf("Failed to save track: %v", err))
		return
	}

	logger.Info("[Upload] track uploaded",
		logger.String("userId", userID),
		logger.String("trackId", track.ID),
		logger.Int64("size", track.Size))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"track":   model.NewTrackView(track, url),
	})
}

// mintViews turns track records into client views, each with a freshly
// minted URL on the short window. A record whose URL cannot be minted
// is dropped, same as a record missing from the store.
func (h *APIHandler) mintViews(r *http.Request, tracks []*model.Track) []model.TrackView {
	views := make([]model.TrackView, 0, len(tracks))
	for _, t := range tracks {
		if t.StorageKey == "" {
			logger.Warn("skipping track without storage key", logger.String("trackId", t.ID))
			continue
		}
		url, err := h.objects.MintAccessURL(r.Context(), h.cfg.MinioAudioBucket, t.StorageKey, storage.ListSignTTL)
		if err != nil {
			logger.Warn("skipping track with unmintable URL",
				logger.String("trackId", t.ID),
				logger.ErrorField(err))
			continue
		}
		views = append(views, model.NewTrackView(t, url))
	}
	return views
}

// ListUserTracksHandler returns a user's public tracks with fresh URLs.
func (h *APIHandler) ListUserTracksHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID")
		return
	}

	tracks, err := h.tracks.ListPublic(r.Context(), userID)
	if err != nil {
		logger.Error("[Tracks] failed to list tracks", logger.String("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", fmt.Sprintf("Failed to fetch tracks: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tracks": h.mintViews(r, tracks)})
}

// MyTracksHandler returns the caller's own tracks, private included.
func (h *APIHandler) MyTracksHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	tracks, err := h.tracks.List(r.Context(), userID)
	if err != nil {
		logger.Error("[Tracks] failed to list own tracks", logger.String("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", fmt.Sprintf("Failed to fetch tracks: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tracks": h.mintViews(r, tracks)})
}

// DeleteTrackHandler removes a track the caller owns: stored object
// first (failure logged, not fatal), then record, then index entry.
// A non-owner gets forbidden and nothing is touched.
func (h *APIHandler) DeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	trackID := mux.Vars(r)["trackId"]
	track, err := h.tracks.Get(r.Context(), trackID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "track_not_found", "Track not found")
			return
		}
		logger.Error("[Delete] failed to read track", logger.String("trackId", trackID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", fmt.Sprintf("Failed to delete track: %v", err))
		return
	}

	if track.UserID != userID {
		writeError(w, http.StatusForbidden, "forbidden", "Not authorized to delete this track")
		return
	}

	if err := h.objects.Remove(r.Context(), h.cfg.MinioAudioBucket, track.StorageKey); err != nil {
		// The record and index are still cleaned up; the object becomes
		// unreferenced garbage in the bucket.
		logger.Warn("[Delete] failed to remove stored object",
			logger.String("key", track.StorageKey),
			logger.ErrorField(err))
	}

	if err := h.tracks.Remove(r.Context(), track.UserID, trackID); err != nil {
		logger.Error("[Delete] failed to remove track", logger.String("trackId", trackID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "upstream_error", fmt.Sprintf("Failed to delete track: %v", err))
		return
	}

	logger.Info("[Delete] track deleted", logger.String("userId", userID), logger.String("trackId", trackID))

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
