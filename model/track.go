package model

import "time"

// Track is the stored metadata for one uploaded audio file. The audio
// bytes live in the object store under StorageKey; that key is stable
// and persisted, while the URLs handed to clients are minted fresh per
// response and expire on their own.
type Track struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StorageKey string    `json:"storageKey"`
	UserID     string    `json:"userId"`
	UploadedAt time.Time `json:"uploadedAt"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	IsPublic   bool      `json:"isPublic"`
}

// TrackView is a Track as returned to clients: the internal storage key
// is replaced by a freshly minted signed URL.
type TrackView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UserID     string    `json:"userId"`
	UploadedAt time.Time `json:"uploadedAt"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	IsPublic   bool      `json:"isPublic"`
	URL        string    `json:"url"`
}

// NewTrackView builds the client-facing shape of a track.
func NewTrackView(t *Track, url string) TrackView {
	return TrackView{
		ID:         t.ID,
		Name:       t.Name,
		UserID:     t.UserID,
		UploadedAt: t.UploadedAt,
		Size:       t.Size,
		Type:       t.Type,
		IsPublic:   t.IsPublic,
		URL:        url,
	}
}
