package model

import "time"

// Playlist is an ordered selection of track ids. The ids are not checked
// against the track store; a playlist may reference tracks that have
// since been deleted.
type Playlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TrackIDs  []string  `json:"trackIds"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	IsPublic  bool      `json:"isPublic"`
}
