package repository

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Key layout in the document store. Each collection is two pieces of
// state: a per-user index of member ids, and one record per id.
func profileKey(userID string) string {
	return "profile:" + userID
}

func trackIndexKey(userID string) string {
	return "user_tracks:" + userID
}

func trackKey(trackID string) string {
	return "track:" + trackID
}

func playlistIndexKey(userID string) string {
	return "user_playlists:" + userID
}

func playlistKey(playlistID string) string {
	return "playlist:" + playlistID
}

func credentialKey(email string) string {
	return "auth:email:" + strings.ToLower(strings.TrimSpace(email))
}

// NewRecordID returns a fresh id for a track or playlist record: the
// current unix-millisecond timestamp plus a random base36 suffix. The
// suffix keeps two records created in the same millisecond apart.
func NewRecordID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + strconv.FormatInt(rand.Int63(), 36)
}
