package model

import "time"

// Profile is a user's public identity record.
type Profile struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar,omitempty"` // internal key in the avatars bucket

	// TrackCount is computed from the track index at read time and is
	// never stored authoritatively; the persisted value is stale.
	TrackCount int `json:"trackCount"`

	FollowerCount  int `json:"followerCount"`
	FollowingCount int `json:"followingCount"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
