package model

import "time"

// Credential is the stored login record for one account, keyed by
// normalized email. PasswordHash is a bcrypt hash. Credentials are
// created at registration and never returned by any endpoint.
type Credential struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}
