package repository

import "errors"

var (
	// ErrNotFound means the referenced id has no backing record.
	ErrNotFound = errors.New("repository: record not found")

	// ErrDuplicateUser means the email already has a credential record.
	ErrDuplicateUser = errors.New("repository: email already registered")
)
