package repository

import (
	"context"
	"errors"
	"fmt"

	"wavehub/kv"
	"wavehub/model"
)

// CredentialRepository keys login records by normalized email under
// auth:email:{email}. Duplicate detection is a read-before-write, not a
// unique constraint; the same non-atomicity note as the index
// repositories applies.
type CredentialRepository struct {
	store kv.Store
}

// NewCredentialRepository creates a CredentialRepository on the given store.
func NewCredentialRepository(store kv.Store) *CredentialRepository {
	return &CredentialRepository{store: store}
}

// Create stores a credential record, rejecting emails that already have
// one with ErrDuplicateUser.
func (r *CredentialRepository) Create(ctx context.Context, c *model.Credential) error {
	var existing model.Credential
	err := r.store.Get(ctx, credentialKey(c.Email), &existing)
	if err == nil {
		return ErrDuplicateUser
	}
	if !errors.Is(err, kv.ErrKeyNotFound) {
		return fmt.Errorf("check credential: %w", err)
	}

	if err := r.store.Set(ctx, credentialKey(c.Email), c); err != nil {
		return fmt.Errorf("write credential: %w", err)
	}
	return nil
}

// GetByEmail fetches the credential record for an email. Returns
// ErrNotFound when the email is not registered.
func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*model.Credential, error) {
	var c model.Credential
	if err := r.store.Get(ctx, credentialKey(email), &c); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read credential: %w", err)
	}
	return &c, nil
}
