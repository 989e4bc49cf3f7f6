package repository_test

import (
	"context"
	"testing"
	"time"

	"wavehub/kv"
	"wavehub/model"
	"wavehub/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfile(id, name string) *model.Profile {
	return &model.Profile{
		ID:        id,
		Email:     name + "@example.com",
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

func TestProfileCreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := repository.NewProfileRepository(store)

	p := newProfile("u1", "alice")
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)

	got.Bio = "making noise"
	now := time.Now().UTC()
	got.UpdatedAt = &now
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "making noise", got.Bio)
	require.NotNil(t, got.UpdatedAt)
}

func TestProfileGetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProfileRepository(kv.NewMemoryStore())

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProfileListAllSkipsMalformedEntries(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := repository.NewProfileRepository(store)

	require.NoError(t, repo.Create(ctx, newProfile("u1", "alice")))
	require.NoError(t, repo.Create(ctx, newProfile("u2", "bob")))

	// One entry that is not JSON, one that decodes but lacks a name.
	store.SetRaw("profile:broken", []byte("{oops"))
	require.NoError(t, store.Set(ctx, "profile:empty", &model.Profile{ID: "empty"}))

	profiles, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
}

func TestCredentialDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo := repository.NewCredentialRepository(store)

	cred := &model.Credential{
		UserID:       "u1",
		Email:        "alice@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, cred))

	// Email lookup is case-insensitive, so a re-registration with
	// different casing still collides.
	dup := &model.Credential{UserID: "u2", Email: "Alice@Example.com", PasswordHash: "y"}
	assert.ErrorIs(t, repo.Create(ctx, dup), repository.ErrDuplicateUser)

	got, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
}

func TestCredentialNotFound(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewCredentialRepository(kv.NewMemoryStore())

	_, err := repo.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
