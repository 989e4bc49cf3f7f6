package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"wavehub/kv"
	"wavehub/logger"
	"wavehub/model"
)

// ProfileRepository stores one profile document per user under
// profile:{userId}. Profiles have no index of their own; the gallery
// listing is a prefix scan.
type ProfileRepository struct {
	store kv.Store
}

// NewProfileRepository creates a ProfileRepository on the given store.
func NewProfileRepository(store kv.Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// Create writes the profile document.
func (r *ProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	if err := r.store.Set(ctx, profileKey(p.ID), p); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// Get fetches one profile. Returns ErrNotFound when absent.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	if err := r.store.Get(ctx, profileKey(userID), &p); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return &p, nil
}

// Update overwrites the profile document whole.
func (r *ProfileRepository) Update(ctx context.Context, p *model.Profile) error {
	if err := r.store.Set(ctx, profileKey(p.ID), p); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// ListAll scans every profile document. Entries that fail to decode or
// lack required fields are skipped rather than failing the scan.
func (r *ProfileRepository) ListAll(ctx context.Context) ([]*model.Profile, error) {
	raws, err := r.store.GetByPrefix(ctx, "profile:")
	if err != nil {
		return nil, fmt.Errorf("scan profiles: %w", err)
	}

	profiles := make([]*model.Profile, 0, len(raws))
	for _, raw := range raws {
		var p model.Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			logger.Warn("skipping malformed profile entry", logger.ErrorField(err))
			continue
		}
		if p.ID == "" || p.Name == "" {
			logger.Warn("skipping profile with missing required fields", logger.String("profileId", p.ID))
			continue
		}
		profiles = append(profiles, &p)
	}
	return profiles, nil
}
