package repository

import (
	"context"
	"errors"
	"fmt"

	"wavehub/kv"
	"wavehub/logger"
	"wavehub/model"
)

// TrackRepository stores each user's tracks as two independently-keyed
// pieces of state: an index of track ids under user_tracks:{userId},
// and one record per track under track:{trackId}.
//
// The two keys are written without any transaction. An Append that dies
// between the record write and the index write leaves an orphaned record
// (reachable by id, invisible to listing); nothing reconciles that.
// Two concurrent Appends to the same index race on the read-modify-write
// and the last writer's snapshot wins, silently dropping the other's id.
// Both are accepted failure modes of the design.
type TrackRepository struct {
	store kv.Store
}

// NewTrackRepository creates a TrackRepository on the given store.
func NewTrackRepository(store kv.Store) *TrackRepository {
	return &TrackRepository{store: store}
}

// InitIndex writes the user's empty track index. Called once at
// registration; Append assumes the slot exists.
func (r *TrackRepository) InitIndex(ctx context.Context, userID string) error {
	if err := r.store.Set(ctx, trackIndexKey(userID), []string{}); err != nil {
		return fmt.Errorf("init track index: %w", err)
	}
	return nil
}

// Append writes the record under its own key, then re-reads the index
// and writes it back whole with the new id included. Assigns t.ID when
// empty.
func (r *TrackRepository) Append(ctx context.Context, t *model.Track) error {
	if t.ID == "" {
		t.ID = NewRecordID()
	}

	if err := r.store.Set(ctx, trackKey(t.ID), t); err != nil {
		return fmt.Errorf("write track record: %w", err)
	}

	ids, err := r.readIndex(ctx, t.UserID)
	if err != nil {
		return fmt.Errorf("read track index: %w", err)
	}
	ids = append(ids, t.ID)
	if err := r.store.Set(ctx, trackIndexKey(t.UserID), ids); err != nil {
		return fmt.Errorf("write track index: %w", err)
	}
	return nil
}

// Get fetches a single record by id. Returns ErrNotFound when absent.
func (r *TrackRepository) Get(ctx context.Context, trackID string) (*model.Track, error) {
	var t model.Track
	if err := r.store.Get(ctx, trackKey(trackID), &t); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read track record: %w", err)
	}
	return &t, nil
}

// Remove deletes the record key, then filters the id out of the owner's
// index and writes it back. Removing an id that is already gone is a
// no-op; the filter step is idempotent. Ownership is not checked here;
// callers must verify it before invoking Remove.
func (r *TrackRepository) Remove(ctx context.Context, userID, trackID string) error {
	if err := r.store.Delete(ctx, trackKey(trackID)); err != nil {
		return fmt.Errorf("delete track record: %w", err)
	}

	ids, err := r.readIndex(ctx, userID)
	if err != nil {
		return fmt.Errorf("read track index: %w", err)
	}
	filtered := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != trackID {
			filtered = append(filtered, id)
		}
	}
	if err := r.store.Set(ctx, trackIndexKey(userID), filtered); err != nil {
		return fmt.Errorf("write track index: %w", err)
	}
	return nil
}

// List reads the index and fetches each record in order. Ids whose
// record is missing or unreadable are skipped, so one dangling index
// entry cannot take down the whole listing.
func (r *TrackRepository) List(ctx context.Context, userID string) ([]*model.Track, error) {
	ids, err := r.readIndex(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read track index: %w", err)
	}

	tracks := make([]*model.Track, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		var t model.Track
		if err := r.store.Get(ctx, trackKey(id), &t); err != nil {
			logger.Warn("skipping unreadable track record",
				logger.String("userId", userID),
				logger.String("trackId", id),
				logger.ErrorField(err))
			continue
		}
		tracks = append(tracks, &t)
	}
	return tracks, nil
}

// ListPublic is List restricted to records carrying the public flag.
// The filter runs in memory after the index walk.
func (r *TrackRepository) ListPublic(ctx context.Context, userID string) ([]*model.Track, error) {
	tracks, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := make([]*model.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.IsPublic {
			public = append(public, t)
		}
	}
	return public, nil
}

// Count returns the index length without fetching records. Dangling
// entries are counted; the value is the cheap approximation used for
// the derived trackCount field.
func (r *TrackRepository) Count(ctx context.Context, userID string) (int, error) {
	ids, err := r.readIndex(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (r *TrackRepository) readIndex(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.store.Get(ctx, trackIndexKey(userID), &ids)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	return ids, err
}
