package repository

import (
	"context"
	"errors"
	"fmt"

	"wavehub/kv"
	"wavehub/logger"
	"wavehub/model"
)

// PlaylistRepository stores each user's playlists with the same
// index-plus-records layout as TrackRepository, and the same
// non-atomicity contract: no transaction spans the record write and the
// index write, and concurrent index writers race last-write-wins.
type PlaylistRepository struct {
	store kv.Store
}

// NewPlaylistRepository creates a PlaylistRepository on the given store.
func NewPlaylistRepository(store kv.Store) *PlaylistRepository {
	return &PlaylistRepository{store: store}
}

// InitIndex writes the user's empty playlist index.
func (r *PlaylistRepository) InitIndex(ctx context.Context, userID string) error {
	if err := r.store.Set(ctx, playlistIndexKey(userID), []string{}); err != nil {
		return fmt.Errorf("init playlist index: %w", err)
	}
	return nil
}

// Append writes the record, then appends its id to the owner's index.
// Assigns p.ID when empty.
func (r *PlaylistRepository) Append(ctx context.Context, p *model.Playlist) error {
	if p.ID == "" {
		p.ID = NewRecordID()
	}

	if err := r.store.Set(ctx, playlistKey(p.ID), p); err != nil {
		return fmt.Errorf("write playlist record: %w", err)
	}

	ids, err := r.readIndex(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("read playlist index: %w", err)
	}
	ids = append(ids, p.ID)
	if err := r.store.Set(ctx, playlistIndexKey(p.UserID), ids); err != nil {
		return fmt.Errorf("write playlist index: %w", err)
	}
	return nil
}

// Get fetches a single playlist by id. Returns ErrNotFound when absent.
func (r *PlaylistRepository) Get(ctx context.Context, playlistID string) (*model.Playlist, error) {
	var p model.Playlist
	if err := r.store.Get(ctx, playlistKey(playlistID), &p); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read playlist record: %w", err)
	}
	return &p, nil
}

// Remove deletes the record, then filters the id out of the owner's
// index. Idempotent; ownership is the caller's responsibility.
func (r *PlaylistRepository) Remove(ctx context.Context, userID, playlistID string) error {
	if err := r.store.Delete(ctx, playlistKey(playlistID)); err != nil {
		return fmt.Errorf("delete playlist record: %w", err)
	}

	ids, err := r.readIndex(ctx, userID)
	if err != nil {
		return fmt.Errorf("read playlist index: %w", err)
	}
	filtered := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != playlistID {
			filtered = append(filtered, id)
		}
	}
	if err := r.store.Set(ctx, playlistIndexKey(userID), filtered); err != nil {
		return fmt.Errorf("write playlist index: %w", err)
	}
	return nil
}

// List walks the index, skipping dangling or unreadable entries.
func (r *PlaylistRepository) List(ctx context.Context, userID string) ([]*model.Playlist, error) {
	ids, err := r.readIndex(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read playlist index: %w", err)
	}

	playlists := make([]*model.Playlist, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		var p model.Playlist
		if err := r.store.Get(ctx, playlistKey(id), &p); err != nil {
			logger.Warn("skipping unreadable playlist record",
				logger.String("userId", userID),
				logger.String("playlistId", id),
				logger.ErrorField(err))
			continue
		}
		playlists = append(playlists, &p)
	}
	return playlists, nil
}

// ListPublic is List restricted to playlists carrying the public flag.
func (r *PlaylistRepository) ListPublic(ctx context.Context, userID string) ([]*model.Playlist, error) {
	playlists, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := make([]*model.Playlist, 0, len(playlists))
	for _, p := range playlists {
		if p.IsPublic {
			public = append(public, p)
		}
	}
	return public, nil
}

func (r *PlaylistRepository) readIndex(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.store.Get(ctx, playlistIndexKey(userID), &ids)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	return ids, err
}
