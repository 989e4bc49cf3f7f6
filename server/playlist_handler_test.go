package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type playlistResp struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	TrackIDs []string `json:"trackIds"`
	UserID   string   `json:"userId"`
	IsPublic bool     `json:"isPublic"`
}

func TestCreatePlaylist(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.signup(t, "curator@example.com", "Curator")

	rr := env.do(http.MethodPost, "/playlists", token, map[string]interface{}{
		"name":     "Road Trip",
		"trackIds": []string{"t1", "t2", "t3"},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Success  bool         `json:"success"`
		Playlist playlistResp `json:"playlist"`
	}
	decodeBody(t, rr, &resp)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Playlist.ID)
	assert.Equal(t, "Road Trip", resp.Playlist.Name)
	assert.Equal(t, []string{"t1", "t2", "t3"}, resp.Playlist.TrackIDs)
	assert.Equal(t, userID, resp.Playlist.UserID)
	assert.True(t, resp.Playlist.IsPublic)
}

func TestCreatePlaylistValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "strict@example.com", "Strict")

	// Missing name.
	rr := env.do(http.MethodPost, "/playlists", token, map[string]interface{}{
		"trackIds": []string{"t1"},
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var resp map[string]string
	decodeBody(t, rr, &resp)
	assert.Equal(t, "missing_fields", resp["error"])

	// Missing trackIds list entirely.
	rr = env.do(http.MethodPost, "/playlists", token, map[string]interface{}{
		"name": "No Tracks Key",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	decodeBody(t, rr, &resp)
	assert.Equal(t, "missing_fields", resp["error"])

	// An explicitly empty list is fine.
	rr = env.do(http.MethodPost, "/playlists", token, map[string]interface{}{
		"name":     "Empty",
		"trackIds": []string{},
	})
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestCreatePlaylistRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodPost, "/playlists", serviceAuth, map[string]interface{}{
		"name":     "Nope",
		"trackIds": []string{},
	})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListUserPlaylistsPublicOnly(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.signup(t, "shared@example.com", "Shared")

	rr := env.do(http.MethodPost, "/playlists", token, map[string]interface{}{
		"name":     "Visible",
		"trackIds": []string{"t1"},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var created struct {
		Playlist playlistResp `json:"playlist"`
	}
	decodeBody(t, rr, &created)

	rr = env.do(http.MethodPost, "/playlists", token, map[string]interface{}{
		"name":     "Hidden",
		"trackIds": []string{"t2"},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var hidden struct {
		Playlist playlistResp `json:"playlist"`
	}
	decodeBody(t, rr, &hidden)

	// Flip the second playlist to private directly in the store.
	pl, err := env.handler.playlists.Get(context.Background(), hidden.Playlist.ID)
	require.NoError(t, err)
	pl.IsPublic = false
	require.NoError(t, env.store.Set(context.Background(), "playlist:"+pl.ID, pl))

	rr = env.do(http.MethodGet, "/playlists/"+userID, serviceAuth, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Playlists []playlistResp `json:"playlists"`
	}
	decodeBody(t, rr, &resp)
	require.Len(t, resp.Playlists, 1)
	assert.Equal(t, created.Playlist.ID, resp.Playlists[0].ID)
	// Playlists keep referencing whatever ids they were given.
	assert.Equal(t, []string{"t1"}, resp.Playlists[0].TrackIDs)
}

func TestListPlaylistsUnknownUserIsEmpty(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodGet, "/playlists/nobody", serviceAuth, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Playlists []playlistResp `json:"playlists"`
	}
	decodeBody(t, rr, &resp)
	assert.Empty(t, resp.Playlists)
}
