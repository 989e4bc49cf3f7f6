package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"wavehub/config"
	"wavehub/kv"
	"wavehub/repository"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// fakeObjectStore is an in-memory object store for handler tests. Keys
// listed in failMint make MintAccessURL fail, which is how listings are
// driven into their skip path.
type fakeObjectStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	removed  []string
	failMint map[string]bool
	mints    int
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects:  make(map[string][]byte),
		failMint: make(map[string]bool),
	}
}

func (f *fakeObjectStore) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[bucket+"/"+key] = data
	return nil
}

func (f *fakeObjectStore) Remove(ctx context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, bucket+"/"+key)
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeObjectStore) MintAccessURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMint[key] {
		return "", fmt.Errorf("presign failed for %s", key)
	}
	f.mints++
	return fmt.Sprintf("https://files.test/%s/%s?expires=%d", bucket, key, int64(ttl.Seconds())), nil
}

func (f *fakeObjectStore) has(bucket, key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[bucket+"/"+key]
	return ok
}

type testEnv struct {
	store   *kv.MemoryStore
	objects *fakeObjectStore
	handler *APIHandler
	router  *mux.Router
	cfg     *config.Config
}

// newTestEnv wires the real repositories over an in-memory store behind
// the same route table the server uses.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Environment:       "test",
		RedisHost:         "localhost",
		MinioEndpoint:     "localhost:9000",
		MinioAudioBucket:  "wavehub-audio",
		MinioAvatarBucket: "wavehub-avatars",
		JWTSecret:         "test-secret",
		JWTTTLHours:       1,
	}

	store := kv.NewMemoryStore()
	objects := newFakeObjectStore()

	h := NewAPIHandler(
		repository.NewProfileRepository(store),
		repository.NewTrackRepository(store),
		repository.NewPlaylistRepository(store),
		repository.NewCredentialRepository(store),
		objects,
		cfg,
	)

	router := mux.NewRouter()
	router.HandleFunc("/health", RequireBearer(h.HealthHandler)).Methods(http.MethodGet)
	router.HandleFunc("/signup", RequireBearer(h.SignupHandler)).Methods(http.MethodPost)
	router.HandleFunc("/login", RequireBearer(h.LoginHandler)).Methods(http.MethodPost)
	router.HandleFunc("/profile/{userId}", RequireBearer(h.GetProfileHandler)).Methods(http.MethodGet)
	router.HandleFunc("/users", RequireBearer(h.ListUsersHandler)).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{userId}", RequireBearer(h.ListUserTracksHandler)).Methods(http.MethodGet)
	router.HandleFunc("/playlists/{userId}", RequireBearer(h.ListUserPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/profile", h.AuthMiddleware(h.UpdateProfileHandler)).Methods(http.MethodPut)
	router.HandleFunc("/upload-track", h.AuthMiddleware(h.UploadTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/my-tracks", h.AuthMiddleware(h.MyTracksHandler)).Methods(http.MethodGet)
	router.HandleFunc("/track/{trackId}", h.AuthMiddleware(h.DeleteTrackHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/playlists", h.AuthMiddleware(h.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.NotFoundHandler = http.HandlerFunc(h.NotFoundHandler)

	return &testEnv{
		store:   store,
		objects: objects,
		handler: h,
		router:  router,
		cfg:     cfg,
	}
}

// serviceAuth is any non-empty bearer; the service tier only checks
// presence, not validity.
const serviceAuth = "Bearer service-key"

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v))
}

// signup registers a user through the handler and returns its id and
// session token.
func (e *testEnv) signup(t *testing.T, email, name string) (userID, token string) {
	t.Helper()
	rr := e.do(http.MethodPost, "/signup", serviceAuth, map[string]string{
		"email":    email,
		"password": "secret123",
		"name":     name,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, rr, &resp)
	require.NotEmpty(t, resp.User.ID)
	require.NotEmpty(t, resp.Token)
	return resp.User.ID, "Bearer " + resp.Token
}

// uploadTrack pushes a multipart audio upload through the handler and
// returns the resulting track id.
func (e *testEnv) uploadTrack(t *testing.T, token, name, filename, contentType string, data []byte) string {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("name", name))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-track", &buf)
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Track struct {
			ID string `json:"id"`
		} `json:"track"`
	}
	decodeBody(t, rr, &resp)
	require.NotEmpty(t, resp.Track.ID)
	return resp.Track.ID
}

func TestHealthReportsEnvironmentAndRoutes(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodGet, "/health", serviceAuth, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Status      string   `json:"status"`
		Endpoints   []string `json:"endpoints"`
		Environment struct {
			Name            string `json:"name"`
			RedisConfigured bool   `json:"redisConfigured"`
			MinioConfigured bool   `json:"minioConfigured"`
		} `json:"environment"`
	}
	decodeBody(t, rr, &resp)
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, "test", resp.Environment.Name)
	require.True(t, resp.Environment.RedisConfigured)
	require.True(t, resp.Environment.MinioConfigured)
	require.NotEmpty(t, resp.Endpoints)
}

func TestUnknownRouteReturnsJSONNotFound(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodGet, "/nope", serviceAuth, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]interface{}
	decodeBody(t, rr, &resp)
	require.Equal(t, "not_found", resp["error"])
	require.Equal(t, "/nope", resp["path"])
}
