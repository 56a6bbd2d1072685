package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vanshsoni916/VideoTweetApp/internal/auth"
	"github.com/vanshsoni916/VideoTweetApp/internal/content"
	"github.com/vanshsoni916/VideoTweetApp/internal/models"
	"github.com/vanshsoni916/VideoTweetApp/internal/repositories"
)

// stubMedia satisfies MediaStore without any remote storage. Upload honors
// the contract of removing the staged file.
type stubMedia struct {
	mu       sync.Mutex
	uploads  []string
	released []string
}

func (s *stubMedia) Upload(ctx context.Context, localPath, category string) (models.MediaAsset, error) {
	defer os.Remove(localPath)

	s.mu.Lock()
	defer s.mu.Unlock()
	id := category + "/" + uuid.NewString()
	s.uploads = append(s.uploads, id)
	return models.MediaAsset{URL: "https://cdn.test/" + id, PublicID: id}, nil
}

func (s *stubMedia) Release(ctx context.Context, publicID, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = append(s.released, publicID)
	return nil
}

type testEnv struct {
	mux      *http.ServeMux
	store    *repositories.MemoryStore
	sessions *auth.Manager
	media    *stubMedia
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repositories.NewMemoryStore()
	sessions := auth.NewManager(15*time.Minute, 24*time.Hour, auth.NewInMemorySessionStore())
	media := &stubMedia{}

	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{
		Users:      store,
		Sessions:   sessions,
		Media:      media,
		Videos:     content.NewVideoService(store, store, media),
		Tweets:     content.NewTweetService(store),
		Engagement: content.NewEngagementService(store),
		Playlists:  content.NewPlaylistService(store, store),
		Channels:   content.NewChannelService(store, store, store),
		TempDir:    t.TempDir(),
	})

	return &testEnv{mux: mux, store: store, sessions: sessions, media: media}
}

// seedAccount creates a user directly in the store and issues a session for
// it, bypassing the register endpoint.
func (env *testEnv) seedAccount(t *testing.T, username, password string) (models.User, models.SessionTokens) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:          uuid.NewString(),
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: username,
		Avatar:      models.MediaAsset{URL: "https://cdn.test/avatars/" + username, PublicID: "avatars/" + username},
		Password:    string(hashed),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := env.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	tokens, err := env.sessions.Issue(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return user, tokens
}

func (env *testEnv) seedVideo(t *testing.T, ownerID string) models.Video {
	t.Helper()

	video := models.Video{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       "clip",
		Description: "a clip",
		VideoFile:   models.MediaAsset{URL: "https://cdn.test/videos/v", PublicID: "videos/v"},
		Thumbnail:   models.MediaAsset{URL: "https://cdn.test/thumbnails/t", PublicID: "thumbnails/t"},
		IsPublished: true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := env.store.CreateVideo(context.Background(), video); err != nil {
		t.Fatalf("seed video: %v", err)
	}
	return video
}

// doJSON performs a request with an optional JSON body and bearer token.
func (env *testEnv) doJSON(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	return rec
}

// doMultipart performs a multipart request with text fields and fake file
// parts, keyed by field name.
func (env *testEnv) doMultipart(t *testing.T, method, target, token string, fields, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	for name, filename := range files {
		part, err := writer.CreateFormFile(name, filename)
		if err != nil {
			t.Fatalf("create file part %s: %v", name, err)
		}
		if _, err := part.Write([]byte("fake file bytes")); err != nil {
			t.Fatalf("write file part %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["status"] != "ok" {
		t.Fatalf("body = %v, want status ok", body)
	}
}
