package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
)

type videoBody struct {
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublished bool   `json:"isPublished"`
	VideoFile   struct {
		URL      string `json:"url"`
		PublicID string `json:"publicId"`
	} `json:"videoFile"`
}

func TestPublishVideoEndpoint(t *testing.T) {
	env := newTestEnv(t)
	user, tokens := env.seedAccount(t, "alice", "correct horse")

	rec := env.doMultipart(t, http.MethodPost, "/api/v1/videos", "", map[string]string{"title": "x"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous publish status = %d, want 401", rec.Code)
	}

	fields := map[string]string{"title": "My Talk", "description": "about things"}
	files := map[string]string{"videoFile": "talk.mp4", "thumbnail": "talk.jpg"}
	rec = env.doMultipart(t, http.MethodPost, "/api/v1/videos", tokens.AccessToken, fields, files)
	if rec.Code != http.StatusCreated {
		t.Fatalf("publish status = %d, body %s", rec.Code, rec.Body.String())
	}
	video := decodeBody[videoBody](t, rec)
	if video.OwnerID != user.ID || video.Title != "My Talk" || !video.IsPublished {
		t.Fatalf("unexpected video %+v", video)
	}
	if video.VideoFile.URL == "" {
		t.Fatal("expected uploaded video asset URL")
	}

	// A publish without the thumbnail fails and releases the orphaned
	// video asset.
	rec = env.doMultipart(t, http.MethodPost, "/api/v1/videos", tokens.AccessToken, fields, map[string]string{"videoFile": "talk.mp4"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing thumbnail status = %d, want 400", rec.Code)
	}
	if len(env.media.released) != 1 {
		t.Fatalf("expected orphaned video asset released, got %v", env.media.released)
	}
}

func TestVideoFeedAndDetailEndpoints(t *testing.T) {
	env := newTestEnv(t)
	user, tokens := env.seedAccount(t, "alice", "correct horse")
	video := env.seedVideo(t, user.ID)

	rec := env.doJSON(t, http.MethodGet, "/api/v1/videos", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("feed status = %d, body %s", rec.Code, rec.Body.String())
	}
	feed := decodeBody[[]videoBody](t, rec)
	if len(feed) != 1 || feed[0].ID != video.ID {
		t.Fatalf("unexpected feed %+v", feed)
	}

	rec = env.doJSON(t, http.MethodGet, "/api/v1/videos/"+video.ID, tokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail status = %d, body %s", rec.Code, rec.Body.String())
	}

	// The authenticated view landed in watch history.
	rec = env.doJSON(t, http.MethodGet, "/api/v1/users/me/history", tokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d, body %s", rec.Code, rec.Body.String())
	}
	history := decodeBody[[]videoBody](t, rec)
	if len(history) != 1 || history[0].ID != video.ID {
		t.Fatalf("unexpected history %+v", history)
	}

	rec = env.doJSON(t, http.MethodGet, "/api/v1/videos/"+uuid.NewString(), "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing detail status = %d, want 404", rec.Code)
	}
	rec = env.doJSON(t, http.MethodGet, "/api/v1/videos/garbage", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed id status = %d, want 400", rec.Code)
	}
}

func TestVideoUpdateEndpoint(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerTokens := env.seedAccount(t, "alice", "correct horse")
	_, otherTokens := env.seedAccount(t, "bob", "correct horse")
	video := env.seedVideo(t, owner.ID)

	rec := env.doJSON(t, http.MethodPatch, "/api/v1/videos/"+video.ID, otherTokens.AccessToken, map[string]string{"title": "stolen"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner update status = %d, want 403", rec.Code)
	}

	rec = env.doJSON(t, http.MethodPatch, "/api/v1/videos/"+video.ID, ownerTokens.AccessToken, map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty update status = %d, want 400", rec.Code)
	}

	rec = env.doJSON(t, http.MethodPatch, "/api/v1/videos/"+video.ID, ownerTokens.AccessToken, map[string]string{"title": "renamed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[videoBody](t, rec)
	if updated.Title != "renamed" || updated.Description != video.Description {
		t.Fatalf("unexpected update %+v", updated)
	}

	// A multipart update can replace the thumbnail; the old asset is
	// released.
	rec = env.doMultipart(t, http.MethodPatch, "/api/v1/videos/"+video.ID, ownerTokens.AccessToken, nil, map[string]string{"thumbnail": "new.jpg"})
	if rec.Code != http.StatusOK {
		t.Fatalf("thumbnail update status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(env.media.released) != 1 || env.media.released[0] != video.Thumbnail.PublicID {
		t.Fatalf("expected old thumbnail released, got %v", env.media.released)
	}
}

func TestVideoDeleteAndTogglePublishEndpoints(t *testing.T) {
	env := newTestEnv(t)
	owner, tokens := env.seedAccount(t, "alice", "correct horse")
	video := env.seedVideo(t, owner.ID)

	rec := env.doJSON(t, http.MethodPost, "/api/v1/videos/"+video.ID+"/toggle-publish", tokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d, body %s", rec.Code, rec.Body.String())
	}
	toggled := decodeBody[map[string]bool](t, rec)
	if toggled["isPublished"] {
		t.Fatal("expected video unpublished after toggle")
	}

	// Unpublished videos disappear from the public feed.
	rec = env.doJSON(t, http.MethodGet, "/api/v1/videos", "", nil)
	if feed := decodeBody[[]videoBody](t, rec); len(feed) != 0 {
		t.Fatalf("expected empty feed, got %+v", feed)
	}

	rec = env.doJSON(t, http.MethodDelete, "/api/v1/videos/"+video.ID, tokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(env.media.released) != 2 {
		t.Fatalf("expected both assets released, got %v", env.media.released)
	}

	rec = env.doJSON(t, http.MethodDelete, "/api/v1/videos/"+video.ID, tokens.AccessToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeat delete status = %d, want 404", rec.Code)
	}
}
