package handlers

import (
	"net/http"
	"testing"
)

func TestLikeToggleEndpoints(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.seedAccount(t, "alice", "correct horse")
	_, tokens := env.seedAccount(t, "bob", "correct horse")
	video := env.seedVideo(t, owner.ID)

	rec := env.doJSON(t, http.MethodPost, "/api/v1/likes/toggle/video/"+video.ID, "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous toggle status = %d, want 401", rec.Code)
	}

	rec = env.doJSON(t, http.MethodPost, "/api/v1/likes/toggle/video/"+video.ID, tokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody[map[string]bool](t, rec); !body["isLiked"] {
		t.Fatalf("expected isLiked true, got %v", body)
	}

	rec = env.doJSON(t, http.MethodGet, "/api/v1/likes/videos", tokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("liked videos status = %d, body %s", rec.Code, rec.Body.String())
	}
	liked := decodeBody[[]struct {
		Video struct {
			ID string `json:"id"`
		} `json:"video"`
	}](t, rec)
	if len(liked) != 1 || liked[0].Video.ID != video.ID {
		t.Fatalf("unexpected liked feed %+v", liked)
	}

	rec = env.doJSON(t, http.MethodPost, "/api/v1/likes/toggle/video/"+video.ID, tokens.AccessToken, nil)
	if body := decodeBody[map[string]bool](t, rec); body["isLiked"] {
		t.Fatalf("expected isLiked false after second toggle, got %v", body)
	}

	rec = env.doJSON(t, http.MethodGet, "/api/v1/likes/videos", tokens.AccessToken, nil)
	if liked := decodeBody[[]map[string]any](t, rec); len(liked) != 0 {
		t.Fatalf("expected empty liked feed, got %v", liked)
	}

	rec = env.doJSON(t, http.MethodPost, "/api/v1/likes/toggle/video/garbage", tokens.AccessToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed target status = %d, want 400", rec.Code)
	}
}

func TestSubscriptionEndpoints(t *testing.T) {
	env := newTestEnv(t)
	channel, channelTokens := env.seedAccount(t, "channel", "correct horse")
	fan, fanTokens := env.seedAccount(t, "fan", "correct horse")

	rec := env.doJSON(t, http.MethodPost, "/api/v1/subscriptions/toggle/"+channel.ID, fanTokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody[map[string]bool](t, rec); !body["isSubscribed"] {
		t.Fatalf("expected isSubscribed true, got %v", body)
	}

	rec = env.doJSON(t, http.MethodPost, "/api/v1/subscriptions/toggle/"+channel.ID, channelTokens.AccessToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("self subscribe status = %d, want 400", rec.Code)
	}

	// Member lists are public.
	rec = env.doJSON(t, http.MethodGet, "/api/v1/subscriptions/subscribers/"+channel.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("subscribers status = %d, body %s", rec.Code, rec.Body.String())
	}
	subscribers := decodeBody[[]struct {
		UserID string `json:"userId"`
	}](t, rec)
	if len(subscribers) != 1 || subscribers[0].UserID != fan.ID {
		t.Fatalf("unexpected subscribers %+v", subscribers)
	}

	rec = env.doJSON(t, http.MethodGet, "/api/v1/subscriptions/channels/"+fan.ID, "", nil)
	channels := decodeBody[[]struct {
		UserID string `json:"userId"`
	}](t, rec)
	if len(channels) != 1 || channels[0].UserID != channel.ID {
		t.Fatalf("unexpected channels %+v", channels)
	}

	// The channel profile reflects the live counts and viewer edge.
	rec = env.doJSON(t, http.MethodGet, "/api/v1/users/channel/channel", fanTokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile status = %d, body %s", rec.Code, rec.Body.String())
	}
	profile := decodeBody[struct {
		SubscribersCount int64 `json:"subscribersCount"`
		IsSubscribed     bool  `json:"isSubscribed"`
	}](t, rec)
	if profile.SubscribersCount != 1 || !profile.IsSubscribed {
		t.Fatalf("unexpected profile %+v", profile)
	}

	rec = env.doJSON(t, http.MethodGet, "/api/v1/users/channel/nobody", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing channel status = %d, want 404", rec.Code)
	}
}

func TestTweetEndpoints(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerTokens := env.seedAccount(t, "alice", "correct horse")
	_, otherTokens := env.seedAccount(t, "bob", "correct horse")

	rec := env.doJSON(t, http.MethodPost, "/api/v1/tweets", ownerTokens.AccessToken, map[string]string{"content": "hello"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	tweet := decodeBody[struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	}](t, rec)

	rec = env.doJSON(t, http.MethodPost, "/api/v1/tweets", ownerTokens.AccessToken, map[string]string{"content": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank tweet status = %d, want 400", rec.Code)
	}

	rec = env.doJSON(t, http.MethodGet, "/api/v1/tweets/user/"+owner.ID, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, body %s", rec.Code, rec.Body.String())
	}
	tweets := decodeBody[[]struct {
		ID string `json:"id"`
	}](t, rec)
	if len(tweets) != 1 || tweets[0].ID != tweet.ID {
		t.Fatalf("unexpected tweets %+v", tweets)
	}

	rec = env.doJSON(t, http.MethodPatch, "/api/v1/tweets/"+tweet.ID, otherTokens.AccessToken, map[string]string{"content": "hijacked"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner update status = %d, want 403", rec.Code)
	}

	rec = env.doJSON(t, http.MethodPatch, "/api/v1/tweets/"+tweet.ID, ownerTokens.AccessToken, map[string]string{"content": "edited"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.doJSON(t, http.MethodDelete, "/api/v1/tweets/"+tweet.ID, ownerTokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.doJSON(t, http.MethodGet, "/api/v1/tweets/user/"+owner.ID, "", nil)
	if tweets := decodeBody[[]map[string]any](t, rec); len(tweets) != 0 {
		t.Fatalf("expected empty list after delete, got %v", tweets)
	}
}
