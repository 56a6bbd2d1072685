package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vanshsoni916/VideoTweetApp/internal/config"
)

type fakePool struct{}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (fakePool) Close() {}

func TestBuildDependencies(t *testing.T) {
	cfg := config.Config{
		FFProbePath:     "ffprobe",
		FFProbeTimeout:  time.Second,
		ObjectStore:     config.ObjectStoreConfig{Bucket: "test-bucket", Endpoint: "http://localhost:9000", Region: "us-east-1"},
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		AuthRateLimit:   5,
		AuthRateBurst:   10,
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	deps, err := buildDependencies(context.Background(), fakePool{}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deps.Users == nil {
		t.Fatal("expected user repository to be configured")
	}
	if deps.Sessions == nil {
		t.Fatal("expected session manager to be configured")
	}
	if deps.Media == nil {
		t.Fatal("expected media store to be configured")
	}
	if deps.Videos == nil {
		t.Fatal("expected video service to be configured")
	}
	if deps.Tweets == nil {
		t.Fatal("expected tweet service to be configured")
	}
	if deps.Engagement == nil {
		t.Fatal("expected engagement service to be configured")
	}
	if deps.Playlists == nil {
		t.Fatal("expected playlist service to be configured")
	}
	if deps.Channels == nil {
		t.Fatal("expected channel service to be configured")
	}
	if deps.AuthLimiter == nil {
		t.Fatal("expected auth rate limiter to be configured")
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"info":    "INFO",
		"WARN":    "WARN",
		"error":   "ERROR",
		"unknown": "INFO",
		"":        "INFO",
	}
	for input, want := range cases {
		if got := parseLogLevel(input).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", input, got, want)
		}
	}
}
