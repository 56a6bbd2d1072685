package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vanshsoni916/VideoTweetApp/internal/auth"
	"github.com/vanshsoni916/VideoTweetApp/internal/content"
	"github.com/vanshsoni916/VideoTweetApp/internal/models"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	conn, err := testPool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `TRUNCATE TABLE sessions, watch_history, playlist_videos,
        playlists, subscriptions, likes, tweets, videos, users CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func createTestUser(t *testing.T, repo *PostgresUserRepository, username string) models.User {
	t.Helper()
	now := time.Now().UTC()
	user := models.User{
		ID:          uuid.NewString(),
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: username,
		Avatar:      models.MediaAsset{URL: "https://cdn.example.com/" + username + ".png", PublicID: "avatars/" + username},
		Password:    "password-hash",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func createTestVideo(t *testing.T, repo *PostgresVideoRepository, ownerID, title string, createdAt time.Time, published bool) models.Video {
	t.Helper()
	video := models.Video{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Title:           title,
		Description:     "about " + title,
		VideoFile:       models.MediaAsset{URL: "https://cdn.example.com/v.mp4", PublicID: "videos/" + uuid.NewString()},
		Thumbnail:       models.MediaAsset{URL: "https://cdn.example.com/t.jpg", PublicID: "thumbnails/" + uuid.NewString()},
		DurationSeconds: 120,
		IsPublished:     published,
		CreatedAt:       createdAt,
	}
	if err := repo.CreateVideo(context.Background(), video); err != nil {
		t.Fatalf("create test video: %v", err)
	}
	return video
}

func defaultPage() content.PageRequest {
	return content.PageRequest{}.Normalize(content.SortFieldCreatedAt)
}

func TestPostgresUserRepository_CreateFindAndUpdate(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresUserRepository(testPool)
	user := createTestUser(t, repo, "alice")

	dup := user
	dup.ID = uuid.NewString()
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate username, got %v", err)
	}

	fetched, err := repo.FindUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if fetched.ID != user.ID || fetched.Email != user.Email {
		t.Fatalf("unexpected user fetched: %+v", fetched)
	}
	if fetched.CoverImage != nil {
		t.Fatalf("expected nil cover image, got %+v", fetched.CoverImage)
	}

	fetched, err = repo.FindUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if fetched.ID != user.ID {
		t.Fatalf("unexpected user by email: %+v", fetched)
	}

	updated := user
	updated.DisplayName = "Alice Cooper"
	updated.CoverImage = &models.MediaAsset{URL: "https://cdn.example.com/cover.png", PublicID: "covers/alice"}
	updated.UpdatedAt = time.Now().UTC()
	if err := repo.UpdateUser(ctx, updated); err != nil {
		t.Fatalf("update user: %v", err)
	}

	fetched, err = repo.FindUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if fetched.DisplayName != "Alice Cooper" {
		t.Fatalf("expected updated display name, got %q", fetched.DisplayName)
	}
	if fetched.CoverImage == nil || fetched.CoverImage.PublicID != "covers/alice" {
		t.Fatalf("expected cover image to persist, got %+v", fetched.CoverImage)
	}

	missing := user
	missing.ID = uuid.NewString()
	missing.Username = "ghost"
	missing.Email = "ghost@example.com"
	if err := repo.UpdateUser(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating missing user, got %v", err)
	}
}

func TestPostgresVideoRepository_FeedAndDetail(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	repo := NewPostgresVideoRepository(testPool)

	alice := createTestUser(t, users, "alice")
	bob := createTestUser(t, users, "bob")

	base := time.Now().UTC().Add(-time.Hour)
	goTalk := createTestVideo(t, repo, alice.ID, "Intro to Go", base, true)
	rustTalk := createTestVideo(t, repo, bob.ID, "Intro to Rust", base.Add(time.Minute), true)
	createTestVideo(t, repo, alice.ID, "Draft", base.Add(2*time.Minute), false)

	feed, err := repo.ListPublished(ctx, content.VideoFilter{}, defaultPage())
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected drafts excluded, got %d rows", len(feed))
	}
	if feed[0].ID != rustTalk.ID || feed[1].ID != goTalk.ID {
		t.Fatalf("unexpected feed order: %+v", feed)
	}
	if feed[0].Owner.Username != "bob" {
		t.Fatalf("expected owner join, got %+v", feed[0].Owner)
	}

	feed, err = repo.ListPublished(ctx, content.VideoFilter{Query: "go"}, defaultPage())
	if err != nil {
		t.Fatalf("list with query: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != goTalk.ID {
		t.Fatalf("expected case-insensitive title match, got %+v", feed)
	}

	percent := createTestVideo(t, repo, alice.ID, "100% genuine", base.Add(3*time.Minute), true)
	createTestVideo(t, repo, alice.ID, "100 days of code", base.Add(4*time.Minute), true)
	feed, err = repo.ListPublished(ctx, content.VideoFilter{Query: "100%"}, defaultPage())
	if err != nil {
		t.Fatalf("list with metacharacter query: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != percent.ID {
		t.Fatalf("expected %% to match literally, got %+v", feed)
	}

	feed, err = repo.ListPublished(ctx, content.VideoFilter{OwnerID: bob.ID}, defaultPage())
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != rustTalk.ID {
		t.Fatalf("expected owner filter, got %+v", feed)
	}

	if err := repo.IncrementViews(ctx, goTalk.ID); err != nil {
		t.Fatalf("increment views: %v", err)
	}

	detail, err := repo.FindPublishedDetail(ctx, goTalk.ID)
	if err != nil {
		t.Fatalf("find detail: %v", err)
	}
	if detail.Views != 1 {
		t.Fatalf("expected 1 view, got %d", detail.Views)
	}
	if detail.Owner.Username != "alice" || detail.VideoFile.URL == "" {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	unpublished := goTalk
	unpublished.IsPublished = false
	if err := repo.UpdateVideo(ctx, unpublished); err != nil {
		t.Fatalf("unpublish video: %v", err)
	}
	if _, err := repo.FindPublishedDetail(ctx, goTalk.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unpublished detail, got %v", err)
	}
	if _, err := repo.FindVideoByID(ctx, goTalk.ID); err != nil {
		t.Fatalf("unpublished record must stay readable by id: %v", err)
	}

	if err := repo.DeleteVideo(ctx, goTalk.ID); err != nil {
		t.Fatalf("delete video: %v", err)
	}
	if err := repo.DeleteVideo(ctx, goTalk.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestPostgresVideoRepository_FeedTieBreaksByIDAscending(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	repo := NewPostgresVideoRepository(testPool)

	alice := createTestUser(t, users, "alice")
	createdAt := time.Now().UTC().Truncate(time.Second)

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		video := createTestVideo(t, repo, alice.ID, "clip", createdAt, true)
		ids = append(ids, video.ID)
	}
	sort.Strings(ids)

	feed, err := repo.ListPublished(ctx, content.VideoFilter{}, defaultPage())
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(feed) != 3 {
		t.Fatalf("got %d rows, want 3", len(feed))
	}
	for i, row := range feed {
		if row.ID != ids[i] {
			t.Fatalf("row %d: got id %s, want %s", i, row.ID, ids[i])
		}
	}
}

func TestPostgresEngagementRepository_Likes(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	videos := NewPostgresVideoRepository(testPool)
	repo := NewPostgresEngagementRepository(testPool)

	owner := createTestUser(t, users, "owner")
	actor := createTestUser(t, users, "actor")
	video := createTestVideo(t, videos, owner.ID, "clip", time.Now().UTC(), true)

	like := models.Like{
		ID:         uuid.NewString(),
		ActorID:    actor.ID,
		TargetType: models.LikeTargetVideo,
		TargetID:   video.ID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := repo.CreateLike(ctx, like); err != nil {
		t.Fatalf("create like: %v", err)
	}

	dup := like
	dup.ID = uuid.NewString()
	if err := repo.CreateLike(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate like, got %v", err)
	}

	found, err := repo.FindLike(ctx, actor.ID, models.LikeTargetVideo, video.ID)
	if err != nil {
		t.Fatalf("find like: %v", err)
	}
	if found.ID != like.ID {
		t.Fatalf("unexpected like: %+v", found)
	}

	count, err := repo.CountLikes(ctx, models.LikeTargetVideo, video.ID)
	if err != nil {
		t.Fatalf("count likes: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 like, got %d", count)
	}

	liked, err := repo.ListLikedVideos(ctx, actor.ID, defaultPage())
	if err != nil {
		t.Fatalf("list liked videos: %v", err)
	}
	if len(liked) != 1 || liked[0].Video.ID != video.ID || liked[0].Video.Owner.Username != "owner" {
		t.Fatalf("unexpected liked feed: %+v", liked)
	}

	if err := repo.DeleteLike(ctx, like.ID); err != nil {
		t.Fatalf("delete like: %v", err)
	}
	if _, err := repo.FindLike(ctx, actor.ID, models.LikeTargetVideo, video.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPostgresEngagementRepository_Subscriptions(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	repo := NewPostgresEngagementRepository(testPool)

	channel := createTestUser(t, users, "channel")
	fan := createTestUser(t, users, "fan")

	sub := models.Subscription{
		ID:           uuid.NewString(),
		SubscriberID: fan.ID,
		ChannelID:    channel.ID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateSubscription(ctx, sub); err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	dup := sub
	dup.ID = uuid.NewString()
	if err := repo.CreateSubscription(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate subscription, got %v", err)
	}

	// The check constraint rejects self subscription at the store level.
	self := models.Subscription{
		ID:           uuid.NewString(),
		SubscriberID: channel.ID,
		ChannelID:    channel.ID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateSubscription(ctx, self); !errors.Is(err, content.ErrValidation) {
		t.Fatalf("expected validation error on self subscription, got %v", err)
	}

	subscribers, err := repo.CountSubscribers(ctx, channel.ID)
	if err != nil {
		t.Fatalf("count subscribers: %v", err)
	}
	if subscribers != 1 {
		t.Fatalf("expected 1 subscriber, got %d", subscribers)
	}

	subscribedTo, err := repo.CountSubscribedTo(ctx, fan.ID)
	if err != nil {
		t.Fatalf("count subscribed to: %v", err)
	}
	if subscribedTo != 1 {
		t.Fatalf("expected 1 subscribed channel, got %d", subscribedTo)
	}

	members, err := repo.ListSubscribers(ctx, channel.ID, defaultPage())
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	if len(members) != 1 || members[0].UserID != fan.ID {
		t.Fatalf("unexpected subscribers: %+v", members)
	}

	channels, err := repo.ListSubscribedChannels(ctx, fan.ID, defaultPage())
	if err != nil {
		t.Fatalf("list subscribed channels: %v", err)
	}
	if len(channels) != 1 || channels[0].UserID != channel.ID {
		t.Fatalf("unexpected channels: %+v", channels)
	}

	if err := repo.DeleteSubscription(ctx, sub.ID); err != nil {
		t.Fatalf("delete subscription: %v", err)
	}
	if _, err := repo.FindSubscription(ctx, fan.ID, channel.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPostgresPlaylistRepository_MembershipOrder(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	videos := NewPostgresVideoRepository(testPool)
	repo := NewPostgresPlaylistRepository(testPool)

	owner := createTestUser(t, users, "owner")
	base := time.Now().UTC().Add(-time.Hour)
	first := createTestVideo(t, videos, owner.ID, "first", base, true)
	second := createTestVideo(t, videos, owner.ID, "second", base.Add(time.Minute), true)

	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     owner.ID,
		Name:        "Queue",
		Description: "to watch",
		CreatedAt:   time.Now().UTC(),
	}
	if err := repo.CreatePlaylist(ctx, playlist); err != nil {
		t.Fatalf("create playlist: %v", err)
	}

	if err := repo.AddVideo(ctx, playlist.ID, first.ID); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if err := repo.AddVideo(ctx, playlist.ID, second.ID); err != nil {
		t.Fatalf("add second: %v", err)
	}
	// Duplicate adds keep the original position.
	if err := repo.AddVideo(ctx, playlist.ID, first.ID); err != nil {
		t.Fatalf("duplicate add: %v", err)
	}

	fetched, err := repo.FindPlaylistByID(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("find playlist: %v", err)
	}
	if len(fetched.VideoIDs) != 2 || fetched.VideoIDs[0] != first.ID || fetched.VideoIDs[1] != second.ID {
		t.Fatalf("unexpected membership: %v", fetched.VideoIDs)
	}

	detail, err := repo.FindPlaylistDetail(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("find playlist detail: %v", err)
	}
	if len(detail.Videos) != 2 || detail.Videos[0].ID != first.ID {
		t.Fatalf("unexpected detail videos: %+v", detail.Videos)
	}
	if detail.Owner.Username != "owner" {
		t.Fatalf("unexpected detail owner: %+v", detail.Owner)
	}

	summaries, err := repo.ListPlaylistsByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list playlists: %v", err)
	}
	if len(summaries) != 1 || summaries[0].TotalVideos != 2 {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}

	if err := repo.RemoveVideo(ctx, playlist.ID, first.ID); err != nil {
		t.Fatalf("remove video: %v", err)
	}
	// Removing a non-member is a no-op.
	if err := repo.RemoveVideo(ctx, playlist.ID, first.ID); err != nil {
		t.Fatalf("remove non-member: %v", err)
	}

	fetched, err = repo.FindPlaylistByID(ctx, playlist.ID)
	if err != nil {
		t.Fatalf("find playlist after remove: %v", err)
	}
	if len(fetched.VideoIDs) != 1 || fetched.VideoIDs[0] != second.ID {
		t.Fatalf("unexpected membership after remove: %v", fetched.VideoIDs)
	}

	renamed := playlist
	renamed.Name = "Watched"
	if err := repo.UpdatePlaylist(ctx, renamed); err != nil {
		t.Fatalf("update playlist: %v", err)
	}

	missing := playlist
	missing.ID = uuid.NewString()
	if err := repo.UpdatePlaylist(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating missing playlist, got %v", err)
	}

	if err := repo.DeletePlaylist(ctx, playlist.ID); err != nil {
		t.Fatalf("delete playlist: %v", err)
	}
	if _, err := repo.FindPlaylistByID(ctx, playlist.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPostgresHistoryRepository_RewatchMovesToFront(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	videos := NewPostgresVideoRepository(testPool)
	repo := NewPostgresHistoryRepository(testPool)

	owner := createTestUser(t, users, "owner")
	viewer := createTestUser(t, users, "viewer")
	base := time.Now().UTC().Add(-time.Hour)
	first := createTestVideo(t, videos, owner.ID, "first", base, true)
	second := createTestVideo(t, videos, owner.ID, "second", base.Add(time.Minute), true)

	clock := base
	repo.NowFunc = func() time.Time { clock = clock.Add(time.Minute); return clock }

	if err := repo.RecordWatch(ctx, viewer.ID, first.ID); err != nil {
		t.Fatalf("record first watch: %v", err)
	}
	if err := repo.RecordWatch(ctx, viewer.ID, second.ID); err != nil {
		t.Fatalf("record second watch: %v", err)
	}
	if err := repo.RecordWatch(ctx, viewer.ID, first.ID); err != nil {
		t.Fatalf("record rewatch: %v", err)
	}

	history, err := repo.ListWatchHistory(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected rewatch deduplicated, got %d rows", len(history))
	}
	if history[0].ID != first.ID || history[1].ID != second.ID {
		t.Fatalf("unexpected history order: %s then %s", history[0].ID, history[1].ID)
	}
	if history[0].Owner == nil || history[0].Owner.Username != "owner" {
		t.Fatalf("unexpected history owner: %+v", history[0].Owner)
	}
}

func TestPostgresSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	users := NewPostgresUserRepository(testPool)
	user := createTestUser(t, users, "owner")

	store := NewPostgresSessionStore(testPool)
	expires := time.Now().UTC().Add(24 * time.Hour)
	session := auth.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: expires,
	}

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	loaded, err := store.Find(ctx, session.Token)
	if err != nil {
		t.Fatalf("find session: %v", err)
	}
	if loaded.UserID != user.ID || !timesClose(loaded.ExpiresAt, expires, time.Millisecond) {
		t.Fatalf("unexpected session: %+v", loaded)
	}

	// Saving the same token refreshes its expiry.
	session.ExpiresAt = expires.Add(48 * time.Hour)
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("refresh session: %v", err)
	}
	loaded, err = store.Find(ctx, session.Token)
	if err != nil {
		t.Fatalf("find refreshed session: %v", err)
	}
	if !timesClose(loaded.ExpiresAt, session.ExpiresAt, time.Millisecond) {
		t.Fatalf("expected refreshed expiry, got %v", loaded.ExpiresAt)
	}

	other := auth.Session{Token: uuid.NewString(), UserID: user.ID, ExpiresAt: expires}
	if err := store.Save(ctx, other); err != nil {
		t.Fatalf("save second session: %v", err)
	}

	if err := store.DeleteByUser(ctx, user.ID); err != nil {
		t.Fatalf("delete by user: %v", err)
	}
	if _, err := store.Find(ctx, session.Token); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after DeleteByUser, got %v", err)
	}
	if _, err := store.Find(ctx, other.Token); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("expected every session revoked, got %v", err)
	}

	if err := store.Delete(ctx, session.Token); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound deleting twice, got %v", err)
	}
}

func timesClose(a, b time.Time, delta time.Duration) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= delta
}
