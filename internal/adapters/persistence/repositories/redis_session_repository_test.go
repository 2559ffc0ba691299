package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"edupayhub/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisRepo(t *testing.T) (SessionRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionRepository(client), mr
}

func TestRedisSessionRepositorySaveGet(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRedisRepo(t)

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	rec := &domain.SessionRecord{
		User:          &domain.User{ID: "u1", Email: "a@b.co", Role: domain.RoleSchool, SchoolID: "s1"},
		Cookies:       []domain.StoredCookie{{Name: "token", Value: "abc"}},
		Notifications: []domain.Notification{{Title: "Login Successful", Variant: domain.VariantDefault}},
		ExpiresAt:     time.Now().Add(time.Hour),
	}
	if err := repo.Save(ctx, "key", rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ttl := mr.TTL(redisSessionPrefix + "key"); ttl <= 0 || ttl > time.Hour {
		t.Fatalf("expected key to expire with the session, got ttl %s", ttl)
	}

	got, err := repo.Get(ctx, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.User == nil || got.User.SchoolID != "s1" || len(got.Cookies) != 1 || len(got.Notifications) != 1 {
		t.Fatalf("unexpected record %+v", got)
	}
	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestRedisSessionRepositoryExpiry(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRedisRepo(t)

	if err := repo.Save(ctx, "key", &domain.SessionRecord{ExpiresAt: time.Now().Add(time.Minute)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := repo.Get(ctx, "key"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired key to be gone, got %v", err)
	}
	if n, err := repo.DeleteExpired(ctx); err != nil || n != 0 {
		t.Fatalf("expected redis to expire keys itself, got %d (%v)", n, err)
	}
}

func TestRedisSessionRepositorySaveExpiredDeletes(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRedisRepo(t)

	if err := repo.Save(ctx, "key", &domain.SessionRecord{ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Save(ctx, "key", &domain.SessionRecord{ExpiresAt: time.Now().Add(-time.Second)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mr.Exists(redisSessionPrefix + "key") {
		t.Fatalf("expected saving an expired record to delete the key")
	}

	if err := repo.Save(ctx, "other", &domain.SessionRecord{ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(ctx, "other"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.Get(ctx, "other"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected deleted key to be gone, got %v", err)
	}
}
