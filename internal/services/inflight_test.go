package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/pinforge-backend/internal/domain"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

func TestLocalInflightGuard(t *testing.T) {
	g := NewLocalInflightGuard()
	ctx := context.Background()
	user := uuid.New()

	release, err := g.Acquire(ctx, user)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := g.Acquire(ctx, user); !errors.Is(err, types.ErrGenerationInProgress) {
		t.Fatalf("second Acquire: want ErrGenerationInProgress got %v", err)
	}
	if rel, err := g.Acquire(ctx, uuid.New()); err != nil {
		t.Fatalf("other user must not be blocked: %v", err)
	} else {
		rel()
	}
	release()
	release()
	again, err := g.Acquire(ctx, user)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	again()
}

func TestRedisInflightGuard(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	g := NewRedisInflightGuard(logger.Nop(), rdb, "", time.Minute)
	ctx := context.Background()
	user := uuid.New()

	release, err := g.Acquire(ctx, user)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	key := "pinforge:inflight:" + user.String()
	if !mr.Exists(key) {
		t.Fatalf("lock key not set")
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("lock ttl: %s", ttl)
	}
	if _, err := g.Acquire(ctx, user); !errors.Is(err, types.ErrGenerationInProgress) {
		t.Fatalf("second Acquire: want ErrGenerationInProgress got %v", err)
	}
	release()
	if mr.Exists(key) {
		t.Fatalf("lock not released")
	}
}

func TestRedisInflightGuardKeepsForeignLock(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	g := NewRedisInflightGuard(logger.Nop(), rdb, "", time.Minute)
	user := uuid.New()
	release, err := g.Acquire(context.Background(), user)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	key := "pinforge:inflight:" + user.String()
	// Simulate expiry followed by another instance taking the lock.
	if err := mr.Set(key, "someone-else"); err != nil {
		t.Fatalf("set: %v", err)
	}
	release()
	if got, _ := mr.Get(key); got != "someone-else" {
		t.Fatalf("release removed a lock it did not own")
	}
}
