package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/pinforge-backend/internal/domain"
	"github.com/yungbote/pinforge-backend/internal/platform/ctxutil"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

const defaultInflightTTL = 5 * time.Minute

// LocalInflightGuard only serializes requests inside one process.
type LocalInflightGuard struct {
	mu     sync.Mutex
	active map[uuid.UUID]struct{}
}

func NewLocalInflightGuard() *LocalInflightGuard {
	return &LocalInflightGuard{active: map[uuid.UUID]struct{}{}}
}

func (g *LocalInflightGuard) Acquire(_ context.Context, userID uuid.UUID) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[userID]; busy {
		return nil, types.ErrGenerationInProgress
	}
	g.active[userID] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.active, userID)
			g.mu.Unlock()
		})
	}, nil
}

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisInflightGuard holds a SET NX lock per user. The TTL bounds how long a crashed
// instance can block the user.
type RedisInflightGuard struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisInflightGuard(baseLog *logger.Logger, rdb *goredis.Client, prefix string, ttl time.Duration) *RedisInflightGuard {
	if prefix == "" {
		prefix = "pinforge:inflight:"
	}
	if ttl <= 0 {
		ttl = defaultInflightTTL
	}
	return &RedisInflightGuard{
		log:    baseLog.With("service", "RedisInflightGuard"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (g *RedisInflightGuard) Acquire(ctx context.Context, userID uuid.UUID) (func(), error) {
	key := g.prefix + userID.String()
	token := uuid.NewString()
	ok, err := g.rdb.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire inflight lock: %w", err)
	}
	if !ok {
		return nil, types.ErrGenerationInProgress
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			rctx, cancel := context.WithTimeout(ctxutil.Detached(ctx), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(rctx, g.rdb, []string{key}, token).Err(); err != nil {
				g.log.Warn("inflight lock release failed", "user_id", userID.String(), "error", err)
			}
		})
	}, nil
}
