package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewClientFromEnvDisabled(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	rdb, err := NewClientFromEnv(context.Background(), nil)
	if err != nil || rdb != nil {
		t.Fatalf("NewClientFromEnv: want nil,nil got %v,%v", rdb, err)
	}
}

func TestNewClientFromEnvPings(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_ADDR", mr.Addr())
	rdb, err := NewClientFromEnv(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewClientFromEnv: %v", err)
	}
	defer rdb.Close()
	if err := rdb.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
}
