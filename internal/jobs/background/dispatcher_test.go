package background

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

func TestPoolRunsTasksAfterCallerCancels(t *testing.T) {
	p := NewPool(logger.Nop(), 2, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	var ran int32
	for i := 0; i < 5; i++ {
		p.Go(ctx, "count", func(ctx context.Context) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			atomic.AddInt32(&ran, 1)
			return nil
		})
	}
	cancel()
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if ran != 5 {
		t.Fatalf("ran: want=5 got=%d", ran)
	}
}

func TestPoolSurvivesPanicsAndErrors(t *testing.T) {
	p := NewPool(logger.Nop(), 1, time.Second)
	p.Go(context.Background(), "boom", func(context.Context) error { panic("boom") })
	p.Go(context.Background(), "fail", func(context.Context) error { return errors.New("fail") })
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestPoolDropsAfterShutdown(t *testing.T) {
	p := NewPool(logger.Nop(), 1, time.Second)
	_ = p.Shutdown(context.Background())
	called := false
	p.Go(context.Background(), "late", func(context.Context) error { called = true; return nil })
	time.Sleep(10 * time.Millisecond)
	if called {
		t.Fatalf("task ran after shutdown")
	}
}

func TestInlineRecordsErrors(t *testing.T) {
	d := &Inline{}
	d.Go(context.Background(), "ok", func(context.Context) error { return nil })
	d.Go(context.Background(), "bad", func(context.Context) error { return errors.New("bad") })
	if len(d.Names) != 2 || len(d.Errs) != 1 {
		t.Fatalf("Inline: names=%v errs=%v", d.Names, d.Errs)
	}
}
