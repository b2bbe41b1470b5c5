package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yungbote/pinforge-backend/internal/observability"
	"github.com/yungbote/pinforge-backend/internal/platform/ctxutil"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

type Task func(ctx context.Context) error

// Dispatcher runs fire-and-forget work after the request that scheduled it has returned.
// Failures are logged and counted; they never reach the caller.
type Dispatcher interface {
	Go(ctx context.Context, name string, task Task)
}

type Pool struct {
	log     *logger.Logger
	sem     chan struct{}
	timeout time.Duration
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewPool(baseLog *logger.Logger, workers int, timeout time.Duration) *Pool {
	if workers <= 0 {
		workers = 8
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Pool{
		log:     baseLog.With("component", "BackgroundPool"),
		sem:     make(chan struct{}, workers),
		timeout: timeout,
	}
}

// Go schedules task with ctx's values but not its cancellation. Tasks submitted after
// Shutdown are dropped with a warning.
func (p *Pool) Go(ctx context.Context, name string, task Task) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.log.Warn("background task dropped after shutdown", "task", name)
		observability.Current().IncBackgroundTask(name, "dropped")
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	detached := ctxutil.Detached(ctx)
	go func() {
		defer p.wg.Done()
		p.sem <- struct{}{}
		defer func() { <-p.sem }()

		runCtx, cancel := context.WithTimeout(detached, p.timeout)
		defer cancel()
		err := run(runCtx, task)
		if err != nil {
			p.log.Warn("background task failed", "task", name, "error", err)
			observability.Current().IncBackgroundTask(name, "error")
			return
		}
		observability.Current().IncBackgroundTask(name, "ok")
	}()
}

// Shutdown stops accepting tasks and waits for in-flight ones or ctx.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func run(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return task(ctx)
}

// Inline runs tasks synchronously on the caller's goroutine. Errors are collected, not returned.
type Inline struct {
	mu    sync.Mutex
	Names []string
	Errs  []error
}

func (d *Inline) Go(ctx context.Context, name string, task Task) {
	err := run(ctxutil.Detached(ctx), task)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Names = append(d.Names, name)
	if err != nil {
		d.Errs = append(d.Errs, err)
	}
}
