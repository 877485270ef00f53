package discord

import (
	"context"
	"sync"
	"time"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
)

// CollectorMetrics observes open collection windows.
type CollectorMetrics interface {
	AddCollectorWindows(ctx context.Context, delta int64)
}

// Collector routes inbound messages to pending collection windows. Each
// window resolves exactly once: with the first matching message or with a
// timeout. Windows are independent, so one message can resolve several
// windows opened with the same filter.
type Collector struct {
	metrics CollectorMetrics

	mu      sync.Mutex
	nextID  uint64
	waiters map[uint64]*waiter
}

type waiter struct {
	filter entity.CollectFilter
	ch     chan entity.CollectedMessage
}

// NewCollector creates a Collector. metrics may be nil.
func NewCollector(metrics CollectorMetrics) *Collector {
	return &Collector{
		metrics: metrics,
		waiters: make(map[uint64]*waiter),
	}
}

// Await opens a collection window for filter and blocks until a matching
// message arrives, timeout elapses, or ctx is done.
func (c *Collector) Await(ctx context.Context, filter entity.CollectFilter, timeout time.Duration) (entity.CollectResult, error) {
	w := &waiter{filter: filter, ch: make(chan entity.CollectedMessage, 1)}
	id := c.register(ctx, w)
	defer c.unregister(ctx, id)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-w.ch:
		return entity.CollectResult{Received: &msg}, nil
	case <-timer.C:
		// A message may have been delivered while the timer fired.
		select {
		case msg := <-w.ch:
			return entity.CollectResult{Received: &msg}, nil
		default:
			return entity.CollectResult{TimedOut: true}, nil
		}
	case <-ctx.Done():
		return entity.CollectResult{}, ctx.Err()
	}
}

// Dispatch delivers msg to every window it matches and closes those windows.
// It returns the number of windows resolved.
func (c *Collector) Dispatch(msg entity.CollectedMessage) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	resolved := 0
	for id, w := range c.waiters {
		if !w.filter.Matches(msg) {
			continue
		}
		w.ch <- msg
		delete(c.waiters, id)
		resolved++
	}
	if resolved > 0 && c.metrics != nil {
		c.metrics.AddCollectorWindows(context.Background(), int64(-resolved))
	}
	return resolved
}

// Pending returns the number of open windows.
func (c *Collector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

func (c *Collector) register(ctx context.Context, w *waiter) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	c.waiters[c.nextID] = w
	if c.metrics != nil {
		c.metrics.AddCollectorWindows(ctx, 1)
	}
	return c.nextID
}

func (c *Collector) unregister(ctx context.Context, id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.waiters[id]; !ok {
		return
	}
	delete(c.waiters, id)
	if c.metrics != nil {
		c.metrics.AddCollectorWindows(context.WithoutCancel(ctx), -1)
	}
}
