package ticket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/ticket-bot/internal/domain/errors"
	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/logger"
)

// Default timings.
const (
	DefaultAddUserTimeout = 15 * time.Second
	DefaultCloseDelay     = 5 * time.Second

	// deleteTimeout bounds the channel deletion call once the close delay has
	// elapsed.
	deleteTimeout = 30 * time.Second
)

// Timings controls the two suspension points of the ticket flows.
type Timings struct {
	AddUserTimeout time.Duration
	CloseDelay     time.Duration
}

// DefaultTimings returns the default timings.
func DefaultTimings() Timings {
	return Timings{
		AddUserTimeout: DefaultAddUserTimeout,
		CloseDelay:     DefaultCloseDelay,
	}
}

// HandleInteractionUseCase drives the ticket lifecycle from button presses.
type HandleInteractionUseCase struct {
	gateway   Gateway
	notifiers []Notifier
	metrics   Metrics
	logger    logger.Logger

	mu      sync.RWMutex
	timings Timings

	// pending tracks closes from Execute until their deletion has run.
	pending sync.WaitGroup
}

// NewHandleInteractionUseCase creates a new HandleInteractionUseCase.
// metrics may be nil.
func NewHandleInteractionUseCase(
	gateway Gateway,
	notifiers []Notifier,
	timings Timings,
	metrics Metrics,
	logger logger.Logger,
) *HandleInteractionUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &HandleInteractionUseCase{
		gateway:   gateway,
		notifiers: notifiers,
		metrics:   metrics,
		logger:    logger,
		timings:   normalizeTimings(timings),
	}
}

// UpdateTimings swaps the timings used by subsequent interactions.
func (uc *HandleInteractionUseCase) UpdateTimings(t Timings) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.timings = normalizeTimings(t)
}

// Timings returns the current timings.
func (uc *HandleInteractionUseCase) Timings() Timings {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.timings
}

// Execute handles one button press.
func (uc *HandleInteractionUseCase) Execute(ctx context.Context, event entity.Event) error {
	start := time.Now()

	var (
		outcome string
		err     error
	)
	switch ev := event.(type) {
	case entity.OpenTicket:
		outcome, err = uc.openTicket(ctx, ev)
	case entity.AddUser:
		outcome, err = uc.addUser(ctx, ev)
	case entity.CloseTicket:
		// Taken before the warning is sent so Wait covers the whole close.
		uc.pending.Add(1)
		outcome, err = uc.closeTicket(ctx, ev)
	default:
		return fmt.Errorf("%w: %T", entity.ErrUnsupportedEvent, event)
	}

	if err != nil {
		outcome = OutcomeFailed
	}
	uc.metrics.RecordTicketAction(ctx, event.Name(), outcome, time.Since(start))
	return err
}

// Wait blocks until every in-flight close, including its scheduled
// deletion, has finished or ctx is done.
func (uc *HandleInteractionUseCase) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (uc *HandleInteractionUseCase) notify(ctx context.Context, notice entity.TicketNotice) {
	for _, n := range uc.notifiers {
		err := n.Notify(ctx, notice)
		uc.metrics.RecordNotification(ctx, n.Name(), err == nil)
		if err != nil {
			uc.logger.Warn("failed to notify staff",
				"notifier", n.Name(),
				"kind", notice.Kind,
				"channel_id", notice.ChannelID,
				"error", err,
				"error_class", domainerrors.Classify(err),
			)
		}
	}
}

func normalizeTimings(t Timings) Timings {
	if t.AddUserTimeout <= 0 {
		t.AddUserTimeout = DefaultAddUserTimeout
	}
	if t.CloseDelay <= 0 {
		t.CloseDelay = DefaultCloseDelay
	}
	return t
}
