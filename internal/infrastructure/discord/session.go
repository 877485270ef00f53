package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/ticket-bot/internal/domain/errors"
	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/logger"
	"github.com/qj0r9j0vc2/ticket-bot/internal/infrastructure/resilience"
)

// Intents requested on identify: guild and channel data for the state cache,
// guild messages for the panel trigger and the collector, and message content
// so the trigger text can be read.
const Intents = discordgo.IntentGuilds | discordgo.IntentGuildMessages | discordgo.IntentMessageContent

// Gateway event outcomes used as metric labels.
const (
	outcomeHandled = "handled"
	outcomeIgnored = "ignored"
	outcomeFailed  = "failed"
)

// ErrNotReady is returned by Ping until the gateway session is ready.
var ErrNotReady = errors.New("gateway session not ready")

// MessageHandler handles messages posted in guild channels.
type MessageHandler interface {
	HandleMessage(ctx context.Context, m *discordgo.MessageCreate) error
}

// InteractionHandler handles interactions (button presses).
type InteractionHandler interface {
	HandleInteraction(ctx context.Context, i *discordgo.InteractionCreate) error
}

// SessionMetrics observes the gateway session.
type SessionMetrics interface {
	CollectorMetrics
	RecordGatewayEvent(ctx context.Context, eventType, outcome string)
	RecordGatewayConnect(ctx context.Context, success bool)
	RecordBreakerTransition(ctx context.Context, name, from, to string)
}

// SessionConfig controls the gateway connection.
type SessionConfig struct {
	Token              string
	ConnectMaxElapsed  time.Duration
	BreakerMaxFailures int
	BreakerCooldown    time.Duration
}

// Session owns the gateway connection and fans inbound events out to the
// collector and the registered handlers.
type Session struct {
	dg        *discordgo.Session
	cfg       SessionConfig
	logger    logger.Logger
	metrics   SessionMetrics
	breaker   *resilience.CircuitBreaker
	collector *Collector
	client    *Client

	messageHandler     MessageHandler
	interactionHandler InteractionHandler

	mu             sync.RWMutex
	baseCtx        context.Context
	sessionID      string
	lastReady      time.Time
	removeHandlers []func()

	ready atomic.Bool
}

// NewSession creates a gateway session. metrics may be nil.
func NewSession(cfg SessionConfig, metrics SessionMetrics, log logger.Logger) (*Session, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("discord token is required")
	}
	if metrics == nil {
		metrics = nopSessionMetrics{}
	}

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	dg.Identify.Intents = Intents
	dg.StateEnabled = true
	dg.ShouldReconnectOnError = true
	dg.LogLevel = discordgo.LogWarning
	installLogger(log)

	s := &Session{
		dg:      dg,
		cfg:     cfg,
		logger:  log,
		metrics: metrics,
		baseCtx: context.Background(),
	}
	s.breaker = resilience.NewCircuitBreaker(
		"discord-gateway",
		cfg.BreakerMaxFailures,
		cfg.BreakerCooldown,
		resilience.WithStateChange(s.onBreakerChange),
	)
	s.collector = NewCollector(metrics)
	s.client = NewClient(dg, dg.State, s.collector)

	return s, nil
}

// SetMessageHandler sets the message handler.
func (s *Session) SetMessageHandler(h MessageHandler) {
	s.messageHandler = h
}

// SetInteractionHandler sets the interaction handler.
func (s *Session) SetInteractionHandler(h InteractionHandler) {
	s.interactionHandler = h
}

// Client returns the ticket gateway backed by this session.
func (s *Session) Client() *Client {
	return s.client
}

// Open registers the event handlers and connects to the gateway, retrying
// with exponential backoff. Event contexts derive from ctx.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.removeHandlers = append(s.removeHandlers,
		s.dg.AddHandler(s.onReady),
		s.dg.AddHandler(s.onResumed),
		s.dg.AddHandler(s.onDisconnect),
		s.dg.AddHandler(s.onMessageCreate),
		s.dg.AddHandler(s.onInteractionCreate),
	)
	s.mu.Unlock()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = s.cfg.ConnectMaxElapsed

	attempt := 0
	operation := func() error {
		attempt++
		err := s.breaker.Execute(ctx, s.dg.Open)
		if err == nil || errors.Is(err, discordgo.ErrWSAlreadyOpen) {
			s.metrics.RecordGatewayConnect(ctx, true)
			return nil
		}
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return err
		}

		s.metrics.RecordGatewayConnect(ctx, false)
		if ctx.Err() != nil || isUnauthorized(err) {
			return backoff.Permanent(categorizeDiscordError(err, "opening gateway"))
		}
		return categorizeDiscordError(err, "opening gateway")
	}
	notify := func(err error, wait time.Duration) {
		s.logger.Warn("gateway connect failed, retrying",
			"attempt", attempt,
			"error", err,
			"error_class", domainerrors.Classify(err),
			"retry_in", wait.String(),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return fmt.Errorf("opening gateway session after %d attempts: %w", attempt, err)
	}

	s.logger.Info("gateway connection opened", "attempts", attempt)
	return nil
}

// Close removes the event handlers and closes the gateway connection.
func (s *Session) Close() error {
	s.mu.Lock()
	for _, remove := range s.removeHandlers {
		remove()
	}
	s.removeHandlers = nil
	s.mu.Unlock()

	s.ready.Store(false)
	if err := s.dg.Close(); err != nil {
		return fmt.Errorf("closing gateway session: %w", err)
	}
	return nil
}

// Ping reports whether the session is ready. Implements the readiness
// checker used by GET /ready.
func (s *Session) Ping(ctx context.Context) error {
	if !s.ready.Load() {
		return ErrNotReady
	}
	return nil
}

// IsReady returns true once the gateway has sent READY and until the
// connection drops.
func (s *Session) IsReady() bool {
	return s.ready.Load()
}

// SessionID returns the gateway session id of the last READY.
func (s *Session) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// LastReady returns when the gateway last reported READY.
func (s *Session) LastReady() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReady
}

// ChannelPermissions returns the permissions userID holds in channelID,
// computed from the state cache.
func (s *Session) ChannelPermissions(userID, channelID string) (entity.Permission, error) {
	perms, err := s.dg.UserChannelPermissions(userID, channelID)
	if err != nil {
		return 0, categorizeDiscordError(err, "computing channel permissions")
	}
	return entity.Permission(perms), nil
}

func (s *Session) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	s.mu.Lock()
	s.sessionID = r.SessionID
	s.lastReady = time.Now()
	s.mu.Unlock()
	s.ready.Store(true)

	user := ""
	if r.User != nil {
		user = r.User.String()
	}
	s.logger.Info("gateway session ready",
		"user", user,
		"session_id", r.SessionID,
		"guilds", len(r.Guilds),
	)
	s.metrics.RecordGatewayEvent(s.context(), "ready", outcomeHandled)
}

func (s *Session) onResumed(_ *discordgo.Session, _ *discordgo.Resumed) {
	s.ready.Store(true)
	s.logger.Info("gateway session resumed")
	s.metrics.RecordGatewayEvent(s.context(), "resumed", outcomeHandled)
}

func (s *Session) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	s.ready.Store(false)
	s.logger.Warn("gateway session disconnected")
	s.metrics.RecordGatewayEvent(s.context(), "disconnect", outcomeHandled)
}

func (s *Session) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	const eventType = "message_create"

	if m.Message == nil || m.Author == nil || m.Author.Bot {
		s.metrics.RecordGatewayEvent(s.context(), eventType, outcomeIgnored)
		return
	}

	ctx, eventID := s.eventContext()

	if n := s.collector.Dispatch(ToCollected(m.Message)); n > 0 {
		s.logger.Debug("message collected",
			"event_id", eventID,
			"channel_id", m.ChannelID,
			"windows", n,
		)
	}

	if s.messageHandler == nil {
		s.metrics.RecordGatewayEvent(ctx, eventType, outcomeIgnored)
		return
	}
	err := s.messageHandler.HandleMessage(ctx, m)
	s.finishEvent(ctx, eventType, eventID, err, "channel_id", m.ChannelID, "message_id", m.ID)
}

func (s *Session) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	const eventType = "interaction_create"

	ctx, eventID := s.eventContext()
	if s.interactionHandler == nil || i.Interaction == nil {
		s.metrics.RecordGatewayEvent(ctx, eventType, outcomeIgnored)
		return
	}

	err := s.interactionHandler.HandleInteraction(ctx, i)
	s.finishEvent(ctx, eventType, eventID, err, "interaction_id", i.ID, "channel_id", i.ChannelID)
}

// finishEvent records the outcome of a handled event and logs failures.
func (s *Session) finishEvent(ctx context.Context, eventType, eventID string, err error, fields ...any) {
	switch {
	case err == nil:
		s.metrics.RecordGatewayEvent(ctx, eventType, outcomeHandled)
	case errors.Is(err, entity.ErrUnsupportedEvent):
		s.metrics.RecordGatewayEvent(ctx, eventType, outcomeIgnored)
	default:
		s.metrics.RecordGatewayEvent(ctx, eventType, outcomeFailed)
		kv := append([]any{
			"event_id", eventID,
			"type", eventType,
			"error", err,
			"error_class", domainerrors.Classify(err),
		}, fields...)
		s.logger.Error("failed to handle gateway event", kv...)
	}
}

func (s *Session) onBreakerChange(name string, from, to resilience.State) {
	s.logger.Warn("circuit breaker state changed",
		"breaker", name,
		"from", from.String(),
		"to", to.String(),
	)
	s.metrics.RecordBreakerTransition(s.context(), name, from.String(), to.String())
}

func (s *Session) context() context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseCtx
}

// eventContext derives a per-event context carrying a fresh event id.
func (s *Session) eventContext() (context.Context, string) {
	id := uuid.New().String()
	return WithEventID(s.context(), id), id
}

func isUnauthorized(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return false
	}
	return restErr.Response.StatusCode == http.StatusUnauthorized
}

type eventIDKey struct{}

// WithEventID returns a context carrying a gateway event id.
func WithEventID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, eventIDKey{}, id)
}

// EventIDFromContext returns the gateway event id, if any.
func EventIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(eventIDKey{}).(string); ok {
		return id
	}
	return ""
}

type nopSessionMetrics struct{}

func (nopSessionMetrics) AddCollectorWindows(context.Context, int64) {}

func (nopSessionMetrics) RecordGatewayEvent(context.Context, string, string) {}

func (nopSessionMetrics) RecordGatewayConnect(context.Context, bool) {}

func (nopSessionMetrics) RecordBreakerTransition(context.Context, string, string, string) {}
