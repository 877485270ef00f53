package ticket

import (
	"context"
	"time"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/repository"
)

// Gateway is the set of chat-platform operations the ticket flows need.
type Gateway interface {
	repository.ChannelRepository

	// CreateTicketChannel creates a text channel laid out by spec.
	CreateTicketChannel(ctx context.Context, spec entity.TicketChannelSpec) (entity.Channel, error)

	// GrantMember gives userID view and send access on channelID. Granting
	// twice is harmless.
	GrantMember(ctx context.Context, channelID, userID string) error

	// DeleteChannel removes the channel.
	DeleteChannel(ctx context.Context, channelID string) error

	// SendMessage posts msg into channelID and returns the message id.
	SendMessage(ctx context.Context, channelID string, msg entity.Message) (string, error)

	// DeleteMessage removes a single message.
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	// Reply answers an interaction. It must be called once per interaction.
	Reply(ctx context.Context, ref entity.InteractionRef, reply entity.Reply) error

	// FollowUp sends an additional message after Reply.
	FollowUp(ctx context.Context, ref entity.InteractionRef, reply entity.Reply) error

	// AwaitMessage opens a collection window and blocks until the first
	// matching message arrives or timeout elapses. A timeout is not an error.
	AwaitMessage(ctx context.Context, filter entity.CollectFilter, timeout time.Duration) (entity.CollectResult, error)
}

// Notifier tells staff about ticket lifecycle changes outside the platform.
type Notifier interface {
	Notify(ctx context.Context, notice entity.TicketNotice) error

	// Name returns the notifier identifier (e.g. "slack").
	Name() string
}

// Metrics records ticket flow outcomes.
type Metrics interface {
	RecordTicketAction(ctx context.Context, action, outcome string, duration time.Duration)
	RecordChannelDeleteError(ctx context.Context)
	RecordNotification(ctx context.Context, notifier string, success bool)
}

// Outcomes used as metric labels.
const (
	OutcomeCreated    = "created"
	OutcomeDuplicate  = "duplicate"
	OutcomeNoCategory = "no_category"
	OutcomeForbidden  = "forbidden"
	OutcomeAdded      = "added"
	OutcomeNoMention  = "no_mention"
	OutcomeTimedOut   = "timed_out"
	OutcomeScheduled  = "scheduled"
	OutcomePublished  = "published"
	OutcomeIgnored    = "ignored"
	OutcomeFailed     = "failed"
)

type nopMetrics struct{}

func (nopMetrics) RecordTicketAction(context.Context, string, string, time.Duration) {}

func (nopMetrics) RecordChannelDeleteError(context.Context) {}

func (nopMetrics) RecordNotification(context.Context, string, bool) {}
