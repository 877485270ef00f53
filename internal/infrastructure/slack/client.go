package slack

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/slack-go/slack"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/ticket-bot/internal/domain/errors"
)

// Client posts ticket notices to a Slack staff channel.
// Implements the ticket.Notifier interface.
type Client struct {
	api            *slack.Client
	messageBuilder *MessageBuilder

	mu        sync.RWMutex
	channelID string
}

// NewClient creates a new Slack client.
func NewClient(botToken, channelID string, apiURL ...string) *Client {
	var api *slack.Client
	if len(apiURL) > 0 && apiURL[0] != "" {
		// Custom API URL, used against a local mock server
		api = slack.New(botToken, slack.OptionAPIURL(apiURL[0]))
	} else {
		api = slack.New(botToken)
	}

	return &Client{
		api:            api,
		channelID:      channelID,
		messageBuilder: NewMessageBuilder(),
	}
}

// Notify posts notice to the staff channel.
func (c *Client) Notify(ctx context.Context, notice entity.TicketNotice) error {
	options := []slack.MsgOption{
		slack.MsgOptionText(c.messageBuilder.FallbackText(notice), false),
		slack.MsgOptionBlocks(c.messageBuilder.BuildNoticeMessage(notice)...),
	}

	if _, _, err := c.api.PostMessageContext(ctx, c.ChannelID(), options...); err != nil {
		return categorizeSlackError(err, "posting slack notice")
	}
	return nil
}

// Name returns the notifier identifier.
func (c *Client) Name() string {
	return "slack"
}

// ChannelID returns the staff channel notices go to.
func (c *Client) ChannelID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channelID
}

// SetChannelID switches the staff channel for subsequent notices.
func (c *Client) SetChannelID(channelID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channelID = channelID
}

// categorizeSlackError wraps Slack API errors as transient or permanent domain errors.
func categorizeSlackError(err error, operation string) error {
	if err == nil {
		return nil
	}

	// Network errors are transient
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: network error", operation),
			err,
		)
	}

	var rateErr *slack.RateLimitedError
	if errors.As(err, &rateErr) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: rate limited", operation),
			err,
		)
	}

	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		switch slackErr.Err {
		case "ratelimited", "rate_limited",
			"internal_error", "fatal_error", "service_unavailable", "request_timeout":
			return domainerrors.NewTransientError(
				fmt.Sprintf("%s: %s", operation, slackErr.Err),
				err,
			)
		default:
			// invalid_auth, channel_not_found, not_in_channel and friends
			return domainerrors.NewPermanentError(
				fmt.Sprintf("%s: %s", operation, slackErr.Err),
				err,
			)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: context timeout", operation),
			err,
		)
	}

	return domainerrors.NewPermanentError(
		fmt.Sprintf("%s: %v", operation, err),
		err,
	)
}
