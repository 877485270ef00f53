package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/logger"
)

// PublishPanelUseCase posts the ticket panel on an administrator's command.
type PublishPanelUseCase struct {
	gateway Gateway
	metrics Metrics
	logger  logger.Logger
}

// NewPublishPanelUseCase creates a new PublishPanelUseCase. metrics may be nil.
func NewPublishPanelUseCase(gateway Gateway, metrics Metrics, logger logger.Logger) *PublishPanelUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &PublishPanelUseCase{
		gateway: gateway,
		metrics: metrics,
		logger:  logger,
	}
}

// Execute sends the panel into the command's channel. Commands from members
// without Administrator are ignored without any reply.
func (uc *PublishPanelUseCase) Execute(ctx context.Context, cmd entity.PanelCommand) error {
	start := time.Now()

	if !cmd.Actor.Permissions.Has(entity.PermissionAdministrator) {
		uc.logger.Debug("ignoring panel command from non-administrator",
			"user_id", cmd.Actor.UserID,
			"channel_id", cmd.ChannelID,
		)
		uc.metrics.RecordTicketAction(ctx, cmd.Name(), OutcomeIgnored, time.Since(start))
		return nil
	}

	messageID, err := uc.gateway.SendMessage(ctx, cmd.ChannelID, PanelMessage())
	if err != nil {
		uc.metrics.RecordTicketAction(ctx, cmd.Name(), OutcomeFailed, time.Since(start))
		return fmt.Errorf("sending ticket panel: %w", err)
	}

	uc.logger.Info("ticket panel published",
		"guild_id", cmd.GuildID,
		"channel_id", cmd.ChannelID,
		"message_id", messageID,
		"user_id", cmd.Actor.UserID,
	)
	uc.metrics.RecordTicketAction(ctx, cmd.Name(), OutcomePublished, time.Since(start))
	return nil
}
