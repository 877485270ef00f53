package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/ticket-bot/internal/domain/errors"
)

// closeTicket warns the channel and deletes it after the close delay. Once
// scheduled the deletion always runs; it is not tied to ctx. The caller holds
// a pending slot, which is handed to the deletion or released on return.
func (uc *HandleInteractionUseCase) closeTicket(ctx context.Context, ev entity.CloseTicket) (string, error) {
	release := true
	defer func() {
		if release {
			uc.pending.Done()
		}
	}()

	if !ev.Actor.Permissions.Has(entity.PermissionManageChannels) {
		if err := uc.gateway.Reply(ctx, ev.Ref, private(msgOnlyStaffClose)); err != nil {
			return "", fmt.Errorf("replying close rejection: %w", err)
		}
		return OutcomeForbidden, nil
	}

	delay := uc.Timings().CloseDelay

	warning := entity.Message{Content: closingWarning(delay)}
	if _, err := uc.gateway.SendMessage(ctx, ev.ChannelID, warning); err != nil {
		return "", fmt.Errorf("sending close warning: %w", err)
	}

	release = false
	uc.scheduleDeletion(ev.ChannelID, delay)

	if err := uc.gateway.Reply(ctx, ev.Ref, private(msgClosingScheduled)); err != nil {
		return "", fmt.Errorf("replying close scheduled: %w", err)
	}

	uc.logger.Info("ticket close scheduled",
		"channel_id", ev.ChannelID,
		"staff_user_id", ev.Actor.UserID,
		"delay", delay.String(),
	)

	uc.notify(ctx, entity.TicketNotice{
		Kind:      entity.NoticeClosed,
		GuildID:   ev.GuildID,
		ChannelID: ev.ChannelID,
		Actor:     ev.Actor,
		At:        time.Now(),
	})

	return OutcomeScheduled, nil
}

// scheduleDeletion deletes channelID after delay and releases the caller's
// pending slot. Failures are logged and counted only.
func (uc *HandleInteractionUseCase) scheduleDeletion(channelID string, delay time.Duration) {
	go func() {
		defer uc.pending.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()
		<-timer.C

		ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
		defer cancel()

		if err := uc.gateway.DeleteChannel(ctx, channelID); err != nil {
			uc.metrics.RecordChannelDeleteError(ctx)
			uc.logger.Error("failed to delete ticket channel",
				"channel_id", channelID,
				"error", err,
				"error_class", domainerrors.Classify(err),
			)
			return
		}

		uc.logger.Info("ticket channel deleted", "channel_id", channelID)
	}()
}
