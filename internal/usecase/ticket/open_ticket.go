package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
)

// openTicket creates the actor's ticket channel unless one already exists.
//
// The existence check reads a cache snapshot and is not atomic with the
// create call: two presses from the same user arriving together can both pass
// it and create two channels.
func (uc *HandleInteractionUseCase) openTicket(ctx context.Context, ev entity.OpenTicket) (string, error) {
	owner := ev.Actor

	channels, err := uc.gateway.ListGuildChannels(ctx, ev.GuildID)
	if err != nil {
		return "", fmt.Errorf("listing guild channels: %w", err)
	}

	if existing, ok := entity.FindTicketChannel(channels, owner.Username); ok {
		uc.logger.Info("ticket already open",
			"user_id", owner.UserID,
			"channel_id", existing.ID,
		)
		if err := uc.gateway.Reply(ctx, ev.Ref, private(msgAlreadyOpen)); err != nil {
			return "", fmt.Errorf("replying duplicate ticket: %w", err)
		}
		return OutcomeDuplicate, nil
	}

	category, ok := entity.FindCategory(channels, entity.TicketCategoryName)
	if !ok {
		uc.logger.Warn("ticket category not found",
			"guild_id", ev.GuildID,
			"category", entity.TicketCategoryName,
		)
		if err := uc.gateway.Reply(ctx, ev.Ref, private(msgCategoryMissing)); err != nil {
			return "", fmt.Errorf("replying missing category: %w", err)
		}
		return OutcomeNoCategory, nil
	}

	spec := entity.NewTicketChannelSpec(ev.GuildID, category.ID, owner)
	channel, err := uc.gateway.CreateTicketChannel(ctx, spec)
	if err != nil {
		return "", fmt.Errorf("creating ticket channel: %w", err)
	}

	if _, err := uc.gateway.SendMessage(ctx, channel.ID, WelcomeMessage(owner)); err != nil {
		return "", fmt.Errorf("sending ticket welcome: %w", err)
	}

	if err := uc.gateway.Reply(ctx, ev.Ref, private(ticketCreatedReply(channel))); err != nil {
		return "", fmt.Errorf("replying ticket created: %w", err)
	}

	uc.logger.Info("ticket opened",
		"guild_id", ev.GuildID,
		"channel_id", channel.ID,
		"channel_name", channel.Name,
		"user_id", owner.UserID,
	)

	uc.notify(ctx, entity.TicketNotice{
		Kind:        entity.NoticeOpened,
		GuildID:     ev.GuildID,
		ChannelID:   channel.ID,
		ChannelName: channel.Name,
		Actor:       owner,
		At:          time.Now(),
	})

	return OutcomeCreated, nil
}
