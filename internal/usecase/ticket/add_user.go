package ticket

import (
	"context"
	"fmt"

	"github.com/qj0r9j0vc2/ticket-bot/internal/domain/entity"
)

// addUser asks the staff member for a mention and grants the mentioned user
// access to the ticket. Each invocation opens its own collection window;
// concurrent windows on the same channel are not deduplicated.
func (uc *HandleInteractionUseCase) addUser(ctx context.Context, ev entity.AddUser) (string, error) {
	if !ev.Actor.Permissions.Has(entity.PermissionManageChannels) {
		if err := uc.gateway.Reply(ctx, ev.Ref, private(msgOnlyStaffAdd)); err != nil {
			return "", fmt.Errorf("replying add-user rejection: %w", err)
		}
		return OutcomeForbidden, nil
	}

	if err := uc.gateway.Reply(ctx, ev.Ref, private(msgMentionPrompt)); err != nil {
		return "", fmt.Errorf("prompting for mention: %w", err)
	}

	filter := entity.CollectFilter{ChannelID: ev.ChannelID, AuthorID: ev.Actor.UserID}
	result, err := uc.gateway.AwaitMessage(ctx, filter, uc.Timings().AddUserTimeout)
	if err != nil {
		return "", fmt.Errorf("awaiting mention: %w", err)
	}

	if result.TimedOut || result.Received == nil {
		uc.logger.Debug("add-user window elapsed",
			"channel_id", ev.ChannelID,
			"user_id", ev.Actor.UserID,
		)
		return OutcomeTimedOut, nil
	}

	msg := *result.Received
	target, ok := msg.FirstMention()
	if !ok {
		if err := uc.gateway.FollowUp(ctx, ev.Ref, private(msgNoMention)); err != nil {
			return "", fmt.Errorf("reporting missing mention: %w", err)
		}
		return OutcomeNoMention, nil
	}

	if err := uc.gateway.GrantMember(ctx, ev.ChannelID, target.ID); err != nil {
		return "", fmt.Errorf("granting ticket access: %w", err)
	}

	if err := uc.gateway.FollowUp(ctx, ev.Ref, public(userAddedAnnouncement(target))); err != nil {
		return "", fmt.Errorf("announcing added user: %w", err)
	}

	if err := uc.gateway.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
		uc.logger.Warn("failed to clean up mention message",
			"channel_id", msg.ChannelID,
			"message_id", msg.ID,
			"error", err,
		)
	}

	uc.logger.Info("user added to ticket",
		"channel_id", ev.ChannelID,
		"added_user_id", target.ID,
		"staff_user_id", ev.Actor.UserID,
	)
	return OutcomeAdded, nil
}
