package discord

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/bwmarrin/discordgo"

	domainerrors "github.com/qj0r9j0vc2/ticket-bot/internal/domain/errors"
)

// JSON error codes returned by the REST API that we name in logs.
const (
	codeUnknownChannel     = 10003
	codeUnknownMessage     = 10008
	codeUnknownInteraction = 10062
	codeMissingAccess      = 50001
	codeMissingPermissions = 50013
)

// categorizeDiscordError wraps REST and network errors as transient or
// permanent domain errors.
func categorizeDiscordError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: context timeout", operation),
			err,
		)
	}

	var rateErr *discordgo.RateLimitError
	if errors.As(err, &rateErr) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: rate limited", operation),
			err,
		)
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		return categorizeRESTError(restErr, operation)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: network error", operation),
			err,
		)
	}

	return domainerrors.NewPermanentError(
		fmt.Sprintf("%s: %v", operation, err),
		err,
	)
}

func categorizeRESTError(restErr *discordgo.RESTError, operation string) error {
	status := 0
	if restErr.Response != nil {
		status = restErr.Response.StatusCode
	}

	switch {
	case status == http.StatusTooManyRequests:
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: rate limited", operation),
			restErr,
		)
	case status >= http.StatusInternalServerError:
		return domainerrors.NewTransientError(
			fmt.Sprintf("%s: discord server error (%d)", operation, status),
			restErr,
		)
	}

	reason := fmt.Sprintf("http %d", status)
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case codeUnknownChannel:
			reason = "unknown channel"
		case codeUnknownMessage:
			reason = "unknown message"
		case codeUnknownInteraction:
			reason = "unknown interaction"
		case codeMissingAccess:
			reason = "missing access"
		case codeMissingPermissions:
			reason = "missing permissions"
		default:
			if restErr.Message.Message != "" {
				reason = restErr.Message.Message
			}
		}
	}

	return domainerrors.NewPermanentError(
		fmt.Sprintf("%s: %s", operation, reason),
		restErr,
	)
}
