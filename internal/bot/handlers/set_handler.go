package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/moderation"
)

// NewSetHandler returns the handler for the set command, which changes a
// general policy setting like notify_actions.
func NewSetHandler(deps HandlerDeps) bot.HandlerFunc {
	return setHandler{deps}.Handle
}

type setHandler struct {
	deps HandlerDeps
}

func (h setHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	log := h.deps.Logger.With("handler", "set", "chat_id", msg.Chat.ID)

	key, value, err := h.parse(msg.Text)
	if err != nil {
		if errors.Is(err, moderation.ErrInvalidCommand) {
			h.reply(ctx, log, msg.Chat.ID, msgInvalidCommand)
			return
		}
		log.ErrorContext(ctx, "Unexpected command parse error", "error", err)
		return
	}

	if err := h.deps.Settings.Set(ctx, msg.Chat.ID, key, value); err != nil {
		log.ErrorContext(ctx, "Failed to save setting", "key", key, "error", err)
		h.reply(ctx, log, msg.Chat.ID, "Failed to save setting, please try again later")
		return
	}

	log.InfoContext(ctx, "Setting updated", "key", key, "value", value)
	h.reply(ctx, log, msg.Chat.ID, fmt.Sprintf("Setting %q has been set to %s", key, yesNo(value)))
}

func (h setHandler) parse(text string) (string, bool, error) {
	arg, err := commandArg(text)
	if err != nil {
		return "", false, err
	}
	key, value, err := parseSetArg(arg)
	if err != nil {
		return "", false, err
	}
	if !settableKeys[key] {
		return "", false, fmt.Errorf("%w: unknown setting %q", moderation.ErrInvalidCommand, key)
	}
	return key, value, nil
}

func (h setHandler) reply(ctx context.Context, log *slog.Logger, chatID int64, text string) {
	if err := h.deps.Client.SendMessage(ctx, chatID, text); err != nil {
		log.WarnContext(ctx, "Failed to send reply", "chat_id", chatID, "error", err)
	}
}
