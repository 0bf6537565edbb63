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

// NewAllowHandler returns the handler for the allow command.
func NewAllowHandler(deps HandlerDeps) bot.HandlerFunc {
	return tagPolicyHandler{deps: deps, allow: true}.Handle
}

// NewBlockHandler returns the handler for the block command.
func NewBlockHandler(deps HandlerDeps) bot.HandlerFunc {
	return tagPolicyHandler{deps: deps, allow: false}.Handle
}

// tagPolicyHandler flips the allow flag of one content tag for the chat.
type tagPolicyHandler struct {
	deps  HandlerDeps
	allow bool
}

func (h tagPolicyHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	log := h.deps.Logger.With("handler", "tag_policy", "chat_id", msg.Chat.ID)

	tag, err := h.parseTag(msg.Text)
	if err != nil {
		if errors.Is(err, moderation.ErrInvalidCommand) {
			h.reply(ctx, log, msg.Chat.ID, msgInvalidCommand)
			return
		}
		log.ErrorContext(ctx, "Unexpected command parse error", "error", err)
		return
	}

	if err := h.deps.Settings.Set(ctx, msg.Chat.ID, tag.SettingKey(), h.allow); err != nil {
		log.ErrorContext(ctx, "Failed to save tag policy", "tag", tag, "error", err)
		h.reply(ctx, log, msg.Chat.ID, "Failed to save setting, please try again later")
		return
	}

	state := "blocked"
	if h.allow {
		state = "allowed"
	}
	log.InfoContext(ctx, "Tag policy updated", "tag", tag, "allowed", h.allow)
	h.reply(ctx, log, msg.Chat.ID, fmt.Sprintf("Content %q is now %s in this chat", tag, state))
}

func (h tagPolicyHandler) parseTag(text string) (moderation.ContentTag, error) {
	arg, err := commandArg(text)
	if err != nil {
		return "", err
	}
	return moderation.ParseTag(arg)
}

func (h tagPolicyHandler) reply(ctx context.Context, log *slog.Logger, chatID int64, text string) {
	if err := h.deps.Client.SendMessage(ctx, chatID, text); err != nil {
		log.WarnContext(ctx, "Failed to send reply", "chat_id", chatID, "error", err)
	}
}
