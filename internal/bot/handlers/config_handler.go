package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/moderation"
)

// NewConfigHandler returns the handler for the config command, which renders
// the chat's current policy: every general setting and every tag's
// allow/block state.
func NewConfigHandler(deps HandlerDeps) bot.HandlerFunc {
	return configHandler{deps}.Handle
}

type configHandler struct {
	deps HandlerDeps
}

func (h configHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	log := h.deps.Logger.With("handler", "config", "chat_id", msg.Chat.ID)

	var sb strings.Builder
	sb.WriteString("Moderation policy for this chat:\n\n")

	notify, err := h.deps.Settings.Get(ctx, msg.Chat.ID, moderation.SettingNotifyActions, true)
	if err != nil {
		log.ErrorContext(ctx, "Failed to read settings", "error", err)
		h.replyError(ctx, msg.Chat.ID)
		return
	}
	fmt.Fprintf(&sb, "%s: %s\n\n", moderation.SettingNotifyActions, yesNo(notify))

	sb.WriteString("Allowed content:\n")
	for _, tag := range moderation.AllTags {
		allowed, err := h.deps.Settings.Get(ctx, msg.Chat.ID, tag.SettingKey(), true)
		if err != nil {
			log.ErrorContext(ctx, "Failed to read settings", "tag", tag, "error", err)
			h.replyError(ctx, msg.Chat.ID)
			return
		}
		fmt.Fprintf(&sb, "%s: %s\n", tag, yesNo(allowed))
	}

	if err := h.deps.Client.SendMessage(ctx, msg.Chat.ID, sb.String()); err != nil {
		log.ErrorContext(ctx, "Failed to send config report", "error", err)
	}
}

func (h configHandler) replyError(ctx context.Context, chatID int64) {
	if err := h.deps.Client.SendMessage(ctx, chatID, "Failed to load settings, please try again later"); err != nil {
		h.deps.Logger.WarnContext(ctx, "Failed to send reply", "chat_id", chatID, "error", err)
	}
}
