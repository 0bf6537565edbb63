package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/moderation"
)

// NewHelpHandler returns the handler shared by /start and /help.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return helpHandler{deps}.Handle
}

type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "help")

	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	log.InfoContext(ctx, "Handling help command", "chat_id", chatID)

	if err := h.deps.Client.SendMessage(ctx, chatID, helpText(h.deps.Config.Telegram.CommandPrefix)); err != nil {
		log.ErrorContext(ctx, "Failed to send help message", "chat_id", chatID, "error", err)
	}
}

func helpText(prefix string) string {
	tags := make([]string, 0, len(moderation.AllTags))
	for _, tag := range moderation.AllTags {
		tags = append(tags, string(tag))
	}

	return fmt.Sprintf(`Watchdog Robot

This bot removes undesired content posted to the group: links, mentions,
attachments, joining bots and more, depending on what you block.

Commands

/help - display this help message
/%[1]s_allow <tag> - allow a content tag (admins only)
/%[1]s_block <tag> - block a content tag (admins only)
/%[1]s_set notify_actions=<yes|no> - toggle action announcements (admins only)
/%[1]s_config - show the current policy for this chat

Tags

%[2]s

How to Use

- Add the bot as ADMIN to the chat group
- Allow it to delete messages; blocking bot joins also needs the ban permission`,
		prefix, strings.Join(tags, ", "))
}
