package handlers

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const statDays = 7

// NewStatHandler returns the handler for the /stat reporting command. It is
// restricted to the configured operator IDs and only answers in private
// chat; everywhere else the command is silently ignored.
func NewStatHandler(deps HandlerDeps) bot.HandlerFunc {
	return statHandler{deps}.Handle
}

type statHandler struct {
	deps HandlerDeps
}

func (h statHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if msg.Chat.Type != models.ChatTypePrivate {
		return
	}
	if !slices.Contains(h.deps.Config.Telegram.Operators, msg.From.ID) {
		return
	}

	log := h.deps.Logger.With("handler", "stat", "user_id", msg.From.ID)
	log.InfoContext(ctx, "Building moderation stats report")

	today := time.Now().UTC().Truncate(24 * time.Hour)

	// Oldest day first.
	dayChats := make([]string, 0, statDays)
	dayMessages := make([]string, 0, statDays)
	for i := statDays - 1; i >= 0; i-- {
		start := today.AddDate(0, 0, -i)
		end := start.AddDate(0, 0, 1)

		chats, messages, err := h.deps.Store.CountActionsBetween(ctx, start, end)
		if err != nil {
			log.ErrorContext(ctx, "Failed to count moderation actions", "day", start, "error", err)
			if sendErr := h.deps.Client.SendMessage(ctx, msg.Chat.ID, "Failed to build report, please try again later"); sendErr != nil {
				log.WarnContext(ctx, "Failed to send reply", "error", sendErr)
			}
			return
		}
		dayChats = append(dayChats, fmt.Sprintf("%d", chats))
		dayMessages = append(dayMessages, fmt.Sprintf("%d", messages))
	}

	report := fmt.Sprintf("Chats: %s\nModerated messages: %s",
		strings.Join(dayChats, " | "), strings.Join(dayMessages, " | "))

	if err := h.deps.Client.SendMessage(ctx, msg.Chat.ID, report); err != nil {
		log.ErrorContext(ctx, "Failed to send stats report", "error", err)
	}
}
