package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/database"
	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/moderation"
)

// NewWatchHandler returns the default handler: it inspects every message that
// is not a recognized command, classifies it, evaluates the chat's policy,
// and executes the moderation action when one is called for.
func NewWatchHandler(deps HandlerDeps) bot.HandlerFunc {
	return watchHandler{deps}.Handle
}

type watchHandler struct {
	deps HandlerDeps
}

func (h watchHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	if msg.From != nil && msg.From.ID == h.deps.Config.Telegram.BotID {
		return
	}

	log := h.deps.Logger.With("handler", "watch", "chat_id", msg.Chat.ID, "message_id", msg.ID)

	h.trackMembership(ctx, msg)

	tags := moderation.Classify(msg)

	decision, err := h.deps.Engine.Evaluate(ctx, msg, tags)
	if err != nil {
		// Policy or exemption could not be resolved; no action is taken and
		// the transport layer decides about redelivery.
		log.ErrorContext(ctx, "Moderation evaluation failed, message not acted on",
			"tags", tags, "error", err)
		return
	}
	if !decision.Act {
		log.DebugContext(ctx, "No moderation action", "reason", decision.Reason, "tags", tags)
		return
	}

	log.InfoContext(ctx, "Executing moderation action", "tag", decision.Tag)
	if err := h.deps.Executor.Execute(ctx, msg, decision.Tag); err != nil {
		// The executor already appended the failure record; surfacing here
		// keeps the broken moderation guarantee visible in the logs.
		log.ErrorContext(ctx, "Moderation action failed", "tag", decision.Tag, "error", err)
	}
}

// trackMembership records the chat, the sender, and any joining members.
// Best effort: bookkeeping failures never block moderation.
func (h watchHandler) trackMembership(ctx context.Context, msg *models.Message) {
	log := h.deps.Logger.With("handler", "watch")
	now := time.Now().UTC()

	chatRec := &database.ChatSeen{
		ChatID:   msg.Chat.ID,
		Type:     string(msg.Chat.Type),
		Title:    msg.Chat.Title,
		LastSeen: now,
	}
	if err := h.deps.Store.UpsertChatSeen(ctx, chatRec); err != nil {
		log.WarnContext(ctx, "Failed to record chat", "chat_id", msg.Chat.ID, "error", err)
	}

	users := make([]*models.User, 0, len(msg.NewChatMembers)+1)
	if msg.From != nil {
		users = append(users, msg.From)
	}
	for i := range msg.NewChatMembers {
		users = append(users, &msg.NewChatMembers[i])
	}

	for _, user := range users {
		rec := &database.UserSeen{
			UserID:    user.ID,
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			IsBot:     user.IsBot,
			LastSeen:  now,
		}
		if err := h.deps.Store.UpsertUserSeen(ctx, rec); err != nil {
			log.WarnContext(ctx, "Failed to record user", "user_id", user.ID, "error", err)
		}
	}
}
