package moderation

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-telegram/bot/models"
)

// AdminChecker answers admin-exemption queries. Implemented by Roster.
type AdminChecker interface {
	IsAdmin(ctx context.Context, chatID, userID int64) (bool, error)
}

// SettingsReader resolves per-chat settings. Implemented by Settings.
type SettingsReader interface {
	Get(ctx context.Context, chatID int64, key string, def bool) (bool, error)
}

// Decision is the outcome of evaluating one message against the chat's
// moderation policy. When Act is true, Tag names the single blocked tag the
// executor should act on.
type Decision struct {
	Act    bool
	Tag    ContentTag
	Reason string
}

// Engine decides whether a classified message warrants a moderation action.
type Engine struct {
	admins   AdminChecker
	settings SettingsReader
	logger   *slog.Logger
}

// NewEngine creates a decision engine over the given roster and settings.
func NewEngine(admins AdminChecker, settings SettingsReader, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		admins:   admins,
		settings: settings,
		logger:   logger.With("component", "engine"),
	}
}

// Evaluate applies the moderation policy to a message and its tags:
//
//  1. Private chats are outside the policy's reach.
//  2. Chat administrators are always exempt, regardless of tags.
//  3. Tags are checked in classifier order; the first one whose allow flag
//     resolves to blocked wins and evaluation stops. At most one action is
//     ever taken per message, even when several tags are blocked.
//
// When the admin roster cannot be confirmed, Evaluate returns no action
// together with the lookup error: an unverifiable exemption must not lead to
// deleting what may be an administrator's message.
func (e *Engine) Evaluate(ctx context.Context, msg *models.Message, tags []ContentTag) (Decision, error) {
	if msg == nil {
		return Decision{Reason: "no message"}, nil
	}
	if msg.Chat.Type == models.ChatTypePrivate {
		return Decision{Reason: "private chat"}, nil
	}

	if msg.From != nil {
		isAdmin, err := e.admins.IsAdmin(ctx, msg.Chat.ID, msg.From.ID)
		if err != nil {
			return Decision{Reason: "admin status unknown"}, fmt.Errorf("admin exemption check: %w", err)
		}
		if isAdmin {
			return Decision{Reason: "sender is admin"}, nil
		}
	}

	for _, tag := range tags {
		allowed, err := e.settings.Get(ctx, msg.Chat.ID, tag.SettingKey(), true)
		if err != nil {
			return Decision{Reason: "policy unavailable"}, fmt.Errorf("resolve policy for tag %q: %w", tag, err)
		}
		if !allowed {
			e.logger.DebugContext(ctx, "Message blocked by policy",
				"chat_id", msg.Chat.ID, "message_id", msg.ID, "tag", tag)
			return Decision{Act: true, Tag: tag, Reason: "tag blocked: " + string(tag)}, nil
		}
	}

	return Decision{Reason: "no blocked tag"}, nil
}
