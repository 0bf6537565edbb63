package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/database"
)

// ChatClient is the slice of the messaging platform the executor needs.
// Implemented by telegram.Client. Every call is a remote operation that can
// fail; the executor treats all failures uniformly.
type ChatClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	KickMember(ctx context.Context, chatID, userID int64) error
}

// ActionLog is the append-only audit surface. Implemented by database.Store.
type ActionLog interface {
	AppendEvent(ctx context.Context, rec *database.Event) error
	AppendFailure(ctx context.Context, rec *database.Failure) error
}

// Executor performs the remote moderation action a Decision calls for and
// records the outcome. Side effects are strictly ordered: remote action
// first, audit write second, notification third. A remote failure produces a
// failure-log record instead of an audit record, suppresses the notification,
// and surfaces the error to the caller.
type Executor struct {
	client   ChatClient
	log      ActionLog
	settings SettingsReader
	logger   *slog.Logger
}

// NewExecutor creates an action executor.
func NewExecutor(client ChatClient, log ActionLog, settings SettingsReader, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{
		client:   client,
		log:      log,
		settings: settings,
		logger:   logger.With("component", "executor"),
	}
}

// Execute carries out the action for the blocked tag: kicking the offending
// bots for a bot-join violation, deleting the message for everything else.
func (x *Executor) Execute(ctx context.Context, msg *models.Message, tag ContentTag) error {
	if tag == TagBotJoin {
		return x.kickBots(ctx, msg)
	}
	return x.deleteMessage(ctx, msg, tag)
}

func (x *Executor) deleteMessage(ctx context.Context, msg *models.Message, tag ContentTag) error {
	if err := x.client.DeleteMessage(ctx, msg.Chat.ID, msg.ID); err != nil {
		x.recordFailure(ctx, msg, err)
		return fmt.Errorf("delete message %d in chat %d: %w", msg.ID, msg.Chat.ID, err)
	}

	if err := x.recordEvent(ctx, msg, "delete", tag); err != nil {
		return err
	}

	x.notify(ctx, msg.Chat.ID, fmt.Sprintf("Message from %s deleted. Reason: %s", DisplayName(msg.From), tag))
	return nil
}

func (x *Executor) kickBots(ctx context.Context, msg *models.Message) error {
	for _, user := range msg.NewChatMembers {
		if !user.IsBot {
			continue
		}
		if err := x.client.KickMember(ctx, msg.Chat.ID, user.ID); err != nil {
			x.recordFailure(ctx, msg, err)
			return fmt.Errorf("kick bot %d from chat %d: %w", user.ID, msg.Chat.ID, err)
		}

		if err := x.recordEvent(ctx, msg, "kick", TagBotJoin); err != nil {
			return err
		}

		x.notify(ctx, msg.Chat.ID, fmt.Sprintf("Bot %s kicked. Reason: bots are not allowed", DisplayName(&user)))
	}
	return nil
}

func (x *Executor) recordEvent(ctx context.Context, msg *models.Message, action string, tag ContentTag) error {
	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}
	rec := &database.Event{
		Date:    time.Now().UTC(),
		ChatID:  msg.Chat.ID,
		UserID:  userID,
		Action:  action,
		Reason:  string(tag),
		Text:    msg.Text,
		MsgJSON: snapshot(msg),
	}
	if err := x.log.AppendEvent(ctx, rec); err != nil {
		// The remote action is already committed; audit completeness loses to
		// moderation correctness here, but the gap must be visible.
		x.logger.ErrorContext(ctx, "Moderation action succeeded but audit write failed",
			"chat_id", msg.Chat.ID, "message_id", msg.ID, "action", action, "error", err)
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

func (x *Executor) recordFailure(ctx context.Context, msg *models.Message, actionErr error) {
	rec := &database.Failure{
		Date:    time.Now().UTC(),
		Error:   actionErr.Error(),
		Stack:   string(debug.Stack()),
		MsgJSON: snapshot(msg),
	}
	if err := x.log.AppendFailure(ctx, rec); err != nil {
		x.logger.ErrorContext(ctx, "Failed to append failure record",
			"chat_id", msg.Chat.ID, "message_id", msg.ID, "error", err)
	}
}

func (x *Executor) notify(ctx context.Context, chatID int64, text string) {
	enabled, err := x.settings.Get(ctx, chatID, SettingNotifyActions, true)
	if err != nil {
		x.logger.WarnContext(ctx, "Could not resolve notification setting, skipping notification",
			"chat_id", chatID, "error", err)
		return
	}
	if !enabled {
		return
	}
	if err := x.client.SendMessage(ctx, chatID, text); err != nil {
		x.logger.WarnContext(ctx, "Failed to send moderation notification", "chat_id", chatID, "error", err)
	}
}

func snapshot(msg *models.Message) string {
	data, err := json.Marshal(msg)
	if err != nil {
		return ""
	}
	return string(data)
}
