package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Client adapts the go-telegram/bot API to the narrow platform surface the
// moderation core consumes (moderation.ChatClient and moderation.AdminLister).
//
// Client is created before the underlying bot so handlers can hold a stable
// reference; Bind must be called with the bot instance before the transport
// starts delivering updates.
type Client struct {
	b      *bot.Bot
	logger *slog.Logger
}

// NewClient creates an unbound platform client.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{logger: logger.With("component", "telegram_client")}
}

// Bind attaches the bot instance. Called once during startup, before any
// update is processed.
func (c *Client) Bind(b *bot.Bot) {
	c.b = b
}

// SendMessage sends a plain-text message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

// DeleteMessage removes a message from a chat.
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := c.b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		return fmt.Errorf("delete message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

// KickMember bans a user from a chat.
func (c *Client) KickMember(ctx context.Context, chatID, userID int64) error {
	_, err := c.b.BanChatMember(ctx, &bot.BanChatMemberParams{
		ChatID: chatID,
		UserID: userID,
	})
	if err != nil {
		return fmt.Errorf("kick user %d from chat %d: %w", userID, chatID, err)
	}
	return nil
}

// ChatAdministrators fetches the user IDs holding administrator privilege in
// a chat, owner included.
func (c *Client) ChatAdministrators(ctx context.Context, chatID int64) ([]int64, error) {
	members, err := c.b.GetChatAdministrators(ctx, &bot.GetChatAdministratorsParams{
		ChatID: chatID,
	})
	if err != nil {
		return nil, fmt.Errorf("get administrators for chat %d: %w", chatID, err)
	}

	return adminIDs(members), nil
}

// adminIDs extracts user IDs from the owner and administrator variants of the
// ChatMember union; all other membership states are ignored. The owner variant
// carries its user by pointer, the administrator variant by value.
func adminIDs(members []models.ChatMember) []int64 {
	ids := make([]int64, 0, len(members))
	for _, member := range members {
		switch {
		case member.Owner != nil && member.Owner.User != nil:
			ids = append(ids, member.Owner.User.ID)
		case member.Administrator != nil:
			ids = append(ids, member.Administrator.User.ID)
		}
	}
	return ids
}
