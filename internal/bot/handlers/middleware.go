// Package handlers contains Telegram command and message handlers, their
// registration logic, and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const msgAccessDenied = "Access denied"

// AdminOnly creates a middleware that lets a command through only when the
// sender is an administrator of the chat. Private chats pass (the invoking
// user is the only member, so commands there only affect their own scope).
// A roster lookup failure fails closed: authorization that cannot be
// confirmed is denied.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			msg := update.Message
			if msg == nil || msg.From == nil {
				return
			}
			if msg.Chat.Type == models.ChatTypePrivate {
				next(ctx, b, update)
				return
			}

			log := deps.Logger.With("middleware", "admin_only")

			isAdmin, err := deps.Admins.IsAdmin(ctx, msg.Chat.ID, msg.From.ID)
			if err != nil {
				log.WarnContext(ctx, "Admin check failed, denying command",
					"chat_id", msg.Chat.ID, "user_id", msg.From.ID, "error", err)
				if sendErr := deps.Client.SendMessage(ctx, msg.Chat.ID, msgAccessDenied); sendErr != nil {
					log.WarnContext(ctx, "Failed to send denial message", "chat_id", msg.Chat.ID, "error", sendErr)
				}
				return
			}
			if !isAdmin {
				log.InfoContext(ctx, "Unauthorized command attempt",
					"chat_id", msg.Chat.ID, "user_id", msg.From.ID)
				if err := deps.Client.SendMessage(ctx, msg.Chat.ID, msgAccessDenied); err != nil {
					log.WarnContext(ctx, "Failed to send denial message", "chat_id", msg.Chat.ID, "error", err)
				}
				return
			}

			next(ctx, b, update)
		}
	}
}
