package handlers_test

import (
	"context"
	"errors"
	"testing"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/bot/handlers"
)

func TestAdminOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		update     *models.Update
		admins     map[int64]bool
		adminErr   error
		wantCalled bool
		wantDenial bool
	}{
		{
			name:       "admin in group passes",
			update:     commandUpdate(100, 5, "/watchdog_block link"),
			admins:     map[int64]bool{5: true},
			wantCalled: true,
		},
		{
			name:       "non-admin in group is denied",
			update:     commandUpdate(100, 6, "/watchdog_block link"),
			admins:     map[int64]bool{5: true},
			wantDenial: true,
		},
		{
			name: "private chat passes without roster lookup",
			update: &models.Update{
				Message: &models.Message{
					Chat: models.Chat{ID: 5, Type: models.ChatTypePrivate},
					From: &models.User{ID: 5},
					Text: "/watchdog_block link",
				},
			},
			adminErr:   errors.New("must not be called"),
			wantCalled: true,
		},
		{
			name:       "roster failure fails closed",
			update:     commandUpdate(100, 5, "/watchdog_block link"),
			adminErr:   errors.New("api down"),
			wantDenial: true,
		},
		{
			name:   "update without message is dropped",
			update: &models.Update{},
		},
		{
			name: "message without sender is dropped",
			update: &models.Update{
				Message: &models.Message{
					Chat: models.Chat{ID: 100, Type: models.ChatTypeSupergroup},
					Text: "/watchdog_block link",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv()
			env.admins.admins = tt.admins
			env.admins.err = tt.adminErr

			called := false
			next := func(context.Context, *tgbot.Bot, *models.Update) { called = true }

			handlers.AdminOnly(env.deps)(next)(context.Background(), nil, tt.update)

			if called != tt.wantCalled {
				t.Errorf("next called = %v, want %v", called, tt.wantCalled)
			}
			denied := env.client.lastSent() == "Access denied"
			if denied != tt.wantDenial {
				t.Errorf("denial sent = %v, want %v (last reply %q)", denied, tt.wantDenial, env.client.lastSent())
			}
		})
	}
}
