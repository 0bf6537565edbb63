package handlers_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/bot/handlers"
	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/config"
	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/database"
	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/moderation"
)

// fakeStore implements database.Store in memory.
type fakeStore struct {
	mu       sync.Mutex
	settings map[string]bool
	events   []*database.Event
	failures []*database.Failure
	users    map[int64]*database.UserSeen
	chats    map[int64]*database.ChatSeen

	countErr   error
	countCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		settings: make(map[string]bool),
		users:    make(map[int64]*database.UserSeen),
		chats:    make(map[int64]*database.ChatSeen),
	}
}

func settingKey(chatID int64, key string) string {
	return fmt.Sprintf("%d/%s", chatID, key)
}

func (s *fakeStore) Ping(context.Context) error { return nil }

func (s *fakeStore) FindSetting(_ context.Context, chatID int64, key string) (bool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, found := s.settings[settingKey(chatID, key)]
	return value, found, nil
}

func (s *fakeStore) UpsertSetting(_ context.Context, chatID int64, key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[settingKey(chatID, key)] = value
	return nil
}

func (s *fakeStore) AppendEvent(_ context.Context, rec *database.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, rec)
	return nil
}

func (s *fakeStore) AppendFailure(_ context.Context, rec *database.Failure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, rec)
	return nil
}

func (s *fakeStore) UpsertUserSeen(_ context.Context, rec *database.UserSeen) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[rec.UserID] = rec
	return nil
}

func (s *fakeStore) UpsertChatSeen(_ context.Context, rec *database.ChatSeen) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[rec.ChatID] = rec
	return nil
}

func (s *fakeStore) CountActionsBetween(context.Context, time.Time, time.Time) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countCalls++
	if s.countErr != nil {
		return 0, 0, s.countErr
	}
	return 2, 5, nil
}

func (s *fakeStore) DeleteEventsBefore(context.Context, time.Time) (int64, error)   { return 0, nil }
func (s *fakeStore) DeleteFailuresBefore(context.Context, time.Time) (int64, error) { return 0, nil }
func (s *fakeStore) RunSQLMaintenance(context.Context) error                        { return nil }

// fakeClient implements moderation.ChatClient.
type fakeClient struct {
	mu      sync.Mutex
	sent    []string
	deleted []int
	kicked  []int64
}

func (c *fakeClient) SendMessage(_ context.Context, _ int64, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, text)
	return nil
}

func (c *fakeClient) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, messageID)
	return nil
}

func (c *fakeClient) KickMember(_ context.Context, _ int64, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kicked = append(c.kicked, userID)
	return nil
}

func (c *fakeClient) lastSent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		return ""
	}
	return c.sent[len(c.sent)-1]
}

// fakeAdmins implements moderation.AdminChecker.
type fakeAdmins struct {
	admins map[int64]bool
	err    error
}

func (a *fakeAdmins) IsAdmin(_ context.Context, _ int64, userID int64) (bool, error) {
	if a.err != nil {
		return false, a.err
	}
	return a.admins[userID], nil
}

type testEnv struct {
	deps   handlers.HandlerDeps
	store  *fakeStore
	client *fakeClient
	admins *fakeAdmins
}

func newTestEnv() *testEnv {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newFakeStore()
	client := &fakeClient{}
	admins := &fakeAdmins{admins: map[int64]bool{}}
	settings := moderation.NewSettings(store, log)

	cfg := &config.Config{}
	cfg.Telegram.CommandPrefix = "watchdog"
	cfg.Telegram.Operators = []int64{99}
	cfg.Telegram.BotID = 777

	deps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Store:    store,
		Client:   client,
		Admins:   admins,
		Settings: settings,
		Engine:   moderation.NewEngine(admins, settings, log),
		Executor: moderation.NewExecutor(client, store, settings, log),
	}

	return &testEnv{deps: deps, store: store, client: client, admins: admins}
}

func commandUpdate(chatID, userID int64, text string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			ID:   10,
			Chat: models.Chat{ID: chatID, Type: models.ChatTypeSupergroup},
			From: &models.User{ID: userID, FirstName: "Ann"},
			Text: text,
		},
	}
}

func TestTagPolicyHandlers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		block       bool
		text        string
		wantReply   string
		wantValue   *bool
		wantSetting string
	}{
		{
			name:        "block link",
			block:       true,
			text:        "/watchdog_block link",
			wantReply:   `Content "link" is now blocked in this chat`,
			wantValue:   boolPtr(false),
			wantSetting: "is_allowed_link",
		},
		{
			name:        "allow sticker",
			block:       false,
			text:        "/watchdog_allow sticker",
			wantReply:   `Content "sticker" is now allowed in this chat`,
			wantValue:   boolPtr(true),
			wantSetting: "is_allowed_sticker",
		},
		{
			name:      "unknown tag",
			block:     true,
			text:      "/watchdog_block spam",
			wantReply: "Invalid command",
		},
		{
			name:      "missing argument",
			block:     true,
			text:      "/watchdog_block",
			wantReply: "Invalid command",
		},
		{
			name:      "too many arguments",
			block:     true,
			text:      "/watchdog_block link sticker",
			wantReply: "Invalid command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv()
			handler := handlers.NewBlockHandler(env.deps)
			if !tt.block {
				handler = handlers.NewAllowHandler(env.deps)
			}

			handler(context.Background(), nil, commandUpdate(100, 5, tt.text))

			if got := env.client.lastSent(); got != tt.wantReply {
				t.Errorf("reply = %q, want %q", got, tt.wantReply)
			}
			if tt.wantValue != nil {
				value, found, err := env.store.FindSetting(context.Background(), 100, tt.wantSetting)
				if err != nil {
					t.Fatalf("FindSetting() returned error: %v", err)
				}
				if !found || value != *tt.wantValue {
					t.Errorf("stored %s = (%v, %v), want (%v, true)", tt.wantSetting, value, found, *tt.wantValue)
				}
			} else if len(env.store.settings) != 0 {
				t.Errorf("settings written on invalid command: %v", env.store.settings)
			}
		})
	}
}

func TestSetHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		wantReply string
	}{
		{
			name:      "notify off",
			text:      "/watchdog_set notify_actions=no",
			wantReply: `Setting "notify_actions" has been set to NO`,
		},
		{
			name:      "notify on",
			text:      "/watchdog_set notify_actions=yes",
			wantReply: `Setting "notify_actions" has been set to YES`,
		},
		{
			name:      "bad value",
			text:      "/watchdog_set notify_actions=maybe",
			wantReply: "Invalid command",
		},
		{
			name:      "unknown key",
			text:      "/watchdog_set is_allowed_link=no",
			wantReply: "Invalid command",
		},
		{
			name:      "not a pair",
			text:      "/watchdog_set notify_actions",
			wantReply: "Invalid command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv()
			handler := handlers.NewSetHandler(env.deps)
			handler(context.Background(), nil, commandUpdate(100, 5, tt.text))

			if got := env.client.lastSent(); got != tt.wantReply {
				t.Errorf("reply = %q, want %q", got, tt.wantReply)
			}
		})
	}
}

func TestConfigHandlerReportsPolicy(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	ctx := context.Background()
	if err := env.deps.Settings.Set(ctx, 100, "is_allowed_link", false); err != nil {
		t.Fatalf("Set() returned error: %v", err)
	}

	handler := handlers.NewConfigHandler(env.deps)
	handler(ctx, nil, commandUpdate(100, 5, "/watchdog_config"))

	report := env.client.lastSent()
	if !strings.Contains(report, "notify_actions: YES") {
		t.Errorf("report missing notify_actions default:\n%s", report)
	}
	if !strings.Contains(report, "link: NO") {
		t.Errorf("report missing blocked link state:\n%s", report)
	}
	if !strings.Contains(report, "sticker: YES") {
		t.Errorf("report missing default sticker state:\n%s", report)
	}
	for _, tag := range moderation.AllTags {
		if !strings.Contains(report, string(tag)+": ") {
			t.Errorf("report missing tag %q:\n%s", tag, report)
		}
	}
}

func TestHelpHandlerUsesCommandPrefix(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	handler := handlers.NewHelpHandler(env.deps)
	handler(context.Background(), nil, commandUpdate(100, 5, "/help"))

	text := env.client.lastSent()
	for _, want := range []string{"/watchdog_allow", "/watchdog_block", "/watchdog_set", "/watchdog_config"} {
		if !strings.Contains(text, want) {
			t.Errorf("help text missing %q:\n%s", want, text)
		}
	}
	for _, tag := range moderation.AllTags {
		if !strings.Contains(text, string(tag)) {
			t.Errorf("help text missing tag %q", tag)
		}
	}
}

func boolPtr(v bool) *bool { return &v }
