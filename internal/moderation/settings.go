package moderation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// SettingNotifyActions is the chat setting that controls whether the bot
// announces moderation actions in the chat. Defaults to enabled.
const SettingNotifyActions = "notify_actions"

// SettingsStore is the persistence surface the settings cache sits on.
// Implemented by database.Store.
type SettingsStore interface {
	// FindSetting returns the stored value and whether a record exists.
	FindSetting(ctx context.Context, chatID int64, key string) (value bool, found bool, err error)
	// UpsertSetting writes a value keyed by (chatID, key); repeated writes are idempotent.
	UpsertSetting(ctx context.Context, chatID int64, key string, value bool) error
}

type settingRef struct {
	chatID int64
	key    string
}

// Settings is a write-through cache of per-chat boolean settings.
//
// Cache entries never expire for the lifetime of the process; a restart is the
// only invalidation path. This also means Get memoizes the caller's default on
// a store miss, so a later change of the default does not retroactively apply.
// Both are deliberate trade-offs favoring zero store reads on the hot path
// over freshness after out-of-band database edits.
type Settings struct {
	store  SettingsStore
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[settingRef]bool
	locks map[settingRef]*sync.Mutex
}

// NewSettings creates a settings cache backed by the given store.
func NewSettings(store SettingsStore, logger *slog.Logger) *Settings {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Settings{
		store:  store,
		logger: logger.With("component", "settings"),
		cache:  make(map[settingRef]bool),
		locks:  make(map[settingRef]*sync.Mutex),
	}
}

// Get resolves a setting for a chat, reading the store on first access and
// caching the result. A missing record resolves to def, which is cached too.
func (s *Settings) Get(ctx context.Context, chatID int64, key string, def bool) (bool, error) {
	ref := settingRef{chatID: chatID, key: key}

	s.mu.RLock()
	value, ok := s.cache[ref]
	s.mu.RUnlock()
	if ok {
		return value, nil
	}

	lock := s.keyLock(ref)
	lock.Lock()
	defer lock.Unlock()

	// Another goroutine may have filled the entry while we waited.
	s.mu.RLock()
	value, ok = s.cache[ref]
	s.mu.RUnlock()
	if ok {
		return value, nil
	}

	value, found, err := s.store.FindSetting(ctx, chatID, key)
	if err != nil {
		return def, fmt.Errorf("load setting %q for chat %d: %w", key, chatID, err)
	}
	if !found {
		value = def
	}

	s.mu.Lock()
	s.cache[ref] = value
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "Setting loaded", "chat_id", chatID, "key", key, "value", value, "stored", found)
	return value, nil
}

// Set writes a setting through the cache to the store. The cache is updated
// first so concurrent readers in this process see the new value even if the
// store write is still in flight.
func (s *Settings) Set(ctx context.Context, chatID int64, key string, value bool) error {
	ref := settingRef{chatID: chatID, key: key}

	lock := s.keyLock(ref)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	s.cache[ref] = value
	s.mu.Unlock()

	if err := s.store.UpsertSetting(ctx, chatID, key, value); err != nil {
		return fmt.Errorf("store setting %q for chat %d: %w", key, chatID, err)
	}

	s.logger.InfoContext(ctx, "Setting updated", "chat_id", chatID, "key", key, "value", value)
	return nil
}

// keyLock returns the mutex serializing loads and writes for one (chat, key)
// pair. Lock entries are retained; the set is bounded by chats x setting names.
func (s *Settings) keyLock(ref settingRef) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[ref]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[ref] = lock
	}
	return lock
}
