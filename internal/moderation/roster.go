package moderation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultAdminCacheTTL bounds how long a fetched administrator roster is
// reused before the next lookup triggers a refresh.
const DefaultAdminCacheTTL = time.Hour

// AdminLister fetches the administrator user IDs of a chat from the platform.
// Implemented by telegram.Client.
type AdminLister interface {
	ChatAdministrators(ctx context.Context, chatID int64) ([]int64, error)
}

type rosterEntry struct {
	ids       map[int64]struct{}
	fetchedAt time.Time
}

// Roster caches per-chat administrator identity sets with a fixed refresh
// interval. A lookup against a fresh entry does no I/O; a miss or a stale
// entry performs a blocking remote fetch. Concurrent lookups for the same
// stale chat share a single fetch. A fetch failure is returned to the caller
// as-is: there is no retry here, and the call site decides whether to fail
// open or closed.
type Roster struct {
	lister AdminLister
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	entries map[int64]rosterEntry
}

// NewRoster creates an admin roster cache. A non-positive ttl falls back to
// DefaultAdminCacheTTL.
func NewRoster(lister AdminLister, ttl time.Duration, logger *slog.Logger) *Roster {
	if ttl <= 0 {
		ttl = DefaultAdminCacheTTL
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Roster{
		lister:  lister,
		logger:  logger.With("component", "roster"),
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[int64]rosterEntry),
	}
}

// IsAdmin reports whether userID currently holds administrator privilege in
// chatID, refreshing the cached roster first if it is absent or stale.
func (r *Roster) IsAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	r.mu.RLock()
	entry, ok := r.entries[chatID]
	r.mu.RUnlock()

	if ok && r.now().Sub(entry.fetchedAt) < r.ttl {
		_, isAdmin := entry.ids[userID]
		return isAdmin, nil
	}

	entry, err := r.refresh(ctx, chatID)
	if err != nil {
		return false, fmt.Errorf("refresh admin roster for chat %d: %w", chatID, err)
	}
	_, isAdmin := entry.ids[userID]
	return isAdmin, nil
}

// refresh fetches the roster for a chat and replaces the cache entry.
// singleflight collapses concurrent refreshes of the same chat into one
// remote call; late arrivals get the shared result.
func (r *Roster) refresh(ctx context.Context, chatID int64) (rosterEntry, error) {
	v, err, shared := r.group.Do(strconv.FormatInt(chatID, 10), func() (any, error) {
		// A waiter queued behind the winning fetch sees a fresh entry here.
		r.mu.RLock()
		entry, ok := r.entries[chatID]
		r.mu.RUnlock()
		if ok && r.now().Sub(entry.fetchedAt) < r.ttl {
			return entry, nil
		}

		ids, err := r.lister.ChatAdministrators(ctx, chatID)
		if err != nil {
			return rosterEntry{}, err
		}

		set := make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		entry = rosterEntry{ids: set, fetchedAt: r.now()}

		r.mu.Lock()
		r.entries[chatID] = entry
		r.mu.Unlock()

		r.logger.DebugContext(ctx, "Admin roster refreshed", "chat_id", chatID, "admin_count", len(ids))
		return entry, nil
	})
	if err != nil {
		return rosterEntry{}, err
	}
	if shared {
		r.logger.DebugContext(ctx, "Admin roster refresh shared with concurrent lookup", "chat_id", chatID)
	}
	return v.(rosterEntry), nil
}
