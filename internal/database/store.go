package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the persistence operations the bot consumes: per-chat
// settings, append-only audit/failure logs, and membership bookkeeping.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// FindSetting reads a stored setting. found is false when no record
	// exists for (chatID, key); callers supply their own default then.
	FindSetting(ctx context.Context, chatID int64, key string) (value bool, found bool, err error)

	// UpsertSetting writes a setting keyed by (chatID, key). Repeated writes
	// of the same value are idempotent.
	UpsertSetting(ctx context.Context, chatID int64, key string, value bool) error

	// AppendEvent appends an audit-log record for a successful action.
	AppendEvent(ctx context.Context, rec *Event) error

	// AppendFailure appends a record for a failed action attempt.
	AppendFailure(ctx context.Context, rec *Failure) error

	// UpsertUserSeen records that a user was observed, updating last_seen.
	UpsertUserSeen(ctx context.Context, rec *UserSeen) error

	// UpsertChatSeen records that a chat was observed, updating last_seen.
	UpsertChatSeen(ctx context.Context, rec *ChatSeen) error

	// CountActionsBetween counts distinct chats and deleted-or-kicked
	// messages in the half-open interval [start, end).
	CountActionsBetween(ctx context.Context, start, end time.Time) (chats int, messages int, err error)

	// DeleteEventsBefore prunes audit records older than cutoff.
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteFailuresBefore prunes failure records older than cutoff.
	DeleteFailuresBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements Store using sqlx over SQLite.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by a connected sqlx.DB.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) FindSetting(ctx context.Context, chatID int64, key string) (bool, bool, error) {
	if key == "" {
		return false, false, fmt.Errorf("setting key cannot be empty")
	}

	var setting ChatSetting
	query := `SELECT id, created_at, updated_at, chat_id, key, value
	          FROM chat_settings WHERE chat_id = ? AND key = ?`

	err := s.db.GetContext(ctx, &setting, query, chatID, key)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, false, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error reading chat setting", "chat_id", chatID, "key", key, "error", err)
		return false, false, fmt.Errorf("failed to read setting %q for chat %d: %w", key, chatID, err)
	}

	return setting.Value, true, nil
}

func (s *sqlxStore) UpsertSetting(ctx context.Context, chatID int64, key string, value bool) error {
	if key == "" {
		return fmt.Errorf("setting key cannot be empty")
	}

	now := time.Now().UTC()
	query := `
        INSERT INTO chat_settings (chat_id, key, value, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(chat_id, key) DO UPDATE SET
            value = excluded.value,
            updated_at = excluded.updated_at;
    `

	if _, err := s.db.ExecContext(ctx, query, chatID, key, value, now, now); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting chat setting", "chat_id", chatID, "key", key, "error", err)
		return fmt.Errorf("failed to upsert setting %q for chat %d: %w", key, chatID, err)
	}

	s.logger.DebugContext(ctx, "Chat setting saved", "chat_id", chatID, "key", key, "value", value)
	return nil
}

func (s *sqlxStore) AppendEvent(ctx context.Context, rec *Event) error {
	if rec == nil {
		return fmt.Errorf("cannot append nil event")
	}
	if rec.Date.IsZero() {
		rec.Date = time.Now().UTC()
	}

	query := `
        INSERT INTO events (date, chat_id, user_id, action, reason, text, msg_json)
        VALUES (:date, :chat_id, :user_id, :action, :reason, :text, :msg_json);
    `

	result, err := s.db.NamedExecContext(ctx, query, rec)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error appending audit event", "chat_id", rec.ChatID, "action", rec.Action, "error", err)
		return fmt.Errorf("failed to append audit event (chat %d): %w", rec.ChatID, err)
	}
	if id, err := result.LastInsertId(); err == nil {
		rec.ID = uint(id)
	}

	s.logger.DebugContext(ctx, "Audit event appended",
		"chat_id", rec.ChatID, "user_id", rec.UserID, "action", rec.Action, "reason", rec.Reason)
	return nil
}

func (s *sqlxStore) AppendFailure(ctx context.Context, rec *Failure) error {
	if rec == nil {
		return fmt.Errorf("cannot append nil failure")
	}
	if rec.Date.IsZero() {
		rec.Date = time.Now().UTC()
	}

	query := `
        INSERT INTO failures (date, error, stack, msg_json)
        VALUES (:date, :error, :stack, :msg_json);
    `

	result, err := s.db.NamedExecContext(ctx, query, rec)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error appending failure record", "error", err)
		return fmt.Errorf("failed to append failure record: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		rec.ID = uint(id)
	}

	s.logger.DebugContext(ctx, "Failure record appended", "failure", rec.Error)
	return nil
}

func (s *sqlxStore) UpsertUserSeen(ctx context.Context, rec *UserSeen) error {
	if rec == nil {
		return fmt.Errorf("cannot upsert nil user record")
	}

	now := time.Now().UTC()
	if rec.FirstSeen.IsZero() {
		rec.FirstSeen = now
	}
	if rec.LastSeen.IsZero() {
		rec.LastSeen = now
	}

	query := `
        INSERT INTO users_seen (user_id, username, first_name, last_name, is_bot, first_seen, last_seen)
        VALUES (:user_id, :username, :first_name, :last_name, :is_bot, :first_seen, :last_seen)
        ON CONFLICT(user_id) DO UPDATE SET
            username = excluded.username,
            first_name = excluded.first_name,
            last_name = excluded.last_name,
            is_bot = excluded.is_bot,
            last_seen = excluded.last_seen;
    `

	if _, err := s.db.NamedExecContext(ctx, query, rec); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting user record", "user_id", rec.UserID, "error", err)
		return fmt.Errorf("failed to upsert user %d: %w", rec.UserID, err)
	}
	return nil
}

func (s *sqlxStore) UpsertChatSeen(ctx context.Context, rec *ChatSeen) error {
	if rec == nil {
		return fmt.Errorf("cannot upsert nil chat record")
	}

	now := time.Now().UTC()
	if rec.FirstSeen.IsZero() {
		rec.FirstSeen = now
	}
	if rec.LastSeen.IsZero() {
		rec.LastSeen = now
	}

	query := `
        INSERT INTO chats_seen (chat_id, type, title, first_seen, last_seen)
        VALUES (:chat_id, :type, :title, :first_seen, :last_seen)
        ON CONFLICT(chat_id) DO UPDATE SET
            type = excluded.type,
            title = excluded.title,
            last_seen = excluded.last_seen;
    `

	if _, err := s.db.NamedExecContext(ctx, query, rec); err != nil {
		s.logger.ErrorContext(ctx, "Error upserting chat record", "chat_id", rec.ChatID, "error", err)
		return fmt.Errorf("failed to upsert chat %d: %w", rec.ChatID, err)
	}
	return nil
}

func (s *sqlxStore) CountActionsBetween(ctx context.Context, start, end time.Time) (int, int, error) {
	var row struct {
		Chats    int `db:"chats"`
		Messages int `db:"messages"`
	}
	query := `
        SELECT COUNT(DISTINCT chat_id) AS chats, COUNT(*) AS messages
        FROM events
        WHERE date >= ? AND date < ?;
    `

	if err := s.db.GetContext(ctx, &row, query, start, end); err != nil {
		s.logger.ErrorContext(ctx, "Error counting moderation actions", "start", start, "end", end, "error", err)
		return 0, 0, fmt.Errorf("failed to count actions between %s and %s: %w", start, end, err)
	}
	return row.Chats, row.Messages, nil
}

func (s *sqlxStore) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE date < ?`, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error pruning audit events", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to prune events before %s: %w", cutoff, err)
	}
	count, _ := result.RowsAffected()
	if count > 0 {
		s.logger.InfoContext(ctx, "Pruned audit events", "count", count, "cutoff", cutoff)
	}
	return count, nil
}

func (s *sqlxStore) DeleteFailuresBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM failures WHERE date < ?`, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error pruning failure records", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to prune failures before %s: %w", cutoff, err)
	}
	count, _ := result.RowsAffected()
	if count > 0 {
		s.logger.InfoContext(ctx, "Pruned failure records", "count", count, "cutoff", cutoff)
	}
	return count, nil
}

// RunSQLMaintenance executes a VACUUM; SQLite requires it outside a transaction.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}
