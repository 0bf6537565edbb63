package database

import "time"

// ChatSetting is one per-chat boolean policy value, keyed by (chat_id, key).
// Keys are either a tag allow flag ("is_allowed_<tag>") or a general policy
// setting such as "notify_actions".
type ChatSetting struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	ChatID int64  `db:"chat_id"`
	Key    string `db:"key"`
	Value  bool   `db:"value"`
}

// Event is an audit-log record of a successfully executed moderation action.
// Append-only; the decision engine never reads these back.
type Event struct {
	ID uint `db:"id"`

	Date    time.Time `db:"date"`
	ChatID  int64     `db:"chat_id"`
	UserID  int64     `db:"user_id"`
	Action  string    `db:"action"` // "delete" or "kick"
	Reason  string    `db:"reason"`
	Text    string    `db:"text"`
	MsgJSON string    `db:"msg_json"`
}

// Failure is a record of an attempted-but-failed moderation action.
type Failure struct {
	ID uint `db:"id"`

	Date    time.Time `db:"date"`
	Error   string    `db:"error"`
	Stack   string    `db:"stack"`
	MsgJSON string    `db:"msg_json"`
}

// UserSeen is a denormalized record of a user observed in any chat.
type UserSeen struct {
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	IsBot     bool      `db:"is_bot"`
	FirstSeen time.Time `db:"first_seen"`
	LastSeen  time.Time `db:"last_seen"`
}

// ChatSeen is a record of a chat the bot has observed a message in.
type ChatSeen struct {
	ChatID    int64     `db:"chat_id"`
	Type      string    `db:"type"`
	Title     string    `db:"title"`
	FirstSeen time.Time `db:"first_seen"`
	LastSeen  time.Time `db:"last_seen"`
}
