package moderation

import "time"

// SetNowFunc overrides the roster's clock for tests.
func (r *Roster) SetNowFunc(now func() time.Time) {
	r.now = now
}
