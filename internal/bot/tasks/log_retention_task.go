package tasks

import (
	"context"
	"fmt"
	"time"
)

// newLogRetentionTask creates the scheduled task pruning audit and failure
// records older than the configured retention window.
func newLogRetentionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "log_retention")

	return func(ctx context.Context) error {
		cutoff := time.Now().UTC().Add(-deps.Config.Database.LogRetention)
		log.InfoContext(ctx, "Pruning old log records", "cutoff", cutoff)

		events, err := deps.Store.DeleteEventsBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("prune audit events: %w", err)
		}

		failures, err := deps.Store.DeleteFailuresBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("prune failure records: %w", err)
		}

		log.InfoContext(ctx, "Log retention task completed", "events_pruned", events, "failures_pruned", failures)
		return nil
	}
}
