package tasks

import (
	"log/slog"

	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/config"
	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/database"
)

// TaskDeps provides dependencies for scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
}
