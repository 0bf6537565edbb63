package handlers

import (
	"log/slog"

	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/config"
	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/database"
	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/moderation"
)

// HandlerDeps provides dependencies for Telegram handlers. Replies go through
// Client rather than the raw bot instance so handlers stay testable.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	Client   moderation.ChatClient
	Admins   moderation.AdminChecker
	Settings *moderation.Settings
	Engine   *moderation.Engine
	Executor *moderation.Executor
}
