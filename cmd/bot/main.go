// The watchdog bot moderates Telegram group chats: incoming messages are
// classified by content type, checked against per-chat policy, and removed
// (or, for joining bots, kicked) when blocked.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram/bot"

	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/bot"
	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/bot/handlers"
	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/bot/tasks"
	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/config"
	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/database"
	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/logger"
	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/moderation"
	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/telegram"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Configuration loaded", "config_path", *configPath, "mode", cfg.Telegram.Mode)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.CloseDB(db)

	store := database.NewStore(db, log)
	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// The platform client is created unbound and attached to the bot instance
	// below; handlers only ever see the client.
	client := telegram.NewClient(log)

	settings := moderation.NewSettings(store, log)
	roster := moderation.NewRoster(client, cfg.Moderation.AdminCacheTTL, log)
	engine := moderation.NewEngine(roster, settings, log)
	executor := moderation.NewExecutor(client, store, settings, log)

	deps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Store:    store,
		Client:   client,
		Admins:   roster,
		Settings: settings,
		Engine:   engine,
		Executor: executor,
	}

	botOpts := []tgbotapi.Option{
		tgbotapi.WithMiddlewares(logger.Middleware(log)),
		tgbotapi.WithDefaultHandler(handlers.NewWatchHandler(deps)),
	}

	tgBot, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}
	client.Bind(tgBot)

	self, err := tgBot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch bot identity: %w", err)
	}
	cfg.Telegram.BotID = self.ID
	log.Info("Bot identity resolved", "bot_id", self.ID, "username", self.Username)

	if err := telegram.RegisterHandlers(tgBot, log, handlers.RegisterAllCommands(deps)); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Config: cfg,
		Store:  store,
	})

	scheduler, err := bot.NewScheduler(log, &cfg.Scheduler, taskMap)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	orchestrator := bot.NewBot(log, cfg, db, store, tgBot, scheduler)
	return orchestrator.Run(ctx)
}
