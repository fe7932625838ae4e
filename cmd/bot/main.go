package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"energy-accounting-bot/config"
	tgDelivery "energy-accounting-bot/internal/entry/delivery/telegram"
	"energy-accounting-bot/internal/entry/repository/postgres"
	"energy-accounting-bot/internal/entry/session"
	"energy-accounting-bot/internal/entry/usecase"
	"energy-accounting-bot/internal/httpserver"
	"energy-accounting-bot/internal/model"
	"energy-accounting-bot/internal/report"
	"energy-accounting-bot/internal/scheduler"
	"energy-accounting-bot/pkg/log"
	"energy-accounting-bot/pkg/openai"
	"energy-accounting-bot/pkg/telegram"
)

// @title       Energy Accounting Bot API
// @description Telegram bot that turns free-form work narration into confirmed, persisted energy accounting entries.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration (.env is optional, real env vars win)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Energy Accounting Bot...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	if cfg.Telegram.BotToken == "" || cfg.OpenAI.APIKey == "" || cfg.Postgres.DatabaseURL == "" {
		logger.Error(ctx, "TELEGRAM_BOT_TOKEN, OPENAI_API_KEY and DATABASE_URL are required")
		return
	}

	groups := make([]model.Group, 0, len(cfg.Groups))
	for _, g := range cfg.Groups {
		groups = append(groups, model.Group{ID: g.ID, ThreadID: g.ThreadID, Label: g.Label})
	}
	if len(groups) == 0 {
		logger.Warn(ctx, "No groups configured: every user will be told they have nowhere to report")
	}

	// 3. Storage
	db, err := postgres.Open(ctx, cfg.Postgres.DatabaseURL)
	if err != nil {
		logger.Error(ctx, "Failed to connect to Postgres: ", err)
		return
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Error(ctx, "Failed to run migrations: ", err)
		return
	}
	entryRepo := postgres.New(db, logger)

	// 4. External clients
	telegramBot := telegram.NewBot(cfg.Telegram.BotToken)
	telegramBot.SetUsername(cfg.Telegram.BotUsername)

	openaiClient := openai.NewClient(cfg.OpenAI.APIKey)
	if cfg.OpenAI.APIURL != "" {
		openaiClient.SetAPIURL(cfg.OpenAI.APIURL)
	}
	if cfg.OpenAI.ChatModel != "" {
		openaiClient.SetChatModel(cfg.OpenAI.ChatModel)
	}

	// 5. Entry domain
	sessionTTL, err := time.ParseDuration(cfg.Session.TTL)
	if err != nil {
		logger.Warnf(ctx, "Invalid session TTL %q, falling back to 1h: %v", cfg.Session.TTL, err)
		sessionTTL = time.Hour
	}
	sessions := session.NewStore(sessionTTL)

	membership := tgDelivery.NewMembership(logger, telegramBot, groups)
	broadcaster := tgDelivery.NewBroadcaster(telegramBot)

	entryUC := usecase.New(logger, openaiClient, membership, broadcaster, entryRepo, sessions)

	// 6. Reports and reminders
	reportInterval, err := time.ParseDuration(cfg.Schedule.ReportInterval)
	if err != nil {
		logger.Warnf(ctx, "Invalid report interval %q, falling back to 168h: %v", cfg.Schedule.ReportInterval, err)
		reportInterval = 7 * 24 * time.Hour
	}
	reportService := report.NewService(logger, entryRepo, broadcaster, groups, reportInterval)
	reminder := tgDelivery.NewReminder(logger, telegramBot, groups)

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.Schedule.Timezone, err)
		loc = time.UTC
	}
	remindAt, err := parseTimeOfDay(cfg.Schedule.RemindAt)
	if err != nil {
		logger.Warnf(ctx, "Invalid remind_at %q, falling back to 17:00: %v", cfg.Schedule.RemindAt, err)
		remindAt = scheduler.TimeOfDay{Hour: 17}
	}
	reportAt, err := parseTimeOfDay(cfg.Schedule.ReportAt)
	if err != nil {
		logger.Warnf(ctx, "Invalid report_at %q, falling back to 18:00: %v", cfg.Schedule.ReportAt, err)
		reportAt = scheduler.TimeOfDay{Hour: 18}
	}
	reportWeekday, err := parseWeekday(cfg.Schedule.ReportWeekday)
	if err != nil {
		logger.Warnf(ctx, "Invalid report_weekday %q, falling back to Sunday: %v", cfg.Schedule.ReportWeekday, err)
		reportWeekday = time.Sunday
	}

	jobs := scheduler.New(logger, loc, remindAt, reportAt, reportWeekday, reminder.SendAll, reportService.BroadcastAll)
	go jobs.Run(ctx)

	// 7. Telegram delivery
	telegramHandler := tgDelivery.New(logger, entryUC, telegramBot, openaiClient, reportService)

	if cfg.Telegram.WebhookURL != "" {
		if whErr := telegramBot.SetWebhook(cfg.Telegram.WebhookURL); whErr != nil {
			logger.Warnf(ctx, "Failed to set Telegram webhook: %v", whErr)
		} else {
			logger.Infof(ctx, "Telegram webhook registered at %s", cfg.Telegram.WebhookURL)
		}
	}

	// 8. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		RateLimitPerMin: cfg.HTTPServer.RateLimitPerMin,
		TelegramHandler: telegramHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 9. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

// parseTimeOfDay parses an "HH:MM" wall-clock string.
func parseTimeOfDay(s string) (scheduler.TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return scheduler.TimeOfDay{}, fmt.Errorf("expected HH:MM, got %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return scheduler.TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return scheduler.TimeOfDay{Hour: hour, Minute: minute}, nil
}

// parseWeekday maps a weekday name to time.Weekday.
func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s == d.String() {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
