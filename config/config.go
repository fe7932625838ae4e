package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Energy accounting specifics
	Telegram TelegramConfig
	OpenAI   OpenAIConfig
	Postgres PostgresConfig
	Session  SessionConfig
	Schedule ScheduleConfig

	// Groups the bot reports into
	Groups []GroupConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port            int
	Mode            string
	RateLimitPerMin int
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type TelegramConfig struct {
	BotToken    string
	BotUsername string
	WebhookURL  string
}

type OpenAIConfig struct {
	APIKey    string
	APIURL    string
	ChatModel string
}

type PostgresConfig struct {
	DatabaseURL string
}

type SessionConfig struct {
	TTL string
}

type ScheduleConfig struct {
	Timezone       string
	RemindAt       string // "HH:MM" wall clock in Timezone
	ReportWeekday  string // e.g. "Sunday"
	ReportAt       string // "HH:MM" wall clock in Timezone
	ReportInterval string // lookback window for the weekly report, e.g. "168h"
}

// GroupConfig names one Telegram group (and optional topic thread) the bot
// serves.
type GroupConfig struct {
	ID       int64
	ThreadID int64
	Label    string
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.HTTPServer.RateLimitPerMin = viper.GetInt("http_server.rate_limit_per_min")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Telegram
	cfg.Telegram.BotToken = viper.GetString("telegram.bot_token")
	cfg.Telegram.BotUsername = viper.GetString("telegram.bot_username")
	cfg.Telegram.WebhookURL = viper.GetString("telegram.webhook_url")
	if tgToken := viper.GetString("telegram_bot_token"); tgToken != "" {
		cfg.Telegram.BotToken = tgToken
	}
	if tgUsername := viper.GetString("telegram_bot_username"); tgUsername != "" {
		cfg.Telegram.BotUsername = tgUsername
	}

	// OpenAI
	cfg.OpenAI.APIKey = viper.GetString("openai.api_key")
	cfg.OpenAI.APIURL = viper.GetString("openai.api_url")
	cfg.OpenAI.ChatModel = viper.GetString("openai.chat_model")
	if openaiKey := viper.GetString("openai_api_key"); openaiKey != "" {
		cfg.OpenAI.APIKey = openaiKey
	}

	// Postgres
	cfg.Postgres.DatabaseURL = viper.GetString("postgres.database_url")
	if dbURL := viper.GetString("database_url"); dbURL != "" {
		cfg.Postgres.DatabaseURL = dbURL
	}

	// Session & Schedule
	cfg.Session.TTL = viper.GetString("session.ttl")
	cfg.Schedule.Timezone = viper.GetString("schedule.timezone")
	cfg.Schedule.RemindAt = viper.GetString("schedule.remind_at")
	cfg.Schedule.ReportWeekday = viper.GetString("schedule.report_weekday")
	cfg.Schedule.ReportAt = viper.GetString("schedule.report_at")
	cfg.Schedule.ReportInterval = viper.GetString("schedule.report_interval")

	// Groups
	if viper.IsSet("groups") {
		groupsRaw := viper.Get("groups")
		if groupsList, ok := groupsRaw.([]interface{}); ok {
			for _, g := range groupsList {
				if groupMap, ok := g.(map[string]interface{}); ok {
					cfg.Groups = append(cfg.Groups, GroupConfig{
						ID:       getInt64FromMap(groupMap, "id"),
						ThreadID: getInt64FromMap(groupMap, "thread_id"),
						Label:    getStringFromMap(groupMap, "label"),
					})
				}
			}
		}
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("http_server.rate_limit_per_min", 60)
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("openai.chat_model", "gpt-3.5-turbo")
	viper.SetDefault("session.ttl", "1h")

	viper.SetDefault("schedule.timezone", "UTC")
	viper.SetDefault("schedule.remind_at", "17:00")
	viper.SetDefault("schedule.report_weekday", "Sunday")
	viper.SetDefault("schedule.report_at", "18:00")
	viper.SetDefault("schedule.report_interval", "168h")
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getInt64FromMap(m map[string]interface{}, key string) int64 {
	if val, ok := m[key]; ok {
		switch v := val.(type) {
		case int:
			return int64(v)
		case int64:
			return v
		case float64:
			return int64(v)
		}
	}
	return 0
}
