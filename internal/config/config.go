package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Config struct {
	BotToken        string
	DatabaseURL     string
	AuthorizedUsers []int64
	Location        *time.Location

	CommissionRate decimal.Decimal
	CurrencySymbol string

	ReminderHour    int
	ReminderMinute  int
	ReminderOnStart bool

	RedisURL   string
	SessionTTL time.Duration

	MetricsAddr string

	AppEnv   string
	LogLevel string
	LogFile  string
}

// IsAuthorized reports whether the Telegram user may use the bot.
func (c Config) IsAuthorized(telegramID int64) bool {
	for _, id := range c.AuthorizedUsers {
		if id == telegramID {
			return true
		}
	}
	return false
}

func MustLoad() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, relying on process environment")
	}
	cfg, err := Load(os.Getenv)
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	return cfg
}

// Load builds a Config from getenv. Required keys are BOT_TOKEN, DATABASE_URL
// and AUTHORIZED_USERS.
func Load(getenv func(string) string) (Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		BotToken:       env("BOT_TOKEN", ""),
		DatabaseURL:    env("DATABASE_URL", ""),
		CurrencySymbol: env("CURRENCY_SYMBOL", "RD$"),
		RedisURL:       env("REDIS_URL", ""),
		MetricsAddr:    env("METRICS_ADDR", ""),
		AppEnv:         env("APP_ENV", "production"),
		LogLevel:       env("LOG_LEVEL", "info"),
		LogFile:        env("LOG_FILE", ""),
	}
	if cfg.BotToken == "" {
		return Config{}, errors.New("BOT_TOKEN is required")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}

	users, err := parseIDs(env("AUTHORIZED_USERS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("AUTHORIZED_USERS: %w", err)
	}
	if len(users) == 0 {
		return Config{}, errors.New("AUTHORIZED_USERS is required")
	}
	cfg.AuthorizedUsers = users

	loc, err := time.LoadLocation(env("TZ", "America/Santo_Domingo"))
	if err != nil {
		return Config{}, fmt.Errorf("TZ: %w", err)
	}
	cfg.Location = loc

	rate, err := decimal.NewFromString(env("COMMISSION_RATE", "0.05"))
	if err != nil {
		return Config{}, fmt.Errorf("COMMISSION_RATE: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return Config{}, fmt.Errorf("COMMISSION_RATE must be within [0,1], got %s", rate)
	}
	cfg.CommissionRate = rate

	if cfg.ReminderHour, err = intInRange(env("REMINDER_HOUR", "9"), 0, 23); err != nil {
		return Config{}, fmt.Errorf("REMINDER_HOUR: %w", err)
	}
	if cfg.ReminderMinute, err = intInRange(env("REMINDER_MINUTE", "0"), 0, 59); err != nil {
		return Config{}, fmt.Errorf("REMINDER_MINUTE: %w", err)
	}
	if cfg.ReminderOnStart, err = strconv.ParseBool(env("REMINDER_ON_START", "false")); err != nil {
		return Config{}, fmt.Errorf("REMINDER_ON_START: %w", err)
	}

	if cfg.SessionTTL, err = time.ParseDuration(env("SESSION_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}

	return cfg, nil
}

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid telegram id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func intInRange(raw string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%d out of range [%d,%d]", n, lo, hi)
	}
	return n, nil
}
