package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrMissingValue = errors.New("required environment variable is not set")

type Config struct {
	BotToken  string
	AdminID   int64
	ParentIDs []int64
	DBPath    string

	// Optional catalog file (.xlsx or .csv); the built-in list is used when empty.
	WordsFile  string
	WordsSheet string

	ReminderAfter         time.Duration
	NotificationStartHour int
	NotificationEndHour   int

	PaymentMockDelay time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		DBPath:                "wordwizard.db",
		ReminderAfter:         24 * time.Hour,
		NotificationStartHour: 8,
		NotificationEndHour:   20,
		PaymentMockDelay:      1500 * time.Millisecond,
	}
}

// Load reads the bot configuration from the environment.
func Load() (*Config, error) {
	cfg, err := LoadStorage()
	if err != nil {
		return nil, err
	}

	cfg.BotToken = os.Getenv("BOT_TOKEN")
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("%w: BOT_TOKEN", ErrMissingValue)
	}

	adminIDStr := os.Getenv("ADMIN_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("%w: ADMIN_ID", ErrMissingValue)
	}
	cfg.AdminID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_ID: %w", err)
	}

	cfg.ParentIDs, err = parseIDList(os.Getenv("PARENT_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid PARENT_IDS: %w", err)
	}

	cfg.WordsFile = os.Getenv("WORDS_FILE")
	cfg.WordsSheet = os.Getenv("WORDS_SHEET")

	if v := os.Getenv("REMINDER_AFTER_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("invalid REMINDER_AFTER_HOURS %q", v)
		}
		cfg.ReminderAfter = time.Duration(hours) * time.Hour
	}

	if cfg.NotificationStartHour, err = hourFromEnv("NOTIFICATION_START_HOUR", cfg.NotificationStartHour); err != nil {
		return nil, err
	}
	if cfg.NotificationEndHour, err = hourFromEnv("NOTIFICATION_END_HOUR", cfg.NotificationEndHour); err != nil {
		return nil, err
	}
	if cfg.NotificationStartHour > cfg.NotificationEndHour {
		return nil, fmt.Errorf("notification window %d-%d is empty", cfg.NotificationStartHour, cfg.NotificationEndHour)
	}

	if v := os.Getenv("PAYMENT_MOCK_DELAY_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("invalid PAYMENT_MOCK_DELAY_MS %q", v)
		}
		cfg.PaymentMockDelay = time.Duration(ms) * time.Millisecond
	}

	return cfg, nil
}

// LoadStorage reads only what maintenance tools need.
func LoadStorage() (*Config, error) {
	cfg := DefaultConfig()
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	return cfg, nil
}

func (c *Config) IsParent(userID int64) bool {
	for _, id := range c.ParentIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func hourFromEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	h, err := strconv.Atoi(v)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return h, nil
}

func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
