package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	TelegramToken string `yaml:"telegram_token"`
	AllowedChatID int64  `yaml:"allowed_chat_id"`
	DatabasePath  string `yaml:"database"`
	ReminderTime  string `yaml:"reminder_time"` // HH:MM local, empty disables
	BackupHours   int    `yaml:"backup_interval_hours"`
	BackupDir     string `yaml:"backup_dir"`
	Timezone      string `yaml:"timezone"`

	BackupInterval time.Duration `yaml:"-"` // derived from BackupHours
}

// Load reads configuration from an optional YAML file (SIDEQUEST_CONFIG),
// then applies environment variables on top. A .env file is honored first.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DatabasePath: "sidequest.db",
		BackupDir:    "backups",
	}

	if path := strings.TrimSpace(os.Getenv("SIDEQUEST_CONFIG")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)

	if cfg.ReminderTime != "" {
		if _, _, err := ParseClock(cfg.ReminderTime); err != nil {
			return cfg, fmt.Errorf("reminder time: %w", err)
		}
	}
	if cfg.BackupHours < 0 {
		return cfg, fmt.Errorf("backup interval must not be negative")
	}
	cfg.BackupInterval = time.Duration(cfg.BackupHours) * time.Hour

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")); v != "" {
		cfg.TelegramToken = v
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_CHAT_ID")); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.AllowedChatID = id
		}
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_PATH")); v != "" {
		cfg.DatabasePath = v
	}
	if v := strings.TrimSpace(os.Getenv("REMINDER_TIME")); v != "" {
		cfg.ReminderTime = v
	}
	if v := strings.TrimSpace(os.Getenv("BACKUP_INTERVAL_HOURS")); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			cfg.BackupHours = hours
		}
	}
	if v := strings.TrimSpace(os.Getenv("BACKUP_DIR")); v != "" {
		cfg.BackupDir = v
	}
	if v := strings.TrimSpace(os.Getenv("TIMEZONE")); v != "" {
		cfg.Timezone = v
	}
}

// Location resolves the configured timezone, defaulting to the system zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ParseClock validates an HH:MM string and returns hour and minute.
func ParseClock(value string) (int, int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour, minute, nil
}
