package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"vocabflash/internal/srs"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken    string
	BotPassword string
	Database    DatabaseConfig
	Study       StudySettings
	Reminder    ReminderSettings
	Log         LogSettings
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// StudySettings controls how study sessions are built and kept
type StudySettings struct {
	SessionLimit int
	OrderPolicy  srs.Policy
	IdleTTL      time.Duration
}

// ReminderSettings controls the daily due-words reminder
type ReminderSettings struct {
	// Time is the UTC wall clock time in HH:MM format
	Time string
}

// LogSettings controls the optional rotated log file
type LogSettings struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		BotPassword: os.Getenv("BOT_PASSWORD"),
		Reminder: ReminderSettings{
			Time: getEnv("REMINDER_TIME", "09:00"),
		},
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.BotPassword == "" {
		return nil, fmt.Errorf("BOT_PASSWORD is required")
	}

	db, err := LoadDatabase()
	if err != nil {
		return nil, err
	}
	cfg.Database = *db

	cfg.Log, err = LoadLog()
	if err != nil {
		return nil, err
	}

	cfg.Study, err = loadStudy()
	if err != nil {
		return nil, err
	}

	if _, err := time.Parse("15:04", cfg.Reminder.Time); err != nil {
		return nil, fmt.Errorf("REMINDER_TIME must be HH:MM: %w", err)
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings
func LoadDatabase() (*DatabaseConfig, error) {
	_ = godotenv.Load()

	db := &DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		Name:     getEnv("DB_NAME", "vocabflash"),
		User:     getEnv("DB_USER", "vocabflash"),
		Password: os.Getenv("DB_PASSWORD"),
	}

	if db.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	return db, nil
}

// LoadLog reads only the log settings. Zero sizes mean rotation defaults.
func LoadLog() (LogSettings, error) {
	_ = godotenv.Load()

	settings := LogSettings{File: os.Getenv("LOG_FILE")}

	var err error
	if settings.MaxSizeMB, err = getEnvInt("LOG_MAX_SIZE_MB", 0); err != nil {
		return LogSettings{}, err
	}
	if settings.MaxBackups, err = getEnvInt("LOG_MAX_BACKUPS", 0); err != nil {
		return LogSettings{}, err
	}
	if settings.MaxAgeDays, err = getEnvInt("LOG_MAX_AGE_DAYS", 0); err != nil {
		return LogSettings{}, err
	}
	return settings, nil
}

func loadStudy() (StudySettings, error) {
	limit, err := strconv.Atoi(getEnv("STUDY_SESSION_LIMIT", strconv.Itoa(srs.DefaultLimit)))
	if err != nil || limit <= 0 {
		return StudySettings{}, fmt.Errorf("STUDY_SESSION_LIMIT must be a positive integer")
	}

	policy, err := srs.ParsePolicy(getEnv("STUDY_ORDER_POLICY", string(srs.PolicyWeighted)))
	if err != nil {
		return StudySettings{}, fmt.Errorf("STUDY_ORDER_POLICY: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("STUDY_SESSION_IDLE_TTL", "2h"))
	if err != nil || ttl <= 0 {
		return StudySettings{}, fmt.Errorf("STUDY_SESSION_IDLE_TTL must be a positive duration")
	}

	return StudySettings{
		SessionLimit: limit,
		OrderPolicy:  policy,
		IdleTTL:      ttl,
	}, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return c.Database.DSN()
}

// DSN returns PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
	)
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
