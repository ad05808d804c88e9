package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Telegram TelegramConfig
	Rewards  RewardsConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// TelegramConfig drives the bot gateway. AdminIDs receive claim alerts and may
// run admin commands; OwnerChannel is where orders and new ads get posted.
type TelegramConfig struct {
	Token              string
	AdminIDs           []int64
	OwnerChannel       string
	PollTimeoutSec     int
	MembershipInterval time.Duration
}

// RewardsConfig holds fallback amounts in cents. Runtime values live in the
// system_settings table and are seeded from these.
type RewardsConfig struct {
	ReferralBonusCents     int64
	BonusMinCents          int64
	BonusMaxCents          int64
	MembershipPenaltyCents int64
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8088"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "file:earnly.db?cache=shared"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "earnly",
		},
		Telegram: TelegramConfig{
			Token:              os.Getenv("TELEGRAM_BOT_TOKEN"),
			AdminIDs:           parseIDList(os.Getenv("TELEGRAM_ADMIN_IDS")),
			OwnerChannel:       getEnv("TELEGRAM_OWNER_CHANNEL", "@YourChannel"),
			PollTimeoutSec:     60,
			MembershipInterval: getEnvDuration("MEMBERSHIP_CHECK_INTERVAL", 10*time.Minute),
		},
		Rewards: RewardsConfig{
			ReferralBonusCents:     400,
			BonusMinCents:          50,
			BonusMaxCents:          500,
			MembershipPenaltyCents: 200,
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// parseIDList parses a comma-separated list of numeric Telegram IDs.
func parseIDList(s string) []int64 {
	if s == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
