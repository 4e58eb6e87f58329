package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Gemini oracle (optional; the deterministic engine is the fallback).
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Active venue. When the venue exists in the catalog store its stored
	// config wins; these are the defaults otherwise.
	VenueID          string  `mapstructure:"VENUE_ID"`
	VenueURL         string  `mapstructure:"VENUE_URL"`
	CourtCount       int     `mapstructure:"COURT_COUNT"`
	OpeningTime      string  `mapstructure:"OPENING_TIME"` // HH:MM
	ClosingTime      string  `mapstructure:"CLOSING_TIME"`
	AllowedDurations string  `mapstructure:"ALLOWED_DURATIONS"` // comma-separated minutes
	StepMinutes      int     `mapstructure:"STEP_MINUTES"`
	ClusterTolerance float64 `mapstructure:"CLUSTER_TOLERANCE"`
	FlexibilityMins  int     `mapstructure:"FLEXIBILITY_MINUTES"`
	MaxAlternatives  int     `mapstructure:"MAX_ALTERNATIVES"`

	// Year assumed for dates written without one ("9th September").
	// Zero means "the current year".
	DefaultYear int `mapstructure:"DEFAULT_YEAR"`

	// Browser automation.
	Headless       bool `mapstructure:"HEADLESS"`
	ScanTimeoutSec int  `mapstructure:"SCAN_TIMEOUT_SEC"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("VENUE_ID", "occ-main")
	viper.SetDefault("VENUE_URL", "https://ocbadminton.skedda.com/booking")
	viper.SetDefault("COURT_COUNT", 8)
	viper.SetDefault("OPENING_TIME", "08:00")
	viper.SetDefault("CLOSING_TIME", "21:00")
	viper.SetDefault("ALLOWED_DURATIONS", "60,90,120,180,240")
	viper.SetDefault("STEP_MINUTES", 30)
	viper.SetDefault("CLUSTER_TOLERANCE", 10.0)
	viper.SetDefault("FLEXIBILITY_MINUTES", 30)
	viper.SetDefault("MAX_ALTERNATIVES", 3)
	viper.SetDefault("DEFAULT_YEAR", 0)
	viper.SetDefault("HEADLESS", true)
	viper.SetDefault("SCAN_TIMEOUT_SEC", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
