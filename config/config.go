package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Firebase service account used for push notifications.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	AdminAlertTopic         string `mapstructure:"ADMIN_ALERT_TOPIC"`

	// Live booking policy.
	ConfirmationWindowMinutes int     `mapstructure:"CONFIRMATION_WINDOW_MINUTES"`
	DefaultServiceRadiusKm    float64 `mapstructure:"DEFAULT_SERVICE_RADIUS_KM"`
	MinAdvanceNoticeMinutes   int     `mapstructure:"MIN_ADVANCE_NOTICE_MINUTES"`
	MaxAdvanceDays            int     `mapstructure:"MAX_ADVANCE_DAYS"`
	VenueCacheTTLMinutes      int     `mapstructure:"VENUE_CACHE_TTL_MINUTES"`

	// "memory" keeps deadline timers in process, "queue" schedules them on asynq.
	DeadlineBackend string `mapstructure:"DEADLINE_BACKEND"`
	// "push" sends FCM directly, "queue" goes through the asynq outbox, "log" only logs.
	NotificationBackend string `mapstructure:"NOTIFICATION_BACKEND"`
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

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "livebooking")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("ADMIN_ALERT_TOPIC", "live-booking-admin")
	viper.SetDefault("CONFIRMATION_WINDOW_MINUTES", 25)
	viper.SetDefault("DEFAULT_SERVICE_RADIUS_KM", 10.0)
	viper.SetDefault("MIN_ADVANCE_NOTICE_MINUTES", 60)
	viper.SetDefault("MAX_ADVANCE_DAYS", 30)
	viper.SetDefault("VENUE_CACHE_TTL_MINUTES", 15)
	viper.SetDefault("DEADLINE_BACKEND", "memory")
	viper.SetDefault("NOTIFICATION_BACKEND", "push")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// ConfirmationWindow is how long an assigned provider has to respond.
func (c Config) ConfirmationWindow() time.Duration {
	return time.Duration(c.ConfirmationWindowMinutes) * time.Minute
}

// MinAdvanceNotice is the shortest lead time accepted for a new booking.
func (c Config) MinAdvanceNotice() time.Duration {
	return time.Duration(c.MinAdvanceNoticeMinutes) * time.Minute
}

// MaxAdvance is the furthest ahead a booking may be requested.
func (c Config) MaxAdvance() time.Duration {
	return time.Duration(c.MaxAdvanceDays) * 24 * time.Hour
}

func (c Config) VenueCacheTTL() time.Duration {
	return time.Duration(c.VenueCacheTTLMinutes) * time.Minute
}
