package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Metrics  MetricsConfig
	Report   ReportConfig
	Cache    CacheConfig
	Mail     MailConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URI    string
	DBName string
}

// MetricsConfig holds the tunables of the recompute engine. Every value is
// overridable per deployment; the defaults match the reference policy
// (4-week lookback, 7-day lead time, neutral safety factor, 25th/75th
// percentile velocity cut points).
type MetricsConfig struct {
	LookbackWeeks     int
	LeadTimeDays      int
	SafetyFactor      float64
	FastPercentile    float64
	SlowPercentile    float64
	LowStockThreshold int
	RecomputeTimeout  int // seconds
}

type ReportConfig struct {
	Enabled   bool
	Schedule  string
	Recipient string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	AlertsTTLSeconds int
}

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
		viper.SetDefault("MONGO_DB", "stockpulse")
		viper.SetDefault("METRICS_LOOKBACK_WEEKS", 4)
		viper.SetDefault("METRICS_LEAD_TIME_DAYS", 7)
		viper.SetDefault("METRICS_SAFETY_FACTOR", 1.0)
		viper.SetDefault("METRICS_FAST_PERCENTILE", 0.75)
		viper.SetDefault("METRICS_SLOW_PERCENTILE", 0.25)
		viper.SetDefault("METRICS_LOW_STOCK_THRESHOLD", 5)
		viper.SetDefault("METRICS_RECOMPUTE_TIMEOUT_SECONDS", 300)
		viper.SetDefault("REPORT_ENABLED", true)
		viper.SetDefault("REPORT_SCHEDULE", "0 2 * * 6")
		viper.SetDefault("REPORT_RECIPIENT", "")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_ALERTS_TTL_SECONDS", 60)
		viper.SetDefault("SMTP_HOST", "")
		viper.SetDefault("SMTP_PORT", "587")
		viper.SetDefault("SMTP_USER", "")
		viper.SetDefault("SMTP_PASS", "")
		viper.SetDefault("MAIL_FROM", "")
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "inventory-reports")
		viper.SetDefault("STORAGE_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				URI:    viper.GetString("MONGO_URI"),
				DBName: viper.GetString("MONGO_DB"),
			},
			Metrics: MetricsConfig{
				LookbackWeeks:     viper.GetInt("METRICS_LOOKBACK_WEEKS"),
				LeadTimeDays:      viper.GetInt("METRICS_LEAD_TIME_DAYS"),
				SafetyFactor:      viper.GetFloat64("METRICS_SAFETY_FACTOR"),
				FastPercentile:    viper.GetFloat64("METRICS_FAST_PERCENTILE"),
				SlowPercentile:    viper.GetFloat64("METRICS_SLOW_PERCENTILE"),
				LowStockThreshold: viper.GetInt("METRICS_LOW_STOCK_THRESHOLD"),
				RecomputeTimeout:  viper.GetInt("METRICS_RECOMPUTE_TIMEOUT_SECONDS"),
			},
			Report: ReportConfig{
				Enabled:   viper.GetBool("REPORT_ENABLED"),
				Schedule:  viper.GetString("REPORT_SCHEDULE"),
				Recipient: viper.GetString("REPORT_RECIPIENT"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				AlertsTTLSeconds: viper.GetInt("CACHE_ALERTS_TTL_SECONDS"),
			},
			Mail: MailConfig{
				Host:     viper.GetString("SMTP_HOST"),
				Port:     viper.GetString("SMTP_PORT"),
				Username: viper.GetString("SMTP_USER"),
				Password: viper.GetString("SMTP_PASS"),
				From:     viper.GetString("MAIL_FROM"),
			},
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
		}
	})

	return instance
}
