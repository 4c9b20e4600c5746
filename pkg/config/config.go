package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Engine   EngineConfig
	Snapshot SnapshotConfig
	Events   EventsConfig
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MaxOpenConns  int
	MaxIdleConns  int
	AutoMigrate   bool
	MigrationsDir string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig configures verification of tenant bearer tokens. When Enabled is
// false the tenant is read from the tenant header instead.
type JWTConfig struct {
	Enabled      bool
	Secret       string
	TenantHeader string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// EngineConfig tunes schedule and pricing evaluation.
type EngineConfig struct {
	MidnightDayPolicy      string
	DefaultTimezone        string
	UpcomingDefaultMinutes int
}

// SnapshotConfig governs caching of tenant evaluation snapshots.
type SnapshotConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// EventsConfig configures the change-event feed.
type EventsConfig struct {
	Enabled        bool
	Brokers        []string
	Topic          string
	ConsumerGroup  string
	ConsumeEnabled bool
	Workers        int
	MaxRetries     int
	RetryDelay     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:          v.GetString("DB_HOST"),
		Port:          v.GetInt("DB_PORT"),
		User:          v.GetString("DB_USER"),
		Password:      v.GetString("DB_PASSWORD"),
		Name:          v.GetString("DB_NAME"),
		SSLMode:       v.GetString("DB_SSL_MODE"),
		MaxOpenConns:  v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:  v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:   v.GetBool("DB_AUTO_MIGRATE"),
		MigrationsDir: v.GetString("DB_MIGRATIONS_DIR"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Enabled:      v.GetBool("ENABLE_TENANT_JWT"),
		Secret:       v.GetString("JWT_SECRET"),
		TenantHeader: v.GetString("TENANT_HEADER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Engine = EngineConfig{
		MidnightDayPolicy:      v.GetString("MIDNIGHT_DAY_POLICY"),
		DefaultTimezone:        v.GetString("DEFAULT_TIMEZONE"),
		UpcomingDefaultMinutes: v.GetInt("UPCOMING_DEFAULT_MINUTES"),
	}

	cfg.Snapshot = SnapshotConfig{
		CacheEnabled: v.GetBool("ENABLE_SNAPSHOT_CACHE"),
		CacheTTL:     parseDuration(v.GetString("SNAPSHOT_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Events = EventsConfig{
		Enabled:        v.GetBool("ENABLE_EVENTS"),
		Brokers:        splitAndTrim(v.GetString("KAFKA_BROKERS")),
		Topic:          v.GetString("KAFKA_TOPIC"),
		ConsumerGroup:  v.GetString("KAFKA_CONSUMER_GROUP"),
		ConsumeEnabled: v.GetBool("ENABLE_EVENT_CONSUMER"),
		Workers:        v.GetInt("EVENT_WORKERS"),
		MaxRetries:     v.GetInt("EVENT_MAX_RETRIES"),
		RetryDelay:     parseDuration(v.GetString("EVENT_RETRY_DELAY"), time.Second),
	}

	return cfg
}

// Location resolves the default evaluation timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	if c == nil || c.Engine.DefaultTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Engine.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "resto_menu")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("DB_MIGRATIONS_DIR", ".")

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_TENANT_JWT", false)
	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("TENANT_HEADER", "X-Tenant-ID")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("MIDNIGHT_DAY_POLICY", "start_day")
	v.SetDefault("DEFAULT_TIMEZONE", "UTC")
	v.SetDefault("UPCOMING_DEFAULT_MINUTES", 30)

	v.SetDefault("ENABLE_SNAPSHOT_CACHE", true)
	v.SetDefault("SNAPSHOT_CACHE_TTL", "5m")

	v.SetDefault("ENABLE_EVENTS", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "menu-changes")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "resto-menu-api")
	v.SetDefault("ENABLE_EVENT_CONSUMER", false)
	v.SetDefault("EVENT_WORKERS", 2)
	v.SetDefault("EVENT_MAX_RETRIES", 3)
	v.SetDefault("EVENT_RETRY_DELAY", "1s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
