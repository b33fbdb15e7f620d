package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SMYAPP_DATABASE_HOST.
const EnvPrefix = "SMYAPP"

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Outbox       OutboxConfig       `mapstructure:"outbox"`
	Notification NotificationConfig `mapstructure:"notification"`
	SMTP         SMTPConfig         `mapstructure:"smtp"`
	Log          LogConfig          `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	TimeoutSeconds int      `mapstructure:"timeoutSeconds" envconfig:"timeout_seconds"`
	RateLimit      float64  `mapstructure:"rateLimit" envconfig:"rate_limit"`
	RateBurst      int      `mapstructure:"rateBurst" envconfig:"rate_burst"`
	CORSOrigins    []string `mapstructure:"corsOrigins" envconfig:"cors_origins"`
	MaxPageSize    int      `mapstructure:"maxPageSize" envconfig:"max_page_size"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns" envconfig:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns" envconfig:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime" envconfig:"conn_max_lifetime"`
	MigrationsPath  string        `mapstructure:"migrationsPath" envconfig:"migrations_path"`
}

// DSN renders the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// URL renders the postgres:// form used by golang-migrate.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url"`
	PoolSize     int    `mapstructure:"poolSize" envconfig:"pool_size"`
	MinIdleConns int    `mapstructure:"minIdleConns" envconfig:"min_idle_conns"`
	MaxRetries   int    `mapstructure:"maxRetries" envconfig:"max_retries"`
	Channel      string `mapstructure:"channel"`
}

type CacheConfig struct {
	SummaryTTL      time.Duration `mapstructure:"summaryTTL" envconfig:"summary_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanupInterval" envconfig:"cleanup_interval"`
}

type OutboxConfig struct {
	BatchSize     int           `mapstructure:"batchSize" envconfig:"batch_size"`
	PollInterval  time.Duration `mapstructure:"pollInterval" envconfig:"poll_interval"`
	RetryAttempts int           `mapstructure:"retryAttempts" envconfig:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retryDelay" envconfig:"retry_delay"`
	Retention     time.Duration `mapstructure:"retention"`
}

type NotificationConfig struct {
	ReminderCron   string        `mapstructure:"reminderCron" envconfig:"reminder_cron"`
	DispatchCron   string        `mapstructure:"dispatchCron" envconfig:"dispatch_cron"`
	ReminderWindow time.Duration `mapstructure:"reminderWindow" envconfig:"reminder_window"`
	BatchSize      int           `mapstructure:"batchSize" envconfig:"batch_size"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeoutSeconds", 30)
	v.SetDefault("server.rateLimit", 5)
	v.SetDefault("server.rateBurst", 10)
	v.SetDefault("server.corsOrigins", []string{"*"})
	v.SetDefault("server.maxPageSize", 100)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "smyapp")
	v.SetDefault("database.name", "smyapp")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 5*time.Minute)
	v.SetDefault("database.migrationsPath", "migrations")

	v.SetDefault("jwt.issuer", "smyapp")

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("redis.minIdleConns", 2)
	v.SetDefault("redis.maxRetries", 3)
	v.SetDefault("redis.channel", "smyapp.events")

	v.SetDefault("cache.summaryTTL", 10*time.Minute)
	v.SetDefault("cache.cleanupInterval", 15*time.Minute)

	v.SetDefault("outbox.batchSize", 100)
	v.SetDefault("outbox.pollInterval", 5*time.Second)
	v.SetDefault("outbox.retryAttempts", 3)
	v.SetDefault("outbox.retryDelay", time.Second)
	v.SetDefault("outbox.retention", 7*24*time.Hour)

	v.SetDefault("notification.reminderCron", "*/15 * * * *")
	v.SetDefault("notification.dispatchCron", "* * * * *")
	v.SetDefault("notification.reminderWindow", 24*time.Hour)
	v.SetDefault("notification.batchSize", 50)

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "no-reply@smyapp.local")

	v.SetDefault("log.level", "info")
}

// Load reads an optional .env file, then config.yaml from path, "." or
// "./config", then SMYAPP_* environment overrides. A missing config file is
// not an error; defaults apply.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MaxPageSize <= 0 {
		return fmt.Errorf("invalid max page size %d", c.Server.MaxPageSize)
	}
	if c.Outbox.BatchSize <= 0 {
		return fmt.Errorf("invalid outbox batch size %d", c.Outbox.BatchSize)
	}
	return nil
}
