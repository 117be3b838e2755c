package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// API settings
	APIHost string `mapstructure:"api_host"`
	APIPort int    `mapstructure:"api_port"`

	// Optional SSL settings
	SSLCert string `mapstructure:"ssl_cert"`
	SSLKey  string `mapstructure:"ssl_key"`

	// Optional CORS settings
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Logging
	LogFile   string `mapstructure:"log_file"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // "json" or "console"

	// Control-plane database (users, credentials, ledger, idempotency)
	DBPath string `mapstructure:"db_path"`

	// Client store
	StoreDriver     string        `mapstructure:"store_driver"` // sqlite, memory, mongodb, cosmos
	StoreTimeout    time.Duration `mapstructure:"store_timeout"`
	StoreMaxRetries int           `mapstructure:"store_max_retries"`

	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`

	CosmosConnectionString string `mapstructure:"cosmos_connection_string"`
	CosmosEndpoint         string `mapstructure:"cosmos_endpoint"`
	CosmosDatabase         string `mapstructure:"cosmos_database"`
	CosmosContainer        string `mapstructure:"cosmos_container"`

	// Auth
	AuthEnabled  bool   `mapstructure:"auth_enabled"`
	JWTSecretKey string `mapstructure:"jwt_secret_key"`
	JWTAlgorithm string `mapstructure:"jwt_algorithm"`

	// Idempotency. Records go to Redis when redis_addr is set, else to the control-plane database.
	RedisAddr      string        `mapstructure:"redis_addr"`
	RedisPassword  string        `mapstructure:"redis_password"`
	RedisDB        int           `mapstructure:"redis_db"`
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`

	// Balance events. Publishing is off when amqp_url is empty.
	AMQPURL      string `mapstructure:"amqp_url"`
	AMQPExchange string `mapstructure:"amqp_exchange"`

	// Per-client-IP rate limit. 0 disables it.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	// Housekeeping
	CleanupSchedule     string `mapstructure:"cleanup_schedule"`
	LedgerRetentionDays int    `mapstructure:"ledger_retention_days"` // 0 keeps entries forever

	ConfigPath string
}

const (
	DefaultConfigPath      = "/etc/bankapi/config.yml"
	DefaultDBPath          = "/var/lib/bankapi/db.sqlite3"
	DefaultAPIHost         = "0.0.0.0"
	DefaultAPIPort         = 3000
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultStoreDriver     = "sqlite"
	DefaultStoreTimeout    = 5 * time.Second
	DefaultStoreMaxRetries = 5
	DefaultJWTAlgorithm    = "HS256"
	DefaultIdempotencyTTL  = 24 * time.Hour
	DefaultAMQPExchange    = "bankapi.events"
	DefaultMongoDatabase   = "bankapi"
	DefaultMongoCollection = "clients"
	DefaultCleanupSchedule = "@every 15m"
	EnvPrefix              = "BANKAPI"
)

var (
	validDrivers    = []string{"sqlite", "memory", "mongodb", "cosmos"}
	validAlgorithms = []string{"HS256", "HS384", "HS512"}
	validLogFormats = []string{"json", "console"}
)

// Load reads configuration from the YAML file at configPath, a .env file in the
// working directory and BANKAPI_* environment variables, in increasing priority.
// An empty configPath falls back to DefaultConfigPath, which may be absent.
func Load(configPath string) (*Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath
	}

	// A missing .env is normal outside development
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ConfigPath = configPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys absent from the file
func setDefaults(v *viper.Viper) {
	v.SetDefault("api_host", DefaultAPIHost)
	v.SetDefault("api_port", DefaultAPIPort)
	v.SetDefault("ssl_cert", "")
	v.SetDefault("ssl_key", "")
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("store_driver", DefaultStoreDriver)
	v.SetDefault("store_timeout", DefaultStoreTimeout)
	v.SetDefault("store_max_retries", DefaultStoreMaxRetries)
	v.SetDefault("mongo_uri", "")
	v.SetDefault("mongo_database", DefaultMongoDatabase)
	v.SetDefault("mongo_collection", DefaultMongoCollection)
	v.SetDefault("cosmos_connection_string", "")
	v.SetDefault("cosmos_endpoint", "")
	v.SetDefault("cosmos_database", "")
	v.SetDefault("cosmos_container", "")
	v.SetDefault("auth_enabled", true)
	v.SetDefault("jwt_secret_key", "")
	v.SetDefault("jwt_algorithm", DefaultJWTAlgorithm)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("idempotency_ttl", DefaultIdempotencyTTL)
	v.SetDefault("amqp_url", "")
	v.SetDefault("amqp_exchange", DefaultAMQPExchange)
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 0)
	v.SetDefault("cleanup_schedule", DefaultCleanupSchedule)
	v.SetDefault("ledger_retention_days", 0)
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("api_port must be between 1 and 65535")
	}

	if !oneOf(c.StoreDriver, validDrivers) {
		return fmt.Errorf("store_driver must be one of: %s", strings.Join(validDrivers, ", "))
	}

	if c.StoreDriver != "memory" && c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}

	switch c.StoreDriver {
	case "mongodb":
		if c.MongoURI == "" {
			return fmt.Errorf("mongo_uri is required when store_driver is mongodb")
		}
	case "cosmos":
		if c.CosmosConnectionString == "" && c.CosmosEndpoint == "" {
			return fmt.Errorf("cosmos_connection_string or cosmos_endpoint is required when store_driver is cosmos")
		}
		if c.CosmosDatabase == "" || c.CosmosContainer == "" {
			return fmt.Errorf("cosmos_database and cosmos_container are required when store_driver is cosmos")
		}
	}

	if c.StoreMaxRetries < 0 {
		return fmt.Errorf("store_max_retries must not be negative")
	}

	if c.AuthEnabled && c.JWTSecretKey == "" {
		return fmt.Errorf("jwt_secret_key is required when auth is enabled")
	}

	if !oneOf(c.JWTAlgorithm, validAlgorithms) {
		return fmt.Errorf("jwt_algorithm must be one of: %s", strings.Join(validAlgorithms, ", "))
	}

	if !oneOf(c.LogFormat, validLogFormats) {
		return fmt.Errorf("log_format must be one of: %s", strings.Join(validLogFormats, ", "))
	}

	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate_limit_rps and rate_limit_burst must not be negative")
	}

	if c.LedgerRetentionDays < 0 {
		return fmt.Errorf("ledger_retention_days must not be negative")
	}

	// Validate SSL config if provided
	if c.SSLCert != "" || c.SSLKey != "" {
		if c.SSLCert == "" || c.SSLKey == "" {
			return fmt.Errorf("both ssl_cert and ssl_key must be provided")
		}
		if _, err := os.Stat(c.SSLCert); os.IsNotExist(err) {
			return fmt.Errorf("ssl_cert file does not exist: %s", c.SSLCert)
		}
		if _, err := os.Stat(c.SSLKey); os.IsNotExist(err) {
			return fmt.Errorf("ssl_key file does not exist: %s", c.SSLKey)
		}
	}

	return nil
}

// ListenAddr is the host:port the API server binds to
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}

func (c *Config) IsDevMode() bool {
	return os.Getenv(EnvPrefix+"_DEV_MODE") == "1"
}
