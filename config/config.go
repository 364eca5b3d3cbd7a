package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Lock     LockConfig
	Rules    RulesConfig
	Engine   EngineConfig
	Tracing  TracingConfig
}

type ServerConfig struct {
	AppEnv         string
	GRPCPort       string
	HTTPPort       string
	AllowedOrigins []string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	SQLitePath string
	Postgres   PostgresConfig
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type RedisConfig struct {
	// Enabled turns on the catalog listing cache. The redis lock backend
	// requires it.
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	InboundTopic  string
	OutboundTopic string
	GroupID       string
}

type LockConfig struct {
	Backend string // "local" or "redis"
	Timeout time.Duration
	TTL     time.Duration
	Retries int
}

// RulesConfig carries the store's business constants.
type RulesConfig struct {
	CreditCeiling   decimal.Decimal
	PerPersonRation int64
	MinSaleFraction decimal.Decimal
	// DefaultAllowance is the per-person yearly quota by item name, used when a
	// renewal does not supply an allowance.
	DefaultAllowance map[string]int64
}

type EngineConfig struct {
	MaxRetries int
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:         getEnv("APP_ENV", "dev"),
			GRPCPort:       getEnv("GRPC_PORT", ":8082"),
			HTTPPort:       getEnv("HTTP_PORT", ":8080"),
			AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "sqlite"),
			SQLitePath: getEnv("SQLITE_PATH", "./community_store.db"),
			Postgres: PostgresConfig{
				Host:            getEnv("POSTGRES_HOST", "localhost"),
				Port:            getEnv("POSTGRES_PORT", "5433"),
				User:            getEnv("POSTGRES_USER", "omnipos"),
				Password:        getEnv("POSTGRES_PASSWORD", "omnipos"),
				DBName:          getEnv("POSTGRES_DB", "omnipos_community_store"),
				SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
				MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
				MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
				ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
				ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
			},
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled:       getEnvBool("KAFKA_ENABLED", false),
			Brokers:       getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			InboundTopic:  getEnv("KAFKA_TOPIC_BRANCH_EVENTS", "branch.events"),
			OutboundTopic: getEnv("KAFKA_TOPIC_STORE_EVENTS", "store.events"),
			GroupID:       getEnv("KAFKA_GROUP_STORE", "community-store"),
		},
		Lock: LockConfig{
			Backend: getEnv("LOCK_BACKEND", "local"),
			Timeout: getEnvDuration("LOCK_TIMEOUT", 2*time.Second),
			TTL:     getEnvDuration("LOCK_TTL", 5*time.Second),
			Retries: getEnvInt("LOCK_RETRIES", 3),
		},
		Rules: RulesConfig{
			CreditCeiling:    getEnvDecimal("CREDIT_CEILING", decimal.NewFromInt(500)),
			PerPersonRation:  int64(getEnvInt("RATION_PER_PERSON", 100)),
			MinSaleFraction:  getEnvDecimal("MIN_SALE_FRACTION", decimal.RequireFromString("0.5")),
			DefaultAllowance: getEnvQuotas("RATION_DEFAULT_ALLOWANCE", map[string]int64{"Beans": 25, "Maize": 50, "Soap": 20}),
		},
		Engine: EngineConfig{
			MaxRetries: getEnvInt("ENGINE_MAX_RETRIES", 3),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvBool("TRACING_ENABLED", false),
			Endpoint:    getEnv("TRACING_ENDPOINT", "http://localhost:14268/api/traces"),
			ServiceName: getEnv("TRACING_SERVICE_NAME", "omnipos-community-store"),
		},
	}
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Lock.Backend {
	case "local", "redis":
	default:
		return fmt.Errorf("unsupported LOCK_BACKEND %q", c.Lock.Backend)
	}
	if c.Lock.Backend == "redis" && !c.Redis.Enabled {
		return errors.New("LOCK_BACKEND=redis requires REDIS_ENABLED")
	}
	if c.Lock.Timeout <= 0 {
		return errors.New("lock timeout must be positive")
	}
	if !c.Rules.CreditCeiling.IsPositive() {
		return errors.New("credit ceiling must be positive")
	}
	if c.Rules.PerPersonRation <= 0 {
		return errors.New("per-person ration must be positive")
	}
	if c.Rules.MinSaleFraction.IsNegative() || c.Rules.MinSaleFraction.GreaterThan(decimal.NewFromInt(1)) {
		return errors.New("minimum sale fraction must be within [0, 1]")
	}
	if c.Engine.MaxRetries < 0 {
		return errors.New("engine max retries must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvQuotas parses "beans=25,maize=50". A malformed value falls back entirely.
func getEnvQuotas(key string, fallback map[string]int64) map[string]int64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	quotas := make(map[string]int64)
	for _, pair := range strings.Split(value, ",") {
		name, qty, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || name == "" {
			return fallback
		}
		n, err := strconv.ParseInt(qty, 10, 64)
		if err != nil || n < 0 {
			return fallback
		}
		quotas[name] = n
	}
	return quotas
}
