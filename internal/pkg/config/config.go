package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage drivers selectable at process start.
const (
	DriverMongo = "mongo"
	DriverMySQL = "mysql"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SessionSecret signs admin session tokens. Loaded once; never rotated
	// at runtime (rotation would need a dual-secret transition window).
	SessionSecret string `env:"SESSION_SECRET"`

	Admin   AdminConfig
	Storage StorageConfig
	Mongo   MongoConfig
	MySQL   MySQLConfig
	Redis   RedisConfig
	Limiter LimiterConfig
}

type AdminConfig struct {
	Username string `env:"ADMIN_USER"`
	// Password is compared in constant time when PasswordHash is unset.
	Password string `env:"ADMIN_PASS"`
	// PasswordHash, when set, is a bcrypt hash and takes precedence.
	PasswordHash string `env:"ADMIN_PASS_HASH"`
	// Key authorizes the direct list/export API independently of the
	// cookie session.
	Key        string        `env:"ADMIN_KEY"`
	SessionTTL time.Duration `env:"ADMIN_SESSION_TTL, default=1h"`
}

type StorageConfig struct {
	// Driver selects the repository implementation: "mongo" or "mysql".
	Driver string `env:"STORAGE_DRIVER, default=mongo"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=persian_signup"`
}

type MySQLConfig struct {
	// DSN must include parseTime=true so DATETIME columns scan into
	// time.Time, e.g. "user:pass@tcp(localhost:3306)/signup?parseTime=true".
	DSN          string `env:"MYSQL_DSN"`
	MaxOpenConns int    `env:"MYSQL_MAX_OPEN_CONNS, default=10"`
}

type RedisConfig struct {
	// Addr empty disables Redis entirely (no login throttling).
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type LimiterConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=10"`
	Window      time.Duration `env:"LOGIN_WINDOW, default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("config: SESSION_SECRET is required")
	}
	if cfg.Storage.Driver != DriverMongo && cfg.Storage.Driver != DriverMySQL {
		return nil, fmt.Errorf("config: unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	return &cfg, nil
}
