package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store backends accepted by STORE_BACKEND.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=true"`

	API       APIConfig
	Store     StoreConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	DevServer DevServerConfig
}

type APIConfig struct {
	BaseURL string        `env:"API_URL,     default=http://localhost:5000/api"`
	Timeout time.Duration `env:"API_TIMEOUT, default=10s"`
}

type StoreConfig struct {
	Backend string `env:"STORE_BACKEND, default=file"`
	Dir     string `env:"STORE_DIR,     default=.storefront"`
}

type RedisConfig struct {
	Addr   string `env:"REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"REDIS_DB,     default=0"`
	Prefix string `env:"REDIS_PREFIX, default=storefront:"`
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database   string `env:"MONGO_DB,         default=storefront"`
	Collection string `env:"MONGO_COLLECTION, default=local_state"`
}

// DevServerConfig configures the local contract server.
type DevServerConfig struct {
	Port      string        `env:"DEVSERVER_PORT, default=5000"`
	JWTSecret string        `env:"JWT_SECRET,     default=dev-secret"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,      default=24h"`

	// Revocations selects where logged-out tokens are kept: memory or redis.
	Revocations string `env:"DEVSERVER_REVOCATIONS, default=memory"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.Store.Backend)
	}
	switch c.DevServer.Revocations {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("config: unknown DEVSERVER_REVOCATIONS %q", c.DevServer.Revocations)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: API_TIMEOUT must be positive, got %s", c.API.Timeout)
	}
	return nil
}
