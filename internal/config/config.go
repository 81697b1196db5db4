package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Store backends
const (
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Store  StoreConfig  `yaml:"store"`
	Redis  RedisConfig  `yaml:"redis"`
	Mongo  MongoConfig  `yaml:"mongo"`
	SQLite SQLiteConfig `yaml:"sqlite"`
	Auth   AuthConfig   `yaml:"auth"`
	AI     *AIConfig    `yaml:"ai"`
	Policy Policy       `yaml:"policy"`
}

type ServerConfig struct {
	Port           string `yaml:"port"`
	AllowedOrigins string `yaml:"allowed_origins"`
	AllowedMethods string `yaml:"allowed_methods"`
	AllowedHeaders string `yaml:"allowed_headers"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
}

type StoreConfig struct {
	Backend string        `yaml:"backend"`
	Timeout time.Duration `yaml:"timeout"`
}

type RedisConfig struct {
	Addr       string        `yaml:"addr"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	ResearcherUsername string        `yaml:"researcher_username"`
	ResearcherPassword string        `yaml:"researcher_password"`
	JWTSecret          string        `yaml:"-"`
	RespondentTokenTTL time.Duration `yaml:"respondent_token_ttl"`
}

// Load builds the configuration from the environment, then overlays the YAML
// file named by INTERVIEWER_CONFIG when it is set.
func Load() (*Config, error) {
	cfg := FromEnv()
	if path := os.Getenv("INTERVIEWER_CONFIG"); path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv returns the environment-only configuration with defaults applied
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET, POST, PUT, DELETE, OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type, Authorization"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", StoreMongo)),
			Timeout: getEnvDuration("STORE_TIMEOUT", 3*time.Second),
		},
		Redis: RedisConfig{
			Addr:       strings.TrimPrefix(getEnv("REDIS_URI", "localhost:6379"), "redis://"),
			SessionTTL: getEnvDuration("SESSION_TTL", time.Hour),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "interviewer"),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "interviewer.db"),
		},
		Auth: AuthConfig{
			ResearcherUsername: getEnv("RESEARCHER_USERNAME", "admin"),
			ResearcherPassword: getEnv("RESEARCHER_PASSWORD", "password123"),
			JWTSecret:          getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
			RespondentTokenTTL: getEnvDuration("RESPONDENT_TOKEN_TTL", 24*time.Hour),
		},
		AI:     DefaultAIConfig(),
		Policy: DefaultPolicy(),
	}
}

// MergeFile overlays values present in a YAML file onto cfg
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "config: read %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "config: parse %s", path)
	}
	c.Store.Backend = strings.ToLower(c.Store.Backend)
	return nil
}

func (c *Config) Validate() error {
	if c.Store.Backend != StoreMongo && c.Store.Backend != StoreSQLite {
		return errors.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Timeout <= 0 {
		return errors.New("config: store timeout must be positive")
	}
	if c.AI == nil {
		return errors.New("config: ai section missing")
	}
	switch c.AI.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderNone:
	default:
		return errors.Errorf("config: unknown ai provider %q", c.AI.Provider)
	}
	return c.Policy.Validate()
}

// AITimeout returns the per-call bound for completion requests
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutMS) * time.Millisecond
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultVal
}
