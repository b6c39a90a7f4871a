// Package config reads the course assistant settings from the environment.
// Values may come from the process environment or from a .env file loaded at startup.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

// SessionStoreType selects where session records live.
type SessionStoreType string

const (
	SessionStoreGorm  SessionStoreType = "gorm"
	SessionStoreRedis SessionStoreType = "redis"
)

// GeneratorType selects the answer generation provider.
type GeneratorType string

const (
	GeneratorOpenAI GeneratorType = "openai"
	GeneratorGemini GeneratorType = "gemini"
)

// TopicMode selects how the matched lesson is obtained.
type TopicMode string

const (
	// TopicModeStructured asks the generator to emit the lesson itself.
	TopicModeStructured TopicMode = "structured"
	// TopicModeFreeform matches the lesson locally from a plain-text answer.
	TopicModeFreeform TopicMode = "freeform"
)

// Config holds the runtime settings of the server.
type Config struct {
	Listen string
	Port   int

	Database DatabaseConfig

	SessionSecret string
	SessionStore  SessionStoreType
	SessionMaxAge time.Duration
	SecureCookie  bool

	// RedisAddr is empty when the embedded redis should be used.
	RedisAddr     string
	RedisPassword string

	Generator        GeneratorType
	GeneratorAPIKey  string
	GeneratorModel   string
	GeneratorBaseURL string
	GeneratorTimeout time.Duration
	TopicMode        TopicMode
	CatalogFile      string
	AnswerCacheTTL   time.Duration

	RateLimitPerMinute int
	// TrustedProxies may set the client address through X-Forwarded-For.
	// Empty means forwarding headers are ignored.
	TrustedProxies []string
}

const (
	defaultPort          = 5000
	defaultSessionMaxAge = 24 * time.Hour
	defaultSessionSecret = "course-assistant-secret"
	defaultRateLimit     = 30
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

// LoadEnvFile loads variables from the given .env files into the process
// environment. Missing files are ignored.
func LoadEnvFile(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("COURSEQA_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("COURSEQA_DEBUG") == "true"
}

func IsProduction() bool {
	return os.Getenv("NODE_ENV") == "production" || os.Getenv("COURSEQA_ENV") == "production"
}

// GetLogFolder returns the folder for the log file, or "" when file logging is off.
func GetLogFolder() string {
	return os.Getenv("COURSEQA_LOG_FOLDER")
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("COURSEQA_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "db"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

// Load builds a Config from the environment, applying defaults for unset values.
func Load() (*Config, error) {
	cfg := &Config{
		Listen:             os.Getenv("COURSEQA_LISTEN"),
		Port:               defaultPort,
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		SessionStore:       SessionStoreType(getEnv("COURSEQA_SESSION_STORE", string(SessionStoreGorm))),
		SessionMaxAge:      defaultSessionMaxAge,
		SecureCookie:       IsProduction(),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		Generator:          GeneratorType(getEnv("COURSEQA_GENERATOR", string(GeneratorOpenAI))),
		GeneratorModel:     os.Getenv("COURSEQA_GENERATOR_MODEL"),
		GeneratorBaseURL:   os.Getenv("COURSEQA_GENERATOR_BASE_URL"),
		TopicMode:          TopicMode(getEnv("COURSEQA_TOPIC_MODE", string(TopicModeStructured))),
		CatalogFile:        os.Getenv("COURSEQA_CATALOG_FILE"),
		RateLimitPerMinute: defaultRateLimit,
		TrustedProxies:     getEnvList("COURSEQA_TRUSTED_PROXIES"),
	}
	cfg.Database = *LoadDatabaseConfig()

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = defaultSessionSecret
	}

	switch cfg.Generator {
	case GeneratorGemini:
		cfg.GeneratorAPIKey = os.Getenv("GEMINI_API_KEY")
	default:
		cfg.GeneratorAPIKey = os.Getenv("OPENAI_API_KEY")
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", cfg.Port); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getEnvInt("COURSEQA_RATE_LIMIT", cfg.RateLimitPerMinute); err != nil {
		return nil, err
	}
	if cfg.SessionMaxAge, err = getEnvDuration("COURSEQA_SESSION_MAX_AGE", cfg.SessionMaxAge); err != nil {
		return nil, err
	}
	if cfg.GeneratorTimeout, err = getEnvDuration("COURSEQA_GENERATOR_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.AnswerCacheTTL, err = getEnvDuration("COURSEQA_ANSWER_CACHE_TTL", 0); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that enumerated settings hold known values.
func (c *Config) Validate() error {
	switch c.SessionStore {
	case SessionStoreGorm, SessionStoreRedis:
	default:
		return fmt.Errorf("unsupported session store: %s", c.SessionStore)
	}
	switch c.Generator {
	case GeneratorOpenAI, GeneratorGemini:
	default:
		return fmt.Errorf("unsupported generator: %s", c.Generator)
	}
	switch c.TopicMode {
	case TopicModeStructured, TopicModeFreeform:
	default:
		return fmt.Errorf("unsupported topic mode: %s", c.TopicMode)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("session max age must be positive")
	}
	if IsProduction() && (c.SessionSecret == "" || c.SessionSecret == defaultSessionSecret) {
		return fmt.Errorf("SESSION_SECRET must be set in production")
	}
	return c.Database.ValidateConfig()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
