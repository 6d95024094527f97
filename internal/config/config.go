package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix            = "SHELVES"
	defaultHTTPAddress   = "0.0.0.0:8080"
	defaultDatabasePath  = "shelves.db"
	defaultStorageDriver = StorageDriverSQLite
	defaultLogLevel      = "info"
	defaultCookieName    = "app_session"
	defaultIssuer        = "shelves"
	defaultRedisPrefix   = "shelves:"
	defaultCatalogURL    = "https://openlibrary.org"
	defaultGeminiURL     = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-2.0-flash-exp"
	defaultTimeoutSecs   = 15
	defaultMaxValueBytes = 5 * 1024 * 1024
)

// Storage drivers accepted by storage.driver.
const (
	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress        string
	HTTPAllowedOrigins []string
	LogLevel           string

	DatabasePath  string
	StorageDriver string
	MaxValueBytes int

	RedisAddress   string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	AuthSigningKey string
	AuthIssuer     string
	AuthCookieName string
	AuthOperators  []string

	CatalogBaseURL        string
	CatalogTimeoutSeconds int
	CatalogSeed           uint64

	GeminiAPIKey         string
	GeminiBaseURL        string
	GeminiModel          string
	GeminiTimeoutSeconds int
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("http.allowed_origins", []string{})
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("storage.driver", defaultStorageDriver)
	configViper.SetDefault("storage.max_value_bytes", defaultMaxValueBytes)
	configViper.SetDefault("redis.address", "")
	configViper.SetDefault("redis.password", "")
	configViper.SetDefault("redis.db", 0)
	configViper.SetDefault("redis.key_prefix", defaultRedisPrefix)
	configViper.SetDefault("auth.signing_secret", "")
	configViper.SetDefault("auth.issuer", defaultIssuer)
	configViper.SetDefault("auth.cookie_name", defaultCookieName)
	configViper.SetDefault("auth.operators", []string{})
	configViper.SetDefault("catalog.base_url", defaultCatalogURL)
	configViper.SetDefault("catalog.timeout_seconds", defaultTimeoutSecs)
	configViper.SetDefault("catalog.seed", 0)
	configViper.SetDefault("gemini.api_key", "")
	configViper.SetDefault("gemini.base_url", defaultGeminiURL)
	configViper.SetDefault("gemini.model", defaultGeminiModel)
	configViper.SetDefault("gemini.timeout_seconds", defaultTimeoutSecs*2)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:           configViper.GetString("http.address"),
		HTTPAllowedOrigins:    trimmedList(configViper.GetStringSlice("http.allowed_origins")),
		LogLevel:              configViper.GetString("log.level"),
		DatabasePath:          configViper.GetString("database.path"),
		StorageDriver:         strings.ToLower(strings.TrimSpace(configViper.GetString("storage.driver"))),
		MaxValueBytes:         configViper.GetInt("storage.max_value_bytes"),
		RedisAddress:          configViper.GetString("redis.address"),
		RedisPassword:         configViper.GetString("redis.password"),
		RedisDB:               configViper.GetInt("redis.db"),
		RedisKeyPrefix:        configViper.GetString("redis.key_prefix"),
		AuthSigningKey:        configViper.GetString("auth.signing_secret"),
		AuthIssuer:            configViper.GetString("auth.issuer"),
		AuthCookieName:        configViper.GetString("auth.cookie_name"),
		AuthOperators:         trimmedList(configViper.GetStringSlice("auth.operators")),
		CatalogBaseURL:        configViper.GetString("catalog.base_url"),
		CatalogTimeoutSeconds: configViper.GetInt("catalog.timeout_seconds"),
		CatalogSeed:           configViper.GetUint64("catalog.seed"),
		GeminiAPIKey:          configViper.GetString("gemini.api_key"),
		GeminiBaseURL:         configViper.GetString("gemini.base_url"),
		GeminiModel:           configViper.GetString("gemini.model"),
		GeminiTimeoutSeconds:  configViper.GetInt("gemini.timeout_seconds"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.AuthSigningKey) == "" {
		return fmt.Errorf("auth.signing_secret is required")
	}
	if strings.TrimSpace(c.AuthCookieName) == "" {
		return fmt.Errorf("auth.cookie_name is required")
	}
	switch c.StorageDriver {
	case StorageDriverSQLite:
		if strings.TrimSpace(c.DatabasePath) == "" {
			return fmt.Errorf("database.path is required for the sqlite storage driver")
		}
	case StorageDriverRedis:
		if strings.TrimSpace(c.RedisAddress) == "" {
			return fmt.Errorf("redis.address is required for the redis storage driver")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("storage.driver must be one of sqlite, redis, memory: got %q", c.StorageDriver)
	}
	if c.MaxValueBytes < 0 {
		return fmt.Errorf("storage.max_value_bytes must not be negative")
	}
	if strings.TrimSpace(c.CatalogBaseURL) == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	return nil
}

func trimmedList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
