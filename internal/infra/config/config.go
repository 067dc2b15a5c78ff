package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yanqian/seasonal-tarot/internal/infra/llm"
	"github.com/yanqian/seasonal-tarot/pkg/util"
)

const defaultConfigPath = "configs/config.yaml"

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Gateway     GatewayConfig     `yaml:"gateway"`
	Tarot       TarotConfig       `yaml:"tarot"`
	ConfigStore ConfigStoreConfig `yaml:"configStore"`
	UsageLog    UsageLogConfig    `yaml:"usageLog"`
	Admin       AdminConfig       `yaml:"admin"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// GatewayConfig selects the AI provider and its limits.
type GatewayConfig struct {
	Provider          string            `yaml:"provider"`
	APIKey            string            `yaml:"apiKey"`
	Model             string            `yaml:"model"`
	MaxTokens         int               `yaml:"maxTokens"`
	Temperature       float64           `yaml:"temperature"`
	Timeout           time.Duration     `yaml:"timeout"`
	RelaxedValidation bool              `yaml:"relaxedValidation"`
	BaseURLs          map[string]string `yaml:"baseUrls"`
	TokenEncoding     string            `yaml:"tokenEncoding"`
}

// TarotConfig controls card presentation.
type TarotConfig struct {
	ImageBaseURL string `yaml:"imageBaseUrl"`
}

// ConfigStoreConfig controls where operator supplied gateway settings live.
type ConfigStoreConfig struct {
	Valkey        ValkeyConfig `yaml:"valkey"`
	EncryptionKey string       `yaml:"encryptionKey"`
}

// ValkeyConfig contains connection information for the settings store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// UsageLogConfig controls provider call telemetry storage.
type UsageLogConfig struct {
	MemoryCapacity int            `yaml:"memoryCapacity"`
	Postgres       PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// AdminConfig guards the configuration routes.
type AdminConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Username     string        `yaml:"username"`
	PasswordHash string        `yaml:"passwordHash"`
	JWTSecret    string        `yaml:"jwtSecret"`
	TokenTTL     time.Duration `yaml:"tokenTtl"`
}

// Load reads configuration from .env, a YAML file and environment variables,
// in that order of increasing precedence.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(defaultConfigPath); err == nil {
		if err := hydrateFromFile(cfg, defaultConfigPath); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv exports variables from path without overriding the real environment.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("AI_API_TYPE"); v != "" {
		cfg.Gateway.Provider = v
	}
	if v := os.Getenv("AI_API_KEY"); v != "" {
		cfg.Gateway.APIKey = v
	}
	if v := os.Getenv("AI_MODEL"); v != "" {
		cfg.Gateway.Model = v
	}
	if v := os.Getenv("MAX_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.MaxTokens = parsed
		}
	}
	if v := os.Getenv("TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Gateway.Temperature = parsed
		}
	}
	if v := os.Getenv("API_TIMEOUT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.Gateway.Timeout = util.MillisToDuration(parsed)
		}
	}
	if strings.EqualFold(os.Getenv("NODE_ENV"), "development") {
		cfg.Gateway.RelaxedValidation = true
	}
	if v := os.Getenv("GATEWAY_RELAXED_VALIDATION"); v != "" {
		cfg.Gateway.RelaxedValidation = parseBool(v)
	}
	if v := os.Getenv("TAROT_IMAGE_BASE_URL"); v != "" {
		cfg.Tarot.ImageBaseURL = v
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.ConfigStore.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.ConfigStore.Valkey.Addr = v
	}
	if v := os.Getenv("CONFIG_ENCRYPTION_KEY"); v != "" {
		cfg.ConfigStore.EncryptionKey = v
	}
	if v := os.Getenv("USAGE_POSTGRES_DSN"); v != "" {
		cfg.UsageLog.Postgres.DSN = v
	}
	if v := os.Getenv("USAGE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.UsageLog.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("ADMIN_ENABLED"); v != "" {
		cfg.Admin.Enabled = parseBool(v)
	}
	if v := os.Getenv("ADMIN_USERNAME"); v != "" {
		cfg.Admin.Username = v
	}
	if v := os.Getenv("ADMIN_PASSWORD_HASH"); v != "" {
		cfg.Admin.PasswordHash = v
	}
	if v := os.Getenv("ADMIN_JWT_SECRET"); v != "" {
		cfg.Admin.JWTSecret = v
	}
	if v := os.Getenv("ADMIN_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Admin.TokenTTL = parsed
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    90 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Gateway: GatewayConfig{
			Provider:    string(llm.DefaultProvider),
			MaxTokens:   1500,
			Temperature: 0.7,
			Timeout:     30 * time.Second,
		},
		ConfigStore: ConfigStoreConfig{
			Valkey: ValkeyConfig{Prefix: "tarot"},
		},
		UsageLog: UsageLogConfig{
			MemoryCapacity: 1000,
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Admin: AdminConfig{
			Username: "admin",
			TokenTTL: 12 * time.Hour,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	desc, err := llm.Lookup(c.Gateway.Provider)
	if err != nil {
		return fmt.Errorf("gateway.provider: %w", err)
	}
	if c.Gateway.Model != "" && !desc.SupportsModel(c.Gateway.Model) {
		return fmt.Errorf("gateway.model %q is not offered by %s", c.Gateway.Model, desc.ID)
	}
	for id := range c.Gateway.BaseURLs {
		if _, err := llm.Lookup(id); err != nil {
			return fmt.Errorf("gateway.baseUrls: %w", err)
		}
	}
	if c.Gateway.MaxTokens <= 0 {
		return errors.New("gateway.maxTokens must be positive")
	}
	if c.Gateway.Temperature < 0 || c.Gateway.Temperature > 2 {
		return errors.New("gateway.temperature must be between 0 and 2")
	}
	if c.Gateway.Timeout <= 0 {
		return errors.New("gateway.timeout must be positive")
	}
	if c.ConfigStore.Valkey.Enabled && strings.TrimSpace(c.ConfigStore.Valkey.Addr) == "" {
		return errors.New("configStore.valkey.addr cannot be empty when valkey is enabled")
	}
	switch len(c.ConfigStore.EncryptionKey) {
	case 0, 16, 24, 32:
	default:
		return errors.New("configStore.encryptionKey must be 16, 24, or 32 bytes")
	}
	if c.UsageLog.Postgres.MaxConns < 0 || c.UsageLog.Postgres.MinConns < 0 {
		return errors.New("usageLog.postgres pool sizes cannot be negative")
	}
	if c.Admin.Enabled {
		if strings.TrimSpace(c.Admin.Username) == "" {
			return errors.New("admin.username cannot be empty when admin is enabled")
		}
		if c.Admin.PasswordHash == "" {
			return errors.New("admin.passwordHash cannot be empty when admin is enabled")
		}
		if len(c.Admin.JWTSecret) < 16 {
			return errors.New("admin.jwtSecret must be at least 16 characters when admin is enabled")
		}
		if c.Admin.TokenTTL <= 0 {
			return errors.New("admin.tokenTtl must be positive")
		}
	}
	return nil
}
