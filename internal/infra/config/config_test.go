package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "{}"))
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, "aihubmix", cfg.Gateway.Provider)
	require.Equal(t, 1500, cfg.Gateway.MaxTokens)
	require.Equal(t, 0.7, cfg.Gateway.Temperature)
	require.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	require.False(t, cfg.Gateway.RelaxedValidation)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
http:
  address: ":9000"
gateway:
  provider: claude
  model: claude-3-haiku-20240307
  timeout: 5s
  baseUrls:
    claude: http://localhost:9999/v1
tarot:
  imageBaseUrl: https://cdn.example.com/cards
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("AI_API_KEY", "from-env")
	t.Setenv("MAX_TOKENS", "900")
	t.Setenv("TEMPERATURE", "0.3")
	t.Setenv("API_TIMEOUT", "12000")
	t.Setenv("NODE_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTP.Address)
	require.Equal(t, "claude", cfg.Gateway.Provider)
	require.Equal(t, "claude-3-haiku-20240307", cfg.Gateway.Model)
	require.Equal(t, "from-env", cfg.Gateway.APIKey)
	require.Equal(t, 900, cfg.Gateway.MaxTokens)
	require.Equal(t, 0.3, cfg.Gateway.Temperature)
	require.Equal(t, 12*time.Second, cfg.Gateway.Timeout)
	require.True(t, cfg.Gateway.RelaxedValidation)
	require.Equal(t, "http://localhost:9999/v1", cfg.Gateway.BaseURLs["claude"])
	require.Equal(t, "https://cdn.example.com/cards", cfg.Tarot.ImageBaseURL)
}

func TestLoad_RelaxedFlagOverridesNodeEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "{}"))
	t.Setenv("NODE_ENV", "development")
	t.Setenv("GATEWAY_RELAXED_VALIDATION", "false")
	cfg, err := Load()
	require.NoError(t, err)
	require.False(t, cfg.Gateway.RelaxedValidation)
}

func TestLoad_InvalidFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "gateway: ["))
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "unknown provider", mutate: func(c *Config) { c.Gateway.Provider = "unknownProvider" }, errMsg: "unsupported provider"},
		{name: "model not offered", mutate: func(c *Config) { c.Gateway.Provider = "gemini"; c.Gateway.Model = "gpt-4" }, errMsg: "not offered"},
		{name: "bad base url id", mutate: func(c *Config) { c.Gateway.BaseURLs = map[string]string{"foo": "http://x"} }, errMsg: "baseUrls"},
		{name: "zero tokens", mutate: func(c *Config) { c.Gateway.MaxTokens = 0 }, errMsg: "maxTokens"},
		{name: "hot temperature", mutate: func(c *Config) { c.Gateway.Temperature = 3 }, errMsg: "temperature"},
		{name: "valkey without addr", mutate: func(c *Config) { c.ConfigStore.Valkey.Enabled = true }, errMsg: "valkey.addr"},
		{name: "bad encryption key", mutate: func(c *Config) { c.ConfigStore.EncryptionKey = "short" }, errMsg: "encryptionKey"},
		{name: "admin without secret", mutate: func(c *Config) { c.Admin.Enabled = true; c.Admin.PasswordHash = "$2a$" }, errMsg: "jwtSecret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
