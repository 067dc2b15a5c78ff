package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/seasonal-tarot/internal/infra/llm"
	"github.com/yanqian/seasonal-tarot/pkg/metrics"
)

// Defaults applied when configuration leaves a limit unset.
const (
	DefaultMaxTokens   = 1500
	DefaultTemperature = 0.7
	DefaultTimeout     = 30 * time.Second
)

// Config seeds the gateway at startup.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	// Relaxed treats any present key as configured without a successful probe.
	Relaxed bool
}

// ValidationState tracks the API key probe.
type ValidationState string

const (
	StateUnvalidated ValidationState = "unvalidated"
	StateValidating  ValidationState = "validating"
	StateValidated   ValidationState = "validated"
	StateFailed      ValidationState = "failed"
)

// Validation is the outcome of the most recent probe.
type Validation struct {
	State         ValidationState `json:"state"`
	IsValidated   bool            `json:"isValidated"`
	LastCheckedAt *time.Time      `json:"lastCheckedAt"`
	LastError     *string         `json:"lastError"`
}

func unvalidated() Validation {
	return Validation{State: StateUnvalidated}
}

// Settings is the mutable provider selection and its limits.
type Settings struct {
	Provider    llm.ProviderID
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Snapshot is an immutable copy of the gateway state taken at call start.
type Snapshot struct {
	Settings
	Validation Validation
	Relaxed    bool
}

// HasAPIKey reports whether a non-blank key is present.
func (s Snapshot) HasAPIKey() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

// IsConfigured is true when a key is present and either validated or relaxed.
func (s Snapshot) IsConfigured() bool {
	return s.HasAPIKey() && (s.Validation.IsValidated || s.Relaxed)
}

// Request is one prompt sent through the gateway.
type Request struct {
	// Operation labels the call in logs and usage records.
	Operation string
	System    string
	User      string
	// MaxTokens overrides the configured budget when positive.
	MaxTokens int
}

// ValidationResult is returned by Validate.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// Status is the operator facing view of the gateway.
type Status struct {
	IsConfigured    bool           `json:"isConfigured"`
	APIType         llm.ProviderID `json:"apiType"`
	APITypeName     string         `json:"apiTypeName"`
	APIBaseURL      string         `json:"apiBaseUrl"`
	CurrentModel    string         `json:"currentModel"`
	AvailableModels []string       `json:"availableModels"`
	MaxTokens       int            `json:"maxTokens"`
	Temperature     float64        `json:"temperature"`
	TimeoutMs       int64          `json:"timeoutMs"`
	HasAPIKey       bool           `json:"hasApiKey"`
	Validation      Validation     `json:"validation"`
}

// StoredSettings is the part of the configuration that survives restarts.
type StoredSettings struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
	Model    string `json:"model"`
}

// Store persists operator supplied settings.
type Store interface {
	Load(ctx context.Context) (StoredSettings, bool, error)
	Save(ctx context.Context, settings StoredSettings) error
}

// Outcome values recorded for a provider call.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
)

// CallRecord is the telemetry kept for one provider call. It never holds
// prompts or completions.
type CallRecord struct {
	ID         uuid.UUID
	Provider   string
	Model      string
	Operation  string
	Outcome    string
	StatusCode int
	Latency    time.Duration
	Tokens     metrics.TokenUsage
	CreatedAt  time.Time
}

// UsageLog stores call records.
type UsageLog interface {
	Record(ctx context.Context, rec CallRecord) error
}

// TokenCounter estimates prompt sizes for usage records.
type TokenCounter interface {
	Count(text string) int
}

// Completer sends provider calls; *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, call llm.Call) (string, error)
	BaseURL(provider llm.ProviderID) string
}
