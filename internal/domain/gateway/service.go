package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/seasonal-tarot/internal/infra/llm"
	apperrors "github.com/yanqian/seasonal-tarot/pkg/errors"
	"github.com/yanqian/seasonal-tarot/pkg/metrics"
)

// ErrNotConfigured is logged when an analysis is attempted without a usable key.
var ErrNotConfigured = errors.New("ai gateway not configured")

const (
	probePrompt    = `请回复"测试成功"`
	probeSystem    = "你是一个简洁的助手。"
	probeMaxTokens = 10
	errKeyNotSet   = "api key not set"

	// usageRecordTimeout bounds the usage write after the provider answered.
	usageRecordTimeout = 2 * time.Second
)

// Service owns the single gateway configuration and the provider boundary.
type Service interface {
	// Snapshot copies the current state; callers take one per operation.
	Snapshot() Snapshot
	// SetConfig switches provider, key and model and resets validation.
	SetConfig(ctx context.Context, provider, apiKey, model string) error
	// SetModel changes the model of the active provider.
	SetModel(ctx context.Context, model string) error
	// Validate probes the provider with the current key.
	Validate(ctx context.Context) ValidationResult
	// Restore applies persisted settings, if any.
	Restore(ctx context.Context) error
	Status() Status
	Providers() []llm.ProviderDescriptor
	// Complete issues one request with snap and returns "" on any failure.
	Complete(ctx context.Context, snap Snapshot, req Request) string
}

type service struct {
	client  Completer
	store   Store
	usage   UsageLog
	counter TokenCounter
	logger  *slog.Logger
	now     func() time.Time

	recordTimeout time.Duration

	mu         sync.RWMutex
	settings   Settings
	validation Validation
	relaxed    bool
	// generation changes with provider or key so stale probes are discarded.
	generation uint64
}

// NewService is a wire provider for the gateway domain. store, usage and
// counter are optional.
func NewService(cfg Config, client Completer, store Store, usage UsageLog, counter TokenCounter, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &service{
		client:        client,
		store:         store,
		usage:         usage,
		counter:       counter,
		logger:        logger.With("component", "gateway.service"),
		now:           time.Now,
		recordTimeout: usageRecordTimeout,
		validation:    unvalidated(),
		relaxed:       cfg.Relaxed,
	}
	s.settings = s.initialSettings(cfg)
	return s
}

func (s *service) initialSettings(cfg Config) Settings {
	desc, err := llm.Lookup(cfg.Provider)
	if err != nil {
		if strings.TrimSpace(cfg.Provider) != "" {
			s.logger.Warn("configured provider unknown, using default", "provider", cfg.Provider, "default", llm.DefaultProvider)
		}
		desc, _ = llm.Lookup(string(llm.DefaultProvider))
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = desc.DefaultModel
	} else if !desc.SupportsModel(model) {
		s.logger.Warn("configured model not offered by provider, using default", "provider", desc.ID, "model", model)
		model = desc.DefaultModel
	}
	settings := Settings{
		Provider:    desc.ID,
		APIKey:      strings.TrimSpace(cfg.APIKey),
		Model:       model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
	}
	if settings.MaxTokens <= 0 {
		settings.MaxTokens = DefaultMaxTokens
	}
	if settings.Temperature <= 0 {
		settings.Temperature = DefaultTemperature
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}
	return settings
}

func (s *service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *service) snapshotLocked() Snapshot {
	v := s.validation
	if v.LastCheckedAt != nil {
		t := *v.LastCheckedAt
		v.LastCheckedAt = &t
	}
	if v.LastError != nil {
		e := *v.LastError
		v.LastError = &e
	}
	return Snapshot{Settings: s.settings, Validation: v, Relaxed: s.relaxed}
}

func (s *service) SetConfig(ctx context.Context, provider, apiKey, model string) error {
	desc, err := llm.Lookup(provider)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUnsupportedProvider, "unsupported provider", err)
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "api key cannot be empty", nil)
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = desc.DefaultModel
	}
	if !desc.SupportsModel(model) {
		return apperrors.Wrap(apperrors.CodeUnsupportedModel, "unsupported model",
			fmt.Errorf("%w: %s does not offer %q", llm.ErrUnsupportedModel, desc.ID, model))
	}

	s.mu.Lock()
	s.settings.Provider = desc.ID
	s.settings.APIKey = apiKey
	s.settings.Model = model
	s.validation = unvalidated()
	s.generation++
	s.mu.Unlock()

	s.logger.Info("gateway configured", "provider", desc.ID, "model", model)
	s.persist(ctx)
	return nil
}

func (s *service) SetModel(ctx context.Context, model string) error {
	model = strings.TrimSpace(model)
	s.mu.Lock()
	desc, err := llm.Lookup(string(s.settings.Provider))
	if err != nil {
		s.mu.Unlock()
		return apperrors.Wrap(apperrors.CodeUnsupportedProvider, "unsupported provider", err)
	}
	if model == "" || !desc.SupportsModel(model) {
		s.mu.Unlock()
		return apperrors.Wrap(apperrors.CodeUnsupportedModel, "unsupported model",
			fmt.Errorf("%w: %s does not offer %q", llm.ErrUnsupportedModel, desc.ID, model))
	}
	s.settings.Model = model
	s.mu.Unlock()

	s.logger.Info("gateway model changed", "provider", desc.ID, "model", model)
	s.persist(ctx)
	return nil
}

func (s *service) Validate(ctx context.Context) ValidationResult {
	s.mu.Lock()
	if strings.TrimSpace(s.settings.APIKey) == "" {
		now := s.now().UTC()
		msg := errKeyNotSet
		s.validation = Validation{State: StateFailed, LastCheckedAt: &now, LastError: &msg}
		s.mu.Unlock()
		return ValidationResult{Valid: false, Message: "API密钥未设置"}
	}
	s.validation.State = StateValidating
	gen := s.generation
	snap := s.snapshotLocked()
	s.mu.Unlock()

	text, err := s.complete(ctx, snap, Request{
		Operation: "validate",
		System:    probeSystem,
		User:      probePrompt,
		MaxTokens: probeMaxTokens,
	})

	now := s.now().UTC()
	next := Validation{State: StateValidated, IsValidated: true, LastCheckedAt: &now}
	result := ValidationResult{Valid: true, Message: "API密钥验证成功"}
	if text == "" {
		reason := "empty response"
		if err != nil {
			reason = err.Error()
		}
		next = Validation{State: StateFailed, LastCheckedAt: &now, LastError: &reason}
		result = ValidationResult{Valid: false, Message: "API密钥验证失败: " + reason}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Info("discarding stale validation result", "provider", snap.Provider)
		return result
	}
	s.validation = next
	return result
}

func (s *service) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	stored, ok, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load gateway settings: %w", err)
	}
	if !ok {
		return nil
	}
	desc, err := llm.Lookup(stored.Provider)
	if err != nil {
		s.logger.Warn("ignoring stored settings", "provider", stored.Provider, "error", err)
		return nil
	}
	model := stored.Model
	if !desc.SupportsModel(model) {
		model = desc.DefaultModel
	}

	s.mu.Lock()
	s.settings.Provider = desc.ID
	s.settings.APIKey = strings.TrimSpace(stored.APIKey)
	s.settings.Model = model
	s.validation = unvalidated()
	s.generation++
	s.mu.Unlock()

	s.logger.Info("gateway settings restored", "provider", desc.ID, "model", model)
	return nil
}

func (s *service) Status() Status {
	snap := s.Snapshot()
	desc, _ := llm.Lookup(string(snap.Provider))
	return Status{
		IsConfigured:    snap.IsConfigured(),
		APIType:         snap.Provider,
		APITypeName:     strings.ToUpper(string(snap.Provider)),
		APIBaseURL:      s.client.BaseURL(snap.Provider),
		CurrentModel:    snap.Model,
		AvailableModels: desc.SupportedModels,
		MaxTokens:       snap.MaxTokens,
		Temperature:     snap.Temperature,
		TimeoutMs:       snap.Timeout.Milliseconds(),
		HasAPIKey:       snap.HasAPIKey(),
		Validation:      snap.Validation,
	}
}

func (s *service) Providers() []llm.ProviderDescriptor {
	return llm.Providers()
}

func (s *service) Complete(ctx context.Context, snap Snapshot, req Request) string {
	text, _ := s.complete(ctx, snap, req)
	return text
}

func (s *service) complete(ctx context.Context, snap Snapshot, req Request) (string, error) {
	if !snap.HasAPIKey() {
		s.logger.Warn("provider request skipped", "operation", req.Operation, "error", ErrNotConfigured)
		return "", ErrNotConfigured
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = snap.MaxTokens
	}

	start := s.now()
	text, err := s.client.Complete(ctx, llm.Call{
		Provider: snap.Provider,
		APIKey:   snap.APIKey,
		Request: llm.ChatRequest{
			Model:       snap.Model,
			System:      req.System,
			User:        req.User,
			MaxTokens:   maxTokens,
			Temperature: snap.Temperature,
		},
		Timeout: snap.Timeout,
	})
	latency := s.now().Sub(start)

	rec := CallRecord{
		ID:        uuid.New(),
		Provider:  string(snap.Provider),
		Model:     snap.Model,
		Operation: req.Operation,
		Outcome:   OutcomeSuccess,
		Latency:   latency,
		CreatedAt: start.UTC(),
	}
	switch {
	case err != nil:
		rec.Outcome = string(llm.Classify(err))
		var reqErr *llm.ProviderRequestError
		if errors.As(err, &reqErr) {
			rec.StatusCode = reqErr.StatusCode
		}
		s.logger.Warn("provider request failed",
			"provider", snap.Provider,
			"operation", req.Operation,
			"kind", rec.Outcome,
			"status", rec.StatusCode,
			"latency_ms", latency.Milliseconds(),
			"error", err,
		)
	case text == "":
		rec.Outcome = OutcomeEmpty
		s.logger.Warn("provider returned no text", "provider", snap.Provider, "operation", req.Operation)
	default:
		s.logger.Debug("provider request completed", "provider", snap.Provider, "operation", req.Operation, "latency_ms", latency.Milliseconds())
	}
	s.recordUsage(ctx, rec, req, text)
	return text, err
}

func (s *service) recordUsage(ctx context.Context, rec CallRecord, req Request, text string) {
	if s.usage == nil {
		return
	}
	if s.counter != nil {
		rec.Tokens = metrics.NewTokenUsage(s.counter.Count(req.System)+s.counter.Count(req.User), s.counter.Count(text))
	}
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.recordTimeout)
	defer cancel()
	if err := s.usage.Record(recordCtx, rec); err != nil {
		s.logger.Warn("usage record failed", "operation", rec.Operation, "error", err)
	}
}

func (s *service) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	snap := s.Snapshot()
	err := s.store.Save(ctx, StoredSettings{
		Provider: string(snap.Provider),
		APIKey:   snap.APIKey,
		Model:    snap.Model,
	})
	if err != nil {
		s.logger.Warn("persist gateway settings failed", "error", err)
	}
}
