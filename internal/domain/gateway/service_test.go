package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/seasonal-tarot/internal/infra/llm"
	apperrors "github.com/yanqian/seasonal-tarot/pkg/errors"
	"github.com/yanqian/seasonal-tarot/pkg/metrics"
)

type stubCompleter struct {
	mu    sync.Mutex
	text  string
	err   error
	calls []llm.Call
	// hook runs before the stub returns, inside Complete.
	hook func()
}

func (s *stubCompleter) Complete(_ context.Context, call llm.Call) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	hook := s.hook
	text, err := s.text, s.err
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	return text, err
}

func (s *stubCompleter) BaseURL(provider llm.ProviderID) string {
	return "https://proxy.test/" + string(provider)
}

func (s *stubCompleter) lastCall(t *testing.T) llm.Call {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.calls)
	return s.calls[len(s.calls)-1]
}

type memoryStore struct {
	mu    sync.Mutex
	saved StoredSettings
	has   bool
}

func (m *memoryStore) Load(context.Context) (StoredSettings, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved, m.has, nil
}

func (m *memoryStore) Save(_ context.Context, s StoredSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved, m.has = s, true
	return nil
}

type recordingUsage struct {
	mu      sync.Mutex
	records []CallRecord
}

func (r *recordingUsage) Record(_ context.Context, rec CallRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

// stallingUsage blocks until its context ends, like a hung database write.
type stallingUsage struct {
	errs chan error
}

func (s *stallingUsage) Record(ctx context.Context, _ CallRecord) error {
	<-ctx.Done()
	s.errs <- ctx.Err()
	return ctx.Err()
}

type lenCounter struct{}

func (lenCounter) Count(text string) int { return len([]rune(text)) }

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(client *stubCompleter, cfg Config) (Service, *memoryStore, *recordingUsage) {
	store := &memoryStore{}
	usage := &recordingUsage{}
	return NewService(cfg, client, store, usage, lenCounter{}, newTestLogger()), store, usage
}

func TestService_Defaults(t *testing.T) {
	svc, _, _ := newTestService(&stubCompleter{}, Config{})
	snap := svc.Snapshot()
	require.Equal(t, llm.ProviderAIHubMix, snap.Provider)
	require.Equal(t, "gpt-4o-mini", snap.Model)
	require.Equal(t, DefaultMaxTokens, snap.MaxTokens)
	require.Equal(t, DefaultTemperature, snap.Temperature)
	require.Equal(t, DefaultTimeout, snap.Timeout)
	require.Equal(t, StateUnvalidated, snap.Validation.State)
	require.False(t, snap.IsConfigured())
}

func TestService_SetConfig(t *testing.T) {
	tests := []struct {
		name      string
		provider  string
		key       string
		model     string
		wantCode  string
		wantErr   error
		wantModel string
	}{
		{name: "default model", provider: "claude", key: "k", wantModel: "claude-3-5-sonnet-20241022"},
		{name: "explicit model", provider: "openai", key: " k ", model: "gpt-4", wantModel: "gpt-4"},
		{name: "unknown provider", provider: "unknownProvider", key: "k", wantCode: apperrors.CodeUnsupportedProvider, wantErr: llm.ErrUnsupportedProvider},
		{name: "unknown model", provider: "gemini", key: "k", model: "gpt-4", wantCode: apperrors.CodeUnsupportedModel, wantErr: llm.ErrUnsupportedModel},
		{name: "blank key", provider: "gemini", key: "  ", wantCode: apperrors.CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestService(&stubCompleter{}, Config{Provider: "deepseek", APIKey: "orig"})
			before := svc.Snapshot()

			err := svc.SetConfig(context.Background(), tt.provider, tt.key, tt.model)
			if tt.wantCode != "" {
				require.Error(t, err)
				require.True(t, apperrors.IsCode(err, tt.wantCode))
				if tt.wantErr != nil {
					require.ErrorIs(t, err, tt.wantErr)
				}
				require.Equal(t, before, svc.Snapshot())
				require.False(t, store.has)
				return
			}
			require.NoError(t, err)
			snap := svc.Snapshot()
			require.Equal(t, llm.ProviderID(tt.provider), snap.Provider)
			require.Equal(t, "k", snap.APIKey)
			require.Equal(t, tt.wantModel, snap.Model)
			require.Equal(t, StateUnvalidated, snap.Validation.State)
			require.True(t, store.has)
			require.Equal(t, StoredSettings{Provider: tt.provider, APIKey: "k", Model: tt.wantModel}, store.saved)
		})
	}
}

func TestService_ValidateLifecycle(t *testing.T) {
	client := &stubCompleter{text: "测试成功"}
	svc, _, usage := newTestService(client, Config{Provider: "claude", APIKey: "k"})

	res := svc.Validate(context.Background())
	require.True(t, res.Valid)
	snap := svc.Snapshot()
	require.Equal(t, StateValidated, snap.Validation.State)
	require.True(t, snap.IsConfigured())
	require.NotNil(t, snap.Validation.LastCheckedAt)
	require.Nil(t, snap.Validation.LastError)

	call := client.lastCall(t)
	require.Equal(t, probeMaxTokens, call.Request.MaxTokens)
	require.Equal(t, probePrompt, call.Request.User)
	require.Equal(t, llm.ProviderClaude, call.Provider)

	// A model change keeps the validation.
	require.NoError(t, svc.SetModel(context.Background(), "claude-3-haiku-20240307"))
	require.True(t, svc.Snapshot().IsConfigured())

	// A key change resets it.
	require.NoError(t, svc.SetConfig(context.Background(), "claude", "k2", ""))
	require.False(t, svc.Snapshot().IsConfigured())

	client.text, client.err = "", &llm.ProviderRequestError{Provider: llm.ProviderClaude, Kind: llm.FailureHTTP, StatusCode: http.StatusUnauthorized}
	res = svc.Validate(context.Background())
	require.False(t, res.Valid)
	snap = svc.Snapshot()
	require.Equal(t, StateFailed, snap.Validation.State)
	require.NotNil(t, snap.Validation.LastError)
	require.Contains(t, *snap.Validation.LastError, "status=401")

	require.Len(t, usage.records, 2)
	require.Equal(t, OutcomeSuccess, usage.records[0].Outcome)
	require.Equal(t, string(llm.FailureHTTP), usage.records[1].Outcome)
	require.Equal(t, http.StatusUnauthorized, usage.records[1].StatusCode)
	require.Equal(t, "validate", usage.records[1].Operation)
}

func TestService_ValidateWithoutKey(t *testing.T) {
	client := &stubCompleter{text: "ok"}
	svc, _, _ := newTestService(client, Config{Provider: "openai"})

	res := svc.Validate(context.Background())
	require.False(t, res.Valid)
	snap := svc.Snapshot()
	require.Equal(t, StateFailed, snap.Validation.State)
	require.Equal(t, errKeyNotSet, *snap.Validation.LastError)
	require.NotNil(t, snap.Validation.LastCheckedAt)
	require.Empty(t, client.calls)
}

func TestService_StaleValidationDiscarded(t *testing.T) {
	client := &stubCompleter{text: "ok"}
	svc, _, _ := newTestService(client, Config{Provider: "openai", APIKey: "old"})
	client.hook = func() {
		require.NoError(t, svc.SetConfig(context.Background(), "deepseek", "new", ""))
	}

	res := svc.Validate(context.Background())
	require.True(t, res.Valid)

	snap := svc.Snapshot()
	require.Equal(t, llm.ProviderDeepSeek, snap.Provider)
	require.Equal(t, StateUnvalidated, snap.Validation.State)
	require.False(t, snap.IsConfigured())
}

func TestService_RelaxedMode(t *testing.T) {
	svc, _, _ := newTestService(&stubCompleter{}, Config{Provider: "gemini", APIKey: "k", Relaxed: true})
	require.True(t, svc.Snapshot().IsConfigured())

	svc, _, _ = newTestService(&stubCompleter{}, Config{Provider: "gemini", Relaxed: true})
	require.False(t, svc.Snapshot().IsConfigured())
}

func TestService_SetModel(t *testing.T) {
	svc, store, _ := newTestService(&stubCompleter{}, Config{Provider: "deepseek", APIKey: "k"})

	err := svc.SetModel(context.Background(), "gpt-4")
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnsupportedModel))
	require.Equal(t, "deepseek-chat", svc.Snapshot().Model)

	require.NoError(t, svc.SetModel(context.Background(), "deepseek-coder"))
	require.Equal(t, "deepseek-coder", svc.Snapshot().Model)
	require.Equal(t, "deepseek-coder", store.saved.Model)
}

func TestService_Restore(t *testing.T) {
	store := &memoryStore{saved: StoredSettings{Provider: "gemini", APIKey: "stored", Model: "retired-model"}, has: true}
	svc := NewService(Config{Provider: "openai"}, &stubCompleter{}, store, nil, nil, newTestLogger())

	require.NoError(t, svc.Restore(context.Background()))
	snap := svc.Snapshot()
	require.Equal(t, llm.ProviderGemini, snap.Provider)
	require.Equal(t, "stored", snap.APIKey)
	require.Equal(t, "gemini-pro", snap.Model)
}

func TestService_CompleteUsesSnapshot(t *testing.T) {
	client := &stubCompleter{text: "reading"}
	svc, _, usage := newTestService(client, Config{Provider: "openai", APIKey: "k", MaxTokens: 900, Temperature: 0.4, Timeout: 5 * time.Second})
	snap := svc.Snapshot()

	require.NoError(t, svc.SetConfig(context.Background(), "claude", "other", ""))

	text := svc.Complete(context.Background(), snap, Request{Operation: "insight", System: "sys", User: "用户", MaxTokens: 100})
	require.Equal(t, "reading", text)

	call := client.lastCall(t)
	require.Equal(t, llm.ProviderOpenAI, call.Provider)
	require.Equal(t, "k", call.APIKey)
	require.Equal(t, 100, call.Request.MaxTokens)
	require.Equal(t, 0.4, call.Request.Temperature)
	require.Equal(t, 5*time.Second, call.Timeout)

	text = svc.Complete(context.Background(), snap, Request{Operation: "full", User: "u"})
	require.Equal(t, "reading", text)
	require.Equal(t, 900, client.lastCall(t).Request.MaxTokens)

	require.Len(t, usage.records, 2)
	rec := usage.records[0]
	require.Equal(t, "openai", rec.Provider)
	require.Equal(t, "insight", rec.Operation)
	require.Equal(t, metrics.TokenUsage{PromptTokens: 5, CompletionTokens: 7, TotalTokens: 12}, rec.Tokens)
	require.NotEqual(t, rec.ID, usage.records[1].ID)
}

func TestService_CompleteBoundsUsageRecording(t *testing.T) {
	client := &stubCompleter{text: "ok"}
	usage := &stallingUsage{errs: make(chan error, 1)}
	svc := NewService(Config{Provider: "openai", APIKey: "k"}, client, nil, usage, nil, newTestLogger())
	svc.(*service).recordTimeout = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	text := svc.Complete(ctx, svc.Snapshot(), Request{Operation: "insight"})
	require.Equal(t, "ok", text)
	require.Less(t, time.Since(start), time.Second)
	// the caller's cancellation does not reach the usage write; the timeout does
	require.ErrorIs(t, <-usage.errs, context.DeadlineExceeded)
}

func TestService_CompleteFailuresBecomeEmpty(t *testing.T) {
	client := &stubCompleter{err: errors.New("boom")}
	svc, _, usage := newTestService(client, Config{Provider: "openai", APIKey: "k"})

	require.Empty(t, svc.Complete(context.Background(), svc.Snapshot(), Request{Operation: "full"}))
	require.Equal(t, string(llm.FailureUnknown), usage.records[0].Outcome)

	client.err = nil
	client.text = ""
	require.Empty(t, svc.Complete(context.Background(), svc.Snapshot(), Request{Operation: "full"}))
	require.Equal(t, OutcomeEmpty, usage.records[1].Outcome)

	noKey, _, _ := newTestService(client, Config{})
	require.Empty(t, noKey.Complete(context.Background(), noKey.Snapshot(), Request{Operation: "full"}))
}

func TestService_Status(t *testing.T) {
	svc, _, _ := newTestService(&stubCompleter{}, Config{Provider: "gemini", APIKey: "k", Timeout: 1500 * time.Millisecond})
	status := svc.Status()
	require.Equal(t, llm.ProviderGemini, status.APIType)
	require.Equal(t, "GEMINI", status.APITypeName)
	require.Equal(t, "https://proxy.test/gemini", status.APIBaseURL)
	require.Equal(t, []string{"gemini-pro", "gemini-pro-vision"}, status.AvailableModels)
	require.Equal(t, int64(1500), status.TimeoutMs)
	require.True(t, status.HasAPIKey)
	require.False(t, status.IsConfigured)
	require.Len(t, svc.Providers(), 5)
}

func TestService_ConcurrentAccess(t *testing.T) {
	client := &stubCompleter{text: "ok"}
	svc, _, _ := newTestService(client, Config{Provider: "openai", APIKey: "k"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_ = svc.SetConfig(context.Background(), "deepseek", "k", "")
		}()
		go func() {
			defer wg.Done()
			svc.Validate(context.Background())
		}()
		go func() {
			defer wg.Done()
			_ = svc.Complete(context.Background(), svc.Snapshot(), Request{Operation: "insight"})
		}()
	}
	wg.Wait()
	require.Equal(t, llm.ProviderDeepSeek, svc.Snapshot().Provider)
}
