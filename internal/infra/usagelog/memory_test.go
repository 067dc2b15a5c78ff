package usagelog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/seasonal-tarot/internal/domain/gateway"
	"github.com/yanqian/seasonal-tarot/pkg/metrics"
)

func callRecord(provider, operation, outcome string, latency time.Duration, at time.Time) gateway.CallRecord {
	return gateway.CallRecord{
		ID:        uuid.New(),
		Provider:  provider,
		Model:     "m",
		Operation: operation,
		Outcome:   outcome,
		Latency:   latency,
		Tokens:    metrics.NewTokenUsage(10, 5),
		CreatedAt: at,
	}
}

func TestMemoryRepository_Summarize(t *testing.T) {
	repo := NewMemoryRepository(0)
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, callRecord("openai", "spread", "success", 100*time.Millisecond, now)))
	require.NoError(t, repo.Record(ctx, callRecord("openai", "spread", "success", 300*time.Millisecond, now)))
	require.NoError(t, repo.Record(ctx, callRecord("openai", "spread", "timeout", time.Second, now)))
	require.NoError(t, repo.Record(ctx, callRecord("claude", "insight", "success", 50*time.Millisecond, now)))
	require.NoError(t, repo.Record(ctx, callRecord("claude", "insight", "success", 50*time.Millisecond, now.Add(-time.Hour))))

	out, err := repo.Summarize(ctx, now.Add(-time.Minute))
	require.NoError(t, err)
	require.Equal(t, []Summary{
		{Provider: "claude", Operation: "insight", Outcome: "success", Calls: 1, AvgLatencyMs: 50, PromptTokens: 10, CompletionTokens: 5},
		{Provider: "openai", Operation: "spread", Outcome: "success", Calls: 2, AvgLatencyMs: 200, PromptTokens: 20, CompletionTokens: 10},
		{Provider: "openai", Operation: "spread", Outcome: "timeout", Calls: 1, AvgLatencyMs: 1000, PromptTokens: 10, CompletionTokens: 5},
	}, out)
}

func TestMemoryRepository_Capacity(t *testing.T) {
	repo := NewMemoryRepository(3)
	now := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Record(context.Background(), callRecord("openai", "spread", "success", 0, now)))
	}
	out, err := repo.Summarize(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, int64(3), out[0].Calls)
}
