package usagelog

import (
	"sort"

	"github.com/yanqian/seasonal-tarot/internal/domain/gateway"
)

// Summary aggregates call records per provider, operation and outcome.
type Summary struct {
	Provider         string  `json:"provider"`
	Operation        string  `json:"operation"`
	Outcome          string  `json:"outcome"`
	Calls            int64   `json:"calls"`
	AvgLatencyMs     float64 `json:"avgLatencyMs"`
	PromptTokens     int64   `json:"promptTokens"`
	CompletionTokens int64   `json:"completionTokens"`
}

type summaryKey struct {
	provider, operation, outcome string
}

func summarize(records []gateway.CallRecord) []Summary {
	type acc struct {
		Summary
		latencyMs int64
	}
	groups := make(map[summaryKey]*acc)
	for _, rec := range records {
		k := summaryKey{rec.Provider, rec.Operation, rec.Outcome}
		a, ok := groups[k]
		if !ok {
			a = &acc{Summary: Summary{Provider: k.provider, Operation: k.operation, Outcome: k.outcome}}
			groups[k] = a
		}
		a.Calls++
		a.latencyMs += rec.Latency.Milliseconds()
		a.PromptTokens += int64(rec.Tokens.PromptTokens)
		a.CompletionTokens += int64(rec.Tokens.CompletionTokens)
	}
	out := make([]Summary, 0, len(groups))
	for _, a := range groups {
		a.AvgLatencyMs = float64(a.latencyMs) / float64(a.Calls)
		out = append(out, a.Summary)
	}
	sortSummaries(out)
	return out
}

func sortSummaries(out []Summary) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		if out[i].Operation != out[j].Operation {
			return out[i].Operation < out[j].Operation
		}
		return out[i].Outcome < out[j].Outcome
	})
}
