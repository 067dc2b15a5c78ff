package analysis

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/seasonal-tarot/internal/domain/gateway"
	"github.com/yanqian/seasonal-tarot/internal/domain/tarot"
)

// Service turns readings into AI interpretations. None of its operations
// fail: provider problems surface as StatusError plus a fallback text.
type Service interface {
	AnalyzeSpread(ctx context.Context, reading tarot.Reading) SpreadResult
	QuickInsight(ctx context.Context, reading tarot.Reading) InsightResult
	SeasonalAdvice(ctx context.Context, reading tarot.Reading) SeasonalAdviceResult
	AnalyzeSingleCard(ctx context.Context, card tarot.Card, question string) SingleCardResult
	AnalyzeComplete(ctx context.Context, reading tarot.Reading) CompleteResult
}

// Gateway is the slice of gateway.Service the analyses need.
type Gateway interface {
	Snapshot() gateway.Snapshot
	Complete(ctx context.Context, snap gateway.Snapshot, req gateway.Request) string
}

type service struct {
	gw     Gateway
	logger *slog.Logger
}

// NewService is a wire provider for the analysis domain.
func NewService(gw Gateway, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{gw: gw, logger: logger.With("component", "analysis.service")}
}

func (s *service) AnalyzeSpread(ctx context.Context, reading tarot.Reading) SpreadResult {
	return s.spread(ctx, s.gw.Snapshot(), reading)
}

func (s *service) QuickInsight(ctx context.Context, reading tarot.Reading) InsightResult {
	return s.insight(ctx, s.gw.Snapshot(), reading)
}

func (s *service) SeasonalAdvice(ctx context.Context, reading tarot.Reading) SeasonalAdviceResult {
	return s.seasonal(ctx, s.gw.Snapshot(), reading)
}

func (s *service) AnalyzeSingleCard(ctx context.Context, card tarot.Card, question string) SingleCardResult {
	fallback := SingleCardResult{
		Interpretation: FallbackAnalysis,
		Guidance:       FallbackGuidance,
		KeyMessage:     FallbackKeyMessage,
		Status:         StatusError,
	}
	snap := s.gw.Snapshot()
	if !s.ready(snap, "single_card") {
		return fallback
	}
	text := s.gw.Complete(ctx, snap, gateway.Request{
		Operation: "single_card",
		System:    SystemPrompt,
		User:      singleCardPrompt(card, question),
		MaxTokens: singleCardMaxTokens,
	})
	if text == "" {
		return fallback
	}
	parts := parseSingleCard(text)
	return SingleCardResult{
		Interpretation: parts.interpretation,
		Guidance:       parts.guidance,
		KeyMessage:     parts.keyMessage,
		FullText:       text,
		Status:         StatusSuccess,
	}
}

// AnalyzeComplete runs the three spread analyses against one snapshot and
// waits for all of them; a failing branch never cancels its siblings.
func (s *service) AnalyzeComplete(ctx context.Context, reading tarot.Reading) CompleteResult {
	snap := s.gw.Snapshot()
	var (
		out CompleteResult
		g   errgroup.Group
	)
	g.Go(func() error {
		out.Spread = s.spread(ctx, snap, reading)
		return nil
	})
	g.Go(func() error {
		out.Insight = s.insight(ctx, snap, reading)
		return nil
	})
	g.Go(func() error {
		out.Seasonal = s.seasonal(ctx, snap, reading)
		return nil
	})
	_ = g.Wait()

	s.logger.Info("complete analysis finished",
		"provider", snap.Provider,
		"spread_status", out.Spread.Status,
		"seasonal_status", out.Seasonal.Status,
	)
	return out
}

func (s *service) spread(ctx context.Context, snap gateway.Snapshot, reading tarot.Reading) SpreadResult {
	cards := FormatReading(reading)
	result := SpreadResult{FullAnalysis: FallbackAnalysis, CardsSummary: cards, Status: StatusError}
	if !s.ready(snap, "spread") {
		return result
	}
	text := s.gw.Complete(ctx, snap, gateway.Request{
		Operation: "spread",
		System:    SystemPrompt,
		User:      fullAnalysisPrompt(cards),
		MaxTokens: spreadMaxTokens,
	})
	if text != "" {
		result.FullAnalysis, result.Status = text, StatusSuccess
	}
	return result
}

func (s *service) insight(ctx context.Context, snap gateway.Snapshot, reading tarot.Reading) InsightResult {
	result := InsightResult{Text: FallbackInsight}
	if !s.ready(snap, "insight") {
		return result
	}
	text := s.gw.Complete(ctx, snap, gateway.Request{
		Operation: "insight",
		System:    SystemPrompt,
		User:      quickInsightPrompt(FormatReading(reading)),
		MaxTokens: insightMaxTokens,
	})
	if text != "" {
		result.Text = text
	}
	return result
}

func (s *service) seasonal(ctx context.Context, snap gateway.Snapshot, reading tarot.Reading) SeasonalAdviceResult {
	result := SeasonalAdviceResult{Text: FallbackSeasonal, Status: StatusError}
	if !s.ready(snap, "seasonal") {
		return result
	}
	text := s.gw.Complete(ctx, snap, gateway.Request{
		Operation: "seasonal",
		System:    SystemPrompt,
		User:      seasonalAdvicePrompt(FormatReading(reading)),
		MaxTokens: seasonalMaxTokens,
	})
	if text != "" {
		result.Text, result.Status = text, StatusSuccess
	}
	return result
}

func (s *service) ready(snap gateway.Snapshot, operation string) bool {
	if snap.IsConfigured() {
		return true
	}
	s.logger.Warn("analysis skipped", "operation", operation, "provider", snap.Provider, "error", gateway.ErrNotConfigured)
	return false
}
