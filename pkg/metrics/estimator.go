package metrics

import (
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE shared by the chat-completions style models.
const DefaultEncoding = "cl100k_base"

// Estimator counts tokens with tiktoken and falls back to a rune heuristic
// when the encoding cannot be loaded (tiktoken fetches BPE ranks on first use).
type Estimator struct {
	encoding string
	logger   *slog.Logger

	once sync.Once
	enc  *tiktoken.Tiktoken
}

// NewEstimator builds a lazily initialised estimator.
func NewEstimator(encoding string, logger *slog.Logger) *Estimator {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Estimator{encoding: encoding, logger: logger.With("component", "metrics.estimator")}
}

// Encoding names the BPE in use.
func (e *Estimator) Encoding() string { return e.encoding }

// Warm loads the encoding now rather than on the first Count. It reports
// whether tiktoken is in use.
func (e *Estimator) Warm() bool {
	e.once.Do(e.load)
	return e.enc != nil
}

// Count returns the estimated token count for text.
func (e *Estimator) Count(text string) int {
	if text == "" {
		return 0
	}
	e.once.Do(e.load)
	if e.enc != nil {
		return len(e.enc.Encode(text, nil, nil))
	}
	return EstimateByRunes(text)
}

func (e *Estimator) load() {
	enc, err := tiktoken.GetEncoding(e.encoding)
	if err != nil {
		e.logger.Warn("tiktoken encoding unavailable, using rune estimate", "encoding", e.encoding, "error", err)
		return
	}
	e.enc = enc
}

// EstimateByRunes approximates tokens for mixed CJK/latin text: CJK runes
// count one each, other runes four to a token.
func EstimateByRunes(text string) int {
	var cjk, other int
	for _, r := range text {
		if r >= 0x2E80 && utf8.RuneLen(r) >= 3 {
			cjk++
			continue
		}
		other++
	}
	return cjk + (other+3)/4
}
