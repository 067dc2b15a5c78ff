package analysis

// Status marks whether a result came from the provider or a fallback.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Token budgets per operation; zero uses the gateway default.
const (
	spreadMaxTokens     = 0
	insightMaxTokens    = 100
	seasonalMaxTokens   = 800
	singleCardMaxTokens = 600
)

// Fallback texts returned when the provider yields nothing.
const (
	FallbackAnalysis   = "抱歉，AI分析服务暂时不可用。请检查网络连接和API配置。"
	FallbackInsight    = "静心聆听内在的声音，答案会在适当的时候显现。"
	FallbackSeasonal   = "在这个特殊的时刻，相信自己的直觉，跟随内心的指引前行。"
	FallbackGuidance   = "请静心默念您的问题，相信内在的智慧会给您指引。"
	FallbackKeyMessage = "答案在您心中，相信自己的直觉。"
)

// SpreadResult is the full five-part analysis of a reading.
type SpreadResult struct {
	FullAnalysis string `json:"fullAnalysis"`
	CardsSummary string `json:"cardsSummary"`
	Status       Status `json:"status"`
}

// InsightResult is the one sentence summary of a reading. Failures fall
// back to a fixed aphorism without a status.
type InsightResult struct {
	Text string `json:"insight"`
}

// SeasonalAdviceResult holds per-position tips.
type SeasonalAdviceResult struct {
	Text   string `json:"seasonalAdvice"`
	Status Status `json:"status"`
}

// SingleCardResult is the sectioned reading of one card.
type SingleCardResult struct {
	Interpretation string `json:"interpretation"`
	Guidance       string `json:"guidance"`
	KeyMessage     string `json:"keyMessage"`
	FullText       string `json:"fullText,omitempty"`
	Status         Status `json:"status"`
}

// CompleteResult joins the three spread analyses.
type CompleteResult struct {
	Spread   SpreadResult         `json:"spread"`
	Insight  InsightResult        `json:"insight"`
	Seasonal SeasonalAdviceResult `json:"seasonal"`
}
