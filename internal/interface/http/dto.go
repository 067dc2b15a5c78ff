package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/seasonal-tarot/internal/domain/analysis"
	"github.com/yanqian/seasonal-tarot/internal/domain/gateway"
	"github.com/yanqian/seasonal-tarot/internal/domain/tarot"
	"github.com/yanqian/seasonal-tarot/internal/infra/llm"
	"github.com/yanqian/seasonal-tarot/internal/infra/usagelog"
)

type drawSingleRequest struct {
	Question string `json:"question"`
}

type drawSingleResponse struct {
	ReadingID  uuid.UUID        `json:"readingId"`
	Card       tarot.CardView   `json:"card"`
	Question   string           `json:"question"`
	SpreadType tarot.SpreadType `json:"spreadType"`
	Timestamp  time.Time        `json:"timestamp"`
}

type drawSpreadResponse struct {
	ReadingID  uuid.UUID                 `json:"readingId"`
	Reading    map[string]tarot.CardView `json:"reading"`
	SpreadType tarot.SpreadType          `json:"spreadType"`
	Timestamp  time.Time                 `json:"timestamp"`
}

type minorArcanaGroups struct {
	Wands     []tarot.CardDefinition `json:"wands"`
	Cups      []tarot.CardDefinition `json:"cups"`
	Swords    []tarot.CardDefinition `json:"swords"`
	Pentacles []tarot.CardDefinition `json:"pentacles"`
}

type cardTotals struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Total int `json:"total"`
}

type cardListResponse struct {
	MajorArcana []tarot.CardDefinition `json:"majorArcana"`
	MinorArcana minorArcanaGroups      `json:"minorArcana"`
	TotalCards  cardTotals             `json:"totalCards"`
}

// readingRequest is shared by every endpoint that accepts a drawn spread.
type readingRequest struct {
	Reading *tarot.Reading `json:"reading"`
}

type singleCardRequest struct {
	Card     *tarot.Card `json:"card"`
	Question string      `json:"question"`
}

type analysisMeta struct {
	Timestamp    time.Time `json:"timestamp"`
	AnalysisType string    `json:"analysisType"`
}

type spreadAnalysisResponse struct {
	analysis.SpreadResult
	analysisMeta
}

type insightResponse struct {
	analysis.InsightResult
	analysisMeta
}

type seasonalAdviceResponse struct {
	analysis.SeasonalAdviceResult
	analysisMeta
}

type singleCardResponse struct {
	analysis.SingleCardResult
	analysisMeta
}

type completeAnalysisStatus struct {
	FullAnalysis   analysis.Status `json:"fullAnalysis"`
	SeasonalAdvice analysis.Status `json:"seasonalAdvice"`
}

type completeAnalysisResponse struct {
	FullAnalysis   string                 `json:"fullAnalysis"`
	CardsSummary   string                 `json:"cardsSummary"`
	Insight        string                 `json:"insight"`
	SeasonalAdvice string                 `json:"seasonalAdvice"`
	AnalysisStatus completeAnalysisStatus `json:"analysisStatus"`
	analysisMeta
}

type analysisStatusResponse struct {
	gateway.Status
	ServiceAvailable bool `json:"serviceAvailable"`
}

type apiTypesResponse struct {
	APITypes    []llm.ProviderDescriptor `json:"apiTypes"`
	CurrentType llm.ProviderID           `json:"currentType"`
}

type modelsResponse struct {
	APIType      llm.ProviderID  `json:"apiType"`
	Models       []llm.ModelInfo `json:"models"`
	CurrentModel string          `json:"currentModel"`
	DefaultModel string          `json:"defaultModel"`
}

type setAPIRequest struct {
	APIType string `json:"apiType"`
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
}

type setAPIResponse struct {
	IsConfigured      bool           `json:"isConfigured"`
	APIType           llm.ProviderID `json:"apiType"`
	Model             string         `json:"model"`
	ValidationMessage string         `json:"validationMessage"`
}

type setModelRequest struct {
	Model string `json:"model" binding:"required"`
}

type setModelResponse struct {
	CurrentModel string `json:"currentModel"`
}

type validateResponse struct {
	IsValid      bool   `json:"isValid"`
	IsConfigured bool   `json:"isConfigured"`
	Message      string `json:"message"`
}

type usageResponse struct {
	Since     time.Time          `json:"since"`
	Summaries []usagelog.Summary `json:"summaries"`
}
