package llm

import (
	"fmt"
	"slices"
	"strings"
)

// ProviderID names one of the supported AI providers.
type ProviderID string

const (
	ProviderAIHubMix ProviderID = "aihubmix"
	ProviderGemini   ProviderID = "gemini"
	ProviderDeepSeek ProviderID = "deepseek"
	ProviderOpenAI   ProviderID = "openai"
	ProviderClaude   ProviderID = "claude"
)

// DefaultProvider is used when configuration leaves the provider empty.
const DefaultProvider = ProviderAIHubMix

// ModelInfo is the human facing description of a model.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Recommended bool   `json:"recommended"`
}

// ProviderDescriptor is the static description of a provider.
type ProviderDescriptor struct {
	ID              ProviderID `json:"type"`
	DisplayName     string     `json:"displayName"`
	BaseURL         string     `json:"baseUrl"`
	SupportedModels []string   `json:"models"`
	DefaultModel    string     `json:"defaultModel"`
	AuthHeaderName  string     `json:"authHeader"`
	Shape           Shape      `json:"-"`
}

// SupportsModel reports whether model is listed for the provider.
func (d ProviderDescriptor) SupportsModel(model string) bool {
	return slices.Contains(d.SupportedModels, model)
}

// Models returns the supported models with their descriptions, in listing order.
func (d ProviderDescriptor) Models() []ModelInfo {
	out := make([]ModelInfo, 0, len(d.SupportedModels))
	for _, id := range d.SupportedModels {
		info, ok := modelDetails[d.ID][id]
		if !ok {
			info = ModelInfo{Name: id, Description: "无描述"}
		}
		info.ID = id
		out = append(out, info)
	}
	return out
}

func (d ProviderDescriptor) clone() ProviderDescriptor {
	d.SupportedModels = slices.Clone(d.SupportedModels)
	return d
}

var registry = []ProviderDescriptor{
	{
		ID:              ProviderAIHubMix,
		DisplayName:     "Aihubmix",
		BaseURL:         "https://aihubmix.com/v1",
		SupportedModels: []string{"gpt-4o-mini", "gpt-4o", "gpt-4", "gpt-3.5-turbo", "claude-3-5-sonnet-20241022", "gemini-pro"},
		DefaultModel:    "gpt-4o-mini",
		AuthHeaderName:  "Authorization",
		Shape:           OpenAICompatible{},
	},
	{
		ID:              ProviderGemini,
		DisplayName:     "Gemini",
		BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
		SupportedModels: []string{"gemini-pro", "gemini-pro-vision"},
		DefaultModel:    "gemini-pro",
		AuthHeaderName:  "x-goog-api-key",
		Shape:           GeminiStyle{},
	},
	{
		ID:              ProviderDeepSeek,
		DisplayName:     "Deepseek",
		BaseURL:         "https://api.deepseek.com/v1",
		SupportedModels: []string{"deepseek-chat", "deepseek-coder"},
		DefaultModel:    "deepseek-chat",
		AuthHeaderName:  "Authorization",
		Shape:           OpenAICompatible{},
	},
	{
		ID:              ProviderOpenAI,
		DisplayName:     "Openai",
		BaseURL:         "https://api.openai.com/v1",
		SupportedModels: []string{"gpt-3.5-turbo", "gpt-4", "gpt-4-turbo-preview", "gpt-4o", "gpt-4o-mini"},
		DefaultModel:    "gpt-4o-mini",
		AuthHeaderName:  "Authorization",
		Shape:           OpenAICompatible{},
	},
	{
		ID:              ProviderClaude,
		DisplayName:     "Claude",
		BaseURL:         "https://api.anthropic.com/v1",
		SupportedModels: []string{"claude-3-5-sonnet-20241022", "claude-3-opus-20240229", "claude-3-haiku-20240307"},
		DefaultModel:    "claude-3-5-sonnet-20241022",
		AuthHeaderName:  "x-api-key",
		Shape:           ClaudeStyle{},
	},
}

var modelDetails = map[ProviderID]map[string]ModelInfo{
	ProviderAIHubMix: {
		"gpt-4o-mini":                {Name: "GPT-4o Mini", Description: "快速响应，性价比高", Recommended: true},
		"gpt-4o":                     {Name: "GPT-4o", Description: "最新的GPT-4模型"},
		"gpt-4":                      {Name: "GPT-4", Description: "高质量分析"},
		"gpt-3.5-turbo":              {Name: "GPT-3.5 Turbo", Description: "平衡性能与成本"},
		"claude-3-5-sonnet-20241022": {Name: "Claude 3.5 Sonnet", Description: "强大的Claude模型"},
		"gemini-pro":                 {Name: "Gemini Pro", Description: "Google Gemini模型"},
	},
	ProviderOpenAI: {
		"gpt-4o-mini":         {Name: "GPT-4o Mini", Description: "快速响应，成本低", Recommended: true},
		"gpt-4o":              {Name: "GPT-4o", Description: "最新的GPT-4模型"},
		"gpt-4":               {Name: "GPT-4", Description: "高质量分析"},
		"gpt-4-turbo-preview": {Name: "GPT-4 Turbo", Description: "增强版GPT-4"},
		"gpt-3.5-turbo":       {Name: "GPT-3.5 Turbo", Description: "平衡性能与成本"},
	},
	ProviderClaude: {
		"claude-3-5-sonnet-20241022": {Name: "Claude 3.5 Sonnet", Description: "最新的Claude模型", Recommended: true},
		"claude-3-opus-20240229":     {Name: "Claude 3 Opus", Description: "最强性能的Claude"},
		"claude-3-haiku-20240307":    {Name: "Claude 3 Haiku", Description: "快速响应的Claude"},
	},
	ProviderGemini: {
		"gemini-pro":        {Name: "Gemini Pro", Description: "Google的高性能模型", Recommended: true},
		"gemini-pro-vision": {Name: "Gemini Pro Vision", Description: "支持图像的Gemini"},
	},
	ProviderDeepSeek: {
		"deepseek-chat":  {Name: "DeepSeek Chat", Description: "DeepSeek对话模型", Recommended: true},
		"deepseek-coder": {Name: "DeepSeek Coder", Description: "DeepSeek编程模型"},
	},
}

// Providers lists every provider in registry order.
func Providers() []ProviderDescriptor {
	out := make([]ProviderDescriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d.clone())
	}
	return out
}

// Lookup resolves a provider id; ids are matched case-insensitively.
func Lookup(id string) (ProviderDescriptor, error) {
	want := ProviderID(strings.ToLower(strings.TrimSpace(id)))
	for _, d := range registry {
		if d.ID == want {
			return d.clone(), nil
		}
	}
	return ProviderDescriptor{}, fmt.Errorf("%w: %q", ErrUnsupportedProvider, id)
}
