package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Providers(t *testing.T) {
	providers := Providers()
	require.Len(t, providers, 5)

	ids := make([]ProviderID, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
		require.True(t, p.SupportsModel(p.DefaultModel), "%s default model must be listed", p.ID)
		require.NotNil(t, p.Shape)
	}
	require.Equal(t, []ProviderID{ProviderAIHubMix, ProviderGemini, ProviderDeepSeek, ProviderOpenAI, ProviderClaude}, ids)

	providers[0].SupportedModels[0] = "mutated"
	again, err := Lookup("aihubmix")
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", again.SupportedModels[0])
}

func TestRegistry_Lookup(t *testing.T) {
	desc, err := Lookup(" Claude ")
	require.NoError(t, err)
	require.Equal(t, ProviderClaude, desc.ID)
	require.Equal(t, "x-api-key", desc.AuthHeaderName)
	require.IsType(t, ClaudeStyle{}, desc.Shape)

	gemini, err := Lookup("gemini")
	require.NoError(t, err)
	require.IsType(t, GeminiStyle{}, gemini.Shape)

	_, err = Lookup("unknownProvider")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnsupportedProvider))
}

func TestRegistry_Models(t *testing.T) {
	desc, err := Lookup("deepseek")
	require.NoError(t, err)
	models := desc.Models()
	require.Len(t, models, 2)
	require.Equal(t, ModelInfo{ID: "deepseek-chat", Name: "DeepSeek Chat", Description: "DeepSeek对话模型", Recommended: true}, models[0])
	require.False(t, desc.SupportsModel("gpt-4"))
}
