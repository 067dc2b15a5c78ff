package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ChatRequest is the provider independent request every shape translates.
type ChatRequest struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Shape maps ChatRequest onto one family of provider wire formats.
// The set is closed: OpenAICompatible, GeminiStyle and ClaudeStyle.
type Shape interface {
	// BuildRequest encodes the JSON body for req.
	BuildRequest(req ChatRequest) ([]byte, error)
	// ParseResponse extracts the completion text; anything missing or malformed yields "".
	ParseResponse(body []byte) string
	// AuthHeaders returns the headers carrying apiKey plus the JSON content type.
	AuthHeaders(apiKey string) http.Header
	// EndpointPath is appended to the provider base URL.
	EndpointPath(model string) string

	sealed()
}

func jsonHeaders() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return h
}

// OpenAICompatible is the chat-completions format shared by aihubmix, deepseek and openai.
type OpenAICompatible struct{}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (OpenAICompatible) sealed() {}

func (OpenAICompatible) BuildRequest(req ChatRequest) ([]byte, error) {
	return encode(chatCompletionRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
}

func (OpenAICompatible) ParseResponse(body []byte) string {
	var resp chatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Message.Content
}

func (OpenAICompatible) AuthHeaders(apiKey string) http.Header {
	h := jsonHeaders()
	h.Set("Authorization", "Bearer "+apiKey)
	return h
}

func (OpenAICompatible) EndpointPath(string) string {
	return "/chat/completions"
}

// GeminiStyle is Google's generateContent format. It has no system role, so
// the system prompt is prepended to the user text.
type GeminiStyle struct{}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (GeminiStyle) sealed() {}

func (GeminiStyle) BuildRequest(req ChatRequest) ([]byte, error) {
	return encode(geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: req.System + "\n\n" + req.User}},
		}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	})
}

func (GeminiStyle) ParseResponse(body []byte) string {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Candidates) == 0 {
		return ""
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}

func (GeminiStyle) AuthHeaders(apiKey string) http.Header {
	h := jsonHeaders()
	h.Set("x-goog-api-key", apiKey)
	return h
}

func (GeminiStyle) EndpointPath(model string) string {
	return "/models/" + model + ":generateContent"
}

// ClaudeStyle is Anthropic's messages format.
type ClaudeStyle struct{}

// AnthropicVersion is sent with every Claude request.
const AnthropicVersion = "2023-06-01"

type claudeRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	System      string        `json:"system"`
	Messages    []chatMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (ClaudeStyle) sealed() {}

func (ClaudeStyle) BuildRequest(req ChatRequest) ([]byte, error) {
	return encode(claudeRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		System:      req.System,
		Messages:    []chatMessage{{Role: "user", Content: req.User}},
	})
}

func (ClaudeStyle) ParseResponse(body []byte) string {
	var resp claudeResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Content) == 0 {
		return ""
	}
	return resp.Content[0].Text
}

func (ClaudeStyle) AuthHeaders(apiKey string) http.Header {
	h := jsonHeaders()
	h.Set("x-api-key", apiKey)
	h.Set("anthropic-version", AnthropicVersion)
	return h
}

func (ClaudeStyle) EndpointPath(string) string {
	return "/messages"
}

func encode(v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode provider request: %w", err)
	}
	return payload, nil
}
