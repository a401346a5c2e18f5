package ai

import "strings"

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// NewGemini builds the Gemini provider on Google's OpenAI-compatible endpoint.
func NewGemini(cfg Config) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &Error{Provider: Gemini, Kind: KindConfig, Message: "API key no configurada"}
	}
	return newChatProvider(Gemini, modelOrDefault(Gemini, cfg.Model), cfg, cfg.APIKey, geminiBaseURL), nil
}
