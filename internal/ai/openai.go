package ai

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	groqBaseURL    = "https://api.groq.com/openai/v1"
	gpt4allBaseURL = "http://localhost:4891/v1"
)

// chatProvider talks to any OpenAI-compatible chat completions endpoint.
type chatProvider struct {
	name   string
	model  string
	client *openai.Client
}

func newChatProvider(name, model string, cfg Config, apiKey, defaultBaseURL string) *chatProvider {
	oc := openai.DefaultConfig(apiKey)
	switch {
	case cfg.BaseURL != "":
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	case defaultBaseURL != "":
		oc.BaseURL = defaultBaseURL
	}
	oc.HTTPClient = cfg.httpClient()
	return &chatProvider{name: name, model: model, client: openai.NewClientWithConfig(oc)}
}

// NewOpenAI builds the OpenAI provider. An API key is required.
func NewOpenAI(cfg Config) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &Error{Provider: OpenAI, Kind: KindConfig, Message: "API key no configurada"}
	}
	return newChatProvider(OpenAI, modelOrDefault(OpenAI, cfg.Model), cfg, cfg.APIKey, ""), nil
}

// NewGroq builds the GroqCloud provider on Groq's OpenAI-compatible API.
func NewGroq(cfg Config) (Provider, error) {
	return newGroq(GroqCloud, cfg)
}

// NewMixtral is GroqCloud serving a Mixtral model by default.
func NewMixtral(cfg Config) (Provider, error) {
	return newGroq(Mixtral, cfg)
}

func newGroq(name string, cfg Config) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &Error{Provider: name, Kind: KindConfig, Message: "API key no configurada"}
	}
	return newChatProvider(name, modelOrDefault(name, cfg.Model), cfg, cfg.APIKey, groqBaseURL), nil
}

// NewGPT4All serves a local model file through the GPT4All desktop API
// server. The file must exist.
func NewGPT4All(cfg Config) (Provider, error) {
	path := strings.TrimSpace(cfg.ModelPath)
	if path == "" {
		return nil, &Error{Provider: GPT4All, Kind: KindConfig, Message: "ruta del modelo no configurada"}
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, &Error{Provider: GPT4All, Kind: KindConfig, Message: "modelo no encontrado en " + path, Err: err}
	}
	model := cfg.Model
	if model == "" {
		model = filepath.Base(path)
	}
	return newChatProvider(GPT4All, model, cfg, "", gpt4allBaseURL), nil
}

func (p *chatProvider) Name() string  { return p.name }
func (p *chatProvider) Model() string { return p.model }

func (p *chatProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.model,
		MaxTokens: MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", p.classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Provider: p.name, Kind: KindVendor, Message: "respuesta vacía"}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *chatProvider) TestConnection(ctx context.Context) (string, error) {
	_, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.model,
		MaxTokens: testMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: testPrompt},
		},
	})
	if err != nil {
		return "", p.classify(err)
	}
	return successMessage(p.model), nil
}

func (p *chatProvider) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Provider: p.name, Kind: errorKind(apiErr.HTTPStatusCode, apiErr.Message), Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &Error{Provider: p.name, Kind: errorKind(reqErr.HTTPStatusCode, reqErr.Error()), Message: reqErr.Error(), Err: err}
	}
	return &Error{Provider: p.name, Kind: KindNetwork, Message: err.Error(), Err: err}
}

// errorKind maps a vendor failure to a Kind. Gemini reports a bad key as
// 400 with an "API key" message.
func errorKind(code int, msg string) Kind {
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		return KindAuth
	}
	if code == http.StatusBadRequest && strings.Contains(msg, "API key") {
		return KindAuth
	}
	return KindVendor
}
