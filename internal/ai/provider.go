package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// SystemPrompt is sent ahead of every request, whatever the vendor.
const SystemPrompt = "Eres un asistente experto en coaching profesional."

const (
	MaxTokens     = 1000
	testMaxTokens = 10
	testPrompt    = "Test"
)

// Provider sends a prompt to one AI vendor and returns the generated text.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, prompt string) (string, error)
	TestConnection(ctx context.Context) (string, error)
}

// Config carries what a provider needs to reach its vendor. Only the fields
// relevant to the chosen provider are read.
type Config struct {
	APIKey    string
	Model     string
	ModelPath string
	BaseURL   string
	Timeout   time.Duration

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

type Kind string

const (
	KindConfig  Kind = "config"
	KindAuth    Kind = "auth"
	KindNetwork Kind = "network"
	KindVendor  Kind = "vendor"
)

// Error is returned by every provider operation that fails.
type Error struct {
	Provider string
	Kind     Kind
	Message  string
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindConfig:
		return fmt.Sprintf("Error de configuración en %s: %s", e.Provider, e.Message)
	case KindAuth:
		return fmt.Sprintf("Error de autenticación con %s: %s", e.Provider, e.Message)
	case KindNetwork:
		return fmt.Sprintf("Error de conexión con %s: %s", e.Provider, e.Message)
	default:
		return fmt.Sprintf("Error con %s: %s", e.Provider, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func successMessage(model string) string {
	return "Conexión exitosa con modelo " + model
}
