package ai

import "fmt"

// New returns the provider registered under name.
func New(name string, cfg Config) (Provider, error) {
	switch name {
	case OpenAI:
		return NewOpenAI(cfg)
	case GroqCloud:
		return NewGroq(cfg)
	case Mixtral:
		return NewMixtral(cfg)
	case Gemini:
		return NewGemini(cfg)
	case GPT4All:
		return NewGPT4All(cfg)
	}
	return nil, &Error{Provider: name, Kind: KindConfig, Message: fmt.Sprintf("proveedor desconocido %q", name)}
}
