package ai

const (
	OpenAI    = "OpenAI"
	GroqCloud = "GroqCloud"
	Mixtral   = "Mixtral"
	Gemini    = "Gemini"
	GPT4All   = "GPT4All"
)

type Profile struct {
	Name           string
	DefaultModel   string
	Models         []string
	Family         Family
	ContextLimit   int
	NeedsAPIKey    bool
	NeedsModelPath bool
	Description    string
}

var profiles = map[string]Profile{
	OpenAI: {
		Name:         OpenAI,
		DefaultModel: "gpt-4",
		Models:       []string{"gpt-4", "gpt-4o", "gpt-4o-mini", "gpt-3.5-turbo"},
		Family:       FamilyGPT,
		ContextLimit: 8192,
		NeedsAPIKey:  true,
		Description:  "OpenAI chat completions",
	},
	GroqCloud: {
		Name:         GroqCloud,
		DefaultModel: "llama-3.3-70b-versatile",
		Models:       []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant", "gemma2-9b-it"},
		Family:       FamilyLlama,
		ContextLimit: 128000,
		NeedsAPIKey:  true,
		Description:  "Groq hosted open models, OpenAI-compatible API",
	},
	Mixtral: {
		Name:         Mixtral,
		DefaultModel: "mixtral-8x7b-32768",
		Models:       []string{"mixtral-8x7b-32768"},
		Family:       FamilyMixtral,
		ContextLimit: 32768,
		NeedsAPIKey:  true,
		Description:  "Mixtral served through GroqCloud",
	},
	Gemini: {
		Name:         Gemini,
		DefaultModel: "gemini-pro",
		Models:       []string{"gemini-pro", "gemini-1.5-flash", "gemini-1.5-pro"},
		Family:       FamilyGemini,
		ContextLimit: 32760,
		NeedsAPIKey:  true,
		Description:  "Google Gemini, OpenAI-compatible endpoint",
	},
	GPT4All: {
		Name:           GPT4All,
		Family:         FamilyLlama,
		ContextLimit:   2048,
		NeedsModelPath: true,
		Description:    "Local model file served by the GPT4All API server",
	},
}

func GetProfile(name string) (Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}

func Profiles() []Profile {
	order := []string{OpenAI, GroqCloud, Mixtral, Gemini, GPT4All}
	result := make([]Profile, 0, len(order))
	for _, k := range order {
		result = append(result, profiles[k])
	}
	return result
}

func modelOrDefault(name, model string) string {
	if model != "" {
		return model
	}
	return profiles[name].DefaultModel
}
