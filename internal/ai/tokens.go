package ai

type Family string

const (
	FamilyGPT     Family = "gpt"
	FamilyLlama   Family = "llama"
	FamilyMixtral Family = "mixtral"
	FamilyGemini  Family = "gemini"
)

// EstimateTokens approximates the token count of text from its length.
// Spanish prose averages a little under four characters per token.
func EstimateTokens(text string, family Family) int {
	return int(float64(len(text)) / charsPerToken(family))
}

func charsPerToken(family Family) float64 {
	switch family {
	case FamilyGemini:
		return 3.8
	case FamilyLlama, FamilyMixtral:
		return 3.3
	default:
		return 3.5
	}
}
