package factory

import (
	"fmt"

	"synaptiq-be/pkg/llm"
	"synaptiq-be/pkg/llm/gemini"
	"synaptiq-be/pkg/llm/ollama"
)

// NewLLMProvider builds the configured generation-model backend. Both
// backends satisfy the tool-aware contract required by deepdive chats.
func NewLLMProvider(providerName, modelName, ollamaBaseURL, geminiApiKey string) (llm.ToolCapableProvider, error) {
	switch providerName {
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	case "gemini":
		if geminiApiKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewGeminiProvider(geminiApiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", providerName)
	}
}
