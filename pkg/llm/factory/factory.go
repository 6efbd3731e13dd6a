package factory

import (
	"fmt"

	"course-assistant-be/pkg/llm"
	"course-assistant-be/pkg/llm/anthropic"
	"course-assistant-be/pkg/llm/ollama"
)

// NewProvider builds the configured LLM provider.
func NewProvider(providerName, model, ollamaBaseURL, anthropicKey string) (llm.Provider, error) {
	switch providerName {
	case "ollama":
		return ollama.NewProvider(ollamaBaseURL, model), nil
	case "anthropic", "":
		return anthropic.NewProvider(anthropicKey, model)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", providerName)
	}
}
