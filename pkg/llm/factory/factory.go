package factory

import (
	"fmt"

	"ai-notecapture-be/pkg/llm"
	"ai-notecapture-be/pkg/llm/ollama"
	"ai-notecapture-be/pkg/llm/openai"
)

type Params struct {
	Provider           string
	APIKey             string
	BaseURL            string
	Model              string
	TranscriptionModel string
	OllamaBaseURL      string
	OllamaModel        string
	RateLimitRPS       int
}

// NewLLMProvider builds the completion backend, wrapped in the shared rate limiter.
func NewLLMProvider(p Params) (llm.LLMProvider, error) {
	var provider llm.LLMProvider
	switch p.Provider {
	case "", "openai":
		provider = openai.NewProvider(p.APIKey, p.BaseURL, p.Model)
	case "ollama":
		provider = ollama.NewOllamaProvider(p.OllamaBaseURL, p.OllamaModel)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", p.Provider)
	}
	return llm.NewRateLimitedProvider(provider, p.RateLimitRPS, 1), nil
}

// NewTranscriber always targets the OpenAI-compatible endpoint; Ollama has no audio API.
func NewTranscriber(p Params) llm.Transcriber {
	t := openai.NewTranscriber(p.APIKey, p.BaseURL, p.TranscriptionModel)
	return llm.NewRateLimitedTranscriber(t, p.RateLimitRPS, 1)
}
