package services

import (
	"context"
	"errors"
	"log"
	"strings"
)

// ModelConfig is one entry of the ordered fallback chain.
type ModelConfig struct {
	Name            string
	Provider        string // "gemini" or "openai"
	Temperature     float32
	TopK            float32
	TopP            float32
	MaxOutputTokens int32
}

// ErrAllModelsFailed reports that the whole chain was exhausted.
var ErrAllModelsFailed = errors.New("모든 모델에서 API 호출이 실패했습니다")

// errProviderNotConfigured marks a provider whose API key is missing; the
// chain skips to the next model instead of aborting.
var errProviderNotConfigured = errors.New("provider not configured")

type generateFunc func(ctx context.Context, model ModelConfig, prompt string) (string, error)

// DefaultModelChain is the fixed order in which models are tried for every
// AI-backed feature: the Gemini flash family first, then the GPT fallbacks.
func DefaultModelChain(maxTokens int32) []ModelConfig {
	return []ModelConfig{
		{Name: "gemini-2.5-flash-lite", Provider: "gemini", Temperature: 0.3, TopK: 40, TopP: 0.95, MaxOutputTokens: maxTokens},
		{Name: "gemini-1.5-flash", Provider: "gemini", Temperature: 0.3, TopK: 40, TopP: 0.95, MaxOutputTokens: maxTokens},
		{Name: "gemini-2.0-flash", Provider: "gemini", Temperature: 0.3, TopK: 40, TopP: 0.95, MaxOutputTokens: maxTokens},
		{Name: "gpt-4o-mini", Provider: "openai", Temperature: 0.3, MaxOutputTokens: maxTokens},
		{Name: "gpt-3.5-turbo-0125", Provider: "openai", Temperature: 0.3, MaxOutputTokens: maxTokens},
		{Name: "gpt-4.1-mini", Provider: "openai", Temperature: 0.3, MaxOutputTokens: maxTokens},
	}
}

// generateWithFallback walks the chain strictly in order, short-circuiting
// on the first success. Limit-class failures (quota, rate, overload) move
// on to the next model; when stopOnFatal is set any other failure aborts
// the chain immediately.
func generateWithFallback(ctx context.Context, chain []ModelConfig, prompt string, stopOnFatal bool, generators map[string]generateFunc) (string, error) {
	var lastErr error
	for _, model := range chain {
		generate, ok := generators[model.Provider]
		if !ok {
			continue
		}

		text, err := generate(ctx, model, prompt)
		if err == nil {
			log.Printf("model %s succeeded", model.Name)
			return text, nil
		}
		lastErr = err

		if errors.Is(err, errProviderNotConfigured) {
			log.Printf("model %s skipped: %v", model.Name, err)
			continue
		}
		if stopOnFatal && !isLimitError(err) {
			log.Printf("model %s failed fatally, aborting chain: %v", model.Name, err)
			break
		}
		log.Printf("model %s unavailable, trying next: %v", model.Name, err)
	}

	if lastErr == nil {
		lastErr = ErrAllModelsFailed
	}
	if isOverloadMessage(lastErr.Error()) {
		return "", errors.New(overloadedError)
	}
	return "", lastErr
}

// isLimitError reports whether a failure looks like quota exhaustion or a
// transient upstream overload rather than a hard error.
func isLimitError(err error) bool {
	message := strings.ToLower(err.Error())
	for _, marker := range []string{"quota", "limit", "rate", "overloaded", "unavailable", "429", "403", "503"} {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}

// cleanModelOutput strips the markdown fences models wrap JSON in despite
// being told not to.
func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
