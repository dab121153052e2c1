package services

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

var openaiClient *openai.Client

func initOpenAI(apiKey string) {
	if apiKey == "" {
		return
	}
	openaiClient = openai.NewClient(apiKey)
}

func generateGPTText(ctx context.Context, model ModelConfig, prompt string) (string, error) {
	if openaiClient == nil {
		return "", errProviderNotConfigured
	}

	resp, err := openaiClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model.Name,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: model.Temperature,
		MaxTokens:   int(model.MaxOutputTokens),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("unexpected response format")
	}
	return cleanModelOutput(resp.Choices[0].Message.Content), nil
}

// modelGenerators routes each chain entry to its provider.
var modelGenerators = map[string]generateFunc{
	"gemini": generateGeminiText,
	"openai": generateGPTText,
}

// problemGenerators is the same routing, but with the legacy Gemini SDK so
// problem generation gets its safety settings.
var problemGenerators = map[string]generateFunc{
	"gemini": generateLegacyGeminiText,
	"openai": generateGPTText,
}
