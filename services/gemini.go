package services

import (
	"context"
	"errors"

	"hanbridge/config"

	legacygenai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"google.golang.org/genai"
)

// Global Gemini clients shared by every AI-backed service. The legacy SDK
// client exists only for problem generation, which needs its per-model
// safety settings.
var (
	geminiClient       *genai.Client
	legacyGeminiClient *legacygenai.Client
)

// InitAIServices initializes the generative clients using the API keys from
// the config. Missing keys leave the matching provider unconfigured; the
// fallback chain skips it at call time.
func InitAIServices(cfg *config.Config) error {
	if cfg.Gemini.ApiKey != "" {
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: cfg.Gemini.ApiKey})
		if err != nil {
			return err
		}
		geminiClient = client

		legacyClient, err := legacygenai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.ApiKey))
		if err != nil {
			return err
		}
		legacyGeminiClient = legacyClient
	}

	initOpenAI(cfg.Openai.GptApiKey)
	return nil
}

func generateGeminiText(ctx context.Context, model ModelConfig, prompt string) (string, error) {
	if geminiClient == nil {
		return "", errProviderNotConfigured
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(model.Temperature),
		TopK:            genai.Ptr(model.TopK),
		TopP:            genai.Ptr(model.TopP),
		MaxOutputTokens: model.MaxOutputTokens,
	}
	resp, err := geminiClient.Models.GenerateContent(ctx, model.Name, genai.Text(prompt), genConfig)
	if err != nil {
		return "", err
	}
	return cleanModelOutput(resp.Text()), nil
}

// generateLegacyGeminiText serves problem generation through the older SDK,
// with safety settings that block the categories a language prompt should
// never trip anyway.
func generateLegacyGeminiText(ctx context.Context, model ModelConfig, prompt string) (string, error) {
	if legacyGeminiClient == nil {
		return "", errProviderNotConfigured
	}

	gm := legacyGeminiClient.GenerativeModel(model.Name)
	gm.SetTemperature(model.Temperature)
	gm.SetTopK(int32(model.TopK))
	gm.SetTopP(model.TopP)
	gm.SetMaxOutputTokens(model.MaxOutputTokens)
	gm.SafetySettings = []*legacygenai.SafetySetting{
		{Category: legacygenai.HarmCategoryHarassment, Threshold: legacygenai.HarmBlockLowAndAbove},
		{Category: legacygenai.HarmCategoryHateSpeech, Threshold: legacygenai.HarmBlockLowAndAbove},
		{Category: legacygenai.HarmCategorySexuallyExplicit, Threshold: legacygenai.HarmBlockLowAndAbove},
		{Category: legacygenai.HarmCategoryDangerousContent, Threshold: legacygenai.HarmBlockLowAndAbove},
	}

	resp, err := gm.GenerateContent(ctx, legacygenai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no candidates in response")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(legacygenai.Text); ok {
			return cleanModelOutput(string(text)), nil
		}
	}
	return "", errors.New("unexpected response format")
}
