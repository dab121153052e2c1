package services

import (
	"context"
	"errors"
	"testing"
)

func recordingGenerator(calls *[]string, results map[string]error) generateFunc {
	return func(ctx context.Context, model ModelConfig, prompt string) (string, error) {
		*calls = append(*calls, model.Name)
		if err, ok := results[model.Name]; ok && err != nil {
			return "", err
		}
		return "output from " + model.Name, nil
	}
}

func TestGenerateWithFallbackFirstModelWins(t *testing.T) {
	calls := []string{}
	generators := map[string]generateFunc{
		"gemini": recordingGenerator(&calls, nil),
		"openai": recordingGenerator(&calls, nil),
	}

	text, err := generateWithFallback(context.Background(), DefaultModelChain(512), "prompt", false, generators)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "output from gemini-2.5-flash-lite" {
		t.Errorf("text = %q, want the first model's output", text)
	}
	if len(calls) != 1 {
		t.Errorf("calls = %v, want a single call", calls)
	}
}

func TestGenerateWithFallbackSkipsLimitErrors(t *testing.T) {
	calls := []string{}
	failures := map[string]error{
		"gemini-2.5-flash-lite": errors.New("429 quota exceeded"),
		"gemini-1.5-flash":      errors.New("rate limit"),
	}
	generators := map[string]generateFunc{
		"gemini": recordingGenerator(&calls, failures),
		"openai": recordingGenerator(&calls, failures),
	}

	text, err := generateWithFallback(context.Background(), DefaultModelChain(512), "prompt", false, generators)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "output from gemini-2.0-flash" {
		t.Errorf("text = %q, want the third model's output", text)
	}
	want := []string{"gemini-2.5-flash-lite", "gemini-1.5-flash", "gemini-2.0-flash"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i, name := range want {
		if calls[i] != name {
			t.Errorf("calls[%d] = %s, want %s", i, calls[i], name)
		}
	}
}

func TestGenerateWithFallbackMissingProvider(t *testing.T) {
	calls := []string{}
	failures := map[string]error{
		"gpt-4o-mini":        errors.New("quota"),
		"gpt-3.5-turbo-0125": errors.New("quota"),
		"gpt-4.1-mini":       errors.New("quota"),
	}
	// No gemini generator at all: those entries are skipped without a call.
	generators := map[string]generateFunc{
		"openai": recordingGenerator(&calls, failures),
	}

	_, err := generateWithFallback(context.Background(), DefaultModelChain(512), "prompt", false, generators)
	if err == nil {
		t.Fatal("expected an error when every reachable model fails")
	}
	if len(calls) != 3 {
		t.Errorf("calls = %v, want only the openai models", calls)
	}
}

func TestGenerateWithFallbackUnconfiguredProviderContinues(t *testing.T) {
	calls := []string{}
	failures := map[string]error{
		"gemini-2.5-flash-lite": errProviderNotConfigured,
		"gemini-1.5-flash":      errProviderNotConfigured,
		"gemini-2.0-flash":      errProviderNotConfigured,
	}
	generators := map[string]generateFunc{
		"gemini": recordingGenerator(&calls, failures),
		"openai": recordingGenerator(&calls, nil),
	}

	// Even with stopOnFatal set, a missing API key is not fatal.
	text, err := generateWithFallback(context.Background(), DefaultModelChain(512), "prompt", true, generators)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "output from gpt-4o-mini" {
		t.Errorf("text = %q, want the first openai model's output", text)
	}
}

func TestGenerateWithFallbackStopOnFatal(t *testing.T) {
	calls := []string{}
	failures := map[string]error{
		"gemini-2.5-flash-lite": errors.New("invalid request payload"),
	}
	generators := map[string]generateFunc{
		"gemini": recordingGenerator(&calls, failures),
		"openai": recordingGenerator(&calls, nil),
	}

	_, err := generateWithFallback(context.Background(), DefaultModelChain(512), "prompt", true, generators)
	if err == nil {
		t.Fatal("expected the fatal error to abort the chain")
	}
	if len(calls) != 1 {
		t.Errorf("calls = %v, want the chain to stop after the fatal failure", calls)
	}
}

func TestGenerateWithFallbackFatalToleratedWhenNotStopping(t *testing.T) {
	calls := []string{}
	failures := map[string]error{
		"gemini-2.5-flash-lite": errors.New("invalid request payload"),
	}
	generators := map[string]generateFunc{
		"gemini": recordingGenerator(&calls, failures),
		"openai": recordingGenerator(&calls, nil),
	}

	text, err := generateWithFallback(context.Background(), DefaultModelChain(512), "prompt", false, generators)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "output from gemini-1.5-flash" {
		t.Errorf("text = %q, want the next model's output", text)
	}
}

func TestGenerateWithFallbackOverloadMessage(t *testing.T) {
	calls := []string{}
	failures := map[string]error{}
	for _, model := range DefaultModelChain(512) {
		failures[model.Name] = errors.New("503 service overloaded")
	}
	generators := map[string]generateFunc{
		"gemini": recordingGenerator(&calls, failures),
		"openai": recordingGenerator(&calls, failures),
	}

	_, err := generateWithFallback(context.Background(), DefaultModelChain(512), "prompt", false, generators)
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != overloadedError {
		t.Errorf("error = %q, want the overload message", err.Error())
	}
}

func TestDefaultModelChainOrder(t *testing.T) {
	want := []string{
		"gemini-2.5-flash-lite",
		"gemini-1.5-flash",
		"gemini-2.0-flash",
		"gpt-4o-mini",
		"gpt-3.5-turbo-0125",
		"gpt-4.1-mini",
	}
	chain := DefaultModelChain(1024)
	if len(chain) != len(want) {
		t.Fatalf("chain length = %d, want %d", len(chain), len(want))
	}
	for i, name := range want {
		if chain[i].Name != name {
			t.Errorf("chain[%d] = %s, want %s", i, chain[i].Name, name)
		}
		if chain[i].MaxOutputTokens != 1024 {
			t.Errorf("chain[%d] MaxOutputTokens = %d, want 1024", i, chain[i].MaxOutputTokens)
		}
	}
}

func TestIsLimitError(t *testing.T) {
	limit := []string{"429 Too Many Requests", "quota exceeded", "model Overloaded", "503"}
	for _, msg := range limit {
		if !isLimitError(errors.New(msg)) {
			t.Errorf("expected %q to be a limit error", msg)
		}
	}
	if isLimitError(errors.New("invalid argument")) {
		t.Errorf("a hard failure should not count as a limit error")
	}
}

func TestCleanModelOutput(t *testing.T) {
	raw := "```json\n{\"score\": 80}\n```"
	if got := cleanModelOutput(raw); got != `{"score": 80}` {
		t.Errorf("cleanModelOutput = %q", got)
	}
	plain := `{"score": 80}`
	if got := cleanModelOutput(plain); got != plain {
		t.Errorf("unfenced output should pass through, got %q", got)
	}
}
