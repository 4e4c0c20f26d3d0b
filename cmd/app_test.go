package cmd

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewProviderClaudeHasNoEmbedder(t *testing.T) {
	cfg := &AIConfig{
		Provider:   "Claude",
		MaxRetries: 1,
		Claude:     &ProviderConfig{APIKey: "test-key"},
	}

	p, err := newProvider(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.generator == nil {
		t.Fatalf("expected a generator")
	}
	if p.embedder != nil {
		t.Fatalf("claude must not provide embeddings")
	}
}

func TestNewProviderOpenAI(t *testing.T) {
	cfg := &AIConfig{
		Provider: "openai",
		OpenAI:   &ProviderConfig{APIKey: "test-key", BaseURL: "http://127.0.0.1:1/v1"},
	}

	p, err := newProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.generator == nil || p.embedder == nil {
		t.Fatalf("expected generator and embedder, got %+v", p)
	}
}

func TestNewProviderErrors(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := newProvider(context.Background(), &AIConfig{Provider: "llama"}, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "unsupported ai provider") {
		t.Fatalf("expected unsupported provider error, got %v", err)
	}

	_, err = newProvider(context.Background(), &AIConfig{Provider: "openai"}, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY_FILE") {
		t.Fatalf("expected missing key hint, got %v", err)
	}
}

func TestRedacted(t *testing.T) {
	cfg := &Config{AI: &AIConfig{
		Gemini: &ProviderConfig{APIKey: "secret", Model: "gemini-2.5-flash"},
		OpenAI: &ProviderConfig{APIKeyFile: "/run/secrets/openai"},
	}}

	out := redacted(cfg)
	if out.AI.Gemini.APIKey != "***" || out.AI.Gemini.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected redaction: %+v", out.AI.Gemini)
	}
	if cfg.AI.Gemini.APIKey != "secret" {
		t.Fatalf("original config must not change")
	}
	if out.AI.OpenAI.APIKeyFile != "/run/secrets/openai" || out.AI.Claude != nil {
		t.Fatalf("unexpected provider configs: %+v", out.AI)
	}
}
