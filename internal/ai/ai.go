// Package ai defines the external text and embedding collaborators used around
// the matching engine. The scorer never calls them directly.
package ai

import (
	"context"

	"github.com/spigell/collab-matcher/internal/profile"
)

// FallbackReason replaces an explanation that could not be generated.
const FallbackReason = "These two professionals could collaborate based on complementary skills and shared business interests."

// Generator produces a text completion for a system instruction and a user message.
type Generator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Explainer writes a short natural-language reason for two profiles to connect.
type Explainer interface {
	Explain(ctx context.Context, a, b *profile.Profile) (string, error)
}
