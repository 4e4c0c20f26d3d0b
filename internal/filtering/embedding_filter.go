package filtering

import (
	"context"

	"github.com/spigell/collab-matcher/internal/profile"
)

type embeddingFilter struct {
	enabled bool
	reason  string
}

// NewRequireEmbedding creates a filter that keeps only profiles with an embedding.
func NewRequireEmbedding() Filter {
	return &embeddingFilter{enabled: true}
}

func (f *embeddingFilter) Name() string { return "require_embedding" }

func (f *embeddingFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *embeddingFilter) IsEnabled() bool { return f.enabled }

func (f *embeddingFilter) Validate() error { return nil }

func (f *embeddingFilter) Apply(_ context.Context, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	excluded := c.ExcludeFunc(func(p *profile.Profile) bool {
		return !p.HasEmbedding()
	})
	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *embeddingFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason}
}
