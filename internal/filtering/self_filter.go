package filtering

import (
	"context"

	"github.com/spigell/collab-matcher/internal/profile"
)

type selfFilter struct{}

// NewExcludeSelf creates a filter that removes the seed profile from its own candidates.
func NewExcludeSelf() Filter {
	return &selfFilter{}
}

func (f *selfFilter) Name() string { return "exclude_self" }

func (f *selfFilter) Disable(string) {}

func (f *selfFilter) IsEnabled() bool { return true }

func (f *selfFilter) Validate() error { return nil }

func (f *selfFilter) Apply(_ context.Context, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	if c.Seed == nil {
		return c, Step{Initial: initial, Left: initial}, nil
	}

	seedID := c.Seed.ID
	excluded := c.ExcludeFunc(func(p *profile.Profile) bool {
		return p == c.Seed || p.ID == seedID
	})

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}
