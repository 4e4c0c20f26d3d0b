package matching

import (
	"fmt"
	"strings"

	"github.com/spigell/collab-matcher/internal/filtering"
	"github.com/spigell/collab-matcher/internal/profile"
	"github.com/spigell/collab-matcher/internal/scoring"
	"github.com/spigell/collab-matcher/internal/similarity"
)

const (
	StrategyHeuristic = "heuristic"
	StrategyVector    = "vector"
)

// Strategy ranks one candidate for a seed. Implementations must be pure.
type Strategy interface {
	Name() string
	Score(seed, candidate *profile.Profile) float64
}

// filterProvider is implemented by strategies that need extra candidate filters.
type filterProvider interface {
	Filters() []filtering.Filter
}

// NewStrategy returns the strategy registered under name. An empty name selects the heuristic scorer.
func NewStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyHeuristic:
		return Heuristic{}, nil
	case StrategyVector:
		return Vector{}, nil
	default:
		return nil, fmt.Errorf("unknown matching strategy %q (expected %s or %s)", name, StrategyHeuristic, StrategyVector)
	}
}

// Heuristic is the multi-factor scorer.
type Heuristic struct{}

func (Heuristic) Name() string { return StrategyHeuristic }

func (Heuristic) Score(seed, candidate *profile.Profile) float64 {
	return scoring.Score(seed, candidate)
}

// Vector ranks by embedding similarity. Profiles without embeddings are skipped.
type Vector struct{}

func (Vector) Name() string { return StrategyVector }

func (Vector) Score(seed, candidate *profile.Profile) float64 {
	return similarity.Similarity(seed, candidate)
}

func (Vector) Filters() []filtering.Filter {
	return []filtering.Filter{filtering.NewRequireEmbedding()}
}
