package matching

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/spigell/collab-matcher/internal/filtering"
	"github.com/spigell/collab-matcher/internal/logger"
	"github.com/spigell/collab-matcher/internal/profile"
	"github.com/spigell/collab-matcher/internal/similarity"
)

// ErrNotReady is returned when the seed has no embedding yet.
var ErrNotReady = errors.New("profile not ready for matching")

// SimilarProfile is one entry of a similarity ranking.
type SimilarProfile struct {
	Profile    profile.Summary `json:"profile"`
	Similarity float64         `json:"similarity"`
}

// Similar ranks profiles with embeddings by similarity to seedID, regardless of the configured strategy.
func (o *Orchestrator) Similar(ctx context.Context, seedID string, topN int) ([]SimilarProfile, error) {
	if topN < 1 {
		topN = DefaultLimit
	}

	seed, err := o.store.GetByID(ctx, seedID)
	if err != nil {
		return nil, fmt.Errorf("get seed profile: %w", err)
	}
	if !seed.HasEmbedding() {
		return nil, fmt.Errorf("%s: %w", seedID, ErrNotReady)
	}

	snapshot, err := o.store.Query(ctx, profile.Query{ExcludeIDs: []string{seedID}})
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	pipeline := filtering.New([]filtering.Filter{
		filtering.NewExcludeSelf(),
		filtering.NewRequireEmbedding(),
	}, o.logger)

	candidates, err := pipeline.RunFilters(ctx, filtering.NewCandidates(seed, snapshot))
	if err != nil {
		return nil, fmt.Errorf("filter candidates: %w", err)
	}

	ranked := similarity.Rank(seed, candidates.Items, topN)
	out := make([]SimilarProfile, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, SimilarProfile{
			Profile:    r.Profile.Summarize(),
			Similarity: math.Round(r.Similarity*100) / 100,
		})
	}

	o.logger.Info("similar profiles ranked",
		append(logger.PairFields(seedID, ""), zap.Int("count", len(out)))...,
	)
	return out, nil
}
