// Package matching turns scores into ranked, explained match lists.
package matching

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/collab-matcher/internal/ai"
	"github.com/spigell/collab-matcher/internal/filtering"
	"github.com/spigell/collab-matcher/internal/logger"
	"github.com/spigell/collab-matcher/internal/profile"
)

const (
	DefaultLimit    = 5
	DefaultMinScore = 0.3
	defaultWorkers  = 8
)

// Store is the read side of the profile store.
type Store interface {
	GetByID(ctx context.Context, id string) (*profile.Profile, error)
	Query(ctx context.Context, q profile.Query) ([]*profile.Profile, error)
}

// Options control a single FindMatches call.
type Options struct {
	Limit            int
	MinScore         float64
	ExcludeConnected bool
	Explain          bool
}

// DefaultOptions mirrors the defaults of the matches command.
func DefaultOptions() Options {
	return Options{Limit: DefaultLimit, MinScore: DefaultMinScore, ExcludeConnected: true}
}

func (o Options) normalized() Options {
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if math.IsNaN(o.MinScore) || o.MinScore < 0 {
		o.MinScore = 0
	}
	if o.MinScore > 1 {
		o.MinScore = 1
	}
	return o
}

// Match is one ranked candidate.
type Match struct {
	Profile     *profile.Profile `json:"-"`
	Score       float64          `json:"score"`
	Reasons     []string         `json:"reasons"`
	Suggestions []string         `json:"suggestions"`
	Explanation string           `json:"explanation,omitempty"`
}

// Summary is the response view of a Match.
type Summary struct {
	Profile         profile.Summary `json:"profile"`
	MatchPercentage int             `json:"matchPercentage"`
	Score           float64         `json:"score"`
	Reasons         []string        `json:"reasons"`
	Suggestions     []string        `json:"suggestions"`
	Explanation     string          `json:"explanation,omitempty"`
}

func (m Match) Summarize() Summary {
	return Summary{
		Profile:         m.Profile.Summarize(),
		MatchPercentage: Percent(m.Score),
		Score:           m.Score,
		Reasons:         m.Reasons,
		Suggestions:     m.Suggestions,
		Explanation:     m.Explanation,
	}
}

// Percent rounds a score in [0,1] to an integer percentage.
func Percent(score float64) int {
	return int(math.Round(score * 100))
}

// Config holds orchestrator settings that do not change per request.
type Config struct {
	Workers     int
	ExcludeFile string
}

// Orchestrator applies exclusion, threshold and limit policy around a Strategy.
type Orchestrator struct {
	store     Store
	strategy  Strategy
	explainer ai.Explainer
	cfg       Config
	logger    *zap.Logger
}

// New builds an orchestrator. A nil strategy falls back to the heuristic scorer
// and a nil explainer disables explanations.
func New(store Store, strategy Strategy, explainer ai.Explainer, cfg Config, log *zap.Logger) *Orchestrator {
	if strategy == nil {
		strategy = Heuristic{}
	}
	if cfg.Workers < 1 {
		cfg.Workers = defaultWorkers
	}

	return &Orchestrator{
		store:     store,
		strategy:  strategy,
		explainer: explainer,
		cfg:       cfg,
		logger:    logger.WithStrategy(log, strategy.Name()),
	}
}

// Strategy returns the configured ranking strategy.
func (o *Orchestrator) Strategy() Strategy {
	return o.strategy
}

// FindMatches ranks every other profile for seedID. The result never contains
// the seed and is ordered by score, ties kept in store order.
func (o *Orchestrator) FindMatches(ctx context.Context, seedID string, opts Options) ([]Match, error) {
	opts = opts.normalized()
	log := o.logger.With(logger.PairFields(seedID, "")...)

	seed, err := o.store.GetByID(ctx, seedID)
	if err != nil {
		return nil, fmt.Errorf("get seed profile: %w", err)
	}

	snapshot, err := o.store.Query(ctx, profile.Query{ExcludeIDs: []string{seedID}})
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	candidates, err := o.pipeline(opts).RunFilters(ctx, filtering.NewCandidates(seed, snapshot))
	if err != nil {
		return nil, fmt.Errorf("filter candidates: %w", err)
	}

	scores, err := o.scoreAll(ctx, seed, candidates.Items)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(scores))
	for i, score := range scores {
		log.Debug("candidate scored",
			zap.String(logger.FieldPeer, candidates.Items[i].ID),
			zap.Float64("score", score),
		)
		if score < opts.MinScore {
			continue
		}
		matches = append(matches, Match{Profile: candidates.Items[i], Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}

	for i := range matches {
		matches[i].Reasons = Reasons(seed, matches[i].Profile)
		matches[i].Suggestions = Suggestions(seed, matches[i].Profile)
	}

	if opts.Explain {
		o.explain(ctx, seed, matches)
	}

	log.Info("matches found",
		zap.Int("candidates", candidates.Len()),
		zap.Int("matches", len(matches)),
		zap.Int("limit", opts.Limit),
		zap.Float64("min_score", opts.MinScore),
	)

	return matches, nil
}

func (o *Orchestrator) pipeline(opts Options) *filtering.Filtering {
	steps := []filtering.Filter{
		filtering.NewExcludeSelf(),
		filtering.NewExcludeConnected(opts.ExcludeConnected, o.logger),
		filtering.NewExcludeFile(o.cfg.ExcludeFile, o.logger),
	}
	if provider, ok := o.strategy.(filterProvider); ok {
		steps = append(steps, provider.Filters()...)
	}
	return filtering.New(steps, o.logger)
}

// scoreAll scores candidates in parallel. scores[i] belongs to candidates[i].
func (o *Orchestrator) scoreAll(ctx context.Context, seed *profile.Profile, candidates []*profile.Profile) ([]float64, error) {
	scores := make([]float64, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)
	for i, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scores[i] = o.strategy.Score(seed, c)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}
	return scores, nil
}

// explain fills Explanation for every match. Failures get ai.FallbackReason.
func (o *Orchestrator) explain(ctx context.Context, seed *profile.Profile, matches []Match) {
	if o.explainer == nil {
		for i := range matches {
			matches[i].Explanation = ai.FallbackReason
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(o.cfg.Workers)
	for i := range matches {
		g.Go(func() error {
			peer := matches[i].Profile
			reason, err := o.explainer.Explain(ctx, seed, peer)
			if err != nil {
				o.logger.Warn("explanation failed, using fallback",
					append(logger.PairFields(seed.ID, peer.ID), zap.Error(err))...,
				)
				reason = ai.FallbackReason
			}
			matches[i].Explanation = reason
			return nil
		})
	}
	_ = g.Wait()
}
