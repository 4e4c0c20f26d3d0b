package matching

import (
	"context"
	"fmt"
	"math"

	"github.com/spigell/collab-matcher/internal/scoring"
)

// MutualResult reports the two directional scores of a pair as integer percentages.
type MutualResult struct {
	MutualScore int      `json:"mutualScore"`
	AToB        int      `json:"yourInterestInThem"`
	BToA        int      `json:"theirInterestInYou"`
	ReasonsAToB []string `json:"whyYouMatch"`
	ReasonsBToA []string `json:"whyTheyMatch"`
}

// MutualScore scores A against B and B against A with the multi-factor scorer
// and averages the rounded percentages.
func (o *Orchestrator) MutualScore(ctx context.Context, idA, idB string) (MutualResult, error) {
	a, err := o.store.GetByID(ctx, idA)
	if err != nil {
		return MutualResult{}, fmt.Errorf("get profile: %w", err)
	}
	b, err := o.store.GetByID(ctx, idB)
	if err != nil {
		return MutualResult{}, fmt.Errorf("get profile: %w", err)
	}

	aToB := Percent(scoring.Score(a, b))
	bToA := Percent(scoring.Score(b, a))

	return MutualResult{
		MutualScore: int(math.Round(float64(aToB+bToA) / 2)),
		AToB:        aToB,
		BToA:        bToA,
		ReasonsAToB: Reasons(a, b),
		ReasonsBToA: Reasons(b, a),
	}, nil
}
