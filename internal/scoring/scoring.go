// Package scoring implements the multi-factor collaboration scorer.
//
// Score is pure and deterministic: missing or malformed profile fields
// degrade the affected sub-score to a neutral or zero value and never fail.
package scoring

import (
	"strings"

	"github.com/spigell/collab-matcher/internal/profile"
)

// Fixed sub-score weights. They sum to 1.0 and are not configurable.
const (
	WeightTargetMatch         = 0.35
	WeightComplementarySkills = 0.40
	WeightIndustry            = 0.15
	WeightLocation            = 0.05
	WeightInterests           = 0.05

	// SameRolePenalty multiplies the final score when both roles are equal.
	SameRolePenalty = 0.7
)

// Breakdown exposes every sub-score of a single directional evaluation.
type Breakdown struct {
	TargetMatch         float64 `json:"targetMatch"`
	ComplementarySkills float64 `json:"complementarySkills"`
	Industry            float64 `json:"industry"`
	Location            float64 `json:"location"`
	Interests           float64 `json:"interests"`
	SameRole            bool    `json:"sameRole"`
	Total               float64 `json:"total"`
}

// Score returns how attractive user2 is as a collaborator for user1, in [0, 1].
// It is asymmetric: the target match only looks at user1's targets.
func Score(user1, user2 *profile.Profile) float64 {
	return Evaluate(user1, user2).Total
}

// Evaluate computes the score together with its sub-scores.
func Evaluate(user1, user2 *profile.Profile) Breakdown {
	if user1 == nil {
		user1 = &profile.Profile{}
	}
	if user2 == nil {
		user2 = &profile.Profile{}
	}

	b := Breakdown{
		TargetMatch:         TargetMatch(user1, user2),
		ComplementarySkills: ComplementarySkills(user1.EffectiveSkills(), user2.EffectiveSkills()),
		Industry:            IndustryComplement(user1.Industry, user2.Industry),
		Location:            LocationProximity(user1.Location, user2.Location),
		Interests:           InterestOverlap(user1.Interests, user2.Interests),
	}

	components := []struct {
		value  float64
		weight float64
	}{
		{b.TargetMatch, WeightTargetMatch},
		{b.ComplementarySkills, WeightComplementarySkills},
		{b.Industry, WeightIndustry},
		{b.Location, WeightLocation},
		{b.Interests, WeightInterests},
	}

	var weighted, applied float64
	for _, c := range components {
		weighted += clamp01(c.value) * c.weight
		applied += c.weight
	}

	total := 0.0
	if applied > 0 {
		total = weighted / applied
	}

	r1, r2 := normalize(user1.Role), normalize(user2.Role)
	if r1 != "" && r1 == r2 {
		b.SameRole = true
		total *= SameRolePenalty
	}

	b.Total = clamp01(total)
	return b
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lowerSet returns the distinct, non-empty, lowercased values keeping first-seen order.
func lowerSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		n := normalize(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// containsEither reports whether a contains b or b contains a. Both must be
// normalized and non-empty.
func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
