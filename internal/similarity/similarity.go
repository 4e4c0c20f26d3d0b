// Package similarity ranks profiles by cosine similarity of their embeddings.
package similarity

import (
	"math"
	"sort"
	"strings"

	"github.com/spigell/collab-matcher/internal/profile"
)

// IndustryBonus is added to the similarity of complementary industry pairs.
const IndustryBonus = 0.05

var complementaryPairs = [][2]string{
	{"tourism", "technology"},
	{"hospitality", "software"},
	{"real estate", "marketing"},
	{"travel", "photography"},
	{"event management", "content creation"},
}

// Ranked is a candidate together with its similarity to the seed.
type Ranked struct {
	Profile    *profile.Profile
	Similarity float64
}

// CosineSimilarity returns dot(a,b)/(|a|*|b|), or 0 when the vectors are empty,
// differ in length or either norm is zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ComplementaryIndustries reports whether both industries form one of the known pairs.
func ComplementaryIndustries(industry1, industry2 string) bool {
	i1 := strings.ToLower(strings.TrimSpace(industry1))
	i2 := strings.ToLower(strings.TrimSpace(industry2))
	if i1 == "" || i2 == "" {
		return false
	}
	for _, pair := range complementaryPairs {
		if (i1 == pair[0] && i2 == pair[1]) || (i1 == pair[1] && i2 == pair[0]) {
			return true
		}
	}
	return false
}

// Similarity scores a single candidate against the seed. The industry bonus is
// not clamped, so the result may exceed 1.
func Similarity(seed, candidate *profile.Profile) float64 {
	if seed == nil || candidate == nil {
		return 0
	}
	sim := CosineSimilarity(seed.Embedding, candidate.Embedding)
	if ComplementaryIndustries(seed.Industry, candidate.Industry) {
		sim += IndustryBonus
	}
	return sim
}

// Rank orders candidates by similarity to the seed, keeping input order on ties,
// and returns at most topN entries. A non-positive topN keeps every candidate.
func Rank(seed *profile.Profile, candidates []*profile.Profile, topN int) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		ranked = append(ranked, Ranked{Profile: c, Similarity: Similarity(seed, c)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
