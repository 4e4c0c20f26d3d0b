package similarity

import (
	"math"
	"math/rand"
	"testing"

	"github.com/spigell/collab-matcher/internal/profile"
)

func TestCosineSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		a, b   []float32
		expect float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, expect: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, expect: 0},
		{name: "opposite", a: []float32{1, 1}, b: []float32{-1, -1}, expect: -1},
		{name: "length mismatch", a: []float32{1, 2}, b: []float32{1, 2, 3}, expect: 0},
		{name: "empty", a: nil, b: []float32{1}, expect: 0},
		{name: "both empty", a: []float32{}, b: []float32{}, expect: 0},
		{name: "zero norm", a: []float32{0, 0}, b: []float32{1, 1}, expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.expect) > 1e-6 {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestCosineSimilarityProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(16)
		a, b := make([]float32, n), make([]float32, n)
		for j := 0; j < n; j++ {
			a[j] = rng.Float32()*2 - 1
			b[j] = rng.Float32()*2 - 1
		}

		if ab, ba := CosineSimilarity(a, b), CosineSimilarity(b, a); ab != ba {
			t.Fatalf("expected symmetry, got %v and %v", ab, ba)
		}
		if self := CosineSimilarity(a, a); math.Abs(self-1) > 1e-9 {
			t.Fatalf("expected self similarity 1, got %v", self)
		}
	}
}

func TestComplementaryIndustries(t *testing.T) {
	if !ComplementaryIndustries("Tourism", "Technology") || !ComplementaryIndustries("Technology", "Tourism") {
		t.Fatalf("expected pair to match in both orders")
	}
	if ComplementaryIndustries("Tourism", "Tourism") {
		t.Fatalf("same industry is not a complementary pair")
	}
	if ComplementaryIndustries("Boutique Tourism", "Technology") {
		t.Fatalf("expected exact industry names only")
	}
	if ComplementaryIndustries("", "Technology") {
		t.Fatalf("missing industry must not match")
	}
}

func TestRank(t *testing.T) {
	seed := &profile.Profile{ID: "seed", Industry: "Tourism", Embedding: []float32{1, 0}}
	candidates := []*profile.Profile{
		{ID: "orthogonal", Embedding: []float32{0, 1}},
		{ID: "tie-first", Embedding: []float32{1, 1}},
		{ID: "exact", Embedding: []float32{2, 0}},
		{ID: "tie-second", Embedding: []float32{1, 1}},
		{ID: "bonus", Industry: "Technology", Embedding: []float32{2, 0}},
		{ID: "mismatch", Embedding: []float32{1, 0, 0}},
	}

	ranked := Rank(seed, candidates, 4)
	if len(ranked) != 4 {
		t.Fatalf("expected 4 results, got %d", len(ranked))
	}

	want := []string{"bonus", "exact", "tie-first", "tie-second"}
	for i, id := range want {
		if ranked[i].Profile.ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, ranked[i].Profile.ID)
		}
	}

	if math.Abs(ranked[0].Similarity-(1+IndustryBonus)) > 1e-9 {
		t.Fatalf("expected unclamped bonus similarity, got %v", ranked[0].Similarity)
	}

	if all := Rank(seed, candidates, 0); len(all) != len(candidates) {
		t.Fatalf("expected every candidate when topN is not positive, got %d", len(all))
	}
}
