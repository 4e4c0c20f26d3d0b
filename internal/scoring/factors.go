package scoring

import (
	"strings"

	"github.com/spigell/collab-matcher/internal/profile"
)

const (
	roleBonus          = 0.5
	keywordBonus       = 0.4
	crossIndustryBonus = 0.1

	overlapSweetSpot = 0.5
	overlapDefault   = 0.3

	industryMissing       = 0.5
	industrySame          = 0.4
	industryComplementary = 1.0
	industryOther         = 0.6

	locationMissing   = 0.5
	locationExact     = 1.0
	locationComponent = 0.7
	locationOther     = 0.4
)

// complementaryIndustries are matched by substring containment in both directions.
var complementaryIndustries = [][2]string{
	{"hospitality", "marketing"},
	{"tourism", "advertising"},
	{"technology", "finance"},
	{"education", "consulting"},
	{"real estate", "architecture"},
	{"healthcare", "wellness"},
	{"food", "event management"},
	{"hospitality", "technology"},
	{"tourism", "technology"},
	{"real estate", "marketing"},
	{"travel", "photography"},
}

// TargetMatch scores user2 against user1's collaboration targets, keeping the best target.
func TargetMatch(user1, user2 *profile.Profile) float64 {
	if user1 == nil || user2 == nil || len(user1.Targets) == 0 {
		return 0
	}

	skills := lowerSet(user2.EffectiveSkills())
	industry1, industry2 := normalize(user1.Industry), normalize(user2.Industry)
	cross := 0.0
	if industry1 != "" && industry2 != "" && industry1 != industry2 {
		cross = crossIndustryBonus
	}

	best := 0.0
	for _, target := range user1.Targets {
		score := 0.0
		if RoleMatches(target, user2.Role) {
			score += roleBonus
		}
		score += keywordScore(target.Keywords, skills)
		score += cross
		score *= float64(target.EffectivePriority()) / float64(profile.MaxPriority)

		if score > best {
			best = score
		}
	}

	return clamp01(best)
}

// RoleMatches reports whether any target role and the given role contain one another.
func RoleMatches(target profile.CollaborationTarget, role string) bool {
	role = normalize(role)
	if role == "" {
		return false
	}
	for _, r := range target.Roles {
		if containsEither(normalize(r), role) {
			return true
		}
	}
	return false
}

func keywordScore(keywords []string, skills []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matched := 0
	for _, kw := range keywords {
		kw = normalize(kw)
		for _, skill := range skills {
			if containsEither(kw, skill) {
				matched++
				break
			}
		}
	}
	return keywordBonus * float64(matched) / float64(len(keywords))
}

// ComplementarySkills rewards a small overlap plus skills the candidate brings
// that user1 lacks.
func ComplementarySkills(skills1, skills2 []string) float64 {
	set1, set2 := lowerSet(skills1), lowerSet(skills2)
	if len(set1) == 0 || len(set2) == 0 {
		return 0
	}

	in1 := make(map[string]struct{}, len(set1))
	for _, s := range set1 {
		in1[s] = struct{}{}
	}

	shared := 0
	for _, s := range set2 {
		if _, ok := in1[s]; ok {
			shared++
		}
	}

	overlapRatio := float64(shared) / float64(max(len(set1), len(set2)))
	overlap := overlapDefault
	if overlapRatio >= 0.1 && overlapRatio <= 0.3 {
		overlap = overlapSweetSpot
	}

	complementary := 0.5 * float64(len(set2)-shared) / float64(len(set2))
	return overlap + complementary
}

// IndustryComplement rewards industries known to work well together.
func IndustryComplement(industry1, industry2 string) float64 {
	i1, i2 := normalize(industry1), normalize(industry2)
	if i1 == "" || i2 == "" {
		return industryMissing
	}
	if i1 == i2 {
		return industrySame
	}
	if IsComplementaryIndustry(i1, i2) {
		return industryComplementary
	}
	return industryOther
}

// IsComplementaryIndustry reports whether the pair appears in the complementary table.
func IsComplementaryIndustry(industry1, industry2 string) bool {
	i1, i2 := normalize(industry1), normalize(industry2)
	if i1 == "" || i2 == "" {
		return false
	}
	for _, pair := range complementaryIndustries {
		if strings.Contains(i1, pair[0]) && strings.Contains(i2, pair[1]) {
			return true
		}
		if strings.Contains(i1, pair[1]) && strings.Contains(i2, pair[0]) {
			return true
		}
	}
	return false
}

// LocationProximity compares full locations, then their comma separated parts.
func LocationProximity(location1, location2 string) float64 {
	l1, l2 := normalize(location1), normalize(location2)
	if l1 == "" || l2 == "" {
		return locationMissing
	}
	if l1 == l2 {
		return locationExact
	}

	parts := make(map[string]struct{})
	for _, p := range strings.Split(l1, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts[p] = struct{}{}
		}
	}
	for _, p := range strings.Split(l2, ",") {
		if _, ok := parts[strings.TrimSpace(p)]; ok {
			return locationComponent
		}
	}
	return locationOther
}

// InterestOverlap is the Jaccard index of the lowercased interest sets.
func InterestOverlap(interests1, interests2 []string) float64 {
	set1, set2 := lowerSet(interests1), lowerSet(interests2)
	if len(set1) == 0 || len(set2) == 0 {
		return 0
	}

	union := make(map[string]struct{}, len(set1)+len(set2))
	for _, s := range set1 {
		union[s] = struct{}{}
	}
	shared := 0
	for _, s := range set2 {
		if _, ok := union[s]; ok {
			shared++
			continue
		}
		union[s] = struct{}{}
	}
	return float64(shared) / float64(len(union))
}
