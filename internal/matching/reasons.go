package matching

import (
	"fmt"
	"strings"

	"github.com/spigell/collab-matcher/internal/profile"
	"github.com/spigell/collab-matcher/internal/scoring"
)

const (
	maxReasons            = 3
	maxComplementarySkill = 3
)

// matchedTargets returns the seed's targets whose roles match the candidate's role.
func matchedTargets(seed, candidate *profile.Profile) []profile.CollaborationTarget {
	var matched []profile.CollaborationTarget
	for _, t := range seed.Targets {
		if scoring.RoleMatches(t, candidate.Role) {
			matched = append(matched, t)
		}
	}
	return matched
}

// matchedRole returns the first target role that matches role.
func matchedRole(t profile.CollaborationTarget, role string) string {
	for _, r := range t.Roles {
		if scoring.RoleMatches(profile.CollaborationTarget{Roles: []string{r}}, role) {
			return strings.TrimSpace(r)
		}
	}
	return strings.TrimSpace(role)
}

// Reasons explains, in at most three lines, why candidate suits seed.
func Reasons(seed, candidate *profile.Profile) []string {
	if seed == nil || candidate == nil {
		return nil
	}

	reasons := make([]string, 0, maxReasons)
	for _, t := range matchedTargets(seed, candidate) {
		label := matchedRole(t, candidate.Role)
		if kind := strings.TrimSpace(t.Type); kind != "" {
			label = fmt.Sprintf("%s (%s)", kind, label)
		}
		reasons = append(reasons, fmt.Sprintf("Matches your collaboration target: %s", label))
	}

	if skills := complementarySkills(seed, candidate); len(skills) > 0 {
		reasons = append(reasons, fmt.Sprintf("Brings complementary skills: %s", strings.Join(skills, ", ")))
	}

	industry := strings.TrimSpace(candidate.Industry)
	if industry != "" && strings.EqualFold(industry, strings.TrimSpace(seed.Industry)) {
		reasons = append(reasons, fmt.Sprintf("Works in the same industry: %s", industry))
	}

	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	return reasons
}

// complementarySkills returns up to three candidate skills the seed does not have, in candidate order.
func complementarySkills(seed, candidate *profile.Profile) []string {
	have := make(map[string]struct{})
	for _, s := range seed.EffectiveSkills() {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	var out []string
	for _, s := range candidate.EffectiveSkills() {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" {
			continue
		}
		if _, ok := have[key]; ok {
			continue
		}
		have[key] = struct{}{}
		out = append(out, strings.TrimSpace(s))
		if len(out) == maxComplementarySkill {
			break
		}
	}
	return out
}

// Suggestions proposes collaborations: one per matched target with a stated
// potential collaboration, otherwise a knowledge exchange between both roles.
func Suggestions(seed, candidate *profile.Profile) []string {
	if seed == nil || candidate == nil {
		return nil
	}

	var suggestions []string
	for _, t := range matchedTargets(seed, candidate) {
		if s := strings.TrimSpace(t.PotentialCollaboration); s != "" {
			suggestions = append(suggestions, s)
		}
	}
	if len(suggestions) > 0 {
		return suggestions
	}

	return []string{fmt.Sprintf("Knowledge exchange between %s and %s", roleOrDefault(seed.Role), roleOrDefault(candidate.Role))}
}

func roleOrDefault(role string) string {
	if role = strings.TrimSpace(role); role != "" {
		return role
	}
	return "professional"
}
