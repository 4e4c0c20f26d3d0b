package ai

import (
	"fmt"
	"strings"

	"github.com/spigell/collab-matcher/internal/profile"
)

const notSpecified = "Not specified"

const connectIntent = "I am looking to connect with or collaborate with professionals that complement my work, " +
	"for example partners, clients, or experts that help me expand my services."

// ProfileText is the text embedded for similarity ranking.
func ProfileText(p *profile.Profile) string {
	if p == nil {
		return ""
	}

	targets := make([]string, 0, len(p.Targets))
	for _, t := range p.Targets {
		if label := strings.TrimSpace(t.Type); label != "" {
			targets = append(targets, label)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Bio: %s\n", orNotSpecified(p.EffectiveBio()))
	fmt.Fprintf(&b, "Skills: %s\n", orNotSpecified(strings.Join(p.EffectiveSkills(), ", ")))
	fmt.Fprintf(&b, "Industry: %s\n", orNotSpecified(p.Industry))
	fmt.Fprintf(&b, "They want to connect with: %s\n", orNotSpecified(strings.Join(targets, ", ")))
	b.WriteString(connectIntent)
	return b.String()
}

func personBlock(label string, p *profile.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", label)
	fmt.Fprintf(&b, "Name: %s\n", orNotSpecified(p.Name))
	fmt.Fprintf(&b, "Role: %s\n", orNotSpecified(p.Role))
	fmt.Fprintf(&b, "Bio: %s\n", orNotSpecified(p.EffectiveBio()))
	fmt.Fprintf(&b, "Skills: %s\n", orNotSpecified(strings.Join(p.EffectiveSkills(), ", ")))
	fmt.Fprintf(&b, "Industry: %s\n", orNotSpecified(p.Industry))
	return b.String()
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return strings.TrimSpace(s)
}
