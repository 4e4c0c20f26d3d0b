// Package profile holds the data model shared by the matching engine, the
// connection manager and the store.
package profile

import (
	"strings"
	"time"
)

const (
	// DefaultPriority is used when a collaboration target does not declare one.
	DefaultPriority = 5
	// MaxPriority is the upper bound of a collaboration target priority.
	MaxPriority = 10
)

// Profile is a user profile enriched by the AI collaborator.
type Profile struct {
	ID             string                `json:"id" mapstructure:"id"`
	Name           string                `json:"name,omitempty" mapstructure:"name"`
	Email          string                `json:"email,omitempty" mapstructure:"email"`
	Bio            string                `json:"bio,omitempty" mapstructure:"bio"`
	EnrichedBio    string                `json:"enrichedBio,omitempty" mapstructure:"enrichedBio"`
	Role           string                `json:"role,omitempty" mapstructure:"role"`
	BusinessType   string                `json:"businessType,omitempty" mapstructure:"businessType"`
	Industry       string                `json:"industry,omitempty" mapstructure:"industry"`
	Location       string                `json:"location,omitempty" mapstructure:"location"`
	LinkedInURL    string                `json:"linkedinURL,omitempty" mapstructure:"linkedinURL"`
	Skills         []string              `json:"skills,omitempty" mapstructure:"skills"`
	EnrichedSkills []string              `json:"enrichedSkills,omitempty" mapstructure:"enrichedSkills"`
	Interests      []string              `json:"interests,omitempty" mapstructure:"interests"`
	Targets        []CollaborationTarget `json:"collaborationTargets,omitempty" mapstructure:"collaborationTargets"`
	Embedding      []float32             `json:"embedding,omitempty" mapstructure:"embedding"`
	Connections    []ConnectionRecord    `json:"connections,omitempty" mapstructure:"-"`
	CreatedAt      time.Time             `json:"createdAt,omitempty" mapstructure:"-"`
	UpdatedAt      time.Time             `json:"updatedAt,omitempty" mapstructure:"-"`
}

// CollaborationTarget describes the kind of professional a profile wants to meet.
type CollaborationTarget struct {
	Type                   string   `json:"type" mapstructure:"type"`
	Reason                 string   `json:"reason,omitempty" mapstructure:"reason"`
	PotentialCollaboration string   `json:"potentialCollaboration,omitempty" mapstructure:"potentialCollaboration"`
	Keywords               []string `json:"keywords,omitempty" mapstructure:"keywords"`
	Industries             []string `json:"industries,omitempty" mapstructure:"industries"`
	Roles                  []string `json:"roles,omitempty" mapstructure:"roles"`
	MutualBenefit          string   `json:"mutualBenefit,omitempty" mapstructure:"mutualBenefit"`
	// Priority is nil when the enrichment did not provide one.
	Priority *int `json:"priority,omitempty" mapstructure:"priority"`
}

// EffectivePriority returns the priority clamped to [0, MaxPriority],
// DefaultPriority when absent.
func (t CollaborationTarget) EffectivePriority() int {
	if t.Priority == nil {
		return DefaultPriority
	}
	p := *t.Priority
	if p < 0 {
		return 0
	}
	if p > MaxPriority {
		return MaxPriority
	}
	return p
}

// EffectiveSkills returns the enriched skills when present, the raw skills otherwise.
func (p *Profile) EffectiveSkills() []string {
	if p == nil {
		return nil
	}
	if len(p.EnrichedSkills) > 0 {
		return p.EnrichedSkills
	}
	return p.Skills
}

// EffectiveBio returns the enriched bio when present.
func (p *Profile) EffectiveBio() string {
	if p == nil {
		return ""
	}
	if strings.TrimSpace(p.EnrichedBio) != "" {
		return p.EnrichedBio
	}
	return p.Bio
}

// HasEmbedding reports whether the profile is ready for similarity ranking.
func (p *Profile) HasEmbedding() bool {
	return p != nil && len(p.Embedding) > 0
}

// Connection returns the profile's own record about peerID, or nil.
func (p *Profile) Connection(peerID string) *ConnectionRecord {
	if p == nil {
		return nil
	}
	for i := range p.Connections {
		if p.Connections[i].PeerID == peerID {
			return &p.Connections[i]
		}
	}
	return nil
}

// IsConnectedTo reports whether either side holds an accepted record about the other.
func (p *Profile) IsConnectedTo(other *Profile) bool {
	if p == nil || other == nil {
		return false
	}
	if rec := p.Connection(other.ID); rec != nil && rec.Status == StatusAccepted {
		return true
	}
	if rec := other.Connection(p.ID); rec != nil && rec.Status == StatusAccepted {
		return true
	}
	return false
}

// Summary is the public view of a profile used in command output.
type Summary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Role     string   `json:"role,omitempty"`
	Industry string   `json:"industry,omitempty"`
	Location string   `json:"location,omitempty"`
	Bio      string   `json:"bio,omitempty"`
	Skills   []string `json:"skills,omitempty"`
}

// Summarize builds the public view of p.
func (p *Profile) Summarize() Summary {
	if p == nil {
		return Summary{}
	}
	return Summary{
		ID:       p.ID,
		Name:     p.Name,
		Role:     p.Role,
		Industry: p.Industry,
		Location: p.Location,
		Bio:      p.EffectiveBio(),
		Skills:   p.EffectiveSkills(),
	}
}

// Query narrows a store read. The zero value selects every profile.
type Query struct {
	// IDs restricts the result to these profiles when non-empty.
	IDs        []string
	ExcludeIDs []string
	// Industry matches case-insensitively.
	Industry string
}
