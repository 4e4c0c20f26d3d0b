package storage

import (
	"time"

	"gorm.io/datatypes"

	"github.com/spigell/collab-matcher/internal/profile"
)

type profileRow struct {
	ID             string `gorm:"primaryKey;size:64"`
	Name           string
	Email          string `gorm:"size:255;index"`
	Bio            string
	EnrichedBio    string
	Role           string `gorm:"size:255"`
	BusinessType   string `gorm:"size:255"`
	Industry       string `gorm:"size:255;index"`
	Location       string `gorm:"size:255"`
	LinkedInURL    string `gorm:"column:linkedin_url"`
	Skills         datatypes.JSONSlice[string]
	EnrichedSkills datatypes.JSONSlice[string]
	Interests      datatypes.JSONSlice[string]
	Targets        datatypes.JSONSlice[profile.CollaborationTarget]
	Embedding      datatypes.JSONSlice[float32]
	Connections    []connectionRow `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `gorm:"index"`
	UpdatedAt      time.Time
}

func (profileRow) TableName() string { return "profiles" }

type connectionRow struct {
	ID          uint   `gorm:"primaryKey"`
	OwnerID     string `gorm:"size:64;not null;uniqueIndex:idx_connection_pair"`
	PeerID      string `gorm:"size:64;not null;uniqueIndex:idx_connection_pair"`
	Status      string `gorm:"size:16;not null"`
	InitiatedBy string `gorm:"size:64"`
	ConnectedAt time.Time
	UpdatedAt   time.Time
}

func (connectionRow) TableName() string { return "connections" }

// profileColumns are rewritten on upsert. created_at is kept from the first insert.
var profileColumns = []string{
	"name",
	"email",
	"bio",
	"enriched_bio",
	"role",
	"business_type",
	"industry",
	"location",
	"linkedin_url",
	"skills",
	"enriched_skills",
	"interests",
	"targets",
	"embedding",
	"updated_at",
}

func toRow(p *profile.Profile) profileRow {
	return profileRow{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		Bio:            p.Bio,
		EnrichedBio:    p.EnrichedBio,
		Role:           p.Role,
		BusinessType:   p.BusinessType,
		Industry:       p.Industry,
		Location:       p.Location,
		LinkedInURL:    p.LinkedInURL,
		Skills:         p.Skills,
		EnrichedSkills: p.EnrichedSkills,
		Interests:      p.Interests,
		Targets:        p.Targets,
		Embedding:      p.Embedding,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (r *profileRow) toProfile() *profile.Profile {
	p := &profile.Profile{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		Bio:            r.Bio,
		EnrichedBio:    r.EnrichedBio,
		Role:           r.Role,
		BusinessType:   r.BusinessType,
		Industry:       r.Industry,
		Location:       r.Location,
		LinkedInURL:    r.LinkedInURL,
		Skills:         r.Skills,
		EnrichedSkills: r.EnrichedSkills,
		Interests:      r.Interests,
		Targets:        r.Targets,
		Embedding:      r.Embedding,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	for _, c := range r.Connections {
		p.Connections = append(p.Connections, c.toRecord())
	}
	return p
}

func toConnectionRow(r profile.ConnectionRecord) connectionRow {
	return connectionRow{
		OwnerID:     r.OwnerID,
		PeerID:      r.PeerID,
		Status:      string(r.Status),
		InitiatedBy: r.InitiatedBy,
		ConnectedAt: r.ConnectedAt,
	}
}

func (c connectionRow) toRecord() profile.ConnectionRecord {
	return profile.ConnectionRecord{
		OwnerID:     c.OwnerID,
		PeerID:      c.PeerID,
		Status:      profile.Status(c.Status),
		InitiatedBy: c.InitiatedBy,
		ConnectedAt: c.ConnectedAt,
	}
}
