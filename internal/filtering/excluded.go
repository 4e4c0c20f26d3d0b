package filtering

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ExcludedProfiles is the content of an exclude file.
type ExcludedProfiles struct {
	Items []*ExcludedProfile `json:"items"`
}

// ExcludedProfile hides ProfileID from OwnerID's matches. An empty OwnerID hides it from everyone.
type ExcludedProfile struct {
	OwnerID    string    `json:"ownerId,omitempty"`
	ProfileID  string    `json:"profileId"`
	Name       string    `json:"name,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	ExcludedAt time.Time `json:"excludedAt"`
}

// LoadExcludedProfiles reads an exclude file. A missing or empty file yields an empty list.
func LoadExcludedProfiles(path string) (*ExcludedProfiles, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ExcludedProfiles{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedProfiles{}, nil
	}

	var excluded ExcludedProfiles
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &excluded, nil
}

// Append adds entries, skipping ones already present for the same owner.
func (e *ExcludedProfiles) Append(items ...*ExcludedProfile) {
	for _, item := range items {
		if item == nil || e.contains(item.OwnerID, item.ProfileID) {
			continue
		}
		if item.ExcludedAt.IsZero() {
			item.ExcludedAt = time.Now().UTC()
		}
		e.Items = append(e.Items, item)
	}
}

func (e *ExcludedProfiles) contains(ownerID, profileID string) bool {
	for _, item := range e.Items {
		if item.OwnerID == ownerID && item.ProfileID == profileID {
			return true
		}
	}
	return false
}

// IDsFor returns the profile IDs hidden from ownerID.
func (e *ExcludedProfiles) IDsFor(ownerID string) []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		if item.OwnerID == "" || item.OwnerID == ownerID {
			ids = append(ids, item.ProfileID)
		}
	}
	return ids
}

// ToFile overwrites path with the list.
func (e *ExcludedProfiles) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
