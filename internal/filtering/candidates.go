package filtering

import "github.com/spigell/collab-matcher/internal/profile"

// Candidates is the profile set considered for a seed, in store fetch order.
type Candidates struct {
	Seed  *profile.Profile
	Items []*profile.Profile
}

// NewCandidates copies items so filters never touch the caller's slice.
func NewCandidates(seed *profile.Profile, items []*profile.Profile) *Candidates {
	return &Candidates{
		Seed:  seed,
		Items: append([]*profile.Profile(nil), items...),
	}
}

func (c *Candidates) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// IDs returns candidate IDs in order.
func (c *Candidates) IDs() []string {
	ids := make([]string, 0, c.Len())
	for _, p := range c.Items {
		ids = append(ids, p.ID)
	}
	return ids
}

// ExcludeFunc removes candidates matching drop and returns their IDs.
// Unlike a swap-remove it preserves the relative order of the remaining items.
func (c *Candidates) ExcludeFunc(drop func(p *profile.Profile) bool) []string {
	var excluded []string
	kept := c.Items[:0]
	for _, p := range c.Items {
		if p == nil || drop(p) {
			if p != nil {
				excluded = append(excluded, p.ID)
			}
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(c.Items); i++ {
		c.Items[i] = nil
	}
	c.Items = kept
	return excluded
}

// Exclude removes candidates with the given IDs.
func (c *Candidates) Exclude(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return c.ExcludeFunc(func(p *profile.Profile) bool {
		_, ok := set[p.ID]
		return ok
	})
}
