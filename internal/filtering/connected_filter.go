package filtering

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/collab-matcher/internal/profile"
)

const includeConnectedMsg = "include connected flag is set"

type connectedFilter struct {
	enabled bool
	reason  string
	logger  *zap.Logger
}

// NewExcludeConnected creates a filter that removes profiles already connected to the seed.
// An accepted record on either side of the pair is enough.
func NewExcludeConnected(enabled bool, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &connectedFilter{enabled: true, logger: logger}
	if !enabled {
		f.Disable(includeConnectedMsg)
	}
	return f
}

func (f *connectedFilter) Name() string { return "exclude_connected" }

func (f *connectedFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *connectedFilter) IsEnabled() bool { return f.enabled }

func (f *connectedFilter) Validate() error { return nil }

func (f *connectedFilter) Apply(_ context.Context, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()
	excluded := c.ExcludeFunc(func(p *profile.Profile) bool {
		return c.Seed.IsConnectedTo(p)
	})

	if len(excluded) > 0 {
		f.logger.Debug("excluding already connected profiles",
			zap.Strings("excluded_profiles", excluded),
			zap.Int("profiles_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(excluded), Left: c.Len()}, nil
}

func (f *connectedFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"exclude_connected": strconv.FormatBool(f.enabled)},
	}
}
