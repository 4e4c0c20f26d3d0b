// Package importer loads profile documents and attaches embeddings to them.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/spigell/collab-matcher/internal/ai"
	"github.com/spigell/collab-matcher/internal/logger"
	"github.com/spigell/collab-matcher/internal/profile"
)

const defaultWorkers = 4

// Document is the top-level shape of an import file. A bare list of profiles is accepted as well.
type Document struct {
	Profiles []*profile.Profile `mapstructure:"profiles"`
}

// ReadFile decodes the profiles stored in a YAML or JSON file.
func ReadFile(path string) ([]*profile.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses YAML (and therefore JSON) profile documents. Profiles without an
// ID get a random one; duplicate IDs are rejected.
func Decode(data []byte) ([]*profile.Profile, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var doc Document
	switch v := raw.(type) {
	case nil:
		return nil, errors.New("document is empty")
	case []any:
		if err := decode(v, &doc.Profiles); err != nil {
			return nil, err
		}
	case map[string]any:
		if err := decode(v, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unexpected document type %T", raw)
	}

	seen := make(map[string]struct{}, len(doc.Profiles))
	out := make([]*profile.Profile, 0, len(doc.Profiles))
	for i, p := range doc.Profiles {
		if p == nil {
			continue
		}
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if _, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("profile #%d: duplicate id %q", i+1, p.ID)
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

func decode(input, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode profiles: %w", err)
	}
	return nil
}

// Embed fills Embedding for every profile that lacks one. A failed call leaves
// an empty vector so the profile is skipped by similarity ranking until re-imported.
func Embed(ctx context.Context, embedder ai.Embedder, profiles []*profile.Profile, workers int, log *zap.Logger) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if workers < 1 {
		workers = defaultWorkers
	}

	embedded := make([]bool, len(profiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range profiles {
		if p.HasEmbedding() {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			vector, err := embedder.Embed(gctx, ai.ProfileText(p))
			if err != nil {
				log.Warn("embedding failed, storing empty vector",
					append(logger.PairFields(p.ID, ""), zap.Error(err))...,
				)
				p.Embedding = []float32{}
				return nil
			}
			p.Embedding = vector
			embedded[i] = len(vector) > 0
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("embed profiles: %w", err)
	}

	count := 0
	for _, ok := range embedded {
		if ok {
			count++
		}
	}
	return count, nil
}
