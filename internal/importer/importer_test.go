package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/collab-matcher/internal/profile"
)

const yamlDocument = `
profiles:
  - id: nino
    name: Nino
    role: Hotel Manager
    industry: Hospitality
    skills: [Hospitality, Sales]
    collaborationTargets:
      - type: Software Developer
        roles: [developer]
        keywords: [booking]
        priority: 8
        potentialCollaboration: Build a direct booking site
  - name: Giorgi
    role: Software Developer
    embedding: [0.5, -0.25, 1]
`

func TestDecodeYAML(t *testing.T) {
	t.Parallel()

	profiles, err := Decode([]byte(yamlDocument))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}

	nino := profiles[0]
	if nino.ID != "nino" || nino.Role != "Hotel Manager" {
		t.Fatalf("unexpected profile: %+v", nino)
	}
	if len(nino.Targets) != 1 || nino.Targets[0].EffectivePriority() != 8 {
		t.Fatalf("unexpected targets: %+v", nino.Targets)
	}
	if nino.Targets[0].PotentialCollaboration != "Build a direct booking site" {
		t.Fatalf("unexpected potential collaboration: %q", nino.Targets[0].PotentialCollaboration)
	}

	giorgi := profiles[1]
	if _, err := uuid.Parse(giorgi.ID); err != nil {
		t.Fatalf("expected generated uuid, got %q", giorgi.ID)
	}
	if len(giorgi.Embedding) != 3 || giorgi.Embedding[1] != -0.25 {
		t.Fatalf("unexpected embedding: %v", giorgi.Embedding)
	}
}

func TestDecodeJSONList(t *testing.T) {
	t.Parallel()

	profiles, err := Decode([]byte(`[{"id": "ana", "role": "Photographer", "interests": ["travel"]}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 1 || profiles[0].ID != "ana" || profiles[0].Interests[0] != "travel" {
		t.Fatalf("unexpected profiles: %+v", profiles)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "empty", doc: "", wantErr: "document is empty"},
		{name: "scalar", doc: "42", wantErr: "unexpected document type"},
		{name: "duplicate ids", doc: "[{id: a}, {id: a}]", wantErr: "duplicate id"},
		{name: "unknown field", doc: "[{id: a, salary: 10}]", wantErr: "decode profiles"},
		{name: "broken yaml", doc: "profiles: [", wantErr: "parse document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte(yamlDocument), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	profiles, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

type stubEmbedder struct {
	mu    sync.Mutex
	texts []string
	fail  string
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	s.texts = append(s.texts, text)
	s.mu.Unlock()

	if s.fail != "" && strings.Contains(text, s.fail) {
		return nil, errors.New("quota exceeded")
	}
	return []float32{1, 2}, nil
}

func TestEmbed(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	embedder := &stubEmbedder{fail: "Broken"}

	profiles := []*profile.Profile{
		{ID: "a", Name: "Alice"},
		{ID: "b", Name: "Broken"},
		{ID: "c", Name: "Carol", Embedding: []float32{9}},
	}

	count, err := Embed(context.Background(), embedder, profiles, 2, zap.New(core))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 embedded profile, got %d", count)
	}
	if len(embedder.texts) != 2 {
		t.Fatalf("expected existing embeddings to be kept, got %d calls", len(embedder.texts))
	}
	if len(profiles[0].Embedding) != 2 {
		t.Fatalf("expected embedding, got %v", profiles[0].Embedding)
	}
	if profiles[1].Embedding == nil || len(profiles[1].Embedding) != 0 {
		t.Fatalf("expected empty vector on failure, got %v", profiles[1].Embedding)
	}
	if profiles[2].Embedding[0] != 9 {
		t.Fatalf("existing embedding must not change")
	}
	if logs.FilterMessage("embedding failed, storing empty vector").Len() != 1 {
		t.Fatalf("expected a warning for the failed profile")
	}
}

func TestEmbedCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Embed(ctx, &stubEmbedder{}, []*profile.Profile{{ID: "a"}}, 1, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}
