package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStrings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kv   []string
		want map[string]string
	}{
		{name: "trims", kv: []string{" ai_provider ", " openai "}, want: map[string]string{"ai_provider": "openai"}},
		{name: "blank value", kv: []string{"peer_id", "  "}, want: map[string]string{}},
		{name: "blank key", kv: []string{" ", "x"}, want: map[string]string{}},
		{name: "dangling key", kv: []string{"a", "1", "b"}, want: map[string]string{"a": "1"}},
		{name: "none", kv: nil, want: map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fields := Strings(tt.kv...)
			if len(fields) != len(tt.want) {
				t.Fatalf("expected %d fields, got %d", len(tt.want), len(fields))
			}
			for _, f := range fields {
				if tt.want[f.Key] != f.String {
					t.Fatalf("unexpected field %s=%q", f.Key, f.String)
				}
			}
		})
	}
}

func TestForProvider(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	ForProvider(zap.New(core), "claude", "").Info("explain request")

	ctx := observed.All()[0].ContextMap()
	if ctx[FieldProvider] != "claude" {
		t.Fatalf("expected provider field, got %v", ctx)
	}
	if _, ok := ctx[FieldModel]; ok {
		t.Fatalf("empty model must be omitted, got %v", ctx)
	}

	// nil loggers fall back to a no-op logger
	ForProvider(nil, "gemini", "gemini-2.5-flash").Info("ignored")
}

func TestPairFields(t *testing.T) {
	fields := PairFields("nino", "giorgi")
	if len(fields) != 2 || fields[0].Key != FieldProfile || fields[1].String != "giorgi" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if got := PairFields("nino", ""); len(got) != 1 {
		t.Fatalf("expected empty peer to be dropped, got %+v", got)
	}
}

func TestWithStrategy(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithStrategy(zap.New(core), "vector").Info("matches found")
	if got := observed.All()[0].ContextMap()[FieldStrategy]; got != "vector" {
		t.Fatalf("expected strategy field, got %v", got)
	}

	if With(nil) == nil {
		t.Fatalf("expected no-op logger for nil input")
	}
}
