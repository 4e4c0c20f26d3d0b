package matching

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/spigell/collab-matcher/internal/profile"
)

func TestReportByIndustry(t *testing.T) {
	t.Parallel()

	matches := []Match{
		{Profile: &profile.Profile{ID: "a", Name: "Ana", Role: "Photographer", Industry: "Photography"}, Score: 0.614},
		{Profile: &profile.Profile{ID: "b", Name: "Beka", Industry: "Photography"}, Score: 0.5},
		{Profile: &profile.Profile{ID: "c"}, Score: 0.3},
	}

	report := ReportByIndustry(matches)
	if len(report["Photography"]) != 2 || len(report["unknown"]) != 1 {
		t.Fatalf("unexpected grouping: %v", report)
	}
	if got := report["Photography"][0]["match"]; got != "61%" {
		t.Fatalf("expected 61%%, got %s", got)
	}
	if got := report["Photography"][1]["name"]; got != "Beka" {
		t.Fatalf("expected fetch order to be kept, got %s", got)
	}
}

func TestDumpToTmpFile(t *testing.T) {
	summaries := []Summary{{Profile: profile.Summary{ID: "a"}, MatchPercentage: 42, Score: 0.42}}

	name, err := DumpToTmpFile(summaries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(name) })

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	var got []Summary
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if len(got) != 1 || got[0].Profile.ID != "a" || got[0].MatchPercentage != 42 {
		t.Fatalf("unexpected dump: %+v", got)
	}
}
