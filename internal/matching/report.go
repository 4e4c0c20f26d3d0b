package matching

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ReportByIndustry groups matches by the candidate's industry for a quick overview.
func ReportByIndustry(matches []Match) map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, m := range matches {
		key := strings.TrimSpace(m.Profile.Industry)
		if key == "" {
			key = "unknown"
		}
		report[key] = append(report[key], map[string]string{
			"id":       m.Profile.ID,
			"name":     m.Profile.Name,
			"role":     m.Profile.Role,
			"location": m.Profile.Location,
			"match":    fmt.Sprintf("%d%%", Percent(m.Score)),
		})
	}
	return report
}

// DumpToTmpFile writes the summaries as indented JSON to a new temp file and returns its name.
func DumpToTmpFile(summaries []Summary) (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summaries); err != nil {
		return "", err
	}
	return file.Name(), nil
}
