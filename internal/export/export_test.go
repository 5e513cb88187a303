package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/signalis/connector/internal/matching"
	"github.com/signalis/connector/internal/record"
)

func testResult() *matching.Result {
	demand := &record.Record{
		Company:  "Acme Data",
		FullName: "Jane Smith",
		Email:    "jane@acme.com",
		Title:    "CTO",
		Domain:   "acme.com",
		Signal:   "Senior Software Engineer",
		Metadata: map[string]string{"generated_intro": "Hey Jane"},
	}
	supply := &record.Record{
		Company:  "TalentBridge",
		FullName: "Bob Jones",
		Email:    "bob@talentbridge.com",
		Title:    "Founder",
		Domain:   "talentbridge.com",
		Signal:   "Technical recruiting",
		Metadata: map[string]string{"generated_intro": "Hey Bob"},
	}

	match := &matching.Match{
		Demand:     demand,
		Supply:     supply,
		Score:      85,
		Tier:       matching.TierStrong,
		TierReason: "Senior Software Engineer → Recruiter",
	}

	return &matching.Result{
		DemandMatches: []*matching.Match{match},
		SupplyAggregates: []*matching.SupplyAggregate{{
			Supply:       supply,
			Matches:      []*matching.Match{match},
			BestMatch:    match,
			TotalMatches: 1,
		}},
		Stats: matching.Stats{
			TotalDemand:          1,
			TotalSupply:          1,
			TotalMatches:         1,
			UniqueDemandsMatched: 1,
			AvgScore:             85,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"csv", "json", "both"} {
		if _, err := ParseFormat(valid); err != nil {
			t.Fatalf("unexpected error for %q: %v", valid, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()

	written, err := Write(testResult(), dir, FormatCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("expected two files, got %v", written)
	}

	matches := readCSV(t, filepath.Join(dir, "demand_matches.csv"))
	if len(matches) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(matches))
	}
	if matches[0][0] != "company" || matches[0][12] != "generated_intro" {
		t.Fatalf("unexpected header: %v", matches[0])
	}
	row := matches[1]
	if row[0] != "Acme Data" || row[6] != "TalentBridge" || row[9] != "85" {
		t.Fatalf("unexpected match row: %v", row)
	}
	if row[10] != "strong" || row[11] != "Senior Software Engineer → Recruiter" {
		t.Fatalf("tier columns wrong: %v", row)
	}
	if row[12] != "Hey Jane" {
		t.Fatalf("intro column wrong: %v", row)
	}

	aggregates := readCSV(t, filepath.Join(dir, "supply_aggregates.csv"))
	if len(aggregates) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(aggregates))
	}
	aggRow := aggregates[1]
	if aggRow[0] != "TalentBridge" || aggRow[6] != "1" || aggRow[7] != "Acme Data" || aggRow[8] != "85" {
		t.Fatalf("unexpected aggregate row: %v", aggRow)
	}
	if aggRow[9] != "Hey Bob" {
		t.Fatalf("intro column wrong: %v", aggRow)
	}

	if _, err := os.Stat(filepath.Join(dir, "results.json")); !os.IsNotExist(err) {
		t.Fatalf("csv format must not produce results.json")
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()

	written, err := Write(testResult(), dir, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("expected one file, got %v", written)
	}

	data, err := os.ReadFile(filepath.Join(dir, "results.json"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}

	var summary map[string]any
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if summary["demand_matches_count"] != float64(1) {
		t.Fatalf("unexpected match count: %v", summary)
	}
	stats, ok := summary["stats"].(map[string]any)
	if !ok {
		t.Fatalf("missing stats block: %v", summary)
	}
	if stats["avg_score"] != float64(85) || stats["total_matches"] != float64(1) {
		t.Fatalf("unexpected stats: %v", stats)
	}
}

func TestWriteBoth(t *testing.T) {
	dir := t.TempDir()

	written, err := Write(testResult(), dir, FormatBoth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("expected three files, got %v", written)
	}
}

func TestWriteCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	if _, err := Write(testResult(), dir, FormatJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "results.json")); err != nil {
		t.Fatalf("expected summary in created dir: %v", err)
	}
}

func TestWriteEmptyResult(t *testing.T) {
	dir := t.TempDir()

	empty := &matching.Result{}
	if _, err := Write(empty, dir, FormatBoth); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	matches := readCSV(t, filepath.Join(dir, "demand_matches.csv"))
	if len(matches) != 1 {
		t.Fatalf("expected header only, got %d rows", len(matches))
	}
}
