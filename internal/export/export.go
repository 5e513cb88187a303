package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/signalis/connector/internal/matching"
)

// Format selects which output files are written.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatBoth Format = "both"
)

const (
	demandMatchesFile    = "demand_matches.csv"
	supplyAggregatesFile = "supply_aggregates.csv"
	resultsFile          = "results.json"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON, FormatBoth:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format: %q (expected csv, json, or both)", s)
	}
}

// Write saves the matching result into dir, creating it when missing. It
// returns the list of files written.
func Write(result *matching.Result, dir string, format Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string

	if format == FormatCSV || format == FormatBoth {
		path := filepath.Join(dir, demandMatchesFile)
		if err := writeDemandMatches(result, path); err != nil {
			return written, err
		}
		written = append(written, path)

		path = filepath.Join(dir, supplyAggregatesFile)
		if err := writeSupplyAggregates(result, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if format == FormatJSON || format == FormatBoth {
		path := filepath.Join(dir, resultsFile)
		if err := writeJSONSummary(result, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

func writeDemandMatches(result *matching.Result, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{
		"company", "contact_name", "email", "title", "domain", "signal",
		"matched_supplier", "supplier_contact", "supplier_email",
		"match_score", "match_tier", "match_reason", "generated_intro",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, match := range result.DemandMatches {
		row := []string{
			match.Demand.Company,
			match.Demand.FullName,
			match.Demand.Email,
			match.Demand.Title,
			match.Demand.Domain,
			match.Demand.Signal,
			match.Supply.Company,
			match.Supply.FullName,
			match.Supply.Email,
			strconv.Itoa(match.Score),
			string(match.Tier),
			match.TierReason,
			match.Demand.Metadata["generated_intro"],
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing match row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeSupplyAggregates(result *matching.Result, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{
		"company", "contact_name", "email", "title", "domain", "capability",
		"total_matches", "best_match_company", "best_match_score", "generated_intro",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, agg := range result.SupplyAggregates {
		row := []string{
			agg.Supply.Company,
			agg.Supply.FullName,
			agg.Supply.Email,
			agg.Supply.Title,
			agg.Supply.Domain,
			agg.Supply.Signal,
			strconv.Itoa(agg.TotalMatches),
			agg.BestMatch.Demand.Company,
			strconv.Itoa(agg.BestMatch.Score),
			agg.Supply.Metadata["generated_intro"],
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing aggregate row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

type jsonSummary struct {
	Stats                 matching.Stats `json:"stats"`
	DemandMatchesCount    int            `json:"demand_matches_count"`
	SupplyAggregatesCount int            `json:"supply_aggregates_count"`
}

func writeJSONSummary(result *matching.Result, path string) error {
	summary := jsonSummary{
		Stats:                 result.Stats,
		DemandMatchesCount:    len(result.DemandMatches),
		SupplyAggregatesCount: len(result.SupplyAggregates),
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
