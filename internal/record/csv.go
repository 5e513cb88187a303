package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Side distinguishes the two populations handled by the matcher.
type Side string

const (
	SideDemand Side = "demand"
	SideSupply Side = "supply"
)

// headerAliases maps canonical field names to the header spellings seen in
// exported lead lists. Comparison is case-insensitive after trimming.
var headerAliases = map[string][]string{
	"domain":      {"domain", "website", "company domain", "company website"},
	"company":     {"company", "company name", "organization", "organisation", "account name"},
	"full_name":   {"full name", "name", "contact", "contact name"},
	"first_name":  {"first name", "firstname"},
	"last_name":   {"last name", "lastname", "surname"},
	"email":       {"email", "email address", "work email"},
	"title":       {"title", "job title", "position", "role"},
	"industry":    {"industry", "industries", "vertical", "sector"},
	"signal":      {"signal", "signals", "service description", "capability", "hiring signal"},
	"description": {"company description", "description", "about", "company about"},
	"funding":     {"company funding", "funding", "last funding", "total funding"},
	"size":        {"size", "company size", "employees", "employee count", "headcount"},
}

var hiringSignalRe = regexp.MustCompile(`(?i)^hiring\b|\bhiring:|\bis hiring\b|\bjob posting\b|\bopen role\b|\bnow hiring\b`)

// LoadCSV reads and normalizes one CSV file into records. Missing columns
// become empty fields; every row receives a synthetic record key derived
// from the upload id so identity stays stable across the run.
func LoadCSV(path string, side Side, uploadID string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s csv: %w", side, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s csv: %w", side, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s csv %q is empty", side, path)
	}

	columns := mapHeader(rows[0])
	records := make([]*Record, 0, len(rows)-1)

	for i, row := range rows[1:] {
		get := func(field string) string {
			idx, ok := columns[field]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		r := &Record{
			Domain:             strings.ToLower(get("domain")),
			Company:            get("company"),
			FullName:           get("full_name"),
			FirstName:          get("first_name"),
			LastName:           get("last_name"),
			Email:              strings.ToLower(get("email")),
			Title:              get("title"),
			Industry:           splitIndustry(get("industry")),
			Signal:             get("signal"),
			CompanyDescription: get("description"),
			CompanyFunding:     get("funding"),
			Size:               get("size"),
			RecordKey:          fmt.Sprintf("%s-%s-%d", uploadID, side, i+1),
			Metadata:           map[string]string{},
		}

		fillNames(r)
		r.SignalMeta = classifySignal(r.Signal)

		records = append(records, r)
	}

	return records, nil
}

func mapHeader(header []string) map[string]int {
	columns := make(map[string]int, len(headerAliases))
	for idx, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		for field, aliases := range headerAliases {
			if _, taken := columns[field]; taken {
				continue
			}
			for _, alias := range aliases {
				if name == alias {
					columns[field] = idx
					break
				}
			}
		}
	}
	return columns
}

// splitIndustry keeps multi-valued industry cells (semicolon or pipe
// separated) as separate entries.
func splitIndustry(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == '|'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fillNames(r *Record) {
	if r.FullName == "" {
		r.FullName = strings.TrimSpace(r.FirstName + " " + r.LastName)
	}
	if r.FirstName == "" && r.FullName != "" {
		parts := strings.Fields(r.FullName)
		r.FirstName = parts[0]
		if r.LastName == "" && len(parts) > 1 {
			r.LastName = strings.Join(parts[1:], " ")
		}
	}
}

// classifySignal labels signals that describe a concrete open role.
func classifySignal(signal string) *SignalMeta {
	if signal == "" {
		return nil
	}
	if hiringSignalRe.MatchString(signal) {
		label := strings.TrimSpace(strings.TrimPrefix(signal, "Hiring:"))
		return &SignalMeta{Kind: SignalKindHiringRole, Label: label}
	}
	return &SignalMeta{Kind: "ACTIVITY", Label: signal}
}
