package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/signalis/connector/internal/record"
)

const (
	providerApollo    = "apollo"
	apolloDefaultURL  = "https://api.apollo.io"
	apolloSearchPath  = "/v1/mixed_people/search"
	defaultPersonRank = 10
)

// seniorityRanks scores candidate titles. Higher is more senior.
var seniorityRanks = []struct {
	keyword string
	rank    int
}{
	{"founder", 100},
	{"co-founder", 99},
	{"owner", 98},
	{"partner", 95},
	{"principal", 94},
	{"managing director", 92},
	{"ceo", 90},
	{"cfo", 89},
	{"cto", 88},
	{"coo", 87},
	{"cmo", 86},
	{"cro", 85},
	{"president", 84},
	{"vp", 70},
	{"vice president", 70},
	{"director", 60},
	{"head", 55},
	{"manager", 40},
	{"lead", 35},
	{"senior", 30},
}

type apolloProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newApolloProvider(apiKey string, timeout time.Duration) *apolloProvider {
	return &apolloProvider{
		apiKey:  apiKey,
		baseURL: apolloDefaultURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *apolloProvider) Name() string { return providerApollo }

type apolloPerson struct {
	Email     string `mapstructure:"email"`
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
	Title     string `mapstructure:"title"`
}

type apolloSearchResponse struct {
	People []apolloPerson `mapstructure:"people"`
}

// Enrich searches for the most senior reachable contact at the record's
// company. Apollo accepts either a domain or a company name.
func (p *apolloProvider) Enrich(ctx context.Context, rec *record.Record) (*Result, error) {
	hasDomain := strings.TrimSpace(rec.Domain) != ""
	hasCompany := strings.TrimSpace(rec.Company) != ""

	if !hasDomain && !hasCompany {
		return &Result{Outcome: OutcomeMissingInput, Source: "none"}, nil
	}

	payload := map[string]any{
		"contact_email_status": []string{"verified", "likely to engage"},
		"person_seniorities": []string{
			"founder", "c_suite", "owner", "partner", "vp", "director", "manager",
		},
	}
	if hasDomain {
		payload["q_organization_domains_list"] = []string{rec.Domain}
	} else {
		payload["q_keywords"] = rec.Company
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal apollo payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+apolloSearchPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build apollo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			return &Result{Outcome: OutcomeTimeout, Source: providerApollo}, nil
		}
		return nil, fmt.Errorf("apollo search: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &Result{Outcome: OutcomeAuthError, Source: providerApollo}, nil
	case http.StatusUnprocessableEntity:
		return &Result{Outcome: OutcomeCreditsExhausted, Source: providerApollo}, nil
	case http.StatusTooManyRequests:
		return &Result{Outcome: OutcomeRateLimited, Source: providerApollo}, nil
	case http.StatusOK:
	default:
		return &Result{Outcome: OutcomeNotFound, Source: providerApollo}, nil
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode apollo response: %w", err)
	}

	var parsed apolloSearchResponse
	if err := mapstructure.Decode(raw, &parsed); err != nil {
		return nil, fmt.Errorf("map apollo response: %w", err)
	}

	best := pickBestPerson(parsed.People)
	if best == nil {
		return &Result{Outcome: OutcomeNoCandidates, Source: providerApollo}, nil
	}

	return &Result{
		Outcome:   OutcomeEnriched,
		Email:     best.Email,
		FirstName: best.FirstName,
		LastName:  best.LastName,
		Title:     best.Title,
		Verified:  true,
		Source:    providerApollo,
	}, nil
}

// pickBestPerson returns the most senior candidate that has an email.
func pickBestPerson(people []apolloPerson) *apolloPerson {
	var best *apolloPerson
	bestRank := -1

	for i := range people {
		person := &people[i]
		if strings.TrimSpace(person.Email) == "" {
			continue
		}
		if rank := scorePersonTitle(person.Title); rank > bestRank {
			best = person
			bestRank = rank
		}
	}

	return best
}

func scorePersonTitle(title string) int {
	lower := strings.ToLower(title)
	for _, entry := range seniorityRanks {
		if strings.Contains(lower, entry.keyword) {
			return entry.rank
		}
	}
	return defaultPersonRank
}
