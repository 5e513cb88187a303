package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/signalis/connector/internal/record"
)

const (
	providerAnymail      = "anymail"
	anymailDefaultURL    = "https://api.anymailfinder.com"
	anymailSearchPath    = "/v5.0/search/person.json"
	anymailMinConfidence = 50
)

type anymailProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newAnymailProvider(apiKey string, timeout time.Duration) *anymailProvider {
	return &anymailProvider{
		apiKey:  apiKey,
		baseURL: anymailDefaultURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *anymailProvider) Name() string { return providerAnymail }

type anymailResponse struct {
	Email      string  `mapstructure:"email"`
	Confidence float64 `mapstructure:"confidence"`
}

// Enrich looks up a person's email by domain and name. Anymail needs both.
func (p *anymailProvider) Enrich(ctx context.Context, rec *record.Record) (*Result, error) {
	if strings.TrimSpace(rec.Domain) == "" {
		return nil, nil
	}

	nameParts := strings.Fields(rec.FullName)
	firstName := rec.FirstName
	if firstName == "" && len(nameParts) > 0 {
		firstName = nameParts[0]
	}
	lastName := rec.LastName
	if lastName == "" && len(nameParts) > 1 {
		lastName = nameParts[1]
	}

	if firstName == "" {
		return &Result{Outcome: OutcomeMissingInput, Source: "none"}, nil
	}

	query := url.Values{}
	query.Set("api_key", p.apiKey)
	query.Set("email_domain", rec.Domain)
	query.Set("first_name", firstName)
	query.Set("last_name", lastName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+anymailSearchPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build anymail request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anymail search: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &Result{Outcome: OutcomeAuthError, Source: providerAnymail}, nil
	case http.StatusTooManyRequests:
		return &Result{Outcome: OutcomeRateLimited, Source: providerAnymail}, nil
	case http.StatusOK:
	default:
		return &Result{Outcome: OutcomeNotFound, Source: providerAnymail}, nil
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode anymail response: %w", err)
	}

	var parsed anymailResponse
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &parsed,
	})
	if err != nil {
		return nil, fmt.Errorf("build anymail decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("map anymail response: %w", err)
	}

	if strings.TrimSpace(parsed.Email) == "" || parsed.Confidence < anymailMinConfidence {
		return &Result{Outcome: OutcomeNoCandidates, Source: providerAnymail}, nil
	}

	return &Result{
		Outcome:   OutcomeEnriched,
		Email:     parsed.Email,
		FirstName: firstName,
		LastName:  lastName,
		Title:     rec.Title,
		Verified:  true,
		Source:    providerAnymail,
	}, nil
}
