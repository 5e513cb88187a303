package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

const (
	instantlyDefaultURL = "https://api.instantly.ai"
	instantlyLeadsPath  = "/api/v2/leads"
)

type instantly struct {
	baseURL string
	client  *http.Client
}

func newInstantly() *instantly {
	return &instantly{
		baseURL: instantlyDefaultURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *instantly) ID() ID                  { return Instantly }
func (s *instantly) Name() string            { return "Instantly" }
func (s *instantly) SupportsCampaigns() bool { return true }

func (s *instantly) ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return errors.New("instantly API key is required")
	}

	if cfg.DemandCampaignID == "" && cfg.SupplyCampaignID == "" {
		return errors.New("at least one campaign ID (demand or supply) is required")
	}

	if err := validateCampaignID(cfg.DemandCampaignID); err != nil {
		return fmt.Errorf("invalid demand campaign ID: %w", err)
	}
	if err := validateCampaignID(cfg.SupplyCampaignID); err != nil {
		return fmt.Errorf("invalid supply campaign ID: %w", err)
	}

	return nil
}

// validateCampaignID accepts empty IDs; configured ones must be UUID v4.
func validateCampaignID(id string) error {
	if id == "" {
		return nil
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	if parsed.Version() != 4 {
		return fmt.Errorf("must be UUID v4, got version %d", parsed.Version())
	}
	return nil
}

type instantlyResponse struct {
	Status int    `mapstructure:"status"`
	LeadID string `mapstructure:"id"`
}

func (s *instantly) SendLead(ctx context.Context, cfg Config, params LeadParams) Result {
	custom := map[string]any{
		"send_type": string(params.Type),
	}
	if len(params.SignalMetadata) > 0 {
		meta, err := json.Marshal(params.SignalMetadata)
		if err == nil {
			custom["signal_metadata"] = string(meta)
		}
	}

	payload := map[string]any{
		"campaign":             params.CampaignID,
		"email":                params.Email,
		"first_name":           params.FirstName,
		"last_name":            params.LastName,
		"company_name":         params.CompanyName,
		"website":              params.CompanyDomain,
		"personalization":      params.IntroText,
		"skip_if_in_workspace": true,
		"skip_if_in_campaign":  true,
		"skip_if_in_list":      true,
		"custom_variables":     custom,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failed(fmt.Sprintf("marshal payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+instantlyLeadsPath, bytes.NewReader(body))
	if err != nil {
		return failed(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return failed(fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return Result{Status: StatusNeedsAttention, Detail: "rate limited (429)", RateLimited: true}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		return failed(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(text))))
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return failed(fmt.Sprintf("decode response: %v", err))
	}

	var parsed instantlyResponse
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &parsed,
	})
	if err != nil {
		return failed(fmt.Sprintf("build decoder: %v", err))
	}
	if err := decoder.Decode(raw); err != nil {
		return failed(fmt.Sprintf("map response: %v", err))
	}

	switch parsed.Status {
	case 1:
		return Result{Success: true, LeadID: parsed.LeadID, Status: StatusNew, Detail: "lead added to campaign"}
	case 2:
		return Result{Success: true, LeadID: parsed.LeadID, Status: StatusExisting, Detail: "lead already in workspace"}
	default:
		return Result{Status: StatusNeedsAttention, Detail: fmt.Sprintf("unexpected status: %d", parsed.Status)}
	}
}

func failed(detail string) Result {
	return Result{Status: StatusNeedsAttention, Detail: detail}
}
