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

	"github.com/mitchellh/mapstructure"
)

const (
	plusvibeDefaultURL = "https://api.plusvibe.ai"
	plusvibeLeadPath   = "/api/v1/lead/add"
)

type plusvibe struct {
	baseURL string
	client  *http.Client
}

func newPlusvibe() *plusvibe {
	return &plusvibe{
		baseURL: plusvibeDefaultURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *plusvibe) ID() ID                  { return Plusvibe }
func (s *plusvibe) Name() string            { return "Plusvibe" }
func (s *plusvibe) SupportsCampaigns() bool { return true }

func (s *plusvibe) ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return errors.New("plusvibe API key is required (set PLUSVIBE_API_KEY)")
	}
	if strings.TrimSpace(cfg.WorkspaceID) == "" {
		return errors.New("plusvibe workspace ID is required (set PLUSVIBE_WORKSPACE_ID)")
	}
	if cfg.DemandCampaignID == "" && cfg.SupplyCampaignID == "" {
		return errors.New("at least one campaign ID is required (set DEMAND_CAMPAIGN_ID or SUPPLY_CAMPAIGN_ID)")
	}
	return nil
}

type plusvibeResponse struct {
	Status            string `mapstructure:"status"`
	Message           string `mapstructure:"message"`
	LeadsUploaded     int    `mapstructure:"leads_uploaded"`
	Skipped           int    `mapstructure:"skipped"`
	InvalidEmailCount int    `mapstructure:"invalid_email_count"`
	InvalidEmailMsg   string `mapstructure:"invalid_email_message"`
}

func (s *plusvibe) SendLead(ctx context.Context, cfg Config, params LeadParams) Result {
	custom := map[string]any{
		"personalization": params.IntroText,
		"send_type":       string(params.Type),
	}
	if params.ContactTitle != "" {
		custom["contact_title"] = params.ContactTitle
	}

	lead := map[string]any{
		"email":            params.Email,
		"first_name":       params.FirstName,
		"last_name":        params.LastName,
		"company_name":     params.CompanyName,
		"company_website":  params.CompanyDomain,
		"custom_variables": custom,
	}

	payload := map[string]any{
		"workspace_id":                   cfg.WorkspaceID,
		"campaign_id":                    params.CampaignID,
		"skip_if_in_workspace":           true,
		"skip_lead_in_active_pause_camp": true,
		"leads":                          []any{lead},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failed(fmt.Sprintf("marshal payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+plusvibeLeadPath, bytes.NewReader(body))
	if err != nil {
		return failed(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("x-api-key", cfg.APIKey)
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

	var parsed plusvibeResponse
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

	if parsed.Status != "success" {
		detail := parsed.Message
		if detail == "" {
			detail = "unknown error"
		}
		return Result{Status: StatusNeedsAttention, Detail: "plusvibe error: " + detail}
	}

	switch {
	case parsed.LeadsUploaded > 0:
		return Result{Success: true, Status: StatusNew, Detail: fmt.Sprintf("added %d new lead(s)", parsed.LeadsUploaded)}
	case parsed.InvalidEmailCount > 0:
		detail := parsed.InvalidEmailMsg
		if detail == "" {
			detail = "check format"
		}
		return Result{Status: StatusNeedsAttention, Detail: "invalid email: " + detail}
	case parsed.Skipped > 0:
		return Result{Success: true, Status: StatusExisting, Detail: fmt.Sprintf("lead already exists (%d skipped)", parsed.Skipped)}
	default:
		return Result{Success: true, Status: StatusExisting, Detail: "lead already in workspace"}
	}
}
