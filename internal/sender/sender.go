package sender

import (
	"context"
	"fmt"
)

// ID identifies a campaign delivery platform.
type ID string

const (
	Instantly ID = "instantly"
	Plusvibe  ID = "plusvibe"
)

// SendType tells the platform which side of a match a lead belongs to.
type SendType string

const (
	SendDemand SendType = "DEMAND"
	SendSupply SendType = "SUPPLY"
)

// Status classifies the outcome of a lead upload.
type Status string

const (
	StatusNew            Status = "new"
	StatusExisting       Status = "existing"
	StatusNeedsAttention Status = "needs_attention"
	StatusFailed         Status = "failed"
)

// Config carries credentials and campaign routing for a sender.
type Config struct {
	APIKey           string
	DemandCampaignID string
	SupplyCampaignID string
	// WorkspaceID is required by Plusvibe only.
	WorkspaceID string
}

// LeadParams describes a single lead upload.
type LeadParams struct {
	Type           SendType
	CampaignID     string
	Email          string
	FirstName      string
	LastName       string
	CompanyName    string
	CompanyDomain  string
	IntroText      string
	ContactTitle   string
	SignalMetadata map[string]string
}

// Result reports how a lead upload went.
type Result struct {
	Success bool
	LeadID  string
	Status  Status
	Detail  string
	// RateLimited is set when the platform returned 429; the caller should
	// drain the limiter and retry later.
	RateLimited bool
}

// Adapter is implemented by each campaign platform.
type Adapter interface {
	ID() ID
	Name() string
	ValidateConfig(cfg Config) error
	SendLead(ctx context.Context, cfg Config, params LeadParams) Result
	SupportsCampaigns() bool
}

var registry = map[ID]Adapter{
	Instantly: newInstantly(),
	Plusvibe:  newPlusvibe(),
}

// Resolve returns the adapter for the given platform.
func Resolve(id ID) (Adapter, error) {
	adapter, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("unknown sender: %s", id)
	}
	return adapter, nil
}

var limiters = map[ID]*Limiter{
	Instantly: NewLimiter(8, 4),
	Plusvibe:  NewLimiter(5, 2),
}

// LimiterFor returns the shared rate limiter for the given platform.
func LimiterFor(id ID) *Limiter {
	return limiters[id]
}
