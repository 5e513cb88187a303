package cmd

import (
	"testing"

	"github.com/signalis/connector/internal/matching"
	"github.com/signalis/connector/internal/record"
	"github.com/signalis/connector/internal/sender"
)

func queueFixture() *matching.Result {
	demand := &record.Record{
		Company:   "Acme Data",
		FullName:  "Jane Smith",
		FirstName: "Jane",
		LastName:  "Smith",
		Email:     "jane@acme.com",
		Domain:    "acme.com",
		Metadata:  map[string]string{"generated_intro": "Hey Jane"},
	}
	supply := &record.Record{
		Company:   "TalentBridge",
		FullName:  "Bob Jones",
		FirstName: "Bob",
		Email:     "bob@talentbridge.com",
		Domain:    "talentbridge.com",
		Metadata:  map[string]string{"generated_intro": "Hey Bob"},
	}

	return &matching.Result{
		DemandMatches: []*matching.Match{{Demand: demand, Supply: supply, Score: 80}},
	}
}

func TestBuildSendQueue(t *testing.T) {
	cfg := sender.Config{
		DemandCampaignID: "demand-camp",
		SupplyCampaignID: "supply-camp",
	}

	queue, noCampaign, noIntro := buildSendQueue(queueFixture(), cfg)
	if noCampaign != 0 || noIntro != 0 {
		t.Fatalf("unexpected skips: campaign=%d intro=%d", noCampaign, noIntro)
	}
	if len(queue) != 2 {
		t.Fatalf("expected both sides queued, got %d", len(queue))
	}

	if queue[0].Type != sender.SendDemand || queue[0].IntroText != "Hey Jane" {
		t.Fatalf("demand lead wrong: %+v", queue[0])
	}
	if queue[1].Type != sender.SendSupply || queue[1].CampaignID != "supply-camp" {
		t.Fatalf("supply lead wrong: %+v", queue[1])
	}
}

func TestBuildSendQueueSkips(t *testing.T) {
	result := queueFixture()

	// Without a supply campaign the supply side is dropped.
	queue, noCampaign, _ := buildSendQueue(result, sender.Config{DemandCampaignID: "demand-camp"})
	if len(queue) != 1 || noCampaign != 1 {
		t.Fatalf("expected one queued and one skipped, got %d/%d", len(queue), noCampaign)
	}

	// A contact without a generated intro never enters the queue.
	result.DemandMatches[0].Demand.Metadata = nil
	queue, _, noIntro := buildSendQueue(result, sender.Config{DemandCampaignID: "demand-camp"})
	if len(queue) != 0 || noIntro != 1 {
		t.Fatalf("expected intro skip, got %d/%d", len(queue), noIntro)
	}

	// A contact without an email is silently ignored.
	result.DemandMatches[0].Supply.Email = ""
	queue, noCampaign, noIntro = buildSendQueue(result, sender.Config{SupplyCampaignID: "supply-camp"})
	if len(queue) != 0 || noCampaign != 0 || noIntro != 0 {
		t.Fatalf("expected nothing queued or counted, got %d/%d/%d", len(queue), noCampaign, noIntro)
	}
}

func TestBuildSenderConfig(t *testing.T) {
	t.Setenv("PLUSVIBE_API_KEY", "env-key")
	t.Setenv("DEMAND_CAMPAIGN_ID", "env-demand")

	cfg := buildSenderConfig(sender.Plusvibe, &SendingConfig{
		PlusvibeWorkspaceID: "ws-1",
		SupplyCampaignID:    "cfg-supply",
	})

	if cfg.APIKey != "env-key" {
		t.Fatalf("expected API key from environment, got %q", cfg.APIKey)
	}
	if cfg.WorkspaceID != "ws-1" {
		t.Fatalf("expected workspace from config, got %q", cfg.WorkspaceID)
	}
	if cfg.DemandCampaignID != "env-demand" || cfg.SupplyCampaignID != "cfg-supply" {
		t.Fatalf("campaign IDs wrong: %+v", cfg)
	}

	// Instantly must not pick up plusvibe credentials.
	instantlyCfg := buildSenderConfig(sender.Instantly, &SendingConfig{InstantlyAPIKey: "inst-key"})
	if instantlyCfg.APIKey != "inst-key" || instantlyCfg.WorkspaceID != "" {
		t.Fatalf("instantly config wrong: %+v", instantlyCfg)
	}
}
