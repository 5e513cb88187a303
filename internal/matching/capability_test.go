package matching

import (
	"testing"

	"github.com/signalis/connector/internal/record"
)

func TestExtractCapabilityRecruitingFromDescription(t *testing.T) {
	profile := ExtractCapability(&record.Record{
		Company:            "TechRecruit",
		CompanyDescription: "recruiting agency for engineers",
	})

	if profile.Category != CapRecruiting {
		t.Fatalf("expected recruiting, got %s", profile.Category)
	}
	if profile.Confidence != 0.95 {
		t.Fatalf("expected confidence 0.95 from description, got %v", profile.Confidence)
	}
	if profile.Source != SourceDescription {
		t.Fatalf("expected description source, got %s", profile.Source)
	}
	if len(profile.Specifics) != 1 || profile.Specifics[0] != "tech" {
		t.Fatalf("expected tech specifics, got %v", profile.Specifics)
	}
}

func TestExtractCapabilityRecruitingSourcePriority(t *testing.T) {
	fromTitle := ExtractCapability(&record.Record{Title: "Executive Recruiter"})
	if fromTitle.Confidence != 0.85 || fromTitle.Source != SourceTitle {
		t.Fatalf("expected title source at 0.85, got %s/%v", fromTitle.Source, fromTitle.Confidence)
	}

	fromCompany := ExtractCapability(&record.Record{Company: "Apex Staffing"})
	if fromCompany.Confidence != 0.7 || fromCompany.Source != SourceCompanyName {
		t.Fatalf("expected company_name source at 0.7, got %s/%v", fromCompany.Source, fromCompany.Confidence)
	}
}

func TestExtractCapabilityProviders(t *testing.T) {
	cases := []struct {
		description string
		category    CapabilityCategory
		confidence  float64
	}{
		{"creative agency for startup brands", CapMarketing, 0.9},
		{"app development agency for mobile products", CapEngineering, 0.8},
		{"management consulting for operations", CapConsulting, 0.75},
		{"fractional CFO services", CapFractional, 0.8},
	}

	for _, tc := range cases {
		profile := ExtractCapability(&record.Record{CompanyDescription: tc.description})
		if profile.Category != tc.category {
			t.Fatalf("%q: expected %s, got %s", tc.description, tc.category, profile.Category)
		}
		if profile.Confidence != tc.confidence {
			t.Fatalf("%q: expected confidence %v, got %v", tc.description, tc.confidence, profile.Confidence)
		}
	}
}

func TestExtractCapabilityContactFallbacks(t *testing.T) {
	cases := []struct {
		rec      *record.Record
		category CapabilityCategory
	}{
		{&record.Record{Industry: []string{"Biopharma"}}, CapBiotechContact},
		{&record.Record{Industry: []string{"Hospital Systems"}}, CapHealthcareContact},
		{&record.Record{CompanyDescription: "B2B SaaS product"}, CapTechContact},
		{&record.Record{Industry: []string{"Investment Banking"}}, CapFinanceContact},
		{&record.Record{Title: "Head of Partnerships"}, CapBDProfessional},
		{&record.Record{Title: "Co-Founder"}, CapExecutive},
		{&record.Record{Title: "Analyst"}, CapProfessional},
	}

	for _, tc := range cases {
		profile := ExtractCapability(tc.rec)
		if profile.Category != tc.category {
			t.Fatalf("expected %s, got %s (record %+v)", tc.category, profile.Category, tc.rec)
		}
	}
}

func TestExtractCapabilityTechContactExcludesAgencies(t *testing.T) {
	profile := ExtractCapability(&record.Record{
		CompanyDescription: "software consultancy building saas platforms",
	})
	if profile.Category != CapEngineering {
		t.Fatalf("consultancy must classify as a dev shop, got %s", profile.Category)
	}
}

func TestExtractCapabilityProfessionalFallbackConfidence(t *testing.T) {
	profile := ExtractCapability(&record.Record{})
	if profile.Category != CapProfessional {
		t.Fatalf("expected professional fallback, got %s", profile.Category)
	}
	if profile.Confidence != 0.3 || profile.Source != SourceNone {
		t.Fatalf("unexpected fallback profile: %+v", profile)
	}
}
