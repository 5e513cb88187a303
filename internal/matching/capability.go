package matching

import (
	"strings"

	"github.com/signalis/connector/internal/record"
)

// capabilityInput is the lowercased view of a supply record that the
// capability rules evaluate against.
type capabilityInput struct {
	description string
	title       string
	company     string
	industry    string
	// combined is description + title + company + industry; most provider
	// families look anywhere in the record.
	combined string
}

type capabilityRule struct {
	name  string
	match func(in capabilityInput) bool
	build func(in capabilityInput) CapabilityProfile
}

// providerRules detect records that clearly describe a service provider:
// agencies, recruiters, consultancies, fractional executives.
var providerRules = []capabilityRule{
	{
		name:  "recruiting",
		match: func(in capabilityInput) bool { return reRecruitingProvider.MatchString(in.combined) },
		build: func(in capabilityInput) CapabilityProfile {
			var specifics []string
			if reTechSpecific.MatchString(in.combined) {
				specifics = append(specifics, "tech")
			}
			if reExecutiveSpecific.MatchString(in.combined) {
				specifics = append(specifics, "executive")
			}

			// Where the keyword was found decides how much to trust it:
			// a description beats a title beats a company name.
			confidence := 0.7
			source := SourceCompanyName
			switch {
			case strings.Contains(in.description, "recruit"):
				confidence, source = 0.95, SourceDescription
			case strings.Contains(in.title, "recruit"):
				confidence, source = 0.85, SourceTitle
			}

			return CapabilityProfile{Category: CapRecruiting, Specifics: specifics, Confidence: confidence, Source: source}
		},
	},
	{
		name:  "marketing",
		match: func(in capabilityInput) bool { return reMarketingAgency.MatchString(in.combined) },
		build: func(in capabilityInput) CapabilityProfile {
			var specifics []string
			if reStartup.MatchString(in.combined) {
				specifics = append(specifics, "startups")
			}
			if reEnterpriseB2B.MatchString(in.combined) {
				specifics = append(specifics, "enterprise")
			}
			return CapabilityProfile{Category: CapMarketing, Specifics: specifics, Confidence: 0.9, Source: SourceDescription}
		},
	},
	{
		name:  "engineering",
		match: func(in capabilityInput) bool { return reDevShop.MatchString(in.combined) },
		build: func(in capabilityInput) CapabilityProfile {
			var specifics []string
			if reStartupOnly.MatchString(in.combined) {
				specifics = append(specifics, "startups")
			}
			if reMobile.MatchString(in.combined) {
				specifics = append(specifics, "mobile")
			}
			return CapabilityProfile{Category: CapEngineering, Specifics: specifics, Confidence: 0.8, Source: SourceDescription}
		},
	},
	{
		name:  "consulting",
		match: func(in capabilityInput) bool { return reConsultingFirm.MatchString(in.combined) },
		build: func(capabilityInput) CapabilityProfile {
			return CapabilityProfile{Category: CapConsulting, Confidence: 0.75, Source: SourceDescription}
		},
	},
	{
		name:  "fractional",
		match: func(in capabilityInput) bool { return reFractional.MatchString(in.combined) },
		build: func(capabilityInput) CapabilityProfile {
			return CapabilityProfile{Category: CapFractional, Confidence: 0.8, Source: SourceTitle}
		},
	},
}

// contactRules classify records that are a person at a company rather
// than a provider; they become potential partners or connectors.
var contactRules = []capabilityRule{
	{
		name:  "biotech_contact",
		match: func(in capabilityInput) bool { return reBiotechContact.MatchString(in.combined) },
		build: func(capabilityInput) CapabilityProfile {
			return CapabilityProfile{Category: CapBiotechContact, Confidence: 0.7, Source: SourceIndustry}
		},
	},
	{
		name: "healthcare_contact",
		match: func(in capabilityInput) bool {
			return reHealthContact.MatchString(in.combined) && !reBiotechExcl.MatchString(in.combined)
		},
		build: func(capabilityInput) CapabilityProfile {
			return CapabilityProfile{Category: CapHealthcareContact, Confidence: 0.65, Source: SourceIndustry}
		},
	},
	{
		name: "tech_contact",
		match: func(in capabilityInput) bool {
			return reTechContact.MatchString(in.combined) && !reAgencyExcl.MatchString(in.combined)
		},
		build: func(capabilityInput) CapabilityProfile {
			return CapabilityProfile{Category: CapTechContact, Confidence: 0.6, Source: SourceIndustry}
		},
	},
	{
		name: "finance_contact",
		match: func(in capabilityInput) bool {
			return reFinanceContact.MatchString(in.combined) && !reRecruitExcl.MatchString(in.combined)
		},
		build: func(capabilityInput) CapabilityProfile {
			return CapabilityProfile{Category: CapFinanceContact, Confidence: 0.6, Source: SourceIndustry}
		},
	},
	{
		name:  "bd_professional",
		match: func(in capabilityInput) bool { return reBDTitle.MatchString(in.title) },
		build: func(capabilityInput) CapabilityProfile {
			return CapabilityProfile{Category: CapBDProfessional, Confidence: 0.7, Source: SourceTitle}
		},
	},
	{
		name:  "executive",
		match: func(in capabilityInput) bool { return reExecutiveTitle.MatchString(in.title) },
		build: func(capabilityInput) CapabilityProfile {
			return CapabilityProfile{Category: CapExecutive, Confidence: 0.5, Source: SourceTitle}
		},
	},
	{
		name:  "professional",
		match: func(capabilityInput) bool { return true },
		build: func(capabilityInput) CapabilityProfile {
			return CapabilityProfile{Category: CapProfessional, Confidence: 0.3, Source: SourceNone}
		},
	},
}

// ExtractCapability classifies a supply record: service-provider rules
// first, then the contact fallback. Extraction never fails.
func ExtractCapability(supply *record.Record) CapabilityProfile {
	in := capabilityInput{
		description: strings.ToLower(supply.CompanyDescription),
		title:       strings.ToLower(supply.Title),
		company:     strings.ToLower(supply.Company),
		industry:    strings.ToLower(supply.PrimaryIndustry()),
	}
	in.combined = in.description + " " + in.title + " " + in.company + " " + in.industry

	for _, rule := range providerRules {
		if rule.match(in) {
			return rule.build(in)
		}
	}
	for _, rule := range contactRules {
		if rule.match(in) {
			return rule.build(in)
		}
	}

	// Unreachable: contactRules ends in a catch-all.
	return CapabilityProfile{Category: CapProfessional, Confidence: 0.3, Source: SourceNone}
}
