package matching

import (
	"strings"

	"github.com/signalis/connector/internal/record"
)

// needInput is the lowercased view of a demand record that the need rules
// evaluate against.
type needInput struct {
	signal      string
	title       string
	description string
	funding     string
	// companyText is industry + company + description, used for
	// industry-driven rules on non-hiring records.
	companyText string
	// roleText is signal + title, used for role-driven rules on hiring
	// records.
	roleText string
}

// needRule pairs a predicate with a profile factory. Rules are evaluated
// in order and the first match wins, so later rules may assume earlier
// families did not match.
type needRule struct {
	name  string
	match func(in needInput) bool
	build func(in needInput) NeedProfile
}

// companyNeedRules classify non-hiring records by what kind of company
// they are, not by the contact's title.
var companyNeedRules = []needRule{
	{
		name:  "biotech",
		match: func(in needInput) bool { return reBiotech.MatchString(in.companyText) },
		build: func(in needInput) NeedProfile {
			var specifics []string
			if in.funding != "" {
				specifics = []string{"funded"}
			}
			return NeedProfile{Category: NeedBiotech, Specifics: specifics, Confidence: 0.85, Source: SourceIndustry}
		},
	},
	{
		name: "healthcare",
		match: func(in needInput) bool {
			return reHealthcare.MatchString(in.companyText) && !reBiotechExcl.MatchString(in.companyText)
		},
		build: func(needInput) NeedProfile {
			return NeedProfile{Category: NeedHealthcare, Confidence: 0.8, Source: SourceIndustry}
		},
	},
	{
		name: "tech",
		match: func(in needInput) bool {
			return reTechCompany.MatchString(in.companyText) && !reTechExcl.MatchString(in.companyText)
		},
		build: func(needInput) NeedProfile {
			return NeedProfile{Category: NeedTech, Confidence: 0.8, Source: SourceIndustry}
		},
	},
	{
		name:  "fintech",
		match: func(in needInput) bool { return reFintech.MatchString(in.companyText) },
		build: func(needInput) NeedProfile {
			return NeedProfile{Category: NeedFintech, Confidence: 0.8, Source: SourceIndustry}
		},
	},
	{
		name: "finance_co",
		match: func(in needInput) bool {
			return reFinanceCo.MatchString(in.companyText) && !reFintechExcl.MatchString(in.companyText)
		},
		build: func(needInput) NeedProfile {
			return NeedProfile{Category: NeedFinanceCo, Confidence: 0.75, Source: SourceIndustry}
		},
	},
	{
		name: "growth",
		match: func(in needInput) bool {
			return in.funding != "" || reFundingWords.MatchString(in.description)
		},
		build: func(needInput) NeedProfile { return growthProfile() },
	},
	{
		name:  "company",
		match: func(needInput) bool { return true },
		build: func(needInput) NeedProfile {
			return NeedProfile{Category: NeedCompany, Confidence: 0.4, Source: SourceIndustry}
		},
	},
}

// hiringNeedRules classify hiring records by the role being hired for.
var hiringNeedRules = []needRule{
	{
		name: "engineering",
		match: func(in needInput) bool {
			return reEngineeringRole.MatchString(in.roleText) && !reRecruitExcl.MatchString(in.roleText)
		},
		build: func(in needInput) NeedProfile {
			var specifics []string
			if reSeniorRole.MatchString(in.roleText) {
				specifics = append(specifics, "senior")
			}
			if reMLRole.MatchString(in.roleText) {
				specifics = append(specifics, "ML/AI")
			}
			if reBackendRole.MatchString(in.roleText) {
				specifics = append(specifics, "backend")
			}
			if reFrontendRole.MatchString(in.roleText) {
				specifics = append(specifics, "frontend")
			}
			return NeedProfile{Category: NeedEngineering, Specifics: specifics, Confidence: 0.9, Source: SourceJobSignal}
		},
	},
	{
		name:  "sales",
		match: func(in needInput) bool { return reSalesRole.MatchString(in.roleText) },
		build: func(in needInput) NeedProfile {
			var specifics []string
			if reLeadershipRole.MatchString(in.roleText) {
				specifics = append(specifics, "leadership")
			}
			if reEnterprise.MatchString(in.roleText) {
				specifics = append(specifics, "enterprise")
			}
			return NeedProfile{Category: NeedSales, Specifics: specifics, Confidence: 0.9, Source: SourceJobSignal}
		},
	},
	{
		name:  "marketing",
		match: func(in needInput) bool { return reMarketingRole.MatchString(in.roleText) },
		build: func(in needInput) NeedProfile {
			var specifics []string
			if reLeadershipRole.MatchString(in.roleText) {
				specifics = append(specifics, "leadership")
			}
			if reContent.MatchString(in.roleText) {
				specifics = append(specifics, "content")
			}
			return NeedProfile{Category: NeedMarketing, Specifics: specifics, Confidence: 0.9, Source: SourceJobSignal}
		},
	},
	{
		name:  "finance",
		match: func(in needInput) bool { return reFinanceRole.MatchString(in.roleText) },
		build: func(needInput) NeedProfile {
			return NeedProfile{Category: NeedFinance, Confidence: 0.9, Source: SourceJobSignal}
		},
	},
	{
		name:  "operations",
		match: func(in needInput) bool { return reOperationsRole.MatchString(in.roleText) },
		build: func(needInput) NeedProfile {
			return NeedProfile{Category: NeedOperations, Confidence: 0.9, Source: SourceJobSignal}
		},
	},
	{
		name:  "recruiting",
		match: func(in needInput) bool { return reRecruitingRole.MatchString(in.roleText) },
		build: func(needInput) NeedProfile {
			return NeedProfile{Category: NeedRecruiting, Confidence: 0.9, Source: SourceJobSignal}
		},
	},
	{
		name: "growth",
		match: func(in needInput) bool {
			return in.funding != "" || reFundingWords.MatchString(in.roleText+" "+in.description)
		},
		build: func(needInput) NeedProfile { return growthProfile() },
	},
	{
		name:  "general",
		match: func(needInput) bool { return true },
		build: func(needInput) NeedProfile {
			return NeedProfile{Category: NeedGeneral, Confidence: 0.3, Source: SourceNone}
		},
	},
}

func growthProfile() NeedProfile {
	return NeedProfile{
		Category:   NeedGrowth,
		Specifics:  []string{"post-funding", "scaling"},
		Confidence: 0.7,
		Source:     SourceFundingSignal,
	}
}

// ExtractNeed classifies a demand record. Hiring records are read through
// the role being hired for; everything else through the kind of company.
// The final rule of each table always matches, so extraction never fails.
func ExtractNeed(demand *record.Record) NeedProfile {
	in := needInput{
		signal:      strings.ToLower(demand.Signal),
		title:       strings.ToLower(demand.Title),
		description: strings.ToLower(demand.CompanyDescription),
		funding:     strings.ToLower(demand.CompanyFunding),
	}
	industry := strings.ToLower(demand.IndustryText())
	company := strings.ToLower(demand.Company)
	in.companyText = industry + " " + company + " " + in.description
	in.roleText = in.signal + " " + in.title

	rules := companyNeedRules
	if demand.IsHiringSignal() {
		rules = hiringNeedRules
	}

	for _, rule := range rules {
		if rule.match(in) {
			return rule.build(in)
		}
	}

	// Unreachable: both tables end in a catch-all.
	return NeedProfile{Category: NeedGeneral, Confidence: 0.3, Source: SourceNone}
}
