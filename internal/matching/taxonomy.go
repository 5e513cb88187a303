package matching

import "regexp"

// The taxonomy is code-owned: keyword families, expansion maps, and label
// tables are package-level constants compiled once at load. There is no
// runtime mutation, so the tables are safe to share across goroutines.

// Keyword families used by the need and capability extractors. Negative
// families (…Excl) are applied as a second test instead of lookaheads.
var (
	reBiotech      = regexp.MustCompile(`(?i)biotech|pharma|therapeutic|clinical|life science|drug|medical device|biopharma`)
	reHealthcare   = regexp.MustCompile(`(?i)health|medical|hospital|patient|clinic`)
	reBiotechExcl  = regexp.MustCompile(`(?i)biotech|pharma`)
	reTechCompany  = regexp.MustCompile(`(?i)\bsoftware\b|saas|\bcloud\b|platform|digital|ai company|tech company`)
	reTechExcl     = regexp.MustCompile(`(?i)biotech|fintech|healthtech`)
	reFintech      = regexp.MustCompile(`(?i)fintech|financial technology`)
	reFinanceCo    = regexp.MustCompile(`(?i)financ|banking|insurance|invest|capital|asset`)
	reFintechExcl  = regexp.MustCompile(`(?i)fintech`)
	reFundingWords = regexp.MustCompile(`(?i)raised|funding|series|seed|round`)

	reEngineeringRole = regexp.MustCompile(`(?i)engineer|developer|\bsoftware\b|devops|backend|frontend|fullstack|ml\b|ai\b|data scientist`)
	reRecruitExcl     = regexp.MustCompile(`(?i)recruit`)
	reSeniorRole      = regexp.MustCompile(`(?i)senior|staff|lead|principal`)
	reMLRole          = regexp.MustCompile(`(?i)ml|machine learning|ai\b`)
	reBackendRole     = regexp.MustCompile(`(?i)backend|server`)
	reFrontendRole    = regexp.MustCompile(`(?i)frontend|react|ui`)
	reSalesRole       = regexp.MustCompile(`(?i)\bsales\b|account executive|\bae\b|\bsdr\b|\bbdr\b|revenue|business development|closer`)
	reLeadershipRole  = regexp.MustCompile(`(?i)vp|head|director`)
	reEnterprise      = regexp.MustCompile(`(?i)enterprise`)
	reMarketingRole   = regexp.MustCompile(`(?i)marketing|growth|brand|content|\bseo\b|paid|demand gen|gtm`)
	reContent         = regexp.MustCompile(`(?i)content`)
	reFinanceRole     = regexp.MustCompile(`(?i)\bfinance\b|\bcfo\b|accounting|controller|fp&a|bookkeep`)
	reOperationsRole  = regexp.MustCompile(`(?i)operations|\bops\b|\bcoo\b|chief operating|supply chain|logistics`)
	reRecruitingRole  = regexp.MustCompile(`(?i)recruiter|talent|\bhr\b|human resources|people ops`)
)

// Service-provider and contact-fallback families for the capability side.
var (
	reRecruitingProvider = regexp.MustCompile(`(?i)recruit|staffing|talent acquisition|headhunt|placement|hiring agency|staffing agency`)
	reTechSpecific       = regexp.MustCompile(`(?i)engineer|\bsoftware\b`)
	reExecutiveSpecific  = regexp.MustCompile(`(?i)executive|c-suite|leadership`)
	reMarketingAgency    = regexp.MustCompile(`(?i)marketing agency|ad agency|advertising agency|creative agency|pr agency`)
	reStartup            = regexp.MustCompile(`(?i)startup|venture`)
	reEnterpriseB2B      = regexp.MustCompile(`(?i)enterprise|b2b`)
	reDevShop            = regexp.MustCompile(`(?i)dev shop|development agency|software agency|software consultancy|app development`)
	reStartupOnly        = regexp.MustCompile(`(?i)startup`)
	reMobile             = regexp.MustCompile(`(?i)mobile|ios|android`)
	reConsultingFirm     = regexp.MustCompile(`(?i)consulting firm|advisory firm|management consulting|strategy consulting|consultancy`)
	reFractional         = regexp.MustCompile(`(?i)fractional|interim|outsourced cfo|outsourced coo|part-time executive`)

	reBiotechContact = regexp.MustCompile(`(?i)biotech|pharma|therapeutic|clinical|life science|biopharma`)
	reTechContact    = regexp.MustCompile(`(?i)\bsoftware\b|saas|\bcloud\b|platform`)
	reAgencyExcl     = regexp.MustCompile(`(?i)agency|shop|development company|consultancy`)
	reFinanceContact = regexp.MustCompile(`(?i)financ|banking|investment|capital`)
	reBDTitle        = regexp.MustCompile(`(?i)business development|licensing|partnerships|bd\b`)
	reExecutiveTitle = regexp.MustCompile(`(?i)ceo|cto|cfo|coo|founder|co-founder|president|chief`)
	reHealthContact  = regexp.MustCompile(`(?i)health|medical|hospital`)
)

// Families for the signal scorer.
var (
	reSignalEngineering = regexp.MustCompile(`engineer|developer|software|tech|cto`)
	reSignalSales       = regexp.MustCompile(`sales|account|revenue|sdr|bdr`)
	reSignalMarketing   = regexp.MustCompile(`marketing|growth|brand|content`)
	reSignalRecruiting  = regexp.MustCompile(`recruiter|talent|hr|hiring`)
	reSignalFinance     = regexp.MustCompile(`finance|cfo|accounting|controller`)

	reServesEngineering = regexp.MustCompile(`engineer|developer|tech|software`)
	reServesSales       = regexp.MustCompile(`sales|revenue|business`)
	reServesMarketing   = regexp.MustCompile(`marketing|growth|brand`)
	reServesRecruiting  = regexp.MustCompile(`recruit|staffing|talent|hr`)
	reServesFinance     = regexp.MustCompile(`finance|accounting|cfo`)
)

// relatedIndustryGroups define transitive industry affinity for the
// industry scorer: membership of both sides in one group scores 15.
var relatedIndustryGroups = [][]string{
	{"software", "tech", "technology", "saas", "it"},
	{"finance", "fintech", "banking", "financial services"},
	{"healthcare", "health", "medical", "biotech", "pharma"},
	{"staffing", "recruiting", "hr", "talent", "human resources"},
	{"marketing", "advertising", "media", "digital marketing"},
	{"sales", "business development", "revenue"},
}

// supplyCapabilityExpansions map a capability term to its semantic
// equivalents: what a supplier that uses the term can be matched on.
var supplyCapabilityExpansions = map[string][]string{
	"recruiting": {
		"hiring", "talent acquisition", "staffing", "headhunting",
		"recruiter", "placement", "sourcing", "talent", "hire",
		"engineer", "engineers", "engineering", "developer", "software",
		"sales", "marketing",
	},
	"recruit":  {"hiring", "talent", "staffing", "hire"},
	"staffing": {"recruiting", "hiring", "talent", "hire"},
	"talent":   {"recruiting", "hiring", "staffing", "hire"},
	"engineering_recruiting": {
		"technical hiring", "hire engineers", "engineering hires",
		"tech hiring", "developer hiring", "engineer", "software",
	},
	"sales_recruiting": {
		"sales hiring", "hire salespeople", "sales hires", "revenue hiring",
	},
	"marketing_recruiting": {
		"marketing hiring", "hire marketers", "marketing hires",
	},
	"executive_recruiting": {
		"executive hiring", "leadership hiring", "c-suite hiring", "executive search",
	},
}

// demandNeedExpansions map a need term to its semantic equivalents: what a
// company that uses the term is likely looking for.
var demandNeedExpansions = map[string][]string{
	"hiring": {
		"recruiting", "talent acquisition", "staffing", "team building",
		"headcount", "recruit", "recruiter",
	},
	"engineer": {
		"recruiting", "staffing", "talent", "hire", "hiring", "technical hiring",
	},
	"engineers": {
		"recruiting", "staffing", "talent", "hire", "hiring",
	},
	"engineering": {
		"recruiting", "staffing", "talent", "hire", "hiring",
		"engineering hires", "hire engineers", "technical hiring",
		"developer", "software engineer", "tech talent",
	},
	"software": {
		"recruiting", "staffing", "talent", "hire", "engineering",
	},
	"developer": {
		"recruiting", "staffing", "talent", "hire", "engineering",
	},
	"sales": {
		"recruiting", "staffing", "talent", "hire", "hiring",
		"sales hires", "hire salespeople", "sales talent", "revenue team",
	},
	"marketing": {
		"recruiting", "staffing", "talent", "hire", "hiring",
		"marketing hires", "hire marketers", "marketing talent",
	},
	"operations": {
		"recruiting", "staffing", "talent", "hire",
		"operations hires", "hire ops", "ops talent",
	},
	"finance": {
		"recruiting", "staffing", "talent", "hire",
		"finance hires", "hire finance", "accounting talent",
	},
}

// Context gates for ambiguity resolution and text-level detection.
var (
	reHiringContext        = regexp.MustCompile(`\b(hire|hiring|team|headcount|recruit|talent|staffing|placement)\b`)
	reRecruitingContext    = regexp.MustCompile(`\b(recruit|recruiting|staffing|talent|headhunt|placement|sourcing)\b`)
	reSupplyTextRecruiting = regexp.MustCompile(`\b(recruit|recruiting|staffing|talent|headhunt|placement)\b`)
	reDemandTextHiring     = regexp.MustCompile(`\b(hiring|hire|hires|team building|headcount)\b`)
)

// needLabels translate a need category into the phrasing shown in tier
// reasons. Missing categories fall back to the raw category string.
var needLabels = map[NeedCategory]string{
	NeedEngineering: "Hiring engineers",
	NeedSales:       "Hiring sales",
	NeedMarketing:   "Hiring marketing",
	NeedRecruiting:  "Hiring recruiters",
	NeedFinance:     "Hiring finance",
	NeedOperations:  "Hiring operations",
	NeedGrowth:      "Raised funding",
	NeedGeneral:     "Active company",
	NeedBiotech:     "Biotech company",
	NeedHealthcare:  "Healthcare company",
	NeedTech:        "Tech company",
	NeedFintech:     "Fintech company",
	NeedFinanceCo:   "Finance company",
	NeedCompany:     "Company",
}

// capabilityLabels translate a capability category; unknown categories
// fall back to "Provider".
var capabilityLabels = map[CapabilityCategory]string{
	CapRecruiting:        "Recruiter",
	CapMarketing:         "Marketing agency",
	CapEngineering:       "Dev shop",
	CapConsulting:        "Consultant",
	CapFractional:        "Fractional exec",
	CapSales:             "Sales consultant",
	CapFinance:           "Finance consultant",
	CapOperations:        "Ops consultant",
	CapGrowthPartner:     "Growth partner",
	CapGeneral:           "Provider",
	CapBiotechContact:    "Biotech BD contact",
	CapHealthcareContact: "Healthcare contact",
	CapTechContact:       "Tech contact",
	CapFinanceContact:    "Finance contact",
	CapBDProfessional:    "BD professional",
	CapExecutive:         "Executive",
	CapProfessional:      "Professional",
}
