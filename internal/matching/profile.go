package matching

// NeedCategory is the closed set of demand-side classifications.
type NeedCategory string

const (
	NeedEngineering NeedCategory = "engineering"
	NeedSales       NeedCategory = "sales"
	NeedMarketing   NeedCategory = "marketing"
	NeedFinance     NeedCategory = "finance"
	NeedOperations  NeedCategory = "operations"
	NeedRecruiting  NeedCategory = "recruiting"
	NeedGrowth      NeedCategory = "growth"
	NeedGeneral     NeedCategory = "general"
	NeedBiotech     NeedCategory = "biotech"
	NeedHealthcare  NeedCategory = "healthcare"
	NeedTech        NeedCategory = "tech"
	NeedFintech     NeedCategory = "fintech"
	NeedFinanceCo   NeedCategory = "finance_co"
	NeedCompany     NeedCategory = "company"
)

// CapabilityCategory is the closed set of supply-side classifications.
type CapabilityCategory string

const (
	CapRecruiting  CapabilityCategory = "recruiting"
	CapMarketing   CapabilityCategory = "marketing"
	CapEngineering CapabilityCategory = "engineering"
	CapConsulting  CapabilityCategory = "consulting"
	CapFractional  CapabilityCategory = "fractional"
	// Functional consultant categories: not produced by the extractor
	// today, but part of the alignment matrix and label tables so external
	// profiles can flow through unchanged.
	CapSales         CapabilityCategory = "sales"
	CapFinance       CapabilityCategory = "finance"
	CapOperations    CapabilityCategory = "operations"
	CapGrowthPartner CapabilityCategory = "growth"
	CapBiotechContact    CapabilityCategory = "biotech_contact"
	CapHealthcareContact CapabilityCategory = "healthcare_contact"
	CapTechContact       CapabilityCategory = "tech_contact"
	CapFinanceContact    CapabilityCategory = "finance_contact"
	CapBDProfessional    CapabilityCategory = "bd_professional"
	CapExecutive         CapabilityCategory = "executive"
	CapGeneral           CapabilityCategory = "general"
	CapProfessional      CapabilityCategory = "professional"
)

// ProfileSource records which record field a classification came from.
type ProfileSource string

const (
	SourceJobSignal     ProfileSource = "job_signal"
	SourceIndustry      ProfileSource = "industry"
	SourceFundingSignal ProfileSource = "funding_signal"
	SourceDescription   ProfileSource = "description"
	SourceTitle         ProfileSource = "title"
	SourceCompanyName   ProfileSource = "company_name"
	SourceNone          ProfileSource = "none"
)

// NeedProfile is the engine's read of what a demand record needs.
// Extraction never fails: the cascade terminates in a low-confidence
// general category.
type NeedProfile struct {
	Category   NeedCategory
	Specifics  []string
	Confidence float64
	Source     ProfileSource
}

// CapabilityProfile is the engine's read of what a supply record offers.
type CapabilityProfile struct {
	Category   CapabilityCategory
	Specifics  []string
	Confidence float64
	Source     ProfileSource
}

// Label returns the display phrasing for the need category.
func (p NeedProfile) Label() string {
	if label, ok := needLabels[p.Category]; ok {
		return label
	}
	return string(p.Category)
}

// Label returns the display phrasing for the capability category.
func (p CapabilityProfile) Label() string {
	if label, ok := capabilityLabels[p.Category]; ok {
		return label
	}
	return "Provider"
}
