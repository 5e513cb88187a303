package matching

// Alignment scoring: how well a need category and a capability category
// fit together, on a 0-50 scale. The matrix is the core intelligence of
// the engine; every branch is a fixed heuristic weight.

// industryAlignments map an industry need to capability categories in the
// same family. The first entry is the primary match (50), the rest are
// secondary (40).
var industryAlignments = map[NeedCategory][]CapabilityCategory{
	NeedBiotech:    {CapBiotechContact, CapBDProfessional},
	NeedHealthcare: {CapHealthcareContact, CapBiotechContact},
	NeedTech:       {CapTechContact, CapEngineering},
	NeedFintech:    {CapFinanceContact, CapTechContact},
	NeedFinanceCo:  {CapFinanceContact, CapConsulting},
}

// crossFunctionalAlignments list adjacent functions that still make a
// useful introduction (25).
var crossFunctionalAlignments = map[NeedCategory][]CapabilityCategory{
	NeedEngineering: {CapRecruiting, CapConsulting},
	NeedSales:       {CapMarketing, CapRecruiting},
	NeedMarketing:   {CapSales, CapGrowthPartner},
	NeedFinance:     {CapConsulting, CapFractional},
}

// hiringNeeds are the needs a recruiting capability can serve directly.
var hiringNeeds = map[NeedCategory]bool{
	NeedEngineering: true,
	NeedSales:       true,
	NeedMarketing:   true,
	NeedFinance:     true,
	NeedOperations:  true,
	NeedRecruiting:  true,
}

// scoreAlignment walks the matrix in priority order: industry pairs,
// service-provider pairs, connector roles, growth needs, cross-functional
// pairs, then generic fallbacks.
func scoreAlignment(need NeedProfile, capability CapabilityProfile) float64 {
	needCat := need.Category
	capCat := capability.Category

	if family, ok := industryAlignments[needCat]; ok {
		if family[0] == capCat {
			return 50
		}
		for _, c := range family[1:] {
			if c == capCat {
				return 40
			}
		}
	}

	if capCat == CapRecruiting && hiringNeeds[needCat] {
		return 45
	}
	if capCat == CapEngineering && needCat == NeedEngineering {
		return 40
	}
	if capCat == CapMarketing && needCat == NeedMarketing {
		return 50
	}
	if capCat == CapConsulting {
		switch needCat {
		case NeedOperations, NeedGrowth, NeedFinanceCo, NeedCompany:
			return 35
		}
	}
	if capCat == CapFractional {
		switch needCat {
		case NeedGrowth, NeedFinance, NeedOperations:
			return 40
		}
	}

	if capCat == CapBDProfessional {
		switch needCat {
		case NeedGrowth, NeedBiotech, NeedHealthcare, NeedTech, NeedFintech:
			return 35
		}
		return 20
	}
	if capCat == CapExecutive {
		if needCat == NeedGrowth {
			return 30
		}
		return 15
	}

	if needCat == NeedGrowth {
		switch capCat {
		case CapMarketing, CapRecruiting:
			return 40
		case CapConsulting, CapFractional:
			return 35
		case CapGeneral, CapProfessional:
			return 15
		}
		return 25
	}

	if caps, ok := crossFunctionalAlignments[needCat]; ok {
		for _, c := range caps {
			if c == capCat {
				return 25
			}
		}
	}

	if needCat == NeedGeneral || needCat == NeedCompany {
		if capCat == CapConsulting || capCat == CapBDProfessional {
			return 20
		}
		return 15
	}
	if capCat == CapGeneral || capCat == CapProfessional {
		return 10
	}

	return 5
}

// Tier is the final confidence bucket of a match.
type Tier string

const (
	TierStrong Tier = "strong"
	TierGood   Tier = "good"
	TierOpen   Tier = "open"
)

// determineTier buckets a match from its score and the averaged profile
// confidences, and builds the human-readable reason. The need side of the
// reason prefers the signal label when the record carries one.
func determineTier(score float64, need NeedProfile, capability CapabilityProfile, signalLabel string) (Tier, string) {
	needLabel := signalLabel
	if needLabel == "" {
		needLabel = need.Label()
	}

	tierReason := needLabel + " → " + capability.Label()

	combined := (need.Confidence + capability.Confidence) / 2

	switch {
	case score >= 70 && combined >= 0.7:
		return TierStrong, tierReason
	case score >= 45 || (score >= 30 && combined >= 0.5):
		return TierGood, tierReason
	default:
		return TierOpen, tierReason
	}
}
