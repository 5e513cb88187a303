package matching

import (
	"regexp"
	"strconv"
	"strings"
)

// Feature scorers. Each is independent and bounded; missing inputs score
// a neutral midpoint instead of failing.

const defaultCompanySize = 50

var nonDigits = regexp.MustCompile(`[^0-9]`)

// scoreIndustry rates industry affinity on a 0-30 scale: exact match 30,
// substring containment 20, shared related-industry group 15, nothing in
// common 5, either side missing 10.
func scoreIndustry(demandIndustry, supplyIndustry []string) float64 {
	if len(demandIndustry) == 0 || len(supplyIndustry) == 0 {
		return 10
	}

	d := strings.ToLower(demandIndustry[0])
	s := strings.ToLower(supplyIndustry[0])

	if d == s {
		return 30
	}
	if strings.Contains(s, d) || strings.Contains(d, s) {
		return 20
	}

	for _, group := range relatedIndustryGroups {
		dInGroup, sInGroup := false, false
		for _, term := range group {
			if strings.Contains(d, term) {
				dInGroup = true
			}
			if strings.Contains(s, term) {
				sInGroup = true
			}
		}
		if dInGroup && sInGroup {
			return 15
		}
	}

	return 5
}

// scoreSignal rates how relevant the demand signal is to the supplier on
// a 0-40 scale: same functional type 40, supplier is a generic recruiter
// 25, otherwise 10; no signal at all 5.
func scoreSignal(demandSignal, supplyTitle, supplyIndustry string) float64 {
	if demandSignal == "" {
		return 5
	}

	signal := strings.ToLower(demandSignal)
	serves := strings.ToLower(supplyTitle) + strings.ToLower(supplyIndustry)

	type pairing struct {
		signal *regexp.Regexp
		serves *regexp.Regexp
	}

	pairings := []pairing{
		{reSignalEngineering, reServesEngineering},
		{reSignalSales, reServesSales},
		{reSignalMarketing, reServesMarketing},
		{reSignalRecruiting, reServesRecruiting},
		{reSignalFinance, reServesFinance},
	}

	for _, p := range pairings {
		if p.signal.MatchString(signal) && p.serves.MatchString(serves) {
			return 40
		}
	}

	// A recruiter can serve any hiring signal, just less directly.
	if reServesRecruiting.MatchString(serves) {
		return 25
	}

	return 10
}

// scoreSize rates company-size compatibility on a 0-20 scale from the
// demand/supply headcount ratio.
func scoreSize(demandSize, supplySize string) float64 {
	if demandSize == "" || supplySize == "" {
		return 10
	}

	d := parseSize(demandSize)
	s := parseSize(supplySize)
	if s < 1 {
		s = 1
	}

	ratio := float64(d) / float64(s)

	switch {
	case ratio >= 0.5 && ratio <= 5:
		return 20
	case ratio >= 0.2 && ratio <= 10:
		return 15
	default:
		return 5
	}
}

// parseSize extracts the numeric headcount from a free-form size field
// ("51-200 employees" parses as 51200; "~120" as 120), defaulting to 50.
func parseSize(size string) int {
	digits := nonDigits.ReplaceAllString(size, "")
	if digits == "" {
		return defaultCompanySize
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return defaultCompanySize
	}
	return n
}
