package matching

import (
	"regexp"
	"sort"
	"strings"
)

// Semantic expansion grows each side's token set with taxonomy-equivalent
// terms so that a demand phrased as "hiring engineers" can overlap a
// supply phrased as "technical recruiting". Each added term carries
// provenance reasons for explainability.

// expansionSide selects which taxonomy table and context gates apply.
type expansionSide string

const (
	sideDemand expansionSide = "demand"
	sideSupply expansionSide = "supply"
)

// termResolution is the outcome of the ambiguity gate for one term.
type termResolution string

const (
	resolvedNeed       termResolution = "need"
	resolvedCapability termResolution = "capability"
	resolvedNone       termResolution = ""
)

// semanticContext carries the side and the full surrounding text a token
// was found in.
type semanticContext struct {
	side expansionSide
	text string
}

// expansionResult holds the original tokens, the expanded set, and the
// provenance of every added term.
type expansionResult struct {
	base     map[string]struct{}
	expanded map[string]struct{}
	reasons  map[string][]string
}

// SemanticScore is the outcome of the full semantic pipeline for a pair.
type SemanticScore struct {
	Bonus         int
	OverlapCount  int
	MatchedTokens []string
}

var (
	tokenCleaner     = regexp.MustCompile(`[^\w\s]`)
	ambiguousEngTerm = map[string]bool{"engineering": true, "engineer": true, "engineers": true}
)

// extractTokens lowercases, strips punctuation, and drops tokens of
// length two or less.
func extractTokens(text string) []string {
	if text == "" {
		return nil
	}
	cleaned := tokenCleaner.ReplaceAllString(strings.ToLower(text), " ")
	var tokens []string
	for _, t := range strings.Fields(cleaned) {
		if len(t) > 2 {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// resolveAmbiguousTerm decides whether a polysemous term denotes a hiring
// need or a recruiting capability. Without contextual evidence the term
// stays a plain skill word and does not expand: "software engineering
// platform" is not a hiring need.
func resolveAmbiguousTerm(term string, ctx semanticContext) termResolution {
	lowerTerm := strings.ToLower(term)
	lowerText := strings.ToLower(ctx.text)

	hasHiringContext := reHiringContext.MatchString(lowerText)
	hasRecruitingContext := reRecruitingContext.MatchString(lowerText)

	switch {
	case ambiguousEngTerm[lowerTerm], lowerTerm == "sales", lowerTerm == "marketing":
		if ctx.side == sideDemand && hasHiringContext {
			return resolvedNeed
		}
		if ctx.side == sideSupply && hasRecruitingContext {
			return resolvedCapability
		}
		return resolvedNone

	case lowerTerm == "growth":
		// Growth expands into hiring only with hiring indicators present.
		if hasHiringContext {
			if ctx.side == sideDemand {
				return resolvedNeed
			}
			return resolvedCapability
		}
		return resolvedNone
	}

	return resolvedNone
}

// expandTokens unions taxonomy expansions, ambiguity-resolved expansions,
// and text-level context expansions into the token set.
func expandTokens(tokens []string, ctx semanticContext) expansionResult {
	result := expansionResult{
		base:     make(map[string]struct{}, len(tokens)),
		expanded: make(map[string]struct{}, len(tokens)),
		reasons:  make(map[string][]string),
	}

	for _, t := range tokens {
		lower := strings.ToLower(t)
		result.base[lower] = struct{}{}
		result.expanded[lower] = struct{}{}
	}

	expansionMap := supplyCapabilityExpansions
	if ctx.side == sideDemand {
		expansionMap = demandNeedExpansions
	}

	add := func(term, reason string) {
		result.expanded[term] = struct{}{}
		result.reasons[term] = append(result.reasons[term], reason)
	}

	for _, token := range tokens {
		lowerToken := strings.ToLower(token)

		if expansions, ok := expansionMap[lowerToken]; ok {
			for _, exp := range expansions {
				add(strings.ToLower(exp), "taxonomy:"+lowerToken)
			}
		}

		switch resolveAmbiguousTerm(lowerToken, ctx) {
		case resolvedNeed:
			if ctx.side == sideDemand {
				for _, exp := range demandNeedExpansions["hiring"] {
					add(strings.ToLower(exp), "ambiguity:"+lowerToken+"→need")
				}
			}
		case resolvedCapability:
			if ctx.side == sideSupply {
				for _, exp := range supplyCapabilityExpansions["recruiting"] {
					add(strings.ToLower(exp), "ambiguity:"+lowerToken+"→capability")
				}
			}
		}
	}

	// Text-level context detection, independent of individual tokens.
	lowerText := strings.ToLower(ctx.text)
	if ctx.side == sideSupply && reSupplyTextRecruiting.MatchString(lowerText) {
		for _, exp := range supplyCapabilityExpansions["recruiting"] {
			term := strings.ToLower(exp)
			if _, present := result.expanded[term]; !present {
				add(term, "text:recruiting_detected")
			}
		}
	}
	if ctx.side == sideDemand && reDemandTextHiring.MatchString(lowerText) {
		for _, exp := range demandNeedExpansions["hiring"] {
			term := strings.ToLower(exp)
			if _, present := result.expanded[term]; !present {
				add(term, "text:hiring_detected")
			}
		}
	}

	return result
}

// semanticBonus maps an overlap count onto bonus points. The bonus is
// additive on top of the weighted blend, not part of it.
func semanticBonus(overlap int) int {
	switch {
	case overlap >= 5:
		return 30
	case overlap >= 3:
		return 20
	case overlap >= 1:
		return 10
	default:
		return 0
	}
}

// ScoreSemanticOverlap runs the full pipeline: tokenize both sides,
// expand with context, intersect, and convert the overlap to a bonus.
func ScoreSemanticOverlap(demandText, supplyText string) SemanticScore {
	demandResult := expandTokens(extractTokens(demandText), semanticContext{side: sideDemand, text: demandText})
	supplyResult := expandTokens(extractTokens(supplyText), semanticContext{side: sideSupply, text: supplyText})

	var matched []string
	for token := range demandResult.expanded {
		if _, ok := supplyResult.expanded[token]; ok {
			matched = append(matched, token)
		}
	}
	sort.Strings(matched)

	return SemanticScore{
		Bonus:         semanticBonus(len(matched)),
		OverlapCount:  len(matched),
		MatchedTokens: matched,
	}
}
