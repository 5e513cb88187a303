package intro

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/signalis/connector/internal/record"
)

// Source reports how a pair of intros was produced.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Generator produces a textual completion for a prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Request carries the matched pair and the evidence that connects it.
type Request struct {
	Demand *record.Record
	Supply *record.Record
	// Evidence is the short human-readable reason the pair was matched.
	Evidence string
	// Confidence is the normalized match score in [0, 1].
	Confidence float64
	// Signals lists the individual match reasons.
	Signals []string
}

// GeneratedIntros holds both sides of a generated introduction.
type GeneratedIntros struct {
	DemandIntro     string
	SupplyIntro     string
	DemandValueProp string
	SupplyValueProp string
	Source          Source
	Err             string
}

// Generate fills tight template variables with two parallel generator calls and
// assembles the final emails in code. When the generator fails entirely the
// deterministic fallback templates are used instead.
func Generate(ctx context.Context, gen Generator, req Request) GeneratedIntros {
	if gen == nil {
		return Fallback(req, "no generator configured")
	}

	var supplyRaw, demandRaw string

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		raw, err := gen.GenerateContent(groupCtx, buildSupplyVarsPrompt(req))
		if err != nil {
			return fmt.Errorf("supply variables: %w", err)
		}
		supplyRaw = raw
		return nil
	})
	group.Go(func() error {
		raw, err := gen.GenerateContent(groupCtx, buildDemandVarsPrompt(req))
		if err != nil {
			return fmt.Errorf("demand variables: %w", err)
		}
		demandRaw = raw
		return nil
	})

	if err := group.Wait(); err != nil {
		return Fallback(req, err.Error())
	}

	supplyVars, err := parseVars(supplyRaw)
	if err != nil || supplyVars["dreamICP"] == "" || supplyVars["painTheySolve"] == "" {
		supplyVars = map[string]string{
			"dreamICP":      strings.ToLower(fmt.Sprintf("%s in your space", orDefault(req.Demand.PrimaryIndustry(), "companies"))),
			"painTheySolve": orDefault(req.Evidence, "what they need right now"),
		}
	}

	demandVars, err := parseVars(demandRaw)
	if err != nil {
		demandVars = map[string]string{
			"signalEvent": "is making moves",
			"whoTheyAre":  fmt.Sprintf("%s firm", orDefault(req.Supply.Signal, "services")),
		}
	} else {
		demandVars = map[string]string{
			"signalEvent": orDefault(demandVars["signalEvent"], "is making moves"),
			"whoTheyAre":  stripLeadingArticle(demandVars["whoTheyAre"]),
		}
	}

	return GeneratedIntros{
		DemandIntro:     assembleDemandIntro(extractFirstName(req.Demand.FullName), req.Demand.Company, demandVars),
		SupplyIntro:     assembleSupplyIntro(extractFirstName(req.Supply.FullName), supplyVars),
		DemandValueProp: fmt.Sprintf("%s → %s", demandVars["signalEvent"], demandVars["whoTheyAre"]),
		SupplyValueProp: fmt.Sprintf("%s looking for %s", supplyVars["dreamICP"], supplyVars["painTheySolve"]),
		Source:          SourceAI,
	}
}

// Fallback returns deterministic intros for when the generator is unavailable,
// rate limited, or returned an unusable response.
func Fallback(req Request, errText string) GeneratedIntros {
	demandIntro := fmt.Sprintf(
		"Hey %s, I'm connected to a %s that might be able to help with %s. Want an intro?",
		extractFirstName(req.Demand.FullName),
		orDefault(req.Supply.Company, "service provider"),
		orDefault(req.Evidence, "your needs"),
	)

	supplyIntro := fmt.Sprintf(
		"Hey %s, I got a company (%s) looking for %s. Interested in connecting?",
		extractFirstName(req.Supply.FullName),
		orDefault(req.Demand.Company, "potential client"),
		orDefault(req.Evidence, "services like yours"),
	)

	return GeneratedIntros{
		DemandIntro:     demandIntro,
		SupplyIntro:     supplyIntro,
		DemandValueProp: "Generic fallback (AI unavailable)",
		SupplyValueProp: "Generic fallback (AI unavailable)",
		Source:          SourceFallback,
		Err:             errText,
	}
}

func buildSupplyVarsPrompt(req Request) string {
	desc := truncate(req.Demand.CompanyDescription, 400)

	var sb strings.Builder
	sb.WriteString("Fill variables for a cold email. JSON only.\n\n")
	sb.WriteString("TEMPLATE: \"I got a couple [dreamICP] who are looking for [painTheySolve]\"\n\n")
	sb.WriteString("DATA:\n")
	fmt.Fprintf(&sb, "- Signal: %s\n", orDefault(req.Evidence, "active in market"))
	fmt.Fprintf(&sb, "- Industry: %s\n", orDefault(req.Demand.IndustryText(), "general"))
	fmt.Fprintf(&sb, "- Description: %s\n", desc)
	if funding := strings.TrimSpace(req.Demand.CompanyFunding); funding != "" {
		fmt.Fprintf(&sb, "- Funding: %s\n", funding)
	}
	sb.WriteString("\nRULES:\n")
	sb.WriteString("- [dreamICP]: plural noun phrase describing the demand company type + vertical. 3-6 words. No \"decision-makers\"/\"stakeholders\"/\"organizations\".\n")
	sb.WriteString("- [painTheySolve]: what they need, from the signal data. Human language. 3-8 words. No \"optimize\"/\"leverage\"/\"streamline\"/\"solutions\".\n")
	sb.WriteString("- Both must sound like how you'd talk at a bar, not a boardroom.\n\n")
	sb.WriteString(`{"dreamICP": "...", "painTheySolve": "..."}`)

	return sb.String()
}

func buildDemandVarsPrompt(req Request) string {
	supplyDesc := truncate(req.Supply.CompanyDescription, 400)
	demandDesc := truncate(req.Demand.CompanyDescription, 200)

	supplyLine := orDefault(req.Supply.Signal, "business services")
	if supplyDesc != "" {
		supplyLine += " — " + supplyDesc
	}

	var sb strings.Builder
	sb.WriteString("Fill 2 variables. JSON only.\n\n")
	sb.WriteString("TEMPLATE: \"Saw {{company}} [signalEvent]. I'm connected to [whoTheyAre] — want an intro?\"\n\n")
	sb.WriteString("DEMAND CONTEXT:\n")
	fmt.Fprintf(&sb, "Industry: %s\n", orDefault(req.Demand.IndustryText(), "unknown"))
	fmt.Fprintf(&sb, "Description: %s\n\n", demandDesc)
	fmt.Fprintf(&sb, "SUPPLY: %s\n", supplyLine)
	fmt.Fprintf(&sb, "SIGNAL: %s\n", orDefault(req.Evidence, "active in market"))
	sb.WriteString("\nRULES:\n\n")
	sb.WriteString("[signalEvent]: casual fragment completing \"Saw {{company}}...\". 3-8 words. No word \"role\". If signal says \"hiring X\", say \"is hiring X\" or \"just posted for X\".\n\n")
	sb.WriteString("[whoTheyAre]:\n")
	sb.WriteString("Describe what the supplier ENABLES companies with this SIGNAL to achieve faster or better.\n")
	sb.WriteString("Do NOT describe what the supplier is. Describe what they help the company accomplish.\n")
	sb.WriteString("MUST be a team/firm/group of people (not product/software).\n")
	sb.WriteString("Tie capability to the SIGNAL pressure — focus on speed, capacity, or execution improvement.\n")
	sb.WriteString("Prefer the more specific industry term if available in DEMAND CONTEXT.\n")
	sb.WriteString("No \"a/an\". No \"solutions/optimize/leverage/software/platform/tool\".\n")
	sb.WriteString("No generic restatement of SUPPLY.\n")
	sb.WriteString("No temporal padding: \"during growth\", \"during hiring surges\", \"as companies scale\".\n")
	sb.WriteString("No consultant language: \"scaling\", \"digital transformation\", \"optimization\".\n\n")
	sb.WriteString("Good: \"recruiting team that helps fintech companies fill engineering roles faster\"\n")
	sb.WriteString("Good: \"engineering partner teams use when product demand outpaces hiring\"\n")
	sb.WriteString("Good: \"team companies use when internal recruiting can't keep up\"\n")
	sb.WriteString("Bad: \"technology firm specializing in digital automation\"\n")
	sb.WriteString("Bad: \"staffing company for growing businesses\"\n\n")
	sb.WriteString(`{"signalEvent": "...", "whoTheyAre": "..."}`)

	return sb.String()
}

func assembleSupplyIntro(firstName string, vars map[string]string) string {
	name := firstName
	if name == "" || name == "there" || name == "Contact" {
		name = "there"
	}

	return fmt.Sprintf("Hey %s\n\nNot sure how many people are on your waiting list, but I got a couple %s who are looking for %s\n\nWorth an intro?",
		name, vars["dreamICP"], vars["painTheySolve"])
}

func assembleDemandIntro(firstName, companyName string, vars map[string]string) string {
	name := firstName
	if name == "" || name == "there" || name == "Decision" {
		name = "there"
	}

	company := CleanCompanyName(companyName)
	article := aOrAn(vars["whoTheyAre"])

	return fmt.Sprintf("Hey %s\n\nSaw %s %s. I'm connected to %s %s\n\nWant an intro?",
		name, company, vars["signalEvent"], article, vars["whoTheyAre"])
}

var (
	reCodeFence      = regexp.MustCompile("```json\n?|```\n?")
	reNonLetter      = regexp.MustCompile(`[^a-zA-Z]`)
	reWordOrSpace    = regexp.MustCompile(`\S+|\s+`)
	reLegalSuffix    = regexp.MustCompile(`(?i),?\s*(llc|l\.l\.c\.|inc\.?|corp\.?|corporation|ltd\.?|limited|co\.?|company|pllc|lp|l\.p\.|llp|l\.l\.p\.)\s*$`)
	reVowelStart     = regexp.MustCompile(`(?i)^[aeiou]`)
	reLeadingArticle = regexp.MustCompile(`(?i)^(a |an |the )`)
)

var companyAcronyms = map[string]bool{
	"LP": true, "LLC": true, "LLP": true, "GP": true, "INC": true, "CORP": true,
	"LTD": true, "CO": true, "USA": true, "UK": true, "NYC": true, "LA": true,
	"SF": true, "AI": true, "ML": true, "IT": true, "HR": true, "VP": true,
	"CEO": true, "CFO": true, "CTO": true, "COO": true, "RIA": true,
	"AUM": true, "PE": true, "VC": true,
}

// CleanCompanyName normalizes ALL-CAPS company names to title case, keeping
// well-known acronyms, and strips trailing legal suffixes.
func CleanCompanyName(name string) string {
	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		return cleaned
	}

	letters := reNonLetter.ReplaceAllString(cleaned, "")
	upper := 0
	for _, r := range letters {
		if r >= 'A' && r <= 'Z' {
			upper++
		}
	}

	if len(letters) > 3 && float64(upper)/float64(len(letters)) > 0.8 {
		parts := reWordOrSpace.FindAllString(strings.ToLower(cleaned), -1)
		for i, part := range parts {
			if strings.TrimSpace(part) == "" {
				continue
			}
			if companyAcronyms[strings.ToUpper(part)] {
				parts[i] = strings.ToUpper(part)
			} else {
				parts[i] = capitalize(part)
			}
		}
		cleaned = strings.Join(parts, "")
	}

	return strings.TrimSpace(reLegalSuffix.ReplaceAllString(cleaned, ""))
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

func extractFirstName(fullName string) string {
	trimmed := strings.TrimSpace(fullName)
	if trimmed == "" {
		return "there"
	}
	return strings.Fields(trimmed)[0]
}

func aOrAn(word string) string {
	if reVowelStart.MatchString(strings.TrimSpace(word)) {
		return "an"
	}
	return "a"
}

func stripLeadingArticle(s string) string {
	return strings.TrimSpace(reLeadingArticle.ReplaceAllString(s, ""))
}

func parseVars(raw string) (map[string]string, error) {
	cleaned := strings.TrimSpace(reCodeFence.ReplaceAllString(raw, ""))

	var vars map[string]string
	if err := json.Unmarshal([]byte(cleaned), &vars); err != nil {
		return nil, fmt.Errorf("parse generator response: %w", err)
	}

	for key, value := range vars {
		vars[key] = strings.TrimSpace(value)
	}

	return vars, nil
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
