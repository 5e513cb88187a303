package intro

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/signalis/connector/internal/record"
)

type stubGenerator struct {
	responses map[string]string
	err       error
	prompts   []string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	for marker, response := range s.responses {
		if strings.Contains(prompt, marker) {
			return response, nil
		}
	}
	return "", errors.New("no stubbed response for prompt")
}

func testRequest() Request {
	return Request{
		Demand: &record.Record{
			Company:            "ACME DATA CORP",
			FullName:           "John Doe",
			Industry:           []string{"fintech"},
			CompanyDescription: "payments platform for SMBs",
			CompanyFunding:     "$12M Series A",
		},
		Supply: &record.Record{
			Company:            "TechRecruit",
			FullName:           "Bob Johnson",
			Signal:             "technical recruiting",
			CompanyDescription: "recruiting agency for engineers",
		},
		Evidence:   "Senior Software Engineer → Recruiter",
		Confidence: 0.82,
	}
}

func TestGenerate(t *testing.T) {
	stub := &stubGenerator{responses: map[string]string{
		"dreamICP":    `{"dreamICP": "fintech startups", "painTheySolve": "engineers who can ship fast"}`,
		"signalEvent": `{"signalEvent": "is hiring senior engineers", "whoTheyAre": "a recruiting team that fills fintech engineering roles faster"}`,
	}}

	intros := Generate(context.Background(), stub, testRequest())

	if intros.Source != SourceAI {
		t.Fatalf("expected ai source, got %s", intros.Source)
	}
	if len(stub.prompts) != 2 {
		t.Fatalf("expected two generator calls, got %d", len(stub.prompts))
	}

	if !strings.Contains(intros.SupplyIntro, "Hey Bob") {
		t.Fatalf("supply intro must address the supply contact: %q", intros.SupplyIntro)
	}
	if !strings.Contains(intros.SupplyIntro, "fintech startups") {
		t.Fatalf("supply intro must use the generated variables: %q", intros.SupplyIntro)
	}

	if !strings.Contains(intros.DemandIntro, "Hey John") {
		t.Fatalf("demand intro must address the demand contact: %q", intros.DemandIntro)
	}
	if !strings.Contains(intros.DemandIntro, "Saw Acme Data is hiring senior engineers") {
		t.Fatalf("demand intro must use cleaned company name and signal event: %q", intros.DemandIntro)
	}
	// The leading article is stripped from the variable and re-added in code.
	if !strings.Contains(intros.DemandIntro, "connected to a recruiting team") {
		t.Fatalf("expected article handling in demand intro: %q", intros.DemandIntro)
	}

	if intros.DemandValueProp != "is hiring senior engineers → recruiting team that fills fintech engineering roles faster" {
		t.Fatalf("unexpected demand value prop: %q", intros.DemandValueProp)
	}
}

func TestGenerateFallsBackOnGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exhausted")}

	intros := Generate(context.Background(), stub, testRequest())

	if intros.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", intros.Source)
	}
	if intros.Err == "" {
		t.Fatalf("expected error detail to be recorded")
	}
	if !strings.Contains(intros.DemandIntro, "Want an intro?") {
		t.Fatalf("fallback demand intro malformed: %q", intros.DemandIntro)
	}
	if !strings.Contains(intros.SupplyIntro, "Interested in connecting?") {
		t.Fatalf("fallback supply intro malformed: %q", intros.SupplyIntro)
	}
}

func TestGenerateRecoversFromUnparseableVars(t *testing.T) {
	stub := &stubGenerator{responses: map[string]string{
		"dreamICP":    "not json at all",
		"signalEvent": "also not json",
	}}

	intros := Generate(context.Background(), stub, testRequest())

	if intros.Source != SourceAI {
		t.Fatalf("parse errors should fall back per variable, not per intro: %s", intros.Source)
	}
	if !strings.Contains(intros.DemandIntro, "is making moves") {
		t.Fatalf("expected default signal event: %q", intros.DemandIntro)
	}
	if !strings.Contains(intros.SupplyIntro, "fintech in your space") {
		t.Fatalf("expected industry-derived dream ICP: %q", intros.SupplyIntro)
	}
}

func TestGenerateHandlesFencedJSON(t *testing.T) {
	stub := &stubGenerator{responses: map[string]string{
		"dreamICP":    "```json\n{\"dreamICP\": \"biotech startups\", \"painTheySolve\": \"lab automation help\"}\n```",
		"signalEvent": "```json\n{\"signalEvent\": \"just raised a round\", \"whoTheyAre\": \"team that speeds up lab builds\"}\n```",
	}}

	intros := Generate(context.Background(), stub, testRequest())

	if intros.Source != SourceAI {
		t.Fatalf("expected ai source, got %s (%s)", intros.Source, intros.Err)
	}
	if !strings.Contains(intros.SupplyIntro, "biotech startups") {
		t.Fatalf("fenced JSON not parsed: %q", intros.SupplyIntro)
	}
}

func TestCleanCompanyName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ACME DATA CORP", "Acme Data"},
		{"Acme Corp.", "Acme"},
		{"BLUE SKY VC", "Blue Sky VC"},
		{"TechFlow, LLC", "TechFlow"},
		{"IBM", "IBM"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := CleanCompanyName(tc.in); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestHelperFunctions(t *testing.T) {
	if got := extractFirstName("  Jane Smith "); got != "Jane" {
		t.Fatalf("expected Jane, got %q", got)
	}
	if got := extractFirstName(""); got != "there" {
		t.Fatalf("expected there, got %q", got)
	}

	if got := aOrAn("engineering partner"); got != "an" {
		t.Fatalf("expected an, got %q", got)
	}
	if got := aOrAn("recruiting team"); got != "a" {
		t.Fatalf("expected a, got %q", got)
	}

	if got := stripLeadingArticle("a recruiting team"); got != "recruiting team" {
		t.Fatalf("expected article stripped, got %q", got)
	}
	if got := stripLeadingArticle("The Growth Partner"); got != "Growth Partner" {
		t.Fatalf("expected article stripped, got %q", got)
	}
}
