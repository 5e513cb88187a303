package matching

import "testing"

func TestExtractTokens(t *testing.T) {
	tokens := extractTokens("Hiring: 5 Senior Engineers, ASAP!")

	want := []string{"hiring", "senior", "engineers", "asap"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %v, got %v", want, tokens)
	}
	for i, tok := range want {
		if tokens[i] != tok {
			t.Fatalf("expected %v, got %v", want, tokens)
		}
	}

	if got := extractTokens(""); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
}

func TestResolveAmbiguousTerm(t *testing.T) {
	cases := []struct {
		term string
		side expansionSide
		text string
		want termResolution
	}{
		{"engineering", sideDemand, "Hiring 5 engineers for the team", resolvedNeed},
		{"engineering", sideSupply, "Engineering recruiting agency", resolvedCapability},
		{"engineering", sideDemand, "software engineering platform", resolvedNone},
		{"sales", sideDemand, "growing the sales team", resolvedNeed},
		{"marketing", sideSupply, "marketing talent sourcing shop", resolvedCapability},
		{"growth", sideDemand, "growth through hiring", resolvedNeed},
		{"growth", sideSupply, "growth marketing", resolvedNone},
		{"platform", sideDemand, "hiring for the platform team", resolvedNone},
	}

	for _, tc := range cases {
		got := resolveAmbiguousTerm(tc.term, semanticContext{side: tc.side, text: tc.text})
		if got != tc.want {
			t.Fatalf("%s/%s in %q: expected %q, got %q", tc.term, tc.side, tc.text, tc.want, got)
		}
	}
}

func TestExpandTokensTaxonomyProvenance(t *testing.T) {
	ctx := semanticContext{side: sideDemand, text: "engineering team growing"}
	result := expandTokens([]string{"engineering"}, ctx)

	if _, ok := result.expanded["recruiting"]; !ok {
		t.Fatalf("expected engineering to expand into recruiting")
	}

	reasons := result.reasons["recruiting"]
	if len(reasons) == 0 {
		t.Fatalf("expected provenance reasons for recruiting")
	}
	if reasons[0] != "taxonomy:engineering" {
		t.Fatalf("expected taxonomy provenance first, got %v", reasons)
	}

	// "team" in the text trips the hiring gate, so the ambiguity
	// expansion fires as well.
	found := false
	for _, r := range reasons {
		if r == "ambiguity:engineering→need" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ambiguity provenance, got %v", reasons)
	}
}

func TestExpandTokensTextLevelDetection(t *testing.T) {
	supply := expandTokens([]string{"boutique"}, semanticContext{side: sideSupply, text: "boutique staffing firm"})
	if _, ok := supply.expanded["hiring"]; !ok {
		t.Fatalf("expected supply recruiting text to expand into hiring")
	}
	if reasons := supply.reasons["hiring"]; len(reasons) == 0 || reasons[0] != "text:recruiting_detected" {
		t.Fatalf("expected text provenance, got %v", supply.reasons["hiring"])
	}

	demand := expandTokens([]string{"company"}, semanticContext{side: sideDemand, text: "company is hiring fast"})
	if _, ok := demand.expanded["recruiting"]; !ok {
		t.Fatalf("expected demand hiring text to expand into recruiting")
	}
	if reasons := demand.reasons["recruiting"]; len(reasons) == 0 || reasons[0] != "text:hiring_detected" {
		t.Fatalf("expected text provenance, got %v", demand.reasons["recruiting"])
	}
}

func TestSemanticBonusThresholds(t *testing.T) {
	cases := []struct {
		overlap int
		want    int
	}{
		{0, 0}, {1, 10}, {2, 10}, {3, 20}, {4, 20}, {5, 30}, {12, 30},
	}
	for _, tc := range cases {
		if got := semanticBonus(tc.overlap); got != tc.want {
			t.Fatalf("overlap %d: expected %d, got %d", tc.overlap, tc.want, got)
		}
	}
}

func TestScoreSemanticOverlapBridgesSides(t *testing.T) {
	// No literal token overlap: the expansion has to build the bridge.
	score := ScoreSemanticOverlap(
		"Hiring: Senior Software Engineer for our team",
		"Boutique recruiting firm placing developers",
	)

	if score.OverlapCount < 5 {
		t.Fatalf("expected at least 5 overlapping tokens, got %d (%v)", score.OverlapCount, score.MatchedTokens)
	}
	if score.Bonus != 30 {
		t.Fatalf("expected bonus 30, got %d", score.Bonus)
	}
}

func TestScoreSemanticOverlapUnrelated(t *testing.T) {
	score := ScoreSemanticOverlap(
		"opening a bakery downtown",
		"industrial crane rentals",
	)
	if score.Bonus != 0 {
		t.Fatalf("expected no bonus for unrelated text, got %d (%v)", score.Bonus, score.MatchedTokens)
	}
}

func TestScoreSemanticOverlapDeterministic(t *testing.T) {
	first := ScoreSemanticOverlap("hiring engineers for the team", "technical recruiting agency")
	second := ScoreSemanticOverlap("hiring engineers for the team", "technical recruiting agency")

	if first.OverlapCount != second.OverlapCount || first.Bonus != second.Bonus {
		t.Fatalf("expected identical results, got %+v vs %+v", first, second)
	}
	if len(first.MatchedTokens) != len(second.MatchedTokens) {
		t.Fatalf("matched token lists differ in length")
	}
	for i := range first.MatchedTokens {
		if first.MatchedTokens[i] != second.MatchedTokens[i] {
			t.Fatalf("matched token order differs: %v vs %v", first.MatchedTokens, second.MatchedTokens)
		}
	}
}
