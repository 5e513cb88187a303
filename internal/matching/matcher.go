package matching

import (
	"fmt"
	"math"
	"sort"

	"github.com/signalis/connector/internal/record"
)

// Composite blend weights. They sum to 1.0; the semantic bonus is added
// on top afterwards and the final clamp keeps the score inside 1..100.
const (
	weightIndustry  = 0.15
	weightSignal    = 0.15
	weightSize      = 0.10
	weightAlignment = 0.50
	weightBase      = 0.10
	baseScore       = 10
)

// Match is one scored demand/supply pair. Records are shared references
// owned by the caller; a Match is immutable once built.
type Match struct {
	Demand     *record.Record
	Supply     *record.Record
	Score      int
	Reasons    []string
	Tier       Tier
	TierReason string
	Need       NeedProfile
	Capability CapabilityProfile
}

// SupplyAggregate groups every match that points at one supplier.
// TotalMatches counts unique demand keys, not raw matches.
type SupplyAggregate struct {
	Supply       *record.Record
	Matches      []*Match
	BestMatch    *Match
	TotalMatches int
}

// Stats summarizes one orchestration run. AvgScore is computed over all
// scored pairs above threshold, before best-match filtering.
type Stats struct {
	TotalDemand          int `json:"total_demand"`
	TotalSupply          int `json:"total_supply"`
	TotalMatches         int `json:"total_matches"`
	UniqueDemandsMatched int `json:"unique_demands_matched"`
	AvgScore             int `json:"avg_score"`
}

// Result is the full output of a matching run. DemandMatches ordering
// (score descending) is the only ordering contract downstream consumers
// may rely on besides the aggregate ordering by TotalMatches.
type Result struct {
	DemandMatches    []*Match
	SupplyAggregates []*SupplyAggregate
	Stats            Stats
}

// Options tune one orchestration run. The zero value keeps every match
// and returns all of them.
type Options struct {
	// MinScore drops pairs scoring below it during the pair loop.
	MinScore int
	// BestMatchOnly keeps only the highest-scoring match per demand key.
	BestMatchOnly bool
	// OnProgress, when set, is invoked once per demand record with the
	// number of processed records and the total. It runs on the calling
	// goroutine and must not block.
	OnProgress func(done, total int)
}

// ScorePair scores a single demand/supply pair: profile extraction,
// feature scores, alignment, semantic bonus, composite blend, and tier.
func ScorePair(demand, supply *record.Record) *Match {
	var reasons []string

	need := ExtractNeed(demand)
	capability := ExtractCapability(supply)

	industryScore := scoreIndustry(demand.Industry, supply.Industry)
	if industryScore > 20 {
		reasons = append(reasons, "Industry match")
	}

	signalScore := scoreSignal(demand.Signal, supply.Title, supply.IndustryText())
	if signalScore > 25 {
		reasons = append(reasons, "Signal alignment")
	}

	sizeScore := scoreSize(demand.Size, supply.Size)
	if sizeScore > 10 {
		reasons = append(reasons, "Size fit")
	}

	alignmentScore := scoreAlignment(need, capability)
	switch {
	case alignmentScore >= 40:
		reasons = append(reasons, fmt.Sprintf("%s need → %s capability", need.Category, capability.Category))
	case alignmentScore >= 25:
		reasons = append(reasons, "Cross-functional fit")
	}

	demandText := fmt.Sprintf("%s %s %s %s", demand.Signal, demand.Title, demand.CompanyDescription, demand.IndustryText())
	supplyText := fmt.Sprintf("%s %s %s %s", supply.Signal, supply.Title, supply.CompanyDescription, supply.IndustryText())
	semantic := ScoreSemanticOverlap(demandText, supplyText)

	switch {
	case semantic.Bonus >= 20:
		reasons = append(reasons, fmt.Sprintf("Strong keyword overlap (%d matches)", semantic.OverlapCount))
	case semantic.Bonus >= 10:
		reasons = append(reasons, fmt.Sprintf("Keyword overlap (%d matches)", semantic.OverlapCount))
	}

	total := industryScore*weightIndustry +
		signalScore*weightSignal +
		sizeScore*weightSize +
		alignmentScore*weightAlignment +
		baseScore*weightBase +
		float64(semantic.Bonus)

	score := int(math.Min(100, math.Round(total)))

	tier, tierReason := determineTier(float64(score), need, capability, demand.SignalLabel())

	if score == 0 {
		score = 1
		reasons = append(reasons, "Exploratory match")
	}

	return &Match{
		Demand:     demand,
		Supply:     supply,
		Score:      score,
		Reasons:    reasons,
		Tier:       tier,
		TierReason: tierReason,
		Need:       need,
		Capability: capability,
	}
}

// Run scores the full demand × supply cross product. It is synchronous
// and deterministic: identical inputs in identical order always produce
// the same Result.
func Run(demand, supply []*record.Record, opts Options) *Result {
	allMatches := make([]*Match, 0, len(demand))

	for i, d := range demand {
		for _, s := range supply {
			match := ScorePair(d, s)
			if match.Score >= opts.MinScore {
				allMatches = append(allMatches, match)
			}
		}
		if opts.OnProgress != nil {
			opts.OnProgress(i+1, len(demand))
		}
	}

	sort.SliceStable(allMatches, func(i, j int) bool {
		return allMatches[i].Score > allMatches[j].Score
	})

	demandMatches := allMatches
	if opts.BestMatchOnly {
		demandMatches = BestMatchPerDemand(allMatches)
	}

	aggregates := aggregateBySupply(demandMatches)

	var scoreSum int
	for _, m := range allMatches {
		scoreSum += m.Score
	}
	avgScore := 0
	if len(allMatches) > 0 {
		avgScore = int(math.Round(float64(scoreSum) / float64(len(allMatches))))
	}

	return &Result{
		DemandMatches:    demandMatches,
		SupplyAggregates: aggregates,
		Stats: Stats{
			TotalDemand:          len(demand),
			TotalSupply:          len(supply),
			TotalMatches:         len(demandMatches),
			UniqueDemandsMatched: countUniqueDemands(demandMatches),
			AvgScore:             avgScore,
		},
	}
}

// BestMatchPerDemand keeps the first (highest-scoring, given sorted
// input) match for each distinct demand key.
func BestMatchPerDemand(matches []*Match) []*Match {
	seen := make(map[string]bool, len(matches))
	result := make([]*Match, 0, len(matches))

	for _, match := range matches {
		key := record.DemandKey(match.Demand)
		if !seen[key] {
			seen[key] = true
			result = append(result, match)
		}
	}

	return result
}

// aggregateBySupply groups matches by supply key, ranks each group by
// score, and orders groups by the number of unique demands they serve.
func aggregateBySupply(matches []*Match) []*SupplyAggregate {
	bySupply := make(map[string][]*Match)
	var order []string

	for _, match := range matches {
		key := record.SupplyKey(match.Supply)
		if _, ok := bySupply[key]; !ok {
			order = append(order, key)
		}
		bySupply[key] = append(bySupply[key], match)
	}

	aggregates := make([]*SupplyAggregate, 0, len(order))
	for _, key := range order {
		group := bySupply[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Score > group[j].Score
		})

		aggregates = append(aggregates, &SupplyAggregate{
			Supply:       group[0].Supply,
			Matches:      group,
			BestMatch:    group[0],
			TotalMatches: countUniqueDemands(group),
		})
	}

	sort.SliceStable(aggregates, func(i, j int) bool {
		return aggregates[i].TotalMatches > aggregates[j].TotalMatches
	})

	return aggregates
}

func countUniqueDemands(matches []*Match) int {
	keys := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		keys[record.DemandKey(m.Demand)] = struct{}{}
	}
	return len(keys)
}

// FilterByScore rebuilds an existing Result with a higher threshold,
// recomputing aggregates and stats with the same key derivation as the
// primary path.
func FilterByScore(result *Result, minScore int) *Result {
	filtered := make([]*Match, 0, len(result.DemandMatches))
	for _, m := range result.DemandMatches {
		if m.Score >= minScore {
			filtered = append(filtered, m)
		}
	}

	aggregates := make([]*SupplyAggregate, 0, len(result.SupplyAggregates))
	for _, agg := range result.SupplyAggregates {
		kept := make([]*Match, 0, len(agg.Matches))
		for _, m := range agg.Matches {
			if m.Score >= minScore {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			continue
		}
		aggregates = append(aggregates, &SupplyAggregate{
			Supply:       agg.Supply,
			Matches:      kept,
			BestMatch:    kept[0],
			TotalMatches: countUniqueDemands(kept),
		})
	}

	var scoreSum int
	for _, m := range filtered {
		scoreSum += m.Score
	}
	avgScore := 0
	if len(filtered) > 0 {
		avgScore = int(math.Round(float64(scoreSum) / float64(len(filtered))))
	}

	return &Result{
		DemandMatches:    filtered,
		SupplyAggregates: aggregates,
		Stats: Stats{
			TotalDemand:          result.Stats.TotalDemand,
			TotalSupply:          result.Stats.TotalSupply,
			TotalMatches:         len(filtered),
			UniqueDemandsMatched: countUniqueDemands(filtered),
			AvgScore:             avgScore,
		},
	}
}
