package rolemodel

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// TierLine is one role tier of the target team: the derived headcount, the
// standardized annual cost, and the resulting spend. TargetCount/Shortfall
// are only populated when the caller supplied target counts.
type TierLine struct {
	Tier        string          `json:"tier"`
	Count       int             `json:"count"` // tallied from assignments, never assumed
	AnnualRate  decimal.Decimal `json:"annual_rate"`
	Total       decimal.Decimal `json:"total"`
	TargetCount int             `json:"target_count,omitempty"`
	Shortfall   int             `json:"shortfall,omitempty"` // target - derived, when positive
}

// CostModel is the current-vs-target cost comparison for the function under
// redesign. Derived; recomputed from scratch on every run.
type CostModel struct {
	CurrentCost      decimal.Decimal `json:"current_cost"`
	Tiers            []TierLine      `json:"tiers"` // highest rate first
	TeamCost         decimal.Decimal `json:"team_cost"`
	RetainedFixed    decimal.Decimal `json:"retained_fixed"` // obligations kept regardless of redesign
	TargetCost       decimal.Decimal `json:"target_cost"`    // TeamCost + RetainedFixed
	Savings          decimal.Decimal `json:"savings"`        // CurrentCost - TargetCost; negative when the model worsens cost
	SavingsPct       decimal.Decimal `json:"savings_pct"`
	CurrentHeadcount int             `json:"current_headcount"`
	TargetHeadcount  int             `json:"target_headcount"`
}

// BuildCostModel combines the derived tier counts with standardized annual
// rates and retained fixed costs. Retained costs are added in full, never
// discounted: the model stays credible only if obligations that cannot be
// internalized (e.g. a statutory audit) survive the redesign. A target cost
// above current cost yields a negative savings figure, not a clamped zero.
//
// targetCounts is optional; when supplied, tiers short of their target
// headcount carry the shortfall as a reporting field rather than being
// silently padded with phantom hires.
func BuildCostModel(currentCost decimal.Decimal, assignments []TierAssignment, rates map[string]decimal.Decimal,
	retainedFixedCosts []decimal.Decimal, targetCounts map[string]int) (*CostModel, error) {

	counts := CountByTier(assignments)

	// Tiers named only in targetCounts still appear, with a zero derived
	// count, so an unstaffable tier is visible in the output.
	tierNames := make([]string, 0, len(counts))
	for tier := range counts {
		tierNames = append(tierNames, tier)
	}
	for tier := range targetCounts {
		if _, ok := counts[tier]; !ok {
			tierNames = append(tierNames, tier)
		}
	}

	for _, tier := range tierNames {
		if _, ok := rates[tier]; !ok {
			return nil, fmt.Errorf("no standardized annual cost for tier %q", tier)
		}
	}
	// Highest rate first, name as tie-break, for a stable presentation order.
	sort.Slice(tierNames, func(i, j int) bool {
		ri, rj := rates[tierNames[i]], rates[tierNames[j]]
		if !ri.Equal(rj) {
			return ri.GreaterThan(rj)
		}
		return tierNames[i] < tierNames[j]
	})

	teamCost := decimal.Zero
	targetHeadcount := 0
	tiers := make([]TierLine, 0, len(tierNames))
	for _, tier := range tierNames {
		count := counts[tier]
		rate := rates[tier]
		total := rate.Mul(decimal.NewFromInt(int64(count)))
		line := TierLine{
			Tier:       tier,
			Count:      count,
			AnnualRate: rate,
			Total:      total,
		}
		if targetCounts != nil {
			line.TargetCount = targetCounts[tier]
			if short := line.TargetCount - count; short > 0 {
				line.Shortfall = short
			}
		}
		teamCost = teamCost.Add(total)
		targetHeadcount += count
		tiers = append(tiers, line)
	}

	retained := decimal.Zero
	for _, c := range retainedFixedCosts {
		retained = retained.Add(c)
	}

	targetCost := teamCost.Add(retained)
	savings := currentCost.Sub(targetCost)
	savingsPct := decimal.Zero
	if !currentCost.IsZero() {
		savingsPct = savings.Div(currentCost)
	}

	return &CostModel{
		CurrentCost:      currentCost,
		Tiers:            tiers,
		TeamCost:         teamCost,
		RetainedFixed:    retained,
		TargetCost:       targetCost,
		Savings:          savings,
		SavingsPct:       savingsPct,
		CurrentHeadcount: len(assignments),
		TargetHeadcount:  targetHeadcount,
	}, nil
}
