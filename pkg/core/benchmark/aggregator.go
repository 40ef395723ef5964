package benchmark

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Status flags whether a category's actual spend sits over, at, or under its
// benchmark target.
type Status string

const (
	StatusOver     Status = "Over"
	StatusAtTarget Status = "At target"
	StatusUnder    Status = "Under"
)

// statusBand is the variance tolerance (in fraction-of-revenue terms, so
// 0.001 = 0.1 percentage points) inside which a category counts as on target.
var statusBand = decimal.NewFromFloat(0.001)

// CategoryGap is the actual-vs-target comparison for one benchmark category.
// Derived, recomputed each run; never mutated incrementally.
type CategoryGap struct {
	Category         Category        `json:"category"`
	HeadcountCost    decimal.Decimal `json:"headcount_cost"`
	NonHeadcountCost decimal.Decimal `json:"non_headcount_cost"`
	Actual           decimal.Decimal `json:"actual"`          // HC + non-HC
	ActualPct        decimal.Decimal `json:"actual_pct"`      // Actual / revenue
	TargetPct        decimal.Decimal `json:"target_pct"`      // benchmark target
	VariancePts      decimal.Decimal `json:"variance_pts"`    // ActualPct - TargetPct
	VarianceAmount   decimal.Decimal `json:"variance_amount"` // Actual - TargetPct*revenue
	Status           Status          `json:"status"`
}

// InvalidRevenueError reports a non-positive revenue denominator. Percentages
// of revenue are not computable; the run must fail rather than emit a
// divide-by-zero artifact.
type InvalidRevenueError struct {
	Revenue decimal.Decimal
}

func (e *InvalidRevenueError) Error() string {
	return fmt.Sprintf("revenue must be positive to compute percentages, got %s", e.Revenue)
}

// Aggregate sums classified amounts per category and compares each total to
// its benchmark target. Categories appear in target-table order; targets with
// zero actual spend are still emitted so the category set stays exhaustive in
// reporting, and classified categories missing from the target table are
// appended with a zero target. The per-category totals always sum to the
// total classified spend.
func Aggregate(classified []ClassifiedAmount, targets []CategoryTarget, revenue decimal.Decimal) ([]CategoryGap, error) {
	if revenue.Sign() <= 0 {
		return nil, &InvalidRevenueError{Revenue: revenue}
	}

	hcByCat := make(map[Category]decimal.Decimal)
	nhcByCat := make(map[Category]decimal.Decimal)
	for _, c := range classified {
		if c.Headcount {
			hcByCat[c.Category] = hcByCat[c.Category].Add(c.Amount)
		} else {
			nhcByCat[c.Category] = nhcByCat[c.Category].Add(c.Amount)
		}
	}

	// Target-table order first, then any classified extras in stable order.
	ordered := make([]CategoryTarget, 0, len(targets))
	seen := make(map[Category]bool)
	for _, t := range targets {
		if seen[t.Category] {
			return nil, fmt.Errorf("duplicate target for category %q", t.Category)
		}
		seen[t.Category] = true
		ordered = append(ordered, t)
	}
	var extras []Category
	for cat := range hcByCat {
		if !seen[cat] {
			seen[cat] = true
			extras = append(extras, cat)
		}
	}
	for cat := range nhcByCat {
		if !seen[cat] {
			seen[cat] = true
			extras = append(extras, cat)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i] < extras[j] })
	for _, cat := range extras {
		ordered = append(ordered, CategoryTarget{Category: cat, Target: decimal.Zero})
	}

	gaps := make([]CategoryGap, 0, len(ordered))
	for _, t := range ordered {
		hc := hcByCat[t.Category]
		nhc := nhcByCat[t.Category]
		actual := hc.Add(nhc)
		actualPct := actual.Div(revenue)
		variancePts := actualPct.Sub(t.Target)
		varianceAmount := actual.Sub(t.Target.Mul(revenue))

		status := StatusAtTarget
		switch {
		case variancePts.GreaterThan(statusBand):
			status = StatusOver
		case variancePts.LessThan(statusBand.Neg()):
			status = StatusUnder
		}

		gaps = append(gaps, CategoryGap{
			Category:         t.Category,
			HeadcountCost:    hc,
			NonHeadcountCost: nhc,
			Actual:           actual,
			ActualPct:        actualPct,
			TargetPct:        t.Target,
			VariancePts:      variancePts,
			VarianceAmount:   varianceAmount,
			Status:           status,
		})
	}
	return gaps, nil
}

// TotalActual sums the actual spend across a gap set.
func TotalActual(gaps []CategoryGap) decimal.Decimal {
	total := decimal.Zero
	for _, g := range gaps {
		total = total.Add(g.Actual)
	}
	return total
}
