// Package pipeline wires the benchmark and cost-model engines into a single
// analysis run over one P&L snapshot.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ankur-dewani/financial-deep-dive/pkg/core/benchmark"
	"github.com/ankur-dewani/financial-deep-dive/pkg/core/rolemodel"
	"github.com/ankur-dewani/financial-deep-dive/pkg/models"
)

// AnalysisInput is one complete snapshot: the parsed P&L records plus the
// static reference tables. Reference tables are passed explicitly rather than
// read from shared state, so alternate benchmark years can run side by side.
type AnalysisInput struct {
	BusinessUnit string
	Revenue      decimal.Decimal
	LineItems    []models.LineItem
	RevenueItems []models.RevenueItem
	Employees    []models.Employee // roster of the function under redesign

	Targets   []benchmark.CategoryTarget
	Rules     *benchmark.RuleSet
	Bands     *rolemodel.BandTable
	TierRates map[string]decimal.Decimal

	RetainedFixedCosts []decimal.Decimal
	TargetTierCounts   map[string]int // optional; shortfalls surface on the cost model

	// FocusFunction drives the per-department breakdown (e.g. "G&A");
	// FocusDepartment names the function under redesign (e.g. "Finance &
	// Accounting") whose current cost feeds the cost model.
	FocusFunction   string
	FocusDepartment string
}

// RevenueMix summarizes one revenue stream.
type RevenueMix struct {
	Stream  string          `json:"stream"`
	Total   decimal.Decimal `json:"total"`
	Pct     decimal.Decimal `json:"pct"` // of total revenue
	Items   int             `json:"items"`
	Average decimal.Decimal `json:"average"`
}

// AnalysisResult is the complete output of one run. Value-like: nothing here
// has a lifecycle beyond the run that produced it.
type AnalysisResult struct {
	RunID        string          `json:"run_id"`
	BusinessUnit string          `json:"business_unit"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Revenue      decimal.Decimal `json:"revenue"`

	Gaps        []benchmark.CategoryGap         `json:"gaps"`
	Departments []benchmark.DepartmentBreakdown `json:"departments,omitempty"`
	RevenueMix  []RevenueMix                    `json:"revenue_mix,omitempty"`

	DeepDive    *rolemodel.DepartmentDeepDive `json:"deep_dive,omitempty"`
	Assignments []rolemodel.TierAssignment    `json:"assignments,omitempty"`
	CostModel   *rolemodel.CostModel          `json:"cost_model,omitempty"`
}

// Orchestrator runs the classification, aggregation, roster mapping, and
// cost-model stages over one snapshot.
type Orchestrator struct {
	verbose bool
}

// NewOrchestrator creates an orchestrator. verbose enables progress lines on
// stdout; the engine stages themselves never log.
func NewOrchestrator(verbose bool) *Orchestrator {
	return &Orchestrator{verbose: verbose}
}

// Run executes the full pipeline. Classification happens first; the benchmark
// leg (aggregate, breakdown, revenue mix) and the cost-model leg (tiers, deep
// dive, savings) then run concurrently, since they share only immutable
// inputs. Any stage error aborts the run; no partial result is returned.
// Re-running the same input yields identical gaps and cost model, apart from
// the fresh RunID and timestamp.
func (o *Orchestrator) Run(ctx context.Context, input AnalysisInput) (*AnalysisResult, error) {
	start := time.Now()
	if input.Revenue.Sign() <= 0 {
		return nil, &benchmark.InvalidRevenueError{Revenue: input.Revenue}
	}
	if input.Rules == nil {
		return nil, fmt.Errorf("no rule set supplied")
	}

	classified, err := benchmark.Classify(input.LineItems, input.Rules)
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}
	o.logf("Classified %d line items", len(classified))

	result := &AnalysisResult{
		RunID:        uuid.New().String(),
		BusinessUnit: input.BusinessUnit,
		GeneratedAt:  time.Now().UTC(),
		Revenue:      input.Revenue,
	}

	g, _ := errgroup.WithContext(ctx)

	// Benchmark leg.
	g.Go(func() error {
		gaps, err := benchmark.Aggregate(classified, input.Targets, input.Revenue)
		if err != nil {
			return fmt.Errorf("aggregation failed: %w", err)
		}
		result.Gaps = gaps

		if input.FocusFunction != "" {
			departments, err := benchmark.BreakdownByDepartment(input.LineItems, input.FocusFunction, input.Revenue)
			if err != nil {
				return fmt.Errorf("department breakdown failed: %w", err)
			}
			result.Departments = departments
		}

		result.RevenueMix = summarizeRevenue(input.RevenueItems, input.Revenue)
		return nil
	})

	// Cost-model leg.
	g.Go(func() error {
		if input.FocusDepartment == "" {
			return nil
		}
		if input.Bands == nil {
			return fmt.Errorf("no band table supplied for function redesign")
		}

		deepDive, err := rolemodel.DeepDive(input.LineItems, input.FocusDepartment, input.Revenue)
		if err != nil {
			return fmt.Errorf("deep dive failed: %w", err)
		}
		result.DeepDive = deepDive

		assignments, err := rolemodel.AssignTiers(input.Employees, input.Bands)
		if err != nil {
			return fmt.Errorf("roster mapping failed: %w", err)
		}
		result.Assignments = assignments

		costModel, err := rolemodel.BuildCostModel(deepDive.Total, assignments, input.TierRates,
			input.RetainedFixedCosts, input.TargetTierCounts)
		if err != nil {
			return fmt.Errorf("cost model failed: %w", err)
		}
		result.CostModel = costModel
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	o.logf("Analysis complete for %s in %v (run %s)", input.BusinessUnit, time.Since(start), result.RunID)
	return result, nil
}

// summarizeRevenue builds the per-stream revenue mix, largest stream first.
func summarizeRevenue(items []models.RevenueItem, revenue decimal.Decimal) []RevenueMix {
	if len(items) == 0 {
		return nil
	}
	totals := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	for _, item := range items {
		totals[item.Stream] = totals[item.Stream].Add(item.Amount)
		counts[item.Stream]++
	}

	streams := make([]string, 0, len(totals))
	for s := range totals {
		streams = append(streams, s)
	}
	sort.Slice(streams, func(i, j int) bool {
		ti, tj := totals[streams[i]], totals[streams[j]]
		if !ti.Equal(tj) {
			return ti.GreaterThan(tj)
		}
		return streams[i] < streams[j]
	})

	mix := make([]RevenueMix, 0, len(streams))
	for _, s := range streams {
		total := totals[s]
		count := counts[s]
		mix = append(mix, RevenueMix{
			Stream:  s,
			Total:   total,
			Pct:     total.Div(revenue),
			Items:   count,
			Average: total.Div(decimal.NewFromInt(int64(count))),
		})
	}
	return mix
}

func (o *Orchestrator) logf(format string, args ...interface{}) {
	if o.verbose {
		fmt.Printf(format+"\n", args...)
	}
}
