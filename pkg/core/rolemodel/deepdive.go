package rolemodel

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ankur-dewani/financial-deep-dive/pkg/core/benchmark"
	"github.com/ankur-dewani/financial-deep-dive/pkg/models"
)

// CostComponent is one slice of a department's current cost: the payroll
// total or one non-headcount expense category.
type CostComponent struct {
	Component    string          `json:"component"`
	Amount       decimal.Decimal `json:"amount"`
	PctOfTotal   decimal.Decimal `json:"pct_of_total"`
	PctOfRevenue decimal.Decimal `json:"pct_of_revenue"`
}

// DepartmentDeepDive breaks one department's current cost into components,
// payroll first, then non-headcount categories by descending amount.
type DepartmentDeepDive struct {
	Department     string          `json:"department"`
	HeadcountCount int             `json:"headcount_count"` // number of payroll line items
	Components     []CostComponent `json:"components"`
	HeadcountCost  decimal.Decimal `json:"headcount_cost"`
	NonHeadcount   decimal.Decimal `json:"non_headcount"`
	Total          decimal.Decimal `json:"total"`
	PctOfRevenue   decimal.Decimal `json:"pct_of_revenue"`
}

// DeepDive computes the component-level cost breakdown for one department.
// The Total it reports is the current-state cost fed into BuildCostModel.
func DeepDive(items []models.LineItem, department string, revenue decimal.Decimal) (*DepartmentDeepDive, error) {
	if revenue.Sign() <= 0 {
		return nil, &benchmark.InvalidRevenueError{Revenue: revenue}
	}

	department = strings.TrimSpace(department)
	hcCost := decimal.Zero
	hcCount := 0
	nhcByCategory := make(map[string]decimal.Decimal)
	for _, item := range items {
		if strings.TrimSpace(item.Department) != department {
			continue
		}
		if item.Headcount {
			hcCost = hcCost.Add(item.Amount)
			hcCount++
			continue
		}
		cat := strings.TrimSpace(item.Category)
		if cat == "" {
			cat = "Other"
		}
		nhcByCategory[cat] = nhcByCategory[cat].Add(item.Amount)
	}

	nhcTotal := decimal.Zero
	categories := make([]string, 0, len(nhcByCategory))
	for cat, amount := range nhcByCategory {
		categories = append(categories, cat)
		nhcTotal = nhcTotal.Add(amount)
	}
	sort.Slice(categories, func(i, j int) bool {
		ai, aj := nhcByCategory[categories[i]], nhcByCategory[categories[j]]
		if !ai.Equal(aj) {
			return ai.GreaterThan(aj)
		}
		return categories[i] < categories[j]
	})

	total := hcCost.Add(nhcTotal)
	pctOf := func(amount decimal.Decimal) decimal.Decimal {
		if total.IsZero() {
			return decimal.Zero
		}
		return amount.Div(total)
	}

	components := make([]CostComponent, 0, len(categories)+1)
	components = append(components, CostComponent{
		Component:    "Employee Headcount",
		Amount:       hcCost,
		PctOfTotal:   pctOf(hcCost),
		PctOfRevenue: hcCost.Div(revenue),
	})
	for _, cat := range categories {
		amount := nhcByCategory[cat]
		components = append(components, CostComponent{
			Component:    cat,
			Amount:       amount,
			PctOfTotal:   pctOf(amount),
			PctOfRevenue: amount.Div(revenue),
		})
	}

	return &DepartmentDeepDive{
		Department:     department,
		HeadcountCount: hcCount,
		Components:     components,
		HeadcountCost:  hcCost,
		NonHeadcount:   nhcTotal,
		Total:          total,
		PctOfRevenue:   total.Div(revenue),
	}, nil
}
