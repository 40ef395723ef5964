package benchmark

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ankur-dewani/financial-deep-dive/pkg/models"
)

// DepartmentBreakdown is the cost profile of one department within a
// function, e.g. each G&A sub-department inside Shared Services.
type DepartmentBreakdown struct {
	Department       string          `json:"department"`
	EmployeeCount    int             `json:"employee_count"` // number of payroll line items
	HeadcountCost    decimal.Decimal `json:"headcount_cost"`
	NonHeadcountCost decimal.Decimal `json:"non_headcount_cost"`
	Total            decimal.Decimal `json:"total"`
	PctOfRevenue     decimal.Decimal `json:"pct_of_revenue"`
}

// BreakdownByDepartment splits one function's spend across its departments.
// Departments are returned in alphabetical order.
func BreakdownByDepartment(items []models.LineItem, function string, revenue decimal.Decimal) ([]DepartmentBreakdown, error) {
	if revenue.Sign() <= 0 {
		return nil, &InvalidRevenueError{Revenue: revenue}
	}

	function = strings.TrimSpace(function)
	hc := make(map[string]decimal.Decimal)
	nhc := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	for _, item := range items {
		if strings.TrimSpace(item.Function) != function {
			continue
		}
		dept := strings.TrimSpace(item.Department)
		if item.Headcount {
			hc[dept] = hc[dept].Add(item.Amount)
			counts[dept]++
		} else {
			nhc[dept] = nhc[dept].Add(item.Amount)
		}
	}

	depts := make([]string, 0, len(hc)+len(nhc))
	seen := make(map[string]bool)
	for d := range hc {
		if !seen[d] {
			seen[d] = true
			depts = append(depts, d)
		}
	}
	for d := range nhc {
		if !seen[d] {
			seen[d] = true
			depts = append(depts, d)
		}
	}
	sort.Strings(depts)

	out := make([]DepartmentBreakdown, 0, len(depts))
	for _, d := range depts {
		total := hc[d].Add(nhc[d])
		out = append(out, DepartmentBreakdown{
			Department:       d,
			EmployeeCount:    counts[d],
			HeadcountCost:    hc[d],
			NonHeadcountCost: nhc[d],
			Total:            total,
			PctOfRevenue:     total.Div(revenue),
		})
	}
	return out, nil
}
