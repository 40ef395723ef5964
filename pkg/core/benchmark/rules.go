// Package benchmark classifies P&L line items into benchmark categories and
// compares actual spend against target percentages of revenue.
package benchmark

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ankur-dewani/financial-deep-dive/pkg/models"
)

// Category is one of the fixed functional cost buckets of the benchmark model.
type Category string

const (
	SharedServices   Category = "Shared Services"
	ExecutiveTeam    Category = "Executive Team"
	Sales            Category = "Sales"
	Marketing        Category = "Marketing"
	TechnicalSupport Category = "Technical Support"
	Hosting          Category = "Hosting"
	Product          Category = "Product"
	Engineering      Category = "Engineering"
)

// CategoryTarget pairs a benchmark category with its target share of revenue
// (a decimal fraction, e.g. 0.045 for 4.5%).
type CategoryTarget struct {
	Category Category        `json:"category"`
	Target   decimal.Decimal `json:"target"`
}

// =============================================================================
// RULE SET - Declarative classification table
// =============================================================================

// Rule maps a (Function L2, department, expense category) combination to a
// benchmark category. Matching fields:
//   - Function: exact match, required.
//   - Departments: item department must be in the set; empty = any department.
//   - ExpenseCategory: case-insensitive match on the raw expense category;
//     empty = any. Used where one department splits across benchmarks
//     (Cloud Operations hosting vs product spend).
type Rule struct {
	Function        string   `json:"function"`
	Departments     []string `json:"departments,omitempty"`
	ExpenseCategory string   `json:"expense_category,omitempty"`
	Category        Category `json:"category"`
}

// RuleSet is an ordered list of classification rules. First match wins, so
// narrow rules must precede their function-wide fallback; NewRuleSet enforces
// that ordering structurally rather than trusting the caller.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet validates and wraps an ordered rule list. Requirements:
//   - every rule names a function and a category;
//   - every function has exactly one fallback rule (no department, no expense
//     category restriction), and it comes after all narrower rules for that
//     function, so no line item with a known function can go unmatched.
func NewRuleSet(rules []Rule) (*RuleSet, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("rule set is empty")
	}

	fallbackSeen := make(map[string]bool)
	for i, r := range rules {
		if strings.TrimSpace(r.Function) == "" {
			return nil, fmt.Errorf("rule %d: missing function", i)
		}
		if r.Category == "" {
			return nil, fmt.Errorf("rule %d (%s): missing category", i, r.Function)
		}
		if len(r.Departments) == 0 && r.ExpenseCategory == "" {
			if fallbackSeen[r.Function] {
				return nil, fmt.Errorf("rule %d: duplicate fallback rule for function %q", i, r.Function)
			}
			fallbackSeen[r.Function] = true
			continue
		}
		// Narrow rule after the fallback would be unreachable.
		if fallbackSeen[r.Function] {
			return nil, fmt.Errorf("rule %d: unreachable, follows fallback rule for function %q", i, r.Function)
		}
	}

	functions := make(map[string]bool)
	for _, r := range rules {
		functions[r.Function] = true
	}
	for fn := range functions {
		if !fallbackSeen[fn] {
			return nil, fmt.Errorf("function %q has no fallback rule", fn)
		}
	}

	return &RuleSet{rules: rules}, nil
}

// Match returns the benchmark category for a line item, or false if no rule
// applies (unknown function).
func (rs *RuleSet) Match(item models.LineItem) (Category, bool) {
	function := strings.TrimSpace(item.Function)
	dept := strings.TrimSpace(item.Department)
	expCat := strings.TrimSpace(item.Category)

	for _, r := range rs.rules {
		if r.Function != function {
			continue
		}
		if len(r.Departments) > 0 && !containsFold(r.Departments, dept) {
			continue
		}
		if r.ExpenseCategory != "" && !strings.EqualFold(r.ExpenseCategory, expCat) {
			continue
		}
		return r.Category, true
	}
	return "", false
}

// Rules returns a copy of the ordered rule list for inspection.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

func containsFold(set []string, s string) bool {
	for _, v := range set {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}

// DefaultRuleSet returns the reference benchmark mapping for the 2018 model:
// G&A is Shared Services except the executive departments; S&M is Sales
// except Marketing; R&D is Engineering; Cost of Product is Product except
// support departments and Cloud Operations hosting spend; Cost of PSO is
// Product except Funded R&D.
func DefaultRuleSet() *RuleSet {
	rs, err := NewRuleSet([]Rule{
		{Function: "G&A", Departments: []string{"GMs & Office Admins", "Corporate"}, Category: ExecutiveTeam},
		{Function: "G&A", Category: SharedServices},

		{Function: "S&M", Departments: []string{"Marketing"}, Category: Marketing},
		{Function: "S&M", Category: Sales},

		{Function: "R&D", Category: Engineering},

		{Function: "Cost of Product", Departments: []string{"Technical Support", "Enhanced Support"}, Category: TechnicalSupport},
		{Function: "Cost of Product", Departments: []string{"Cloud Operations"}, ExpenseCategory: "Hosting", Category: Hosting},
		{Function: "Cost of Product", Category: Product},

		{Function: "Cost of PSO", Departments: []string{"Funded R&D"}, Category: Engineering},
		{Function: "Cost of PSO", Category: Product},
	})
	if err != nil {
		// The built-in table is validated by tests; this is unreachable.
		panic(err)
	}
	return rs
}
