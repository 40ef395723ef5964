package benchmark

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ankur-dewani/financial-deep-dive/pkg/models"
)

// ClassifiedAmount is one line item resolved to its benchmark category.
// No merging happens at this stage; aggregation is downstream.
type ClassifiedAmount struct {
	ItemID    string          `json:"item_id"`
	Category  Category        `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Headcount bool            `json:"headcount"`
}

// UnclassifiedLineItemError reports a line item that matched no rule.
// This is a data or configuration defect: defaulting the item into a
// catch-all bucket would silently corrupt the gap computation, so the run
// must halt instead.
type UnclassifiedLineItemError struct {
	ID         string
	Function   string
	Department string
}

func (e *UnclassifiedLineItemError) Error() string {
	return fmt.Sprintf("line item %q (function %q, department %q) matches no classification rule",
		e.ID, e.Function, e.Department)
}

// Classify resolves every line item to exactly one benchmark category.
// Pure function: output length equals input length, input order is preserved,
// and the amounts pass through untouched (conservation of total spend).
func Classify(items []models.LineItem, rules *RuleSet) ([]ClassifiedAmount, error) {
	classified := make([]ClassifiedAmount, 0, len(items))
	for _, item := range items {
		category, ok := rules.Match(item)
		if !ok {
			return nil, &UnclassifiedLineItemError{
				ID:         item.ID,
				Function:   item.Function,
				Department: item.Department,
			}
		}
		classified = append(classified, ClassifiedAmount{
			ItemID:    item.ID,
			Category:  category,
			Amount:    item.Amount,
			Headcount: item.Headcount,
		})
	}
	return classified, nil
}
