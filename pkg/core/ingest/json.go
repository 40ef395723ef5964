package ingest

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/shopspring/decimal"

	"github.com/ankur-dewani/financial-deep-dive/pkg/models"
)

// Export is a full JSON snapshot export: one business unit's revenue,
// line items, roster, and revenue breakdown in a single document.
type Export struct {
	BusinessUnit string               `json:"business_unit"`
	Revenue      decimal.Decimal      `json:"revenue"`
	LineItems    []models.LineItem    `json:"line_items"`
	Employees    []models.Employee    `json:"employees"`
	RevenueItems []models.RevenueItem `json:"revenue_items"`
}

// ParseJSONExport decodes a JSON snapshot export. Hand-exported files often
// carry trailing commas, comments, or single quotes, so a failed strict
// parse falls back to repair-then-parse before giving up.
func ParseJSONExport(data []byte) (*Export, error) {
	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		repaired, repairErr := jsonrepair.RepairJSON(string(data))
		if repairErr != nil {
			return nil, fmt.Errorf("invalid JSON export: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &export); err != nil {
			return nil, fmt.Errorf("invalid JSON export after repair: %w", err)
		}
	}
	if export.BusinessUnit == "" {
		return nil, fmt.Errorf("JSON export missing business_unit")
	}
	if len(export.LineItems) == 0 {
		return nil, fmt.Errorf("JSON export has no line items")
	}
	return &export, nil
}
