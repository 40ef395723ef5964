// Package models defines the parsed P&L record types shared by the
// benchmark and cost-model engines. All monetary values use fixed-point
// decimals; float accumulation of currency is never acceptable here.
package models

import (
	"github.com/shopspring/decimal"
)

// LineItem is one expense row from a P&L export, already parsed and typed.
// Immutable once created; the engine consumes it read-only.
type LineItem struct {
	ID          string          `json:"id"`
	Function    string          `json:"function"`   // Function L2 label, e.g. "G&A", "Cost of Product"
	Department  string          `json:"department"` // e.g. "Finance & Accounting"
	Category    string          `json:"category"`   // raw expense category text, e.g. "Hosting"
	Amount      decimal.Decimal `json:"amount"`     // signed; credits appear as negatives
	Headcount   bool            `json:"headcount"`  // payroll (internal staff) vs external spend
	SourceSheet string          `json:"source_sheet"`
}

// Employee is one roster row for the function under redesign.
type Employee struct {
	ID           string          `json:"id"`
	Department   string          `json:"department"`
	Compensation decimal.Decimal `json:"compensation"` // current annual compensation
	CurrentRole  string          `json:"current_role"`
}

// RevenueItem is one revenue row (recurring, PSO, perpetual, ...).
type RevenueItem struct {
	Stream   string          `json:"stream"`
	Customer string          `json:"customer"`
	Amount   decimal.Decimal `json:"amount"`
}
