// Package rolemodel maps a current-state roster into a standardized role-tier
// structure by compensation banding and computes the resulting cost model.
package rolemodel

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CompensationBand maps a [Lower, Upper) compensation interval to a target
// role tier. The top band sets Open and leaves Upper unused.
type CompensationBand struct {
	Lower decimal.Decimal `json:"lower"` // inclusive
	Upper decimal.Decimal `json:"upper"` // exclusive; ignored when Open
	Open  bool            `json:"open"`  // no upper bound (top band only)
	Tier  string          `json:"tier"`
}

// Contains reports whether a compensation value falls in this band.
func (b CompensationBand) Contains(comp decimal.Decimal) bool {
	if comp.LessThan(b.Lower) {
		return false
	}
	return b.Open || comp.LessThan(b.Upper)
}

// BandTable is an ordered, validated set of compensation bands covering the
// full range from zero upward with no gaps or overlaps. Construct through
// NewBandTable so the coverage invariant holds before any roster is mapped.
type BandTable struct {
	bands []CompensationBand
}

// NewBandTable validates band coverage: ascending order, first band starting
// at zero, each band's upper bound meeting the next band's lower bound
// exactly, and only the final band open-ended.
func NewBandTable(bands []CompensationBand) (*BandTable, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("band table is empty")
	}
	if !bands[0].Lower.IsZero() {
		return nil, fmt.Errorf("first band must start at zero, got %s", bands[0].Lower)
	}
	for i, b := range bands {
		if b.Tier == "" {
			return nil, fmt.Errorf("band %d: missing tier name", i)
		}
		last := i == len(bands)-1
		if b.Open != last {
			if b.Open {
				return nil, fmt.Errorf("band %d (%s): only the top band may be open-ended", i, b.Tier)
			}
			return nil, fmt.Errorf("top band (%s) must be open-ended", b.Tier)
		}
		if last {
			continue
		}
		if !b.Upper.GreaterThan(b.Lower) {
			return nil, fmt.Errorf("band %d (%s): upper bound %s not above lower bound %s", i, b.Tier, b.Upper, b.Lower)
		}
		if !bands[i+1].Lower.Equal(b.Upper) {
			return nil, fmt.Errorf("band %d (%s): next band starts at %s, expected %s (bands must be contiguous)",
				i, b.Tier, bands[i+1].Lower, b.Upper)
		}
	}
	table := &BandTable{bands: make([]CompensationBand, len(bands))}
	copy(table.bands, bands)
	return table, nil
}

// Bands returns a copy of the ordered band list.
func (t *BandTable) Bands() []CompensationBand {
	out := make([]CompensationBand, len(t.bands))
	copy(out, t.bands)
	return out
}

// Tiers returns the tier names in band order (lowest compensation first).
func (t *BandTable) Tiers() []string {
	out := make([]string, len(t.bands))
	for i, b := range t.bands {
		out[i] = b.Tier
	}
	return out
}

// Central Finance reference tiers.
const (
	TierAccountant       = "Accountant"
	TierSeniorAccountant = "Senior Accountant"
	TierFinanceManager   = "Finance Manager"
	TierVPFinance        = "VP of Finance"
	TierSVPFinance       = "SVP of Finance"
)

// DefaultBands returns the Central Finance banding: under 45k maps to
// Accountant, 45k-80k to Senior Accountant, 80k-150k to Finance Manager,
// and 150k up to VP of Finance. Lower bounds inclusive, upper exclusive.
func DefaultBands() *BandTable {
	table, err := NewBandTable([]CompensationBand{
		{Lower: decimal.Zero, Upper: decimal.NewFromInt(45_000), Tier: TierAccountant},
		{Lower: decimal.NewFromInt(45_000), Upper: decimal.NewFromInt(80_000), Tier: TierSeniorAccountant},
		{Lower: decimal.NewFromInt(80_000), Upper: decimal.NewFromInt(150_000), Tier: TierFinanceManager},
		{Lower: decimal.NewFromInt(150_000), Open: true, Tier: TierVPFinance},
	})
	if err != nil {
		// The built-in table is validated by tests; this is unreachable.
		panic(err)
	}
	return table
}

// DefaultTierRates returns the standardized annual cost per Central Finance
// role (SVP 400k is defined for completeness but unused by DefaultBands).
func DefaultTierRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		TierSVPFinance:       decimal.NewFromInt(400_000),
		TierVPFinance:        decimal.NewFromInt(200_000),
		TierFinanceManager:   decimal.NewFromInt(100_000),
		TierSeniorAccountant: decimal.NewFromInt(60_000),
		TierAccountant:       decimal.NewFromInt(30_000),
	}
}
