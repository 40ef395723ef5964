// Package ingest parses workbook exports (HTML and JSON) into the typed
// records the engine consumes. Cell-level workbook I/O never happens here;
// these are exports produced by the spreadsheet tool itself.
package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var moneyCleanPattern = regexp.MustCompile(`[^0-9.\-]`)

// ParseMoney converts a spreadsheet-formatted currency cell into a decimal.
// Handles dollar signs, thousands separators, and accounting-style
// parentheses for negatives. Blank indicators parse to zero.
func ParseMoney(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "—" || raw == "-" || raw == "–" || raw == "N/A" {
		return decimal.Zero, nil
	}

	isNegative := strings.Contains(raw, "(") && strings.Contains(raw, ")")
	cleaned := moneyCleanPattern.ReplaceAllString(raw, "")
	if cleaned == "" || cleaned == "." || cleaned == "-" {
		return decimal.Zero, fmt.Errorf("unparseable currency value %q", raw)
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable currency value %q: %w", raw, err)
	}
	if isNegative && value.Sign() > 0 {
		value = value.Neg()
	}
	return value, nil
}
