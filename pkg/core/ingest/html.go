package ingest

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ankur-dewani/financial-deep-dive/pkg/models"
)

// =============================================================================
// HTML EXPORT PARSER - Spreadsheet "save as HTML" table extraction
// =============================================================================

// Expected header labels, matched case-insensitively after trimming.
const (
	colFunction     = "function"
	colDepartment   = "department"
	colCategory     = "category"
	colAmount       = "amount"
	colEmployee     = "employee"
	colRole         = "role"
	colCompensation = "compensation"
)

// HTMLParser extracts line items and roster rows from an HTML workbook
// export. Tables are located by their header row, not by position, since
// export tools reorder sheets freely.
type HTMLParser struct{}

// NewHTMLParser creates an HTML export parser.
func NewHTMLParser() *HTMLParser {
	return &HTMLParser{}
}

// ParseLineItems extracts expense rows from every table carrying
// Function/Department/Category/Amount headers. headcount marks the export as
// a payroll sheet (the Empl. sheet) rather than external spend (OPEX/COGS);
// sourceSheet tags each item for traceability.
func (p *HTMLParser) ParseLineItems(html, sourceSheet string, headcount bool) ([]models.LineItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("invalid HTML export: %w", err)
	}

	var items []models.LineItem
	var parseErr error
	row := 0
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		cols := headerIndex(table)
		fn, okFn := cols[colFunction]
		dept, okDept := cols[colDepartment]
		amt, okAmt := cols[colAmount]
		if !okFn || !okDept || !okAmt {
			return true // not a line-item table
		}
		cat, hasCat := cols[colCategory]

		table.Find("tr").Slice(1, goquery.ToEnd).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
			cells := cellTexts(tr)
			if len(cells) <= amt || isBlankRow(cells) {
				return true
			}
			row++
			amount, err := ParseMoney(cells[amt])
			if err != nil {
				parseErr = fmt.Errorf("%s row %d: %w", sourceSheet, row, err)
				return false
			}
			item := models.LineItem{
				ID:          fmt.Sprintf("%s-%d", sourceSheet, row),
				Function:    cells[fn],
				Department:  cells[dept],
				Amount:      amount,
				Headcount:   headcount,
				SourceSheet: sourceSheet,
			}
			if hasCat && len(cells) > cat {
				item.Category = cells[cat]
			}
			items = append(items, item)
			return true
		})
		return parseErr == nil
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: no line-item table found in HTML export", sourceSheet)
	}
	return items, nil
}

// ParseEmployees extracts roster rows from every table carrying
// Employee/Department/Compensation headers.
func (p *HTMLParser) ParseEmployees(html, sourceSheet string) ([]models.Employee, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("invalid HTML export: %w", err)
	}

	var employees []models.Employee
	var parseErr error
	row := 0
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		cols := headerIndex(table)
		id, okID := cols[colEmployee]
		dept, okDept := cols[colDepartment]
		comp, okComp := cols[colCompensation]
		if !okID || !okDept || !okComp {
			return true
		}
		role, hasRole := cols[colRole]

		table.Find("tr").Slice(1, goquery.ToEnd).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
			cells := cellTexts(tr)
			if len(cells) <= comp || isBlankRow(cells) {
				return true
			}
			row++
			compensation, err := ParseMoney(cells[comp])
			if err != nil {
				parseErr = fmt.Errorf("%s row %d: %w", sourceSheet, row, err)
				return false
			}
			emp := models.Employee{
				ID:           cells[id],
				Department:   cells[dept],
				Compensation: compensation,
			}
			if hasRole && len(cells) > role {
				emp.CurrentRole = cells[role]
			}
			employees = append(employees, emp)
			return true
		})
		return parseErr == nil
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(employees) == 0 {
		return nil, fmt.Errorf("%s: no roster table found in HTML export", sourceSheet)
	}
	return employees, nil
}

// headerIndex maps normalized header labels of a table's first row to their
// column positions.
func headerIndex(table *goquery.Selection) map[string]int {
	cols := make(map[string]int)
	table.Find("tr").First().Find("td, th").Each(func(i int, cell *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(cell.Text()))
		if label != "" {
			cols[label] = i
		}
	})
	return cols
}

func cellTexts(tr *goquery.Selection) []string {
	var cells []string
	tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
