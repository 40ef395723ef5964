// Package report renders an AnalysisResult into Markdown and HTML. Pure
// presentation: it consumes engine outputs read-only and performs no
// computation of its own beyond formatting.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ankur-dewani/financial-deep-dive/pkg/core/pipeline"
)

// RenderMarkdown produces the full benchmark and cost-model report.
func RenderMarkdown(result *pipeline.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Operating Cost Benchmark — %s\n\n", result.BusinessUnit)
	fmt.Fprintf(&b, "Run %s, generated %s\n\n", result.RunID, result.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "Revenue: %s\n\n", money(result.Revenue))

	b.WriteString("## Benchmark Mapping\n\n")
	b.WriteString("| Category | HC Cost | Non-HC Cost | Total | % of Revenue | Target | Variance | Status |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---|\n")
	for _, g := range result.Gaps {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			g.Category, money(g.HeadcountCost), money(g.NonHeadcountCost), money(g.Actual),
			pct(g.ActualPct), pct(g.TargetPct), pct(g.VariancePts), g.Status)
	}
	b.WriteString("\n")

	if len(result.RevenueMix) > 0 {
		b.WriteString("## Revenue Mix\n\n")
		b.WriteString("| Stream | Amount | % of Revenue | Items | Avg per Item |\n")
		b.WriteString("|---|---:|---:|---:|---:|\n")
		for _, m := range result.RevenueMix {
			fmt.Fprintf(&b, "| %s | %s | %s | %d | %s |\n",
				m.Stream, money(m.Total), pct(m.Pct), m.Items, money(m.Average))
		}
		b.WriteString("\n")
	}

	if len(result.Departments) > 0 {
		b.WriteString("## Department Breakdown\n\n")
		b.WriteString("| Department | Employees | HC Cost | Non-HC Cost | Total | % of Revenue |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|\n")
		for _, d := range result.Departments {
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s |\n",
				d.Department, d.EmployeeCount, money(d.HeadcountCost), money(d.NonHeadcountCost),
				money(d.Total), pct(d.PctOfRevenue))
		}
		b.WriteString("\n")
	}

	if dd := result.DeepDive; dd != nil {
		fmt.Fprintf(&b, "## %s Deep Dive\n\n", dd.Department)
		b.WriteString("| Cost Component | Amount | % of Total | % of Revenue |\n")
		b.WriteString("|---|---:|---:|---:|\n")
		for _, c := range dd.Components {
			label := c.Component
			if label == "Employee Headcount" {
				label = fmt.Sprintf("Employee Headcount (%d staff)", dd.HeadcountCount)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				label, money(c.Amount), pct(c.PctOfTotal), pct(c.PctOfRevenue))
		}
		fmt.Fprintf(&b, "| **Total** | **%s** | 100.0%% | %s |\n\n", money(dd.Total), pct(dd.PctOfRevenue))
	}

	if cm := result.CostModel; cm != nil {
		b.WriteString("## Target Cost Model\n\n")
		b.WriteString("| Role Tier | Headcount | Annual Rate | Total |\n")
		b.WriteString("|---|---:|---:|---:|\n")
		for _, tier := range cm.Tiers {
			fmt.Fprintf(&b, "| %s | %d | %s | %s |\n",
				tier.Tier, tier.Count, money(tier.AnnualRate), money(tier.Total))
			if tier.Shortfall > 0 {
				fmt.Fprintf(&b, "| _%s shortfall vs target of %d_ | %d | | |\n",
					tier.Tier, tier.TargetCount, -tier.Shortfall)
			}
		}
		if cm.RetainedFixed.Sign() != 0 {
			fmt.Fprintf(&b, "| Retained fixed costs | | | %s |\n", money(cm.RetainedFixed))
		}
		fmt.Fprintf(&b, "| **Target total** | %d | | **%s** |\n\n", cm.TargetHeadcount, money(cm.TargetCost))

		fmt.Fprintf(&b, "Current cost: %s (%d staff)\n\n", money(cm.CurrentCost), cm.CurrentHeadcount)
		fmt.Fprintf(&b, "**Annual savings: %s (%s reduction)**\n", money(cm.Savings), pct(cm.SavingsPct))
	}

	return b.String()
}

// RenderHTML converts the Markdown report to HTML. GFM tables are the whole
// point of the report, so the GFM extension is always on.
func RenderHTML(result *pipeline.AnalysisResult) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(RenderMarkdown(result)), &buf); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}
	return buf.String(), nil
}

func money(d decimal.Decimal) string {
	neg := d.Sign() < 0
	whole := d.Abs().Round(0).String()
	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	b.WriteString("$")
	for i, ch := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(",")
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func pct(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
