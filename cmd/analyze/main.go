// Command analyze runs the benchmark mapping and cost-model pipeline over a
// workbook export and writes the report. Thin wiring only: parsing, engine
// invocation, rendering, optional persistence.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/ankur-dewani/financial-deep-dive/pkg/core/benchmark"
	"github.com/ankur-dewani/financial-deep-dive/pkg/core/config"
	"github.com/ankur-dewani/financial-deep-dive/pkg/core/ingest"
	"github.com/ankur-dewani/financial-deep-dive/pkg/core/pipeline"
	"github.com/ankur-dewani/financial-deep-dive/pkg/core/report"
	"github.com/ankur-dewani/financial-deep-dive/pkg/core/rolemodel"
	"github.com/ankur-dewani/financial-deep-dive/pkg/core/store"
	"github.com/ankur-dewani/financial-deep-dive/pkg/models"
)

func main() {
	inputPath := flag.String("input", "", "JSON snapshot export (business unit, revenue, line items, roster)")
	opexPath := flag.String("opex", "", "HTML export of the non-employee expense sheet (alternative to -input)")
	payrollPath := flag.String("payroll", "", "HTML export of the employee cost sheet (alternative to -input)")
	rosterPath := flag.String("roster", "", "HTML export of the roster sheet (alternative to -input)")
	unit := flag.String("unit", "", "business unit name (HTML mode)")
	revenueStr := flag.String("revenue", "", "total revenue (HTML mode)")
	configPath := flag.String("config", "", "reference tables file (.hjson/.json/.yaml); defaults to the built-in 2018 model")
	outPath := flag.String("out", "", "report output path (default stdout)")
	htmlOut := flag.Bool("html", false, "render the report as HTML instead of Markdown")
	save := flag.Bool("save", false, "persist the result to Postgres (DATABASE_URL)")
	verbose := flag.Bool("v", false, "verbose progress output")
	flag.Parse()

	if err := godotenv.Load(); err != nil && *verbose {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	input, err := buildInput(*inputPath, *opexPath, *payrollPath, *rosterPath, *unit, *revenueStr)
	if err != nil {
		log.Fatalf("Input error: %v", err)
	}
	if err := applyConfig(input, *configPath); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	ctx := context.Background()
	result, err := pipeline.NewOrchestrator(*verbose).Run(ctx, *input)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	rendered := report.RenderMarkdown(result)
	if *htmlOut {
		rendered, err = report.RenderHTML(result)
		if err != nil {
			log.Fatalf("Render failed: %v", err)
		}
	}
	if *outPath == "" {
		fmt.Print(rendered)
	} else if err := os.WriteFile(*outPath, []byte(rendered), 0o644); err != nil {
		log.Fatalf("Write failed: %v", err)
	}

	if *save {
		if err := store.InitDB(ctx); err != nil {
			log.Fatalf("DB init failed: %v", err)
		}
		defer store.Close()
		if err := store.NewAnalysisRepo().Save(ctx, result); err != nil {
			log.Fatalf("Save failed: %v", err)
		}
		if *verbose {
			log.Printf("Saved run %s for %s", result.RunID, result.BusinessUnit)
		}
	}
}

// buildInput assembles the snapshot from either a JSON export or a set of
// HTML sheet exports.
func buildInput(jsonPath, opexPath, payrollPath, rosterPath, unit, revenueStr string) (*pipeline.AnalysisInput, error) {
	if jsonPath != "" {
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			return nil, err
		}
		export, err := ingest.ParseJSONExport(data)
		if err != nil {
			return nil, err
		}
		return &pipeline.AnalysisInput{
			BusinessUnit: export.BusinessUnit,
			Revenue:      export.Revenue,
			LineItems:    export.LineItems,
			Employees:    export.Employees,
			RevenueItems: export.RevenueItems,
		}, nil
	}

	if opexPath == "" && payrollPath == "" {
		return nil, fmt.Errorf("need -input, or -opex/-payroll HTML exports")
	}
	if unit == "" || revenueStr == "" {
		return nil, fmt.Errorf("HTML mode needs -unit and -revenue")
	}
	revenue, err := decimal.NewFromString(revenueStr)
	if err != nil {
		return nil, fmt.Errorf("invalid -revenue: %w", err)
	}

	parser := ingest.NewHTMLParser()
	var items []models.LineItem
	if payrollPath != "" {
		data, err := os.ReadFile(payrollPath)
		if err != nil {
			return nil, err
		}
		parsed, err := parser.ParseLineItems(string(data), "Empl.", true)
		if err != nil {
			return nil, err
		}
		items = append(items, parsed...)
	}
	if opexPath != "" {
		data, err := os.ReadFile(opexPath)
		if err != nil {
			return nil, err
		}
		parsed, err := parser.ParseLineItems(string(data), "OPEX - NEmpl.", false)
		if err != nil {
			return nil, err
		}
		items = append(items, parsed...)
	}

	input := &pipeline.AnalysisInput{
		BusinessUnit: unit,
		Revenue:      revenue,
		LineItems:    items,
	}
	if rosterPath != "" {
		data, err := os.ReadFile(rosterPath)
		if err != nil {
			return nil, err
		}
		employees, err := parser.ParseEmployees(string(data), "Roster")
		if err != nil {
			return nil, err
		}
		input.Employees = employees
	}
	return input, nil
}

// applyConfig fills the reference tables from the config file, falling back
// to the built-in 2018 model where the file is absent or silent.
func applyConfig(input *pipeline.AnalysisInput, path string) error {
	input.Rules = benchmark.DefaultRuleSet()
	input.Bands = rolemodel.DefaultBands()
	input.TierRates = rolemodel.DefaultTierRates()
	// Default 2018 benchmark targets, fractions of revenue.
	input.Targets = []benchmark.CategoryTarget{
		{Category: benchmark.SharedServices, Target: dec("0.045")},
		{Category: benchmark.ExecutiveTeam, Target: dec("0.02")},
		{Category: benchmark.Sales, Target: dec("0.12")},
		{Category: benchmark.Marketing, Target: dec("0.04")},
		{Category: benchmark.TechnicalSupport, Target: dec("0.04")},
		{Category: benchmark.Hosting, Target: dec("0.03")},
		{Category: benchmark.Product, Target: dec("0.055")},
		{Category: benchmark.Engineering, Target: dec("0.125")},
	}

	if path == "" {
		return nil
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}

	if len(cfg.Targets) > 0 {
		if input.Targets, err = cfg.CategoryTargets(); err != nil {
			return err
		}
	}
	if len(cfg.Rules) > 0 {
		if input.Rules, err = cfg.RuleSet(); err != nil {
			return err
		}
	}
	if len(cfg.Bands) > 0 {
		if input.Bands, err = cfg.BandTable(); err != nil {
			return err
		}
	}
	if len(cfg.TierRates) > 0 {
		if input.TierRates, err = cfg.Rates(); err != nil {
			return err
		}
	}
	if len(cfg.RetainedFixedCosts) > 0 {
		if input.RetainedFixedCosts, err = cfg.Retained(); err != nil {
			return err
		}
	}
	input.TargetTierCounts = cfg.TargetTierCounts
	input.FocusFunction = cfg.FocusFunction
	input.FocusDepartment = cfg.FocusDepartment
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
