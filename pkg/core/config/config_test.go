package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ankur-dewani/financial-deep-dive/pkg/core/benchmark"
	"github.com/ankur-dewani/financial-deep-dive/pkg/models"
	"github.com/shopspring/decimal"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const hjsonConfig = `{
  benchmark_year: 2018
  // reference targets, as share of revenue
  targets: [
    { category: "Shared Services", target: "0.045" }
    { category: "Sales", target: "0.12" }
  ]
  rules: [
    { function: "G&A", category: "Shared Services" }
    { function: "S&M", departments: ["Field Sales"], category: "Sales" }
    { function: "S&M", category: "Marketing" }
  ]
  bands: [
    { lower: "0", upper: "45000", tier: "Accountant" }
    { lower: "45000", upper: "150000", tier: "Finance Manager" }
    { lower: "150000", open: true, tier: "VP Finance" }
  ]
  tier_rates: {
    "Accountant": "30000"
    "Finance Manager": "100000"
    "VP Finance": "200000"
  }
  retained_fixed_costs: {
    "Statutory audit": "200000"
  }
  focus_function: "G&A"
  focus_department: "Finance & Accounting"
}`

const yamlConfig = `benchmark_year: 2018
targets:
  - category: Shared Services
    target: "0.045"
rules:
  - function: G&A
    category: Shared Services
bands:
  - lower: "0"
    upper: "45000"
    tier: Accountant
  - lower: "45000"
    open: true
    tier: VP Finance
tier_rates:
  Accountant: "30000"
  VP Finance: "200000"
`

func TestLoadFileHJSON(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "benchmark-2018.hjson", hjsonConfig))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.BenchmarkYear != 2018 {
		t.Errorf("benchmark year = %d, want 2018", cfg.BenchmarkYear)
	}
	if cfg.FocusDepartment != "Finance & Accounting" {
		t.Errorf("focus department = %q", cfg.FocusDepartment)
	}

	targets, err := cfg.CategoryTargets()
	if err != nil {
		t.Fatalf("CategoryTargets failed: %v", err)
	}
	if len(targets) != 2 || !targets[0].Target.Equal(decimal.RequireFromString("0.045")) {
		t.Errorf("targets = %+v", targets)
	}

	rules, err := cfg.RuleSet()
	if err != nil {
		t.Fatalf("RuleSet failed: %v", err)
	}
	category, ok := rules.Match(models.LineItem{Function: "S&M", Department: "Field Sales"})
	if !ok || category != benchmark.Sales {
		t.Errorf("Field Sales matched %q, want Sales", category)
	}

	bands, err := cfg.BandTable()
	if err != nil {
		t.Fatalf("BandTable failed: %v", err)
	}
	if tiers := bands.Tiers(); len(tiers) != 3 || tiers[2] != "VP Finance" {
		t.Errorf("tiers = %v", tiers)
	}

	rates, err := cfg.Rates()
	if err != nil {
		t.Fatalf("Rates failed: %v", err)
	}
	if !rates["VP Finance"].Equal(decimal.RequireFromString("200000")) {
		t.Errorf("VP rate = %s", rates["VP Finance"])
	}

	retained, err := cfg.Retained()
	if err != nil {
		t.Fatalf("Retained failed: %v", err)
	}
	if len(retained) != 1 || !retained[0].Equal(decimal.RequireFromString("200000")) {
		t.Errorf("retained = %v", retained)
	}
}

func TestLoadFileYAML(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "benchmark.yaml", yamlConfig))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Category != "Shared Services" {
		t.Errorf("rules = %+v", cfg.Rules)
	}
	bands, err := cfg.BandTable()
	if err != nil {
		t.Fatalf("BandTable failed: %v", err)
	}
	if len(bands.Bands()) != 2 {
		t.Errorf("expected 2 bands, got %d", len(bands.Bands()))
	}
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "config.toml", "x = 1"))
	if err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.hjson")); err == nil {
		t.Error("expected error for missing file")
	}
}

// Loaded tables go through the engine constructors, so structurally invalid
// config is rejected at load time, not at run time.
func TestInvalidTablesRejected(t *testing.T) {
	cfg := &Config{
		Bands: []BandEntry{
			{Lower: "0", Upper: "45000", Tier: "Accountant"},
			{Lower: "50000", Open: true, Tier: "VP Finance"}, // gap at 45000
		},
		Rules: []RuleEntry{
			{Function: "G&A", Departments: []string{"Legal"}, Category: "Shared Services"},
			// no fallback rule for G&A
		},
		Targets: []TargetEntry{{Category: "Sales", Target: "twelve percent"}},
	}

	if _, err := cfg.BandTable(); err == nil {
		t.Error("expected band gap to be rejected")
	}
	if _, err := cfg.RuleSet(); err == nil {
		t.Error("expected rule set without fallback to be rejected")
	}
	if _, err := cfg.CategoryTargets(); err == nil {
		t.Error("expected non-decimal target to be rejected")
	}
}
