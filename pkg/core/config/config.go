// Package config loads the static reference tables (benchmark targets,
// classification rules, compensation bands, tier rates) from HJSON or YAML
// files, so alternate benchmark years swap in without code changes. Every
// loaded table is re-validated through the engine constructors before use.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"
	"github.com/shopspring/decimal"
	yaml "gopkg.in/yaml.v2"

	"github.com/ankur-dewani/financial-deep-dive/pkg/core/benchmark"
	"github.com/ankur-dewani/financial-deep-dive/pkg/core/rolemodel"
)

// Config is the file schema. Monetary and percentage values are strings so
// they parse through decimal exactly, never through a float.
type Config struct {
	BenchmarkYear int `json:"benchmark_year" yaml:"benchmark_year"`

	Targets []TargetEntry `json:"targets" yaml:"targets"`
	Rules   []RuleEntry   `json:"rules" yaml:"rules"`
	Bands   []BandEntry   `json:"bands" yaml:"bands"`

	TierRates          map[string]string `json:"tier_rates" yaml:"tier_rates"`
	RetainedFixedCosts map[string]string `json:"retained_fixed_costs" yaml:"retained_fixed_costs"`
	TargetTierCounts   map[string]int    `json:"target_tier_counts" yaml:"target_tier_counts"`

	FocusFunction   string `json:"focus_function" yaml:"focus_function"`
	FocusDepartment string `json:"focus_department" yaml:"focus_department"`
}

// TargetEntry is one benchmark target, e.g. {Shared Services, "0.045"}.
type TargetEntry struct {
	Category string `json:"category" yaml:"category"`
	Target   string `json:"target" yaml:"target"`
}

// RuleEntry mirrors benchmark.Rule with plain strings.
type RuleEntry struct {
	Function        string   `json:"function" yaml:"function"`
	Departments     []string `json:"departments" yaml:"departments"`
	ExpenseCategory string   `json:"expense_category" yaml:"expense_category"`
	Category        string   `json:"category" yaml:"category"`
}

// BandEntry mirrors rolemodel.CompensationBand with plain strings.
type BandEntry struct {
	Lower string `json:"lower" yaml:"lower"`
	Upper string `json:"upper" yaml:"upper"`
	Open  bool   `json:"open" yaml:"open"`
	Tier  string `json:"tier" yaml:"tier"`
}

// LoadFile reads a config file, dispatching on extension: .hjson/.json parse
// as HJSON (a superset of JSON), .yaml/.yml as YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hjson", ".json":
		if err := hjson.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .hjson, .json, .yaml, or .yml)", ext)
	}
	return &cfg, nil
}

// CategoryTargets converts the target entries to engine form.
func (c *Config) CategoryTargets() ([]benchmark.CategoryTarget, error) {
	targets := make([]benchmark.CategoryTarget, 0, len(c.Targets))
	for _, t := range c.Targets {
		target, err := decimal.NewFromString(t.Target)
		if err != nil {
			return nil, fmt.Errorf("target for %q: %w", t.Category, err)
		}
		targets = append(targets, benchmark.CategoryTarget{
			Category: benchmark.Category(t.Category),
			Target:   target,
		})
	}
	return targets, nil
}

// RuleSet builds and validates the classification rule set.
func (c *Config) RuleSet() (*benchmark.RuleSet, error) {
	rules := make([]benchmark.Rule, 0, len(c.Rules))
	for _, r := range c.Rules {
		rules = append(rules, benchmark.Rule{
			Function:        r.Function,
			Departments:     r.Departments,
			ExpenseCategory: r.ExpenseCategory,
			Category:        benchmark.Category(r.Category),
		})
	}
	return benchmark.NewRuleSet(rules)
}

// BandTable builds and validates the compensation band table.
func (c *Config) BandTable() (*rolemodel.BandTable, error) {
	bands := make([]rolemodel.CompensationBand, 0, len(c.Bands))
	for i, b := range c.Bands {
		lower, err := decimal.NewFromString(b.Lower)
		if err != nil {
			return nil, fmt.Errorf("band %d lower bound: %w", i, err)
		}
		band := rolemodel.CompensationBand{Lower: lower, Open: b.Open, Tier: b.Tier}
		if !b.Open {
			upper, err := decimal.NewFromString(b.Upper)
			if err != nil {
				return nil, fmt.Errorf("band %d upper bound: %w", i, err)
			}
			band.Upper = upper
		}
		bands = append(bands, band)
	}
	return rolemodel.NewBandTable(bands)
}

// Rates converts the tier rate map to decimals.
func (c *Config) Rates() (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal, len(c.TierRates))
	for tier, raw := range c.TierRates {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("rate for tier %q: %w", tier, err)
		}
		rates[tier] = rate
	}
	return rates, nil
}

// Retained converts the retained fixed cost map to a decimal slice.
func (c *Config) Retained() ([]decimal.Decimal, error) {
	costs := make([]decimal.Decimal, 0, len(c.RetainedFixedCosts))
	for name, raw := range c.RetainedFixedCosts {
		cost, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("retained cost %q: %w", name, err)
		}
		costs = append(costs, cost)
	}
	return costs, nil
}
