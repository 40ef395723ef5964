package benchmark

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ankur-dewani/financial-deep-dive/pkg/models"
)

func TestAggregateReferenceScenario(t *testing.T) {
	// Shared Services spend of 3,822,076 against 79.2M revenue and a 4.5%
	// target: variance is 258,076 in currency terms.
	revenue := dec(t, "79200000")
	classified := []ClassifiedAmount{
		{ItemID: "hc", Category: SharedServices, Amount: dec(t, "1450672"), Headcount: true},
		{ItemID: "nhc", Category: SharedServices, Amount: dec(t, "2371404")},
	}
	targets := []CategoryTarget{
		{Category: SharedServices, Target: dec(t, "0.045")},
		{Category: Engineering, Target: dec(t, "0.125")},
	}

	gaps, err := Aggregate(classified, targets, revenue)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %d", len(gaps))
	}

	ss := gaps[0]
	if ss.Category != SharedServices {
		t.Fatalf("expected Shared Services first, got %s", ss.Category)
	}
	if !ss.HeadcountCost.Equal(dec(t, "1450672")) {
		t.Errorf("HC cost = %s, want 1450672", ss.HeadcountCost)
	}
	if !ss.NonHeadcountCost.Equal(dec(t, "2371404")) {
		t.Errorf("non-HC cost = %s, want 2371404", ss.NonHeadcountCost)
	}
	if !ss.Actual.Equal(dec(t, "3822076")) {
		t.Errorf("actual = %s, want 3822076", ss.Actual)
	}

	wantPct := dec(t, "3822076").Div(revenue)
	if !ss.ActualPct.Equal(wantPct) {
		t.Errorf("actual pct = %s, want %s", ss.ActualPct, wantPct)
	}
	if !ss.VariancePts.Equal(wantPct.Sub(dec(t, "0.045"))) {
		t.Errorf("variance pts = %s, want %s", ss.VariancePts, wantPct.Sub(dec(t, "0.045")))
	}
	// 3,822,076 - 4.5% of 79.2M (= 3,564,000) = 258,076 exactly.
	if !ss.VarianceAmount.Equal(dec(t, "258076")) {
		t.Errorf("variance amount = %s, want 258076", ss.VarianceAmount)
	}
	if ss.Status != StatusOver {
		t.Errorf("status = %s, want Over", ss.Status)
	}

	// Engineering has no spend but must still appear, exhaustively.
	eng := gaps[1]
	if eng.Category != Engineering {
		t.Fatalf("expected Engineering second, got %s", eng.Category)
	}
	if !eng.Actual.IsZero() || !eng.ActualPct.IsZero() {
		t.Errorf("zero-spend category should report 0 actual, got %s (%s)", eng.Actual, eng.ActualPct)
	}
	if eng.Status != StatusUnder {
		t.Errorf("zero spend against 12.5%% target should be Under, got %s", eng.Status)
	}
}

// Cross-check invariant: per-category actuals sum to total classified spend,
// and per-category percentages sum to total spend over revenue.
func TestAggregateConservation(t *testing.T) {
	revenue := dec(t, "1000000")
	classified := []ClassifiedAmount{
		{Category: Sales, Amount: dec(t, "120000.55")},
		{Category: Sales, Amount: dec(t, "-3000.05"), Headcount: true},
		{Category: Marketing, Amount: dec(t, "45000")},
		{Category: Hosting, Amount: dec(t, "0.10")},
	}
	targets := []CategoryTarget{
		{Category: Sales, Target: dec(t, "0.12")},
		{Category: Marketing, Target: dec(t, "0.04")},
		{Category: Hosting, Target: dec(t, "0.03")},
	}

	gaps, err := Aggregate(classified, targets, revenue)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	inputTotal := decimal.Zero
	for _, c := range classified {
		inputTotal = inputTotal.Add(c.Amount)
	}
	if got := TotalActual(gaps); !got.Equal(inputTotal) {
		t.Errorf("sum of category actuals = %s, want %s", got, inputTotal)
	}

	pctSum := decimal.Zero
	for _, g := range gaps {
		pctSum = pctSum.Add(g.ActualPct)
	}
	if want := inputTotal.Div(revenue); !pctSum.Equal(want) {
		t.Errorf("sum of actual percentages = %s, want %s", pctSum, want)
	}
}

func TestAggregateStatusBand(t *testing.T) {
	revenue := dec(t, "1000000")
	targets := []CategoryTarget{{Category: Sales, Target: dec(t, "0.10")}}

	tests := []struct {
		name   string
		amount string
		want   Status
	}{
		{"well over", "120000", StatusOver},
		{"just inside band above", "100900", StatusAtTarget}, // +0.09pt
		{"exactly on target", "100000", StatusAtTarget},
		{"just inside band below", "99100", StatusAtTarget}, // -0.09pt
		{"well under", "80000", StatusUnder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gaps, err := Aggregate([]ClassifiedAmount{{Category: Sales, Amount: dec(t, tt.amount)}}, targets, revenue)
			if err != nil {
				t.Fatalf("Aggregate failed: %v", err)
			}
			if gaps[0].Status != tt.want {
				t.Errorf("amount %s: status = %s, want %s", tt.amount, gaps[0].Status, tt.want)
			}
		})
	}
}

func TestAggregateInvalidRevenue(t *testing.T) {
	for _, revenue := range []string{"0", "-1"} {
		_, err := Aggregate(nil, nil, dec(t, revenue))
		var invalid *InvalidRevenueError
		if !errors.As(err, &invalid) {
			t.Errorf("revenue %s: expected *InvalidRevenueError, got %v", revenue, err)
		}
	}
}

func TestAggregateUnknownCategoryAppended(t *testing.T) {
	// A classified category missing from the target table still reports,
	// with a zero target, rather than vanishing.
	gaps, err := Aggregate(
		[]ClassifiedAmount{{Category: ExecutiveTeam, Amount: dec(t, "500")}},
		[]CategoryTarget{{Category: Sales, Target: dec(t, "0.12")}},
		dec(t, "10000"),
	)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %d", len(gaps))
	}
	if gaps[1].Category != ExecutiveTeam || !gaps[1].TargetPct.IsZero() {
		t.Errorf("expected appended Executive Team gap with zero target, got %+v", gaps[1])
	}
}

func TestAggregateDuplicateTarget(t *testing.T) {
	_, err := Aggregate(nil, []CategoryTarget{
		{Category: Sales, Target: dec(t, "0.12")},
		{Category: Sales, Target: dec(t, "0.10")},
	}, dec(t, "1000"))
	if err == nil {
		t.Error("expected error for duplicate category target")
	}
}

func TestBreakdownByDepartment(t *testing.T) {
	revenue := dec(t, "79200000")
	items := []models.LineItem{
		{ID: "1", Function: "G&A", Department: "Finance & Accounting", Amount: dec(t, "80000"), Headcount: true},
		{ID: "2", Function: "G&A", Department: "Finance & Accounting", Amount: dec(t, "60000"), Headcount: true},
		{ID: "3", Function: "G&A", Department: "Finance & Accounting", Amount: dec(t, "1426248")},
		{ID: "4", Function: "G&A", Department: "Legal", Amount: dec(t, "200000")},
		{ID: "5", Function: "S&M", Department: "Sales", Amount: dec(t, "999999")}, // other function, excluded
	}

	breakdown, err := BreakdownByDepartment(items, "G&A", revenue)
	if err != nil {
		t.Fatalf("BreakdownByDepartment failed: %v", err)
	}
	if len(breakdown) != 2 {
		t.Fatalf("expected 2 departments, got %d", len(breakdown))
	}

	fa := breakdown[0]
	if fa.Department != "Finance & Accounting" {
		t.Fatalf("expected F&A first (alphabetical), got %s", fa.Department)
	}
	if fa.EmployeeCount != 2 {
		t.Errorf("F&A employee count = %d, want 2", fa.EmployeeCount)
	}
	if !fa.HeadcountCost.Equal(dec(t, "140000")) {
		t.Errorf("F&A HC cost = %s, want 140000", fa.HeadcountCost)
	}
	if !fa.Total.Equal(dec(t, "1566248")) {
		t.Errorf("F&A total = %s, want 1566248", fa.Total)
	}
}
