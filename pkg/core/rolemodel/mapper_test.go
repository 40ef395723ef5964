package rolemodel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ankur-dewani/financial-deep-dive/pkg/models"
)

func TestAssignTiers(t *testing.T) {
	employees := []models.Employee{
		{ID: "e1", Compensation: dec(t, "176000")},
		{ID: "e2", Compensation: dec(t, "121000")},
		{ID: "e3", Compensation: dec(t, "77000")},
		{ID: "e4", Compensation: dec(t, "42500")},
		{ID: "e5", Compensation: dec(t, "0")},
	}

	assignments, err := AssignTiers(employees, DefaultBands())
	if err != nil {
		t.Fatalf("AssignTiers failed: %v", err)
	}
	if len(assignments) != len(employees) {
		t.Fatalf("expected %d assignments, got %d", len(employees), len(assignments))
	}

	want := []string{TierVPFinance, TierFinanceManager, TierSeniorAccountant, TierAccountant, TierAccountant}
	for i, a := range assignments {
		if a.EmployeeID != employees[i].ID {
			t.Errorf("assignment %d: employee %q, want %q", i, a.EmployeeID, employees[i].ID)
		}
		if a.Tier != want[i] {
			t.Errorf("employee %s (comp %s): tier %q, want %q", a.EmployeeID, a.Compensation, a.Tier, want[i])
		}
	}
}

// Assignment depends on compensation alone; department and current role are
// never consulted.
func TestAssignTiersIgnoresOtherAttributes(t *testing.T) {
	a := models.Employee{ID: "a", Department: "Finance & Accounting", CurrentRole: "Controller", Compensation: dec(t, "90000")}
	b := models.Employee{ID: "b", Department: "Legal", CurrentRole: "Paralegal", Compensation: dec(t, "90000")}

	assignments, err := AssignTiers([]models.Employee{a, b}, DefaultBands())
	if err != nil {
		t.Fatalf("AssignTiers failed: %v", err)
	}
	if assignments[0].Tier != assignments[1].Tier {
		t.Errorf("same compensation mapped to different tiers: %q vs %q", assignments[0].Tier, assignments[1].Tier)
	}
}

func TestAssignTiersDeterministic(t *testing.T) {
	employees := []models.Employee{{ID: "e1", Compensation: dec(t, "88937.50")}}
	first, err := AssignTiers(employees, DefaultBands())
	if err != nil {
		t.Fatalf("AssignTiers failed: %v", err)
	}
	for i := 0; i < 100; i++ {
		again, err := AssignTiers(employees, DefaultBands())
		if err != nil {
			t.Fatalf("AssignTiers failed on repeat %d: %v", i, err)
		}
		if again[0].Tier != first[0].Tier {
			t.Fatalf("repeat %d: tier changed from %q to %q", i, first[0].Tier, again[0].Tier)
		}
	}
}

func TestAssignTiersUnbandedCompensation(t *testing.T) {
	// Negative compensation sits below every band: corrupt roster data.
	employees := []models.Employee{{ID: "broken", Compensation: dec(t, "-1")}}
	_, err := AssignTiers(employees, DefaultBands())
	if err == nil {
		t.Fatal("expected UnbandedCompensationError")
	}
	var unbanded *UnbandedCompensationError
	if !errors.As(err, &unbanded) {
		t.Fatalf("expected *UnbandedCompensationError, got %T: %v", err, err)
	}
	if unbanded.EmployeeID != "broken" {
		t.Errorf("error carries employee %q, want %q", unbanded.EmployeeID, "broken")
	}
}

func TestCountByTier(t *testing.T) {
	var employees []models.Employee
	comps := []string{"400000", "149000", "140000", "75000", "75000", "75000", "75000", "75000",
		"38000", "38000", "38000", "38000", "38000", "38000", "38000", "38000", "38000", "44672"}
	for i, c := range comps {
		employees = append(employees, models.Employee{ID: fmt.Sprintf("e%d", i+1), Compensation: dec(t, c)})
	}

	assignments, err := AssignTiers(employees, DefaultBands())
	if err != nil {
		t.Fatalf("AssignTiers failed: %v", err)
	}
	counts := CountByTier(assignments)

	want := map[string]int{
		TierVPFinance:        1,
		TierFinanceManager:   2,
		TierSeniorAccountant: 5,
		TierAccountant:       10,
	}
	for tier, n := range want {
		if counts[tier] != n {
			t.Errorf("tier %s: count %d, want %d", tier, counts[tier], n)
		}
	}
}
