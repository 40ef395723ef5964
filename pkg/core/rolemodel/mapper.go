package rolemodel

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ankur-dewani/financial-deep-dive/pkg/models"
)

// TierAssignment places one employee into a target role tier. Derived purely
// from the compensation value and the band table; department, tenure, and
// current role never enter this decision.
type TierAssignment struct {
	EmployeeID   string          `json:"employee_id"`
	Tier         string          `json:"tier"`
	Compensation decimal.Decimal `json:"compensation"`
}

// UnbandedCompensationError reports a compensation value outside every band.
// With a validated BandTable this can only happen for negative compensation,
// which indicates corrupt roster data; the run must not default the employee
// into an arbitrary tier.
type UnbandedCompensationError struct {
	EmployeeID   string
	Compensation decimal.Decimal
}

func (e *UnbandedCompensationError) Error() string {
	return fmt.Sprintf("employee %q compensation %s falls outside all compensation bands",
		e.EmployeeID, e.Compensation)
}

// AssignTiers maps each employee to the band containing their compensation.
// Bands are evaluated in ascending order; the non-overlap invariant makes the
// first match the only match. Exactly one assignment per employee.
func AssignTiers(employees []models.Employee, bands *BandTable) ([]TierAssignment, error) {
	assignments := make([]TierAssignment, 0, len(employees))
	for _, emp := range employees {
		assigned := false
		for _, band := range bands.bands {
			if band.Contains(emp.Compensation) {
				assignments = append(assignments, TierAssignment{
					EmployeeID:   emp.ID,
					Tier:         band.Tier,
					Compensation: emp.Compensation,
				})
				assigned = true
				break
			}
		}
		if !assigned {
			return nil, &UnbandedCompensationError{
				EmployeeID:   emp.ID,
				Compensation: emp.Compensation,
			}
		}
	}
	return assignments, nil
}

// CountByTier tallies assignments per tier name.
func CountByTier(assignments []TierAssignment) map[string]int {
	counts := make(map[string]int)
	for _, a := range assignments {
		counts[a.Tier]++
	}
	return counts
}
