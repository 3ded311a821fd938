package payroll

import (
	"nomina/internal/domain/dates"
	"nomina/internal/domain/employee"
	"nomina/internal/domain/params"
)

// Calculate runs one payroll period over the requested employee ids and
// returns the included results in request order. Ids that do not resolve to
// an active employee are silently dropped; use CalculateDetailed when the
// skip reasons matter.
func Calculate(in CalculationInput) []Result {
	outcomes := CalculateDetailed(in)
	results := make([]Result, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Result != nil {
			results = append(results, *o.Result)
		}
	}
	return results
}

// CalculateDetailed is the tagged form of Calculate: one Outcome per
// requested id, in request order, with skipped ids labeled instead of
// dropped. Pure over its input; identical inputs yield identical outputs.
func CalculateDetailed(in CalculationInput) []Outcome {
	byID := make(map[string]employee.Employee, len(in.Employees))
	for _, e := range in.Employees {
		byID[e.ID] = e
	}

	monthDays := in.Parameters.BaseMonthDays()
	smmlv := in.Parameters.ValueOf(params.KeyMinimumWage)
	allowanceCap := in.Parameters.ValueOf(params.KeyAllowanceCapWages) * smmlv
	healthRate := in.Parameters.ValueOf(params.KeyHealthRate)
	pensionRate := in.Parameters.ValueOf(params.KeyPensionRate)
	solidarityFloor := in.Parameters.ValueOf(params.KeySolidarityCapWages) * smmlv
	solidarityRate := in.Parameters.ValueOf(params.KeySolidarityRate)

	// The period is global to the run, not per employee.
	daysWorked := dates.DaysInclusive(in.PeriodFrom, in.PeriodTo)

	outcomes := make([]Outcome, 0, len(in.EmployeeIDs))
	for _, id := range in.EmployeeIDs {
		emp, ok := byID[id]
		if !ok {
			outcomes = append(outcomes, Outcome{EmployeeID: id, Skipped: SkipUnknown})
			continue
		}
		if !emp.Active() {
			outcomes = append(outcomes, Outcome{EmployeeID: id, Skipped: SkipInactive})
			continue
		}

		adj := in.Adjustments[id]

		earnedSalary := emp.BaseSalary / monthDays * float64(daysWorked)

		// Eligibility is tested against the base salary cap, but the
		// employee's own allowance amount is what gets prorated.
		earnedAllowance := 0.0
		if emp.BaseSalary <= allowanceCap {
			earnedAllowance = emp.TransportAllowance / monthDays * float64(daysWorked)
		}

		earnedWithoutAllowance := earnedSalary + adj.ExtraEarned

		// The contribution base cannot fall below the proportional minimum
		// wage for the days worked. The allowance never enters it.
		contributionBase := earnedWithoutAllowance
		if proportionalMinimum := smmlv / monthDays * float64(daysWorked); contributionBase < proportionalMinimum {
			contributionBase = proportionalMinimum
		}

		health := contributionBase * healthRate
		pension := contributionBase * pensionRate

		solidarity := 0.0
		if contributionBase >= solidarityFloor {
			solidarity = contributionBase * solidarityRate
		}

		net := earnedWithoutAllowance + earnedAllowance - (health + pension + solidarity + adj.ExtraDeducted)

		outcomes = append(outcomes, Outcome{
			EmployeeID: id,
			Result: &Result{
				Employee:            emp,
				DaysWorked:          daysWorked,
				EarnedSalary:        earnedSalary,
				EarnedAllowance:     earnedAllowance,
				EarnedOther:         adj.ExtraEarned,
				ContributionBase:    contributionBase,
				HealthDeduction:     health,
				PensionDeduction:    pension,
				SolidarityDeduction: solidarity,
				OtherDeduction:      adj.ExtraDeducted,
				NetPay:              net,
			},
		})
	}
	return outcomes
}
