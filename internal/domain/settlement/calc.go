package settlement

import (
	"errors"

	"nomina/internal/domain/dates"
	"nomina/internal/domain/params"
)

var ErrEmployeeNotFound = errors.New("settlement: employee not found")

// Calculate produces the final-settlement breakdown for one employee. An
// unknown employee id returns ErrEmployeeNotFound; the engine never
// fabricates a zero-valued result.
//
// All accruals prorate over a 360-day year: cesantías and prima at one
// month's benefits-base salary per year of tenure, vacaciones at half that
// rate on the bare base salary. Interest on cesantías covers only the
// current 360-day cycle's remainder of tenure (tenure mod 360).
func Calculate(in CalculationInput) (Result, error) {
	var emp *Result
	for _, e := range in.Employees {
		if e.ID == in.EmployeeID {
			emp = &Result{Employee: e}
			break
		}
	}
	if emp == nil {
		return Result{}, ErrEmployeeNotFound
	}

	smmlv := in.Parameters.ValueOf(params.KeyMinimumWage)
	allowanceCap := in.Parameters.ValueOf(params.KeyAllowanceCapWages) * smmlv
	interestRate := in.Parameters.ValueOf(params.KeyCesantiasInterestRate)

	benefitsBase := emp.Employee.BaseSalary
	if emp.Employee.TransportAllowance > 0 && emp.Employee.BaseSalary <= allowanceCap {
		benefitsBase += emp.Employee.TransportAllowance
	}

	tenureDays := dates.DaysInclusive(emp.Employee.HireDate, in.TerminationDate)

	cesantias := benefitsBase * float64(tenureDays) / 360
	interest := cesantias * (interestRate * float64(tenureDays%360) / 360)
	prima := benefitsBase * float64(tenureDays) / 360
	vacaciones := emp.Employee.BaseSalary * float64(tenureDays) / 720

	total := cesantias + interest + prima + vacaciones + in.Adjustment.OtherConcepts - in.Adjustment.Deductions

	emp.TerminationDate = in.TerminationDate
	emp.TenureDays = tenureDays
	emp.BenefitsBaseSalary = benefitsBase
	emp.Cesantias = cesantias
	emp.CesantiasInterest = interest
	emp.Prima = prima
	emp.Vacaciones = vacaciones
	emp.OtherConcepts = in.Adjustment.OtherConcepts
	emp.Deductions = in.Adjustment.Deductions
	emp.TotalPayable = total
	return *emp, nil
}
