package payroll

import (
	"time"

	"nomina/internal/domain/employee"
	"nomina/internal/domain/params"
)

// Adjustment carries the two manual per-employee inputs of a payroll run.
// Absent employees default to a zero adjustment.
type Adjustment struct {
	ExtraEarned   float64 `json:"extraEarned"`
	ExtraDeducted float64 `json:"extraDeducted"`
}

// CalculationInput is the full snapshot a payroll run reads. The engine holds
// no state of its own: roster and parameters are passed in on every call.
type CalculationInput struct {
	PeriodFrom  time.Time
	PeriodTo    time.Time
	EmployeeIDs []string
	Employees   []employee.Employee
	Parameters  params.Set
	Adjustments map[string]Adjustment
}

// Result is one employee's itemized payroll line. Every monetary field is
// derived except EarnedOther and OtherDeduction, which echo the manual
// adjustment.
type Result struct {
	Employee            employee.Employee `json:"employee"`
	DaysWorked          int               `json:"daysWorked"`
	EarnedSalary        float64           `json:"earnedSalary"`
	EarnedAllowance     float64           `json:"earnedAllowance"`
	EarnedOther         float64           `json:"earnedOther"`
	ContributionBase    float64           `json:"contributionBase"`
	HealthDeduction     float64           `json:"healthDeduction"`
	PensionDeduction    float64           `json:"pensionDeduction"`
	SolidarityDeduction float64           `json:"solidarityDeduction"`
	OtherDeduction      float64           `json:"otherDeduction"`
	NetPay              float64           `json:"netPay"`
}

// SkipReason tags a requested employee id that produced no result.
type SkipReason string

const (
	SkipUnknown  SkipReason = "unknown"
	SkipInactive SkipReason = "inactive"
)

// Outcome is the per-id verdict of a run: either an included Result or a
// skip reason. The external contract exposes only the included subset, but
// the tagged form keeps the silent-exclusion policy testable.
type Outcome struct {
	EmployeeID string     `json:"employeeId"`
	Skipped    SkipReason `json:"skipped,omitempty"`
	Result     *Result    `json:"result,omitempty"`
}

// Entry is a committed payroll line as stored in the history ledger.
type Entry struct {
	ID                  string    `json:"id"`
	CreatedAt           time.Time `json:"createdAt"`
	PeriodFrom          time.Time `json:"periodFrom"`
	PeriodTo            time.Time `json:"periodTo"`
	EmployeeID          string    `json:"employeeId"`
	EmployeeName        string    `json:"employeeName"`
	DaysWorked          int       `json:"daysWorked"`
	EarnedSalary        float64   `json:"earnedSalary"`
	EarnedAllowance     float64   `json:"earnedAllowance"`
	EarnedOther         float64   `json:"earnedOther"`
	ContributionBase    float64   `json:"contributionBase"`
	HealthDeduction     float64   `json:"healthDeduction"`
	PensionDeduction    float64   `json:"pensionDeduction"`
	SolidarityDeduction float64   `json:"solidarityDeduction"`
	OtherDeduction      float64   `json:"otherDeduction"`
	NetPay              float64   `json:"netPay"`
	ReceiptPath         string    `json:"receiptPath,omitempty"`
	Notes               string    `json:"notes,omitempty"`
}
