package settlement

import (
	"time"

	"nomina/internal/domain/employee"
	"nomina/internal/domain/params"
)

// Adjustment carries the two manual inputs of a settlement: extra concepts
// owed to the employee and extra deductions against the total.
type Adjustment struct {
	OtherConcepts float64 `json:"otherConcepts"`
	Deductions    float64 `json:"deductions"`
}

// CalculationInput is the snapshot a settlement reads. Like the payroll
// calculator, the engine holds no state; roster and parameters come in on
// every call.
type CalculationInput struct {
	EmployeeID      string
	TerminationDate time.Time
	Employees       []employee.Employee
	Parameters      params.Set
	Adjustment      Adjustment
}

// Result is the itemized final settlement for one employee.
//
// BenefitsBaseSalary is the monthly base used for cesantías and prima: the
// base salary plus the transport allowance when the employee is allowance
// eligible. Vacaciones are always computed on the bare base salary.
type Result struct {
	Employee           employee.Employee `json:"employee"`
	TerminationDate    time.Time         `json:"terminationDate"`
	TenureDays         int               `json:"tenureDays"`
	BenefitsBaseSalary float64           `json:"benefitsBaseSalary"`
	Cesantias          float64           `json:"cesantias"`
	CesantiasInterest  float64           `json:"cesantiasInterest"`
	Prima              float64           `json:"prima"`
	Vacaciones         float64           `json:"vacaciones"`
	OtherConcepts      float64           `json:"otherConcepts"`
	Deductions         float64           `json:"deductions"`
	TotalPayable       float64           `json:"totalPayable"`
}

// Entry is a committed settlement as stored in the history ledger.
type Entry struct {
	ID                string    `json:"id"`
	CreatedAt         time.Time `json:"createdAt"`
	EmployeeID        string    `json:"employeeId"`
	EmployeeName      string    `json:"employeeName"`
	HireDate          time.Time `json:"hireDate"`
	TerminationDate   time.Time `json:"terminationDate"`
	TenureDays        int       `json:"tenureDays"`
	Cesantias         float64   `json:"cesantias"`
	CesantiasInterest float64   `json:"cesantiasInterest"`
	Prima             float64   `json:"prima"`
	Vacaciones        float64   `json:"vacaciones"`
	OtherConcepts     float64   `json:"otherConcepts"`
	Deductions        float64   `json:"deductions"`
	TotalPayable      float64   `json:"totalPayable"`
	ReceiptPath       string    `json:"receiptPath,omitempty"`
	Notes             string    `json:"notes,omitempty"`
}
