package employee

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

const (
	ContractFixed      = "fixed"
	ContractIndefinite = "indefinite"
	ContractApprentice = "apprentice"
	ContractProject    = "project"
)

const (
	SalaryBasic      = "basic"
	SalaryFixed      = "fixed"
	SalaryHourly     = "hourly"
	SalaryCommission = "commission"
)

// Employee is the roster record the calculators read. BaseSalary and
// TransportAllowance are monthly amounts in pesos; TerminationDate is set
// only after a settlement has been committed.
type Employee struct {
	ID                 string     `json:"id"`
	DocumentID         string     `json:"documentId"`
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName"`
	Position           string     `json:"position"`
	Email              string     `json:"email"`
	HireDate           time.Time  `json:"hireDate"`
	ContractType       string     `json:"contractType"`
	SalaryType         string     `json:"salaryType"`
	BaseSalary         float64    `json:"baseSalary"`
	TransportAllowance float64    `json:"transportAllowance"`
	Status             string     `json:"status"`
	TerminationDate    *time.Time `json:"terminationDate,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

func (e Employee) Active() bool {
	return e.Status == StatusActive
}
