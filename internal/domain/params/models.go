package params

import "time"

// Parameter is one row of the rate table: a key, its numeric value and a
// human-readable description. Values are plain numbers; rates are fractions
// (0.04 = 4%) and thresholds are expressed in minimum wages where the key
// says so.
type Parameter struct {
	Key         string    `json:"key"`
	Value       float64   `json:"value"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Well-known keys used by the calculators. The table may carry more keys than
// these; extra keys are reference data for receipts and reports.
const (
	KeyMinimumWage           = "SMMLV"
	KeyMonthlyAllowanceRef   = "Auxilio_Transporte_Mensual"
	KeyBaseMonthDays         = "Dias_Mes_Base"
	KeyHealthRate            = "Tasa_Salud_Empleado"
	KeyPensionRate           = "Tasa_Pension_Empleado"
	KeySolidarityRate        = "Tasa_Fondo_Solidaridad"
	KeySolidarityCapWages    = "Tope_FSP_SMMLV"
	KeyAllowanceCapWages     = "Tope_Aux_Transporte_SMMLV"
	KeyCesantiasInterestRate = "Tasa_Intereses_Cesantias_Anual"
)

// DefaultBaseMonthDays is the fallback divisor when Dias_Mes_Base is absent
// or zero. Every other missing parameter degrades to zero; this one cannot,
// because it divides.
const DefaultBaseMonthDays = 30
