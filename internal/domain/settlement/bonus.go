package settlement

import (
	"time"

	"nomina/internal/domain/dates"
)

// ApplyMidYearBonusOffset subtracts the already-paid first-half prima from a
// settlement. It is conditional business policy layered on top of Calculate,
// for the case where the June service bonus went out through the regular
// payroll and the contract ends in the second half of the year.
//
// The paid window is Jan 1 through Jun 30 of the termination year, clipped
// to the hire date and the termination date. Its value uses the same
// 360-day proration as the prima itself, on the benefits-base salary. The
// prima line floors at zero; the total drops by the full paid value, which
// mirrors how the original ledger recorded the offset.
//
// When termination falls on or before Jun 30, or the clipped window is
// empty, the result is returned unchanged.
func ApplyMidYearBonusOffset(res Result) Result {
	termination := res.TerminationDate
	year := termination.Year()
	midYearCutoff := time.Date(year, time.June, 30, 0, 0, 0, 0, time.UTC)
	if !termination.After(midYearCutoff) {
		return res
	}

	paidFrom := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if res.Employee.HireDate.After(paidFrom) {
		paidFrom = res.Employee.HireDate
	}
	paidTo := midYearCutoff
	if termination.Before(paidTo) {
		paidTo = termination
	}

	paidDays := dates.DaysInclusive(paidFrom, paidTo)
	if paidDays <= 0 {
		return res
	}

	paidValue := res.BenefitsBaseSalary * float64(paidDays) / 360

	res.Prima -= paidValue
	if res.Prima < 0 {
		res.Prima = 0
	}
	res.TotalPayable -= paidValue
	return res
}
