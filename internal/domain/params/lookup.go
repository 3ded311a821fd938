package params

import (
	"errors"
	"fmt"
)

var ErrParameterMissing = errors.New("parameter missing")

// Set is a read-only view of the parameter table keyed by parameter key.
// Duplicate keys keep the last value seen.
type Set map[string]float64

func NewSet(list []Parameter) Set {
	s := make(Set, len(list))
	for _, p := range list {
		s[p.Key] = p.Value
	}
	return s
}

// ValueOf returns the value for key, or 0 when the key is absent. The zero
// default is the compatibility contract: a misspelled key degrades the
// derived amount to zero instead of failing the calculation.
func (s Set) ValueOf(key string) float64 {
	return s[key]
}

// StrictValueOf is the opt-in strict mode: absent keys return
// ErrParameterMissing instead of zero. The calculators do not use it; it
// exists for callers that want to validate a table before running.
func (s Set) StrictValueOf(key string) (float64, error) {
	v, ok := s[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrParameterMissing, key)
	}
	return v, nil
}

// BaseMonthDays returns Dias_Mes_Base guarded against zero and negative
// values, falling back to DefaultBaseMonthDays. It is the one lookup that
// may not degrade to zero because it is used as a divisor.
func (s Set) BaseMonthDays() float64 {
	if v := s.ValueOf(KeyBaseMonthDays); v > 0 {
		return v
	}
	return DefaultBaseMonthDays
}
