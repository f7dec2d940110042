package numeric

import (
	"errors"
	"fmt"
	"math"
)

// DefaultPlaces is the precision of every published metric.
const DefaultPlaces = 2

var ErrInvalidNumber = errors.New("invalid number")

// Round rounds x half away from zero to the given number of decimal places.
// NaN and infinities are returned unchanged.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	p := math.Pow10(places)
	return math.Round(x*p) / p
}

// RoundStrict is Round that refuses non-finite input.
func RoundStrict(x float64, places int) (float64, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x, fmt.Errorf("round %v: %w", x, ErrInvalidNumber)
	}
	return Round(x, places), nil
}

// NaNPolicy decides what happens when a published value is not a finite number.
type NaNPolicy int

const (
	// Tolerant lets NaN surface in the output.
	Tolerant NaNPolicy = iota
	// Strict rejects the whole batch.
	Strict
)

func ParseNaNPolicy(s string) (NaNPolicy, error) {
	switch s {
	case "", "tolerant":
		return Tolerant, nil
	case "strict":
		return Strict, nil
	default:
		return Tolerant, fmt.Errorf("unknown nan policy: %s", s)
	}
}

func (p NaNPolicy) String() string {
	if p == Strict {
		return "strict"
	}
	return "tolerant"
}

// Check returns ErrInvalidNumber for the first non-finite value under the strict policy.
func (p NaNPolicy) Check(values ...float64) error {
	if p != Strict {
		return nil
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("value at index %d is %v: %w", i, v, ErrInvalidNumber)
		}
	}
	return nil
}
