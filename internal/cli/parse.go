package cli

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"budget/internal/core"
)

// ErrInvalidPrice is the core sentinel so callers can match either layer.
var ErrInvalidPrice = core.ErrInvalidPrice

var ErrInvalidYearMonth = errors.New("invalid year-month")

// ParsePrice parses a decimal price. Both "3.50" and "3,50" are accepted.
// Negative values are allowed so refunds can be logged.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidPrice
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	return v, nil
}

// ParseYearMonth parses "YYYY-MM" (the month may be a single digit).
func ParseYearMonth(s string) (core.YearMonth, error) {
	s = strings.TrimSpace(s)
	yearPart, monthPart, ok := strings.Cut(s, "-")
	if !ok || yearPart == "" || monthPart == "" {
		return core.YearMonth{}, fmt.Errorf("%w: %q (want YYYY-MM)", ErrInvalidYearMonth, s)
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil || year < 0 {
		return core.YearMonth{}, fmt.Errorf("%w: year %q", ErrInvalidYearMonth, yearPart)
	}
	month, err := strconv.Atoi(monthPart)
	if err != nil {
		return core.YearMonth{}, fmt.Errorf("%w: month %q", ErrInvalidYearMonth, monthPart)
	}
	return core.NewYearMonth(year, month)
}
