package inventory

// convert.go turns user-provided strings into product field values.
//
// CSV prices arrive display-formatted ("$1,234.56"); the add flow writes them
// back as a bare minor-unit count ("999"). Quantities may be fractional
// ("12.0") and are truncated. Dates come in whatever layout the spreadsheet
// that produced the file preferred.

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidDate     = errors.New("invalid date")
)

// numericRegex accepts integers and decimals, with an optional exponent of
// at most three digits.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d{1,3})?$`)

// Upper bounds after normalization. Quantities are stored as INTEGER, which
// is 32 bits on Postgres.
var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	maxQuantity   = decimal.NewFromInt(math.MaxInt32)
)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would land more than this many years in the future are moved
// to the previous century.
var TwoDigitYearPivot = 20

const (
	csvDateLayout   = "01/02/2006"
	timestampLayout = "2006-01-02 15:04:05"
)

var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
		timestampLayout, time.RFC3339, "2006-01-02T15:04:05",
	}
)

var currencySymbols = []string{"$", "€", "£"}

// stripCurrency removes currency symbols and thousands separators.
// The bool reports whether a currency symbol was present.
func stripCurrency(s string) (string, bool) {
	s = strings.TrimSpace(s)
	hadSymbol := false
	for _, sym := range currencySymbols {
		if strings.Contains(s, sym) {
			hadSymbol = true
			s = strings.ReplaceAll(s, sym, "")
		}
	}
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s), hadSymbol
}

// parseNonNegative parses a cleaned numeric string into a decimal.
func parseNonNegative(s string) (decimal.Decimal, bool) {
	if !numericRegex.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// toMinorUnits scales a dollar amount to cents, rounding half away from zero.
// It fails when the result does not fit in an int64.
func toMinorUnits(d decimal.Decimal) (int64, bool) {
	cents := d.Shift(2).Round(0)
	if cents.GreaterThan(maxMinorUnits) {
		return 0, false
	}
	return cents.IntPart(), true
}

// ParsePrice converts a CSV price cell to minor units.
//
// A value carrying a currency symbol or a decimal point is a dollar amount
// and is scaled by 100 ("$12.34" -> 1234, "$12" -> 1200). A bare integer is
// already a minor-unit count ("999" -> 999).
func ParsePrice(s string) (int64, error) {
	cleaned, hadSymbol := stripCurrency(s)
	d, ok := parseNonNegative(cleaned)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	if !hadSymbol && !strings.ContainsAny(cleaned, ".eE") {
		if d.GreaterThan(maxMinorUnits) {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidPrice, s)
		}
		return d.IntPart(), nil
	}
	cents, ok := toMinorUnits(d)
	if !ok {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidPrice, s)
	}
	return cents, nil
}

// ParseDollars converts a decimal dollar amount typed by the user to minor
// units ("9.99" -> 999, "9" -> 900).
func ParseDollars(s string) (int64, error) {
	cleaned, _ := stripCurrency(s)
	d, ok := parseNonNegative(cleaned)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	cents, ok := toMinorUnits(d)
	if !ok {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidPrice, s)
	}
	return cents, nil
}

// ParseQuantity converts a possibly fractional quantity to an integer by
// truncation ("4.9" -> 4).
func ParseQuantity(s string) (int, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	d, ok := parseNonNegative(cleaned)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	whole := d.Truncate(0)
	if whole.GreaterThan(maxQuantity) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidQuantity, s)
	}
	return int(whole.IntPart()), nil
}

// ParseWholeQuantity accepts only a non-negative integer no larger than
// math.MaxInt32.
func ParseWholeQuantity(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	return n, nil
}

// ParseDate parses a date cell. Four-digit year layouts are tried first
// since they are unambiguous.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// FormatPrice renders minor units as dollars, e.g. 123456 -> "$1,234.56".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(cents/100), cents%100)
}

// FormatCSVDate renders t the way the add flow writes dates (MM/DD/YYYY).
func FormatCSVDate(t time.Time) string {
	return t.Format(csvDateLayout)
}

// FormatTimestamp renders t for exports and record headers.
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}
