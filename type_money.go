package hobby

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency used to format amounts when none is configured.
const DefaultCurrency = "KRW"

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// P returns a price that is set to value.
func P[T float64 | int | int64 | decimal.Decimal](value T) decimal.NullDecimal {
	return decimal.NewNullDecimal(newDecimal(value))
}

// orZero coalesces a missing price to zero.
func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// ParseAmount parses a user supplied amount.
//
// It returns a *ValidationError if s is not a number.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Reason: "not a number: " + s}
	}
	return d, nil
}

// ParsePrice parses an optional user supplied price. The empty string is a
// missing price.
func ParsePrice(field, s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, &ValidationError{Field: field, Reason: "not a number: " + s}
	}
	return decimal.NewNullDecimal(d), nil
}

// FormatAmount formats d in currency cur using the currency grapheme and
// separators.
func FormatAmount(d decimal.Decimal, cur string) string {
	if cur == "" {
		cur = DefaultCurrency
	}
	// to get a never nil currency I need to call the Money constructor
	c := *money.New(0, cur).Currency()
	minor := d.Shift(int32(c.Fraction)).Round(0)
	return c.Formatter().Format(minor.IntPart())
}

// FormatPrice formats an optional price, a missing price is "-".
func FormatPrice(d decimal.NullDecimal, cur string) string {
	if !d.Valid {
		return "-"
	}
	return FormatAmount(d.Decimal, cur)
}

// SignedAmount formats d with an explicit sign.
func SignedAmount(d decimal.Decimal, cur string) string {
	if d.IsPositive() {
		return "+" + FormatAmount(d, cur)
	}
	return FormatAmount(d, cur)
}
