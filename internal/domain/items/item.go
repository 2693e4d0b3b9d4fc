package items

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MaxNameLength     = 100
	MaxIntegerDigits  = 10
	MaxFractionDigits = 2
)

// Item is a catalog entry. Name is unique across all items.
type Item struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// ValidateInput checks the name/price constraints and returns one message per
// violated constraint. An empty slice means the input is valid.
func ValidateInput(name string, price decimal.Decimal) []string {
	var problems []string

	if strings.TrimSpace(name) == "" {
		problems = append(problems, "Item name can not be empty")
	}
	if len(name) > MaxNameLength {
		problems = append(problems, "Item name can not be longer than 100 symbols")
	}
	if !price.IsPositive() {
		problems = append(problems, "Price must be positive value")
	}
	if integerDigits(price) > MaxIntegerDigits || price.Exponent() < -MaxFractionDigits {
		problems = append(problems, "Price must have at most 10 whole digits and 2 decimal places")
	}

	return problems
}

// integerDigits counts the digits before the decimal point.
func integerDigits(d decimal.Decimal) int {
	s := d.Abs().Truncate(0).String()
	if s == "0" {
		return 0
	}
	return len(s)
}
