package payroll

import "github.com/shopspring/decimal"

// RateTable maps job group codes to hourly rates. Codes missing from Rates are billed
// at Default.
type RateTable struct {
	Rates   map[string]decimal.Decimal
	Default decimal.Decimal
}

// DefaultRateTable bills group A at 20.00 and every other code, B included, at 30.00.
// Unknown codes are not rejected: a typo in the job group bills at the B rate.
var DefaultRateTable = RateTable{
	Rates: map[string]decimal.Decimal{
		"A": decimal.NewFromInt(20),
	},
	Default: decimal.NewFromInt(30),
}

func (t RateTable) HourlyRate(jobGroup string) decimal.Decimal {
	if rate, ok := t.Rates[jobGroup]; ok {
		return rate
	}
	return t.Default
}
