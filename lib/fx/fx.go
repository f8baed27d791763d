// Package fx normalizes native-currency amounts to the reporting currency.
package fx

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sboehler/k4/lib/trades"
)

// ErrRateMissing is reported when an execution's currency is absent from the
// rate table. It aborts the run before any output is written.
var ErrRateMissing = fmt.Errorf("currency rate missing")

// Rates maps a currency code to its rate against the reporting currency.
type Rates map[string]decimal.Decimal

// NewRates builds a rate table from a plain float mapping.
func NewRates(rates map[string]float64) Rates {
	res := make(Rates, len(rates))
	for code, rate := range rates {
		res[code] = decimal.NewFromFloat(rate)
	}
	return res
}

// Rate returns the rate for the given currency code.
func (r Rates) Rate(code string) (decimal.Decimal, error) {
	rate, ok := r[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrRateMissing, code)
	}
	return rate, nil
}

// Amounts is the reporting-currency view of an execution's monetary fields.
// All values except BrokerPnL are absolute.
type Amounts struct {
	CostBasis  decimal.Decimal
	Proceeds   decimal.Decimal
	Commission decimal.Decimal
	BrokerPnL  decimal.Decimal
}

// Normalize converts the execution's monetary fields to the reporting
// currency. The execution itself is never mutated.
func (r Rates) Normalize(e *trades.Execution) (Amounts, error) {
	rate, err := r.Rate(e.Currency)
	if err != nil {
		return Amounts{}, err
	}
	return Amounts{
		CostBasis:  e.CostBasis.Mul(rate),
		Proceeds:   e.Proceeds.Mul(rate),
		Commission: e.Commission.Mul(rate),
		BrokerPnL:  e.BrokerPnL.Mul(rate),
	}, nil
}

// Acquired returns the total paid to acquire the position. Some feeds report
// the amount paid on exercise acquisitions under proceeds rather than cost
// basis, so the non-zero field wins.
func (a Amounts) Acquired() decimal.Decimal {
	if a.CostBasis.IsZero() {
		return a.Proceeds
	}
	return a.CostBasis
}

// Received returns the total received for delivering the position, with the
// same fallback as Acquired.
func (a Amounts) Received() decimal.Decimal {
	if a.Proceeds.IsZero() {
		return a.CostBasis
	}
	return a.Proceeds
}
