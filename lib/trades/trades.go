// Package trades defines the broker execution model. The free-text codes of
// the feed are sniffed exactly once, at ingestion, into a typed kind; the
// matching engine branches on the typed form only.
package trades

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of an execution.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// AssetClass distinguishes the two reportable instrument classes.
type AssetClass int

const (
	Stock AssetClass = iota
	Option
)

// Kind is the typed classification of an execution, derived from its side,
// open/close indicator and notes/codes.
type Kind int

const (
	// Open establishes or extends a position.
	Open Kind = iota
	// Close reduces a position and realizes gain or loss.
	Close
	// OptionExercise is the option leg removed by exercising a long option.
	OptionExercise
	// OptionAssignment is the option leg removed by assignment of a short option.
	OptionAssignment
	// ExerciseAcquire is the stock leg of an exercised long call.
	ExerciseAcquire
	// ExerciseDeliver is the stock leg of an exercised long put.
	ExerciseDeliver
	// AssignmentDeliver is the stock leg of an assigned short call.
	AssignmentDeliver
	// AssignmentAcquire is the stock leg of an assigned short put.
	AssignmentAcquire
)

// Execution is one fill from the broker feed. It is immutable after
// ingestion; all derived state lives in the ledger.
type Execution struct {
	Time        time.Time
	Side        Side
	Kind        Kind
	Asset       AssetClass
	Description string
	Symbol      string
	Underlying  string
	Quantity    int64 // absolute number of units

	// Monetary fields are absolute totals in the execution's currency.
	CostBasis  decimal.Decimal
	Proceeds   decimal.Decimal
	Commission decimal.Decimal
	BrokerPnL  decimal.Decimal // broker-reported realized P/L, informational only
	Currency   string

	Partial bool // part of a partially filled logical trade
	Codes   string
}

// Date returns the trade date of the execution.
func (e *Execution) Date() time.Time {
	y, m, d := e.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Opens reports whether the execution establishes a position.
func (e *Execution) Opens() bool {
	switch e.Kind {
	case Open, ExerciseAcquire, AssignmentAcquire:
		return true
	}
	return false
}

// classify derives the typed kind from the raw row content. The codes field
// is a semicolon-separated token list; `P` marks a partial execution, `Ex`
// an exercise and `A` an assignment.
func classify(side Side, closing bool, asset AssetClass, codes string) (Kind, bool) {
	var partial, exercise, assignment bool
	for _, code := range strings.Split(codes, ";") {
		switch strings.TrimSpace(code) {
		case "P":
			partial = true
		case "Ex":
			exercise = true
		case "A":
			assignment = true
		}
	}
	switch {
	case asset == Option && exercise:
		return OptionExercise, partial
	case asset == Option && assignment:
		return OptionAssignment, partial
	case asset == Stock && exercise && side == Buy:
		return ExerciseAcquire, partial
	case asset == Stock && exercise && side == Sell:
		return ExerciseDeliver, partial
	case asset == Stock && assignment && side == Sell:
		return AssignmentDeliver, partial
	case asset == Stock && assignment && side == Buy:
		return AssignmentAcquire, partial
	case closing:
		return Close, partial
	}
	return Open, partial
}

// IsPut reports whether an option description denotes a put contract.
func IsPut(description string) bool {
	return strings.Contains(description, " P ") || strings.HasSuffix(description, " P")
}
