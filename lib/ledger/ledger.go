// Package ledger implements the lot matching engine. It consumes executions
// in timestamp order, keeps a FIFO queue of open lots per instrument and
// emits one realized gain record per consumed lot portion.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sboehler/k4/lib/common/compare"
	"github.com/sboehler/k4/lib/common/dict"
	"github.com/sboehler/k4/lib/fx"
	"github.com/sboehler/k4/lib/report"
	"github.com/sboehler/k4/lib/trades"
)

// Ledger holds the open lots of a run. It is not safe for concurrent use;
// the FIFO guarantee requires executions to be processed strictly in order.
type Ledger struct {
	rates    fx.Rates
	lots     map[instrument]*queue
	premiums map[premiumKey]decimal.Decimal

	// Tick, if set, is called once per processed execution.
	Tick func()
}

// Result is the outcome of a run: the realized records in processing order,
// plus the data quality warnings encountered along the way.
type Result struct {
	Records  []*report.Record
	Warnings []string
}

// New creates an empty ledger.
func New(rates fx.Rates) *Ledger {
	return &Ledger{
		rates:    rates,
		lots:     make(map[instrument]*queue),
		premiums: make(map[premiumKey]decimal.Decimal),
	}
}

type instrument struct {
	symbol string
	asset  trades.AssetClass
}

func key(e *trades.Execution) instrument {
	return instrument{symbol: e.Symbol, asset: e.Asset}
}

type premiumKey struct {
	date   time.Time
	symbol string
	kind   trades.Kind // the kind of the stock leg the premium belongs to
}

// Process runs all executions through the ledger. The input is sorted
// stably by timestamp first, then handled one trade date at a time, so that
// an option exercised on the same day as its stock leg is linked regardless
// of the order the feed reports the two legs in.
func (l *Ledger) Process(execs []*trades.Execution) (*Result, error) {
	sorted := make([]*trades.Execution, len(execs))
	copy(sorted, execs)
	compare.Sort(sorted, func(a, b *trades.Execution) compare.Order {
		return compare.Time(a.Time, b.Time)
	})
	res := new(Result)
	for start := 0; start < len(sorted); {
		end := start
		for end < len(sorted) && sorted[end].Date().Equal(sorted[start].Date()) {
			end++
		}
		if err := l.processDay(sorted[start:end], res); err != nil {
			return nil, err
		}
		start = end
	}
	return res, nil
}

// processDay links option exercise and assignment legs to their stock legs
// before anything else on that date is matched, then processes the rest in
// feed order.
func (l *Ledger) processDay(day []*trades.Execution, res *Result) error {
	linked := make(map[*trades.Execution]bool)
	for _, e := range day {
		if e.Kind != trades.OptionExercise && e.Kind != trades.OptionAssignment {
			continue
		}
		stockKind, ok := stockLegKind(e)
		if !ok || !hasStockLeg(day, e, stockKind) {
			continue
		}
		linked[e] = true
		if err := l.registerPremium(e, stockKind, res); err != nil {
			return err
		}
		l.tick()
	}
	for _, e := range day {
		if linked[e] {
			continue
		}
		if err := l.process(e, res); err != nil {
			return err
		}
		l.tick()
	}
	return nil
}

func (l *Ledger) tick() {
	if l.Tick != nil {
		l.Tick()
	}
}

// stockLegKind returns the kind of the stock leg an exercised or assigned
// option pairs with.
func stockLegKind(e *trades.Execution) (trades.Kind, bool) {
	put := trades.IsPut(e.Description)
	switch {
	case e.Kind == trades.OptionExercise && !put:
		return trades.ExerciseAcquire, true
	case e.Kind == trades.OptionExercise && put:
		return trades.ExerciseDeliver, true
	case e.Kind == trades.OptionAssignment && !put:
		return trades.AssignmentDeliver, true
	case e.Kind == trades.OptionAssignment && put:
		return trades.AssignmentAcquire, true
	}
	return 0, false
}

func hasStockLeg(day []*trades.Execution, opt *trades.Execution, kind trades.Kind) bool {
	if opt.Underlying == "" {
		return false
	}
	for _, e := range day {
		if e.Asset == trades.Stock && e.Kind == kind && e.Symbol == opt.Underlying {
			return true
		}
	}
	return false
}

// registerPremium removes the option's lots from their queue without
// emitting a record and files the premium for the stock leg to pick up. An
// exercised long option contributes the premium paid to open it, an
// assigned short option the premium received.
func (l *Ledger) registerPremium(e *trades.Execution, stockKind trades.Kind, res *Result) error {
	amounts, err := l.rates.Normalize(e)
	if err != nil {
		return err
	}
	q := l.queue(e)
	var premium decimal.Decimal
	if q.empty() {
		// The feed does not carry the opening of this option, so the
		// broker-reported basis of the leg is the best premium available.
		premium = amounts.Acquired()
		res.warnf("%s: no open lots for %s, using broker-reported premium", e.Date().Format("2006-01-02"), e.Description)
	} else {
		remaining := e.Quantity
		for remaining > 0 && !q.empty() {
			amount, commission, match := q.consume(remaining)
			if e.Kind == trades.OptionExercise {
				premium = premium.Add(amount).Add(commission)
			} else {
				premium = premium.Add(amount).Sub(commission)
			}
			remaining -= match
		}
		if remaining > 0 {
			res.warnf("%s: %s exceeds open lots by %d units", e.Date().Format("2006-01-02"), e.Description, remaining)
		}
	}
	pk := premiumKey{date: e.Date(), symbol: e.Underlying, kind: stockKind}
	l.premiums[pk] = l.premiums[pk].Add(premium)
	return nil
}

// takePremium consumes the premium filed for the given stock leg, if any.
func (l *Ledger) takePremium(e *trades.Execution) decimal.Decimal {
	pk := premiumKey{date: e.Date(), symbol: e.Symbol, kind: e.Kind}
	premium, ok := l.premiums[pk]
	if !ok {
		return decimal.Zero
	}
	delete(l.premiums, pk)
	return premium
}

func (l *Ledger) queue(e *trades.Execution) *queue {
	return dict.GetDefault(l.lots, key(e), newQueue)
}

// cash returns the execution's own cash amount. Exercise and assignment
// stock legs may report the strike settlement under either field, so the
// non-zero one wins there. Plain executions use proceeds as reported; a
// worthless close really has zero proceeds.
func cash(e *trades.Execution, a fx.Amounts) decimal.Decimal {
	switch e.Kind {
	case trades.ExerciseAcquire, trades.AssignmentAcquire, trades.ExerciseDeliver, trades.AssignmentDeliver:
		return a.Received()
	}
	return a.Proceeds
}

func (l *Ledger) process(e *trades.Execution, res *Result) error {
	amounts, err := l.rates.Normalize(e)
	if err != nil {
		return err
	}
	if e.Opens() {
		l.open(e, amounts)
		return nil
	}
	l.close(e, amounts, res)
	return nil
}

// open pushes a new lot. The premium of a linked option adjusts the basis
// of the lot: an exercised call makes the acquired shares more expensive,
// an assigned put makes them cheaper.
func (l *Ledger) open(e *trades.Execution, amounts fx.Amounts) {
	amount := cash(e, amounts)
	switch e.Kind {
	case trades.ExerciseAcquire:
		amount = amount.Add(l.takePremium(e))
	case trades.AssignmentAcquire:
		amount = amount.Sub(l.takePremium(e))
	}
	l.queue(e).push(&lot{
		side:       e.Side,
		qty:        e.Quantity,
		amount:     amount,
		commission: amounts.Commission,
	})
}

// close consumes open lots FIFO and emits one record per lot portion. A
// closing quantity beyond the tracked open lots is tolerated: the excess is
// matched against a synthetic zero cost lot and flagged, since aborting the
// whole run over a feed gap at the period boundary would be worse.
func (l *Ledger) close(e *trades.Execution, amounts fx.Amounts, res *Result) {
	var premium decimal.Decimal
	switch e.Kind {
	case trades.ExerciseDeliver, trades.AssignmentDeliver:
		premium = l.takePremium(e)
	case trades.OptionExercise, trades.OptionAssignment:
		res.warnf("%s: no matching stock leg for %s, reported standalone", e.Date().Format("2006-01-02"), e.Description)
	}
	q := l.queue(e)
	total := decimal.NewFromInt(e.Quantity)
	share := func(d decimal.Decimal, match int64) decimal.Decimal {
		return d.Mul(decimal.NewFromInt(match)).Div(total)
	}
	remaining := e.Quantity
	for remaining > 0 {
		if q.empty() {
			res.warnf("%s: closing %d units of %s without open lots, assuming zero cost", e.Date().Format("2006-01-02"), remaining, e.Description)
			q.push(&lot{side: other(e.Side), qty: remaining})
		}
		long := q.front().side == trades.Buy
		amount, commission, match := q.consume(remaining)
		var proceeds, cost decimal.Decimal
		if long {
			proceeds = share(cash(e, amounts), match).Sub(share(amounts.Commission, match))
			cost = amount.Add(commission)
		} else {
			proceeds = amount.Sub(commission)
			cost = share(cash(e, amounts), match).Add(share(amounts.Commission, match))
		}
		switch e.Kind {
		case trades.ExerciseDeliver:
			proceeds = proceeds.Sub(share(premium, match))
		case trades.AssignmentDeliver:
			proceeds = proceeds.Add(share(premium, match))
		}
		res.Records = append(res.Records, report.New(e, match, proceeds, cost, share(amounts.BrokerPnL, match)))
		remaining -= match
	}
}

func other(s trades.Side) trades.Side {
	if s == trades.Buy {
		return trades.Sell
	}
	return trades.Buy
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
