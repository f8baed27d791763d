// Package report defines the realized gain records of a declaration, their
// grouping for partially filled trades and the rendered artifacts.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sboehler/k4/lib/common/compare"
	"github.com/sboehler/k4/lib/trades"
)

// Record is one realized disposal, the unit of the declaration. Proceeds and
// cost are whole reporting-currency amounts; they are rounded exactly once,
// when the record is created, so that grouping and pagination work on
// integers only.
type Record struct {
	Side     trades.Side
	Date     time.Time
	Label    string
	Symbol   string
	Quantity int64

	Proceeds int64
	Cost     int64
	Gain     int64
	Loss     int64

	// BrokerPnL is the broker's own realized figure, kept for comparison
	// only, and Diff is how far our computation deviates from it.
	BrokerPnL decimal.Decimal
	Diff      decimal.Decimal

	Option   bool
	Partial  bool
	External bool
	Grouped  int // number of partial executions merged into this record
}

// New creates a record from exact reporting-currency amounts. A closing
// execution that spans several lots yields one record per lot portion, so
// the quantity is passed separately. This is the only place where rounding
// happens.
func New(e *trades.Execution, qty int64, proceeds, cost, brokerPnL decimal.Decimal) *Record {
	res := &Record{
		Side:      e.Side,
		Date:      e.Date(),
		Label:     e.Description,
		Symbol:    e.Symbol,
		Quantity:  qty,
		Proceeds:  proceeds.Round(0).IntPart(),
		Cost:      cost.Round(0).IntPart(),
		BrokerPnL: brokerPnL,
		Option:    e.Asset == trades.Option,
		Partial:   e.Partial,
	}
	res.computeResult()
	return res
}

func (r *Record) computeResult() {
	net := r.Proceeds - r.Cost
	if net >= 0 {
		r.Gain, r.Loss = net, 0
	} else {
		r.Gain, r.Loss = 0, -net
	}
	r.Diff = decimal.NewFromInt(net).Sub(r.BrokerPnL).Round(2)
}

// Net returns the signed result of the record.
func (r *Record) Net() int64 {
	return r.Gain - r.Loss
}

type groupKey struct {
	side  trades.Side
	date  time.Time
	label string
}

// Group merges partial executions of the same logical trade into one record
// per direction, trade date and designation. Non-partial records and
// singleton groups pass through unchanged. The merged record sums all
// monetary fields and recomputes gain and loss from the sums, so a trade
// closed in many fills nets out the way a single fill would.
func Group(records []*Record) []*Record {
	groups := make(map[groupKey]*Record)
	var res []*Record
	for _, r := range records {
		if !r.Partial {
			res = append(res, r)
			continue
		}
		// A record may already be the merge of earlier fills, so its
		// count carries over rather than resetting.
		count := r.Grouped
		if count == 0 {
			count = 1
		}
		key := groupKey{side: r.Side, date: r.Date, label: r.Label}
		acc, ok := groups[key]
		if !ok {
			merged := *r
			merged.Grouped = count
			groups[key] = &merged
			res = append(res, &merged)
			continue
		}
		acc.Quantity += r.Quantity
		acc.Proceeds += r.Proceeds
		acc.Cost += r.Cost
		acc.BrokerPnL = acc.BrokerPnL.Add(r.BrokerPnL)
		acc.Grouped += count
		acc.computeResult()
	}
	return res
}

// Sort orders records for the declaration: by designation, then trade date,
// then direction. The sort is stable, so records the comparison cannot
// separate keep their ledger order.
func Sort(records []*Record) {
	compare.Sort(records, compare.Combine(
		func(a, b *Record) compare.Order { return compare.Ordered(a.Label, b.Label) },
		func(a, b *Record) compare.Order { return compare.Time(a.Date, b.Date) },
		func(a, b *Record) compare.Order { return compare.Ordered(a.Side, b.Side) },
	))
}

// Totals are the summary figures of a set of records.
type Totals struct {
	Gain int64
	Loss int64
	Diff decimal.Decimal
}

// Net returns the overall result.
func (t Totals) Net() int64 {
	return t.Gain - t.Loss
}

// Total sums the records.
func Total(records []*Record) Totals {
	var res Totals
	for _, r := range records {
		res.Gain += r.Gain
		res.Loss += r.Loss
		res.Diff = res.Diff.Add(r.Diff)
	}
	return res
}
