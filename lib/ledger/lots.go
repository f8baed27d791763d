package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/sboehler/k4/lib/trades"
)

// lot is an open quantity of one instrument. The amount is the total paid
// to acquire it (long) or received for shorting it (short), in the
// reporting currency, together with the commission of the opening
// execution. Both shrink proportionally as the lot is consumed.
type lot struct {
	side       trades.Side
	qty        int64
	amount     decimal.Decimal
	commission decimal.Decimal
}

// queue is the FIFO queue of open lots of one instrument.
type queue struct {
	lots []*lot
}

func newQueue() *queue {
	return new(queue)
}

func (q *queue) empty() bool {
	return len(q.lots) == 0
}

func (q *queue) push(l *lot) {
	q.lots = append(q.lots, l)
}

func (q *queue) front() *lot {
	return q.lots[0]
}

// consume takes up to max units from the front lot and returns the
// prorated amount and commission together with the number of units matched.
// The caller loops until its closing quantity is exhausted.
func (q *queue) consume(max int64) (amount, commission decimal.Decimal, match int64) {
	l := q.front()
	match = max
	if l.qty < match {
		match = l.qty
	}
	if match == l.qty {
		amount, commission = l.amount, l.commission
		q.lots = q.lots[1:]
		return amount, commission, match
	}
	qty := decimal.NewFromInt(l.qty)
	portion := decimal.NewFromInt(match)
	amount = l.amount.Mul(portion).Div(qty)
	commission = l.commission.Mul(portion).Div(qty)
	l.qty -= match
	l.amount = l.amount.Sub(amount)
	l.commission = l.commission.Sub(commission)
	return amount, commission, match
}
