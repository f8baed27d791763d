package trades

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// requiredColumns are the columns the feed must carry. IBCommission is
// special-cased: a feed without it is accepted with zero commissions.
var requiredColumns = []string{
	"DateTime",
	"Buy/Sell",
	"Open/CloseIndicator",
	"AssetClass",
	"Description",
	"Quantity",
	"CostBasis",
	"Proceeds",
	"CurrencyPrimary",
	"FifoPnlRealized",
	"Notes/Codes",
	"Symbol",
	"UnderlyingSymbol",
}

// Feed is the parsed execution feed.
type Feed struct {
	Executions []*Execution
	Warnings   []string
}

// Read parses an execution feed: semicolon-separated, decimal comma, one
// header row. Rows missing a required column fail before any matching begins.
func Read(r io.Reader) (*Feed, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading feed header: %w", err)
	}
	cols := make(map[string]int)
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	feed := new(Feed)
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column in execution feed: %s", name)
		}
	}
	commission, hasCommission := cols["IBCommission"]
	if !hasCommission {
		feed.Warnings = append(feed.Warnings, "missing IBCommission column, assuming zero commissions")
	}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			return feed, nil
		}
		if err != nil {
			return nil, err
		}
		e, err := parseExecution(row, cols, commission, hasCommission)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		feed.Executions = append(feed.Executions, e)
	}
}

func parseExecution(row []string, cols map[string]int, commission int, hasCommission bool) (*Execution, error) {
	field := func(name string) string {
		return strings.TrimSpace(row[cols[name]])
	}
	ts, err := parseDateTime(field("DateTime"))
	if err != nil {
		return nil, err
	}
	var side Side
	switch field("Buy/Sell") {
	case "BUY":
		side = Buy
	case "SELL":
		side = Sell
	default:
		return nil, fmt.Errorf("invalid side %q", field("Buy/Sell"))
	}
	asset := Stock
	if field("AssetClass") == "OPT" {
		asset = Option
	}
	qty, err := parseDecimal(field("Quantity"))
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %w", err)
	}
	costBasis, err := parseDecimal(field("CostBasis"))
	if err != nil {
		return nil, fmt.Errorf("invalid cost basis: %w", err)
	}
	proceeds, err := parseDecimal(field("Proceeds"))
	if err != nil {
		return nil, fmt.Errorf("invalid proceeds: %w", err)
	}
	pnl, err := parseDecimal(field("FifoPnlRealized"))
	if err != nil {
		return nil, fmt.Errorf("invalid realized P/L: %w", err)
	}
	comm := decimal.Zero
	if hasCommission {
		if comm, err = parseDecimal(strings.TrimSpace(row[commission])); err != nil {
			return nil, fmt.Errorf("invalid commission: %w", err)
		}
	}
	closing := strings.Contains(field("Open/CloseIndicator"), "C")
	codes := field("Notes/Codes")
	kind, partial := classify(side, closing, asset, codes)
	return &Execution{
		Time:        ts,
		Side:        side,
		Kind:        kind,
		Asset:       asset,
		Description: field("Description"),
		Symbol:      field("Symbol"),
		Underlying:  field("UnderlyingSymbol"),
		// fractional units are cut off, their proceeds are still counted
		Quantity:   qty.Abs().IntPart(),
		CostBasis:  costBasis.Abs(),
		Proceeds:   proceeds.Abs(),
		Commission: comm.Abs(),
		BrokerPnL:  pnl,
		Currency:   field("CurrencyPrimary"),
		Partial:    partial,
		Codes:      codes,
	}, nil
}

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"20060102;150405",
	"2006-01-02",
	"20060102",
}

func parseDateTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// parseDecimal parses a decimal-comma number. Empty fields count as zero.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}
