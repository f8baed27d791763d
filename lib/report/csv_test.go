package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"

	"github.com/sboehler/k4/lib/trades"
)

func testRecords() []*Record {
	return []*Record{
		{
			Side:      trades.Sell,
			Date:      time.Date(2023, 4, 12, 0, 0, 0, 0, time.UTC),
			Label:     "TSLA",
			Symbol:    "TSLA",
			Quantity:  100,
			Proceeds:  11990,
			Cost:      10100,
			Gain:      1890,
			BrokerPnL: decimal.RequireFromString("1900"),
			Diff:      decimal.RequireFromString("-10"),
		},
		{
			Side:      trades.Sell,
			Date:      time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
			Label:     "AAPL",
			Symbol:    "AAPL",
			Quantity:  100,
			Proceeds:  1200,
			Cost:      1050,
			Gain:      150,
			BrokerPnL: decimal.RequireFromString("150"),
			Partial:   true,
			Grouped:   2,
		},
		{
			Symbol:   "ERIC-B",
			Label:    "Ericsson B",
			Quantity: 200,
			Proceeds: 15000,
			Cost:     12000,
			Gain:     3000,
			External: true,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	if err := WriteCSV(&buf, testRecords(), false); err != nil {
		t.Fatalf("WriteCSV() returned unexpected error: %v", err)
	}

	goldie.New(t).Assert(t, "detailed", buf.Bytes())
}

func TestWriteCSVGrouped(t *testing.T) {
	var buf bytes.Buffer

	if err := WriteCSV(&buf, testRecords(), true); err != nil {
		t.Fatalf("WriteCSV() returned unexpected error: %v", err)
	}

	goldie.New(t).Assert(t, "grouped", buf.Bytes())
}
