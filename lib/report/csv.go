package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// WriteCSV writes records in the review format: semicolon-separated with a
// decimal comma, one row per record, integer amounts as computed. When
// grouped is set, a trailing column documents how many partial executions
// each row combines.
func WriteCSV(w io.Writer, records []*Record, grouped bool) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	header := []string{
		"Antal",
		"Beteckning",
		"Symbol",
		"Försäljningspris",
		"Omkostnadsbelopp",
		"Vinst",
		"Förlust",
		"IBKRPnL",
		"Diff vs IBKR",
		"BuySell",
		"TradeDate",
	}
	if grouped {
		header = append(header, "GroupInfo")
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.Quantity, 10),
			r.Label,
			r.Symbol,
			strconv.FormatInt(r.Proceeds, 10),
			strconv.FormatInt(r.Cost, 10),
			strconv.FormatInt(r.Gain, 10),
			strconv.FormatInt(r.Loss, 10),
			formatDecimal(r.BrokerPnL),
			formatDecimal(r.Diff),
			sideField(r),
			dateField(r),
		}
		if grouped {
			row = append(row, groupInfo(r))
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func sideField(r *Record) string {
	if r.External {
		return ""
	}
	return r.Side.String()
}

func dateField(r *Record) string {
	if r.External || r.Date.IsZero() {
		return ""
	}
	return r.Date.Format("2006-01-02")
}

func groupInfo(r *Record) string {
	if r.Grouped < 2 {
		return ""
	}
	return fmt.Sprintf("Grouped %d partial executions", r.Grouped)
}

// formatDecimal renders a number with two decimals and a decimal comma.
func formatDecimal(d decimal.Decimal) string {
	return strings.ReplaceAll(d.StringFixed(2), ".", ",")
}
