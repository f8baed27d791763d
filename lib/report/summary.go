package report

import (
	"io"

	"github.com/shopspring/decimal"

	"github.com/sboehler/k4/lib/common/table"
)

// Summary renders the totals of a record set as a text table.
func Summary(w io.Writer, title string, records []*Record, color bool) error {
	totals := Total(records)
	tbl := table.New(2)
	tbl.AddSeparatorRow()
	tbl.AddRow().AddText(title).AddText("SEK")
	tbl.AddSeparatorRow()
	tbl.AddRow().AddText("Total gain").AddNumber(decimal.NewFromInt(totals.Gain))
	tbl.AddRow().AddText("Total loss").AddNumber(decimal.NewFromInt(-totals.Loss))
	tbl.AddRow().AddText("Net result").AddNumber(decimal.NewFromInt(totals.Net()))
	tbl.AddSeparatorRow()
	tbl.AddRow().AddText("Diff vs broker").AddNumber(totals.Diff)
	tbl.AddSeparatorRow()
	renderer := table.TextRenderer{Color: color, Round: 2}
	return renderer.Render(tbl, w)
}
