package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrExtraFormat is reported when an extra-records file does not follow the
// expected layout.
var ErrExtraFormat = fmt.Errorf("invalid extra records file")

// extraColumns is the header of an extra-records file. The columns mirror
// the declaration form fields, with whole reporting-currency amounts.
var extraColumns = []string{
	"Symbol",
	"Beteckning",
	"Antal",
	"Försäljningspris",
	"Omkostnadsbelopp",
	"Vinst",
	"Förlust",
}

// ReadExtra parses records settled outside the broker, e.g. at another
// institution, for inclusion in the same declaration. Amounts must already
// be whole reporting-currency integers; anything else is rejected, since
// silently rounding here would break the once-only rounding rule.
func ReadExtra(r io.Reader) ([]*Record, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrExtraFormat, err)
	}
	cols := make(map[string]int)
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range extraColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %s", ErrExtraFormat, name)
		}
	}
	var res []*Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExtraFormat, err)
		}
		rec, err := parseExtra(row, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrExtraFormat, line, err)
		}
		res = append(res, rec)
	}
}

func parseExtra(row []string, cols map[string]int) (*Record, error) {
	field := func(name string) string {
		return strings.TrimSpace(row[cols[name]])
	}
	number := func(name string) (int64, error) {
		n, err := strconv.ParseInt(field(name), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("column %s: whole number required, got %q", name, field(name))
		}
		return n, nil
	}
	rec := &Record{
		Symbol:   field("Symbol"),
		Label:    field("Beteckning"),
		External: true,
	}
	var err error
	if rec.Quantity, err = number("Antal"); err != nil {
		return nil, err
	}
	if rec.Proceeds, err = number("Försäljningspris"); err != nil {
		return nil, err
	}
	if rec.Cost, err = number("Omkostnadsbelopp"); err != nil {
		return nil, err
	}
	if rec.Gain, err = number("Vinst"); err != nil {
		return nil, err
	}
	if rec.Loss, err = number("Förlust"); err != nil {
		return nil, err
	}
	return rec, nil
}
