// Package sru renders the Skatteverket SRU submission files for the K4
// form. The tag layout, section capacities and file structure follow the
// published format; none of it is an internal design choice.
package sru

import (
	"fmt"
	"strings"
	"time"

	"github.com/sboehler/k4/lib/report"
)

// Submitter identifies the person filing the declaration.
type Submitter struct {
	PersonalNumber string // 12 digits, dashes allowed
	Name           string
	Address        string
	ZipCode        string
	City           string
	Email          string
	Year           int // income year the declaration covers
}

// OrgNr returns the personal number the way the files expect it, digits
// only.
func (s Submitter) OrgNr() string {
	return strings.ReplaceAll(s.PersonalNumber, "-", "")
}

// Form capacities of one K4 page (blankett).
const (
	sectionARows = 9 // section A: listed shares and funds
	sectionDRows = 7 // section D: other securities, including options
)

// maxLabelLen caps the Beteckning field.
const maxLabelLen = 80

// Info renders the INFO.SRU delivery file.
func Info(s Submitter) []byte {
	var b strings.Builder
	lines := []string{
		"#DATABESKRIVNING_START",
		"#PRODUKT SRU",
		"#FILNAMN BLANKETTER.SRU",
		"#DATABESKRIVNING_SLUT",
		"#MEDIELEV_START",
		"#ORGNR " + s.OrgNr(),
		"#NAMN " + s.Name,
		"#ADRESS " + s.Address,
		"#POSTNR " + s.ZipCode,
		"#POSTORT " + s.City,
		"#EMAIL " + s.Email,
		"#MEDIELEV_SLUT",
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Blanketter renders the BLANKETTER.SRU body file. Records are split into
// the two categories the form distinguishes and chunked into pages of fixed
// capacity; each non-empty section carries its own page sums. An empty
// record set still produces one empty page, which the authority accepts as
// a nil declaration.
func Blanketter(records []*report.Record, s Submitter, stamp time.Time) []byte {
	var sectionA, sectionD []*report.Record
	for _, r := range records {
		if r.Option {
			sectionD = append(sectionD, r)
		} else {
			sectionA = append(sectionA, r)
		}
	}
	pages := pageCount(len(sectionA), sectionARows)
	if d := pageCount(len(sectionD), sectionDRows); d > pages {
		pages = d
	}
	if pages == 0 {
		pages = 1
	}
	var b strings.Builder
	for page := 0; page < pages; page++ {
		fmt.Fprintf(&b, "#BLANKETT K4-%dP4\n", s.Year)
		fmt.Fprintf(&b, "#IDENTITET %s %s\n", s.OrgNr(), stamp.Format("20060102 150405"))
		writeSection(&b, chunk(sectionA, page, sectionARows), sectionTags{
			row:  func(i int) string { return fmt.Sprintf("31%d", i) },
			sums: [4]string{"3300", "3301", "3304", "3305"},
		})
		writeSection(&b, chunk(sectionD, page, sectionDRows), sectionTags{
			row:  func(i int) string { return fmt.Sprintf("34%d", i+1) },
			sums: [4]string{"3500", "3501", "3503", "3504"},
		})
		fmt.Fprintf(&b, "#UPPGIFT 7014 %d\n", page+1)
		b.WriteString("#BLANKETTSLUT\n")
	}
	b.WriteString("#FIL_SLUT\n")
	return []byte(b.String())
}

func pageCount(n, capacity int) int {
	return (n + capacity - 1) / capacity
}

func chunk(records []*report.Record, page, capacity int) []*report.Record {
	start := page * capacity
	if start >= len(records) {
		return nil
	}
	end := start + capacity
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

type sectionTags struct {
	row  func(i int) string // per-row tag prefix, completed by the field digit
	sums [4]string          // proceeds, cost, gain, loss page sums
}

func writeSection(b *strings.Builder, records []*report.Record, tags sectionTags) {
	if len(records) == 0 {
		return
	}
	var proceeds, cost, gain, loss int64
	for i, r := range records {
		prefix := tags.row(i)
		writeField(b, prefix+"0", fmt.Sprintf("%d", r.Quantity))
		writeField(b, prefix+"1", truncate(r.Label))
		writeField(b, prefix+"2", fmt.Sprintf("%d", r.Proceeds))
		writeField(b, prefix+"3", fmt.Sprintf("%d", r.Cost))
		writeField(b, prefix+"4", fmt.Sprintf("%d", r.Gain))
		writeField(b, prefix+"5", fmt.Sprintf("%d", r.Loss))
		proceeds += r.Proceeds
		cost += r.Cost
		gain += r.Gain
		loss += r.Loss
	}
	for i, sum := range []int64{proceeds, cost, gain, loss} {
		writeField(b, tags.sums[i], fmt.Sprintf("%d", sum))
	}
}

func writeField(b *strings.Builder, tag, value string) {
	fmt.Fprintf(b, "#UPPGIFT %s %s\n", tag, value)
}

func truncate(label string) string {
	runes := []rune(label)
	if len(runes) <= maxLabelLen {
		return label
	}
	return string(runes[:maxLabelLen])
}
