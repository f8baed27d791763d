package table

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

// TextRenderer renders a table to text.
type TextRenderer struct {
	Color bool
	Round int32
}

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
)

// Render renders t to w.
func (r *TextRenderer) Render(t *Table, w io.Writer) error {
	color.NoColor = !r.Color
	widths := make([]int, t.Width())
	for _, row := range t.rows {
		for i, c := range row.cells {
			if l := r.minLength(c); widths[i] < l {
				widths[i] = l
			}
		}
	}
	for _, row := range t.rows {
		for i, c := range row.cells {
			var err error
			if c.isSep() {
				if i == 0 {
					_, err = io.WriteString(w, "+-")
				} else {
					_, err = io.WriteString(w, "-+-")
				}
			} else {
				if i == 0 {
					_, err = io.WriteString(w, "| ")
				} else {
					_, err = io.WriteString(w, " | ")
				}
			}
			if err != nil {
				return err
			}
			if err := r.renderCell(c, widths[i], w); err != nil {
				return err
			}
		}
		var err error
		if row.cells[len(row.cells)-1].isSep() {
			_, err = io.WriteString(w, "-+\n")
		} else {
			_, err = io.WriteString(w, " |\n")
		}
		if err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (r *TextRenderer) minLength(c cell) int {
	switch t := c.(type) {
	case textCell:
		return utf8.RuneCountInString(t.Content)
	case numberCell:
		return utf8.RuneCountInString(t.n.StringFixed(r.Round))
	}
	return 0
}

func (r *TextRenderer) renderCell(c cell, l int, w io.Writer) error {
	switch t := c.(type) {

	case separatorCell:
		_, err := io.WriteString(w, strings.Repeat("-", l))
		return err

	case textCell:
		if _, err := io.WriteString(w, t.Content); err != nil {
			return err
		}
		_, err := io.WriteString(w, strings.Repeat(" ", l-utf8.RuneCountInString(t.Content)))
		return err

	case numberCell:
		s := t.n.StringFixed(r.Round)
		if _, err := io.WriteString(w, strings.Repeat(" ", l-utf8.RuneCountInString(s))); err != nil {
			return err
		}
		var err error
		switch {
		case t.n.LessThan(decimal.Zero):
			_, err = red.Fprint(w, s)
		case t.n.GreaterThan(decimal.Zero):
			_, err = green.Fprint(w, s)
		default:
			_, err = fmt.Fprint(w, s)
		}
		return err
	}
	return fmt.Errorf("%v is not a valid cell type", c)
}
