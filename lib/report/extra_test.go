package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const extraHeader = "Symbol;Beteckning;Antal;Försäljningspris;Omkostnadsbelopp;Vinst;Förlust"

func TestReadExtra(t *testing.T) {
	input := strings.Join([]string{
		extraHeader,
		"ERIC-B;Ericsson B;200;15000;12000;3000;0",
		"VOLV-B;Volvo B;50;8000;9000;0;1000",
	}, "\n")

	got, err := ReadExtra(strings.NewReader(input))

	if err != nil {
		t.Fatalf("ReadExtra() returned unexpected error: %v", err)
	}
	want := []*Record{
		{Symbol: "ERIC-B", Label: "Ericsson B", Quantity: 200, Proceeds: 15000, Cost: 12000, Gain: 3000, External: true},
		{Symbol: "VOLV-B", Label: "Volvo B", Quantity: 50, Proceeds: 8000, Cost: 9000, Loss: 1000, External: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected diff (+got/-want):\n%s", diff)
	}
}

func TestReadExtraMissingColumn(t *testing.T) {
	input := "Symbol;Beteckning;Antal\nERIC-B;Ericsson B;200"

	_, err := ReadExtra(strings.NewReader(input))

	if !errors.Is(err, ErrExtraFormat) {
		t.Fatalf("ReadExtra() returned %v, want ErrExtraFormat", err)
	}
}

func TestReadExtraFractionalAmount(t *testing.T) {
	input := strings.Join([]string{
		extraHeader,
		"ERIC-B;Ericsson B;200;15000,50;12000;3000;0",
	}, "\n")

	_, err := ReadExtra(strings.NewReader(input))

	if !errors.Is(err, ErrExtraFormat) {
		t.Fatalf("ReadExtra() returned %v, want ErrExtraFormat", err)
	}
}
