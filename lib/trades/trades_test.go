package trades

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		desc        string
		side        Side
		closing     bool
		asset       AssetClass
		codes       string
		wantKind    Kind
		wantPartial bool
	}{
		{
			desc:     "plain open",
			side:     Buy,
			asset:    Stock,
			wantKind: Open,
		},
		{
			desc:     "plain close",
			side:     Sell,
			closing:  true,
			asset:    Stock,
			wantKind: Close,
		},
		{
			desc:        "partial close",
			side:        Sell,
			closing:     true,
			asset:       Stock,
			codes:       "P",
			wantKind:    Close,
			wantPartial: true,
		},
		{
			desc:     "option exercise leg",
			side:     Sell,
			closing:  true,
			asset:    Option,
			codes:    "Ex",
			wantKind: OptionExercise,
		},
		{
			desc:     "option assignment leg",
			side:     Buy,
			closing:  true,
			asset:    Option,
			codes:    "A",
			wantKind: OptionAssignment,
		},
		{
			desc:     "exercised call stock leg",
			side:     Buy,
			asset:    Stock,
			codes:    "Ex",
			wantKind: ExerciseAcquire,
		},
		{
			desc:     "exercised put stock leg",
			side:     Sell,
			asset:    Stock,
			codes:    "Ex",
			wantKind: ExerciseDeliver,
		},
		{
			desc:     "assigned call stock leg",
			side:     Sell,
			asset:    Stock,
			codes:    "A",
			wantKind: AssignmentDeliver,
		},
		{
			desc:     "assigned put stock leg",
			side:     Buy,
			asset:    Stock,
			codes:    "A",
			wantKind: AssignmentAcquire,
		},
		{
			desc:        "combined partial exercise",
			side:        Buy,
			asset:       Stock,
			codes:       "Ex;P",
			wantKind:    ExerciseAcquire,
			wantPartial: true,
		},
		{
			desc:     "unknown codes fall back to indicator",
			side:     Sell,
			closing:  true,
			asset:    Stock,
			codes:    "O;IA",
			wantKind: Close,
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			kind, partial := classify(test.side, test.closing, test.asset, test.codes)

			if kind != test.wantKind {
				t.Errorf("classify() kind = %v, want %v", kind, test.wantKind)
			}
			if partial != test.wantPartial {
				t.Errorf("classify() partial = %t, want %t", partial, test.wantPartial)
			}
		})
	}
}

func TestIsPut(t *testing.T) {
	tests := []struct {
		description string
		want        bool
	}{
		{"TSLA 17MAR23 200.0 P", true},
		{"TSLA 17MAR23 200.0 P ADJ", true},
		{"TSLA 17MAR23 200.0 C", false},
		{"PG", false},
	}
	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			if got := IsPut(test.description); got != test.want {
				t.Errorf("IsPut(%q) = %t, want %t", test.description, got, test.want)
			}
		})
	}
}
