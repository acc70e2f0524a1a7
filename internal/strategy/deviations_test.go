package strategy

import (
	"errors"
	"testing"

	"github.com/edgecount/edgecount/internal/deck"
	"github.com/edgecount/edgecount/protocol"
)

func TestStandardDeviationCount(t *testing.T) {
	table, err := NewBaselineTable()
	if err != nil {
		t.Fatal(err)
	}
	set, err := StandardDeviations(table)
	if err != nil {
		t.Fatalf("StandardDeviations: %v", err)
	}
	if got, want := set.Count(), 20; got != want {
		t.Errorf("deviation count = %d, want %d (Illustrious 18 subset + Fab 4)", got, want)
	}
}

func TestTriggered(t *testing.T) {
	tests := []struct {
		name      string
		dev       Deviation
		trueCount float64
		margin    float64
		want      bool
	}{
		{"at threshold fires", Deviation{Threshold: 0, Direction: AboveOrEqual}, 0, 0, true},
		{"above threshold fires", Deviation{Threshold: 2, Direction: AboveOrEqual}, 3.5, 0, true},
		{"below threshold does not", Deviation{Threshold: 2, Direction: AboveOrEqual}, 1.9, 0, false},
		{"below-direction fires under", Deviation{Threshold: -1, Direction: Below}, -1.5, 0, true},
		{"below-direction exact does not", Deviation{Threshold: -1, Direction: Below}, -1.0, 0, false},
		{"margin raises the bar", Deviation{Threshold: 2, Direction: AboveOrEqual}, 2.5, 1.0, false},
		{"margin cleared", Deviation{Threshold: 2, Direction: AboveOrEqual}, 3.0, 1.0, true},
		{"margin deepens below trigger", Deviation{Threshold: -1, Direction: Below}, -1.5, 1.0, false},
		{"margin deepened cleared", Deviation{Threshold: -1, Direction: Below}, -2.5, 1.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dev.Triggered(tt.trueCount, tt.margin); got != tt.want {
				t.Errorf("Triggered(%v, %v) = %v, want %v", tt.trueCount, tt.margin, got, tt.want)
			}
		})
	}
}

func TestLookupOrdering(t *testing.T) {
	table, err := NewBaselineTable()
	if err != nil {
		t.Fatal(err)
	}
	set, err := StandardDeviations(table)
	if err != nil {
		t.Fatal(err)
	}

	// 15 vs 10 carries both the Fab 4 surrender and the Illustrious 18
	// stand; surrender has higher priority.
	devs := set.Lookup(deck.Category{Kind: deck.Hard, Value: 15}, 10)
	if len(devs) != 2 {
		t.Fatalf("expected 2 deviations for hard 15 vs 10, got %d", len(devs))
	}
	if devs[0].Action != Surrender || devs[1].Action != Stand {
		t.Errorf("expected surrender before stand, got %v then %v", devs[0].Action, devs[1].Action)
	}
}

func TestDeviationMustReferenceCoveredEntry(t *testing.T) {
	table, err := NewBaselineTable()
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewDeviationSet(table, []Deviation{
		{ID: "BOGUS", Kind: deck.Hard, Value: 4, DealerUp: 2, Action: Stand},
	})
	if !errors.Is(err, protocol.ErrBadRules) {
		t.Errorf("uncovered deviation should be BAD_RULES, got %v", err)
	}
}
