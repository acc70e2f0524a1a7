package strategy

import (
	"testing"

	"github.com/edgecount/edgecount/internal/deck"
	"github.com/edgecount/edgecount/internal/rules"
)

func newTestEngine(t *testing.T, mutate func(*rules.GameRules), margin float64) *Engine {
	t.Helper()
	r := rules.Default()
	if mutate != nil {
		mutate(&r)
	}
	e, err := NewEngine(r, margin)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func sit(t *testing.T, cards, dealerUp string, trueCount float64) Situation {
	t.Helper()
	up, err := deck.ParseCard(dealerUp)
	if err != nil {
		t.Fatal(err)
	}
	return Situation{
		Hand:      deck.NewHand(deck.MustParseCards(cards)...),
		DealerUp:  up,
		TrueCount: trueCount,
	}
}

func TestBaselineDecisions(t *testing.T) {
	e := newTestEngine(t, nil, 0)

	tests := []struct {
		name      string
		cards     string
		dealerUp  string
		trueCount float64
		want      Action
	}{
		{"hard 16 vs 7 hits at neutral count", "Th6d", "7c", 0, Hit},
		{"hard 11 doubles", "6h5d", "9c", 0, Double},
		{"soft 18 vs 9 hits", "Ah7d", "9c", 0, Hit},
		{"soft 18 vs 3 doubles", "Ah7d", "3c", 0, Double},
		{"eights split", "8h8d", "Tc", 0, Split},
		{"aces split", "AhAd", "6c", 0, Split},
		{"hard 20 stands", "ThQd", "Ac", 0, Stand},
		{"twelve vs two hits", "Th2d", "2c", 0, Hit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Decide(sit(t, tt.cards, tt.dealerUp, tt.trueCount))
			if d.Action != tt.want {
				t.Errorf("Decide = %v, want %v", d.Action, tt.want)
			}
			if d.Deviated() {
				t.Errorf("baseline play reported as deviation %q", d.DeviationID)
			}
		})
	}
}

func TestIllustrious18Fires(t *testing.T) {
	e := newTestEngine(t, func(r *rules.GameRules) { r.SurrenderAllowed = false }, 0)

	tests := []struct {
		name      string
		cards     string
		dealerUp  string
		trueCount float64
		want      Action
		deviation string
	}{
		{"sixteen vs ten stands at zero", "Th6d", "Ts", 0, Stand, "ILL_16v10"},
		{"sixteen vs ten hits below zero", "Th6d", "Ts", -0.5, Hit, ""},
		{"fifteen vs ten stands at four", "Th5d", "Ts", 4, Stand, "ILL_15v10"},
		{"eleven vs ace doubles at one", "6h5d", "As", 1, Double, "ILL_11vA"},
		{"ten vs ten doubles at four", "6h4d", "Ts", 4.2, Double, "ILL_10v10"},
		{"twelve vs three stands at two", "Th2d", "3s", 2, Stand, "ILL_12v3"},
		{"nine vs two doubles at one", "5h4d", "2s", 1, Double, "ILL_9v2"},
		{"thirteen vs two hits at minus two", "Th3d", "2s", -2, Hit, "ILL_13v2"},
		{"twelve vs four hits below zero", "Th2d", "4s", -0.5, Hit, "ILL_12v4"},
		{"twelve vs six hits at minus two", "Th2d", "6s", -2, Hit, "ILL_12v6"},
		{"tens split vs ace at six", "ThTd", "As", 6, Split, "ILL_20vA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Decide(sit(t, tt.cards, tt.dealerUp, tt.trueCount))
			if d.Action != tt.want {
				t.Errorf("Decide = %v, want %v", d.Action, tt.want)
			}
			if d.DeviationID != tt.deviation {
				t.Errorf("deviation = %q, want %q", d.DeviationID, tt.deviation)
			}
		})
	}
}

func TestFab4Surrender(t *testing.T) {
	e := newTestEngine(t, nil, 0)

	tests := []struct {
		name      string
		cards     string
		dealerUp  string
		trueCount float64
		want      Action
	}{
		{"fifteen vs ten at zero", "9c6d", "Ts", 0, Surrender},
		{"fifteen vs ten below zero", "9c6d", "Ts", -0.5, Hit},
		{"fifteen vs ace at one", "9c6d", "As", 1, Surrender},
		{"fourteen vs ten at three", "9c5d", "Ts", 3, Surrender},
		{"fifteen vs nine at two", "9c6d", "9s", 2, Surrender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Decide(sit(t, tt.cards, tt.dealerUp, tt.trueCount))
			if d.Action != tt.want {
				t.Errorf("Decide = %v, want %v", d.Action, tt.want)
			}
		})
	}
}

func TestFab4FallsBackWithoutSurrender(t *testing.T) {
	e := newTestEngine(t, func(r *rules.GameRules) { r.SurrenderAllowed = false }, 0)
	d := e.Decide(sit(t, "9c6d", "Ts", 0))
	if d.Action != Hit {
		t.Errorf("fifteen vs ten without surrender should HIT, got %v", d.Action)
	}
}

func TestSurrenderOnlyOnFirstTwoCards(t *testing.T) {
	e := newTestEngine(t, nil, 0)
	d := e.Decide(sit(t, "9c3d3h", "Ts", 0))
	if d.Action == Surrender {
		t.Error("three-card fifteen must not surrender")
	}
}

func TestDeviationMargin(t *testing.T) {
	// With a 1.0 margin the 16v10 stand needs TC >= 1.0
	e := newTestEngine(t, func(r *rules.GameRules) { r.SurrenderAllowed = false }, 1.0)

	if d := e.Decide(sit(t, "Th6d", "Ts", 0.5)); d.Action != Hit {
		t.Errorf("margin should suppress the deviation at TC 0.5, got %v", d.Action)
	}
	if d := e.Decide(sit(t, "Th6d", "Ts", 1.0)); d.Action != Stand {
		t.Errorf("deviation should fire once the margin is cleared, got %v", d.Action)
	}
}

func TestDoubleLegality(t *testing.T) {
	e := newTestEngine(t, nil, 0)

	// Three-card 11 cannot double
	d := e.Decide(sit(t, "2h4d5c", "9s", 0))
	if d.Action != Hit {
		t.Errorf("three-card 11 should HIT, got %v", d.Action)
	}

	// No DAS: a post-split two-card 11 cannot double
	noDAS := newTestEngine(t, func(r *rules.GameRules) { r.DoubleAfterSplit = false }, 0)
	s := sit(t, "6h5d", "9s", 0)
	s.AfterSplit = true
	if d := noDAS.Decide(s); d.Action != Hit {
		t.Errorf("post-split double without DAS should HIT, got %v", d.Action)
	}

	// Restricted doubling: 9 vs 3 degrades to HIT on a 10/11-only table
	restricted := newTestEngine(t, func(r *rules.GameRules) { r.Double10And11Only = true }, 0)
	if d := restricted.Decide(sit(t, "5h4d", "3s", 0)); d.Action != Hit {
		t.Errorf("restricted table should HIT 9 vs 3, got %v", d.Action)
	}
}

func TestSplitBudget(t *testing.T) {
	e := newTestEngine(t, nil, 0)

	// Splits exhausted: eights demote to hard 16
	s := sit(t, "8h8d", "6s", 0)
	s.SplitsUsed = 1
	if d := e.Decide(s); d.Action != Stand {
		t.Errorf("unsplittable eights vs 6 should play hard 16 (STAND), got %v", d.Action)
	}
	s = sit(t, "8h8d", "Ts", -1)
	s.SplitsUsed = 1
	if d := e.Decide(s); d.Action != Hit {
		t.Errorf("unsplittable eights vs ten should play hard 16 (HIT), got %v", d.Action)
	}

	// Unsplittable aces fall back to the computed soft-12 play
	s = sit(t, "AhAd", "6s", 0)
	s.SplitsUsed = 1
	if d := e.Decide(s); d.Action != Hit {
		t.Errorf("unsplittable aces should HIT soft 12, got %v", d.Action)
	}

	// Resplitting aces requires the rule
	s = sit(t, "AhAd", "6s", 0)
	s.AfterSplit = true
	if d := e.Decide(s); d.Action != Hit {
		t.Errorf("resplit aces without the rule should HIT, got %v", d.Action)
	}
	resplit := newTestEngine(t, func(r *rules.GameRules) { r.ResplitAces = true; r.MaxSplits = 2 }, 0)
	if d := resplit.Decide(s); d.Action != Split {
		t.Errorf("resplit aces with the rule should SPLIT, got %v", d.Action)
	}
}

func TestInsuranceQuery(t *testing.T) {
	e := newTestEngine(t, nil, 0)
	ace, _ := deck.ParseCard("As")
	ten, _ := deck.ParseCard("Ts")

	if e.ShouldTakeInsurance(ace, 2.9) {
		t.Error("insurance below the index should be declined")
	}
	if !e.ShouldTakeInsurance(ace, 3.0) {
		t.Error("insurance at the index should be taken")
	}
	if e.ShouldTakeInsurance(ten, 5.0) {
		t.Error("insurance is only offered against an ace")
	}

	margined := newTestEngine(t, nil, 1.0)
	if margined.ShouldTakeInsurance(ace, 3.5) {
		t.Error("margin should raise the insurance index")
	}
	if !margined.ShouldTakeInsurance(ace, 4.0) {
		t.Error("insurance should be taken once the margin is cleared")
	}
}

func TestDecideIsPure(t *testing.T) {
	e := newTestEngine(t, nil, 0)
	s := sit(t, "Th6d", "Ts", 1.5)
	first := e.Decide(s)
	for i := 0; i < 10; i++ {
		if got := e.Decide(s); got != first {
			t.Fatalf("Decide is not deterministic: %+v vs %+v", got, first)
		}
	}
	if len(s.Hand.Cards) != 2 {
		t.Error("Decide mutated its input hand")
	}
}
