package main

import (
	"fmt"

	"github.com/edgecount/edgecount/internal/deck"
	"github.com/edgecount/edgecount/internal/rules"
	"github.com/edgecount/edgecount/internal/strategy"
)

// DecideCmd recommends an action for a single hand without a session
type DecideCmd struct {
	Hand      string  `arg:"" help:"Player cards, concatenated (e.g. 9c6d)"`
	Dealer    string  `arg:"" help:"Dealer up-card (e.g. Ts)"`
	TrueCount float64 `name:"true-count" short:"t" default:"0" help:"Current true count"`

	Profile    string  `default:"standard" help:"Table-rule preset name"`
	Margin     float64 `default:"0" help:"Deviation threshold margin"`
	AfterSplit bool    `name:"after-split" help:"Hand was produced by a split"`
}

// Run prints the recommended action for the given situation
func (c *DecideCmd) Run() error {
	r, err := rules.Preset(c.Profile)
	if err != nil {
		return err
	}

	cards, err := deck.ParseCards(c.Hand)
	if err != nil {
		return err
	}
	if len(cards) < 2 {
		return fmt.Errorf("need at least two player cards, got %d", len(cards))
	}
	up, err := deck.ParseCard(c.Dealer)
	if err != nil {
		return err
	}

	engine, err := strategy.NewEngine(r, c.Margin)
	if err != nil {
		return err
	}

	hand := deck.NewHand(cards...)
	decision := engine.Decide(strategy.Situation{
		Hand:       hand,
		DealerUp:   up,
		TrueCount:  c.TrueCount,
		AfterSplit: c.AfterSplit,
	})

	fmt.Printf("Hand:    %s (%s)\n", hand, hand.Category())
	fmt.Printf("Dealer:  %s\n", up)
	fmt.Printf("Action:  %s\n", decision.Action)
	if decision.Deviated() {
		fmt.Printf("Deviation: %s (baseline %s at TC %+.1f)\n", decision.DeviationID, decision.Baseline, decision.TrueCount)
	}
	if engine.ShouldTakeInsurance(up, c.TrueCount) {
		fmt.Println("Insurance: TAKE")
	}
	return nil
}
