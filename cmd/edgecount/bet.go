package main

import (
	"fmt"

	"github.com/edgecount/edgecount/internal/betting"
	"github.com/edgecount/edgecount/internal/rules"
)

// BetCmd sizes a bet for a given true count without a session
type BetCmd struct {
	TrueCount   float64 `arg:"" help:"Current true count"`
	Bankroll    float64 `default:"10000" help:"Current bankroll"`
	Penetration float64 `default:"0" help:"Shoe penetration (0-1)"`

	Profile       string  `default:"standard" help:"Table-rule preset name"`
	KellyFraction float64 `name:"kelly-fraction" default:"0.5" help:"Fraction of full Kelly to bet"`
	Flat          bool    `help:"Flat-bet the table minimum"`
}

// Run prints the recommended bet and the model behind it
func (c *BetCmd) Run() error {
	r, err := rules.Preset(c.Profile)
	if err != nil {
		return err
	}

	engine := betting.NewEngine(r, betting.Config{
		KellyFraction: c.KellyFraction,
		FlatBetting:   c.Flat,
	})

	bet := engine.ComputeBet(c.TrueCount, c.Bankroll, c.Penetration)
	advantage := engine.Advantage(c.TrueCount)

	fmt.Printf("Rules:      %s\n", r)
	fmt.Printf("Advantage:  %+.4f%% at TC %+.1f\n", advantage*100, c.TrueCount)
	fmt.Printf("Breakeven:  TC %+.2f\n", engine.BreakevenCount())
	fmt.Printf("Bet:        %.2f (%g units)\n", bet, engine.ComputeBetUnits(c.TrueCount))
	if exit, reason := engine.ExitSignal(c.TrueCount, 1); exit {
		fmt.Printf("Exit:       %s\n", reason)
	}
	return nil
}
