package main

import (
	"fmt"

	"github.com/edgecount/edgecount/cmd/edgecount/shared"
	"github.com/edgecount/edgecount/internal/betting"
	"github.com/edgecount/edgecount/internal/fileutil"
	"github.com/edgecount/edgecount/internal/randutil"
	"github.com/edgecount/edgecount/internal/rules"
	"github.com/edgecount/edgecount/internal/simulator"
)

// SimCmd runs a counting simulation and reports the realized edge
type SimCmd struct {
	Rounds   int     `default:"10000" help:"Number of rounds to play"`
	Bankroll float64 `default:"10000" help:"Starting bankroll"`
	Seed     int64   `help:"RNG seed (random when omitted)"`

	Profile       string  `default:"standard" help:"Table-rule preset name"`
	KellyFraction float64 `name:"kelly-fraction" default:"0.5" help:"Fraction of full Kelly to bet"`
	Flat          bool    `help:"Flat-bet the table minimum"`

	Output string `short:"o" optional:"" help:"Write the report to a file instead of stdout"`
	Debug  bool   `help:"Enable debug logging"`
}

// Run executes the simulation
func (c *SimCmd) Run() error {
	logger := shared.SetupLogger(c.Debug, false)

	r, err := rules.Preset(c.Profile)
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = randutil.NewSeed()
	}

	sim := simulator.New(simulator.Config{
		Rounds:   c.Rounds,
		Bankroll: c.Bankroll,
		Rules:    r,
		Betting: betting.Config{
			KellyFraction: c.KellyFraction,
			FlatBetting:   c.Flat,
		},
		Seed:   seed,
		Logger: logger,
	})

	result, err := sim.Run()
	if err != nil {
		return err
	}

	report := result.Report()
	if c.Output != "" {
		if err := fileutil.WriteFileAtomic(c.Output, []byte(report), 0644); err != nil {
			return err
		}
		logger.Info().Str("file", c.Output).Msg("report written")
		return nil
	}
	fmt.Print(report)
	return nil
}
