package main

import (
	"github.com/alecthomas/kong"
)

var version = "dev"

// CLI defines the command-line interface structure
type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version information"`

	Serve  ServeCmd  `cmd:"" help:"Run the advisory server"`
	Decide DecideCmd `cmd:"" help:"Recommend an action for a single hand"`
	Bet    BetCmd    `cmd:"" help:"Size a bet for a given true count"`
	Sim    SimCmd    `cmd:"" help:"Simulate rounds and report the realized edge"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("edgecount"),
		kong.Description("Card-counting blackjack advisor"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
