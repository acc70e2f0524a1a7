package rules

import "github.com/edgecount/edgecount/protocol"

// VegasStrip is the standard 6-deck strip game: S17, DAS, late surrender, 3:2.
func VegasStrip() GameRules {
	r := Default()
	r.Name = "Vegas Strip"
	return r
}

// VegasDowntown is a 2-deck H17 game without surrender.
func VegasDowntown() GameRules {
	r := Default()
	r.Name = "Vegas Downtown"
	r.NumDecks = 2
	r.DealerStandsSoft17 = false
	r.SurrenderAllowed = false
	return r
}

// AtlanticCity is an 8-deck S17 DAS game with late surrender.
func AtlanticCity() GameRules {
	r := Default()
	r.Name = "Atlantic City"
	r.NumDecks = 8
	return r
}

var presets = map[string]func() GameRules{
	"standard":       Default,
	"vegas_strip":    VegasStrip,
	"vegas_downtown": VegasDowntown,
	"atlantic_city":  AtlanticCity,
}

// Preset returns a named built-in rule set.
func Preset(name string) (GameRules, error) {
	f, ok := presets[name]
	if !ok {
		return GameRules{}, protocol.Errorf(protocol.ErrBadRules, "unknown rule preset %q", name)
	}
	return f(), nil
}

// PresetNames lists the built-in rule sets.
func PresetNames() []string {
	return []string{"standard", "vegas_strip", "vegas_downtown", "atlantic_city"}
}
