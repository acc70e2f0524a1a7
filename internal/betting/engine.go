package betting

import (
	"fmt"
	"math"

	"github.com/edgecount/edgecount/internal/rules"
)

// Config tunes the betting engine. Zero values are replaced by the
// research-validated defaults in NewEngine.
type Config struct {
	KellyFraction         float64
	Variance              float64
	MaxSpread             float64
	FlatBetting           bool
	MaxBettingPenetration float64
	WongOutThreshold      float64
}

// DefaultConfig returns half-Kelly with a 1-12 unit spread, the 0.85
// penetration cutoff and the -1.0 Wong-out threshold.
func DefaultConfig() Config {
	return Config{
		KellyFraction:         0.5,
		Variance:              BlackjackVariance,
		MaxSpread:             12,
		MaxBettingPenetration: 0.85,
		WongOutThreshold:      -1.0,
	}
}

// Engine maps true count to the wager for the next hand. It knows counts
// and money, never cards.
type Engine struct {
	config Config
	limits BetLimits
	model  AdvantageModel
	kelly  KellyCalculator
}

// NewEngine builds a betting engine for the given rules and config.
// Unset config fields fall back to defaults.
func NewEngine(r rules.GameRules, config Config) *Engine {
	def := DefaultConfig()
	if config.KellyFraction == 0 {
		config.KellyFraction = def.KellyFraction
	}
	if config.Variance == 0 {
		config.Variance = def.Variance
	}
	if config.MaxSpread == 0 {
		config.MaxSpread = def.MaxSpread
	}
	if config.MaxBettingPenetration == 0 {
		config.MaxBettingPenetration = def.MaxBettingPenetration
	}
	if config.WongOutThreshold == 0 {
		config.WongOutThreshold = def.WongOutThreshold
	}

	return &Engine{
		config: config,
		limits: BetLimits{TableMin: r.TableMin, TableMax: r.TableMax},
		model:  ModelFromRules(r),
		kelly:  NewKellyCalculator(config.KellyFraction, config.Variance),
	}
}

// ComputeBet returns the wager for the next hand.
//
// Order of application: bankroll floor, flat-betting override, the
// deep-penetration defensive cutoff (the linear model degrades badly past
// ~85% penetration, so the engine stops pressing bets there), Kelly sizing,
// spread cap, bankroll cap, table clamping.
func (e *Engine) ComputeBet(trueCount, bankroll, penetration float64) float64 {
	if bankroll < e.limits.TableMin {
		return 0
	}
	if e.config.FlatBetting {
		return e.limits.TableMin
	}
	if penetration > e.config.MaxBettingPenetration {
		return e.limits.TableMin
	}

	advantage := e.model.Advantage(trueCount)
	bet := e.kelly.BetAmount(advantage, bankroll, e.limits)

	if maxBet := e.limits.TableMin * e.config.MaxSpread; bet > maxBet {
		bet = maxBet
	}
	if bet > bankroll {
		bet = bankroll
	}
	if bet < e.limits.TableMin {
		bet = e.limits.TableMin
	}

	return math.Round(bet*100) / 100
}

// ComputeBetUnits returns the spread in table-minimum units for callers
// that track no bankroll: one unit at or below breakeven, one more per
// count above it, capped at the configured spread.
func (e *Engine) ComputeBetUnits(trueCount float64) float64 {
	breakeven := e.model.BreakevenCount()
	if trueCount <= breakeven {
		return 1
	}
	units := 1 + (trueCount - breakeven)
	if units > e.config.MaxSpread {
		return e.config.MaxSpread
	}
	return units
}

// Advantage returns the modelled player advantage at a true count
func (e *Engine) Advantage(trueCount float64) float64 {
	return e.model.Advantage(trueCount)
}

// BreakevenCount returns the true count where the edge crosses zero
func (e *Engine) BreakevenCount() float64 {
	return e.model.BreakevenCount()
}

// ExitSignal evaluates the Wong-out predicate. Leaving on the very first
// hand of a shoe is a tell, so the signal stays quiet until at least one
// hand has been played. Advisory only: callers may keep playing.
func (e *Engine) ExitSignal(trueCount float64, handsPlayedThisShoe int) (bool, string) {
	if handsPlayedThisShoe > 0 && trueCount < e.config.WongOutThreshold {
		return true, fmt.Sprintf("True Count %+.1f < %.1f (Wong Out)", trueCount, e.config.WongOutThreshold)
	}
	return false, ""
}

// Config returns the engine's effective configuration
func (e *Engine) Config() Config {
	return e.config
}

// Limits returns the table limits the engine clamps to
func (e *Engine) Limits() BetLimits {
	return e.limits
}
