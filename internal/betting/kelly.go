package betting

// BlackjackVariance is the per-unit variance of a blackjack hand, the
// denominator in the Kelly fraction.
const BlackjackVariance = 1.26

// BetLimits is the table's wager range
type BetLimits struct {
	TableMin float64
	TableMax float64
}

// Clamp forces a bet into the table range
func (l BetLimits) Clamp(bet float64) float64 {
	if bet < l.TableMin {
		return l.TableMin
	}
	if bet > l.TableMax {
		return l.TableMax
	}
	return bet
}

// KellyCalculator sizes bets as a fraction of bankroll proportional to
// advantage over variance. The fraction scales full Kelly down; half Kelly
// (0.5) is the default because the linear advantage model is an estimate,
// and overbetting a noisy edge is how bankrolls die.
type KellyCalculator struct {
	fraction float64
	variance float64
}

// NewKellyCalculator creates a calculator with the given Kelly fraction and
// per-hand variance.
func NewKellyCalculator(fraction, variance float64) KellyCalculator {
	return KellyCalculator{fraction: fraction, variance: variance}
}

// BetFraction returns the fraction of bankroll to wager. Zero when there is
// no edge.
func (k KellyCalculator) BetFraction(advantage float64) float64 {
	if advantage <= 0 {
		return 0
	}
	return advantage / k.variance * k.fraction
}

// BetAmount returns the Kelly wager clamped to the table limits and the
// bankroll. A bet above the bankroll is impossible by construction.
func (k KellyCalculator) BetAmount(advantage, bankroll float64, limits BetLimits) float64 {
	if bankroll <= 0 {
		return 0
	}
	bet := limits.Clamp(bankroll * k.BetFraction(advantage))
	if bet > bankroll {
		bet = bankroll
	}
	return bet
}
