package strategy

import (
	"github.com/edgecount/edgecount/internal/deck"
	"github.com/edgecount/edgecount/internal/rules"
)

// insuranceIndex is the true count at which taking insurance becomes +EV
const insuranceIndex = 3.0

// Situation is everything the engine needs to pick an action. TrueCount
// comes from the shoe snapshot; the split fields describe where the hand
// sits in the round so legality filtering can work.
type Situation struct {
	Hand       deck.Hand
	DealerUp   deck.Card
	TrueCount  float64
	AfterSplit bool
	SplitsUsed int
}

// Decision carries the chosen action together with the counterfactual
// baseline, so callers can tell when a count deviation changed the play.
type Decision struct {
	Action      Action
	Baseline    Action
	DeviationID string
	TrueCount   float64
}

// Deviated reports whether the chosen action departs from baseline
func (d Decision) Deviated() bool {
	return d.Action != d.Baseline
}

// UpcardValue collapses the dealer up-card to its strategy value:
// T/J/Q/K are 10, the ace is 11.
func UpcardValue(c deck.Card) int {
	return c.BlackjackValue()
}

// Engine is the deterministic decision engine: same situation in, same
// action out. It holds only immutable state and is safe to share across
// sessions.
type Engine struct {
	table      *Table
	deviations *DeviationSet
	rules      rules.GameRules
	margin     float64
}

// NewEngine builds an engine for the given rules. Table construction and
// deviation indexing verify coverage; failures surface as BAD_RULES.
func NewEngine(r rules.GameRules, deviationMargin float64) (*Engine, error) {
	table, err := NewBaselineTable()
	if err != nil {
		return nil, err
	}
	devs, err := StandardDeviations(table)
	if err != nil {
		return nil, err
	}
	return &Engine{
		table:      table,
		deviations: devs,
		rules:      r,
		margin:     deviationMargin,
	}, nil
}

// Rules returns the engine's rule set
func (e *Engine) Rules() rules.GameRules {
	return e.rules
}

// Decide runs the decision pipeline: baseline first, then Fab 4 surrender,
// split checks, and Illustrious 18 playing deviations, with legality
// filtering applied to whatever wins.
func (e *Engine) Decide(sit Situation) Decision {
	cat := sit.Hand.Category()
	up := UpcardValue(sit.DealerUp)

	baseline := e.baselineAction(sit, cat, up)
	decision := Decision{Action: baseline, Baseline: baseline, TrueCount: sit.TrueCount}

	// Fab 4 surrender deviations come first: surrender is only open on the
	// untouched first two cards.
	if e.surrenderOpen(sit) {
		if dev, ok := e.firstTriggered(cat, up, sit.TrueCount, Surrender); ok {
			decision.Action = Surrender
			decision.DeviationID = dev.ID
			return decision
		}
	}

	// Split: a split deviation (pair of tens vs ace) or the baseline split
	// entry settles a splittable pair immediately.
	if cat.Kind == deck.Pair && e.splitAllowed(sit) {
		if dev, ok := e.firstTriggered(cat, up, sit.TrueCount, Split); ok {
			decision.Action = Split
			decision.DeviationID = dev.ID
			return decision
		}
		if baseline == Split {
			return decision
		}
	}

	// Illustrious 18 playing deviations
	if dev, ok := e.firstPlayingTriggered(cat, up, sit.TrueCount); ok {
		action := e.filterLegality(dev.Action, sit, cat, up)
		decision.Action = action
		decision.DeviationID = dev.ID
		return decision
	}

	return decision
}

// ShouldTakeInsurance answers the separate insurance query: take even-money
// insurance against an ace only when the count clears the insurance index.
// Never returned as a hand action.
func (e *Engine) ShouldTakeInsurance(dealerUp deck.Card, trueCount float64) bool {
	return dealerUp.IsAce() && trueCount-e.margin >= insuranceIndex
}

// baselineAction looks up basic strategy, demoting pairs that cannot be
// split to their hard/soft totals, and filters for legality.
func (e *Engine) baselineAction(sit Situation, cat deck.Category, up int) Action {
	lookupCat := cat
	if cat.Kind == deck.Pair && !e.splitAllowed(sit) {
		lookupCat = demotePair(sit.Hand)
	}

	action, ok := e.table.Lookup(lookupCat, up)
	if !ok {
		// Demoted categories can fall off the chart (a pair of aces that
		// cannot be split is soft 12). Compute the play directly.
		action = fallbackAction(sit.Hand, up)
	}
	return e.filterLegality(action, sit, cat, up)
}

// surrenderOpen reports whether surrender is still available for this hand
func (e *Engine) surrenderOpen(sit Situation) bool {
	return e.rules.SurrenderAllowed && len(sit.Hand.Cards) == 2 && !sit.AfterSplit
}

// splitAllowed applies the table's split budget and resplit-aces rule
func (e *Engine) splitAllowed(sit Situation) bool {
	if !sit.Hand.IsPair() {
		return false
	}
	if sit.SplitsUsed >= e.rules.MaxSplits {
		return false
	}
	if sit.Hand.Cards[0].IsAce() && sit.AfterSplit && !e.rules.ResplitAces {
		return false
	}
	return true
}

// firstTriggered returns the highest-priority triggered deviation with the
// wanted action.
func (e *Engine) firstTriggered(cat deck.Category, up int, trueCount float64, want Action) (Deviation, bool) {
	for _, dev := range e.deviations.Lookup(cat, up) {
		if dev.Action == want && dev.Triggered(trueCount, e.margin) {
			return dev, true
		}
	}
	return Deviation{}, false
}

// firstPlayingTriggered returns the highest-priority triggered non-surrender
// deviation.
func (e *Engine) firstPlayingTriggered(cat deck.Category, up int, trueCount float64) (Deviation, bool) {
	for _, dev := range e.deviations.Lookup(cat, up) {
		if dev.Action != Surrender && dev.Triggered(trueCount, e.margin) {
			return dev, true
		}
	}
	return Deviation{}, false
}

// filterLegality maps an action that is illegal in this situation to its
// fallback: DOUBLE and SURRENDER degrade to HIT, an unsplittable SPLIT
// degrades to the hand's hard/soft play.
func (e *Engine) filterLegality(action Action, sit Situation, cat deck.Category, up int) Action {
	switch action {
	case Double:
		if len(sit.Hand.Cards) != 2 {
			return Hit
		}
		if sit.AfterSplit && !e.rules.DoubleAfterSplit {
			return Hit
		}
		if !e.rules.DoubleAllowedOn(sit.Hand.Total()) {
			return Hit
		}
	case Split:
		if !e.splitAllowed(sit) {
			demoted := demotePair(sit.Hand)
			if fallback, ok := e.table.Lookup(demoted, up); ok {
				return e.filterLegality(fallback, sit, demoted, up)
			}
			return fallbackAction(sit.Hand, up)
		}
	case Surrender:
		if !e.surrenderOpen(sit) {
			return Hit
		}
	}
	return action
}

// demotePair recategorises a pair by its totals for hard/soft lookup
func demotePair(h deck.Hand) deck.Category {
	if h.IsSoft() {
		return deck.Category{Kind: deck.Soft, Value: h.Total()}
	}
	return deck.Category{Kind: deck.Hard, Value: h.Total()}
}

// fallbackAction computes basic strategy for the few spots that sit outside
// the chart (hard totals below 5, soft 12).
func fallbackAction(h deck.Hand, up int) Action {
	total := h.Total()
	twoCards := len(h.Cards) == 2

	if !h.IsSoft() {
		switch {
		case total >= 17:
			return Stand
		case total >= 13 && up <= 6:
			return Stand
		case total == 12 && up >= 4 && up <= 6:
			return Stand
		case total == 11 && twoCards:
			return Double
		case total == 10 && up <= 9 && twoCards:
			return Double
		case total == 9 && up >= 3 && up <= 6 && twoCards:
			return Double
		default:
			return Hit
		}
	}

	switch {
	case total >= 19:
		return Stand
	case total == 18 && up < 9:
		return Stand
	default:
		return Hit
	}
}
