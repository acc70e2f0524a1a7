package betting

import "github.com/edgecount/edgecount/internal/rules"

// tcSlope is the advantage gained per point of true count, from the
// effect-of-removal linear model.
const tcSlope = 0.005

// AdvantageModel is the linear true-count-to-advantage map:
// advantage = trueCount*Slope - BaselineEdge. The baseline edge is NOT a
// constant: an H17 or 6:5 table shifts it enough to turn a "positive" count
// into a losing one, so always build the model from the actual rules.
type AdvantageModel struct {
	Slope        float64
	BaselineEdge float64
}

// ModelFromRules derives the baseline house edge from the table rules.
// Starting point is the ~0.40% edge of a 6-deck S17 DAS late-surrender
// game; each unfavourable rule adds its published cost.
func ModelFromRules(r rules.GameRules) AdvantageModel {
	baseline := 0.004

	if !r.DealerStandsSoft17 {
		baseline += 0.0022
	}
	if r.BlackjackPayout < 1.4 {
		baseline += 0.0139
	}
	if !r.DoubleAfterSplit {
		baseline += 0.0014
	}
	if !r.SurrenderAllowed {
		baseline += 0.0008
	}
	if r.Double10And11Only {
		baseline += 0.0018
	} else if r.Double9To11Only {
		baseline += 0.0009
	}

	return AdvantageModel{Slope: tcSlope, BaselineEdge: baseline}
}

// Advantage returns the estimated player advantage at a true count.
// Negative values mean the house still has the edge.
func (m AdvantageModel) Advantage(trueCount float64) float64 {
	return trueCount*m.Slope - m.BaselineEdge
}

// BreakevenCount returns the true count at which the player's advantage
// crosses zero.
func (m AdvantageModel) BreakevenCount() float64 {
	return m.BaselineEdge / m.Slope
}

// WongOutThreshold returns the true count below which play drops under the
// given minimum advantage.
func (m AdvantageModel) WongOutThreshold(minAdvantage float64) float64 {
	return (minAdvantage + m.BaselineEdge) / m.Slope
}
