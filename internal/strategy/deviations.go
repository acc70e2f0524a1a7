package strategy

import (
	"sort"

	"github.com/edgecount/edgecount/internal/deck"
	"github.com/edgecount/edgecount/protocol"
)

// Direction says which side of the threshold triggers a deviation
type Direction int

const (
	AboveOrEqual Direction = iota
	Below
)

// Deviation is one count-indexed departure from baseline strategy
type Deviation struct {
	ID        string
	Kind      deck.CategoryKind
	Value     int
	DealerUp  int
	Threshold float64
	Direction Direction
	Action    Action
	Priority  int
}

// Triggered evaluates the deviation's count predicate. The margin demands
// extra evidence in whichever direction the deviation points: an ≥ index
// fires only at tc ≥ threshold+margin, a < index only at tc < threshold-margin.
func (d Deviation) Triggered(trueCount, margin float64) bool {
	if d.Direction == AboveOrEqual {
		return trueCount-margin >= d.Threshold
	}
	return trueCount+margin < d.Threshold
}

// Matches reports whether the deviation's trigger describes this situation
func (d Deviation) Matches(cat deck.Category, upcard int) bool {
	return d.Kind == cat.Kind && d.Value == cat.Value && d.DealerUp == upcard
}

// Illustrious18 returns the canonical playing deviations, including the
// negative-count hits, in priority order.
func Illustrious18() []Deviation {
	return []Deviation{
		{ID: "ILL_16v10", Kind: deck.Hard, Value: 16, DealerUp: 10, Threshold: 0, Direction: AboveOrEqual, Action: Stand, Priority: 1},
		{ID: "ILL_15v10", Kind: deck.Hard, Value: 15, DealerUp: 10, Threshold: 4, Direction: AboveOrEqual, Action: Stand, Priority: 2},
		{ID: "ILL_20vA", Kind: deck.Pair, Value: 10, DealerUp: 11, Threshold: 6, Direction: AboveOrEqual, Action: Split, Priority: 3},
		{ID: "ILL_10v10", Kind: deck.Hard, Value: 10, DealerUp: 10, Threshold: 4, Direction: AboveOrEqual, Action: Double, Priority: 4},
		{ID: "ILL_12v3", Kind: deck.Hard, Value: 12, DealerUp: 3, Threshold: 2, Direction: AboveOrEqual, Action: Stand, Priority: 5},
		{ID: "ILL_12v2", Kind: deck.Hard, Value: 12, DealerUp: 2, Threshold: 3, Direction: AboveOrEqual, Action: Stand, Priority: 6},
		{ID: "ILL_11vA", Kind: deck.Hard, Value: 11, DealerUp: 11, Threshold: 1, Direction: AboveOrEqual, Action: Double, Priority: 7},
		{ID: "ILL_9v2", Kind: deck.Hard, Value: 9, DealerUp: 2, Threshold: 1, Direction: AboveOrEqual, Action: Double, Priority: 8},
		{ID: "ILL_10vA", Kind: deck.Hard, Value: 10, DealerUp: 11, Threshold: 4, Direction: AboveOrEqual, Action: Double, Priority: 9},
		{ID: "ILL_9v7", Kind: deck.Hard, Value: 9, DealerUp: 7, Threshold: 3, Direction: AboveOrEqual, Action: Double, Priority: 10},
		{ID: "ILL_16v9", Kind: deck.Hard, Value: 16, DealerUp: 9, Threshold: 5, Direction: AboveOrEqual, Action: Stand, Priority: 11},
		{ID: "ILL_13v2", Kind: deck.Hard, Value: 13, DealerUp: 2, Threshold: -1, Direction: Below, Action: Hit, Priority: 12},
		{ID: "ILL_12v4", Kind: deck.Hard, Value: 12, DealerUp: 4, Threshold: 0, Direction: Below, Action: Hit, Priority: 13},
		{ID: "ILL_12v5", Kind: deck.Hard, Value: 12, DealerUp: 5, Threshold: -2, Direction: Below, Action: Hit, Priority: 14},
		{ID: "ILL_12v6", Kind: deck.Hard, Value: 12, DealerUp: 6, Threshold: -1, Direction: Below, Action: Hit, Priority: 15},
		{ID: "ILL_13v3", Kind: deck.Hard, Value: 13, DealerUp: 3, Threshold: -2, Direction: Below, Action: Hit, Priority: 16},
	}
}

// Fab4 returns the canonical surrender deviations. Higher priorities than
// the playing set so surrender checks see them first.
func Fab4() []Deviation {
	return []Deviation{
		{ID: "FAB_15v10", Kind: deck.Hard, Value: 15, DealerUp: 10, Threshold: 0, Direction: AboveOrEqual, Action: Surrender, Priority: 100},
		{ID: "FAB_15vA", Kind: deck.Hard, Value: 15, DealerUp: 11, Threshold: 1, Direction: AboveOrEqual, Action: Surrender, Priority: 101},
		{ID: "FAB_14v10", Kind: deck.Hard, Value: 14, DealerUp: 10, Threshold: 3, Direction: AboveOrEqual, Action: Surrender, Priority: 102},
		{ID: "FAB_15v9", Kind: deck.Hard, Value: 15, DealerUp: 9, Threshold: 2, Direction: AboveOrEqual, Action: Surrender, Priority: 103},
	}
}

// DeviationSet indexes deviations by trigger for O(1) lookup at decision time
type DeviationSet struct {
	index map[tableKey][]Deviation
	count int
}

// NewDeviationSet builds an indexed deviation set. Every entry must
// reference a (category, upcard) pair the baseline table covers.
func NewDeviationSet(table *Table, deviations []Deviation) (*DeviationSet, error) {
	s := &DeviationSet{index: make(map[tableKey][]Deviation)}
	for _, d := range deviations {
		cat := deck.Category{Kind: d.Kind, Value: d.Value}
		if _, ok := table.Lookup(cat, d.DealerUp); !ok {
			return nil, protocol.Errorf(protocol.ErrBadRules,
				"deviation %s references uncovered entry %s vs %d", d.ID, cat, d.DealerUp)
		}
		key := tableKey{kind: d.Kind, value: d.Value, upcard: d.DealerUp}
		s.index[key] = append(s.index[key], d)
		s.count++
	}
	for key := range s.index {
		list := s.index[key]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Priority > list[j].Priority })
	}
	return s, nil
}

// StandardDeviations builds the Illustrious 18 + Fab 4 set
func StandardDeviations(table *Table) (*DeviationSet, error) {
	return NewDeviationSet(table, append(Illustrious18(), Fab4()...))
}

// Lookup returns the deviations matching a situation, highest priority first
func (s *DeviationSet) Lookup(cat deck.Category, upcard int) []Deviation {
	return s.index[tableKey{kind: cat.Kind, value: cat.Value, upcard: upcard}]
}

// Count returns the number of loaded deviations
func (s *DeviationSet) Count() int {
	return s.count
}
