package strategy

import (
	"github.com/edgecount/edgecount/internal/deck"
	"github.com/edgecount/edgecount/protocol"
)

// Baseline basic strategy for multi-deck S17 DAS. Each row covers dealer
// up-cards 2 through A (value 11), one letter per column:
// H=hit, S=stand, D=double, P=split.
//
// Rule variations are handled outside the chart: legality filtering maps
// DOUBLE/SPLIT/SURRENDER back to their fallbacks, and the count deviations
// in deviations.go override individual cells.
var hardRows = map[int]string{
	//    23456789TA
	5:  "HHHHHHHHHH",
	6:  "HHHHHHHHHH",
	7:  "HHHHHHHHHH",
	8:  "HHHHHHHHHH",
	9:  "HDDDDHHHHH",
	10: "DDDDDDDDHH",
	11: "DDDDDDDDDD",
	12: "HHSSSHHHHH",
	13: "SSSSSHHHHH",
	14: "SSSSSHHHHH",
	15: "SSSSSHHHHH",
	16: "SSSSSHHHHH",
	17: "SSSSSSSSSS",
	18: "SSSSSSSSSS",
	19: "SSSSSSSSSS",
	20: "SSSSSSSSSS",
	21: "SSSSSSSSSS",
}

var softRows = map[int]string{
	//    23456789TA
	13: "HHHDDHHHHH",
	14: "HHHDDHHHHH",
	15: "HHDDDHHHHH",
	16: "HHDDDHHHHH",
	17: "HDDDDHHHHH",
	18: "DDDDDSSHHH",
	19: "SSSSDSSSSS",
	20: "SSSSSSSSSS",
	21: "SSSSSSSSSS",
}

var pairRows = map[int]string{
	//    23456789TA
	2:  "PPPPPPHHHH",
	3:  "PPPPPPHHHH",
	4:  "HHHPPHHHHH",
	5:  "DDDDDDDDHH",
	6:  "PPPPPHHHHH",
	7:  "PPPPPPHHHH",
	8:  "PPPPPPPPPP",
	9:  "PPPPPSPPSS",
	10: "SSSSSSSSSS",
	11: "PPPPPPPPPP",
}

type tableKey struct {
	kind   deck.CategoryKind
	value  int
	upcard int
}

// Table is the immutable baseline strategy lookup. Built once at startup
// and shared read-only across sessions.
type Table struct {
	entries map[tableKey]Action
}

// NewBaselineTable builds the baseline table and verifies full coverage.
// Incomplete or malformed rows fail with BAD_RULES rather than falling back
// silently.
func NewBaselineTable() (*Table, error) {
	t := &Table{entries: make(map[tableKey]Action, 360)}

	for _, group := range []struct {
		kind deck.CategoryKind
		rows map[int]string
	}{
		{deck.Hard, hardRows},
		{deck.Soft, softRows},
		{deck.Pair, pairRows},
	} {
		for value, row := range group.rows {
			if len(row) != 10 {
				return nil, protocol.Errorf(protocol.ErrBadRules,
					"row %s %d has %d columns, want 10", group.kind, value, len(row))
			}
			for i, ch := range row {
				action, err := decodeCell(ch)
				if err != nil {
					return nil, protocol.Errorf(protocol.ErrBadRules,
						"row %s %d column %d: %v", group.kind, value, i, err)
				}
				t.entries[tableKey{kind: group.kind, value: value, upcard: i + 2}] = action
			}
		}
	}

	if err := t.verify(); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeCell(ch rune) (Action, error) {
	switch ch {
	case 'H':
		return Hit, nil
	case 'S':
		return Stand, nil
	case 'D':
		return Double, nil
	case 'P':
		return Split, nil
	default:
		return 0, protocol.Errorf(protocol.ErrBadRules, "unknown cell %q", ch)
	}
}

// verify checks every reachable (category, upcard) pair has exactly one entry
func (t *Table) verify() error {
	check := func(kind deck.CategoryKind, lo, hi int) error {
		for value := lo; value <= hi; value++ {
			for upcard := 2; upcard <= 11; upcard++ {
				if _, ok := t.entries[tableKey{kind: kind, value: value, upcard: upcard}]; !ok {
					return protocol.Errorf(protocol.ErrBadRules,
						"missing entry %s %d vs %d", kind, value, upcard)
				}
			}
		}
		return nil
	}

	if err := check(deck.Hard, 5, 21); err != nil {
		return err
	}
	if err := check(deck.Soft, 13, 21); err != nil {
		return err
	}
	return check(deck.Pair, 2, 11)
}

// Lookup returns the baseline action for a hand category against a dealer
// up-card value (2-11, ace high).
func (t *Table) Lookup(cat deck.Category, upcard int) (Action, bool) {
	a, ok := t.entries[tableKey{kind: cat.Kind, value: cat.Value, upcard: upcard}]
	return a, ok
}

// Size returns the number of table entries
func (t *Table) Size() int {
	return len(t.entries)
}
