package rules

import (
	"fmt"

	"github.com/edgecount/edgecount/protocol"
)

// CardsPerDeck is the standard deck size.
const CardsPerDeck = 52

// GameRules is an immutable description of a blackjack table. Construct one
// with Default(), a preset, or the HCL profile loader, then treat it as a
// value: engines receive copies and never mutate it.
type GameRules struct {
	Name string

	// Shoe
	NumDecks    int
	Penetration float64

	// Dealer
	DealerStandsSoft17 bool
	DealerPeeks        bool

	// Splitting
	DoubleAfterSplit bool
	ResplitAces      bool
	HitSplitAces     bool
	MaxSplits        int

	// Surrender
	SurrenderAllowed bool
	EarlySurrender   bool

	// Doubling restrictions
	Double9To11Only   bool
	Double10And11Only bool

	// Payout
	BlackjackPayout float64

	// Table limits
	TableMin float64
	TableMax float64
}

// Default returns the research-validated baseline: 6-deck S17 DAS with late
// surrender, 3:2 payout, 75% penetration, $15-$500 table.
func Default() GameRules {
	return GameRules{
		Name:               "Standard",
		NumDecks:           6,
		Penetration:        0.75,
		DealerStandsSoft17: true,
		DealerPeeks:        true,
		DoubleAfterSplit:   true,
		MaxSplits:          1,
		SurrenderAllowed:   true,
		BlackjackPayout:    1.5,
		TableMin:           15.0,
		TableMax:           500.0,
	}
}

// TotalCards returns the number of cards in a fresh shoe
func (r GameRules) TotalCards() int {
	return r.NumDecks * CardsPerDeck
}

// CutCardPosition returns the number of cards dealt before a shuffle is due
func (r GameRules) CutCardPosition() int {
	return int(float64(r.TotalCards()) * r.Penetration)
}

// DoubleAllowedOn reports whether doubling is permitted on the given
// two-card total under the table's doubling restrictions.
func (r GameRules) DoubleAllowedOn(total int) bool {
	switch {
	case r.Double10And11Only:
		return total == 10 || total == 11
	case r.Double9To11Only:
		return total >= 9 && total <= 11
	default:
		return true
	}
}

// HouseEdgeEstimate returns a rough baseline house edge for these rules.
// Informational only; the betting engine uses its own advantage model.
func (r GameRules) HouseEdgeEstimate() float64 {
	edge := 0.006

	switch r.NumDecks {
	case 1:
		edge -= 0.002
	case 2:
		edge -= 0.001
	case 8:
		edge += 0.001
	}

	if !r.DealerStandsSoft17 {
		edge += 0.002
	}
	if r.Double10And11Only {
		edge += 0.002
	} else if r.Double9To11Only {
		edge += 0.001
	}
	if !r.DoubleAfterSplit {
		edge += 0.001
	}
	if !r.SurrenderAllowed {
		edge += 0.001
	}
	if r.BlackjackPayout < 1.5 {
		edge += 0.014
	}

	return edge
}

// Validate checks the rules for internal consistency. All violations map to
// the BAD_RULES error code.
func (r GameRules) Validate() error {
	switch r.NumDecks {
	case 1, 2, 4, 6, 8:
	default:
		return protocol.Errorf(protocol.ErrBadRules, "num_decks must be 1, 2, 4, 6 or 8, got %d", r.NumDecks)
	}
	if r.Penetration <= 0 || r.Penetration >= 1 {
		return protocol.Errorf(protocol.ErrBadRules, "penetration must be in (0,1), got %.2f", r.Penetration)
	}
	if r.BlackjackPayout <= 1.0 {
		return protocol.Errorf(protocol.ErrBadRules, "blackjack_payout must exceed 1.0, got %.2f", r.BlackjackPayout)
	}
	if r.TableMin <= 0 {
		return protocol.Errorf(protocol.ErrBadRules, "table_min must be positive, got %.2f", r.TableMin)
	}
	if r.TableMax < r.TableMin {
		return protocol.Errorf(protocol.ErrBadRules, "table_max %.2f below table_min %.2f", r.TableMax, r.TableMin)
	}
	if r.MaxSplits < 0 {
		return protocol.Errorf(protocol.ErrBadRules, "max_splits must be non-negative, got %d", r.MaxSplits)
	}
	if r.Double9To11Only && r.Double10And11Only {
		return protocol.Errorf(protocol.ErrBadRules, "double_9_to_11_only and double_10_and_11_only are mutually exclusive")
	}
	return nil
}

func (r GameRules) String() string {
	s17 := "S17"
	if !r.DealerStandsSoft17 {
		s17 = "H17"
	}
	das := "DAS"
	if !r.DoubleAfterSplit {
		das = "NDAS"
	}
	sur := "LS"
	if !r.SurrenderAllowed {
		sur = "NS"
	}
	return fmt.Sprintf("GameRules(%s, %s, %s, %dD, BJ=%.1f)", s17, das, sur, r.NumDecks, r.BlackjackPayout)
}
