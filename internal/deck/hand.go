package deck

import "fmt"

// Hand is a blackjack hand: the cards dealt to one spot, in order.
type Hand struct {
	Cards []Card
}

// NewHand creates a hand from the given cards
func NewHand(cards ...Card) Hand {
	h := Hand{Cards: make([]Card, len(cards))}
	copy(h.Cards, cards)
	return h
}

// Add returns a new hand with the card appended
func (h Hand) Add(card Card) Hand {
	cards := make([]Card, len(h.Cards)+1)
	copy(cards, h.Cards)
	cards[len(h.Cards)] = card
	return Hand{Cards: cards}
}

// Total returns the best blackjack total: aces count 11 until the hand
// would bust, then reduce to 1 one at a time.
func (h Hand) Total() int {
	total := 0
	aces := 0
	for _, c := range h.Cards {
		total += c.BlackjackValue()
		if c.IsAce() {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsSoft reports whether an ace is still counted as 11 in the best total
func (h Hand) IsSoft() bool {
	total := 0
	aces := 0
	for _, c := range h.Cards {
		total += c.BlackjackValue()
		if c.IsAce() {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return aces > 0
}

// IsPair reports whether the hand is exactly two cards of equal rank.
// T-J is not a pair: the ranks differ even though the values match.
func (h Hand) IsPair() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

// IsBlackjack reports whether the hand is a two-card 21
func (h Hand) IsBlackjack() bool {
	return len(h.Cards) == 2 && h.Total() == 21
}

// IsBust reports whether the hand's best total exceeds 21
func (h Hand) IsBust() bool {
	return h.Total() > 21
}

// String renders the hand as concatenated card tokens
func (h Hand) String() string {
	s := ""
	for _, c := range h.Cards {
		s += c.Token()
	}
	return s
}

// CategoryKind discriminates the three strategy-relevant hand shapes
type CategoryKind int

const (
	Hard CategoryKind = iota
	Soft
	Pair
)

// String returns the single-letter table prefix for the kind
func (k CategoryKind) String() string {
	switch k {
	case Hard:
		return "H"
	case Soft:
		return "S"
	case Pair:
		return "P"
	default:
		return "?"
	}
}

// Category classifies a hand for strategy lookup. For Hard and Soft the
// Value is the hand total; for Pair it is the paired card's blackjack
// value with aces as 11.
type Category struct {
	Kind  CategoryKind
	Value int
}

// Category returns the strategy classification of the hand.
// Pair takes precedence over soft: A-A is PAIR(11), not SOFT(12).
func (h Hand) Category() Category {
	if h.IsPair() {
		return Category{Kind: Pair, Value: h.Cards[0].Rank.BlackjackValue()}
	}
	if h.IsSoft() {
		return Category{Kind: Soft, Value: h.Total()}
	}
	return Category{Kind: Hard, Value: h.Total()}
}

// Key returns the strategy table key for the category against an upcard
// value, e.g. "H_16:10", "S_18:11", "P_08:10".
func (c Category) Key(upcardValue int) string {
	return fmt.Sprintf("%s_%02d:%d", c.Kind, c.Value, upcardValue)
}

// String renders the category, e.g. "HARD 16", "SOFT 18", "PAIR 8s"
func (c Category) String() string {
	switch c.Kind {
	case Hard:
		return fmt.Sprintf("HARD %d", c.Value)
	case Soft:
		return fmt.Sprintf("SOFT %d", c.Value)
	case Pair:
		return fmt.Sprintf("PAIR %ds", c.Value)
	default:
		return "?"
	}
}
