package deck

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Letter returns the single ASCII letter for a suit (s, h, d, c)
func (s Suit) Letter() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Ten, Jack, Queen and King are distinct
// ranks even though they share a blackjack value: pair identity and
// composition tracking depend on the distinction.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Two:
		return "2"
	case Three:
		return "3"
	case Four:
		return "4"
	case Five:
		return "5"
	case Six:
		return "6"
	case Seven:
		return "7"
	case Eight:
		return "8"
	case Nine:
		return "9"
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// BlackjackValue returns the rank's blackjack value. Aces count 11 here;
// Hand totalling reduces them to 1 as needed.
func (r Rank) BlackjackValue() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten:
		return 10
	default:
		return int(r)
	}
}

// HiLoTag returns the Hi-Lo count contribution of the rank:
// +1 for 2-6, 0 for 7-9, -1 for tens and aces.
func (r Rank) HiLoTag() int {
	switch {
	case r >= Two && r <= Six:
		return 1
	case r >= Seven && r <= Nine:
		return 0
	default:
		return -1
	}
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Token returns the two-character wire token for a card (e.g., "As", "Th")
func (c Card) Token() string {
	return c.Rank.String() + c.Suit.Letter()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// BlackjackValue returns the card's blackjack value (ace high)
func (c Card) BlackjackValue() int {
	return c.Rank.BlackjackValue()
}

// HiLoTag returns the card's Hi-Lo count contribution
func (c Card) HiLoTag() int {
	return c.Rank.HiLoTag()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsTenValue returns true for T, J, Q, K
func (c Card) IsTenValue() bool {
	return c.Rank >= Ten && c.Rank <= King
}
