package shoe

import (
	rand "math/rand/v2"

	"github.com/edgecount/edgecount/internal/deck"
	"github.com/edgecount/edgecount/internal/rules"
	"github.com/edgecount/edgecount/protocol"
)

// DrawShoe is the virtual multi-deck shoe auto-mode sessions deal from.
// It owns a session-local RNG so a session replayed from its seed deals
// the identical card sequence.
type DrawShoe struct {
	numDecks int
	rng      *rand.Rand
	cards    []deck.Card
	next     int
}

// NewDrawShoe builds a shuffled shoe of numDecks decks using the given RNG
func NewDrawShoe(numDecks int, rng *rand.Rand) *DrawShoe {
	s := &DrawShoe{
		numDecks: numDecks,
		rng:      rng,
		cards:    make([]deck.Card, 0, numDecks*rules.CardsPerDeck),
	}
	s.Shuffle()
	return s
}

// Shuffle rebuilds and reshuffles the full shoe
func (s *DrawShoe) Shuffle() {
	s.cards = s.cards[:0]
	for d := 0; d < s.numDecks; d++ {
		for suit := deck.Spades; suit <= deck.Clubs; suit++ {
			for rank := deck.Two; rank <= deck.Ace; rank++ {
				s.cards = append(s.cards, deck.NewCard(suit, rank))
			}
		}
	}
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
	s.next = 0
}

// Draw deals the next card. Fails with SHOE_EXHAUSTED when none remain.
func (s *DrawShoe) Draw() (deck.Card, error) {
	if s.next >= len(s.cards) {
		return deck.Card{}, protocol.Errorf(protocol.ErrShoeExhausted, "draw shoe empty")
	}
	card := s.cards[s.next]
	s.next++
	return card, nil
}

// CardsRemaining returns how many cards can still be drawn
func (s *DrawShoe) CardsRemaining() int {
	return len(s.cards) - s.next
}

// CardsDealt returns how many cards have been drawn this shoe
func (s *DrawShoe) CardsDealt() int {
	return s.next
}

// NeedsShuffle reports whether the cut card has been reached
func (s *DrawShoe) NeedsShuffle(penetration float64) bool {
	return s.next >= int(float64(len(s.cards))*penetration)
}
