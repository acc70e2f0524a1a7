package shoe

import (
	"fmt"

	"github.com/edgecount/edgecount/internal/deck"
	"github.com/edgecount/edgecount/internal/rules"
	"github.com/edgecount/edgecount/protocol"
)

// Snapshot is the count state handed to the decision and betting engines.
type Snapshot struct {
	RunningCount   int
	TrueCount      float64
	DecksRemaining float64
	Penetration    float64
	CardsDealt     int
}

// Counter tracks the Hi-Lo count for one shoe. It never touches actual
// cards beyond their count tags: the same counter serves auto mode (fed by
// the virtual shoe) and shadow mode (fed by caller observations).
//
// decks_remaining is clamped to 0.5 before the true-count division so the
// count cannot blow up at the end of the shoe.
type Counter struct {
	numDecks     int
	runningCount int
	cardsDealt   int
}

// NewCounter creates a counter for a fresh shoe of the given size
func NewCounter(numDecks int) *Counter {
	return &Counter{numDecks: numDecks}
}

// TotalCards returns the shoe size in cards
func (c *Counter) TotalCards() int {
	return c.numDecks * rules.CardsPerDeck
}

// CardsRemaining returns how many cards are still undealt
func (c *Counter) CardsRemaining() int {
	return c.TotalCards() - c.cardsDealt
}

// Observe adds one card to the running count. Fails with SHOE_EXHAUSTED if
// the shoe is already fully dealt; the counter state is unchanged on error.
func (c *Counter) Observe(card deck.Card) error {
	if c.cardsDealt >= c.TotalCards() {
		return protocol.Errorf(protocol.ErrShoeExhausted, "all %d cards already observed", c.TotalCards())
	}
	c.runningCount += card.HiLoTag()
	c.cardsDealt++
	return nil
}

// ObserveAll observes a batch of cards atomically: if the batch would
// overrun the shoe, no card is counted.
func (c *Counter) ObserveAll(cards []deck.Card) error {
	if len(cards) > c.CardsRemaining() {
		return protocol.Errorf(protocol.ErrShoeExhausted,
			"%d cards observed with only %d remaining", len(cards), c.CardsRemaining())
	}
	for _, card := range cards {
		c.runningCount += card.HiLoTag()
		c.cardsDealt++
	}
	return nil
}

// Shuffle resets the count to a fresh shoe. Idempotent.
func (c *Counter) Shuffle() {
	c.runningCount = 0
	c.cardsDealt = 0
}

// ShuffleWithBurn resets the count as if joining a shoe mid-way: n cards
// are already gone but were never seen, so the running count stays 0 while
// penetration reflects the true depth.
func (c *Counter) ShuffleWithBurn(burn int) error {
	if burn < 0 || burn > c.TotalCards() {
		return protocol.Errorf(protocol.ErrBadInput, "burn count %d out of range [0,%d]", burn, c.TotalCards())
	}
	c.runningCount = 0
	c.cardsDealt = burn
	return nil
}

// Snapshot computes the derived count state
func (c *Counter) Snapshot() Snapshot {
	decksRemaining := float64(c.CardsRemaining()) / float64(rules.CardsPerDeck)
	divisor := decksRemaining
	if divisor < 0.5 {
		divisor = 0.5
	}
	return Snapshot{
		RunningCount:   c.runningCount,
		TrueCount:      float64(c.runningCount) / divisor,
		DecksRemaining: decksRemaining,
		Penetration:    float64(c.cardsDealt) / float64(c.TotalCards()),
		CardsDealt:     c.cardsDealt,
	}
}

// RunningCount returns the current running count
func (c *Counter) RunningCount() int {
	return c.runningCount
}

// CardsDealt returns how many cards have been observed this shoe
func (c *Counter) CardsDealt() int {
	return c.cardsDealt
}

// IsShuffleDue reports whether the cut card has been passed for the given
// penetration setting.
func (c *Counter) IsShuffleDue(penetration float64) bool {
	return c.cardsDealt >= int(float64(c.TotalCards())*penetration)
}

func (c *Counter) String() string {
	snap := c.Snapshot()
	return fmt.Sprintf("Counter(RC=%d, TC=%.2f, dealt=%d/%d)",
		snap.RunningCount, snap.TrueCount, snap.CardsDealt, c.TotalCards())
}
