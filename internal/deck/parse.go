package deck

import (
	"fmt"
	"strings"
)

var rankLetters = map[string]Rank{
	"2": Two, "3": Three, "4": Four, "5": Five, "6": Six,
	"7": Seven, "8": Eight, "9": Nine, "10": Ten, "T": Ten,
	"J": Jack, "Q": Queen, "K": King, "A": Ace,
}

var suitLetters = map[string]Suit{
	"s": Spades, "h": Hearts, "d": Diamonds, "c": Clubs,
	"♠": Spades, "♥": Hearts, "♦": Diamonds, "♣": Clubs,
}

// ParseCard parses a single card token such as "As", "Th", "10h" or "K♦".
// Rank letters are case-insensitive; "10" is accepted as an alias for "T".
func ParseCard(token string) (Card, error) {
	runes := []rune(strings.TrimSpace(token))
	if len(runes) < 2 || len(runes) > 3 {
		return Card{}, fmt.Errorf("invalid card token %q", token)
	}

	rankStr := strings.ToUpper(string(runes[:len(runes)-1]))
	suitStr := strings.ToLower(string(runes[len(runes)-1]))

	rank, ok := rankLetters[rankStr]
	if !ok {
		return Card{}, fmt.Errorf("invalid rank %q in card token %q", rankStr, token)
	}
	suit, ok := suitLetters[suitStr]
	if !ok {
		return Card{}, fmt.Errorf("invalid suit %q in card token %q", suitStr, token)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// ParseCards parses a concatenated card string such as "AsKsTh".
// The "10" rank alias is accepted, so "10sAh" parses as two cards.
func ParseCards(s string) ([]Card, error) {
	cards := []Card{}
	runes := []rune(s)
	for i := 0; i < len(runes); {
		end := i + 2
		if runes[i] == '1' {
			end = i + 3
		}
		if end > len(runes) {
			return nil, fmt.Errorf("truncated card token at end of %q", s)
		}
		card, err := ParseCard(string(runes[i:end]))
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
		i = end
	}
	return cards, nil
}

// MustParseCards parses a concatenated card string and panics on error.
// For tests and fixtures only.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
