package deck

import "testing"

func TestHandTotal(t *testing.T) {
	tests := []struct {
		name  string
		cards string
		total int
		soft  bool
	}{
		{"hard sixteen", "Th6d", 16, false},
		{"soft seventeen", "Ah6d", 17, true},
		{"ace reduced", "Ah6dTc", 17, false},
		{"two aces", "AhAd", 12, true},
		{"two aces plus nine", "AhAd9c", 21, true},
		{"three aces", "AhAdAc", 13, true},
		{"blackjack total", "AhKd", 21, true},
		{"bust", "ThKd5c", 25, false},
		{"hard twenty", "ThQd", 20, false},
		{"soft via reduction chain", "Ah5d5c", 21, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHand(MustParseCards(tt.cards)...)
			if got := h.Total(); got != tt.total {
				t.Errorf("Total() = %d, want %d", got, tt.total)
			}
			if got := h.IsSoft(); got != tt.soft {
				t.Errorf("IsSoft() = %v, want %v", got, tt.soft)
			}
		})
	}
}

func TestIsPair(t *testing.T) {
	tests := []struct {
		name  string
		cards string
		want  bool
	}{
		{"eights", "8h8d", true},
		{"aces", "AhAd", true},
		{"tens", "ThTd", true},
		{"king and ten share value but not rank", "KhTd", false},
		{"jack and queen", "JhQd", false},
		{"three eights", "8h8d8c", false},
		{"single card", "8h", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHand(MustParseCards(tt.cards)...)
			if got := h.IsPair(); got != tt.want {
				t.Errorf("IsPair() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsBlackjack(t *testing.T) {
	if !NewHand(MustParseCards("AhKd")...).IsBlackjack() {
		t.Error("A-K should be blackjack")
	}
	if NewHand(MustParseCards("Ah5d5c")...).IsBlackjack() {
		t.Error("three-card 21 is not blackjack")
	}
	if NewHand(MustParseCards("ThKd")...).IsBlackjack() {
		t.Error("twenty is not blackjack")
	}
}

func TestIsBust(t *testing.T) {
	if NewHand(MustParseCards("ThKd")...).IsBust() {
		t.Error("twenty should not be bust")
	}
	if !NewHand(MustParseCards("ThKd5c")...).IsBust() {
		t.Error("25 should be bust")
	}
	// Aces keep reducing before a bust
	if NewHand(MustParseCards("AhAdAc8s")...).IsBust() {
		t.Error("A-A-A-8 totals 21, not bust")
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		name  string
		cards string
		want  Category
	}{
		{"hard sixteen", "Th6d", Category{Kind: Hard, Value: 16}},
		{"soft eighteen", "Ah7d", Category{Kind: Soft, Value: 18}},
		{"pair of eights", "8h8d", Category{Kind: Pair, Value: 8}},
		{"pair of tens", "ThTd", Category{Kind: Pair, Value: 10}},
		{"pair of aces over soft", "AhAd", Category{Kind: Pair, Value: 11}},
		{"hard after hit", "8h8d5c", Category{Kind: Hard, Value: 21}},
		{"ten and king is hard twenty", "ThKd", Category{Kind: Hard, Value: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHand(MustParseCards(tt.cards)...)
			if got := h.Category(); got != tt.want {
				t.Errorf("Category() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategoryKey(t *testing.T) {
	tests := []struct {
		cat    Category
		upcard int
		want   string
	}{
		{Category{Kind: Hard, Value: 16}, 10, "H_16:10"},
		{Category{Kind: Soft, Value: 18}, 11, "S_18:11"},
		{Category{Kind: Pair, Value: 8}, 10, "P_08:10"},
	}
	for _, tt := range tests {
		if got := tt.cat.Key(tt.upcard); got != tt.want {
			t.Errorf("Key(%v, %d) = %q, want %q", tt.cat, tt.upcard, got, tt.want)
		}
	}
}

func TestAddDoesNotMutate(t *testing.T) {
	h := NewHand(MustParseCards("8h8d")...)
	h2 := h.Add(NewCard(Clubs, Five))
	if len(h.Cards) != 2 {
		t.Errorf("Add mutated the original hand: %v", h)
	}
	if len(h2.Cards) != 3 || h2.Total() != 21 {
		t.Errorf("Add result wrong: %v total %d", h2, h2.Total())
	}
}
