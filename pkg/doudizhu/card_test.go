package doudizhu

import (
	"testing"
)

var nextTestId = 1000

// mk 按牌值造牌，Id 全局递增保证不重复；16 为小王，17 为大王
func mk(values ...int) Cards {
	suits := []Suit{SuitSpade, SuitHeart, SuitDiamond, SuitClub}
	out := make(Cards, 0, len(values))
	for i, v := range values {
		nextTestId++
		switch v {
		case ValueSmallJoker:
			out = append(out, NewCard(nextTestId, RankJoker, SuitJokerBlack))
		case ValueBigJoker:
			out = append(out, NewCard(nextTestId, RankJoker, SuitJokerRed))
		default:
			out = append(out, NewCard(nextTestId, Rank(v), suits[i%len(suits)]))
		}
	}
	return out
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck(1, false)
	if len(deck) != PackSize {
		t.Fatalf("expected %d cards, got %d", PackSize, len(deck))
	}
	if deck.HasDuplicateId() {
		t.Error("deck has duplicate ids")
	}

	counts := deck.ValueCounts()
	for v := int(Rank3); v <= int(Rank2); v++ {
		if counts[v] != 4 {
			t.Errorf("value %d: expected 4 cards, got %d", v, counts[v])
		}
	}
	if counts[ValueSmallJoker] != 1 || counts[ValueBigJoker] != 1 {
		t.Errorf("expected one of each joker, got %d/%d", counts[ValueSmallJoker], counts[ValueBigJoker])
	}

	for i, c := range deck {
		if c.Id != i {
			t.Errorf("index %d: expected id %d, got %d", i, i, c.Id)
		}
	}

	if got := NewDeck(2, true); len(got) != 2*PackSize || !got[0].FaceUp {
		t.Errorf("expected %d face-up cards, got %d", 2*PackSize, len(got))
	}
	if NewDeck(0, false) != nil {
		t.Error("expected nil deck for zero packs")
	}
}

func TestCard_Value(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want int
	}{
		{"3最小", NewCard(0, Rank3, SuitSpade), 3},
		{"A", NewCard(0, RankA, SuitHeart), 14},
		{"2比A大", NewCard(0, Rank2, SuitClub), 15},
		{"小王", NewCard(0, RankJoker, SuitJokerBlack), ValueSmallJoker},
		{"大王", NewCard(0, RankJoker, SuitJokerRed), ValueBigJoker},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.Value(); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCards_Sorted(t *testing.T) {
	cards := Cards{
		NewCard(3, Rank2, SuitSpade),
		NewCard(1, RankJoker, SuitJokerRed),
		NewCard(7, Rank3, SuitHeart),
		NewCard(2, Rank3, SuitSpade),
	}
	sorted := cards.Sorted()

	wantIds := []int{2, 7, 3, 1}
	for i, id := range sorted.Ids() {
		if id != wantIds[i] {
			t.Errorf("index %d: expected id %d, got %d", i, wantIds[i], id)
		}
	}
	if cards[0].Id != 3 {
		t.Error("Sorted must not modify the receiver")
	}
}

func TestCards_HasDuplicateId(t *testing.T) {
	if mk(3, 4, 5).HasDuplicateId() {
		t.Error("unique ids reported as duplicate")
	}
	c := NewCard(1, Rank3, SuitSpade)
	if !(Cards{c, c}).HasDuplicateId() {
		t.Error("duplicate ids not detected")
	}
}

func TestSeededShuffler(t *testing.T) {
	deck := NewDeck(1, false)

	a := Shuffle(deck, "seed-1")
	b := Shuffle(deck, "seed-1")
	c := Shuffle(deck, "seed-2")

	same := func(x, y Cards) bool {
		for i := range x {
			if x[i].Id != y[i].Id {
				return false
			}
		}
		return true
	}

	if !same(a, b) {
		t.Error("same seed produced different permutations")
	}
	if same(a, c) {
		t.Error("different seeds produced the same permutation")
	}
	if same(a, deck) {
		t.Error("shuffle left the deck in order")
	}
	for i, card := range deck {
		if card.Id != i {
			t.Fatal("shuffle modified its input")
		}
	}
	if len(a) != PackSize || a.HasDuplicateId() {
		t.Error("shuffle did not preserve the cards")
	}
}

func TestPlayer_Remove(t *testing.T) {
	hand := mk(3, 3, 5, 7, 9)
	p := NewPlayer(0)
	p.SetHand(hand)

	// 部分牌不在手中时整体失败
	missing := Cards{hand[0], NewCard(1, Rank4, SuitSpade)}
	if p.Remove(missing) {
		t.Error("expected remove to fail")
	}
	if p.HandCount() != 5 {
		t.Errorf("failed remove changed the hand: %d", p.HandCount())
	}

	// Id 对但点数不对
	forged := hand[2]
	forged.Rank = Rank2
	if p.Holds(Cards{forged}) {
		t.Error("a card with a matching id but different face must not be held")
	}

	if !p.Remove(Cards{hand[0], hand[1]}) {
		t.Fatal("expected remove to succeed")
	}
	if p.HandCount() != 3 {
		t.Errorf("expected 3 cards left, got %d", p.HandCount())
	}
	if p.Hand.IndexOf(hand[0].Id) != -1 {
		t.Error("removed card still in hand")
	}
}
