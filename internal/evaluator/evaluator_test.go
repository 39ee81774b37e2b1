package evaluator

import (
	"testing"

	"abilityholdem/internal/deck"
)

func cards(specs ...string) []deck.Card {
	suits := map[byte]deck.Suit{'s': deck.Spades, 'h': deck.Hearts, 'd': deck.Diamonds, 'c': deck.Clubs}
	ranks := map[string]deck.Rank{
		"2": deck.Two, "3": deck.Three, "4": deck.Four, "5": deck.Five,
		"6": deck.Six, "7": deck.Seven, "8": deck.Eight, "9": deck.Nine,
		"T": deck.Ten, "J": deck.Jack, "Q": deck.Queen, "K": deck.King, "A": deck.Ace,
	}
	out := make([]deck.Card, 0, len(specs))
	for _, s := range specs {
		out = append(out, deck.NewCard(ranks[s[:len(s)-1]], suits[s[len(s)-1]]))
	}
	return out
}

func TestScoreFiveCategories(t *testing.T) {
	cases := []struct {
		name  string
		hand  []deck.Card
		want  Category
		check func(s Score) bool
	}{
		{"straight flush", cards("9s", "8s", "7s", "6s", "5s"), StraightFlush,
			func(s Score) bool { return s[1] == 9 }},
		{"four of a kind", cards("Ks", "Kh", "Kd", "Kc", "2s"), FourOfAKind,
			func(s Score) bool { return s[1] == 13 && s[2] == 2 }},
		{"full house", cards("3s", "3h", "3d", "Jc", "Js"), FullHouse,
			func(s Score) bool { return s[1] == 3 && s[2] == 11 }},
		{"flush", cards("Ah", "Jh", "8h", "5h", "2h"), Flush,
			func(s Score) bool { return s[1] == 14 && s[5] == 2 }},
		{"straight", cards("8s", "7h", "6d", "5c", "4s"), Straight,
			func(s Score) bool { return s[1] == 8 }},
		{"wheel", cards("As", "2h", "3d", "4c", "5s"), Straight,
			func(s Score) bool { return s[1] == 5 }},
		{"steel wheel", cards("Ah", "2h", "3h", "4h", "5h"), StraightFlush,
			func(s Score) bool { return s[1] == 5 }},
		{"trips", cards("7s", "7h", "7d", "Ac", "2s"), ThreeOfAKind,
			func(s Score) bool { return s[1] == 7 && s[2] == 14 && s[3] == 2 }},
		{"two pair", cards("9s", "9h", "4d", "4c", "Ks"), TwoPair,
			func(s Score) bool { return s[1] == 9 && s[2] == 4 && s[3] == 13 }},
		{"pair", cards("Qs", "Qh", "Ad", "7c", "3s"), Pair,
			func(s Score) bool { return s[1] == 12 && s[2] == 14 }},
		{"high card", cards("As", "Jh", "9d", "6c", "3s"), HighCard,
			func(s Score) bool { return s[1] == 14 && s[5] == 3 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := ScoreFive(tc.hand)
			if s.Category() != tc.want {
				t.Fatalf("category = %v, want %v (score %v)", s.Category(), tc.want, s)
			}
			if !tc.check(s) {
				t.Errorf("unexpected tiebreakers: %v", s)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	flush := ScoreFive(cards("Ah", "Jh", "8h", "5h", "2h"))
	straight := ScoreFive(cards("8s", "7h", "6d", "5c", "4s"))
	if Compare(flush, straight) <= 0 {
		t.Error("flush should beat straight")
	}
	if Compare(straight, flush) >= 0 {
		t.Error("straight should lose to flush")
	}
	if Compare(flush, flush) != 0 {
		t.Error("score should tie with itself")
	}

	// nil is weaker than anything, two nils tie.
	if Compare(nil, straight) != -1 {
		t.Error("nil should lose to any score")
	}
	if Compare(straight, nil) != 1 {
		t.Error("any score should beat nil")
	}
	if Compare(nil, nil) != 0 {
		t.Error("two nils should tie")
	}

	// Missing trailing positions count as zero.
	if Compare(Score{1, 5}, Score{1, 5, 0}) != 0 {
		t.Error("missing positions should compare as zero")
	}
	if Compare(Score{1, 5}, Score{1, 5, 3}) != -1 {
		t.Error("shorter score should lose to real kicker")
	}
}

func TestBestPicksStrongestFiveOfSeven(t *testing.T) {
	// Board pairs the hole cards into a full house.
	s := Best(cards("As", "Ah", "Ad", "Kc", "Ks", "2h", "7d"))
	if s.Category() != FullHouse {
		t.Fatalf("category = %v, want FullHouse (score %v)", s.Category(), s)
	}
	if s[1] != 14 || s[2] != 13 {
		t.Errorf("want aces full of kings, got %v", s)
	}
}

func TestBestDegradesBelowFiveCards(t *testing.T) {
	s := Best(cards("As", "Kh"))
	if s.Category() != HighCard {
		t.Fatalf("partial hand category = %v, want HighCard", s.Category())
	}
	if s[1] != 14 || s[2] != 13 {
		t.Errorf("want descending ranks, got %v", s)
	}
}

func TestBestDetailedReturnsWinningCards(t *testing.T) {
	all := cards("9h", "8h", "7h", "6h", "5h", "As", "Ad")
	s, used := BestDetailed(all)
	if s.Category() != StraightFlush {
		t.Fatalf("category = %v, want StraightFlush", s.Category())
	}
	if len(used) != 5 {
		t.Fatalf("used %d cards, want 5", len(used))
	}
	for _, c := range used {
		if c.Suit != deck.Hearts {
			t.Errorf("straight flush used off-suit card %s", c)
		}
	}
}

func TestBestDetailedMatchesBruteForceOnSixCards(t *testing.T) {
	all := cards("Ks", "Kh", "9d", "9c", "4s", "4h")
	s, _ := BestDetailed(all)
	if s.Category() != TwoPair {
		t.Fatalf("category = %v, want TwoPair", s.Category())
	}
	if s[1] != 13 || s[2] != 9 || s[3] != 4 {
		t.Errorf("want kings and nines with a four, got %v", s)
	}
}

func TestDecisiveCards(t *testing.T) {
	cases := []struct {
		name string
		used []deck.Card
		want int
	}{
		{"pair keeps only the pair", cards("Qs", "Qh", "Ad", "7c", "3s"), 2},
		{"two pair keeps both pairs", cards("9s", "9h", "4d", "4c", "Ks"), 4},
		{"quads drop the kicker", cards("Ks", "Kh", "Kd", "Kc", "2s"), 4},
		{"trips keep three", cards("7s", "7h", "7d", "Ac", "2s"), 3},
		{"straight keeps all five", cards("8s", "7h", "6d", "5c", "4s"), 5},
		{"flush keeps all five", cards("Ah", "Jh", "8h", "5h", "2h"), 5},
		{"full house keeps all five", cards("3s", "3h", "3d", "Jc", "Js"), 5},
		{"high card keeps one", cards("As", "Jh", "9d", "6c", "3s"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := ScoreFive(tc.used)
			got := DecisiveCards(tc.used, s)
			if len(got) != tc.want {
				t.Errorf("got %d decisive cards %v, want %d", len(got), got, tc.want)
			}
		})
	}
}

func TestStrength01Bounds(t *testing.T) {
	hand := cards("As", "Ah")
	board := cards("Ad", "Ac", "Ks")
	s := Best(append(append([]deck.Card(nil), hand...), board...))
	v := Strength01(s, board, hand)
	if v < 0 || v > 1 {
		t.Fatalf("strength %v out of [0,1]", v)
	}

	weakHand := cards("2s", "7h")
	weakBoard := cards("Kd", "Qc", "9s")
	ws := Best(append(append([]deck.Card(nil), weakHand...), weakBoard...))
	wv := Strength01(ws, weakBoard, weakHand)
	if wv >= v {
		t.Errorf("quads (%v) should read stronger than seven high (%v)", v, wv)
	}
}

func TestStrength01RewardsDraws(t *testing.T) {
	hand := cards("Ah", "Kh")
	drawBoard := cards("9h", "4h", "2c")
	dryBoard := cards("9s", "4d", "2c")
	withDraw := Strength01(Best(append(append([]deck.Card(nil), hand...), drawBoard...)), drawBoard, hand)
	without := Strength01(Best(append(append([]deck.Card(nil), hand...), dryBoard...)), dryBoard, hand)
	if withDraw <= without {
		t.Errorf("flush draw %v should read above dry board %v", withDraw, without)
	}
}
