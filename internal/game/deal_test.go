package game

import "testing"

func TestDealHandSizes(t *testing.T) {
	tests := []struct {
		name    string
		players int
		want    []int
	}{
		{name: "two players", players: 2, want: []int{16, 16}},
		{name: "three players", players: 3, want: []int{11, 11, 10}},
		{name: "four players", players: 4, want: []int{8, 8, 8, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hands, err := Deal(NewDeck(), tt.players)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(hands) != tt.players {
				t.Fatalf("expected %d hands, got %d", tt.players, len(hands))
			}
			for i, hand := range hands {
				if len(hand) != tt.want[i] {
					t.Errorf("hand %d has %d cards, want %d", i, len(hand), tt.want[i])
				}
			}
		})
	}
}

func TestDealRoundRobin(t *testing.T) {
	deck := NewDeck()
	hands, err := Deal(deck, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, c := range deck {
		got := hands[i%3][i/3]
		if got != c {
			t.Fatalf("deck card %d (%s) landed as %s", i, c, got)
		}
	}
}

func TestDealRejectsBadPlayerCounts(t *testing.T) {
	for _, players := range []int{-1, 0, 1, 5} {
		if _, err := Deal(NewDeck(), players); err == nil {
			t.Errorf("expected error for %d players", players)
		}
	}
}
