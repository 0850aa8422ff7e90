package game

import (
	"reflect"
	"testing"
)

func TestPlayable(t *testing.T) {
	tests := []struct {
		name  string
		plays []Card
		card  Card
		want  bool
	}{
		{
			name: "seven opens an unopened run",
			card: Card{Suit: Spades, Rank: 7},
			want: true,
		},
		{
			name: "higher rank on an unopened run",
			card: Card{Suit: Hearts, Rank: 9},
			want: false,
		},
		{
			name:  "seven on an opened run",
			plays: []Card{{Suit: Spades, Rank: 7}},
			card:  Card{Suit: Spades, Rank: 7},
			want:  false,
		},
		{
			name:  "next rank extends the run",
			plays: []Card{{Suit: Spades, Rank: 7}},
			card:  Card{Suit: Spades, Rank: 8},
			want:  true,
		},
		{
			name:  "rank with a gap",
			plays: []Card{{Suit: Spades, Rank: 7}},
			card:  Card{Suit: Spades, Rank: 9},
			want:  false,
		},
		{
			name:  "run in one suit does not open another",
			plays: []Card{{Suit: Spades, Rank: 7}},
			card:  Card{Suit: Hearts, Rank: 8},
			want:  false,
		},
		{
			name: "ace caps a full run",
			plays: []Card{
				{Suit: Diamonds, Rank: 7}, {Suit: Diamonds, Rank: 8},
				{Suit: Diamonds, Rank: 9}, {Suit: Diamonds, Rank: 10},
				{Suit: Diamonds, Rank: 11}, {Suit: Diamonds, Rank: 12},
				{Suit: Diamonds, Rank: 13},
			},
			card: Card{Suit: Diamonds, Rank: 14},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := NewBoard()
			for _, c := range tt.plays {
				board.Apply(c)
			}
			if got := board.Playable(tt.card); got != tt.want {
				t.Errorf("Playable(%s) = %v, want %v", tt.card, got, tt.want)
			}
		})
	}
}

func TestLegalMovesPreservesHandOrder(t *testing.T) {
	board := NewBoard()
	board.Apply(Card{Suit: Hearts, Rank: 7})

	hand := []Card{
		{Suit: Hearts, Rank: 8},
		{Suit: Spades, Rank: 9},
		{Suit: Clubs, Rank: 7},
		{Suit: Hearts, Rank: 10},
	}
	want := []Card{
		{Suit: Hearts, Rank: 8},
		{Suit: Clubs, Rank: 7},
	}
	if got := board.LegalMoves(hand); !reflect.DeepEqual(got, want) {
		t.Errorf("LegalMoves = %v, want %v", got, want)
	}
}

func TestLegalMovesEmptyWhenStuck(t *testing.T) {
	board := NewBoard()
	hand := []Card{
		{Suit: Spades, Rank: 9},
		{Suit: Hearts, Rank: 12},
	}
	if got := board.LegalMoves(hand); len(got) != 0 {
		t.Errorf("expected no legal moves, got %v", got)
	}
}

func TestApplyTracksHighs(t *testing.T) {
	board := NewBoard()
	board.Apply(Card{Suit: Spades, Rank: 7})
	board.Apply(Card{Suit: Spades, Rank: 8})
	board.Apply(Card{Suit: Clubs, Rank: 7})

	want := map[Suit]int{Spades: 8, Hearts: 0, Diamonds: 0, Clubs: 7}
	if got := board.Runs(); !reflect.DeepEqual(got, want) {
		t.Errorf("Runs = %v, want %v", got, want)
	}
}

func TestApplyPanicsOnUnplayableCard(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unplayable card")
		}
	}()
	NewBoard().Apply(Card{Suit: Hearts, Rank: 9})
}

func TestRunsReturnsACopy(t *testing.T) {
	board := NewBoard()
	runs := board.Runs()
	runs[Spades] = 12
	if board.High(Spades) != 0 {
		t.Error("mutating the Runs copy leaked into the board")
	}
}
