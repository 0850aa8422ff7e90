package room

import (
	"fmt"
	"testing"
)

func seats(eliminated ...bool) []*Player {
	players := make([]*Player, len(eliminated))
	for i, e := range eliminated {
		players[i] = &Player{
			ID:         fmt.Sprintf("p%d", i),
			Name:       fmt.Sprintf("player%d", i),
			Eliminated: e,
		}
	}
	return players
}

func TestNextTurn(t *testing.T) {
	tests := []struct {
		name       string
		eliminated []bool
		current    int
		want       int
	}{
		{name: "advances one seat", eliminated: []bool{false, false, false}, current: 0, want: 1},
		{name: "wraps around", eliminated: []bool{false, false, false}, current: 2, want: 0},
		{name: "skips an eliminated seat", eliminated: []bool{false, true, false}, current: 0, want: 2},
		{name: "skips a run of eliminated seats", eliminated: []bool{false, true, true, false}, current: 0, want: 3},
		{name: "comes back to the only live seat", eliminated: []bool{true, false, true}, current: 1, want: 1},
		{name: "all eliminated returns current", eliminated: []bool{true, true, true}, current: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextTurn(seats(tt.eliminated...), tt.current); got != tt.want {
				t.Errorf("nextTurn = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGameOver(t *testing.T) {
	tests := []struct {
		name       string
		eliminated []bool
		wantOver   bool
		wantLoser  string
	}{
		{name: "everyone holding", eliminated: []bool{false, false, false}, wantOver: false},
		{name: "one out of three gone", eliminated: []bool{true, false, false}, wantOver: false},
		{name: "one seat left holding", eliminated: []bool{true, false, true}, wantOver: true, wantLoser: "player1"},
		{name: "two player game decided", eliminated: []bool{false, true}, wantOver: true, wantLoser: "player0"},
		{name: "no seats left holding", eliminated: []bool{true, true}, wantOver: true, wantLoser: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			over, loser := gameOver(seats(tt.eliminated...))
			if over != tt.wantOver {
				t.Errorf("over = %v, want %v", over, tt.wantOver)
			}
			if loser != tt.wantLoser {
				t.Errorf("loser = %q, want %q", loser, tt.wantLoser)
			}
		})
	}
}
