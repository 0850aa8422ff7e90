package game

import "fmt"

// Board tracks the four suit runs. Runs only grow upward from the seven, so
// each one is summarized by its highest placed rank, with 0 meaning the suit
// has not been opened yet.
type Board struct {
	runs map[Suit]int
}

// NewBoard returns a board with all four runs unopened.
func NewBoard() *Board {
	runs := make(map[Suit]int, len(Suits))
	for _, s := range Suits {
		runs[s] = 0
	}
	return &Board{runs: runs}
}

// High reports the top rank placed for suit, 0 when the run is unopened.
func (b *Board) High(suit Suit) int {
	return b.runs[suit]
}

// Playable reports whether c would legally extend its suit run right now:
// a seven opens an unopened run, any other rank must sit directly above the
// current high card.
func (b *Board) Playable(c Card) bool {
	high, ok := b.runs[c.Suit]
	if !ok {
		return false
	}
	if high == 0 {
		return c.Rank == MinRank
	}
	return c.Rank == high+1
}

// LegalMoves filters hand down to the cards playable right now, preserving
// hand order.
func (b *Board) LegalMoves(hand []Card) []Card {
	legal := []Card{}
	for _, c := range hand {
		if b.Playable(c) {
			legal = append(legal, c)
		}
	}
	return legal
}

// Apply places c on its suit run. Callers must only pass cards reported by
// LegalMoves; Apply panics on anything else.
func (b *Board) Apply(c Card) {
	if !b.Playable(c) {
		panic(fmt.Sprintf("board: applied unplayable card %s with %s high at %d", c, c.Suit, b.runs[c.Suit]))
	}
	b.runs[c.Suit] = c.Rank
}

// Runs returns a copy of the per-suit high marks.
func (b *Board) Runs() map[Suit]int {
	out := make(map[Suit]int, len(b.runs))
	for s, high := range b.runs {
		out[s] = high
	}
	return out
}
