package game

import (
	"math/rand"
	"sort"
)

// DeckSize is the number of cards in play: four suits of ranks 7 through 14.
const DeckSize = 32

// NewDeck returns the full deck in suit and rank order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for r := MinRank; r <= MaxRank; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle returns a shuffled copy of deck. The input slice is left untouched.
func Shuffle(rng *rand.Rand, deck []Card) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

var suitOrder = map[Suit]int{Spades: 0, Hearts: 1, Diamonds: 2, Clubs: 3}

// SortHand orders cards in place by suit then rank for stable display.
func SortHand(hand []Card) {
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Suit != hand[j].Suit {
			return suitOrder[hand[i].Suit] < suitOrder[hand[j].Suit]
		}
		return hand[i].Rank < hand[j].Rank
	})
}
