package game

import "strconv"

// Suit identifies one of the four card suits.
type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
)

// Suits lists every suit in a fixed order. Spades comes first because the
// holder of the seven of spades opens the game.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// Ranks run from seven up to fourteen, the ace. The ace counts high and
// closes a run.
const (
	MinRank = 7
	MaxRank = 14
)

// Player counts a room will accept for a deal.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// Card is a single card from the stripped 32-card deck.
type Card struct {
	Suit Suit `json:"suit"`
	Rank int  `json:"rank"`
}

var rankLabels = map[int]string{11: "J", 12: "Q", 13: "K", 14: "A"}

// String renders a card in compact log form, e.g. "7S", "10D", "AH".
func (c Card) String() string {
	label, ok := rankLabels[c.Rank]
	if !ok {
		label = strconv.Itoa(c.Rank)
	}
	if len(c.Suit) == 0 {
		return label + "?"
	}
	return label + string(c.Suit[0]-'a'+'A')
}
