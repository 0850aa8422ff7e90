package game

import "fmt"

// Deal splits deck round-robin into one hand per player: card i of the deck
// lands in hand i mod players. When the deck does not divide evenly, the
// earlier seats end up one card longer.
func Deal(deck []Card, players int) ([][]Card, error) {
	if players < MinPlayers || players > MaxPlayers {
		return nil, fmt.Errorf("deal: player count %d outside [%d, %d]", players, MinPlayers, MaxPlayers)
	}
	hands := make([][]Card, players)
	for i, c := range deck {
		hands[i%players] = append(hands[i%players], c)
	}
	return hands, nil
}
