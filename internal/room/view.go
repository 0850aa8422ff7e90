package room

import (
	"time"

	"github.com/baderali164/sevens/internal/game"
)

// Message types fanned out by the room. Request/reply types belong to the
// gateway.
const (
	msgPlayerList       = "player_list"
	msgGameStarted      = "game_started"
	msgGameState        = "game_state"
	msgPlayerEliminated = "player_eliminated"
)

// PlayerView is the roster entry visible to everyone in the room.
type PlayerView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CardCount  int    `json:"cardCount"`
	Passed     bool   `json:"passed"`
	Eliminated bool   `json:"eliminated"`
}

type rosterEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type playerListMessage struct {
	Type    string        `json:"type"`
	Players []rosterEntry `json:"players"`
}

type gameStartedMessage struct {
	Type string `json:"type"`
}

type playerEliminatedMessage struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type gameStateMessage struct {
	Type            string            `json:"type"`
	Board           map[game.Suit]int `json:"board"`
	Players         []PlayerView      `json:"players"`
	Turn            int               `json:"turn"`
	CurrentPlayerID string            `json:"currentPlayerId"`
	Hand            []game.Card       `json:"hand"`
	LegalMoves      []game.Card       `json:"legalMoves"`
	Started         bool              `json:"started"`
	GameOver        bool              `json:"gameOver"`
	Loser           string            `json:"loser,omitempty"`
}

// stateFor builds the game_state view for one player. Hands are private:
// each player sees only their own, and the legal-move set is filled in only
// for the player whose turn it is. Callers must hold r.mu.
func (r *Room) stateFor(p *Player) gameStateMessage {
	cur := r.players[r.turn]
	msg := gameStateMessage{
		Type:            msgGameState,
		Board:           r.board.Runs(),
		Turn:            r.turn,
		CurrentPlayerID: cur.ID,
		Hand:            append([]game.Card{}, p.Hand...),
		LegalMoves:      []game.Card{},
		Started:         r.started,
		GameOver:        r.gameOver,
		Loser:           r.loser,
	}
	for _, q := range r.players {
		msg.Players = append(msg.Players, PlayerView{
			ID:         q.ID,
			Name:       q.Name,
			CardCount:  len(q.Hand),
			Passed:     q.Passed,
			Eliminated: q.Eliminated,
		})
	}
	if p == cur && !r.gameOver {
		msg.LegalMoves = r.board.LegalMoves(p.Hand)
	}
	return msg
}

// Summary is the admin listing entry for a room.
type Summary struct {
	Code      string    `json:"code"`
	Players   int       `json:"players"`
	Started   bool      `json:"started"`
	GameOver  bool      `json:"gameOver"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicState is the read-only room view served over the REST API. It
// carries no hands.
type PublicState struct {
	Code            string            `json:"code"`
	Players         []PlayerView      `json:"players"`
	Board           map[game.Suit]int `json:"board"`
	Turn            int               `json:"turn"`
	CurrentPlayerID string            `json:"currentPlayerId,omitempty"`
	Started         bool              `json:"started"`
	GameOver        bool              `json:"gameOver"`
	Loser           string            `json:"loser,omitempty"`
}
