// Package room implements the authoritative game session: lobby and seating,
// dealing, per-turn validation, elimination and end-of-game detection, and
// the per-player state fanout.
package room

import (
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/baderali164/sevens/internal/events"
	"github.com/baderali164/sevens/internal/game"
	"github.com/baderali164/sevens/internal/random"
)

// Channel delivers server-to-client messages for one seated player. The
// gateway's connection type implements it; tests substitute a recorder.
type Channel interface {
	Send(v any) error
}

// Player is one seat in a room.
type Player struct {
	ID         string
	Name       string
	Hand       []game.Card
	Eliminated bool
	Passed     bool
	ch         Channel
}

// Options carries the injectable collaborators for a room. Zero fields fall
// back to production defaults.
type Options struct {
	Rng       *rand.Rand
	Clock     clockwork.Clock
	Publisher events.Publisher
}

// Room is a single game session. Every command is serialized behind one
// mutex, so at most one command mutates the room at a time and every fanout
// reflects a consistent state.
type Room struct {
	code      string
	createdAt time.Time

	mu       sync.Mutex
	players  []*Player
	board    *game.Board
	turn     int
	started  bool
	gameOver bool
	loser    string
	closed   bool

	rng       *rand.Rand
	clock     clockwork.Clock
	publisher events.Publisher
}

// New creates a room in the lobby phase with the host seated at index 0.
// Seat 0 is always the host: when it empties, the next seat inherits the
// role.
func New(code, hostID, hostName string, hostCh Channel, opts Options) *Room {
	if opts.Rng == nil {
		opts.Rng = random.NewRand()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Publisher == nil {
		opts.Publisher = events.NewNoopPublisher()
	}
	return &Room{
		code:      code,
		createdAt: opts.Clock.Now(),
		players:   []*Player{{ID: hostID, Name: hostName, ch: hostCh}},
		board:     game.NewBoard(),
		rng:       opts.Rng,
		clock:     opts.Clock,
		publisher: opts.Publisher,
	}
}

// Code returns the room's join code.
func (r *Room) Code() string {
	return r.code
}

// Join seats a new player. Rooms accept players only in the lobby phase and
// only up to four seats. A room that has emptied is closed for good, so a
// stale handle resolved before the teardown cannot seat anyone.
func (r *Room) Join(id, name string, ch Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	if r.started {
		return ErrAlreadyStarted
	}
	if len(r.players) >= game.MaxPlayers {
		return ErrRoomFull
	}
	r.players = append(r.players, &Player{ID: id, Name: name, ch: ch})
	log.Info().
		Str("room_code", r.code).
		Str("player_id", id).
		Str("name", name).
		Int("seats", len(r.players)).
		Msg("player joined")
	return nil
}

// AnnounceRoster fans the current player list out to every seat. The first
// entry is always the current host.
func (r *Room) AnnounceRoster() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastRoster()
}

// Start deals a fresh game. Only the host may start, only from the lobby,
// and only with at least two seated players.
func (r *Room) Start(requesterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.players[0].ID != requesterID {
		return ErrNotHost
	}
	if r.started {
		return ErrAlreadyStarted
	}
	if len(r.players) < game.MinPlayers {
		return ErrNotEnoughPlayers
	}
	r.startRound()
	return nil
}

// Restart re-deals with the current seats. Only the host may restart; unlike
// Start it works in any phase, so a restart from the lobby simply starts
// the game.
func (r *Room) Restart(requesterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.players[0].ID != requesterID {
		return ErrNotHost
	}
	if len(r.players) < game.MinPlayers {
		return ErrNotEnoughPlayers
	}
	r.startRound()
	return nil
}

// startRound shuffles, deals, seats the opener and fans out the opening
// state. Callers must hold r.mu and have validated the player count.
func (r *Room) startRound() {
	deck := game.Shuffle(r.rng, game.NewDeck())
	hands, err := game.Deal(deck, len(r.players))
	if err != nil {
		panic(err)
	}
	for i, p := range r.players {
		game.SortHand(hands[i])
		p.Hand = hands[i]
		p.Eliminated = false
		p.Passed = false
	}
	r.board = game.NewBoard()
	r.turn = r.openingSeat()
	r.started = true
	r.gameOver = false
	r.loser = ""

	r.broadcast(gameStartedMessage{Type: msgGameStarted})
	r.broadcastState()
	r.publisher.Publish(events.EventTypeGameStarted, r.code, events.GameStartedPayload{
		RoomCode:        r.code,
		Players:         len(r.players),
		OpeningPlayerID: r.players[r.turn].ID,
	})
	log.Info().
		Str("room_code", r.code).
		Int("players", len(r.players)).
		Str("opening_player", r.players[r.turn].ID).
		Msg("game started")
}

// openingSeat returns the seat holding the seven of spades, or 0 if no hand
// holds it. Spades is an arbitrary but fixed choice of opening suit; clients
// rely on it, so it must not change.
func (r *Room) openingSeat() int {
	opening := game.Card{Suit: game.Spades, Rank: game.MinRank}
	for i, p := range r.players {
		for _, c := range p.Hand {
			if c == opening {
				return i
			}
		}
	}
	return 0
}

// PlayCard places the requester's card on the board. Outside a running game
// it is a silent no-op.
func (r *Room) PlayCard(requesterID string, card game.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inProgress() {
		return nil
	}
	cur := r.players[r.turn]
	if cur.ID != requesterID {
		return ErrNotYourTurn
	}
	idx := indexOfCard(cur.Hand, card)
	if idx < 0 || !r.board.Playable(card) {
		return ErrIllegalMove
	}

	cur.Hand = append(cur.Hand[:idx], cur.Hand[idx+1:]...)
	r.board.Apply(card)
	cur.Passed = false

	if len(cur.Hand) == 0 {
		cur.Eliminated = true
		r.broadcast(playerEliminatedMessage{Type: msgPlayerEliminated, PlayerID: cur.ID, Name: cur.Name})
		r.publisher.Publish(events.EventTypePlayerEliminated, r.code, events.PlayerEliminatedPayload{
			RoomCode: r.code,
			PlayerID: cur.ID,
			Name:     cur.Name,
		})
		log.Info().Str("room_code", r.code).Str("player_id", cur.ID).Msg("player went out")
	}

	if over, loser := gameOver(r.players); over {
		r.gameOver = true
		r.loser = loser
		r.publisher.Publish(events.EventTypeGameOver, r.code, events.GameOverPayload{
			RoomCode: r.code,
			Loser:    loser,
		})
		log.Info().Str("room_code", r.code).Str("loser", loser).Msg("game over")
	} else {
		r.turn = nextTurn(r.players, r.turn)
	}

	r.broadcastState()
	return nil
}

// Pass gives up the turn. Passing is legal only when the requester has no
// playable card; outside a running game it is a silent no-op.
func (r *Room) Pass(requesterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inProgress() {
		return nil
	}
	cur := r.players[r.turn]
	if cur.ID != requesterID {
		return ErrNotYourTurn
	}
	if len(r.board.LegalMoves(cur.Hand)) > 0 {
		return ErrIllegalPass
	}

	cur.Passed = true
	r.turn = nextTurn(r.players, r.turn)
	r.broadcastState()
	return nil
}

// Remove unseats a player in any phase and reports whether the room emptied
// out; tearing down empty rooms is the caller's job, but an emptied room
// closes itself and never seats anyone again. When the departing seat sat
// before the turn marker, the marker shifts down so the same player keeps
// the turn.
func (r *Room) Remove(playerID string) (empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, p := range r.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return len(r.players) == 0
	}

	r.players = append(r.players[:idx], r.players[idx+1:]...)
	log.Info().
		Str("room_code", r.code).
		Str("player_id", playerID).
		Int("seats", len(r.players)).
		Msg("player left")
	if len(r.players) == 0 {
		// A late Join through a stale handle must see the closure even
		// before the registry drops the room.
		r.closed = true
		return true
	}

	if idx < r.turn {
		r.turn--
	}
	if r.turn >= len(r.players) {
		r.turn = 0
	}
	if r.inProgress() && r.players[r.turn].Eliminated {
		r.turn = nextTurn(r.players, r.turn)
	}

	r.broadcastRoster()
	if r.inProgress() {
		r.broadcastState()
	}
	return false
}

// Summary returns the admin listing entry.
func (r *Room) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Summary{
		Code:      r.code,
		Players:   len(r.players),
		Started:   r.started,
		GameOver:  r.gameOver,
		CreatedAt: r.createdAt,
	}
}

// State returns the read-only room view served over the REST API.
func (r *Room) State() PublicState {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := PublicState{
		Code:     r.code,
		Players:  []PlayerView{},
		Board:    r.board.Runs(),
		Turn:     r.turn,
		Started:  r.started,
		GameOver: r.gameOver,
		Loser:    r.loser,
	}
	for _, p := range r.players {
		st.Players = append(st.Players, PlayerView{
			ID:         p.ID,
			Name:       p.Name,
			CardCount:  len(p.Hand),
			Passed:     p.Passed,
			Eliminated: p.Eliminated,
		})
	}
	if r.started && len(r.players) > 0 {
		st.CurrentPlayerID = r.players[r.turn].ID
	}
	return st
}

func (r *Room) inProgress() bool {
	return r.started && !r.gameOver
}

func indexOfCard(hand []game.Card, card game.Card) int {
	for i, c := range hand {
		if c == card {
			return i
		}
	}
	return -1
}

func (r *Room) broadcast(v any) {
	for _, p := range r.players {
		r.send(p, v)
	}
}

// broadcastState fans out per-player views, one message per seat.
func (r *Room) broadcastState() {
	for _, p := range r.players {
		r.send(p, r.stateFor(p))
	}
}

func (r *Room) broadcastRoster() {
	msg := playerListMessage{Type: msgPlayerList, Players: []rosterEntry{}}
	for _, p := range r.players {
		msg.Players = append(msg.Players, rosterEntry{ID: p.ID, Name: p.Name})
	}
	r.broadcast(msg)
}

// send delivers v to one player. Failures are logged and swallowed.
func (r *Room) send(p *Player, v any) {
	if p.ch == nil {
		return
	}
	if err := p.ch.Send(v); err != nil {
		log.Warn().
			Str("room_code", r.code).
			Str("player_id", p.ID).
			Err(err).
			Msg("failed to deliver message")
	}
}
