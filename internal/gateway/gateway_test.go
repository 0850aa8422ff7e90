package gateway

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/baderali164/sevens/internal/game"
	"github.com/baderali164/sevens/internal/registry"
)

// wsMessage is a superset of every server message so tests can decode any
// frame into one shape.
type wsMessage struct {
	Type            string            `json:"type"`
	RoomID          string            `json:"roomId"`
	PlayerID        string            `json:"playerId"`
	Msg             string            `json:"msg"`
	Name            string            `json:"name"`
	Turn            int               `json:"turn"`
	CurrentPlayerID string            `json:"currentPlayerId"`
	Board           map[game.Suit]int `json:"board"`
	Hand            []game.Card       `json:"hand"`
	LegalMoves      []game.Card       `json:"legalMoves"`
	GameOver        bool              `json:"gameOver"`
	Loser           string            `json:"loser"`
	Players         []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CardCount int    `json:"cardCount"`
	} `json:"players"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := registry.New(registry.Config{
		Rng:   rand.New(rand.NewSource(1)),
		Clock: clockwork.NewFakeClock(),
	})
	gw := New(reg, DefaultConfig(), clockwork.NewRealClock())
	mux := http.NewServeMux()
	gw.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func sendJSON(t *testing.T, ws *websocket.Conn, v any) {
	t.Helper()
	if err := ws.WriteJSON(v); err != nil {
		t.Fatalf("write message: %v", err)
	}
}

func readMsg(t *testing.T, ws *websocket.Conn) wsMessage {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wsMessage
	if err := ws.ReadJSON(&msg); err != nil {
		t.Fatalf("read message: %v", err)
	}
	return msg
}

func createRoom(t *testing.T, ws *websocket.Conn, name string) wsMessage {
	t.Helper()
	sendJSON(t, ws, map[string]any{"type": "create_room", "name": name})
	created := readMsg(t, ws)
	if created.Type != "room_created" {
		t.Fatalf("first reply type = %q, want room_created", created.Type)
	}
	if created.RoomID == "" || created.PlayerID == "" {
		t.Fatalf("room_created missing ids: %+v", created)
	}
	roster := readMsg(t, ws)
	if roster.Type != "player_list" || len(roster.Players) != 1 {
		t.Fatalf("after create got %+v, want player_list with one entry", roster)
	}
	return created
}

func joinRoom(t *testing.T, ws *websocket.Conn, code, name string) wsMessage {
	t.Helper()
	sendJSON(t, ws, map[string]any{"type": "join_room", "roomId": code, "name": name})
	joined := readMsg(t, ws)
	if joined.Type != "joined_room" {
		t.Fatalf("join reply type = %q, want joined_room (%+v)", joined.Type, joined)
	}
	return joined
}

func TestCreateRoomFlow(t *testing.T) {
	srv := newTestServer(t)
	host := dial(t, srv)

	sendJSON(t, host, map[string]any{"type": "create_room", "name": "alice"})

	created := readMsg(t, host)
	if created.Type != "room_created" {
		t.Fatalf("reply type = %q, want room_created", created.Type)
	}
	if len(created.RoomID) != registry.DefaultCodeLength {
		t.Errorf("room code %q, want length %d", created.RoomID, registry.DefaultCodeLength)
	}

	roster := readMsg(t, host)
	if roster.Type != "player_list" {
		t.Fatalf("second message type = %q, want player_list", roster.Type)
	}
	if len(roster.Players) != 1 || roster.Players[0].Name != "alice" || roster.Players[0].ID != created.PlayerID {
		t.Fatalf("roster = %+v, want alice only", roster.Players)
	}
}

func TestJoinStartAndPlay(t *testing.T) {
	srv := newTestServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)

	created := createRoom(t, host, "alice")
	joined := joinRoom(t, guest, created.RoomID, "bob")

	guestRoster := readMsg(t, guest)
	if guestRoster.Type != "player_list" || len(guestRoster.Players) != 2 {
		t.Fatalf("guest roster = %+v, want two players", guestRoster)
	}
	if guestRoster.Players[0].ID != created.PlayerID || guestRoster.Players[1].ID != joined.PlayerID {
		t.Fatalf("roster order = %+v, want host first", guestRoster.Players)
	}
	hostRoster := readMsg(t, host)
	if hostRoster.Type != "player_list" || len(hostRoster.Players) != 2 {
		t.Fatalf("host roster = %+v, want two players", hostRoster)
	}

	sendJSON(t, host, map[string]any{"type": "start_game"})

	for _, ws := range []*websocket.Conn{host, guest} {
		if msg := readMsg(t, ws); msg.Type != "game_started" {
			t.Fatalf("message type = %q, want game_started", msg.Type)
		}
	}
	hostState := readMsg(t, host)
	guestState := readMsg(t, guest)
	for _, st := range []wsMessage{hostState, guestState} {
		if st.Type != "game_state" {
			t.Fatalf("message type = %q, want game_state", st.Type)
		}
		if len(st.Hand) != 16 {
			t.Fatalf("hand size = %d, want 16", len(st.Hand))
		}
		if st.CurrentPlayerID != hostState.CurrentPlayerID {
			t.Fatalf("clients disagree on the current player")
		}
	}

	// The opener sees their legal moves, the other client sees none.
	opener, openerState := host, hostState
	waiter := guest
	if hostState.CurrentPlayerID == joined.PlayerID {
		opener, openerState = guest, guestState
		waiter = host
	}
	if len(openerState.LegalMoves) == 0 {
		t.Fatalf("opener has no legal moves: %+v", openerState)
	}
	waiterState := hostState
	if opener == host {
		waiterState = guestState
	}
	if len(waiterState.LegalMoves) != 0 {
		t.Fatalf("waiting player sees legal moves %v", waiterState.LegalMoves)
	}

	move := openerState.LegalMoves[0]
	sendJSON(t, opener, map[string]any{"type": "play_card", "card": move})

	after := readMsg(t, opener)
	if after.Type != "game_state" {
		t.Fatalf("after play got %q, want game_state", after.Type)
	}
	if after.Board[move.Suit] != move.Rank {
		t.Fatalf("board[%s] = %d after playing %v", move.Suit, after.Board[move.Suit], move)
	}
	if len(after.Hand) != 15 {
		t.Fatalf("opener hand size = %d after play, want 15", len(after.Hand))
	}
	if after.CurrentPlayerID == openerState.CurrentPlayerID {
		t.Fatalf("turn did not advance after play")
	}
	waiterID := created.PlayerID
	if openerState.CurrentPlayerID == created.PlayerID {
		waiterID = joined.PlayerID
	}
	if st := readMsg(t, waiter); st.Type != "game_state" || st.CurrentPlayerID != waiterID {
		t.Fatalf("next player state = %+v, want the turn handed to them", st)
	}

	// The opener just yielded the turn, so their pass is rejected.
	sendJSON(t, opener, map[string]any{"type": "pass"})
	if msg := readMsg(t, opener); msg.Type != "error" || msg.Msg != "not your turn" {
		t.Fatalf("off-turn pass reply = %+v, want not your turn error", msg)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	srv := newTestServer(t)
	ws := dial(t, srv)

	sendJSON(t, ws, map[string]any{"type": "join_room", "roomId": "ZZZZZZ", "name": "bob"})

	msg := readMsg(t, ws)
	if msg.Type != "error" || msg.Msg != "room not found" {
		t.Fatalf("reply = %+v, want room not found error", msg)
	}
}

func TestGuestCannotStart(t *testing.T) {
	srv := newTestServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)

	created := createRoom(t, host, "alice")
	joinRoom(t, guest, created.RoomID, "bob")
	readMsg(t, guest) // player_list

	sendJSON(t, guest, map[string]any{"type": "start_game"})

	msg := readMsg(t, guest)
	if msg.Type != "error" || msg.Msg != "only the host can do that" {
		t.Fatalf("reply = %+v, want host-only error", msg)
	}
}

func TestMalformedFramesAreDropped(t *testing.T) {
	srv := newTestServer(t)
	ws := dial(t, srv)

	if err := ws.WriteMessage(websocket.TextMessage, []byte("not json at all")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	sendJSON(t, ws, map[string]any{"type": "dance"})
	sendJSON(t, ws, map[string]any{"type": "play_card"})

	// The next reply is for the first valid command, so the garbage
	// produced nothing.
	sendJSON(t, ws, map[string]any{"type": "create_room", "name": "alice"})
	if msg := readMsg(t, ws); msg.Type != "room_created" {
		t.Fatalf("first reply = %+v, want room_created", msg)
	}
}

func TestHostDisconnectPromotesNextPlayer(t *testing.T) {
	srv := newTestServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)

	created := createRoom(t, host, "alice")
	joined := joinRoom(t, guest, created.RoomID, "bob")
	readMsg(t, guest) // player_list
	readMsg(t, host)  // player_list

	host.Close()

	roster := readMsg(t, guest)
	if roster.Type != "player_list" || len(roster.Players) != 1 {
		t.Fatalf("after host left got %+v, want solo player_list", roster)
	}
	if roster.Players[0].ID != joined.PlayerID {
		t.Fatalf("remaining player = %+v, want bob", roster.Players[0])
	}

	// Bob is host now, so starting fails on the player count, not on
	// host rights.
	sendJSON(t, guest, map[string]any{"type": "start_game"})
	if msg := readMsg(t, guest); msg.Type != "error" || msg.Msg != "not enough players" {
		t.Fatalf("reply = %+v, want not enough players error", msg)
	}
}

func TestRESTEndpoints(t *testing.T) {
	srv := newTestServer(t)
	host := dial(t, srv)
	created := createRoom(t, host, "alice")

	t.Run("stats", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/ws/stats")
		if err != nil {
			t.Fatalf("GET /ws/stats: %v", err)
		}
		defer resp.Body.Close()
		var stats Stats
		if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
			t.Fatalf("decode stats: %v", err)
		}
		if stats.ActiveConnections != 1 || stats.ActiveRooms != 1 {
			t.Fatalf("stats = %+v, want one connection and one room", stats)
		}
	})

	t.Run("room list", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/rooms")
		if err != nil {
			t.Fatalf("GET /api/rooms: %v", err)
		}
		defer resp.Body.Close()
		var rooms []struct {
			Code    string `json:"code"`
			Players int    `json:"players"`
			Started bool   `json:"started"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
			t.Fatalf("decode rooms: %v", err)
		}
		if len(rooms) != 1 || rooms[0].Code != created.RoomID || rooms[0].Players != 1 {
			t.Fatalf("rooms = %+v, want the created room", rooms)
		}
	})

	t.Run("room state", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/rooms/" + created.RoomID + "/state")
		if err != nil {
			t.Fatalf("GET room state: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		var state struct {
			Code    string `json:"code"`
			Started bool   `json:"started"`
			Players []struct {
				Name string `json:"name"`
			} `json:"players"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		if state.Code != created.RoomID || state.Started || len(state.Players) != 1 {
			t.Fatalf("state = %+v, want the fresh room", state)
		}
	})

	t.Run("unknown room state", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/rooms/ZZZZZZ/state")
		if err != nil {
			t.Fatalf("GET unknown room state: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/rooms", "application/json", nil)
		if err != nil {
			t.Fatalf("POST /api/rooms: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want 405", resp.StatusCode)
		}
	})
}
