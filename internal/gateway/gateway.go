// Package gateway owns the WebSocket surface: it upgrades client sockets,
// decodes their commands and routes them into rooms.
package gateway

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/baderali164/sevens/internal/registry"
)

// Config holds the WebSocket tunables.
type Config struct {
	// WriteTimeout is the deadline for a single frame write.
	WriteTimeout time.Duration

	// PongTimeout is how long a connection may stay silent before the
	// read pump gives up on it.
	PongTimeout time.Duration

	// PingInterval is how often the write pump pings the client. Must be
	// shorter than PongTimeout.
	PingInterval time.Duration

	// MaxMessageSize caps inbound frames in bytes.
	MaxMessageSize int64

	// SendBufferSize is the per-connection outbound queue length.
	SendBufferSize int

	ReadBufferSize  int
	WriteBufferSize int

	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		WriteTimeout:    10 * time.Second,
		PongTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		SendBufferSize:  256,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// session is the command context for one client: the connection-scoped
// player identity plus the room it sits in once seated. Handlers read
// identity from here rather than off the socket.
type session struct {
	PlayerID string
	RoomCode string
}

// Gateway tracks every client socket and routes their commands into rooms.
type Gateway struct {
	registry *registry.Registry
	config   Config
	clock    clockwork.Clock
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]*Connection
}

// New creates a gateway in front of reg.
func New(reg *registry.Registry, config Config, clock clockwork.Clock) *Gateway {
	if config.CheckOrigin == nil {
		config.CheckOrigin = DefaultConfig().CheckOrigin
	}
	return &Gateway{
		registry: reg,
		config:   config,
		clock:    clock,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		conns: make(map[string]*Connection),
	}
}

// HandleWS upgrades the request and runs the connection pumps. Every
// socket gets a fresh uuid that doubles as the player identity.
func (g *Gateway) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	id := uuid.New().String()
	conn := &Connection{
		ID:          id,
		ws:          ws,
		send:        make(chan []byte, g.config.SendBufferSize),
		done:        make(chan struct{}),
		gateway:     g,
		sess:        session{PlayerID: id},
		connectedAt: g.clock.Now(),
	}

	g.mu.Lock()
	g.conns[conn.ID] = conn
	total := len(g.conns)
	g.mu.Unlock()

	log.Info().
		Str("connection_id", conn.ID).
		Int("total_connections", total).
		Msg("websocket connection established")

	go conn.writePump()
	conn.readPump()
}

// handleMessage dispatches one raw client frame. Malformed traffic is
// dropped with a debug log; room errors go back to the sender as error
// messages.
func (g *Gateway) handleMessage(c *Connection, data []byte) {
	cmd, err := parseCommand(data)
	if err != nil {
		log.Debug().
			Str("connection_id", c.ID).
			Err(err).
			Msg("dropping malformed message")
		return
	}

	switch cmd.Type {
	case cmdCreateRoom:
		g.handleCreateRoom(&c.sess, c, cmd)
	case cmdJoinRoom:
		g.handleJoinRoom(&c.sess, c, cmd)
	default:
		g.handleRoomCommand(&c.sess, c, cmd)
	}
}

func (g *Gateway) handleCreateRoom(sess *session, ch *Connection, cmd command) {
	if sess.RoomCode != "" {
		log.Debug().
			Str("connection_id", sess.PlayerID).
			Str("room_code", sess.RoomCode).
			Msg("create_room from a seated connection, dropping")
		return
	}
	rm := g.registry.Create(sess.PlayerID, cmd.Name, ch)
	sess.RoomCode = rm.Code()
	ch.reply(roomCreatedMessage{Type: msgRoomCreated, RoomID: rm.Code(), PlayerID: sess.PlayerID})
	rm.AnnounceRoster()
}

func (g *Gateway) handleJoinRoom(sess *session, ch *Connection, cmd command) {
	if sess.RoomCode != "" {
		log.Debug().
			Str("connection_id", sess.PlayerID).
			Str("room_code", sess.RoomCode).
			Msg("join_room from a seated connection, dropping")
		return
	}
	rm, err := g.registry.Get(cmd.RoomID)
	if err != nil {
		ch.replyError(err)
		return
	}
	if err := rm.Join(sess.PlayerID, cmd.Name, ch); err != nil {
		ch.replyError(err)
		return
	}
	sess.RoomCode = rm.Code()
	ch.reply(joinedRoomMessage{Type: msgJoinedRoom, RoomID: rm.Code(), PlayerID: sess.PlayerID})
	rm.AnnounceRoster()
}

func (g *Gateway) handleRoomCommand(sess *session, ch *Connection, cmd command) {
	if sess.RoomCode == "" {
		log.Debug().
			Str("connection_id", sess.PlayerID).
			Str("command", cmd.Type).
			Msg("command from an unseated connection, dropping")
		return
	}
	rm, err := g.registry.Get(sess.RoomCode)
	if err != nil {
		sess.RoomCode = ""
		return
	}

	switch cmd.Type {
	case cmdStartGame:
		err = rm.Start(sess.PlayerID)
	case cmdPlayCard:
		err = rm.PlayCard(sess.PlayerID, *cmd.Card)
	case cmdPass:
		err = rm.Pass(sess.PlayerID)
	case cmdRestart:
		err = rm.Restart(sess.PlayerID)
	}
	if err != nil {
		ch.replyError(err)
	}
}

// disconnect unregisters the connection and hands its seat back to the
// registry. Runs on the read pump goroutine.
func (g *Gateway) disconnect(c *Connection) {
	g.mu.Lock()
	_, registered := g.conns[c.ID]
	delete(g.conns, c.ID)
	g.mu.Unlock()
	if !registered {
		return
	}

	c.close()
	if c.sess.RoomCode != "" {
		g.registry.HandleDeparture(c.sess.RoomCode, c.sess.PlayerID)
	}
	log.Info().
		Str("connection_id", c.ID).
		Dur("connected_for", g.clock.Now().Sub(c.connectedAt)).
		Msg("client disconnected")
}

// Stats is the payload served on /ws/stats.
type Stats struct {
	ActiveConnections int `json:"activeConnections"`
	ActiveRooms       int `json:"activeRooms"`
}

// Stats reports current connection and room counts.
func (g *Gateway) Stats() Stats {
	g.mu.RLock()
	conns := len(g.conns)
	g.mu.RUnlock()
	return Stats{
		ActiveConnections: conns,
		ActiveRooms:       g.registry.Count(),
	}
}
