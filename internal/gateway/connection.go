package gateway

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/baderali164/sevens/internal/room"
)

// Connection is one client socket. It implements room.Channel, so rooms
// push fanout straight onto the outbound queue.
type Connection struct {
	// ID doubles as the player identity for the lifetime of the socket.
	ID string

	ws      *websocket.Conn
	send    chan []byte
	done    chan struct{}
	gateway *Gateway

	// sess is the command context handed to the gateway with every
	// inbound message. Only the read pump goroutine touches it.
	sess session

	connectedAt time.Time
	closeOnce   sync.Once
}

var _ room.Channel = (*Connection)(nil)

// Send queues v for delivery to the client. A client whose queue is full
// is closed rather than allowed to stall the sender.
func (c *Connection) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal outbound message: %w", err)
	}
	select {
	case <-c.done:
		return fmt.Errorf("connection %s is closed", c.ID)
	case c.send <- data:
		return nil
	default:
		log.Warn().
			Str("connection_id", c.ID).
			Msg("send buffer full, closing connection")
		c.close()
		return fmt.Errorf("send buffer full for connection %s", c.ID)
	}
}

// close signals both pumps to shut down. Safe to call more than once.
func (c *Connection) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Connection) reply(v any) {
	if err := c.Send(v); err != nil {
		log.Warn().
			Str("connection_id", c.ID).
			Err(err).
			Msg("failed to queue reply")
	}
}

func (c *Connection) replyError(err error) {
	c.reply(errorMessage{Type: msgError, Msg: err.Error()})
}

// readPump reads client messages until the socket dies, then triggers the
// departure handling. One goroutine per connection.
func (c *Connection) readPump() {
	defer func() {
		c.gateway.disconnect(c)
		c.ws.Close()
	}()

	cfg := c.gateway.config
	c.ws.SetReadLimit(cfg.MaxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(cfg.PongTimeout))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(cfg.PongTimeout))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().
					Str("connection_id", c.ID).
					Err(err).
					Msg("unexpected websocket close")
			}
			return
		}
		c.gateway.handleMessage(c, data)
		c.ws.SetReadDeadline(time.Now().Add(cfg.PongTimeout))
	}
}

// writePump drains the outbound queue and keeps the connection alive with
// pings. One goroutine per connection.
func (c *Connection) writePump() {
	cfg := c.gateway.config
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case data := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().
					Str("connection_id", c.ID).
					Err(err).
					Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
