package gateway

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/baderali164/sevens/internal/game"
)

// Message types accepted from clients.
const (
	cmdCreateRoom = "create_room"
	cmdJoinRoom   = "join_room"
	cmdStartGame  = "start_game"
	cmdPlayCard   = "play_card"
	cmdPass       = "pass"
	cmdRestart    = "restart"
)

// Reply types owned by the gateway. Room fanout types live in the room
// package.
const (
	msgRoomCreated = "room_created"
	msgJoinedRoom  = "joined_room"
	msgError       = "error"
)

// command is the decoded client envelope. Only the fields matching the
// declared type are read.
type command struct {
	Type   string     `json:"type"`
	Name   string     `json:"name"`
	RoomID string     `json:"roomId"`
	Card   *game.Card `json:"card"`
}

// parseCommand decodes and validates one client message. Anything
// unparseable or of unknown type comes back as an error and the caller
// drops it.
func parseCommand(data []byte) (command, error) {
	var cmd command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return command{}, fmt.Errorf("decode command: %w", err)
	}
	switch cmd.Type {
	case cmdCreateRoom, cmdJoinRoom, cmdStartGame, cmdPlayCard, cmdPass, cmdRestart:
	default:
		return command{}, fmt.Errorf("unknown command type %q", cmd.Type)
	}
	if cmd.Type == cmdPlayCard && cmd.Card == nil {
		return command{}, errors.New("play_card without a card")
	}
	return cmd, nil
}

type roomCreatedMessage struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type joinedRoomMessage struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type errorMessage struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}
