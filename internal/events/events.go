// Package events carries room lifecycle notifications out of the server
// over JetStream. Payload types live here rather than in the room package
// so both sides can import them without a cycle.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a lifecycle event on the stream.
type EventType string

const (
	EventTypeRoomCreated      EventType = "RoomCreated"
	EventTypeGameStarted      EventType = "GameStarted"
	EventTypePlayerEliminated EventType = "PlayerEliminated"
	EventTypeGameOver         EventType = "GameOver"
	EventTypeRoomClosed       EventType = "RoomClosed"
)

// RoomCreatedPayload is published when a host opens a new room.
type RoomCreatedPayload struct {
	RoomCode string `json:"room_code"`
	HostID   string `json:"host_id"`
	HostName string `json:"host_name"`
}

// GameStartedPayload is published when a deal begins, for both fresh starts
// and restarts.
type GameStartedPayload struct {
	RoomCode        string `json:"room_code"`
	Players         int    `json:"players"`
	OpeningPlayerID string `json:"opening_player_id"`
}

// PlayerEliminatedPayload is published when a player sheds their last card.
type PlayerEliminatedPayload struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// GameOverPayload is published when a game finishes. Loser is empty when the
// final seat emptied out rather than losing.
type GameOverPayload struct {
	RoomCode string `json:"room_code"`
	Loser    string `json:"loser"`
}

// RoomClosedPayload is published when the last player leaves a room.
type RoomClosedPayload struct {
	RoomCode string `json:"room_code"`
}

// envelope is the wire wrapper consumers see on the stream.
type envelope struct {
	EventID   string          `json:"eventId"`
	EventType EventType       `json:"eventType"`
	RoomCode  string          `json:"roomCode"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

func newEnvelope(eventType EventType, roomCode string, payload any, now time.Time) (envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return envelope{}, fmt.Errorf("marshal payload: %w", err)
	}
	return envelope{
		EventID:   uuid.New().String(),
		EventType: eventType,
		RoomCode:  roomCode,
		Timestamp: now.UTC(),
		Payload:   data,
	}, nil
}
