// Package registry tracks every live room and resolves join codes.
package registry

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/baderali164/sevens/internal/events"
	"github.com/baderali164/sevens/internal/random"
	"github.com/baderali164/sevens/internal/room"
)

// ErrRoomNotFound is returned when a join code does not match a live room.
var ErrRoomNotFound = errors.New("room not found")

// DefaultCodeLength is the join code length used when none is configured.
const DefaultCodeLength = 6

// Config carries the injectable collaborators for a registry. Zero fields
// fall back to production defaults.
type Config struct {
	CodeLength int
	Rng        *rand.Rand
	Clock      clockwork.Clock
	Publisher  events.Publisher
}

// Registry is the index of live rooms keyed by join code.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*room.Room

	codeLength int
	rng        *rand.Rand
	clock      clockwork.Clock
	publisher  events.Publisher
}

// New returns an empty registry.
func New(cfg Config) *Registry {
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = DefaultCodeLength
	}
	if cfg.Rng == nil {
		cfg.Rng = random.NewRand()
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.NewNoopPublisher()
	}
	return &Registry{
		rooms:      make(map[string]*room.Room),
		codeLength: cfg.CodeLength,
		rng:        cfg.Rng,
		clock:      cfg.Clock,
		publisher:  cfg.Publisher,
	}
}

// Create opens a room hosted by the given player and returns it. Each room
// gets its own shuffle source seeded from the registry rng.
func (r *Registry) Create(hostID, hostName string, ch room.Channel) *room.Room {
	r.mu.Lock()
	code := r.freeCode()
	rm := room.New(code, hostID, hostName, ch, room.Options{
		Rng:       rand.New(rand.NewSource(r.rng.Int63())),
		Clock:     r.clock,
		Publisher: r.publisher,
	})
	r.rooms[code] = rm
	total := len(r.rooms)
	r.mu.Unlock()

	r.publisher.Publish(events.EventTypeRoomCreated, code, events.RoomCreatedPayload{
		RoomCode: code,
		HostID:   hostID,
		HostName: hostName,
	})
	log.Info().
		Str("room_code", code).
		Str("host_id", hostID).
		Int("total_rooms", total).
		Msg("room created")
	return rm
}

// freeCode draws codes until one is unused. Callers must hold r.mu.
func (r *Registry) freeCode() string {
	for {
		code := newCode(r.rng, r.codeLength)
		if _, taken := r.rooms[code]; !taken {
			return code
		}
	}
}

// Get resolves a join code case-insensitively.
func (r *Registry) Get(code string) (*room.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.rooms[normalizeCode(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return rm, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// HandleDeparture removes the player from their room and tears the room
// down once the last seat empties.
func (r *Registry) HandleDeparture(code, playerID string) {
	rm, err := r.Get(code)
	if err != nil {
		return
	}
	if empty := rm.Remove(playerID); empty {
		r.close(rm.Code())
	}
}

// close drops a room from the registry.
func (r *Registry) close(code string) {
	r.mu.Lock()
	_, existed := r.rooms[code]
	delete(r.rooms, code)
	r.mu.Unlock()
	if !existed {
		return
	}
	r.publisher.Publish(events.EventTypeRoomClosed, code, events.RoomClosedPayload{
		RoomCode: code,
	})
	log.Info().Str("room_code", code).Msg("room closed")
}

// Count returns the number of live rooms.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// Summaries lists every live room sorted by code.
func (r *Registry) Summaries() []room.Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]room.Summary, 0, len(r.rooms))
	for _, rm := range r.rooms {
		out = append(out, rm.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
