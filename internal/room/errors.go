package room

import "errors"

// Command failures reported back to the requesting player. The error text is
// exactly what goes out on the wire in the error message's msg field.
var (
	ErrRoomFull         = errors.New("room is full")
	ErrRoomClosed       = errors.New("room not found") // torn-down rooms read as missing
	ErrAlreadyStarted   = errors.New("game already started")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrNotHost          = errors.New("only the host can do that")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrIllegalMove      = errors.New("illegal move")
	ErrIllegalPass      = errors.New("cannot pass with a legal move available")
)
