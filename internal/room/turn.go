package room

// nextTurn returns the next seat after current still holding cards, scanning
// at most one full cycle. If every seat is eliminated, current comes back
// unchanged.
func nextTurn(players []*Player, current int) int {
	n := len(players)
	idx := current
	for i := 0; i < n; i++ {
		idx = (idx + 1) % n
		if !players[idx].Eliminated {
			return idx
		}
	}
	return current
}

// gameOver reports whether at most one seat still holds cards. The second
// return is the loser's name: the one player left holding, or empty when no
// seat remains.
func gameOver(players []*Player) (bool, string) {
	remaining := 0
	var last *Player
	for _, p := range players {
		if !p.Eliminated {
			remaining++
			last = p
		}
	}
	switch remaining {
	case 0:
		return true, ""
	case 1:
		return true, last.Name
	default:
		return false, ""
	}
}
