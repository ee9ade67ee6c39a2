package player

import "errors"

// ErrPlayerMoved indicates a trade referenced a player who already left
// the sending team; the enclosing transaction rolls back.
var ErrPlayerMoved = errors.New("player no longer on expected team")
