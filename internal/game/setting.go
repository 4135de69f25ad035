package game

import (
	"github.com/nthieu173/disastle/internal/disaster"
	"github.com/nthieu173/disastle/internal/room"
)

// Setting is the immutable rules bundle a GameState is built from: how many
// rooms sit in the shop and the safe zone, how many disasters the deck
// carries, and the catalogs they are drawn from.
type Setting struct {
	NumSafe      int
	NumShop      int
	NumDisasters int
	Thrones      []room.Room
	Rooms        []room.Room
	Disasters    []disaster.Disaster
}
