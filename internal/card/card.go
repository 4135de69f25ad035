// Package card holds the tagged union of deck entries: either a buildable
// Room or a threatening Disaster.
package card

import (
	"github.com/nthieu173/disastle/internal/disaster"
	"github.com/nthieu173/disastle/internal/room"
)

// Kind discriminates the variants of Card.
type Kind int

const (
	KindRoom Kind = iota
	KindDisaster
)

// Card is a single deck entry: a Room to place in the shop, or a Disaster
// that triggers resolution when drawn.
type Card struct {
	Kind     Kind
	Room     room.Room
	Disaster disaster.Disaster
}

// RoomCard wraps a Room as a deck entry.
func RoomCard(r room.Room) Card {
	return Card{Kind: KindRoom, Room: r}
}

// DisasterCard wraps a Disaster as a deck entry.
func DisasterCard(d disaster.Disaster) Card {
	return Card{Kind: KindDisaster, Disaster: d}
}

// IsRoom reports whether the card is a Room entry.
func (c Card) IsRoom() bool { return c.Kind == KindRoom }

// IsDisaster reports whether the card is a Disaster entry.
func (c Card) IsDisaster() bool { return c.Kind == KindDisaster }
