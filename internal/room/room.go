package room

// Room is a single placed tile: an identity plus four Connection sides. A
// Room value is immutable; rotation returns a new Room rather than mutating
// in place.
type Room struct {
	ID       int
	Name     string
	IsThrone bool
	Up       Connection
	Right    Connection
	Down     Connection
	Left     Connection
}

// NewThroneRoom builds the anchor room for a castle: all four sides Any, so
// it accepts whatever the first room placed against it offers.
func NewThroneRoom(id int, name string) Room {
	return Room{
		ID:       id,
		Name:     name,
		IsThrone: true,
		Up:       Any(),
		Right:    Any(),
		Down:     Any(),
		Left:     Any(),
	}
}

// RotateRight cyclically shifts the four sides clockwise.
func (r Room) RotateRight() Room {
	r.Up, r.Right, r.Down, r.Left = r.Left, r.Up, r.Right, r.Down
	return r
}

// RotateLeft cyclically shifts the four sides counter-clockwise, the inverse
// of RotateRight.
func (r Room) RotateLeft() Room {
	r.Up, r.Right, r.Down, r.Left = r.Right, r.Down, r.Left, r.Up
	return r
}

// ConnectingPositions returns the lattice positions opposite any non-wall
// side of the room placed at pos.
func (r Room) ConnectingPositions(pos Position) []Position {
	positions := make([]Position, 0, 4)
	if r.Up.Kind != KindNone {
		positions = append(positions, pos.Up())
	}
	if r.Right.Kind != KindNone {
		positions = append(positions, pos.Right())
	}
	if r.Down.Kind != KindNone {
		positions = append(positions, pos.Down())
	}
	if r.Left.Kind != KindNone {
		positions = append(positions, pos.Left())
	}
	return positions
}

// UpLink classifies the edge between this room's up side and the facing
// neighbor's down side.
func (r Room) UpLink(neighbor Room) (LinkKind, bool) { return r.Up.Link(neighbor.Down) }

// RightLink classifies the edge between this room's right side and the
// facing neighbor's left side.
func (r Room) RightLink(neighbor Room) (LinkKind, bool) { return r.Right.Link(neighbor.Left) }

// DownLink classifies the edge between this room's down side and the
// facing neighbor's up side.
func (r Room) DownLink(neighbor Room) (LinkKind, bool) { return r.Down.Link(neighbor.Up) }

// LeftLink classifies the edge between this room's left side and the facing
// neighbor's right side.
func (r Room) LeftLink(neighbor Room) (LinkKind, bool) { return r.Left.Link(neighbor.Right) }

// UpPowered reports whether this room's up side has its power requirement
// satisfied by the neighbor above.
func (r Room) UpPowered(neighbor Room) (bool, bool) { return r.Up.Powers(neighbor.Down) }

// RightPowered reports whether this room's right side has its power
// requirement satisfied by the neighbor to the right.
func (r Room) RightPowered(neighbor Room) (bool, bool) { return r.Right.Powers(neighbor.Left) }

// DownPowered reports whether this room's down side has its power
// requirement satisfied by the neighbor below.
func (r Room) DownPowered(neighbor Room) (bool, bool) { return r.Down.Powers(neighbor.Up) }

// LeftPowered reports whether this room's left side has its power
// requirement satisfied by the neighbor to the left.
func (r Room) LeftPowered(neighbor Room) (bool, bool) { return r.Left.Powers(neighbor.Right) }
