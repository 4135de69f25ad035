package room

import "fmt"

// Position is an integer coordinate on the infinite square lattice a castle
// is built on.
type Position struct {
	X, Y int
}

// NewPosition creates a Position at (x, y).
func NewPosition(x, y int) Position {
	return Position{X: x, Y: y}
}

// String renders the position as "x,y", the same encoding used for map keys
// that need to cross a JSON or graph-vertex boundary.
func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Up returns the position one step in the +Y direction.
func (p Position) Up() Position { return Position{p.X, p.Y + 1} }

// Right returns the position one step in the +X direction.
func (p Position) Right() Position { return Position{p.X + 1, p.Y} }

// Down returns the position one step in the -Y direction.
func (p Position) Down() Position { return Position{p.X, p.Y - 1} }

// Left returns the position one step in the -X direction.
func (p Position) Left() Position { return Position{p.X - 1, p.Y} }

// Surrounding returns the fixed 8 Chebyshev neighbors of pos, used by
// adjacency queries broader than the four orthogonal connection sides.
func Surrounding(pos Position) [8]Position {
	x, y := pos.X, pos.Y
	return [8]Position{
		{x, y + 1}, {x + 1, y + 1}, {x + 1, y}, {x + 1, y - 1},
		{x, y - 1}, {x - 1, y - 1}, {x - 1, y}, {x - 1, y + 1},
	}
}
