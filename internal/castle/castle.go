// Package castle implements the spatial graph of rooms a player builds:
// placement, removal, movement and swapping under a connectivity invariant,
// plus the link/power tallies and disaster-damage bookkeeping used to score
// and threaten it.
package castle

import (
	"fmt"

	"github.com/katalvlaran/lvlath/core"

	"github.com/nthieu173/disastle/internal/room"
)

// Castle owns a map of rooms anchored at one or more throne positions, the
// undirected connectivity graph over those positions, and any demolition
// debt owed to a disaster in progress. Every exported mutator returns a new
// Castle; the receiver is left untouched.
type Castle struct {
	Rooms           map[room.Position]room.Room
	ThronePositions []room.Position
	Damage          int
	Treasure        int

	graph *core.Graph
}

// New creates a castle with a single throne room anchored at (0, 0).
func New(throneRoom room.Room) Castle {
	g := core.NewGraph(core.WithDirected(false))
	origin := room.NewPosition(0, 0)
	_ = g.AddVertex(origin.String())
	return Castle{
		Rooms:           map[room.Position]room.Room{origin: throneRoom},
		ThronePositions: []room.Position{origin},
		graph:           g,
	}
}

// NumRooms returns the number of placed rooms.
func (c Castle) NumRooms() int { return len(c.Rooms) }

// IsLost reports whether no throne position currently holds a room.
func (c Castle) IsLost() bool {
	for _, pos := range c.ThronePositions {
		if _, ok := c.Rooms[pos]; ok {
			return false
		}
	}
	return true
}

func parsePosition(id string) room.Position {
	var x, y int
	fmt.Sscanf(id, "%d,%d", &x, &y)
	return room.Position{X: x, Y: y}
}

func (c Castle) clone() Castle {
	rooms := make(map[room.Position]room.Room, len(c.Rooms))
	for pos, r := range c.Rooms {
		rooms[pos] = r
	}
	thrones := make([]room.Position, len(c.ThronePositions))
	copy(thrones, c.ThronePositions)
	return Castle{
		Rooms:           rooms,
		ThronePositions: thrones,
		Damage:          c.Damage,
		Treasure:        c.Treasure,
		graph:           c.graph.Clone(),
	}
}

// neighborUp, neighborRight, neighborDown and neighborLeft return the room
// adjacent to pos in that direction, and whether it exists.
func (c Castle) neighborUp(pos room.Position) (room.Room, bool)    { r, ok := c.Rooms[pos.Up()]; return r, ok }
func (c Castle) neighborRight(pos room.Position) (room.Room, bool) { r, ok := c.Rooms[pos.Right()]; return r, ok }
func (c Castle) neighborDown(pos room.Position) (room.Room, bool)  { r, ok := c.Rooms[pos.Down()]; return r, ok }
func (c Castle) neighborLeft(pos room.Position) (room.Room, bool)  { r, ok := c.Rooms[pos.Left()]; return r, ok }

// FreePositions returns the positions adjacent to an existing room through
// a non-wall side that are currently empty: the legal targets for Place.
func (c Castle) FreePositions() map[room.Position]struct{} {
	free := make(map[room.Position]struct{})
	for pos, r := range c.Rooms {
		for _, p := range r.ConnectingPositions(pos) {
			if _, occupied := c.Rooms[p]; !occupied {
				free[p] = struct{}{}
			}
		}
	}
	return free
}

// placeValid reports whether r could be placed at pos: every occupied
// neighbor must be compatible, and the facing side that faces an empty
// neighbor or the edge of the castle is unconstrained.
func (c Castle) placeValid(r room.Room, pos room.Position) bool {
	if up, ok := c.neighborUp(pos); ok && !r.Up.Compatible(up.Down) {
		return false
	}
	if right, ok := c.neighborRight(pos); ok && !r.Right.Compatible(right.Left) {
		return false
	}
	if down, ok := c.neighborDown(pos); ok && !r.Down.Compatible(down.Up) {
		return false
	}
	if left, ok := c.neighborLeft(pos); ok && !r.Left.Compatible(left.Right) {
		return false
	}
	return true
}

// Place inserts room r at pos, joining it to the existing structure. It
// fails if pos is occupied, if any occupied neighbor is incompatible, or if
// pos does not actually border the existing castle.
func (c Castle) Place(r room.Room, pos room.Position) (Castle, error) {
	if _, occupied := c.Rooms[pos]; occupied {
		return Castle{}, newError(ErrInvalidPlace)
	}
	if _, free := c.FreePositions()[pos]; !free {
		return Castle{}, newError(ErrInvalidPlace)
	}
	if !c.placeValid(r, pos) {
		return Castle{}, newError(ErrInvalidPlace)
	}

	next := c.clone()
	next.Rooms[pos] = r
	_ = next.graph.AddVertex(pos.String())
	for _, neighborPos := range r.ConnectingPositions(pos) {
		if _, ok := next.Rooms[neighborPos]; ok {
			_, _ = next.graph.AddEdge(pos.String(), neighborPos.String(), 1.0)
		}
	}
	return next, nil
}

// reachable returns the set of positions reachable in the connectivity
// graph from any throne position, treating excluding as if it had already
// been removed from the graph.
func (c Castle) reachable(excluding room.Position) map[room.Position]bool {
	visited := make(map[room.Position]bool)
	queue := make([]room.Position, 0, len(c.ThronePositions))
	for _, t := range c.ThronePositions {
		if t == excluding {
			continue
		}
		if _, ok := c.Rooms[t]; !ok {
			continue
		}
		if !visited[t] {
			visited[t] = true
			queue = append(queue, t)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		ids, err := c.graph.NeighborIDs(cur.String())
		if err != nil {
			continue
		}
		for _, id := range ids {
			pos := parsePosition(id)
			if pos == excluding || visited[pos] {
				continue
			}
			visited[pos] = true
			queue = append(queue, pos)
		}
	}
	return visited
}

// removeValid reports whether removing the room at pos would leave every
// other room reachable from some throne.
func (c Castle) removeValid(pos room.Position) bool {
	if _, ok := c.Rooms[pos]; !ok {
		return false
	}
	reached := c.reachable(pos)
	for p := range c.Rooms {
		if p == pos {
			continue
		}
		if !reached[p] {
			return false
		}
	}
	return true
}

// Remove deletes the room at pos, provided doing so leaves every remaining
// room connected to a throne.
func (c Castle) Remove(pos room.Position) (Castle, error) {
	if !c.removeValid(pos) {
		return Castle{}, newError(ErrInvalidRemove)
	}
	next := c.clone()
	delete(next.Rooms, pos)
	_ = next.graph.RemoveVertex(pos.String())
	return next, nil
}

// outerNeighborCount returns how many of the non-wall sides of the room at
// pos face an occupied room; wall sides are not counted.
func (c Castle) outerNeighborCount(pos room.Position) int {
	r, ok := c.Rooms[pos]
	if !ok {
		return 0
	}
	count := 0
	for _, p := range r.ConnectingPositions(pos) {
		if _, occupied := c.Rooms[p]; occupied {
			count++
		}
	}
	return count
}

// moveOuterValid reports whether the room at from is an outer room (exactly
// one occupied neighbor) that may be relocated to the empty position to.
// The check is performed against the castle as it stands after a
// hypothetical removal of from, the stricter and safer of the two checks
// the source code oscillated between.
func (c Castle) moveOuterValid(from, to room.Position) bool {
	r, ok := c.Rooms[from]
	if !ok {
		return false
	}
	if c.outerNeighborCount(from) != 1 {
		return false
	}
	if !c.removeValid(from) {
		return false
	}
	if _, occupied := c.Rooms[to]; occupied {
		return false
	}
	removed, err := c.Remove(from)
	if err != nil {
		return false
	}
	return removed.placeValid(r, to) && to != from
}

// Move relocates the outer room at from to the empty position to,
// re-attaching it to the remaining structure.
func (c Castle) Move(from, to room.Position) (Castle, error) {
	if !c.moveOuterValid(from, to) {
		return Castle{}, newError(ErrInvalidMove)
	}
	r := c.Rooms[from]
	removed, err := c.Remove(from)
	if err != nil {
		return Castle{}, newError(ErrInvalidMove)
	}
	placed, err := removed.Place(r, to)
	if err != nil {
		return Castle{}, newError(ErrInvalidMove)
	}
	return placed, nil
}

// swapValid reports whether the rooms at p1 and p2 may trade places: each
// must validly place into the other's position against every other
// neighbor.
func (c Castle) swapValid(p1, p2 room.Position) bool {
	if p1 == p2 {
		return false
	}
	r1, ok1 := c.Rooms[p1]
	r2, ok2 := c.Rooms[p2]
	if !ok1 || !ok2 {
		return false
	}
	withoutRooms := make(map[room.Position]room.Room, len(c.Rooms))
	for pos, r := range c.Rooms {
		if pos == p1 || pos == p2 {
			continue
		}
		withoutRooms[pos] = r
	}
	without := Castle{Rooms: withoutRooms}
	return without.placeValid(r1, p2) && without.placeValid(r2, p1)
}

// Swap exchanges the rooms at p1 and p2. Connectivity is unaffected since
// the same two cells remain occupied.
func (c Castle) Swap(p1, p2 room.Position) (Castle, error) {
	if !c.swapValid(p1, p2) {
		return Castle{}, newError(ErrInvalidSwap)
	}
	next := c.clone()
	next.Rooms[p1], next.Rooms[p2] = next.Rooms[p2], next.Rooms[p1]
	return next, nil
}

// Links tallies every orthogonally adjacent pair of occupied cells by link
// kind, counting each edge exactly once.
func (c Castle) Links() (any, diamond, cross, moon int) {
	tally := func(kind room.LinkKind, ok bool) {
		if !ok {
			return
		}
		switch kind {
		case room.LinkAny:
			any++
		case room.LinkDiamond:
			diamond++
		case room.LinkCross:
			cross++
		case room.LinkMoon:
			moon++
		}
	}
	for pos, r := range c.Rooms {
		if up, ok := c.neighborUp(pos); ok {
			tally(r.UpLink(up))
		}
		if right, ok := c.neighborRight(pos); ok {
			tally(r.RightLink(right))
		}
		if down, ok := c.neighborDown(pos); ok {
			tally(r.DownLink(down))
		}
		if left, ok := c.neighborLeft(pos); ok {
			tally(r.LeftLink(left))
		}
	}
	return any / 2, diamond / 2, cross / 2, moon / 2
}

// IsPowered reports whether every gold side of the room at pos has its
// power requirement satisfied by the facing neighbor. A missing neighbor
// leaves a gold side unpowered.
func (c Castle) IsPowered(pos room.Position) (bool, error) {
	r, ok := c.Rooms[pos]
	if !ok {
		return false, newError(ErrInvalidPos)
	}
	result := true
	check := func(satisfied, required bool) {
		if required && !satisfied {
			result = false
		}
	}
	if up, ok := c.neighborUp(pos); ok {
		s, req := r.UpPowered(up)
		check(s, req)
	} else if r.Up.Gold {
		result = false
	}
	if right, ok := c.neighborRight(pos); ok {
		s, req := r.RightPowered(right)
		check(s, req)
	} else if r.Right.Gold {
		result = false
	}
	if down, ok := c.neighborDown(pos); ok {
		s, req := r.DownPowered(down)
		check(s, req)
	} else if r.Down.Gold {
		result = false
	}
	if left, ok := c.neighborLeft(pos); ok {
		s, req := r.LeftPowered(left)
		check(s, req)
	} else if r.Left.Gold {
		result = false
	}
	return result, nil
}

// DealDamage applies a disaster's categorized damage to the castle's
// outstanding demolition debt. Each category's shortfall below the
// castle's matching link count contributes to the damage taken; any link
// count is subtracted once as a blanket offset, floored at zero overall.
func (c Castle) DealDamage(diamond, cross, moon, any int) Castle {
	linkAny, linkDiamond, linkCross, linkMoon := c.Links()
	shortfall := func(dmg, link int) int {
		if dmg-link > 0 {
			return dmg - link
		}
		return 0
	}
	taken := shortfall(diamond, linkDiamond) + shortfall(cross, linkCross) + shortfall(moon, linkMoon) - linkAny
	if taken < 0 {
		taken = 0
	}
	next := c.clone()
	next.Damage += taken
	return next
}

// Discard removes the room at pos like Remove, additionally returning the
// removed room and decrementing outstanding damage by one. A throne is
// always discardable regardless of connectivity: the castle becomes lost,
// every remaining room is cleared and damage is zeroed.
func (c Castle) Discard(pos room.Position) (Castle, room.Room, error) {
	r, ok := c.Rooms[pos]
	if !ok {
		return Castle{}, room.Room{}, newError(ErrInvalidRemove)
	}
	if r.IsThrone {
		return c.Clear(), r, nil
	}
	next, err := c.Remove(pos)
	if err != nil {
		return Castle{}, room.Room{}, err
	}
	if next.Damage > 0 {
		next.Damage--
	}
	return next, r, nil
}

// Clear empties a lost castle, whether it was lost through Discard of its
// throne or during disaster resolution: every room is removed, outstanding
// damage is forgiven, and the connectivity graph is reset to empty.
func (c Castle) Clear() Castle {
	return Castle{
		Rooms:           map[room.Position]room.Room{},
		ThronePositions: c.ThronePositions,
		Damage:          0,
		Treasure:        c.Treasure,
		graph:           core.NewGraph(core.WithDirected(false)),
	}
}

// PossibleActions enumerates every legal Place (against the given shop),
// Move, Swap and Discard action available in the castle's current shape.
func (c Castle) PossibleActions(shop []room.Room) []Action {
	actions := make([]Action, 0)
	free := c.FreePositions()
	for i, r := range shop {
		for pos := range free {
			if c.placeValid(r, pos) {
				actions = append(actions, PlaceAction(i, pos))
			}
		}
	}
	for from := range c.Rooms {
		for to := range free {
			if c.moveOuterValid(from, to) {
				actions = append(actions, MoveAction(from, to))
			}
		}
	}
	for p1, r1 := range c.Rooms {
		for p2 := range c.Rooms {
			if p1 == p2 {
				continue
			}
			if c.swapValid(p1, p2) {
				actions = append(actions, SwapAction(p1, p2))
			}
		}
		if r1.IsThrone || c.removeValid(p1) {
			actions = append(actions, DiscardAction(p1))
		}
	}
	return actions
}
