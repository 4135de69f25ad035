package castle

import (
	"encoding/json"
	"fmt"

	"github.com/katalvlaran/lvlath/core"

	"github.com/nthieu173/disastle/internal/room"
)

// castleJSON is the wire shape for Castle. Go's encoding/json can't use a
// struct as a map key, so positions round-trip through their "x,y" string
// form, the same "x,y" string-key pattern used elsewhere for non-string
// map keys; the connectivity graph is not persisted since it can always
// be rederived structurally from the rooms.
type castleJSON struct {
	Rooms           map[string]room.Room `json:"rooms"`
	ThronePositions []string             `json:"throneRooms"`
	Damage          int                  `json:"damage"`
	Treasure        int                  `json:"treasure"`
}

// MarshalJSON implements json.Marshaler.
func (c Castle) MarshalJSON() ([]byte, error) {
	rooms := make(map[string]room.Room, len(c.Rooms))
	for pos, r := range c.Rooms {
		rooms[pos.String()] = r
	}
	thrones := make([]string, len(c.ThronePositions))
	for i, pos := range c.ThronePositions {
		thrones[i] = pos.String()
	}
	return json.Marshal(castleJSON{
		Rooms:           rooms,
		ThronePositions: thrones,
		Damage:          c.Damage,
		Treasure:        c.Treasure,
	})
}

// UnmarshalJSON implements json.Unmarshaler, rebuilding the connectivity
// graph by re-deriving edges from room side compatibility.
func (c *Castle) UnmarshalJSON(data []byte) error {
	var wire castleJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	rooms := make(map[room.Position]room.Room, len(wire.Rooms))
	for key, r := range wire.Rooms {
		var x, y int
		if _, err := fmt.Sscanf(key, "%d,%d", &x, &y); err != nil {
			return fmt.Errorf("castle: invalid position key %q: %w", key, err)
		}
		rooms[room.Position{X: x, Y: y}] = r
	}
	thrones := make([]room.Position, len(wire.ThronePositions))
	for i, key := range wire.ThronePositions {
		var x, y int
		if _, err := fmt.Sscanf(key, "%d,%d", &x, &y); err != nil {
			return fmt.Errorf("castle: invalid throne key %q: %w", key, err)
		}
		thrones[i] = room.Position{X: x, Y: y}
	}

	g := core.NewGraph(core.WithDirected(false))
	for pos := range rooms {
		_ = g.AddVertex(pos.String())
	}
	seen := make(map[[2]room.Position]bool)
	for pos, r := range rooms {
		for _, neighborPos := range r.ConnectingPositions(pos) {
			if _, ok := rooms[neighborPos]; !ok {
				continue
			}
			key := [2]room.Position{pos, neighborPos}
			reverse := [2]room.Position{neighborPos, pos}
			if seen[key] || seen[reverse] {
				continue
			}
			seen[key] = true
			_, _ = g.AddEdge(pos.String(), neighborPos.String(), 1.0)
		}
	}

	c.Rooms = rooms
	c.ThronePositions = thrones
	c.Damage = wire.Damage
	c.Treasure = wire.Treasure
	c.graph = g
	return nil
}
