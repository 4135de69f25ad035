package castle

import (
	"testing"

	"github.com/nthieu173/disastle/internal/room"
)

func throneCastle() Castle {
	return New(room.NewThroneRoom(0, "Throne Room"))
}

func TestPlaceSingleRoom(t *testing.T) {
	c := throneCastle()
	r := room.Room{ID: 1, Name: "Hall", Up: room.None(), Down: room.Diamond(false), Left: room.None(), Right: room.None()}

	next, err := c.Place(r, room.NewPosition(0, 1))
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	any, diamond, cross, moon := next.Links()
	if (any != 0) || (diamond != 1) || (cross != 0) || (moon != 0) {
		t.Errorf("Links() = (%d,%d,%d,%d), want (0,1,0,0)", any, diamond, cross, moon)
	}
}

func TestPlaceNoNeighborFails(t *testing.T) {
	c := throneCastle()
	r := room.Room{ID: 1, Name: "Hall", Up: room.Any(), Down: room.Any(), Left: room.Any(), Right: room.Any()}
	_, err := c.Place(r, room.NewPosition(5, 5))
	if err == nil {
		t.Fatalf("Place() at disconnected position should fail")
	}
}

func TestRemoveOrphaningLineFails(t *testing.T) {
	c := throneCastle()
	mid := room.Room{ID: 1, Name: "Mid", Up: room.None(), Down: room.None(), Left: room.Any(), Right: room.Any()}
	end := room.Room{ID: 2, Name: "End", Up: room.None(), Down: room.None(), Left: room.Any(), Right: room.Any()}

	c, err := c.Place(mid, room.NewPosition(1, 0))
	if err != nil {
		t.Fatalf("Place(mid) error = %v", err)
	}
	c, err = c.Place(end, room.NewPosition(2, 0))
	if err != nil {
		t.Fatalf("Place(end) error = %v", err)
	}

	if _, err := c.Remove(room.NewPosition(1, 0)); err == nil {
		t.Errorf("Remove() of middle room should fail, would orphan (2,0)")
	}
}

func TestMoveOuterRoom(t *testing.T) {
	c := throneCastle()
	outer := room.Room{ID: 1, Name: "Outer", Up: room.Any(), Down: room.Any(), Left: room.Any(), Right: room.Any()}
	c, err := c.Place(outer, room.NewPosition(1, 0))
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	next, err := c.Move(room.NewPosition(1, 0), room.NewPosition(0, 1))
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if _, ok := next.Rooms[room.NewPosition(1, 0)]; ok {
		t.Errorf("Move() should vacate the source position")
	}
	if _, ok := next.Rooms[room.NewPosition(0, 1)]; !ok {
		t.Errorf("Move() should occupy the destination position")
	}
}

func TestPlaceThenRemoveIsStructurallyIdentity(t *testing.T) {
	c := throneCastle()
	r := room.Room{ID: 1, Name: "Hall", Up: room.Any(), Down: room.Any(), Left: room.Any(), Right: room.Any()}
	placed, err := c.Place(r, room.NewPosition(1, 0))
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	removed, err := placed.Remove(room.NewPosition(1, 0))
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if len(removed.Rooms) != len(c.Rooms) {
		t.Errorf("place then remove changed room count: got %d, want %d", len(removed.Rooms), len(c.Rooms))
	}
	for pos, want := range c.Rooms {
		if got := removed.Rooms[pos]; got != want {
			t.Errorf("room at %v = %+v, want %+v", pos, got, want)
		}
	}
}

func TestDealDamage(t *testing.T) {
	c := throneCastle()
	next := c.DealDamage(2, 0, 0, 0)
	if next.Damage != 2 {
		t.Errorf("Damage = %d, want 2", next.Damage)
	}
}

func TestDiscardThroneLosesCastle(t *testing.T) {
	c := throneCastle()
	next, r, err := c.Discard(room.NewPosition(0, 0))
	if err != nil {
		t.Fatalf("Discard() error = %v", err)
	}
	if !r.IsThrone {
		t.Fatalf("Discard() returned room is not the throne")
	}
	if !next.IsLost() {
		t.Errorf("castle should be lost after discarding its only throne")
	}
	if next.NumRooms() != 0 {
		t.Errorf("lost castle should have zero rooms, got %d", next.NumRooms())
	}
}

func TestDiscardThroneWithOtherRoomsLosesCastle(t *testing.T) {
	c := throneCastle()
	outer := room.Room{ID: 1, Name: "Outer", Up: room.Any(), Down: room.Any(), Left: room.Any(), Right: room.Any()}
	c, err := c.Place(outer, room.NewPosition(1, 0))
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	next, r, err := c.Discard(room.NewPosition(0, 0))
	if err != nil {
		t.Fatalf("Discard() error = %v", err)
	}
	if !r.IsThrone {
		t.Fatalf("Discard() returned room is not the throne")
	}
	if !next.IsLost() {
		t.Errorf("castle should be lost after discarding its only throne")
	}
	if next.NumRooms() != 0 {
		t.Errorf("lost castle should have zero rooms, got %d", next.NumRooms())
	}
}

func TestSwapRooms(t *testing.T) {
	c := throneCastle()
	a := room.Room{ID: 1, Name: "A", Up: room.Any(), Down: room.Any(), Left: room.Any(), Right: room.Any()}
	b := room.Room{ID: 2, Name: "B", Up: room.Any(), Down: room.Any(), Left: room.Any(), Right: room.Any()}
	c, err := c.Place(a, room.NewPosition(1, 0))
	if err != nil {
		t.Fatalf("Place(a) error = %v", err)
	}
	c, err = c.Place(b, room.NewPosition(0, 1))
	if err != nil {
		t.Fatalf("Place(b) error = %v", err)
	}
	swapped, err := c.Swap(room.NewPosition(1, 0), room.NewPosition(0, 1))
	if err != nil {
		t.Fatalf("Swap() error = %v", err)
	}
	if swapped.Rooms[room.NewPosition(1, 0)].ID != b.ID || swapped.Rooms[room.NewPosition(0, 1)].ID != a.ID {
		t.Errorf("Swap() did not exchange the rooms")
	}
}
