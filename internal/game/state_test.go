package game

import (
	"errors"
	"testing"

	"github.com/nthieu173/disastle/internal/castle"
	"github.com/nthieu173/disastle/internal/disaster"
	"github.com/nthieu173/disastle/internal/room"
)

func throneRoom() room.Room {
	return room.NewThroneRoom(0, "Throne Room")
}

func fillerRoom(id int) room.Room {
	return room.Room{ID: id, Name: "Filler", Up: room.None(), Right: room.None(), Down: room.None(), Left: room.None()}
}

func TestNewSinglePlayerSinglePlace(t *testing.T) {
	diamondFacingRoom := room.Room{ID: 1, Name: "Hall", Up: room.None(), Down: room.Diamond(false), Left: room.None(), Right: room.None()}
	setting := Setting{
		NumSafe:      0,
		NumShop:      1,
		NumDisasters: 0,
		Thrones:      []room.Room{throneRoom()},
		Rooms:        []room.Room{diamondFacingRoom},
	}
	secret := PlayerSecret("alice")
	gs, err := New([]PlayerSecret{secret}, setting, &fakeRNG{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(gs.Shop) != 1 {
		t.Fatalf("Shop len = %d, want 1", len(gs.Shop))
	}

	next, err := gs.Action(secret, castle.PlaceAction(0, room.NewPosition(0, 1)), &fakeRNG{})
	if err != nil {
		t.Fatalf("Action(Place) error = %v", err)
	}
	any, diamond, cross, moon := next.Castles[secret].Links()
	if any != 0 || diamond != 1 || cross != 0 || moon != 0 {
		t.Errorf("Links() = (%d,%d,%d,%d), want (0,1,0,0)", any, diamond, cross, moon)
	}
}

func TestActionInvalidPlaceNoNeighbor(t *testing.T) {
	setting := Setting{
		NumShop: 1,
		Thrones: []room.Room{throneRoom()},
		Rooms:   []room.Room{fillerRoom(1)},
	}
	secret := PlayerSecret("alice")
	gs, err := New([]PlayerSecret{secret}, setting, &fakeRNG{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = gs.Action(secret, castle.PlaceAction(0, room.NewPosition(5, 5)), &fakeRNG{})
	if err == nil {
		t.Fatalf("Action(Place at disconnected pos) should fail")
	}
	var gerr *Error
	if !errors.As(err, &gerr) || gerr.Kind != ErrCastle {
		t.Errorf("error = %v, want wrapped ErrCastle", err)
	}
}

func TestActionMoveOuter(t *testing.T) {
	anyRoom := room.Room{ID: 1, Name: "Outer", Up: room.Any(), Right: room.Any(), Down: room.Any(), Left: room.Any()}
	setting := Setting{
		NumShop: 1,
		Thrones: []room.Room{throneRoom()},
		Rooms:   []room.Room{anyRoom},
	}
	secret := PlayerSecret("alice")
	gs, err := New([]PlayerSecret{secret}, setting, &fakeRNG{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	gs, err = gs.Action(secret, castle.PlaceAction(0, room.NewPosition(1, 0)), &fakeRNG{})
	if err != nil {
		t.Fatalf("Action(Place) error = %v", err)
	}
	next, err := gs.Action(secret, castle.MoveAction(room.NewPosition(1, 0), room.NewPosition(0, 1)), &fakeRNG{})
	if err != nil {
		t.Fatalf("Action(Move) error = %v", err)
	}
	if _, ok := next.Castles[secret].Rooms[room.NewPosition(0, 1)]; !ok {
		t.Errorf("Move() should occupy the destination position")
	}
}

func TestResolveDisasterAppliesDamageToEveryCastle(t *testing.T) {
	alice, bob := PlayerSecret("alice"), PlayerSecret("bob")
	gs := GameState{
		Setting: Setting{NumDisasters: 1},
		Castles: map[PlayerSecret]castle.Castle{
			alice: castle.New(throneRoom()),
			bob:   castle.New(throneRoom()),
		},
		TurnOrder: []PlayerSecret{alice, bob},
	}
	d := disaster.New("Flood", disaster.Formula{Base: 2}, disaster.Formula{}, disaster.Formula{})

	next := gs.resolveDisaster(d)
	if next.Castles[alice].Damage != 2 || next.Castles[bob].Damage != 2 {
		t.Fatalf("damage after resolve = (%d,%d), want (2,2)", next.Castles[alice].Damage, next.Castles[bob].Damage)
	}
	if len(next.PreviousDisasters) != 1 {
		t.Errorf("PreviousDisasters len = %d, want 1", len(next.PreviousDisasters))
	}

	afterFirst, err := next.Action(alice, castle.DiscardAction(room.NewPosition(0, 0)), &fakeRNG{})
	// Discarding the only (throne) room loses alice's castle; still no error.
	if err != nil {
		t.Fatalf("Action(Discard) error = %v", err)
	}
	if !afterFirst.Castles[alice].IsLost() {
		t.Errorf("alice's castle should be lost after discarding its throne")
	}
	if afterFirst.IsPlayer(alice) == false {
		t.Errorf("eliminated players remain seated (lost, not removed from Castles)")
	}
	if len(afterFirst.TurnOrder) != 1 || afterFirst.TurnOrder[0] != bob {
		t.Errorf("TurnOrder after alice's elimination = %v, want [bob]", afterFirst.TurnOrder)
	}
}

func TestSafeZoneGuaranteeNoDisastersInOpeningShop(t *testing.T) {
	rooms := make([]room.Room, 0, 8)
	for i := 1; i <= 8; i++ {
		rooms = append(rooms, fillerRoom(i))
	}
	setting := Setting{
		NumSafe:      5,
		NumShop:      3,
		NumDisasters: 1,
		Thrones:      []room.Room{throneRoom()},
		Rooms:        rooms,
		Disasters:    []disaster.Disaster{disaster.New("Flood", disaster.Formula{Base: 1}, disaster.Formula{}, disaster.Formula{})},
	}
	secret := PlayerSecret("alice")
	for seed := 0; seed < 5; seed++ {
		gs, err := New([]PlayerSecret{secret}, setting, &fakeRNG{ints: []int{seed, seed + 1, seed + 2}})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if len(gs.QueuedDisasters) != 0 {
			t.Errorf("seed %d: QueuedDisasters = %v, want none drawn in the opening shop", seed, gs.QueuedDisasters)
		}
		if len(gs.Shop) != setting.NumShop {
			t.Errorf("seed %d: Shop len = %d, want %d", seed, len(gs.Shop), setting.NumShop)
		}
	}
}

func TestIsOverFewerThanTwoPlayers(t *testing.T) {
	gs := GameState{Setting: Setting{NumDisasters: 3}, TurnOrder: []PlayerSecret{"alice"}}
	if !gs.IsOver() {
		t.Errorf("IsOver() = false, want true with a single remaining player")
	}
}

func TestIsOverAllDisastersResolved(t *testing.T) {
	d := disaster.New("Flood", disaster.Formula{}, disaster.Formula{}, disaster.Formula{})
	gs := GameState{
		Setting:           Setting{NumDisasters: 1},
		TurnOrder:         []PlayerSecret{"alice", "bob"},
		PreviousDisasters: []disaster.Disaster{d},
	}
	if !gs.IsOver() {
		t.Errorf("IsOver() = false, want true once every disaster has resolved")
	}
}

func TestRemoveFromOrderAdjustsCursor(t *testing.T) {
	order := []PlayerSecret{"a", "b", "c", "d"}
	next, idx := removeFromOrder(order, 2, "a")
	if idx != 1 {
		t.Errorf("turnIndex after removing before cursor = %d, want 1", idx)
	}
	if len(next) != 3 || next[0] != "b" || next[1] != "c" || next[2] != "d" {
		t.Errorf("order after removal = %v", next)
	}
}
