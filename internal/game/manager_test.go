package game

import (
	"testing"

	"github.com/nthieu173/disastle/internal/castle"
	"github.com/nthieu173/disastle/internal/room"
)

func anyRoomForTest(id int) room.Room {
	return room.Room{ID: id, Name: "Outer", Up: room.Any(), Right: room.Any(), Down: room.Any(), Left: room.Any()}
}

func TestManagerExecuteActionRevisionAndIdempotency(t *testing.T) {
	setting := Setting{
		NumShop: 1,
		Thrones: []room.Room{throneRoom()},
		Rooms:   []room.Room{anyRoomForTest(1)},
	}
	mgr := NewManager(&fakeRNG{})
	if err := mgr.CreateGame("g1", []PlayerSecret{"p1", "p2"}, setting); err != nil {
		t.Fatalf("CreateGame() error = %v", err)
	}

	free := possibleFreePos(t, mgr, "g1", "p1")
	first := castle.PlaceAction(0, free)
	result, err := mgr.ExecuteAction("g1", "p1", first, ActionMeta{ActionID: "a1", ExpectedRevision: 0})
	if err != nil {
		t.Fatalf("first action error = %v", err)
	}
	if result.Revision != 1 || result.Duplicate {
		t.Fatalf("unexpected first result: %+v", result)
	}

	dup, err := mgr.ExecuteAction("g1", "p1", first, ActionMeta{ActionID: "a1", ExpectedRevision: 0})
	if err != nil {
		t.Fatalf("duplicate replay error = %v", err)
	}
	if !dup.Duplicate || dup.Revision != 1 {
		t.Fatalf("unexpected duplicate result: %+v", dup)
	}

	_, staleErr := mgr.ExecuteAction("g1", "p2", castle.DiscardAction(room.NewPosition(0, 0)), ActionMeta{
		ActionID:         "a2",
		ExpectedRevision: 0,
	})
	if staleErr == nil {
		t.Fatalf("expected stale revision error")
	}
	if _, ok := staleErr.(*RevisionMismatchError); !ok {
		t.Fatalf("expected RevisionMismatchError, got %T (%v)", staleErr, staleErr)
	}

	rev, ok := mgr.GetRevision("g1")
	if !ok || rev != 1 {
		t.Fatalf("GetRevision() = (%d,%v), want (1,true)", rev, ok)
	}
}

func TestManagerCreateGameRejectsDuplicateID(t *testing.T) {
	setting := Setting{
		NumShop: 1,
		Thrones: []room.Room{throneRoom()},
		Rooms:   []room.Room{anyRoomForTest(1)},
	}
	mgr := NewManager(&fakeRNG{})
	if err := mgr.CreateGame("g1", []PlayerSecret{"p1"}, setting); err != nil {
		t.Fatalf("CreateGame() error = %v", err)
	}
	if err := mgr.CreateGame("g1", []PlayerSecret{"p1"}, setting); err == nil {
		t.Fatalf("CreateGame() with a reused id should fail")
	}
}

func possibleFreePos(t *testing.T, mgr *Manager, id string, secret PlayerSecret) room.Position {
	t.Helper()
	gs, ok := mgr.GetGame(id)
	if !ok {
		t.Fatalf("GetGame(%q) not found", id)
	}
	for pos := range gs.Castles[secret].FreePositions() {
		return pos
	}
	t.Fatalf("castle has no free positions")
	return room.Position{}
}
