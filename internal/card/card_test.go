package card

import (
	"testing"

	"github.com/nthieu173/disastle/internal/disaster"
	"github.com/nthieu173/disastle/internal/room"
)

func TestRoomCard(t *testing.T) {
	r := room.Room{ID: 1, Name: "Hall"}
	c := RoomCard(r)
	if !c.IsRoom() || c.IsDisaster() {
		t.Errorf("RoomCard() kind = %v, want KindRoom", c.Kind)
	}
	if c.Room != r {
		t.Errorf("RoomCard().Room = %+v, want %+v", c.Room, r)
	}
}

func TestDisasterCard(t *testing.T) {
	d := disaster.New("Flood", disaster.Formula{Base: 1}, disaster.Formula{}, disaster.Formula{})
	c := DisasterCard(d)
	if !c.IsDisaster() || c.IsRoom() {
		t.Errorf("DisasterCard() kind = %v, want KindDisaster", c.Kind)
	}
	if c.Disaster != d {
		t.Errorf("DisasterCard().Disaster = %+v, want %+v", c.Disaster, d)
	}
}
