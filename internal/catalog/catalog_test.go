package catalog

import (
	"testing"

	"github.com/nthieu173/disastle/internal/room"
)

const sampleYAML = `
num_safe: 2
num_shop: 3
num_disasters: 1
thrones:
  - id: 0
    name: Throne Room
rooms:
  - id: 1
    name: Hall
    up: {kind: none}
    right: {kind: any}
    down: {kind: diamond, gold: true}
    left: {kind: none}
  - id: 2
    name: Cellar
    up: {kind: any}
    right: {kind: none}
    down: {kind: none}
    left: {kind: cross}
disasters:
  - name: Flood
    diamond: {base: 2, mult: 1}
    cross: {base: 0, mult: 0}
    moon: {base: 0, mult: 0}
`

func TestParseBuildsSetting(t *testing.T) {
	setting, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if setting.NumSafe != 2 || setting.NumShop != 3 || setting.NumDisasters != 1 {
		t.Errorf("Setting knobs = %+v, want {2,3,1}", setting)
	}
	if len(setting.Thrones) != 1 || !setting.Thrones[0].IsThrone {
		t.Fatalf("Thrones = %+v, want one throne room", setting.Thrones)
	}
	if len(setting.Rooms) != 2 {
		t.Fatalf("Rooms len = %d, want 2", len(setting.Rooms))
	}
	if len(setting.Disasters) != 1 || setting.Disasters[0].Name != "Flood" {
		t.Errorf("Disasters = %+v, want one Flood", setting.Disasters)
	}

	hall := setting.Rooms[0]
	if hall.Down.Kind != room.KindDiamond || !hall.Down.Gold {
		t.Errorf("Hall.Down = %+v, want gold diamond", hall.Down)
	}
	if hall.Up.Kind != room.KindNone {
		t.Errorf("Hall.Up = %+v, want wall", hall.Up)
	}
}

func TestParseRejectsUnknownConnectionKind(t *testing.T) {
	_, err := Parse([]byte(`
thrones:
  - id: 0
    name: Throne
rooms:
  - id: 1
    name: Bad
    up: {kind: sparkle}
`))
	if err == nil {
		t.Fatalf("Parse() with unknown connection kind should fail")
	}
}

func TestParseRequiresAtLeastOneThrone(t *testing.T) {
	_, err := Parse([]byte(`
rooms:
  - id: 1
    name: Hall
`))
	if err == nil {
		t.Fatalf("Parse() with no thrones should fail")
	}
}
