// Package catalog loads a game.Setting from a YAML definition: the throne
// and room tiles available, the disaster deck, and the shop/safe-zone
// tuning knobs. This is the only place a concrete, on-disk ruleset is
// parsed; everything downstream works with the resulting Setting value.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nthieu173/disastle/internal/disaster"
	"github.com/nthieu173/disastle/internal/game"
	"github.com/nthieu173/disastle/internal/room"
)

// connectionDef is the wire shape of one Room side.
type connectionDef struct {
	Kind string `yaml:"kind"`
	Gold bool   `yaml:"gold"`
}

func (c connectionDef) toConnection() (room.Connection, error) {
	switch c.Kind {
	case "", "none":
		return room.None(), nil
	case "any":
		return room.Any(), nil
	case "diamond":
		return room.Diamond(c.Gold), nil
	case "cross":
		return room.Cross(c.Gold), nil
	case "moon":
		return room.Moon(c.Gold), nil
	default:
		return room.Connection{}, fmt.Errorf("catalog: unknown connection kind %q", c.Kind)
	}
}

type roomDef struct {
	ID    int           `yaml:"id"`
	Name  string        `yaml:"name"`
	Up    connectionDef `yaml:"up"`
	Right connectionDef `yaml:"right"`
	Down  connectionDef `yaml:"down"`
	Left  connectionDef `yaml:"left"`
}

func (r roomDef) toRoom() (room.Room, error) {
	up, err := r.Up.toConnection()
	if err != nil {
		return room.Room{}, err
	}
	right, err := r.Right.toConnection()
	if err != nil {
		return room.Room{}, err
	}
	down, err := r.Down.toConnection()
	if err != nil {
		return room.Room{}, err
	}
	left, err := r.Left.toConnection()
	if err != nil {
		return room.Room{}, err
	}
	return room.Room{ID: r.ID, Name: r.Name, Up: up, Right: right, Down: down, Left: left}, nil
}

type throneDef struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

type formulaDef struct {
	Base int `yaml:"base"`
	Mult int `yaml:"mult"`
}

func (f formulaDef) toFormula() disaster.Formula {
	return disaster.Formula{Base: f.Base, Mult: f.Mult}
}

type disasterDef struct {
	Name    string     `yaml:"name"`
	Diamond formulaDef `yaml:"diamond"`
	Cross   formulaDef `yaml:"cross"`
	Moon    formulaDef `yaml:"moon"`
}

func (d disasterDef) toDisaster() disaster.Disaster {
	return disaster.New(d.Name, d.Diamond.toFormula(), d.Cross.toFormula(), d.Moon.toFormula())
}

// document is the top-level YAML shape a catalog file must match.
type document struct {
	NumSafe      int           `yaml:"num_safe"`
	NumShop      int           `yaml:"num_shop"`
	NumDisasters int           `yaml:"num_disasters"`
	Thrones      []throneDef   `yaml:"thrones"`
	Rooms        []roomDef     `yaml:"rooms"`
	Disasters    []disasterDef `yaml:"disasters"`
}

// Load reads and parses a catalog YAML file into a game.Setting.
func Load(path string) (game.Setting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return game.Setting{}, fmt.Errorf("catalog: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes into a game.Setting.
func Parse(data []byte) (game.Setting, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return game.Setting{}, fmt.Errorf("catalog: parsing yaml: %w", err)
	}

	thrones := make([]room.Room, 0, len(doc.Thrones))
	for _, t := range doc.Thrones {
		thrones = append(thrones, room.NewThroneRoom(t.ID, t.Name))
	}

	rooms := make([]room.Room, 0, len(doc.Rooms))
	for _, r := range doc.Rooms {
		rr, err := r.toRoom()
		if err != nil {
			return game.Setting{}, err
		}
		rooms = append(rooms, rr)
	}

	disasters := make([]disaster.Disaster, 0, len(doc.Disasters))
	for _, d := range doc.Disasters {
		disasters = append(disasters, d.toDisaster())
	}

	if len(thrones) == 0 {
		return game.Setting{}, fmt.Errorf("catalog: no thrones defined")
	}

	return game.Setting{
		NumSafe:      doc.NumSafe,
		NumShop:      doc.NumShop,
		NumDisasters: doc.NumDisasters,
		Thrones:      thrones,
		Rooms:        rooms,
		Disasters:    disasters,
	}, nil
}
