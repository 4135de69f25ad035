// Package game implements the core state machine: deck and shop
// management, turn iteration across players (including the suspended
// "disaster resolution" sub-phase), disaster damage application, and
// victory accounting. Conversion to the probabilistic Schrödinger
// projection lives in the sibling schrodinger package to avoid an import
// cycle back into this one.
package game

import (
	"github.com/nthieu173/disastle/internal/card"
	"github.com/nthieu173/disastle/internal/castle"
	"github.com/nthieu173/disastle/internal/disaster"
	"github.com/nthieu173/disastle/internal/room"
)

// PlayerSecret identifies a seated player. Callers mint these (typically a
// UUID) and keep them private; the core never exposes one player's secret
// to another.
type PlayerSecret string

// GameState is the core, append-only state machine. Every operation
// returns a new GameState (or an error); the receiver is left untouched.
type GameState struct {
	Setting Setting

	Castles map[PlayerSecret]castle.Castle

	Shop    []room.Room
	Discard []room.Room
	Deck    []card.Card

	PreviousDisasters []disaster.Disaster
	QueuedDisasters   []disaster.Disaster

	TurnOrder []PlayerSecret
	TurnIndex int
	Round     int
}

const maxPlayers = 8

// New builds a GameState for the given players: thrones are assigned
// randomly, the deck is shuffled with a disaster-free safe zone reserved
// on top (dealt first), the initial shop is dealt, and turn order is
// shuffled.
func New(players []PlayerSecret, setting Setting, rng RNG) (GameState, error) {
	if len(players) > maxPlayers {
		return GameState{}, newError(ErrFullPlayers)
	}
	if len(setting.Thrones) == 0 {
		return GameState{}, newError(ErrInvalidAction)
	}

	castles := make(map[PlayerSecret]castle.Castle, len(players))
	for _, p := range players {
		throne := setting.Thrones[rng.Intn(len(setting.Thrones))]
		castles[p] = castle.New(throne)
	}

	rooms := make([]room.Room, len(setting.Rooms))
	copy(rooms, setting.Rooms)
	rng.Shuffle(len(rooms), func(i, j int) { rooms[i], rooms[j] = rooms[j], rooms[i] })

	numSafe := setting.NumSafe
	if numSafe > len(rooms) {
		numSafe = len(rooms)
	}
	safeRooms := rooms[len(rooms)-numSafe:]
	upperRooms := rooms[:len(rooms)-numSafe]

	disasters := make([]disaster.Disaster, len(setting.Disasters))
	copy(disasters, setting.Disasters)
	rng.Shuffle(len(disasters), func(i, j int) { disasters[i], disasters[j] = disasters[j], disasters[i] })
	numDisasters := setting.NumDisasters
	if numDisasters > len(disasters) {
		numDisasters = len(disasters)
	}
	chosenDisasters := disasters[:numDisasters]

	upperDeck := make([]card.Card, 0, len(upperRooms)+len(chosenDisasters))
	for _, r := range upperRooms {
		upperDeck = append(upperDeck, card.RoomCard(r))
	}
	for _, d := range chosenDisasters {
		upperDeck = append(upperDeck, card.DisasterCard(d))
	}
	rng.Shuffle(len(upperDeck), func(i, j int) { upperDeck[i], upperDeck[j] = upperDeck[j], upperDeck[i] })

	// The safe reserve sits at the tail of the deck (the "top", per the
	// deck's top-is-last-element convention) so it is popped first,
	// guaranteeing a disaster-free opening for any shuffle outcome.
	deck := make([]card.Card, 0, len(upperDeck)+len(safeRooms))
	deck = append(deck, upperDeck...)
	for _, r := range safeRooms {
		deck = append(deck, card.RoomCard(r))
	}

	turnOrder := make([]PlayerSecret, len(players))
	copy(turnOrder, players)
	rng.Shuffle(len(turnOrder), func(i, j int) { turnOrder[i], turnOrder[j] = turnOrder[j], turnOrder[i] })

	g := GameState{
		Setting:   setting,
		Castles:   castles,
		Deck:      deck,
		TurnOrder: turnOrder,
	}
	return g.dealShop(), nil
}

// dealShop refills Shop from the top of Deck until it holds NumShop rooms
// or the deck runs dry. Any disaster surfaced along the way (only possible
// when NumSafe < NumShop) is held aside as a queued disaster rather than
// silently discarded.
func (g GameState) dealShop() GameState {
	shop := make([]room.Room, 0, g.Setting.NumShop)
	var drawn []disaster.Disaster
	deck := append([]card.Card{}, g.Deck...)
	for len(shop) < g.Setting.NumShop && len(deck) > 0 {
		c := deck[len(deck)-1]
		deck = deck[:len(deck)-1]
		if c.IsRoom() {
			shop = append(shop, c.Room)
		} else {
			drawn = append(drawn, c.Disaster)
		}
	}
	g.Shop = shop
	g.Deck = deck
	if len(drawn) > 0 {
		g.QueuedDisasters = append(append([]disaster.Disaster{}, g.QueuedDisasters...), drawn...)
	}
	return g
}

func (g GameState) cloneCastles() map[PlayerSecret]castle.Castle {
	out := make(map[PlayerSecret]castle.Castle, len(g.Castles))
	for k, v := range g.Castles {
		out[k] = v
	}
	return out
}

// IsPlayer reports whether secret names a seated player.
func (g GameState) IsPlayer(secret PlayerSecret) bool {
	_, ok := g.Castles[secret]
	return ok
}

// CurrentPlayer returns the player whose normal turn it is, or "" if no
// players remain.
func (g GameState) CurrentPlayer() PlayerSecret {
	if len(g.TurnOrder) == 0 {
		return ""
	}
	return g.TurnOrder[g.TurnIndex]
}

// GetPlayerTurnIndex returns secret's position in TurnOrder, or -1 if it
// is not seated or has been eliminated.
func (g GameState) GetPlayerTurnIndex(secret PlayerSecret) int {
	for i, s := range g.TurnOrder {
		if s == secret {
			return i
		}
	}
	return -1
}

// IsTurnPlayer reports whether secret may act right now: either it is the
// current turn player, or its castle owes outstanding disaster damage.
func (g GameState) IsTurnPlayer(secret PlayerSecret) bool {
	c, ok := g.Castles[secret]
	if !ok {
		return false
	}
	if secret == g.CurrentPlayer() {
		return true
	}
	return c.Damage > 0
}

// IsOver reports whether the game has ended: fewer than two players
// remain, or every disaster in the setting has resolved.
func (g GameState) IsOver() bool {
	return len(g.TurnOrder) < 2 || len(g.PreviousDisasters) >= g.Setting.NumDisasters
}

// IsVictorious reports whether secret shares the win: castles are ranked
// by (alive, treasure, room count, total links), highest wins, ties share.
func (g GameState) IsVictorious(secret PlayerSecret) bool {
	c, ok := g.Castles[secret]
	if !ok {
		return false
	}
	best := rank{}
	for _, other := range g.Castles {
		if r := rankOf(other); best.less(r) {
			best = r
		}
	}
	return !rankOf(c).less(best)
}

type rank struct {
	alive      bool
	treasure   int
	numRooms   int
	totalLinks int
}

func rankOf(c castle.Castle) rank {
	any, diamond, cross, moon := c.Links()
	return rank{
		alive:      !c.IsLost(),
		treasure:   c.Treasure,
		numRooms:   c.NumRooms(),
		totalLinks: any + diamond + cross + moon,
	}
}

func (a rank) less(b rank) bool {
	if a.alive != b.alive {
		return !a.alive
	}
	if a.treasure != b.treasure {
		return a.treasure < b.treasure
	}
	if a.numRooms != b.numRooms {
		return a.numRooms < b.numRooms
	}
	return a.totalLinks < b.totalLinks
}

// PossibleActions enumerates every legal Action secret may currently take.
// It is empty for a player who is not the turn player.
func (g GameState) PossibleActions(secret PlayerSecret) []castle.Action {
	if !g.IsTurnPlayer(secret) {
		return nil
	}
	c, ok := g.Castles[secret]
	if !ok {
		return nil
	}
	return c.PossibleActions(g.Shop)
}

// Action dispatches a player-issued Action, returning the resulting
// GameState or a structured error. The receiver is left untouched.
func (g GameState) Action(secret PlayerSecret, act castle.Action, rng RNG) (GameState, error) {
	c, ok := g.Castles[secret]
	if !ok {
		return GameState{}, newError(ErrInvalidPlayer)
	}
	if !g.IsTurnPlayer(secret) {
		return GameState{}, newError(ErrNotTurnPlayer)
	}

	switch act.Kind {
	case castle.ActionPlace:
		if act.ShopIndex < 0 || act.ShopIndex >= len(g.Shop) {
			return GameState{}, newError(ErrInvalidShopIndex)
		}
		r := g.Shop[act.ShopIndex]
		next, err := c.Place(r, act.Pos)
		if err != nil {
			return GameState{}, wrapCastleError(err)
		}
		shop := make([]room.Room, 0, len(g.Shop)-1)
		shop = append(shop, g.Shop[:act.ShopIndex]...)
		shop = append(shop, g.Shop[act.ShopIndex+1:]...)
		castles := g.cloneCastles()
		castles[secret] = next
		g.Castles = castles
		g.Shop = shop
		return g.nextTurn(rng), nil

	case castle.ActionMove:
		next, err := c.Move(act.From, act.To)
		if err != nil {
			return GameState{}, wrapCastleError(err)
		}
		castles := g.cloneCastles()
		castles[secret] = next
		g.Castles = castles
		return g.nextTurn(rng), nil

	case castle.ActionSwap:
		next, err := c.Swap(act.From, act.To)
		if err != nil {
			return GameState{}, wrapCastleError(err)
		}
		castles := g.cloneCastles()
		castles[secret] = next
		g.Castles = castles
		return g.nextTurn(rng), nil

	case castle.ActionDiscard:
		wasOwed := c.Damage > 0
		next, removed, err := c.Discard(act.Pos)
		if err != nil {
			return GameState{}, wrapCastleError(err)
		}
		castles := g.cloneCastles()
		castles[secret] = next
		g.Castles = castles
		g.Discard = append(append([]room.Room{}, g.Discard...), removed)

		turnOrder, turnIndex := g.TurnOrder, g.TurnIndex
		if next.IsLost() {
			turnOrder, turnIndex = removeFromOrder(turnOrder, turnIndex, secret)
		}
		g.TurnOrder = turnOrder
		g.TurnIndex = turnIndex

		if allDamagePaid(castles) && len(g.QueuedDisasters) > 0 {
			d := g.QueuedDisasters[0]
			g.QueuedDisasters = append([]disaster.Disaster{}, g.QueuedDisasters[1:]...)
			g = g.resolveDisaster(d)
		}

		if wasOwed {
			return g, nil
		}
		return g.nextTurn(rng), nil

	default:
		return GameState{}, newError(ErrInvalidAction)
	}
}

func allDamagePaid(castles map[PlayerSecret]castle.Castle) bool {
	for _, c := range castles {
		if c.IsLost() {
			continue
		}
		if c.Damage > 0 {
			return false
		}
	}
	return true
}

// removeFromOrder removes secret from order, keeping turnIndex pointed at
// the same logical next player: the cursor decrements iff the removed
// player sat strictly before it, then wraps if necessary.
func removeFromOrder(order []PlayerSecret, turnIndex int, secret PlayerSecret) ([]PlayerSecret, int) {
	idx := -1
	for i, s := range order {
		if s == secret {
			idx = i
			break
		}
	}
	if idx == -1 {
		return order, turnIndex
	}
	next := make([]PlayerSecret, 0, len(order)-1)
	next = append(next, order[:idx]...)
	next = append(next, order[idx+1:]...)
	if idx < turnIndex {
		turnIndex--
	}
	if len(next) == 0 {
		turnIndex = 0
	} else if turnIndex >= len(next) {
		turnIndex = 0
	}
	return next, turnIndex
}

// nextTurn advances TurnIndex, rotating TurnOrder and starting a new round
// whenever it wraps.
func (g GameState) nextTurn(rng RNG) GameState {
	if len(g.TurnOrder) == 0 {
		return g
	}
	g.TurnIndex++
	if g.TurnIndex >= len(g.TurnOrder) {
		g.TurnIndex = 0
		rotated := make([]PlayerSecret, len(g.TurnOrder))
		copy(rotated, g.TurnOrder[1:])
		rotated[len(rotated)-1] = g.TurnOrder[0]
		g.TurnOrder = rotated
		g = g.nextRound(rng)
	}
	return g
}

// nextRound discards the shop, refills it, and resolves the mulligan rule
// for multi-disaster draws before kicking off resolution of the first
// disaster drawn this round, if any.
func (g GameState) nextRound(rng RNG) GameState {
	g.Round++
	g.Discard = append(append([]room.Room{}, g.Discard...), g.Shop...)
	g.Shop = nil

	redealt := false
	var held []disaster.Disaster
	for {
		shop := make([]room.Room, 0, g.Setting.NumShop)
		var drawn []disaster.Disaster
		deck := append([]card.Card{}, g.Deck...)
		for len(shop) < g.Setting.NumShop && len(deck) > 0 {
			c := deck[len(deck)-1]
			deck = deck[:len(deck)-1]
			if c.IsRoom() {
				shop = append(shop, c.Room)
			} else {
				drawn = append(drawn, c.Disaster)
			}
		}

		if len(drawn) > 1 && !redealt {
			// Return everything drawn this pass to the deck except the
			// most recently drawn disaster, which stays held aside to be
			// resolved once the redeal produces a clean shop.
			held = append(held, drawn[len(drawn)-1])
			reshuffled := append([]card.Card{}, deck...)
			for _, r := range shop {
				reshuffled = append(reshuffled, card.RoomCard(r))
			}
			for _, d := range drawn[:len(drawn)-1] {
				reshuffled = append(reshuffled, card.DisasterCard(d))
			}
			rng.Shuffle(len(reshuffled), func(i, j int) { reshuffled[i], reshuffled[j] = reshuffled[j], reshuffled[i] })
			g.Deck = reshuffled
			redealt = true
			continue
		}

		g.Shop = shop
		g.Deck = deck
		drawn = append(held, drawn...)
		if len(drawn) > 0 {
			d := drawn[0]
			g.QueuedDisasters = append(append([]disaster.Disaster{}, g.QueuedDisasters...), drawn[1:]...)
			g = g.resolveDisaster(d)
		}
		return g
	}
}

// resolveDisaster applies d's categorized damage to every castle in
// current turn order, clears and evicts any castle that ends up lost, and
// appends d to the resolved history.
func (g GameState) resolveDisaster(d disaster.Disaster) GameState {
	diamond, cross, moon := d.Damages(len(g.PreviousDisasters))
	castles := g.cloneCastles()
	turnOrder := append([]PlayerSecret{}, g.TurnOrder...)
	turnIndex := g.TurnIndex
	discard := append([]room.Room{}, g.Discard...)

	for _, p := range g.TurnOrder {
		c, ok := castles[p]
		if !ok {
			continue
		}
		next := c.DealDamage(diamond, cross, moon, 0)
		if next.IsLost() {
			for _, r := range next.Rooms {
				discard = append(discard, r)
			}
			next = next.Clear()
			turnOrder, turnIndex = removeFromOrder(turnOrder, turnIndex, p)
		}
		castles[p] = next
	}

	g.Castles = castles
	g.TurnOrder = turnOrder
	g.TurnIndex = turnIndex
	g.Discard = discard
	g.PreviousDisasters = append(append([]disaster.Disaster{}, g.PreviousDisasters...), d)
	return g
}
