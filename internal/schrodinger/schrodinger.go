// Package schrodinger implements the probabilistic projection of a
// GameState used for search and forecasting: the unseen remainder of the
// deck is modeled as weighted possibility sets instead of an explicit,
// ordered slice of cards. It lives apart from the game package to avoid a
// game <-> schrodinger import cycle (game has no need to know about its own
// projection).
package schrodinger

import (
	"github.com/nthieu173/disastle/internal/castle"
	"github.com/nthieu173/disastle/internal/disaster"
	"github.com/nthieu173/disastle/internal/game"
	"github.com/nthieu173/disastle/internal/room"
)

// RNG is the randomness source GameState draws on for weighted sampling.
// game.RNG already satisfies it; this narrower interface leaves out Shuffle,
// which the projection never calls.
type RNG interface {
	Intn(n int) int
	Float64() float64
}

// GameState mirrors game.GameState, replacing the explicit Deck with
// PossibleRooms and PossibleDisasters: every card that could still be drawn,
// weighted only by its membership in these sets.
type GameState struct {
	Setting game.Setting

	Castles map[game.PlayerSecret]castle.Castle

	Shop    []room.Room
	Discard []room.Room

	PreviousDisasters []disaster.Disaster
	QueuedDisasters   []disaster.Disaster

	TurnOrder []game.PlayerSecret
	TurnIndex int
	Round     int

	PossibleRooms     map[room.Room]struct{}
	PossibleDisasters map[disaster.Disaster]struct{}
}

// FromGameState projects gs into a SchrödingerGameState: player secrets are
// anonymized to their turn-order position (as a string) so the projection
// carries no identifying information beyond seat order, and the possibility
// sets are derived by subtracting every room and disaster already placed,
// discarded, queued or resolved from the full setting.
func FromGameState(gs game.GameState) GameState {
	seatOf := make(map[game.PlayerSecret]string, len(gs.TurnOrder))
	for i, secret := range gs.TurnOrder {
		seatOf[secret] = itoa(i)
	}

	castles := make(map[game.PlayerSecret]castle.Castle, len(gs.Castles))
	for secret, c := range gs.Castles {
		seat, ok := seatOf[secret]
		if !ok {
			seat = itoa(len(seatOf) + len(castles))
		}
		castles[game.PlayerSecret(seat)] = c
	}

	turnOrder := make([]game.PlayerSecret, len(gs.TurnOrder))
	for i := range gs.TurnOrder {
		turnOrder[i] = game.PlayerSecret(itoa(i))
	}

	possibleRooms := make(map[room.Room]struct{}, len(gs.Setting.Rooms))
	for _, r := range gs.Setting.Rooms {
		possibleRooms[r] = struct{}{}
	}
	for _, r := range gs.Shop {
		delete(possibleRooms, r)
	}
	for _, r := range gs.Discard {
		delete(possibleRooms, r)
	}
	for _, c := range gs.Castles {
		for _, r := range c.Rooms {
			delete(possibleRooms, r)
		}
	}

	possibleDisasters := make(map[disaster.Disaster]struct{}, len(gs.Setting.Disasters))
	for _, d := range gs.Setting.Disasters {
		possibleDisasters[d] = struct{}{}
	}
	for _, d := range gs.PreviousDisasters {
		delete(possibleDisasters, d)
	}
	for _, d := range gs.QueuedDisasters {
		delete(possibleDisasters, d)
	}

	return GameState{
		Setting:           gs.Setting,
		Castles:           castles,
		Shop:              append([]room.Room{}, gs.Shop...),
		Discard:           append([]room.Room{}, gs.Discard...),
		PreviousDisasters: append([]disaster.Disaster{}, gs.PreviousDisasters...),
		QueuedDisasters:   append([]disaster.Disaster{}, gs.QueuedDisasters...),
		TurnOrder:         turnOrder,
		TurnIndex:         gs.TurnIndex,
		Round:             gs.Round,
		PossibleRooms:     possibleRooms,
		PossibleDisasters: possibleDisasters,
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// IsPlayer reports whether secret names a seated player.
func (g GameState) IsPlayer(secret game.PlayerSecret) bool {
	_, ok := g.Castles[secret]
	return ok
}

// CurrentPlayer returns the player whose normal turn it is, or "" if no
// players remain.
func (g GameState) CurrentPlayer() game.PlayerSecret {
	if len(g.TurnOrder) == 0 {
		return ""
	}
	return g.TurnOrder[g.TurnIndex]
}

// IsTurnPlayer reports whether secret may act right now: either it is the
// current turn player, or its castle owes outstanding disaster damage.
func (g GameState) IsTurnPlayer(secret game.PlayerSecret) bool {
	c, ok := g.Castles[secret]
	if !ok {
		return false
	}
	if secret == g.CurrentPlayer() {
		return true
	}
	return c.Damage > 0
}

// GetPlayerTurnIndex returns secret's position in TurnOrder, or -1 if it is
// not seated or has been eliminated.
func (g GameState) GetPlayerTurnIndex(secret game.PlayerSecret) int {
	for i, s := range g.TurnOrder {
		if s == secret {
			return i
		}
	}
	return -1
}

// IsOver reports whether the game has ended: fewer than two players remain,
// or every disaster in the setting has resolved.
func (g GameState) IsOver() bool {
	return len(g.TurnOrder) < 2 || len(g.PreviousDisasters) >= g.Setting.NumDisasters
}

// IsVictorious reports whether secret shares the win, ranked identically to
// game.GameState.IsVictorious.
func (g GameState) IsVictorious(secret game.PlayerSecret) bool {
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
func (g GameState) PossibleActions(secret game.PlayerSecret) []castle.Action {
	if !g.IsTurnPlayer(secret) {
		return nil
	}
	c, ok := g.Castles[secret]
	if !ok {
		return nil
	}
	return c.PossibleActions(g.Shop)
}

// Action dispatches a player-issued Action against the projected state,
// mirroring game.GameState.Action.
func (g GameState) Action(secret game.PlayerSecret, act castle.Action, rng RNG) (GameState, error) {
	c, ok := g.Castles[secret]
	if !ok {
		return GameState{}, game.NewError(game.ErrInvalidPlayer)
	}
	if !g.IsTurnPlayer(secret) {
		return GameState{}, game.NewError(game.ErrNotTurnPlayer)
	}

	switch act.Kind {
	case castle.ActionPlace:
		if act.ShopIndex < 0 || act.ShopIndex >= len(g.Shop) {
			return GameState{}, game.NewError(game.ErrInvalidShopIndex)
		}
		r := g.Shop[act.ShopIndex]
		next, err := c.Place(r, act.Pos)
		if err != nil {
			return GameState{}, game.WrapCastleError(err)
		}
		shop := make([]room.Room, 0, len(g.Shop)-1)
		shop = append(shop, g.Shop[:act.ShopIndex]...)
		shop = append(shop, g.Shop[act.ShopIndex+1:]...)
		g.Castles = g.cloneCastles()
		g.Castles[secret] = next
		g.Shop = shop
		return g.nextTurn(rng), nil

	case castle.ActionMove:
		next, err := c.Move(act.From, act.To)
		if err != nil {
			return GameState{}, game.WrapCastleError(err)
		}
		g.Castles = g.cloneCastles()
		g.Castles[secret] = next
		return g.nextTurn(rng), nil

	case castle.ActionSwap:
		next, err := c.Swap(act.From, act.To)
		if err != nil {
			return GameState{}, game.WrapCastleError(err)
		}
		g.Castles = g.cloneCastles()
		g.Castles[secret] = next
		return g.nextTurn(rng), nil

	case castle.ActionDiscard:
		wasOwed := c.Damage > 0
		next, removed, err := c.Discard(act.Pos)
		if err != nil {
			return GameState{}, game.WrapCastleError(err)
		}
		g.Castles = g.cloneCastles()
		g.Castles[secret] = next
		g.Discard = append(append([]room.Room{}, g.Discard...), removed)

		turnOrder, turnIndex := g.TurnOrder, g.TurnIndex
		if next.IsLost() {
			turnOrder, turnIndex = removeFromOrder(turnOrder, turnIndex, secret)
		}
		g.TurnOrder = turnOrder
		g.TurnIndex = turnIndex

		if allDamagePaid(g.Castles) && len(g.QueuedDisasters) > 0 {
			d := g.QueuedDisasters[0]
			g.QueuedDisasters = append([]disaster.Disaster{}, g.QueuedDisasters[1:]...)
			g = g.resolveDisaster(d)
		}

		if wasOwed {
			return g, nil
		}
		return g.nextTurn(rng), nil

	default:
		return GameState{}, game.NewError(game.ErrInvalidAction)
	}
}

func (g GameState) cloneCastles() map[game.PlayerSecret]castle.Castle {
	out := make(map[game.PlayerSecret]castle.Castle, len(g.Castles))
	for k, v := range g.Castles {
		out[k] = v
	}
	return out
}

func allDamagePaid(castles map[game.PlayerSecret]castle.Castle) bool {
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

func removeFromOrder(order []game.PlayerSecret, turnIndex int, secret game.PlayerSecret) ([]game.PlayerSecret, int) {
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
	next := make([]game.PlayerSecret, 0, len(order)-1)
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

func (g GameState) nextTurn(rng RNG) GameState {
	if len(g.TurnOrder) == 0 {
		return g
	}
	g.TurnIndex++
	if g.TurnIndex >= len(g.TurnOrder) {
		g.TurnIndex = 0
		rotated := make([]game.PlayerSecret, len(g.TurnOrder))
		copy(rotated, g.TurnOrder[1:])
		rotated[len(rotated)-1] = g.TurnOrder[0]
		g.TurnOrder = rotated
		g = g.nextRound(rng)
	}
	return g
}

// nextRound refills the shop one card at a time: each draw samples disaster
// vs. room with probability proportional to the rooms left in the
// possibility set and the disasters the setting still has to deal, except
// while fewer rooms have been drawn than the setting's safe zone requires,
// when the disaster probability is forced to zero. The mulligan differs from
// game.GameState's: the first time a second disaster is drawn in the round,
// every disaster but the first is returned to the possibility set, leaving
// only the first held.
func (g GameState) nextRound(rng RNG) GameState {
	g.Round++
	g.Discard = append(append([]room.Room{}, g.Discard...), g.Shop...)
	g.Shop = nil

	possibleRooms := cloneRoomSet(g.PossibleRooms)
	possibleDisasters := cloneDisasterSet(g.PossibleDisasters)
	roomsDrawnSoFar := len(g.Setting.Rooms) - len(possibleRooms)

	var drawn []disaster.Disaster
	redealt := false
	for len(g.Shop) < g.Setting.NumShop && len(possibleRooms) > 0 {
		numDisastersLeft := g.Setting.NumDisasters - len(g.PreviousDisasters) - len(g.QueuedDisasters) - len(drawn)
		if numDisastersLeft < 0 || roomsDrawnSoFar < g.Setting.NumSafe || len(possibleDisasters) == 0 {
			numDisastersLeft = 0
		}

		drawDisaster := false
		if numDisastersLeft > 0 {
			p := float64(numDisastersLeft) / float64(len(possibleRooms)+numDisastersLeft)
			drawDisaster = rng.Float64() < p
		}

		if drawDisaster {
			d := pickDisaster(possibleDisasters, rng)
			delete(possibleDisasters, d)
			drawn = append(drawn, d)
			if !redealt && len(drawn) > 1 {
				for _, returned := range drawn[1:] {
					possibleDisasters[returned] = struct{}{}
				}
				drawn = drawn[:1]
				redealt = true
			}
			continue
		}

		r := pickRoom(possibleRooms, rng)
		delete(possibleRooms, r)
		roomsDrawnSoFar++
		g.Shop = append(g.Shop, r)
	}

	g.PossibleRooms = possibleRooms
	g.PossibleDisasters = possibleDisasters
	if len(drawn) > 0 {
		d := drawn[0]
		g.QueuedDisasters = append(append([]disaster.Disaster{}, g.QueuedDisasters...), drawn[1:]...)
		g = g.resolveDisaster(d)
	}
	return g
}

func (g GameState) resolveDisaster(d disaster.Disaster) GameState {
	diamond, cross, moon := d.Damages(len(g.PreviousDisasters))
	castles := g.cloneCastles()
	turnOrder := append([]game.PlayerSecret{}, g.TurnOrder...)
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

func cloneRoomSet(s map[room.Room]struct{}) map[room.Room]struct{} {
	out := make(map[room.Room]struct{}, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func cloneDisasterSet(s map[disaster.Disaster]struct{}) map[disaster.Disaster]struct{} {
	out := make(map[disaster.Disaster]struct{}, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// pickRoom and pickDisaster take a uniform random element of a set. Go map
// iteration order is randomized per-process but not uniformly sampled, so
// both collect keys into a slice first and index into it with rng.Intn.
func pickRoom(s map[room.Room]struct{}, rng RNG) room.Room {
	keys := make([]room.Room, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys[rng.Intn(len(keys))]
}

func pickDisaster(s map[disaster.Disaster]struct{}, rng RNG) disaster.Disaster {
	keys := make([]disaster.Disaster, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys[rng.Intn(len(keys))]
}
