package castle

import "github.com/nthieu173/disastle/internal/room"

// ActionKind discriminates the variants of Action.
type ActionKind int

const (
	ActionPlace ActionKind = iota
	ActionMove
	ActionSwap
	ActionDiscard
)

// Action is the tagged union of mutations a player may ask a castle to
// perform. Which fields are meaningful depends on Kind:
//
//	ActionPlace:   ShopIndex, Pos
//	ActionMove:    From, To
//	ActionSwap:    From, To
//	ActionDiscard: Pos
type Action struct {
	Kind      ActionKind
	ShopIndex int
	Pos       room.Position
	From      room.Position
	To        room.Position
}

// PlaceAction builds an Action that places shop[shopIndex] at pos.
func PlaceAction(shopIndex int, pos room.Position) Action {
	return Action{Kind: ActionPlace, ShopIndex: shopIndex, Pos: pos}
}

// MoveAction builds an Action that relocates the outer room at from to to.
func MoveAction(from, to room.Position) Action {
	return Action{Kind: ActionMove, From: from, To: to}
}

// SwapAction builds an Action that exchanges the rooms at p1 and p2.
func SwapAction(p1, p2 room.Position) Action {
	return Action{Kind: ActionSwap, From: p1, To: p2}
}

// DiscardAction builds an Action that demolishes the room at pos.
func DiscardAction(pos room.Position) Action {
	return Action{Kind: ActionDiscard, Pos: pos}
}
