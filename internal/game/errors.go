package game

import (
	"fmt"

	"github.com/nthieu173/disastle/internal/castle"
)

// ErrorKind enumerates the ways a game-level action can be rejected.
type ErrorKind int

const (
	// ErrInvalidPlayer means the secret does not name a seated player.
	ErrInvalidPlayer ErrorKind = iota
	// ErrNotTurnPlayer means the player may not act right now.
	ErrNotTurnPlayer
	// ErrInvalidShopIndex means the action names a shop slot out of range.
	ErrInvalidShopIndex
	// ErrInvalidDisaster means a disaster operation was requested with no
	// disaster available to resolve.
	ErrInvalidDisaster
	// ErrInvalidRoomIndex means a room index is out of range.
	ErrInvalidRoomIndex
	// ErrInvalidAction means the action's Kind does not match any case the
	// current phase accepts.
	ErrInvalidAction
	// ErrFullPlayers means the game already seats the maximum players.
	ErrFullPlayers
	// ErrCastle wraps a castle-layer rejection; Cause holds the original.
	ErrCastle
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidPlayer:
		return "invalid player"
	case ErrNotTurnPlayer:
		return "not turn player"
	case ErrInvalidShopIndex:
		return "invalid shop index"
	case ErrInvalidDisaster:
		return "invalid disaster"
	case ErrInvalidRoomIndex:
		return "invalid room index"
	case ErrInvalidAction:
		return "invalid action"
	case ErrFullPlayers:
		return "full players"
	case ErrCastle:
		return "castle error"
	default:
		return "unknown game error"
	}
}

// Error is the structured failure type every game-layer operation returns.
type Error struct {
	Kind  ErrorKind
	Cause *castle.Error
}

func (e *Error) Error() string {
	if e.Kind == ErrCastle && e.Cause != nil {
		return fmt.Sprintf("game: %s: %s", e.Kind, e.Cause)
	}
	return fmt.Sprintf("game: %s", e.Kind)
}

// Unwrap exposes the wrapped castle error, if any, to errors.As/errors.Is.
func (e *Error) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

func newError(kind ErrorKind) *Error { return &Error{Kind: kind} }

func wrapCastleError(err error) *Error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*castle.Error); ok {
		return &Error{Kind: ErrCastle, Cause: ce}
	}
	return &Error{Kind: ErrInvalidAction}
}

// NewError builds an Error of the given kind. Exported so sibling packages
// (the schrodinger projection, which mirrors this package's Action
// dispatch) can report the same structured failures without duplicating
// the ErrorKind enum.
func NewError(kind ErrorKind) *Error { return newError(kind) }

// WrapCastleError wraps a castle-layer error as an ErrCastle, or falls back
// to ErrInvalidAction for anything else. Exported for the same reason as
// NewError.
func WrapCastleError(err error) *Error { return wrapCastleError(err) }
