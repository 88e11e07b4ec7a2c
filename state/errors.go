// state/errors.go
package state

import "errors"

var (
	ErrRoomFull         = errors.New("room is full")
	ErrInvalidState     = errors.New("action not valid in current room state")
	ErrNotHost          = errors.New("only the host can do that")
	ErrInvalidClaim     = errors.New("win claim rejected")
	ErrNumbersExhausted = errors.New("all numbers have been called")
	ErrInvalidMessage   = errors.New("invalid chat message")
)
