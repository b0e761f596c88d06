package apperror

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrNotAuthorized = errors.New("not authorized to join this room")
	ErrAlreadySeated = errors.New("player already holds a seat in this room")
	ErrGameFinished  = errors.New("game is already finished")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrInvalidCell   = errors.New("cell index out of range")
)
