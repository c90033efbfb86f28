package apperror

import "errors"

var (
	ErrGameFinished = errors.New("game is already finished")
	ErrGameNotFound = errors.New("game not found")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrOutOfRange   = errors.New("cell is out of range")
)
