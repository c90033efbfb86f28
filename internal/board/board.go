package board

import (
	"errors"
	"fmt"
)

// Size is the length of a board side.
const Size = 3

// CellValue is what a cell holds, or a sentinel describing why a call did not touch the grid.
type CellValue uint8

const (
	Empty CellValue = iota
	PlayerX
	PlayerO

	// OutOfRange is returned for coordinates outside the grid. Never stored.
	OutOfRange
	// GameOver is returned by PlacePiece once the outcome is decided. Never stored.
	GameOver
)

func (that CellValue) String() string {
	switch that {
	case Empty:
		return ""
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	case OutOfRange:
		return "out-of-range"
	case GameOver:
		return "game-over"
	default:
		return fmt.Sprintf("CellValue(%d)", uint8(that))
	}
}

// IsPlayer reports whether the value is a player mark.
func (that CellValue) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Outcome is the state of the game as seen by EvaluateOutcome.
type Outcome uint8

const (
	Undecided Outcome = iota
	WinnerX
	WinnerO
	Draw
)

func (that Outcome) String() string {
	switch that {
	case Undecided:
		return "undecided"
	case WinnerX:
		return "winner X"
	case WinnerO:
		return "winner O"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(that))
	}
}

// Decided reports whether the game has ended.
func (that Outcome) Decided() bool {
	return that != Undecided
}

// Winner returns the winning mark, if any.
func (that Outcome) Winner() (CellValue, bool) {
	switch that {
	case WinnerX:
		return PlayerX, true
	case WinnerO:
		return PlayerO, true
	default:
		return Empty, false
	}
}

var ErrInvalidPosition = errors.New("invalid board position")

type position struct {
	row, col int
}

// winLines lists every line in the order they are checked:
// anti-diagonal, main diagonal, columns left to right, rows top to bottom.
var winLines = [...][Size]position{
	{{0, 2}, {1, 1}, {2, 0}},
	{{0, 0}, {1, 1}, {2, 2}},

	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},

	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
}

// Board is a 3x3 grid and the mark of the player to move.
// It is not safe for concurrent use.
type Board struct {
	grid [Size][Size]CellValue
	turn CellValue
}

// New returns an empty board with X to move.
func New() *Board {
	return &Board{turn: PlayerX}
}

// Restore rebuilds a board from a stored position.
func Restore(cells [Size][Size]CellValue, turn CellValue) (*Board, error) {
	if !turn.IsPlayer() {
		return nil, fmt.Errorf("%w: turn %q", ErrInvalidPosition, turn)
	}

	var countX, countO int
	for row := range cells {
		for col, cell := range cells[row] {
			switch cell {
			case Empty:
			case PlayerX:
				countX++
			case PlayerO:
				countO++
			default:
				return nil, fmt.Errorf("%w: cell (%d,%d) holds %s", ErrInvalidPosition, row, col, cell)
			}
		}
	}

	// X always moves first.
	switch {
	case turn == PlayerX && countX != countO,
		turn == PlayerO && countX != countO+1:
		return nil, fmt.Errorf("%w: %d X and %d O with %s to move", ErrInvalidPosition, countX, countO, turn)
	}

	restored := &Board{grid: cells, turn: turn}
	if restored.hasLine(PlayerX) && restored.hasLine(PlayerO) {
		return nil, fmt.Errorf("%w: both players hold a line", ErrInvalidPosition)
	}

	return restored, nil
}

// QueryCell returns the value at (row, col), or OutOfRange.
func (that *Board) QueryCell(row, col int) CellValue {
	if !inRange(row, col) {
		return OutOfRange
	}

	return that.grid[row][col]
}

// PlacePiece puts the mark of the player to move at (row, col) and passes the turn.
//
// It returns the placed mark on success. Otherwise nothing changes and it returns
// OutOfRange for bad coordinates, GameOver when the game is already decided, or the
// current occupant when the cell is taken.
func (that *Board) PlacePiece(row, col int) CellValue {
	if !inRange(row, col) {
		return OutOfRange
	}

	if that.EvaluateOutcome().Decided() {
		return GameOver
	}

	if occupant := that.grid[row][col]; occupant != Empty {
		return occupant
	}

	placed := that.turn
	that.grid[row][col] = placed
	that.turn = opponent(placed)

	return placed
}

// EvaluateOutcome reports a winner, a draw, or that the game goes on.
func (that *Board) EvaluateOutcome() Outcome {
	for _, line := range winLines {
		switch that.lineOwner(line) {
		case PlayerX:
			return WinnerX
		case PlayerO:
			return WinnerO
		}
	}

	// the game continues until every cell is taken
	for row := range that.grid {
		for _, cell := range that.grid[row] {
			if cell == Empty {
				return Undecided
			}
		}
	}

	return Draw
}

// Turn returns the mark of the player to move.
func (that *Board) Turn() CellValue {
	return that.turn
}

// Cells returns a copy of the grid.
func (that *Board) Cells() [Size][Size]CellValue {
	return that.grid
}

func (that *Board) lineOwner(line [Size]position) CellValue {
	first := that.grid[line[0].row][line[0].col]
	if first == Empty {
		return Empty
	}

	for _, pos := range line[1:] {
		if that.grid[pos.row][pos.col] != first {
			return Empty
		}
	}

	return first
}

func (that *Board) hasLine(mark CellValue) bool {
	for _, line := range winLines {
		if that.lineOwner(line) == mark {
			return true
		}
	}

	return false
}

func inRange(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

func opponent(mark CellValue) CellValue {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
