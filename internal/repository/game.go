package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/board"
)

var ErrUnknownMark = errors.New("unknown mark")

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, id string, game *board.Board) error
	GetByID(ctx context.Context, id string) (*board.Board, error)
	DeleteByID(ctx context.Context, id string) error
}

// storedGame is the Redis value of a game: cells row by row, "" for empty.
type storedGame struct {
	ID    string                        `json:"id"`
	Cells [board.Size * board.Size]string `json:"cells"`
	Turn  string                        `json:"turn"`
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func gameKey(id string) string {
	return "game:" + id
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, id string, game *board.Board) error {
	gameJSON, err := json.Marshal(toStored(id, game))
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	if err = that.client.Set(ctx, gameKey(id), gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*board.Board, error) {
	response, err := that.client.Get(ctx, gameKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame storedGame
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	game, err := fromStored(existingGame)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game %s: %w", id, err)
	}

	return game, nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, gameKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	if deleted == 0 {
		return fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	return nil
}

func toStored(id string, game *board.Board) storedGame {
	stored := storedGame{
		ID:   id,
		Turn: game.Turn().String(),
	}

	cells := game.Cells()
	for row := range cells {
		for col, cell := range cells[row] {
			stored.Cells[row*board.Size+col] = cell.String()
		}
	}

	return stored
}

func fromStored(stored storedGame) (*board.Board, error) {
	var cells [board.Size][board.Size]board.CellValue
	for i, mark := range stored.Cells {
		cell, err := parseMark(mark)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		cells[i/board.Size][i%board.Size] = cell
	}

	turn, err := parseMark(stored.Turn)
	if err != nil {
		return nil, fmt.Errorf("turn: %w", err)
	}

	game, err := board.Restore(cells, turn)
	if err != nil {
		return nil, fmt.Errorf("restore position: %w", err)
	}

	return game, nil
}

func parseMark(mark string) (board.CellValue, error) {
	switch mark {
	case board.Empty.String():
		return board.Empty, nil
	case board.PlayerX.String():
		return board.PlayerX, nil
	case board.PlayerO.String():
		return board.PlayerO, nil
	default:
		return board.Empty, fmt.Errorf("%w: %q", ErrUnknownMark, mark)
	}
}
