package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/board"
)

type GameService interface {
	CreateGame(ctx context.Context) (string, *board.Board, error)
	GetGame(ctx context.Context, id string) (*board.Board, error)
	DeleteGame(ctx context.Context, id string) error

	// PlacePiece plays the next mark at (row, col) and returns what the board reported
	// together with the outcome after the attempt. Rejected placements return an
	// apperror sentinel and leave the stored game untouched.
	PlacePiece(ctx context.Context, id string, row, col int) (board.CellValue, board.Outcome, error)
	Outcome(ctx context.Context, id string) (board.Outcome, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, id string, game *board.Board) error
	GetByID(ctx context.Context, id string) (*board.Board, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameService struct {
	logger *slog.Logger

	gameRepo gameRepo
}

func NewGameService(logger *slog.Logger, gameRepo gameRepo) GameService {
	return &gameService{
		logger:   logger.With("component", "gameService"),
		gameRepo: gameRepo,
	}
}

func (that *gameService) CreateGame(ctx context.Context) (string, *board.Board, error) {
	gameID := uuid.NewString()
	game := board.New()

	if err := that.gameRepo.CreateOrUpdate(ctx, gameID, game); err != nil {
		return "", nil, fmt.Errorf("failed to create game in storage: %w", err)
	}

	that.logger.Debug("game created", "gameID", gameID)

	return gameID, game, nil
}

func (that *gameService) GetGame(ctx context.Context, id string) (*board.Board, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	return game, nil
}

func (that *gameService) DeleteGame(ctx context.Context, id string) error {
	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

func (that *gameService) PlacePiece(ctx context.Context, id string, row, col int) (board.CellValue, board.Outcome, error) {
	log := that.logger.With("method", "PlacePiece", "gameID", id, "row", row, "col", col)

	game, err := that.GetGame(ctx, id)
	if err != nil {
		return board.Empty, board.Undecided, err
	}

	before := game.QueryCell(row, col)
	placed := game.PlacePiece(row, col)
	outcome := game.EvaluateOutcome()

	switch {
	case placed == board.OutOfRange:
		return placed, outcome, fmt.Errorf("%w: (%d,%d)", apperror.ErrOutOfRange, row, col)
	case placed == board.GameOver:
		return placed, outcome, fmt.Errorf("%w: %s", apperror.ErrGameFinished, outcome)
	case before != board.Empty:
		return placed, outcome, fmt.Errorf("%w: (%d,%d) holds %s", apperror.ErrCellOccupied, row, col, placed)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, id, game); err != nil {
		return placed, outcome, fmt.Errorf("failed to update game: %w", err)
	}

	log.Debug("piece placed", "mark", placed.String(), "outcome", outcome.String())

	return placed, outcome, nil
}

func (that *gameService) Outcome(ctx context.Context, id string) (board.Outcome, error) {
	game, err := that.GetGame(ctx, id)
	if err != nil {
		return board.Undecided, err
	}

	return game.EvaluateOutcome(), nil
}
