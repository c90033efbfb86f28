package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/board"
	"github.com/rocketscienceinc/tictactoe-board/internal/config"
	"github.com/rocketscienceinc/tictactoe-board/internal/repository"
	"github.com/rocketscienceinc/tictactoe-board/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-board/internal/service"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	gameRepo := repository.NewGameRepository(redisStorage)
	gameService := service.NewGameService(logger, gameRepo)

	outcome, err := PlayMatch(ctx, logger, gameService, conf.Match)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	log.Info("Match finished", "outcome", outcome.String())

	return nil
}

// PlayMatch replays the configured moves on a new game until they run out or the game is decided.
// Rejected moves are logged and skipped.
func PlayMatch(ctx context.Context, logger *slog.Logger, games service.GameService, match config.Match) (board.Outcome, error) {
	log := logger.With("component", "match")

	gameID, _, err := games.CreateGame(ctx)
	if err != nil {
		return board.Undecided, fmt.Errorf("could not create game: %w", err)
	}

	log = log.With("gameID", gameID)
	log.Info("Game created", "moves", len(match.Moves))

	if !match.Keep {
		defer func() {
			// the match context may already be canceled
			if err := games.DeleteGame(context.WithoutCancel(ctx), gameID); err != nil {
				log.Error("could not delete game", "error", err)
			}
		}()
	}

	for _, move := range match.Moves {
		if err = ctx.Err(); err != nil {
			return board.Undecided, fmt.Errorf("match interrupted: %w", err)
		}

		placed, outcome, err := games.PlacePiece(ctx, gameID, move.Row, move.Col)
		switch {
		case errors.Is(err, apperror.ErrOutOfRange), errors.Is(err, apperror.ErrCellOccupied):
			log.Warn("Move rejected", "row", move.Row, "col", move.Col, "reason", err)
			continue
		case err != nil:
			return board.Undecided, fmt.Errorf("could not place piece at (%d,%d): %w", move.Row, move.Col, err)
		}

		log.Info("Piece placed", "row", move.Row, "col", move.Col, "mark", placed.String())

		if outcome.Decided() {
			return outcome, nil
		}
	}

	outcome, err := games.Outcome(ctx, gameID)
	if err != nil {
		return board.Undecided, fmt.Errorf("could not evaluate outcome: %w", err)
	}

	return outcome, nil
}
