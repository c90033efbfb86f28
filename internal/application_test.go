package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/board"
	"github.com/rocketscienceinc/tictactoe-board/internal/config"
	"github.com/rocketscienceinc/tictactoe-board/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo keeps games in a map.
type memoryRepo struct {
	games map[string]*board.Board
}

func (that *memoryRepo) CreateOrUpdate(_ context.Context, id string, game *board.Board) error {
	that.games[id] = game
	return nil
}

func (that *memoryRepo) GetByID(_ context.Context, id string) (*board.Board, error) {
	game, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}
	return game, nil
}

func (that *memoryRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := that.games[id]; !ok {
		return apperror.ErrGameNotFound
	}
	delete(that.games, id)
	return nil
}

func newMatchService() (service.GameService, *memoryRepo, *slog.Logger) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &memoryRepo{games: map[string]*board.Board{}}

	return service.NewGameService(logger, repo), repo, logger
}

func moves(cells ...[2]int) []config.Move {
	result := make([]config.Move, 0, len(cells))
	for _, cell := range cells {
		result = append(result, config.Move{Row: cell[0], Col: cell[1]})
	}
	return result
}

func TestPlayMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Replays a drawn game", func(t *testing.T) {
		// Given: a full sequence without a winning line
		games, repo, logger := newMatchService()
		match := config.Match{
			Keep: true,
			Moves: moves(
				[2]int{1, 1}, [2]int{0, 0}, [2]int{0, 2},
				[2]int{2, 0}, [2]int{1, 0}, [2]int{1, 2},
				[2]int{0, 1}, [2]int{2, 1}, [2]int{2, 2},
			),
		}

		// When: playing the match
		outcome, err := PlayMatch(ctx, logger, games, match)

		// Then: the game is a draw and is kept in storage
		require.NoError(t, err)
		assert.Equal(t, board.Draw, outcome)
		assert.Len(t, repo.games, 1)
	})

	t.Run("Stops once the game is decided", func(t *testing.T) {
		// Given: X wins on the fifth move and more moves follow
		games, repo, logger := newMatchService()
		match := config.Match{
			Keep:  true,
			Moves: moves([2]int{0, 0}, [2]int{1, 0}, [2]int{0, 1}, [2]int{1, 1}, [2]int{0, 2}, [2]int{2, 2}),
		}

		// When: playing the match
		outcome, err := PlayMatch(ctx, logger, games, match)

		// Then: X wins and the trailing move is never placed
		require.NoError(t, err)
		assert.Equal(t, board.WinnerX, outcome)
		for _, game := range repo.games {
			assert.Equal(t, board.Empty, game.QueryCell(2, 2))
		}
	})

	t.Run("Skips rejected moves", func(t *testing.T) {
		// Given: an out of range move and a repeated cell in the list
		games, repo, logger := newMatchService()
		match := config.Match{
			Keep:  true,
			Moves: moves([2]int{0, 0}, [2]int{5, 5}, [2]int{0, 0}, [2]int{1, 1}),
		}

		// When: playing the match
		outcome, err := PlayMatch(ctx, logger, games, match)

		// Then: only the valid moves land and the turn is back to X
		require.NoError(t, err)
		assert.Equal(t, board.Undecided, outcome)
		require.Len(t, repo.games, 1)
		for _, game := range repo.games {
			assert.Equal(t, board.PlayerX, game.QueryCell(0, 0))
			assert.Equal(t, board.PlayerO, game.QueryCell(1, 1))
			assert.Equal(t, board.PlayerX, game.Turn())
		}
	})

	t.Run("Deletes the game unless kept", func(t *testing.T) {
		// Given: a match that does not keep its game
		games, repo, logger := newMatchService()
		match := config.Match{Moves: moves([2]int{0, 0})}

		// When: playing the match
		_, err := PlayMatch(ctx, logger, games, match)

		// Then: storage is empty afterwards
		require.NoError(t, err)
		assert.Empty(t, repo.games)
	})

	t.Run("Canceled context interrupts the match", func(t *testing.T) {
		// Given: a canceled context
		games, repo, logger := newMatchService()
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		// When: playing the match
		_, err := PlayMatch(canceled, logger, games, config.Match{Moves: moves([2]int{0, 0})})

		// Then: the cancellation is reported and the game is still cleaned up
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, repo.games)
	})
}

func TestRunApp_EmptyRedisAddress(t *testing.T) {
	// Given: a config without a redis host
	conf := &config.Config{Redis: config.Redis{Port: "6379"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// When: running the app
	err := RunApp(logger, conf)

	// Then: ErrAddrNotFound is returned before any connection attempt
	require.ErrorIs(t, err, ErrAddrNotFound)
}
