package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/linkplay/internal/model"
)

var (
	start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	alice = model.GamePlayer{UserID: "alice", DisplayName: "Alice"}
	bob   = model.GamePlayer{UserID: "bob", DisplayName: "Bob"}
)

func newTestGame() *model.Game {
	return NewGame("g1", alice, bob, start)
}

// play alternates X and O over the given cells
func play(t *testing.T, game *model.Game, cells ...int) {
	t.Helper()
	for i, cell := range cells {
		user := alice.UserID
		if i%2 == 1 {
			user = bob.UserID
		}
		require.NoError(t, Move(game, user, cell, start))
	}
}

func TestNewGameXMovesFirst(t *testing.T) {
	game := newTestGame()
	assert.Equal(t, model.SymbolX, game.Next)
	assert.Equal(t, model.SymbolX, game.SymbolFor("alice"))
	assert.Equal(t, model.SymbolO, game.SymbolFor("bob"))
	assert.True(t, game.IsActive())
}

func TestMoveAlternatesTurns(t *testing.T) {
	game := newTestGame()
	play(t, game, 4)
	assert.Equal(t, model.SymbolX, game.Board[4])
	assert.Equal(t, model.SymbolO, game.Next)

	require.NoError(t, Move(game, "bob", 0, start))
	assert.Equal(t, model.SymbolX, game.Next)
}

func TestMoveErrorPrecedence(t *testing.T) {
	game := newTestGame()
	play(t, game, 0)

	// Out-of-range cell beats unknown player
	assert.ErrorIs(t, Move(game, "carol", 9, start), model.ErrInvalidCell)
	assert.ErrorIs(t, Move(game, "bob", -1, start), model.ErrInvalidCell)
	// Unknown player beats taken cell
	assert.ErrorIs(t, Move(game, "carol", 0, start), model.ErrInvalidPlayer)
	// Taken cell beats wrong turn
	assert.ErrorIs(t, Move(game, "alice", 0, start), model.ErrCellTaken)
	assert.ErrorIs(t, Move(game, "alice", 1, start), model.ErrNotYourTurn)
}

func TestMoveRejectedLeavesGameUnchanged(t *testing.T) {
	game := newTestGame()
	play(t, game, 0)
	before := *game.Clone()

	require.Error(t, Move(game, "alice", 1, start.Add(time.Minute)))
	assert.Equal(t, before.Board, game.Board)
	assert.Equal(t, before.Next, game.Next)
	assert.Equal(t, before.UpdatedAt, game.UpdatedAt)
}

func TestMoveOnNilOrFinishedGame(t *testing.T) {
	assert.ErrorIs(t, Move(nil, "alice", 0, start), model.ErrNoActiveGame)

	game := newTestGame()
	require.NoError(t, Forfeit(game, "bob", start))
	assert.ErrorIs(t, Move(game, "alice", 9, start), model.ErrNoActiveGame)
}

func TestEveryWinLine(t *testing.T) {
	for _, line := range winLines {
		var board model.Board
		for _, c := range line {
			board[c] = model.SymbolO
		}
		assert.Equal(t, model.SymbolO, Winner(board), "line %v", line)
	}
	assert.Equal(t, model.SymbolNone, Winner(model.Board{}))
}

func TestMoveDetectsWin(t *testing.T) {
	game := newTestGame()
	// X: 0,1,2  O: 3,4
	play(t, game, 0, 3, 1, 4, 2)

	assert.Equal(t, model.GameStatusFinished, game.Status)
	assert.Equal(t, model.SymbolX, game.WinnerSymbol)
	assert.False(t, game.Draw)
	assert.False(t, game.Forfeit)
	assert.Equal(t, start, game.FinishedAt)
}

func TestMoveDetectsDraw(t *testing.T) {
	game := newTestGame()
	// X O X / X O O / O X X
	play(t, game, 0, 1, 2, 4, 3, 5, 7, 6, 8)

	assert.Equal(t, model.GameStatusFinished, game.Status)
	assert.True(t, game.Draw)
	assert.Equal(t, model.SymbolNone, game.WinnerSymbol)
}

func TestWinOnLastCellIsNotDraw(t *testing.T) {
	game := newTestGame()
	// X O X / O X O / O X X  (X wins on the diagonal with the ninth move)
	play(t, game, 0, 1, 2, 3, 4, 5, 7, 6, 8)

	assert.Equal(t, model.SymbolX, game.WinnerSymbol)
	assert.False(t, game.Draw)
}

func TestForfeit(t *testing.T) {
	game := newTestGame()
	require.NoError(t, Forfeit(game, "alice", start))

	assert.Equal(t, model.GameStatusFinished, game.Status)
	assert.Equal(t, model.SymbolO, game.WinnerSymbol)
	assert.True(t, game.Forfeit)

	assert.ErrorIs(t, Forfeit(game, "bob", start), model.ErrNoActiveGame)
	assert.ErrorIs(t, Forfeit(newTestGame(), "carol", start), model.ErrInvalidPlayer)
}
