package game

import (
	"time"

	"github.com/mcoot/linkplay/internal/model"
)

// winLines are the eight rows, columns and diagonals of the board
var winLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// NewGame seats the waiter as X and the joiner as O, with X to move
func NewGame(id model.GameID, x, o model.GamePlayer, now time.Time) *model.Game {
	return &model.Game{
		ID: id,
		Players: map[model.Symbol]model.GamePlayer{
			model.SymbolX: x,
			model.SymbolO: o,
		},
		Next:      model.SymbolX,
		Status:    model.GameStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Move places the user's symbol in cell and settles the outcome.
// Validation order: active game, cell range, seat, occupancy, turn.
// The game is untouched when an error is returned.
func Move(game *model.Game, userID model.UserID, cell int, now time.Time) error {
	if game == nil || !game.IsActive() {
		return model.ErrNoActiveGame
	}
	if cell < 0 || cell >= model.BoardSize {
		return model.ErrInvalidCell
	}
	symbol := game.SymbolFor(userID)
	if symbol == model.SymbolNone {
		return model.ErrInvalidPlayer
	}
	if game.Board[cell] != model.SymbolNone {
		return model.ErrCellTaken
	}
	if game.Next != symbol {
		return model.ErrNotYourTurn
	}

	game.Board[cell] = symbol
	game.UpdatedAt = now

	switch {
	case Winner(game.Board) != model.SymbolNone:
		finish(game, Winner(game.Board), false, false, now)
	case game.Board.IsFull():
		finish(game, model.SymbolNone, true, false, now)
	default:
		game.Next = symbol.Other()
	}
	return nil
}

// Forfeit ends an active game in favour of the user's opponent
func Forfeit(game *model.Game, userID model.UserID, now time.Time) error {
	if game == nil || !game.IsActive() {
		return model.ErrNoActiveGame
	}
	symbol := game.SymbolFor(userID)
	if symbol == model.SymbolNone {
		return model.ErrInvalidPlayer
	}
	game.UpdatedAt = now
	finish(game, symbol.Other(), false, true, now)
	return nil
}

// Winner returns the symbol holding a complete line, if any
func Winner(board model.Board) model.Symbol {
	for _, line := range winLines {
		a := board[line[0]]
		if a != model.SymbolNone && a == board[line[1]] && a == board[line[2]] {
			return a
		}
	}
	return model.SymbolNone
}

func finish(game *model.Game, winner model.Symbol, draw, forfeit bool, now time.Time) {
	game.Status = model.GameStatusFinished
	game.WinnerSymbol = winner
	game.Draw = draw
	game.Forfeit = forfeit
	game.Next = model.SymbolNone
	game.FinishedAt = now
}
