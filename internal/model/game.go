package model

import "time"

// GameID uniquely identifies a game
type GameID string

// Symbol is the mark a player places on the board
type Symbol string

const (
	SymbolNone Symbol = ""
	SymbolX    Symbol = "X"
	SymbolO    Symbol = "O"
)

// Other returns the opposing symbol
func (s Symbol) Other() Symbol {
	switch s {
	case SymbolX:
		return SymbolO
	case SymbolO:
		return SymbolX
	default:
		return SymbolNone
	}
}

// BoardSize is the number of cells on the 3x3 board
const BoardSize = 9

// Board holds the cells in row-major order, SymbolNone when empty
type Board [BoardSize]Symbol

// IsFull returns true if no cell is empty
func (b Board) IsFull() bool {
	for _, c := range b {
		if c == SymbolNone {
			return false
		}
	}
	return true
}

// GameStatus represents the lifecycle phase of a game
type GameStatus string

const (
	GameStatusActive   GameStatus = "active"
	GameStatusFinished GameStatus = "finished"
)

// GamePlayer is one seat at the table
type GamePlayer struct {
	UserID      UserID
	DisplayName string
}

// Game is a single two-player match.
// The player who was waiting in the queue is X, the arrival is O.
type Game struct {
	ID      GameID
	Players map[Symbol]GamePlayer
	Board   Board
	Next    Symbol
	Status  GameStatus

	WinnerSymbol Symbol
	Draw         bool
	Forfeit      bool

	CreatedAt  time.Time
	UpdatedAt  time.Time
	FinishedAt time.Time
}

// SymbolFor returns the symbol held by the user, or SymbolNone if not seated
func (g *Game) SymbolFor(userID UserID) Symbol {
	for symbol, p := range g.Players {
		if p.UserID == userID {
			return symbol
		}
	}
	return SymbolNone
}

// Opponent returns the player facing the given symbol
func (g *Game) Opponent(symbol Symbol) GamePlayer {
	return g.Players[symbol.Other()]
}

// IsActive returns true while moves can still be made
func (g *Game) IsActive() bool {
	return g.Status == GameStatusActive
}

// Clone returns a deep copy safe to hand out of a lock
func (g *Game) Clone() *Game {
	c := *g
	c.Players = make(map[Symbol]GamePlayer, len(g.Players))
	for k, v := range g.Players {
		c.Players[k] = v
	}
	return &c
}
