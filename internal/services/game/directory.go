// Package game runs tic-tac-toe matches between users paired by the matchmaking queue.
package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/linkplay/internal/dependencies/clock"
	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/services/matchmaking"
	"github.com/mcoot/linkplay/internal/storage"
)

// Notifier delivers a message to a user without blocking the caller on failure
type Notifier interface {
	Notify(ctx context.Context, userID model.UserID, kind model.NotificationType, message string, meta map[string]string)
}

// QueueStatus is the outcome of asking to play
type QueueStatus string

const (
	QueueStatusWaiting QueueStatus = "waiting"
	QueueStatusMatched QueueStatus = "matched"
	QueueStatusInGame  QueueStatus = "in_game"
)

// QueueResult is returned by QueueForMatch. Game is set when matched or in_game.
type QueueResult struct {
	Status QueueStatus
	Game   *model.Game
}

// LeaveResult is returned by LeaveQueueOrGame
type LeaveResult struct {
	Resigned  bool
	QueueLeft bool
	Game      *model.Game // terminal state when Resigned
}

// PlayerState is what a user sees when polling
type PlayerState struct {
	Queued bool
	Game   *model.Game
}

// Directory owns the queue and every active game. All compound
// operations run under a single lock; games handed out are copies.
type Directory struct {
	storage  storage.Storage
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger

	mu     sync.Mutex
	queue  *matchmaking.Queue
	games  map[model.GameID]*model.Game
	byUser map[model.UserID]model.GameID
}

// NewDirectory creates an empty Directory
func NewDirectory(storage storage.Storage, notifier Notifier, clock clock.Clock, logger *slog.Logger) *Directory {
	return &Directory{
		storage:  storage,
		notifier: notifier,
		clock:    clock,
		logger:   logger.With(slog.String("component", "tictactoe")),
		queue:    matchmaking.NewQueue(),
		games:    make(map[model.GameID]*model.Game),
		byUser:   make(map[model.UserID]model.GameID),
	}
}

// QueueForMatch puts the user in the queue or pairs them with the longest waiter
func (d *Directory) QueueForMatch(ctx context.Context, user model.User) (QueueResult, error) {
	d.mu.Lock()

	if game := d.activeGameFor(user.ID); game != nil {
		d.mu.Unlock()
		return QueueResult{Status: QueueStatusInGame, Game: game.Clone()}, nil
	}

	res := d.queue.Enqueue(matchmaking.Entry{UserID: user.ID, DisplayName: user.DisplayName})
	if res.Outcome == matchmaking.OutcomeWaiting {
		d.mu.Unlock()
		d.logger.Debug("user waiting for match", slog.String("user_id", string(user.ID)))
		return QueueResult{Status: QueueStatusWaiting}, nil
	}

	game := NewGame(
		model.GameID(uuid.NewString()),
		model.GamePlayer{UserID: res.Waiter.UserID, DisplayName: res.Waiter.DisplayName},
		model.GamePlayer{UserID: res.Joiner.UserID, DisplayName: res.Joiner.DisplayName},
		d.clock.Now(),
	)
	d.games[game.ID] = game
	d.byUser[res.Waiter.UserID] = game.ID
	d.byUser[res.Joiner.UserID] = game.ID
	snapshot := game.Clone()
	d.mu.Unlock()

	d.logger.Info("match started",
		slog.String("game_id", string(game.ID)),
		slog.String("x", string(res.Waiter.UserID)),
		slog.String("o", string(res.Joiner.UserID)),
	)
	d.send(ctx, matchStartNotes(snapshot))

	return QueueResult{Status: QueueStatusMatched, Game: snapshot}, nil
}

// LeaveQueueOrGame forfeits the user's active game, or else removes them from the queue
func (d *Directory) LeaveQueueOrGame(ctx context.Context, userID model.UserID) (LeaveResult, error) {
	d.mu.Lock()

	game := d.activeGameFor(userID)
	if game == nil {
		left := d.queue.Leave(userID)
		d.mu.Unlock()
		if left {
			d.logger.Debug("user left queue", slog.String("user_id", string(userID)))
		}
		return LeaveResult{QueueLeft: left}, nil
	}

	if err := Forfeit(game, userID, d.clock.Now()); err != nil {
		d.mu.Unlock()
		return LeaveResult{}, err
	}
	d.retire(game)
	snapshot := game.Clone()
	d.mu.Unlock()

	d.logger.Info("game forfeited",
		slog.String("game_id", string(game.ID)),
		slog.String("user_id", string(userID)),
	)
	d.archive(ctx, snapshot)

	return LeaveResult{Resigned: true, Game: snapshot}, nil
}

// SubmitMove applies a move to the user's active game and returns the resulting state.
// The finishing move returns the terminal state; after that the user has no game.
func (d *Directory) SubmitMove(ctx context.Context, userID model.UserID, cell int) (*model.Game, error) {
	d.mu.Lock()

	game := d.activeGameFor(userID)
	if err := Move(game, userID, cell, d.clock.Now()); err != nil {
		d.mu.Unlock()
		return nil, err
	}

	finished := !game.IsActive()
	if finished {
		d.retire(game)
	}
	snapshot := game.Clone()
	d.mu.Unlock()

	if finished {
		d.logger.Info("game finished",
			slog.String("game_id", string(snapshot.ID)),
			slog.String("winner", string(snapshot.WinnerSymbol)),
			slog.Bool("draw", snapshot.Draw),
		)
		d.archive(ctx, snapshot)
	}

	return snapshot, nil
}

// GetPlayerState reports whether the user is queued and their active game, if any
func (d *Directory) GetPlayerState(ctx context.Context, userID model.UserID) PlayerState {
	d.mu.Lock()
	defer d.mu.Unlock()

	state := PlayerState{Queued: d.queue.Contains(userID)}
	if game := d.activeGameFor(userID); game != nil {
		state.Game = game.Clone()
	}
	return state
}

// GetGame returns an active or archived game the user played in
func (d *Directory) GetGame(ctx context.Context, userID model.UserID, id model.GameID) (*model.Game, error) {
	d.mu.Lock()
	if game, ok := d.games[id]; ok {
		snapshot := game.Clone()
		d.mu.Unlock()
		if snapshot.SymbolFor(userID) == model.SymbolNone {
			return nil, model.ErrGameNotFound
		}
		return snapshot, nil
	}
	d.mu.Unlock()

	game, err := d.storage.GetGameRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if game.SymbolFor(userID) == model.SymbolNone {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

// Stats returns the number of waiting users and active games
func (d *Directory) Stats() (queued, active int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queue.Len(), len(d.games)
}

func (d *Directory) activeGameFor(userID model.UserID) *model.Game {
	id, ok := d.byUser[userID]
	if !ok {
		return nil
	}
	return d.games[id]
}

// retire drops a finished game and its players from the index. Caller holds the lock.
func (d *Directory) retire(game *model.Game) {
	for _, p := range game.Players {
		if d.byUser[p.UserID] == game.ID {
			delete(d.byUser, p.UserID)
		}
	}
	delete(d.games, game.ID)
}

// archive stores the terminal state and tells both players the outcome
func (d *Directory) archive(ctx context.Context, game *model.Game) {
	if err := d.storage.SaveGameRecord(ctx, game); err != nil {
		d.logger.Error("failed to save game record",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
	}
	d.send(ctx, finishNotes(game))
}

func (d *Directory) send(ctx context.Context, notes []note) {
	if d.notifier == nil {
		return
	}
	for _, n := range notes {
		d.notifier.Notify(ctx, n.userID, model.NotificationGame, n.message, n.meta)
	}
}
