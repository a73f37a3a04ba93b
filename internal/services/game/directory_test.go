package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/linkplay/internal/dependencies/mocks"
	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/storage/memory"
	"github.com/mcoot/linkplay/internal/testutil"
)

type sentNote struct {
	userID  model.UserID
	message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNote
}

func (r *recordingNotifier) Notify(ctx context.Context, userID model.UserID, kind model.NotificationType, message string, meta map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNote{userID, message})
}

func (r *recordingNotifier) messagesFor(userID model.UserID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.sent {
		if n.userID == userID {
			out = append(out, n.message)
		}
	}
	return out
}

type DirectorySuite struct {
	suite.Suite
	storage   *memory.Storage
	notifier  *recordingNotifier
	clock     *mocks.MockClock
	directory *Directory
	ctx       context.Context

	alice model.User
	bob   model.User
	carol model.User
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

func (s *DirectorySuite) SetupTest() {
	s.storage = memory.New()
	s.notifier = &recordingNotifier{}
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.directory = NewDirectory(s.storage, s.notifier, s.clock, testutil.NopLogger())
	s.ctx = context.Background()

	s.alice = model.User{ID: "alice", DisplayName: "Alice"}
	s.bob = model.User{ID: "bob", DisplayName: "Bob"}
	s.carol = model.User{ID: "carol", DisplayName: "Carol"}
}

func (s *DirectorySuite) startMatch() *model.Game {
	_, err := s.directory.QueueForMatch(s.ctx, s.alice)
	s.Require().NoError(err)
	res, err := s.directory.QueueForMatch(s.ctx, s.bob)
	s.Require().NoError(err)
	s.Require().Equal(QueueStatusMatched, res.Status)
	return res.Game
}

// QueueForMatch tests

func (s *DirectorySuite) TestQueueFirstUserWaits() {
	res, err := s.directory.QueueForMatch(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(QueueStatusWaiting, res.Status)
	s.Nil(res.Game)

	state := s.directory.GetPlayerState(s.ctx, "alice")
	s.True(state.Queued)
	s.Nil(state.Game)
}

func (s *DirectorySuite) TestQueueTwiceStaysWaiting() {
	_, _ = s.directory.QueueForMatch(s.ctx, s.alice)
	res, err := s.directory.QueueForMatch(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(QueueStatusWaiting, res.Status)

	queued, active := s.directory.Stats()
	s.Equal(1, queued)
	s.Zero(active)
}

func (s *DirectorySuite) TestMatchSeatsWaiterAsX() {
	game := s.startMatch()

	s.Equal(model.SymbolX, game.SymbolFor("alice"))
	s.Equal(model.SymbolO, game.SymbolFor("bob"))
	s.Equal(model.SymbolX, game.Next)
	s.NotEmpty(game.ID)

	s.Equal([]string{"Matched with Bob. You are X."}, s.notifier.messagesFor("alice"))
	s.Equal([]string{"Matched with Alice. You are O."}, s.notifier.messagesFor("bob"))

	state := s.directory.GetPlayerState(s.ctx, "alice")
	s.False(state.Queued)
	s.Require().NotNil(state.Game)
	s.Equal(game.ID, state.Game.ID)
}

func (s *DirectorySuite) TestQueueWhileInGameReturnsGame() {
	game := s.startMatch()

	res, err := s.directory.QueueForMatch(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(QueueStatusInGame, res.Status)
	s.Equal(game.ID, res.Game.ID)

	queued, _ := s.directory.Stats()
	s.Zero(queued)
}

func (s *DirectorySuite) TestQueueIsFIFOAcrossPairs() {
	dave := model.User{ID: "dave", DisplayName: "Dave"}

	_, _ = s.directory.QueueForMatch(s.ctx, s.alice)
	first, _ := s.directory.QueueForMatch(s.ctx, s.bob)
	_, _ = s.directory.QueueForMatch(s.ctx, s.carol)
	second, _ := s.directory.QueueForMatch(s.ctx, dave)

	s.Equal(model.SymbolX, first.Game.SymbolFor("alice"))
	s.Equal(model.SymbolO, first.Game.SymbolFor("bob"))
	s.Equal(model.SymbolX, second.Game.SymbolFor("carol"))
	s.Equal(model.SymbolO, second.Game.SymbolFor("dave"))
}

// SubmitMove tests

func (s *DirectorySuite) TestSubmitMoveWithoutGame() {
	_, err := s.directory.SubmitMove(s.ctx, "alice", 0)
	s.ErrorIs(err, model.ErrNoActiveGame)
}

func (s *DirectorySuite) TestSubmitMoveErrors() {
	s.startMatch()

	_, err := s.directory.SubmitMove(s.ctx, "alice", 9)
	s.ErrorIs(err, model.ErrInvalidCell)
	_, err = s.directory.SubmitMove(s.ctx, "bob", 0)
	s.ErrorIs(err, model.ErrNotYourTurn)

	_, err = s.directory.SubmitMove(s.ctx, "alice", 0)
	s.Require().NoError(err)
	_, err = s.directory.SubmitMove(s.ctx, "bob", 0)
	s.ErrorIs(err, model.ErrCellTaken)
}

func (s *DirectorySuite) TestReturnedGameIsACopy() {
	game := s.startMatch()
	game.Board[0] = model.SymbolO
	game.Players[model.SymbolX] = model.GamePlayer{UserID: "mallory"}

	state := s.directory.GetPlayerState(s.ctx, "alice")
	s.Equal(model.SymbolNone, state.Game.Board[0])
	s.Equal(model.UserID("alice"), state.Game.Players[model.SymbolX].UserID)
}

func (s *DirectorySuite) TestWinningMoveReturnsTerminalStateAndClearsIndex() {
	s.startMatch()

	var game *model.Game
	for i, move := range []struct {
		user model.UserID
		cell int
	}{{"alice", 0}, {"bob", 3}, {"alice", 1}, {"bob", 4}, {"alice", 2}} {
		var err error
		game, err = s.directory.SubmitMove(s.ctx, move.user, move.cell)
		s.Require().NoError(err, "move %d", i)
	}

	s.Equal(model.GameStatusFinished, game.Status)
	s.Equal(model.SymbolX, game.WinnerSymbol)

	// Both players are out of the index
	s.Nil(s.directory.GetPlayerState(s.ctx, "alice").Game)
	s.Nil(s.directory.GetPlayerState(s.ctx, "bob").Game)
	_, err := s.directory.SubmitMove(s.ctx, "bob", 5)
	s.ErrorIs(err, model.ErrNoActiveGame)

	s.Contains(s.notifier.messagesFor("alice"), "You won the Tic Tac Toe match!")
	s.Contains(s.notifier.messagesFor("bob"), "Alice won the match.")

	// The terminal state is kept for late polls
	record, err := s.directory.GetGame(s.ctx, "bob", game.ID)
	s.Require().NoError(err)
	s.Equal(model.SymbolX, record.WinnerSymbol)

	// And both can queue again
	res, err := s.directory.QueueForMatch(s.ctx, s.bob)
	s.Require().NoError(err)
	s.Equal(QueueStatusWaiting, res.Status)
}

func (s *DirectorySuite) TestDrawNotifiesBoth() {
	s.startMatch()
	users := []model.UserID{"alice", "bob"}
	var game *model.Game
	for i, cell := range []int{0, 1, 2, 4, 3, 5, 7, 6, 8} {
		var err error
		game, err = s.directory.SubmitMove(s.ctx, users[i%2], cell)
		s.Require().NoError(err)
	}

	s.True(game.Draw)
	s.Contains(s.notifier.messagesFor("alice"), "Tic Tac Toe match ended in a draw.")
	s.Contains(s.notifier.messagesFor("bob"), "Tic Tac Toe match ended in a draw.")
}

// LeaveQueueOrGame tests

func (s *DirectorySuite) TestLeaveQueue() {
	_, _ = s.directory.QueueForMatch(s.ctx, s.alice)

	res, err := s.directory.LeaveQueueOrGame(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(res.QueueLeft)
	s.False(res.Resigned)
	s.False(s.directory.GetPlayerState(s.ctx, "alice").Queued)
}

func (s *DirectorySuite) TestLeaveWhenIdle() {
	res, err := s.directory.LeaveQueueOrGame(s.ctx, "alice")
	s.Require().NoError(err)
	s.False(res.QueueLeft)
	s.False(res.Resigned)
	s.Nil(res.Game)
}

func (s *DirectorySuite) TestLeaveGameForfeits() {
	game := s.startMatch()
	s.clock.Advance(time.Minute)

	res, err := s.directory.LeaveQueueOrGame(s.ctx, "bob")
	s.Require().NoError(err)
	s.True(res.Resigned)
	s.Require().NotNil(res.Game)
	s.Equal(model.SymbolX, res.Game.WinnerSymbol)
	s.True(res.Game.Forfeit)
	s.Equal(s.clock.Now(), res.Game.FinishedAt)

	s.Nil(s.directory.GetPlayerState(s.ctx, "alice").Game)
	s.Contains(s.notifier.messagesFor("alice"), "Opponent forfeited. Victory is yours!")
	s.Contains(s.notifier.messagesFor("bob"), "You forfeited the Tic Tac Toe match.")

	record, err := s.storage.GetGameRecord(s.ctx, game.ID)
	s.Require().NoError(err)
	s.True(record.Forfeit)
}

// GetGame tests

func (s *DirectorySuite) TestGetGameActive() {
	game := s.startMatch()

	got, err := s.directory.GetGame(s.ctx, "alice", game.ID)
	s.Require().NoError(err)
	s.Equal(game.ID, got.ID)
}

func (s *DirectorySuite) TestGetGameHiddenFromNonPlayers() {
	game := s.startMatch()

	_, err := s.directory.GetGame(s.ctx, "carol", game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)

	_, _ = s.directory.LeaveQueueOrGame(s.ctx, "alice")
	_, err = s.directory.GetGame(s.ctx, "carol", game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *DirectorySuite) TestGetGameUnknown() {
	_, err := s.directory.GetGame(s.ctx, "alice", "nope")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Concurrency

func (s *DirectorySuite) TestConcurrentQueueingPairsEveryone() {
	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := model.UserID(string(rune('A'+i%26)) + string(rune('a'+i/26)))
			_, err := s.directory.QueueForMatch(s.ctx, model.User{ID: id, DisplayName: string(id)})
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	queued, active := s.directory.Stats()
	s.Zero(queued)
	s.Equal(n/2, active)
}
