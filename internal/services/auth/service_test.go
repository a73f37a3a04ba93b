package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/linkplay/internal/dependencies/mocks"
	"github.com/mcoot/linkplay/internal/dependencies/random"
	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/storage/memory"
	"github.com/mcoot/linkplay/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, random.New(), Config{OwnerUsername: "Dot"}, testutil.NopLogger())
	s.ctx = context.Background()
}

// CreateGuestUser tests

func (s *ServiceSuite) TestCreateGuestUserSucceeds() {
	session, err := s.service.CreateGuestUser(s.ctx, "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("Alice", session.User.DisplayName)
	s.True(session.User.IsGuest)
	s.NotEmpty(session.UserID)
}

func (s *ServiceSuite) TestCreateGuestUserPersistsUser() {
	session, _ := s.service.CreateGuestUser(s.ctx, "Alice")

	user, err := s.storage.GetUser(s.ctx, session.UserID)
	s.Require().NoError(err)
	s.Equal("Alice", user.DisplayName)
}

func (s *ServiceSuite) TestCreateGuestUserSessionIsValid() {
	session, _ := s.service.CreateGuestUser(s.ctx, "Alice")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.UserID, validated.UserID)
}

// RegisterUser tests

func (s *ServiceSuite) TestRegisterUserSucceeds() {
	session, err := s.service.RegisterUser(s.ctx, "alice", "password123", "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("Alice", session.User.DisplayName)
	s.False(session.User.IsGuest)
}

func (s *ServiceSuite) TestRegisterUserPersistsRegistration() {
	_, _ = s.service.RegisterUser(s.ctx, "alice", "password123", "Alice")

	rp, err := s.storage.GetRegisteredUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", rp.Username)
	s.NotEmpty(rp.PasswordHash)
	s.NotEqual("password123", rp.PasswordHash) // Should be hashed
}

func (s *ServiceSuite) TestRegisterUserFailsIfUsernameExists() {
	_, _ = s.service.RegisterUser(s.ctx, "alice", "password123", "Alice")

	_, err := s.service.RegisterUser(s.ctx, "alice", "different1", "Alice2")
	s.ErrorIs(err, ErrUsernameExists)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	_, _ = s.service.RegisterUser(s.ctx, "alice", "password123", "Alice")

	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("Alice", session.User.DisplayName)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	_, _ = s.service.RegisterUser(s.ctx, "alice", "password123", "Alice")

	_, err := s.service.Login(s.ctx, "alice", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsWithUnknownUser() {
	_, err := s.service.Login(s.ctx, "nobody", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// ValidateSession tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session, _ := s.service.CreateGuestUser(s.ctx, "Alice")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.Token, validated.Token)
}

func (s *ServiceSuite) TestValidateSessionFailsWithInvalidToken() {
	_, err := s.service.ValidateSession("invalid_token")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	session, _ := s.service.CreateGuestUser(s.ctx, "Alice")

	// Advance time past expiration
	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

// InvalidateSession tests

func (s *ServiceSuite) TestInvalidateSessionRemovesSession() {
	session, _ := s.service.CreateGuestUser(s.ctx, "Alice")

	s.service.InvalidateSession(session.Token)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSessionNoopForUnknownToken() {
	// Should not panic
	s.service.InvalidateSession("unknown_token")
}

// GetUser tests

func (s *ServiceSuite) TestGetUserSucceeds() {
	session, _ := s.service.CreateGuestUser(s.ctx, "Alice")

	user, err := s.service.GetUser(session.Token)
	s.Require().NoError(err)
	s.Equal("Alice", user.DisplayName)
}

func (s *ServiceSuite) TestGetUserFailsWithInvalidToken() {
	_, err := s.service.GetUser("invalid_token")
	s.ErrorIs(err, ErrInvalidSession)
}

// CleanExpiredSessions tests

func (s *ServiceSuite) TestCleanExpiredSessionsRemovesExpired() {
	session1, _ := s.service.CreateGuestUser(s.ctx, "Alice")

	// Advance time so session1 expires
	s.clock.Advance(25 * time.Hour)

	// Create a new session (not expired)
	session2, _ := s.service.CreateGuestUser(s.ctx, "Bob")

	s.Equal(1, s.service.CleanExpiredSessions())

	// session1 should be gone
	_, err := s.service.ValidateSession(session1.Token)
	s.ErrorIs(err, ErrInvalidSession)

	// session2 should still be valid
	_, err = s.service.ValidateSession(session2.Token)
	s.NoError(err)
}

func (s *ServiceSuite) TestRegisterUserNormalizesUsername() {
	session, err := s.service.RegisterUser(s.ctx, "  Alice ", "password123", "")
	s.Require().NoError(err)
	s.Equal("alice", session.User.Username)
	s.Equal("alice", session.User.DisplayName)

	_, err = s.service.Login(s.ctx, "ALICE", "password123")
	s.NoError(err)
}

func (s *ServiceSuite) TestRegisterUserValidatesInput() {
	_, err := s.service.RegisterUser(s.ctx, "al", "password123", "Al")
	s.ErrorIs(err, ErrInvalidUsername)

	_, err = s.service.RegisterUser(s.ctx, "bad name!", "password123", "Al")
	s.ErrorIs(err, ErrInvalidUsername)

	_, err = s.service.RegisterUser(s.ctx, "alice", "123", "Alice")
	s.ErrorIs(err, ErrWeakPassword)
}

func (s *ServiceSuite) TestRegisterUserRejectsStrayUnderscores() {
	_, err := s.service.RegisterUser(s.ctx, "abc", "password123", "")
	s.Require().NoError(err)

	for _, name := range []string{"abc_", "_abc", "a__bc", "abc__"} {
		_, err := s.service.RegisterUser(s.ctx, name, "password123", "")
		s.ErrorIs(err, ErrInvalidUsername, name)
	}

	session, err := s.service.RegisterUser(s.ctx, "a_bc", "password123", "")
	s.Require().NoError(err)
	s.Equal("a_bc", session.User.Username)
}

// IsOwner tests

func (s *ServiceSuite) TestIsOwner() {
	owner, err := s.service.RegisterUser(s.ctx, "dot", "password123", "Dot")
	s.Require().NoError(err)
	other, err := s.service.RegisterUser(s.ctx, "bob", "password123", "Bob")
	s.Require().NoError(err)

	s.True(s.service.IsOwner(owner.User))
	s.False(s.service.IsOwner(other.User))
	s.False(s.service.IsOwner(model.User{DisplayName: "dot", Username: "dot", IsGuest: true}))
}

func (s *ServiceSuite) TestIsOwnerWithoutConfiguredOwner() {
	service := New(s.storage, s.clock, random.New(), DefaultConfig(), testutil.NopLogger())
	session, err := service.RegisterUser(s.ctx, "dot", "password123", "Dot")
	s.Require().NoError(err)
	s.False(service.IsOwner(session.User))
}

// ID generation tests

func (s *ServiceSuite) TestIDsDrawFromInjectedRandom() {
	rnd := mocks.NewMockRandom()
	rnd.QueueString("guestid", "tokenid")
	service := New(s.storage, s.clock, rnd, DefaultConfig(), testutil.NopLogger())

	session, err := service.CreateGuestUser(s.ctx, "Guest")
	s.Require().NoError(err)
	s.Equal(model.UserID("u_guestid"), session.UserID)
	s.Equal("sess_tokenid", session.Token)

	_, err = service.ValidateSession("sess_tokenid")
	s.NoError(err)
}

func (s *ServiceSuite) TestGeneratedIDsAreURLSafe() {
	session, err := s.service.CreateGuestUser(s.ctx, "Guest")
	s.Require().NoError(err)

	s.Len(session.Token, len("sess_")+idLength)
	for _, c := range session.Token[len("sess_"):] {
		s.Contains(idAlphabet, string(c))
	}
}
