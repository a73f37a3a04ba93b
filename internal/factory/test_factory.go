package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/linkplay/internal/dependencies/mocks"
	"github.com/mcoot/linkplay/internal/services/auth"
	"github.com/mcoot/linkplay/internal/services/media"
	"github.com/mcoot/linkplay/internal/storage/memory"
)

// TestOwner is the operator username of test apps
const TestOwner = "owner"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Media lives under mediaRoot, which the caller owns (usually t.TempDir()).
func NewTestApp(mediaRoot string) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	store := memory.New(memory.WithClock(mockClock))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.OwnerUsername = TestOwner

	cfg := withDefaults(Config{
		AuthConfig:  authCfg,
		MediaConfig: media.Config{Root: mediaRoot},
	})
	app := newWithDependencies(store, mockClock, mockRandom, cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	if err := app.MediaService.Init(); err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
