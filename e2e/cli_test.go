package e2e_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/linkplay/internal/api"
	"github.com/mcoot/linkplay/internal/factory"
	"github.com/mcoot/linkplay/internal/services/auth"
	"github.com/mcoot/linkplay/internal/services/media"
	"github.com/mcoot/linkplay/internal/web"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "linkplay-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/linkplay")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

// withTokenFile returns a runner sharing the binary but keeping its own session
func (r *cliRunner) withTokenFile(path string) *cliRunner {
	return &cliRunner{binaryPath: r.binaryPath, serverURL: r.serverURL, tokenFile: path}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "LINKPLAY_TOKEN=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app       *factory.App
	addr      string
	mediaRoot string
	shutdown  func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	mediaRoot := t.TempDir()

	app, err := factory.New(factory.Config{
		AuthConfig:  auth.Config{SessionDuration: time.Hour, OwnerUsername: "owner"},
		MediaConfig: media.Config{Root: mediaRoot},
		Logger:      logger,
	})
	require.NoError(t, err)

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		AuthService:   app.AuthService,
		Directory:     app.Directory,
		NotifyService: app.NotifyService,
		MediaService:  app.MediaService,
		Registry:      app.Registry,
		PrefsService:  app.PrefsService,
		HubManager:    app.HubManager,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:       logger,
		MediaService: app.MediaService,
		Registry:     app.Registry,
		PrefsService: app.PrefsService,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		app:       app,
		addr:      serverURL,
		mediaRoot: mediaRoot,
		shutdown: func() {
			app.HubManager.CloseAll()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type authResponse struct {
	User struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		IsGuest     bool   `json:"is_guest"`
		IsOwner     bool   `json:"is_owner"`
	} `json:"user"`
	SessionToken string `json:"session_token"`
}

type gameView struct {
	ID           string   `json:"id"`
	Board        []string `json:"board"`
	Status       string   `json:"status"`
	YourSymbol   string   `json:"your_symbol"`
	Turn         *string  `json:"turn"`
	WinnerSymbol *string  `json:"winner_symbol"`
	Message      string   `json:"message"`
}

type gameState struct {
	Status string    `json:"status"`
	Queue  bool      `json:"queue"`
	Game   *gameView `json:"game"`
}

type shortLink struct {
	Token    string `json:"token"`
	ShortURL string `json:"short_url"`
	EmbedURL string `json:"embed_url"`
	File     string `json:"file"`
}

type healthResponse struct {
	Status      string `json:"status"`
	ActiveGames int    `json:"active_games"`
	LiveLinks   int    `json:"live_links"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decodeOutput[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	resp := decodeOutput[healthResponse](t, output)
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	authResp := decodeOutput[authResponse](t, output)
	assert.Equal(t, "Alice", authResp.User.DisplayName)
	assert.True(t, authResp.User.IsGuest)
	assert.NotEmpty(t, authResp.SessionToken)

	// Token is saved in the token file
	output, err = cli.run("player", "me")
	require.NoError(t, err, "output: %s", output)

	me := decodeOutput[struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	}](t, output)
	assert.Equal(t, authResp.User.ID, me.ID)

	output, err = cli.run("player", "logout")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, decodeOutput[messageResponse](t, output).Message, "Logged out")

	_, err = os.Stat(cli.tokenFile)
	assert.True(t, os.IsNotExist(err))

	output, err = cli.run("player", "me")
	require.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")
}

func TestCLI_RegisterOwner(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "register", "--user", "owner", "--pass", "hunter22")
	require.NoError(t, err, "output: %s", output)
	assert.True(t, decodeOutput[authResponse](t, output).User.IsOwner)

	output, err = cli.run("embed-prefs", "set", "--title", "Clips", "--color", "#ff8800")
	require.NoError(t, err, "output: %s", output)

	prefs := decodeOutput[map[string]string](t, output)
	assert.Equal(t, "Clips", prefs["title"])
	assert.Equal(t, "#ff8800", prefs["color"])

	// A guest can read but not change the defaults
	guest := cli.withTokenFile(filepath.Join(t.TempDir(), "guest"))
	_, err = guest.run("player", "guest", "--name", "Gus")
	require.NoError(t, err)

	output, err = guest.run("embed-prefs", "get")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "Clips", decodeOutput[map[string]string](t, output)["title"])

	output, err = guest.run("embed-prefs", "set", "--title", "Mine")
	require.Error(t, err)
	assert.Contains(t, output, "FORBIDDEN")
}

func TestCLI_FullGameFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	alice := newCLIRunner(t, ts.addr)
	bob := alice.withTokenFile(filepath.Join(t.TempDir(), "token2"))

	_, err := alice.run("player", "guest", "--name", "Alice")
	require.NoError(t, err)
	_, err = bob.run("player", "guest", "--name", "Bob")
	require.NoError(t, err)

	// Alice waits, Bob's queue call pairs them
	output, err := alice.run("tictactoe", "queue")
	require.NoError(t, err, "output: %s", output)
	state := decodeOutput[gameState](t, output)
	assert.True(t, state.Queue)
	assert.Nil(t, state.Game)

	output, err = bob.run("tictactoe", "queue")
	require.NoError(t, err, "output: %s", output)
	state = decodeOutput[gameState](t, output)
	require.NotNil(t, state.Game)
	gameID := state.Game.ID

	// Alice queued first so she plays X and moves first
	output, err = alice.run("tictactoe", "status")
	require.NoError(t, err, "output: %s", output)
	state = decodeOutput[gameState](t, output)
	require.NotNil(t, state.Game)
	assert.Equal(t, "X", state.Game.YourSymbol)
	assert.Equal(t, "Your move!", state.Game.Message)

	output, err = bob.run("tictactoe", "move", "4")
	require.Error(t, err)
	assert.Contains(t, output, "NOT_YOUR_TURN")

	// X takes the top row
	moves := []struct {
		runner *cliRunner
		cell   string
	}{
		{alice, "0"}, {bob, "3"}, {alice, "1"}, {bob, "4"}, {alice, "2"},
	}
	for _, m := range moves {
		output, err = m.runner.run("tictactoe", "move", m.cell)
		require.NoError(t, err, "move %s: %s", m.cell, output)
	}

	state = decodeOutput[gameState](t, output)
	require.NotNil(t, state.Game)
	assert.Equal(t, "finished", state.Game.Status)
	require.NotNil(t, state.Game.WinnerSymbol)
	assert.Equal(t, "X", *state.Game.WinnerSymbol)
	assert.Equal(t, "You win!", state.Game.Message)

	// Bob can still look the game up after it finished
	output, err = bob.run("tictactoe", "show", gameID)
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "Alice wins.", decodeOutput[gameState](t, output).Game.Message)

	output, err = bob.run("notifications")
	require.NoError(t, err, "output: %s", output)
	var notifs struct {
		Notifications []struct {
			ID      string `json:"id"`
			Message string `json:"message"`
		} `json:"notifications"`
		Unread int `json:"unread"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &notifs))
	require.NotEmpty(t, notifs.Notifications)
	assert.Equal(t, len(notifs.Notifications), notifs.Unread)

	output, err = bob.run("notifications", "read-all")
	require.NoError(t, err, "output: %s", output)

	output, err = bob.run("health")
	require.NoError(t, err)
	assert.Equal(t, 0, decodeOutput[healthResponse](t, output).ActiveGames)
}

func TestCLI_MediaLink(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	content := []byte("not really a video")
	require.NoError(t, os.WriteFile(filepath.Join(ts.mediaRoot, "shared", "clip.mp4"), content, 0o644))

	cli := newCLIRunner(t, ts.addr)
	_, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err)

	output, err := cli.run("media", "list", "shared")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "clip.mp4")

	output, err = cli.run("media", "link", "shared", "clip.mp4")
	require.NoError(t, err, "output: %s", output)
	link := decodeOutput[shortLink](t, output)
	assert.Equal(t, "clip.mp4", link.File)
	assert.True(t, strings.HasPrefix(link.ShortURL, ts.addr+"/"), link.ShortURL)

	// A browser following the link gets the bytes
	resp, err := http.Get(link.ShortURL)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, content, body)

	// A chat crawler gets the preview page
	req, err := http.NewRequest(http.MethodGet, link.ShortURL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Discordbot/2.0)")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), `og:video`)

	output, err = cli.run("health")
	require.NoError(t, err)
	assert.Equal(t, 1, decodeOutput[healthResponse](t, output).LiveLinks)
}

func TestCLI_Unauthenticated(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("tictactoe", "status")
	require.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")

	output, err = cli.run("tictactoe", "move", "9")
	require.Error(t, err)
	assert.Contains(t, output, "must be 0-8")
}
