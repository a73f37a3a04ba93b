package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/linkplay/internal/api/middleware"
	"github.com/mcoot/linkplay/internal/api/request"
	"github.com/mcoot/linkplay/internal/api/response"
	"github.com/mcoot/linkplay/internal/model"
	"github.com/mcoot/linkplay/internal/services/game"
)

// TicTacToeHandler handles matchmaking and move endpoints
type TicTacToeHandler struct {
	directory *game.Directory
}

// NewTicTacToeHandler creates a new tic-tac-toe handler
func NewTicTacToeHandler(directory *game.Directory) *TicTacToeHandler {
	return &TicTacToeHandler{directory: directory}
}

// Status handles GET /api/v1/tictactoe/status
func (h *TicTacToeHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	state := h.directory.GetPlayerState(r.Context(), user.ID)

	response.JSON(w, http.StatusOK, response.GameState{
		Queue: state.Queued,
		Game:  response.GameViewFor(state.Game, user.ID),
	})
}

// Queue handles POST /api/v1/tictactoe/queue
func (h *TicTacToeHandler) Queue(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	result, err := h.directory.QueueForMatch(r.Context(), *user)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameState{
		Status: string(result.Status),
		Queue:  result.Status == game.QueueStatusWaiting,
		Game:   response.GameViewFor(result.Game, user.ID),
	})
}

// Move handles POST /api/v1/tictactoe/move
func (h *TicTacToeHandler) Move(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.MoveRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Cell == nil {
		WriteError(w, NewInvalidRequestError("cell is required"))
		return
	}

	g, err := h.directory.SubmitMove(r.Context(), user.ID, *req.Cell)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameState{
		Game: response.GameViewFor(g, user.ID),
	})
}

// Leave handles POST /api/v1/tictactoe/leave
func (h *TicTacToeHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	result, err := h.directory.LeaveQueueOrGame(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	status := ""
	switch {
	case result.Resigned:
		status = "resigned"
	case result.QueueLeft:
		status = "left_queue"
	}

	response.JSON(w, http.StatusOK, response.GameState{
		Status: status,
		Game:   response.GameViewFor(result.Game, user.ID),
	})
}

// GetGame handles GET /api/v1/games/{id}
func (h *TicTacToeHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	g, err := h.directory.GetGame(r.Context(), user.ID, id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameState{
		Game: response.GameViewFor(g, user.ID),
	})
}
