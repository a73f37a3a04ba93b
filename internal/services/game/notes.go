package game

import (
	"fmt"

	"github.com/mcoot/linkplay/internal/model"
)

type note struct {
	userID  model.UserID
	message string
	meta    map[string]string
}

func gameMeta(game *model.Game) map[string]string {
	return map[string]string{"gameId": string(game.ID)}
}

func matchStartNotes(game *model.Game) []note {
	x, o := game.Players[model.SymbolX], game.Players[model.SymbolO]
	return []note{
		{x.UserID, fmt.Sprintf("Matched with %s. You are X.", o.DisplayName), gameMeta(game)},
		{o.UserID, fmt.Sprintf("Matched with %s. You are O.", x.DisplayName), gameMeta(game)},
	}
}

func finishNotes(game *model.Game) []note {
	x, o := game.Players[model.SymbolX], game.Players[model.SymbolO]
	if game.Draw {
		const msg = "Tic Tac Toe match ended in a draw."
		return []note{{x.UserID, msg, gameMeta(game)}, {o.UserID, msg, gameMeta(game)}}
	}
	if game.WinnerSymbol == model.SymbolNone {
		return nil
	}

	winner := game.Players[game.WinnerSymbol]
	loser := game.Opponent(game.WinnerSymbol)

	winMsg := "You won the Tic Tac Toe match!"
	loseMsg := fmt.Sprintf("%s won the match.", winner.DisplayName)
	if game.Forfeit {
		winMsg = "Opponent forfeited. Victory is yours!"
		loseMsg = "You forfeited the Tic Tac Toe match."
	}
	return []note{{winner.UserID, winMsg, gameMeta(game)}, {loser.UserID, loseMsg, gameMeta(game)}}
}
