package actions

import (
	"fmt"
	"tactics-server/internal/engine/handlers"
)

func HandleEndTurn(ctx handlers.Context) (handlers.Result, error) {
	next := ctx.Battle.EndTurn()
	return handlers.Result{
		Msg:      fmt.Sprintf("Ход переходит к %s.", next),
		MsgType:  "INFO",
		Snapshot: true,
	}, nil
}

// HandleInit просто возвращает слепок, ход не тратит
func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{Snapshot: true}, nil
}
