package actions

import (
	"fmt"
	"tactics-server/internal/domain"
	"tactics-server/internal/engine/handlers"
	"tactics-server/pkg/api"
)

// HandleAttack только ставит атаку в очередь. Дальность, цель и запас атак
// проверяет исполнитель при разборе очереди.
func HandleAttack(ctx handlers.Context, p api.TilePayload) (handlers.Result, error) {
	unit, reason := handlers.ActorUnit(ctx)
	if unit == nil {
		return handlers.ErrorResult(reason), nil
	}

	cmd, err := ctx.Battle.IssueAttack(unit.ID, domain.Pos(p.X, p.Y))
	if err != nil {
		return handlers.ErrorResult(err.Error()), nil
	}

	return handlers.Result{
		Msg:     fmt.Sprintf("%s атакует (%d,%d).", unit.Name, p.X, p.Y),
		MsgType: "COMBAT",
		Command: &cmd,
	}, nil
}
