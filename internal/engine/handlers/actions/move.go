package actions

import (
	"fmt"
	"tactics-server/internal/domain"
	"tactics-server/internal/engine/handlers"
	"tactics-server/pkg/api"
)

func HandleMove(ctx handlers.Context, p api.TilePayload) (handlers.Result, error) {
	unit, reason := handlers.ActorUnit(ctx)
	if unit == nil {
		return handlers.ErrorResult(reason), nil
	}

	cmd, err := ctx.Battle.IssueMove(unit.ID, domain.Pos(p.X, p.Y))
	if err != nil {
		return handlers.ErrorResult(err.Error()), nil
	}

	return handlers.Result{
		Msg:     fmt.Sprintf("%s идет на (%d,%d).", unit.Name, p.X, p.Y),
		MsgType: "INFO",
		Command: &cmd,
	}, nil
}
