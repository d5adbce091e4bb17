package actions

import (
	"tactics-server/internal/domain"
	"tactics-server/internal/engine/handlers"
	"tactics-server/pkg/api"
)

func HandleSelect(ctx handlers.Context, p api.UnitPayload) (handlers.Result, error) {
	id, err := domain.ParseUnitID(p.UnitID)
	if err != nil {
		return handlers.Result{}, err
	}
	if err := ctx.Battle.Select(id); err != nil {
		return handlers.ErrorResult(err.Error()), nil
	}
	return handlers.Result{Snapshot: true}, nil
}

func HandleDeselect(ctx handlers.Context) (handlers.Result, error) {
	ctx.Battle.ClearSelection()
	return handlers.Result{Snapshot: true}, nil
}

// HandleClick - клик по клетке, классифицируется ядром по опубликованным множествам
func HandleClick(ctx handlers.Context, p api.TilePayload) (handlers.Result, error) {
	intent, cmd := ctx.Battle.Click(domain.Pos(p.X, p.Y))
	return handlers.Result{
		Msg:      intent,
		MsgType:  "INFO",
		Command:  cmd,
		Snapshot: cmd == nil,
	}, nil
}
