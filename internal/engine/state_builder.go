package engine

import (
	"tactics-server/internal/domain"
	"tactics-server/pkg/api"
)

// BuildSnapshot создает слепок боя для наблюдателей и отладочных эндпоинтов.
func BuildSnapshot(b *Battle) api.SnapshotView {
	snap := api.SnapshotView{
		Frame:   b.Frame(),
		Turn:    b.Turn().String(),
		TurnNo:  b.TurnNumber(),
		Version: b.Index().Version(),
		Paused:  b.Paused(),
		Grid:    api.GridMeta{Width: b.Width(), Height: b.Height()},
		// Пустые слайсы, а не nil: в JSON это "[]", а не "null"
		Tiles: make([]api.TileView, 0),
		Units: make([]api.UnitView, 0),
		Queue: make([]api.CommandView, 0),
		Stats: toStatsView(b.Stats()),
	}

	for _, e := range b.OccupancyEntries() {
		tile := api.TileView{X: e.Position.X, Y: e.Position.Y, Content: e.Content.Kind.String()}
		if !e.Content.Unit.IsNil() {
			tile.UnitID = e.Content.Unit.String()
		}
		snap.Tiles = append(snap.Tiles, tile)
	}

	for _, u := range b.Units() {
		snap.Units = append(snap.Units, toUnitView(u))
	}

	for _, cmd := range b.Queue() {
		snap.Queue = append(snap.Queue, toCommandView(cmd))
	}

	if !b.Selected().IsNil() {
		snap.Selected = b.Selected().String()
	}
	if v := b.Validity(); v != nil {
		snap.Validity = toValidityView(v)
	}
	return snap
}

func toUnitView(u *domain.Unit) api.UnitView {
	return api.UnitView{
		ID:                u.ID.String(),
		Name:              u.Name,
		Team:              u.Team.String(),
		Pos:               toPositionDTO(u.Pos),
		HP:                u.Stats.HP,
		MaxHP:             u.Stats.MaxHP,
		Shield:            u.Stats.Shield,
		MaxShield:         u.Stats.MaxShield,
		IsDead:            u.IsDead,
		Movement:          u.AP.Movement,
		Attacks:           u.AP.Attacks,
		AllowDiagonal:     u.Move.AllowDiagonal,
		PassThroughAllies: u.Move.PassThroughAllies,
		PassThroughOthers: u.Move.PassThroughOthers,
		AttackDirection:   u.Attack.Direction.String(),
		AttackKind:        u.Attack.Kind.String(),
		MinRange:          u.Attack.Range.Min,
		MaxRange:          u.Attack.Range.Max,
	}
}

func toPositionDTO(p domain.Position) api.PositionDTO {
	return api.PositionDTO{X: p.X, Y: p.Y}
}

func toPositionDTOs(tiles []domain.Position) []api.PositionDTO {
	result := make([]api.PositionDTO, 0, len(tiles))
	for _, p := range tiles {
		result = append(result, toPositionDTO(p))
	}
	return result
}

func toCommandView(cmd domain.Command) api.CommandView {
	view := api.CommandView{
		ID:       cmd.ID,
		UnitID:   cmd.Unit.String(),
		Priority: cmd.Priority,
	}
	switch k := cmd.Kind.(type) {
	case domain.MoveCommand:
		view.Action = k.Action().String()
		view.From = toPositionDTO(k.From)
		view.To = toPositionDTO(k.To)
	case domain.AttackCommand:
		view.Action = k.Action().String()
		view.From = toPositionDTO(k.From)
		view.To = toPositionDTO(k.Target)
	default:
		view.Action = domain.ActionUnknown.String()
	}
	return view
}

// ToCompletionView конвертирует событие завершения команды в DTO
func ToCompletionView(ev domain.CommandCompleted) api.CompletionView {
	return api.CompletionView{
		UnitID:  ev.Unit.String(),
		Command: toCommandView(ev.Command),
		Status:  ev.Result.Status.String(),
		Reason:  ev.Result.Reason,
	}
}

func toStatsView(s Stats) api.StatsView {
	return api.StatsView{
		Total:          s.Total,
		Succeeded:      s.Succeeded,
		Failed:         s.Failed,
		Cancelled:      s.Cancelled,
		AvgExecutionMs: s.AvgExecutionMs,
		PeakPerFrame:   s.PeakPerFrame,
		SuccessRate:    s.SuccessRate(),
		Frames:         s.Frames,
	}
}

func toValidityView(v *Validity) *api.ValidityView {
	return &api.ValidityView{
		UnitID:      v.Unit.String(),
		Version:     v.Version,
		MoveTiles:   toPositionDTOs(v.MoveTiles),
		AttackTiles: toPositionDTOs(v.AttackTiles),
		Targets:     toPositionDTOs(v.Targets),
	}
}
