package agent

import (
	"tactics-server/internal/domain"
	"tactics-server/pkg/api"
)

// snapshotGrid - локальная копия поля, собранная из слепка.
// Реализует systems.Grid, поэтому бот пользуется теми же расчетами, что и сервер.
type snapshotGrid struct {
	width, height int
	units         map[domain.Position]domain.UnitID
	blocked       map[domain.Position]struct{}
}

func newSnapshotGrid(snap api.SnapshotView) *snapshotGrid {
	g := &snapshotGrid{
		width:   snap.Grid.Width,
		height:  snap.Grid.Height,
		units:   make(map[domain.Position]domain.UnitID),
		blocked: make(map[domain.Position]struct{}),
	}
	for _, t := range snap.Tiles {
		p := domain.Pos(t.X, t.Y)
		switch t.Content {
		case "OBSTACLE":
			g.blocked[p] = struct{}{}
		case "UNIT":
			if id, err := domain.ParseUnitID(t.UnitID); err == nil {
				g.units[p] = id
			}
		}
	}
	return g
}

// reserve помечает клетку, в которую уже идет другой юнит
func (g *snapshotGrid) reserve(p domain.Position) {
	g.blocked[p] = struct{}{}
}

func (g *snapshotGrid) IsInBounds(p domain.Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

func (g *snapshotGrid) OccupantAt(p domain.Position) (domain.UnitID, bool) {
	id, ok := g.units[p]
	return id, ok
}

// TeamAt берет сторону из упакованного ID
func (g *snapshotGrid) TeamAt(p domain.Position) (domain.Team, bool) {
	id, ok := g.units[p]
	if !ok {
		return domain.TeamNone, false
	}
	return id.Team(), true
}

func (g *snapshotGrid) IsBlocked(p domain.Position) bool {
	if !g.IsInBounds(p) {
		return true
	}
	_, ok := g.blocked[p]
	return ok
}
