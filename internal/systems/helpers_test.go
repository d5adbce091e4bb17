package systems

import (
	"tactics-server/internal/domain"
	"tactics-server/internal/grid"
)

var (
	ally1  = domain.PackUnitID(domain.TeamAlly, 0)
	ally2  = domain.PackUnitID(domain.TeamAlly, 1)
	enemy1 = domain.PackUnitID(domain.TeamEnemy, 0)
	enemy2 = domain.PackUnitID(domain.TeamEnemy, 1)
)

// indexBuilder собирает SpatialIndex через фазу синхронизации,
// как это делает планировщик кадра.
type indexBuilder struct {
	idx    *grid.SpatialIndex
	events []domain.OccupancyEvent
}

func newIndex(w, h int) *indexBuilder {
	return &indexBuilder{idx: grid.NewSpatialIndex(w, h)}
}

func (b *indexBuilder) unit(id domain.UnitID, x, y int) *indexBuilder {
	b.events = append(b.events, domain.UnitSpawned{Unit: id, Position: domain.Pos(x, y), Team: id.Team()})
	return b
}

func (b *indexBuilder) wall(x, y int) *indexBuilder {
	b.events = append(b.events, domain.TileBlockedChanged{Position: domain.Pos(x, y), Blocked: true})
	return b
}

func (b *indexBuilder) build() *grid.SpatialIndex {
	grid.Sync(b.idx, b.events)
	b.events = nil
	return b.idx
}
