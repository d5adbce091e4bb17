package systems

import (
	"slices"

	"tactics-server/internal/domain"
)

// Grid - поверхность чтения, по которой работают калькуляторы.
// Реализуют grid.SpatialIndex (оверлеи) и grid.OccupancyView (валидация команд).
// Вне поля: IsBlocked == true, никого нет.
type Grid interface {
	IsInBounds(p domain.Position) bool
	OccupantAt(p domain.Position) (domain.UnitID, bool)
	TeamAt(p domain.Position) (domain.Team, bool)
	IsBlocked(p domain.Position) bool
}

// TileClass - как клетка выглядит для юнита заданной стороны
type TileClass uint8

const (
	TileEmpty TileClass = iota
	TileAlly
	TileOther // враг или препятствие
)

// ClassifyTile определяет класс клетки относительно стороны team
func ClassifyTile(g Grid, p domain.Position, team domain.Team) TileClass {
	if g.IsBlocked(p) {
		return TileOther
	}
	if _, occupied := g.OccupantAt(p); !occupied {
		return TileEmpty
	}
	if t, ok := g.TeamAt(p); ok && t == team && team != domain.TeamNone {
		return TileAlly
	}
	return TileOther
}

// IsTileEmpty - в поле, без препятствия и без юнита
func IsTileEmpty(g Grid, p domain.Position) bool {
	if g.IsBlocked(p) {
		return false
	}
	_, occupied := g.OccupantAt(p)
	return !occupied
}

// sortPositions упорядочивает клетки по (y, x) для детерминированного вывода
func sortPositions(tiles []domain.Position) {
	slices.SortFunc(tiles, func(a, b domain.Position) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
}
