package grid

import "tactics-server/internal/domain"

// OccupancyView - поверхность чтения над OccupancyMap с тем же контрактом,
// что и у SpatialIndex. Нужна исполнителю: он валидирует команды по текущей
// занятости, а не по индексу, который отстает на одну фазу.
type OccupancyView struct {
	Map   *OccupancyMap
	Units domain.UnitFinder
}

func NewOccupancyView(m *OccupancyMap, units domain.UnitFinder) OccupancyView {
	return OccupancyView{Map: m, Units: units}
}

func (v OccupancyView) IsInBounds(p domain.Position) bool {
	return v.Map.IsInBounds(p)
}

func (v OccupancyView) OccupantAt(p domain.Position) (domain.UnitID, bool) {
	return v.Map.UnitAt(p)
}

// TeamAt берет сторону из данных юнита, а если юнит не найден - из его ID
func (v OccupancyView) TeamAt(p domain.Position) (domain.Team, bool) {
	id, ok := v.Map.UnitAt(p)
	if !ok {
		return domain.TeamNone, false
	}
	if v.Units != nil {
		if u := v.Units.GetUnit(id); u != nil {
			return u.Team, true
		}
	}
	return id.Team(), true
}

// IsBlocked - препятствие или выход за поле
func (v OccupancyView) IsBlocked(p domain.Position) bool {
	if !v.Map.IsInBounds(p) {
		return true
	}
	return v.Map.ContentAt(p).Kind == ContentObstacle
}
