package grid

import "tactics-server/internal/domain"

// SpatialIndex - производный кэш над OccupancyMap для быстрых чтений.
// Данные лежат параллельными плоскими массивами по индексу y*width+x.
// Пишет в него только фаза синхронизации (Sync), читают все остальные.
type SpatialIndex struct {
	width, height int

	occupant []domain.UnitID // NilUnitID - пусто
	team     []domain.Team   // TeamNone - пусто
	blocked  []bool
	cost     []uint8

	// version растет на каждую мутацию, читатели сравнивают версии вместо массивов
	version uint64
}

func NewSpatialIndex(width, height int) *SpatialIndex {
	size := width * height
	idx := &SpatialIndex{
		width:    width,
		height:   height,
		occupant: make([]domain.UnitID, size),
		team:     make([]domain.Team, size),
		blocked:  make([]bool, size),
		cost:     make([]uint8, size),
	}
	for i := range idx.cost {
		idx.cost[i] = domain.DefaultTileCost
	}
	return idx
}

func (s *SpatialIndex) Width() int  { return s.width }
func (s *SpatialIndex) Height() int { return s.height }

// Version - счетчик мутаций
func (s *SpatialIndex) Version() uint64 {
	return s.version
}

func (s *SpatialIndex) IsInBounds(p domain.Position) bool {
	return p.X >= 0 && p.X < s.width && p.Y >= 0 && p.Y < s.height
}

func (s *SpatialIndex) index(p domain.Position) int {
	return p.Y*s.width + p.X
}

// OccupantAt возвращает юнит на клетке
func (s *SpatialIndex) OccupantAt(p domain.Position) (domain.UnitID, bool) {
	if !s.IsInBounds(p) {
		return domain.NilUnitID, false
	}
	id := s.occupant[s.index(p)]
	return id, !id.IsNil()
}

// TeamAt возвращает сторону юнита на клетке
func (s *SpatialIndex) TeamAt(p domain.Position) (domain.Team, bool) {
	if !s.IsInBounds(p) {
		return domain.TeamNone, false
	}
	t := s.team[s.index(p)]
	return t, t != domain.TeamNone
}

// IsBlocked - вне поля всегда true
func (s *SpatialIndex) IsBlocked(p domain.Position) bool {
	if !s.IsInBounds(p) {
		return true
	}
	return s.blocked[s.index(p)]
}

// CostAt - вне поля всегда 255
func (s *SpatialIndex) CostAt(p domain.Position) uint8 {
	if !s.IsInBounds(p) {
		return domain.MaxTileCost
	}
	return s.cost[s.index(p)]
}

// IsEmpty - в поле, не заблокирована и без юнита
func (s *SpatialIndex) IsEmpty(p domain.Position) bool {
	if s.IsBlocked(p) {
		return false
	}
	_, occupied := s.OccupantAt(p)
	return !occupied
}

// --- МУТАТОРЫ (только для Sync) ---
// Каждый трогает ровно названную клетку и поднимает version на 1.
// Вызов за пределами поля ничего не меняет и версию не трогает.

func (s *SpatialIndex) setUnitAt(p domain.Position, id domain.UnitID, team domain.Team) {
	if !s.IsInBounds(p) {
		return
	}
	i := s.index(p)
	s.occupant[i] = id
	if id.IsNil() {
		team = domain.TeamNone
	}
	s.team[i] = team
	s.version++
}

func (s *SpatialIndex) setBlocked(p domain.Position, blocked bool) {
	if !s.IsInBounds(p) {
		return
	}
	s.blocked[s.index(p)] = blocked
	s.version++
}

func (s *SpatialIndex) setCost(p domain.Position, cost uint8) {
	if !s.IsInBounds(p) {
		return
	}
	if cost == 0 {
		cost = domain.DefaultTileCost
	}
	s.cost[s.index(p)] = cost
	s.version++
}
