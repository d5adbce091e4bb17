package grid

import "tactics-server/internal/domain"

// ContentKind - что лежит на клетке
type ContentKind uint8

const (
	ContentEmpty ContentKind = iota
	ContentUnit
	ContentObstacle
)

func (k ContentKind) String() string {
	switch k {
	case ContentUnit:
		return "UNIT"
	case ContentObstacle:
		return "OBSTACLE"
	}
	return "EMPTY"
}

// TileContent - запись карты занятости
type TileContent struct {
	Kind ContentKind   `json:"kind"`
	Unit domain.UnitID `json:"unit,omitempty"`
}

// Empty - пустая клетка
var Empty = TileContent{Kind: ContentEmpty}

func (c TileContent) IsEmpty() bool {
	return c.Kind == ContentEmpty
}

// MoveOutcomeKind - результат OccupancyMap.Move
type MoveOutcomeKind uint8

const (
	Moved MoveOutcomeKind = iota
	Blocked
	OutOfBounds
	EmptyFrom
)

func (k MoveOutcomeKind) String() string {
	switch k {
	case Moved:
		return "MOVED"
	case Blocked:
		return "BLOCKED"
	case OutOfBounds:
		return "OUT_OF_BOUNDS"
	case EmptyFrom:
		return "EMPTY_FROM"
	}
	return "UNKNOWN"
}

// MoveOutcome - итог перемещения. Unit заполнен только при Moved.
type MoveOutcome struct {
	Kind MoveOutcomeKind
	Unit domain.UnitID
}

// OccupancyMap - единственный источник правды о том, что стоит на клетке.
// Мутирует его только исполнитель команд (и расстановка на старте боя).
// Хранится как map: пишут его редко, а горячие чтения идут через SpatialIndex.
type OccupancyMap struct {
	width, height int
	tiles         map[domain.Position]TileContent
}

func NewOccupancyMap(width, height int) *OccupancyMap {
	return &OccupancyMap{
		width:  width,
		height: height,
		tiles:  make(map[domain.Position]TileContent),
	}
}

func (m *OccupancyMap) Width() int  { return m.width }
func (m *OccupancyMap) Height() int { return m.height }

// IsInBounds проверяет [0,w) x [0,h)
func (m *OccupancyMap) IsInBounds(p domain.Position) bool {
	return p.X >= 0 && p.X < m.width && p.Y >= 0 && p.Y < m.height
}

// ContentAt возвращает содержимое клетки (Empty для пустых и внешних)
func (m *OccupancyMap) ContentAt(p domain.Position) TileContent {
	if c, ok := m.tiles[p]; ok {
		return c
	}
	return Empty
}

func (m *OccupancyMap) IsEmpty(p domain.Position) bool {
	return m.ContentAt(p).IsEmpty()
}

// UnitAt возвращает юнит на клетке, если он там есть
func (m *OccupancyMap) UnitAt(p domain.Position) (domain.UnitID, bool) {
	c := m.ContentAt(p)
	if c.Kind != ContentUnit {
		return domain.NilUnitID, false
	}
	return c.Unit, true
}

// Place ставит юнит на пустую клетку внутри поля.
// Иначе ничего не меняет и возвращает false.
func (m *OccupancyMap) Place(p domain.Position, id domain.UnitID) bool {
	return m.put(p, TileContent{Kind: ContentUnit, Unit: id})
}

// PlaceObstacle ставит препятствие на пустую клетку
func (m *OccupancyMap) PlaceObstacle(p domain.Position) bool {
	return m.put(p, TileContent{Kind: ContentObstacle})
}

func (m *OccupancyMap) put(p domain.Position, c TileContent) bool {
	if !m.IsInBounds(p) || !m.IsEmpty(p) {
		return false
	}
	m.tiles[p] = c
	return true
}

// Move переносит содержимое from -> to целиком или не меняет ничего.
// Порядок проверок: границы to, занятость to, наличие содержимого в from.
func (m *OccupancyMap) Move(from, to domain.Position) MoveOutcome {
	if !m.IsInBounds(to) {
		return MoveOutcome{Kind: OutOfBounds}
	}
	if !m.IsEmpty(to) {
		return MoveOutcome{Kind: Blocked}
	}
	content, ok := m.tiles[from]
	if !ok {
		return MoveOutcome{Kind: EmptyFrom}
	}

	delete(m.tiles, from)
	m.tiles[to] = content
	return MoveOutcome{Kind: Moved, Unit: content.Unit}
}

// Remove убирает содержимое клетки. Для пустой клетки - no-op.
func (m *OccupancyMap) Remove(p domain.Position) {
	delete(m.tiles, p)
}

// Clear - синоним Remove для очистки тайла (препятствия и т.п.)
func (m *OccupancyMap) Clear(p domain.Position) {
	m.Remove(p)
}

// FindPositionOf - линейный поиск. Только для редких и отладочных вызовов:
// в кадре позицию юнита берут из кэша на стороне юнита.
func (m *OccupancyMap) FindPositionOf(id domain.UnitID) (domain.Position, bool) {
	for p, c := range m.tiles {
		if c.Kind == ContentUnit && c.Unit == id {
			return p, true
		}
	}
	return domain.Position{}, false
}

// Entry - пара (клетка, содержимое) для снапшотов
type Entry struct {
	Position domain.Position `json:"position"`
	Content  TileContent     `json:"content"`
}

// Entries возвращает все непустые клетки в порядке (y, x)
func (m *OccupancyMap) Entries() []Entry {
	result := make([]Entry, 0, len(m.tiles))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			p := domain.Pos(x, y)
			if c, ok := m.tiles[p]; ok {
				result = append(result, Entry{Position: p, Content: c})
			}
		}
	}
	return result
}

// Len - количество непустых клеток
func (m *OccupancyMap) Len() int {
	return len(m.tiles)
}
