package systems

import (
	"tactics-server/internal/domain"
	"tactics-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Reachability - клетки, на которых юнит может закончить движение,
// с числом шагов до каждой.
type Reachability struct {
	Start domain.Position
	steps map[domain.Position]int
}

// Contains - можно ли закончить ход на клетке
func (r Reachability) Contains(p domain.Position) bool {
	_, ok := r.steps[p]
	return ok
}

// Steps возвращает длину кратчайшего пути до клетки
func (r Reachability) Steps(p domain.Position) (int, bool) {
	s, ok := r.steps[p]
	return s, ok
}

func (r Reachability) Len() int {
	return len(r.steps)
}

// Tiles возвращает клетки в порядке (y, x)
func (r Reachability) Tiles() []domain.Position {
	tiles := make([]domain.Position, 0, len(r.steps))
	for p := range r.steps {
		tiles = append(tiles, p)
	}
	sortPositions(tiles)
	return tiles
}

type bfsNode struct {
	pos   domain.Position
	steps int
}

// FindReachableTiles - поиск в ширину от start на maxRange шагов.
//
// Проходимость клетки зависит от ее класса относительно стороны team:
// пустая - всегда, союзник - если PassThroughAllies, враг или препятствие -
// если PassThroughOthers. Приземлиться можно только на пустую клетку.
// Стартовая клетка попадает в результат только при IncludeStart.
func FindReachableTiles(g Grid, start domain.Position, team domain.Team, maxRange int, policy domain.MovePolicy) Reachability {
	result := Reachability{Start: start, steps: make(map[domain.Position]int)}
	if policy.IncludeStart {
		result.steps[start] = 0
	}
	if maxRange <= 0 {
		return result
	}

	visited := map[domain.Position]int{start: 0}
	queue := []bfsNode{{pos: start, steps: 0}}
	directions := domain.Directions(policy.AllowDiagonal)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		next := current.steps + 1
		if next > maxRange {
			continue
		}

		for _, dir := range directions {
			pos := current.pos.Add(dir)
			if !g.IsInBounds(pos) {
				continue
			}
			if seen, ok := visited[pos]; ok && seen <= next {
				continue
			}

			class := ClassifyTile(g, pos, team)
			if !isTraversable(class, policy) {
				continue
			}

			visited[pos] = next
			queue = append(queue, bfsNode{pos: pos, steps: next})

			if class == TileEmpty {
				result.steps[pos] = next
			}
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "reachability",
		"start":     start,
		"max_range": maxRange,
		"visited":   len(visited),
		"reachable": len(result.steps),
	}).Debug("Reachability computed.")

	return result
}

func isTraversable(class TileClass, policy domain.MovePolicy) bool {
	switch class {
	case TileEmpty:
		return true
	case TileAlly:
		return policy.PassThroughAllies
	default:
		return policy.PassThroughOthers
	}
}
