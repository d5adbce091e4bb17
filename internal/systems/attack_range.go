package systems

import (
	"tactics-server/internal/domain"
	"tactics-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// FindAttackableTiles возвращает клетки, до которых достает оружие юнита,
// стоящего на from. Это именно "досягаемые" клетки, а не "клетки с целью":
// фильтр по врагам делает вызывающая сторона (FilterEnemyTargets).
//
// Для каждого из 4/8 направлений луч идет от Min до Max. Клетки вне поля
// пропускаются, но луч не обрывают. Для прямого огня луч обрывается на
// первой непустой клетке: ни она, ни все за ней в результат не попадают.
// Исключение - соседняя клетка, она видна всегда (ближний бой).
// Навесной огонь видимость не проверяет.
func FindAttackableTiles(g Grid, from domain.Position, profile domain.AttackProfile) []domain.Position {
	minRange := max(profile.Range.Min, 1)
	maxRange := profile.Range.Max

	var result []domain.Position
	checked := make(map[domain.Position]struct{})

	for _, dir := range domain.Directions(profile.Direction == domain.DirectionEightWay) {
		for distance := minRange; distance <= maxRange; distance++ {
			target := from.Add(dir.Scale(distance))

			if !g.IsInBounds(target) {
				continue
			}

			if profile.Kind == domain.AttackDirect {
				if !HasLineOfSight(g, from, target) {
					break
				}
				if distance > 1 && !IsTileEmpty(g, target) {
					break
				}
			}

			if _, ok := checked[target]; ok {
				continue
			}
			checked[target] = struct{}{}
			result = append(result, target)
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "attack_range",
		"from":      from,
		"direction": profile.Direction.String(),
		"kind":      profile.Kind.String(),
		"min":       minRange,
		"max":       maxRange,
		"tiles":     len(result),
	}).Debug("Attack range computed.")

	return result
}

// ToSet превращает список клеток в множество
func ToSet(tiles []domain.Position) map[domain.Position]struct{} {
	set := make(map[domain.Position]struct{}, len(tiles))
	for _, p := range tiles {
		set[p] = struct{}{}
	}
	return set
}
