package systems

import (
	"tactics-server/internal/domain"
	"tactics-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// HasLineOfSight проверяет прямую видимость между двумя клетками.
// Клетки пути считаются целочисленной интерполяцией (округление от нуля),
// стартовая и конечная клетки не проверяются. Соседние клетки видны всегда.
func HasLineOfSight(g Grid, from, to domain.Position) bool {
	distance := from.ChebyshevTo(to)
	if distance <= 1 {
		return true
	}

	dx := to.X - from.X
	dy := to.Y - from.Y

	for i := 1; i < distance; i++ {
		check := domain.Position{
			X: from.X + roundDiv(dx*i, distance),
			Y: from.Y + roundDiv(dy*i, distance),
		}
		if !IsTileEmpty(g, check) {
			logger.Log.WithFields(logrus.Fields{
				"component":      "line_of_sight",
				"from":           from,
				"to":             to,
				"blocking_point": check,
			}).Debug("Line of sight blocked.")
			return false
		}
	}
	return true
}

// roundDiv - num/den с округлением половины от нуля (den > 0)
func roundDiv(num, den int) int {
	if num >= 0 {
		return (2*num + den) / (2 * den)
	}
	return -((-2*num + den) / (2 * den))
}
