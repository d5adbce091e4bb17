package grid

import (
	"tactics-server/internal/domain"
	"tactics-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Sync - фаза синхронизации: сворачивает события карты занятости в индекс
// в порядке их публикации. Единственный писатель SpatialIndex.
// Возвращает количество примененных мутаций.
func Sync(idx *SpatialIndex, events []domain.OccupancyEvent) int {
	before := idx.version

	for _, ev := range events {
		switch e := ev.(type) {
		case domain.UnitSpawned:
			idx.setUnitAt(e.Position, e.Unit, e.Team)
		case domain.UnitDespawned:
			idx.setUnitAt(e.Position, domain.NilUnitID, domain.TeamNone)
		case domain.TileMoved:
			idx.setUnitAt(e.From, domain.NilUnitID, domain.TeamNone)
			idx.setUnitAt(e.To, e.Unit, e.Team)
		case domain.TileBlockedChanged:
			idx.setBlocked(e.Position, e.Blocked)
		case domain.TileCostChanged:
			idx.setCost(e.Position, e.Cost)
		default:
			logger.Log.WithFields(logrus.Fields{
				"component": "index_sync",
				"event":     ev,
			}).Warn("Unknown occupancy event skipped.")
		}
	}

	applied := int(idx.version - before)
	if applied > 0 {
		logger.Log.WithFields(logrus.Fields{
			"component": "index_sync",
			"events":    len(events),
			"mutations": applied,
			"version":   idx.version,
		}).Debug("Spatial index synchronized.")
	}
	return applied
}
