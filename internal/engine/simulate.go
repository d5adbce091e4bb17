package engine

import (
	"tactics-server/internal/domain"
	"tactics-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// SimulationResult - итог автобоя
type SimulationResult struct {
	Turns  int
	Frames uint64
	Winner domain.Team // TeamNone, если бой не закончился
	Stats  Stats
}

// Simulate играет бой без клиентов: обе стороны ведет ИИ, каждая сторона
// получает до maxEnemyRounds раундов планирования за ход.
// Останавливается, когда у одной из сторон не осталось живых юнитов,
// через maxTurns ходов или если бой поставлен на паузу.
func Simulate(b *Battle, maxTurns int) SimulationResult {
	log := logger.Log.WithField("component", "simulation")
	result := SimulationResult{}

	for result.Turns < maxTurns {
		if winner, ok := b.Winner(); ok {
			result.Winner = winner
			break
		}
		if b.Paused() {
			log.Warn("Battle is paused, simulation stopped.")
			break
		}

		for round := 0; round < maxEnemyRounds; round++ {
			if len(b.PlanEnemyTurn()) == 0 {
				break
			}
			for b.QueueLen() > 0 {
				if b.Tick().Skipped {
					break
				}
			}
		}

		result.Turns++
		b.EndTurn()
	}

	if winner, ok := b.Winner(); ok {
		result.Winner = winner
	}
	result.Frames = b.Frame()
	result.Stats = b.Stats()

	log.WithFields(logrus.Fields{
		"turns":     result.Turns,
		"frames":    result.Frames,
		"winner":    result.Winner.String(),
		"commands":  result.Stats.Total,
		"succeeded": result.Stats.Succeeded,
	}).Info("Simulation finished.")
	return result
}

// Winner возвращает сторону, у которой остались живые юниты, если у
// другой их нет.
func (b *Battle) Winner() (domain.Team, bool) {
	allies := len(b.roster.TeamUnits(domain.TeamAlly))
	enemies := len(b.roster.TeamUnits(domain.TeamEnemy))
	switch {
	case allies > 0 && enemies == 0:
		return domain.TeamAlly, true
	case enemies > 0 && allies == 0:
		return domain.TeamEnemy, true
	}
	return domain.TeamNone, false
}
