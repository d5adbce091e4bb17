package engine

import (
	"tactics-server/internal/domain"
	"tactics-server/pkg/logger"
)

// maxEnemyRounds - сколько раз за ход ИИ перепланирует (сблизиться, потом ударить)
const maxEnemyRounds = 2

// processEnemyTurn играет ход вражеской стороны: как только очередь пуста,
// планирует следующий раунд, а когда планировать нечего - возвращает ход.
func (s *BattleService) processEnemyTurn() {
	b := s.battle
	if b.Turn() != domain.TeamEnemy || b.QueueLen() > 0 || b.Paused() {
		return
	}

	if s.enemyRounds < maxEnemyRounds {
		s.enemyRounds++
		if planned := b.PlanEnemyTurn(); len(planned) > 0 {
			logger.Log.WithField("component", "enemy_turn").Debugf("Round %d: %d commands planned", s.enemyRounds, len(planned))
			return
		}
	}

	s.enemyRounds = 0
	b.EndTurn()
	s.refreshSnapshot()
}
