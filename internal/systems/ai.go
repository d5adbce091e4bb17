package systems

import (
	"tactics-server/internal/domain"
	"tactics-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// EnemyDecision - что решил ИИ. ActionUnknown означает "пропустить ход".
type EnemyDecision struct {
	Action domain.ActionType
	From   domain.Position
	Target domain.Position
}

// ComputeEnemyIntent решает, что делать юниту под управлением ИИ:
// 1. Если в зоне поражения есть противник и остались атаки - бьем ближайшего.
// 2. Иначе, если есть очки движения - идем на достижимую клетку,
// ближайшую к ближайшему противнику (только если это сокращает дистанцию).
// 3. Иначе ждем.
func ComputeEnemyIntent(g Grid, u *domain.Unit, opponents []domain.Position) EnemyDecision {
	aiLogger := logger.Log.WithFields(logrus.Fields{
		"component": "ai_system",
		"unit_id":   u.ID,
		"unit_name": u.Name,
		"pos":       u.Pos,
	})

	wait := EnemyDecision{Action: domain.ActionUnknown, From: u.Pos}

	if !u.IsAlive() || len(opponents) == 0 {
		aiLogger.Debug("No opponents or unit is dead. Action: WAIT")
		return wait
	}

	// 1. Атака
	if u.AP.CanAttack() {
		tiles := FindAttackableTiles(g, u.Pos, u.Attack)
		targets := FilterEnemyTargets(g, tiles, u.Team)
		if len(targets) > 0 {
			best := nearest(u.Pos, targets)
			aiLogger.WithField("target", best).Debug("Target in attack range. Action: ATTACK")
			return EnemyDecision{Action: domain.ActionAttack, From: u.Pos, Target: best}
		}
	}

	// 2. Сближение
	if !u.AP.CanMove() {
		aiLogger.Debug("No movement left. Action: WAIT")
		return wait
	}

	goal := nearest(u.Pos, opponents)
	bestDist := u.Pos.ManhattanTo(goal)
	bestTile := u.Pos

	reach := FindReachableTiles(g, u.Pos, u.Team, u.AP.Movement, u.Move)
	for _, p := range reach.Tiles() {
		if d := p.ManhattanTo(goal); d < bestDist {
			bestDist = d
			bestTile = p
		}
	}

	if bestTile == u.Pos {
		aiLogger.WithField("goal", goal).Debug("Path is blocked or destination reached. Action: WAIT")
		return wait
	}

	aiLogger.WithFields(logrus.Fields{
		"goal": goal,
		"to":   bestTile,
	}).Debug("Path found. Action: MOVE")
	return EnemyDecision{Action: domain.ActionMove, From: u.Pos, Target: bestTile}
}

// nearest - ближайшая по Манхэттену клетка; при равенстве - первая в списке
func nearest(from domain.Position, tiles []domain.Position) domain.Position {
	best := tiles[0]
	bestDist := from.ManhattanTo(best)
	for _, p := range tiles[1:] {
		if d := from.ManhattanTo(p); d < bestDist {
			best = p
			bestDist = d
		}
	}
	return best
}
