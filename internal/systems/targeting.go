package systems

import (
	"tactics-server/internal/domain"
)

// FilterEnemyTargets оставляет только клетки, на которых стоит юнит другой стороны.
// Калькулятор дальности сам этого не делает: подсветка пустых клеток в зоне
// поражения - решение UI.
func FilterEnemyTargets(g Grid, tiles []domain.Position, team domain.Team) []domain.Position {
	var result []domain.Position
	for _, p := range tiles {
		if _, occupied := g.OccupantAt(p); !occupied {
			continue
		}
		if t, ok := g.TeamAt(p); ok && t != team {
			result = append(result, p)
		}
	}
	return result
}

// ValidationResult - результат проверки цели атаки
type ValidationResult struct {
	Defender *domain.Unit
	Valid    bool
	Reason   string // Причина, если Valid == false
}

// ResolveDefender находит защищающегося на клетке target.
// Союзник на клетке целью не считается.
func ResolveDefender(g Grid, target domain.Position, attackerTeam domain.Team, finder domain.UnitFinder) ValidationResult {
	id, occupied := g.OccupantAt(target)
	if !occupied {
		return ValidationResult{Reason: domain.ReasonNoDefender}
	}
	if t, ok := g.TeamAt(target); ok && t == attackerTeam {
		return ValidationResult{Reason: domain.ReasonNoDefender}
	}

	defender := finder.GetUnit(id)
	if defender == nil || !defender.IsAlive() {
		return ValidationResult{Reason: domain.ReasonDefenderNotFound}
	}
	return ValidationResult{Defender: defender, Valid: true}
}
