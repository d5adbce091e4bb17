package systems

import (
	"fmt"
	"tactics-server/internal/domain"
	"tactics-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// AttackReport - что произошло при ударе
type AttackReport struct {
	Damage       int
	HPBefore     int
	HPAfter      int
	ShieldBefore int
	ShieldAfter  int
	Killed       bool
	Message      string
}

// ApplyAttack наносит урон защищающемуся. Очки атаки не трогает:
// это забота исполнителя команды.
func ApplyAttack(attacker, defender *domain.Unit) AttackReport {
	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":     "combat_system",
		"attacker_id":   attacker.ID,
		"attacker_name": attacker.Name,
		"target_id":     defender.ID,
		"target_name":   defender.Name,
	})

	report := AttackReport{
		HPBefore:     defender.Stats.HP,
		ShieldBefore: defender.Stats.Shield,
	}

	if defender.IsDead {
		combatLogger.Info("Attack ineffective: target is already dead.")
		report.HPAfter = defender.Stats.HP
		report.ShieldAfter = defender.Stats.Shield
		report.Message = fmt.Sprintf("%s бьет по останкам %s.", attacker.Name, defender.Name)
		return report
	}

	// Урон юнита, минимум 0
	report.Damage = max(attacker.Stats.Damage, 0)

	report.Killed = defender.Stats.TakeDamage(report.Damage)
	if report.Killed {
		defender.IsDead = true
	}
	report.HPAfter = defender.Stats.HP
	report.ShieldAfter = defender.Stats.Shield

	combatLogger.WithFields(logrus.Fields{
		"damage":        report.Damage,
		"hp_before":     report.HPBefore,
		"hp_after":      report.HPAfter,
		"shield_before": report.ShieldBefore,
		"shield_after":  report.ShieldAfter,
		"target_died":   report.Killed,
	}).Info("Attack resolved.")

	report.Message = fmt.Sprintf("%s наносит %d урона по %s.", attacker.Name, report.Damage, defender.Name)
	if report.Killed {
		report.Message += fmt.Sprintf(" %s погибает.", defender.Name)
	}
	return report
}
