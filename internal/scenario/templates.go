package scenario

import "tactics-server/internal/domain"

// UnitTemplate - заготовка юнита, из которой сценарий штампует бойцов
type UnitTemplate struct {
	Name     string
	HP       int
	Shield   int
	Damage   int
	Movement int
	Attacks  int
	Attack   domain.AttackProfile
	Move     domain.MovePolicy
}

// Spawn создает юнит стороны team с полными ресурсами
func (t UnitTemplate) Spawn(name string, team domain.Team) *domain.Unit {
	if name == "" {
		name = t.Name
	}
	return &domain.Unit{
		Name: name,
		Team: team,
		Stats: domain.StatsComponent{
			HP:        t.HP,
			MaxHP:     t.HP,
			Shield:    t.Shield,
			MaxShield: t.Shield,
			Damage:    t.Damage,
		},
		AP:     domain.NewActionPoints(t.Movement, t.Attacks),
		Attack: t.Attack,
		Move:   t.Move,
	}
}

// --- ШАБЛОНЫ ---

var Soldier = UnitTemplate{
	Name: "Soldier", HP: 10, Damage: 3, Movement: domain.DefaultMovement, Attacks: domain.DefaultAttacks,
	Attack: domain.AttackProfile{
		Direction: domain.DirectionEightWay,
		Kind:      domain.AttackDirect,
		Range:     domain.AttackRange{Min: 1, Max: 2},
	},
	Move: domain.DefaultMovePolicy(),
}

var Archer = UnitTemplate{
	Name: "Archer", HP: 6, Damage: 2, Movement: 3, Attacks: 1,
	Attack: domain.AttackProfile{
		Direction: domain.DirectionCardinal,
		Kind:      domain.AttackDirect,
		Range:     domain.AttackRange{Min: 2, Max: 4},
	},
	Move: domain.DefaultMovePolicy(),
}

// Mortar бьет навесом через препятствия, но не в упор
var Mortar = UnitTemplate{
	Name: "Mortar", HP: 8, Shield: 2, Damage: 4, Movement: 2, Attacks: 1,
	Attack: domain.AttackProfile{
		Direction: domain.DirectionCardinal,
		Kind:      domain.AttackIndirect,
		Range:     domain.AttackRange{Min: 2, Max: 3},
	},
	Move: domain.DefaultMovePolicy(),
}

var Brute = UnitTemplate{
	Name: "Brute", HP: 14, Shield: 3, Damage: 4, Movement: 4, Attacks: 1,
	Attack: domain.AttackProfile{
		Direction: domain.DirectionCardinal,
		Kind:      domain.AttackDirect,
		Range:     domain.AttackRange{Min: 1, Max: 1},
	},
	Move: domain.MovePolicy{AllowDiagonal: true, PassThroughAllies: true},
}

// Templates - шаблоны по имени для YAML-сценариев
var Templates = map[string]UnitTemplate{
	"soldier": Soldier,
	"archer":  Archer,
	"mortar":  Mortar,
	"brute":   Brute,
}
