package domain

import "math"

// StatModifier - прибавка и множитель к одному параметру: (base + Add) * Mul.
// Mul <= 0 считается единицей, поэтому нулевое значение ничего не меняет.
type StatModifier struct {
	Add int     `json:"add" yaml:"add"`
	Mul float64 `json:"mul" yaml:"mul"`
}

func (m StatModifier) apply(base int) int {
	mul := m.Mul
	if mul <= 0 {
		mul = 1
	}
	return max(int(math.Floor(float64(base+m.Add)*mul)), 0)
}

// Modifiers - суммарные модификаторы юнита (баффы, экипировка, эффекты сценария)
type Modifiers struct {
	Damage    StatModifier `json:"damage" yaml:"damage"`
	Movement  StatModifier `json:"movement" yaml:"movement"`
	Attacks   StatModifier `json:"attacks" yaml:"attacks"`
	MinRange  StatModifier `json:"minRange" yaml:"min_range"`
	MaxRange  StatModifier `json:"maxRange" yaml:"max_range"`
	MaxHP     StatModifier `json:"maxHp" yaml:"max_hp"`
	MaxShield StatModifier `json:"maxShield" yaml:"max_shield"`
}

// Combine складывает прибавки и перемножает множители
func (m Modifiers) Combine(other Modifiers) Modifiers {
	join := func(a, b StatModifier) StatModifier {
		return StatModifier{Add: a.Add + b.Add, Mul: mulOrOne(a.Mul) * mulOrOne(b.Mul)}
	}
	return Modifiers{
		Damage:    join(m.Damage, other.Damage),
		Movement:  join(m.Movement, other.Movement),
		Attacks:   join(m.Attacks, other.Attacks),
		MinRange:  join(m.MinRange, other.MinRange),
		MaxRange:  join(m.MaxRange, other.MaxRange),
		MaxHP:     join(m.MaxHP, other.MaxHP),
		MaxShield: join(m.MaxShield, other.MaxShield),
	}
}

func mulOrOne(mul float64) float64 {
	if mul <= 0 {
		return 1
	}
	return mul
}

// BaseStats - параметры юнита без модификаторов
type BaseStats struct {
	Damage    int `json:"damage"`
	Movement  int `json:"movement"`
	Attacks   int `json:"attacks"`
	MinRange  int `json:"minRange"`
	MaxRange  int `json:"maxRange"`
	MaxHP     int `json:"maxHp"`
	MaxShield int `json:"maxShield"`
}

// EffectiveStats - базовые параметры с примененными модификаторами
type EffectiveStats BaseStats

// Effective считает итоговые параметры. Все значения не ниже нуля,
// атак и MaxHP не меньше одной, MinRange <= MaxRange.
func (b BaseStats) Effective(m Modifiers) EffectiveStats {
	minRange := m.MinRange.apply(b.MinRange)
	maxRange := m.MaxRange.apply(b.MaxRange)
	return EffectiveStats{
		Damage:    m.Damage.apply(b.Damage),
		Movement:  m.Movement.apply(b.Movement),
		Attacks:   max(m.Attacks.apply(b.Attacks), 1),
		MinRange:  min(minRange, maxRange),
		MaxRange:  max(minRange, maxRange),
		MaxHP:     max(m.MaxHP.apply(b.MaxHP), 1),
		MaxShield: m.MaxShield.apply(b.MaxShield),
	}
}

// CurrentBase снимает базовые параметры с текущих полей юнита
func (u *Unit) CurrentBase() BaseStats {
	return BaseStats{
		Damage:    u.Stats.Damage,
		Movement:  u.AP.MaxMovement,
		Attacks:   u.AP.MaxAttacks,
		MinRange:  u.Attack.Range.Min,
		MaxRange:  u.Attack.Range.Max,
		MaxHP:     u.Stats.MaxHP,
		MaxShield: u.Stats.MaxShield,
	}
}

// ApplyModifiers заменяет модификаторы юнита и пересчитывает итоговые параметры.
// При первом вызове текущие поля юнита запоминаются как базовые.
func (u *Unit) ApplyModifiers(m Modifiers) EffectiveStats {
	if u.Base == nil {
		base := u.CurrentBase()
		u.Base = &base
	}
	u.Mods = m
	return u.RecomputeEffective()
}

// RecomputeEffective переносит итоговые параметры в поля, которые читают
// исполнитель и калькуляторы. Текущие HP, щит и очки хода срезаются по новым
// максимумам; рост максимумов сам по себе их не пополняет.
func (u *Unit) RecomputeEffective() EffectiveStats {
	if u.Base == nil {
		return EffectiveStats(u.CurrentBase())
	}
	eff := u.Base.Effective(u.Mods)

	u.Stats.Damage = eff.Damage
	u.Stats.MaxHP = eff.MaxHP
	u.Stats.HP = min(u.Stats.HP, eff.MaxHP)
	u.Stats.MaxShield = eff.MaxShield
	u.Stats.Shield = min(u.Stats.Shield, eff.MaxShield)

	u.AP.MaxMovement = eff.Movement
	u.AP.Movement = min(u.AP.Movement, eff.Movement)
	u.AP.MaxAttacks = eff.Attacks
	u.AP.Attacks = min(u.AP.Attacks, eff.Attacks)

	u.Attack.Range = AttackRange{Min: eff.MinRange, Max: eff.MaxRange}
	return eff
}
