package engine

import (
	"tactics-server/internal/domain"
	"tactics-server/internal/grid"
	"tactics-server/internal/systems"
)

// Validity - опубликованные для оверлеев множества выбранного юнита.
// Считаются по SpatialIndex после фазы синхронизации.
type Validity struct {
	Unit    domain.UnitID
	Origin  domain.Position
	Version uint64

	MoveTiles   []domain.Position
	AttackTiles []domain.Position
	Targets     []domain.Position

	moveSet   map[domain.Position]struct{}
	attackSet map[domain.Position]struct{}
}

// CanMoveTo - клетка подсвечена как цель перемещения
func (v *Validity) CanMoveTo(p domain.Position) bool {
	if v == nil {
		return false
	}
	_, ok := v.moveSet[p]
	return ok
}

// CanAttack - клетка в зоне поражения
func (v *Validity) CanAttack(p domain.Position) bool {
	if v == nil {
		return false
	}
	_, ok := v.attackSet[p]
	return ok
}

// ValidityPublisher пересчитывает множества, когда меняется выбор,
// версия индекса или запас хода выбранного юнита.
type ValidityPublisher struct {
	current *Validity
	budget  int
}

func NewValidityPublisher() *ValidityPublisher {
	return &ValidityPublisher{}
}

// Refresh возвращает true, если множества были пересчитаны
func (p *ValidityPublisher) Refresh(idx *grid.SpatialIndex, unit *domain.Unit) bool {
	if !unit.IsAlive() {
		changed := p.current != nil
		p.current = nil
		return changed
	}

	if c := p.current; c != nil &&
		c.Unit == unit.ID &&
		c.Origin == unit.Pos &&
		c.Version == idx.Version() &&
		p.budget == unit.AP.Movement {
		return false
	}

	reach := systems.FindReachableTiles(idx, unit.Pos, unit.Team, unit.AP.Movement, unit.Move)
	attack := systems.FindAttackableTiles(idx, unit.Pos, unit.Attack)

	v := &Validity{
		Unit:        unit.ID,
		Origin:      unit.Pos,
		Version:     idx.Version(),
		MoveTiles:   reach.Tiles(),
		AttackTiles: attack,
		Targets:     systems.FilterEnemyTargets(idx, attack, unit.Team),
		attackSet:   systems.ToSet(attack),
	}
	v.moveSet = systems.ToSet(v.MoveTiles)

	p.current = v
	p.budget = unit.AP.Movement
	return true
}

// Current - опубликованные множества или nil, если ничего не выбрано
func (p *ValidityPublisher) Current() *Validity {
	return p.current
}

// ForUnit возвращает множества, только если они посчитаны для этого юнита
// с клетки origin.
func (p *ValidityPublisher) ForUnit(id domain.UnitID, origin domain.Position) (*Validity, bool) {
	if p.current == nil || p.current.Unit != id || p.current.Origin != origin {
		return nil, false
	}
	return p.current, true
}

func (p *ValidityPublisher) Clear() {
	p.current = nil
}
