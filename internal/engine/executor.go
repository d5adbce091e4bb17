package engine

import (
	"tactics-server/internal/domain"
	"tactics-server/internal/grid"
	"tactics-server/internal/systems"
	"tactics-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Executor - единственный писатель карты занятости.
// Валидирует команды по текущей занятости, меняет карту и копит события
// для фазы публикации.
type Executor struct {
	occupancy *grid.OccupancyMap
	units     *domain.Roster
	cache     *PathCache
	validity  *ValidityPublisher

	pending []domain.OccupancyEvent
	debug   bool
}

func NewExecutor(occupancy *grid.OccupancyMap, units *domain.Roster, cache *PathCache, validity *ValidityPublisher) *Executor {
	return &Executor{
		occupancy: occupancy,
		units:     units,
		cache:     cache,
		validity:  validity,
	}
}

func (e *Executor) view() grid.OccupancyView {
	return grid.NewOccupancyView(e.occupancy, e.units)
}

func (e *Executor) emit(ev domain.OccupancyEvent) {
	e.cache.Touch()
	e.pending = append(e.pending, ev)
}

// DrainEvents отдает накопленные события и очищает буфер
func (e *Executor) DrainEvents() []domain.OccupancyEvent {
	events := e.pending
	e.pending = nil
	return events
}

// PendingEvents - сколько событий ждет публикации
func (e *Executor) PendingEvents() int {
	return len(e.pending)
}

// --- Мутации от коллабораторов (спавн, препятствия) ---

// Spawn ставит юнит на клетку. Юнит должен быть уже зарегистрирован.
func (e *Executor) Spawn(u *domain.Unit, pos domain.Position) bool {
	if !e.occupancy.Place(pos, u.ID) {
		return false
	}
	u.Pos = pos
	e.cache.InvalidatePosition(pos)
	e.emit(domain.UnitSpawned{Unit: u.ID, Position: pos, Team: u.Team})
	return true
}

// Despawn убирает юнит с поля. Ищет по кэшу позиции юнита, а если там
// его нет - линейным поиском по карте.
func (e *Executor) Despawn(u *domain.Unit) bool {
	pos := u.Pos
	if id, ok := e.occupancy.UnitAt(pos); !ok || id != u.ID {
		found, ok := e.occupancy.FindPositionOf(u.ID)
		if !ok {
			return false
		}
		pos = found
	}
	e.occupancy.Remove(pos)
	e.cache.InvalidatePosition(pos)
	e.emit(domain.UnitDespawned{Unit: u.ID, Position: pos})
	return true
}

func (e *Executor) PlaceObstacle(pos domain.Position) bool {
	if !e.occupancy.PlaceObstacle(pos) {
		return false
	}
	e.cache.Clear()
	e.emit(domain.TileBlockedChanged{Position: pos, Blocked: true})
	return true
}

// ClearObstacle убирает препятствие. Юнитов не трогает.
func (e *Executor) ClearObstacle(pos domain.Position) bool {
	if e.occupancy.ContentAt(pos).Kind != grid.ContentObstacle {
		return false
	}
	e.occupancy.Clear(pos)
	e.cache.Clear()
	e.emit(domain.TileBlockedChanged{Position: pos, Blocked: false})
	return true
}

// SetTileCost меняет только метаданные индекса, карта занятости о стоимости не знает
func (e *Executor) SetTileCost(pos domain.Position, cost uint8) bool {
	if !e.occupancy.IsInBounds(pos) {
		return false
	}
	e.emit(domain.TileCostChanged{Position: pos, Cost: cost})
	return true
}

// --- Исполнение команд ---

// Execute исполняет одну команду против текущего состояния карты
func (e *Executor) Execute(cmd domain.Command) domain.CommandResult {
	var result domain.CommandResult

	switch k := cmd.Kind.(type) {
	case domain.MoveCommand:
		result = e.executeMove(cmd.Unit, k)
	case domain.AttackCommand:
		result = e.executeAttack(cmd.Unit, k)
	default:
		result = domain.Failed(domain.ReasonUnknownCommandKind)
	}

	entry := logger.Log.WithFields(logrus.Fields{
		"component": "command_executor",
		"command":   cmd.String(),
		"result":    result.String(),
	})
	if e.debug {
		entry.Info("Command executed.")
	} else {
		entry.Debug("Command executed.")
	}
	return result
}

func (e *Executor) executeMove(id domain.UnitID, k domain.MoveCommand) domain.CommandResult {
	unit := e.units.GetUnit(id)
	if !unit.IsAlive() {
		return domain.Failed(domain.ReasonUnitNotFound)
	}
	// Пустая исходная клетка доходит до карты и дает EmptyFrom
	switch src := e.occupancy.ContentAt(k.From); src.Kind {
	case grid.ContentObstacle:
		return domain.Failed(domain.ReasonUnitNotAtSource)
	case grid.ContentUnit:
		if src.Unit != id {
			return domain.Failed(domain.ReasonUnitNotAtSource)
		}
	}
	if !unit.AP.CanMove() {
		return domain.Failed(domain.ReasonNoMovement)
	}
	if !e.occupancy.IsInBounds(k.To) {
		return domain.Failed(domain.ReasonOutOfBounds)
	}

	budget := unit.AP.Movement
	path, ok := e.cache.Get(k.From, k.To, budget)
	if !ok {
		reach := systems.FindReachableTiles(e.view(), k.From, unit.Team, budget, unit.Move)
		steps, valid := reach.Steps(k.To)
		path = PathEntry{Valid: valid, Steps: steps}
		e.cache.Put(k.From, k.To, budget, path)
	}
	if !path.Valid {
		if !e.occupancy.IsEmpty(k.To) {
			return domain.Failed(domain.ReasonBlocked)
		}
		return domain.Failed(domain.ReasonNotReachable)
	}

	outcome := e.occupancy.Move(k.From, k.To)
	switch outcome.Kind {
	case grid.Moved:
	case grid.OutOfBounds:
		return domain.Failed(domain.ReasonOutOfBounds)
	case grid.Blocked:
		return domain.Failed(domain.ReasonBlocked)
	case grid.EmptyFrom:
		logger.Log.WithFields(logrus.Fields{
			"component": "command_executor",
			"unit_id":   id,
			"from":      k.From,
		}).Warn("Move issued from an empty tile.")
		return domain.Failed(domain.ReasonEmptyFrom)
	}

	unit.Pos = k.To
	unit.AP.UseMovement(path.Steps)
	e.cache.InvalidatePosition(k.From)
	e.cache.InvalidatePosition(k.To)
	e.emit(domain.TileMoved{Unit: id, From: k.From, To: k.To, Team: unit.Team})
	return domain.Success()
}

func (e *Executor) executeAttack(id domain.UnitID, k domain.AttackCommand) domain.CommandResult {
	attacker := e.units.GetUnit(id)
	if !attacker.IsAlive() {
		return domain.Failed(domain.ReasonUnitNotFound)
	}
	if occupant, ok := e.occupancy.UnitAt(k.From); !ok || occupant != id {
		return domain.Failed(domain.ReasonUnitNotAtSource)
	}

	// Опубликованное множество, если оно про этого юнита; иначе считаем заново
	if v, ok := e.validity.ForUnit(id, k.From); ok {
		if !v.CanAttack(k.Target) {
			return domain.Failed(domain.ReasonInvalidAttack)
		}
	} else {
		tiles := systems.FindAttackableTiles(e.view(), k.From, attacker.Attack)
		if _, ok := systems.ToSet(tiles)[k.Target]; !ok {
			return domain.Failed(domain.ReasonInvalidAttack)
		}
	}

	target := systems.ResolveDefender(e.view(), k.Target, attacker.Team, e.units)
	if !target.Valid {
		return domain.Failed(target.Reason)
	}

	if !attacker.AP.CanAttack() {
		return domain.Failed(domain.ReasonNoAttacks)
	}

	report := systems.ApplyAttack(attacker, target.Defender)
	attacker.AP.UseAttack()

	if report.Killed {
		e.occupancy.Remove(k.Target)
		e.cache.InvalidatePosition(k.Target)
		e.emit(domain.UnitDespawned{Unit: target.Defender.ID, Position: k.Target})
	}
	return domain.Success()
}
