package engine

import (
	"fmt"
	"time"

	"tactics-server/internal/domain"
	"tactics-server/internal/grid"
	"tactics-server/internal/systems"
	"tactics-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Battle владеет всем состоянием одного боя. Создается в начале боя и
// выбрасывается в конце; глобального состояния нет.
// Не потокобезопасен: все вызовы идут из одного цикла (см. BattleService).
type Battle struct {
	cfg Config

	occupancy *grid.OccupancyMap
	index     *grid.SpatialIndex
	roster    *domain.Roster

	queue     *CommandQueue
	cache     *PathCache
	stats     *Stats
	validity  *ValidityPublisher
	executor  *Executor
	scheduler *Scheduler

	turn       domain.Team
	turnNumber int
	selected   domain.UnitID

	clock func() time.Time
}

func NewBattle(width, height int, cfg Config) *Battle {
	logger.SetDebug(cfg.DebugLogging)

	b := &Battle{
		cfg:        cfg,
		occupancy:  grid.NewOccupancyMap(width, height),
		index:      grid.NewSpatialIndex(width, height),
		roster:     domain.NewRoster(),
		queue:      NewCommandQueue(),
		cache:      NewPathCache(cfg.PathCacheSize),
		stats:      &Stats{},
		validity:   NewValidityPublisher(),
		turn:       domain.TeamAlly,
		turnNumber: 1,
		clock:      time.Now,
	}
	b.executor = NewExecutor(b.occupancy, b.roster, b.cache, b.validity)
	b.executor.debug = cfg.DebugLogging
	b.scheduler = NewScheduler(cfg, b.queue, b.executor, b.index, b.validity, b.stats, b)

	logger.Log.WithFields(logrus.Fields{
		"component": "battle",
		"width":     width,
		"height":    height,
		"per_frame": cfg.CommandsPerFrame(),
		"timeout":   cfg.CommandTimeout,
	}).Info("Battle created.")
	return b
}

// SetClock подменяет источник времени (для таймаутов в тестах)
func (b *Battle) SetClock(clock func() time.Time) {
	b.clock = clock
}

func (b *Battle) Config() Config { return b.cfg }
func (b *Battle) Width() int     { return b.occupancy.Width() }
func (b *Battle) Height() int    { return b.occupancy.Height() }

// Index - поверхность чтения SpatialIndex (мутаторы закрыты)
func (b *Battle) Index() *grid.SpatialIndex { return b.index }

func (b *Battle) ContentAt(p domain.Position) grid.TileContent { return b.occupancy.ContentAt(p) }
func (b *Battle) OccupancyEntries() []grid.Entry               { return b.occupancy.Entries() }

func (b *Battle) Unit(id domain.UnitID) *domain.Unit { return b.roster.GetUnit(id) }
func (b *Battle) Units() []*domain.Unit              { return b.roster.Units() }

func (b *Battle) Stats() Stats                      { return *b.stats }
func (b *Battle) Queue() []domain.Command           { return b.queue.Snapshot() }
func (b *Battle) QueueLen() int                     { return b.queue.Len() }
func (b *Battle) Validity() *Validity               { return b.validity.Current() }
func (b *Battle) Frame() uint64                     { return b.scheduler.Frame() }
func (b *Battle) Turn() domain.Team                 { return b.turn }
func (b *Battle) TurnNumber() int                   { return b.turnNumber }
func (b *Battle) Paused() bool                      { return b.scheduler.Paused() }
func (b *Battle) Pause()                            { b.scheduler.Pause() }
func (b *Battle) Resume()                           { b.scheduler.Resume() }
func (b *Battle) PathCacheLen() int                 { return b.cache.Len() }
func (b *Battle) OnOccupancy(l OccupancyListener)   { b.scheduler.OnOccupancy(l) }
func (b *Battle) OnCompletion(l CompletionListener) { b.scheduler.OnCompletion(l) }

// --- Спавн и поле ---

// Spawn регистрирует юнит и ставит его на клетку.
// Событие появления уходит в индекс на ближайшем Tick.
func (b *Battle) Spawn(u *domain.Unit, pos domain.Position) (domain.UnitID, error) {
	if !b.occupancy.IsInBounds(pos) {
		return domain.NilUnitID, fmt.Errorf("spawn %s at %v: out of bounds", u.Name, pos)
	}
	if !b.occupancy.IsEmpty(pos) {
		return domain.NilUnitID, fmt.Errorf("spawn %s at %v: tile is occupied", u.Name, pos)
	}

	id := b.roster.Register(u)
	if !b.executor.Spawn(u, pos) {
		b.roster.Unregister(id)
		return domain.NilUnitID, fmt.Errorf("spawn %s at %v: placement rejected", u.Name, pos)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "battle",
		"unit_id":   id,
		"unit_name": u.Name,
		"pos":       pos,
	}).Debug("Unit spawned.")
	return id, nil
}

// Despawn убирает юнит с поля и из реестра. Команды юнита в очереди
// остаются и завершатся с "Unit not found".
func (b *Battle) Despawn(id domain.UnitID) bool {
	u := b.roster.GetUnit(id)
	if u == nil {
		return false
	}
	b.executor.Despawn(u)
	b.roster.Unregister(id)
	if b.selected == id {
		b.ClearSelection()
	}
	return true
}

// ApplyModifiers задает модификаторы юнита и пересчитывает его итоговые
// параметры. Если юнит выбран, множества валидности публикуются заново.
func (b *Battle) ApplyModifiers(id domain.UnitID, m domain.Modifiers) (domain.EffectiveStats, error) {
	u := b.roster.GetUnit(id)
	if !u.IsAlive() {
		return domain.EffectiveStats{}, fmt.Errorf("modify %s: %s", id, domain.ReasonUnitNotFound)
	}
	eff := u.ApplyModifiers(m)
	if b.selected == id {
		b.validity.Clear()
		b.validity.Refresh(b.index, u)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "battle",
		"unit_id":   id,
		"damage":    eff.Damage,
		"movement":  eff.Movement,
		"range":     fmt.Sprintf("%d-%d", eff.MinRange, eff.MaxRange),
	}).Debug("Unit modifiers applied.")
	return eff, nil
}

func (b *Battle) PlaceObstacle(pos domain.Position) bool { return b.executor.PlaceObstacle(pos) }
func (b *Battle) ClearObstacle(pos domain.Position) bool { return b.executor.ClearObstacle(pos) }

func (b *Battle) SetTileCost(pos domain.Position, cost uint8) bool {
	return b.executor.SetTileCost(pos, cost)
}

// --- Выбор ---

// Select выбирает живой юнит стороны, чей сейчас ход
func (b *Battle) Select(id domain.UnitID) error {
	u := b.roster.GetUnit(id)
	if !u.IsAlive() {
		return fmt.Errorf("select %s: %s", id, domain.ReasonUnitNotFound)
	}
	if u.Team != b.turn {
		return fmt.Errorf("select %s: not %s turn", id, u.Team)
	}
	b.selected = id
	b.validity.Refresh(b.index, u)
	return nil
}

func (b *Battle) ClearSelection() {
	b.selected = domain.NilUnitID
	b.validity.Clear()
}

// SelectedUnit реализует SelectionSource
func (b *Battle) SelectedUnit() *domain.Unit {
	if b.selected.IsNil() {
		return nil
	}
	u := b.roster.GetUnit(b.selected)
	if !u.IsAlive() {
		return nil
	}
	return u
}

func (b *Battle) Selected() domain.UnitID { return b.selected }

// --- Намерения ---

// ClassifyTile классифицирует клетку по опубликованному состоянию:
// индексу и множествам валидности выбранного юнита.
func (b *Battle) ClassifyTile(p domain.Position) IntentKind {
	if !b.index.IsInBounds(p) {
		return IntentOutside
	}
	v := b.validity.Current()

	if id, ok := b.index.OccupantAt(p); ok {
		if id == b.selected {
			return IntentSelf
		}
		if team, _ := b.index.TeamAt(p); team == b.turn {
			return IntentFriendly
		}
		return IntentEnemy
	}
	if v.CanMoveTo(p) {
		return IntentMoveTile
	}
	if v.CanAttack(p) && !b.index.IsBlocked(p) {
		return IntentAttackTile
	}
	return IntentEmptyTile
}

// HandleIntent превращает клик по клетке в выбор или команду
func (b *Battle) HandleIntent(p domain.Position) IntentOutcome {
	kind := b.ClassifyTile(p)
	out := IntentOutcome{Kind: kind}

	switch kind {
	case IntentOutside, IntentSelf, IntentEmptyTile:
		b.ClearSelection()

	case IntentFriendly:
		id, _ := b.index.OccupantAt(p)
		if err := b.Select(id); err != nil {
			b.ClearSelection()
		}

	case IntentEnemy, IntentAttackTile:
		if sel := b.SelectedUnit(); sel != nil && b.validity.Current().CanAttack(p) {
			cmd := b.Enqueue(domain.NewAttackCommand(sel.ID, sel.Pos, p))
			out.Command = &cmd
		}

	case IntentMoveTile:
		if sel := b.SelectedUnit(); sel != nil {
			cmd := b.Enqueue(domain.NewMoveCommand(sel.ID, sel.Pos, p))
			out.Command = &cmd
		}
	}

	out.Selected = b.selected
	logger.Log.WithFields(logrus.Fields{
		"component": "battle",
		"tile":      p,
		"intent":    kind.String(),
		"selected":  b.selected,
		"enqueued":  out.Command != nil,
	}).Debug("Intent handled.")
	return out
}

// IssueMove ставит в очередь перемещение юнита с его текущей клетки
func (b *Battle) IssueMove(id domain.UnitID, to domain.Position) (domain.Command, error) {
	u := b.roster.GetUnit(id)
	if !u.IsAlive() {
		return domain.Command{}, fmt.Errorf("move %s: %s", id, domain.ReasonUnitNotFound)
	}
	return b.Enqueue(domain.NewMoveCommand(id, u.Pos, to)), nil
}

// IssueAttack ставит в очередь атаку юнита по клетке target
func (b *Battle) IssueAttack(id domain.UnitID, target domain.Position) (domain.Command, error) {
	u := b.roster.GetUnit(id)
	if !u.IsAlive() {
		return domain.Command{}, fmt.Errorf("attack %s: %s", id, domain.ReasonUnitNotFound)
	}
	return b.Enqueue(domain.NewAttackCommand(id, u.Pos, target)), nil
}

// Enqueue ставит команду в очередь, проставляя время постановки
func (b *Battle) Enqueue(cmd domain.Command) domain.Command {
	if cmd.EnqueuedAt.IsZero() {
		cmd.EnqueuedAt = b.clock()
	}
	return b.queue.Push(cmd)
}

// Tick прогоняет один кадр планировщика
func (b *Battle) Tick() FrameReport {
	return b.scheduler.Tick(b.clock())
}

// --- Ходы ---

// EndTurn передает ход другой стороне и восстанавливает ей очки действий
func (b *Battle) EndTurn() domain.Team {
	b.ClearSelection()
	b.turn = b.turn.Opponent()
	if b.turn == domain.TeamAlly {
		b.turnNumber++
	}
	for _, u := range b.roster.TeamUnits(b.turn) {
		u.AP.ResetTurn()
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "battle",
		"turn":      b.turn.String(),
		"number":    b.turnNumber,
	}).Info("Turn switched.")
	return b.turn
}

// PlanEnemyTurn ставит в очередь решения ИИ для всех юнитов стороны,
// чей сейчас ход. Клетки, уже выбранные другими юнитами, резервируются,
// чтобы два перемещения не целились в одну клетку.
func (b *Battle) PlanEnemyTurn() []domain.Command {
	opponents := b.roster.TeamUnits(b.turn.Opponent())
	targets := make([]domain.Position, 0, len(opponents))
	for _, o := range opponents {
		targets = append(targets, o.Pos)
	}

	g := &reservedGrid{Grid: grid.NewOccupancyView(b.occupancy, b.roster), reserved: make(map[domain.Position]struct{})}

	var planned []domain.Command
	for _, u := range b.roster.TeamUnits(b.turn) {
		decision := systems.ComputeEnemyIntent(g, u, targets)
		switch decision.Action {
		case domain.ActionAttack:
			planned = append(planned, b.Enqueue(domain.NewAttackCommand(u.ID, decision.From, decision.Target)))
		case domain.ActionMove:
			g.reserved[decision.Target] = struct{}{}
			planned = append(planned, b.Enqueue(domain.NewMoveCommand(u.ID, decision.From, decision.Target)))
		}
	}
	return planned
}

// reservedGrid - текущая занятость плюс зарезервированные клетки
type reservedGrid struct {
	systems.Grid
	reserved map[domain.Position]struct{}
}

func (g *reservedGrid) IsBlocked(p domain.Position) bool {
	if _, ok := g.reserved[p]; ok {
		return true
	}
	return g.Grid.IsBlocked(p)
}

// Click - HandleIntent для хендлеров, которые не знают типов engine
func (b *Battle) Click(p domain.Position) (string, *domain.Command) {
	out := b.HandleIntent(p)
	return out.Kind.String(), out.Command
}
