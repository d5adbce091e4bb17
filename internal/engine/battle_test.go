package engine

import (
	"testing"
	"time"

	"tactics-server/internal/domain"
	"tactics-server/internal/grid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBattle_MoveEndToEnd(t *testing.T) {
	b, rec, _ := newTestBattle(t, 11, 11, NewConfig())
	a := mustSpawn(t, b, soldier("A", domain.TeamAlly), 5, 5)
	b.Tick()

	_, err := b.IssueMove(a, domain.Pos(5, 7))
	require.NoError(t, err)
	b.Tick()

	require.Len(t, rec.completions, 1)
	assert.Equal(t, domain.StatusSuccess, rec.completions[0].Result.Status)

	assert.Equal(t, grid.TileContent{Kind: grid.ContentUnit, Unit: a}, b.ContentAt(domain.Pos(5, 7)))
	assert.True(t, b.ContentAt(domain.Pos(5, 5)).IsEmpty())

	var moved *domain.TileMoved
	for _, ev := range rec.occupancy {
		if m, ok := ev.(domain.TileMoved); ok {
			moved = &m
		}
	}
	require.NotNil(t, moved, "move event published")
	assert.Equal(t, domain.Pos(5, 7), moved.To)
	assert.Equal(t, domain.Pos(5, 5), moved.From)

	// Индекс уже синхронизирован
	id, ok := b.Index().OccupantAt(domain.Pos(5, 7))
	assert.True(t, ok)
	assert.Equal(t, a, id)

	u := b.Unit(a)
	assert.Equal(t, domain.Pos(5, 7), u.Pos)
	assert.Equal(t, 1, u.AP.Movement, "two steps spent")
}

func TestBattle_AttackWithoutBudget(t *testing.T) {
	b, rec, _ := newTestBattle(t, 11, 11, NewConfig())
	attacker := soldier("A", domain.TeamAlly)
	attacker.AP.Attacks = 0
	a := mustSpawn(t, b, attacker, 5, 5)
	e := mustSpawn(t, b, soldier("E", domain.TeamEnemy), 5, 6)
	b.Tick()

	_, err := b.IssueAttack(a, domain.Pos(5, 6))
	require.NoError(t, err)
	b.Tick()

	require.Len(t, rec.completions, 1)
	assert.Equal(t, domain.Failed(domain.ReasonNoAttacks), rec.completions[0].Result)
	assert.Equal(t, 10, b.Unit(e).Stats.HP)
}

func TestBattle_AttackOrdering(t *testing.T) {
	b, rec, _ := newTestBattle(t, 11, 11, NewConfig())
	mover := mustSpawn(t, b, soldier("Mover", domain.TeamAlly), 0, 0)
	striker := mustSpawn(t, b, soldier("Striker", domain.TeamAlly), 5, 5)
	mustSpawn(t, b, soldier("E", domain.TeamEnemy), 5, 6)
	b.Tick()

	_, _ = b.IssueMove(mover, domain.Pos(0, 2))
	_, _ = b.IssueAttack(striker, domain.Pos(5, 6))
	b.Tick()

	require.Len(t, rec.completions, 2)
	assert.Equal(t, striker, rec.completions[0].Unit)
	assert.Equal(t, domain.ActionAttack, rec.completions[0].Command.Kind.Action())
	assert.Equal(t, mover, rec.completions[1].Unit)
	for _, c := range rec.completions {
		assert.True(t, c.Result.IsSuccess(), c.Result.String())
	}
}

func TestBattle_AttackFailures(t *testing.T) {
	tests := []struct {
		name   string
		target domain.Position
		want   string
	}{
		{"out of range", domain.Pos(5, 9), domain.ReasonInvalidAttack},
		{"empty tile in range", domain.Pos(4, 4), domain.ReasonNoDefender},
		{"ally in range", domain.Pos(6, 5), domain.ReasonNoDefender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, rec, _ := newTestBattle(t, 11, 11, NewConfig())
			a := mustSpawn(t, b, soldier("A", domain.TeamAlly), 5, 5)
			mustSpawn(t, b, soldier("B", domain.TeamAlly), 6, 5)
			b.Tick()

			_, _ = b.IssueAttack(a, tt.target)
			b.Tick()

			require.Len(t, rec.completions, 1)
			assert.Equal(t, domain.Failed(tt.want), rec.completions[0].Result)
			assert.Equal(t, 1, b.Unit(a).AP.Attacks, "failed attack keeps the budget")
		})
	}
}

func TestBattle_KillRemovesDefender(t *testing.T) {
	b, rec, _ := newTestBattle(t, 11, 11, NewConfig())
	a := mustSpawn(t, b, soldier("A", domain.TeamAlly), 5, 5)
	victim := soldier("E", domain.TeamEnemy)
	victim.Stats.HP = 2
	victim.Stats.Shield = 1
	e := mustSpawn(t, b, victim, 6, 6)
	b.Tick()

	_, _ = b.IssueAttack(a, domain.Pos(6, 6))
	b.Tick()

	require.Len(t, rec.completions, 1)
	assert.True(t, rec.completions[0].Result.IsSuccess())
	assert.True(t, b.Unit(e).IsDead)
	assert.Equal(t, 0, b.Unit(e).Stats.HP)
	assert.Equal(t, 0, b.Unit(a).AP.Attacks)

	assert.True(t, b.ContentAt(domain.Pos(6, 6)).IsEmpty())
	assert.True(t, b.Index().IsEmpty(domain.Pos(6, 6)))
	assert.Contains(t, rec.occupancy, domain.OccupancyEvent(domain.UnitDespawned{Unit: e, Position: domain.Pos(6, 6)}))
}

func TestBattle_MoveFailures(t *testing.T) {
	tests := []struct {
		name string
		to   domain.Position
		want string
	}{
		{"out of bounds", domain.Pos(5, 11), domain.ReasonOutOfBounds},
		{"occupied destination", domain.Pos(5, 6), domain.ReasonBlocked},
		{"beyond budget", domain.Pos(5, 1), domain.ReasonNotReachable},
		{"walled off", domain.Pos(0, 0), domain.ReasonNotReachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, rec, _ := newTestBattle(t, 11, 11, NewConfig())
			a := mustSpawn(t, b, soldier("A", domain.TeamAlly), 5, 5)
			mustSpawn(t, b, soldier("E", domain.TeamEnemy), 5, 6)
			b.PlaceObstacle(domain.Pos(1, 0))
			b.PlaceObstacle(domain.Pos(1, 1))
			b.PlaceObstacle(domain.Pos(0, 1))
			b.Tick()
			before := b.OccupancyEntries()

			_, _ = b.IssueMove(a, tt.to)
			b.Tick()

			require.Len(t, rec.completions, 1)
			assert.Equal(t, domain.Failed(tt.want), rec.completions[0].Result)
			assert.Equal(t, before, b.OccupancyEntries(), "failed move leaves the map unchanged")
			assert.Equal(t, 3, b.Unit(a).AP.Movement)
		})
	}
}

func TestBattle_MoveFromStalePosition(t *testing.T) {
	b, rec, _ := newTestBattle(t, 11, 11, NewConfig())
	a := mustSpawn(t, b, soldier("A", domain.TeamAlly), 5, 5)
	other := mustSpawn(t, b, soldier("B", domain.TeamAlly), 3, 3)
	b.Tick()

	b.Enqueue(domain.NewMoveCommand(a, domain.Pos(3, 3), domain.Pos(3, 4)))
	b.Enqueue(domain.NewMoveCommand(a, domain.Pos(0, 0), domain.Pos(0, 1)))
	b.Tick()

	require.Len(t, rec.completions, 2)
	assert.Equal(t, domain.Failed(domain.ReasonUnitNotAtSource), rec.completions[0].Result)
	assert.Equal(t, domain.Failed(domain.ReasonEmptyFrom), rec.completions[1].Result)
	assert.Equal(t, domain.Pos(3, 3), b.Unit(other).Pos)
}

func TestBattle_PassThroughAllyButNotEnemy(t *testing.T) {
	b, rec, _ := newTestBattle(t, 5, 1, NewConfig())
	a := mustSpawn(t, b, soldier("A", domain.TeamAlly), 0, 0)
	mustSpawn(t, b, soldier("B", domain.TeamAlly), 1, 0)
	b.Tick()

	_, _ = b.IssueMove(a, domain.Pos(2, 0))
	b.Tick()
	require.Len(t, rec.completions, 1)
	assert.True(t, rec.completions[0].Result.IsSuccess())

	b2, rec2, _ := newTestBattle(t, 5, 1, NewConfig())
	a2 := mustSpawn(t, b2, soldier("A", domain.TeamAlly), 0, 0)
	mustSpawn(t, b2, soldier("E", domain.TeamEnemy), 1, 0)
	b2.Tick()

	_, _ = b2.IssueMove(a2, domain.Pos(2, 0))
	b2.Tick()
	require.Len(t, rec2.completions, 1)
	assert.Equal(t, domain.Failed(domain.ReasonNotReachable), rec2.completions[0].Result)
}

func TestBattle_Timeout(t *testing.T) {
	b, rec, clock := newTestBattle(t, 11, 11, NewConfig())
	a := mustSpawn(t, b, soldier("A", domain.TeamAlly), 5, 5)
	b.Tick()

	b.Pause()
	_, _ = b.IssueMove(a, domain.Pos(5, 6))
	clock.Advance(6 * time.Second)
	report := b.Tick()
	assert.True(t, report.Skipped)
	assert.Empty(t, rec.completions)

	b.Resume()
	report = b.Tick()

	assert.Equal(t, 1, report.Cancelled)
	assert.Equal(t, 0, report.Executed)
	require.Len(t, rec.completions, 1)
	assert.Equal(t, domain.StatusCancelled, rec.completions[0].Result.Status)
	assert.Equal(t, "timed out", rec.completions[0].Result.Reason)
	assert.Equal(t, domain.Pos(5, 5), b.Unit(a).Pos)
	assert.Equal(t, uint64(1), b.Stats().Cancelled)
}

func TestBattle_BatchingLimit(t *testing.T) {
	cfg := NewConfig()
	cfg.MaxCommandsPerFrame = 2

	b, _, _ := newTestBattle(t, 11, 11, cfg)
	for i := 0; i < 3; i++ {
		id := mustSpawn(t, b, soldier("U", domain.TeamAlly), i*3, 0)
		_, _ = b.IssueMove(id, domain.Pos(i*3, 1))
	}

	assert.Equal(t, 2, b.Tick().Executed)
	assert.Equal(t, 1, b.Tick().Executed)

	cfg.EnableBatching = false
	b2, _, _ := newTestBattle(t, 11, 11, cfg)
	for i := 0; i < 3; i++ {
		id := mustSpawn(t, b2, soldier("U", domain.TeamAlly), i*3, 0)
		_, _ = b2.IssueMove(id, domain.Pos(i*3, 1))
	}
	assert.Equal(t, 1, b2.Tick().Executed)
	assert.Equal(t, 2, b2.QueueLen())
	assert.Equal(t, 1, b2.Stats().PeakPerFrame)
}

func TestBattle_VersionCountsMutations(t *testing.T) {
	b, _, _ := newTestBattle(t, 11, 11, NewConfig())
	v0 := b.Index().Version()

	a := mustSpawn(t, b, soldier("A", domain.TeamAlly), 5, 5)
	mustSpawn(t, b, soldier("E", domain.TeamEnemy), 9, 9)
	b.PlaceObstacle(domain.Pos(0, 0))
	b.SetTileCost(domain.Pos(1, 1), 3)

	report := b.Tick()
	assert.Equal(t, 4, report.Mutations)
	assert.Equal(t, v0+4, b.Index().Version())
	assert.Equal(t, uint8(3), b.Index().CostAt(domain.Pos(1, 1)))

	// Пустой кадр версию не трогает
	v1 := b.Index().Version()
	b.Tick()
	assert.Equal(t, v1, b.Index().Version())

	// Перемещение - две мутации: освободить и занять
	_, _ = b.IssueMove(a, domain.Pos(5, 6))
	report = b.Tick()
	assert.Equal(t, 2, report.Mutations)
	assert.Equal(t, v1+2, b.Index().Version())
}

func TestBattle_SpawnRejections(t *testing.T) {
	b, _, _ := newTestBattle(t, 5, 5, NewConfig())
	mustSpawn(t, b, soldier("A", domain.TeamAlly), 2, 2)

	_, err := b.Spawn(soldier("B", domain.TeamAlly), domain.Pos(2, 2))
	assert.Error(t, err)
	_, err = b.Spawn(soldier("C", domain.TeamAlly), domain.Pos(7, 2))
	assert.Error(t, err)
	assert.Len(t, b.Units(), 1)
}

func TestBattle_DespawnClearsSelection(t *testing.T) {
	b, rec, _ := newTestBattle(t, 5, 5, NewConfig())
	a := mustSpawn(t, b, soldier("A", domain.TeamAlly), 2, 2)
	b.Tick()
	require.NoError(t, b.Select(a))
	_, _ = b.IssueMove(a, domain.Pos(2, 3))

	assert.True(t, b.Despawn(a))
	assert.False(t, b.Despawn(a))
	assert.True(t, b.Selected().IsNil())

	b.Tick()
	require.Len(t, rec.completions, 1)
	assert.Equal(t, domain.Failed(domain.ReasonUnitNotFound), rec.completions[0].Result)
	assert.True(t, b.Index().IsEmpty(domain.Pos(2, 2)))
}

func TestBattle_PathCache(t *testing.T) {
	b, rec, _ := newTestBattle(t, 11, 11, NewConfig())
	a := mustSpawn(t, b, soldier("A", domain.TeamAlly), 5, 5)
	b.Tick()

	_, _ = b.IssueMove(a, domain.Pos(5, 0))
	b.Tick()
	assert.Equal(t, 1, b.PathCacheLen(), "failed check is cached")

	_, _ = b.IssueMove(a, domain.Pos(5, 7))
	b.Tick()
	require.Len(t, rec.completions, 2)
	assert.True(t, rec.completions[1].Result.IsSuccess())
	assert.Equal(t, 0, b.PathCacheLen(), "entries touching the source are dropped")
}

func TestBattle_MoveFromObstacleRejected(t *testing.T) {
	b, rec, _ := newTestBattle(t, 5, 5, NewConfig())
	a := mustSpawn(t, b, soldier("A", domain.TeamAlly), 0, 0)
	b.PlaceObstacle(domain.Pos(2, 2))
	b.Tick()

	b.Enqueue(domain.NewMoveCommand(a, domain.Pos(2, 2), domain.Pos(2, 3)))
	b.Tick()

	require.Len(t, rec.completions, 1)
	assert.Equal(t, domain.Failed(domain.ReasonUnitNotAtSource), rec.completions[0].Result)

	assert.Equal(t, grid.ContentObstacle, b.ContentAt(domain.Pos(2, 2)).Kind)
	assert.True(t, b.ContentAt(domain.Pos(2, 3)).IsEmpty())
	assert.Equal(t, grid.TileContent{Kind: grid.ContentUnit, Unit: a}, b.ContentAt(domain.Pos(0, 0)))
	assert.Equal(t, domain.Pos(0, 0), b.Unit(a).Pos)
	assert.Equal(t, 3, b.Unit(a).AP.Movement)

	assert.True(t, b.Index().IsBlocked(domain.Pos(2, 2)))
	_, ok := b.Index().OccupantAt(domain.Pos(2, 3))
	assert.False(t, ok)
}

func TestBattle_PathOpensAfterBlockerLeaves(t *testing.T) {
	b, rec, _ := newTestBattle(t, 4, 2, NewConfig())
	a := mustSpawn(t, b, soldier("A", domain.TeamAlly), 0, 0)
	e := mustSpawn(t, b, soldier("E", domain.TeamEnemy), 1, 0)
	b.PlaceObstacle(domain.Pos(0, 1))
	b.PlaceObstacle(domain.Pos(1, 1))
	b.Tick()

	b.Enqueue(domain.NewMoveCommand(a, domain.Pos(0, 0), domain.Pos(2, 0)))
	b.Tick()
	require.Len(t, rec.completions, 1)
	assert.Equal(t, domain.Failed(domain.ReasonNotReachable), rec.completions[0].Result)

	// Враг уходит с единственного прохода, концы закэшированного пути не меняются
	b.Enqueue(domain.NewMoveCommand(e, domain.Pos(1, 0), domain.Pos(3, 1)))
	b.Tick()
	require.Len(t, rec.completions, 2)
	require.True(t, rec.completions[1].Result.IsSuccess(), rec.completions[1].Result.String())

	require.NoError(t, b.Select(a))
	assert.True(t, b.Validity().CanMoveTo(domain.Pos(2, 0)))

	b.Enqueue(domain.NewMoveCommand(a, domain.Pos(0, 0), domain.Pos(2, 0)))
	b.Tick()
	require.Len(t, rec.completions, 3)
	assert.True(t, rec.completions[2].Result.IsSuccess(), rec.completions[2].Result.String())
	assert.Equal(t, domain.Pos(2, 0), b.Unit(a).Pos)
}

func TestBattle_ModifiersDriveAttack(t *testing.T) {
	b, rec, _ := newTestBattle(t, 7, 1, NewConfig())
	mortar := soldier("Mortar", domain.TeamAlly)
	mortar.Attack = domain.AttackProfile{
		Direction: domain.DirectionCardinal,
		Kind:      domain.AttackIndirect,
		Range:     domain.AttackRange{Min: 2, Max: 2},
	}
	m := mustSpawn(t, b, mortar, 0, 0)
	e := mustSpawn(t, b, soldier("E", domain.TeamEnemy), 4, 0)
	b.Tick()

	require.NoError(t, b.Select(m))
	assert.False(t, b.Validity().CanAttack(domain.Pos(4, 0)))

	eff, err := b.ApplyModifiers(m, domain.Modifiers{
		MaxRange: domain.StatModifier{Add: 2},
		Damage:   domain.StatModifier{Mul: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, eff.MaxRange)
	assert.Equal(t, 6, eff.Damage)
	assert.True(t, b.Validity().CanAttack(domain.Pos(4, 0)), "selection is republished")

	_, _ = b.IssueAttack(m, domain.Pos(4, 0))
	b.Tick()
	require.Len(t, rec.completions, 1)
	assert.True(t, rec.completions[0].Result.IsSuccess(), rec.completions[0].Result.String())
	assert.Equal(t, 4, b.Unit(e).Stats.HP)

	_, err = b.ApplyModifiers(domain.PackUnitID(domain.TeamAlly, 9), domain.Modifiers{})
	assert.Error(t, err)
}

func TestBattle_MovementModifierLimitsBudget(t *testing.T) {
	b, rec, _ := newTestBattle(t, 11, 11, NewConfig())
	a := mustSpawn(t, b, soldier("A", domain.TeamAlly), 5, 5)
	b.Tick()

	_, err := b.ApplyModifiers(a, domain.Modifiers{Movement: domain.StatModifier{Add: -1}})
	require.NoError(t, err)

	_, _ = b.IssueMove(a, domain.Pos(5, 8))
	b.Tick()
	require.Len(t, rec.completions, 1)
	assert.Equal(t, domain.Failed(domain.ReasonNotReachable), rec.completions[0].Result)

	// Следующий ход союзников: запас растет до нового максимума, не до базы
	b.EndTurn()
	b.EndTurn()
	assert.Equal(t, 2, b.Unit(a).AP.Movement)
}
