package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_TakeDamage(t *testing.T) {
	s := StatsComponent{HP: 20, MaxHP: 20, Shield: 5, MaxShield: 5}

	died := s.TakeDamage(8)
	assert.False(t, died)
	assert.Equal(t, 0, s.Shield, "shield absorbs first")
	assert.Equal(t, 17, s.HP)

	died = s.TakeDamage(100)
	assert.True(t, died)
	assert.Equal(t, 0, s.HP, "HP is clamped at zero")

	// Повторный удар по трупу ничего не делает
	assert.False(t, s.TakeDamage(5))
	assert.Equal(t, 0, s.HP)
}

func TestStats_Heal(t *testing.T) {
	s := StatsComponent{HP: 5, MaxHP: 10}
	s.Heal(100)
	assert.Equal(t, 10, s.HP)

	dead := StatsComponent{HP: 0, MaxHP: 10}
	dead.Heal(5)
	assert.Equal(t, 0, dead.HP)
}

func TestActionPoints(t *testing.T) {
	ap := NewActionPoints(3, 1)
	require.True(t, ap.CanAttack())

	ap.UseAttack()
	ap.UseAttack()
	assert.Equal(t, 0, ap.Attacks)
	assert.False(t, ap.CanAttack())

	ap.UseMovement(5)
	assert.Equal(t, 0, ap.Movement)
	assert.False(t, ap.CanMove())

	ap.ResetTurn()
	assert.Equal(t, 3, ap.Movement)
	assert.Equal(t, 1, ap.Attacks)
}

func TestRoster_RegisterAssignsStableIDs(t *testing.T) {
	r := NewRoster()
	a := &Unit{Name: "A", Team: TeamAlly}
	b := &Unit{Name: "B", Team: TeamAlly}
	e := &Unit{Name: "E", Team: TeamEnemy}

	idA := r.Register(a)
	idB := r.Register(b)
	idE := r.Register(e)

	assert.NotEqual(t, NilUnitID, idA)
	assert.NotEqual(t, idA, idB)
	assert.Equal(t, TeamAlly, idA.Team())
	assert.Equal(t, TeamEnemy, idE.Team())
	assert.Equal(t, uint64(1), idB.Index())
	assert.Same(t, b, r.GetUnit(idB))

	// Повторная регистрация не дублирует
	r.Register(a)
	assert.Len(t, r.Units(), 3)

	r.Unregister(idB)
	assert.Nil(t, r.GetUnit(idB))
	assert.Len(t, r.TeamUnits(TeamAlly), 1)
}

func TestUnitID_JSON(t *testing.T) {
	id := PackUnitID(TeamEnemy, 41)
	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, byte('"'), data[0])

	var back UnitID
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, id, back)
	assert.Equal(t, "[ENEMY:41]", id.String())
}

func TestParseUnitID(t *testing.T) {
	id := PackUnitID(TeamAlly, 2)

	parsed, err := ParseUnitID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	data, _ := json.Marshal(id)
	parsed, err = ParseUnitID(string(data[1 : len(data)-1]))
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	for _, bad := range []string{"", "[ALLY]", "[GHOST:1]", "[ALLY:x]", "abc"} {
		_, err := ParseUnitID(bad)
		assert.Error(t, err, bad)
	}
}

func TestPosition_Distances(t *testing.T) {
	a := Pos(1, 1)
	b := Pos(4, 3)
	assert.Equal(t, 5, a.ManhattanTo(b))
	assert.Equal(t, 3, a.ChebyshevTo(b))
	assert.True(t, a.IsAdjacent(Pos(2, 2)))
	assert.False(t, a.IsAdjacent(a))
	assert.Equal(t, Pos(3, 1), a.Add(Pos(1, 0).Scale(2)))
}
