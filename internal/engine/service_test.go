package engine

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tactics-server/internal/domain"
	"tactics-server/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*BattleService, chan api.ServerMessage) {
	t.Helper()
	b, _, _ := newTestBattle(t, 11, 11, NewConfig())
	mustSpawn(t, b, soldier("A", domain.TeamAlly), 5, 5)
	mustSpawn(t, b, soldier("E", domain.TeamEnemy), 5, 9)
	b.Tick()

	s := NewService(b)
	s.AutoEnemy = false
	return s, s.Hub.Register("ui")
}

func command(t *testing.T, action, token string, payload any) Request {
	t.Helper()
	cmd := api.ClientCommand{Action: action, Token: token}
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		cmd.Payload = raw
	}
	return Request{Subscriber: "ui", Cmd: cmd}
}

func next(t *testing.T, ch chan api.ServerMessage) api.ServerMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	default:
		t.Fatal("no message for subscriber")
		return api.ServerMessage{}
	}
}

func TestService_InitSendsSnapshot(t *testing.T) {
	s, ch := newTestService(t)

	s.handle(command(t, "INIT", "", nil))

	msg := next(t, ch)
	require.Equal(t, api.MsgSnapshot, msg.Type)
	require.NotNil(t, msg.Snapshot)
	assert.Len(t, msg.Snapshot.Units, 2)
	assert.Equal(t, 11, msg.Snapshot.Grid.Width)
	assert.Equal(t, "ALLY", msg.Snapshot.Turn)
}

func TestService_MoveIsQueuedAndBroadcast(t *testing.T) {
	s, ch := newTestService(t)

	s.handle(command(t, "MOVE", allyA.String(), api.TilePayload{X: 5, Y: 7}))
	assert.Empty(t, ch, "queued command gets no direct reply")
	require.Equal(t, 1, s.battle.QueueLen())

	report := s.step()
	assert.Equal(t, 1, report.Executed)

	completion := next(t, ch)
	require.Equal(t, api.MsgCompletion, completion.Type)
	assert.Equal(t, "SUCCESS", completion.Completion.Status)
	assert.Equal(t, allyA.String(), completion.Completion.UnitID)

	stats := next(t, ch)
	require.Equal(t, api.MsgStats, stats.Type)
	assert.Equal(t, uint64(1), stats.Stats.Succeeded)

	assert.Equal(t, domain.Pos(5, 7), s.battle.Unit(allyA).Pos)
	assert.Equal(t, report.Frame, s.Snapshot().Frame)
}

func TestService_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     func(t *testing.T) Request
		wantErr string
	}{
		{"unknown action", func(t *testing.T) Request { return command(t, "DANCE", "", nil) }, "unknown action"},
		{"bad token", func(t *testing.T) Request { return command(t, "MOVE", "[ORC:1]", api.TilePayload{X: 1, Y: 1}) }, "unknown team"},
		{"missing token", func(t *testing.T) Request { return command(t, "MOVE", "", api.TilePayload{X: 1, Y: 1}) }, "token is required"},
		{"not your turn", func(t *testing.T) Request { return command(t, "MOVE", enemyA.String(), api.TilePayload{X: 5, Y: 8}) }, "Not your turn"},
		{"missing payload", func(t *testing.T) Request { return command(t, "ATTACK", allyA.String(), nil) }, "payload"},
		{"negative tile", func(t *testing.T) Request { return command(t, "MOVE", allyA.String(), api.TilePayload{X: -1, Y: 0}) }, "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ch := newTestService(t)
			s.handle(tt.req(t))

			msg := next(t, ch)
			assert.Equal(t, api.MsgError, msg.Type)
			assert.Contains(t, msg.Error, tt.wantErr)
			assert.Zero(t, s.battle.QueueLen())
		})
	}
}

func TestService_SelectAndClick(t *testing.T) {
	s, ch := newTestService(t)

	s.handle(command(t, "SELECT", "", api.UnitPayload{UnitID: allyA.String()}))
	msg := next(t, ch)
	require.Equal(t, api.MsgSnapshot, msg.Type)
	assert.Equal(t, allyA.String(), msg.Snapshot.Selected)
	require.NotNil(t, msg.Snapshot.Validity)

	s.handle(command(t, "CLICK", "", api.TilePayload{X: 5, Y: 6}))
	assert.Empty(t, ch)
	assert.Equal(t, 1, s.battle.QueueLen())

	s.handle(command(t, "DESELECT", "", nil))
	msg = next(t, ch)
	assert.Empty(t, msg.Snapshot.Selected)
	assert.Nil(t, msg.Snapshot.Validity)
}

func TestService_EnemyTurnReturnsControl(t *testing.T) {
	s, ch := newTestService(t)
	s.AutoEnemy = true

	s.handle(command(t, "END_TURN", "", nil))
	assert.Equal(t, api.MsgSnapshot, next(t, ch).Type)
	require.Equal(t, domain.TeamEnemy, s.battle.Turn())

	// Раунд 1: сближение, раунд 2: удар, затем ход возвращается
	for i := 0; i < 10 && s.battle.Turn() == domain.TeamEnemy; i++ {
		s.step()
	}
	assert.Equal(t, domain.TeamAlly, s.battle.Turn())
	assert.Equal(t, 2, s.battle.TurnNumber())
	assert.Equal(t, 7, s.battle.Unit(allyA).Stats.HP)
	assert.Equal(t, "ALLY", s.Snapshot().Turn)
}

func TestService_RunStopsOnCancel(t *testing.T) {
	s, ch := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.True(t, s.ProcessCommand("ui", api.ClientCommand{Action: "INIT"}))

	select {
	case msg := <-ch:
		assert.Equal(t, api.MsgSnapshot, msg.Type)
	case <-time.After(time.Second):
		t.Fatal("no snapshot from running loop")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
