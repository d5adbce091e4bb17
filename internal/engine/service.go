package engine

import (
	"context"
	"sync"
	"time"

	"tactics-server/internal/domain"
	"tactics-server/internal/engine/handlers"
	"tactics-server/internal/engine/handlers/actions"
	"tactics-server/internal/network"
	"tactics-server/pkg/api"
	"tactics-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

var _ handlers.Controller = (*Battle)(nil)

// Request - команда клиента и подписчик, которому отвечать
type Request struct {
	Subscriber string
	Cmd        api.ClientCommand
}

// BattleService крутит один бой в одной горутине. Все мутации боя идут
// только из Run; другие горутины читают готовый слепок под RWMutex.
type BattleService struct {
	battle *Battle

	CommandChan chan Request
	Hub         *network.Broadcaster

	handlers map[domain.ActionType]handlers.HandlerFunc

	// AutoEnemy - ход вражеской стороны играет ИИ
	AutoEnemy   bool
	enemyRounds int

	pending []domain.CommandCompleted

	mu       sync.RWMutex
	snapshot api.SnapshotView
}

func NewService(b *Battle) *BattleService {
	s := &BattleService{
		battle:      b,
		CommandChan: make(chan Request, 100),
		Hub:         network.NewBroadcaster(),
		handlers:    make(map[domain.ActionType]handlers.HandlerFunc),
		AutoEnemy:   true,
	}

	b.OnCompletion(func(ev domain.CommandCompleted) {
		s.pending = append(s.pending, ev)
	})

	s.registerHandlers()
	s.refreshSnapshot()
	return s
}

func (s *BattleService) registerHandlers() {
	s.handlers[domain.ActionMove] = handlers.WithPayload(actions.HandleMove)
	s.handlers[domain.ActionAttack] = handlers.WithPayload(actions.HandleAttack)
	s.handlers[domain.ActionSelect] = handlers.WithPayload(actions.HandleSelect)
	s.handlers[domain.ActionClick] = handlers.WithPayload(actions.HandleClick)
	s.handlers[domain.ActionDeselect] = handlers.WithEmptyPayload(actions.HandleDeselect)
	s.handlers[domain.ActionEndTurn] = handlers.WithEmptyPayload(actions.HandleEndTurn)
	s.handlers[domain.ActionInit] = handlers.WithEmptyPayload(actions.HandleInit)
}

// ProcessCommand принимает команду от внешнего мира (WebSocket).
// Не блокирует: при переполненном канале команда отбрасывается.
func (s *BattleService) ProcessCommand(subscriber string, cmd api.ClientCommand) bool {
	select {
	case s.CommandChan <- Request{Subscriber: subscriber, Cmd: cmd}:
		return true
	default:
		logger.Log.WithFields(logrus.Fields{
			"component":  "battle_service",
			"subscriber": subscriber,
			"action":     cmd.Action,
		}).Warn("Command channel is full, command dropped.")
		return false
	}
}

// Snapshot возвращает последний опубликованный слепок боя
func (s *BattleService) Snapshot() api.SnapshotView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Run - цикл боя. Возвращается, когда ctx отменен.
func (s *BattleService) Run(ctx context.Context) error {
	interval := s.battle.Config().TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Log.WithFields(logrus.Fields{
		"component": "battle_service",
		"interval":  interval,
	}).Info("Battle loop started")

	for {
		select {
		case <-ctx.Done():
			logger.Log.WithField("component", "battle_service").Info("Battle loop stopped")
			return nil
		case req := <-s.CommandChan:
			s.handle(req)
		case <-ticker.C:
			s.step()
		}
	}
}

// step - один кадр: планировщик, ход ИИ, рассылка событий
func (s *BattleService) step() FrameReport {
	report := s.battle.Tick()
	if s.AutoEnemy {
		s.processEnemyTurn()
	}

	for _, ev := range s.pending {
		completion := ToCompletionView(ev)
		s.Hub.Broadcast(api.ServerMessage{
			Type:       api.MsgCompletion,
			Frame:      ev.Frame,
			Completion: &completion,
		})
	}
	s.pending = s.pending[:0]

	if report.Executed > 0 || report.Cancelled > 0 || report.Refreshed {
		stats := toStatsView(s.battle.Stats())
		s.Hub.Broadcast(api.ServerMessage{Type: api.MsgStats, Frame: report.Frame, Stats: &stats})
		s.refreshSnapshot()
	}
	return report
}

// handle выполняет хендлер и отвечает клиенту
func (s *BattleService) handle(req Request) {
	cmdLogger := logger.Log.WithFields(logrus.Fields{
		"component":  "battle_service",
		"subscriber": req.Subscriber,
		"action":     req.Cmd.Action,
		"token":      req.Cmd.Token,
	})

	actionType := domain.ParseAction(req.Cmd.Action)
	handler, ok := s.handlers[actionType]
	if !ok {
		cmdLogger.Warn("Unknown action")
		s.replyError(req.Subscriber, "unknown action: "+req.Cmd.Action)
		return
	}

	ctx := handlers.Context{Battle: s.battle}
	if req.Cmd.Token != "" {
		id, err := domain.ParseUnitID(req.Cmd.Token)
		if err != nil {
			s.replyError(req.Subscriber, err.Error())
			return
		}
		ctx.Actor = id
	}

	result, err := handler(ctx, req.Cmd.Payload)
	if err != nil {
		cmdLogger.WithError(err).Debug("Command rejected")
		s.replyError(req.Subscriber, err.Error())
		return
	}
	if result.MsgType == "ERROR" {
		s.replyError(req.Subscriber, result.Msg)
		return
	}
	if result.Msg != "" {
		cmdLogger.WithField("log_type", result.MsgType).Info(result.Msg)
	}

	if result.Snapshot {
		s.refreshSnapshot()
		snap := s.Snapshot()
		s.Hub.SendTo(req.Subscriber, api.ServerMessage{
			Type:     api.MsgSnapshot,
			Frame:    snap.Frame,
			Snapshot: &snap,
		})
	}
}

func (s *BattleService) replyError(subscriber, msg string) {
	s.Hub.SendTo(subscriber, api.ServerMessage{
		Type:  api.MsgError,
		Frame: s.battle.Frame(),
		Error: msg,
	})
}

func (s *BattleService) refreshSnapshot() {
	snap := BuildSnapshot(s.battle)
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
}
