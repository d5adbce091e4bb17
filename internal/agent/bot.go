package agent

import (
	"context"
	"encoding/json"
	"time"

	"tactics-server/internal/domain"
	"tactics-server/internal/engine"
	"tactics-server/internal/systems"
	"tactics-server/pkg/api"
	"tactics-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Bot - игрок-компьютер, который ведет одну сторону боя так же, как
// внешний клиент: читает опубликованный слепок и шлет команды в сервис.
//
// Жизненный цикл:
//  1. NewBot -> регистрация в хабе, личный канал для завершений и ошибок.
//  2. Run -> опрос слепка; когда ход нашей стороны и очередь пуста, планируем раунд.
//  3. Каждая отправленная команда ждет завершения (или ошибки), прежде чем
//     бот посмотрит на поле снова.
//  4. Когда планировать нечего или раунды кончились - END_TURN.
type Bot struct {
	ID      string
	Team    domain.Team
	Service *engine.BattleService
	Inbox   chan api.ServerMessage

	// PollInterval - как часто бот смотрит на слепок
	PollInterval time.Duration
	// MaxRounds - сколько раз за ход бот перепланирует
	MaxRounds int

	pending   int
	planFrame uint64
	// awaitTotal - сколько завершенных команд должен показать слепок,
	// чтобы в нем уже были видны результаты нашего раунда
	awaitTotal uint64
	turnNo     int
	rounds     int

	log *logrus.Entry
}

func NewBot(id string, team domain.Team, service *engine.BattleService) *Bot {
	return &Bot{
		ID:           id,
		Team:         team,
		Service:      service,
		Inbox:        service.Hub.Register(id),
		PollInterval: 50 * time.Millisecond,
		MaxRounds:    2,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "bot",
			"bot_id":    id,
			"team":      team.String(),
		}),
	}
}

// Run крутит бота, пока ctx не отменен
func (b *Bot) Run(ctx context.Context) error {
	defer b.Service.Hub.Unregister(b.ID)

	ticker := time.NewTicker(b.PollInterval)
	defer ticker.Stop()

	b.log.Info("Bot started")
	for {
		select {
		case <-ctx.Done():
			b.log.Info("Bot stopped")
			return nil
		case msg, ok := <-b.Inbox:
			if !ok {
				return nil
			}
			b.observe(msg)
		case <-ticker.C:
			b.poll(b.Service.Snapshot())
		}
	}
}

// observe считает завершения своих команд
func (b *Bot) observe(msg api.ServerMessage) {
	switch msg.Type {
	case api.MsgCompletion:
		id, err := domain.ParseUnitID(msg.Completion.UnitID)
		if err == nil && id.Team() == b.Team && b.pending > 0 {
			b.pending--
		}
	case api.MsgError:
		b.log.WithField("error", msg.Error).Debug("Command rejected")
		if b.pending > 0 {
			b.pending--
			b.awaitTotal--
		}
	}
}

// poll решает, пора ли действовать. Слепок должен быть свежее последнего
// плана, иначе бот увидит поле до исполнения своих же команд.
func (b *Bot) poll(snap api.SnapshotView) {
	if b.pending > 0 || snap.Paused || len(snap.Queue) > 0 {
		return
	}
	if domain.ParseTeam(snap.Turn) != b.Team {
		return
	}
	if b.planFrame != 0 && snap.Frame <= b.planFrame {
		return
	}
	if snap.Stats.Total < b.awaitTotal {
		return
	}

	if snap.TurnNo != b.turnNo {
		b.turnNo = snap.TurnNo
		b.rounds = 0
	}
	b.planFrame = snap.Frame
	b.awaitTotal = snap.Stats.Total

	if b.rounds < b.MaxRounds {
		b.rounds++
		if sent := b.playRound(snap); sent > 0 {
			return
		}
	}

	b.log.WithField("turn", snap.TurnNo).Debug("Nothing to do, ending turn")
	b.send(domain.ActionEndTurn, "", nil)
}

// playRound восстанавливает поле из слепка и прогоняет ИИ по своим юнитам
func (b *Bot) playRound(snap api.SnapshotView) int {
	g := newSnapshotGrid(snap)

	var opponents []domain.Position
	var mine []*domain.Unit
	for _, uv := range snap.Units {
		u, err := toUnit(uv)
		if err != nil || u.IsDead {
			continue
		}
		if u.Team == b.Team {
			mine = append(mine, u)
		} else {
			opponents = append(opponents, u.Pos)
		}
	}

	sent := 0
	for _, u := range mine {
		decision := systems.ComputeEnemyIntent(g, u, opponents)
		target := api.TilePayload{X: decision.Target.X, Y: decision.Target.Y}

		switch decision.Action {
		case domain.ActionAttack:
			b.send(domain.ActionAttack, u.ID.String(), target)
			sent++
		case domain.ActionMove:
			g.reserve(decision.Target)
			b.send(domain.ActionMove, u.ID.String(), target)
			sent++
		}
	}

	b.log.WithFields(logrus.Fields{
		"turn":  snap.TurnNo,
		"round": b.rounds,
		"sent":  sent,
	}).Debug("Round planned")
	return sent
}

func (b *Bot) send(action domain.ActionType, token string, payload any) {
	cmd := api.ClientCommand{Action: action.String(), Token: token}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			b.log.WithError(err).Error("Error marshalling payload")
			return
		}
		cmd.Payload = raw
	}

	if !b.Service.ProcessCommand(b.ID, cmd) {
		return
	}
	if action == domain.ActionMove || action == domain.ActionAttack {
		b.pending++
		b.awaitTotal++
	}
}

// toUnit конвертирует UnitView (DTO) в доменный юнит для систем ИИ
func toUnit(v api.UnitView) (*domain.Unit, error) {
	id, err := domain.ParseUnitID(v.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Unit{
		ID:   id,
		Name: v.Name,
		Team: domain.ParseTeam(v.Team),
		Pos:  domain.Pos(v.Pos.X, v.Pos.Y),
		Stats: domain.StatsComponent{
			HP: v.HP, MaxHP: v.MaxHP, Shield: v.Shield, MaxShield: v.MaxShield,
		},
		AP: domain.ActionPoints{Movement: v.Movement, Attacks: v.Attacks},
		Attack: domain.AttackProfile{
			Direction: domain.ParseAttackDirection(v.AttackDirection),
			Kind:      domain.ParseAttackKind(v.AttackKind),
			Range:     domain.AttackRange{Min: v.MinRange, Max: v.MaxRange},
		},
		Move: domain.MovePolicy{
			AllowDiagonal:     v.AllowDiagonal,
			PassThroughAllies: v.PassThroughAllies,
			PassThroughOthers: v.PassThroughOthers,
		},
		IsDead: v.IsDead,
	}, nil
}
