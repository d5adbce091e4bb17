package domain

import (
	"fmt"
	"time"
)

// Приоритеты по умолчанию: атаки разрешаются раньше перемещений в том же кадре.
const (
	PriorityMove   = 10
	PriorityAttack = 20
)

// CommandKind - закрытое объединение видов команд.
// Реализуют только MoveCommand и AttackCommand; исполнитель делает по ним
// исчерпывающий type switch.
type CommandKind interface {
	Action() ActionType
	isCommandKind()
}

// MoveCommand - переместить юнит из From в To
type MoveCommand struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

func (MoveCommand) Action() ActionType { return ActionMove }
func (MoveCommand) isCommandKind()     {}

// AttackCommand - атаковать клетку Target, стоя на From
type AttackCommand struct {
	From   Position `json:"from"`
	Target Position `json:"target"`
}

func (AttackCommand) Action() ActionType { return ActionAttack }
func (AttackCommand) isCommandKind()     {}

// Command - намерение игрока (или ИИ), ждущее исполнения в очереди
type Command struct {
	ID         uint64      `json:"id"`
	Unit       UnitID      `json:"unit"`
	Kind       CommandKind `json:"kind"`
	Priority   int         `json:"priority"`
	EnqueuedAt time.Time   `json:"enqueuedAt"`
}

// NewMoveCommand создает команду перемещения с приоритетом по умолчанию
func NewMoveCommand(unit UnitID, from, to Position) Command {
	return Command{
		Unit:     unit,
		Kind:     MoveCommand{From: from, To: to},
		Priority: PriorityMove,
	}
}

// NewAttackCommand создает команду атаки с приоритетом по умолчанию
func NewAttackCommand(unit UnitID, from, target Position) Command {
	return Command{
		Unit:     unit,
		Kind:     AttackCommand{From: from, Target: target},
		Priority: PriorityAttack,
	}
}

func (c Command) String() string {
	switch k := c.Kind.(type) {
	case MoveCommand:
		return fmt.Sprintf("#%d MOVE %s %v->%v (p=%d)", c.ID, c.Unit, k.From, k.To, c.Priority)
	case AttackCommand:
		return fmt.Sprintf("#%d ATTACK %s %v->%v (p=%d)", c.ID, c.Unit, k.From, k.Target, c.Priority)
	}
	return fmt.Sprintf("#%d UNKNOWN %s", c.ID, c.Unit)
}

// ResultStatus - терминальное состояние команды
type ResultStatus uint8

const (
	StatusSuccess ResultStatus = iota
	StatusFailed
	StatusCancelled
)

func (s ResultStatus) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusFailed:
		return "FAILED"
	case StatusCancelled:
		return "CANCELLED"
	}
	return "UNKNOWN"
}

// Причины неудач. Ядро только отдает строку, показывать ее - забота UI.
const (
	ReasonTimedOut           = "timed out"
	ReasonUnitNotFound       = "Unit not found"
	ReasonUnitNotAtSource    = "Unit is not at source position"
	ReasonNoMovement         = "Insufficient movement range"
	ReasonNotReachable       = "Target position not reachable"
	ReasonOutOfBounds        = "Destination out of bounds"
	ReasonBlocked            = "Destination occupied"
	ReasonEmptyFrom          = "No unit at source position"
	ReasonInvalidAttack      = "Invalid attack position"
	ReasonNoDefender         = "No enemy at target position"
	ReasonDefenderNotFound   = "Target unit not found"
	ReasonNoAttacks          = "No attacks remaining"
	ReasonUnknownCommandKind = "Unknown command kind"
)

// CommandResult - итог исполнения команды
type CommandResult struct {
	Status ResultStatus `json:"status"`
	Reason string       `json:"reason,omitempty"`
}

func Success() CommandResult {
	return CommandResult{Status: StatusSuccess}
}

func Failed(reason string) CommandResult {
	return CommandResult{Status: StatusFailed, Reason: reason}
}

// Cancelled - команда снята по таймауту до исполнения
func Cancelled() CommandResult {
	return CommandResult{Status: StatusCancelled, Reason: ReasonTimedOut}
}

func (r CommandResult) IsSuccess() bool {
	return r.Status == StatusSuccess
}

func (r CommandResult) String() string {
	if r.Reason == "" {
		return r.Status.String()
	}
	return r.Status.String() + ": " + r.Reason
}
