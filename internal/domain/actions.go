package domain

import "strings"

// ActionType - Внутренний числовой идентификатор вида команды
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionMove
	ActionAttack
	ActionSelect   // выбрать юнит
	ActionDeselect // снять выбор
	ActionClick    // классифицированный клик по клетке
	ActionEndTurn
	ActionInit // запросить снимок, не тратит ход
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"MOVE":     ActionMove,
	"ATTACK":   ActionAttack,
	"SELECT":   ActionSelect,
	"DESELECT": ActionDeselect,
	"CLICK":    ActionClick,
	"END_TURN": ActionEndTurn,
	"INIT":     ActionInit,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionMove:     "MOVE",
	ActionAttack:   "ATTACK",
	ActionSelect:   "SELECT",
	ActionDeselect: "DESELECT",
	ActionClick:    "CLICK",
	ActionEndTurn:  "END_TURN",
	ActionInit:     "INIT",
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}
