package domain

import "strings"

// Team - сторона конфликта
type Team uint8

const (
	TeamNone Team = iota
	TeamAlly
	TeamEnemy
)

var teamStringToValue = map[string]Team{
	"ALLY":   TeamAlly,
	"PLAYER": TeamAlly,
	"ENEMY":  TeamEnemy,
}

var teamValueToString = map[Team]string{
	TeamAlly:  "ALLY",
	TeamEnemy: "ENEMY",
}

// ParseTeam конвертирует строку (из YAML/JSON) в Team
func ParseTeam(s string) Team {
	if val, ok := teamStringToValue[strings.ToUpper(s)]; ok {
		return val
	}
	return TeamNone
}

func (t Team) String() string {
	if val, ok := teamValueToString[t]; ok {
		return val
	}
	return "NONE"
}

// Opponent возвращает противоположную сторону
func (t Team) Opponent() Team {
	switch t {
	case TeamAlly:
		return TeamEnemy
	case TeamEnemy:
		return TeamAlly
	}
	return TeamNone
}

// AttackDirection - в каких направлениях юнит может бить
type AttackDirection uint8

const (
	DirectionCardinal AttackDirection = iota // 4 стороны
	DirectionEightWay                        // 4 стороны + диагонали
)

var directionStringToValue = map[string]AttackDirection{
	"CARDINAL":  DirectionCardinal,
	"EIGHT_WAY": DirectionEightWay,
	"EIGHTWAY":  DirectionEightWay,
}

func ParseAttackDirection(s string) AttackDirection {
	if val, ok := directionStringToValue[strings.ToUpper(s)]; ok {
		return val
	}
	return DirectionCardinal
}

func (d AttackDirection) String() string {
	if d == DirectionEightWay {
		return "EIGHT_WAY"
	}
	return "CARDINAL"
}

// AttackKind - тип огня
type AttackKind uint8

const (
	AttackDirect   AttackKind = iota // прямой: нужна линия видимости
	AttackIndirect                   // навесной: стреляет через препятствия
)

func ParseAttackKind(s string) AttackKind {
	if strings.ToUpper(s) == "INDIRECT" {
		return AttackIndirect
	}
	return AttackDirect
}

func (k AttackKind) String() string {
	if k == AttackIndirect {
		return "INDIRECT"
	}
	return "DIRECT"
}

// Направления шага
var (
	CardinalDirections = [4]Position{
		{X: 0, Y: 1},
		{X: 0, Y: -1},
		{X: 1, Y: 0},
		{X: -1, Y: 0},
	}
	EightWayDirections = [8]Position{
		{X: 0, Y: 1},
		{X: 0, Y: -1},
		{X: 1, Y: 0},
		{X: -1, Y: 0},
		{X: 1, Y: 1},
		{X: -1, Y: 1},
		{X: 1, Y: -1},
		{X: -1, Y: -1},
	}
)

// Directions возвращает единичные векторы для режима
func Directions(diagonal bool) []Position {
	if diagonal {
		return EightWayDirections[:]
	}
	return CardinalDirections[:]
}
