package engine

import "tactics-server/internal/domain"

// IntentKind - семантическая классификация клика по клетке,
// как ее видит коллаборатор ввода.
type IntentKind uint8

const (
	IntentOutside    IntentKind = iota // вне поля
	IntentSelf                         // выбранный юнит
	IntentFriendly                     // юнит стороны, чей сейчас ход
	IntentEnemy                        // юнит другой стороны
	IntentMoveTile                     // пустая клетка из множества перемещения
	IntentAttackTile                   // пустая клетка в зоне поражения
	IntentEmptyTile                    // пустая клетка или препятствие вне оверлеев
)

var intentKindToString = map[IntentKind]string{
	IntentOutside:    "OUTSIDE",
	IntentSelf:       "SELF",
	IntentFriendly:   "FRIENDLY",
	IntentEnemy:      "ENEMY",
	IntentMoveTile:   "MOVE_TILE",
	IntentAttackTile: "ATTACK_TILE",
	IntentEmptyTile:  "EMPTY_TILE",
}

func (k IntentKind) String() string {
	if val, ok := intentKindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

// IntentOutcome - во что превратился клик
type IntentOutcome struct {
	Kind     IntentKind
	Selected domain.UnitID   // выбор после обработки
	Command  *domain.Command // поставленная в очередь команда, если была
}
