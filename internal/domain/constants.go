package domain

// Стоимость клетки
const (
	DefaultTileCost uint8 = 1
	MaxTileCost     uint8 = 255
)

// Параметры юнитов по умолчанию
const (
	DefaultMovement = 3
	DefaultAttacks  = 1
)
