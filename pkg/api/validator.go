package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

// Validate отсекает заведомо невалидные координаты. Выход за правую/нижнюю
// границу поля проверяет ядро: оно знает размеры.
func (p TilePayload) Validate() error {
	if p.X < 0 || p.Y < 0 {
		return errors.New("tile coordinates cannot be negative")
	}
	return nil
}

func (p UnitPayload) Validate() error {
	if p.UnitID == "" {
		return errors.New("unitId is required")
	}
	return nil
}
