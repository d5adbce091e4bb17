package domain

// OccupancyEvent - изменение карты занятости. Эти события публикует
// исполнитель команд, а фаза синхронизации сворачивает их в SpatialIndex.
type OccupancyEvent interface {
	isOccupancyEvent()
}

// UnitSpawned - юнит появился на клетке
type UnitSpawned struct {
	Unit     UnitID   `json:"unit"`
	Position Position `json:"position"`
	Team     Team     `json:"team"`
}

// UnitDespawned - юнит убран с клетки (смерть, отступление)
type UnitDespawned struct {
	Unit     UnitID   `json:"unit"`
	Position Position `json:"position"`
}

// TileMoved - юнит переместился
type TileMoved struct {
	Unit UnitID   `json:"unit"`
	From Position `json:"from"`
	To   Position `json:"to"`
	Team Team     `json:"team"`
}

// TileBlockedChanged - клетка стала (не)проходимой
type TileBlockedChanged struct {
	Position Position `json:"position"`
	Blocked  bool     `json:"blocked"`
}

// TileCostChanged - изменилась стоимость входа в клетку
type TileCostChanged struct {
	Position Position `json:"position"`
	Cost     uint8    `json:"cost"`
}

func (UnitSpawned) isOccupancyEvent()        {}
func (UnitDespawned) isOccupancyEvent()      {}
func (TileMoved) isOccupancyEvent()          {}
func (TileBlockedChanged) isOccupancyEvent() {}
func (TileCostChanged) isOccupancyEvent()    {}

// CommandCompleted - публикуется на каждом терминальном переходе команды
type CommandCompleted struct {
	Unit    UnitID        `json:"unit"`
	Command Command       `json:"command"`
	Result  CommandResult `json:"result"`
	Frame   uint64        `json:"frame"`
}
