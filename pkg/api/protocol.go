package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы сообщений сервера
const (
	MsgSnapshot   = "SNAPSHOT"   // полный слепок боя
	MsgCompletion = "COMPLETION" // команда достигла терминального состояния
	MsgStats      = "STATS"      // агрегированная статистика за кадр
	MsgError      = "ERROR"      // команда клиента отвергнута до постановки в очередь
)

// ServerMessage это корневой объект, который сервер отправляет наблюдателям.
// Заполнено только поле, соответствующее Type.
type ServerMessage struct {
	// Type тип сообщения (SNAPSHOT, COMPLETION, STATS, ERROR).
	Type string `json:"type"`

	// Frame номер кадра планировщика, на котором сообщение сформировано.
	Frame uint64 `json:"frame"`

	Snapshot   *SnapshotView   `json:"snapshot,omitempty"`
	Completion *CompletionView `json:"completion,omitempty"`
	Stats      *StatsView      `json:"stats,omitempty"`

	// Error текст ошибки для MsgError.
	Error string `json:"error,omitempty"`
}

// PositionDTO - координаты клетки
type PositionDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GridMeta содержит размеры поля
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// TileView - непустая клетка карты занятости
type TileView struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Content string `json:"content"` // UNIT, OBSTACLE
	UnitID  string `json:"unitId,omitempty"`
}

// UnitView - DTO юнита
type UnitView struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Team string      `json:"team"`
	Pos  PositionDTO `json:"pos"`

	HP        int  `json:"hp"`
	MaxHP     int  `json:"maxHp"`
	Shield    int  `json:"shield"`
	MaxShield int  `json:"maxShield"`
	IsDead    bool `json:"isDead"`

	Movement int `json:"movement"`
	Attacks  int `json:"attacks"`

	AllowDiagonal     bool `json:"allowDiagonal"`
	PassThroughAllies bool `json:"passThroughAllies"`
	PassThroughOthers bool `json:"passThroughOthers"`

	AttackDirection string `json:"attackDirection"`
	AttackKind      string `json:"attackKind"`
	MinRange        int    `json:"minRange"`
	MaxRange        int    `json:"maxRange"`
}

// ValidityView - опубликованные множества для оверлеев выбранного юнита
type ValidityView struct {
	UnitID      string        `json:"unitId,omitempty"`
	Version     uint64        `json:"version"`
	MoveTiles   []PositionDTO `json:"moveTiles"`
	AttackTiles []PositionDTO `json:"attackTiles"`
	Targets     []PositionDTO `json:"targets"`
}

// CommandView - команда в очереди или в событии завершения
type CommandView struct {
	ID       uint64      `json:"id"`
	UnitID   string      `json:"unitId"`
	Action   string      `json:"action"`
	From     PositionDTO `json:"from"`
	To       PositionDTO `json:"to"`
	Priority int         `json:"priority"`
}

// CompletionView - событие завершения команды
type CompletionView struct {
	UnitID  string      `json:"unitId"`
	Command CommandView `json:"command"`
	Status  string      `json:"status"` // SUCCESS, FAILED, CANCELLED
	Reason  string      `json:"reason,omitempty"`
}

// StatsView - агрегированная статистика исполнения команд
type StatsView struct {
	Total          uint64  `json:"total"`
	Succeeded      uint64  `json:"succeeded"`
	Failed         uint64  `json:"failed"`
	Cancelled      uint64  `json:"cancelled"`
	AvgExecutionMs float64 `json:"avgExecutionMs"`
	PeakPerFrame   int     `json:"peakPerFrame"`
	SuccessRate    float64 `json:"successRate"`
	Frames         uint64  `json:"frames"`
}

// SnapshotView - полный слепок боя для наблюдателей и отладки
type SnapshotView struct {
	Frame    uint64        `json:"frame"`
	Turn     string        `json:"turn"`
	TurnNo   int           `json:"turnNumber"`
	Version  uint64        `json:"version"`
	Paused   bool          `json:"paused"`
	Grid     GridMeta      `json:"grid"`
	Tiles    []TileView    `json:"tiles"`
	Units    []UnitView    `json:"units"`
	Queue    []CommandView `json:"queue"`
	Selected string        `json:"selected,omitempty"`
	Validity *ValidityView `json:"validity,omitempty"`
	Stats    StatsView     `json:"stats"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand - намерение, пришедшее от коллаборатора (UI, бот, тест).
// Token - ID юнита, от имени которого действует клиент (может быть пустым
// для SELECT/CLICK/END_TURN/INIT).
type ClientCommand struct {
	Action  string          `json:"action"`
	Token   string          `json:"token,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TilePayload - целевая клетка. Для MOVE, ATTACK, CLICK.
type TilePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// UnitPayload - выбор юнита. Для SELECT.
type UnitPayload struct {
	UnitID string `json:"unitId"`
}
