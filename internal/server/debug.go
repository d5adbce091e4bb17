package server

import (
	"encoding/json"
	"net/http"

	"tactics-server/internal/engine"
)

// DebugHandler отдает опубликованное состояние боя.
// Читает только слепок сервиса, поэтому безопасен при работающем цикле.
type DebugHandler struct {
	Service *engine.BattleService
}

func NewDebugHandler(s *engine.BattleService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/snapshot", h.handleSnapshot)
	mux.HandleFunc("/debug/stats", h.handleStats)
	mux.HandleFunc("/debug/queue", h.handleQueue)
	mux.HandleFunc("/debug/occupancy", h.handleOccupancy)
	mux.HandleFunc("/debug/validity", h.handleValidity)
	mux.HandleFunc("/debug/hub", h.handleHub)
}

func (h *DebugHandler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Snapshot())
}

// /debug/stats - счетчики исполнения команд
func (h *DebugHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Snapshot().Stats)
}

// /debug/queue - команды в порядке извлечения
func (h *DebugHandler) handleQueue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Snapshot().Queue)
}

// /debug/occupancy - непустые клетки карты занятости
func (h *DebugHandler) handleOccupancy(w http.ResponseWriter, r *http.Request) {
	snap := h.Service.Snapshot()
	writeJSON(w, map[string]any{
		"frame":   snap.Frame,
		"version": snap.Version,
		"grid":    snap.Grid,
		"tiles":   snap.Tiles,
	})
}

// /debug/validity - опубликованные множества выбранного юнита
func (h *DebugHandler) handleValidity(w http.ResponseWriter, r *http.Request) {
	v := h.Service.Snapshot().Validity
	if v == nil {
		http.Error(w, "No unit selected", http.StatusNotFound)
		return
	}
	writeJSON(w, v)
}

func (h *DebugHandler) handleHub(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"subscribers": h.Service.Hub.SubscriberCount(),
		"dropped":     h.Service.Hub.Dropped(),
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
