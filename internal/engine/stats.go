package engine

import (
	"time"

	"tactics-server/internal/domain"
)

// Stats - агрегированная статистика исполнения команд за бой
type Stats struct {
	Total     uint64 `json:"total"`
	Succeeded uint64 `json:"succeeded"`
	Failed    uint64 `json:"failed"`
	Cancelled uint64 `json:"cancelled"`

	// AvgExecutionMs - скользящее среднее времени исполнения (только исполненные команды)
	AvgExecutionMs float64 `json:"avgExecutionMs"`

	// PeakPerFrame - максимум исполненных команд за один кадр
	PeakPerFrame int `json:"peakPerFrame"`

	Frames uint64 `json:"frames"`

	executed uint64
}

// Record учитывает терминальный переход команды
func (s *Stats) Record(result domain.CommandResult, elapsed time.Duration) {
	s.Total++
	switch result.Status {
	case domain.StatusSuccess:
		s.Succeeded++
	case domain.StatusFailed:
		s.Failed++
	case domain.StatusCancelled:
		s.Cancelled++
		return
	}

	s.executed++
	ms := float64(elapsed) / float64(time.Millisecond)
	s.AvgExecutionMs += (ms - s.AvgExecutionMs) / float64(s.executed)
}

// RecordFrame учитывает кадр с executed исполненными командами
func (s *Stats) RecordFrame(executed int) {
	s.Frames++
	s.PeakPerFrame = max(s.PeakPerFrame, executed)
}

// SuccessRate - доля успешных среди всех завершенных команд
func (s *Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Total)
}

func (s *Stats) Reset() {
	*s = Stats{}
}
