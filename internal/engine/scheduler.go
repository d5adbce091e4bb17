package engine

import (
	"time"

	"tactics-server/internal/domain"
	"tactics-server/internal/grid"
	"tactics-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// OccupancyListener получает события карты занятости в фазе публикации
type OccupancyListener func(events []domain.OccupancyEvent)

// CompletionListener получает событие на каждом терминальном переходе команды
type CompletionListener func(ev domain.CommandCompleted)

// SelectionSource - откуда планировщик узнает выбранный юнит
type SelectionSource interface {
	SelectedUnit() *domain.Unit
}

// FrameReport - что произошло за кадр
type FrameReport struct {
	Frame     uint64 `json:"frame"`
	Skipped   bool   `json:"skipped"`
	Cancelled int    `json:"cancelled"`
	Executed  int    `json:"executed"`
	Events    int    `json:"events"`
	Mutations int    `json:"mutations"`
	Version   uint64 `json:"version"`
	Refreshed bool   `json:"refreshed"`
}

// Scheduler раскладывает кадр на фиксированные фазы:
// снятие просроченных -> исполнение -> публикация -> синхронизация индекса ->
// пересчет множеств для оверлеев.
type Scheduler struct {
	cfg       Config
	queue     *CommandQueue
	executor  *Executor
	index     *grid.SpatialIndex
	validity  *ValidityPublisher
	stats     *Stats
	selection SelectionSource

	occupancyListeners  []OccupancyListener
	completionListeners []CompletionListener

	frame  uint64
	paused bool
}

func NewScheduler(cfg Config, queue *CommandQueue, executor *Executor, index *grid.SpatialIndex,
	validity *ValidityPublisher, stats *Stats, selection SelectionSource) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		queue:     queue,
		executor:  executor,
		index:     index,
		validity:  validity,
		stats:     stats,
		selection: selection,
	}
}

func (s *Scheduler) OnOccupancy(l OccupancyListener) {
	s.occupancyListeners = append(s.occupancyListeners, l)
}

func (s *Scheduler) OnCompletion(l CompletionListener) {
	s.completionListeners = append(s.completionListeners, l)
}

func (s *Scheduler) Frame() uint64 { return s.frame }
func (s *Scheduler) Paused() bool  { return s.paused }
func (s *Scheduler) Pause()        { s.paused = true }
func (s *Scheduler) Resume()       { s.paused = false }

// Tick прогоняет один кадр. now - время кадра (для таймаутов).
func (s *Scheduler) Tick(now time.Time) FrameReport {
	if s.paused {
		return FrameReport{Frame: s.frame, Skipped: true, Version: s.index.Version()}
	}
	s.frame++
	report := FrameReport{Frame: s.frame}

	// 1. Снимаем просроченные команды
	for _, cmd := range s.queue.RemoveExpired(now, s.cfg.CommandTimeout) {
		s.complete(cmd, domain.Cancelled(), 0)
		report.Cancelled++
	}

	// 2. Исполняем по приоритету, каждая команда видит эффекты предыдущих
	limit := s.cfg.CommandsPerFrame()
	for report.Executed < limit {
		cmd, ok := s.queue.Pop()
		if !ok {
			break
		}
		started := time.Now()
		result := s.executor.Execute(cmd)
		s.complete(cmd, result, time.Since(started))
		report.Executed++
	}
	s.stats.RecordFrame(report.Executed)

	// 3. Публикуем события карты
	events := s.executor.DrainEvents()
	report.Events = len(events)
	if len(events) > 0 {
		for _, l := range s.occupancyListeners {
			l(events)
		}
	}

	// 4. Синхронизируем индекс
	report.Mutations = grid.Sync(s.index, events)
	report.Version = s.index.Version()

	// 5. Калькуляторы читают уже обновленный индекс
	var selected *domain.Unit
	if s.selection != nil {
		selected = s.selection.SelectedUnit()
	}
	report.Refreshed = s.validity.Refresh(s.index, selected)

	if report.Executed > 0 || report.Cancelled > 0 {
		logger.Log.WithFields(logrus.Fields{
			"component": "scheduler",
			"frame":     report.Frame,
			"executed":  report.Executed,
			"cancelled": report.Cancelled,
			"events":    report.Events,
			"version":   report.Version,
			"queued":    s.queue.Len(),
		}).Debug("Frame processed.")
	}
	return report
}

func (s *Scheduler) complete(cmd domain.Command, result domain.CommandResult, elapsed time.Duration) {
	s.stats.Record(result, elapsed)
	ev := domain.CommandCompleted{
		Unit:    cmd.Unit,
		Command: cmd,
		Result:  result,
		Frame:   s.frame,
	}
	for _, l := range s.completionListeners {
		l(ev)
	}
}
