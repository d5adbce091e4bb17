package engine

import (
	"container/heap"
	"slices"
	"tactics-server/internal/domain"
	"time"
)

// queueItem обертка для элемента очереди приоритетов
type queueItem struct {
	Value domain.Command
	Index int // Индекс в куче (нужен для heap.Remove)
}

// commandHeap реализует heap.Interface.
// MaxHeap по приоритету; при равенстве раньше идет меньший ID.
type commandHeap []*queueItem

func (pq commandHeap) Len() int { return len(pq) }

func (pq commandHeap) Less(i, j int) bool {
	if pq[i].Value.Priority != pq[j].Value.Priority {
		return pq[i].Value.Priority > pq[j].Value.Priority
	}
	return pq[i].Value.ID < pq[j].Value.ID
}

func (pq commandHeap) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *commandHeap) Push(x any) {
	n := len(*pq)
	item := x.(*queueItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *commandHeap) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // избегаем утечки памяти
	item.Index = -1 // для безопасности
	*pq = old[0 : n-1]
	return item
}

// CommandQueue - очередь ожидающих команд, упорядоченная по приоритету.
type CommandQueue struct {
	items  commandHeap
	nextID uint64
}

func NewCommandQueue() *CommandQueue {
	q := &CommandQueue{items: make(commandHeap, 0)}
	heap.Init(&q.items)
	return q
}

// Push ставит команду в очередь, выдавая ей ID. Возвращает сохраненную копию.
func (q *CommandQueue) Push(cmd domain.Command) domain.Command {
	q.nextID++
	cmd.ID = q.nextID
	heap.Push(&q.items, &queueItem{Value: cmd})
	return cmd
}

// Pop извлекает команду с наивысшим приоритетом
func (q *CommandQueue) Pop() (domain.Command, bool) {
	if q.items.Len() == 0 {
		return domain.Command{}, false
	}
	item := heap.Pop(&q.items).(*queueItem)
	return item.Value, true
}

// Peek возвращает следующую команду, не извлекая ее
func (q *CommandQueue) Peek() (domain.Command, bool) {
	if q.items.Len() == 0 {
		return domain.Command{}, false
	}
	return q.items[0].Value, true
}

func (q *CommandQueue) Len() int {
	return q.items.Len()
}

// RemoveExpired снимает команды, ждущие дольше timeout к моменту now.
// Возвращает снятые команды в порядке приоритета.
func (q *CommandQueue) RemoveExpired(now time.Time, timeout time.Duration) []domain.Command {
	var expired []*queueItem
	for _, item := range q.items {
		if now.Sub(item.Value.EnqueuedAt) > timeout {
			expired = append(expired, item)
		}
	}
	if len(expired) == 0 {
		return nil
	}

	// Индексы меняются при каждом Remove, поэтому удаляем по актуальному Index
	for _, item := range expired {
		heap.Remove(&q.items, item.Index)
	}

	result := make([]domain.Command, 0, len(expired))
	for _, item := range expired {
		result = append(result, item.Value)
	}
	sortCommands(result)
	return result
}

// RemoveUnit убирает все команды юнита (например, после его гибели)
func (q *CommandQueue) RemoveUnit(id domain.UnitID) []domain.Command {
	var removed []domain.Command
	for i := 0; i < q.items.Len(); {
		if q.items[i].Value.Unit == id {
			removed = append(removed, heap.Remove(&q.items, i).(*queueItem).Value)
			i = 0
			continue
		}
		i++
	}
	sortCommands(removed)
	return removed
}

// Snapshot возвращает копию очереди в порядке исполнения
func (q *CommandQueue) Snapshot() []domain.Command {
	// Инициализируем как пустой слайс, а не nil. Тогда в JSON это будет "[]", а не "null"
	result := make([]domain.Command, 0, q.items.Len())
	for _, item := range q.items {
		result = append(result, item.Value)
	}
	sortCommands(result)
	return result
}

func sortCommands(cmds []domain.Command) {
	slices.SortFunc(cmds, func(a, b domain.Command) int {
		if a.Priority != b.Priority {
			return b.Priority - a.Priority
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}
