package engine

import "tactics-server/internal/domain"

type pathKey struct {
	From   domain.Position
	To     domain.Position
	Budget int
}

// PathEntry - закэшированный результат реального поиска пути
type PathEntry struct {
	Valid bool
	Steps int
}

type cachedPath struct {
	PathEntry
	epoch uint64
}

// PathCache - ограниченный кэш валидности пути (from, to, budget).
// При переполнении вытесняется самая старая запись.
// Записи появляются только из результата BFS, сам по себе кэш ничего не решает.
// Любая мутация занятости сдвигает эпоху: записи старой эпохи считаются промахом,
// потому что путь мог освободиться или перекрыться на промежуточной клетке.
type PathCache struct {
	capacity int
	entries  map[pathKey]cachedPath
	order    []pathKey
	epoch    uint64

	hits   uint64
	misses uint64
}

// NewPathCache создает кэш. capacity <= 0 отключает кэширование.
func NewPathCache(capacity int) *PathCache {
	return &PathCache{
		capacity: capacity,
		entries:  make(map[pathKey]cachedPath),
	}
}

func (c *PathCache) Get(from, to domain.Position, budget int) (PathEntry, bool) {
	e, ok := c.entries[pathKey{From: from, To: to, Budget: budget}]
	if !ok || e.epoch != c.epoch {
		c.misses++
		return PathEntry{}, false
	}
	c.hits++
	return e.PathEntry, true
}

func (c *PathCache) Put(from, to domain.Position, budget int, entry PathEntry) {
	if c.capacity <= 0 {
		return
	}
	key := pathKey{From: from, To: to, Budget: budget}
	stamped := cachedPath{PathEntry: entry, epoch: c.epoch}
	if _, ok := c.entries[key]; ok {
		c.entries[key] = stamped
		return
	}

	for len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = stamped
	c.order = append(c.order, key)
}

// InvalidatePosition удаляет все записи, у которых p - начало или конец пути.
// Возвращает число удаленных записей.
func (c *PathCache) InvalidatePosition(p domain.Position) int {
	kept := c.order[:0]
	removed := 0
	for _, key := range c.order {
		if key.From == p || key.To == p {
			delete(c.entries, key)
			removed++
			continue
		}
		kept = append(kept, key)
	}
	c.order = kept
	return removed
}

// Touch отмечает мутацию занятости: все текущие записи устаревают
func (c *PathCache) Touch() {
	c.epoch++
}

func (c *PathCache) Clear() {
	clear(c.entries)
	c.order = c.order[:0]
}

func (c *PathCache) Len() int {
	return len(c.entries)
}

// HitRate - доля попаданий среди всех Get
func (c *PathCache) HitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}
