package engine

import (
	"testing"

	"tactics-server/internal/domain"
)

func TestPathCache_PutGet(t *testing.T) {
	c := NewPathCache(4)
	from, to := domain.Pos(0, 0), domain.Pos(2, 1)

	if _, ok := c.Get(from, to, 3); ok {
		t.Fatal("empty cache returned an entry")
	}

	c.Put(from, to, 3, PathEntry{Valid: true, Steps: 3})
	e, ok := c.Get(from, to, 3)
	if !ok || !e.Valid || e.Steps != 3 {
		t.Errorf("Get() = %+v, %v; want valid entry with 3 steps", e, ok)
	}

	// Другой бюджет - другой ключ
	if _, ok := c.Get(from, to, 2); ok {
		t.Error("entry leaked across budgets")
	}

	if got := c.HitRate(); got != 1.0/3.0 {
		t.Errorf("HitRate() = %v, want 1/3", got)
	}
}

func TestPathCache_EvictsOldest(t *testing.T) {
	c := NewPathCache(2)
	c.Put(domain.Pos(0, 0), domain.Pos(1, 0), 3, PathEntry{Valid: true, Steps: 1})
	c.Put(domain.Pos(0, 0), domain.Pos(2, 0), 3, PathEntry{Valid: true, Steps: 2})

	// Перезапись существующего ключа не вытесняет
	c.Put(domain.Pos(0, 0), domain.Pos(1, 0), 3, PathEntry{Valid: false})
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	c.Put(domain.Pos(0, 0), domain.Pos(3, 0), 3, PathEntry{Valid: true, Steps: 3})
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get(domain.Pos(0, 0), domain.Pos(1, 0), 3); ok {
		t.Error("oldest entry was not evicted")
	}
	if _, ok := c.Get(domain.Pos(0, 0), domain.Pos(3, 0), 3); !ok {
		t.Error("newest entry missing")
	}
}

func TestPathCache_InvalidatePosition(t *testing.T) {
	c := NewPathCache(10)
	c.Put(domain.Pos(0, 0), domain.Pos(1, 1), 3, PathEntry{Valid: true, Steps: 2})
	c.Put(domain.Pos(1, 1), domain.Pos(2, 2), 3, PathEntry{Valid: true, Steps: 2})
	c.Put(domain.Pos(5, 5), domain.Pos(6, 6), 3, PathEntry{Valid: true, Steps: 2})

	if removed := c.InvalidatePosition(domain.Pos(1, 1)); removed != 2 {
		t.Errorf("InvalidatePosition() removed %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	// После инвалидации порядок вытеснения не ломается
	c.Put(domain.Pos(7, 7), domain.Pos(8, 8), 3, PathEntry{Valid: true, Steps: 2})
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
}

func TestPathCache_Disabled(t *testing.T) {
	c := NewPathCache(0)
	c.Put(domain.Pos(0, 0), domain.Pos(1, 0), 1, PathEntry{Valid: true, Steps: 1})
	if c.Len() != 0 {
		t.Errorf("disabled cache stored %d entries", c.Len())
	}
}

func TestPathCache_TouchExpiresEntries(t *testing.T) {
	c := NewPathCache(4)
	from, to := domain.Pos(0, 0), domain.Pos(2, 0)
	c.Put(from, to, 3, PathEntry{Valid: false})

	c.Touch()
	if _, ok := c.Get(from, to, 3); ok {
		t.Fatal("entry from an older epoch was returned")
	}

	// Свежая запись перезаписывает устаревшую на том же ключе
	c.Put(from, to, 3, PathEntry{Valid: true, Steps: 2})
	e, ok := c.Get(from, to, 3)
	if !ok || !e.Valid || e.Steps != 2 {
		t.Errorf("Get() = %+v, %v; want fresh valid entry", e, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}
