package utils

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	a := NewID("ws_")
	b := NewID("ws_")

	if !strings.HasPrefix(a, "ws_") || len(a) != len("ws_")+16 {
		t.Errorf("NewID() = %q, want ws_ + 16 hex chars", a)
	}
	if a == b {
		t.Errorf("two calls returned the same id %q", a)
	}
}

func TestStringToSeed(t *testing.T) {
	if StringToSeed("level_1") != StringToSeed("level_1") {
		t.Error("seed is not stable for the same string")
	}
	if StringToSeed("level_1") == StringToSeed("level_2") {
		t.Error("different strings produced the same seed")
	}
}
