package utils

import (
	"crypto/rand"
	"encoding/hex"
	"hash/fnv"
)

// NewID создает случайный ID с префиксом (id подписчиков, сессий)
func NewID(prefix string) string {
	b := make([]byte, 8) // 16 символов hex
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return prefix + hex.EncodeToString(b)
}

// StringToSeed превращает строку в сид для math/rand.
// Одна и та же строка всегда дает один и тот же сид.
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
