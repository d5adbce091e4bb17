package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// UnitID - упакованный дескриптор юнита (Team + Index).
// Сам по себе не несет данных: статы, команда и позиция ищутся по нему снаружи.
type UnitID uint64

// NilUnitID - отсутствие юнита.
const NilUnitID UnitID = 0

// Конфигурация битов
const (
	bitsIndex = 48
	bitsTeam  = 8

	shiftTeam = bitsIndex

	maskIndex = (1 << bitsIndex) - 1 // 0x0000FFFFFFFFFFFF
	maskTeam  = (1 << bitsTeam) - 1  // 0xFF
)

// PackUnitID создает ID из команды и порядкового номера.
// Индекс 0 зарезервирован, чтобы ID никогда не совпал с NilUnitID.
func PackUnitID(team Team, index uint64) UnitID {
	id := (index + 1) & maskIndex
	id |= (uint64(team) & maskTeam) << shiftTeam
	return UnitID(id)
}

// Team возвращает команду, зашитую в ID при создании.
func (id UnitID) Team() Team {
	return Team((id >> shiftTeam) & maskTeam)
}

func (id UnitID) Index() uint64 {
	return uint64(id&maskIndex) - 1
}

func (id UnitID) IsNil() bool {
	return id == NilUnitID
}

// MarshalJSON сериализует ID в строку, так как JS теряет точность для больших int64
func (id UnitID) MarshalJSON() ([]byte, error) {
	s := strconv.FormatUint(uint64(id), 10)
	return []byte(`"` + s + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON
func (id *UnitID) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*id = UnitID(val)
	return nil
}

// String для логов: [Team:Idx]
func (id UnitID) String() string {
	if id.IsNil() {
		return "[nil]"
	}
	return fmt.Sprintf("[%s:%d]", id.Team(), id.Index())
}

// ParseUnitID принимает оба представления: "[ENEMY:3]" из логов/UI и
// числовую строку из JSON.
func ParseUnitID(s string) (UnitID, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		teamStr, idxStr, ok := strings.Cut(s[1:len(s)-1], ":")
		if !ok {
			return NilUnitID, fmt.Errorf("malformed unit id %q", s)
		}
		team := ParseTeam(teamStr)
		if team == TeamNone {
			return NilUnitID, fmt.Errorf("unknown team in unit id %q", s)
		}
		idx, err := strconv.ParseUint(idxStr, 10, 64)
		if err != nil {
			return NilUnitID, fmt.Errorf("bad index in unit id %q: %w", s, err)
		}
		return PackUnitID(team, idx), nil
	}

	val, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NilUnitID, fmt.Errorf("bad unit id %q: %w", s, err)
	}
	return UnitID(val), nil
}
