package domain

// StatsComponent - здоровье, щит и урон
type StatsComponent struct {
	HP        int `json:"hp"`
	MaxHP     int `json:"maxHp"`
	Shield    int `json:"shield"`
	MaxShield int `json:"maxShield"`
	Damage    int `json:"damage"`
}

// TakeDamage наносит урон: сначала щит, потом HP. HP не уходит ниже нуля.
// Возвращает true, если юнит погиб этим ударом.
func (s *StatsComponent) TakeDamage(amount int) bool {
	if s.HP <= 0 {
		return false
	}
	if amount < 0 {
		amount = 0
	}

	absorbed := min(s.Shield, amount)
	s.Shield -= absorbed
	amount -= absorbed

	s.HP -= amount
	if s.HP <= 0 {
		s.HP = 0
		return true
	}
	return false
}

// Heal лечит, не превышая MaxHP
func (s *StatsComponent) Heal(amount int) {
	if s.HP <= 0 {
		return // Не лечим трупы!
	}
	s.HP = min(s.HP+amount, s.MaxHP)
}

// ActionPoints - ресурсы хода
type ActionPoints struct {
	Movement    int `json:"movement"`
	MaxMovement int `json:"maxMovement"`
	Attacks     int `json:"attacks"`
	MaxAttacks  int `json:"maxAttacks"`
}

// NewActionPoints создает полный запас на ход
func NewActionPoints(movement, attacks int) ActionPoints {
	return ActionPoints{
		Movement:    movement,
		MaxMovement: movement,
		Attacks:     attacks,
		MaxAttacks:  attacks,
	}
}

// ResetTurn восстанавливает очки в начале хода стороны
func (ap *ActionPoints) ResetTurn() {
	ap.Movement = ap.MaxMovement
	ap.Attacks = ap.MaxAttacks
}

func (ap *ActionPoints) CanMove() bool {
	return ap.Movement > 0
}

func (ap *ActionPoints) CanAttack() bool {
	return ap.Attacks > 0
}

// UseMovement тратит очки движения (не ниже нуля)
func (ap *ActionPoints) UseMovement(amount int) {
	ap.Movement = max(ap.Movement-amount, 0)
}

// UseAttack тратит одну атаку (не ниже нуля)
func (ap *ActionPoints) UseAttack() {
	ap.Attacks = max(ap.Attacks-1, 0)
}
