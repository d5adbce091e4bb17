package domain

// --- КОМПОНЕНТЫ ЮНИТА ---

// AttackRange - дистанция атаки [Min, Max] в тайлах
type AttackRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains проверяет, попадает ли дистанция в диапазон
func (r AttackRange) Contains(distance int) bool {
	return distance >= r.Min && distance <= r.Max
}

// AttackProfile - чем и как бьет юнит
type AttackProfile struct {
	Direction AttackDirection `json:"direction"`
	Kind      AttackKind      `json:"kind"`
	Range     AttackRange     `json:"range"`
}

// MovePolicy - правила прохода через занятые клетки при поиске пути
type MovePolicy struct {
	AllowDiagonal     bool `json:"allowDiagonal" yaml:"allow_diagonal"`
	PassThroughAllies bool `json:"passThroughAllies" yaml:"pass_through_allies"`
	PassThroughOthers bool `json:"passThroughOthers" yaml:"pass_through_others"`
	IncludeStart      bool `json:"includeStart" yaml:"include_start"`
}

// DefaultMovePolicy - обычное тактическое перемещение:
// 4 направления, сквозь своих можно, сквозь чужих нельзя, стартовая клетка не цель.
func DefaultMovePolicy() MovePolicy {
	return MovePolicy{PassThroughAllies: true}
}

// Unit - данные юнита. Принадлежат внешнему миру, ядро только читает и
// меняет ресурсы (HP, очки действий) при исполнении команд.
type Unit struct {
	ID   UnitID `json:"id"`
	Name string `json:"name"`
	Team Team   `json:"team"`

	// Pos - кэш позиции на стороне юнита. Обновляется исполнителем после
	// успешного перемещения; для покадровых чтений вместо FindPositionOf.
	Pos Position `json:"pos"`

	Stats  StatsComponent `json:"stats"`
	AP     ActionPoints   `json:"ap"`
	Attack AttackProfile  `json:"attack"`
	Move   MovePolicy     `json:"move"`
	IsDead bool           `json:"isDead"`

	// Base заполняется при первом ApplyModifiers; до этого поля выше и есть база
	Base *BaseStats `json:"base,omitempty"`
	Mods Modifiers  `json:"mods"`
}

// IsAlive - юнит участвует в бою
func (u *Unit) IsAlive() bool {
	return u != nil && !u.IsDead
}

// UnitFinder описывает любую структуру, которая может находить юнит по ID.
type UnitFinder interface {
	GetUnit(id UnitID) *Unit
}

// Roster - реестр юнитов боя по дескриптору
type Roster struct {
	units map[UnitID]*Unit
	order []UnitID
	next  map[Team]uint64
}

func NewRoster() *Roster {
	return &Roster{
		units: make(map[UnitID]*Unit),
		next:  make(map[Team]uint64),
	}
}

// Register выдает юниту ID (если его нет) и добавляет в реестр
func (r *Roster) Register(u *Unit) UnitID {
	if u.ID.IsNil() {
		u.ID = PackUnitID(u.Team, r.next[u.Team])
		r.next[u.Team]++
	}
	if _, ok := r.units[u.ID]; !ok {
		r.order = append(r.order, u.ID)
	}
	r.units[u.ID] = u
	return u.ID
}

// Unregister удаляет юнит из реестра
func (r *Roster) Unregister(id UnitID) {
	if _, ok := r.units[id]; !ok {
		return
	}
	delete(r.units, id)
	for i, other := range r.order {
		if other == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// GetUnit ищет юнит по ID
func (r *Roster) GetUnit(id UnitID) *Unit {
	if r == nil {
		return nil
	}
	return r.units[id]
}

// Units возвращает юниты в порядке регистрации
func (r *Roster) Units() []*Unit {
	result := make([]*Unit, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.units[id])
	}
	return result
}

// TeamUnits возвращает живых юнитов стороны
func (r *Roster) TeamUnits(team Team) []*Unit {
	var result []*Unit
	for _, u := range r.Units() {
		if u.Team == team && u.IsAlive() {
			result = append(result, u)
		}
	}
	return result
}

func (r *Roster) Len() int {
	return len(r.units)
}
