package scenario

import (
	"fmt"
	"math/rand"
	"os"

	"tactics-server/internal/domain"
	"tactics-server/internal/engine"
	"tactics-server/pkg/logger"
	"tactics-server/pkg/utils"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Scenario - расстановка боя: поле, препятствия, стоимость клеток, юниты.
// Читается из YAML или собирается в коде через fluent-методы.
type Scenario struct {
	Name      string           `yaml:"name"`
	Width     int              `yaml:"width"`
	Height    int              `yaml:"height"`
	Obstacles []Point          `yaml:"obstacles"`
	Costs     []TileCost       `yaml:"costs"`
	Random    *RandomObstacles `yaml:"random_obstacles"`
	Units     []UnitSpec       `yaml:"units"`
}

type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (p Point) Position() domain.Position {
	return domain.Pos(p.X, p.Y)
}

type TileCost struct {
	X    int   `yaml:"x"`
	Y    int   `yaml:"y"`
	Cost uint8 `yaml:"cost"`
}

// RandomObstacles - случайные препятствия на свободных клетках.
// Один и тот же Seed дает одну и ту же расстановку; Seed 0 берется из имени сценария.
type RandomObstacles struct {
	Count int   `yaml:"count"`
	Seed  int64 `yaml:"seed"`
}

// UnitSpec - юнит сценария. Нулевые поля берутся из шаблона.
type UnitSpec struct {
	Template string      `yaml:"template"`
	Name     string      `yaml:"name"`
	Team     string      `yaml:"team"`
	X        int         `yaml:"x"`
	Y        int         `yaml:"y"`
	HP       int         `yaml:"hp"`
	Shield   int         `yaml:"shield"`
	Damage   int         `yaml:"damage"`
	Movement int         `yaml:"movement"`
	Attacks  int         `yaml:"attacks"`
	Attack   *AttackSpec `yaml:"attack"`

	// Mods накладываются поверх шаблона и переопределений
	Mods *domain.Modifiers `yaml:"mods"`
}

type AttackSpec struct {
	Direction string `yaml:"direction"` // CARDINAL, EIGHT_WAY
	Kind      string `yaml:"kind"`      // DIRECT, INDIRECT
	Min       int    `yaml:"min"`
	Max       int    `yaml:"max"`
}

// New создает пустой сценарий заданного размера
func New(name string, width, height int) *Scenario {
	return &Scenario{Name: name, Width: width, Height: height}
}

// WithObstacles добавляет препятствия
func (s *Scenario) WithObstacles(points ...Point) *Scenario {
	s.Obstacles = append(s.Obstacles, points...)
	return s
}

// WithCost задает стоимость прохода клетки
func (s *Scenario) WithCost(x, y int, cost uint8) *Scenario {
	s.Costs = append(s.Costs, TileCost{X: x, Y: y, Cost: cost})
	return s
}

// WithRandomObstacles разбрасывает count препятствий по свободным клеткам
func (s *Scenario) WithRandomObstacles(count int, seed int64) *Scenario {
	s.Random = &RandomObstacles{Count: count, Seed: seed}
	return s
}

// Spawn добавляет юнит из шаблона
func (s *Scenario) Spawn(template, name string, team domain.Team, x, y int) *Scenario {
	s.Units = append(s.Units, UnitSpec{Template: template, Name: name, Team: team.String(), X: x, Y: y})
	return s
}

// Load читает сценарий из YAML-файла
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Parse разбирает и проверяет YAML-сценарий
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate проверяет то, что можно проверить без поля.
// Занятость и границы проверяет бой при расстановке.
func (s *Scenario) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid grid size %dx%d", s.Width, s.Height)
	}
	if s.Random != nil && s.Random.Count < 0 {
		return fmt.Errorf("random obstacle count cannot be negative, got %d", s.Random.Count)
	}
	for i, u := range s.Units {
		if _, ok := Templates[u.Template]; !ok {
			return fmt.Errorf("unit #%d: unknown template %q", i, u.Template)
		}
		if domain.ParseTeam(u.Team) == domain.TeamNone {
			return fmt.Errorf("unit #%d: unknown team %q", i, u.Team)
		}
		if a := u.Attack; a != nil && a.Max < a.Min {
			return fmt.Errorf("unit #%d: attack range [%d,%d] is empty", i, a.Min, a.Max)
		}
	}
	return nil
}

// Build создает бой и расставляет на нем сценарий.
// Первый кадр переносит расстановку в пространственный индекс.
func (s *Scenario) Build(cfg engine.Config) (*engine.Battle, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	b := engine.NewBattle(s.Width, s.Height, cfg)

	for _, p := range s.Obstacles {
		if !b.PlaceObstacle(p.Position()) {
			return nil, fmt.Errorf("obstacle at %v: out of bounds or occupied", p.Position())
		}
	}
	for _, c := range s.Costs {
		if !b.SetTileCost(domain.Pos(c.X, c.Y), c.Cost) {
			return nil, fmt.Errorf("tile cost at (%d,%d): out of bounds", c.X, c.Y)
		}
	}
	for _, spec := range s.Units {
		if _, err := b.Spawn(spec.unit(), domain.Pos(spec.X, spec.Y)); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
	}
	placed := s.scatter(b)

	b.Tick()

	logger.Log.WithFields(logrus.Fields{
		"component": "scenario",
		"name":      s.Name,
		"size":      fmt.Sprintf("%dx%d", s.Width, s.Height),
		"units":     len(s.Units),
		"obstacles": len(s.Obstacles) + placed,
	}).Info("Scenario built.")
	return b, nil
}

// scatter ставит случайные препятствия. Попыток ограниченное число,
// поэтому на тесном поле препятствий может выйти меньше, чем заказано.
func (s *Scenario) scatter(b *engine.Battle) int {
	if s.Random == nil || s.Random.Count == 0 {
		return 0
	}
	seed := s.Random.Seed
	if seed == 0 {
		seed = utils.StringToSeed(s.Name)
	}
	rng := rand.New(rand.NewSource(seed))

	placed := 0
	for attempt := 0; attempt < s.Random.Count*20 && placed < s.Random.Count; attempt++ {
		p := domain.Pos(rng.Intn(s.Width), rng.Intn(s.Height))
		if b.PlaceObstacle(p) {
			placed++
		}
	}
	return placed
}

func (spec UnitSpec) unit() *domain.Unit {
	u := Templates[spec.Template].Spawn(spec.Name, domain.ParseTeam(spec.Team))

	if spec.HP > 0 {
		u.Stats.HP, u.Stats.MaxHP = spec.HP, spec.HP
	}
	if spec.Shield > 0 {
		u.Stats.Shield, u.Stats.MaxShield = spec.Shield, spec.Shield
	}
	if spec.Damage > 0 {
		u.Stats.Damage = spec.Damage
	}
	if spec.Movement > 0 {
		u.AP.Movement, u.AP.MaxMovement = spec.Movement, spec.Movement
	}
	if spec.Attacks > 0 {
		u.AP.Attacks, u.AP.MaxAttacks = spec.Attacks, spec.Attacks
	}
	if a := spec.Attack; a != nil {
		u.Attack = domain.AttackProfile{
			Direction: domain.ParseAttackDirection(a.Direction),
			Kind:      domain.ParseAttackKind(a.Kind),
			Range:     domain.AttackRange{Min: a.Min, Max: a.Max},
		}
	}
	if spec.Mods != nil {
		// Юнит выходит на поле с полным запасом уже по итоговым параметрам
		u.ApplyModifiers(*spec.Mods)
		u.Stats.HP, u.Stats.Shield = u.Stats.MaxHP, u.Stats.MaxShield
		u.AP.ResetTurn()
	}
	return u
}
