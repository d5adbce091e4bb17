package scenario

import "tactics-server/internal/domain"

// Level1 - поле 11x11, боец игрока в центре, три врага по углам
// и четыре колонны вокруг центра.
func Level1() *Scenario {
	return New("level_1", 11, 11).
		WithObstacles(Point{3, 3}, Point{7, 3}, Point{3, 7}, Point{7, 7}).
		Spawn("soldier", "Player", domain.TeamAlly, 5, 5).
		Spawn("archer", "", domain.TeamEnemy, 5, 0).
		Spawn("brute", "", domain.TeamEnemy, 0, 10).
		Spawn("mortar", "", domain.TeamEnemy, 10, 10)
}

// Builtin возвращает встроенный сценарий по имени
func Builtin(name string) (*Scenario, bool) {
	switch name {
	case "level_1", "":
		return Level1(), true
	}
	return nil, false
}
