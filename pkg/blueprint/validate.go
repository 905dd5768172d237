package blueprint

import (
	"errors"
	"fmt"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
)

// Проверка связности чертежа. Две модели проходимости:
//
//   - пешеход: 8 направлений; непроходимы внешний мир, стены и ямы;
//     на клетку движущегося пола нельзя войти против направления тяги
//     (перпендикулярно и по тяге — можно);
//   - машина: 4 направления; вдобавок непроходимы горящий пол, шипы и
//     весь движущийся пол. Лужи и металлический пол машине не помеха.
//
// Для машины проходимость симметрична, поэтому достижимость от одного
// спавна покрывает и обратное направление.

var (
	errNoPlayerSpawn = errors.New("no player spawn")
	errNoExit        = errors.New("no exit")
)

func humanoidBlocked(t byte) bool {
	switch t {
	case TileOutside, TileOuterWall, TileWall, TilePitfall:
		return true
	}
	return false
}

func carBlocked(t byte) bool {
	if humanoidBlocked(t) {
		return true
	}
	switch t {
	case TileFireFloor, TileSpiky,
		TileFloorUp, TileFloorDown, TileFloorLeft, TileFloorRight:
		return true
	}
	return false
}

var steps8 = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

var steps4 = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// humanoidReach — волновой обход от стартовой клетки по пешеходной
// модели. Выходы включаются в достижимое множество, но обход через
// них не продолжается.
func humanoidReach(g Grid, from domain.Cell) domain.CellSet {
	reach := domain.NewCellSet(from)
	queue := []domain.Cell{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if g.At(cur) == TileExit {
			continue
		}
		for _, s := range steps8 {
			next := domain.Cell{X: cur.X + s[0], Y: cur.Y + s[1]}
			if reach.Has(next) {
				continue
			}
			t := g.At(next)
			if humanoidBlocked(t) {
				continue
			}
			// Вход на движущийся пол против тяги запрещен
			if dir, ok := FloorDirOf(t); ok {
				px, py := dir.Delta()
				if s[0]*px+s[1]*py < 0 {
					continue
				}
			}
			reach.Add(next)
			queue = append(queue, next)
		}
	}
	return reach
}

// carReach — волновой обход по модели машины. Через выходы обход
// продолжается наружу: победный въезд требует открытого пути за стену.
func carReach(g Grid, from domain.Cell) domain.CellSet {
	reach := domain.NewCellSet(from)
	queue := []domain.Cell{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, s := range steps4 {
			next := domain.Cell{X: cur.X + s[0], Y: cur.Y + s[1]}
			if reach.Has(next) || !g.InBounds(next) {
				continue
			}
			t := g.At(next)
			if t != TileOutside && carBlocked(t) {
				continue
			}
			// Наружу — только через проем выхода
			if t == TileOutside && g.At(cur) != TileExit && g.At(cur) != TileOutside {
				continue
			}
			reach.Add(next)
			queue = append(queue, next)
		}
	}
	return reach
}

func anyReachable(reach domain.CellSet, cells []domain.Cell) bool {
	for _, c := range cells {
		if reach.Has(c) {
			return true
		}
	}
	return false
}

// ValidateConnectivity проверяет чертеж против требований opts и
// возвращает множество клеток, достижимых машиной (пустое, если машина
// не требуется). Нарушение любого требования — ошибка с причиной.
func ValidateConnectivity(g Grid, opts Options) (domain.CellSet, error) {
	players := g.Find(TilePlayerSpawn)
	if len(players) == 0 {
		return nil, errNoPlayerSpawn
	}
	exits := g.Find(TileExit)
	if len(exits) == 0 {
		return nil, errNoExit
	}
	player := players[0]

	playerReach := humanoidReach(g, player)

	if opts.RequirePlayerExitPath && !anyReachable(playerReach, exits) {
		return nil, errors.New("player cannot reach any exit")
	}

	reachable := make(domain.CellSet)
	if opts.RequireCar {
		carSpawns := g.Find(TileCarSpawn)
		if len(carSpawns) == 0 {
			return nil, errors.New("no car spawn")
		}
		reachable = carReach(g, carSpawns[0])
		for _, c := range carSpawns[1:] {
			if !reachable.Has(c) {
				return nil, fmt.Errorf("car spawns disconnected: %v unreachable from %v", c, carSpawns[0])
			}
		}
		for _, e := range exits {
			if !reachable.Has(e) {
				return nil, fmt.Errorf("exit %v unreachable by car", e)
			}
		}
		if !playerReach.Has(carSpawns[0]) {
			return nil, errors.New("player cannot reach car spawn")
		}
	}

	if opts.RequireFuelChain {
		if err := validateFuelChain(g, playerReach); err != nil {
			return nil, err
		}
	}

	return reachable, nil
}

// validateFuelChain проверяет цепочку заправки: игрок доходит до
// пустой канистры, от нее пешком до станции, от станции до машины.
// Каждое звено — свой волновой обход, перебор жадный по кандидатам.
func validateFuelChain(g Grid, playerReach domain.CellSet) error {
	cans := g.Find(TileEmptyCan)
	stations := g.Find(TileFuelStation)
	cars := g.Find(TileCarSpawn)
	if len(cans) == 0 || len(stations) == 0 || len(cars) == 0 {
		return errors.New("fuel chain incomplete: missing can, station or car")
	}

	for _, can := range cans {
		if !playerReach.Has(can) {
			continue
		}
		canReach := humanoidReach(g, can)
		for _, st := range stations {
			if !canReach.Has(st) {
				continue
			}
			stReach := humanoidReach(g, st)
			if anyReachable(stReach, cars) {
				return nil
			}
		}
	}
	return errors.New("fuel chain broken: no walkable can -> station -> car route")
}
