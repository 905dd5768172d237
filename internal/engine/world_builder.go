package engine

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/blueprint"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/logger"
)

// Прочность стен и параметры скосов.
const (
	wallInnerHealth  = 4
	wallOuterHealth  = 12
	wallRubbleHealth = 2

	wallBevelDepth = 12.0
	steelBeamInset = 8.0
)

// World — построенный уровень: разметка, живые стены и списки
// кандидатов для спавна. Собирается один раз на сессию.
type World struct {
	Layout *domain.Layout
	Grid   blueprint.Grid

	// Walls — живые стены. Мертвые вычищаются движком по dirty-флагу.
	Walls []*domain.Wall

	PlayerSpawn  domain.Cell
	CarSpawns    []domain.Cell
	ZombieSpawns []domain.Cell

	FuelStationCells []domain.Cell
	EmptyCanCells    []domain.Cell
	FlashlightCells  []domain.Cell
	ShoesCells       []domain.Cell

	// CarReachable — клетки, достижимые машиной (из валидатора).
	CarReachable domain.CellSet

	// OnWallDestroyed — хук движка: событие разрушения для клиентов.
	OnWallDestroyed func(cell domain.Cell)
}

// BuildWorld переводит валидированный чертеж в разметку и сущности стен.
func BuildWorld(bp *blueprint.Blueprint, stage Stage, rng *rand.Rand) *World {
	stage = stage.normalized()
	g := bp.Grid
	l := domain.NewLayout(g.Cols(), g.Rows(), stage.TileSize)

	w := &World{
		Layout:       l,
		Grid:         g,
		CarReachable: bp.CarReachable,
	}

	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Cols(); x++ {
			c := domain.Cell{X: x, Y: y}
			switch t := g.At(c); t {
			case blueprint.TileOutside:
				l.OutsideCells.Add(c)
			case blueprint.TileOuterWall:
				l.OuterWallCells.Add(c)
				// Угловые сегменты кольца получают фаски и усиленный
				// вариант: по срезу соскальзывают и зомби, и машина.
				kind := domain.WallOuter
				mask := outerBevelMask(g, c)
				if mask != 0 {
					kind = domain.WallReinforced
				}
				w.addWall(c, kind, wallOuterHealth, mask, bp.SteelCells)
			case blueprint.TileWall:
				l.WallCells.Add(c)
				kind := domain.WallInner
				health := wallInnerHealth
				if rng.Float64() < stage.WallRubbleRatio {
					kind = domain.WallRubble
					health = wallRubbleHealth
				}
				w.addWall(c, kind, health, 0, bp.SteelCells)
			case blueprint.TileExit:
				l.ExitCells.Add(c)
			case blueprint.TilePitfall:
				l.PitfallCells.Add(c)
			case blueprint.TileFireFloor:
				l.FireFloorCells.Add(c)
			case blueprint.TileMetalFloor:
				l.MetalCells.Add(c)
			case blueprint.TilePuddle:
				l.PuddleCells.Add(c)
			case blueprint.TileSpiky:
				l.SpikyCells.Add(c)
			case blueprint.TilePlayerSpawn:
				w.PlayerSpawn = c
			case blueprint.TileCarSpawn:
				w.CarSpawns = append(w.CarSpawns, c)
			case blueprint.TileZombieSpawn:
				w.ZombieSpawns = append(w.ZombieSpawns, c)
			case blueprint.TileFuelStation:
				w.FuelStationCells = append(w.FuelStationCells, c)
			case blueprint.TileEmptyCan:
				w.EmptyCanCells = append(w.EmptyCanCells, c)
			case blueprint.TileFlashlight:
				w.FlashlightCells = append(w.FlashlightCells, c)
			case blueprint.TileShoes:
				w.ShoesCells = append(w.ShoesCells, c)
			default:
				if dir, ok := blueprint.FloorDirOf(t); ok {
					l.MovingFloorCells[c] = dir
				}
			}
		}
	}

	w.markFallSpawnCells(stage, rng)

	logger.Log.WithFields(logrus.Fields{
		"grid":       [2]int{g.Cols(), g.Rows()},
		"walls":      len(w.Walls),
		"car_spawns": len(w.CarSpawns),
	}).Debug("world built")

	return w
}

// addWall создает стену с замыканием разрушения: чистка клеточных
// множеств, вскрытие балки, dirty-флаг индекса и событие для клиентов.
func (w *World) addWall(c domain.Cell, kind domain.WallKind, health int, bevel domain.BevelMask, steel domain.CellSet) {
	l := w.Layout
	wall := domain.NewWall(l.CellRect(c), c, kind, health, bevel, wallBevelDepth)

	if steel.Has(c) {
		wall.Beam = domain.NewSteelBeam(l.CellRect(c), c, steelBeamInset)
	}

	wall.OnDestroy = func() {
		l.WallCells.Remove(c)
		l.OuterWallCells.Remove(c)
		if wall.Beam != nil {
			wall.Beam.Activate(l)
		}
		l.MarkWallIndexDirty()
		if w.OnWallDestroyed != nil {
			w.OnWallDestroyed(c)
		}
	}

	w.Walls = append(w.Walls, wall)
}

// outerBevelMask вычисляет маску скошенных углов стены внешнего кольца.
// Угол срезается, только если оба ортогональных соседа и диагональ со
// стороны угла — не стены; край сетки считается стеной.
func outerBevelMask(g blueprint.Grid, c domain.Cell) domain.BevelMask {
	solid := func(dx, dy int) bool {
		n := domain.Cell{X: c.X + dx, Y: c.Y + dy}
		if !g.InBounds(n) {
			return true
		}
		switch g.At(n) {
		case blueprint.TileWall, blueprint.TileOuterWall:
			return true
		}
		return false
	}

	var mask domain.BevelMask
	if !solid(-1, 0) && !solid(0, -1) && !solid(-1, -1) {
		mask |= domain.BevelTopLeft
	}
	if !solid(1, 0) && !solid(0, -1) && !solid(1, -1) {
		mask |= domain.BevelTopRight
	}
	if !solid(1, 0) && !solid(0, 1) && !solid(1, 1) {
		mask |= domain.BevelBottomRight
	}
	if !solid(-1, 0) && !solid(0, 1) && !solid(-1, 1) {
		mask |= domain.BevelBottomLeft
	}
	return mask
}

// markFallSpawnCells собирает клетки, над которыми могут падать зомби:
// явные зоны стадии плюс случайная доля проходимого пола.
func (w *World) markFallSpawnCells(stage Stage, rng *rand.Rand) {
	l := w.Layout
	for _, z := range stage.FallSpawnZones {
		for _, c := range z.Cells(w.Grid) {
			if l.IsWalkable(c) {
				l.FallSpawnCells.Add(c)
			}
		}
	}

	if stage.FallSpawnFloorRatio <= 0 {
		return
	}
	for y := 0; y < l.GridH; y++ {
		for x := 0; x < l.GridW; x++ {
			c := domain.Cell{X: x, Y: y}
			if !l.IsWalkable(c) || l.FallSpawnCells.Has(c) {
				continue
			}
			if rng.Float64() < stage.FallSpawnFloorRatio {
				l.FallSpawnCells.Add(c)
			}
		}
	}
}

// AliveWalls отфильтровывает мертвые стены после кадра с разрушениями.
func (w *World) AliveWalls() []*domain.Wall {
	alive := w.Walls[:0]
	for _, wall := range w.Walls {
		if wall.Alive() {
			alive = append(alive, wall)
		}
	}
	w.Walls = alive
	return alive
}

// WallAt возвращает живую стену в клетке (nil — нет).
func (w *World) WallAt(c domain.Cell) *domain.Wall {
	for _, wall := range w.Walls {
		if wall.Alive() && wall.Cell == c {
			return wall
		}
	}
	return nil
}
