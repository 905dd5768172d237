package blueprint

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/logger"
)

// Алгоритмы расстановки внутренних стен. Каждый работает на готовой
// сетке с внешней стеной и выходами; клетки, примыкающие к выходам
// (включая диагонали), для стен запрещены — выход не должен оказаться
// замурованным еще на этапе генерации.

// Параметры дефолтного алгоритма.
const (
	defaultWallLines = 80
	wallMinLen       = 3
	wallMaxLen       = 10
)

type wallAlgoFunc func(rng *rand.Rand, g Grid, density float64)

// resolveWallAlgo разбирает имя алгоритма стен. Разреженные алгоритмы
// несут плотность в процентах суффиксом: "sparse_moore.12" — 12%.
// Неизвестное имя откатывается на "default" с предупреждением.
func resolveWallAlgo(name string) (wallAlgoFunc, float64) {
	base := name
	density := 0.10
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		if pct, err := strconv.Atoi(name[i+1:]); err == nil {
			base = name[:i]
			density = float64(pct) / 100
		}
	}

	switch base {
	case "", "default":
		return placeWallsDefault, density
	case "empty":
		return placeWallsEmpty, density
	case "grid_wire":
		return placeWallsGridWire, density
	case "sparse_moore":
		return placeWallsSparseMoore, density
	case "sparse_ortho":
		return placeWallsSparseOrtho, density
	}

	logger.Log.WithField("wall_algo", name).Warn("unknown wall algorithm, falling back to default")
	return placeWallsDefault, density
}

// exitAdjacentCells собирает выходы и их соседей (включая диагонали).
func exitAdjacentCells(g Grid) domain.CellSet {
	forbidden := make(domain.CellSet)
	for y, row := range g {
		for x, t := range row {
			if t != TileExit {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					c := domain.Cell{X: x + dx, Y: y + dy}
					if g.InBounds(c) {
						forbidden.Add(c)
					}
				}
			}
		}
	}
	return forbidden
}

// placeWallsDefault разбрасывает случайные отрезки стен: количество и
// длина фиксированы константами, занятые и запретные клетки внутри
// отрезка просто пропускаются.
func placeWallsDefault(rng *rand.Rand, g Grid, _ float64) {
	cols, rows := g.Cols(), g.Rows()
	forbidden := exitAdjacentCells(g)

	for n := 0; n < defaultWallLines; n++ {
		length := wallMinLen + rng.Intn(wallMaxLen-wallMinLen+1)
		if rng.Intn(2) == 0 {
			// Горизонтальный отрезок
			if cols-2-length <= 2 || rows-3 <= 2 {
				continue
			}
			y := 2 + rng.Intn(rows-5)
			x := 2 + rng.Intn(cols-4-length)
			for i := 0; i < length; i++ {
				c := domain.Cell{X: x + i, Y: y}
				if forbidden.Has(c) {
					continue
				}
				if t := g.At(c); t == TileEmpty || t == TileZombieSpawn {
					g.Set(c, TileWall)
				}
			}
		} else {
			if rows-2-length <= 2 || cols-3 <= 2 {
				continue
			}
			x := 2 + rng.Intn(cols-5)
			y := 2 + rng.Intn(rows-4-length)
			for i := 0; i < length; i++ {
				c := domain.Cell{X: x, Y: y + i}
				if forbidden.Has(c) {
					continue
				}
				if t := g.At(c); t == TileEmpty || t == TileZombieSpawn {
					g.Set(c, TileWall)
				}
			}
		}
	}
}

// placeWallsEmpty — открытая планировка без внутренних стен.
func placeWallsEmpty(*rand.Rand, Grid, float64) {}

// placeWallsGridWire кладет стены в два независимых слоя — отдельно
// вертикальные и горизонтальные отрезки, — чтобы одна ориентация не
// мешала другой во время генерации. Внутри слоя запрещено параллельное
// примыкание: отрезок не ложится вплотную к соседнему той же
// ориентации. В конце слои сливаются в основную сетку.
func placeWallsGridWire(rng *rand.Rand, g Grid, _ float64) {
	cols, rows := g.Cols(), g.Rows()
	forbidden := exitAdjacentCells(g)

	layerV := NewGrid(cols, rows)
	layerH := NewGrid(cols, rows)
	linesPerPass := defaultWallLines * 7 / 10

	// Слой вертикальных отрезков
	for n := 0; n < linesPerPass; n++ {
		length := wallMinLen + rng.Intn(wallMaxLen-wallMinLen+1)
		if rows-4-length <= 0 || cols-5 <= 0 {
			continue
		}
		x := 2 + rng.Intn(cols-5)
		y := 2 + rng.Intn(rows-4-length)

		ok := true
		for i := 0; i < length; i++ {
			c := domain.Cell{X: x, Y: y + i}
			if forbidden.Has(c) || g.At(c) != TileEmpty || layerV.At(c) != TileEmpty {
				ok = false
				break
			}
			if layerV.At(domain.Cell{X: x - 1, Y: y + i}) == TileWall ||
				layerV.At(domain.Cell{X: x + 1, Y: y + i}) == TileWall {
				ok = false
				break
			}
		}
		if ok {
			for i := 0; i < length; i++ {
				layerV.Set(domain.Cell{X: x, Y: y + i}, TileWall)
			}
		}
	}

	// Слой горизонтальных отрезков
	for n := 0; n < linesPerPass; n++ {
		length := wallMinLen + rng.Intn(wallMaxLen-wallMinLen+1)
		if cols-4-length <= 0 || rows-5 <= 0 {
			continue
		}
		x := 2 + rng.Intn(cols-4-length)
		y := 2 + rng.Intn(rows-5)

		ok := true
		for i := 0; i < length; i++ {
			c := domain.Cell{X: x + i, Y: y}
			if forbidden.Has(c) || g.At(c) != TileEmpty || layerH.At(c) != TileEmpty {
				ok = false
				break
			}
			if layerH.At(domain.Cell{X: x + i, Y: y - 1}) == TileWall ||
				layerH.At(domain.Cell{X: x + i, Y: y + 1}) == TileWall {
				ok = false
				break
			}
		}
		if ok {
			for i := 0; i < length; i++ {
				layerH.Set(domain.Cell{X: x + i, Y: y}, TileWall)
			}
		}
	}

	// Слияние слоев
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := domain.Cell{X: x, Y: y}
			if g.At(c) != TileEmpty {
				continue
			}
			if layerV.At(c) == TileWall || layerH.At(c) == TileWall {
				g.Set(c, TileWall)
			}
		}
	}
}

// placeWallsSparseMoore — одиночные стены с заданной плотностью,
// без соседства по окрестности Мура (8 соседей).
func placeWallsSparseMoore(rng *rand.Rand, g Grid, density float64) {
	placeWallsSparse(rng, g, density, true)
}

// placeWallsSparseOrtho — одиночные стены, свободны должны быть только
// ортогональные соседи (диагональное касание разрешено).
func placeWallsSparseOrtho(rng *rand.Rand, g Grid, density float64) {
	placeWallsSparse(rng, g, density, false)
}

func placeWallsSparse(rng *rand.Rand, g Grid, density float64, moore bool) {
	cols, rows := g.Cols(), g.Rows()
	forbidden := exitAdjacentCells(g)

	for y := 2; y < rows-2; y++ {
		for x := 2; x < cols-2; x++ {
			c := domain.Cell{X: x, Y: y}
			if forbidden.Has(c) || g.At(c) != TileEmpty {
				continue
			}
			if rng.Float64() >= density {
				continue
			}
			if hasWallNeighbor(g, c, moore) {
				continue
			}
			g.Set(c, TileWall)
		}
	}
}

func hasWallNeighbor(g Grid, c domain.Cell, moore bool) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if !moore && dx != 0 && dy != 0 {
				continue
			}
			if g.At(domain.Cell{X: c.X + dx, Y: c.Y + dy}) == TileWall {
				return true
			}
		}
	}
	return false
}
