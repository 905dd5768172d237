package blueprint

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/logger"
)

// ErrGeneration — чертеж с требуемой связностью не получился за
// отведенное число попыток. Вызывающий обязан счесть попытку
// провальной (другой сид или ошибка наружу), а не играть на битой
// сетке.
var ErrGeneration = errors.New("blueprint generation failed")

// GenerationAttempts — предел попыток генерации на один сид.
const GenerationAttempts = 20

// Поля спавна: отступ от краев и число кандидатов.
const (
	spawnMargin      = 3
	steelBeamChance  = 0.02
	pickAttemptLimit = 2000
)

// Options — параметры генерации одного чертежа.
type Options struct {
	Cols int
	Rows int

	// WallAlgo — имя алгоритма внутренних стен: default, empty,
	// grid_wire, sparse_moore.N, sparse_ortho.N (N — плотность в %).
	WallAlgo string

	ExitsPerSide int

	// SteelBeamChance — шанс вмурованной балки на клетку (0 — дефолт).
	SteelBeamChance float64

	PitfallDensity float64
	PitfallZones   []Zone

	FireFloorDensity float64
	FireFloorZones   []Zone

	MetalFloorDensity float64
	PuddleDensity     float64
	SpikyDensity      float64

	MovingFloorRuns []FloorRun

	ZombieSpawns int
	CarSpawns    int

	FuelStations int
	EmptyCans    int
	Flashlights  int
	Shoes        int

	// Требования связности (передаются валидатору).
	RequireCar            bool
	RequireFuelChain      bool
	RequirePlayerExitPath bool
}

func (o Options) normalized() Options {
	if o.Cols < 8 {
		o.Cols = domain.DefaultGridW
	}
	if o.Rows < 8 {
		o.Rows = domain.DefaultGridH
	}
	if o.ExitsPerSide < 1 {
		o.ExitsPerSide = 1
	}
	if o.SteelBeamChance <= 0 {
		o.SteelBeamChance = steelBeamChance
	}
	if o.CarSpawns < 1 && o.RequireCar {
		o.CarSpawns = 1
	}
	return o
}

// GenerateValid генерирует чертеж и проверяет связность, перебирая
// сиды seed+attempt до первого годного. Исчерпание попыток — явная
// ошибка генерации.
func GenerateValid(seed int64, opts Options) (*Blueprint, error) {
	opts = opts.normalized()

	for attempt := 0; attempt < GenerationAttempts; attempt++ {
		rng := rand.New(rand.NewSource(seed + int64(attempt)))
		bp := Generate(rng, opts)

		reachable, err := ValidateConnectivity(bp.Grid, opts)
		if err != nil {
			logger.Log.WithFields(logrus.Fields{
				"seed":    seed,
				"attempt": attempt,
				"reason":  err.Error(),
			}).Debug("blueprint rejected")
			continue
		}

		bp.CarReachable = reachable
		return bp, nil
	}

	return nil, fmt.Errorf("%w: no valid connectivity after %d attempts (seed %d)",
		ErrGeneration, GenerationAttempts, seed)
}

// Generate строит один чертеж без проверки связности.
func Generate(rng *rand.Rand, opts Options) *Blueprint {
	opts = opts.normalized()
	g := initGrid(opts.Cols, opts.Rows)
	placeExits(rng, g, opts.ExitsPerSide)

	algo, density := resolveWallAlgo(opts.WallAlgo)
	algo(rng, g, density)

	steel := placeSteelBeams(rng, g, opts.SteelBeamChance)

	scatterOnFloor(rng, g, TilePitfall, opts.PitfallDensity)
	fillZones(g, TilePitfall, opts.PitfallZones)
	scatterOnFloor(rng, g, TileFireFloor, opts.FireFloorDensity)
	fillZones(g, TileFireFloor, opts.FireFloorZones)
	scatterOnFloor(rng, g, TileMetalFloor, opts.MetalFloorDensity)
	scatterOnFloor(rng, g, TilePuddle, opts.PuddleDensity)
	scatterOnFloor(rng, g, TileSpiky, opts.SpikyDensity)

	stampFloorRuns(g, opts.MovingFloorRuns)

	placeSpawns(rng, g, opts, steel)

	return &Blueprint{Grid: g, SteelCells: steel}
}

// initGrid строит каркас: полоса снаружи, полоса внешней стены, пол.
func initGrid(cols, rows int) Grid {
	g := NewGrid(cols, rows)
	for x := 0; x < cols; x++ {
		g[0][x] = TileOutside
		g[rows-1][x] = TileOutside
	}
	for y := 0; y < rows; y++ {
		g[y][0] = TileOutside
		g[y][cols-1] = TileOutside
	}
	for x := 1; x < cols-1; x++ {
		g[1][x] = TileOuterWall
		g[rows-2][x] = TileOuterWall
	}
	for y := 1; y < rows-1; y++ {
		g[y][1] = TileOuterWall
		g[y][cols-2] = TileOuterWall
	}
	return g
}

// placeExits пробивает проемы во внешней стене: по exitsPerSide на
// каждую сторону, с отступом от углов и несколькими попытками ухода
// от дубликатов.
func placeExits(rng *rand.Rand, g Grid, exitsPerSide int) {
	cols, rows := g.Cols(), g.Rows()
	used := make(domain.CellSet)

	pick := func(side int) domain.Cell {
		switch side {
		case 0: // верх
			return domain.Cell{X: 2 + rng.Intn(cols-4), Y: 1}
		case 1: // низ
			return domain.Cell{X: 2 + rng.Intn(cols-4), Y: rows - 2}
		case 2: // лево
			return domain.Cell{X: 1, Y: 2 + rng.Intn(rows-4)}
		default: // право
			return domain.Cell{X: cols - 2, Y: 2 + rng.Intn(rows-4)}
		}
	}

	for side := 0; side < 4; side++ {
		for n := 0; n < exitsPerSide; n++ {
			c := pick(side)
			for retry := 0; retry < 10 && used.Has(c); retry++ {
				c = pick(side)
			}
			used.Add(c)
			g.Set(c, TileExit)
		}
	}
}

// placeSteelBeams выбирает клетки вмурованных балок: пол или стена,
// вне соседства с выходами.
func placeSteelBeams(rng *rand.Rand, g Grid, chance float64) domain.CellSet {
	cols, rows := g.Cols(), g.Rows()
	forbidden := exitAdjacentCells(g)
	beams := make(domain.CellSet)

	for y := 2; y < rows-2; y++ {
		for x := 2; x < cols-2; x++ {
			c := domain.Cell{X: x, Y: y}
			if forbidden.Has(c) {
				continue
			}
			if t := g.At(c); t != TileEmpty && t != TileWall {
				continue
			}
			if rng.Float64() < chance {
				beams.Add(c)
			}
		}
	}
	return beams
}

// scatterOnFloor рассыпает тег по пустому полу интерьера с заданной
// плотностью.
func scatterOnFloor(rng *rand.Rand, g Grid, t byte, density float64) {
	if density <= 0 {
		return
	}
	cols, rows := g.Cols(), g.Rows()
	forbidden := exitAdjacentCells(g)

	for y := 2; y < rows-2; y++ {
		for x := 2; x < cols-2; x++ {
			c := domain.Cell{X: x, Y: y}
			if forbidden.Has(c) || g.At(c) != TileEmpty {
				continue
			}
			if rng.Float64() < density {
				g.Set(c, t)
			}
		}
	}
}

// fillZones заливает тегом все пустые клетки перечисленных зон.
func fillZones(g Grid, t byte, zones []Zone) {
	for _, z := range zones {
		for _, c := range z.Cells(g) {
			if g.At(c) == TileEmpty {
				g.Set(c, t)
			}
		}
	}
}

// stampFloorRuns прокладывает полосы движущегося пола. Полоса идет
// вдоль собственного направления тяги и кладется только на пустой пол.
func stampFloorRuns(g Grid, runs []FloorRun) {
	for _, run := range runs {
		dx, dy := run.Dir.Delta()
		var t byte
		switch run.Dir {
		case domain.FloorUp:
			t = TileFloorUp
		case domain.FloorDown:
			t = TileFloorDown
		case domain.FloorLeft:
			t = TileFloorLeft
		default:
			t = TileFloorRight
		}
		for i := 0; i < run.Len; i++ {
			c := domain.Cell{X: run.X + dx*i, Y: run.Y + dy*i}
			if g.At(c) == TileEmpty {
				g.Set(c, t)
			}
		}
	}
}

// placeSpawns расставляет кандидатов спавна и предметы по пустым
// клеткам с отступом от краев; клетки балок запрещены.
func placeSpawns(rng *rand.Rand, g Grid, opts Options, steel domain.CellSet) {
	place := func(t byte, count int) {
		for i := 0; i < count; i++ {
			c := pickEmptyCell(rng, g, spawnMargin, steel)
			g.Set(c, t)
		}
	}

	place(TilePlayerSpawn, 1)
	if opts.RequireCar {
		place(TileCarSpawn, opts.CarSpawns)
	}
	place(TileZombieSpawn, opts.ZombieSpawns)
	place(TileFuelStation, opts.FuelStations)
	place(TileEmptyCan, opts.EmptyCans)
	place(TileFlashlight, opts.Flashlights)
	place(TileShoes, opts.Shoes)
}

// pickEmptyCell ищет пустую клетку с отступом margin от краев.
// После лимита случайных попыток переходит на линейный скан; совсем
// безнадежная сетка дает центр поля (валидатор ее все равно отбросит).
func pickEmptyCell(rng *rand.Rand, g Grid, margin int, forbidden domain.CellSet) domain.Cell {
	cols, rows := g.Cols(), g.Rows()
	for i := 0; i < pickAttemptLimit; i++ {
		c := domain.Cell{
			X: margin + rng.Intn(cols-2*margin),
			Y: margin + rng.Intn(rows-2*margin),
		}
		if g.At(c) == TileEmpty && !forbidden.Has(c) {
			return c
		}
	}
	for y := margin; y < rows-margin; y++ {
		for x := margin; x < cols-margin; x++ {
			c := domain.Cell{X: x, Y: y}
			if g.At(c) == TileEmpty && !forbidden.Has(c) {
				return c
			}
		}
	}
	return domain.Cell{X: cols / 2, Y: rows / 2}
}
