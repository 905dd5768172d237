// Package blueprint — генерация текстовых чертежей уровня и проверка
// их связности.
//
// Чертеж — сетка односимвольных тегов клеток. Это единственный контракт
// между генерацией и слоем расстановки сущностей: движок читает готовую
// сетку и не знает, каким алгоритмом она получена.
package blueprint

import (
	"strings"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
)

// Легенда тегов клеток.
const (
	TileEmpty      byte = '.'
	TileOutside    byte = 'O' // снаружи здания, победный въезд машиной
	TileOuterWall  byte = 'B'
	TileWall       byte = '1'
	TileExit       byte = 'E' // проем во внешней стене
	TilePitfall    byte = 'x'
	TileFireFloor  byte = 'F'
	TileMetalFloor byte = 'm'
	TileSpiky      byte = 'h'
	TilePuddle     byte = 'w'

	TileFloorUp    byte = '^'
	TileFloorDown  byte = 'v'
	TileFloorLeft  byte = '<'
	TileFloorRight byte = '>'

	TilePlayerSpawn byte = 'P'
	TileCarSpawn    byte = 'C'
	TileZombieSpawn byte = 'Z'

	TileFuelStation byte = 'f'
	TileEmptyCan    byte = 'e'
	TileFlashlight  byte = 'l'
	TileShoes       byte = 's'
)

// Grid — сетка тегов, [row][col].
type Grid [][]byte

// NewGrid создает сетку, заполненную пустым полом.
func NewGrid(cols, rows int) Grid {
	g := make(Grid, rows)
	for y := range g {
		row := make([]byte, cols)
		for x := range row {
			row[x] = TileEmpty
		}
		g[y] = row
	}
	return g
}

// ParseGrid разбирает чертеж из построчного текста (для тестов и
// отладочных дампов). Пустые строки по краям отбрасываются.
func ParseGrid(text string) Grid {
	var g Grid
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		g = append(g, []byte(line))
	}
	return g
}

// Cols возвращает ширину сетки в клетках.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Rows возвращает высоту сетки в клетках.
func (g Grid) Rows() int {
	return len(g)
}

// InBounds проверяет попадание клетки в сетку.
func (g Grid) InBounds(c domain.Cell) bool {
	return c.Y >= 0 && c.Y < len(g) && c.X >= 0 && c.X < len(g[c.Y])
}

// At возвращает тег клетки. Вне сетки — TileOutside: все, что за
// краем, трактуется как внешний мир.
func (g Grid) At(c domain.Cell) byte {
	if !g.InBounds(c) {
		return TileOutside
	}
	return g[c.Y][c.X]
}

// Set записывает тег клетки (вне сетки — no-op).
func (g Grid) Set(c domain.Cell, t byte) {
	if g.InBounds(c) {
		g[c.Y][c.X] = t
	}
}

// Find возвращает все клетки с данным тегом в порядке строк.
func (g Grid) Find(t byte) []domain.Cell {
	var out []domain.Cell
	for y, row := range g {
		for x, c := range row {
			if c == t {
				out = append(out, domain.Cell{X: x, Y: y})
			}
		}
	}
	return out
}

// String возвращает чертеж построчно (отладочный дамп).
func (g Grid) String() string {
	var sb strings.Builder
	for _, row := range g {
		sb.Write(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FloorDirOf переводит тег движущегося пола в направление тяги.
func FloorDirOf(t byte) (domain.FloorDir, bool) {
	switch t {
	case TileFloorUp:
		return domain.FloorUp, true
	case TileFloorDown:
		return domain.FloorDown, true
	case TileFloorLeft:
		return domain.FloorLeft, true
	case TileFloorRight:
		return domain.FloorRight, true
	}
	return 0, false
}

// Zone — прямоугольник клеток (границы включительно).
type Zone struct {
	X0, Y0, X1, Y1 int
}

// Cells возвращает клетки зоны, обрезанные по сетке.
func (z Zone) Cells(g Grid) []domain.Cell {
	var out []domain.Cell
	for y := z.Y0; y <= z.Y1; y++ {
		for x := z.X0; x <= z.X1; x++ {
			c := domain.Cell{X: x, Y: y}
			if g.InBounds(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// FloorRun — полоса движущегося пола: старт, длина, направление тяги.
type FloorRun struct {
	X, Y int
	Len  int
	Dir  domain.FloorDir
}

// Blueprint — результат генерации: сетка плюс производные множества.
type Blueprint struct {
	Grid Grid

	// SteelCells — клетки с вмурованными балками (вскрываются
	// разрушением накрывающей стены).
	SteelCells domain.CellSet

	// CarReachable — клетки, достижимые машиной от ее спавна.
	// Заполняется валидатором связности.
	CarReachable domain.CellSet
}
