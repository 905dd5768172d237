package domain

import "math"

// Cell — целочисленный ключ клетки тайловой сетки уровня.
type Cell struct {
	X int
	Y int
}

// CellSet — множество клеток. Категории клеток уровня (стены, провалы,
// зоны падения и т.д.) хранятся именно такими множествами.
type CellSet map[Cell]struct{}

func NewCellSet(cells ...Cell) CellSet {
	s := make(CellSet, len(cells))
	for _, c := range cells {
		s.Add(c)
	}
	return s
}

func (s CellSet) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

func (s CellSet) Add(c Cell) {
	s[c] = struct{}{}
}

func (s CellSet) Remove(c Cell) {
	delete(s, c)
}

// CellAt возвращает клетку, содержащую мировую точку.
func CellAt(x, y, cellSize float64) Cell {
	return Cell{
		X: int(math.Floor(x / cellSize)),
		Y: int(math.Floor(y / cellSize)),
	}
}

// FloorDir — направление тяги движущегося пола.
type FloorDir uint8

const (
	FloorUp FloorDir = iota
	FloorDown
	FloorLeft
	FloorRight
)

// Delta возвращает единичное смещение направления в клетках.
func (d FloorDir) Delta() (int, int) {
	switch d {
	case FloorUp:
		return 0, -1
	case FloorDown:
		return 0, 1
	case FloorLeft:
		return -1, 0
	case FloorRight:
		return 1, 0
	}
	return 0, 0
}

func (d FloorDir) String() string {
	switch d {
	case FloorUp:
		return "up"
	case FloorDown:
		return "down"
	case FloorLeft:
		return "left"
	case FloorRight:
		return "right"
	}
	return "?"
}
