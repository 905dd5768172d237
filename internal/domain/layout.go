package domain

import (
	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
)

// Layout — агрегат клеточной разметки уровня: build-once, read-many.
//
// Собирается целиком из валидированного чертежа при старте стадии и
// заменяется новым экземпляром при генерации следующего уровня. Частичные
// мутации запрещены, кроме одного случая: разрушение стены убирает её
// клетку из WallCells/OuterWallCells и может добавить клетку в
// SteelBeamCells (вскрытие балки).
type Layout struct {
	GridW    int
	GridH    int
	CellSize float64

	// FieldRect — границы игрового поля в мировых координатах.
	FieldRect geom.Rect

	OutsideCells   CellSet // за пределами здания, въезд машиной = победа
	OuterWallCells CellSet
	WallCells      CellSet
	SteelBeamCells CellSet // вскрытые балки, непроходимы и неразрушимы
	PitfallCells   CellSet
	FireFloorCells CellSet
	MaterialCells  CellSet // клетки, занятые лежащими материалами
	FallSpawnCells CellSet // клетки, над которыми могут падать зомби
	SpikyCells     CellSet
	PuddleCells    CellSet
	MetalCells     CellSet
	ExitCells      CellSet

	// MovingFloorCells — клетки с направленной тягой.
	MovingFloorCells map[Cell]FloorDir

	// wallIndexDirty — в этом кадре умерла стена, индексы по стенам
	// устарели. Взводится колбэками разрушения, забирается движком.
	wallIndexDirty bool
}

// NewLayout создает пустую разметку поля заданного размера.
func NewLayout(gridW, gridH int, cellSize float64) *Layout {
	return &Layout{
		GridW:    gridW,
		GridH:    gridH,
		CellSize: cellSize,
		FieldRect: geom.Rect{
			X: 0, Y: 0,
			W: float64(gridW) * cellSize,
			H: float64(gridH) * cellSize,
		},
		OutsideCells:     make(CellSet),
		OuterWallCells:   make(CellSet),
		WallCells:        make(CellSet),
		SteelBeamCells:   make(CellSet),
		PitfallCells:     make(CellSet),
		FireFloorCells:   make(CellSet),
		MaterialCells:    make(CellSet),
		FallSpawnCells:   make(CellSet),
		SpikyCells:       make(CellSet),
		PuddleCells:      make(CellSet),
		MetalCells:       make(CellSet),
		ExitCells:        make(CellSet),
		MovingFloorCells: make(map[Cell]FloorDir),
	}
}

// CellAt возвращает клетку, содержащую мировую точку.
func (l *Layout) CellAt(x, y float64) Cell {
	return CellAt(x, y, l.CellSize)
}

// CellCenter возвращает мировой центр клетки.
func (l *Layout) CellCenter(c Cell) (float64, float64) {
	return (float64(c.X) + 0.5) * l.CellSize, (float64(c.Y) + 0.5) * l.CellSize
}

// CellRect возвращает мировой прямоугольник клетки.
func (l *Layout) CellRect(c Cell) geom.Rect {
	return geom.Rect{
		X: float64(c.X) * l.CellSize,
		Y: float64(c.Y) * l.CellSize,
		W: l.CellSize,
		H: l.CellSize,
	}
}

// InBounds проверяет, что клетка лежит внутри сетки.
func (l *Layout) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < l.GridW && c.Y >= 0 && c.Y < l.GridH
}

// IsSolid проверяет, занята ли клетка непроходимым препятствием
// (стены, балки). Используется wall-hug зондами и edge nudge.
func (l *Layout) IsSolid(c Cell) bool {
	return l.WallCells.Has(c) || l.OuterWallCells.Has(c) || l.SteelBeamCells.Has(c)
}

// IsWalkable проверяет, что гуманоид может СТОЯТЬ на клетке.
// Требование для приземления прыжка: клетка должна быть явно проходимой,
// а не просто "не провалом" — прыгать в неопределённость нельзя.
func (l *Layout) IsWalkable(c Cell) bool {
	if !l.InBounds(c) {
		return false
	}
	if l.IsSolid(c) {
		return false
	}
	if l.PitfallCells.Has(c) || l.OutsideCells.Has(c) {
		return false
	}
	return true
}

// IsHazardForBot проверяет клетки, в которые линейные боты не заезжают:
// провалы, внешние стены и зона снаружи здания.
func (l *Layout) IsHazardForBot(c Cell) bool {
	if !l.InBounds(c) {
		return true
	}
	return l.PitfallCells.Has(c) || l.OuterWallCells.Has(c) || l.OutsideCells.Has(c)
}

// FloorDirAt возвращает направление тяги пола под точкой.
func (l *Layout) FloorDirAt(x, y float64) (FloorDir, bool) {
	d, ok := l.MovingFloorCells[l.CellAt(x, y)]
	return d, ok
}

// MarkWallIndexDirty взводит флаг перестройки индекса стен.
func (l *Layout) MarkWallIndexDirty() {
	l.wallIndexDirty = true
}

// ConsumeWallIndexDirty возвращает и сбрасывает флаг.
func (l *Layout) ConsumeWallIndexDirty() bool {
	d := l.wallIndexDirty
	l.wallIndexDirty = false
	return d
}
