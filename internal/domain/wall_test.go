package domain

import (
	"testing"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
)

func TestWallTakeDamage_DestroyFiresExactlyOnce(t *testing.T) {
	layout := NewLayout(10, 10, 40)
	cell := Cell{X: 3, Y: 3}
	layout.WallCells.Add(cell)

	w := NewWall(layout.CellRect(cell), cell, WallInner, 5, 0, 0)

	destroyCount := 0
	w.OnDestroy = func() {
		destroyCount++
		layout.WallCells.Remove(cell)
		layout.MarkWallIndexDirty()
	}

	// Урон по частям, сверх максимума
	w.TakeDamage(2)
	if !w.Alive() {
		t.Fatal("Expected wall alive after partial damage")
	}
	w.TakeDamage(2)
	w.TakeDamage(2) // добивание (итого 6 >= 5)
	w.TakeDamage(10) // урон по мертвой стене

	if w.Alive() {
		t.Error("Expected wall destroyed")
	}
	if destroyCount != 1 {
		t.Errorf("Expected OnDestroy to fire exactly once, fired %d times", destroyCount)
	}
	if layout.WallCells.Has(cell) {
		t.Error("Expected cell removed from wall set")
	}
	if !layout.ConsumeWallIndexDirty() {
		t.Error("Expected wall index marked dirty")
	}
	if layout.ConsumeWallIndexDirty() {
		t.Error("Expected dirty flag consumed")
	}
}

func TestWallTakeDamage_PanickingCallbackStillDestroys(t *testing.T) {
	w := NewWall(geom.Rect{X: 0, Y: 0, W: 40, H: 40}, Cell{}, WallInner, 1, 0, 0)
	w.OnDestroy = func() {
		panic("broken callback")
	}

	w.TakeDamage(1)

	// Паника колбэка не должна оставить стену в полуразрушенном состоянии
	if w.Alive() {
		t.Error("Expected wall destroyed despite panicking callback")
	}
	if w.Health != 0 {
		t.Errorf("Expected health 0, got %d", w.Health)
	}
}

func TestWallTakeDamage_IgnoresNonPositive(t *testing.T) {
	w := NewWall(geom.Rect{X: 0, Y: 0, W: 40, H: 40}, Cell{}, WallInner, 3, 0, 0)

	w.TakeDamage(0)
	w.TakeDamage(-5)

	if w.Health != 3 {
		t.Errorf("Expected health unchanged, got %d", w.Health)
	}
}

func TestWallBevelPolygonAffectsCollision(t *testing.T) {
	// Стена 40x40 со срезанным правым верхним углом глубиной 12:
	//
	//   +-----\
	//   |      \
	//   |       |
	//   +-------+
	//
	w := NewWall(geom.Rect{X: 0, Y: 0, W: 40, H: 40}, Cell{}, WallReinforced, 10, BevelTopRight, 12)

	if w.Polygon() == nil {
		t.Fatal("Expected bevel polygon to be built")
	}

	// Точка у срезанного угла: прямоугольник бы столкнулся, полигон - нет.
	// Угол (40,0) срезан линией (28,0)-(40,12); точка (37,3) лежит выше нее.
	if w.CollidesCircle(37, 3, 1) {
		t.Error("Expected no collision in the cut corner")
	}
	if !geom.CircleRectCollision(37, 3, 1, w.Rect) {
		t.Error("Sanity: plain rect must collide at the same point")
	}

	// Середина стены сталкивается в любом случае
	if !w.CollidesCircle(20, 20, 1) {
		t.Error("Expected collision at wall center")
	}

	// Рядом с нескошенным углом все как у прямоугольника
	if !w.CollidesCircle(-2, 20, 3) {
		t.Error("Expected collision at the flat left edge")
	}
}

func TestSteelBeamHiddenUntilReveal(t *testing.T) {
	layout := NewLayout(10, 10, 40)
	cell := Cell{X: 2, Y: 2}
	layout.WallCells.Add(cell)

	beam := NewSteelBeam(layout.CellRect(cell), cell, 8)

	// Скрытая балка не сталкивается и не числится в клетках
	if beam.CollidesCircle(100, 100, 50) {
		t.Error("Expected hidden beam to collide with nothing")
	}
	if layout.SteelBeamCells.Has(cell) {
		t.Error("Expected no beam cell before reveal")
	}

	w := NewWall(layout.CellRect(cell), cell, WallInner, 2, 0, 0)
	w.Beam = beam
	w.OnDestroy = func() {
		layout.WallCells.Remove(cell)
		beam.Activate(layout)
		layout.MarkWallIndexDirty()
	}

	w.TakeDamage(2)

	if !beam.Active {
		t.Fatal("Expected beam activated by wall destruction")
	}
	if !layout.SteelBeamCells.Has(cell) {
		t.Error("Expected beam cell registered after reveal")
	}
	cx, cy := layout.CellCenter(cell)
	if !beam.CollidesCircle(cx, cy, 1) {
		t.Error("Expected active beam to collide at cell center")
	}

	// Повторная активация - no-op
	beam.Activate(layout)
	if !layout.SteelBeamCells.Has(cell) {
		t.Error("Expected beam cell still registered")
	}
}
