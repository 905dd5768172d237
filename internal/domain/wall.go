package domain

import (
	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/logger"
)

// WallKind — категория стены. Закрытое перечисление вместо иерархии
// спрайтов: поведение одинаковое, различаются палитра и фаски.
type WallKind uint8

const (
	WallInner WallKind = iota
	WallOuter
	WallReinforced
	// WallRubble — визуально повёрнутый завал. Контракт здоровья и
	// коллизий тот же, что у обычной стены, фасок не бывает.
	WallRubble
)

func (k WallKind) String() string {
	switch k {
	case WallInner:
		return "inner"
	case WallOuter:
		return "outer"
	case WallReinforced:
		return "reinforced"
	case WallRubble:
		return "rubble"
	}
	return "?"
}

// BevelMask — битовая маска срезанных углов стены.
type BevelMask uint8

const (
	BevelTopLeft BevelMask = 1 << iota
	BevelTopRight
	BevelBottomRight
	BevelBottomLeft
)

// Wall — разрушаемая стена.
//
// Создаётся генерацией уровня, умирает от накопленного урона.
// Мутируется ТОЛЬКО через TakeDamage: внешний код не трогает здоровье
// и не снимает стену с клетки сам.
type Wall struct {
	Rect geom.Rect
	Cell Cell
	Kind WallKind

	Health    int
	MaxHealth int

	Bevel      BevelMask
	BevelDepth float64

	// OnDestroy вызывается ровно один раз при падении здоровья до нуля.
	// Паника в колбэке перехватывается и логируется: разрушение обязано
	// завершиться, состояние стены не должно остаться половинчатым.
	OnDestroy func()

	// Beam — скрытая балка, вскрываемая разрушением (опционально).
	Beam *SteelBeam

	// polygon — коллизионный полигон со срезанными углами.
	// Вычисляется один раз в NewWall, nil для стен без фасок.
	polygon []geom.Vec2

	destroyed bool
}

// NewWall создает стену и один раз вычисляет её коллизионный полигон.
// Фаска — часть коллизионной поверхности, а не только отрисовки: зомби
// соскальзывают по срезанным углам, и nudge-логика это использует.
func NewWall(rect geom.Rect, cell Cell, kind WallKind, health int, bevel BevelMask, bevelDepth float64) *Wall {
	w := &Wall{
		Rect:       rect,
		Cell:       cell,
		Kind:       kind,
		Health:     health,
		MaxHealth:  health,
		Bevel:      bevel,
		BevelDepth: bevelDepth,
	}
	if bevel != 0 && bevelDepth > 0 {
		w.polygon = buildBevelPolygon(rect, bevel, bevelDepth)
	}
	return w
}

// buildBevelPolygon строит выпуклый полигон прямоугольника со
// срезанными углами. Обход по часовой стрелке с левого верхнего угла.
func buildBevelPolygon(r geom.Rect, mask BevelMask, depth float64) []geom.Vec2 {
	d := depth
	if d > r.W/2 {
		d = r.W / 2
	}
	if d > r.H/2 {
		d = r.H / 2
	}

	pts := make([]geom.Vec2, 0, 8)

	if mask&BevelTopLeft != 0 {
		pts = append(pts, geom.Vec2{X: r.X, Y: r.Y + d}, geom.Vec2{X: r.X + d, Y: r.Y})
	} else {
		pts = append(pts, geom.Vec2{X: r.X, Y: r.Y})
	}

	if mask&BevelTopRight != 0 {
		pts = append(pts, geom.Vec2{X: r.Right() - d, Y: r.Y}, geom.Vec2{X: r.Right(), Y: r.Y + d})
	} else {
		pts = append(pts, geom.Vec2{X: r.Right(), Y: r.Y})
	}

	if mask&BevelBottomRight != 0 {
		pts = append(pts, geom.Vec2{X: r.Right(), Y: r.Bottom() - d}, geom.Vec2{X: r.Right() - d, Y: r.Bottom()})
	} else {
		pts = append(pts, geom.Vec2{X: r.Right(), Y: r.Bottom()})
	}

	if mask&BevelBottomLeft != 0 {
		pts = append(pts, geom.Vec2{X: r.X + d, Y: r.Bottom()}, geom.Vec2{X: r.X, Y: r.Bottom() - d})
	} else {
		pts = append(pts, geom.Vec2{X: r.X, Y: r.Bottom()})
	}

	return pts
}

// Alive сообщает, стоит ли еще стена.
func (w *Wall) Alive() bool {
	return !w.destroyed
}

// Polygon возвращает коллизионный полигон (nil для прямых стен).
func (w *Wall) Polygon() []geom.Vec2 {
	return w.polygon
}

// TakeDamage наносит стене урон. При падении здоровья до нуля стена
// помечается мёртвой и OnDestroy стреляет ровно один раз. Урон по
// мёртвой стене игнорируется.
func (w *Wall) TakeDamage(amount int) {
	if w.destroyed || amount <= 0 {
		return
	}

	w.Health -= amount
	if w.Health > 0 {
		return
	}

	w.Health = 0
	w.destroyed = true

	// Колбэк отвечает за снятие клетки с множеств разметки, вскрытие
	// балки и пометку индекса стен устаревшим.
	if w.OnDestroy != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Log.WithField("cell", w.Cell).
						Errorf("wall on_destroy callback panicked: %v", r)
				}
			}()
			w.OnDestroy()
		}()
	}
}

// CollidesCircle проверяет пересечение стены с окружностью.
// При наличии фасок опрашивается полигон, а не прямоугольник.
func (w *Wall) CollidesCircle(cx, cy, radius float64) bool {
	if w.polygon != nil {
		return geom.CirclePolygonCollision(cx, cy, radius, w.polygon)
	}
	return geom.CircleRectCollision(cx, cy, radius, w.Rect)
}

// CollidesRect проверяет пересечение стены с прямоугольником.
func (w *Wall) CollidesRect(r geom.Rect) bool {
	if w.polygon != nil {
		return geom.RectPolygonCollision(r, w.polygon)
	}
	return w.Rect.Intersects(r)
}

// SteelBeam — балка, вмурованная в клетку стены. Неразрушима.
//
// До разрушения несущей стены балка скрыта: её нет ни в живых
// коллекциях, ни в SteelBeamCells. Activate вызывается из OnDestroy
// стены и вводит балку в игру.
type SteelBeam struct {
	Rect   geom.Rect
	Cell   Cell
	Active bool
}

// NewSteelBeam создает скрытую балку внутри клетки, с отступом от краёв.
func NewSteelBeam(cellRect geom.Rect, cell Cell, inset float64) *SteelBeam {
	return &SteelBeam{
		Rect: cellRect.Inflate(-inset*2, -inset*2),
		Cell: cell,
	}
}

// Activate вводит балку в активные коллекции. Повторный вызов — no-op.
func (b *SteelBeam) Activate(l *Layout) {
	if b.Active {
		return
	}
	b.Active = true
	l.SteelBeamCells.Add(b.Cell)
}

// CollidesCircle проверяет пересечение с окружностью. Скрытая балка
// не сталкивается ни с чем.
func (b *SteelBeam) CollidesCircle(cx, cy, radius float64) bool {
	if !b.Active {
		return false
	}
	return geom.CircleRectCollision(cx, cy, radius, b.Rect)
}
