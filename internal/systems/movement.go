// Package systems — кадровые системы симуляции: движение с откатом,
// поведение агентов, конвейерные и патрульные боты.
//
// Все функции тотальны: на вырожденном входе (нулевые векторы, пустые
// коллекции, nil-разметка) возвращают нулевое движение, а не панику.
package systems

import (
	"math"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
)

// CollideFunc проверяет, столкнется ли тело в точке (x, y) с блокером.
type CollideFunc func(x, y float64) bool

// AxisMove — параметры поосного хода.
type AxisMove struct {
	// Collide — стены и прочие сплошные блокеры.
	Collide CollideFunc

	// BlockedAt — клетки, в которые телу нельзя входить
	// (например, занятые материалом).
	BlockedAt func(c domain.Cell) bool

	Layout *domain.Layout

	// Rollback — доля отката дельты при блокировке. 1.0 — чистый
	// возврат в исходную точку, больше единицы — мягкий отскок назад.
	Rollback float64

	// OnWallHit — побочный эффект удара (зомби грызет стену).
	OnWallHit func()

	// JumpReady — прыжок через яму разрешен (решается до хода
	// по CanHumanoidJump).
	JumpReady bool

	// Jumping — тело уже в прыжке, ямы его не держат.
	Jumping bool
}

// MoveAxis применяет дельту по одной оси с откатом при блокировке.
//
// Возвращает (hit, jumped): hit — ход уперся в блокер и был откачен,
// jumped — ход завел тело в яму при готовом прыжке (позиция применена,
// вызывающий переводит тело в состояние прыжка).
func MoveAxis(m *domain.Mover, dx, dy float64, opt *AxisMove) (bool, bool) {
	if m == nil || opt == nil || (dx == 0 && dy == 0) {
		return false, false
	}

	oldX, oldY := m.X, m.Y
	m.X += dx
	m.Y += dy

	blocked := false
	pitfall := false

	if opt.Collide != nil && opt.Collide(m.X, m.Y) {
		blocked = true
	}

	var pitCell domain.Cell
	if !blocked && opt.Layout != nil {
		c := opt.Layout.CellAt(m.X, m.Y)
		cur := opt.Layout.CellAt(oldX, oldY)
		if c != cur && opt.BlockedAt != nil && opt.BlockedAt(c) {
			blocked = true
		}
		if !blocked && !opt.Jumping && opt.Layout.PitfallCells.Has(c) {
			if opt.JumpReady {
				return false, true
			}
			blocked = true
			pitfall = true
			pitCell = c
		}
	}

	if !blocked {
		return false, false
	}

	if opt.OnWallHit != nil {
		opt.OnWallHit()
	}

	rb := opt.Rollback
	if rb == 0 {
		rb = domain.DefaultRollback
	}
	m.X -= dx * rb
	m.Y -= dy * rb

	if pitfall && opt.Layout != nil {
		// Легкий отжим от центра ямы, чтобы тело не залипало на краю
		px, py := opt.Layout.CellCenter(pitCell)
		rx := m.X - px
		ry := m.Y - py
		if l := math.Hypot(rx, ry); l > 0 {
			m.X += rx / l * domain.PitfallRepel
			m.Y += ry / l * domain.PitfallRepel
		}
	}
	return true, false
}

// MoveWithRollback разводит дельту по осям: сперва X, затем Y.
// Возвращает (hitX, hitY, jumped).
func MoveWithRollback(m *domain.Mover, dx, dy float64, opt *AxisMove) (bool, bool, bool) {
	hitX, jumped := MoveAxis(m, dx, 0, opt)
	if jumped {
		return false, false, true
	}
	hitY, jumpedY := MoveAxis(m, 0, dy, opt)
	if jumpedY {
		return hitX, false, true
	}
	return hitX, hitY, false
}

// CanHumanoidJump решает, можно ли прыгнуть из точки (x, y) вдоль
// вектора движения: клетка приземления на дальности jumpRange обязана
// быть проходимой, "не яма" — недостаточно.
func CanHumanoidJump(l *domain.Layout, x, y, dx, dy, jumpRange float64) bool {
	if l == nil {
		return false
	}
	length := math.Hypot(dx, dy)
	if length == 0 {
		return false
	}
	tx := x + dx/length*jumpRange
	ty := y + dy/length*jumpRange
	return l.IsWalkable(l.CellAt(tx, ty))
}

// SeparateCircleFromWalls итеративно выталкивает круг из пересекающихся
// стен минимальным вектором проникновения. extraClearance добавляет
// зазор к выталкиванию первой попытки. Возвращает позицию и признак
// "разошлись полностью".
func SeparateCircleFromWalls(x, y, radius float64, walls []*domain.Wall, scale float64, attempts int, extraClearance float64) (float64, float64, bool) {
	if attempts < 1 {
		attempts = 1
	}
	if scale <= 0 {
		scale = 1
	}

	for i := 0; i < attempts; i++ {
		moved := false
		for _, w := range walls {
			if w == nil || !w.Alive() || !w.CollidesCircle(x, y, radius) {
				continue
			}
			px, py := circleRectPush(x, y, radius, w.Rect)
			if px == 0 && py == 0 {
				continue
			}
			if i == 0 && extraClearance > 0 {
				if l := math.Hypot(px, py); l > 0 {
					px += px / l * extraClearance
					py += py / l * extraClearance
				}
			}
			x += px * scale
			y += py * scale
			moved = true
		}
		if !moved {
			return x, y, true
		}
	}

	for _, w := range walls {
		if w != nil && w.Alive() && w.CollidesCircle(x, y, radius) {
			return x, y, false
		}
	}
	return x, y, true
}

// circleRectPush возвращает минимальный вектор, выводящий круг из
// прямоугольника. Центр внутри прямоугольника — вырожденный случай:
// выталкиваем по оси через ближайшую грань (при точном совпадении
// центров направление выбирается детерминированно).
func circleRectPush(cx, cy, radius float64, r geom.Rect) (float64, float64) {
	nx := clampf(cx, r.X, r.Right())
	ny := clampf(cy, r.Y, r.Bottom())
	dx := cx - nx
	dy := cy - ny
	distSq := dx*dx + dy*dy

	if distSq > 0 {
		dist := math.Sqrt(distSq)
		pen := radius - dist
		if pen <= 0 {
			return 0, 0
		}
		return dx / dist * pen, dy / dist * pen
	}

	left := cx - r.X
	right := r.Right() - cx
	top := cy - r.Y
	bottom := r.Bottom() - cy

	m := math.Min(math.Min(left, right), math.Min(top, bottom))
	switch m {
	case left:
		return -(left + radius), 0
	case right:
		return right + radius, 0
	case top:
		return 0, -(top + radius)
	default:
		return 0, bottom + radius
	}
}

// CollideCircleWalls собирает CollideFunc по списку стен.
func CollideCircleWalls(radius float64, walls []*domain.Wall) CollideFunc {
	return func(x, y float64) bool {
		for _, w := range walls {
			if w != nil && w.Alive() && w.CollidesCircle(x, y, radius) {
				return true
			}
		}
		return false
	}
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
