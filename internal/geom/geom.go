package geom

import "math"

// Vec2 — точка или вектор в мировых координатах.
//
// Vec2 является value-type: дешёвое копирование, никаких указателей
// в горячих путях коллизий.
type Vec2 struct {
	X float64
	Y float64
}

// Add возвращает сумму векторов.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub возвращает разность векторов.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Len возвращает длину вектора.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// LenSq возвращает квадрат длины (для сравнений без корня).
func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalized возвращает единичный вектор того же направления.
// Нулевой вектор возвращается как есть (деление на ноль недопустимо).
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Scale возвращает вектор, умноженный на скаляр.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Rect — прямоугольник: левый верхний угол + размеры.
// Оси направлены как на экране: X вправо, Y вниз.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// NewRectFromCenter строит прямоугольник по центру и размерам.
func NewRectFromCenter(cx, cy, w, h float64) Rect {
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// Right возвращает координату правой грани.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom возвращает координату нижней грани.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX возвращает X центра.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY возвращает Y центра.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Center возвращает центр прямоугольника.
func (r Rect) Center() Vec2 { return Vec2{r.CenterX(), r.CenterY()} }

// ContainsPoint проверяет, лежит ли точка внутри (границы включены).
func (r Rect) ContainsPoint(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Intersects проверяет пересечение двух прямоугольников (касание считается).
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.W && r.X+r.W >= o.X &&
		r.Y <= o.Y+o.H && r.Y+r.H >= o.Y
}

// Inflate возвращает прямоугольник, расширенный на dx/dy в обе стороны
// (отрицательные значения сужают). Центр сохраняется.
func (r Rect) Inflate(dx, dy float64) Rect {
	return Rect{
		X: r.X - dx/2,
		Y: r.Y - dy/2,
		W: r.W + dx,
		H: r.H + dy,
	}
}

// Corners возвращает вершины прямоугольника по часовой стрелке,
// начиная с левого верхнего угла.
func (r Rect) Corners() [4]Vec2 {
	return [4]Vec2{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X + r.W, r.Y + r.H},
		{r.X, r.Y + r.H},
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
