package domain

import (
	"math"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
)

// Mover — общее подвижное тело: позиция центра и радиус коллизии.
// Встраивается во все движущиеся сущности; Center удовлетворяет
// интерфейсу пространственного индекса.
type Mover struct {
	X      float64
	Y      float64
	Radius float64
}

// Center возвращает координаты центра тела.
func (m *Mover) Center() (float64, float64) {
	return m.X, m.Y
}

// CollisionRadius возвращает радиус коллизии.
func (m *Mover) CollisionRadius() float64 {
	return m.Radius
}

// Pos возвращает центр тела как вектор.
func (m *Mover) Pos() geom.Vec2 {
	return geom.Vec2{X: m.X, Y: m.Y}
}

// DistanceTo возвращает расстояние между центрами тел.
func (m *Mover) DistanceTo(o *Mover) float64 {
	return math.Hypot(m.X-o.X, m.Y-o.Y)
}

// DistanceSqTo возвращает квадрат расстояния (для сравнений без корня).
func (m *Mover) DistanceSqTo(o *Mover) float64 {
	dx := m.X - o.X
	dy := m.Y - o.Y
	return dx*dx + dy*dy
}
