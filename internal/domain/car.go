package domain

import "github.com/tos-kamiya/zombie-escape-sub001/internal/geom"

// Car — машина. Побег: заправленная машина, выехавшая на клетку
// снаружи здания, завершает уровень победой.
//
// Коллизии машины нарочно проще гуманоидных: один проход раздвижки от
// ближайших стен вместо поосевого отката. Машина крупнее и быстрее,
// поэтому мягкое выталкивание выглядит естественно и дешевле считается.
type Car struct {
	Mover

	ID EntityID

	W float64
	H float64

	Speed float64

	FacingX float64
	FacingY float64

	// Fueled: без топлива машина не едет (стадии с дозаправкой).
	Fueled bool

	// Waiting — "машина ожидания": стоит снаружи, подбирается игроком
	// на стадиях эвакуации.
	Waiting bool

	Dead bool
}

// BodyRect возвращает прямоугольник кузова (для спавна и пересечений
// с зонами, коллизии со стенами идут по кругу Mover).
func (c *Car) BodyRect() geom.Rect {
	return geom.NewRectFromCenter(c.X, c.Y, c.W, c.H)
}
