package domain

// Material — переносимый объект (ящик стройматериала).
//
// Инвариант: материал несёт не более одного бота одновременно.
// CarriedBy — слабая обратная ссылка: умерший бот не обязан её
// чистить, но лежащий на полу материал всегда имеет NilEntityID.
type Material struct {
	Mover

	ID EntityID

	CarriedBy EntityID

	// Cell — клетка, в которой материал лежит (валидна только когда
	// не переносится). Лежащий материал блокирует свою клетку.
	Cell Cell

	Dead bool
}

// NewMaterial создает материал размера size в точке (x, y).
// Радиус — половина размера, но не меньше 1.
func NewMaterial(x, y, size float64, cell Cell) *Material {
	r := size / 2
	if r < 1 {
		r = 1
	}
	return &Material{
		Mover: Mover{X: x, Y: y, Radius: r},
		Cell:  cell,
	}
}

// Carried сообщает, что материал сейчас в руках у бота.
func (m *Material) Carried() bool {
	return !m.CarriedBy.IsNil()
}

// PlaceAt кладет материал на пол в указанную точку и клетку.
func (m *Material) PlaceAt(x, y float64, cell Cell) {
	m.X = x
	m.Y = y
	m.Cell = cell
	m.CarriedBy = NilEntityID
}

// CarrierBot — линейный бот-носильщик.
//
// Патрулирует одну ось, разворачивается на любом препятствии, подбирает
// материал только при ПОЛНОМ геометрическом перекрытии (одна окружность
// внутри другой, не просто близость) и после подбора сразу
// разворачивается.
type CarrierBot struct {
	Mover

	ID EntityID

	// AxisX: true — патрулирует по X, false — по Y.
	AxisX bool

	// Dir — знак направления вдоль оси (+1 / -1).
	Dir float64

	Speed float64

	// CarryingID — переносимый материал (NilEntityID — пусто).
	CarryingID EntityID

	// Дистанционный (не временной) кулдаун на только что брошенный
	// материал: пока бот не отошел от точки сброса, повторный подбор
	// запрещен.
	LastDroppedID EntityID
	LastDropX     float64
	LastDropY     float64

	Dead bool
}

// NewCarrierBot создает носильщика в точке (x, y) на оси axisX
// со знаком направления dir.
func NewCarrierBot(x, y float64, axisX bool, dir, speed, radius float64) *CarrierBot {
	if dir >= 0 {
		dir = 1
	} else {
		dir = -1
	}
	return &CarrierBot{
		Mover: Mover{X: x, Y: y, Radius: radius},
		AxisX: axisX,
		Dir:   dir,
		Speed: speed,
	}
}

// Carrying сообщает, несет ли бот материал.
func (b *CarrierBot) Carrying() bool {
	return !b.CarryingID.IsNil()
}

// Reverse разворачивает бота вдоль его оси.
func (b *CarrierBot) Reverse() {
	b.Dir = -b.Dir
}

// DirVector возвращает направление движения как вектор.
func (b *CarrierBot) DirVector() (float64, float64) {
	if b.AxisX {
		return b.Dir, 0
	}
	return 0, b.Dir
}
